package mutation

import (
	"context"

	"github.com/koinonia-app/core/internal/common"
	"github.com/koinonia-app/core/internal/effects"
	"github.com/koinonia-app/core/internal/entity"
	"github.com/koinonia-app/core/internal/remote"
	"github.com/koinonia-app/core/internal/store"
	"github.com/koinonia-app/core/pkg/errorx"
	"github.com/koinonia-app/core/pkg/storage"
	"github.com/koinonia-app/core/pkg/xcontext"
)

// CreatePost shares a post, optionally with an image. The image is optimised
// and uploaded before any row is written; an upload failure aborts the whole
// operation.
func (g *Gateway) CreatePost(ctx context.Context, content string, image []byte, imageMime string) error {
	me, ok := g.actor()
	if !ok {
		return nil
	}

	if g.throttled("create_post") {
		return nil
	}

	imageURL := ""
	if len(image) > 0 {
		optimised, err := common.OptimizeImage(imageMime, image, common.PostImageSize)
		if err != nil {
			return g.fail(ctx, err, "Could not process your image")
		}

		uploaded, err := g.blob.Upload(ctx, &storage.UploadObject{
			Bucket:   g.bucket,
			Prefix:   "posts",
			FileName: "post.jpg",
			Mime:     imageMime,
			Data:     optimised,
		})
		if err != nil {
			return g.fail(ctx, err, "Could not upload your image")
		}

		imageURL = uploaded.Url
	}

	_, err := createRow[entity.Post](ctx, g, entity.TablePosts, map[string]any{
		"author_id": me,
		"content":   content,
		"image_url": imageURL,
		"is_pinned": false,
	})
	if err != nil {
		return g.fail(ctx, err, "Could not share your post")
	}

	g.effects.CheckBadges(ctx, me, entity.ActionPostCreated)
	g.effects.AwardPoints(ctx, me, 5)
	g.feedback.Success("Post shared")
	return nil
}

// DeletePost removes a post and all its dependents. The remote has no
// cascading deletes, so comments and reactions go first, then the post, and
// every removal is mirrored locally in one pass.
func (g *Gateway) DeletePost(ctx context.Context, postID string) error {
	if _, ok := g.actor(); !ok {
		return nil
	}

	if err := g.remote.Delete(ctx, entity.TableComments, remote.Eq("post_id", postID)); err != nil {
		return g.fail(ctx, err, "Could not delete the post")
	}

	if err := g.remote.Delete(ctx, entity.TableReactions, remote.Eq("post_id", postID)); err != nil {
		return g.fail(ctx, err, "Could not delete the post")
	}

	if err := g.remote.Delete(ctx, entity.TablePosts, remote.Eq("id", postID)); err != nil {
		return g.fail(ctx, err, "Could not delete the post")
	}

	store.RemoveWhere(g.store, entity.TableComments, func(c entity.Comment) bool {
		return c.PostID == postID
	})
	store.RemoveWhere(g.store, entity.TableReactions, func(r entity.Reaction) bool {
		return r.PostID == postID
	})
	store.Remove[entity.Post](g.store, entity.TablePosts, postID)

	g.feedback.Success("Post deleted")
	return nil
}

// TogglePin flips a post's pinned flag, leaders only.
func (g *Gateway) TogglePin(ctx context.Context, postID string) error {
	me, err := g.leader()
	if err != nil {
		return g.fail(ctx, err, "Only leaders can pin posts")
	}
	if me == "" {
		return nil
	}

	post, ok := store.Get[entity.Post](g.store, entity.TablePosts, postID)
	if !ok {
		return g.fail(ctx, errorx.New(errorx.NotFound, "post %s", postID), "Post not found")
	}

	_, err = updateRow[entity.Post](ctx, g, entity.TablePosts, postID, map[string]any{
		"is_pinned": !post.IsPinned,
	})
	if err != nil {
		return g.fail(ctx, err, "Could not pin the post")
	}

	return nil
}

// ToggleReaction inserts a reaction of the given type when absent and removes
// it when present, computed from the store immediately before the write.
func (g *Gateway) ToggleReaction(ctx context.Context, postID string, reactionType entity.ReactionType) error {
	me, ok := g.actor()
	if !ok {
		return nil
	}

	existing, found := store.Find(g.store, entity.TableReactions, func(r entity.Reaction) bool {
		return r.PostID == postID && r.UserID == me && r.Type == reactionType
	})

	if found {
		if err := deleteRow[entity.Reaction](ctx, g, entity.TableReactions, existing.ID); err != nil {
			return g.fail(ctx, err, "Could not remove your reaction")
		}

		return nil
	}

	row, err := g.remote.Insert(ctx, entity.TableReactions, map[string]any{
		"post_id": postID,
		"user_id": me,
		"type":    string(reactionType),
	})
	if err != nil {
		// Someone double-tapped: the row already exists, which is exactly the
		// state the toggle wanted.
		if errorx.IsAlreadyExists(err) {
			xcontext.Logger(ctx).Debugf("Reaction already present on post %s", postID)
			return nil
		}

		return g.fail(ctx, err, "Could not add your reaction")
	}

	reaction, err := remote.DecodeRow[entity.Reaction](row)
	if err != nil {
		return g.fail(ctx, err, "Could not add your reaction")
	}

	store.Append(g.store, entity.TableReactions, *reaction)

	if post, ok := store.Get[entity.Post](g.store, entity.TablePosts, postID); ok {
		g.effects.Notify(ctx, effects.NotificationInput{
			ActorID:     me,
			RecipientID: post.AuthorID,
			Type:        entity.NotificationReaction,
			Title:       "New reaction",
			Body:        g.displayName(me) + " reacted to your post",
			Link:        "/posts/" + postID,
		})
	}

	return nil
}

// AddComment adds a comment or a reply under a post.
func (g *Gateway) AddComment(ctx context.Context, postID string, parentID *string, content string) error {
	me, ok := g.actor()
	if !ok {
		return nil
	}

	if g.throttled("add_comment") {
		return nil
	}

	values := map[string]any{
		"post_id":   postID,
		"author_id": me,
		"content":   content,
	}
	if parentID != nil {
		values["parent_id"] = *parentID
	}

	_, err := createRow[entity.Comment](ctx, g, entity.TableComments, values)
	if err != nil {
		return g.fail(ctx, err, "Could not add your comment")
	}

	recipient, notificationType := "", entity.NotificationComment
	if parentID != nil {
		notificationType = entity.NotificationReply
		if parent, ok := store.Get[entity.Comment](g.store, entity.TableComments, *parentID); ok {
			recipient = parent.AuthorID
		}
	} else if post, ok := store.Get[entity.Post](g.store, entity.TablePosts, postID); ok {
		recipient = post.AuthorID
	}

	g.effects.Notify(ctx, effects.NotificationInput{
		ActorID:     me,
		RecipientID: recipient,
		Type:        notificationType,
		Title:       "New comment",
		Body:        g.displayName(me) + " commented: " + content,
		Link:        "/posts/" + postID,
	})

	g.effects.CheckBadges(ctx, me, entity.ActionCommentAdded)
	g.effects.AwardPoints(ctx, me, 2)
	g.feedback.Success("Comment added")
	return nil
}

func (g *Gateway) DeleteComment(ctx context.Context, commentID string) error {
	if _, ok := g.actor(); !ok {
		return nil
	}

	if err := deleteRow[entity.Comment](ctx, g, entity.TableComments, commentID); err != nil {
		return g.fail(ctx, err, "Could not delete the comment")
	}

	g.feedback.Success("Comment deleted")
	return nil
}
