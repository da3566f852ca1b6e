package mutation

import (
	"context"
	"strings"
	"testing"

	"github.com/koinonia-app/core/internal/entity"
	"github.com/koinonia-app/core/internal/remote"
	"github.com/koinonia-app/core/internal/store"
	"github.com/koinonia-app/core/pkg/errorx"
	"github.com/koinonia-app/core/pkg/storage"
	"github.com/koinonia-app/core/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_CreatePost_FirstPostJourney(t *testing.T) {
	fx := newGatewayFixture(t, testutil.John)

	require.NoError(t, fx.gateway.CreatePost(fx.ctx, "Hello church!", nil, ""))

	posts := store.Rows[entity.Post](fx.store, entity.TablePosts)
	require.Len(t, posts, 1)
	require.Equal(t, testutil.John, posts[0].AuthorID)
	require.NotEmpty(t, posts[0].ID)

	// The first post crosses the badge threshold: exactly one award and one
	// badge notification for the author.
	awards := fx.remote.Rows(entity.TableUserBadges)
	require.Len(t, awards, 1)
	require.Equal(t, testutil.BadgeFirstPost, awards[0]["badge_id"])
	require.Equal(t, 1, fx.remote.CountRows(entity.TableNotifications, map[string]any{
		"user_id": testutil.John, "type": "badge_earned",
	}))
	require.Contains(t, fx.remote.Calls, "increment_points")

	// The second post must not award again.
	require.NoError(t, fx.gateway.CreatePost(fx.ctx, "Another one", nil, ""))
	require.Len(t, fx.remote.Rows(entity.TableUserBadges), 1)
	require.Equal(t, 1, fx.remote.CountRows(entity.TableNotifications, map[string]any{
		"user_id": testutil.John, "type": "badge_earned",
	}))
	require.Len(t, store.Rows[entity.Post](fx.store, entity.TablePosts), 2)
}

func Test_CreatePost_WithImage(t *testing.T) {
	fx := newGatewayFixture(t, testutil.John)

	require.NoError(t, fx.gateway.CreatePost(fx.ctx, "Look at this", pngBytes(t), "image/png"))

	posts := store.Rows[entity.Post](fx.store, entity.TablePosts)
	require.Len(t, posts, 1)
	require.True(t, strings.HasPrefix(posts[0].ImageURL, "https://files.test/"))
}

func Test_CreatePost_UploadFailureAborts(t *testing.T) {
	fx := newGatewayFixture(t, testutil.John)
	fx.gateway.blob = &testutil.MockStorage{
		UploadFunc: func(ctx context.Context, obj *storage.UploadObject) (*storage.UploadResponse, error) {
			return nil, errorx.New(errorx.UploadFailed, "bucket unavailable")
		},
	}

	err := fx.gateway.CreatePost(fx.ctx, "Look at this", pngBytes(t), "image/png")
	require.Error(t, err)
	require.Empty(t, fx.remote.Rows(entity.TablePosts))
	require.NotEmpty(t, fx.errorMessages())
}

func Test_DeletePost_CascadesToDependents(t *testing.T) {
	fx := newGatewayFixture(t, testutil.Mary)
	require.NoError(t, fx.gateway.CreatePost(fx.ctx, "Post with traffic", nil, ""))
	postID := store.Rows[entity.Post](fx.store, entity.TablePosts)[0].ID

	fx.as(t, testutil.John)
	require.NoError(t, fx.gateway.AddComment(fx.ctx, postID, nil, "Amen"))
	require.NoError(t, fx.gateway.AddComment(fx.ctx, postID, nil, "So true"))
	require.NoError(t, fx.gateway.ToggleReaction(fx.ctx, postID, entity.ReactionHeart))

	fx.as(t, testutil.Mary)
	require.NoError(t, fx.gateway.ToggleReaction(fx.ctx, postID, entity.ReactionAmen))

	require.NoError(t, fx.gateway.DeletePost(fx.ctx, postID))

	require.Empty(t, fx.remote.Rows(entity.TablePosts))
	require.Empty(t, fx.remote.Rows(entity.TableComments))
	require.Empty(t, fx.remote.Rows(entity.TableReactions))
	require.Empty(t, store.Rows[entity.Post](fx.store, entity.TablePosts))
	require.Empty(t, store.Rows[entity.Comment](fx.store, entity.TableComments))
	require.Empty(t, store.Rows[entity.Reaction](fx.store, entity.TableReactions))
}

func Test_ToggleReaction_OnOff(t *testing.T) {
	fx := newGatewayFixture(t, testutil.Mary)
	require.NoError(t, fx.gateway.CreatePost(fx.ctx, "React to me", nil, ""))
	postID := store.Rows[entity.Post](fx.store, entity.TablePosts)[0].ID

	fx.as(t, testutil.John)
	require.NoError(t, fx.gateway.ToggleReaction(fx.ctx, postID, entity.ReactionHeart))
	require.Len(t, fx.remote.Rows(entity.TableReactions), 1)
	require.Len(t, store.Rows[entity.Reaction](fx.store, entity.TableReactions), 1)

	// The author hears about it once.
	require.Equal(t, 1, fx.remote.CountRows(entity.TableNotifications, map[string]any{
		"user_id": testutil.Mary, "type": "reaction",
	}))

	require.NoError(t, fx.gateway.ToggleReaction(fx.ctx, postID, entity.ReactionHeart))
	require.Empty(t, fx.remote.Rows(entity.TableReactions))
	require.Empty(t, store.Rows[entity.Reaction](fx.store, entity.TableReactions))
}

func Test_ToggleReaction_OwnPostNoNotification(t *testing.T) {
	fx := newGatewayFixture(t, testutil.John)
	require.NoError(t, fx.gateway.CreatePost(fx.ctx, "My own post", nil, ""))
	postID := store.Rows[entity.Post](fx.store, entity.TablePosts)[0].ID

	require.NoError(t, fx.gateway.ToggleReaction(fx.ctx, postID, entity.ReactionPray))
	require.Zero(t, fx.remote.CountRows(entity.TableNotifications, map[string]any{
		"type": "reaction",
	}))
}

func Test_ToggleReaction_DuplicateRaceIsBenign(t *testing.T) {
	fx := newGatewayFixture(t, testutil.John)
	fx.remote.Seed(entity.TablePosts, remote.Row{
		"id": "p1", "author_id": testutil.Mary, "content": "raced",
	})

	// The remote already holds the reaction but the local view is stale.
	fx.remote.Seed(entity.TableReactions, remote.Row{
		"post_id": "p1", "user_id": testutil.John, "type": "heart",
	})

	require.NoError(t, fx.gateway.ToggleReaction(fx.ctx, "p1", entity.ReactionHeart))
	require.Len(t, fx.remote.Rows(entity.TableReactions), 1)
	require.Empty(t, fx.errorMessages())
}

func Test_TogglePin_LeadersOnly(t *testing.T) {
	fx := newGatewayFixture(t, testutil.John)
	require.NoError(t, fx.gateway.CreatePost(fx.ctx, "Pin me maybe", nil, ""))
	postID := store.Rows[entity.Post](fx.store, entity.TablePosts)[0].ID

	err := fx.gateway.TogglePin(fx.ctx, postID)
	require.Error(t, err)
	require.True(t, errorx.IsCode(err, errorx.PermissionDenied))

	post, _ := store.Get[entity.Post](fx.store, entity.TablePosts, postID)
	require.False(t, post.IsPinned)

	fx.as(t, testutil.Sarah)
	require.NoError(t, fx.gateway.TogglePin(fx.ctx, postID))
	post, _ = store.Get[entity.Post](fx.store, entity.TablePosts, postID)
	require.True(t, post.IsPinned)

	require.NoError(t, fx.gateway.TogglePin(fx.ctx, postID))
	post, _ = store.Get[entity.Post](fx.store, entity.TablePosts, postID)
	require.False(t, post.IsPinned)
}

func Test_AddComment_Notifications(t *testing.T) {
	fx := newGatewayFixture(t, testutil.Mary)
	require.NoError(t, fx.gateway.CreatePost(fx.ctx, "Discuss", nil, ""))
	postID := store.Rows[entity.Post](fx.store, entity.TablePosts)[0].ID

	// A root comment notifies the post author.
	fx.as(t, testutil.John)
	require.NoError(t, fx.gateway.AddComment(fx.ctx, postID, nil, "Great word"))
	require.Equal(t, 1, fx.remote.CountRows(entity.TableNotifications, map[string]any{
		"user_id": testutil.Mary, "type": "comment",
	}))

	commentID := store.Rows[entity.Comment](fx.store, entity.TableComments)[0].ID

	// A reply notifies the parent comment's author, not the post author.
	fx.as(t, testutil.Sarah)
	require.NoError(t, fx.gateway.AddComment(fx.ctx, postID, &commentID, "Agreed"))
	require.Equal(t, 1, fx.remote.CountRows(entity.TableNotifications, map[string]any{
		"user_id": testutil.John, "type": "reply",
	}))
	require.Equal(t, 1, fx.remote.CountRows(entity.TableNotifications, map[string]any{
		"user_id": testutil.Mary, "type": "comment",
	}))
}

func Test_DeleteComment(t *testing.T) {
	fx := newGatewayFixture(t, testutil.John)
	fx.remote.Seed(entity.TablePosts, remote.Row{
		"id": "p1", "author_id": testutil.Mary, "content": "post",
	})
	require.NoError(t, fx.gateway.AddComment(fx.ctx, "p1", nil, "Oops"))
	commentID := store.Rows[entity.Comment](fx.store, entity.TableComments)[0].ID

	require.NoError(t, fx.gateway.DeleteComment(fx.ctx, commentID))
	require.Empty(t, fx.remote.Rows(entity.TableComments))
	require.Empty(t, store.Rows[entity.Comment](fx.store, entity.TableComments))
}
