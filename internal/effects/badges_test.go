package effects

import (
	"context"
	"testing"

	"github.com/koinonia-app/core/internal/entity"
	"github.com/koinonia-app/core/internal/feedback"
	"github.com/koinonia-app/core/internal/remote"
	"github.com/koinonia-app/core/internal/store"
	"github.com/koinonia-app/core/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func firstPostBadge() entity.Badge {
	return entity.Badge{
		Base:      entity.Base{ID: testutil.BadgeFirstPost},
		Slug:      "first-post",
		Name:      "First Post",
		Action:    entity.ActionPostCreated,
		Threshold: 1,
	}
}

func encouragerBadge() entity.Badge {
	return entity.Badge{
		Base:      entity.Base{ID: testutil.BadgeEncourager},
		Slug:      "encourager",
		Name:      "Encourager",
		Action:    entity.ActionCommentAdded,
		Threshold: 10,
	}
}

func Test_CheckBadges_AwardsOnceAtThreshold(t *testing.T) {
	ctx := context.Background()
	fx := newEffectsFixture(testutil.John)

	store.Set(fx.store, entity.TableBadges, []entity.Badge{firstPostBadge()})
	store.Set(fx.store, entity.TablePosts, []entity.Post{
		{Base: entity.Base{ID: "p1"}, AuthorID: testutil.John},
	})

	fx.engine.CheckBadges(ctx, testutil.John, entity.ActionPostCreated)

	awards := fx.remote.Rows(entity.TableUserBadges)
	require.Len(t, awards, 1)
	require.Equal(t, testutil.John, awards[0]["user_id"])
	require.Equal(t, testutil.BadgeFirstPost, awards[0]["badge_id"])
	require.Len(t, store.Rows[entity.UserBadge](fx.store, entity.TableUserBadges), 1)

	// The recipient is the current user, so the badge notification lands in
	// the local collection too.
	notifications := store.Rows[entity.Notification](fx.store, entity.TableNotifications)
	require.Len(t, notifications, 1)
	require.Equal(t, entity.NotificationBadgeEarned, notifications[0].Type)

	messages := fx.feedback.Messages()
	require.Len(t, messages, 1)
	require.Equal(t, feedback.KindSuccess, messages[0].Kind)

	// A later qualifying action must not award again.
	store.Append(fx.store, entity.TablePosts, entity.Post{
		Base: entity.Base{ID: "p2"}, AuthorID: testutil.John,
	})
	fx.engine.CheckBadges(ctx, testutil.John, entity.ActionPostCreated)

	require.Len(t, fx.remote.Rows(entity.TableUserBadges), 1)
	require.Len(t, store.Rows[entity.Notification](fx.store, entity.TableNotifications), 1)
}

func Test_CheckBadges_BelowThreshold(t *testing.T) {
	fx := newEffectsFixture(testutil.John)

	store.Set(fx.store, entity.TableBadges, []entity.Badge{encouragerBadge()})
	store.Set(fx.store, entity.TableComments, []entity.Comment{
		{Base: entity.Base{ID: "c1"}, PostID: "p1", AuthorID: testutil.John},
		{Base: entity.Base{ID: "c2"}, PostID: "p1", AuthorID: testutil.John},
	})

	fx.engine.CheckBadges(context.Background(), testutil.John, entity.ActionCommentAdded)
	require.Empty(t, fx.remote.Rows(entity.TableUserBadges))
}

func Test_CheckBadges_OnlyMatchingAction(t *testing.T) {
	fx := newEffectsFixture(testutil.John)

	store.Set(fx.store, entity.TableBadges, []entity.Badge{firstPostBadge(), encouragerBadge()})
	store.Set(fx.store, entity.TablePosts, []entity.Post{
		{Base: entity.Base{ID: "p1"}, AuthorID: testutil.John},
	})

	fx.engine.CheckBadges(context.Background(), testutil.John, entity.ActionCommentAdded)
	require.Empty(t, fx.remote.Rows(entity.TableUserBadges))
}

func Test_CheckBadges_DuplicateInsertIsBenign(t *testing.T) {
	fx := newEffectsFixture(testutil.John)

	// The remote already holds the award but the local collection is stale:
	// the race of two qualifying actions. The uniqueness rejection must be
	// swallowed without a second celebration.
	fx.remote.Seed(entity.TableUserBadges, remote.Row{
		"user_id": testutil.John, "badge_id": testutil.BadgeFirstPost,
	})
	store.Set(fx.store, entity.TableBadges, []entity.Badge{firstPostBadge()})
	store.Set(fx.store, entity.TablePosts, []entity.Post{
		{Base: entity.Base{ID: "p1"}, AuthorID: testutil.John},
	})

	fx.engine.CheckBadges(context.Background(), testutil.John, entity.ActionPostCreated)

	require.Len(t, fx.remote.Rows(entity.TableUserBadges), 1)
	require.Empty(t, store.Rows[entity.UserBadge](fx.store, entity.TableUserBadges))
	require.Empty(t, fx.remote.Rows(entity.TableNotifications))
	require.Empty(t, fx.feedback.Messages())
}
