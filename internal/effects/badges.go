package effects

import (
	"context"

	"github.com/koinonia-app/core/internal/entity"
	"github.com/koinonia-app/core/internal/remote"
	"github.com/koinonia-app/core/internal/store"
	"github.com/koinonia-app/core/pkg/errorx"
	"github.com/koinonia-app/core/pkg/xcontext"
)

// CheckBadges evaluates every badge whose qualifying action matches the one
// just performed. A badge is awarded at most once per user: the local award
// collection is checked first, and a uniqueness rejection from the remote
// (two qualifying actions racing) is treated as already awarded, not an
// error.
func (e *Engine) CheckBadges(ctx context.Context, userID string, action entity.BadgeAction) {
	badges := store.Rows[entity.Badge](e.store, entity.TableBadges)
	for _, badge := range badges {
		if badge.Action != action {
			continue
		}

		if e.alreadyAwarded(userID, badge.ID) {
			continue
		}

		if e.qualifyingCount(userID, action) < badge.Threshold {
			continue
		}

		row, err := e.remote.Insert(ctx, entity.TableUserBadges, map[string]any{
			"user_id":  userID,
			"badge_id": badge.ID,
		})
		if err != nil {
			if errorx.IsAlreadyExists(err) {
				xcontext.Logger(ctx).Debugf("Badge %s already awarded to %s", badge.Slug, userID)
				continue
			}

			xcontext.Logger(ctx).Errorf("Cannot award badge %s to %s: %v", badge.Slug, userID, err)
			continue
		}

		award, err := remote.DecodeRow[entity.UserBadge](row)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot decode badge award row: %v", err)
			continue
		}

		store.Append(e.store, entity.TableUserBadges, *award)

		e.Notify(ctx, NotificationInput{
			RecipientID: userID,
			Type:        entity.NotificationBadgeEarned,
			Title:       "Badge earned",
			Body:        "You earned the " + badge.Name + " badge!",
			Link:        "/profile/badges",
		})

		e.feedback.Success("You earned the %s badge!", badge.Name)
	}
}

func (e *Engine) alreadyAwarded(userID, badgeID string) bool {
	_, ok := store.Find(e.store, entity.TableUserBadges, func(ub entity.UserBadge) bool {
		return ub.UserID == userID && ub.BadgeID == badgeID
	})

	return ok
}

func (e *Engine) qualifyingCount(userID string, action entity.BadgeAction) int {
	switch action {
	case entity.ActionPostCreated:
		return store.CountWhere(e.store, entity.TablePosts, func(p entity.Post) bool {
			return p.AuthorID == userID
		})
	case entity.ActionCommentAdded:
		return store.CountWhere(e.store, entity.TableComments, func(c entity.Comment) bool {
			return c.AuthorID == userID
		})
	case entity.ActionPrayerResponded:
		return store.CountWhere(e.store, entity.TablePrayerResponses, func(r entity.PrayerResponse) bool {
			return r.UserID == userID
		})
	case entity.ActionStudyDayCompleted:
		return store.CountWhere(e.store, entity.TableStudyProgress, func(p entity.StudyProgress) bool {
			return p.UserID == userID
		})
	}

	return 0
}
