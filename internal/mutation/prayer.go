package mutation

import (
	"context"
	"time"

	"github.com/koinonia-app/core/internal/effects"
	"github.com/koinonia-app/core/internal/entity"
	"github.com/koinonia-app/core/internal/remote"
	"github.com/koinonia-app/core/internal/store"
	"github.com/koinonia-app/core/pkg/errorx"
	"github.com/koinonia-app/core/pkg/xcontext"
)

func (g *Gateway) AddPrayerRequest(ctx context.Context, title, content string, anonymous bool) error {
	me, ok := g.actor()
	if !ok {
		return nil
	}

	if g.throttled("add_prayer_request") {
		return nil
	}

	_, err := createRow[entity.PrayerRequest](ctx, g, entity.TablePrayerRequests, map[string]any{
		"author_id":    me,
		"title":        title,
		"content":      content,
		"is_anonymous": anonymous,
		"is_answered":  false,
	})
	if err != nil {
		return g.fail(ctx, err, "Could not share your prayer request")
	}

	g.feedback.Success("Prayer request shared")
	return nil
}

// DeletePrayerRequest removes a request and its responses, responses first:
// there is no server-side cascade to rely on.
func (g *Gateway) DeletePrayerRequest(ctx context.Context, requestID string) error {
	if _, ok := g.actor(); !ok {
		return nil
	}

	err := g.remote.Delete(ctx, entity.TablePrayerResponses, remote.Eq("prayer_request_id", requestID))
	if err != nil {
		return g.fail(ctx, err, "Could not delete the prayer request")
	}

	if err := g.remote.Delete(ctx, entity.TablePrayerRequests, remote.Eq("id", requestID)); err != nil {
		return g.fail(ctx, err, "Could not delete the prayer request")
	}

	store.RemoveWhere(g.store, entity.TablePrayerResponses, func(r entity.PrayerResponse) bool {
		return r.PrayerRequestID == requestID
	})
	store.Remove[entity.PrayerRequest](g.store, entity.TablePrayerRequests, requestID)

	g.feedback.Success("Prayer request deleted")
	return nil
}

// MarkPrayerAnswered is a one-way transition; an already-answered request is
// left untouched. Everyone who prayed is notified of the answer.
func (g *Gateway) MarkPrayerAnswered(ctx context.Context, requestID string) error {
	me, ok := g.actor()
	if !ok {
		return nil
	}

	request, ok := store.Get[entity.PrayerRequest](g.store, entity.TablePrayerRequests, requestID)
	if !ok {
		return g.fail(ctx, errorx.New(errorx.NotFound, "prayer request %s", requestID), "Prayer request not found")
	}

	if request.IsAnswered {
		xcontext.Logger(ctx).Debugf("Prayer request %s is already answered", requestID)
		return nil
	}

	updated, err := updateRow[entity.PrayerRequest](ctx, g, entity.TablePrayerRequests, requestID, map[string]any{
		"is_answered": true,
		"answered_at": time.Now().UTC(),
	})
	if err != nil {
		return g.fail(ctx, err, "Could not mark the prayer as answered")
	}

	responders := store.Rows[entity.PrayerResponse](g.store, entity.TablePrayerResponses)
	for _, response := range responders {
		if response.PrayerRequestID != requestID {
			continue
		}

		g.effects.Notify(ctx, effects.NotificationInput{
			ActorID:     me,
			RecipientID: response.UserID,
			Type:        entity.NotificationCelebration,
			Title:       "Prayer answered",
			Body:        "A prayer you prayed for was answered: " + updated.Title,
			Link:        "/prayers/" + requestID,
		})
	}

	g.feedback.Success("Marked as answered. Praise God!")
	return nil
}

// TogglePrayerResponse records or withdraws "I prayed for this", at most one
// per user and request.
func (g *Gateway) TogglePrayerResponse(ctx context.Context, requestID string) error {
	me, ok := g.actor()
	if !ok {
		return nil
	}

	existing, found := store.Find(g.store, entity.TablePrayerResponses, func(r entity.PrayerResponse) bool {
		return r.PrayerRequestID == requestID && r.UserID == me
	})

	if found {
		if err := deleteRow[entity.PrayerResponse](ctx, g, entity.TablePrayerResponses, existing.ID); err != nil {
			return g.fail(ctx, err, "Could not withdraw your prayer")
		}

		return nil
	}

	row, err := g.remote.Insert(ctx, entity.TablePrayerResponses, map[string]any{
		"prayer_request_id": requestID,
		"user_id":           me,
	})
	if err != nil {
		if errorx.IsAlreadyExists(err) {
			xcontext.Logger(ctx).Debugf("Prayer response already present on %s", requestID)
			return nil
		}

		return g.fail(ctx, err, "Could not record your prayer")
	}

	response, err := remote.DecodeRow[entity.PrayerResponse](row)
	if err != nil {
		return g.fail(ctx, err, "Could not record your prayer")
	}

	store.Append(g.store, entity.TablePrayerResponses, *response)

	if request, ok := store.Get[entity.PrayerRequest](g.store, entity.TablePrayerRequests, requestID); ok {
		g.effects.Notify(ctx, effects.NotificationInput{
			ActorID:     me,
			RecipientID: request.AuthorID,
			Type:        entity.NotificationPrayerResponse,
			Title:       "Someone prayed for you",
			Body:        g.displayName(me) + " prayed for your request",
			Link:        "/prayers/" + requestID,
		})
	}

	g.effects.CheckBadges(ctx, me, entity.ActionPrayerResponded)
	g.effects.AwardPoints(ctx, me, 1)
	return nil
}
