package mutation

import (
	"context"

	"github.com/koinonia-app/core/internal/entity"
	"github.com/koinonia-app/core/internal/remote"
	"github.com/koinonia-app/core/internal/store"
)

// MarkNotificationRead flips is_read to true. The transition is monotonic;
// an already-read notification is a no-op.
func (g *Gateway) MarkNotificationRead(ctx context.Context, notificationID string) error {
	if _, ok := g.actor(); !ok {
		return nil
	}

	notification, ok := store.Get[entity.Notification](g.store, entity.TableNotifications, notificationID)
	if !ok || notification.IsRead {
		return nil
	}

	_, err := updateRow[entity.Notification](ctx, g, entity.TableNotifications, notificationID, map[string]any{
		"is_read": true,
	})
	if err != nil {
		return g.fail(ctx, err, "Could not mark the notification as read")
	}

	return nil
}

// MarkAllNotificationsRead marks every unread notification of the current
// user in one remote write, then mirrors the returned rows.
func (g *Gateway) MarkAllNotificationsRead(ctx context.Context) error {
	me, ok := g.actor()
	if !ok {
		return nil
	}

	rows, err := g.remote.Update(ctx, entity.TableNotifications,
		map[string]any{"is_read": true},
		remote.Eq("user_id", me),
		remote.Eq("is_read", false),
	)
	if err != nil {
		return g.fail(ctx, err, "Could not mark your notifications as read")
	}

	updated, err := remote.DecodeRows[entity.Notification](rows)
	if err != nil {
		return g.fail(ctx, err, "Could not mark your notifications as read")
	}

	for _, notification := range updated {
		store.Upsert(g.store, entity.TableNotifications, notification)
	}

	return nil
}

func (g *Gateway) DeleteNotification(ctx context.Context, notificationID string) error {
	if _, ok := g.actor(); !ok {
		return nil
	}

	if err := deleteRow[entity.Notification](ctx, g, entity.TableNotifications, notificationID); err != nil {
		return g.fail(ctx, err, "Could not delete the notification")
	}

	return nil
}
