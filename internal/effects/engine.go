package effects

import (
	"context"

	"github.com/koinonia-app/core/internal/entity"
	"github.com/koinonia-app/core/internal/feedback"
	"github.com/koinonia-app/core/internal/remote"
	"github.com/koinonia-app/core/internal/store"
	"github.com/koinonia-app/core/pkg/xcontext"
)

// Engine issues the secondary writes a primary mutation causes: cross-user
// notifications, badge awards and point increments. Every failure in here is
// logged and swallowed; the primary mutation has already committed and must
// never appear failed because of a side effect.
type Engine struct {
	remote   remote.Client
	store    *store.Store
	feedback *feedback.Queue
	userID   func() string
}

func NewEngine(
	remoteClient remote.Client,
	entityStore *store.Store,
	feedbackQueue *feedback.Queue,
	userID func() string,
) *Engine {
	return &Engine{
		remote:   remoteClient,
		store:    entityStore,
		feedback: feedbackQueue,
		userID:   userID,
	}
}

type NotificationInput struct {
	// ActorID is the user whose action caused the notification. Empty means
	// the system itself (badge awards).
	ActorID     string
	RecipientID string
	Type        entity.NotificationType
	Title       string
	Body        string
	Link        string
}

// Notify inserts one notification row for the recipient. A self-action never
// notifies: if the recipient is the actor, nothing is written.
func (e *Engine) Notify(ctx context.Context, in NotificationInput) {
	if in.RecipientID == "" {
		return
	}

	if in.ActorID != "" && in.ActorID == in.RecipientID {
		return
	}

	row, err := e.remote.Insert(ctx, entity.TableNotifications, map[string]any{
		"user_id": in.RecipientID,
		"type":    string(in.Type),
		"title":   in.Title,
		"body":    in.Body,
		"link":    in.Link,
		"is_read": false,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create %s notification: %v", in.Type, err)
		return
	}

	// The local collection only holds the current user's notifications;
	// someone else's surfaces on their own client through the change feed.
	if in.RecipientID != e.userID() {
		return
	}

	notification, err := remote.DecodeRow[entity.Notification](row)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot decode notification row: %v", err)
		return
	}

	store.Append(e.store, entity.TableNotifications, *notification)
}

// AwardPoints calls the atomic counter procedure for the user. Points are
// decorative; a failure is invisible to the user.
func (e *Engine) AwardPoints(ctx context.Context, userID string, points int) {
	_, err := e.remote.Call(ctx, "increment_points", map[string]any{
		"user_id": userID,
		"points":  points,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot award %d points to %s: %v", points, userID, err)
	}
}
