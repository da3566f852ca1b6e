package mutation

import (
	"context"

	"github.com/koinonia-app/core/internal/effects"
	"github.com/koinonia-app/core/internal/entity"
)

// SendMessage writes one directed message and notifies the receiver.
func (g *Gateway) SendMessage(ctx context.Context, receiverID, content string) error {
	me, ok := g.actor()
	if !ok {
		return nil
	}

	_, err := createRow[entity.Message](ctx, g, entity.TableMessages, map[string]any{
		"sender_id":   me,
		"receiver_id": receiverID,
		"content":     content,
	})
	if err != nil {
		return g.fail(ctx, err, "Could not send your message")
	}

	g.effects.Notify(ctx, effects.NotificationInput{
		ActorID:     me,
		RecipientID: receiverID,
		Type:        entity.NotificationMessage,
		Title:       "New message",
		Body:        g.displayName(me) + " sent you a message",
		Link:        "/messages/" + me,
	})

	return nil
}
