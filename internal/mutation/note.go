package mutation

import (
	"context"

	"github.com/koinonia-app/core/internal/entity"
)

// AddFollowUpNote appends a journal entry about a member, leaders only.
// Notes are append-only; there is no edit or delete path.
func (g *Gateway) AddFollowUpNote(ctx context.Context, memberID, content string) error {
	me, err := g.leader()
	if err != nil {
		return g.fail(ctx, err, "Only leaders can add follow-up notes")
	}
	if me == "" {
		return nil
	}

	_, err = createRow[entity.FollowUpNote](ctx, g, entity.TableFollowUpNotes, map[string]any{
		"member_id": memberID,
		"author_id": me,
		"content":   content,
	})
	if err != nil {
		return g.fail(ctx, err, "Could not save the note")
	}

	g.feedback.Success("Note saved")
	return nil
}
