package store

import (
	"github.com/koinonia-app/core/internal/entity"
	"golang.org/x/exp/slices"
)

// Conversations projects the message collection into per-partner groups for
// the current user. It is recomputed on every call, never cached: whole-
// collection replacement on reload keeps it consistent for free.
func (s *Store) Conversations(me string) []entity.Conversation {
	messages := Rows[entity.Message](s, entity.TableMessages)

	byPartner := make(map[string][]entity.Message)
	for _, m := range messages {
		partner := m.SenderID
		if m.SenderID == me {
			partner = m.ReceiverID
		}

		byPartner[partner] = append(byPartner[partner], m)
	}

	conversations := make([]entity.Conversation, 0, len(byPartner))
	for partner, group := range byPartner {
		last := group[0]
		for _, m := range group[1:] {
			if m.CreatedAt.After(last.CreatedAt) {
				last = m
			}
		}

		conversation := entity.Conversation{
			PartnerID:   partner,
			Messages:    group,
			LastMessage: last,
		}

		if profile, ok := Get[entity.Profile](s, entity.TableProfiles, partner); ok {
			conversation.Partner = &profile
		}

		conversations = append(conversations, conversation)
	}

	slices.SortFunc(conversations, func(a, b entity.Conversation) bool {
		return a.LastMessage.CreatedAt.After(b.LastMessage.CreatedAt)
	})

	return conversations
}
