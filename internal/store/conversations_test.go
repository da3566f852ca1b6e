package store

import (
	"testing"
	"time"

	"github.com/koinonia-app/core/internal/entity"
	"github.com/stretchr/testify/require"
)

func message(id, sender, receiver string, at time.Time) entity.Message {
	return entity.Message{
		Base:       entity.Base{ID: id, CreatedAt: at},
		SenderID:   sender,
		ReceiverID: receiver,
		Content:    "hi",
	}
}

func Test_Conversations_GroupsByPartner(t *testing.T) {
	s := New()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	Set(s, entity.TableMessages, []entity.Message{
		message("m1", "alice", "bob", base),
		message("m2", "bob", "alice", base.Add(time.Minute)),
		message("m3", "alice", "carol", base.Add(2*time.Minute)),
	})
	Set(s, entity.TableProfiles, []entity.Profile{
		{Base: entity.Base{ID: "bob"}, FullName: "Bob"},
	})

	conversations := s.Conversations("alice")
	require.Len(t, conversations, 2)

	// Most recent conversation first.
	require.Equal(t, "carol", conversations[0].PartnerID)
	require.Len(t, conversations[0].Messages, 1)
	require.Equal(t, "m3", conversations[0].LastMessage.ID)

	require.Equal(t, "bob", conversations[1].PartnerID)
	require.Len(t, conversations[1].Messages, 2)
	require.Equal(t, "m2", conversations[1].LastMessage.ID)
	require.NotNil(t, conversations[1].Partner)
	require.Equal(t, "Bob", conversations[1].Partner.FullName)

	// No partner profile loaded for carol.
	require.Nil(t, conversations[0].Partner)
}

func Test_Conversations_UnreadReserved(t *testing.T) {
	s := New()
	Set(s, entity.TableMessages, []entity.Message{
		message("m1", "bob", "alice", time.Now()),
	})

	conversations := s.Conversations("alice")
	require.Len(t, conversations, 1)
	require.Zero(t, conversations[0].UnreadCount)
}

func Test_Conversations_EmptyWhenNoMessages(t *testing.T) {
	require.Empty(t, New().Conversations("alice"))
}
