package entity

type Message struct {
	Base
	SenderID   string `json:"sender_id"`
	ReceiverID string `json:"receiver_id"`
	Content    string `json:"content"`
}

// Conversation is derived, never stored: all messages sharing the other party
// relative to the current user, keyed by partner id.
type Conversation struct {
	PartnerID   string
	Partner     *Profile
	Messages    []Message
	LastMessage Message

	// Reserved for a future read-receipt feature, always zero today.
	UnreadCount int
}
