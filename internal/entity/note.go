package entity

// FollowUpNote is an append-only journal entry authored by a leader about a
// member. The client never edits or deletes these.
type FollowUpNote struct {
	Base
	MemberID string `json:"member_id"`
	AuthorID string `json:"author_id"`
	Content  string `json:"content"`
}
