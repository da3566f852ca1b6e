package entity

type Post struct {
	Base
	AuthorID string `json:"author_id"`
	Content  string `json:"content"`
	ImageURL string `json:"image_url"`
	IsPinned bool   `json:"is_pinned"`
}

// Comment is a tree node under a post. Root comments have a null parent.
type Comment struct {
	Base
	PostID   string  `json:"post_id"`
	AuthorID string  `json:"author_id"`
	ParentID *string `json:"parent_id"`
	Content  string  `json:"content"`
}

type ReactionType string

const (
	ReactionHeart ReactionType = "heart"
	ReactionPray  ReactionType = "pray"
	ReactionAmen  ReactionType = "amen"
)

// Reaction is unique per (post_id, user_id, type); the remote service enforces
// this, the client toggles against its local view.
type Reaction struct {
	Base
	PostID string       `json:"post_id"`
	UserID string       `json:"user_id"`
	Type   ReactionType `json:"type"`
}
