package entity

import "time"

type PrayerRequest struct {
	Base
	AuthorID    string     `json:"author_id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	IsAnonymous bool       `json:"is_anonymous"`
	IsAnswered  bool       `json:"is_answered"`
	AnsweredAt  *time.Time `json:"answered_at"`
}

// PrayerResponse records that a user prayed for a request, at most once per
// (prayer_request_id, user_id).
type PrayerResponse struct {
	Base
	PrayerRequestID string `json:"prayer_request_id"`
	UserID          string `json:"user_id"`
}
