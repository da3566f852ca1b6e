package entity

type NotificationType string

const (
	NotificationReaction       NotificationType = "reaction"
	NotificationComment        NotificationType = "comment"
	NotificationReply          NotificationType = "reply"
	NotificationPrayerResponse NotificationType = "prayer_response"
	NotificationMessage        NotificationType = "message"
	NotificationCelebration    NotificationType = "celebration"
	NotificationBadgeEarned    NotificationType = "badge_earned"
)

// Notification always belongs to its recipient. IsRead only ever transitions
// false to true.
type Notification struct {
	Base
	UserID string           `json:"user_id"`
	Type   NotificationType `json:"type"`
	Title  string           `json:"title"`
	Body   string           `json:"body"`
	Link   string           `json:"link"`
	IsRead bool             `json:"is_read"`
}
