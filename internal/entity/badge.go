package entity

// BadgeAction is the qualifying action counted against a badge threshold.
type BadgeAction string

const (
	ActionPostCreated       BadgeAction = "post_created"
	ActionCommentAdded      BadgeAction = "comment_added"
	ActionPrayerResponded   BadgeAction = "prayer_responded"
	ActionStudyDayCompleted BadgeAction = "study_day_completed"
)

// Badge is a catalog row: a slug plus the action and threshold that earn it.
type Badge struct {
	Base
	Slug        string      `json:"slug"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Icon        string      `json:"icon"`
	Action      BadgeAction `json:"action"`
	Threshold   int         `json:"threshold"`
}

// UserBadge is an award record, at most one per (user_id, badge_id), never
// revoked.
type UserBadge struct {
	Base
	UserID  string `json:"user_id"`
	BadgeID string `json:"badge_id"`
}
