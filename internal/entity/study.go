package entity

import "time"

type BibleStudy struct {
	Base
	Title       string `json:"title"`
	Description string `json:"description"`
	CreatedBy   string `json:"created_by"`
}

type StudyDay struct {
	Base
	StudyID   string `json:"study_id"`
	DayNumber int    `json:"day_number"`
	Title     string `json:"title"`
	Passage   string `json:"passage"`
	Content   string `json:"content"`
}

type StudyEnrollment struct {
	Base
	StudyID string `json:"study_id"`
	UserID  string `json:"user_id"`
}

// StudyProgress is unique per (user_id, study_id, day_number) with upsert
// semantics on completion.
type StudyProgress struct {
	Base
	StudyID     string    `json:"study_id"`
	UserID      string    `json:"user_id"`
	DayNumber   int       `json:"day_number"`
	CompletedAt time.Time `json:"completed_at"`
}
