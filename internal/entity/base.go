package entity

import "time"

type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

func (b Base) RecordID() string {
	return b.ID
}

// Record is any row held by the entity store.
type Record interface {
	RecordID() string
}

type Table string

const (
	TableProfiles         Table = "profiles"
	TablePosts            Table = "posts"
	TableComments         Table = "comments"
	TableReactions        Table = "reactions"
	TablePrayerRequests   Table = "prayer_requests"
	TablePrayerResponses  Table = "prayer_responses"
	TableEvents           Table = "events"
	TableRSVPs            Table = "rsvps"
	TableEventReminders   Table = "event_reminders"
	TableEventAttendance  Table = "event_attendance"
	TableBibleStudies     Table = "bible_studies"
	TableStudyDays        Table = "study_days"
	TableStudyEnrollments Table = "study_enrollments"
	TableStudyProgress    Table = "study_progress"
	TableGalleryAlbums    Table = "gallery_albums"
	TableGalleryPhotos    Table = "gallery_photos"
	TableMessages         Table = "messages"
	TableResources        Table = "resources"
	TableDevotionals      Table = "devotionals"
	TableNotifications    Table = "notifications"
	TableBadges           Table = "badges"
	TableUserBadges       Table = "user_badges"
	TableFollowUpNotes    Table = "follow_up_notes"
)

type EventKind string

const (
	EventInsert EventKind = "insert"
	EventUpdate EventKind = "update"
	EventDelete EventKind = "delete"
)

var AllEventKinds = []EventKind{EventInsert, EventUpdate, EventDelete}

// WatchedTables is the fixed set of mutable tables covered by the single
// change-feed subscription.
var WatchedTables = []Table{
	TablePosts,
	TableComments,
	TableReactions,
	TableMessages,
	TablePrayerRequests,
	TablePrayerResponses,
	TableNotifications,
	TableRSVPs,
	TableEvents,
	TableGalleryPhotos,
	TableUserBadges,
}
