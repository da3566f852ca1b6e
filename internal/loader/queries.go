package loader

import (
	"github.com/koinonia-app/core/internal/entity"
	"github.com/koinonia-app/core/internal/remote"
	"github.com/koinonia-app/core/internal/store"
)

// notificationLimit caps the notification backlog pulled per snapshot.
const notificationLimit = 50

type collectionSpec struct {
	table entity.Table
	query func(me string) remote.Query
	apply func(snap *store.Snapshot, rows []remote.Row) error
}

func decodeInto[T entity.Record](table entity.Table) func(*store.Snapshot, []remote.Row) error {
	return func(snap *store.Snapshot, rows []remote.Row) error {
		typed, err := remote.DecodeRows[T](rows)
		if err != nil {
			return err
		}

		store.SnapshotSet(snap, table, typed)
		return nil
	}
}

func spec[T entity.Record](table entity.Table, query func(me string) remote.Query) collectionSpec {
	return collectionSpec{table: table, query: query, apply: decodeInto[T](table)}
}

func all(table entity.Table) func(me string) remote.Query {
	return func(string) remote.Query { return remote.Query{Table: table} }
}

func ordered(table entity.Table, order *remote.Order) func(me string) remote.Query {
	return func(string) remote.Query { return remote.Query{Table: table, Order: order} }
}

func mine(table entity.Table, column string, order *remote.Order) func(me string) remote.Query {
	return func(me string) remote.Query {
		return remote.Query{
			Table:   table,
			Filters: []remote.Filter{remote.Eq(column, me)},
			Order:   order,
		}
	}
}

// collectionSpecs lists every collection of the snapshot together with the
// exact filtered and ordered read used both at session start and when the
// change feed invalidates a single table.
func collectionSpecs() []collectionSpec {
	return []collectionSpec{
		spec[entity.Profile](entity.TableProfiles, all(entity.TableProfiles)),
		spec[entity.Post](entity.TablePosts,
			ordered(entity.TablePosts, remote.Desc("created_at"))),
		spec[entity.Comment](entity.TableComments,
			ordered(entity.TableComments, remote.Asc("created_at"))),
		spec[entity.Reaction](entity.TableReactions, all(entity.TableReactions)),
		spec[entity.PrayerRequest](entity.TablePrayerRequests,
			ordered(entity.TablePrayerRequests, remote.Desc("created_at"))),
		spec[entity.PrayerResponse](entity.TablePrayerResponses, all(entity.TablePrayerResponses)),
		spec[entity.AppEvent](entity.TableEvents,
			ordered(entity.TableEvents, remote.Asc("starts_at"))),
		spec[entity.RSVP](entity.TableRSVPs, all(entity.TableRSVPs)),
		spec[entity.EventReminder](entity.TableEventReminders,
			mine(entity.TableEventReminders, "user_id", nil)),
		spec[entity.EventAttendance](entity.TableEventAttendance, all(entity.TableEventAttendance)),
		spec[entity.BibleStudy](entity.TableBibleStudies,
			ordered(entity.TableBibleStudies, remote.Desc("created_at"))),
		spec[entity.StudyDay](entity.TableStudyDays,
			ordered(entity.TableStudyDays, remote.Asc("day_number"))),
		spec[entity.StudyEnrollment](entity.TableStudyEnrollments, all(entity.TableStudyEnrollments)),
		spec[entity.StudyProgress](entity.TableStudyProgress,
			mine(entity.TableStudyProgress, "user_id", nil)),
		spec[entity.GalleryAlbum](entity.TableGalleryAlbums,
			ordered(entity.TableGalleryAlbums, remote.Desc("created_at"))),
		spec[entity.GalleryPhoto](entity.TableGalleryPhotos,
			ordered(entity.TableGalleryPhotos, remote.Desc("created_at"))),
		spec[entity.Message](entity.TableMessages, func(me string) remote.Query {
			return remote.Query{
				Table: entity.TableMessages,
				AnyOf: []remote.Filter{
					remote.Eq("sender_id", me),
					remote.Eq("receiver_id", me),
				},
				Order: remote.Asc("created_at"),
			}
		}),
		spec[entity.Resource](entity.TableResources,
			ordered(entity.TableResources, remote.Desc("created_at"))),
		spec[entity.Devotional](entity.TableDevotionals,
			ordered(entity.TableDevotionals, remote.Desc("publish_date"))),
		spec[entity.Notification](entity.TableNotifications, func(me string) remote.Query {
			return remote.Query{
				Table:   entity.TableNotifications,
				Filters: []remote.Filter{remote.Eq("user_id", me)},
				Order:   remote.Desc("created_at"),
				Limit:   notificationLimit,
			}
		}),
		spec[entity.Badge](entity.TableBadges, all(entity.TableBadges)),
		spec[entity.UserBadge](entity.TableUserBadges,
			mine(entity.TableUserBadges, "user_id", nil)),
		spec[entity.FollowUpNote](entity.TableFollowUpNotes,
			ordered(entity.TableFollowUpNotes, remote.Desc("created_at"))),
	}
}

func specFor(table entity.Table) (collectionSpec, bool) {
	for _, cs := range collectionSpecs() {
		if cs.table == table {
			return cs, true
		}
	}

	return collectionSpec{}, false
}
