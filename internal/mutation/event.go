package mutation

import (
	"context"
	"time"

	"github.com/koinonia-app/core/internal/entity"
	"github.com/koinonia-app/core/internal/remote"
	"github.com/koinonia-app/core/internal/store"
)

type AddEventInput struct {
	Title       string
	Description string
	Location    string
	StartsAt    time.Time
	EndsAt      *time.Time
}

func (g *Gateway) AddEvent(ctx context.Context, in AddEventInput) error {
	me, ok := g.actor()
	if !ok {
		return nil
	}

	if g.throttled("add_event") {
		return nil
	}

	values := map[string]any{
		"title":       in.Title,
		"description": in.Description,
		"location":    in.Location,
		"starts_at":   in.StartsAt,
		"created_by":  me,
	}
	if in.EndsAt != nil {
		values["ends_at"] = *in.EndsAt
	}

	_, err := createRow[entity.AppEvent](ctx, g, entity.TableEvents, values)
	if err != nil {
		return g.fail(ctx, err, "Could not create the event")
	}

	g.feedback.Success("Event created")
	return nil
}

// DeleteEvent removes an event and every dependent row (rsvps, reminders,
// attendance) before the event itself, then mirrors all removals locally.
func (g *Gateway) DeleteEvent(ctx context.Context, eventID string) error {
	if _, ok := g.actor(); !ok {
		return nil
	}

	dependents := []entity.Table{
		entity.TableRSVPs,
		entity.TableEventReminders,
		entity.TableEventAttendance,
	}
	for _, table := range dependents {
		if err := g.remote.Delete(ctx, table, remote.Eq("event_id", eventID)); err != nil {
			return g.fail(ctx, err, "Could not delete the event")
		}
	}

	if err := g.remote.Delete(ctx, entity.TableEvents, remote.Eq("id", eventID)); err != nil {
		return g.fail(ctx, err, "Could not delete the event")
	}

	store.RemoveWhere(g.store, entity.TableRSVPs, func(r entity.RSVP) bool {
		return r.EventID == eventID
	})
	store.RemoveWhere(g.store, entity.TableEventReminders, func(r entity.EventReminder) bool {
		return r.EventID == eventID
	})
	store.RemoveWhere(g.store, entity.TableEventAttendance, func(a entity.EventAttendance) bool {
		return a.EventID == eventID
	})
	store.Remove[entity.AppEvent](g.store, entity.TableEvents, eventID)

	g.feedback.Success("Event deleted")
	return nil
}

// SetRSVP creates or updates the user's single RSVP for an event.
func (g *Gateway) SetRSVP(ctx context.Context, eventID string, status entity.RSVPStatus) error {
	me, ok := g.actor()
	if !ok {
		return nil
	}

	existing, found := store.Find(g.store, entity.TableRSVPs, func(r entity.RSVP) bool {
		return r.EventID == eventID && r.UserID == me
	})

	if found {
		_, err := updateRow[entity.RSVP](ctx, g, entity.TableRSVPs, existing.ID, map[string]any{
			"status": string(status),
		})
		if err != nil {
			return g.fail(ctx, err, "Could not update your RSVP")
		}
	} else {
		_, err := createRow[entity.RSVP](ctx, g, entity.TableRSVPs, map[string]any{
			"event_id": eventID,
			"user_id":  me,
			"status":   string(status),
		})
		if err != nil {
			return g.fail(ctx, err, "Could not save your RSVP")
		}
	}

	g.feedback.Success("RSVP saved")
	return nil
}

// SetReminder creates or moves the user's single reminder for an event.
func (g *Gateway) SetReminder(ctx context.Context, eventID string, remindAt time.Time) error {
	me, ok := g.actor()
	if !ok {
		return nil
	}

	existing, found := store.Find(g.store, entity.TableEventReminders, func(r entity.EventReminder) bool {
		return r.EventID == eventID && r.UserID == me
	})

	if found {
		_, err := updateRow[entity.EventReminder](ctx, g, entity.TableEventReminders, existing.ID, map[string]any{
			"remind_at": remindAt,
		})
		if err != nil {
			return g.fail(ctx, err, "Could not update the reminder")
		}
	} else {
		_, err := createRow[entity.EventReminder](ctx, g, entity.TableEventReminders, map[string]any{
			"event_id":  eventID,
			"user_id":   me,
			"remind_at": remindAt,
		})
		if err != nil {
			return g.fail(ctx, err, "Could not set the reminder")
		}
	}

	g.feedback.Success("Reminder set")
	return nil
}

func (g *Gateway) RemoveReminder(ctx context.Context, eventID string) error {
	me, ok := g.actor()
	if !ok {
		return nil
	}

	existing, found := store.Find(g.store, entity.TableEventReminders, func(r entity.EventReminder) bool {
		return r.EventID == eventID && r.UserID == me
	})
	if !found {
		return nil
	}

	if err := deleteRow[entity.EventReminder](ctx, g, entity.TableEventReminders, existing.ID); err != nil {
		return g.fail(ctx, err, "Could not remove the reminder")
	}

	g.feedback.Success("Reminder removed")
	return nil
}

// RecordAttendance marks a member as present at an event, leaders only.
// Recording the same member twice is a no-op.
func (g *Gateway) RecordAttendance(ctx context.Context, eventID, memberID string) error {
	me, err := g.leader()
	if err != nil {
		return g.fail(ctx, err, "Only leaders can record attendance")
	}
	if me == "" {
		return nil
	}

	_, found := store.Find(g.store, entity.TableEventAttendance, func(a entity.EventAttendance) bool {
		return a.EventID == eventID && a.UserID == memberID
	})
	if found {
		return nil
	}

	_, err = createRow[entity.EventAttendance](ctx, g, entity.TableEventAttendance, map[string]any{
		"event_id":    eventID,
		"user_id":     memberID,
		"recorded_by": me,
	})
	if err != nil {
		return g.fail(ctx, err, "Could not record attendance")
	}

	return nil
}
