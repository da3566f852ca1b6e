package mutation

import (
	"context"
	"time"

	"github.com/koinonia-app/core/internal/entity"
	"github.com/koinonia-app/core/internal/remote"
	"github.com/koinonia-app/core/internal/store"
)

func (g *Gateway) AddBibleStudy(ctx context.Context, title, description string) error {
	me, err := g.leader()
	if err != nil {
		return g.fail(ctx, err, "Only leaders can create studies")
	}
	if me == "" {
		return nil
	}

	if g.throttled("add_bible_study") {
		return nil
	}

	_, err = createRow[entity.BibleStudy](ctx, g, entity.TableBibleStudies, map[string]any{
		"title":       title,
		"description": description,
		"created_by":  me,
	})
	if err != nil {
		return g.fail(ctx, err, "Could not create the study")
	}

	g.feedback.Success("Study created")
	return nil
}

func (g *Gateway) EnrollStudy(ctx context.Context, studyID string) error {
	me, ok := g.actor()
	if !ok {
		return nil
	}

	_, found := store.Find(g.store, entity.TableStudyEnrollments, func(e entity.StudyEnrollment) bool {
		return e.StudyID == studyID && e.UserID == me
	})
	if found {
		return nil
	}

	_, err := createRow[entity.StudyEnrollment](ctx, g, entity.TableStudyEnrollments, map[string]any{
		"study_id": studyID,
		"user_id":  me,
	})
	if err != nil {
		return g.fail(ctx, err, "Could not join the study")
	}

	g.feedback.Success("You joined the study")
	return nil
}

func (g *Gateway) UnenrollStudy(ctx context.Context, studyID string) error {
	me, ok := g.actor()
	if !ok {
		return nil
	}

	existing, found := store.Find(g.store, entity.TableStudyEnrollments, func(e entity.StudyEnrollment) bool {
		return e.StudyID == studyID && e.UserID == me
	})
	if !found {
		return nil
	}

	if err := deleteRow[entity.StudyEnrollment](ctx, g, entity.TableStudyEnrollments, existing.ID); err != nil {
		return g.fail(ctx, err, "Could not leave the study")
	}

	g.feedback.Success("You left the study")
	return nil
}

// CompleteStudyDay upserts the user's progress for one day of a study: at
// most one row per (user, study, day), replaced when completed again.
func (g *Gateway) CompleteStudyDay(ctx context.Context, studyID string, dayNumber int) error {
	me, ok := g.actor()
	if !ok {
		return nil
	}

	row, err := g.remote.Upsert(ctx, entity.TableStudyProgress, map[string]any{
		"study_id":     studyID,
		"user_id":      me,
		"day_number":   dayNumber,
		"completed_at": time.Now().UTC(),
	}, "user_id", "study_id", "day_number")
	if err != nil {
		return g.fail(ctx, err, "Could not save your progress")
	}

	progress, err := remote.DecodeRow[entity.StudyProgress](row)
	if err != nil {
		return g.fail(ctx, err, "Could not save your progress")
	}

	store.RemoveWhere(g.store, entity.TableStudyProgress, func(p entity.StudyProgress) bool {
		return p.StudyID == studyID && p.UserID == me && p.DayNumber == dayNumber
	})
	store.Append(g.store, entity.TableStudyProgress, *progress)

	g.effects.CheckBadges(ctx, me, entity.ActionStudyDayCompleted)
	g.effects.AwardPoints(ctx, me, 3)
	g.feedback.Success("Day %d completed", dayNumber)
	return nil
}
