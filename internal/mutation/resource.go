package mutation

import (
	"context"
	"time"

	"github.com/koinonia-app/core/internal/entity"
)

func (g *Gateway) AddResource(ctx context.Context, title, url, category string) error {
	me, ok := g.actor()
	if !ok {
		return nil
	}

	if g.throttled("add_resource") {
		return nil
	}

	_, err := createRow[entity.Resource](ctx, g, entity.TableResources, map[string]any{
		"title":    title,
		"url":      url,
		"category": category,
		"added_by": me,
	})
	if err != nil {
		return g.fail(ctx, err, "Could not add the resource")
	}

	g.feedback.Success("Resource added")
	return nil
}

func (g *Gateway) DeleteResource(ctx context.Context, resourceID string) error {
	if _, ok := g.actor(); !ok {
		return nil
	}

	if err := deleteRow[entity.Resource](ctx, g, entity.TableResources, resourceID); err != nil {
		return g.fail(ctx, err, "Could not delete the resource")
	}

	g.feedback.Success("Resource deleted")
	return nil
}

type DevotionalInput struct {
	Title       string
	Passage     string
	Content     string
	PublishDate time.Time
}

func (g *Gateway) AddDevotional(ctx context.Context, in DevotionalInput) error {
	me, err := g.leader()
	if err != nil {
		return g.fail(ctx, err, "Only leaders can publish devotionals")
	}
	if me == "" {
		return nil
	}

	_, err = createRow[entity.Devotional](ctx, g, entity.TableDevotionals, map[string]any{
		"title":        in.Title,
		"passage":      in.Passage,
		"content":      in.Content,
		"publish_date": in.PublishDate,
		"author_id":    me,
	})
	if err != nil {
		return g.fail(ctx, err, "Could not publish the devotional")
	}

	g.feedback.Success("Devotional published")
	return nil
}

func (g *Gateway) UpdateDevotional(ctx context.Context, devotionalID string, in DevotionalInput) error {
	me, err := g.leader()
	if err != nil {
		return g.fail(ctx, err, "Only leaders can edit devotionals")
	}
	if me == "" {
		return nil
	}

	_, err = updateRow[entity.Devotional](ctx, g, entity.TableDevotionals, devotionalID, map[string]any{
		"title":        in.Title,
		"passage":      in.Passage,
		"content":      in.Content,
		"publish_date": in.PublishDate,
	})
	if err != nil {
		return g.fail(ctx, err, "Could not update the devotional")
	}

	g.feedback.Success("Devotional updated")
	return nil
}

func (g *Gateway) DeleteDevotional(ctx context.Context, devotionalID string) error {
	me, err := g.leader()
	if err != nil {
		return g.fail(ctx, err, "Only leaders can delete devotionals")
	}
	if me == "" {
		return nil
	}

	if err := deleteRow[entity.Devotional](ctx, g, entity.TableDevotionals, devotionalID); err != nil {
		return g.fail(ctx, err, "Could not delete the devotional")
	}

	g.feedback.Success("Devotional deleted")
	return nil
}
