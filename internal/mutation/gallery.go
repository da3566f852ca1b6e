package mutation

import (
	"context"

	"github.com/koinonia-app/core/internal/common"
	"github.com/koinonia-app/core/internal/entity"
	"github.com/koinonia-app/core/pkg/storage"
)

func (g *Gateway) AddAlbum(ctx context.Context, title, description string) error {
	me, ok := g.actor()
	if !ok {
		return nil
	}

	if g.throttled("add_album") {
		return nil
	}

	_, err := createRow[entity.GalleryAlbum](ctx, g, entity.TableGalleryAlbums, map[string]any{
		"title":       title,
		"description": description,
		"created_by":  me,
	})
	if err != nil {
		return g.fail(ctx, err, "Could not create the album")
	}

	g.feedback.Success("Album created")
	return nil
}

// UploadPhoto optimises and uploads the image first; only after the blob
// store confirms is the photo row written.
func (g *Gateway) UploadPhoto(ctx context.Context, albumID, caption, mime string, data []byte) error {
	me, ok := g.actor()
	if !ok {
		return nil
	}

	optimised, err := common.OptimizeImage(mime, data, common.GalleryMaxSize)
	if err != nil {
		return g.fail(ctx, err, "Could not process your photo")
	}

	uploaded, err := g.blob.Upload(ctx, &storage.UploadObject{
		Bucket:   g.bucket,
		Prefix:   "gallery/" + albumID,
		FileName: "photo.jpg",
		Mime:     mime,
		Data:     optimised,
	})
	if err != nil {
		return g.fail(ctx, err, "Could not upload your photo")
	}

	_, err = createRow[entity.GalleryPhoto](ctx, g, entity.TableGalleryPhotos, map[string]any{
		"album_id":    albumID,
		"uploaded_by": me,
		"url":         uploaded.Url,
		"caption":     caption,
	})
	if err != nil {
		return g.fail(ctx, err, "Could not save your photo")
	}

	g.feedback.Success("Photo uploaded")
	return nil
}

func (g *Gateway) DeletePhoto(ctx context.Context, photoID string) error {
	if _, ok := g.actor(); !ok {
		return nil
	}

	if err := deleteRow[entity.GalleryPhoto](ctx, g, entity.TableGalleryPhotos, photoID); err != nil {
		return g.fail(ctx, err, "Could not delete the photo")
	}

	g.feedback.Success("Photo deleted")
	return nil
}
