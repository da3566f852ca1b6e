package mutation

import (
	"context"

	"github.com/koinonia-app/core/internal/common"
	"github.com/koinonia-app/core/internal/entity"
)

// UpdateProfile changes the editable fields of the current user's profile.
// Role and status are authoritative only from the remote service and never
// written here.
func (g *Gateway) UpdateProfile(ctx context.Context, fullName, bio string) error {
	me, ok := g.actor()
	if !ok {
		return nil
	}

	_, err := updateRow[entity.Profile](ctx, g, entity.TableProfiles, me, map[string]any{
		"full_name": fullName,
		"bio":       bio,
	})
	if err != nil {
		return g.fail(ctx, err, "Could not update your profile")
	}

	g.feedback.Success("Profile updated")
	return nil
}

// UpdateAvatar uploads every avatar rendition, then points the profile at the
// largest one. Upload failures abort before any row is written.
func (g *Gateway) UpdateAvatar(ctx context.Context, mime string, data []byte) error {
	me, ok := g.actor()
	if !ok {
		return nil
	}

	objects, err := common.SizedUploads(g.bucket, "avatars", me+".jpg", mime, data, common.AvatarSizes)
	if err != nil {
		return g.fail(ctx, err, "Could not process your avatar")
	}

	uploaded, err := g.blob.BulkUpload(ctx, objects)
	if err != nil {
		return g.fail(ctx, err, "Could not upload your avatar")
	}

	_, err = updateRow[entity.Profile](ctx, g, entity.TableProfiles, me, map[string]any{
		"avatar_url": uploaded[0].Url,
	})
	if err != nil {
		return g.fail(ctx, err, "Could not update your avatar")
	}

	g.feedback.Success("Avatar updated")
	return nil
}
