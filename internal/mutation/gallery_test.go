package mutation

import (
	"strings"
	"testing"

	"github.com/koinonia-app/core/internal/entity"
	"github.com/koinonia-app/core/internal/store"
	"github.com/koinonia-app/core/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_UploadPhoto(t *testing.T) {
	fx := newGatewayFixture(t, testutil.John)

	require.NoError(t, fx.gateway.AddAlbum(fx.ctx, "Retreat 2026", "Photos from the retreat"))
	albumID := store.Rows[entity.GalleryAlbum](fx.store, entity.TableGalleryAlbums)[0].ID

	require.NoError(t, fx.gateway.UploadPhoto(fx.ctx, albumID, "Sunset", "image/png", pngBytes(t)))

	photos := store.Rows[entity.GalleryPhoto](fx.store, entity.TableGalleryPhotos)
	require.Len(t, photos, 1)
	require.Equal(t, albumID, photos[0].AlbumID)
	require.True(t, strings.HasPrefix(photos[0].URL, "https://files.test/"))

	require.NoError(t, fx.gateway.DeletePhoto(fx.ctx, photos[0].ID))
	require.Empty(t, fx.remote.Rows(entity.TableGalleryPhotos))
}

func Test_UploadPhoto_RejectsBrokenImage(t *testing.T) {
	fx := newGatewayFixture(t, testutil.John)

	err := fx.gateway.UploadPhoto(fx.ctx, "album-1", "Broken", "image/png", []byte("not a png"))
	require.Error(t, err)
	require.Empty(t, fx.remote.Rows(entity.TableGalleryPhotos))
	require.NotEmpty(t, fx.errorMessages())
}
