package common

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/koinonia-app/core/pkg/errorx"
	"github.com/stretchr/testify/require"
)

func testPNG(t *testing.T, w, h int) []byte {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func Test_OptimizeImage_BoundsLargeImages(t *testing.T) {
	data := testPNG(t, 2000, 1000)

	optimised, err := OptimizeImage("image/png", data, PostImageSize)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(optimised))
	require.NoError(t, err)
	require.LessOrEqual(t, img.Bounds().Dx(), 1280)
	require.LessOrEqual(t, img.Bounds().Dy(), 1280)
}

func Test_OptimizeImage_KeepsSmallImages(t *testing.T) {
	data := testPNG(t, 64, 64)

	optimised, err := OptimizeImage("image/png", data, PostImageSize)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(optimised))
	require.NoError(t, err)
	require.Equal(t, 64, img.Bounds().Dx())
}

func Test_OptimizeImage_RejectsGarbage(t *testing.T) {
	_, err := OptimizeImage("image/png", []byte("not an image"), PostImageSize)
	require.Error(t, err)
	require.True(t, errorx.IsCode(err, errorx.InvalidImage))

	_, err = OptimizeImage("image/tiff", testPNG(t, 8, 8), PostImageSize)
	require.Error(t, err)
}

func Test_SizedUploads_OneObjectPerSize(t *testing.T) {
	objects, err := SizedUploads("images", "avatars", "me.jpg", "image/png", testPNG(t, 600, 600), AvatarSizes)
	require.NoError(t, err)
	require.Len(t, objects, 3)

	require.Equal(t, "512x512-me.jpg", objects[0].FileName)
	require.Equal(t, "128x128-me.jpg", objects[1].FileName)
	require.Equal(t, "32x32-me.jpg", objects[2].FileName)

	for _, obj := range objects {
		require.Equal(t, "images", obj.Bucket)
		require.Equal(t, "avatars", obj.Prefix)
		require.NotEmpty(t, obj.Data)
	}
}
