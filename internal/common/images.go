package common

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"

	"github.com/koinonia-app/core/pkg/errorx"
	"github.com/koinonia-app/core/pkg/storage"
	"github.com/nfnt/resize"
)

type Size struct {
	W uint
	H uint
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.W, s.H)
}

var (
	AvatarSizes = []Size{
		{W: 512, H: 512},
		{W: 128, H: 128},
		{W: 32, H: 32},
	}

	PostImageSize  = Size{W: 1280, H: 1280}
	GalleryMaxSize = Size{W: 1920, H: 1920}
)

// OptimizeImage decodes, bounds and re-encodes an image before upload. It
// returns the optimised bytes; failures abort the whole mutation before any
// row is written.
func OptimizeImage(mime string, data []byte, max Size) ([]byte, error) {
	img, err := decodeImg(mime, data)
	if err != nil {
		return nil, errorx.New(errorx.InvalidImage, "We just accept jpeg, gif or png")
	}

	img = resize.Thumbnail(max.W, max.H, img, resize.Lanczos3)
	optimised, err := encodeImg(mime, img)
	if err != nil {
		return nil, errorx.New(errorx.InvalidImage, "Cannot process this image")
	}

	return optimised, nil
}

// SizedUploads builds one upload object per size, used for avatars where the
// UI needs multiple renditions.
func SizedUploads(bucket, prefix, fileName, mime string, data []byte, sizes []Size) ([]*storage.UploadObject, error) {
	img, err := decodeImg(mime, data)
	if err != nil {
		return nil, errorx.New(errorx.InvalidImage, "We just accept jpeg, gif or png")
	}

	objects := make([]*storage.UploadObject, 0, len(sizes))
	for _, size := range sizes {
		resized := resize.Thumbnail(size.W, size.H, img, resize.Lanczos3)
		encoded, err := encodeImg(mime, resized)
		if err != nil {
			return nil, errorx.New(errorx.InvalidImage, "Cannot process this image")
		}

		objects = append(objects, &storage.UploadObject{
			Bucket:   bucket,
			Prefix:   prefix,
			FileName: fmt.Sprintf("%s-%s", size, fileName),
			Mime:     mime,
			Data:     encoded,
		})
	}

	return objects, nil
}

func decodeImg(mime string, data []byte) (img image.Image, err error) {
	reader := bytes.NewReader(data)
	switch mime {
	case "image/jpeg":
		img, err = jpeg.Decode(reader)
	case "image/png", "application/octet-stream":
		img, err = png.Decode(reader)
	case "image/gif":
		img, err = gif.Decode(reader)
	default:
		return nil, fmt.Errorf("unsupported mime %s", mime)
	}
	return img, err
}

func encodeImg(mime string, img image.Image) ([]byte, error) {
	buf := new(bytes.Buffer)

	var err error
	switch mime {
	case "image/jpeg", "application/octet-stream":
		err = jpeg.Encode(buf, img, nil)
	case "image/png":
		err = png.Encode(buf, img)
	case "image/gif":
		err = gif.Encode(buf, img, nil)
	default:
		return nil, fmt.Errorf("unsupported mime %s", mime)
	}
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
