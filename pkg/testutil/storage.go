package testutil

import (
	"context"

	"github.com/koinonia-app/core/pkg/errorx"
	"github.com/koinonia-app/core/pkg/storage"
)

type MockStorage struct {
	UploadFunc     func(context.Context, *storage.UploadObject) (*storage.UploadResponse, error)
	BulkUploadFunc func(context.Context, []*storage.UploadObject) ([]*storage.UploadResponse, error)
}

func (m *MockStorage) Upload(
	ctx context.Context, obj *storage.UploadObject,
) (*storage.UploadResponse, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, obj)
	}

	return &storage.UploadResponse{
		Url:      "https://files.test/" + obj.Prefix + "/" + obj.FileName,
		FileName: obj.FileName,
	}, nil
}

func (m *MockStorage) BulkUpload(
	ctx context.Context, objects []*storage.UploadObject,
) ([]*storage.UploadResponse, error) {
	if m.BulkUploadFunc != nil {
		return m.BulkUploadFunc(ctx, objects)
	}

	if len(objects) == 0 {
		return nil, errorx.New(errorx.BadRequest, "nothing to upload")
	}

	out := make([]*storage.UploadResponse, 0, len(objects))
	for _, obj := range objects {
		out = append(out, &storage.UploadResponse{
			Url:      "https://files.test/" + obj.Prefix + "/" + obj.FileName,
			FileName: obj.FileName,
		})
	}

	return out, nil
}
