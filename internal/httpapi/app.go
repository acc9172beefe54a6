package httpapi

import (
	"context"

	"upload-pipeline/internal/models"
)

// UploadPresigner issues short-lived, content-type-bound upload URLs.
type UploadPresigner interface {
	PresignUpload(ctx context.Context, key string, contentType string) (string, error)
}

// StatusReader returns the latest lifecycle record for a fileId.
type StatusReader interface {
	Latest(ctx context.Context, fileID string) (models.LifecycleRecord, error)
}

// App holds the API's injected dependencies.
type App struct {
	Store     StatusReader
	Presigner UploadPresigner
}
