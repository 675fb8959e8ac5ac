package port

import (
	"context"
	"io"
)

// UploadInput describes one object upload.
type UploadInput struct {
	Bucket      string
	Key         string
	Body        io.Reader
	ContentType string
	Size        int64
	// OnProgress, when non-nil, is called with a 0-100 percentage as the
	// body is consumed. Granularity is transport-determined; callers must
	// tolerate any frequency including zero calls before completion.
	OnProgress func(percent int)
}

// UploadOutput holds the storage-confirmed result of an upload.
type UploadOutput struct {
	Location string
	ETag     string
}

// ObjectStorage abstracts the blob store backing document uploads.
type ObjectStorage interface {
	Upload(ctx context.Context, input UploadInput) (*UploadOutput, error)
	Delete(ctx context.Context, bucket, key string) error
	GetPresignedURL(ctx context.Context, bucket, key string, expirySeconds int64) (string, error)
}
