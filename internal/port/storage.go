package port

import (
	"context"
	"io"
)

// ObjectStorage abstracts blob storage for uploaded statements.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
