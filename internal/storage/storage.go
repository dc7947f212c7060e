package storage

import (
	"context"
	"io"
)

// BlobStore is the injected capability for durable byte storage of uploaded
// files, keyed by an opaque storage key.
type BlobStore interface {
	Put(ctx context.Context, key string, body io.Reader) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}
