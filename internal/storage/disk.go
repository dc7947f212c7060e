package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
)

// DiskStore is a local-filesystem BlobStore for single-node deployments.
type DiskStore struct {
	dir string
}

// NewDiskStore ensures the upload directory exists.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, err
	}
	return &DiskStore{dir: dir}, nil
}

// Put writes the blob to disk under the given key.
func (s *DiskStore) Put(_ context.Context, key string, body io.Reader) error {
	f, err := os.Create(filepath.Join(s.dir, filepath.Base(key)))
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		return err
	}
	return f.Sync()
}

// Get opens the blob stored under the given key.
func (s *DiskStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.dir, filepath.Base(key)))
}
