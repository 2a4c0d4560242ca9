package filestorage

import (
	"context"
	"io"
	"time"
)

// ObjectInfo describes one stored object
type ObjectInfo struct {
	Path    string
	ModTime time.Time
}

// ObjectStorage is the contract the handlers depend on. The local-disk
// implementation is the default; a hosted object store can replace it without
// touching the services.
type ObjectStorage interface {
	// Upload writes an object under bucket/path
	Upload(ctx context.Context, bucket, path string, r io.Reader) error
	// Remove deletes the listed objects from a bucket
	Remove(ctx context.Context, bucket string, paths []string) error
	// CreateSignedURL issues a short-lived download URL for an object
	CreateSignedURL(bucket, path string, ttl time.Duration) (string, error)
	// List returns every object currently stored in a bucket
	List(ctx context.Context, bucket string) ([]ObjectInfo, error)
}
