package repository

import (
	"context"
	"io"
)

// ObjectStorage defines the object store used by the search archive.
type ObjectStorage interface {
	// Upload stores an object under key, replacing any existing object.
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Exists reports whether an object exists under key.
	Exists(ctx context.Context, key string) (bool, error)
}
