package storage

import (
	"context"
	"time"
)

// ObjectStorage defines the presigned-upload operations the app needs
// from an object store backend.
type ObjectStorage interface {
	// EnsureBucket ensures the configured bucket exists.
	EnsureBucket(ctx context.Context) error

	// PresignPut returns a time-limited URL that grants a single PUT of
	// the named object without further authentication.
	PresignPut(ctx context.Context, key, contentType string, expiry time.Duration) (string, error)

	// PublicURL returns the permanent retrieval URL for the named object.
	PublicURL(key string) string

	// Bucket returns the configured bucket name.
	Bucket() string
}

// Storage wraps an ObjectStorage backend with a stable API.
type Storage struct {
	backend ObjectStorage
}

// NewStorage constructs a Storage wrapper for the provided backend.
func NewStorage(backend ObjectStorage) *Storage {
	return &Storage{backend: backend}
}

// EnsureBucket ensures the configured bucket exists.
func (s *Storage) EnsureBucket(ctx context.Context) error {
	return s.backend.EnsureBucket(ctx)
}

// PresignPut issues a presigned upload URL for the named object.
func (s *Storage) PresignPut(ctx context.Context, key, contentType string, expiry time.Duration) (string, error) {
	return s.backend.PresignPut(ctx, key, contentType, expiry)
}

// PublicURL returns the permanent retrieval URL for the named object.
func (s *Storage) PublicURL(key string) string {
	return s.backend.PublicURL(key)
}

// Bucket returns the configured bucket name.
func (s *Storage) Bucket() string {
	return s.backend.Bucket()
}
