package storage

import (
	"context"
	"errors"
	"io"
)

// ErrInvalidKey is returned for keys that would escape the media root
var ErrInvalidKey = errors.New("invalid media key")

// Storage is a flat binary object store for uploaded media
type Storage interface {
	// Put stores the object at key, replacing any previous content.
	Put(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Delete removes the object. Missing objects are not an error.
	Delete(ctx context.Context, key string) error

	// URL returns the public URL of key.
	URL(key string) string
}

// Config selects and configures a backend
type Config struct {
	Driver  string // local, s3
	Dir     string
	BaseURL string

	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
}

// New builds the backend named by cfg.Driver
func New(ctx context.Context, cfg Config) (Storage, error) {
	if cfg.Driver == "s3" {
		return NewS3Storage(ctx, cfg)
	}
	return NewLocalStorage(cfg.Dir, cfg.BaseURL)
}
