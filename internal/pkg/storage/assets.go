package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Assets names and writes media objects on top of a Storage backend
type Assets struct {
	backend Storage
}

// NewAssets wraps backend
func NewAssets(backend Storage) *Assets {
	return &Assets{backend: backend}
}

// SaveRandom stores data under prefix with a fresh random name and
// returns that name without the prefix.
func (a *Assets) SaveRandom(ctx context.Context, prefix string, data []byte, contentType string) (string, error) {
	name := uuid.New().String() + ExtensionForMime(contentType)
	if err := a.backend.Put(ctx, prefix+name, bytes.NewReader(data), contentType); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", name, err)
	}
	return name, nil
}

// SaveFixed overwrites the object stored under key
func (a *Assets) SaveFixed(ctx context.Context, key string, data []byte, contentType string) error {
	if err := a.backend.Put(ctx, key, bytes.NewReader(data), contentType); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// Delete removes the object stored under key
func (a *Assets) Delete(ctx context.Context, key string) error {
	return a.backend.Delete(ctx, key)
}

// URL returns the public URL for key
func (a *Assets) URL(key string) string {
	return a.backend.URL(key)
}
