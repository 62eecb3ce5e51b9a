package chat

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/landesnetz/landesnetz-api/internal/pkg/imaging"
	"github.com/landesnetz/landesnetz-api/internal/pkg/storage"
)

// imagePrefix is the media folder of chat images
const imagePrefix = "chat/"

// ImageUploader validates, normalises and stores chat images
type ImageUploader struct {
	assets    *storage.Assets
	processor *imaging.Processor
	maxBytes  int64
}

// NewImageUploader creates an uploader accepting images up to maxBytes
func NewImageUploader(assets *storage.Assets, processor *imaging.Processor, maxBytes int64) *ImageUploader {
	return &ImageUploader{assets: assets, processor: processor, maxBytes: maxBytes}
}

// Store saves the image under a random name and returns that name
func (u *ImageUploader) Store(ctx context.Context, r io.Reader) (string, error) {
	data, mime, err := storage.ValidateFile(r, storage.CategoryImage, u.maxBytes)
	switch {
	case errors.Is(err, storage.ErrFileTooLarge):
		return "", ErrImageTooLarge
	case errors.Is(err, storage.ErrEmptyFile), errors.Is(err, storage.ErrInvalidMimeType):
		return "", ErrImageInvalid
	case err != nil:
		return "", err
	}

	data, mime, err = u.processor.Normalize(data, mime)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrImageInvalid, err)
	}

	return u.assets.SaveRandom(ctx, imagePrefix, data, mime)
}

// Remove deletes a stored image
func (u *ImageUploader) Remove(ctx context.Context, name string) error {
	return u.assets.Delete(ctx, imagePrefix+name)
}

// MaxBytes returns the upload ceiling
func (u *ImageUploader) MaxBytes() int64 {
	return u.maxBytes
}
