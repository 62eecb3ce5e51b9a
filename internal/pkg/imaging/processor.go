package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/disintegration/imaging"
)

// Config for chat image normalisation
type Config struct {
	MaxWidth  int // default 1600
	MaxHeight int // default 1600
	Quality   int // JPEG quality 1-100 (default 85)
}

// DefaultConfig returns default processing config
func DefaultConfig() Config {
	return Config{
		MaxWidth:  1600,
		MaxHeight: 1600,
		Quality:   85,
	}
}

// Processor shrinks and re-encodes uploaded images
type Processor struct {
	config Config
}

// NewProcessor creates image processor
func NewProcessor(config Config) *Processor {
	return &Processor{config: config}
}

// Normalize applies EXIF orientation, fits the image into the configured
// bounds and re-encodes JPEG and PNG input. GIF and WebP are returned as
// uploaded so animations survive.
func (p *Processor) Normalize(data []byte, contentType string) ([]byte, string, error) {
	if contentType == "image/gif" || contentType == "image/webp" {
		return data, contentType, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	b := img.Bounds()
	if b.Dx() > p.config.MaxWidth || b.Dy() > p.config.MaxHeight {
		img = imaging.Fit(img, p.config.MaxWidth, p.config.MaxHeight, imaging.Lanczos)
	}

	out, err := p.encode(img, contentType)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode image: %w", err)
	}
	return out, contentType, nil
}

func (p *Processor) encode(img image.Image, contentType string) ([]byte, error) {
	var buf bytes.Buffer

	switch contentType {
	case "image/png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
	default:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.config.Quality}); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}
