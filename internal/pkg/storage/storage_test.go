package storage

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestValidateFile(t *testing.T) {
	img := pngBytes(t)

	if _, mime, err := ValidateFile(bytes.NewReader(img), CategoryImage, 1<<20); err != nil || mime != "image/png" {
		t.Fatalf("expected png to pass, got %q %v", mime, err)
	}
	if _, _, err := ValidateFile(bytes.NewReader(img), CategoryImage, 10); !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
	if _, _, err := ValidateFile(strings.NewReader(""), CategoryImage, 10); !errors.Is(err, ErrEmptyFile) {
		t.Fatalf("expected ErrEmptyFile, got %v", err)
	}
	if _, _, err := ValidateFile(strings.NewReader("plain text"), CategoryImage, 100); !errors.Is(err, ErrInvalidMimeType) {
		t.Fatalf("expected ErrInvalidMimeType, got %v", err)
	}
}

func TestAssets_SaveRandomAndFixed(t *testing.T) {
	dir := t.TempDir()
	local, err := NewLocalStorage(dir, "/media/")
	if err != nil {
		t.Fatal(err)
	}
	assets := NewAssets(local)
	ctx := context.Background()

	name, err := assets.SaveRandom(ctx, "chat/", pngBytes(t), "image/png")
	if err != nil {
		t.Fatalf("SaveRandom: %v", err)
	}
	if !strings.HasSuffix(name, ".png") {
		t.Fatalf("expected .png name, got %q", name)
	}
	if _, err := os.Stat(filepath.Join(dir, "chat", name)); err != nil {
		t.Fatalf("expected file on disk: %v", err)
	}
	if got := assets.URL("chat/" + name); got != "/media/chat/"+name {
		t.Fatalf("unexpected url %q", got)
	}

	for _, body := range []string{"first", "second"} {
		if err := assets.SaveFixed(ctx, "site/hero-image", []byte(body), "image/png"); err != nil {
			t.Fatal(err)
		}
	}
	data, _ := os.ReadFile(filepath.Join(dir, "site", "hero-image"))
	if string(data) != "second" {
		t.Fatalf("expected overwrite, got %q", data)
	}
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	local, err := NewLocalStorage(t.TempDir(), "")
	if err != nil {
		t.Fatal(err)
	}
	err = local.Put(context.Background(), "../x", strings.NewReader("x"), "text/plain")
	if !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}
