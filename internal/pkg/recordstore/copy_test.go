package recordstore

import (
	"context"
	"testing"
)

func TestCopy_ReplacesDocuments(t *testing.T) {
	ctx := context.Background()
	src, err := NewLocalBackend(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	dst, err := NewLocalBackend(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	src.Write(ctx, "users", []byte(`[{"username":"kim"}]`))
	src.Write(ctx, "chats/bayern", []byte(`[]`))
	dst.Write(ctx, "users", []byte(`[]`))

	n, err := Copy(ctx, dst, src)
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 documents, got %d", n)
	}

	data, err := dst.Read(ctx, "users")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `[{"username":"kim"}]` {
		t.Fatalf("users not replaced: %s", data)
	}
	if _, err := dst.Read(ctx, "chats/bayern"); err != nil {
		t.Fatalf("nested document missing: %v", err)
	}
}

func TestCopy_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src, _ := NewLocalBackend(t.TempDir())
	dst, _ := NewLocalBackend(t.TempDir())
	src.Write(context.Background(), "users", []byte(`[]`))
	cancel()

	n, err := Copy(ctx, dst, src)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if n != 0 {
		t.Fatalf("expected nothing copied, got %d", n)
	}
}
