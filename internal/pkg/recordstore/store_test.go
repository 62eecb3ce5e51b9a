package recordstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

type record struct {
	Name string `json:"name"`
}

type countingBackend struct {
	Backend
	writes int
}

func (b *countingBackend) Write(ctx context.Context, name string, data []byte) error {
	b.writes++
	return b.Backend.Write(ctx, name, data)
}

func newLocal(t *testing.T) (*LocalBackend, string) {
	t.Helper()
	dir := t.TempDir()
	b, err := NewLocalBackend(dir)
	if err != nil {
		t.Fatalf("NewLocalBackend: %v", err)
	}
	return b, dir
}

func appendRecord(name string) func([]record) ([]record, bool, error) {
	return func(items []record) ([]record, bool, error) {
		return append(items, record{Name: name}), true, nil
	}
}

func TestLocalBackend_ReadMissing(t *testing.T) {
	b, _ := newLocal(t)
	if _, err := b.Read(context.Background(), "users"); !errors.Is(err, ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}

func TestLocalBackend_WriteNestedAndList(t *testing.T) {
	b, dir := newLocal(t)
	ctx := context.Background()

	if err := b.Write(ctx, "chats/bayern", []byte(`[]`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := b.Write(ctx, "users", []byte(`[]`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "chats", "bayern.json")); err != nil {
		t.Fatalf("expected chats/bayern.json on disk: %v", err)
	}

	names, err := b.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) != 2 || names[0] != "chats/bayern" || names[1] != "users" {
		t.Fatalf("unexpected names %v", names)
	}
}

func TestLocalBackend_RejectsTraversal(t *testing.T) {
	b, _ := newLocal(t)
	if err := b.Write(context.Background(), "../escape", []byte(`[]`)); err == nil {
		t.Fatal("expected traversal to be rejected")
	}
}

func TestCollection_LoadCorruptIsEmpty(t *testing.T) {
	b, dir := newLocal(t)
	if err := os.WriteFile(filepath.Join(dir, "users.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	items, err := NewCollection[record](New(b), "users").Load(context.Background())
	if err != nil {
		t.Fatalf("expected read recovery, got %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty, got %v", items)
	}
}

func TestCollection_UpdateCorruptDoesNotWrite(t *testing.T) {
	b, dir := newLocal(t)
	path := filepath.Join(dir, "users.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := NewCollection[record](New(b), "users").Update(context.Background(), appendRecord("anna"))
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "{not json" {
		t.Fatalf("document was rewritten: %q", data)
	}
}

func TestCollection_UnchangedSkipsWrite(t *testing.T) {
	local, _ := newLocal(t)
	b := &countingBackend{Backend: local}
	c := NewCollection[record](New(b), "users")
	ctx := context.Background()

	if _, err := c.Update(ctx, appendRecord("anna")); err != nil {
		t.Fatal(err)
	}
	_, err := c.Update(ctx, func(items []record) ([]record, bool, error) {
		return items, false, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if b.writes != 1 {
		t.Fatalf("expected 1 write, got %d", b.writes)
	}
}

func TestCollection_ConcurrentUpdatesAreSerialized(t *testing.T) {
	b, _ := newLocal(t)
	c := NewCollection[record](New(b), "chats/allgemein")
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Update(ctx, appendRecord("x")); err != nil {
				t.Errorf("update: %v", err)
			}
		}()
	}
	wg.Wait()

	items, err := c.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 40 {
		t.Fatalf("expected 40 records, got %d", len(items))
	}
}
