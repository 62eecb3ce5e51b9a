package recordstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// ErrCorrupt is returned when an update finds a document it cannot parse.
// The document is left untouched.
var ErrCorrupt = errors.New("document is corrupt")

// Store couples a backend with the per-document locks guarding it
type Store struct {
	backend Backend
	locks   *Locks
}

// New creates a store over backend
func New(backend Backend) *Store {
	return &Store{backend: backend, locks: NewLocks()}
}

// Names lists every document held by the backend
func (s *Store) Names(ctx context.Context) ([]string, error) {
	return s.backend.List(ctx)
}

// Raw returns a document's bytes as stored, under its lock
func (s *Store) Raw(ctx context.Context, name string) ([]byte, error) {
	unlock := s.locks.Lock(name)
	defer unlock()
	return s.backend.Read(ctx, name)
}

// Collection is a JSON array document of T with load-all / replace-all access
type Collection[T any] struct {
	store *Store
	name  string
}

// NewCollection binds a collection to the document name
func NewCollection[T any](s *Store, name string) *Collection[T] {
	return &Collection[T]{store: s, name: name}
}

// Name returns the document name
func (c *Collection[T]) Name() string {
	return c.name
}

// Load returns every item. A missing document is empty. A document that
// cannot be parsed is logged and treated as empty.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	unlock := c.store.locks.Lock(c.name)
	defer unlock()

	items, err := c.read(ctx)
	if errors.Is(err, ErrCorrupt) {
		return []T{}, nil
	}
	return items, err
}

// Update runs fn on the current items under the document's lock and writes
// the result back when fn reports a change. No write happens when the read
// fails or fn returns an error.
func (c *Collection[T]) Update(ctx context.Context, fn func(items []T) ([]T, bool, error)) ([]T, error) {
	unlock := c.store.locks.Lock(c.name)
	defer unlock()

	items, err := c.read(ctx)
	if err != nil {
		return nil, err
	}

	updated, changed, err := fn(items)
	if err != nil {
		return nil, err
	}
	if !changed {
		return updated, nil
	}
	if updated == nil {
		updated = []T{}
	}

	data, err := json.MarshalIndent(updated, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", c.name, err)
	}
	if err := c.store.backend.Write(ctx, c.name, data); err != nil {
		return nil, err
	}
	return updated, nil
}

func (c *Collection[T]) read(ctx context.Context) ([]T, error) {
	data, err := c.store.backend.Read(ctx, c.name)
	if errors.Is(err, ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, err
	}

	items := []T{}
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		log.Error().Err(err).Str("document", c.name).Msg("Failed to parse document")
		return nil, fmt.Errorf("%w: %s", ErrCorrupt, c.name)
	}
	return items, nil
}
