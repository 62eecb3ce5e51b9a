package chat

import (
	"context"

	"github.com/landesnetz/landesnetz-api/internal/pkg/recordstore"
)

// Repository gives access to the per-channel message logs
type Repository struct {
	store *recordstore.Store
}

// NewRepository creates chat repository
func NewRepository(store *recordstore.Store) *Repository {
	return &Repository{store: store}
}

// DocumentName returns the record-store name of a channel log
func DocumentName(channel string) string {
	return "chats/" + channel
}

func (r *Repository) log(channel string) *recordstore.Collection[Message] {
	return recordstore.NewCollection[Message](r.store, DocumentName(channel))
}

// List returns the channel log as stored
func (r *Repository) List(ctx context.Context, channel string) ([]Message, error) {
	return r.log(channel).Load(ctx)
}

// Update runs fn on the channel log under its lock. The log is written back
// only when fn reports a change.
func (r *Repository) Update(ctx context.Context, channel string, fn func([]Message) ([]Message, bool, error)) ([]Message, error) {
	return r.log(channel).Update(ctx, fn)
}
