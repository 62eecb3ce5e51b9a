package admin

import (
	"context"

	"github.com/landesnetz/landesnetz-api/internal/pkg/recordstore"
)

const (
	auditDocument   = "audit"
	maxAuditEntries = 1000
)

// AuditRepository keeps the most recent audit entries
type AuditRepository struct {
	coll *recordstore.Collection[AuditEntry]
}

// NewAuditRepository creates audit repository
func NewAuditRepository(store *recordstore.Store) *AuditRepository {
	return &AuditRepository{coll: recordstore.NewCollection[AuditEntry](store, auditDocument)}
}

// Append stores entry, dropping the oldest entries beyond the cap
func (r *AuditRepository) Append(ctx context.Context, entry AuditEntry) error {
	_, err := r.coll.Update(ctx, func(items []AuditEntry) ([]AuditEntry, bool, error) {
		items = append(items, entry)
		if len(items) > maxAuditEntries {
			items = items[len(items)-maxAuditEntries:]
		}
		return items, true, nil
	})
	return err
}

// List returns up to limit entries, newest first
func (r *AuditRepository) List(ctx context.Context, limit int) ([]AuditEntry, error) {
	items, err := r.coll.Load(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]AuditEntry, 0, len(items))
	for i := len(items) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, items[i])
	}
	return out, nil
}
