package feedback

import (
	"context"

	"github.com/landesnetz/landesnetz-api/internal/pkg/recordstore"
)

const (
	newsletterDocument = "newsletter"
	bugReportDocument  = "bugreports"
)

// Repository stores newsletter subscribers and bug reports
type Repository struct {
	subscribers *recordstore.Collection[Subscriber]
	reports     *recordstore.Collection[BugReport]
}

// NewRepository creates feedback repository
func NewRepository(store *recordstore.Store) *Repository {
	return &Repository{
		subscribers: recordstore.NewCollection[Subscriber](store, newsletterDocument),
		reports:     recordstore.NewCollection[BugReport](store, bugReportDocument),
	}
}

// AddSubscriber stores sub unless the address is already subscribed.
// It reports whether a record was added.
func (r *Repository) AddSubscriber(ctx context.Context, sub Subscriber) (bool, error) {
	added := false
	_, err := r.subscribers.Update(ctx, func(items []Subscriber) ([]Subscriber, bool, error) {
		for _, it := range items {
			if it.Email == sub.Email {
				return items, false, nil
			}
		}
		added = true
		return append(items, sub), true, nil
	})
	return added, err
}

// ListSubscribers returns every subscriber
func (r *Repository) ListSubscribers(ctx context.Context) ([]Subscriber, error) {
	return r.subscribers.Load(ctx)
}

// CreateReport appends a bug report
func (r *Repository) CreateReport(ctx context.Context, report BugReport) error {
	_, err := r.reports.Update(ctx, func(items []BugReport) ([]BugReport, bool, error) {
		return append(items, report), true, nil
	})
	return err
}

// ListReports returns every bug report in submission order
func (r *Repository) ListReports(ctx context.Context) ([]BugReport, error) {
	return r.reports.Load(ctx)
}

// UpdateReport applies fn to the report with id
func (r *Repository) UpdateReport(ctx context.Context, id string, fn func(*BugReport)) (*BugReport, error) {
	var updated *BugReport
	_, err := r.reports.Update(ctx, func(items []BugReport) ([]BugReport, bool, error) {
		for i := range items {
			if items[i].ID == id {
				fn(&items[i])
				rep := items[i]
				updated = &rep
				return items, true, nil
			}
		}
		return nil, false, ErrReportNotFound
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
