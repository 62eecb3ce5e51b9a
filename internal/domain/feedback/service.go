package feedback

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Service handles newsletter and bug report logic
type Service struct {
	repo *Repository
	now  func() time.Time
}

// NewService creates feedback service
func NewService(repo *Repository, now func() time.Time) *Service {
	return &Service{repo: repo, now: now}
}

// Subscribe adds an address to the newsletter. created is false when the
// address was already subscribed.
func (s *Service) Subscribe(ctx context.Context, req *SubscribeRequest, ip string) (sub *Subscriber, created bool, err error) {
	sub = &Subscriber{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		SubscribedAt: s.now().UTC(),
		IPAddress:    ip,
	}

	created, err = s.repo.AddSubscriber(ctx, *sub)
	if err != nil {
		return nil, false, err
	}
	if created {
		log.Info().Str("ip", ip).Msg("Newsletter subscription added")
	}
	return sub, created, nil
}

// SubmitReport stores a bug report
func (s *Service) SubmitReport(ctx context.Context, req *BugReportRequest, username, ip, userAgent string) (*BugReport, error) {
	now := s.now().UTC()
	report := BugReport{
		ID:        uuid.NewString(),
		Message:   strings.TrimSpace(req.Message),
		Page:      req.Page,
		Username:  username,
		IPAddress: ip,
		UserAgent: userAgent,
		Status:    StatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreateReport(ctx, report); err != nil {
		return nil, err
	}

	log.Info().Str("report_id", report.ID).Str("page", report.Page).Msg("Bug report received")
	return &report, nil
}

// ListSubscribers returns every newsletter subscriber
func (s *Service) ListSubscribers(ctx context.Context) ([]Subscriber, error) {
	return s.repo.ListSubscribers(ctx)
}

// ListReports returns bug reports newest first with an optional status
// filter, paginated
func (s *Service) ListReports(ctx context.Context, status *Status, limit, offset int) ([]BugReport, int, error) {
	all, err := s.repo.ListReports(ctx)
	if err != nil {
		return nil, 0, err
	}

	filtered := make([]BugReport, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		if status != nil && all[i].Status != *status {
			continue
		}
		filtered = append(filtered, all[i])
	}

	total := len(filtered)
	if offset >= total {
		return []BugReport{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return filtered[offset:end], total, nil
}

// UpdateStatus changes the status of a bug report
func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) (*BugReport, error) {
	return s.repo.UpdateReport(ctx, id, func(r *BugReport) {
		r.Status = status
		r.UpdatedAt = s.now().UTC()
	})
}
