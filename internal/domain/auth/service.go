package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/landesnetz/landesnetz-api/internal/domain/account"
)

// Service handles signup and login
type Service struct {
	stores *account.Stores
	lookup *account.Lookup
	now    func() time.Time
}

// NewService creates auth service
func NewService(stores *account.Stores, lookup *account.Lookup, now func() time.Time) *Service {
	return &Service{stores: stores, lookup: lookup, now: now}
}

// Signup files a pending request. Usernames must be free in the pending,
// user and admin stores. Length and charset rules are left to the client.
func (s *Service) Signup(ctx context.Context, req *CredentialsRequest) (*account.PendingRequest, error) {
	if req.Username == "" || req.Password == "" {
		return nil, ErrMissingFields
	}

	taken, err := s.stores.Pending.Exists(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}
	if _, err := s.lookup.Find(ctx, req.Username, account.RoleUser, account.RoleAdmin); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, account.ErrNotFound) {
		return nil, err
	}

	stored, err := s.lookup.Verifier().Prepare(req.Password)
	if err != nil {
		return nil, fmt.Errorf("prepare password: %w", err)
	}

	pending := account.PendingRequest{
		Username:    req.Username,
		Password:    stored,
		RequestedAt: s.now().UTC(),
	}
	if err := s.stores.Pending.Add(ctx, pending); err != nil {
		if errors.Is(err, account.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	log.Info().Str("username", req.Username).Msg("Signup request filed")
	return &pending, nil
}

// Login checks credentials against the user, admin and organizer stores
func (s *Service) Login(ctx context.Context, req *CredentialsRequest) (*account.Account, error) {
	if req.Username == "" || req.Password == "" {
		return nil, ErrMissingFields
	}

	a, err := s.lookup.Authenticate(ctx, req.Username, req.Password,
		account.RoleUser, account.RoleAdmin, account.RoleOrganizer)
	if errors.Is(err, account.ErrNotFound) {
		if s.pendingMatches(ctx, req) {
			return nil, ErrPendingApproval
		}
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if a.Locked {
		return a, ErrAccountLocked
	}
	return a, nil
}

func (s *Service) pendingMatches(ctx context.Context, req *CredentialsRequest) bool {
	items, err := s.stores.Pending.List(ctx)
	if err != nil {
		return false
	}
	for _, p := range items {
		if p.Username == req.Username && s.lookup.Verifier().Verify(p.Password, req.Password) {
			return true
		}
	}
	return false
}
