package account

import (
	"context"
	"errors"
)

// CredentialVerifier compares a stored password with a supplied one and
// prepares passwords for storage.
type CredentialVerifier interface {
	Verify(stored, supplied string) bool
	Prepare(password string) (string, error)
}

// Stores groups the account repositories
type Stores struct {
	Users      *Repository
	Admins     *Repository
	Organizers *Repository
	Pending    *PendingRepository
}

// ByRole returns the repository holding role
func (s *Stores) ByRole(role Role) *Repository {
	switch role {
	case RoleAdmin:
		return s.Admins
	case RoleOrganizer:
		return s.Organizers
	default:
		return s.Users
	}
}

// Lookup resolves usernames and credentials across the account stores
type Lookup struct {
	stores   *Stores
	verifier CredentialVerifier
}

// NewLookup creates a lookup
func NewLookup(stores *Stores, verifier CredentialVerifier) *Lookup {
	return &Lookup{stores: stores, verifier: verifier}
}

// Verifier returns the credential verifier in use
func (l *Lookup) Verifier() CredentialVerifier {
	return l.verifier
}

// Find returns the first record named username, searching the stores of
// roles in the given order.
func (l *Lookup) Find(ctx context.Context, username string, roles ...Role) (*Account, error) {
	for _, role := range roles {
		a, err := l.stores.ByRole(role).Find(ctx, username)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return a, nil
	}
	return nil, ErrNotFound
}

// Authenticate returns the first record in the stores of roles, in order,
// whose username and password match. ErrNotFound when none does.
func (l *Lookup) Authenticate(ctx context.Context, username, password string, roles ...Role) (*Account, error) {
	if username == "" {
		return nil, ErrNotFound
	}
	for _, role := range roles {
		a, err := l.stores.ByRole(role).Find(ctx, username)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if l.verifier.Verify(a.Password, password) {
			return a, nil
		}
	}
	return nil, ErrNotFound
}
