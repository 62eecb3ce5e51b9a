package account

import (
	"context"

	"github.com/landesnetz/landesnetz-api/internal/pkg/recordstore"
)

// Document names of the account stores
const (
	DocUsers      = "users"
	DocAdmins     = "admins"
	DocOrganizers = "organizers"
	DocPending    = "pending"
)

// Repository is one account store. Every record it returns carries its role.
type Repository struct {
	role Role
	coll *recordstore.Collection[Account]
}

// NewRepository binds a repository to the store for role
func NewRepository(store *recordstore.Store, role Role) *Repository {
	name := DocUsers
	switch role {
	case RoleAdmin:
		name = DocAdmins
	case RoleOrganizer:
		name = DocOrganizers
	}
	return &Repository{role: role, coll: recordstore.NewCollection[Account](store, name)}
}

// Role returns the role this store holds
func (r *Repository) Role() Role {
	return r.role
}

func (r *Repository) stamp(items []Account) []Account {
	for i := range items {
		items[i].Role = r.role
		items[i].IsAdmin = r.role == RoleAdmin
	}
	return items
}

// List returns every record
func (r *Repository) List(ctx context.Context) ([]Account, error) {
	items, err := r.coll.Load(ctx)
	if err != nil {
		return nil, err
	}
	return r.stamp(items), nil
}

// Find returns the record for username or ErrNotFound
func (r *Repository) Find(ctx context.Context, username string) (*Account, error) {
	items, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].Username == username {
			return &items[i], nil
		}
	}
	return nil, ErrNotFound
}

// Add stores a new record. Usernames are unique within a store.
func (r *Repository) Add(ctx context.Context, a Account) error {
	a.IsAdmin = r.role == RoleAdmin
	_, err := r.coll.Update(ctx, func(items []Account) ([]Account, bool, error) {
		for _, it := range items {
			if it.Username == a.Username {
				return nil, false, ErrDuplicate
			}
		}
		return append(items, a), true, nil
	})
	return err
}

// Remove deletes the record and returns it
func (r *Repository) Remove(ctx context.Context, username string) (*Account, error) {
	var removed *Account
	_, err := r.coll.Update(ctx, func(items []Account) ([]Account, bool, error) {
		for i := range items {
			if items[i].Username == username {
				a := items[i]
				removed = &a
				return append(items[:i], items[i+1:]...), true, nil
			}
		}
		return nil, false, ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	removed.Role = r.role
	return removed, nil
}

// Update applies fn to the record for username and persists the result
func (r *Repository) Update(ctx context.Context, username string, fn func(a *Account)) (*Account, error) {
	var updated *Account
	_, err := r.coll.Update(ctx, func(items []Account) ([]Account, bool, error) {
		for i := range items {
			if items[i].Username == username {
				fn(&items[i])
				a := items[i]
				updated = &a
				return items, true, nil
			}
		}
		return nil, false, ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	updated.Role = r.role
	return updated, nil
}

// PendingRepository holds signups awaiting approval
type PendingRepository struct {
	coll *recordstore.Collection[PendingRequest]
}

// NewPendingRepository binds the pending store
func NewPendingRepository(store *recordstore.Store) *PendingRepository {
	return &PendingRepository{coll: recordstore.NewCollection[PendingRequest](store, DocPending)}
}

// List returns every pending request
func (r *PendingRepository) List(ctx context.Context) ([]PendingRequest, error) {
	return r.coll.Load(ctx)
}

// Exists reports whether username has a pending request
func (r *PendingRepository) Exists(ctx context.Context, username string) (bool, error) {
	items, err := r.coll.Load(ctx)
	if err != nil {
		return false, err
	}
	for _, it := range items {
		if it.Username == username {
			return true, nil
		}
	}
	return false, nil
}

// Add stores a new request
func (r *PendingRepository) Add(ctx context.Context, p PendingRequest) error {
	_, err := r.coll.Update(ctx, func(items []PendingRequest) ([]PendingRequest, bool, error) {
		for _, it := range items {
			if it.Username == p.Username {
				return nil, false, ErrDuplicate
			}
		}
		return append(items, p), true, nil
	})
	return err
}

// Take removes and returns the request for username
func (r *PendingRepository) Take(ctx context.Context, username string) (*PendingRequest, error) {
	var taken *PendingRequest
	_, err := r.coll.Update(ctx, func(items []PendingRequest) ([]PendingRequest, bool, error) {
		for i := range items {
			if items[i].Username == username {
				p := items[i]
				taken = &p
				return append(items[:i], items[i+1:]...), true, nil
			}
		}
		return nil, false, ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return taken, nil
}
