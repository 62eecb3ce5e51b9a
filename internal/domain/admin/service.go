package admin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/landesnetz/landesnetz-api/internal/domain/account"
	"github.com/landesnetz/landesnetz-api/internal/domain/auth"
	"github.com/landesnetz/landesnetz-api/internal/pkg/recordstore"
	"github.com/landesnetz/landesnetz-api/internal/pkg/storage"
)

// ChatModerator is the part of the chat service admin actions use
type ChatModerator interface {
	PurgeAuthor(ctx context.Context, username string) (int, error)
	ChatsLocked() bool
	SetChatsLocked(locked bool)
}

// mediaPrefix is the folder of fixed-name homepage assets
const mediaPrefix = "site/"

var mediaSlots = map[string]MediaSlot{
	"hero-image": {Name: "hero-image", Category: storage.CategoryImage, MaxBytes: 10 << 20},
	"hero-video": {Name: "hero-video", Category: storage.CategoryVideo, MaxBytes: 100 << 20},
}

// Service implements the account workflow and other admin actions
type Service struct {
	stores *account.Stores
	lookup *account.Lookup
	chats  ChatModerator
	assets *storage.Assets
	store  *recordstore.Store
	audit  *AuditRepository
	now    func() time.Time
}

// NewService creates admin service
func NewService(
	stores *account.Stores,
	lookup *account.Lookup,
	chats ChatModerator,
	assets *storage.Assets,
	store *recordstore.Store,
	audit *AuditRepository,
	now func() time.Time,
) *Service {
	return &Service{
		stores: stores,
		lookup: lookup,
		chats:  chats,
		assets: assets,
		store:  store,
		audit:  audit,
		now:    now,
	}
}

// --- Account workflow ---

// Approve moves a pending signup into the user store
func (s *Service) Approve(ctx context.Context, actor auth.Identity, username string) (*AccountSummary, error) {
	if username == "" {
		return nil, ErrMissingUsername
	}

	p, err := s.stores.Pending.Take(ctx, username)
	if err != nil {
		return nil, err
	}

	a := account.Account{Username: p.Username, Password: p.Password}
	if err := s.stores.Users.Add(ctx, a); err != nil {
		if rerr := s.stores.Pending.Add(ctx, *p); rerr != nil {
			log.Error().Err(rerr).Str("username", username).Msg("Failed to restore pending request")
		}
		if errors.Is(err, account.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	s.record(ctx, actor, ActionApprove, username, "")
	a.Role = account.RoleUser
	summary := summarize(a)
	return &summary, nil
}

// Reject discards a pending signup
func (s *Service) Reject(ctx context.Context, actor auth.Identity, username string) error {
	if username == "" {
		return ErrMissingUsername
	}
	if _, err := s.stores.Pending.Take(ctx, username); err != nil {
		return err
	}

	s.record(ctx, actor, ActionReject, username, "")
	return nil
}

// Promote moves a user into the admin store
func (s *Service) Promote(ctx context.Context, actor auth.Identity, username string) (*AccountSummary, error) {
	a, err := s.move(ctx, username, s.stores.Users, s.stores.Admins)
	if err != nil {
		return nil, err
	}

	s.record(ctx, actor, ActionPromote, username, "")
	summary := summarize(*a)
	return &summary, nil
}

// Demote moves an admin into the user store
func (s *Service) Demote(ctx context.Context, actor auth.Identity, username string) (*AccountSummary, error) {
	a, err := s.move(ctx, username, s.stores.Admins, s.stores.Users)
	if err != nil {
		return nil, err
	}

	s.record(ctx, actor, ActionDemote, username, "")
	summary := summarize(*a)
	return &summary, nil
}

// move removes the record from one store and adds it to the other. The two
// stores are separate documents; a failed add restores the source record.
func (s *Service) move(ctx context.Context, username string, from, to *account.Repository) (*account.Account, error) {
	if username == "" {
		return nil, ErrMissingUsername
	}

	a, err := from.Remove(ctx, username)
	if err != nil {
		return nil, err
	}

	if err := to.Add(ctx, *a); err != nil {
		if rerr := from.Add(ctx, *a); rerr != nil {
			log.Error().Err(rerr).Str("username", username).Msg("Failed to restore account after move")
		}
		if errors.Is(err, account.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	a.Role = to.Role()
	a.IsAdmin = a.Role == account.RoleAdmin
	return a, nil
}

// Ban locks the target account and removes every chat message it wrote.
// The target is looked up in the organizer, admin and user stores in that
// order. Only organizers may ban organizers.
func (s *Service) Ban(ctx context.Context, actor auth.Identity, username string) (*BanResponse, error) {
	if username == "" {
		return nil, ErrMissingUsername
	}
	if actor.Username != "" && actor.Username == username {
		return nil, ErrSelfBan
	}

	target, err := s.lookup.Find(ctx, username, account.RoleOrganizer, account.RoleAdmin, account.RoleUser)
	if err != nil {
		return nil, err
	}
	if target.Role == account.RoleOrganizer && !actor.IsOrganizer() {
		return nil, ErrOrganizerProtected
	}

	if _, err := s.stores.ByRole(target.Role).Update(ctx, username, func(a *account.Account) {
		a.Locked = true
	}); err != nil {
		return nil, err
	}

	removed, err := s.chats.PurgeAuthor(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("purge messages of %s: %w", username, err)
	}

	s.record(ctx, actor, ActionBan, username, fmt.Sprintf("role=%s removed=%d", target.Role, removed))
	return &BanResponse{
		Username:        username,
		Role:            target.Role,
		Locked:          true,
		RemovedMessages: removed,
	}, nil
}

// Unban unlocks a user or admin account
func (s *Service) Unban(ctx context.Context, actor auth.Identity, username string) (*AccountSummary, error) {
	if username == "" {
		return nil, ErrMissingUsername
	}

	target, err := s.lookup.Find(ctx, username, account.RoleUser, account.RoleAdmin)
	if err != nil {
		return nil, err
	}

	a, err := s.stores.ByRole(target.Role).Update(ctx, username, func(a *account.Account) {
		a.Locked = false
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, actor, ActionUnban, username, "")
	summary := summarize(*a)
	return &summary, nil
}

// --- Listings ---

// ListPending returns the signups awaiting approval
func (s *Service) ListPending(ctx context.Context) ([]PendingSummary, error) {
	items, err := s.stores.Pending.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]PendingSummary, 0, len(items))
	for _, p := range items {
		out = append(out, PendingSummary{Username: p.Username, RequestedAt: p.RequestedAt})
	}
	return out, nil
}

// ListUsers returns users and admins
func (s *Service) ListUsers(ctx context.Context) ([]AccountSummary, error) {
	return s.list(ctx, s.stores.Users, s.stores.Admins)
}

// ListOrganizers returns every organizer
func (s *Service) ListOrganizers(ctx context.Context) ([]AccountSummary, error) {
	return s.list(ctx, s.stores.Organizers)
}

func (s *Service) list(ctx context.Context, repos ...*account.Repository) ([]AccountSummary, error) {
	out := []AccountSummary{}
	for _, repo := range repos {
		items, err := repo.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, a := range items {
			out = append(out, summarize(a))
		}
	}
	return out, nil
}

// --- Organizers ---

// CreateOrganizer stores a new organizer account
func (s *Service) CreateOrganizer(ctx context.Context, actor auth.Identity, req *CreateOrganizerRequest) (*AccountSummary, error) {
	_, err := s.lookup.Find(ctx, req.Username, account.RoleUser, account.RoleAdmin, account.RoleOrganizer)
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !errors.Is(err, account.ErrNotFound) {
		return nil, err
	}
	pending, err := s.stores.Pending.Exists(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, ErrUsernameTaken
	}

	stored, err := s.lookup.Verifier().Prepare(req.Password)
	if err != nil {
		return nil, fmt.Errorf("prepare password: %w", err)
	}

	a := account.Account{Username: req.Username, Password: stored, Bundesland: req.Bundesland}
	if err := s.stores.Organizers.Add(ctx, a); err != nil {
		if errors.Is(err, account.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	s.record(ctx, actor, ActionCreateOrganizer, req.Username, req.Bundesland)
	a.Role = account.RoleOrganizer
	summary := summarize(a)
	return &summary, nil
}

// DeleteOrganizer removes an organizer record
func (s *Service) DeleteOrganizer(ctx context.Context, actor auth.Identity, username string) error {
	if username == "" {
		return ErrMissingUsername
	}
	if _, err := s.stores.Organizers.Remove(ctx, username); err != nil {
		return err
	}

	s.record(ctx, actor, ActionDeleteOrganizer, username, "")
	return nil
}

// --- Chats and media ---

// SetChatsLocked toggles the chat write lock and returns the new state
func (s *Service) SetChatsLocked(ctx context.Context, actor auth.Identity, locked bool) bool {
	s.chats.SetChatsLocked(locked)
	s.record(ctx, actor, ActionChatsLock, "", fmt.Sprintf("locked=%t", locked))
	return s.chats.ChatsLocked()
}

// ReplaceMedia overwrites the asset of a homepage media slot
func (s *Service) ReplaceMedia(ctx context.Context, actor auth.Identity, slotName string, r io.Reader) (*MediaResponse, error) {
	slot, ok := mediaSlots[slotName]
	if !ok {
		return nil, ErrUnknownSlot
	}

	data, mime, err := storage.ValidateFile(r, slot.Category, slot.MaxBytes)
	if err != nil {
		return nil, err
	}

	key := mediaPrefix + slot.Name
	if err := s.assets.SaveFixed(ctx, key, data, mime); err != nil {
		return nil, err
	}

	s.record(ctx, actor, ActionMediaReplace, slot.Name, mime)
	return &MediaResponse{Slot: slot.Name, URL: s.assets.URL(key), ContentType: mime}, nil
}

// --- Audit ---

// AuditLog returns the most recent audit entries
func (s *Service) AuditLog(ctx context.Context, limit int) ([]AuditEntry, error) {
	if limit <= 0 || limit > maxAuditEntries {
		limit = 100
	}
	return s.audit.List(ctx, limit)
}

// record writes an audit entry. Failures are logged and do not fail the action.
func (s *Service) record(ctx context.Context, actor auth.Identity, action, target, detail string) {
	name := actor.Username
	if actor.IsAPIKey() {
		name = "api-key"
	}

	entry := AuditEntry{
		ID:        uuid.NewString(),
		Actor:     name,
		ActorKind: string(actor.Kind),
		Action:    action,
		Target:    target,
		Detail:    detail,
		CreatedAt: s.now().UTC(),
	}

	log.Info().
		Str("actor", entry.Actor).
		Str("action", action).
		Str("target", target).
		Msg("Admin action")

	if err := s.audit.Append(ctx, entry); err != nil {
		log.Error().Err(err).Str("action", action).Msg("Failed to write audit entry")
	}
}
