package admin

import (
	"time"

	"github.com/landesnetz/landesnetz-api/internal/domain/account"
)

// AuditEntry records one administrative action
type AuditEntry struct {
	ID        string    `json:"id"`
	Actor     string    `json:"actor"`
	ActorKind string    `json:"actorKind"`
	Action    string    `json:"action"`
	Target    string    `json:"target,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Audit actions
const (
	ActionApprove         = "account.approve"
	ActionReject          = "account.reject"
	ActionPromote         = "account.promote"
	ActionDemote          = "account.demote"
	ActionBan             = "account.ban"
	ActionUnban           = "account.unban"
	ActionCreateOrganizer = "organizer.create"
	ActionDeleteOrganizer = "organizer.delete"
	ActionChatsLock       = "chats.lock"
	ActionMediaReplace    = "media.replace"
	ActionExport          = "export.all"
)

// MediaSlot is a fixed-name homepage asset
type MediaSlot struct {
	Name     string
	Category string
	MaxBytes int64
}

// AccountSummary is an account without its credential
type AccountSummary struct {
	Username   string       `json:"username"`
	Role       account.Role `json:"role"`
	Locked     bool         `json:"locked"`
	Bundesland string       `json:"bundesland,omitempty"`
}

func summarize(a account.Account) AccountSummary {
	return AccountSummary{
		Username:   a.Username,
		Role:       a.Role,
		Locked:     a.Locked,
		Bundesland: a.Bundesland,
	}
}

// PendingSummary is a signup request without its credential
type PendingSummary struct {
	Username    string    `json:"username"`
	RequestedAt time.Time `json:"requestedAt"`
}
