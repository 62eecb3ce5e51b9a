package admin

import "github.com/landesnetz/landesnetz-api/internal/domain/account"

// UsernameRequest is the body of the account workflow endpoints
type UsernameRequest struct {
	Username string `json:"username"`
}

// ChatsLockRequest is the body of POST /api/admin/chats-lock
type ChatsLockRequest struct {
	Lock *bool `json:"lock"`
}

// CreateOrganizerRequest is the body of POST /api/admin/organizers
type CreateOrganizerRequest struct {
	Username   string `json:"username" validate:"required"`
	Password   string `json:"password" validate:"required"`
	Bundesland string `json:"bundesland" validate:"required,bundesland"`
}

// BanResponse reports a completed ban
type BanResponse struct {
	Username        string       `json:"username"`
	Role            account.Role `json:"role"`
	Locked          bool         `json:"locked"`
	RemovedMessages int          `json:"removedMessages"`
}

// ChatsLockResponse reports the chat write lock
type ChatsLockResponse struct {
	Locked bool `json:"locked"`
}

// MediaResponse reports a replaced homepage asset
type MediaResponse struct {
	Slot        string `json:"slot"`
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
}
