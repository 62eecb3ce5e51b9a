package admin

import "github.com/landesnetz/landesnetz-api/internal/domain/auth"

// Permission represents an administrative capability
type Permission string

const (
	PermManageAccounts   Permission = "accounts.manage"
	PermBanAccounts      Permission = "accounts.ban"
	PermManageOrganizers Permission = "organizers.manage"
	PermLockChats        Permission = "chats.lock"
	PermManageMedia      Permission = "media.manage"
	PermViewAuditLogs    Permission = "audit.view"
	PermViewFeedback     Permission = "feedback.view"
)

// KindPermissions maps caller kinds to their permissions. Plain users and
// anonymous callers have none.
var KindPermissions = map[auth.Kind][]Permission{
	auth.KindAdmin: {
		PermManageAccounts, PermBanAccounts, PermManageOrganizers,
		PermLockChats, PermManageMedia, PermViewAuditLogs, PermViewFeedback,
	},
	auth.KindAPIKey: {
		PermManageAccounts, PermBanAccounts, PermManageOrganizers,
		PermLockChats, PermManageMedia, PermViewAuditLogs, PermViewFeedback,
	},
	auth.KindOrganizer: {
		PermBanAccounts,
	},
}

// HasPermission checks if a caller kind has a specific permission
func HasPermission(kind auth.Kind, perm Permission) bool {
	for _, p := range KindPermissions[kind] {
		if p == perm {
			return true
		}
	}
	return false
}
