package account

import (
	"time"

	"github.com/landesnetz/landesnetz-api/internal/pkg/bundesland"
)

// Role tags which store an account record was read from
type Role string

const (
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
	RoleOrganizer Role = "organizer"
)

// Account is a stored credential record. Role is not persisted: the
// repository that loads a record stamps it.
type Account struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	Locked     bool   `json:"locked"`
	Bundesland string `json:"bundesland,omitempty"`
	IsAdmin    bool   `json:"isAdmin"`

	Role Role `json:"-"`
}

// Rank is the label shown next to chat messages
func (a *Account) Rank() string {
	switch a.Role {
	case RoleAdmin:
		return "Admin"
	case RoleOrganizer:
		return "Organisator (" + bundesland.Name(a.Bundesland) + ")"
	default:
		return ""
	}
}

// PendingRequest is a signup awaiting approval
type PendingRequest struct {
	Username    string    `json:"username"`
	Password    string    `json:"password"`
	RequestedAt time.Time `json:"requestedAt"`
}
