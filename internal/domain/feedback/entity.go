package feedback

import "time"

// Status of a bug report
type Status string

const (
	StatusNew      Status = "new"
	StatusResolved Status = "resolved"
)

// Subscriber is a newsletter address
type Subscriber struct {
	Email        string    `json:"email"`
	SubscribedAt time.Time `json:"subscribedAt"`
	IPAddress    string    `json:"ip,omitempty"`
}

// BugReport is a problem report sent from the site
type BugReport struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Page      string    `json:"page,omitempty"`
	Username  string    `json:"username,omitempty"`
	IPAddress string    `json:"ip,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
