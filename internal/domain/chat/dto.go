package chat

// PostMessageRequest is the body of POST /api/chats/{name}
type PostMessageRequest struct {
	Message string `json:"message"`
}

// MessageIDRequest is the body of DELETE /api/chats/{name}
type MessageIDRequest struct {
	MessageID string `json:"messageId"`
}

// PinRequest is the body of POST /api/chats/{name}/pin
type PinRequest struct {
	MessageID string `json:"messageId"`
	Pinned    bool   `json:"pinned"`
}

// LockStatusResponse reports the chat write lock
type LockStatusResponse struct {
	Locked bool `json:"locked"`
}

// DeleteResponse acknowledges a deletion
type DeleteResponse struct {
	Deleted   bool   `json:"deleted"`
	MessageID string `json:"messageId"`
}

// ListQuery selects a page of a channel log
type ListQuery struct {
	Limit     int
	OlderThan string
}

const (
	defaultLimit = 50
	maxLimit     = 200
	maxTextRunes = 2000
)

func (q ListQuery) normalizedLimit() int {
	if q.Limit <= 0 {
		return defaultLimit
	}
	if q.Limit > maxLimit {
		return maxLimit
	}
	return q.Limit
}
