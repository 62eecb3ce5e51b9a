package chat

import "errors"

var (
	ErrChannelNotFound  = errors.New("channel not found")
	ErrForbidden        = errors.New("not allowed in this channel")
	ErrChatsLocked      = errors.New("chats are locked")
	ErrContactInfo      = errors.New("message contains contact details")
	ErrEmptyMessage     = errors.New("message is empty")
	ErrMessageTooLong   = errors.New("message is too long")
	ErrMessageNotFound  = errors.New("message not found")
	ErrMissingMessageID = errors.New("message id is required")
	ErrInvalidCursor    = errors.New("invalid olderThan timestamp")
	ErrImageMissing     = errors.New("image is required")
	ErrImageInvalid     = errors.New("image is invalid")
	ErrImageTooLarge    = errors.New("image is too large")
)
