package account

import "errors"

var (
	ErrNotFound        = errors.New("account not found")
	ErrDuplicate       = errors.New("username already taken")
	ErrMissingUsername = errors.New("username is required")
)
