package admin

import "errors"

var (
	ErrMissingUsername    = errors.New("username is required")
	ErrSelfBan            = errors.New("cannot ban yourself")
	ErrOrganizerProtected = errors.New("only organizers may ban organizers")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrUnknownSlot        = errors.New("unknown media slot")
	ErrMediaMissing       = errors.New("media file is required")
	ErrMissingLock        = errors.New("lock flag is required")
)

// User-facing messages
const (
	MsgMissingUsername    = "Benutzername fehlt."
	MsgNotFound           = "Benutzer nicht gefunden."
	MsgSelfBan            = "Du kannst dich nicht selbst bannen."
	MsgOrganizerProtected = "Admins oder API dürfen Organisatoren nicht bannen."
	MsgPermissionDenied   = "Keine Berechtigung."
)
