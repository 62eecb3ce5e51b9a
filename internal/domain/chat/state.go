package chat

import "sync/atomic"

// State holds the process-wide chat write lock
type State struct {
	locked atomic.Bool
}

// NewState creates an unlocked state
func NewState() *State {
	return &State{}
}

// Locked reports whether plain users may not write
func (s *State) Locked() bool {
	return s.locked.Load()
}

// SetLocked toggles the lock
func (s *State) SetLocked(locked bool) {
	s.locked.Store(locked)
}
