// Package moderation rejects and purges chat messages that carry contact
// details. Organizer messages are exempt.
package moderation

import (
	"regexp"
	"strings"
)

// OrganizerRankPrefix marks ranks whose messages are never filtered
const OrganizerRankPrefix = "Organisator"

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	// 7+ digits, optional leading +, single spaces or hyphens between digits
	phonePattern = regexp.MustCompile(`\+?\d(?:[\s-]?\d){6,}`)
)

// Filter checks message text for contact details
type Filter struct {
	patterns []*regexp.Regexp
}

// NewFilter creates the contact-info filter
func NewFilter() *Filter {
	return &Filter{patterns: []*regexp.Regexp{emailPattern, phonePattern}}
}

// Exempt reports whether rank belongs to an organizer
func Exempt(rank string) bool {
	return strings.HasPrefix(rank, OrganizerRankPrefix)
}

// Allowed reports whether text may be stored for an author of rank
func (f *Filter) Allowed(text, rank string) bool {
	if Exempt(rank) {
		return true
	}
	for _, p := range f.patterns {
		if p.MatchString(text) {
			return false
		}
	}
	return true
}

// Item is a stored message the filter can re-check
type Item interface {
	ModerationText() string
	ModerationRank() string
}

// Purge drops every item the filter no longer allows and returns the kept
// items along with the number removed. Order is preserved.
func Purge[T Item](f *Filter, items []T) ([]T, int) {
	kept := make([]T, 0, len(items))
	for _, it := range items {
		if f.Allowed(it.ModerationText(), it.ModerationRank()) {
			kept = append(kept, it)
		}
	}
	return kept, len(items) - len(kept)
}
