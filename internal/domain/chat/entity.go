package chat

import (
	"sort"
	"time"

	"github.com/landesnetz/landesnetz-api/internal/pkg/bundesland"
)

// Fixed channel names
const (
	ChannelGeneral    = "allgemein"
	ChannelAdmin      = "admin"
	ChannelOrganizers = "organisatoren"
)

// Message is one stored chat entry. Exactly one of Message and Image is set.
type Message struct {
	ID         string `json:"id"`
	User       string `json:"user"`
	Message    string `json:"message,omitempty"`
	Image      string `json:"image,omitempty"`
	Timestamp  string `json:"timestamp"`
	Pinned     bool   `json:"pinned"`
	Rank       string `json:"rank,omitempty"`
	Bundesland string `json:"bundesland,omitempty"`
}

func (m Message) ModerationText() string { return m.Message }
func (m Message) ModerationRank() string { return m.Rank }

// Time parses the timestamp. Unparseable timestamps sort first.
func (m Message) Time() time.Time {
	t, err := time.Parse(time.RFC3339Nano, m.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}

func sortByTime(msgs []Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Time().Before(msgs[j].Time())
	})
}

// AllChannels returns every channel log name
func AllChannels() []string {
	names := []string{ChannelGeneral}
	for _, s := range bundesland.All {
		names = append(names, s.Slug)
	}
	return append(names, ChannelAdmin, ChannelOrganizers)
}

// Exists reports whether name is a known channel
func Exists(name string) bool {
	switch name {
	case ChannelGeneral, ChannelAdmin, ChannelOrganizers:
		return true
	}
	return bundesland.Valid(name)
}
