package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/landesnetz/landesnetz-api/internal/domain/auth"
	"github.com/landesnetz/landesnetz-api/internal/domain/moderation"
	"github.com/landesnetz/landesnetz-api/internal/pkg/bundesland"
	"github.com/landesnetz/landesnetz-api/internal/pkg/ratelimit"
	"github.com/landesnetz/landesnetz-api/internal/pkg/recordstore"
)

// Service implements channel access and message operations
type Service struct {
	repo      *Repository
	filter    *moderation.Filter
	state     *State
	limiter   *ratelimit.MessageLimiter
	publisher Publisher
	uploader  *ImageUploader
	now       func() time.Time
}

// NewService creates chat service
func NewService(
	repo *Repository,
	filter *moderation.Filter,
	state *State,
	limiter *ratelimit.MessageLimiter,
	publisher Publisher,
	uploader *ImageUploader,
	now func() time.Time,
) *Service {
	return &Service{
		repo:      repo,
		filter:    filter,
		state:     state,
		limiter:   limiter,
		publisher: publisher,
		uploader:  uploader,
		now:       now,
	}
}

// ListChannels returns the channels shown to id. The admin channel is
// listed for admins only. The organizer channel is never listed.
func (s *Service) ListChannels(id auth.Identity) []string {
	names := []string{ChannelGeneral}
	for _, st := range bundesland.All {
		names = append(names, st.Slug)
	}
	if id.IsAdmin() {
		names = append(names, ChannelAdmin)
	}
	return names
}

// ChatsLocked reports the write lock
func (s *Service) ChatsLocked() bool {
	return s.state.Locked()
}

// SetChatsLocked toggles the write lock
func (s *Service) SetChatsLocked(locked bool) {
	s.state.SetLocked(locked)
	log.Info().Bool("locked", locked).Msg("Chat lock changed")
}

func (s *Service) canRead(id auth.Identity, channel string) error {
	if !Exists(channel) {
		return ErrChannelNotFound
	}
	if channel == ChannelAdmin && !id.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// CanSubscribe checks whether id may follow channel over the websocket
func (s *Service) CanSubscribe(id auth.Identity, channel string) error {
	return s.canRead(id, channel)
}

// MaxImageBytes returns the image upload ceiling
func (s *Service) MaxImageBytes() int64 {
	return s.uploader.MaxBytes()
}

func (s *Service) canWrite(id auth.Identity, channel string) error {
	if err := s.canRead(id, channel); err != nil {
		return err
	}
	if channel == ChannelOrganizers && !id.Staff() {
		return ErrForbidden
	}
	if !id.Staff() && s.state.Locked() {
		return ErrChatsLocked
	}
	if d := s.limiter.Check(id.Username, s.now()); d != nil {
		return d
	}
	return nil
}

// Messages returns up to limit messages older than the cursor, ascending.
// Stored messages the filter no longer allows are purged first and the
// log is rewritten only if something was removed.
func (s *Service) Messages(ctx context.Context, id auth.Identity, channel string, q ListQuery) ([]Message, error) {
	if err := s.canRead(id, channel); err != nil {
		return nil, err
	}

	var cursor time.Time
	if q.OlderThan != "" {
		t, err := time.Parse(time.RFC3339Nano, q.OlderThan)
		if err != nil {
			return nil, ErrInvalidCursor
		}
		cursor = t
	}

	msgs, err := s.repo.Update(ctx, channel, func(msgs []Message) ([]Message, bool, error) {
		kept, removed := moderation.Purge(s.filter, msgs)
		if removed == 0 {
			return msgs, false, nil
		}
		log.Info().Str("channel", channel).Int("removed", removed).Msg("Purged messages with contact details")
		return kept, true, nil
	})
	if errors.Is(err, recordstore.ErrCorrupt) {
		return []Message{}, nil
	}
	if err != nil {
		return nil, err
	}

	sortByTime(msgs)
	if !cursor.IsZero() {
		n := 0
		for _, m := range msgs {
			if m.Time().Before(cursor) {
				msgs[n] = m
				n++
			}
		}
		msgs = msgs[:n]
	}

	if limit := q.normalizedLimit(); len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return msgs, nil
}

// Post stores a text message
func (s *Service) Post(ctx context.Context, id auth.Identity, channel, text string) (*Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if utf8.RuneCountInString(text) > maxTextRunes {
		return nil, ErrMessageTooLong
	}
	if err := s.canWrite(id, channel); err != nil {
		return nil, err
	}
	if !s.filter.Allowed(text, id.Rank()) {
		return nil, ErrContactInfo
	}

	msg := s.newMessage(id, channel)
	msg.Message = text
	return s.append(ctx, channel, msg)
}

// PostImage stores an uploaded image and a message referencing it
func (s *Service) PostImage(ctx context.Context, id auth.Identity, channel string, image io.Reader) (*Message, error) {
	if err := s.canWrite(id, channel); err != nil {
		return nil, err
	}

	name, err := s.uploader.Store(ctx, image)
	if err != nil {
		return nil, err
	}

	msg := s.newMessage(id, channel)
	msg.Image = name
	return s.append(ctx, channel, msg)
}

func (s *Service) newMessage(id auth.Identity, channel string) Message {
	now := s.now().UTC()
	msg := Message{
		ID:        fmt.Sprintf("%d-%s", now.UnixMilli(), strings.ReplaceAll(uuid.NewString(), "-", "")[:8]),
		User:      id.Username,
		Timestamp: now.Format(time.RFC3339Nano),
		Rank:      id.Rank(),
	}
	if channel == ChannelOrganizers && id.IsOrganizer() {
		msg.Bundesland = id.Bundesland
	}
	return msg
}

func (s *Service) append(ctx context.Context, channel string, msg Message) (*Message, error) {
	_, err := s.repo.Update(ctx, channel, func(msgs []Message) ([]Message, bool, error) {
		return append(msgs, msg), true, nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(channel, &Event{Type: EventNewMessage, Message: &msg})
	return &msg, nil
}

// Delete removes a message. Only its author or an admin may delete it.
func (s *Service) Delete(ctx context.Context, id auth.Identity, channel, messageID string) error {
	if err := s.canRead(id, channel); err != nil {
		return err
	}
	if messageID == "" {
		return ErrMissingMessageID
	}

	var removed Message
	_, err := s.repo.Update(ctx, channel, func(msgs []Message) ([]Message, bool, error) {
		for i, m := range msgs {
			if m.ID != messageID {
				continue
			}
			if m.User != id.Username && !id.IsAdmin() {
				return nil, false, ErrForbidden
			}
			removed = m
			return append(msgs[:i], msgs[i+1:]...), true, nil
		}
		return nil, false, ErrMessageNotFound
	})
	if err != nil {
		return err
	}

	if removed.Image != "" {
		if err := s.uploader.Remove(ctx, removed.Image); err != nil {
			log.Warn().Err(err).Str("image", removed.Image).Msg("Failed to delete chat image")
		}
	}

	s.publisher.Publish(channel, &Event{Type: EventMessageDeleted, MessageID: messageID})
	return nil
}

// Pin flips the pinned flag. Admins may pin anywhere, organizers inside
// the organizer channel.
func (s *Service) Pin(ctx context.Context, id auth.Identity, channel, messageID string, pinned bool) (*Message, error) {
	if err := s.canRead(id, channel); err != nil {
		return nil, err
	}
	if !id.IsAdmin() && !(id.IsOrganizer() && channel == ChannelOrganizers) {
		return nil, ErrForbidden
	}
	if messageID == "" {
		return nil, ErrMissingMessageID
	}

	var updated Message
	_, err := s.repo.Update(ctx, channel, func(msgs []Message) ([]Message, bool, error) {
		for i := range msgs {
			if msgs[i].ID == messageID {
				msgs[i].Pinned = pinned
				updated = msgs[i]
				return msgs, true, nil
			}
		}
		return nil, false, ErrMessageNotFound
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(channel, &Event{Type: EventMessagePinned, MessageID: messageID, Pinned: pinned})
	return &updated, nil
}

// PurgeAuthor removes every message written by username from every channel
// and returns how many were removed.
func (s *Service) PurgeAuthor(ctx context.Context, username string) (int, error) {
	var total atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, channel := range AllChannels() {
		channel := channel
		g.Go(func() error {
			removed := 0
			_, err := s.repo.Update(gctx, channel, func(msgs []Message) ([]Message, bool, error) {
				kept := msgs[:0]
				for _, m := range msgs {
					if m.User == username {
						removed++
						continue
					}
					kept = append(kept, m)
				}
				return kept, removed > 0, nil
			})
			if errors.Is(err, recordstore.ErrCorrupt) {
				log.Warn().Str("channel", channel).Str("user", username).Msg("Skipped unreadable channel log during purge")
				return nil
			}
			if err != nil {
				return fmt.Errorf("purge %s: %w", channel, err)
			}
			if removed > 0 {
				total.Add(int64(removed))
				s.publisher.Publish(channel, &Event{Type: EventAuthorPurged, User: username})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return int(total.Load()), err
	}
	return int(total.Load()), nil
}
