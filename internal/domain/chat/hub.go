package chat

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// EventType for WebSocket messages
type EventType string

const (
	EventNewMessage     EventType = "new_message"
	EventMessageDeleted EventType = "message_deleted"
	EventMessagePinned  EventType = "message_pinned"
	EventAuthorPurged   EventType = "author_purged"
)

// Redis channel prefix for relayed chat events
const channelPrefix = "chat:channel:"

var (
	wsConnectionsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "landesnetz",
		Subsystem: "chat",
		Name:      "websocket_connections",
		Help:      "Open websocket connections on this instance.",
	})
	wsEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "landesnetz",
		Subsystem: "chat",
		Name:      "websocket_events_total",
		Help:      "Chat events handed to websocket connections.",
	}, []string{"result"})
)

// Event is pushed to every connection subscribed to a channel
type Event struct {
	Type      EventType `json:"type"`
	Channel   string    `json:"channel"`
	Message   *Message  `json:"message,omitempty"`
	MessageID string    `json:"messageId,omitempty"`
	Pinned    bool      `json:"pinned,omitempty"`
	User      string    `json:"user,omitempty"`
}

// Publisher delivers chat events to subscribers
type Publisher interface {
	Publish(channel string, event *Event)
}

// Connection is one websocket subscribed to a single channel
type Connection struct {
	Channel  string
	Username string
	Conn     *websocket.Conn
	Send     chan []byte
}

// Hub fans chat events out to websocket connections. With Redis configured
// events travel through pub/sub so every instance delivers them.
type Hub struct {
	// channel -> local connections
	channels map[string]map[*Connection]bool

	redis  *redis.Client
	pubsub *redis.PubSub

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection

	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub creates a hub. redisClient may be nil.
func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	h := &Hub{
		channels:   make(map[string]map[*Connection]bool),
		redis:      redisClient,
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		ctx:        ctx,
		cancel:     cancel,
	}

	if redisClient != nil {
		h.pubsub = redisClient.PSubscribe(ctx, channelPrefix+"*")
	}

	return h
}

// Run starts the hub (call in goroutine)
func (h *Hub) Run() {
	if h.pubsub != nil {
		go h.runRedisSubscriber()
	}

	for {
		select {
		case <-h.ctx.Done():
			return

		case conn := <-h.register:
			h.mu.Lock()
			if h.channels[conn.Channel] == nil {
				h.channels[conn.Channel] = make(map[*Connection]bool)
			}
			h.channels[conn.Channel][conn] = true
			h.mu.Unlock()
			wsConnectionsGauge.Inc()
			log.Debug().Str("channel", conn.Channel).Str("user", conn.Username).Msg("WebSocket subscribed")

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.channels[conn.Channel]; ok {
				if _, exists := conns[conn]; exists {
					delete(conns, conn)
					close(conn.Send)
					wsConnectionsGauge.Dec()
				}
				if len(conns) == 0 {
					delete(h.channels, conn.Channel)
				}
			}
			h.mu.Unlock()
			log.Debug().Str("channel", conn.Channel).Str("user", conn.Username).Msg("WebSocket unsubscribed")
		}
	}
}

func (h *Hub) runRedisSubscriber() {
	ch := h.pubsub.Channel()

	for {
		select {
		case <-h.ctx.Done():
			return

		case msg, ok := <-ch:
			if !ok {
				return
			}
			channel := strings.TrimPrefix(msg.Channel, channelPrefix)
			if channel == msg.Channel {
				continue
			}
			h.broadcastLocal(channel, []byte(msg.Payload))
		}
	}
}

// broadcastLocal sends data to connections on THIS instance
func (h *Hub) broadcastLocal(channel string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn := range h.channels[channel] {
		select {
		case conn.Send <- data:
			wsEventsTotal.WithLabelValues("sent").Inc()
		default:
			wsEventsTotal.WithLabelValues("dropped").Inc()
			log.Warn().Str("user", conn.Username).Msg("WebSocket send buffer full")
		}
	}
}

// Register adds a connection. It is a no-op after Shutdown.
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.ctx.Done():
	}
}

// Unregister removes a connection. It is a no-op after Shutdown.
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.ctx.Done():
	}
}

// Publish sends event to every subscriber of channel on every instance
func (h *Hub) Publish(channel string, event *Event) {
	event.Channel = channel
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal WebSocket event")
		return
	}

	if h.redis != nil {
		err := h.redis.Publish(h.ctx, channelPrefix+channel, data).Err()
		if err == nil {
			return
		}
		// Fallback to local broadcast
		log.Error().Err(err).Str("channel", channel).Msg("Redis publish failed")
	}
	h.broadcastLocal(channel, data)
}

// ConnectionCount returns the number of local connections on channel
func (h *Hub) ConnectionCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[channel])
}

// Shutdown gracefully shuts down the hub
func (h *Hub) Shutdown() {
	h.cancel()
	if h.pubsub != nil {
		h.pubsub.Close()
	}
}
