package chat

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/landesnetz/landesnetz-api/internal/domain/auth"
	"github.com/landesnetz/landesnetz-api/internal/pkg/response"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
)

// Handler handles chat HTTP requests
type Handler struct {
	service  *Service
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewHandler creates chat handler
func NewHandler(service *Service, hub *Hub, allowedOrigins []string) *Handler {
	return &Handler{
		service: service,
		hub:     hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")

				// Allow all in development
				if len(allowedOrigins) == 0 || origin == "" {
					return true
				}

				for _, allowed := range allowedOrigins {
					if origin == allowed {
						return true
					}
				}

				log.Warn().Str("origin", origin).Msg("WebSocket origin rejected")
				return false
			},
		},
	}
}

// ListChannels handles GET /api/channels
// @Summary Verfügbare Chats
// @Tags Chat
// @Produce json
// @Success 200 {object} response.Response{data=[]string}
// @Failure 401 {object} response.Response
// @Router /api/channels [get]
func (h *Handler) ListChannels(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.service.ListChannels(auth.FromContext(r.Context())))
}

// Messages handles GET /api/chats/{name}
// @Summary Nachrichten eines Chats
// @Tags Chat
// @Produce json
// @Param name path string true "Chat"
// @Param limit query int false "Anzahl (Standard 50, maximal 200)"
// @Param olderThan query string false "Nur Nachrichten vor diesem Zeitstempel"
// @Success 200 {object} response.Response{data=[]Message}
// @Failure 400,401,403,404 {object} response.Response
// @Router /api/chats/{name} [get]
func (h *Handler) Messages(w http.ResponseWriter, r *http.Request) {
	q := ListQuery{OlderThan: r.URL.Query().Get("olderThan")}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			q.Limit = n
		}
	}

	msgs, err := h.service.Messages(r.Context(), auth.FromContext(r.Context()), chi.URLParam(r, "name"), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if msgs == nil {
		msgs = []Message{}
	}

	response.OK(w, msgs)
}

// Post handles POST /api/chats/{name}
// @Summary Nachricht senden
// @Tags Chat
// @Accept json
// @Produce json
// @Param name path string true "Chat"
// @Param request body PostMessageRequest true "Nachricht"
// @Success 201 {object} response.Response{data=Message}
// @Failure 400,401,403,404,429 {object} response.Response
// @Router /api/chats/{name} [post]
func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	var req PostMessageRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Ungültiger JSON-Body.")
		return
	}

	msg, err := h.service.Post(r.Context(), auth.FromContext(r.Context()), chi.URLParam(r, "name"), req.Message)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Created(w, msg)
}

// PostImage handles POST /api/chats/{name}/image
// @Summary Bild senden
// @Tags Chat
// @Accept multipart/form-data
// @Produce json
// @Param name path string true "Chat"
// @Param image formData file true "Bild"
// @Success 201 {object} response.Response{data=Message}
// @Failure 400,401,403,404,413,429 {object} response.Response
// @Router /api/chats/{name}/image [post]
func (h *Handler) PostImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.service.MaxImageBytes()+1<<20)

	file, _, err := r.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, ErrImageTooLarge)
			return
		}
		writeError(w, r, ErrImageMissing)
		return
	}
	defer file.Close()

	msg, err := h.service.PostImage(r.Context(), auth.FromContext(r.Context()), chi.URLParam(r, "name"), file)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Created(w, msg)
}

// Delete handles DELETE /api/chats/{name}
// @Summary Nachricht löschen
// @Tags Chat
// @Accept json
// @Produce json
// @Param name path string true "Chat"
// @Param request body MessageIDRequest true "Nachricht"
// @Success 200 {object} response.Response{data=DeleteResponse}
// @Failure 400,401,403,404 {object} response.Response
// @Router /api/chats/{name} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	var req MessageIDRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Ungültiger JSON-Body.")
		return
	}

	if err := h.service.Delete(r.Context(), auth.FromContext(r.Context()), chi.URLParam(r, "name"), req.MessageID); err != nil {
		writeError(w, r, err)
		return
	}

	response.OK(w, DeleteResponse{Deleted: true, MessageID: req.MessageID})
}

// Pin handles POST /api/chats/{name}/pin
// @Summary Nachricht anheften
// @Tags Chat
// @Accept json
// @Produce json
// @Param name path string true "Chat"
// @Param request body PinRequest true "Nachricht"
// @Success 200 {object} response.Response{data=Message}
// @Failure 400,401,403,404 {object} response.Response
// @Router /api/chats/{name}/pin [post]
func (h *Handler) Pin(w http.ResponseWriter, r *http.Request) {
	var req PinRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Ungültiger JSON-Body.")
		return
	}

	msg, err := h.service.Pin(r.Context(), auth.FromContext(r.Context()), chi.URLParam(r, "name"), req.MessageID, req.Pinned)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.OK(w, msg)
}

// LockStatus handles GET /api/chats-lock
func (h *Handler) LockStatus(w http.ResponseWriter, r *http.Request) {
	response.OK(w, LockStatusResponse{Locked: h.service.ChatsLocked()})
}

// WebSocket handles WS /ws?channel=
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	id := auth.FromContext(r.Context())
	channel := r.URL.Query().Get("channel")
	if err := h.service.CanSubscribe(id, channel); err != nil {
		writeError(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := &Connection{
		Channel:  channel,
		Username: id.Username,
		Conn:     conn,
		Send:     make(chan []byte, 256),
	}

	h.hub.Register(client)

	go h.wsReader(client)
	go h.wsWriter(client)
}

// wsReader only drains control frames; clients never send chat data here
func (h *Handler) wsReader(client *Connection) {
	defer func() {
		h.hub.Unregister(client)
		client.Conn.Close()
	}()

	client.Conn.SetReadLimit(maxMessageSize)
	client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := client.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("user", client.Username).Msg("WebSocket read error")
			}
			return
		}
	}
}

func (h *Handler) wsWriter(client *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrChannelNotFound):
		response.NotFound(w, "Chat nicht gefunden.")
	case errors.Is(err, ErrMessageNotFound):
		response.NotFound(w, "Nachricht nicht gefunden.")
	case errors.Is(err, ErrForbidden):
		response.Forbidden(w, "Keine Berechtigung.")
	case errors.Is(err, ErrChatsLocked):
		response.Forbidden(w, "Die Chats sind derzeit gesperrt.")
	case errors.Is(err, ErrContactInfo):
		response.BadRequest(w, "Nachricht enthält unerlaubte Kontaktdaten (E-Mail oder Telefonnummer).")
	case errors.Is(err, ErrEmptyMessage):
		response.BadRequest(w, "Nachricht darf nicht leer sein.")
	case errors.Is(err, ErrMessageTooLong):
		response.BadRequest(w, "Nachricht ist zu lang (maximal 2000 Zeichen).")
	case errors.Is(err, ErrMissingMessageID):
		response.BadRequest(w, "messageId fehlt.")
	case errors.Is(err, ErrInvalidCursor):
		response.BadRequest(w, "Ungültiger Zeitstempel in olderThan.")
	case errors.Is(err, ErrImageMissing):
		response.BadRequest(w, "Kein Bild hochgeladen.")
	case errors.Is(err, ErrImageInvalid):
		response.BadRequest(w, "Ungültiges Bildformat.")
	case errors.Is(err, ErrImageTooLarge):
		response.Error(w, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "Das Bild ist zu groß.")
	default:
		auth.WriteError(w, r, err)
	}
}
