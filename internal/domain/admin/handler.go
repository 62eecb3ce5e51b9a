package admin

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/landesnetz/landesnetz-api/internal/domain/account"
	"github.com/landesnetz/landesnetz-api/internal/domain/auth"
	"github.com/landesnetz/landesnetz-api/internal/pkg/response"
	"github.com/landesnetz/landesnetz-api/internal/pkg/storage"
	"github.com/landesnetz/landesnetz-api/internal/pkg/validator"
)

const exportWriteTimeout = 10 * time.Minute

// Handler handles admin HTTP requests
type Handler struct {
	service  *Service
	resolver *auth.Resolver
}

// NewHandler creates admin handler
func NewHandler(service *Service, resolver *auth.Resolver) *Handler {
	return &Handler{service: service, resolver: resolver}
}

func decodeUsername(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req UsernameRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Ungültiger JSON-Body.")
		return "", false
	}
	return strings.TrimSpace(req.Username), true
}

// --- Account workflow ---

// Approve handles POST /api/admin/approve
// @Summary Registrierung freischalten
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body UsernameRequest true "Benutzer"
// @Success 200 {object} response.Response{data=AccountSummary}
// @Failure 400,401,403,404 {object} response.Response
// @Router /api/admin/approve [post]
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	username, ok := decodeUsername(w, r)
	if !ok {
		return
	}

	summary, err := h.service.Approve(r.Context(), auth.FromContext(r.Context()), username)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.OK(w, summary)
}

// Reject handles POST /api/admin/reject
// @Summary Registrierung ablehnen
// @Tags Admin
// @Router /api/admin/reject [post]
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	username, ok := decodeUsername(w, r)
	if !ok {
		return
	}

	if err := h.service.Reject(r.Context(), auth.FromContext(r.Context()), username); err != nil {
		writeError(w, r, err)
		return
	}

	response.OK(w, map[string]interface{}{"username": username, "rejected": true})
}

// Promote handles POST /api/admin/promote
// @Summary Benutzer zum Admin machen
// @Tags Admin
// @Router /api/admin/promote [post]
func (h *Handler) Promote(w http.ResponseWriter, r *http.Request) {
	username, ok := decodeUsername(w, r)
	if !ok {
		return
	}

	summary, err := h.service.Promote(r.Context(), auth.FromContext(r.Context()), username)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.OK(w, summary)
}

// Demote handles POST /api/admin/demote
// @Summary Admin-Rechte entziehen
// @Tags Admin
// @Router /api/admin/demote [post]
func (h *Handler) Demote(w http.ResponseWriter, r *http.Request) {
	username, ok := decodeUsername(w, r)
	if !ok {
		return
	}

	summary, err := h.service.Demote(r.Context(), auth.FromContext(r.Context()), username)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.OK(w, summary)
}

// Ban handles POST /api/admin/ban
// @Summary Konto sperren und Nachrichten entfernen
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body UsernameRequest true "Benutzer"
// @Success 200 {object} response.Response{data=BanResponse}
// @Failure 400,401,403,404,429 {object} response.Response
// @Router /api/admin/ban [post]
func (h *Handler) Ban(w http.ResponseWriter, r *http.Request) {
	username, ok := decodeUsername(w, r)
	if !ok {
		return
	}

	result, err := h.service.Ban(r.Context(), auth.FromContext(r.Context()), username)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.OK(w, result)
}

// Unban handles POST /api/admin/unban
// @Summary Sperre aufheben
// @Tags Admin
// @Router /api/admin/unban [post]
func (h *Handler) Unban(w http.ResponseWriter, r *http.Request) {
	username, ok := decodeUsername(w, r)
	if !ok {
		return
	}

	summary, err := h.service.Unban(r.Context(), auth.FromContext(r.Context()), username)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.OK(w, summary)
}

// --- Listings ---

// ListPending handles GET /api/admin/pending
func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListPending(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, items)
}

// ListUsers handles GET /api/admin/users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, items)
}

// ListOrganizers handles GET /api/admin/organizers
func (h *Handler) ListOrganizers(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListOrganizers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, items)
}

// --- Organizers ---

// CreateOrganizer handles POST /api/admin/organizers
// @Summary Organisator anlegen
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body CreateOrganizerRequest true "Organisator"
// @Success 201 {object} response.Response{data=AccountSummary}
// @Failure 400,401,403 {object} response.Response
// @Router /api/admin/organizers [post]
func (h *Handler) CreateOrganizer(w http.ResponseWriter, r *http.Request) {
	var req CreateOrganizerRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Ungültiger JSON-Body.")
		return
	}
	req.Username = strings.TrimSpace(req.Username)

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	summary, err := h.service.CreateOrganizer(r.Context(), auth.FromContext(r.Context()), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Created(w, summary)
}

// DeleteOrganizer handles DELETE /api/admin/organizers
func (h *Handler) DeleteOrganizer(w http.ResponseWriter, r *http.Request) {
	username, ok := decodeUsername(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteOrganizer(r.Context(), auth.FromContext(r.Context()), username); err != nil {
		writeError(w, r, err)
		return
	}

	response.OK(w, map[string]interface{}{"username": username, "deleted": true})
}

// --- Chats, media, audit ---

// ChatsLock handles POST /api/admin/chats-lock
// @Summary Chats sperren oder freigeben
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body ChatsLockRequest true "Sperre"
// @Success 200 {object} response.Response{data=ChatsLockResponse}
// @Router /api/admin/chats-lock [post]
func (h *Handler) ChatsLock(w http.ResponseWriter, r *http.Request) {
	var req ChatsLockRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Ungültiger JSON-Body.")
		return
	}
	if req.Lock == nil {
		writeError(w, r, ErrMissingLock)
		return
	}

	locked := h.service.SetChatsLocked(r.Context(), auth.FromContext(r.Context()), *req.Lock)
	response.OK(w, ChatsLockResponse{Locked: locked})
}

// ReplaceMedia handles PUT /api/admin/media/{slot}
// @Summary Startseiten-Medium ersetzen
// @Tags Admin
// @Accept multipart/form-data
// @Produce json
// @Param slot path string true "hero-image oder hero-video"
// @Param file formData file true "Datei"
// @Success 200 {object} response.Response{data=MediaResponse}
// @Failure 400,401,403,404,413 {object} response.Response
// @Router /api/admin/media/{slot} [put]
func (h *Handler) ReplaceMedia(w http.ResponseWriter, r *http.Request) {
	slot, ok := mediaSlots[chi.URLParam(r, "slot")]
	if !ok {
		writeError(w, r, ErrUnknownSlot)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, slot.MaxBytes+1<<20)

	file, _, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, storage.ErrFileTooLarge)
			return
		}
		writeError(w, r, ErrMediaMissing)
		return
	}
	defer file.Close()

	result, err := h.service.ReplaceMedia(r.Context(), auth.FromContext(r.Context()), slot.Name, file)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.OK(w, result)
}

// AuditLog handles GET /api/admin/audit
func (h *Handler) AuditLog(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.service.AuditLog(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, entries)
}

// ExportAll handles GET /api/export-all. Only the API key is accepted.
// @Summary Alle Daten als ZIP exportieren
// @Tags Admin
// @Produce application/zip
// @Param apiKey query string true "API-Key"
// @Failure 401,429 {object} response.Response
// @Router /api/export-all [get]
func (h *Handler) ExportAll(w http.ResponseWriter, r *http.Request) {
	if err := h.resolver.VerifyAPIKey(r); err != nil {
		auth.WriteError(w, r, err)
		return
	}

	names, err := h.service.ExportNames(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	// The archive can outlast the server-wide write timeout
	if err := http.NewResponseController(w).SetWriteDeadline(time.Now().Add(exportWriteTimeout)); err != nil {
		log.Debug().Err(err).Msg("Export write deadline not extended")
	}

	filename := fmt.Sprintf("landesnetz-export-%s.zip", h.service.now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)

	if err := h.service.Export(r.Context(), auth.Identity{Kind: auth.KindAPIKey}, names, w); err != nil {
		log.Error().Err(err).Msg("Failed to stream export archive")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrMissingUsername):
		response.BadRequest(w, MsgMissingUsername)
	case errors.Is(err, account.ErrNotFound):
		response.NotFound(w, MsgNotFound)
	case errors.Is(err, ErrSelfBan):
		response.Forbidden(w, MsgSelfBan)
	case errors.Is(err, ErrOrganizerProtected):
		response.Forbidden(w, MsgOrganizerProtected)
	case errors.Is(err, ErrPermissionDenied):
		response.Forbidden(w, MsgPermissionDenied)
	case errors.Is(err, ErrUsernameTaken):
		response.BadRequest(w, auth.MsgUsernameTaken)
	case errors.Is(err, ErrMissingLock):
		response.BadRequest(w, "Feld lock fehlt.")
	case errors.Is(err, ErrUnknownSlot):
		response.NotFound(w, "Unbekannter Medienplatz.")
	case errors.Is(err, ErrMediaMissing):
		response.BadRequest(w, "Keine Datei hochgeladen.")
	case errors.Is(err, storage.ErrFileTooLarge):
		response.Error(w, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "Die Datei ist zu groß.")
	case errors.Is(err, storage.ErrEmptyFile), errors.Is(err, storage.ErrInvalidMimeType):
		response.BadRequest(w, "Ungültiger Dateityp.")
	default:
		auth.WriteError(w, r, err)
	}
}
