package feedback

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/landesnetz/landesnetz-api/internal/domain/auth"
	"github.com/landesnetz/landesnetz-api/internal/middleware"
	"github.com/landesnetz/landesnetz-api/internal/pkg/errorhandler"
	"github.com/landesnetz/landesnetz-api/internal/pkg/response"
	"github.com/landesnetz/landesnetz-api/internal/pkg/validator"
)

// Handler handles newsletter and bug report HTTP requests
type Handler struct {
	svc *Service
}

// NewHandler creates feedback handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Subscribe handles POST /api/newsletter (public)
// @Summary Newsletter abonnieren
// @Tags Feedback
// @Accept json
// @Produce json
// @Param request body SubscribeRequest true "E-Mail"
// @Success 200,201 {object} response.Response{data=SubscribeResponse}
// @Failure 400,429 {object} response.Response
// @Router /api/newsletter [post]
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Ungültiger JSON-Body.")
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	sub, created, err := h.svc.Subscribe(r.Context(), &req, middleware.ClientIP(r))
	if err != nil {
		errorhandler.HandleError(r.Context(), w, "newsletter signup failed", err)
		return
	}

	if !created {
		response.OK(w, SubscribeResponse{Email: sub.Email, Message: "Du bist bereits angemeldet."})
		return
	}
	response.Created(w, SubscribeResponse{Email: sub.Email, Message: "Danke für deine Anmeldung!"})
}

// SubmitReport handles POST /api/bug-report (public)
// @Summary Fehler melden
// @Tags Feedback
// @Accept json
// @Produce json
// @Param request body BugReportRequest true "Meldung"
// @Success 201 {object} response.Response{data=BugReportSubmittedResponse}
// @Failure 400,429 {object} response.Response
// @Router /api/bug-report [post]
func (h *Handler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	var req BugReportRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Ungültiger JSON-Body.")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	id := auth.FromContext(r.Context())
	report, err := h.svc.SubmitReport(r.Context(), &req, id.Username, middleware.ClientIP(r), r.UserAgent())
	if err != nil {
		errorhandler.HandleError(r.Context(), w, "bug report failed", err)
		return
	}

	response.Created(w, BugReportSubmittedResponse{
		ID:      report.ID,
		Message: "Danke! Wir kümmern uns darum.",
	})
}

// ListSubscribers handles GET /api/admin/newsletter
func (h *Handler) ListSubscribers(w http.ResponseWriter, r *http.Request) {
	subs, err := h.svc.ListSubscribers(r.Context())
	if err != nil {
		errorhandler.HandleError(r.Context(), w, "list subscribers failed", err)
		return
	}
	response.OK(w, map[string]interface{}{
		"items": subs,
		"total": len(subs),
	})
}

// ListReports handles GET /api/admin/bug-reports
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	limit := 50
	offset := 0

	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			offset = v
		}
	}

	var status *Status
	if s := r.URL.Query().Get("status"); s != "" {
		st := Status(s)
		status = &st
	}

	reports, total, err := h.svc.ListReports(r.Context(), status, limit, offset)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, "list bug reports failed", err)
		return
	}

	response.OK(w, map[string]interface{}{
		"items": reports,
		"total": total,
	})
}

// UpdateStatus handles PATCH /api/admin/bug-reports/{id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Ungültiger JSON-Body.")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	report, err := h.svc.UpdateStatus(r.Context(), chi.URLParam(r, "id"), Status(req.Status))
	if err != nil {
		if errors.Is(err, ErrReportNotFound) {
			response.NotFound(w, "Meldung nicht gefunden.")
			return
		}
		errorhandler.HandleError(r.Context(), w, "update bug report failed", err)
		return
	}

	response.OK(w, report)
}
