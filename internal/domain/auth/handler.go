package auth

import (
	"net/http"
	"net/url"
	"time"

	"github.com/landesnetz/landesnetz-api/internal/domain/account"
	"github.com/landesnetz/landesnetz-api/internal/pkg/response"
)

const sessionMaxAge = 30 * 24 * time.Hour

// Handler handles auth HTTP requests
type Handler struct {
	service      *Service
	cookieSecure bool
}

// NewHandler creates auth handler
func NewHandler(service *Service, cookieSecure bool) *Handler {
	return &Handler{service: service, cookieSecure: cookieSecure}
}

// Signup handles POST /api/signup
// @Summary Registrierung beantragen
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body CredentialsRequest true "Zugangsdaten"
// @Success 200 {object} response.Response{data=SignupResponse}
// @Failure 400,429,500 {object} response.Response
// @Router /api/signup [post]
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Ungültiger JSON-Body.")
		return
	}

	pending, err := h.service.Signup(r.Context(), &req)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	response.OK(w, SignupResponse{Username: pending.Username, Status: "pending"})
}

// Login handles POST /api/login
// @Summary Anmelden
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body CredentialsRequest true "Zugangsdaten"
// @Success 200 {object} response.Response{data=MeResponse}
// @Failure 400,401,403,429,500 {object} response.Response
// @Router /api/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Ungültiger JSON-Body.")
		return
	}

	a, err := h.service.Login(r.Context(), &req)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	// Cookies carry the submitted password, not the stored value
	if a.Role == account.RoleOrganizer {
		h.setCookie(w, CookieOrgUsername, a.Username)
		h.setCookie(w, CookieOrgPassword, req.Password)
		h.clearCookie(w, CookieUsername)
		h.clearCookie(w, CookiePassword)
	} else {
		h.setCookie(w, CookieUsername, a.Username)
		h.setCookie(w, CookiePassword, req.Password)
		h.clearCookie(w, CookieOrgUsername)
		h.clearCookie(w, CookieOrgPassword)
	}

	response.OK(w, meResponse(identityFromAccount(a)))
}

// Logout handles POST /api/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	for _, name := range []string{CookieUsername, CookiePassword, CookieOrgUsername, CookieOrgPassword} {
		h.clearCookie(w, name)
	}
	response.OK(w, map[string]bool{"loggedOut": true})
}

// Me handles GET /api/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id := FromContext(r.Context())
	response.OK(w, meResponse(id))
}

func (h *Handler) setCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    url.QueryEscape(value),
		Path:     "/",
		MaxAge:   int(sessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
