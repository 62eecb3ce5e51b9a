package chat

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/landesnetz/landesnetz-api/internal/domain/auth"
	"github.com/landesnetz/landesnetz-api/internal/pkg/response"
)

func newRouter(f *fixture, id auth.Identity) chi.Router {
	h := NewHandler(f.service, NewHub(nil), nil)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	})
	r.Route("/api", h.Register)
	return r
}

func do(t *testing.T, r http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body %q: %v", w.Body.String(), err)
	}
	return w, resp
}

func TestHandler_ContactDetailsRejectedForUsers(t *testing.T) {
	f := newFixture(t)

	w, resp := do(t, newRouter(f, anna), http.MethodPost, "/api/chats/bayern", PostMessageRequest{Message: "Contact me at a@b.com"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if resp.Error.Message != "Nachricht enthält unerlaubte Kontaktdaten (E-Mail oder Telefonnummer)." {
		t.Fatalf("unexpected message %q", resp.Error.Message)
	}

	w, _ = do(t, newRouter(f, organizer), http.MethodPost, "/api/chats/organisatoren", PostMessageRequest{Message: "Contact me at a@b.com"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 for organizer, got %d", w.Code)
	}
}

func TestHandler_StatusCodes(t *testing.T) {
	f := newFixture(t)
	user := newRouter(f, anna)

	if w, resp := do(t, user, http.MethodGet, "/api/chats/atlantis", nil); w.Code != http.StatusNotFound || resp.Error.Message != "Chat nicht gefunden." {
		t.Fatalf("expected 404 Chat nicht gefunden., got %d %q", w.Code, resp.Error.Message)
	}
	if w, _ := do(t, user, http.MethodGet, "/api/chats/admin", nil); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for admin channel, got %d", w.Code)
	}

	f.service.SetChatsLocked(true)
	w, resp := do(t, user, http.MethodPost, "/api/chats/allgemein", PostMessageRequest{Message: "hallo"})
	if w.Code != http.StatusForbidden || resp.Error.Message != "Die Chats sind derzeit gesperrt." {
		t.Fatalf("expected chat lock 403, got %d %q", w.Code, resp.Error.Message)
	}
	if _, resp := do(t, user, http.MethodGet, "/api/chats-lock", nil); !resp.Success {
		t.Fatal("lock status must be readable")
	}
	f.service.SetChatsLocked(false)

	if w, _ := do(t, user, http.MethodPost, "/api/chats/allgemein", PostMessageRequest{Message: "hallo"}); w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if w, _ := do(t, user, http.MethodDelete, "/api/chats/allgemein", MessageIDRequest{MessageID: "nope"}); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown message, got %d", w.Code)
	}
}

func TestHandler_RequiresSession(t *testing.T) {
	f := newFixture(t)

	w, _ := do(t, newRouter(f, auth.Anonymous), http.MethodGet, "/api/chats/allgemein", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	locked := anna
	locked.Locked = true
	w, _ = do(t, newRouter(f, locked), http.MethodGet, "/api/chats/allgemein", nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for locked account, got %d", w.Code)
	}
}

func TestHandler_MessagesEmptyList(t *testing.T) {
	f := newFixture(t)

	w, resp := do(t, newRouter(f, anna), http.MethodGet, "/api/chats/bayern?limit=5", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if list, ok := resp.Data.([]interface{}); !ok || len(list) != 0 {
		t.Fatalf("expected empty list, got %#v", resp.Data)
	}
}
