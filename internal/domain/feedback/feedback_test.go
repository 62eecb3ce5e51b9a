package feedback

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/landesnetz/landesnetz-api/internal/middleware"
	"github.com/landesnetz/landesnetz-api/internal/pkg/ratelimit"
	"github.com/landesnetz/landesnetz-api/internal/pkg/recordstore"
	"github.com/landesnetz/landesnetz-api/internal/pkg/response"
)

type fixture struct {
	repo   *Repository
	router chi.Router
	now    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	backend, err := recordstore.NewLocalBackend(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	f := &fixture{
		repo: NewRepository(recordstore.New(backend)),
		now:  time.Date(2026, 8, 3, 15, 0, 0, 0, time.UTC),
	}
	registry := ratelimit.NewRegistry().WithClock(func() time.Time { return f.now })
	h := NewHandler(NewService(f.repo, registry.Now))

	allowAll := func(next http.Handler) http.Handler { return next }
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		h.PublicRoutes(r,
			middleware.RateLimitOnSuccess(registry.Newsletter, registry.Now),
			middleware.RateLimitOnSuccess(registry.BugReport, registry.Now),
		)
		r.Route("/admin", func(r chi.Router) {
			h.AdminRoutes(r, allowAll)
		})
	})
	f.router = r
	return f
}

func (f *fixture) send(t *testing.T, method, path, ip string, body interface{}) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = ip + ":50000"
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var resp response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return w, resp
}

func TestNewsletter_SubscribeAndDuplicate(t *testing.T) {
	f := newFixture(t)

	w, _ := f.send(t, http.MethodPost, "/api/newsletter", "198.51.100.1", SubscribeRequest{Email: "Leser@Example.de "})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}

	w, _ = f.send(t, http.MethodPost, "/api/newsletter", "198.51.100.2", SubscribeRequest{Email: "leser@example.de"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for duplicate, got %d", w.Code)
	}

	subs, err := f.repo.ListSubscribers(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(subs) != 1 || subs[0].Email != "leser@example.de" {
		t.Fatalf("expected one normalized subscriber, got %+v", subs)
	}
}

func TestNewsletter_InvalidEmail(t *testing.T) {
	f := newFixture(t)

	w, resp := f.send(t, http.MethodPost, "/api/newsletter", "198.51.100.1", SubscribeRequest{Email: "kein-mail"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if resp.Error.Details["email"] != "Ungültige E-Mail-Adresse" {
		t.Fatalf("unexpected details %v", resp.Error.Details)
	}
}

func TestNewsletter_OncePerHourPerCaller(t *testing.T) {
	f := newFixture(t)

	f.send(t, http.MethodPost, "/api/newsletter", "198.51.100.1", SubscribeRequest{Email: "a@example.de"})
	w, resp := f.send(t, http.MethodPost, "/api/newsletter", "198.51.100.1", SubscribeRequest{Email: "b@example.de"})
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if resp.Error.Code != string(ratelimit.ReasonPerHour) {
		t.Fatalf("expected %s, got %s", ratelimit.ReasonPerHour, resp.Error.Code)
	}

	f.now = f.now.Add(time.Hour)
	if w, _ := f.send(t, http.MethodPost, "/api/newsletter", "198.51.100.1", SubscribeRequest{Email: "b@example.de"}); w.Code != http.StatusCreated {
		t.Fatalf("expected 201 after an hour, got %d", w.Code)
	}
}

func TestRejectedSubmissionKeepsHourlySlot(t *testing.T) {
	f := newFixture(t)
	ip := "198.51.100.9"

	if w, _ := f.send(t, http.MethodPost, "/api/newsletter", ip, SubscribeRequest{Email: "not-an-email"}); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if w, _ := f.send(t, http.MethodPost, "/api/newsletter", ip, SubscribeRequest{Email: "ok@example.com"}); w.Code != http.StatusCreated {
		t.Fatalf("corrected signup: expected 201, got %d", w.Code)
	}

	if w, _ := f.send(t, http.MethodPost, "/api/bug-report", ip, BugReportRequest{}); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if w, _ := f.send(t, http.MethodPost, "/api/bug-report", ip, BugReportRequest{Message: "Bild lädt nicht"}); w.Code != http.StatusCreated {
		t.Fatalf("corrected report: expected 201, got %d", w.Code)
	}
	if w, _ := f.send(t, http.MethodPost, "/api/bug-report", ip, BugReportRequest{Message: "Noch einmal"}); w.Code != http.StatusTooManyRequests {
		t.Fatalf("stored report must take the slot, got %d", w.Code)
	}
}

func TestBugReport_SubmitAndRateLimit(t *testing.T) {
	f := newFixture(t)

	w, resp := f.send(t, http.MethodPost, "/api/bug-report", "203.0.113.7", BugReportRequest{Message: "Der Login-Knopf reagiert nicht", Page: "/login"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	id := resp.Data.(map[string]interface{})["id"].(string)

	w, _ = f.send(t, http.MethodPost, "/api/bug-report", "203.0.113.7", BugReportRequest{Message: "Noch etwas"})
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") != "3600" {
		t.Fatalf("expected Retry-After 3600, got %q", w.Header().Get("Retry-After"))
	}

	if w, _ := f.send(t, http.MethodPost, "/api/bug-report", "203.0.113.8", BugReportRequest{}); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty message, got %d", w.Code)
	}

	w, _ = f.send(t, http.MethodPatch, "/api/admin/bug-reports/"+id+"/status", "203.0.113.1", UpdateStatusRequest{Status: "resolved"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w, _ := f.send(t, http.MethodPatch, "/api/admin/bug-reports/missing/status", "203.0.113.1", UpdateStatusRequest{Status: "resolved"}); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	_, resp = f.send(t, http.MethodGet, "/api/admin/bug-reports?status=resolved", "203.0.113.1", nil)
	data := resp.Data.(map[string]interface{})
	if data["total"] != float64(1) {
		t.Fatalf("expected one resolved report, got %v", data["total"])
	}
}

func TestListReports_NewestFirstPaginated(t *testing.T) {
	f := newFixture(t)
	svc := NewService(f.repo, func() time.Time { return f.now })
	ctx := context.Background()

	for _, msg := range []string{"eins", "zwei", "drei"} {
		if _, err := svc.SubmitReport(ctx, &BugReportRequest{Message: msg}, "", "", ""); err != nil {
			t.Fatal(err)
		}
	}

	items, total, err := svc.ListReports(ctx, nil, 2, 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 || len(items) != 2 || items[0].Message != "drei" || items[1].Message != "zwei" {
		t.Fatalf("unexpected page %+v (total %d)", items, total)
	}

	items, _, _ = svc.ListReports(ctx, nil, 2, 5)
	if len(items) != 0 {
		t.Fatalf("expected empty page past the end, got %d", len(items))
	}
}
