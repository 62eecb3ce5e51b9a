package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/landesnetz/landesnetz-api/internal/config"
)

const testAPIKey = "test-key"

func newTestRouter(t *testing.T, opts ...func(*config.Config)) (http.Handler, string) {
	t.Helper()
	cfg := &config.Config{
		Env:            "test",
		StoreDriver:    "file",
		DataDir:        t.TempDir(),
		APIKey:         testAPIKey,
		PasswordMode:   "plaintext",
		AllowedOrigins: []string{"http://localhost:3000"},
		MediaDriver:    "local",
		MediaDir:       t.TempDir(),
		MediaBaseURL:   "/media",
		MaxImageBytes:  1 << 20,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	app, err := newApp(context.Background(), cfg, nil, nil)
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	go app.hub.Run()
	t.Cleanup(app.hub.Shutdown)

	return newRouter(app), cfg.MediaDir
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}, header http.Header, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRouter_Health(t *testing.T) {
	h, _ := newTestRouter(t)

	w := do(t, h, http.MethodGet, "/health", nil, nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Success bool              `json:"success"`
		Data    map[string]string `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.Data["status"] != "ok" {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestRouter_Metrics(t *testing.T) {
	h, _ := newTestRouter(t)

	w := do(t, h, http.MethodGet, "/metrics", nil, nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestRouter_ServesLocalMedia(t *testing.T) {
	h, dir := newTestRouter(t)
	if err := os.MkdirAll(filepath.Join(dir, "site"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "site", "note.txt"), []byte("hallo"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := do(t, h, http.MethodGet, "/media/site/note.txt", nil, nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "hallo" {
		t.Fatalf("unexpected body %q", w.Body.String())
	}
}

func TestRouter_ChannelsRequireLogin(t *testing.T) {
	h, _ := newTestRouter(t)

	if w := do(t, h, http.MethodGet, "/api/channels", nil, nil, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if w := do(t, h, http.MethodGet, "/api/chats-lock", nil, nil, nil); w.Code != http.StatusOK {
		t.Fatalf("lock status is public, got %d", w.Code)
	}
}

func TestRouter_SignupApproveLogin(t *testing.T) {
	h, _ := newTestRouter(t)
	creds := map[string]string{"username": "lena", "password": "pw"}

	if w := do(t, h, http.MethodPost, "/api/signup", creds, nil, nil); w.Code != http.StatusOK {
		t.Fatalf("signup: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	if w := do(t, h, http.MethodPost, "/api/login", creds, nil, nil); w.Code != http.StatusForbidden {
		t.Fatalf("pending login: expected 403, got %d", w.Code)
	}

	key := http.Header{"X-Api-Key": []string{testAPIKey}}
	w := do(t, h, http.MethodPost, "/api/admin/approve", map[string]string{"username": "lena"}, key, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("approve: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = do(t, h, http.MethodPost, "/api/login", creds, nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	cookies := w.Result().Cookies()

	var session []*http.Cookie
	for _, c := range cookies {
		if c.Value != "" {
			session = append(session, c)
		}
	}

	if w := do(t, h, http.MethodGet, "/api/channels", nil, nil, session); w.Code != http.StatusOK {
		t.Fatalf("channels: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if w := do(t, h, http.MethodGet, "/api/admin/users", nil, nil, session); w.Code != http.StatusForbidden {
		t.Fatalf("user on admin route: expected 403, got %d", w.Code)
	}
}

func TestRouter_FeedbackAdminRoutesMountedUnderAdmin(t *testing.T) {
	h, _ := newTestRouter(t)

	if w := do(t, h, http.MethodGet, "/api/admin/bug-reports", nil, nil, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: expected 401, got %d", w.Code)
	}

	key := http.Header{"X-Api-Key": []string{testAPIKey}}
	if w := do(t, h, http.MethodGet, "/api/admin/bug-reports", nil, key, nil); w.Code != http.StatusOK {
		t.Fatalf("api key: expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func loginAttempts(t *testing.T, h http.Handler, n int) []int {
	t.Helper()
	creds := map[string]string{"username": "niemand", "password": "falsch"}
	codes := make([]int, 0, n)
	for i := 0; i < n; i++ {
		spoofed := http.Header{
			"X-Real-Ip":       []string{"198.51.100." + strconv.Itoa(i+1)},
			"X-Forwarded-For": []string{"198.51.100." + strconv.Itoa(i+1)},
		}
		codes = append(codes, do(t, h, http.MethodPost, "/api/login", creds, spoofed, nil).Code)
	}
	return codes
}

func TestRouter_ProxyHeadersIgnoredByDefault(t *testing.T) {
	h, _ := newTestRouter(t)

	codes := loginAttempts(t, h, 6)
	for i, code := range codes[:5] {
		if code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i+1, code)
		}
	}
	if codes[5] != http.StatusTooManyRequests {
		t.Fatalf("rotating X-Real-IP must not reset the caller, got %d", codes[5])
	}
}

func TestRouter_ProxyHeadersTrustedWhenConfigured(t *testing.T) {
	h, _ := newTestRouter(t, func(cfg *config.Config) { cfg.TrustProxy = true })

	for i, code := range loginAttempts(t, h, 6) {
		if code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401 behind a trusted proxy, got %d", i+1, code)
		}
	}
}
