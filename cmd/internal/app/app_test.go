package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"portfolio/cmd/security/password"
)

const appTestPassword = "correct horse battery"

func writeTestFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func testAppConfig(t *testing.T) Config {
	t.Helper()
	t.Setenv("PORTFOLIO_TOKEN_HMAC_KEY", "")

	base := t.TempDir()
	web := filepath.Join(base, "web")
	contentDir := filepath.Join(base, "content")
	writeTestFile(t, filepath.Join(contentDir, "index.txt"), `\x1b[1mhi\x1b[0m <public IP>`)
	writeTestFile(t, filepath.Join(contentDir, "index.html"), "<title>shell</title>")
	writeTestFile(t, filepath.Join(web, "assets", "public", "logo.svg"), "<svg/>")
	writeTestFile(t, filepath.Join(web, "assets", "protected", "photo.png"), "png-bytes")

	pw := password.DefaultConfig()
	pw.BcryptCost = bcrypt.MinCost
	hash, err := pw.HashBcrypt(appTestPassword)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	return Config{
		HTTPAddr:           "127.0.0.1:0",
		StaticDir:          web,
		ContentDir:         contentDir,
		PublicAssetsDir:    filepath.Join(web, "assets", "public"),
		ProtectedAssetsDir: filepath.Join(web, "assets", "protected"),
		TextClients:        []string{"curl"},
		AssetPasswordHash:  hash,
		TokenTTL:           time.Minute,
		TokenSweepInterval: time.Minute,
		AuthMaxBodyBytes:   4096,
		AuthAttempts:       10,
		AuthWindow:         time.Minute,
		MetricsEnabled:     true,
	}
}

func newTestApp(t *testing.T, cfg Config) *App {
	t.Helper()
	a, err := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

func serve(h http.Handler, method, target, body string, hdr map[string]string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestApp_AuthThenFetch(t *testing.T) {
	a := newTestApp(t, testAppConfig(t))
	h := a.Handler()

	rr := serve(h, http.MethodPost, "/api/auth-assets", `{"password":"`+appTestPassword+`"}`, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("auth status=%d body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Success bool              `json:"success"`
		Token   string            `json:"token"`
		Files   map[string]string `json:"files"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Token == "" || resp.Files["photo.png"] != "photo.png" {
		t.Fatalf("unexpected auth response: %+v", resp)
	}

	rr = serve(h, http.MethodGet, "/api/protected-asset/photo.png", "", map[string]string{"Authorization": "Bearer " + resp.Token})
	if rr.Code != http.StatusOK || rr.Body.String() != "png-bytes" {
		t.Fatalf("fetch status=%d body=%q", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("X-Request-ID") == "" || rr.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("middleware headers missing: %v", rr.Header())
	}

	rr = serve(h, http.MethodGet, "/api/protected-asset/photo.png", "", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("no-token status=%d", rr.Code)
	}
}

func TestApp_StaticNeverServesProtected(t *testing.T) {
	a := newTestApp(t, testAppConfig(t))
	h := a.Handler()

	rr := serve(h, http.MethodGet, "/assets/protected/photo.png", "", nil)
	if rr.Code != http.StatusNotFound || strings.Contains(rr.Body.String(), "png-bytes") {
		t.Fatalf("protected file leaked statically: status=%d", rr.Code)
	}

	rr = serve(h, http.MethodGet, "/assets/public/logo.svg", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("public asset status=%d", rr.Code)
	}
}

func TestApp_PublicListingAndPages(t *testing.T) {
	a := newTestApp(t, testAppConfig(t))
	h := a.Handler()

	rr := serve(h, http.MethodGet, "/api/public-assets", "", nil)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"logo.svg":"logo.svg"`) {
		t.Fatalf("listing status=%d body=%s", rr.Code, rr.Body.String())
	}

	rr = serve(h, http.MethodGet, "/", "", map[string]string{"User-Agent": "curl/8.5.0"})
	if rr.Body.String() != "\x1b[1mhi\x1b[0m 192.0.2.1" {
		t.Fatalf("curl index=%q", rr.Body.String())
	}

	rr = serve(h, http.MethodGet, "/", "", map[string]string{"User-Agent": "Mozilla/5.0"})
	if !strings.Contains(rr.Body.String(), "<title>shell</title>") {
		t.Fatalf("browser index=%q", rr.Body.String())
	}
}

func TestApp_HealthAndMetrics(t *testing.T) {
	a := newTestApp(t, testAppConfig(t))
	h := a.Handler()

	rr := serve(h, http.MethodGet, "/healthz", "", nil)
	if rr.Code != http.StatusOK || rr.Body.String() != "ok\n" {
		t.Fatalf("healthz status=%d body=%q", rr.Code, rr.Body.String())
	}

	_ = serve(h, http.MethodPost, "/api/auth-assets", `{"password":"`+appTestPassword+`"}`, nil)

	rr = serve(h, http.MethodGet, "/metrics", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status=%d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{
		"portfolio_tokens_live 1",
		`portfolio_assets_auth_attempts_total{result="ok"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("missing %q in metrics", want)
		}
	}
}

func TestApp_MetricsDisabled(t *testing.T) {
	cfg := testAppConfig(t)
	cfg.MetricsEnabled = false
	a := newTestApp(t, cfg)

	rr := serve(a.Handler(), http.MethodGet, "/metrics", "", map[string]string{"User-Agent": "curl/8.5.0"})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 with metrics disabled, got %d", rr.Code)
	}
}

func TestApp_AuthDisabledWithoutHash(t *testing.T) {
	cfg := testAppConfig(t)
	cfg.AssetPasswordHash = ""
	a := newTestApp(t, cfg)

	rr := serve(a.Handler(), http.MethodPost, "/api/auth-assets", `{"password":"x"}`, nil)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}

func TestApp_RejectsMalformedHash(t *testing.T) {
	cfg := testAppConfig(t)
	cfg.AssetPasswordHash = "$argon2id$garbage"

	if _, err := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil))); err == nil {
		t.Fatalf("expected startup error for malformed hash")
	}
}

func TestApp_SweepHook(t *testing.T) {
	a := newTestApp(t, testAppConfig(t))

	if _, _, err := a.tokens.Issue(); err != nil {
		t.Fatalf("issue: %v", err)
	}
	if n := a.tokens.Sweep(); n != 0 {
		t.Fatalf("fresh token swept: %d", n)
	}
	if a.tokens.Len() != 1 {
		t.Fatalf("expected 1 live token, got %d", a.tokens.Len())
	}
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	a := newTestApp(t, testAppConfig(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not stop")
	}
}
