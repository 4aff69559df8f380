// Package assetsapi serves the public listing, password exchange and
// token-gated download endpoints.
package assetsapi

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"portfolio/cmd/internal/assets"
	"portfolio/cmd/internal/auth/credential"
	"portfolio/cmd/internal/metrics"
	"portfolio/cmd/internal/remote"
)

// PasswordVerifier checks the shared asset password.
type PasswordVerifier interface {
	Configured() bool
	// Check returns credential.ErrInvalidCredential on a mismatch.
	Check(ctx context.Context, candidate string, origin net.IP) error
}

// TokenIssuer mints access tokens after a successful password check.
type TokenIssuer interface {
	Issue() (string, time.Time, error)
}

// Handler serves the public listing, password exchange and protected fetch endpoints.
type Handler struct {
	log *slog.Logger
	cfg Config

	verifier PasswordVerifier
	tokens   TokenIssuer
	gate     *assets.Gate

	metrics *metrics.Metrics
	limiter *attemptLimiter
	now     func() time.Time
}

// HandlerOption configures optional handler dependencies.
type HandlerOption func(*Handler)

// WithMetrics records auth and fetch outcomes on m.
func WithMetrics(m *metrics.Metrics) HandlerOption {
	return func(h *Handler) {
		if h == nil {
			return
		}
		h.metrics = m
	}
}

// WithClock replaces time.Now for the rate limiter.
func WithClock(now func() time.Time) HandlerOption {
	return func(h *Handler) {
		if h == nil || now == nil {
			return
		}
		h.now = now
	}
}

// NewHandler constructs the asset API.
func NewHandler(log *slog.Logger, cfg Config, verifier PasswordVerifier, tokens TokenIssuer, gate *assets.Gate, opts ...HandlerOption) (*Handler, error) {
	if log == nil {
		log = slog.Default()
	}
	if verifier == nil {
		return nil, errors.New("assetsapi: nil verifier")
	}
	if tokens == nil {
		return nil, errors.New("assetsapi: nil token issuer")
	}
	if gate == nil {
		return nil, errors.New("assetsapi: nil gate")
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultConfig().MaxBodyBytes
	}

	h := &Handler{
		log:      log,
		cfg:      cfg,
		verifier: verifier,
		tokens:   tokens,
		gate:     gate,
		limiter:  newAttemptLimiter(cfg.AuthAttempts, cfg.AuthWindow),
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(h)
	}
	return h, nil
}

// Register wires the asset routes onto mux.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}
	mux.HandleFunc("/api/public-assets", h.handlePublicAssets)
	mux.HandleFunc("/api/auth-assets", h.handleAuthAssets)
	mux.HandleFunc("/api/protected-asset/{filename...}", h.handleProtectedAsset)
}

// PruneLimiter drops idle rate limiter entries. It is meant to run from the
// token sweep loop.
func (h *Handler) PruneLimiter() int {
	if h == nil {
		return 0
	}
	return h.limiter.Prune(h.now())
}

func (h *Handler) handlePublicAssets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, listingResponse{Files: assets.List(h.cfg.PublicDir)})
}

func (h *Handler) handleAuthAssets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ip := remote.IP(r, h.cfg.TrustProxy)

	if !h.verifier.Configured() {
		h.metrics.AuthAttempt("unconfigured")
		writeAuthFailure(w, http.StatusServiceUnavailable, "Asset authentication is not configured")
		return
	}

	if ok, retry := h.limiter.Allow(limiterKey(ip), h.now()); !ok {
		h.log.Warn("assets.auth.rate_limited", "ip", ipString(ip), "retry_after", retry.String())
		h.metrics.AuthAttempt("rate_limited")
		writeRateLimited(w, retry)
		return
	}

	var req authRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil || req.Password == nil {
		h.metrics.AuthAttempt("bad_request")
		writeAuthFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	switch err := h.verifier.Check(r.Context(), *req.Password, ip); {
	case err == nil:
	case errors.Is(err, credential.ErrInvalidCredential):
		h.log.Warn("assets.auth.failed", "ip", ipString(ip))
		h.metrics.AuthAttempt("invalid")
		writeAuthFailure(w, http.StatusUnauthorized, "Invalid password")
		return
	case errors.Is(err, credential.ErrNotConfigured):
		h.metrics.AuthAttempt("unconfigured")
		writeAuthFailure(w, http.StatusServiceUnavailable, "Asset authentication is not configured")
		return
	default:
		h.log.Error("assets.auth.error", "err", err, "ip", ipString(ip))
		h.metrics.AuthAttempt("error")
		writeAuthFailure(w, http.StatusInternalServerError, "Server error")
		return
	}

	tok, exp, err := h.tokens.Issue()
	if err != nil {
		h.log.Error("assets.auth.issue_failed", "err", err, "ip", ipString(ip))
		h.metrics.AuthAttempt("error")
		writeAuthFailure(w, http.StatusInternalServerError, "Server error")
		return
	}

	h.log.Info("assets.auth.ok", "ip", ipString(ip), "expires_at", exp.UTC().Format(time.RFC3339))
	h.metrics.AuthAttempt("ok")
	writeJSON(w, http.StatusOK, authSuccessResponse{
		Success:   true,
		Token:     tok,
		Files:     assets.List(h.gate.Root()),
		ExpiresAt: exp.UTC(),
	})
}

func (h *Handler) handleProtectedAsset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ip := remote.IP(r, h.cfg.TrustProxy)
	name := r.PathValue("filename")

	f, info, err := h.gate.Open(name, bearerToken(r))
	if err != nil {
		switch {
		case errors.Is(err, assets.ErrUnauthorized):
			h.log.Warn("assets.protected.unauthorized", "file", name, "ip", ipString(ip))
			h.metrics.AssetRequest("unauthorized")
			writeError(w, http.StatusUnauthorized, "unauthorized", "valid bearer token required")
		case errors.Is(err, assets.ErrForbidden):
			h.log.Warn("assets.protected.forbidden", "file", name, "ip", ipString(ip))
			h.metrics.AssetRequest("forbidden")
			writeError(w, http.StatusForbidden, "forbidden", "access denied")
		case errors.Is(err, assets.ErrNotFound):
			h.metrics.AssetRequest("not_found")
			writeError(w, http.StatusNotFound, "not_found", "file not found")
		default:
			h.log.Error("assets.protected.error", "err", err, "file", name, "ip", ipString(ip))
			h.metrics.AssetRequest("error")
			writeError(w, http.StatusInternalServerError, "server_error", "server error")
		}
		return
	}
	defer func() { _ = f.Close() }()

	h.log.Info("assets.protected.served", "file", name, "ip", ipString(ip))
	h.metrics.AssetRequest("ok")

	w.Header().Set("Cache-Control", "private, no-store")
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	scheme, tok, ok := strings.Cut(raw, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(tok)
}

func limiterKey(ip net.IP) string {
	if ip == nil {
		return "unknown"
	}
	return ip.String()
}

func ipString(ip net.IP) string {
	if ip == nil {
		return "Unknown"
	}
	return ip.String()
}
