// Package app wires the portfolio server runtime: config, logging, token
// store lifecycle and HTTP routes.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"portfolio/cmd/internal/assets"
	assetsapi "portfolio/cmd/internal/assets/api"
	"portfolio/cmd/internal/auth/credential"
	"portfolio/cmd/internal/auth/tokenstore"
	"portfolio/cmd/internal/content"
	"portfolio/cmd/internal/metrics"
	"portfolio/cmd/security/password"
	"portfolio/cmd/security/token"
)

// App owns the HTTP server wiring and the token sweeper.
type App struct {
	cfg Config
	log Logger

	metrics *metrics.Metrics
	tokens  *tokenstore.Store
	assets  *assetsapi.Handler
	pages   *content.Handler
}

// New constructs a fully wired App instance from config and logger.
func New(cfg Config, log Logger) (*App, error) {
	if log == nil {
		log = NewLogger(cfg.LogLevel, cfg.LogFormat, cfg.LogColor)
	}

	pwCfg, err := password.FromEnv()
	if err != nil {
		return nil, fmt.Errorf("password config: %w", err)
	}
	if err := ValidateSecurityConfig(cfg, pwCfg); err != nil {
		return nil, err
	}
	key, err := tokenDigestKey()
	if err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, log: log}
	if cfg.MetricsEnabled {
		a.metrics = metrics.New()
	}

	verifier, err := credential.NewVerifier(cfg.AssetPasswordHash, pwCfg, log)
	if err != nil {
		return nil, err
	}
	if !verifier.Configured() {
		log.Warn("assets.auth.disabled", "reason", "PORTFOLIO_ASSET_PASSWORD_HASH not set")
	}

	digester := token.NewDigester(key)
	log.Debug("tokens.digest", "hmac", digester.HMAC())

	a.tokens = tokenstore.New(
		tokenstore.WithTTL(cfg.TokenTTL),
		tokenstore.WithSweepInterval(cfg.TokenSweepInterval),
		tokenstore.WithDigester(digester),
		tokenstore.WithLogger(log),
		tokenstore.WithSweepHook(a.afterSweep),
	)
	a.metrics.RegisterLiveTokens(a.tokens.Len)

	gate, err := assets.NewGate(cfg.ProtectedAssetsDir, a.tokens)
	if err != nil {
		return nil, err
	}

	a.assets, err = assetsapi.NewHandler(log, cfg.assetsAPIConfig(), verifier, a.tokens, gate, assetsapi.WithMetrics(a.metrics))
	if err != nil {
		return nil, err
	}

	a.pages, err = content.NewHandler(log, cfg.contentConfig())
	if err != nil {
		return nil, err
	}

	return a, nil
}

// Handler returns the full middleware-wrapped route tree.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	registerHTTP(mux, a.metrics, a.assets, a.pages)

	var h http.Handler = WithSecurityHeaders(mux)
	h = WithRequestLogging(h, a.log, a.metrics, a.cfg.TrustProxy)
	return WithRequestID(h)
}

// Run starts the HTTP server and the token sweeper, and blocks until context
// cancellation or a fatal server error.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: nonZeroDuration(a.cfg.ReadHeaderTimeout, 5*time.Second),
		ReadTimeout:       nonZeroDuration(a.cfg.ReadTimeout, 15*time.Second),
		WriteTimeout:      nonZeroDuration(a.cfg.WriteTimeout, 30*time.Second),
		IdleTimeout:       nonZeroDuration(a.cfg.IdleTimeout, 60*time.Second),
		MaxHeaderBytes:    nonZeroInt(a.cfg.MaxHeaderBytes, 1<<20),
	}

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.tokens.Run(sweepCtx)
	}()
	defer func() {
		stopSweep()
		wg.Wait()
	}()

	a.log.Info("server.start",
		"addr", a.cfg.HTTPAddr,
		"static_dir", a.cfg.StaticDir,
		"content_dir", a.cfg.ContentDir,
		"token_ttl", a.cfg.TokenTTL.String(),
		"metrics", a.metrics != nil,
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("server.stop", "reason", "context_done")
	case err := <-errCh:
		a.log.Error("server.fail", "err", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), nonZeroDuration(a.cfg.ShutdownTimeout, 10*time.Second))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("server.shutdown.fail", "err", err)
		return err
	}

	a.log.Info("server.stopped")
	return nil
}

// afterSweep runs on the sweeper goroutine after each pass.
func (a *App) afterSweep(evicted int) {
	a.metrics.TokensSwept(evicted)
	if n := a.assets.PruneLimiter(); n > 0 {
		a.log.Debug("assets.limiter.pruned", "keys", n)
	}
}

func nonZeroDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

func nonZeroInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
