package app

import (
	"net/http"

	assetsapi "portfolio/cmd/internal/assets/api"
	"portfolio/cmd/internal/content"
	"portfolio/cmd/internal/metrics"
)

func registerHTTP(
	mux *http.ServeMux,
	m *metrics.Metrics,
	assets *assetsapi.Handler,
	pages *content.Handler,
) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	if m != nil {
		mux.Handle("GET /metrics", m.Handler())
	}

	assets.Register(mux)

	// Registers the "/" catch-all; more specific patterns above still win.
	pages.Register(mux)
}
