// Package metrics exposes Prometheus collectors for the portfolio server.
//
// All recording methods are safe on a nil *Metrics so callers can run with
// metrics disabled without branching.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "portfolio"

// Metrics owns a private registry and the server's collectors.
type Metrics struct {
	registry *prometheus.Registry

	authAttempts  *prometheus.CounterVec
	assetRequests *prometheus.CounterVec
	tokensSwept   prometheus.Counter
	httpRequests  *prometheus.CounterVec
}

// New registers all collectors plus the Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		authAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assets",
			Name:      "auth_attempts_total",
			Help:      "Password attempts against the asset auth endpoint, by result.",
		}, []string{"result"}),
		assetRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assets",
			Name:      "protected_requests_total",
			Help:      "Protected asset fetches, by result.",
		}, []string{"result"}),
		tokensSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tokens",
			Name:      "swept_total",
			Help:      "Expired tokens evicted by the periodic sweep.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests, by method and status class.",
		}, []string{"method", "class"}),
	}

	reg.MustRegister(
		m.authAttempts,
		m.assetRequests,
		m.tokensSwept,
		m.httpRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// RegisterLiveTokens exports fn as the live token gauge.
func (m *Metrics) RegisterLiveTokens(fn func() int) {
	if m == nil || fn == nil {
		return
	}
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "tokens",
		Name:      "live",
		Help:      "Tokens currently held in memory.",
	}, func() float64 { return float64(fn()) }))
}

// AuthAttempt records one auth endpoint outcome.
func (m *Metrics) AuthAttempt(result string) {
	if m == nil {
		return
	}
	m.authAttempts.WithLabelValues(result).Inc()
}

// AssetRequest records one protected fetch outcome.
func (m *Metrics) AssetRequest(result string) {
	if m == nil {
		return
	}
	m.assetRequests.WithLabelValues(result).Inc()
}

// TokensSwept adds n evictions.
func (m *Metrics) TokensSwept(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.tokensSwept.Add(float64(n))
}

// HTTPRequest records one served request.
func (m *Metrics) HTTPRequest(method string, status int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, statusClass(status)).Inc()
}

// Handler serves the exposition format for this registry.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func statusClass(status int) string {
	if status < 100 || status > 599 {
		return "other"
	}
	return strconv.Itoa(status/100) + "xx"
}
