package metrics

import (
	"net/http"
	"strconv"
	"time"

	"skyutilities-dashboard/internal/domain"
	"skyutilities-dashboard/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the dashboard's Prometheus collectors
type Metrics struct {
	HTTPRequests  *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
	ConfigChanges *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates the collectors on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dashboard_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		ConfigChanges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_config_changes_total",
				Help: "Total number of guild configuration saves and clears",
			},
			[]string{"domain", "action"},
		),
		registry: reg,
	}
}

// RegisterDirectory exposes the bot's readiness and cached guild count
func (m *Metrics) RegisterDirectory(directory ports.GuildDirectory) {
	factory := promauto.With(m.registry)
	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "dashboard_bot_ready",
			Help: "1 when the Discord bot session is ready",
		},
		func() float64 {
			if directory.IsReady() {
				return 1
			}
			return 0
		},
	)
	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "dashboard_bot_guilds",
			Help: "Number of guilds in the bot's cache",
		},
		func() float64 { return float64(len(directory.CachedGuilds())) },
	)
}

// ObserveConfigChange counts one configuration event
func (m *Metrics) ObserveConfigChange(event *domain.ConfigChangeEvent) {
	m.ConfigChanges.WithLabelValues(event.Domain, string(event.Action)).Inc()
}

// Middleware records request counts and latency by chi route pattern
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.HTTPDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}
