// Package http serves the resolver over HTTP together with health and Prometheus endpoints.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"spoyt/internal/core"
	"spoyt/internal/flood"
	"spoyt/internal/i18n"
)

const shutdownTimeout = 10 * time.Second

// Resolver runs one resolution for raw user input.
type Resolver interface {
	Resolve(ctx context.Context, input string) *core.Result
}

type Server struct {
	config    *core.ServerConfig
	logger    *zap.Logger
	server    *http.Server
	registry  *prometheus.Registry
	metrics   *Metrics
	localizer *i18n.Localizer
	resolver  Resolver
	floodgate *flood.Floodgate
}

type Metrics struct {
	ResolutionsTotal       *prometheus.CounterVec
	LegErrorsTotal         *prometheus.CounterVec
	SelectionsTotal        *prometheus.CounterVec
	ClassificationFailures prometheus.Counter
	ResolutionDuration     *prometheus.HistogramVec
	RateLimitedTotal       prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		ResolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spoyt_resolutions_total",
				Help: "Total number of resolution pipelines run",
			},
			[]string{"input", "status"},
		),
		LegErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spoyt_leg_errors_total",
				Help: "Total number of failed resolution legs",
			},
			[]string{"platform", "leg", "kind"},
		),
		SelectionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spoyt_selection_rule_total",
				Help: "Candidate selections by the rule that matched",
			},
			[]string{"rule"},
		),
		ClassificationFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "spoyt_classification_failures_total",
				Help: "Video candidates left unclassified because the music lookup failed",
			},
		),
		ResolutionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "spoyt_resolution_duration_seconds",
				Help:    "Time spent resolving one input",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"input"},
		),
		RateLimitedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "spoyt_rate_limited_total",
				Help: "Resolve requests rejected by the per-client limit",
			},
		),
	}

	reg.MustRegister(
		metrics.ResolutionsTotal,
		metrics.LegErrorsTotal,
		metrics.SelectionsTotal,
		metrics.ClassificationFailures,
		metrics.ResolutionDuration,
		metrics.RateLimitedTotal,
	)

	return metrics
}

// NewServer creates the HTTP server. Metrics live in a registry owned by the server.
// A positive config.RateLimitPerMinute limits /v1/resolve per client address.
func NewServer(config *core.ServerConfig, localizer *i18n.Localizer, logger *zap.Logger) *Server {
	registry := prometheus.NewRegistry()

	s := &Server{
		config:    config,
		logger:    logger,
		registry:  registry,
		metrics:   newMetrics(registry),
		localizer: localizer,
	}
	if config.RateLimitPerMinute > 0 {
		s.floodgate = flood.New(config.RateLimitPerMinute)
	}
	s.server = createHTTPServer(config, s.setupRoutes())
	return s
}

// SetResolver installs the resolver behind /v1/resolve. Until then /readyz reports not ready.
func (s *Server) SetResolver(resolver Resolver) {
	s.resolver = resolver
}

func createHTTPServer(config *core.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      handler,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}
}

func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok","service":"spoyt"}`))
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		if s.resolver == nil {
			s.writeJSON(w, http.StatusServiceUnavailable, readiness{Status: "starting", Service: "spoyt"})
			return
		}
		s.writeJSON(w, http.StatusOK, readiness{
			Status:    "ready",
			Service:   "spoyt",
			RateLimit: s.floodgate.Stats(),
		})
	})

	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/v1/resolve", s.handleResolve)
	mux.HandleFunc("/", homeHandler(s.logger))

	return mux
}

type readiness struct {
	Status    string      `json:"status"`
	Service   string      `json:"service"`
	RateLimit flood.Stats `json:"rateLimit"`
}

func homeHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(homePage)); err != nil {
			logger.Debug("Failed to write home page", zap.Error(err))
		}
	}
}

const homePage = `<!DOCTYPE html>
<html>
<head>
    <title>Spoyt</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; }
        .header { color: #333; }
        .endpoint { margin: 10px 0; }
        .endpoint a { text-decoration: none; color: #0066cc; }
        .endpoint a:hover { text-decoration: underline; }
    </style>
</head>
<body>
    <h1 class="header">🎵 Spoyt</h1>
    <p>Spotify ⇄ YouTube ⇄ YouTube Music link resolver</p>

    <h2>Endpoints</h2>
    <div class="endpoint">🔎 <a href="/v1/resolve?input=never+gonna+give+you+up">Resolve</a> - /v1/resolve?input=&lt;link or search text&gt;</div>
    <div class="endpoint">📊 <a href="/metrics">Metrics</a> - Prometheus metrics</div>
    <div class="endpoint">💚 <a href="/healthz">Health</a> - Health check</div>
    <div class="endpoint">✅ <a href="/readyz">Ready</a> - Readiness check</div>
</body>
</html>`

func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting HTTP server",
		zap.String("addr", s.server.Addr))

	go func() {
		<-ctx.Done()
		s.logger.Info("Shutting down HTTP server")
		if s.floodgate != nil {
			s.floodgate.Stop()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Failed to shutdown HTTP server gracefully", zap.Error(err))
		}
	}()

	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

func (s *Server) GetMetrics() *Metrics {
	return s.metrics
}

func (s *Server) RecordResolution(inputKind string, primaryOK bool, duration time.Duration) {
	status := "ok"
	if !primaryOK {
		status = "failed"
	}
	s.metrics.ResolutionsTotal.WithLabelValues(inputKind, status).Inc()
	s.metrics.ResolutionDuration.WithLabelValues(inputKind).Observe(duration.Seconds())
}

func (s *Server) RecordLegError(platform, leg, kind string) {
	s.metrics.LegErrorsTotal.WithLabelValues(platform, leg, kind).Inc()
}

func (s *Server) RecordSelection(rule string) {
	s.metrics.SelectionsTotal.WithLabelValues(rule).Inc()
}

func (s *Server) RecordClassificationFailure() {
	s.metrics.ClassificationFailures.Inc()
}
