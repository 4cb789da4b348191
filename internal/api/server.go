// Package api provides the HTTP server for the school content API.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/campusweb/content-server/internal/api/admin"
	"github.com/campusweb/content-server/internal/api/common"
	"github.com/campusweb/content-server/internal/api/health"
	v1 "github.com/campusweb/content-server/internal/api/v1"
	"github.com/campusweb/content-server/internal/logger"
	"github.com/campusweb/content-server/internal/service"
)

const (
	// PublicPrefix is where the public content API is mounted
	PublicPrefix = "/api/v1"
	// AdminPrefix is where the admin API is mounted
	AdminPrefix = "/admin/v1"
)

// ServerOption configures the content API server
type ServerOption func(*serverConfig)

// serverConfig holds the server configuration
type serverConfig struct {
	middlewares    []func(http.Handler) http.Handler
	metricsHandler http.Handler
	disableAdmin   bool
}

// WithMiddlewares adds middleware to the server
func WithMiddlewares(mw ...func(http.Handler) http.Handler) ServerOption {
	return func(cfg *serverConfig) {
		cfg.middlewares = append(cfg.middlewares, mw...)
	}
}

// WithMetricsHandler serves h at /metrics
func WithMetricsHandler(h http.Handler) ServerOption {
	return func(cfg *serverConfig) {
		cfg.metricsHandler = h
	}
}

// WithoutAdmin leaves the admin API unmounted, for deployments that expose the
// server publicly and manage content elsewhere
func WithoutAdmin() ServerOption {
	return func(cfg *serverConfig) {
		cfg.disableAdmin = true
	}
}

// NewServer creates and configures the HTTP router with the given service and options
func NewServer(svc service.ContentService, opts ...ServerOption) *chi.Mux {
	cfg := &serverConfig{
		middlewares: []func(http.Handler) http.Handler{},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	r := chi.NewRouter()

	for _, mw := range cfg.middlewares {
		r.Use(mw)
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		common.WriteErrorResponse(w, "not found", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		common.WriteErrorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
	})

	// Health check routes live at the root
	r.Mount("/", health.Router(svc))

	if cfg.metricsHandler != nil {
		r.Handle("/metrics", cfg.metricsHandler)
	}

	r.Mount(PublicPrefix, v1.Router(svc))
	if !cfg.disableAdmin {
		r.Mount(AdminPrefix, admin.Router(svc))
	}

	return r
}

// LoggingMiddleware logs HTTP requests
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		logger.Debugf("HTTP %s %s %d %s %s",
			r.Method,
			r.URL.Path,
			ww.Status(),
			time.Since(start),
			middleware.GetReqID(r.Context()),
		)
	})
}
