package app

import (
	"context"
	"fmt"
	"net/http"
	"net/netip"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/campusweb/content-server/internal/api"
	"github.com/campusweb/content-server/internal/app/storage"
	"github.com/campusweb/content-server/internal/config"
	"github.com/campusweb/content-server/internal/entity"
	"github.com/campusweb/content-server/internal/logger"
	"github.com/campusweb/content-server/internal/otel"
	"github.com/campusweb/content-server/internal/service"
	"github.com/campusweb/content-server/internal/service/inmemory"
	"github.com/campusweb/content-server/internal/sources"
	"github.com/campusweb/content-server/internal/store"
	pkgsync "github.com/campusweb/content-server/internal/sync"
	"github.com/campusweb/content-server/internal/sync/coordinator"
	"github.com/campusweb/content-server/internal/telemetry"
)

const (
	defaultRequestTimeout = 10 * time.Second
	defaultReadTimeout    = 10 * time.Second
	defaultWriteTimeout   = 15 * time.Second
	defaultIdleTimeout    = 60 * time.Second
)

// ContentAppOptions is a function that configures the content app builder
type ContentAppOptions func(*contentAppConfig) error

// contentAppConfig collects the builder inputs. Component overrides exist
// primarily for testing; nil overrides are built from the configuration.
type contentAppConfig struct {
	config *config.Config

	// Optional component overrides
	sourceHandlerFactory sources.SourceHandlerFactory
	syncManager          pkgsync.Manager
	storageFactory       storage.Factory
	store                store.Store

	// HTTP server options
	address        string
	middlewares    []func(http.Handler) http.Handler
	requestTimeout time.Duration
	readTimeout    time.Duration
	writeTimeout   time.Duration
	idleTimeout    time.Duration
	disableAdmin   bool

	// Telemetry components
	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
	metricsHandler http.Handler

	// Built along the way
	catalogue      *entity.Catalogue
	contentMetrics *telemetry.ContentMetrics
}

func baseConfig(opts ...ContentAppOptions) (*contentAppConfig, error) {
	cfg := &contentAppConfig{
		requestTimeout: defaultRequestTimeout,
		readTimeout:    defaultReadTimeout,
		writeTimeout:   defaultWriteTimeout,
		idleTimeout:    defaultIdleTimeout,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.address == "" {
		cfg.address = cfg.config.GetAddress()
	}

	return cfg, nil
}

// NewContentApp wires every component of the content server
func NewContentApp(
	ctx context.Context,
	opts ...ContentAppOptions,
) (*ContentApp, error) {
	cfg, err := baseConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build base configuration: %w", err)
	}

	cfg.catalogue, err = InitializeCatalogue(cfg.config)
	if err != nil {
		return nil, err
	}

	if cfg.storageFactory == nil {
		cfg.storageFactory, err = storage.NewStorageFactory(ctx, cfg.config)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage factory: %w", err)
		}
	}

	// Ensure cleanup happens on error
	var cleanupNeeded = true
	defer func() {
		if cleanupNeeded && cfg.storageFactory != nil {
			cfg.storageFactory.Cleanup()
		}
	}()

	if cfg.store == nil {
		cfg.store = store.NewMemoryStore()
	}
	if cfg.sourceHandlerFactory == nil {
		cfg.sourceHandlerFactory = sources.NewSourceHandlerFactory(cfg.config)
	}

	syncCoordinator, err := buildSyncComponents(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build sync components: %w", err)
	}

	contentService, err := buildServiceComponents(ctx, cfg, syncCoordinator)
	if err != nil {
		return nil, fmt.Errorf("failed to build service components: %w", err)
	}

	httpServer, err := buildHTTPServer(ctx, cfg, contentService)
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP server: %w", err)
	}

	appCtx, cancel := context.WithCancel(ctx)

	// Cleanup is now handled by the app
	cleanupNeeded = false
	storageFactory := cfg.storageFactory
	cancelFunc := func() {
		storageFactory.Cleanup()
		cancel()
	}

	return &ContentApp{
		config: cfg.config,
		components: &AppComponents{
			SyncCoordinator: syncCoordinator,
			ContentService:  contentService,
			Catalogue:       cfg.catalogue,
			Store:           cfg.store,
		},
		httpServer: httpServer,
		ctx:        appCtx,
		cancelFunc: cancelFunc,
	}, nil
}

// WithConfig sets the configuration
func WithConfig(c *config.Config) ContentAppOptions {
	return func(cfg *contentAppConfig) error {
		cfg.config = c
		return nil
	}
}

// WithAddress sets the HTTP server address, overriding the configured one
func WithAddress(addr string) ContentAppOptions {
	return func(cfg *contentAppConfig) error {
		if addr == "" {
			return fmt.Errorf("address cannot be empty")
		}

		host, port, found := strings.Cut(addr, ":")
		if !found || port == "" {
			return fmt.Errorf("address is not a valid port: %s", addr)
		}
		if host == "localhost" {
			host = "127.0.0.1"
		}
		if host == "" {
			host = "0.0.0.0"
		}

		if _, err := netip.ParseAddrPort(host + ":" + port); err != nil {
			return fmt.Errorf("address is not a valid port: %w", err)
		}

		cfg.address = addr
		return nil
	}
}

// WithMiddlewares replaces the default HTTP middlewares
func WithMiddlewares(mw ...func(http.Handler) http.Handler) ContentAppOptions {
	return func(cfg *contentAppConfig) error {
		cfg.middlewares = mw
		return nil
	}
}

// WithRequestTimeout bounds the time a handler may take
func WithRequestTimeout(d time.Duration) ContentAppOptions {
	return func(cfg *contentAppConfig) error {
		if d <= 0 {
			return fmt.Errorf("request timeout must be positive")
		}
		cfg.requestTimeout = d
		if cfg.writeTimeout <= d {
			cfg.writeTimeout = d + 5*time.Second
		}
		return nil
	}
}

// WithoutAdminAPI leaves the admin routes unmounted
func WithoutAdminAPI() ContentAppOptions {
	return func(cfg *contentAppConfig) error {
		cfg.disableAdmin = true
		return nil
	}
}

// WithSourceHandlerFactory allows injecting a custom source handler factory (for testing)
func WithSourceHandlerFactory(f sources.SourceHandlerFactory) ContentAppOptions {
	return func(cfg *contentAppConfig) error {
		cfg.sourceHandlerFactory = f
		return nil
	}
}

// WithStorageFactory allows injecting a custom storage factory (for testing)
func WithStorageFactory(f storage.Factory) ContentAppOptions {
	return func(cfg *contentAppConfig) error {
		cfg.storageFactory = f
		return nil
	}
}

// WithSyncManager allows injecting a custom sync manager (for testing)
func WithSyncManager(sm pkgsync.Manager) ContentAppOptions {
	return func(cfg *contentAppConfig) error {
		cfg.syncManager = sm
		return nil
	}
}

// WithStore allows injecting a pre-populated snapshot store (for testing)
func WithStore(st store.Store) ContentAppOptions {
	return func(cfg *contentAppConfig) error {
		cfg.store = st
		return nil
	}
}

// WithTelemetry wires metrics, tracing and the /metrics endpoint from t
func WithTelemetry(t *telemetry.Telemetry) ContentAppOptions {
	return func(cfg *contentAppConfig) error {
		if t == nil {
			return nil
		}
		cfg.meterProvider = t.MeterProvider()
		cfg.tracerProvider = t.TracerProvider()
		cfg.metricsHandler = t.MetricsHandler()
		return nil
	}
}

// WithMeterProvider sets the OpenTelemetry meter provider for HTTP, sync and content metrics
func WithMeterProvider(mp metric.MeterProvider) ContentAppOptions {
	return func(cfg *contentAppConfig) error {
		cfg.meterProvider = mp
		return nil
	}
}

// buildSyncComponents builds the sync manager and coordinator
func buildSyncComponents(
	ctx context.Context,
	b *contentAppConfig,
) (coordinator.Coordinator, error) {
	logger.Info("Initializing sync components")

	statusPersistence, err := b.storageFactory.CreateStatusPersistence(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create status persistence: %w", err)
	}

	if b.syncManager == nil {
		storageManager, err := b.storageFactory.CreateStorageManager(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage manager: %w", err)
		}
		b.syncManager = pkgsync.NewDefaultSyncManager(
			b.config,
			b.catalogue,
			b.sourceHandlerFactory,
			storageManager,
			b.store,
		)
	}

	var coordOpts []coordinator.Option

	if b.meterProvider != nil {
		syncMetrics, err := telemetry.NewSyncMetrics(b.meterProvider)
		if err != nil {
			return nil, fmt.Errorf("failed to create sync metrics: %w", err)
		}
		if syncMetrics != nil {
			coordOpts = append(coordOpts, coordinator.WithSyncMetrics(syncMetrics))
			logger.Info("Sync metrics enabled")
		}

		b.contentMetrics, err = telemetry.NewContentMetrics(b.meterProvider)
		if err != nil {
			return nil, fmt.Errorf("failed to create content metrics: %w", err)
		}
		if b.contentMetrics != nil {
			coordOpts = append(coordOpts, coordinator.WithContentMetrics(b.contentMetrics))
			logger.Info("Content metrics enabled")
		}
	}

	if tracer := otel.Tracer(b.tracerProvider); tracer != nil {
		coordOpts = append(coordOpts, coordinator.WithTracer(tracer))
	}

	syncCoordinator := coordinator.New(b.syncManager, statusPersistence, b.config, coordOpts...)
	logger.Info("Sync components initialized successfully")

	return syncCoordinator, nil
}

// buildServiceComponents builds the content service over the shared store.
// The coordinator doubles as the service's sync controller so mutations can
// request a refetch.
//
//nolint:unparam // we prefer having a similar interface
func buildServiceComponents(
	_ context.Context,
	b *contentAppConfig,
	controller service.SyncController,
) (service.ContentService, error) {
	logger.Info("Initializing service components")

	opts := []inmemory.Option{inmemory.WithSyncController(controller)}
	if b.contentMetrics != nil {
		opts = append(opts, inmemory.WithContentMetrics(b.contentMetrics))
	}
	if tracer := otel.Tracer(b.tracerProvider); tracer != nil {
		opts = append(opts, inmemory.WithTracer(tracer))
	}

	svc, err := inmemory.New(b.config, b.catalogue, b.store, b.sourceHandlerFactory, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create content service: %w", err)
	}

	logger.Info("Service components initialized successfully")
	return svc, nil
}

// buildHTTPServer builds the HTTP server with router and middleware
//
//nolint:unparam // we prefer having a similar interface
func buildHTTPServer(
	_ context.Context,
	b *contentAppConfig,
	svc service.ContentService,
) (*http.Server, error) {
	logger.Info("Initializing HTTP server")

	middlewares := b.middlewares
	if middlewares == nil {
		middlewares = []func(http.Handler) http.Handler{
			middleware.RequestID,
			middleware.RealIP,
			middleware.Recoverer,
			middleware.Timeout(b.requestTimeout),
			api.LoggingMiddleware,
		}
	}

	// Metrics and tracing wrap everything else so rejected requests are observed too
	if b.tracerProvider != nil {
		middlewares = append([]func(http.Handler) http.Handler{telemetry.TracingMiddleware(b.tracerProvider)}, middlewares...)
	}
	if b.meterProvider != nil {
		var resources []string
		if b.config != nil {
			resources = b.config.ResourceNames()
		}
		metricsMiddleware, err := telemetry.MetricsMiddleware(b.meterProvider, resources)
		if err != nil {
			return nil, fmt.Errorf("failed to create metrics middleware: %w", err)
		}
		if metricsMiddleware != nil {
			middlewares = append([]func(http.Handler) http.Handler{metricsMiddleware}, middlewares...)
			logger.Info("HTTP metrics middleware enabled")
		}
	}

	serverOpts := []api.ServerOption{api.WithMiddlewares(middlewares...)}
	if b.metricsHandler != nil {
		serverOpts = append(serverOpts, api.WithMetricsHandler(b.metricsHandler))
	}
	if b.disableAdmin {
		serverOpts = append(serverOpts, api.WithoutAdmin())
	}

	router := api.NewServer(svc, serverOpts...)

	server := &http.Server{
		Addr:         b.address,
		Handler:      router,
		ReadTimeout:  b.readTimeout,
		WriteTimeout: b.writeTimeout,
		IdleTimeout:  b.idleTimeout,
	}

	logger.Infow("HTTP server configured", "address", b.address)
	return server, nil
}
