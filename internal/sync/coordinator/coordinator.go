package coordinator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/campusweb/content-server/internal/config"
	"github.com/campusweb/content-server/internal/logger"
	"github.com/campusweb/content-server/internal/status"
	pkgsync "github.com/campusweb/content-server/internal/sync"
	"github.com/campusweb/content-server/internal/telemetry"
)

// Coordinator manages background synchronization scheduling and execution for every resource
type Coordinator interface {
	// Start loads persisted status, runs the initial sync of every resource and
	// then runs one sync loop per resource.
	// Blocks until context is cancelled or Stop is called.
	Start(ctx context.Context) error

	// Stop gracefully stops the coordinator and all resource sync loops
	Stop() error

	// Trigger requests an out-of-schedule sync of a resource. Requests made while
	// one is already pending coalesce into it. Returns false for unknown resources.
	Trigger(resource string) bool

	// Status returns a copy of the current sync status of a resource
	Status(resource string) (*status.SyncStatus, bool)
}

// defaultCoordinator is the default implementation of Coordinator
type defaultCoordinator struct {
	manager           pkgsync.Manager
	statusPersistence status.StatusPersistence
	config            *config.Config

	mu       sync.RWMutex
	statuses map[string]*status.SyncStatus
	triggers map[string]chan struct{}

	// Lifecycle management
	cancelFunc context.CancelFunc
	done       chan struct{}

	initialSyncConcurrency int

	// Metrics
	syncMetrics    *telemetry.SyncMetrics
	contentMetrics *telemetry.ContentMetrics
	tracer         trace.Tracer
}

// Option is a function that configures the coordinator
type Option func(*defaultCoordinator)

// WithSyncMetrics sets the sync metrics for the coordinator
func WithSyncMetrics(metrics *telemetry.SyncMetrics) Option {
	return func(c *defaultCoordinator) {
		c.syncMetrics = metrics
	}
}

// WithContentMetrics sets the collection metrics for the coordinator
func WithContentMetrics(metrics *telemetry.ContentMetrics) Option {
	return func(c *defaultCoordinator) {
		c.contentMetrics = metrics
	}
}

// WithTracer opens a span around every sync operation
func WithTracer(tracer trace.Tracer) Option {
	return func(c *defaultCoordinator) {
		c.tracer = tracer
	}
}

// WithInitialSyncConcurrency limits how many resources are fetched at once on startup
func WithInitialSyncConcurrency(n int) Option {
	return func(c *defaultCoordinator) {
		if n > 0 {
			c.initialSyncConcurrency = n
		}
	}
}

// New creates a new coordinator with injected dependencies
func New(
	manager pkgsync.Manager,
	statusPersistence status.StatusPersistence,
	cfg *config.Config,
	opts ...Option,
) Coordinator {
	c := &defaultCoordinator{
		manager:                manager,
		statusPersistence:      statusPersistence,
		config:                 cfg,
		statuses:               make(map[string]*status.SyncStatus, len(cfg.Resources)),
		triggers:               make(map[string]chan struct{}, len(cfg.Resources)),
		done:                   make(chan struct{}),
		initialSyncConcurrency: defaultInitialSyncConcurrency,
	}

	for _, res := range cfg.Resources {
		c.triggers[res.Name] = make(chan struct{}, 1)
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Start begins background sync coordination for all resources
func (c *defaultCoordinator) Start(ctx context.Context) error {
	logger.Infof("Starting background sync coordinator for %d resources", len(c.config.Resources))

	coordCtx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.cancelFunc = cancel
	c.mu.Unlock()
	defer func() {
		cancel()
		close(c.done)
		logger.Info("Background sync coordinator shutting down")
	}()

	if err := c.loadStatuses(coordCtx); err != nil {
		return fmt.Errorf("failed to initialize sync status: %w", err)
	}

	c.restoreCollections(coordCtx)

	g, gctx := errgroup.WithContext(coordCtx)
	g.SetLimit(c.initialSyncConcurrency)
	for i := range c.config.Resources {
		res := &c.config.Resources[i]
		g.Go(func() error {
			c.checkResourceSync(gctx, res, "initial", false)
			return nil
		})
	}
	_ = g.Wait()

	var wg sync.WaitGroup
	for i := range c.config.Resources {
		res := &c.config.Resources[i]
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.runResourceSync(coordCtx, res)
		}()
	}

	<-coordCtx.Done()
	wg.Wait()
	logger.Info("Sync coordinator stopping")
	return nil
}

// Stop gracefully stops the coordinator
func (c *defaultCoordinator) Stop() error {
	c.mu.RLock()
	cancel := c.cancelFunc
	c.mu.RUnlock()

	if cancel != nil {
		logger.Info("Stopping sync coordinator")
		cancel()
		<-c.done
	}
	return nil
}

// Trigger queues a manual sync for a resource
func (c *defaultCoordinator) Trigger(resource string) bool {
	ch, ok := c.triggers[resource]
	if !ok {
		return false
	}
	select {
	case ch <- struct{}{}:
		logger.Debugf("Resource '%s': manual sync queued", resource)
	default:
		logger.Debugf("Resource '%s': manual sync already pending", resource)
	}
	return true
}

// Status returns a copy of a resource's sync status
func (c *defaultCoordinator) Status(resource string) (*status.SyncStatus, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	st, ok := c.statuses[resource]
	if !ok {
		return nil, false
	}
	cp := *st
	return &cp, true
}

// runResourceSync runs the periodic and manual sync loop of one resource
func (c *defaultCoordinator) runResourceSync(ctx context.Context, res *config.ResourceConfig) {
	interval := loopInterval(c.config, res)
	logger.Infof("Resource '%s': sync loop started, interval %s", res.Name, interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	trigger := c.triggers[res.Name]
	for {
		select {
		case <-ticker.C:
			c.checkResourceSync(ctx, res, "periodic", false)
		case <-trigger:
			c.checkResourceSync(ctx, res, "manual", true)
		case <-ctx.Done():
			return
		}
	}
}

// loadStatuses loads persisted status for every configured resource.
// A resource left in the Syncing phase by an interrupted process is marked failed.
func (c *defaultCoordinator) loadStatuses(ctx context.Context) error {
	persisted, err := c.statusPersistence.LoadAllStatus(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.config.Resources {
		res := &c.config.Resources[i]
		st, ok := persisted[res.Name]
		if !ok || st == nil {
			st = &status.SyncStatus{}
		}
		if st.Phase == status.SyncPhaseSyncing {
			st.Phase = status.SyncPhaseFailed
			st.Message = "Previous sync was interrupted"
		}
		st.SyncSchedule = c.config.GetSyncInterval(res).String()
		c.statuses[res.Name] = st
	}
	return nil
}

// restoreCollections publishes cached collections so resources are served before the first fetch completes
func (c *defaultCoordinator) restoreCollections(ctx context.Context) {
	for i := range c.config.Resources {
		res := &c.config.Resources[i]
		if _, err := c.manager.Restore(ctx, res); err != nil {
			logger.Warnf("Resource '%s': %v", res.Name, err)
		}
	}
}
