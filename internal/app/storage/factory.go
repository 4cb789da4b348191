// Package storage creates the persistence components of the server as a family:
// where sync status is kept and where the last good collections are cached.
package storage

import (
	"context"
	"fmt"

	"github.com/campusweb/content-server/internal/config"
	"github.com/campusweb/content-server/internal/sources"
	"github.com/campusweb/content-server/internal/status"
)

// Factory creates storage-dependent components.
// It also owns the lifecycle of storage resources such as Redis connections.
type Factory interface {
	// CreateStatusPersistence creates the store for per-resource sync status
	CreateStatusPersistence(ctx context.Context) (status.StatusPersistence, error)

	// CreateStorageManager creates the cache of last good collections.
	// A disabled cache yields a manager that stores nothing.
	CreateStorageManager(ctx context.Context) (sources.StorageManager, error)

	// Cleanup releases any resources held by this factory.
	// Should be called when the application shuts down.
	Cleanup()
}

// NewStorageFactory creates a storage factory based on the configured status type
func NewStorageFactory(ctx context.Context, cfg *config.Config) (Factory, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	switch cfg.GetStatusType() {
	case config.StatusTypeRedis:
		return NewRedisFactory(ctx, cfg)
	case config.StatusTypeFile:
		return NewFileFactory(cfg)
	default:
		return nil, fmt.Errorf("unknown status type: %s", cfg.GetStatusType())
	}
}

// newStorageManager returns the file cache rooted at the configured cache
// directory, or a no-op manager when caching is disabled
func newStorageManager(cfg *config.Config) sources.StorageManager {
	if dir := cfg.GetCacheDir(); dir != "" {
		return sources.NewFileStorageManager(dir)
	}
	return sources.NewNoopStorageManager()
}
