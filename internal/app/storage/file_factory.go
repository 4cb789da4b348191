package storage

import (
	"context"
	"fmt"
	"os"

	"github.com/campusweb/content-server/internal/config"
	"github.com/campusweb/content-server/internal/logger"
	"github.com/campusweb/content-server/internal/sources"
	"github.com/campusweb/content-server/internal/status"
)

// FileFactory creates file-based storage components.
// Status and cached collections are kept on the local filesystem.
type FileFactory struct {
	config *config.Config

	storageManager    sources.StorageManager
	statusPersistence status.StatusPersistence
}

var _ Factory = (*FileFactory)(nil)

// NewFileFactory creates a new file-based storage factory, ensuring the status
// and cache directories exist
func NewFileFactory(cfg *config.Config) (*FileFactory, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	statusDir := cfg.GetStatusDir()
	if err := os.MkdirAll(statusDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create status directory %s: %w", statusDir, err)
	}
	if cacheDir := cfg.GetCacheDir(); cacheDir != "" {
		if err := os.MkdirAll(cacheDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create cache directory %s: %w", cacheDir, err)
		}
	}

	logger.Infow("Creating file-based storage factory", "status_dir", statusDir, "cache_dir", cfg.GetCacheDir())

	return &FileFactory{
		config:            cfg,
		storageManager:    newStorageManager(cfg),
		statusPersistence: status.NewFileStatusPersistence(statusDir),
	}, nil
}

// CreateStatusPersistence returns the file-based status persistence
func (f *FileFactory) CreateStatusPersistence(_ context.Context) (status.StatusPersistence, error) {
	return f.statusPersistence, nil
}

// CreateStorageManager returns the collection cache
func (f *FileFactory) CreateStorageManager(_ context.Context) (sources.StorageManager, error) {
	return f.storageManager, nil
}

// Cleanup is a no-op for file storage
func (*FileFactory) Cleanup() {
	logger.Debugw("Cleaning up file storage factory (no-op)")
}
