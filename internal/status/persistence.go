// Package status provides sync status tracking and persistence for served resources.
package status

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/campusweb/content-server/internal/logger"
)

//go:generate mockgen -destination=mocks/mock_status_persistence.go -package=mocks -source=persistence.go StatusPersistence

const (
	// StatusFileName is the name of the status file
	StatusFileName = "status.json"
)

// StatusPersistence defines the interface for sync status persistence
//
//nolint:revive // This name is fine
type StatusPersistence interface {
	// SaveStatus saves the sync status of a resource
	SaveStatus(ctx context.Context, resource string, status *SyncStatus) error

	// LoadStatus loads the sync status of a resource.
	// Returns an empty SyncStatus if none was saved yet (first run)
	LoadStatus(ctx context.Context, resource string) (*SyncStatus, error)

	// LoadAllStatus loads the sync status of every resource with a saved status
	LoadAllStatus(ctx context.Context) (map[string]*SyncStatus, error)
}

// fileStatusPersistence implements StatusPersistence using local filesystem
type fileStatusPersistence struct {
	basePath string
}

// NewFileStatusPersistence creates a new file-based status persistence.
// basePath is the base directory where per-resource status files will be stored
func NewFileStatusPersistence(basePath string) StatusPersistence {
	return &fileStatusPersistence{
		basePath: basePath,
	}
}

// SaveStatus saves the sync status to a JSON file in a resource-specific directory
func (f *fileStatusPersistence) SaveStatus(_ context.Context, resource string, status *SyncStatus) error {
	resourceDir := filepath.Join(f.basePath, resource)
	if err := os.MkdirAll(resourceDir, 0750); err != nil {
		return fmt.Errorf("failed to create status directory for resource '%s': %w", resource, err)
	}

	filePath := filepath.Join(resourceDir, StatusFileName)

	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal status data for resource '%s': %w", resource, err)
	}

	// Write to temporary file first for atomic operation
	tempPath := filePath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary status file for resource '%s': %w", resource, err)
	}

	if err := os.Rename(tempPath, filePath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename status file for resource '%s': %w", resource, err)
	}

	return nil
}

// LoadStatus loads the sync status from the resource's JSON file
func (f *fileStatusPersistence) LoadStatus(_ context.Context, resource string) (*SyncStatus, error) {
	filePath := filepath.Join(f.basePath, resource, StatusFileName)

	// #nosec G304 -- filePath is built from basePath and a validated resource name
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &SyncStatus{}, nil
		}
		return nil, fmt.Errorf("failed to read status file for resource '%s': %w", resource, err)
	}

	var status SyncStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("failed to unmarshal status data for resource '%s': %w", resource, err)
	}

	return &status, nil
}

// LoadAllStatus loads the status of every resource directory under the base path.
// Unreadable entries are skipped so one corrupt file does not hide the others.
func (f *fileStatusPersistence) LoadAllStatus(ctx context.Context) (map[string]*SyncStatus, error) {
	result := make(map[string]*SyncStatus)

	entries, err := os.ReadDir(f.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		return nil, fmt.Errorf("failed to read status directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		resource := entry.Name()
		status, err := f.LoadStatus(ctx, resource)
		if err != nil {
			logger.Warnf("Skipping status for resource %s: %v", resource, err)
			continue
		}

		result[resource] = status
	}

	return result, nil
}
