package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/campusweb/content-server/internal/record"
)

// ErrNotStored is returned by Get when no collection has been stored for a resource
var ErrNotStored = errors.New("collection not stored")

//go:generate mockgen -destination=mocks/mock_storage_manager.go -package=mocks -source=storage_manager.go StorageManager

// StorageManager defines the interface for persisting the last good collection of a resource
type StorageManager interface {
	// Store saves a collection to persistent storage
	Store(ctx context.Context, resource string, records []record.Record) error

	// Get retrieves a stored collection
	Get(ctx context.Context, resource string) ([]record.Record, error)

	// Delete removes a stored collection
	Delete(ctx context.Context, resource string) error
}

// fileStorageManager implements StorageManager using local filesystem
type fileStorageManager struct {
	basePath string
}

// NewFileStorageManager creates a new file-based storage manager
func NewFileStorageManager(basePath string) StorageManager {
	return &fileStorageManager{
		basePath: basePath,
	}
}

func (f *fileStorageManager) path(resource string) string {
	return filepath.Join(f.basePath, resource+".json")
}

// Store saves the collection to a JSON file
func (f *fileStorageManager) Store(_ context.Context, resource string, records []record.Record) error {
	if err := os.MkdirAll(f.basePath, 0750); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}

	if records == nil {
		records = []record.Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal collection: %w", err)
	}

	filePath := f.path(resource)

	// Write to temporary file first for atomic operation
	tempPath := filePath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary collection file: %w", err)
	}

	if err := os.Rename(tempPath, filePath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename collection file: %w", err)
	}

	return nil
}

// Get retrieves and decodes the stored collection
func (f *fileStorageManager) Get(_ context.Context, resource string) ([]record.Record, error) {
	//nolint:gosec // File path is internally managed by StorageManager, not user input
	data, err := os.ReadFile(f.path(resource))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotStored
		}
		return nil, fmt.Errorf("failed to read collection file: %w", err)
	}

	return record.DecodeList(data)
}

// Delete removes the stored collection file
func (f *fileStorageManager) Delete(_ context.Context, resource string) error {
	if err := os.Remove(f.path(resource)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete collection file: %w", err)
	}
	return nil
}

// noopStorageManager stores nothing
type noopStorageManager struct{}

// NewNoopStorageManager returns a StorageManager that never persists anything
func NewNoopStorageManager() StorageManager {
	return noopStorageManager{}
}

func (noopStorageManager) Store(context.Context, string, []record.Record) error { return nil }

func (noopStorageManager) Get(context.Context, string) ([]record.Record, error) {
	return nil, ErrNotStored
}

func (noopStorageManager) Delete(context.Context, string) error { return nil }
