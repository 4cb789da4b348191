package sources

import (
	"context"
	"fmt"
	"os"

	"github.com/campusweb/content-server/internal/config"
	"github.com/campusweb/content-server/internal/entity"
	"github.com/campusweb/content-server/internal/record"
)

// fileSourceHandler reads collections from local JSON files
type fileSourceHandler struct {
	validator SourceDataValidator
}

// NewFileSourceHandler creates a new file source handler
func NewFileSourceHandler() SourceHandler {
	return &fileSourceHandler{
		validator: NewSourceDataValidator(),
	}
}

// Validate validates the file source configuration
func (*fileSourceHandler) Validate(res *config.ResourceConfig) error {
	if res == nil {
		return fmt.Errorf("resource configuration cannot be nil")
	}

	if res.File == nil {
		return fmt.Errorf("file configuration is required")
	}

	if res.File.Path == "" {
		return fmt.Errorf("file path cannot be empty")
	}

	return nil
}

// FetchCollection reads and decodes the collection file
func (h *fileSourceHandler) FetchCollection(
	ctx context.Context, res *config.ResourceConfig, schema *entity.Schema,
) (*FetchResult, error) {
	data, hash, err := h.fetchFileData(ctx, res)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch file data: %w", err)
	}

	records, err := h.validator.ValidateData(data, schema)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return NewFetchResult(records, hash, schema), nil
}

func (h *fileSourceHandler) fetchFileData(_ context.Context, res *config.ResourceConfig) ([]byte, string, error) {
	if err := h.Validate(res); err != nil {
		return nil, "", fmt.Errorf("source validation failed: %w", err)
	}

	filePath := res.File.Path

	//nolint:gosec // File path comes from user configuration, this is expected behavior
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("file not found: %s", filePath)
		}
		return nil, "", fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	return data, hashData(data), nil
}

// CurrentHash returns the current hash of the file without decoding it
func (h *fileSourceHandler) CurrentHash(ctx context.Context, res *config.ResourceConfig) (string, error) {
	_, hash, err := h.fetchFileData(ctx, res)
	if err != nil {
		return "", err
	}
	return hash, nil
}

// readOnlyWriter rejects every mutation
type readOnlyWriter struct{}

// NewReadOnlyWriter returns a writer for sources that cannot accept writes
func NewReadOnlyWriter() SourceWriter {
	return readOnlyWriter{}
}

func (readOnlyWriter) Create(context.Context, *config.ResourceConfig, record.Record) (record.Record, error) {
	return nil, ErrReadOnlySource
}

func (readOnlyWriter) Update(context.Context, *config.ResourceConfig, string, record.Record) (record.Record, error) {
	return nil, ErrReadOnlySource
}

func (readOnlyWriter) Delete(context.Context, *config.ResourceConfig, string) error {
	return ErrReadOnlySource
}
