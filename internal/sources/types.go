package sources

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/campusweb/content-server/internal/config"
	"github.com/campusweb/content-server/internal/entity"
	"github.com/campusweb/content-server/internal/record"
)

// ErrReadOnlySource is returned when a write is attempted against a source that cannot accept writes
var ErrReadOnlySource = errors.New("source is read-only")

// SourceDataValidator is an interface for validating fetched collection data
type SourceDataValidator interface {
	// ValidateData decodes raw data into records and checks every record has a unique identity
	ValidateData(data []byte, schema *entity.Schema) ([]record.Record, error)
}

//go:generate mockgen -destination=mocks/mock_source_handler.go -package=mocks -source=types.go SourceHandler,SourceHandlerFactory,SourceWriter

// SourceHandler is an interface with methods to fetch a collection from an external data source
type SourceHandler interface {
	// FetchCollection retrieves the full collection for a resource
	FetchCollection(ctx context.Context, res *config.ResourceConfig, schema *entity.Schema) (*FetchResult, error)

	// Validate validates the resource source configuration
	Validate(res *config.ResourceConfig) error

	// CurrentHash returns the current hash of the source data without decoding it
	CurrentHash(ctx context.Context, res *config.ResourceConfig) (string, error)
}

// SourceWriter forwards record mutations to the system of record
type SourceWriter interface {
	// Create stores a new record and returns the record as persisted
	Create(ctx context.Context, res *config.ResourceConfig, rec record.Record) (record.Record, error)

	// Update replaces the record with the given id and returns the record as persisted
	Update(ctx context.Context, res *config.ResourceConfig, id string, rec record.Record) (record.Record, error)

	// Delete removes the record with the given id
	Delete(ctx context.Context, res *config.ResourceConfig, id string) error
}

// FetchResult contains the result of a fetch operation
type FetchResult struct {
	// Records is the decoded collection in source order
	Records []record.Record

	// Hash is the SHA256 hash of the raw collection data for change detection
	Hash string

	// RecordCount is the number of records in the collection
	RecordCount int

	// ActiveCount is the number of publicly visible records
	ActiveCount int
}

// NewFetchResult creates a new FetchResult from decoded records and a pre-calculated hash.
// The hash should be calculated by the source handler to ensure consistency with CurrentHash
func NewFetchResult(records []record.Record, hash string, schema *entity.Schema) *FetchResult {
	active := 0
	for _, rec := range records {
		if schema.IsActive(rec) {
			active++
		}
	}
	return &FetchResult{
		Records:     records,
		Hash:        hash,
		RecordCount: len(records),
		ActiveCount: active,
	}
}

// SourceHandlerFactory creates source handlers based on source type
type SourceHandlerFactory interface {
	// CreateHandler creates a source handler for the given source type
	CreateHandler(sourceType string) (SourceHandler, error)

	// CreateWriter creates a writer for the given source type
	CreateWriter(sourceType string) (SourceWriter, error)
}

// DefaultSourceDataValidator is the default implementation of SourceDataValidator
type DefaultSourceDataValidator struct{}

// NewSourceDataValidator creates a new default source validator
func NewSourceDataValidator() SourceDataValidator {
	return &DefaultSourceDataValidator{}
}

// ValidateData decodes a JSON array of objects. Every record needs a non-empty identity,
// and identities must be unique within the collection. An empty array is valid.
func (*DefaultSourceDataValidator) ValidateData(data []byte, schema *entity.Schema) ([]record.Record, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("data cannot be empty")
	}

	records, err := record.DecodeList(data)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]int, len(records))
	for i, rec := range records {
		if rec == nil {
			return nil, fmt.Errorf("record at index %d: must be a JSON object", i)
		}
		id, ok := schema.ID(rec)
		if !ok {
			return nil, fmt.Errorf("record at index %d: %s is required", i, schema.IDField)
		}
		if prev, dup := seen[id]; dup {
			return nil, fmt.Errorf("record at index %d: duplicate %s %q (first seen at index %d)", i, schema.IDField, id, prev)
		}
		seen[id] = i
	}

	return records, nil
}

func hashData(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}
