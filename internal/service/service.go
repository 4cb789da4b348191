// Package service provides the business logic behind the content API
package service

import (
	"context"
	"errors"
	"time"

	"github.com/campusweb/content-server/internal/record"
	"github.com/campusweb/content-server/internal/sources"
	"github.com/campusweb/content-server/internal/status"
)

var (
	// ErrResourceNotFound is returned for unknown resources and for resources not readable at the requested visibility
	ErrResourceNotFound = errors.New("resource not found")
	// ErrRecordNotFound is returned when no visible record has the requested identity
	ErrRecordNotFound = errors.New("record not found")
	// ErrInvalidRecord is returned when a payload fails entity validation
	ErrInvalidRecord = errors.New("invalid record")
	// ErrInvalidQuery is returned for unknown filter or sort fields and bad paging values
	ErrInvalidQuery = errors.New("invalid query")
	// ErrIdentityImmutable is returned when an update tries to change a record's identity
	ErrIdentityImmutable = errors.New("record identity cannot be changed")
	// ErrDuplicateIdentity is returned when a create reuses an existing identity
	ErrDuplicateIdentity = errors.New("record identity already exists")
	// ErrSubmissionNotAllowed is returned for public submissions to resources that do not accept them
	ErrSubmissionNotAllowed = errors.New("resource does not accept public submissions")
	// ErrNotReady is returned by CheckReadiness until every resource has been loaded
	ErrNotReady = errors.New("content not loaded")
	// ErrUpstream is returned when the content backend rejects or fails a mutation
	ErrUpstream = errors.New("content backend request failed")
	// ErrReadOnlySource is returned for mutations against resources backed by a read-only source
	ErrReadOnlySource = sources.ErrReadOnlySource
)

// Visibility selects which records and fields a caller may see
type Visibility string

const (
	// VisibilityPublic shows active records only, without public-excluded fields
	VisibilityPublic Visibility = "public"
	// VisibilityAdmin shows every record with every field
	VisibilityAdmin Visibility = "admin"
)

//go:generate mockgen -destination=mocks/mock_service.go -package=mocks -source=service.go ContentService,SyncController

// ContentService defines the operations over the served collections
type ContentService interface {
	// CheckReadiness returns ErrNotReady until every configured resource has a snapshot
	CheckReadiness(ctx context.Context) error

	// ListResources describes the resources visible to the caller
	ListResources(ctx context.Context, opts ...Option) ([]ResourceInfo, error)

	// ListRecords returns the filtered, sorted and paged view of a collection
	ListRecords(ctx context.Context, resource string, opts ...Option) (*ListResult, error)

	// GetRecord returns a single record by identity
	GetRecord(ctx context.Context, resource, id string, opts ...Option) (record.Record, error)

	// ListFilterOptions returns the distinct values of every option field
	ListFilterOptions(ctx context.Context, resource string, opts ...Option) (map[string][]string, error)

	// ListEvents returns active events of every dated resource overlapping [from, to]
	ListEvents(ctx context.Context, from, to time.Time) ([]CalendarEntry, error)

	// CreateRecord validates a record, forwards it to the backend and schedules a refetch
	CreateRecord(ctx context.Context, resource string, rec record.Record, opts ...Option) (record.Record, error)

	// UpdateRecord replaces a record in the backend and schedules a refetch
	UpdateRecord(ctx context.Context, resource, id string, rec record.Record) (record.Record, error)

	// DeleteRecord removes a record from the backend and schedules a refetch
	DeleteRecord(ctx context.Context, resource, id string) error

	// RequestSync schedules a refetch of a resource
	RequestSync(ctx context.Context, resource string) error
}

// SyncController is the part of the sync coordinator the service drives
type SyncController interface {
	// Trigger requests an out-of-schedule refetch
	Trigger(resource string) bool

	// Status returns the current sync status of a resource
	Status(resource string) (*status.SyncStatus, bool)
}

// ListResult is one page of a filtered collection
type ListResult struct {
	Resource string          `json:"resource"`
	Records  []record.Record `json:"records"`

	// Total is the number of records matching the query before paging
	Total int `json:"total"`

	Offset int `json:"offset"`
	Limit  int `json:"limit,omitempty"`

	// NextCursor continues after this page; empty on the last page
	NextCursor string `json:"nextCursor,omitempty"`

	// Columns lists the visible fields in schema order
	Columns []string `json:"-"`

	// Version is the snapshot version the page was computed from
	Version uint64 `json:"version"`
}

// ResourceInfo describes a served resource
type ResourceInfo struct {
	Name         string             `json:"name"`
	Entity       string             `json:"entity"`
	Source       string             `json:"source"`
	PublicRead   bool               `json:"publicRead"`
	PublicSubmit bool               `json:"publicSubmit"`
	Loaded       bool               `json:"loaded"`
	RecordCount  int                `json:"recordCount"`
	FetchedAt    *time.Time         `json:"fetchedAt,omitempty"`
	Status       *status.SyncStatus `json:"status,omitempty"`
}

// CalendarEntry is an event found by ListEvents
type CalendarEntry struct {
	Resource string        `json:"resource"`
	Record   record.Record `json:"record"`
}
