// Package inmemory provides an in-memory implementation of the ContentService interface
// over the snapshots published by the sync coordinator
package inmemory

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/campusweb/content-server/internal/config"
	"github.com/campusweb/content-server/internal/entity"
	"github.com/campusweb/content-server/internal/filtering"
	"github.com/campusweb/content-server/internal/httpclient"
	"github.com/campusweb/content-server/internal/logger"
	"github.com/campusweb/content-server/internal/otel"
	"github.com/campusweb/content-server/internal/record"
	"github.com/campusweb/content-server/internal/service"
	"github.com/campusweb/content-server/internal/sources"
	"github.com/campusweb/content-server/internal/store"
	"github.com/campusweb/content-server/internal/telemetry"
)

// contentSvc implements the ContentService interface
type contentSvc struct {
	config    *config.Config
	catalogue *entity.Catalogue
	store     store.Store
	factory   sources.SourceHandlerFactory

	syncController service.SyncController
	metrics        *telemetry.ContentMetrics
	tracer         trace.Tracer
	newID          func() string
	pending        *pendingIdentities
}

var _ service.ContentService = (*contentSvc)(nil)

// Option is a functional option for configuring the contentSvc
type Option func(*contentSvc)

// WithSyncController sets the coordinator used to refetch collections after mutations
func WithSyncController(controller service.SyncController) Option {
	return func(s *contentSvc) {
		s.syncController = controller
	}
}

// WithContentMetrics sets the metrics recorded for mutations
func WithContentMetrics(metrics *telemetry.ContentMetrics) Option {
	return func(s *contentSvc) {
		s.metrics = metrics
	}
}

// WithTracer opens a span around list queries and mutations
func WithTracer(tracer trace.Tracer) Option {
	return func(s *contentSvc) {
		s.tracer = tracer
	}
}

// WithIDGenerator replaces the generator of identities for records created without one
func WithIDGenerator(fn func() string) Option {
	return func(s *contentSvc) {
		s.newID = fn
	}
}

// New creates a new content service
func New(
	cfg *config.Config,
	catalogue *entity.Catalogue,
	st store.Store,
	factory sources.SourceHandlerFactory,
	opts ...Option,
) (service.ContentService, error) {
	if cfg == nil || catalogue == nil || st == nil || factory == nil {
		return nil, fmt.Errorf("config, catalogue, store and source factory are required")
	}

	s := &contentSvc{
		config:    cfg,
		catalogue: catalogue,
		store:     st,
		factory:   factory,
		newID:     uuid.NewString,
		pending:   newPendingIdentities(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// CheckReadiness implements ContentService.CheckReadiness
func (s *contentSvc) CheckReadiness(_ context.Context) error {
	var missing []string
	for _, name := range s.catalogue.Resources() {
		if _, ok := s.store.Get(name); !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: waiting for %s", service.ErrNotReady, strings.Join(missing, ", "))
	}
	return nil
}

// ListResources implements ContentService.ListResources
func (s *contentSvc) ListResources(_ context.Context, opts ...service.Option) ([]service.ResourceInfo, error) {
	o, err := service.ApplyOptions[service.RecordOptions](opts...)
	if err != nil {
		return nil, err
	}

	out := make([]service.ResourceInfo, 0)
	for _, name := range s.catalogue.Resources() {
		schema, res, err := s.resolve(name, o.Visibility)
		if err != nil {
			continue
		}

		info := service.ResourceInfo{
			Name:         name,
			Entity:       schema.Name,
			Source:       res.GetType(),
			PublicRead:   schema.PublicRead,
			PublicSubmit: schema.PublicSubmit,
		}
		if snap, ok := s.store.Get(name); ok {
			fetchedAt := snap.FetchedAt
			info.Loaded = true
			info.FetchedAt = &fetchedAt
			info.RecordCount = len(s.visibleRecords(schema, snap, o.Visibility))
		}
		if o.Visibility == service.VisibilityAdmin && s.syncController != nil {
			if st, ok := s.syncController.Status(name); ok {
				info.Status = st
			}
		}
		out = append(out, info)
	}
	return out, nil
}

// ListRecords implements ContentService.ListRecords
func (s *contentSvc) ListRecords(
	ctx context.Context, resource string, opts ...service.Option,
) (*service.ListResult, error) {
	o, err := service.ApplyOptions[service.ListOptions](opts...)
	if err != nil {
		return nil, err
	}

	_, span := otel.StartSpan(ctx, s.tracer, "content.list", trace.WithAttributes(
		otel.AttrResource.String(resource),
		otel.AttrVisibility.String(string(o.Visibility)),
		otel.AttrPageSize.Int(o.Limit),
		otel.AttrHasCursor.Bool(o.Cursor != ""),
	))
	defer span.End()

	result, state, err := s.listRecords(resource, o)
	if err != nil {
		otel.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(
		otel.AttrFilters.StringSlice(state.ActiveFilters()),
		otel.AttrHasSearch.Bool(state.SearchText != ""),
		otel.AttrResultCount.Int(len(result.Records)),
		otel.AttrTotalCount.Int(result.Total),
	)
	return result, nil
}

func (s *contentSvc) listRecords(
	resource string, o *service.ListOptions,
) (*service.ListResult, filtering.FilterState, error) {
	schema, _, err := s.resolve(resource, o.Visibility)
	if err != nil {
		return nil, filtering.FilterState{}, err
	}

	if o.Cursor != "" {
		cursorResource, offset, err := service.DecodeCursor(o.Cursor)
		if err != nil {
			return nil, filtering.FilterState{}, err
		}
		if cursorResource != resource {
			return nil, filtering.FilterState{}, fmt.Errorf("%w: cursor belongs to resource %s", service.ErrInvalidQuery, cursorResource)
		}
		o.Offset = offset
	}

	state, err := filterState(schema, o)
	if err != nil {
		return nil, filtering.FilterState{}, err
	}

	result := &service.ListResult{
		Resource: resource,
		Records:  []record.Record{},
		Offset:   o.Offset,
		Limit:    o.Limit,
		Columns:  visibleColumns(schema, o.Visibility),
	}

	snap, ok := s.store.Get(resource)
	if !ok {
		return result, state, nil
	}
	result.Version = snap.Version

	filtered := schema.Filter().Apply(s.visibleRecords(schema, snap, o.Visibility), state)
	result.Total = len(filtered)
	result.Records = paginate(filtered, o.Offset, o.Limit)
	if o.Limit > 0 && o.Offset < result.Total && o.Limit < result.Total-o.Offset {
		result.NextCursor = service.EncodeCursor(resource, o.Offset+o.Limit)
	}

	return result, state, nil
}

// GetRecord implements ContentService.GetRecord
func (s *contentSvc) GetRecord(
	_ context.Context, resource, id string, opts ...service.Option,
) (record.Record, error) {
	o, err := service.ApplyOptions[service.RecordOptions](opts...)
	if err != nil {
		return nil, err
	}

	schema, _, err := s.resolve(resource, o.Visibility)
	if err != nil {
		return nil, err
	}

	rec, ok := s.find(schema, id)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", service.ErrRecordNotFound, resource, id)
	}
	if o.Visibility == service.VisibilityPublic {
		if !schema.IsActive(rec) {
			return nil, fmt.Errorf("%w: %s/%s", service.ErrRecordNotFound, resource, id)
		}
		return schema.Project(rec), nil
	}
	return rec, nil
}

// ListFilterOptions implements ContentService.ListFilterOptions
func (s *contentSvc) ListFilterOptions(
	_ context.Context, resource string, opts ...service.Option,
) (map[string][]string, error) {
	o, err := service.ApplyOptions[service.RecordOptions](opts...)
	if err != nil {
		return nil, err
	}

	schema, _, err := s.resolve(resource, o.Visibility)
	if err != nil {
		return nil, err
	}

	var records []record.Record
	if snap, ok := s.store.Get(resource); ok {
		records = s.visibleRecords(schema, snap, o.Visibility)
	}

	out := make(map[string][]string, len(schema.OptionFields))
	for _, field := range schema.OptionFields {
		if o.Visibility == service.VisibilityPublic && !schema.IsPublicField(field.Field) {
			continue
		}
		out[field.Field] = filtering.DistinctValues(records, field.Field, field.Order)
	}
	return out, nil
}

// ListEvents implements ContentService.ListEvents
func (s *contentSvc) ListEvents(_ context.Context, from, to time.Time) ([]service.CalendarEntry, error) {
	out := make([]service.CalendarEntry, 0)
	for _, name := range s.catalogue.Resources() {
		schema, _, err := s.resolve(name, service.VisibilityPublic)
		if err != nil || schema.DateFields == nil {
			continue
		}
		snap, ok := s.store.Get(name)
		if !ok {
			continue
		}
		visible := s.visibleRecords(schema, snap, service.VisibilityPublic)
		var events []record.Record
		if from.Equal(to) {
			events = filtering.EventsOn(visible, from, *schema.DateFields)
		} else {
			events = filtering.EventsBetween(visible, from, to, *schema.DateFields)
		}
		for _, rec := range events {
			out = append(out, service.CalendarEntry{Resource: name, Record: rec})
		}
	}
	return out, nil
}

// CreateRecord implements ContentService.CreateRecord.
// Public submissions never choose their identity and are created inactive.
func (s *contentSvc) CreateRecord(
	ctx context.Context, resource string, rec record.Record, opts ...service.Option,
) (record.Record, error) {
	ctx, span := s.startMutationSpan(ctx, resource, "create")
	defer span.End()

	o, err := service.ApplyOptions[service.RecordOptions](opts...)
	if err != nil {
		return nil, err
	}

	schema, res, err := s.resolve(resource, service.VisibilityAdmin)
	if err != nil {
		return nil, err
	}
	if o.Visibility == service.VisibilityPublic && !schema.PublicSubmit {
		return nil, fmt.Errorf("%w: %s", service.ErrSubmissionNotAllowed, resource)
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: record must be a JSON object", service.ErrInvalidRecord)
	}

	payload := rec.Clone()
	if o.Visibility == service.VisibilityPublic {
		delete(payload, schema.IDField)
		payload[schema.ActiveField] = false
	}

	id, explicit := schema.ID(payload)
	if !explicit {
		id = s.newID()
		payload[schema.IDField] = id
	}

	if err := schema.Validate(payload); err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrInvalidRecord, err)
	}

	version, err := s.reserveIdentity(schema, id)
	if err != nil {
		return nil, err
	}

	writer, err := s.factory.CreateWriter(res.GetType())
	if err != nil {
		s.pending.release(resource, id, version)
		return nil, fmt.Errorf("failed to create writer for %s: %w", resource, err)
	}

	created, err := writer.Create(ctx, res, payload)
	s.afterMutation(ctx, resource, "create", err)
	if err != nil {
		s.pending.release(resource, id, version)
		return nil, mapWriteError(err)
	}
	return created, nil
}

// UpdateRecord implements ContentService.UpdateRecord
func (s *contentSvc) UpdateRecord(
	ctx context.Context, resource, id string, rec record.Record,
) (record.Record, error) {
	ctx, span := s.startMutationSpan(ctx, resource, "update")
	defer span.End()

	schema, res, err := s.resolve(resource, service.VisibilityAdmin)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: record must be a JSON object", service.ErrInvalidRecord)
	}

	payload := rec.Clone()
	if got, ok := schema.ID(payload); ok && got != id {
		return nil, fmt.Errorf("%w: %q cannot become %q", service.ErrIdentityImmutable, id, got)
	}
	if err := s.requireExisting(schema, id); err != nil {
		return nil, err
	}
	if _, ok := schema.ID(payload); !ok {
		payload[schema.IDField] = id
	}

	if err := schema.Validate(payload); err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrInvalidRecord, err)
	}

	writer, err := s.factory.CreateWriter(res.GetType())
	if err != nil {
		return nil, fmt.Errorf("failed to create writer for %s: %w", resource, err)
	}

	updated, err := writer.Update(ctx, res, id, payload)
	s.afterMutation(ctx, resource, "update", err)
	if err != nil {
		return nil, mapWriteError(err)
	}
	return updated, nil
}

// DeleteRecord implements ContentService.DeleteRecord
func (s *contentSvc) DeleteRecord(ctx context.Context, resource, id string) error {
	ctx, span := s.startMutationSpan(ctx, resource, "delete")
	defer span.End()

	schema, res, err := s.resolve(resource, service.VisibilityAdmin)
	if err != nil {
		return err
	}
	if err := s.requireExisting(schema, id); err != nil {
		return err
	}

	writer, err := s.factory.CreateWriter(res.GetType())
	if err != nil {
		return fmt.Errorf("failed to create writer for %s: %w", resource, err)
	}

	err = writer.Delete(ctx, res, id)
	s.afterMutation(ctx, resource, "delete", err)
	if err != nil {
		return mapWriteError(err)
	}
	return nil
}

// RequestSync implements ContentService.RequestSync
func (s *contentSvc) RequestSync(_ context.Context, resource string) error {
	if _, _, err := s.resolve(resource, service.VisibilityAdmin); err != nil {
		return err
	}
	if s.syncController == nil {
		return fmt.Errorf("sync is not running")
	}
	s.syncController.Trigger(resource)
	return nil
}

// resolve returns the schema and configuration of a resource readable at the given visibility
func (s *contentSvc) resolve(resource string, visibility service.Visibility) (*entity.Schema, *config.ResourceConfig, error) {
	schema, ok := s.catalogue.Get(resource)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", service.ErrResourceNotFound, resource)
	}
	if visibility == service.VisibilityPublic && !schema.PublicRead {
		return nil, nil, fmt.Errorf("%w: %s", service.ErrResourceNotFound, resource)
	}
	res, ok := s.config.GetResource(resource)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", service.ErrResourceNotFound, resource)
	}
	return schema, res, nil
}

// visibleRecords returns the records of a snapshot visible at the given visibility.
// Public views contain active records only, projected without excluded fields.
func (*contentSvc) visibleRecords(schema *entity.Schema, snap *store.Snapshot, visibility service.Visibility) []record.Record {
	if visibility == service.VisibilityAdmin {
		return snap.Records
	}
	out := make([]record.Record, 0, len(snap.Records))
	for _, rec := range snap.Records {
		if schema.IsActive(rec) {
			out = append(out, schema.Project(rec))
		}
	}
	return out
}

// find looks up a record by identity in the current snapshot
func (s *contentSvc) find(schema *entity.Schema, id string) (record.Record, bool) {
	snap, ok := s.store.Get(schema.Resource)
	if !ok {
		return nil, false
	}
	for _, rec := range snap.Records {
		if got, ok := schema.ID(rec); ok && got == id {
			return rec, true
		}
	}
	return nil, false
}

// reserveIdentity rejects an id present in the current snapshot or already
// created since that snapshot was published, and claims it otherwise.
// It returns the snapshot version the claim belongs to.
func (s *contentSvc) reserveIdentity(schema *entity.Schema, id string) (uint64, error) {
	var version uint64
	exists := false
	if snap, ok := s.store.Get(schema.Resource); ok {
		version = snap.Version
		exists = slices.ContainsFunc(snap.Records, func(rec record.Record) bool {
			got, ok := schema.ID(rec)
			return ok && got == id
		})
	}
	if exists || !s.pending.reserve(schema.Resource, id, version) {
		return 0, fmt.Errorf("%w: %s/%s", service.ErrDuplicateIdentity, schema.Resource, id)
	}
	return version, nil
}

// requireExisting rejects mutations of records missing from a loaded snapshot.
// Before the first load the backend decides.
func (s *contentSvc) requireExisting(schema *entity.Schema, id string) error {
	if _, loaded := s.store.Get(schema.Resource); !loaded {
		return nil
	}
	if _, ok := s.find(schema, id); !ok {
		return fmt.Errorf("%w: %s/%s", service.ErrRecordNotFound, schema.Resource, id)
	}
	return nil
}

func (s *contentSvc) startMutationSpan(ctx context.Context, resource, operation string) (context.Context, trace.Span) {
	return otel.StartSpan(ctx, s.tracer, "content."+operation, trace.WithAttributes(
		otel.AttrResource.String(resource),
		otel.AttrOperation.String(operation),
	))
}

// afterMutation records the mutation and schedules a refetch of the resource
func (s *contentSvc) afterMutation(ctx context.Context, resource, operation string, err error) {
	s.metrics.RecordMutation(ctx, resource, operation, err == nil)
	if err != nil {
		otel.RecordError(trace.SpanFromContext(ctx), err)
		logger.Warnw("Mutation failed", "resource", resource, "operation", operation, "error", err)
		return
	}
	logger.Infow("Mutation forwarded", "resource", resource, "operation", operation)
	if s.syncController != nil {
		s.syncController.Trigger(resource)
	}
}

// mapWriteError converts backend errors to service errors
func mapWriteError(err error) error {
	if errors.Is(err, sources.ErrReadOnlySource) {
		return err
	}
	switch httpclient.StatusCode(err) {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %v", service.ErrRecordNotFound, err)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %v", service.ErrInvalidRecord, err)
	case http.StatusConflict:
		return fmt.Errorf("%w: %v", service.ErrDuplicateIdentity, err)
	default:
		return fmt.Errorf("%w: %v", service.ErrUpstream, err)
	}
}
