package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// ContentMetricsMeterName is the name used for the content metrics meter
	ContentMetricsMeterName = "github.com/campusweb/content-server/content"

	// SyncMetricsMeterName is the name used for the sync metrics meter
	SyncMetricsMeterName = "github.com/campusweb/content-server/sync"
)

// ContentMetrics holds the OpenTelemetry instruments for served collections
type ContentMetrics struct {
	recordsTotal  metric.Int64Gauge
	activeRecords metric.Int64Gauge
	mutations     metric.Int64Counter
}

// NewContentMetrics creates a new ContentMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewContentMetrics(provider metric.MeterProvider) (*ContentMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(ContentMetricsMeterName)

	recordsTotal, err := meter.Int64Gauge(
		"content_server_records_total",
		metric.WithDescription("Number of records in each collection"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, err
	}

	activeRecords, err := meter.Int64Gauge(
		"content_server_active_records",
		metric.WithDescription("Number of publicly visible records in each collection"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, err
	}

	mutations, err := meter.Int64Counter(
		"content_server_mutations_total",
		metric.WithDescription("Admin mutations forwarded to the upstream backend"),
		metric.WithUnit("{mutation}"),
	)
	if err != nil {
		return nil, err
	}

	return &ContentMetrics{
		recordsTotal:  recordsTotal,
		activeRecords: activeRecords,
		mutations:     mutations,
	}, nil
}

// RecordCollectionSize records the total and active record counts for a resource
func (m *ContentMetrics) RecordCollectionSize(ctx context.Context, resource string, total, active int64) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String("resource", resource))
	m.recordsTotal.Record(ctx, total, attrs)
	m.activeRecords.Record(ctx, active, attrs)
}

// RecordMutation counts a forwarded create, update or delete
func (m *ContentMetrics) RecordMutation(ctx context.Context, resource, operation string, success bool) {
	if m == nil {
		return
	}

	m.mutations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("resource", resource),
		attribute.String("operation", operation),
		attribute.Bool("success", success),
	))
}

// SyncMetrics holds the OpenTelemetry instruments for sync operation metrics
type SyncMetrics struct {
	syncDuration metric.Float64Histogram
}

// NewSyncMetrics creates a new SyncMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewSyncMetrics(provider metric.MeterProvider) (*SyncMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(SyncMetricsMeterName)

	syncDuration, err := meter.Float64Histogram(
		"content_server_sync_duration_seconds",
		metric.WithDescription("Duration of collection sync operations in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60),
	)
	if err != nil {
		return nil, err
	}

	return &SyncMetrics{
		syncDuration: syncDuration,
	}, nil
}

// RecordSyncDuration records the duration of a sync operation for a resource
func (m *SyncMetrics) RecordSyncDuration(ctx context.Context, resource string, duration time.Duration, success bool) {
	if m == nil || m.syncDuration == nil {
		return
	}

	m.syncDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("resource", resource),
		attribute.Bool("success", success),
	))
}
