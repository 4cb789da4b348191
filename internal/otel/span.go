// Package otel holds the span helpers shared by the sync coordinator and the content service.
package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer used for sync and service spans
const TracerName = "github.com/campusweb/content-server"

// Attribute keys attached to content spans
const (
	AttrResource    = attribute.Key("content.resource")
	AttrOperation   = attribute.Key("content.operation")
	AttrVisibility  = attribute.Key("content.visibility")
	AttrSourceType  = attribute.Key("content.source_type")
	AttrFilters     = attribute.Key("content.filters")
	AttrHasSearch   = attribute.Key("content.has_search")
	AttrPageSize    = attribute.Key("pagination.limit")
	AttrHasCursor   = attribute.Key("pagination.has_cursor")
	AttrResultCount = attribute.Key("result.count")
	AttrTotalCount  = attribute.Key("result.total")
)

// Tracer returns the content tracer of provider, or nil when provider is nil
func Tracer(provider trace.TracerProvider) trace.Tracer {
	if provider == nil {
		return nil
	}
	return provider.Tracer(TracerName)
}

// StartSpan starts a span on tracer. A nil tracer yields the span already in ctx,
// which is a no-op span when ctx carries none.
func StartSpan(
	ctx context.Context,
	tracer trace.Tracer,
	name string,
	opts ...trace.SpanStartOption,
) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, name, opts...)
}

// RecordError marks span as failed. The status text stays generic because upstream
// errors can carry URLs with credentials; the error itself goes into an event.
func RecordError(span trace.Span, err error) {
	if err == nil || span == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, "operation failed")
}
