package telemetry

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	contentotel "github.com/campusweb/content-server/internal/otel"
)

const (
	// HTTPMetricsMeterName is the name used for the HTTP metrics meter
	HTTPMetricsMeterName = "github.com/campusweb/content-server/http"

	// HTTPTracerName is the name used for server spans
	HTTPTracerName = "github.com/campusweb/content-server/http"
)

// Audiences a request can be served to
const (
	AudiencePublic = "public"
	AudienceAdmin  = "admin"
	AudienceSystem = "system"
)

const (
	unknownRoute    = "unknown_route"
	unknownResource = "unknown"
)

// routePattern returns the chi pattern the request matched, such as
// "/api/v1/{resource}/{id}". It is only complete once routing has finished.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
		return rctx.RoutePattern()
	}
	return unknownRoute
}

// routeAudience tells public site traffic from admin traffic by route prefix.
// Health, readiness and scrape endpoints are system traffic.
func routeAudience(pattern string) string {
	switch {
	case strings.HasPrefix(pattern, "/api/"):
		return AudiencePublic
	case strings.HasPrefix(pattern, "/admin/"):
		return AudienceAdmin
	default:
		return AudienceSystem
	}
}

// routeResource returns the {resource} route parameter, or "" for routes
// that do not address a resource.
func routeResource(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.URLParam("resource")
	}
	return ""
}

// HTTPMetrics holds the instruments recorded per request. Requests are
// labelled with their audience and, for content routes, the resource.
type HTTPMetrics struct {
	requestDuration metric.Float64Histogram
	requestsTotal   metric.Int64Counter
	activeRequests  metric.Int64UpDownCounter
	resources       map[string]struct{}
}

// NewHTTPMetrics creates the HTTP instruments. Resource labels are limited to
// the given names; any other {resource} value is labelled "unknown".
// A nil provider yields nil metrics, whose middleware passes requests through.
func NewHTTPMetrics(provider metric.MeterProvider, resources []string) (*HTTPMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(HTTPMetricsMeterName)

	requestDuration, err := meter.Float64Histogram(
		"content_server_http_request_duration_seconds",
		metric.WithDescription("Duration of HTTP requests in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10),
	)
	if err != nil {
		return nil, err
	}

	requestsTotal, err := meter.Int64Counter(
		"content_server_http_requests_total",
		metric.WithDescription("HTTP requests by audience, resource, route and status"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	activeRequests, err := meter.Int64UpDownCounter(
		"content_server_http_active_requests",
		metric.WithDescription("Number of in-flight HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	known := make(map[string]struct{}, len(resources))
	for _, name := range resources {
		known[name] = struct{}{}
	}

	return &HTTPMetrics{
		requestDuration: requestDuration,
		requestsTotal:   requestsTotal,
		activeRequests:  activeRequests,
		resources:       known,
	}, nil
}

// resourceLabel bounds the cardinality of the resource label
func (m *HTTPMetrics) resourceLabel(r *http.Request) string {
	name := routeResource(r)
	if name == "" {
		return ""
	}
	if _, ok := m.resources[name]; !ok {
		return unknownResource
	}
	return name
}

// Middleware records duration, count and in-flight requests
func (m *HTTPMetrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The request context may be cancelled once ServeHTTP returns
		ctx := r.Context()
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		m.activeRequests.Add(ctx, 1)
		next.ServeHTTP(ww, r)
		m.activeRequests.Add(ctx, -1)

		pattern := routePattern(r)
		attrs := metric.WithAttributes(
			attribute.String("method", r.Method),
			attribute.String("route", pattern),
			attribute.String("status_code", strconv.Itoa(ww.Status())),
			attribute.String("audience", routeAudience(pattern)),
			attribute.String("resource", m.resourceLabel(r)),
		)
		m.requestDuration.Record(ctx, time.Since(start).Seconds(), attrs)
		m.requestsTotal.Add(ctx, 1, attrs)
	})
}

// MetricsMiddleware builds the HTTP metrics middleware for the served resources
func MetricsMiddleware(provider metric.MeterProvider, resources []string) (func(http.Handler) http.Handler, error) {
	metrics, err := NewHTTPMetrics(provider, resources)
	if err != nil {
		return nil, err
	}
	return metrics.Middleware, nil
}

// TracingMiddleware opens a server span per request, continuing any trace in
// the request headers. Once routed, the span is named after the route and
// carries the audience as the content visibility and the addressed resource.
// A nil provider yields a pass-through middleware.
func TracingMiddleware(provider trace.TracerProvider) func(http.Handler) http.Handler {
	if provider == nil {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	tracer := provider.Tracer(HTTPTracerName)
	propagator := otel.GetTextMapPropagator()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			ctx, span := tracer.Start(ctx, fmt.Sprintf("%s %s", r.Method, r.URL.Path),
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					semconv.HTTPRequestMethodKey.String(r.Method),
					semconv.URLPath(r.URL.Path),
					semconv.UserAgentOriginal(r.UserAgent()),
				),
			)
			defer span.End()

			next.ServeHTTP(ww, r.WithContext(ctx))

			pattern := routePattern(r)
			span.SetName(fmt.Sprintf("%s %s", r.Method, pattern))
			span.SetAttributes(semconv.HTTPRouteKey.String(pattern))
			if audience := routeAudience(pattern); audience != AudienceSystem {
				span.SetAttributes(contentotel.AttrVisibility.String(audience))
			}
			if resource := routeResource(r); resource != "" {
				span.SetAttributes(contentotel.AttrResource.String(resource))
			}

			statusCode := ww.Status()
			span.SetAttributes(semconv.HTTPResponseStatusCode(statusCode))
			if statusCode >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(statusCode))
			} else {
				span.SetStatus(codes.Ok, "")
			}
		})
	}
}
