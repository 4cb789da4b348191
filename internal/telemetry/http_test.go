package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	contentotel "github.com/campusweb/content-server/internal/otel"
)

// contentRouter mounts public and admin routes the way the API server does
func contentRouter(mw func(http.Handler) http.Handler, status int) http.Handler {
	handler := func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(status) }

	r := chi.NewRouter()
	r.Use(mw)
	r.Get("/health", handler)
	r.Mount("/api/v1", func() http.Handler {
		sub := chi.NewRouter()
		sub.Get("/{resource}", handler)
		sub.Get("/{resource}/{id}", handler)
		return sub
	}())
	r.Mount("/admin/v1", func() http.Handler {
		sub := chi.NewRouter()
		sub.Post("/{resource}", handler)
		return sub
	}())
	return r
}

func TestRouteAudience(t *testing.T) {
	t.Parallel()

	assert.Equal(t, AudiencePublic, routeAudience("/api/v1/{resource}"))
	assert.Equal(t, AudienceAdmin, routeAudience("/admin/v1/{resource}/{id}"))
	assert.Equal(t, AudienceSystem, routeAudience("/readiness"))
	assert.Equal(t, AudienceSystem, routeAudience(unknownRoute))
	assert.Equal(t, unknownRoute, routePattern(httptest.NewRequest(http.MethodGet, "/nowhere", nil)))
}

func TestNewHTTPMetrics_NilProvider(t *testing.T) {
	t.Parallel()

	metrics, err := NewHTTPMetrics(nil, []string{"awards"})
	require.NoError(t, err)
	assert.Nil(t, metrics)

	mw, err := MetricsMiddleware(nil, nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusAccepted, rr.Code)

	_, err = MetricsMiddleware(noop.NewMeterProvider(), nil)
	assert.NoError(t, err)
}

func TestHTTPMetrics_Labels(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	mw, err := MetricsMiddleware(mp, []string{"awards", "faculty"})
	require.NoError(t, err)
	router := contentRouter(mw, http.StatusOK)

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/api/v1/awards/42", nil),
		httptest.NewRequest(http.MethodPost, "/admin/v1/faculty", nil),
		httptest.NewRequest(http.MethodGet, "/api/v1/timetable", nil),
		httptest.NewRequest(http.MethodGet, "/health", nil),
	} {
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	type labels struct{ audience, resource, route string }
	got := map[labels]int64{}
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != "content_server_http_requests_total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				value := func(key string) string {
					v, _ := dp.Attributes.Value(attribute.Key(key))
					return v.AsString()
				}
				got[labels{value("audience"), value("resource"), value("route")}] += dp.Value
			}
		}
	}

	assert.Equal(t, map[labels]int64{
		{AudiencePublic, "awards", "/api/v1/{resource}/{id}"}: 1,
		{AudienceAdmin, "faculty", "/admin/v1/{resource}"}:    1,
		{AudiencePublic, unknownResource, "/api/v1/{resource}"}: 1,
		{AudienceSystem, "", "/health"}:                        1,
	}, got)
}

func newTestTracerProvider(t *testing.T) (*tracetest.InMemoryExporter, *sdktrace.TracerProvider) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return exporter, tp
}

func TestTracingMiddleware_NilProvider(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	contentRouter(TracingMiddleware(nil), http.StatusCreated).
		ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/admin/v1/awards", nil))
	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestTracingMiddleware_ContentAttributes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		method         string
		target         string
		status         int
		wantName       string
		wantVisibility string
		wantResource   string
		wantStatus     codes.Code
	}{
		{
			name:           "public list",
			method:         http.MethodGet,
			target:         "/api/v1/achievements",
			status:         http.StatusOK,
			wantName:       "GET /api/v1/{resource}",
			wantVisibility: AudiencePublic,
			wantResource:   "achievements",
			wantStatus:     codes.Ok,
		},
		{
			name:           "admin create failing upstream",
			method:         http.MethodPost,
			target:         "/admin/v1/faculty",
			status:         http.StatusBadGateway,
			wantName:       "POST /admin/v1/{resource}",
			wantVisibility: AudienceAdmin,
			wantResource:   "faculty",
			wantStatus:     codes.Error,
		},
		{
			name:       "health check",
			method:     http.MethodGet,
			target:     "/health",
			status:     http.StatusOK,
			wantName:   "GET /health",
			wantStatus: codes.Ok,
		},
		{
			name:           "client error is not a span error",
			method:         http.MethodGet,
			target:         "/api/v1/awards/404",
			status:         http.StatusNotFound,
			wantName:       "GET /api/v1/{resource}/{id}",
			wantVisibility: AudiencePublic,
			wantResource:   "awards",
			wantStatus:     codes.Ok,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			exporter, tp := newTestTracerProvider(t)
			contentRouter(TracingMiddleware(tp), tt.status).
				ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(tt.method, tt.target, nil))

			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			span := spans[0]
			assert.Equal(t, tt.wantName, span.Name)
			assert.Equal(t, tt.wantStatus, span.Status.Code)
			assert.Contains(t, span.Attributes, semconv.HTTPResponseStatusCode(tt.status))

			attrs := map[attribute.Key]string{}
			for _, kv := range span.Attributes {
				attrs[kv.Key] = kv.Value.Emit()
			}
			assert.Equal(t, tt.wantVisibility, attrs[contentotel.AttrVisibility])
			assert.Equal(t, tt.wantResource, attrs[contentotel.AttrResource])
		})
	}
}
