package inmemory

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/mock/gomock"

	"github.com/campusweb/content-server/internal/config"
	"github.com/campusweb/content-server/internal/entity"
	"github.com/campusweb/content-server/internal/filtering"
	"github.com/campusweb/content-server/internal/httpclient"
	"github.com/campusweb/content-server/internal/otel"
	"github.com/campusweb/content-server/internal/record"
	"github.com/campusweb/content-server/internal/service"
	servicemocks "github.com/campusweb/content-server/internal/service/mocks"
	"github.com/campusweb/content-server/internal/sources"
	sourcemocks "github.com/campusweb/content-server/internal/sources/mocks"
	"github.com/campusweb/content-server/internal/status"
	"github.com/campusweb/content-server/internal/store"
)

const generatedID = "generated-id"

type fixture struct {
	svc        service.ContentService
	store      store.Store
	factory    *sourcemocks.MockSourceHandlerFactory
	controller *servicemocks.MockSyncController
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := &config.Config{Resources: []config.ResourceConfig{
		{Name: "achievements"},
		{Name: "faculty"},
		{Name: "enquiries"},
		{Name: "feedback"},
		{Name: "events"},
		{Name: "awards", File: &config.FileConfig{Path: "awards.json"}},
	}}
	catalogue, err := entity.NewCatalogue(cfg)
	require.NoError(t, err)

	st := store.NewMemoryStore()
	st.Replace("achievements", []record.Record{
		{"id": "1", "name": "A", "marks": json.Number("95"), "year": "2023", "stream": "Science", "class": "12", "achievement": "Gold", "active": true},
		{"id": "2", "name": "B", "marks": json.Number("80"), "year": "2022", "stream": "Commerce", "class": "12", "achievement": "Silver", "active": true},
		{"id": "3", "name": "C", "marks": json.Number("90"), "year": "2023", "stream": "Science", "class": "11", "achievement": "Bronze", "active": true},
		{"id": "4", "name": "D", "marks": json.Number("70"), "year": "2021", "stream": "Arts", "class": "10", "achievement": "Merit", "active": false},
	}, "h1")
	st.Replace("faculty", []record.Record{
		{"id": "f1", "name": "R. Iyer", "department": "Maths", "phone": "555-0101", "active": true},
		{"id": "f2", "name": "S. Rao", "department": "Physics", "active": false},
	}, "h2")
	st.Replace("events", []record.Record{
		{"id": "e1", "title": "Sports Day", "startDate": "2024-03-10", "endDate": "2024-03-11", "active": true},
		{"id": "e2", "title": "Staff Meeting", "startDate": "2024-03-10", "active": false},
		{"id": "e3", "title": "Exams", "startDate": "2024-04-01", "active": true},
	}, "h3")
	st.Replace("enquiries", []record.Record{
		{"id": "q1", "name": "Parent", "phone": "555-0199", "status": "new", "active": true},
	}, "h4")

	ctrl := gomock.NewController(t)
	factory := sourcemocks.NewMockSourceHandlerFactory(ctrl)
	controller := servicemocks.NewMockSyncController(ctrl)

	svc, err := New(cfg, catalogue, st, factory,
		WithSyncController(controller),
		WithIDGenerator(func() string { return generatedID }),
	)
	require.NoError(t, err)

	return &fixture{svc: svc, store: st, factory: factory, controller: controller}
}

func ids(records []record.Record) []string {
	out := make([]string, 0, len(records))
	for _, rec := range records {
		id, _ := rec.Text("id")
		out = append(out, id)
	}
	return out
}

func TestNew_RequiresDependencies(t *testing.T) {
	t.Parallel()

	_, err := New(nil, nil, nil, nil)
	assert.Error(t, err)
}

func TestCheckReadiness(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	err := f.svc.CheckReadiness(context.Background())
	require.ErrorIs(t, err, service.ErrNotReady)
	assert.Contains(t, err.Error(), "feedback, awards")

	f.store.Replace("feedback", nil, "")
	f.store.Replace("awards", nil, "")
	assert.NoError(t, f.svc.CheckReadiness(context.Background()))
}

func TestListRecords(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	tests := []struct {
		name        string
		resource    string
		opts        []service.Option
		expectedIDs []string
		total       int
		nextCursor  string
		expectedErr error
	}{
		{
			name:        "public view hides inactive records",
			resource:    "achievements",
			expectedIDs: []string{"1", "2", "3"},
			total:       3,
		},
		{
			name:        "admin view contains every record",
			resource:    "achievements",
			opts:        []service.Option{service.WithVisibility(service.VisibilityAdmin)},
			expectedIDs: []string{"1", "2", "3", "4"},
			total:       4,
		},
		{
			name:     "equality filter with descending numeric sort",
			resource: "achievements",
			opts: []service.Option{
				service.WithFilter("year", "2023"),
				service.WithSort("marks", filtering.SortDescending),
			},
			expectedIDs: []string{"1", "3"},
			total:       2,
		},
		{
			name:        "case-insensitive search",
			resource:    "achievements",
			opts:        []service.Option{service.WithSearch("SCIENCE")},
			expectedIDs: []string{"1", "3"},
			total:       2,
		},
		{
			name:        "search on a single field",
			resource:    "achievements",
			opts:        []service.Option{service.WithSearch("silver")},
			expectedIDs: []string{"2"},
			total:       1,
		},
		{
			name:        "empty filter value means no filter",
			resource:    "achievements",
			opts:        []service.Option{service.WithFilter("year", "")},
			expectedIDs: []string{"1", "2", "3"},
			total:       3,
		},
		{
			name:        "inactive record never matches publicly",
			resource:    "achievements",
			opts:        []service.Option{service.WithFilter("year", "2021")},
			expectedIDs: []string{},
			total:       0,
		},
		{
			name:     "inactive record matches for admin",
			resource: "achievements",
			opts: []service.Option{
				service.WithVisibility(service.VisibilityAdmin),
				service.WithFilter("year", "2021"),
			},
			expectedIDs: []string{"4"},
			total:       1,
		},
		{
			name:        "first page",
			resource:    "achievements",
			opts:        []service.Option{service.WithLimit(2)},
			expectedIDs: []string{"1", "2"},
			total:       3,
			nextCursor:  service.EncodeCursor("achievements", 2),
		},
		{
			name:        "last page",
			resource:    "achievements",
			opts:        []service.Option{service.WithLimit(2), service.WithOffset(2)},
			expectedIDs: []string{"3"},
			total:       3,
		},
		{
			name:        "offset past the end",
			resource:    "achievements",
			opts:        []service.Option{service.WithOffset(10)},
			expectedIDs: []string{},
			total:       3,
		},
		{
			name:        "events use default sort",
			resource:    "events",
			opts:        []service.Option{service.WithVisibility(service.VisibilityAdmin)},
			expectedIDs: []string{"e1", "e2", "e3"},
			total:       3,
		},
		{
			name:        "unloaded resource lists nothing",
			resource:    "feedback",
			expectedIDs: []string{},
			total:       0,
		},
		{
			name:        "unknown filter field",
			resource:    "achievements",
			opts:        []service.Option{service.WithFilter("name", "A")},
			expectedErr: service.ErrInvalidQuery,
		},
		{
			name:        "unknown sort field",
			resource:    "achievements",
			opts:        []service.Option{service.WithSort("secret", filtering.SortAscending)},
			expectedErr: service.ErrInvalidQuery,
		},
		{
			name:        "public filter on hidden field",
			resource:    "feedback",
			opts:        []service.Option{service.WithFilter("status", "new")},
			expectedErr: service.ErrInvalidQuery,
		},
		{
			name:        "negative limit",
			resource:    "achievements",
			opts:        []service.Option{service.WithLimit(-1)},
			expectedErr: service.ErrInvalidQuery,
		},
		{
			name:        "non public resource",
			resource:    "enquiries",
			expectedErr: service.ErrResourceNotFound,
		},
		{
			name:        "unknown resource",
			resource:    "timetable",
			expectedErr: service.ErrResourceNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := f.svc.ListRecords(context.Background(), tt.resource, tt.opts...)
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedIDs, ids(result.Records))
			assert.Equal(t, tt.total, result.Total)
			assert.Equal(t, tt.nextCursor, result.NextCursor)
		})
	}
}

func TestListRecords_Cursor(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.ListRecords(ctx, "achievements", service.WithLimit(2))
	require.NoError(t, err)
	require.NotEmpty(t, first.NextCursor)

	second, err := f.svc.ListRecords(ctx, "achievements", service.WithLimit(2), service.WithCursor(first.NextCursor))
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, ids(second.Records))
	assert.Empty(t, second.NextCursor)

	_, err = f.svc.ListRecords(ctx, "faculty", service.WithCursor(first.NextCursor))
	assert.ErrorIs(t, err, service.ErrInvalidQuery)

	_, err = f.svc.ListRecords(ctx, "achievements", service.WithCursor("not-a-cursor!"))
	assert.ErrorIs(t, err, service.ErrInvalidQuery)
}

func TestListRecords_LargePageBounds(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		limit       int
		offset      int
		expectedIDs []string
	}{
		{name: "max limit with offset", limit: math.MaxInt, offset: 1, expectedIDs: []string{"2", "3"}},
		{name: "max limit and offset", limit: math.MaxInt, offset: math.MaxInt, expectedIDs: []string{}},
		{name: "limit reaching the end", limit: 2, offset: 1, expectedIDs: []string{"2", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var (
				result *service.ListResult
				err    error
			)
			require.NotPanics(t, func() {
				result, err = f.svc.ListRecords(ctx, "achievements",
					service.WithLimit(tt.limit), service.WithOffset(tt.offset))
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expectedIDs, ids(result.Records))
			assert.Equal(t, 3, result.Total)
			assert.Empty(t, result.NextCursor)
		})
	}
}

func TestListRecords_PublicProjection(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	public, err := f.svc.ListRecords(context.Background(), "faculty")
	require.NoError(t, err)
	require.Len(t, public.Records, 1)
	assert.NotContains(t, public.Records[0], "phone")
	assert.NotContains(t, public.Columns, "phone")

	admin, err := f.svc.ListRecords(context.Background(), "faculty", service.WithVisibility(service.VisibilityAdmin))
	require.NoError(t, err)
	assert.Equal(t, "555-0101", admin.Records[0]["phone"])
	assert.Contains(t, admin.Columns, "phone")

	snap, _ := f.store.Get("faculty")
	assert.Contains(t, snap.Records[0], "phone", "snapshot must not be modified by projection")
}

func TestListRecords_Idempotent(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	opts := []service.Option{service.WithSearch("science"), service.WithSort("marks", filtering.SortAscending)}

	first, err := f.svc.ListRecords(context.Background(), "achievements", opts...)
	require.NoError(t, err)
	second, err := f.svc.ListRecords(context.Background(), "achievements", opts...)
	require.NoError(t, err)
	assert.Equal(t, first.Records, second.Records)
	assert.Equal(t, []string{"3", "1"}, ids(first.Records))
}

func TestGetRecord(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	admin := service.WithVisibility(service.VisibilityAdmin)

	rec, err := f.svc.GetRecord(ctx, "achievements", "1")
	require.NoError(t, err)
	assert.Equal(t, "A", rec["name"])

	_, err = f.svc.GetRecord(ctx, "achievements", "4")
	assert.ErrorIs(t, err, service.ErrRecordNotFound)

	rec, err = f.svc.GetRecord(ctx, "achievements", "4", admin)
	require.NoError(t, err)
	assert.Equal(t, "D", rec["name"])

	rec, err = f.svc.GetRecord(ctx, "faculty", "f1")
	require.NoError(t, err)
	assert.NotContains(t, rec, "phone")

	_, err = f.svc.GetRecord(ctx, "achievements", "99", admin)
	assert.ErrorIs(t, err, service.ErrRecordNotFound)

	_, err = f.svc.GetRecord(ctx, "enquiries", "q1")
	assert.ErrorIs(t, err, service.ErrResourceNotFound)

	rec, err = f.svc.GetRecord(ctx, "enquiries", "q1", admin)
	require.NoError(t, err)
	assert.Equal(t, "Parent", rec["name"])
}

func TestListFilterOptions(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	public, err := f.svc.ListFilterOptions(ctx, "achievements")
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"year":   {"2023", "2022"},
		"stream": {"Commerce", "Science"},
		"class":  {"11", "12"},
	}, public)

	admin, err := f.svc.ListFilterOptions(ctx, "achievements", service.WithVisibility(service.VisibilityAdmin))
	require.NoError(t, err)
	assert.Equal(t, []string{"2023", "2022", "2021"}, admin["year"])
	assert.Equal(t, []string{"10", "11", "12"}, admin["class"])

	feedback, err := f.svc.ListFilterOptions(ctx, "feedback")
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"role": {}}, feedback)
}

func TestListEvents(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	day := func(s string) time.Time {
		d, err := filtering.ParseDate(s)
		require.NoError(t, err)
		return d
	}

	entries, err := f.svc.ListEvents(context.Background(), day("2024-03-11"), day("2024-03-11"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "events", entries[0].Resource)
	assert.Equal(t, "Sports Day", entries[0].Record["title"])

	entries, err = f.svc.ListEvents(context.Background(), day("2024-03-01"), day("2024-04-30"))
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestListResources(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	public, err := f.svc.ListResources(ctx)
	require.NoError(t, err)
	names := make([]string, 0, len(public))
	for _, info := range public {
		names = append(names, info.Name)
		assert.Nil(t, info.Status)
	}
	assert.Equal(t, []string{"achievements", "faculty", "feedback", "events", "awards"}, names)
	assert.Equal(t, 3, public[0].RecordCount)
	assert.True(t, public[0].Loaded)
	assert.False(t, public[2].Loaded)
	assert.Equal(t, config.SourceTypeFile, public[4].Source)

	f.controller.EXPECT().Status(gomock.Any()).Return(&status.SyncStatus{Phase: status.SyncPhaseComplete}, true).Times(6)
	admin, err := f.svc.ListResources(ctx, service.WithVisibility(service.VisibilityAdmin))
	require.NoError(t, err)
	require.Len(t, admin, 6)
	assert.Equal(t, 4, admin[0].RecordCount)
	assert.Equal(t, status.SyncPhaseComplete, admin[0].Status.Phase)
}

func TestCreateRecord(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctrl := gomock.NewController(t)
	writer := sourcemocks.NewMockSourceWriter(ctrl)

	f.factory.EXPECT().CreateWriter(config.SourceTypeAPI).Return(writer, nil)
	writer.EXPECT().
		Create(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, res *config.ResourceConfig, rec record.Record) (record.Record, error) {
			assert.Equal(t, "achievements", res.Name)
			assert.Equal(t, generatedID, rec["id"])
			return rec, nil
		})
	f.controller.EXPECT().Trigger("achievements").Return(true)

	input := record.Record{"name": "E", "achievement": "Gold", "year": "2024"}
	created, err := f.svc.CreateRecord(context.Background(), "achievements", input,
		service.WithVisibility(service.VisibilityAdmin))
	require.NoError(t, err)
	assert.Equal(t, generatedID, created["id"])
	assert.NotContains(t, input, "id", "caller payload must not be modified")
}

func TestCreateRecord_PublicSubmission(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctrl := gomock.NewController(t)
	writer := sourcemocks.NewMockSourceWriter(ctrl)

	f.factory.EXPECT().CreateWriter(config.SourceTypeAPI).Return(writer, nil)
	writer.EXPECT().
		Create(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *config.ResourceConfig, rec record.Record) (record.Record, error) {
			assert.Equal(t, generatedID, rec["id"], "public submissions never choose their identity")
			assert.Equal(t, false, rec["active"], "public submissions are created inactive")
			return rec, nil
		})
	f.controller.EXPECT().Trigger("enquiries").Return(true)

	_, err := f.svc.CreateRecord(context.Background(), "enquiries",
		record.Record{"id": "q1", "name": "Parent", "phone": "555-0100", "active": true})
	require.NoError(t, err)
}

func TestCreateRecord_Rejections(t *testing.T) {
	t.Parallel()

	admin := service.WithVisibility(service.VisibilityAdmin)

	tests := []struct {
		name        string
		resource    string
		rec         record.Record
		opts        []service.Option
		expectedErr error
	}{
		{
			name:        "public submission to admin-only entity",
			resource:    "achievements",
			rec:         record.Record{"name": "E", "achievement": "Gold", "year": "2024"},
			expectedErr: service.ErrSubmissionNotAllowed,
		},
		{
			name:        "missing required field",
			resource:    "achievements",
			rec:         record.Record{"name": "E", "year": "2024"},
			opts:        []service.Option{admin},
			expectedErr: service.ErrInvalidRecord,
		},
		{
			name:        "nil record",
			resource:    "achievements",
			opts:        []service.Option{admin},
			expectedErr: service.ErrInvalidRecord,
		},
		{
			name:        "duplicate identity",
			resource:    "achievements",
			rec:         record.Record{"id": "1", "name": "E", "achievement": "Gold", "year": "2024"},
			opts:        []service.Option{admin},
			expectedErr: service.ErrDuplicateIdentity,
		},
		{
			name:        "unknown resource",
			resource:    "timetable",
			rec:         record.Record{"name": "E"},
			opts:        []service.Option{admin},
			expectedErr: service.ErrResourceNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			_, err := f.svc.CreateRecord(context.Background(), tt.resource, tt.rec, tt.opts...)
			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestCreateRecord_IdentityPendingUntilRefetch(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctrl := gomock.NewController(t)
	writer := sourcemocks.NewMockSourceWriter(ctrl)
	ctx := context.Background()
	admin := service.WithVisibility(service.VisibilityAdmin)
	row := func() record.Record {
		return record.Record{"id": "9", "name": "E", "achievement": "Gold", "year": "2024"}
	}

	f.factory.EXPECT().CreateWriter(config.SourceTypeAPI).Return(writer, nil).Times(3)
	f.controller.EXPECT().Trigger("achievements").Return(true).Times(2)
	gomock.InOrder(
		writer.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, httpclient.NewHTTPError(http.StatusBadGateway, "http://cms/api/achievements", "502 Bad Gateway")),
		writer.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *config.ResourceConfig, rec record.Record) (record.Record, error) {
				return rec, nil
			}),
		writer.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *config.ResourceConfig, rec record.Record) (record.Record, error) {
				return rec, nil
			}),
	)

	_, err := f.svc.CreateRecord(ctx, "achievements", row(), admin)
	require.Error(t, err, "failed create")
	assert.NotErrorIs(t, err, service.ErrDuplicateIdentity)

	_, err = f.svc.CreateRecord(ctx, "achievements", row(), admin)
	require.NoError(t, err, "a failed create does not hold the identity")

	_, err = f.svc.CreateRecord(ctx, "achievements", row(), admin)
	assert.ErrorIs(t, err, service.ErrDuplicateIdentity, "second create before refetch")

	f.store.Replace("achievements", []record.Record{
		{"id": "1", "name": "A", "achievement": "Gold", "year": "2023", "active": true},
	}, "h5")
	_, err = f.svc.CreateRecord(ctx, "achievements", row(), admin)
	require.NoError(t, err, "refetched collection is authoritative")
}

func TestUpdateRecord(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctrl := gomock.NewController(t)
	writer := sourcemocks.NewMockSourceWriter(ctrl)
	ctx := context.Background()

	_, err := f.svc.UpdateRecord(ctx, "achievements", "1", record.Record{"id": "2", "name": "A"})
	assert.ErrorIs(t, err, service.ErrIdentityImmutable)

	_, err = f.svc.UpdateRecord(ctx, "achievements", "99", record.Record{"name": "A", "achievement": "Gold", "year": "2023"})
	assert.ErrorIs(t, err, service.ErrRecordNotFound)

	_, err = f.svc.UpdateRecord(ctx, "achievements", "1", record.Record{"name": "A", "year": "last year", "achievement": "Gold"})
	assert.ErrorIs(t, err, service.ErrInvalidRecord)

	f.factory.EXPECT().CreateWriter(config.SourceTypeAPI).Return(writer, nil)
	writer.EXPECT().
		Update(gomock.Any(), gomock.Any(), "1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *config.ResourceConfig, _ string, rec record.Record) (record.Record, error) {
			assert.Equal(t, "1", rec["id"])
			return rec, nil
		})
	f.controller.EXPECT().Trigger("achievements").Return(true)

	updated, err := f.svc.UpdateRecord(ctx, "achievements", "1", record.Record{"name": "A2", "achievement": "Gold", "year": "2023"})
	require.NoError(t, err)
	assert.Equal(t, "A2", updated["name"])
}

func TestDeleteRecord(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		resource    string
		id          string
		setup       func(f *fixture, writer *sourcemocks.MockSourceWriter)
		expectedErr error
	}{
		{
			name:     "deleted and refetched",
			resource: "achievements",
			id:       "2",
			setup: func(f *fixture, writer *sourcemocks.MockSourceWriter) {
				f.factory.EXPECT().CreateWriter(config.SourceTypeAPI).Return(writer, nil)
				writer.EXPECT().Delete(gomock.Any(), gomock.Any(), "2").Return(nil)
				f.controller.EXPECT().Trigger("achievements").Return(true)
			},
		},
		{
			name:     "read-only source",
			resource: "awards",
			id:       "a1",
			setup: func(f *fixture, _ *sourcemocks.MockSourceWriter) {
				f.factory.EXPECT().CreateWriter(config.SourceTypeFile).Return(sources.NewReadOnlyWriter(), nil)
			},
			expectedErr: service.ErrReadOnlySource,
		},
		{
			name:     "backend reports missing record",
			resource: "achievements",
			id:       "2",
			setup: func(f *fixture, writer *sourcemocks.MockSourceWriter) {
				f.factory.EXPECT().CreateWriter(config.SourceTypeAPI).Return(writer, nil)
				writer.EXPECT().Delete(gomock.Any(), gomock.Any(), "2").
					Return(httpclient.NewHTTPError(http.StatusNotFound, "http://cms/api/achievements/2", "404 Not Found"))
			},
			expectedErr: service.ErrRecordNotFound,
		},
		{
			name:     "backend unavailable",
			resource: "achievements",
			id:       "2",
			setup: func(f *fixture, writer *sourcemocks.MockSourceWriter) {
				f.factory.EXPECT().CreateWriter(config.SourceTypeAPI).Return(writer, nil)
				writer.EXPECT().Delete(gomock.Any(), gomock.Any(), "2").
					Return(httpclient.NewHTTPError(http.StatusServiceUnavailable, "http://cms/api/achievements/2", "503 Service Unavailable"))
			},
			expectedErr: service.ErrUpstream,
		},
		{
			name:        "record missing from snapshot",
			resource:    "achievements",
			id:          "99",
			setup:       func(*fixture, *sourcemocks.MockSourceWriter) {},
			expectedErr: service.ErrRecordNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			writer := sourcemocks.NewMockSourceWriter(gomock.NewController(t))
			tt.setup(f, writer)

			err := f.svc.DeleteRecord(context.Background(), tt.resource, tt.id)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRequestSync(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.controller.EXPECT().Trigger("enquiries").Return(true)

	assert.NoError(t, f.svc.RequestSync(context.Background(), "enquiries"))
	assert.ErrorIs(t, f.svc.RequestSync(context.Background(), "timetable"), service.ErrResourceNotFound)
}

func TestTracing(t *testing.T) {
	t.Parallel()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	base := newFixture(t)
	cfg := &config.Config{Resources: []config.ResourceConfig{{Name: "achievements"}}}
	catalogue, err := entity.NewCatalogue(cfg)
	require.NoError(t, err)

	svc, err := New(cfg, catalogue, base.store, base.factory, WithTracer(otel.Tracer(tp)))
	require.NoError(t, err)

	result, err := svc.ListRecords(context.Background(), "achievements",
		service.WithLimit(1), service.WithFilter("year", "2023"), service.WithFilter("stream", ""))
	require.NoError(t, err)
	require.Len(t, result.Records, 1)

	writer := sourcemocks.NewMockSourceWriter(gomock.NewController(t))
	base.factory.EXPECT().CreateWriter(config.SourceTypeAPI).Return(writer, nil)
	writer.EXPECT().Delete(gomock.Any(), gomock.Any(), "2").
		Return(httpclient.NewHTTPError(http.StatusBadGateway, "http://cms/api/achievements/2", "502 Bad Gateway"))
	require.Error(t, svc.DeleteRecord(context.Background(), "achievements", "2"))

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)

	assert.Equal(t, "content.list", spans[0].Name)
	assert.Contains(t, spans[0].Attributes, otel.AttrResource.String("achievements"))
	assert.Contains(t, spans[0].Attributes, otel.AttrFilters.StringSlice([]string{"year"}))
	assert.Contains(t, spans[0].Attributes, otel.AttrHasSearch.Bool(false))
	assert.Contains(t, spans[0].Attributes, otel.AttrResultCount.Int(1))
	assert.Contains(t, spans[0].Attributes, otel.AttrTotalCount.Int(2))

	assert.Equal(t, "content.delete", spans[1].Name)
	assert.Equal(t, codes.Error, spans[1].Status.Code)
}
