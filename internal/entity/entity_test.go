package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusweb/content-server/internal/config"
	"github.com/campusweb/content-server/internal/filtering"
	"github.com/campusweb/content-server/internal/record"
)

func mustSchema(t *testing.T, name string) *Schema {
	t.Helper()
	def, ok := Builtin(name)
	require.True(t, ok, "builtin %s", name)
	s, err := NewSchema(name, def)
	require.NoError(t, err)
	return s
}

func TestBuiltinDefinitionsCompile(t *testing.T) {
	t.Parallel()

	names := BuiltinNames()
	assert.Equal(t, []string{"achievements", "alumni", "awards", "enquiries", "events", "faculty", "feedback", "sports"}, names)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			s := mustSchema(t, name)
			assert.Equal(t, DefaultIDField, s.IDField)
			assert.Equal(t, DefaultActiveField, s.ActiveField)
			assert.Equal(t, filtering.SortAscending, s.DefaultDirection)
			for _, f := range s.FilterFields {
				assert.True(t, s.IsSortable(f), "filter field %s should be a declared field", f)
			}
		})
	}
}

func TestBuiltin_ReturnsCopy(t *testing.T) {
	t.Parallel()

	def, ok := Builtin("events")
	require.True(t, ok)
	def.Kinds["title"] = KindNumber
	def.DateFields.Start = "when"

	again, _ := Builtin("events")
	assert.Equal(t, KindString, again.Kinds["title"])
	assert.Equal(t, "startDate", again.DateFields.Start)

	_, ok = Builtin("timetable")
	assert.False(t, ok)
}

func TestBuiltin_Visibility(t *testing.T) {
	t.Parallel()

	enquiries, _ := Builtin("enquiries")
	assert.False(t, enquiries.PublicRead)
	assert.True(t, enquiries.PublicSubmit)

	feedback, _ := Builtin("feedback")
	assert.True(t, feedback.PublicRead)
	assert.True(t, feedback.PublicSubmit)

	faculty, _ := Builtin("faculty")
	assert.True(t, faculty.PublicRead)
	assert.False(t, faculty.PublicSubmit)
}

func TestNewSchema_RejectsExcludedIdentity(t *testing.T) {
	t.Parallel()

	_, err := NewSchema("staff", Definition{Name: "staff", Fields: []string{"name"}, PublicExclude: []string{"i*"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "identity field")

	_, err = NewSchema("staff", Definition{Name: "staff", PublicExclude: []string{"[bad"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid public exclude pattern")
}

func TestSchema_Project(t *testing.T) {
	t.Parallel()

	faculty := mustSchema(t, "faculty")
	rec := record.Record{
		"id":            "f1",
		"name":          "R. Iyer",
		"phone":         "555-0101",
		"personalEmail": "r@example.com",
		"email":         "office@example.com",
		"active":        true,
	}

	out := faculty.Project(rec)
	assert.Equal(t, record.Record{"id": "f1", "name": "R. Iyer", "email": "office@example.com", "active": true}, out)
	assert.Contains(t, rec, "phone", "source record must not be modified")
	assert.False(t, faculty.IsPublicField("personalAddress"))
	assert.True(t, faculty.IsPublicField("department"))

	achievements := mustSchema(t, "achievements")
	assert.Equal(t, rec, achievements.Project(rec))
}

func TestSchema_IDAndActive(t *testing.T) {
	t.Parallel()

	s := mustSchema(t, "awards")
	id, ok := s.ID(record.Record{"id": json.Number("12")})
	assert.True(t, ok)
	assert.Equal(t, "12", id)

	_, ok = s.ID(record.Record{"id": ""})
	assert.False(t, ok)
	_, ok = s.ID(record.Record{"title": "x"})
	assert.False(t, ok)

	assert.True(t, s.IsActive(record.Record{"active": true}))
	assert.True(t, s.IsActive(record.Record{"active": "true"}))
	assert.False(t, s.IsActive(record.Record{"active": false}))
	assert.False(t, s.IsActive(record.Record{}))
}

func TestSchema_Columns(t *testing.T) {
	t.Parallel()

	s, err := NewSchema("notices", Definition{Name: "notices", Fields: []string{"title", "id", "body", "active"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "title", "body", "active"}, s.Columns())
	assert.True(t, s.IsSortable("id"))
	assert.True(t, s.IsSortable("body"))
	assert.False(t, s.IsSortable("secret"))
}

func TestSchema_Validate(t *testing.T) {
	t.Parallel()

	s := mustSchema(t, "achievements")

	tests := []struct {
		name    string
		rec     record.Record
		wantErr bool
	}{
		{
			name: "valid with number kinds",
			rec:  record.Record{"name": "Asha", "achievement": "Gold medal", "year": json.Number("2024"), "marks": json.Number("98.5")},
		},
		{
			name: "numeric string accepted for number kind",
			rec:  record.Record{"name": "Asha", "achievement": "Gold medal", "year": "2024"},
		},
		{
			name: "optional field may be null",
			rec:  record.Record{"name": "Asha", "achievement": "Gold medal", "year": "2024", "marks": nil, "active": nil},
		},
		{
			name: "unknown scalar fields allowed",
			rec:  record.Record{"name": "Asha", "achievement": "Gold medal", "year": "2024", "house": "Blue"},
		},
		{
			name:    "missing required field",
			rec:     record.Record{"name": "Asha", "year": "2024"},
			wantErr: true,
		},
		{
			name:    "blank required string",
			rec:     record.Record{"name": "   ", "achievement": "Gold medal", "year": "2024"},
			wantErr: true,
		},
		{
			name:    "non numeric year",
			rec:     record.Record{"name": "Asha", "achievement": "Gold medal", "year": "last year"},
			wantErr: true,
		},
		{
			name:    "nested value rejected",
			rec:     record.Record{"name": "Asha", "achievement": "Gold medal", "year": "2024", "meta": map[string]any{"a": "b"}},
			wantErr: true,
		},
		{
			name:    "active must be boolean",
			rec:     record.Record{"name": "Asha", "achievement": "Gold medal", "year": "2024", "active": "yes"},
			wantErr: true,
		},
		{
			name:    "nil record",
			rec:     nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := s.Validate(tt.rec)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSchema_ValidateDates(t *testing.T) {
	t.Parallel()

	s := mustSchema(t, "events")
	assert.NoError(t, s.Validate(record.Record{"title": "Sports day", "startDate": "2024-03-10"}))
	assert.NoError(t, s.Validate(record.Record{"title": "Sports day", "startDate": "2024-03-10T09:00:00Z", "endDate": nil}))
	assert.NoError(t, s.Validate(record.Record{"title": "Sports day", "startDate": "2024-03-10 09:00"}))
	assert.Error(t, s.Validate(record.Record{"title": "Sports day", "startDate": "10/03/2024"}))
	assert.Error(t, s.Validate(record.Record{"title": "Sports day", "startDate": "2024-03-10garbage"}))
}

func TestFromConfig(t *testing.T) {
	t.Parallel()

	hidden := false

	tests := []struct {
		name    string
		res     config.ResourceConfig
		wantErr string
		check   func(t *testing.T, s *Schema)
	}{
		{
			name: "builtin by resource name",
			res:  config.ResourceConfig{Name: "sports"},
			check: func(t *testing.T, s *Schema) {
				t.Helper()
				assert.Equal(t, "sports", s.Resource)
				assert.Equal(t, "sports", s.Name)
			},
		},
		{
			name: "renamed resource with overrides",
			res: config.ResourceConfig{
				Name:   "toppers",
				Entity: "achievements",
				Schema: &config.EntityConfig{
					IDField:          "_id",
					PublicRead:       &hidden,
					OptionFields:     []config.OptionFieldConfig{{Field: "class"}},
					Kinds:            map[string]string{"rank": "number"},
					DefaultSort:      "marks",
					DefaultDirection: "desc",
				},
			},
			check: func(t *testing.T, s *Schema) {
				t.Helper()
				assert.Equal(t, "toppers", s.Resource)
				assert.Equal(t, "_id", s.IDField)
				assert.False(t, s.PublicRead)
				assert.Equal(t, []OptionField{{Field: "class", Order: filtering.OrderLexical}}, s.OptionFields)
				assert.Equal(t, KindNumber, s.Kinds["rank"])
				assert.Equal(t, KindNumber, s.Kinds["year"])
				assert.Equal(t, filtering.SortDescending, s.DefaultDirection)
				assert.Error(t, s.Validate(record.Record{"name": "A", "achievement": "B", "year": "2020", "rank": "first"}))

				builtin, _ := Builtin("achievements")
				assert.NotContains(t, builtin.Kinds, "rank")
			},
		},
		{
			name: "custom entity with fields",
			res: config.ResourceConfig{
				Name: "notices",
				Schema: &config.EntityConfig{
					Fields:         []string{"title", "postedOn", "until"},
					SearchFields:   []string{"title"},
					StartDateField: "postedOn",
					EndDateField:   "until",
				},
			},
			check: func(t *testing.T, s *Schema) {
				t.Helper()
				assert.True(t, s.PublicRead)
				require.NotNil(t, s.DateFields)
				assert.Equal(t, filtering.DateFields{Start: "postedOn", End: "until"}, *s.DateFields)
			},
		},
		{
			name:    "unknown entity without fields",
			res:     config.ResourceConfig{Name: "timetable"},
			wantErr: `unknown entity "timetable"`,
		},
		{
			name:    "invalid kind",
			res:     config.ResourceConfig{Name: "awards", Schema: &config.EntityConfig{Kinds: map[string]string{"date": "datetime"}}},
			wantErr: "unknown kind",
		},
		{
			name:    "invalid option order",
			res:     config.ResourceConfig{Name: "awards", Schema: &config.EntityConfig{OptionFields: []config.OptionFieldConfig{{Field: "category", Order: "random"}}}},
			wantErr: "invalid option order",
		},
		{
			name:    "invalid direction",
			res:     config.ResourceConfig{Name: "awards", Schema: &config.EntityConfig{DefaultDirection: "up"}},
			wantErr: "invalid sort direction",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, err := FromConfig(&tt.res)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, s)
		})
	}
}

func TestCatalogue(t *testing.T) {
	t.Parallel()

	cat, err := NewCatalogue(&config.Config{Resources: []config.ResourceConfig{
		{Name: "faculty"},
		{Name: "achievements"},
	}})
	require.NoError(t, err)
	assert.Equal(t, []string{"faculty", "achievements"}, cat.Resources())

	s, ok := cat.Get("faculty")
	require.True(t, ok)
	assert.Equal(t, "faculty", s.Resource)

	_, ok = cat.Get("sports")
	assert.False(t, ok)

	_, err = NewCatalogue(&config.Config{Resources: []config.ResourceConfig{{Name: "timetable"}}})
	assert.Error(t, err)

	_, err = NewCatalogueFromSchemas(s, s)
	assert.Error(t, err)
}
