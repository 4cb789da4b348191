package filtering

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusweb/content-server/internal/record"
)

func achievementRecords() []record.Record {
	return []record.Record{
		{"id": "1", "name": "A", "marks": json.Number("95"), "year": "2023", "stream": "Science"},
		{"id": "2", "name": "B", "marks": json.Number("80"), "year": "2022", "stream": "Commerce"},
		{"id": "3", "name": "C", "marks": json.Number("90"), "year": "2023", "stream": "Science"},
	}
}

func names(records []record.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		n, _ := r.Text("name")
		out = append(out, n)
	}
	return out
}

func TestParseSortDirection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    SortDirection
		wantErr bool
	}{
		{input: "", want: SortAscending},
		{input: "asc", want: SortAscending},
		{input: "DESC", want: SortDescending},
		{input: "up", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParseSortDirection(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterService_Apply(t *testing.T) {
	t.Parallel()

	svc := NewFilterService([]string{"name", "achievement", "stream", "class"})

	tests := []struct {
		name     string
		state    FilterState
		expected []string
	}{
		{
			name: "year filter sorted by marks descending",
			state: FilterState{
				EqualityFilters: map[string]*string{"year": Selected("2023")},
				SortKey:         "marks",
				SortDirection:   SortDescending,
			},
			expected: []string{"A", "C"},
		},
		{
			name:     "search matches name case-insensitively",
			state:    FilterState{SearchText: "b"},
			expected: []string{"B"},
		},
		{
			name:     "empty state keeps source order",
			state:    FilterState{},
			expected: []string{"A", "B", "C"},
		},
		{
			name: "nil selection is no filter",
			state: FilterState{
				EqualityFilters: map[string]*string{"year": nil},
			},
			expected: []string{"A", "B", "C"},
		},
		{
			name: "search and filter combine with AND",
			state: FilterState{
				SearchText:      "science",
				EqualityFilters: map[string]*string{"year": Selected("2022")},
			},
			expected: []string{},
		},
		{
			name: "multiple filters combine with AND",
			state: FilterState{
				EqualityFilters: map[string]*string{
					"year":   Selected("2023"),
					"stream": Selected("Science"),
				},
				SortKey: "marks",
			},
			expected: []string{"C", "A"},
		},
		{
			name: "filter on missing field matches nothing",
			state: FilterState{
				EqualityFilters: map[string]*string{"house": Selected("Red")},
			},
			expected: []string{},
		},
		{
			name: "search on non-searchable field matches nothing",
			state: FilterState{
				SearchText: "2023",
			},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := svc.Apply(achievementRecords(), tt.state)
			assert.Equal(t, tt.expected, names(got))
		})
	}
}

func TestFilterService_ApplyDoesNotMutateSource(t *testing.T) {
	t.Parallel()

	svc := NewFilterService([]string{"name"})
	source := achievementRecords()
	snapshot := names(source)

	got := svc.Apply(source, FilterState{SortKey: "marks", SortDirection: SortAscending})

	assert.Equal(t, []string{"B", "C", "A"}, names(got))
	assert.Equal(t, snapshot, names(source))

	got[0] = record.Record{"name": "Z"}
	assert.Equal(t, snapshot, names(source))
}

func TestFilterService_ApplyIsIdempotent(t *testing.T) {
	t.Parallel()

	svc := NewFilterService([]string{"name", "stream"})
	state := FilterState{
		SearchText:      "c",
		EqualityFilters: map[string]*string{"year": Selected("2023")},
		SortKey:         "marks",
		SortDirection:   SortDescending,
	}

	once := svc.Apply(achievementRecords(), state)
	twice := svc.Apply(once, state)
	assert.Equal(t, once, twice)
}

func TestFilterService_EmptySearchEqualsNoSearch(t *testing.T) {
	t.Parallel()

	svc := NewFilterService([]string{"name"})
	withEmpty := svc.Apply(achievementRecords(), FilterState{SearchText: ""})
	without := svc.Apply(achievementRecords(), FilterState{})
	assert.Equal(t, without, withEmpty)
}

func TestFilterService_EveryResultSatisfiesPredicates(t *testing.T) {
	t.Parallel()

	svc := NewFilterService([]string{"name", "stream"})
	state := FilterState{
		SearchText:      "SCI",
		EqualityFilters: map[string]*string{"year": Selected("2023")},
	}

	text := NewDefaultTextFilter([]string{"name", "stream"})
	for _, rec := range svc.Apply(achievementRecords(), state) {
		year, ok := rec.Text("year")
		require.True(t, ok)
		assert.Equal(t, "2023", year)
		assert.True(t, text.ShouldInclude(rec, state.SearchText))
	}
}

func TestFilterService_EmptyCollection(t *testing.T) {
	t.Parallel()

	svc := NewFilterService([]string{"name"})
	got := svc.Apply(nil, FilterState{SearchText: "a", SortKey: "name"})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFilterState_ActiveFilters(t *testing.T) {
	t.Parallel()

	state := FilterState{EqualityFilters: map[string]*string{
		"year":   Selected("2023"),
		"class":  nil,
		"stream": Selected(""),
	}}
	assert.Equal(t, []string{"stream", "year"}, state.ActiveFilters())
}

type stubSorter struct{ called bool }

func (s *stubSorter) Sort([]record.Record, string, SortDirection) { s.called = true }

func TestFilterService_SkipsSortWithoutKey(t *testing.T) {
	t.Parallel()

	sorter := &stubSorter{}
	svc := &defaultFilterService{
		textFilter:     NewDefaultTextFilter(nil),
		equalityFilter: NewDefaultEqualityFilter(),
		sorter:         sorter,
	}

	svc.Apply(achievementRecords(), FilterState{})
	assert.False(t, sorter.called)

	svc.Apply(achievementRecords(), FilterState{SortKey: "name"})
	assert.True(t, sorter.called)
}
