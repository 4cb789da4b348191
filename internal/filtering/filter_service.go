package filtering

import (
	"fmt"
	"sort"
	"strings"

	"github.com/campusweb/content-server/internal/record"
)

// SortDirection is the ordering applied to the sort key
type SortDirection string

const (
	// SortAscending orders from smallest to largest
	SortAscending SortDirection = "asc"

	// SortDescending orders from largest to smallest
	SortDescending SortDirection = "desc"
)

// ParseSortDirection parses "asc" or "desc" (case-insensitive). Empty means ascending.
func ParseSortDirection(s string) (SortDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(SortAscending):
		return SortAscending, nil
	case string(SortDescending):
		return SortDescending, nil
	default:
		return "", fmt.Errorf("invalid sort direction %q: must be asc or desc", s)
	}
}

// FilterState is the complete, immutable input describing one filtered view
type FilterState struct {
	// SearchText is matched case-insensitively against the searchable fields.
	// Empty text matches every record.
	SearchText string

	// EqualityFilters maps a field name to its selected value.
	// A nil value means the field is not filtered.
	EqualityFilters map[string]*string

	// SortKey is the field to order by. Empty keeps the source order.
	SortKey string

	// SortDirection applies to SortKey. Empty means ascending.
	SortDirection SortDirection
}

// Selected returns a pointer to v for use in FilterState.EqualityFilters
func Selected(v string) *string {
	return &v
}

// ActiveFilters returns the names of fields with a selected value, sorted
func (s FilterState) ActiveFilters() []string {
	fields := make([]string, 0, len(s.EqualityFilters))
	for field, value := range s.EqualityFilters {
		if value != nil {
			fields = append(fields, field)
		}
	}
	sort.Strings(fields)
	return fields
}

// FilterService applies a FilterState to a record collection
type FilterService interface {
	// Apply returns a new slice holding the records that pass the text search and
	// every equality filter, ordered by the sort key. The input slice is not modified.
	Apply(records []record.Record, state FilterState) []record.Record
}

// defaultFilterService composes text, equality and sort stages
type defaultFilterService struct {
	textFilter     TextFilter
	equalityFilter EqualityFilter
	sorter         Sorter
}

// NewFilterService creates a FilterService that searches the given fields
func NewFilterService(searchFields []string) FilterService {
	return &defaultFilterService{
		textFilter:     NewDefaultTextFilter(searchFields),
		equalityFilter: NewDefaultEqualityFilter(),
		sorter:         NewDefaultSorter(),
	}
}

// Apply runs the text and equality stages, then sorts the survivors
func (s *defaultFilterService) Apply(records []record.Record, state FilterState) []record.Record {
	out := make([]record.Record, 0, len(records))
	for _, rec := range records {
		if !s.textFilter.ShouldInclude(rec, state.SearchText) {
			continue
		}
		if !s.equalityFilter.ShouldInclude(rec, state.EqualityFilters) {
			continue
		}
		out = append(out, rec)
	}

	if state.SortKey != "" {
		s.sorter.Sort(out, state.SortKey, state.SortDirection)
	}
	return out
}
