package filtering

import "github.com/campusweb/content-server/internal/record"

// EqualityFilter handles categorical filters using exact string matching
type EqualityFilter interface {
	// ShouldInclude reports whether rec carries every selected value.
	// Fields mapped to nil are not filtered.
	ShouldInclude(rec record.Record, filters map[string]*string) bool
}

// DefaultEqualityFilter compares the text form of field values byte for byte
type DefaultEqualityFilter struct{}

// NewDefaultEqualityFilter creates a new DefaultEqualityFilter
func NewDefaultEqualityFilter() *DefaultEqualityFilter {
	return &DefaultEqualityFilter{}
}

// ShouldInclude combines all active filters with logical AND.
// A missing field never equals a selected value.
func (*DefaultEqualityFilter) ShouldInclude(rec record.Record, filters map[string]*string) bool {
	for field, selected := range filters {
		if selected == nil {
			continue
		}
		value, ok := rec.Text(field)
		if !ok || value != *selected {
			return false
		}
	}
	return true
}
