package filtering

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/campusweb/content-server/internal/record"
)

// TextFilter handles free-text search over a fixed set of fields
type TextFilter interface {
	// ShouldInclude reports whether searchText occurs in any searchable field of rec.
	// Empty searchText always matches.
	ShouldInclude(rec record.Record, searchText string) bool
}

// DefaultTextFilter matches using Unicode case folding
type DefaultTextFilter struct {
	fields []string
}

// NewDefaultTextFilter creates a DefaultTextFilter over the given fields
func NewDefaultTextFilter(fields []string) *DefaultTextFilter {
	return &DefaultTextFilter{fields: append([]string(nil), fields...)}
}

// ShouldInclude reports whether any searchable field contains searchText, ignoring case.
// Missing and non-scalar fields never match.
func (f *DefaultTextFilter) ShouldInclude(rec record.Record, searchText string) bool {
	if searchText == "" {
		return true
	}

	// Caser carries state and is not safe for concurrent use
	folder := cases.Fold()
	needle := folder.String(searchText)

	for _, field := range f.fields {
		value, ok := rec.Text(field)
		if !ok || value == "" {
			continue
		}
		if strings.Contains(folder.String(value), needle) {
			return true
		}
	}
	return false
}
