package filtering

import (
	"cmp"
	"slices"
	"strings"

	"github.com/campusweb/content-server/internal/record"
)

// Sorter orders records by a single key
type Sorter interface {
	// Sort orders records in place. Equal keys keep their relative order.
	Sort(records []record.Record, key string, direction SortDirection)
}

// DefaultSorter compares numerically when both values parse as numbers and
// lexicographically otherwise
type DefaultSorter struct{}

// NewDefaultSorter creates a new DefaultSorter
func NewDefaultSorter() *DefaultSorter {
	return &DefaultSorter{}
}

// Sort performs a stable sort. Records missing the key, or holding an empty
// value, go last in either direction.
func (*DefaultSorter) Sort(records []record.Record, key string, direction SortDirection) {
	desc := direction == SortDescending
	slices.SortStableFunc(records, func(a, b record.Record) int {
		av, aok := sortValue(a, key)
		bv, bok := sortValue(b, key)
		switch {
		case !aok && !bok:
			return 0
		case !aok:
			return 1
		case !bok:
			return -1
		}

		c := CompareValues(av, bv)
		if desc {
			return -c
		}
		return c
	})
}

func sortValue(rec record.Record, key string) (string, bool) {
	v, ok := rec.Text(key)
	return v, ok && v != ""
}

// CompareValues compares two field values the way the sorter does
func CompareValues(a, b string) int {
	if af, ok := record.ParseNumber(a); ok {
		if bf, ok := record.ParseNumber(b); ok {
			return cmp.Compare(af, bf)
		}
	}
	return strings.Compare(a, b)
}
