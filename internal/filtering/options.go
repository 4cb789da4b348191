package filtering

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/campusweb/content-server/internal/record"
)

// OptionOrder controls how distinct filter option values are sorted
type OptionOrder string

const (
	// OrderLexical sorts option values as strings, ascending
	OrderLexical OptionOrder = "lexical"

	// OrderNumericDesc sorts numeric option values from largest to smallest.
	// Used for year-like fields so the most recent year comes first.
	// Non-numeric values follow in lexical order.
	OrderNumericDesc OptionOrder = "numeric-desc"
)

// ParseOptionOrder parses an option order name. Empty means lexical.
func ParseOptionOrder(s string) (OptionOrder, error) {
	switch OptionOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", OrderLexical:
		return OrderLexical, nil
	case OrderNumericDesc:
		return OrderNumericDesc, nil
	default:
		return "", fmt.Errorf("invalid option order %q: must be %s or %s", s, OrderLexical, OrderNumericDesc)
	}
}

// DistinctValues returns the distinct non-empty values of field across records.
// Missing, null and empty-string values are excluded.
func DistinctValues(records []record.Record, field string, order OptionOrder) []string {
	seen := make(map[string]struct{})
	values := make([]string, 0)
	for _, rec := range records {
		v, ok := rec.Text(field)
		if !ok || v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}

	if order == OrderNumericDesc {
		slices.SortFunc(values, compareNumericDesc)
	} else {
		slices.Sort(values)
	}
	return values
}

func compareNumericDesc(a, b string) int {
	af, aok := record.ParseNumber(a)
	bf, bok := record.ParseNumber(b)
	switch {
	case aok && bok:
		if c := cmp.Compare(bf, af); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	case aok:
		return -1
	case bok:
		return 1
	default:
		return strings.Compare(a, b)
	}
}
