// Package filtering implements the list filter engine used by every content
// listing the server returns.
//
// The engine is a pure function of a record collection and a FilterState. It
// never mutates its input, keeps no state between calls and cannot fail:
// records with missing or malformed fields simply do not match.
//
// # Architecture
//
// The engine is composed of three parts:
//
//   - TextFilter: case-insensitive substring search over a declarative list of
//     searchable fields supplied per entity type
//   - EqualityFilter: exact string equality on selected field values, combined
//     with logical AND
//   - Sorter: stable ordering by a single key, numeric when both values parse
//     as numbers and lexicographic otherwise
//
// FilterService wires the three together. A record is kept only when it passes
// the text search AND every active equality filter; the survivors are then
// sorted.
//
// # Missing values
//
// A field that is absent, null or not a scalar never contains a non-empty
// search term and never equals a selected filter value. When sorting, records
// missing the sort key are placed after every record that has it, in both
// directions, keeping their relative order.
//
// # Filter options
//
// DistinctValues derives the option list for a filter control from the
// current collection: empty and missing values are dropped, duplicates are
// removed and the result is sorted lexicographically or, for year-like
// fields, numerically with the most recent first.
//
// # Calendar lookup
//
// EventsBetween selects event records whose [start, end] date range overlaps
// a requested window. Dates use the YYYY-MM-DD layout; an event without an
// end date lasts a single day.
//
// # Usage Example
//
//	svc := NewFilterService([]string{"name", "achievement", "stream", "class"})
//	year := "2023"
//	view := svc.Apply(records, FilterState{
//		EqualityFilters: map[string]*string{"year": &year},
//		SortKey:         "marks",
//		SortDirection:   SortDescending,
//	})
package filtering
