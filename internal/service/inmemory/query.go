package inmemory

import (
	"fmt"

	"github.com/campusweb/content-server/internal/entity"
	"github.com/campusweb/content-server/internal/filtering"
	"github.com/campusweb/content-server/internal/record"
	"github.com/campusweb/content-server/internal/service"
)

// filterState builds the engine input for a list request, rejecting fields the
// caller may not filter or sort on. Without an explicit sort key the entity's
// default sort applies.
func filterState(schema *entity.Schema, o *service.ListOptions) (filtering.FilterState, error) {
	public := o.Visibility == service.VisibilityPublic

	for field := range o.Filters {
		if !schema.IsFilterable(field) || (public && !schema.IsPublicField(field)) {
			return filtering.FilterState{}, fmt.Errorf("%w: field %q cannot be filtered", service.ErrInvalidQuery, field)
		}
	}

	state := filtering.FilterState{
		SearchText:      o.Search,
		EqualityFilters: o.Filters,
		SortKey:         o.SortKey,
		SortDirection:   o.SortDirection,
	}

	if state.SortKey == "" {
		state.SortKey = schema.DefaultSort
		state.SortDirection = schema.DefaultDirection
	} else if !schema.IsSortable(state.SortKey) || (public && !schema.IsPublicField(state.SortKey)) {
		return filtering.FilterState{}, fmt.Errorf("%w: field %q cannot be sorted", service.ErrInvalidQuery, state.SortKey)
	}
	if state.SortDirection == "" {
		state.SortDirection = filtering.SortAscending
	}

	return state, nil
}

// visibleColumns returns the schema columns visible at the given visibility
func visibleColumns(schema *entity.Schema, visibility service.Visibility) []string {
	cols := schema.Columns()
	if visibility == service.VisibilityAdmin {
		return cols
	}
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		if schema.IsPublicField(c) {
			out = append(out, c)
		}
	}
	return out
}

// paginate returns the page of records starting at offset. A zero limit returns the rest.
func paginate(records []record.Record, offset, limit int) []record.Record {
	if offset >= len(records) {
		return []record.Record{}
	}
	end := len(records)
	if limit > 0 && limit < end-offset {
		end = offset + limit
	}
	return records[offset:end]
}
