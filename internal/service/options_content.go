package service

import (
	"github.com/campusweb/content-server/internal/filtering"
)

// ListOptions is the options for the ListRecords operation
type ListOptions struct {
	Visibility    Visibility
	Search        string
	Filters       map[string]*string
	SortKey       string
	SortDirection filtering.SortDirection
	Limit         int
	Offset        int
	Cursor        string
}

//nolint:unparam
func (o *ListOptions) setVisibility(visibility Visibility) error {
	o.Visibility = visibility
	return nil
}

//nolint:unparam
func (o *ListOptions) setSearch(search string) error {
	o.Search = search
	return nil
}

//nolint:unparam
func (o *ListOptions) setFilter(field string, value *string) error {
	if o.Filters == nil {
		o.Filters = make(map[string]*string)
	}
	o.Filters[field] = value
	return nil
}

//nolint:unparam
func (o *ListOptions) setSort(key string, direction filtering.SortDirection) error {
	o.SortKey = key
	o.SortDirection = direction
	return nil
}

//nolint:unparam
func (o *ListOptions) setLimit(limit int) error {
	o.Limit = limit
	return nil
}

//nolint:unparam
func (o *ListOptions) setOffset(offset int) error {
	o.Offset = offset
	return nil
}

//nolint:unparam
func (o *ListOptions) setCursor(cursor string) error {
	o.Cursor = cursor
	return nil
}

// RecordOptions is the options for single-record, filter option, resource listing and create operations
type RecordOptions struct {
	Visibility Visibility
}

//nolint:unparam
func (o *RecordOptions) setVisibility(visibility Visibility) error {
	o.Visibility = visibility
	return nil
}

// ApplyOptions builds T from its zero value. Visibility defaults to public.
func ApplyOptions[T ListOptions | RecordOptions](opts ...Option) (*T, error) {
	out := new(T)
	for _, opt := range opts {
		if err := opt(out); err != nil {
			return nil, err
		}
	}
	switch o := any(out).(type) {
	case *ListOptions:
		if o.Visibility == "" {
			o.Visibility = VisibilityPublic
		}
	case *RecordOptions:
		if o.Visibility == "" {
			o.Visibility = VisibilityPublic
		}
	}
	return out, nil
}
