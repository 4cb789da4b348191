package service

import (
	"fmt"

	"github.com/campusweb/content-server/internal/filtering"
)

// Option is a function that sets an option for service operations
type Option func(o any) error

type visibilityOption interface {
	setVisibility(visibility Visibility) error
}

type searchOption interface {
	setSearch(search string) error
}

type filterOption interface {
	setFilter(field string, value *string) error
}

type sortOption interface {
	setSort(key string, direction filtering.SortDirection) error
}

type limitOption interface {
	setLimit(limit int) error
}

type offsetOption interface {
	setOffset(offset int) error
}

type cursorOption interface {
	setCursor(cursor string) error
}

// WithVisibility sets the visibility for read and create operations
func WithVisibility(visibility Visibility) Option {
	return func(o any) error {
		if visibility != VisibilityPublic && visibility != VisibilityAdmin {
			return fmt.Errorf("invalid visibility: %s", visibility)
		}

		switch o := o.(type) {
		case visibilityOption:
			return o.setVisibility(visibility)
		default:
			return fmt.Errorf("invalid option type: %T", o)
		}
	}
}

// WithSearch sets the free-text search for the ListRecords operation.
// Empty text is accepted and matches every record.
func WithSearch(search string) Option {
	return func(o any) error {
		switch o := o.(type) {
		case searchOption:
			return o.setSearch(search)
		default:
			return fmt.Errorf("invalid option type: %T", o)
		}
	}
}

// WithFilter adds an equality filter for the ListRecords operation.
// An empty value leaves the field unfiltered.
func WithFilter(field, value string) Option {
	return func(o any) error {
		if field == "" {
			return fmt.Errorf("%w: empty filter field", ErrInvalidQuery)
		}

		var selected *string
		if value != "" {
			selected = filtering.Selected(value)
		}

		switch o := o.(type) {
		case filterOption:
			return o.setFilter(field, selected)
		default:
			return fmt.Errorf("invalid option type: %T", o)
		}
	}
}

// WithSort sets the sort key and direction for the ListRecords operation
func WithSort(key string, direction filtering.SortDirection) Option {
	return func(o any) error {
		if key == "" {
			return fmt.Errorf("%w: empty sort key", ErrInvalidQuery)
		}
		if direction != "" && direction != filtering.SortAscending && direction != filtering.SortDescending {
			return fmt.Errorf("%w: invalid sort direction %q", ErrInvalidQuery, direction)
		}

		switch o := o.(type) {
		case sortOption:
			return o.setSort(key, direction)
		default:
			return fmt.Errorf("invalid option type: %T", o)
		}
	}
}

// WithLimit sets the page size for the ListRecords operation. Zero means no limit.
func WithLimit(limit int) Option {
	return func(o any) error {
		if limit < 0 {
			return fmt.Errorf("%w: invalid limit %d", ErrInvalidQuery, limit)
		}

		switch o := o.(type) {
		case limitOption:
			return o.setLimit(limit)
		default:
			return fmt.Errorf("invalid option type: %T", o)
		}
	}
}

// WithOffset sets the number of matching records skipped by the ListRecords operation
func WithOffset(offset int) Option {
	return func(o any) error {
		if offset < 0 {
			return fmt.Errorf("%w: invalid offset %d", ErrInvalidQuery, offset)
		}

		switch o := o.(type) {
		case offsetOption:
			return o.setOffset(offset)
		default:
			return fmt.Errorf("invalid option type: %T", o)
		}
	}
}

// WithCursor continues a ListRecords operation from a previous page
func WithCursor(cursor string) Option {
	return func(o any) error {
		if cursor == "" {
			return fmt.Errorf("%w: empty cursor", ErrInvalidQuery)
		}

		switch o := o.(type) {
		case cursorOption:
			return o.setCursor(cursor)
		default:
			return fmt.Errorf("invalid option type: %T", o)
		}
	}
}
