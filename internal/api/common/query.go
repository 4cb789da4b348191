package common

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/campusweb/content-server/internal/filtering"
	"github.com/campusweb/content-server/internal/service"
)

// FilterParamPrefix prefixes equality filter query parameters, e.g. filter.year=2024
const FilterParamPrefix = "filter."

// ParseListOptions translates the list query parameters of r into service options.
// Recognised parameters are search, sort, order, limit, offset, cursor and filter.<field>.
func ParseListOptions(r *http.Request, visibility service.Visibility) ([]service.Option, error) {
	query := r.URL.Query()
	opts := []service.Option{service.WithVisibility(visibility)}

	if search := query.Get("search"); search != "" {
		opts = append(opts, service.WithSearch(search))
	}

	sortKey, order := query.Get("sort"), query.Get("order")
	switch {
	case sortKey != "":
		direction, err := filtering.ParseSortDirection(order)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", service.ErrInvalidQuery, err)
		}
		opts = append(opts, service.WithSort(sortKey, direction))
	case order != "":
		return nil, fmt.Errorf("%w: order requires sort", service.ErrInvalidQuery)
	}

	for _, param := range []string{"limit", "offset"} {
		raw := query.Get(param)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid %s parameter: must be an integer", service.ErrInvalidQuery, param)
		}
		if param == "limit" {
			opts = append(opts, service.WithLimit(n))
		} else {
			opts = append(opts, service.WithOffset(n))
		}
	}

	if cursor := query.Get("cursor"); cursor != "" {
		opts = append(opts, service.WithCursor(cursor))
	}

	fields := make([]string, 0)
	for key := range query {
		if strings.HasPrefix(key, FilterParamPrefix) {
			fields = append(fields, key)
		}
	}
	sort.Strings(fields)
	for _, key := range fields {
		opts = append(opts, service.WithFilter(strings.TrimPrefix(key, FilterParamPrefix), query.Get(key)))
	}

	return opts, nil
}
