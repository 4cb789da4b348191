package filtering

import (
	"fmt"
	"strings"
	"time"

	"github.com/campusweb/content-server/internal/record"
)

// DateLayout is the calendar date format used by event records and queries
const DateLayout = "2006-01-02"

// timestampLayouts are the date-time forms accepted in place of a bare date
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseDate parses a YYYY-MM-DD date, optionally followed by a time of day.
// Timestamps are truncated to the date as written.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if d, err := time.Parse(DateLayout, s); err == nil {
		return d, nil
	}
	if len(s) > len(DateLayout) {
		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				y, m, d := ts.Date()
				return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
			}
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
}

// DateFields names the start and end date fields of an event record
type DateFields struct {
	Start string
	End   string
}

// EventsBetween returns events whose date range overlaps [from, to], in input order.
// An event with no valid end date lasts one day. Events with an unparsable start never match.
func EventsBetween(records []record.Record, from, to time.Time, fields DateFields) []record.Record {
	if to.Before(from) {
		from, to = to, from
	}

	out := make([]record.Record, 0)
	for _, rec := range records {
		start, end, ok := eventRange(rec, fields)
		if !ok {
			continue
		}
		if !start.After(to) && !end.Before(from) {
			out = append(out, rec)
		}
	}
	return out
}

// EventsOn returns events covering the given day
func EventsOn(records []record.Record, day time.Time, fields DateFields) []record.Record {
	return EventsBetween(records, day, day, fields)
}

func eventRange(rec record.Record, fields DateFields) (time.Time, time.Time, bool) {
	startText, ok := rec.Text(fields.Start)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	start, err := ParseDate(startText)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}

	end := start
	if endText, ok := rec.Text(fields.End); ok && endText != "" {
		if parsed, err := ParseDate(endText); err == nil && !parsed.Before(start) {
			end = parsed
		}
	}
	return start, end, true
}
