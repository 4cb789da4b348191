// Package record defines the flat content record shared by every entity type
// served by the content server, plus the scalar conversions used when records
// are searched, compared and exported.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Record is a flat content object decoded from the upstream backend.
// Values are scalars (string, json.Number, bool) or nil. Numbers keep their
// textual form so "95" and 95 compare and display the same way.
type Record map[string]any

// Text returns the string form of a scalar field.
// The second return is false when the field is absent, null, or not a scalar.
func (r Record) Text(field string) (string, bool) {
	v, ok := r[field]
	if !ok {
		return "", false
	}
	return Scalar(v)
}

// Number returns the field value as a finite float64 if its text form parses as one
func (r Record) Number(field string) (float64, bool) {
	s, ok := r.Text(field)
	if !ok {
		return 0, false
	}
	return ParseNumber(s)
}

// Bool reports whether the field holds boolean true or the string "true"
func (r Record) Bool(field string) bool {
	switch v := r[field].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	default:
		return false
	}
}

// Clone returns a shallow copy. Values are scalars so a shallow copy is a full copy.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Scalar converts a decoded JSON value to its string form
func Scalar(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case json.Number:
		return val.String(), true
	case bool:
		return strconv.FormatBool(val), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), true
	case int:
		return strconv.Itoa(val), true
	case int32:
		return strconv.FormatInt(int64(val), 10), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case uint:
		return strconv.FormatUint(uint64(val), 10), true
	case uint64:
		return strconv.FormatUint(val, 10), true
	default:
		return "", false
	}
}

// ParseNumber parses s as a finite decimal number
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// DecodeList decodes a JSON array of objects, keeping numbers as json.Number
func DecodeList(data []byte) ([]Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw []map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode record list: %w", err)
	}

	out := make([]Record, 0, len(raw))
	for _, m := range raw {
		out = append(out, Record(m))
	}
	return out, nil
}

// Decode decodes a single JSON object, keeping numbers as json.Number
func Decode(data []byte) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("record must be a JSON object")
	}
	return Record(raw), nil
}
