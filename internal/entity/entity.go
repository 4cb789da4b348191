// Package entity holds the declarative definitions of the content types served:
// which field identifies a record, which fields are searchable, filterable and
// offered as filter options, and which fields stay out of public responses.
package entity

import (
	"fmt"
	"slices"

	"github.com/gobwas/glob"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/campusweb/content-server/internal/config"
	"github.com/campusweb/content-server/internal/filtering"
	"github.com/campusweb/content-server/internal/record"
)

const (
	// DefaultIDField is the identity field used when a definition names none
	DefaultIDField = "id"

	// DefaultActiveField is the visibility flag used when a definition names none
	DefaultActiveField = "active"
)

// Kind is the scalar kind accepted for a field in admin payloads
type Kind string

const (
	// KindString accepts any string
	KindString Kind = "string"

	// KindNumber accepts a JSON number or a numeric string
	KindNumber Kind = "number"

	// KindBoolean accepts true or false
	KindBoolean Kind = "boolean"

	// KindDate accepts a YYYY-MM-DD string, optionally followed by a time
	KindDate Kind = "date"
)

// OptionField names a field whose distinct values feed a filter control
type OptionField struct {
	Field string
	Order filtering.OptionOrder
}

// Definition is the plain description of an entity type
type Definition struct {
	Name             string
	IDField          string
	ActiveField      string
	Fields           []string
	SearchFields     []string
	FilterFields     []string
	OptionFields     []OptionField
	Required         []string
	Kinds            map[string]Kind
	PublicExclude    []string
	PublicRead       bool
	PublicSubmit     bool
	DefaultSort      string
	DefaultDirection filtering.SortDirection
	DateFields       *filtering.DateFields
}

// Schema is a compiled Definition bound to a served resource
type Schema struct {
	Definition

	// Resource is the served resource name, which may differ from the entity name
	Resource string

	excludes  []glob.Glob
	validator *jsonschema.Schema
	filter    filtering.FilterService
}

// NewSchema compiles a definition for the given resource
func NewSchema(resource string, def Definition) (*Schema, error) {
	if def.IDField == "" {
		def.IDField = DefaultIDField
	}
	if def.ActiveField == "" {
		def.ActiveField = DefaultActiveField
	}
	if def.DefaultDirection == "" {
		def.DefaultDirection = filtering.SortAscending
	}

	s := &Schema{Definition: def, Resource: resource}

	for _, pattern := range def.PublicExclude {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("entity %s: invalid public exclude pattern %q: %w", def.Name, pattern, err)
		}
		s.excludes = append(s.excludes, g)
	}
	if s.isExcluded(def.IDField) {
		return nil, fmt.Errorf("entity %s: identity field %q cannot be excluded from public responses", def.Name, def.IDField)
	}

	validator, err := compileValidator(resource, &s.Definition)
	if err != nil {
		return nil, fmt.Errorf("entity %s: %w", def.Name, err)
	}
	s.validator = validator
	s.filter = filtering.NewFilterService(def.SearchFields)

	return s, nil
}

// Filter returns the list filter engine configured with this entity's searchable fields
func (s *Schema) Filter() filtering.FilterService {
	return s.filter
}

// ID returns the identity of rec
func (s *Schema) ID(rec record.Record) (string, bool) {
	id, ok := rec.Text(s.IDField)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// IsActive reports whether rec is publicly visible
func (s *Schema) IsActive(rec record.Record) bool {
	return rec.Bool(s.ActiveField)
}

// IsFilterable reports whether field accepts equality filters
func (s *Schema) IsFilterable(field string) bool {
	return slices.Contains(s.FilterFields, field)
}

// IsSortable reports whether field may be used as a sort key
func (s *Schema) IsSortable(field string) bool {
	return field == s.IDField || slices.Contains(s.Fields, field)
}

// Columns returns the field order used for tabular output: identity, declared fields, active flag
func (s *Schema) Columns() []string {
	cols := make([]string, 0, len(s.Fields)+2)
	cols = append(cols, s.IDField)
	for _, f := range s.Fields {
		if f != s.IDField && f != s.ActiveField {
			cols = append(cols, f)
		}
	}
	return append(cols, s.ActiveField)
}

// Project returns a copy of rec without the fields hidden from public responses
func (s *Schema) Project(rec record.Record) record.Record {
	if len(s.excludes) == 0 {
		return rec
	}
	out := make(record.Record, len(rec))
	for k, v := range rec {
		if !s.isExcluded(k) {
			out[k] = v
		}
	}
	return out
}

// IsPublicField reports whether field survives public projection
func (s *Schema) IsPublicField(field string) bool {
	return !s.isExcluded(field)
}

func (s *Schema) isExcluded(field string) bool {
	for _, g := range s.excludes {
		if g.Match(field) {
			return true
		}
	}
	return false
}

// Validate checks an admin payload against the entity's JSON schema
func (s *Schema) Validate(rec record.Record) error {
	if rec == nil {
		return fmt.Errorf("record must be a JSON object")
	}
	return s.validator.Validate(map[string]any(rec))
}

// FromConfig builds a schema for a configured resource, starting from the
// built-in definition named by the resource and applying its overrides
func FromConfig(res *config.ResourceConfig) (*Schema, error) {
	def, ok := Builtin(res.GetEntity())
	if !ok {
		if res.Schema == nil || len(res.Schema.Fields) == 0 {
			return nil, fmt.Errorf("resource %s: unknown entity %q and no schema.fields given", res.Name, res.GetEntity())
		}
		def = Definition{Name: res.GetEntity(), PublicRead: true}
	}

	if res.Schema != nil {
		if err := applyOverrides(&def, res.Schema); err != nil {
			return nil, fmt.Errorf("resource %s: %w", res.Name, err)
		}
	}

	return NewSchema(res.Name, def)
}

func applyOverrides(def *Definition, o *config.EntityConfig) error {
	if o.IDField != "" {
		def.IDField = o.IDField
	}
	if o.ActiveField != "" {
		def.ActiveField = o.ActiveField
	}
	if len(o.Fields) > 0 {
		def.Fields = o.Fields
	}
	if len(o.SearchFields) > 0 {
		def.SearchFields = o.SearchFields
	}
	if len(o.FilterFields) > 0 {
		def.FilterFields = o.FilterFields
	}
	if len(o.OptionFields) > 0 {
		def.OptionFields = make([]OptionField, 0, len(o.OptionFields))
		for _, opt := range o.OptionFields {
			order, err := filtering.ParseOptionOrder(opt.Order)
			if err != nil {
				return fmt.Errorf("option field %s: %w", opt.Field, err)
			}
			def.OptionFields = append(def.OptionFields, OptionField{Field: opt.Field, Order: order})
		}
	}
	if len(o.Required) > 0 {
		def.Required = o.Required
	}
	if len(o.Kinds) > 0 {
		if def.Kinds == nil {
			def.Kinds = make(map[string]Kind)
		} else {
			def.Kinds = cloneKinds(def.Kinds)
		}
		for field, kind := range o.Kinds {
			k := Kind(kind)
			switch k {
			case KindString, KindNumber, KindBoolean, KindDate:
			default:
				return fmt.Errorf("field %s: unknown kind %q", field, kind)
			}
			def.Kinds[field] = k
		}
	}
	if len(o.PublicExclude) > 0 {
		def.PublicExclude = o.PublicExclude
	}
	if o.PublicRead != nil {
		def.PublicRead = *o.PublicRead
	}
	if o.PublicSubmit != nil {
		def.PublicSubmit = *o.PublicSubmit
	}
	if o.DefaultSort != "" {
		def.DefaultSort = o.DefaultSort
	}
	if o.DefaultDirection != "" {
		dir, err := filtering.ParseSortDirection(o.DefaultDirection)
		if err != nil {
			return err
		}
		def.DefaultDirection = dir
	}
	if o.StartDateField != "" {
		def.DateFields = &filtering.DateFields{Start: o.StartDateField, End: o.EndDateField}
	}
	return nil
}

func cloneKinds(in map[string]Kind) map[string]Kind {
	out := make(map[string]Kind, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
