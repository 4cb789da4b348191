package entity

import (
	"fmt"
	"sort"

	"github.com/campusweb/content-server/internal/config"
	"github.com/campusweb/content-server/internal/filtering"
)

var builtins = map[string]Definition{
	"achievements": {
		Name:         "achievements",
		Fields:       []string{"name", "class", "marks", "stream", "achievement", "year", "image"},
		SearchFields: []string{"name", "achievement", "stream", "class"},
		FilterFields: []string{"year", "stream", "class"},
		OptionFields: []OptionField{
			{Field: "year", Order: filtering.OrderNumericDesc},
			{Field: "stream", Order: filtering.OrderLexical},
			{Field: "class", Order: filtering.OrderLexical},
		},
		Required:   []string{"name", "achievement", "year"},
		Kinds:      map[string]Kind{"name": KindString, "marks": KindNumber, "year": KindNumber, "achievement": KindString},
		PublicRead: true,
	},
	"awards": {
		Name:         "awards",
		Fields:       []string{"title", "description", "date", "category", "recipient", "image"},
		SearchFields: []string{"title", "description", "recipient", "category"},
		FilterFields: []string{"category", "date"},
		OptionFields: []OptionField{
			{Field: "category", Order: filtering.OrderLexical},
		},
		Required:   []string{"title", "category"},
		Kinds:      map[string]Kind{"title": KindString, "date": KindDate, "category": KindString},
		PublicRead: true,
	},
	"sports": {
		Name:         "sports",
		Fields:       []string{"name", "class", "event", "award", "year", "image"},
		SearchFields: []string{"name", "event", "award", "class"},
		FilterFields: []string{"year", "event", "class"},
		OptionFields: []OptionField{
			{Field: "year", Order: filtering.OrderNumericDesc},
			{Field: "event", Order: filtering.OrderLexical},
		},
		Required:   []string{"name", "event"},
		Kinds:      map[string]Kind{"name": KindString, "event": KindString, "year": KindNumber},
		PublicRead: true,
	},
	"alumni": {
		Name:         "alumni",
		Fields:       []string{"name", "graduationYear", "currentPosition", "company", "category", "email", "phone", "image"},
		SearchFields: []string{"name", "currentPosition", "company", "category"},
		FilterFields: []string{"graduationYear", "category"},
		OptionFields: []OptionField{
			{Field: "graduationYear", Order: filtering.OrderNumericDesc},
			{Field: "category", Order: filtering.OrderLexical},
		},
		Required:      []string{"name", "graduationYear"},
		Kinds:         map[string]Kind{"name": KindString, "graduationYear": KindNumber},
		PublicExclude: []string{"email", "phone"},
		PublicRead:    true,
	},
	"faculty": {
		Name:         "faculty",
		Fields:       []string{"name", "designation", "department", "qualification", "experience", "email", "phone", "image"},
		SearchFields: []string{"name", "designation", "department", "qualification"},
		FilterFields: []string{"department"},
		OptionFields: []OptionField{
			{Field: "department", Order: filtering.OrderLexical},
		},
		Required:      []string{"name", "designation"},
		Kinds:         map[string]Kind{"name": KindString, "designation": KindString, "experience": KindNumber},
		PublicExclude: []string{"phone", "personal*"},
		PublicRead:    true,
	},
	"feedback": {
		Name:         "feedback",
		Fields:       []string{"name", "email", "role", "message", "rating", "status", "createdAt"},
		SearchFields: []string{"name", "email", "message"},
		FilterFields: []string{"status", "role"},
		OptionFields: []OptionField{
			{Field: "status", Order: filtering.OrderLexical},
			{Field: "role", Order: filtering.OrderLexical},
		},
		Required:      []string{"name", "message"},
		Kinds:         map[string]Kind{"name": KindString, "message": KindString, "rating": KindNumber},
		PublicExclude: []string{"email", "phone", "status"},
		PublicRead:    true,
		PublicSubmit:  true,
	},
	"enquiries": {
		Name:         "enquiries",
		Fields:       []string{"name", "email", "phone", "grade", "message", "status", "createdAt"},
		SearchFields: []string{"name", "email", "phone", "message", "grade"},
		FilterFields: []string{"status", "grade"},
		OptionFields: []OptionField{
			{Field: "status", Order: filtering.OrderLexical},
			{Field: "grade", Order: filtering.OrderLexical},
		},
		Required:     []string{"name", "phone"},
		Kinds:        map[string]Kind{"name": KindString, "phone": KindString, "email": KindString},
		PublicRead:   false,
		PublicSubmit: true,
	},
	"events": {
		Name:         "events",
		Fields:       []string{"title", "description", "location", "category", "startDate", "endDate"},
		SearchFields: []string{"title", "description", "location"},
		FilterFields: []string{"category"},
		OptionFields: []OptionField{
			{Field: "category", Order: filtering.OrderLexical},
		},
		Required:    []string{"title", "startDate"},
		Kinds:       map[string]Kind{"title": KindString, "startDate": KindDate, "endDate": KindDate},
		PublicRead:  true,
		DefaultSort: "startDate",
		DateFields:  &filtering.DateFields{Start: "startDate", End: "endDate"},
	},
}

// Builtin returns a copy of the built-in definition with the given name
func Builtin(name string) (Definition, bool) {
	def, ok := builtins[name]
	if !ok {
		return Definition{}, false
	}
	def.Kinds = cloneKinds(def.Kinds)
	if def.DateFields != nil {
		df := *def.DateFields
		def.DateFields = &df
	}
	return def, true
}

// BuiltinNames returns the names of the built-in definitions, sorted
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Catalogue holds the compiled schema of every served resource
type Catalogue struct {
	schemas map[string]*Schema
	order   []string
}

// NewCatalogue builds schemas for every configured resource
func NewCatalogue(cfg *config.Config) (*Catalogue, error) {
	c := &Catalogue{schemas: make(map[string]*Schema, len(cfg.Resources))}
	for i := range cfg.Resources {
		schema, err := FromConfig(&cfg.Resources[i])
		if err != nil {
			return nil, err
		}
		c.schemas[schema.Resource] = schema
		c.order = append(c.order, schema.Resource)
	}
	return c, nil
}

// NewCatalogueFromSchemas builds a catalogue from already compiled schemas
func NewCatalogueFromSchemas(schemas ...*Schema) (*Catalogue, error) {
	c := &Catalogue{schemas: make(map[string]*Schema, len(schemas))}
	for _, s := range schemas {
		if _, dup := c.schemas[s.Resource]; dup {
			return nil, fmt.Errorf("duplicate resource %s", s.Resource)
		}
		c.schemas[s.Resource] = s
		c.order = append(c.order, s.Resource)
	}
	return c, nil
}

// Get returns the schema for a resource
func (c *Catalogue) Get(resource string) (*Schema, bool) {
	s, ok := c.schemas[resource]
	return s, ok
}

// Resources returns resource names in configuration order
func (c *Catalogue) Resources() []string {
	return append([]string(nil), c.order...)
}
