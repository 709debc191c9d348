// Package openapi renders the entity descriptors of the domain package as an
// OpenAPI 3.0 document for schema browsers such as ReDoc.
package openapi

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/couchcryptid/uwg-schema/internal/domain"
)

// Version is the OpenAPI version written to generated documents.
const Version = "3.0.2"

const refPrefix = "#/components/schemas/"

// ErrMissingVersion is returned when Options carries no document version.
var ErrMissingVersion = errors.New("openapi: schema version must be specified")

// Options describes the document being generated. Version is required.
type Options struct {
	Title        string
	Version      string
	Description  string
	Contact      *Contact
	License      *License
	Logo         *Logo
	ExternalDocs *ExternalDocs
}

// Generate builds an OpenAPI document with one component schema per entity
// and enum. Output is deterministic for the same input.
func Generate(schemas []*domain.EntitySchema, enums []domain.EnumSchema, opts Options) (*Document, error) {
	if opts.Version == "" {
		return nil, ErrMissingVersion
	}

	doc := &Document{
		OpenAPI: Version,
		Servers: []Server{},
		Info: Info{
			Title:       opts.Title,
			Version:     opts.Version,
			Description: opts.Description,
			Contact:     opts.Contact,
			License:     opts.License,
			Logo:        opts.Logo,
		},
		ExternalDocs: opts.ExternalDocs,
		Components:   Components{Schemas: make(map[string]*Schema, len(schemas)+len(enums))},
	}

	for _, s := range schemas {
		if _, dup := doc.Components.Schemas[s.Name]; dup {
			return nil, fmt.Errorf("openapi: duplicate schema %q", s.Name)
		}
		obj, err := objectSchema(s, opts.Version)
		if err != nil {
			return nil, err
		}
		doc.Components.Schemas[s.Name] = obj
	}
	for _, e := range enums {
		if _, dup := doc.Components.Schemas[e.Name]; dup {
			return nil, fmt.Errorf("openapi: duplicate schema %q", e.Name)
		}
		doc.Components.Schemas[e.Name] = &Schema{
			Title:       e.Name,
			Description: e.Description,
			Type:        "string",
			Enum:        slices.Clone(e.Rule.Members),
		}
	}

	names := make([]string, 0, len(doc.Components.Schemas))
	for name := range doc.Components.Schemas {
		names = append(names, name)
	}
	slices.Sort(names)
	tagNames := make([]string, len(names))
	doc.Tags = make([]Tag, len(names))
	for i, name := range names {
		doc.Tags[i] = tag(name)
		tagNames[i] = doc.Tags[i].Name
	}
	slices.Sort(tagNames)
	doc.TagGroups = []TagGroup{{Name: "Models", Tags: tagNames}}

	return doc, nil
}

func tag(name string) Tag {
	return Tag{
		Name:        strings.ToLower(name) + "_model",
		DisplayName: name,
		Description: fmt.Sprintf("<SchemaDefinition schemaRef=\"%s%s\" />\n", refPrefix, name),
	}
}

// objectSchema renders an entity. Required properties come first, then the
// read-only type discriminator, then the optional ones, each in declaration
// order.
func objectSchema(s *domain.EntitySchema, version string) (*Schema, error) {
	closed := false
	out := &Schema{
		Title:                s.Name,
		Description:          s.Description,
		Type:                 "object",
		AdditionalProperties: &closed,
	}

	var required, optional Properties
	optional = append(optional, Property{Name: "type", Schema: &Schema{
		Title:    "Type",
		Type:     "string",
		Default:  s.Name,
		Pattern:  "^" + s.Name + "$",
		ReadOnly: true,
	}})
	for _, f := range s.Fields {
		if f.Name == "version" && f.Kind == domain.KindString {
			f.Default = version
		}
		prop, err := fieldSchema(f)
		if err != nil {
			return nil, fmt.Errorf("openapi: %s.%s: %w", s.Name, f.Name, err)
		}
		if f.Required {
			required = append(required, Property{Name: f.Name, Schema: prop})
			out.Required = append(out.Required, f.Name)
			continue
		}
		optional = append(optional, Property{Name: f.Name, Schema: prop})
	}
	out.Properties = append(required, optional...)
	return out, nil
}

func fieldSchema(f domain.Field) (*Schema, error) {
	var s *Schema
	switch f.Kind {
	case domain.KindNumber, domain.KindInteger:
		s = numberSchema(f.Number)
	case domain.KindString:
		s = textSchema(f.Text)
	case domain.KindBoolean:
		s = &Schema{Type: "boolean"}
	case domain.KindEnum:
		s = &Schema{AllOf: []*Schema{ref(f.Ref)}}
	case domain.KindObject:
		s = &Schema{AllOf: []*Schema{ref(f.Ref)}}
	case domain.KindSchedule:
		s = matrixSchema(f.Matrix)
	case domain.KindNumberList:
		s = &Schema{Type: "array", Items: numberSchema(f.Number), MinItems: optionalCount(f.MinItems)}
	case domain.KindObjectList:
		s = &Schema{Type: "array", Items: ref(f.Ref), MinItems: optionalCount(f.MinItems)}
	case domain.KindStockTable:
		s = stockSchema(f)
	default:
		return nil, fmt.Errorf("unsupported field kind %s", f.Kind)
	}
	s.Title = title(f.Name)
	s.Description = f.Description
	if f.Default != nil {
		s.Default = defaultValue(f.Default)
	}
	return setFormat(s), nil
}

func numberSchema(r domain.NumberRule) *Schema {
	s := &Schema{Type: "number"}
	if r.Integer {
		s.Type = "integer"
	}
	if r.HasMin {
		s.Minimum = floatPtr(r.Min)
		s.ExclusiveMinimum = r.ExclusiveMin
	}
	if r.HasMax {
		s.Maximum = floatPtr(r.Max)
	}
	return s
}

func textSchema(r domain.TextRule) *Schema {
	s := &Schema{Type: "string"}
	if r.MinLen > 0 {
		s.MinLength = intPtr(r.MinLen)
	}
	if r.MaxLen > 0 {
		s.MaxLength = intPtr(r.MaxLen)
	}
	if r.Pattern != nil {
		s.Pattern = r.Pattern.String()
	}
	return s
}

func matrixSchema(r domain.MatrixRule) *Schema {
	row := &Schema{Type: "array", Items: &Schema{Type: "number"}, MinItems: intPtr(r.Cols), MaxItems: intPtr(r.Cols)}
	return &Schema{Type: "array", Items: row, MinItems: intPtr(r.Rows), MaxItems: intPtr(r.Rows)}
}

// stockSchema describes rows of [building_type, built_era, fraction].
// OpenAPI 3.0 has no tuple type, so the row items list the three positions
// as alternatives in order.
func stockSchema(f domain.Field) *Schema {
	buildingType := &Schema{Type: "string", MinLength: intPtr(1)}
	fraction := numberSchema(f.Number)
	row := &Schema{
		Type:     "array",
		Items:    &Schema{AnyOf: []*Schema{buildingType, ref(f.Ref), fraction}},
		MinItems: intPtr(3),
		MaxItems: intPtr(3),
	}
	return &Schema{Type: "array", Items: row, MinItems: optionalCount(f.MinItems)}
}

func ref(name string) *Schema {
	return &Schema{Ref: refPrefix + name}
}

// setFormat adds double and int32 formats to numeric schemas, descending
// into array items and anyOf alternatives.
func setFormat(s *Schema) *Schema {
	if s == nil || s.Ref != "" {
		return s
	}
	switch s.Type {
	case "number":
		if s.Format == "" {
			s.Format = "double"
		}
	case "integer":
		if s.Format == "" {
			s.Format = "int32"
		}
	case "array":
		s.Items = setFormat(s.Items)
	}
	for i, alt := range s.AnyOf {
		s.AnyOf[i] = setFormat(alt)
	}
	return s
}

// defaultValue converts descriptor defaults to their JSON form.
func defaultValue(v any) any {
	switch d := v.(type) {
	case domain.WeekSchedule:
		return d.Rows()
	case domain.CondType:
		return string(d)
	case domain.BuiltEra:
		return string(d)
	default:
		return v
	}
}

// title turns a snake_case field name into "Snake Case".
func title(name string) string {
	words := strings.Split(name, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func intPtr(n int) *int { return &n }

func floatPtr(f float64) *float64 { return &f }

func optionalCount(n int) *int {
	if n == 0 {
		return nil
	}
	return intPtr(n)
}

// ModelOptions returns the document metadata published with the UWG models.
func ModelOptions(version string) Options {
	return Options{
		Title:       "Urban Weather Generator Schema",
		Version:     version,
		Description: "Data model of the Urban Weather Generator: materials, building elements and models, schedules and the UWG simulation document with its building stock.",
		Contact: &Contact{
			Name: "Urban Weather Generator",
			URL:  "https://github.com/ladybug-tools/uwg-schema",
		},
		License: &License{
			Name: "BSD-3-Clause",
			URL:  "https://opensource.org/licenses/BSD-3-Clause",
		},
		Logo: &Logo{
			URL:     "https://raw.githubusercontent.com/ladybug-tools/artwork/master/icons_bugs/png/uwg.png",
			AltText: "UWG logo",
		},
		ExternalDocs: &ExternalDocs{
			Description: "UWG model reference",
			URL:         "https://www.ladybug.tools/uwg/docs/",
		},
	}
}

// Models generates the document for every domain entity and enum.
func Models(version string) (*Document, error) {
	return Generate(domain.Schemas(), domain.Enums(), ModelOptions(version))
}
