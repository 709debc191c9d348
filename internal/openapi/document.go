package openapi

import (
	"bytes"
	"encoding/json"
)

// Document is the subset of an OpenAPI 3.0 document the generator emits.
type Document struct {
	OpenAPI      string        `json:"openapi"`
	Servers      []Server      `json:"servers"`
	Info         Info          `json:"info"`
	ExternalDocs *ExternalDocs `json:"externalDocs,omitempty"`
	Tags         []Tag         `json:"tags"`
	TagGroups    []TagGroup    `json:"x-tagGroups"`
	Paths        struct{}      `json:"paths"`
	Components   Components    `json:"components"`
}

type Server struct {
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

type Info struct {
	Title       string   `json:"title"`
	Version     string   `json:"version"`
	Description string   `json:"description,omitempty"`
	Contact     *Contact `json:"contact,omitempty"`
	License     *License `json:"license,omitempty"`
	Logo        *Logo    `json:"x-logo,omitempty"`
}

type Contact struct {
	Name  string `json:"name,omitempty"`
	URL   string `json:"url,omitempty"`
	Email string `json:"email,omitempty"`
}

type License struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Logo is the ReDoc x-logo extension.
type Logo struct {
	URL             string `json:"url"`
	AltText         string `json:"altText,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
}

type ExternalDocs struct {
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
}

type Tag struct {
	Name        string `json:"name"`
	DisplayName string `json:"x-displayName"`
	Description string `json:"description"`
}

type TagGroup struct {
	Name string   `json:"name"`
	Tags []string `json:"tags"`
}

// Components holds the schemas. Map keys are written sorted.
type Components struct {
	Schemas map[string]*Schema `json:"schemas"`
}

// Schema is an OpenAPI 3.0 schema object.
type Schema struct {
	Ref                  string     `json:"$ref,omitempty"`
	Title                string     `json:"title,omitempty"`
	Description          string     `json:"description,omitempty"`
	Type                 string     `json:"type,omitempty"`
	Format               string     `json:"format,omitempty"`
	Pattern              string     `json:"pattern,omitempty"`
	Default              any        `json:"default,omitempty"`
	ReadOnly             bool       `json:"readOnly,omitempty"`
	Enum                 []string   `json:"enum,omitempty"`
	Minimum              *float64   `json:"minimum,omitempty"`
	Maximum              *float64   `json:"maximum,omitempty"`
	ExclusiveMinimum     bool       `json:"exclusiveMinimum,omitempty"`
	MinLength            *int       `json:"minLength,omitempty"`
	MaxLength            *int       `json:"maxLength,omitempty"`
	MinItems             *int       `json:"minItems,omitempty"`
	MaxItems             *int       `json:"maxItems,omitempty"`
	Items                *Schema    `json:"items,omitempty"`
	AllOf                []*Schema  `json:"allOf,omitempty"`
	AnyOf                []*Schema  `json:"anyOf,omitempty"`
	Properties           Properties `json:"properties,omitempty"`
	Required             []string   `json:"required,omitempty"`
	AdditionalProperties *bool      `json:"additionalProperties,omitempty"`
}

// Property is one named entry of Properties.
type Property struct {
	Name   string
	Schema *Schema
}

// Properties is an ordered set of object properties. It marshals as a JSON
// object that keeps insertion order.
type Properties []Property

func (ps Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range ps {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(p.Schema)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (ps *Properties) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return err
	}
	var out Properties
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := tok.(string)
		var s Schema
		if err := dec.Decode(&s); err != nil {
			return err
		}
		out = append(out, Property{Name: name, Schema: &s})
	}
	*ps = out
	return nil
}

// Get returns the named property schema, or nil.
func (ps Properties) Get(name string) *Schema {
	for _, p := range ps {
		if p.Name == name {
			return p.Schema
		}
	}
	return nil
}

// Names returns the property names in order.
func (ps Properties) Names() []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

// MarshalIndent renders d as indented JSON with a trailing newline.
func (d *Document) MarshalIndent() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
