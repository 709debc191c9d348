package domain

import (
	"fmt"
	"slices"
)

// Kind is the wire type of a declared field.
type Kind int

const (
	KindNumber Kind = iota
	KindInteger
	KindString
	KindBoolean
	KindEnum
	KindSchedule
	KindNumberList
	KindObject
	KindObjectList
	KindStockTable
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindInteger:
		return "integer"
	case KindString:
		return "string"
	case KindBoolean:
		return "boolean"
	case KindEnum:
		return "enum"
	case KindSchedule:
		return "schedule"
	case KindNumberList:
		return "number list"
	case KindObject:
		return "object"
	case KindObjectList:
		return "object list"
	case KindStockTable:
		return "stock table"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Field declares one key of an entity: its wire kind, presence, default and
// value rule. The same descriptors drive decoding, validation and document
// generation.
type Field struct {
	Name        string
	Kind        Kind
	Required    bool
	Nullable    bool
	Default     any
	Description string

	Number   NumberRule // number, integer, and number list items
	Text     TextRule
	Enum     EnumRule
	Matrix   MatrixRule
	Ref      string // entity or enum name for object, object list, enum and stock table kinds
	MinItems int
}

// EntitySchema is the closed set of fields an entity accepts.
type EntitySchema struct {
	Name        string
	Description string
	Fields      []Field
}

// Field returns the descriptor for name. Asking for an undeclared field is
// a programming error.
func (s *EntitySchema) Field(name string) Field {
	f, ok := s.lookup(name)
	if !ok {
		panic(fmt.Sprintf("domain: %s has no field %q", s.Name, name))
	}
	return f
}

func (s *EntitySchema) lookup(name string) (Field, bool) {
	i := slices.IndexFunc(s.Fields, func(f Field) bool { return f.Name == name })
	if i < 0 {
		return Field{}, false
	}
	return s.Fields[i], true
}

// EnumSchema declares a closed string enumeration.
type EnumSchema struct {
	Name        string
	Description string
	Rule        EnumRule
}

// Schemas returns the entity schemas, leaves first.
func Schemas() []*EntitySchema {
	all := []*EntitySchema{materialSchema, elementSchema, buildingSchema, schDefSchema, bemDefSchema, uwgSchema}
	out := make([]*EntitySchema, len(all))
	for i, s := range all {
		cp := *s
		cp.Fields = slices.Clone(s.Fields)
		out[i] = &cp
	}
	return out
}

// Enums returns the enumeration schemas.
func Enums() []EnumSchema {
	return []EnumSchema{builtEraSchema, condTypeSchema}
}
