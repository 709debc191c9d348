package domain

import "strings"

// BuiltEra is the construction period of a building archetype.
type BuiltEra string

const (
	EraPre80 BuiltEra = "pre80"
	EraPst80 BuiltEra = "pst80"
	EraNew   BuiltEra = "new"
)

var builtEraSchema = EnumSchema{
	Name:        "BuiltEra",
	Description: "Construction period of a building archetype: pre80 (before 1980), pst80 (1980 to 2004) or new (2004 and later).",
	Rule:        EnumMember(true, string(EraPre80), string(EraPst80), string(EraNew)),
}

// BuiltEras lists the eras in chronological order.
func BuiltEras() []BuiltEra {
	return []BuiltEra{EraPre80, EraPst80, EraNew}
}

// ParseBuiltEra matches s case-insensitively and returns the canonical era.
func ParseBuiltEra(s string) (BuiltEra, error) {
	v, err := builtEraSchema.Rule.Canonical("built_era", s)
	return BuiltEra(v), err
}

// CondType is the building cooling system condenser type.
type CondType string

const (
	CondAir   CondType = "AIR"
	CondWater CondType = "WATER"
)

var condTypeSchema = EnumSchema{
	Name:        "CondType",
	Description: "Cooling condenser type.",
	Rule:        EnumMember(false, string(CondAir), string(CondWater)),
}

// normalizeBuildingType is the identity form of a building type label.
func normalizeBuildingType(s string) string {
	return strings.ToLower(s)
}
