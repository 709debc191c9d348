// Package domain models the input documents of the Urban Weather Generator
// (UWG) and enforces their validity.
//
// # Entities
//
// Six entities make up a simulation input, from the leaves up:
//
//	Material  thermal properties of one construction layer
//	Element   a wall, roof or mass assembled from layers of materials
//	Building  envelope, internal gains and HVAC of one building archetype
//	SchDef    weekly load schedules of a building archetype
//	BEMDef    building energy model: a Building plus mass, wall and roof
//	UWG       the simulation: period, urban climate, building stock mix
//
// Each entity comes in two forms. XParams is the plain, mutable wire struct
// with JSON tags. X is the validated value: it can only be obtained from
// NewX or ParseX, exposes read-only accessors, and derives modified copies
// through With, which validates again. A value of type X is therefore
// always valid.
//
// # Archetypes
//
// A building archetype is identified by a building type and a built era
// (pre80, pst80 or new), both compared case-insensitively. The UWG stock mix
// lists [building_type, built_era, fraction] rows whose fractions sum to 1.
// Every row must resolve to both a BEMDef and a SchDef. Resolution starts
// from a reference table (the 16 DOE commercial reference buildings in three
// eras, see [DOEReference]) and applies the document's
// reference_building_models and reference_schedules on top, in order, so a
// user definition overrides the reference entry with the same key or
// extends the table with a new one. Resolution happens once, when the UWG
// is constructed; [UWG.Stock] reports where each effective definition came
// from.
//
// # Schedules
//
// A [WeekSchedule] holds hourly values for a weekday, Saturday and Sunday:
// exactly 3 rows of 24 numbers.
//
// # Errors
//
// Validation stops at the first violation and returns a *[ValidationError].
// Its Kind is one of the Err sentinels and its Path locates the field from
// the document root, e.g. "reference_building_models[0].wall.materials[1].thermal_conductivity".
//
// # Descriptors
//
// Field rules are declared once per entity in an [EntitySchema]. The same
// descriptors drive JSON decoding (presence, defaults, closed schemas),
// constructor validation and OpenAPI generation, see [Schemas] and [Enums].
package domain
