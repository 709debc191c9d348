package domain

import (
	"cmp"
	"maps"
	"slices"
	"strings"
)

// ArchetypeKey identifies a building archetype. Both parts are lowercase so
// that keys compare case-insensitively.
type ArchetypeKey struct {
	BuildingType string
	BuiltEra     BuiltEra
}

// KeyOf normalizes a building type and era into an ArchetypeKey.
func KeyOf(buildingType string, era BuiltEra) ArchetypeKey {
	return ArchetypeKey{
		BuildingType: normalizeBuildingType(buildingType),
		BuiltEra:     BuiltEra(strings.ToLower(string(era))),
	}
}

func (k ArchetypeKey) String() string {
	return k.BuildingType + "/" + string(k.BuiltEra)
}

func compareKeys(a, b ArchetypeKey) int {
	return cmp.Or(cmp.Compare(a.BuildingType, b.BuildingType), cmp.Compare(a.BuiltEra, b.BuiltEra))
}

// Source records where an effective archetype definition came from.
type Source string

const (
	// SourceReference marks a definition taken unchanged from the reference table.
	SourceReference Source = "reference"
	// SourceOverride marks a user definition that replaced a reference entry.
	SourceOverride Source = "override"
	// SourceExtension marks a user definition for a key the reference table lacks.
	SourceExtension Source = "extension"
)

// ReferenceTable is a read-only set of archetype definitions that user
// supplied vectors override and extend.
type ReferenceTable struct {
	bems map[ArchetypeKey]BEMDef
	schs map[ArchetypeKey]SchDef
}

// NewReferenceTable indexes already validated definitions. Later entries
// replace earlier ones with the same key.
func NewReferenceTable(bems []BEMDef, schs []SchDef) *ReferenceTable {
	t := &ReferenceTable{
		bems: make(map[ArchetypeKey]BEMDef, len(bems)),
		schs: make(map[ArchetypeKey]SchDef, len(schs)),
	}
	for _, b := range bems {
		t.bems[b.Key()] = b
	}
	for _, s := range schs {
		t.schs[s.Key()] = s
	}
	return t
}

func (t *ReferenceTable) BEM(key ArchetypeKey) (BEMDef, bool) {
	b, ok := t.bems[key]
	return b, ok
}

func (t *ReferenceTable) Schedule(key ArchetypeKey) (SchDef, bool) {
	s, ok := t.schs[key]
	return s, ok
}

// Keys returns every key with a BEMDef or a SchDef, sorted.
func (t *ReferenceTable) Keys() []ArchetypeKey {
	return unionKeys(t.bems, t.schs)
}

// Archetype is the effective definition pair for one key.
type Archetype struct {
	Key            ArchetypeKey
	BEM            BEMDef
	Schedule       SchDef
	BEMSource      Source
	ScheduleSource Source
}

type indexed[T any] struct {
	def    T
	source Source
}

// ArchetypeIndex maps archetype keys to their effective BEMDef and SchDef
// after user vectors have been applied over a reference table. It is
// immutable once built.
type ArchetypeIndex struct {
	bems map[ArchetypeKey]indexed[BEMDef]
	schs map[ArchetypeKey]indexed[SchDef]
}

// buildIndex seeds the index with ref and upserts the user vectors in
// order, so the last definition for a key wins.
func buildIndex(ref *ReferenceTable, bems []BEMDef, schs []SchDef) *ArchetypeIndex {
	x := &ArchetypeIndex{
		bems: make(map[ArchetypeKey]indexed[BEMDef], len(ref.bems)+len(bems)),
		schs: make(map[ArchetypeKey]indexed[SchDef], len(ref.schs)+len(schs)),
	}
	for k, b := range ref.bems {
		x.bems[k] = indexed[BEMDef]{def: b, source: SourceReference}
	}
	for k, s := range ref.schs {
		x.schs[k] = indexed[SchDef]{def: s, source: SourceReference}
	}
	for _, b := range bems {
		upsert(x.bems, b.Key(), b)
	}
	for _, s := range schs {
		upsert(x.schs, s.Key(), s)
	}
	return x
}

func upsert[T any](m map[ArchetypeKey]indexed[T], key ArchetypeKey, def T) {
	source := SourceExtension
	if prev, ok := m[key]; ok && prev.source != SourceExtension {
		source = SourceOverride
	}
	m[key] = indexed[T]{def: def, source: source}
}

func (x *ArchetypeIndex) BEM(key ArchetypeKey) (BEMDef, bool) {
	b, ok := x.bems[key]
	return b.def, ok
}

func (x *ArchetypeIndex) Schedule(key ArchetypeKey) (SchDef, bool) {
	s, ok := x.schs[key]
	return s.def, ok
}

// Keys returns every key with a BEMDef or a SchDef, sorted.
func (x *ArchetypeIndex) Keys() []ArchetypeKey {
	return unionKeys(x.bems, x.schs)
}

// Len returns the number of distinct keys.
func (x *ArchetypeIndex) Len() int { return len(x.Keys()) }

// Resolve returns the effective definitions for key. Both a BEMDef and a
// SchDef must be present.
func (x *ArchetypeIndex) Resolve(key ArchetypeKey) (Archetype, error) {
	b, hasBEM := x.bems[key]
	s, hasSch := x.schs[key]
	switch {
	case !hasBEM && !hasSch:
		return Archetype{}, newError(ErrUnresolvedArchetype, "", key.String(), "no BEMDef or SchDef for this building type and era")
	case !hasBEM:
		return Archetype{}, newError(ErrUnresolvedArchetype, "", key.String(), "no BEMDef for this building type and era")
	case !hasSch:
		return Archetype{}, newError(ErrUnresolvedArchetype, "", key.String(), "no SchDef for this building type and era")
	}
	return Archetype{
		Key:            key,
		BEM:            b.def,
		Schedule:       s.def,
		BEMSource:      b.source,
		ScheduleSource: s.source,
	}, nil
}

func unionKeys[A, B any](a map[ArchetypeKey]A, b map[ArchetypeKey]B) []ArchetypeKey {
	keys := slices.Collect(maps.Keys(a))
	for k := range b {
		if _, ok := a[k]; !ok {
			keys = append(keys, k)
		}
	}
	slices.SortFunc(keys, compareKeys)
	return keys
}
