package domain

import "encoding/json"

var bemDefSchema = &EntitySchema{
	Name:        "BEMDef",
	Description: "Building energy model of an archetype: building parameters and the mass, wall and roof elements, identified by building type and built era.",
	Fields: []Field{
		{Name: "building_type", Kind: KindString, Required: true, Text: Text(1, 0),
			Description: "Building type label, e.g. largeoffice. Matched case-insensitively."},
		{Name: "built_era", Kind: KindEnum, Required: true, Ref: builtEraSchema.Name, Enum: builtEraSchema.Rule,
			Description: "Construction period. Matched case-insensitively."},
		{Name: "building", Kind: KindObject, Required: true, Ref: buildingSchema.Name,
			Description: "Building energy parameters."},
		{Name: "mass", Kind: KindObject, Required: true, Ref: elementSchema.Name,
			Description: "Internal thermal mass element."},
		{Name: "wall", Kind: KindObject, Required: true, Ref: elementSchema.Name,
			Description: "Exterior wall element."},
		{Name: "roof", Kind: KindObject, Required: true, Ref: elementSchema.Name,
			Description: "Roof element."},
	},
}

// BEMDefParams is the unvalidated form of a BEMDef.
type BEMDefParams struct {
	BuildingType string         `json:"building_type"`
	BuiltEra     BuiltEra       `json:"built_era"`
	Building     BuildingParams `json:"building"`
	Mass         ElementParams  `json:"mass"`
	Wall         ElementParams  `json:"wall"`
	Roof         ElementParams  `json:"roof"`
}

func (p BEMDefParams) clone() BEMDefParams {
	p.Mass = p.Mass.clone()
	p.Wall = p.Wall.clone()
	p.Roof = p.Roof.clone()
	return p
}

func (p BEMDefParams) MarshalJSON() ([]byte, error) {
	type plain BEMDefParams
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{bemDefSchema.Name, plain(p)})
}

func (p *BEMDefParams) UnmarshalJSON(data []byte) error {
	o := decodeObject(data, bemDefSchema)
	var out BEMDefParams
	text(o, "building_type", &out.BuildingType)
	text(o, "built_era", &out.BuiltEra)
	o.nested("building", out.Building.UnmarshalJSON)
	o.nested("mass", out.Mass.UnmarshalJSON)
	o.nested("wall", out.Wall.UnmarshalJSON)
	o.nested("roof", out.Roof.UnmarshalJSON)
	if o.err != nil {
		return o.err
	}
	*p = out
	return nil
}

// BEMDef is a validated, immutable building energy model definition.
type BEMDef struct {
	p BEMDefParams
}

// NewBEMDef validates p and every nested building and element.
func NewBEMDef(p BEMDefParams) (BEMDef, error) {
	p = p.clone()
	c := newChecker(bemDefSchema)
	c.text("building_type", p.BuildingType)
	p.BuiltEra = canonical(c, "built_era", p.BuiltEra)
	c.nested("building", func() error {
		b, err := NewBuilding(p.Building)
		if err != nil {
			return err
		}
		p.Building = b.p
		return nil
	})
	for _, el := range []struct {
		name string
		p    *ElementParams
	}{{"mass", &p.Mass}, {"wall", &p.Wall}, {"roof", &p.Roof}} {
		c.nested(el.name, func() error {
			_, err := NewElement(*el.p)
			return err
		})
	}
	if c.err != nil {
		return BEMDef{}, c.err
	}
	return BEMDef{p: p}, nil
}

// ParseBEMDef decodes and validates a JSON building energy model definition.
func ParseBEMDef(data []byte) (BEMDef, error) {
	var b BEMDef
	err := json.Unmarshal(data, &b)
	return b, err
}

// Key returns the archetype identity of b.
func (b BEMDef) Key() ArchetypeKey { return KeyOf(b.p.BuildingType, b.p.BuiltEra) }

func (b BEMDef) BuildingType() string { return b.p.BuildingType }
func (b BEMDef) BuiltEra() BuiltEra   { return b.p.BuiltEra }
func (b BEMDef) Building() Building   { return Building{p: b.p.Building} }
func (b BEMDef) Mass() Element        { return Element{p: b.p.Mass.clone()} }
func (b BEMDef) Wall() Element        { return Element{p: b.p.Wall.clone()} }
func (b BEMDef) Roof() Element        { return Element{p: b.p.Roof.clone()} }

// Params returns a deep copy of the validated fields.
func (b BEMDef) Params() BEMDefParams { return b.p.clone() }

// With returns a validated copy of b with fn applied to its fields.
func (b BEMDef) With(fn func(*BEMDefParams)) (BEMDef, error) {
	p := b.Params()
	fn(&p)
	return NewBEMDef(p)
}

func (BEMDef) EntityName() string { return bemDefSchema.Name }

func (b BEMDef) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.p)
}

func (b *BEMDef) UnmarshalJSON(data []byte) error {
	var p BEMDefParams
	if err := p.UnmarshalJSON(data); err != nil {
		return err
	}
	v, err := NewBEMDef(p)
	if err != nil {
		return err
	}
	*b = v
	return nil
}
