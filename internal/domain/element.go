package domain

import (
	"encoding/json"
	"slices"
)

var elementSchema = &EntitySchema{
	Name:        "Element",
	Description: "A multi-layer building element such as a wall, roof or mass floor. Layers are listed outside in.",
	Fields: []Field{
		{Name: "albedo", Kind: KindNumber, Required: true, Number: Bounded(0, 1),
			Description: "Outer surface albedo."},
		{Name: "emissivity", Kind: KindNumber, Required: true, Number: Bounded(0, 1),
			Description: "Outer surface emissivity."},
		{Name: "layer_thicknesses", Kind: KindNumberList, Required: true, Number: Positive(), MinItems: 1,
			Description: "Thickness of each layer (m), outermost first."},
		{Name: "materials", Kind: KindObjectList, Required: true, Ref: "Material", MinItems: 1,
			Description: "Material of each layer, outermost first. Must have one entry per layer thickness."},
		{Name: "vegetation_coverage", Kind: KindNumber, Required: true, Number: Bounded(0, 1),
			Description: "Fraction of the surface covered by vegetation."},
		{Name: "initial_temperature", Kind: KindNumber, Required: true, Number: AtLeast(0),
			Description: "Initial element temperature (K)."},
		{Name: "is_horizontal", Kind: KindBoolean, Required: true,
			Description: "True for horizontal elements such as roofs."},
		{Name: "name", Kind: KindString, Required: true, Text: Text(1, 100),
			Description: "Element name."},
	},
}

// ElementParams is the unvalidated form of an Element.
type ElementParams struct {
	Albedo             float64          `json:"albedo"`
	Emissivity         float64          `json:"emissivity"`
	LayerThicknesses   []float64        `json:"layer_thicknesses"`
	Materials          []MaterialParams `json:"materials"`
	VegetationCoverage float64          `json:"vegetation_coverage"`
	InitialTemperature float64          `json:"initial_temperature"`
	IsHorizontal       bool             `json:"is_horizontal"`
	Name               string           `json:"name"`
}

func (p ElementParams) clone() ElementParams {
	p.LayerThicknesses = slices.Clone(p.LayerThicknesses)
	p.Materials = slices.Clone(p.Materials)
	return p
}

func (p ElementParams) MarshalJSON() ([]byte, error) {
	type plain ElementParams
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{elementSchema.Name, plain(p)})
}

func (p *ElementParams) UnmarshalJSON(data []byte) error {
	o := decodeObject(data, elementSchema)
	var out ElementParams
	o.number("albedo", &out.Albedo)
	o.number("emissivity", &out.Emissivity)
	o.numberList("layer_thicknesses", &out.LayerThicknesses)
	o.nestedList("materials", func(raw []byte) error {
		var m MaterialParams
		if err := m.UnmarshalJSON(raw); err != nil {
			return err
		}
		out.Materials = append(out.Materials, m)
		return nil
	})
	o.number("vegetation_coverage", &out.VegetationCoverage)
	o.number("initial_temperature", &out.InitialTemperature)
	o.boolean("is_horizontal", &out.IsHorizontal)
	text(o, "name", &out.Name)
	if o.err != nil {
		return o.err
	}
	*p = out
	return nil
}

// Element is a validated, immutable building element.
type Element struct {
	p ElementParams
}

// NewElement validates p, including every material, and requires one
// material per layer thickness.
func NewElement(p ElementParams) (Element, error) {
	p = p.clone()
	c := newChecker(elementSchema)
	c.number("albedo", p.Albedo)
	c.number("emissivity", p.Emissivity)
	c.numbers("layer_thicknesses", p.LayerThicknesses)
	c.items("materials", len(p.Materials))
	for i, m := range p.Materials {
		c.nested(index("materials", i), func() error {
			_, err := NewMaterial(m)
			return err
		})
	}
	if c.err == nil && len(p.LayerThicknesses) != len(p.Materials) {
		c.fail(newError(ErrStructuralMismatch, "materials", len(p.Materials),
			"must have one entry per layer thickness: %d layer thicknesses, %d materials",
			len(p.LayerThicknesses), len(p.Materials)))
	}
	c.number("vegetation_coverage", p.VegetationCoverage)
	c.number("initial_temperature", p.InitialTemperature)
	c.text("name", p.Name)
	if c.err != nil {
		return Element{}, c.err
	}
	return Element{p: p}, nil
}

// ParseElement decodes and validates a JSON element.
func ParseElement(data []byte) (Element, error) {
	var e Element
	err := json.Unmarshal(data, &e)
	return e, err
}

func (e Element) Albedo() float64             { return e.p.Albedo }
func (e Element) Emissivity() float64         { return e.p.Emissivity }
func (e Element) VegetationCoverage() float64 { return e.p.VegetationCoverage }
func (e Element) InitialTemperature() float64 { return e.p.InitialTemperature }
func (e Element) IsHorizontal() bool          { return e.p.IsHorizontal }
func (e Element) Name() string                { return e.p.Name }

// LayerThicknesses returns the layer thicknesses, outermost first.
func (e Element) LayerThicknesses() []float64 { return slices.Clone(e.p.LayerThicknesses) }

// Materials returns the layer materials, outermost first.
func (e Element) Materials() []Material {
	out := make([]Material, len(e.p.Materials))
	for i, m := range e.p.Materials {
		out[i] = Material{p: m}
	}
	return out
}

// Params returns a deep copy of the validated fields.
func (e Element) Params() ElementParams { return e.p.clone() }

// With returns a validated copy of e with fn applied to its fields.
func (e Element) With(fn func(*ElementParams)) (Element, error) {
	p := e.Params()
	fn(&p)
	return NewElement(p)
}

func (Element) EntityName() string { return elementSchema.Name }

func (e Element) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.p)
}

func (e *Element) UnmarshalJSON(data []byte) error {
	var p ElementParams
	if err := p.UnmarshalJSON(data); err != nil {
		return err
	}
	v, err := NewElement(p)
	if err != nil {
		return err
	}
	*e = v
	return nil
}
