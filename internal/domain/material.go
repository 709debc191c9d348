package domain

import "encoding/json"

var materialSchema = &EntitySchema{
	Name:        "Material",
	Description: "A homogeneous construction material layer.",
	Fields: []Field{
		{Name: "thermal_conductivity", Kind: KindNumber, Required: true, Number: Positive(),
			Description: "Thermal conductivity (W/m-K)."},
		{Name: "volumetric_heat_capacity", Kind: KindNumber, Required: true, Number: Positive(),
			Description: "Volumetric heat capacity (J/m3-K)."},
		{Name: "name", Kind: KindString, Required: true, Text: Text(1, 100),
			Description: "Material name."},
	},
}

// MaterialParams is the unvalidated form of a Material.
type MaterialParams struct {
	ThermalConductivity    float64 `json:"thermal_conductivity"`
	VolumetricHeatCapacity float64 `json:"volumetric_heat_capacity"`
	Name                   string  `json:"name"`
}

func (p MaterialParams) MarshalJSON() ([]byte, error) {
	type plain MaterialParams
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{materialSchema.Name, plain(p)})
}

func (p *MaterialParams) UnmarshalJSON(data []byte) error {
	o := decodeObject(data, materialSchema)
	var out MaterialParams
	o.number("thermal_conductivity", &out.ThermalConductivity)
	o.number("volumetric_heat_capacity", &out.VolumetricHeatCapacity)
	text(o, "name", &out.Name)
	if o.err != nil {
		return o.err
	}
	*p = out
	return nil
}

// Material is a validated, immutable material layer.
type Material struct {
	p MaterialParams
}

// NewMaterial validates p.
func NewMaterial(p MaterialParams) (Material, error) {
	c := newChecker(materialSchema)
	c.number("thermal_conductivity", p.ThermalConductivity)
	c.number("volumetric_heat_capacity", p.VolumetricHeatCapacity)
	c.text("name", p.Name)
	if c.err != nil {
		return Material{}, c.err
	}
	return Material{p: p}, nil
}

// ParseMaterial decodes and validates a JSON material.
func ParseMaterial(data []byte) (Material, error) {
	var m Material
	err := json.Unmarshal(data, &m)
	return m, err
}

func (m Material) ThermalConductivity() float64    { return m.p.ThermalConductivity }
func (m Material) VolumetricHeatCapacity() float64 { return m.p.VolumetricHeatCapacity }
func (m Material) Name() string                    { return m.p.Name }

// Params returns a copy of the validated fields.
func (m Material) Params() MaterialParams { return m.p }

// With returns a validated copy of m with fn applied to its fields.
func (m Material) With(fn func(*MaterialParams)) (Material, error) {
	p := m.Params()
	fn(&p)
	return NewMaterial(p)
}

func (Material) EntityName() string { return materialSchema.Name }

func (m Material) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.p)
}

func (m *Material) UnmarshalJSON(data []byte) error {
	var p MaterialParams
	if err := p.UnmarshalJSON(data); err != nil {
		return err
	}
	v, err := NewMaterial(p)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
