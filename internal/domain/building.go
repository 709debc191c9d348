package domain

import "encoding/json"

var buildingSchema = &EntitySchema{
	Name:        "Building",
	Description: "Building energy parameters: internal gains, envelope, HVAC and setpoints.",
	Fields: []Field{
		{Name: "floor_height", Kind: KindNumber, Required: true, Number: AtLeast(0),
			Description: "Floor height (m)."},
		{Name: "int_heat_night", Kind: KindNumber, Default: 1.0, Number: AtLeast(0),
			Description: "Nighttime internal heat gains (W/m2 floor)."},
		{Name: "int_heat_day", Kind: KindNumber, Default: 1.0, Number: AtLeast(0),
			Description: "Daytime internal heat gains (W/m2 floor)."},
		{Name: "int_heat_frad", Kind: KindNumber, Default: 0.1, Number: Bounded(0, 1),
			Description: "Radiant fraction of internal gains."},
		{Name: "int_heat_flat", Kind: KindNumber, Default: 0.1, Number: Bounded(0, 1),
			Description: "Latent fraction of internal gains."},
		{Name: "infil", Kind: KindNumber, Required: true, Number: AtLeast(0),
			Description: "Infiltration rate (ACH)."},
		{Name: "vent", Kind: KindNumber, Required: true, Number: AtLeast(0),
			Description: "Ventilation rate (ACH)."},
		{Name: "glazing_ratio", Kind: KindNumber, Required: true, Number: Bounded(0, 1),
			Description: "Window to wall ratio."},
		{Name: "u_value", Kind: KindNumber, Required: true, Number: Positive(),
			Description: "Window U-value (W/m2-K) including film coefficients."},
		{Name: "shgc", Kind: KindNumber, Required: true, Number: Bounded(0, 1),
			Description: "Window solar heat gain coefficient."},
		{Name: "condtype", Kind: KindEnum, Default: CondAir, Ref: condTypeSchema.Name, Enum: condTypeSchema.Rule,
			Description: "Cooling condenser type."},
		{Name: "cop", Kind: KindNumber, Required: true, Number: AtLeast(0),
			Description: "Cooling system coefficient of performance."},
		{Name: "cool_setpoint_day", Kind: KindNumber, Default: 297.0, Number: AtLeast(0),
			Description: "Daytime cooling setpoint (K)."},
		{Name: "cool_setpoint_night", Kind: KindNumber, Default: 297.0, Number: AtLeast(0),
			Description: "Nighttime cooling setpoint (K)."},
		{Name: "heat_setpoint_day", Kind: KindNumber, Default: 293.0, Number: AtLeast(0),
			Description: "Daytime heating setpoint (K)."},
		{Name: "heat_setpoint_night", Kind: KindNumber, Default: 293.0, Number: AtLeast(0),
			Description: "Nighttime heating setpoint (K)."},
		{Name: "coolcap", Kind: KindNumber, Required: true, Number: AtLeast(0),
			Description: "Rated cooling system capacity (W/m2 floor)."},
		{Name: "heateff", Kind: KindNumber, Required: true, Number: Bounded(0, 1),
			Description: "Heating system efficiency."},
		{Name: "initial_temp", Kind: KindNumber, Default: 291.0, Number: AtLeast(0),
			Description: "Initial indoor air temperature (K)."},
	},
}

// BuildingParams is the unvalidated form of a Building.
type BuildingParams struct {
	FloorHeight       float64  `json:"floor_height"`
	IntHeatNight      float64  `json:"int_heat_night"`
	IntHeatDay        float64  `json:"int_heat_day"`
	IntHeatFRad       float64  `json:"int_heat_frad"`
	IntHeatFLat       float64  `json:"int_heat_flat"`
	Infil             float64  `json:"infil"`
	Vent              float64  `json:"vent"`
	GlazingRatio      float64  `json:"glazing_ratio"`
	UValue            float64  `json:"u_value"`
	SHGC              float64  `json:"shgc"`
	CondType          CondType `json:"condtype"`
	COP               float64  `json:"cop"`
	CoolSetpointDay   float64  `json:"cool_setpoint_day"`
	CoolSetpointNight float64  `json:"cool_setpoint_night"`
	HeatSetpointDay   float64  `json:"heat_setpoint_day"`
	HeatSetpointNight float64  `json:"heat_setpoint_night"`
	CoolCap           float64  `json:"coolcap"`
	HeatEff           float64  `json:"heateff"`
	InitialTemp       float64  `json:"initial_temp"`
}

// DefaultBuildingParams returns params with every optional field at its
// default. Required fields are left zero.
func DefaultBuildingParams() BuildingParams {
	return BuildingParams{
		IntHeatNight:      1,
		IntHeatDay:        1,
		IntHeatFRad:       0.1,
		IntHeatFLat:       0.1,
		CondType:          CondAir,
		CoolSetpointDay:   297,
		CoolSetpointNight: 297,
		HeatSetpointDay:   293,
		HeatSetpointNight: 293,
		InitialTemp:       291,
	}
}

func (p BuildingParams) MarshalJSON() ([]byte, error) {
	type plain BuildingParams
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{buildingSchema.Name, plain(p)})
}

func (p *BuildingParams) UnmarshalJSON(data []byte) error {
	o := decodeObject(data, buildingSchema)
	var out BuildingParams
	o.number("floor_height", &out.FloorHeight)
	o.number("int_heat_night", &out.IntHeatNight)
	o.number("int_heat_day", &out.IntHeatDay)
	o.number("int_heat_frad", &out.IntHeatFRad)
	o.number("int_heat_flat", &out.IntHeatFLat)
	o.number("infil", &out.Infil)
	o.number("vent", &out.Vent)
	o.number("glazing_ratio", &out.GlazingRatio)
	o.number("u_value", &out.UValue)
	o.number("shgc", &out.SHGC)
	text(o, "condtype", &out.CondType)
	o.number("cop", &out.COP)
	o.number("cool_setpoint_day", &out.CoolSetpointDay)
	o.number("cool_setpoint_night", &out.CoolSetpointNight)
	o.number("heat_setpoint_day", &out.HeatSetpointDay)
	o.number("heat_setpoint_night", &out.HeatSetpointNight)
	o.number("coolcap", &out.CoolCap)
	o.number("heateff", &out.HeatEff)
	o.number("initial_temp", &out.InitialTemp)
	if o.err != nil {
		return o.err
	}
	*p = out
	return nil
}

// Building is a validated, immutable set of building energy parameters.
type Building struct {
	p BuildingParams
}

// NewBuilding validates p.
func NewBuilding(p BuildingParams) (Building, error) {
	c := newChecker(buildingSchema)
	c.number("floor_height", p.FloorHeight)
	c.number("int_heat_night", p.IntHeatNight)
	c.number("int_heat_day", p.IntHeatDay)
	c.number("int_heat_frad", p.IntHeatFRad)
	c.number("int_heat_flat", p.IntHeatFLat)
	c.number("infil", p.Infil)
	c.number("vent", p.Vent)
	c.number("glazing_ratio", p.GlazingRatio)
	c.number("u_value", p.UValue)
	c.number("shgc", p.SHGC)
	p.CondType = canonical(c, "condtype", p.CondType)
	c.number("cop", p.COP)
	c.number("cool_setpoint_day", p.CoolSetpointDay)
	c.number("cool_setpoint_night", p.CoolSetpointNight)
	c.number("heat_setpoint_day", p.HeatSetpointDay)
	c.number("heat_setpoint_night", p.HeatSetpointNight)
	c.number("coolcap", p.CoolCap)
	c.number("heateff", p.HeatEff)
	c.number("initial_temp", p.InitialTemp)
	if c.err != nil {
		return Building{}, c.err
	}
	return Building{p: p}, nil
}

// ParseBuilding decodes and validates a JSON building.
func ParseBuilding(data []byte) (Building, error) {
	var b Building
	err := json.Unmarshal(data, &b)
	return b, err
}

func (b Building) FloorHeight() float64  { return b.p.FloorHeight }
func (b Building) GlazingRatio() float64 { return b.p.GlazingRatio }
func (b Building) UValue() float64       { return b.p.UValue }
func (b Building) SHGC() float64         { return b.p.SHGC }
func (b Building) CondType() CondType    { return b.p.CondType }
func (b Building) COP() float64          { return b.p.COP }
func (b Building) CoolCap() float64      { return b.p.CoolCap }
func (b Building) HeatEff() float64      { return b.p.HeatEff }
func (b Building) InitialTemp() float64  { return b.p.InitialTemp }
func (b Building) Infiltration() float64 { return b.p.Infil }
func (b Building) Ventilation() float64  { return b.p.Vent }

// Params returns a copy of the validated fields.
func (b Building) Params() BuildingParams { return b.p }

// With returns a validated copy of b with fn applied to its fields.
func (b Building) With(fn func(*BuildingParams)) (Building, error) {
	p := b.Params()
	fn(&p)
	return NewBuilding(p)
}

func (Building) EntityName() string { return buildingSchema.Name }

func (b Building) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.p)
}

func (b *Building) UnmarshalJSON(data []byte) error {
	var p BuildingParams
	if err := p.UnmarshalJSON(data); err != nil {
		return err
	}
	v, err := NewBuilding(p)
	if err != nil {
		return err
	}
	*b = v
	return nil
}
