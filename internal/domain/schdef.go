package domain

import "encoding/json"

var schDefSchema = &EntitySchema{
	Name:        "SchDef",
	Description: "Weekly operating schedules and peak loads of a building archetype, identified by building type and built era.",
	Fields: []Field{
		{Name: "building_type", Kind: KindString, Required: true, Text: Text(1, 0),
			Description: "Building type label, e.g. largeoffice. Matched case-insensitively."},
		{Name: "built_era", Kind: KindEnum, Required: true, Ref: builtEraSchema.Name, Enum: builtEraSchema.Rule,
			Description: "Construction period. Matched case-insensitively."},
		{Name: "electricity", Kind: KindSchedule, Required: true, Matrix: weekMatrix,
			Description: "Fraction of peak electric plug load by hour."},
		{Name: "gas", Kind: KindSchedule, Default: WeekSchedule{}, Matrix: weekMatrix,
			Description: "Fraction of peak gas load by hour."},
		{Name: "light", Kind: KindSchedule, Required: true, Matrix: weekMatrix,
			Description: "Fraction of peak lighting load by hour."},
		{Name: "occupancy", Kind: KindSchedule, Required: true, Matrix: weekMatrix,
			Description: "Fraction of peak occupancy by hour."},
		{Name: "cool_setpoint", Kind: KindSchedule, Required: true, Matrix: weekMatrix,
			Description: "Cooling setpoint by hour (C)."},
		{Name: "heat_setpoint", Kind: KindSchedule, Required: true, Matrix: weekMatrix,
			Description: "Heating setpoint by hour (C)."},
		{Name: "hot_water", Kind: KindSchedule, Default: WeekSchedule{}, Matrix: weekMatrix,
			Description: "Fraction of peak service hot water use by hour."},
		{Name: "peak_electric_density", Kind: KindNumber, Required: true, Number: AtLeast(0),
			Description: "Peak electric plug load (W/m2)."},
		{Name: "peak_gas_density", Kind: KindNumber, Default: 0.0, Number: AtLeast(0),
			Description: "Peak gas load (W/m2)."},
		{Name: "peak_light_density", Kind: KindNumber, Required: true, Number: AtLeast(0),
			Description: "Peak lighting load (W/m2)."},
		{Name: "occupant_density", Kind: KindNumber, Required: true, Number: AtLeast(0),
			Description: "Peak occupancy (person/m2)."},
		{Name: "ventilation_rate", Kind: KindNumber, Required: true, Number: AtLeast(0),
			Description: "Ventilation rate (m3/s-m2)."},
		{Name: "peak_hot_water_rate", Kind: KindNumber, Default: 0.0, Number: AtLeast(0),
			Description: "Peak service hot water flow (L/hr-m2)."},
	},
}

var weekMatrix = FixedShapeMatrix(DayTypes, HoursPerDay)

// SchDefParams is the unvalidated form of a SchDef.
type SchDefParams struct {
	BuildingType        string       `json:"building_type"`
	BuiltEra            BuiltEra     `json:"built_era"`
	Electricity         WeekSchedule `json:"electricity"`
	Gas                 WeekSchedule `json:"gas"`
	Light               WeekSchedule `json:"light"`
	Occupancy           WeekSchedule `json:"occupancy"`
	CoolSetpoint        WeekSchedule `json:"cool_setpoint"`
	HeatSetpoint        WeekSchedule `json:"heat_setpoint"`
	HotWater            WeekSchedule `json:"hot_water"`
	PeakElectricDensity float64      `json:"peak_electric_density"`
	PeakGasDensity      float64      `json:"peak_gas_density"`
	PeakLightDensity    float64      `json:"peak_light_density"`
	OccupantDensity     float64      `json:"occupant_density"`
	VentilationRate     float64      `json:"ventilation_rate"`
	PeakHotWaterRate    float64      `json:"peak_hot_water_rate"`
}

func (p SchDefParams) MarshalJSON() ([]byte, error) {
	type plain SchDefParams
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{schDefSchema.Name, plain(p)})
}

func (p *SchDefParams) UnmarshalJSON(data []byte) error {
	o := decodeObject(data, schDefSchema)
	var out SchDefParams
	text(o, "building_type", &out.BuildingType)
	text(o, "built_era", &out.BuiltEra)
	o.schedule("electricity", &out.Electricity)
	o.schedule("gas", &out.Gas)
	o.schedule("light", &out.Light)
	o.schedule("occupancy", &out.Occupancy)
	o.schedule("cool_setpoint", &out.CoolSetpoint)
	o.schedule("heat_setpoint", &out.HeatSetpoint)
	o.schedule("hot_water", &out.HotWater)
	o.number("peak_electric_density", &out.PeakElectricDensity)
	o.number("peak_gas_density", &out.PeakGasDensity)
	o.number("peak_light_density", &out.PeakLightDensity)
	o.number("occupant_density", &out.OccupantDensity)
	o.number("ventilation_rate", &out.VentilationRate)
	o.number("peak_hot_water_rate", &out.PeakHotWaterRate)
	if o.err != nil {
		return o.err
	}
	*p = out
	return nil
}

// SchDef is a validated, immutable schedule definition. Its built era is
// stored in canonical lowercase form.
type SchDef struct {
	p SchDefParams
}

// NewSchDef validates p.
func NewSchDef(p SchDefParams) (SchDef, error) {
	c := newChecker(schDefSchema)
	c.text("building_type", p.BuildingType)
	p.BuiltEra = canonical(c, "built_era", p.BuiltEra)
	c.schedule("electricity", p.Electricity)
	c.schedule("gas", p.Gas)
	c.schedule("light", p.Light)
	c.schedule("occupancy", p.Occupancy)
	c.schedule("cool_setpoint", p.CoolSetpoint)
	c.schedule("heat_setpoint", p.HeatSetpoint)
	c.schedule("hot_water", p.HotWater)
	c.number("peak_electric_density", p.PeakElectricDensity)
	c.number("peak_gas_density", p.PeakGasDensity)
	c.number("peak_light_density", p.PeakLightDensity)
	c.number("occupant_density", p.OccupantDensity)
	c.number("ventilation_rate", p.VentilationRate)
	c.number("peak_hot_water_rate", p.PeakHotWaterRate)
	if c.err != nil {
		return SchDef{}, c.err
	}
	return SchDef{p: p}, nil
}

// ParseSchDef decodes and validates a JSON schedule definition.
func ParseSchDef(data []byte) (SchDef, error) {
	var s SchDef
	err := json.Unmarshal(data, &s)
	return s, err
}

// Key returns the archetype identity of s.
func (s SchDef) Key() ArchetypeKey { return KeyOf(s.p.BuildingType, s.p.BuiltEra) }

func (s SchDef) BuildingType() string       { return s.p.BuildingType }
func (s SchDef) BuiltEra() BuiltEra         { return s.p.BuiltEra }
func (s SchDef) Electricity() WeekSchedule  { return s.p.Electricity }
func (s SchDef) Gas() WeekSchedule          { return s.p.Gas }
func (s SchDef) Light() WeekSchedule        { return s.p.Light }
func (s SchDef) Occupancy() WeekSchedule    { return s.p.Occupancy }
func (s SchDef) CoolSetpoint() WeekSchedule { return s.p.CoolSetpoint }
func (s SchDef) HeatSetpoint() WeekSchedule { return s.p.HeatSetpoint }
func (s SchDef) HotWater() WeekSchedule     { return s.p.HotWater }

func (s SchDef) PeakElectricDensity() float64 { return s.p.PeakElectricDensity }
func (s SchDef) PeakGasDensity() float64      { return s.p.PeakGasDensity }
func (s SchDef) PeakLightDensity() float64    { return s.p.PeakLightDensity }
func (s SchDef) OccupantDensity() float64     { return s.p.OccupantDensity }
func (s SchDef) VentilationRate() float64     { return s.p.VentilationRate }
func (s SchDef) PeakHotWaterRate() float64    { return s.p.PeakHotWaterRate }

// Params returns a copy of the validated fields.
func (s SchDef) Params() SchDefParams { return s.p }

// With returns a validated copy of s with fn applied to its fields.
func (s SchDef) With(fn func(*SchDefParams)) (SchDef, error) {
	p := s.Params()
	fn(&p)
	return NewSchDef(p)
}

func (SchDef) EntityName() string { return schDefSchema.Name }

func (s SchDef) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.p)
}

func (s *SchDef) UnmarshalJSON(data []byte) error {
	var p SchDefParams
	if err := p.UnmarshalJSON(data); err != nil {
		return err
	}
	v, err := NewSchDef(p)
	if err != nil {
		return err
	}
	*s = v
	return nil
}
