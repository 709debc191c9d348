package domain

import (
	"encoding/json"
	"slices"
)

// DefaultVersion is the schema version assumed when a document omits one.
const DefaultVersion = "0.0.0"

func numberField(name string, rule NumberRule, desc string) Field {
	return Field{Name: name, Kind: KindNumber, Required: true, Number: rule, Description: desc}
}

func integerField(name string, rule NumberRule, desc string) Field {
	return Field{Name: name, Kind: KindInteger, Required: true, Number: rule.Integral(), Description: desc}
}

// overrideField is an optional city-wide value that replaces the per
// archetype value when set.
func overrideField(name string, rule NumberRule, desc string) Field {
	return Field{Name: name, Kind: KindNumber, Nullable: true, Number: rule,
		Description: desc + " If omitted, each archetype keeps its own value."}
}

var uwgSchema = &EntitySchema{
	Name:        "UWG",
	Description: "Urban Weather Generator simulation input: simulation period, urban climate parameters, the building stock mix and optional archetype vectors.",
	Fields: []Field{
		{Name: "version", Kind: KindString, Default: DefaultVersion, Text: Pattern(`^[0-9]+\.[0-9]+\.[0-9]+$`),
			Description: "Schema version of the document."},
		{Name: "epw_path", Kind: KindString, Required: true, Text: Text(1, 0),
			Description: "Path of the rural .epw weather file to morph."},
		{Name: "new_epw_dir", Kind: KindString, Nullable: true,
			Description: "Directory for the morphed .epw file. Defaults to the rural file's directory."},
		{Name: "new_epw_name", Kind: KindString, Nullable: true,
			Description: "File name of the morphed .epw file. Defaults to the rural file name with a _UWG suffix."},
		integerField("month", Bounded(1, 12), "Simulation start month (1-12)."),
		integerField("day", Bounded(1, 31), "Simulation start day (1-31)."),
		integerField("nday", AtLeast(0), "Number of days to simulate."),
		integerField("dtsim", AtLeast(0), "Simulation time step (s)."),
		integerField("dtweather", AtLeast(0), "Weather data time step (s)."),
		{Name: "autosize", Kind: KindBoolean, Required: true, Description: "Autosize HVAC systems."},
		numberField("sensocc", AtLeast(0), "Sensible heat per occupant (W)."),
		numberField("latfocc", Bounded(0, 1), "Latent heat fraction from occupants."),
		numberField("radfocc", Bounded(0, 1), "Radiant heat fraction from occupants."),
		numberField("radfequip", Bounded(0, 1), "Radiant heat fraction from equipment."),
		numberField("radflight", Bounded(0, 1), "Radiant heat fraction from electric light."),
		numberField("h_ubl1", AtLeast(0), "Daytime urban boundary layer height (m)."),
		numberField("h_ubl2", AtLeast(0), "Nighttime urban boundary layer height (m)."),
		numberField("h_ref", AtLeast(0), "Inversion height (m)."),
		numberField("h_temp", AtLeast(0), "Temperature measurement height (m)."),
		numberField("h_wind", AtLeast(0), "Wind measurement height (m)."),
		numberField("c_circ", AtLeast(0), "Wind scaling coefficient."),
		numberField("c_exch", AtLeast(0), "Exchange velocity coefficient."),
		numberField("maxday", AtLeast(0), "Maximum daytime heat flux threshold (W/m2)."),
		numberField("maxnight", AtLeast(0), "Maximum nighttime heat flux threshold (W/m2)."),
		numberField("windmin", AtLeast(0), "Minimum wind speed (m/s)."),
		numberField("h_obs", AtLeast(0), "Rural average obstacle height (m)."),
		numberField("bldheight", AtLeast(0), "Average urban building height (m)."),
		numberField("h_mix", Bounded(0, 1), "Fraction of HVAC waste heat released to the street canyon; the rest leaves from roofs."),
		numberField("blddensity", Bounded(0, 1), "Building footprint density as a fraction of urban area."),
		numberField("vertohor", AtLeast(0), "Urban facade area divided by total urban area."),
		numberField("charlength", AtLeast(0), "Side of a square enclosing the neighborhood (m)."),
		numberField("albroad", Bounded(0, 1), "Urban road albedo."),
		numberField("droad", AtLeast(0), "Road pavement thickness (m)."),
		numberField("sensanth", AtLeast(0), "Street level anthropogenic sensible heat (W/m2)."),
		{Name: "bld", Kind: KindStockTable, Required: true, MinItems: 1, Number: stockFractionRule,
			Ref: builtEraSchema.Name,
			Description: "Building stock mix as [building_type, built_era, fraction] rows. Fractions must sum to 1 and every row must resolve to a reference or user archetype."},
		numberField("lattree", Bounded(0, 1), "Fraction of latent heat absorbed by urban trees."),
		numberField("latgrss", Bounded(0, 1), "Fraction of latent heat absorbed by urban grass."),
		integerField("zone", Bounded(1, 16), "ASHRAE climate zone index: 1 (1A), 2 (2A), 3 (2B), 4 (3A), 5 (3B-CA), 6 (3B), 7 (3C), 8 (4A), 9 (4B), 10 (4C), 11 (5A), 12 (5B), 13 (6A), 14 (6B), 15 (7), 16 (8)."),
		integerField("vegstart", Bounded(1, 12), "Month vegetation starts to evapotranspire."),
		integerField("vegend", Bounded(1, 12), "Month vegetation stops evapotranspiring."),
		numberField("grasscover", Bounded(0, 1), "Fraction of urban ground covered by grass only."),
		numberField("treecover", Bounded(0, 1), "Fraction of urban ground covered by trees."),
		numberField("albveg", Bounded(0, 1), "Vegetation albedo."),
		numberField("rurvegcover", Bounded(0, 1), "Fraction of rural ground covered by vegetation."),
		numberField("kroad", Bounded(0, 1), "Road pavement conductivity (W/m-K)."),
		numberField("croad", AtLeast(0), "Road pavement volumetric heat capacity (J/m3-K)."),
		{Name: "sch_traffic", Kind: KindSchedule, Required: true, Matrix: weekMatrix,
			Description: "Fractional anthropogenic heat load by hour for a weekday, Saturday and Sunday."},
		overrideField("shgc", Bounded(0, 1), "Average window solar heat gain coefficient."),
		overrideField("albroof", Bounded(0, 1), "Average roof albedo."),
		overrideField("glzr", Bounded(0, 1), "Average glazing ratio."),
		overrideField("vegroof", Bounded(0, 1), "Fraction of roofs covered by vegetation."),
		overrideField("albwall", Bounded(0, 1), "Average wall albedo."),
		overrideField("flr_h", AtLeast(0), "Average floor height (m)."),
		{Name: "reference_schedules", Kind: KindObjectList, Nullable: true, Ref: schDefSchema.Name,
			Description: "SchDef entries that override or extend the reference schedules by building type and built era. Later entries win."},
		{Name: "reference_building_models", Kind: KindObjectList, Nullable: true, Ref: bemDefSchema.Name,
			Description: "BEMDef entries that override or extend the reference building models by building type and built era. Later entries win."},
	},
}

// UWGParams is the unvalidated form of a UWG document.
type UWGParams struct {
	Version    string `json:"version"`
	EPWPath    string `json:"epw_path"`
	NewEPWDir  string `json:"new_epw_dir,omitempty"`
	NewEPWName string `json:"new_epw_name,omitempty"`

	Month     int  `json:"month"`
	Day       int  `json:"day"`
	NDay      int  `json:"nday"`
	DTSim     int  `json:"dtsim"`
	DTWeather int  `json:"dtweather"`
	Autosize  bool `json:"autosize"`

	SensOcc   float64 `json:"sensocc"`
	LatFOcc   float64 `json:"latfocc"`
	RadFOcc   float64 `json:"radfocc"`
	RadFEquip float64 `json:"radfequip"`
	RadFLight float64 `json:"radflight"`

	HUBL1    float64 `json:"h_ubl1"`
	HUBL2    float64 `json:"h_ubl2"`
	HRef     float64 `json:"h_ref"`
	HTemp    float64 `json:"h_temp"`
	HWind    float64 `json:"h_wind"`
	CCirc    float64 `json:"c_circ"`
	CExch    float64 `json:"c_exch"`
	MaxDay   float64 `json:"maxday"`
	MaxNight float64 `json:"maxnight"`
	WindMin  float64 `json:"windmin"`
	HObs     float64 `json:"h_obs"`

	BldHeight  float64 `json:"bldheight"`
	HMix       float64 `json:"h_mix"`
	BldDensity float64 `json:"blddensity"`
	VerToHor   float64 `json:"vertohor"`
	CharLength float64 `json:"charlength"`
	AlbRoad    float64 `json:"albroad"`
	DRoad      float64 `json:"droad"`
	SensAnth   float64 `json:"sensanth"`

	Bld []StockRow `json:"bld"`

	LatTree     float64 `json:"lattree"`
	LatGrss     float64 `json:"latgrss"`
	Zone        int     `json:"zone"`
	VegStart    int     `json:"vegstart"`
	VegEnd      int     `json:"vegend"`
	GrassCover  float64 `json:"grasscover"`
	TreeCover   float64 `json:"treecover"`
	AlbVeg      float64 `json:"albveg"`
	RurVegCover float64 `json:"rurvegcover"`
	KRoad       float64 `json:"kroad"`
	CRoad       float64 `json:"croad"`

	SchTraffic WeekSchedule `json:"sch_traffic"`

	SHGC    *float64 `json:"shgc,omitempty"`
	AlbRoof *float64 `json:"albroof,omitempty"`
	Glzr    *float64 `json:"glzr,omitempty"`
	VegRoof *float64 `json:"vegroof,omitempty"`
	AlbWall *float64 `json:"albwall,omitempty"`
	FlrH    *float64 `json:"flr_h,omitempty"`

	ReferenceSchedules      []SchDefParams `json:"reference_schedules,omitempty"`
	ReferenceBuildingModels []BEMDefParams `json:"reference_building_models,omitempty"`
}

func (p UWGParams) clone() UWGParams {
	p.Bld = slices.Clone(p.Bld)
	for _, f := range []**float64{&p.SHGC, &p.AlbRoof, &p.Glzr, &p.VegRoof, &p.AlbWall, &p.FlrH} {
		if *f != nil {
			v := **f
			*f = &v
		}
	}
	p.ReferenceSchedules = slices.Clone(p.ReferenceSchedules)
	if p.ReferenceBuildingModels != nil {
		bems := make([]BEMDefParams, len(p.ReferenceBuildingModels))
		for i, b := range p.ReferenceBuildingModels {
			bems[i] = b.clone()
		}
		p.ReferenceBuildingModels = bems
	}
	return p
}

func (p UWGParams) MarshalJSON() ([]byte, error) {
	type plain UWGParams
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{uwgSchema.Name, plain(p)})
}

func (p *UWGParams) UnmarshalJSON(data []byte) error {
	o := decodeObject(data, uwgSchema)
	var out UWGParams
	text(o, "version", &out.Version)
	text(o, "epw_path", &out.EPWPath)
	text(o, "new_epw_dir", &out.NewEPWDir)
	text(o, "new_epw_name", &out.NewEPWName)
	o.integer("month", &out.Month)
	o.integer("day", &out.Day)
	o.integer("nday", &out.NDay)
	o.integer("dtsim", &out.DTSim)
	o.integer("dtweather", &out.DTWeather)
	o.boolean("autosize", &out.Autosize)
	for _, f := range []struct {
		name string
		dst  *float64
	}{
		{"sensocc", &out.SensOcc}, {"latfocc", &out.LatFOcc}, {"radfocc", &out.RadFOcc},
		{"radfequip", &out.RadFEquip}, {"radflight", &out.RadFLight},
		{"h_ubl1", &out.HUBL1}, {"h_ubl2", &out.HUBL2}, {"h_ref", &out.HRef},
		{"h_temp", &out.HTemp}, {"h_wind", &out.HWind}, {"c_circ", &out.CCirc},
		{"c_exch", &out.CExch}, {"maxday", &out.MaxDay}, {"maxnight", &out.MaxNight},
		{"windmin", &out.WindMin}, {"h_obs", &out.HObs}, {"bldheight", &out.BldHeight},
		{"h_mix", &out.HMix}, {"blddensity", &out.BldDensity}, {"vertohor", &out.VerToHor},
		{"charlength", &out.CharLength}, {"albroad", &out.AlbRoad}, {"droad", &out.DRoad},
		{"sensanth", &out.SensAnth},
	} {
		o.number(f.name, f.dst)
	}
	o.nestedList("bld", func(raw []byte) error {
		var row StockRow
		if err := row.UnmarshalJSON(raw); err != nil {
			return err
		}
		out.Bld = append(out.Bld, row)
		return nil
	})
	o.number("lattree", &out.LatTree)
	o.number("latgrss", &out.LatGrss)
	o.integer("zone", &out.Zone)
	o.integer("vegstart", &out.VegStart)
	o.integer("vegend", &out.VegEnd)
	o.number("grasscover", &out.GrassCover)
	o.number("treecover", &out.TreeCover)
	o.number("albveg", &out.AlbVeg)
	o.number("rurvegcover", &out.RurVegCover)
	o.number("kroad", &out.KRoad)
	o.number("croad", &out.CRoad)
	o.schedule("sch_traffic", &out.SchTraffic)
	o.optionalNumber("shgc", &out.SHGC)
	o.optionalNumber("albroof", &out.AlbRoof)
	o.optionalNumber("glzr", &out.Glzr)
	o.optionalNumber("vegroof", &out.VegRoof)
	o.optionalNumber("albwall", &out.AlbWall)
	o.optionalNumber("flr_h", &out.FlrH)
	o.nestedList("reference_schedules", func(raw []byte) error {
		var s SchDefParams
		if err := s.UnmarshalJSON(raw); err != nil {
			return err
		}
		out.ReferenceSchedules = append(out.ReferenceSchedules, s)
		return nil
	})
	o.nestedList("reference_building_models", func(raw []byte) error {
		var b BEMDefParams
		if err := b.UnmarshalJSON(raw); err != nil {
			return err
		}
		out.ReferenceBuildingModels = append(out.ReferenceBuildingModels, b)
		return nil
	})
	if o.err != nil {
		return o.err
	}
	*p = out
	return nil
}

// StockEntry is one row of the building stock mix with the archetype it
// resolved to.
type StockEntry struct {
	Row StockRow
	Archetype
}

// UWG is a validated, immutable simulation input. Every stock row is
// resolved against the archetype index at construction.
type UWG struct {
	p     UWGParams
	schs  []SchDef
	bems  []BEMDef
	index *ArchetypeIndex
	stock []StockEntry
}

// NewUWG validates p against the built-in DOE reference table.
func NewUWG(p UWGParams) (UWG, error) {
	return NewUWGWithReference(p, DOEReference())
}

// NewUWGWithReference validates p, overlays its reference vectors on ref and
// resolves every stock row. Checks run in order: scalars, stock mix,
// traffic schedule, reference vectors, archetype resolution. The first
// failure is returned.
func NewUWGWithReference(p UWGParams, ref *ReferenceTable) (UWG, error) {
	p = p.clone()
	c := newChecker(uwgSchema)
	c.text("version", p.Version)
	c.text("epw_path", p.EPWPath)
	c.integer("month", p.Month)
	c.integer("day", p.Day)
	c.integer("nday", p.NDay)
	c.integer("dtsim", p.DTSim)
	c.integer("dtweather", p.DTWeather)
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"sensocc", p.SensOcc}, {"latfocc", p.LatFOcc}, {"radfocc", p.RadFOcc},
		{"radfequip", p.RadFEquip}, {"radflight", p.RadFLight},
		{"h_ubl1", p.HUBL1}, {"h_ubl2", p.HUBL2}, {"h_ref", p.HRef},
		{"h_temp", p.HTemp}, {"h_wind", p.HWind}, {"c_circ", p.CCirc},
		{"c_exch", p.CExch}, {"maxday", p.MaxDay}, {"maxnight", p.MaxNight},
		{"windmin", p.WindMin}, {"h_obs", p.HObs}, {"bldheight", p.BldHeight},
		{"h_mix", p.HMix}, {"blddensity", p.BldDensity}, {"vertohor", p.VerToHor},
		{"charlength", p.CharLength}, {"albroad", p.AlbRoad}, {"droad", p.DRoad},
		{"sensanth", p.SensAnth}, {"lattree", p.LatTree}, {"latgrss", p.LatGrss},
		{"grasscover", p.GrassCover}, {"treecover", p.TreeCover}, {"albveg", p.AlbVeg},
		{"rurvegcover", p.RurVegCover}, {"kroad", p.KRoad}, {"croad", p.CRoad},
	} {
		c.number(f.name, f.v)
	}
	c.integer("zone", p.Zone)
	c.integer("vegstart", p.VegStart)
	c.integer("vegend", p.VegEnd)
	c.optionalNumber("shgc", p.SHGC)
	c.optionalNumber("albroof", p.AlbRoof)
	c.optionalNumber("glzr", p.Glzr)
	c.optionalNumber("vegroof", p.VegRoof)
	c.optionalNumber("albwall", p.AlbWall)
	c.optionalNumber("flr_h", p.FlrH)
	if c.err != nil {
		return UWG{}, c.err
	}

	rows, err := checkStock("bld", p.Bld)
	if err != nil {
		return UWG{}, err
	}
	p.Bld = rows

	c.schedule("sch_traffic", p.SchTraffic)

	u := UWG{}
	for i, sp := range p.ReferenceSchedules {
		c.nested(index("reference_schedules", i), func() error {
			s, err := NewSchDef(sp)
			if err != nil {
				return err
			}
			p.ReferenceSchedules[i] = s.p
			u.schs = append(u.schs, s)
			return nil
		})
	}
	for i, bp := range p.ReferenceBuildingModels {
		c.nested(index("reference_building_models", i), func() error {
			b, err := NewBEMDef(bp)
			if err != nil {
				return err
			}
			p.ReferenceBuildingModels[i] = b.p
			u.bems = append(u.bems, b)
			return nil
		})
	}
	if c.err != nil {
		return UWG{}, c.err
	}
	if len(p.ReferenceSchedules) == 0 {
		p.ReferenceSchedules = nil
	}
	if len(p.ReferenceBuildingModels) == 0 {
		p.ReferenceBuildingModels = nil
	}

	u.index = buildIndex(ref, u.bems, u.schs)
	u.stock = make([]StockEntry, len(p.Bld))
	for i, row := range p.Bld {
		a, err := u.index.Resolve(row.Key())
		if err != nil {
			return UWG{}, nest(err, index("bld", i))
		}
		u.stock[i] = StockEntry{Row: row, Archetype: a}
	}
	u.p = p
	return u, nil
}

// ParseUWG decodes and validates a JSON UWG document against the built-in
// reference table.
func ParseUWG(data []byte) (UWG, error) {
	var u UWG
	err := json.Unmarshal(data, &u)
	return u, err
}

func (u UWG) Version() string { return u.p.Version }
func (u UWG) EPWPath() string { return u.p.EPWPath }
func (u UWG) Month() int      { return u.p.Month }
func (u UWG) Day() int        { return u.p.Day }
func (u UWG) NDay() int       { return u.p.NDay }
func (u UWG) Zone() int       { return u.p.Zone }

// SchTraffic returns the traffic heat schedule.
func (u UWG) SchTraffic() WeekSchedule { return u.p.SchTraffic }

// Stock returns the building stock mix in input order, each row paired with
// its effective archetype.
func (u UWG) Stock() []StockEntry { return slices.Clone(u.stock) }

// Index returns the archetype index the stock was resolved against.
func (u UWG) Index() *ArchetypeIndex { return u.index }

// ReferenceSchedules returns the user supplied schedule vector.
func (u UWG) ReferenceSchedules() []SchDef { return slices.Clone(u.schs) }

// ReferenceBuildingModels returns the user supplied building model vector.
func (u UWG) ReferenceBuildingModels() []BEMDef { return slices.Clone(u.bems) }

// Params returns a deep copy of the validated fields.
func (u UWG) Params() UWGParams { return u.p.clone() }

// With returns a copy of u with fn applied to its fields, validated against
// the built-in reference table.
func (u UWG) With(fn func(*UWGParams)) (UWG, error) {
	p := u.Params()
	fn(&p)
	return NewUWG(p)
}

func (UWG) EntityName() string { return uwgSchema.Name }

func (u UWG) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.p)
}

func (u *UWG) UnmarshalJSON(data []byte) error {
	var p UWGParams
	if err := p.UnmarshalJSON(data); err != nil {
		return err
	}
	v, err := NewUWG(p)
	if err != nil {
		return err
	}
	*u = v
	return nil
}
