package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUWG(t *testing.T) {
	u, err := NewUWG(testUWGParams())
	require.NoError(t, err)

	assert.Equal(t, "UWG", u.EntityName())
	assert.Equal(t, "0.0.0", u.Version())
	require.Len(t, u.Stock(), 2)

	first := u.Stock()[0]
	assert.Equal(t, KeyOf("largeoffice", EraPst80), first.Key)
	assert.Equal(t, SourceReference, first.BEMSource)
	assert.Equal(t, SourceReference, first.ScheduleSource)
	assert.Equal(t, 0.4, first.Row.Fraction)
	assert.Equal(t, CondWater, first.BEM.Building().CondType())
	assert.Empty(t, u.ReferenceBuildingModels())
	assert.Equal(t, DOEReference().Keys(), u.Index().Keys())
}

func TestParseUWGRoundTrip(t *testing.T) {
	p := testUWGParams()
	shgc := 0.4
	p.SHGC = &shgc
	p.ReferenceBuildingModels = []BEMDefParams{referenceBEM(t, "largeoffice", EraNew)}
	p.ReferenceSchedules = []SchDefParams{referenceSch(t, "largeoffice", EraNew)}
	u, err := NewUWG(p)
	require.NoError(t, err)

	data, err := json.Marshal(u)
	require.NoError(t, err)

	back, err := ParseUWG(data)
	require.NoError(t, err)
	assert.Equal(t, u.Params(), back.Params())

	again, err := json.Marshal(back)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))
}

func TestParseUWGDefaultsAndNulls(t *testing.T) {
	data := mutateJSON(t, testUWGParams(), func(doc map[string]any) {
		delete(doc, "version")
		doc["shgc"] = nil
		doc["reference_schedules"] = nil
		doc["month"] = 3.0
	})
	u, err := ParseUWG(data)
	require.NoError(t, err)
	assert.Equal(t, DefaultVersion, u.Version())
	assert.Equal(t, 3, u.Month())
	assert.Nil(t, u.Params().SHGC)
	assert.Nil(t, u.Params().ReferenceSchedules)
}

func TestParseUWGRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(doc map[string]any)
		kind   error
		path   string
	}{
		{"unknown key", func(doc map[string]any) { doc["bogus"] = 1 }, ErrClosedSchemaViolation, "bogus"},
		{"missing epw path", func(doc map[string]any) { delete(doc, "epw_path") }, ErrMissingField, "epw_path"},
		{"fractional month", func(doc map[string]any) { doc["month"] = 2.5 }, ErrTypeMismatch, "month"},
		{"month 13", func(doc map[string]any) { doc["month"] = 13 }, ErrRangeViolation, "month"},
		{"zone 17", func(doc map[string]any) { doc["zone"] = 17 }, ErrRangeViolation, "zone"},
		{"bad version", func(doc map[string]any) { doc["version"] = "1.0" }, ErrPatternMismatch, "version"},
		{"blddensity above 1", func(doc map[string]any) { doc["blddensity"] = 1.1 }, ErrRangeViolation, "blddensity"},
		{"override out of range", func(doc map[string]any) { doc["albroof"] = 2 }, ErrRangeViolation, "albroof"},
		{"stock short of one", func(doc map[string]any) {
			doc["bld"] = []any{[]any{"largeoffice", "pst80", 0.59}, []any{"midriseapartment", "pst80", 0.4}}
		}, ErrStockFraction, "bld"},
		{"stock row arity", func(doc map[string]any) {
			doc["bld"] = []any{[]any{"largeoffice", 1.0}}
		}, ErrTypeMismatch, "bld[0]"},
		{"traffic schedule shape", func(doc map[string]any) {
			rows := doc["sch_traffic"].([]any)
			doc["sch_traffic"] = rows[:2]
		}, ErrScheduleShape, "sch_traffic"},
		{"unknown archetype", func(doc map[string]any) {
			doc["bld"] = []any{[]any{"largeoffice", "new", 0.5}, []any{"spaceport", "new", 0.5}}
		}, ErrUnresolvedArchetype, "bld[1]"},
		{"huge nday", func(doc map[string]any) { doc["nday"] = 1e19 }, ErrRangeViolation, "nday"},
		{"huge dtsim", func(doc map[string]any) { doc["dtsim"] = 9.3e18 }, ErrRangeViolation, "dtsim"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := mutateJSON(t, testUWGParams(), tt.mutate)
			_, err := ParseUWG(data)
			requireViolation(t, err, tt.kind, tt.path)
		})
	}
}

func TestParseUWGReportsOversizedInteger(t *testing.T) {
	tests := []struct {
		field string
		value float64
	}{
		{"nday", 1e19},
		{"nday", -3e9},
		{"dtsim", 9.3e18},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			data := mutateJSON(t, testUWGParams(), func(doc map[string]any) { doc[tt.field] = tt.value })
			_, err := ParseUWG(data)
			ve := requireViolation(t, err, ErrRangeViolation, tt.field)
			assert.InDelta(t, tt.value, ve.Value, 0)
			assert.Contains(t, ve.Constraint, "32-bit")
		})
	}
}

func TestUWGOverride(t *testing.T) {
	bem := referenceBEM(t, "largeoffice", EraNew)
	bem.Building.GlazingRatio = 0.6

	p := testUWGParams()
	p.Bld = []StockRow{{"largeoffice", EraNew, 1}}
	p.ReferenceBuildingModels = []BEMDefParams{bem}

	u, err := NewUWG(p)
	require.NoError(t, err)

	entry := u.Stock()[0]
	assert.Equal(t, SourceOverride, entry.BEMSource)
	assert.Equal(t, SourceReference, entry.ScheduleSource)
	assert.Equal(t, 0.6, entry.BEM.Building().GlazingRatio())

	ref, ok := DOEReference().BEM(KeyOf("largeoffice", EraNew))
	require.True(t, ok)
	assert.Equal(t, 0.38, ref.Building().GlazingRatio(), "reference table must not change")
}

func TestUWGOverrideLastWins(t *testing.T) {
	first := referenceBEM(t, "largeoffice", EraNew)
	first.Building.GlazingRatio = 0.5
	second := referenceBEM(t, "largeoffice", EraNew)
	second.BuildingType = "LargeOffice"
	second.BuiltEra = "NEW"
	second.Building.GlazingRatio = 0.7

	p := testUWGParams()
	p.Bld = []StockRow{{"largeoffice", EraNew, 1}}
	p.ReferenceBuildingModels = []BEMDefParams{first, second}

	u, err := NewUWG(p)
	require.NoError(t, err)
	entry := u.Stock()[0]
	assert.Equal(t, 0.7, entry.BEM.Building().GlazingRatio())
	assert.Equal(t, SourceOverride, entry.BEMSource)
	assert.Equal(t, EraNew, u.ReferenceBuildingModels()[1].BuiltEra())
}

func TestUWGExtension(t *testing.T) {
	bem := referenceBEM(t, "hospital", EraNew)
	bem.BuildingType = "customhospital"
	sch := referenceSch(t, "hospital", EraNew)
	sch.BuildingType = "customhospital"

	t.Run("resolves with both definitions", func(t *testing.T) {
		p := testUWGParams()
		p.Bld = []StockRow{{"largeoffice", EraNew, 0.5}, {"CustomHospital", "NEW", 0.5}}
		p.ReferenceBuildingModels = []BEMDefParams{bem}
		p.ReferenceSchedules = []SchDefParams{sch}

		u, err := NewUWG(p)
		require.NoError(t, err)
		entry := u.Stock()[1]
		assert.Equal(t, KeyOf("customhospital", EraNew), entry.Key)
		assert.Equal(t, SourceExtension, entry.BEMSource)
		assert.Equal(t, SourceExtension, entry.ScheduleSource)
		assert.Equal(t, EraNew, entry.Row.BuiltEra)
		assert.Equal(t, len(DOEReference().Keys())+1, u.Index().Len())
	})

	t.Run("missing schedule", func(t *testing.T) {
		p := testUWGParams()
		p.Bld = []StockRow{{"customhospital", EraNew, 1}}
		p.ReferenceBuildingModels = []BEMDefParams{bem}

		_, err := NewUWG(p)
		ve := requireViolation(t, err, ErrUnresolvedArchetype, "bld[0]")
		assert.Equal(t, "customhospital/new", ve.Value)
		assert.Contains(t, ve.Constraint, "no SchDef")
	})
}

func TestUWGVectorErrorPath(t *testing.T) {
	bem := referenceBEM(t, "largeoffice", EraNew)
	bem.Wall.Materials[1].ThermalConductivity = 0

	p := testUWGParams()
	p.ReferenceBuildingModels = []BEMDefParams{referenceBEM(t, "smalloffice", EraNew), bem}

	_, err := NewUWG(p)
	requireViolation(t, err, ErrRangeViolation, "reference_building_models[1].wall.materials[1].thermal_conductivity")
}

func TestUWGCheckOrder(t *testing.T) {
	bem := referenceBEM(t, "largeoffice", EraNew)
	bem.Building.GlazingRatio = 2

	p := testUWGParams()
	p.Bld = []StockRow{{"largeoffice", EraNew, 0.5}}
	p.ReferenceBuildingModels = []BEMDefParams{bem}

	_, err := NewUWG(p)
	requireViolation(t, err, ErrStockFraction, "bld")

	p.Bld[0].Fraction = 1
	_, err = NewUWG(p)
	requireViolation(t, err, ErrRangeViolation, "reference_building_models[0].building.glazing_ratio")
}

func TestNewUWGWithReference(t *testing.T) {
	empty := NewReferenceTable(nil, nil)
	_, err := NewUWGWithReference(testUWGParams(), empty)
	requireViolation(t, err, ErrUnresolvedArchetype, "bld[0]")
}

func TestUWGWith(t *testing.T) {
	u, err := NewUWG(testUWGParams())
	require.NoError(t, err)

	changed, err := u.With(func(p *UWGParams) {
		p.Bld[0].Fraction = 0.3
		p.Bld[1].Fraction = 0.7
	})
	require.NoError(t, err)
	assert.Equal(t, 0.3, changed.Stock()[0].Row.Fraction)
	assert.Equal(t, 0.4, u.Stock()[0].Row.Fraction, "original must not change")

	_, err = u.With(func(p *UWGParams) { p.Bld[0].Fraction = 0.3 })
	requireViolation(t, err, ErrStockFraction, "bld")
}

func TestNewUWGRejectsOversizedInteger(t *testing.T) {
	p := testUWGParams()
	p.NDay = math.MaxInt32 + 1
	_, err := NewUWG(p)
	ve := requireViolation(t, err, ErrRangeViolation, "nday")
	assert.InDelta(t, float64(math.MaxInt32+1), ve.Value, 0)
}
