package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMaterialParams() MaterialParams {
	return MaterialParams{ThermalConductivity: 1.311, VolumetricHeatCapacity: 1874432, Name: "concrete"}
}

func testElementParams() ElementParams {
	return ElementParams{
		Albedo:             0.2,
		Emissivity:         0.9,
		LayerThicknesses:   []float64{0.025, 0.2},
		Materials:          []MaterialParams{matStucco, testMaterialParams()},
		VegetationCoverage: 0,
		InitialTemperature: 293,
		Name:               "wall",
	}
}

func testBuildingParams() BuildingParams {
	p := DefaultBuildingParams()
	p.FloorHeight = 3.05
	p.Infil = 0.5
	p.Vent = 0.6
	p.GlazingRatio = 0.38
	p.UValue = 3.5
	p.SHGC = 0.5
	p.COP = 3
	p.CoolCap = 85
	p.HeatEff = 0.75
	return p
}

func testUWGParams() UWGParams {
	return UWGParams{
		Version:     "0.0.0",
		EPWPath:     "SGP_Singapore.486980_IWEC.epw",
		Month:       1,
		Day:         1,
		NDay:        31,
		DTSim:       300,
		DTWeather:   3600,
		SensOcc:     100,
		LatFOcc:     0.3,
		RadFOcc:     0.2,
		RadFEquip:   0.5,
		RadFLight:   0.7,
		HUBL1:       1000,
		HUBL2:       80,
		HRef:        150,
		HTemp:       2,
		HWind:       10,
		CCirc:       1.2,
		CExch:       1,
		MaxDay:      150,
		MaxNight:    20,
		WindMin:     1,
		HObs:        0.1,
		BldHeight:   10,
		HMix:        1,
		BldDensity:  0.5,
		VerToHor:    0.8,
		CharLength:  1000,
		AlbRoad:     0.1,
		DRoad:       0.5,
		SensAnth:    20,
		Bld:         []StockRow{{"largeoffice", EraPst80, 0.4}, {"midriseapartment", EraPst80, 0.6}},
		LatTree:     0.7,
		LatGrss:     0.6,
		Zone:        1,
		VegStart:    4,
		VegEnd:      10,
		GrassCover:  0.1,
		TreeCover:   0.1,
		AlbVeg:      0.25,
		RurVegCover: 0.9,
		KRoad:       1,
		CRoad:       1600000,
		SchTraffic:  Uniform(0.5),
	}
}

// referenceBEM returns the params of a built-in reference BEMDef.
func referenceBEM(t *testing.T, buildingType string, era BuiltEra) BEMDefParams {
	t.Helper()
	b, ok := DOEReference().BEM(KeyOf(buildingType, era))
	require.True(t, ok, "reference BEMDef %s/%s", buildingType, era)
	return b.Params()
}

func referenceSch(t *testing.T, buildingType string, era BuiltEra) SchDefParams {
	t.Helper()
	s, ok := DOEReference().Schedule(KeyOf(buildingType, era))
	require.True(t, ok, "reference SchDef %s/%s", buildingType, era)
	return s.Params()
}

// mutateJSON marshals v, lets fn edit the generic form and marshals it again.
func mutateJSON(t *testing.T, v any, fn func(doc map[string]any)) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	fn(doc)
	out, err := json.Marshal(doc)
	require.NoError(t, err)
	return out
}

// requireViolation asserts err is a *ValidationError of kind at path.
func requireViolation(t *testing.T, err error, kind error, path string) *ValidationError {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, kind)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "expected *ValidationError, got %T: %v", err, err)
	assert.Equal(t, path, ve.Path)
	return ve
}
