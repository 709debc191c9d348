package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBuildingDefaults(t *testing.T) {
	data := []byte(`{
		"floor_height": 3.05, "infil": 0.5, "vent": 0.6, "glazing_ratio": 0.38,
		"u_value": 3.5, "shgc": 0.5, "cop": 3, "coolcap": 85, "heateff": 0.75
	}`)
	b, err := ParseBuilding(data)
	require.NoError(t, err)

	p := b.Params()
	assert.Equal(t, CondAir, p.CondType)
	assert.Equal(t, 297.0, p.CoolSetpointDay)
	assert.Equal(t, 293.0, p.HeatSetpointNight)
	assert.Equal(t, 291.0, p.InitialTemp)
	assert.Equal(t, 0.1, p.IntHeatFRad)
	assert.Equal(t, testBuildingParams(), p)
}

func TestNewBuilding(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *BuildingParams)
		kind   error
		path   string
	}{
		{"glazing ratio above 1", func(p *BuildingParams) { p.GlazingRatio = 1.5 }, ErrRangeViolation, "glazing_ratio"},
		{"zero u value", func(p *BuildingParams) { p.UValue = 0 }, ErrRangeViolation, "u_value"},
		{"negative cop", func(p *BuildingParams) { p.COP = -1 }, ErrRangeViolation, "cop"},
		{"lowercase condtype", func(p *BuildingParams) { p.CondType = "water" }, ErrUnrecognizedEnumValue, "condtype"},
		{"unknown condtype", func(p *BuildingParams) { p.CondType = "GROUND" }, ErrUnrecognizedEnumValue, "condtype"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testBuildingParams()
			tt.mutate(&p)
			_, err := NewBuilding(p)
			requireViolation(t, err, tt.kind, tt.path)
		})
	}
}

func TestBuildingRoundTrip(t *testing.T) {
	b, err := NewBuilding(testBuildingParams())
	require.NoError(t, err)

	data, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"Building"`)

	back, err := ParseBuilding(data)
	require.NoError(t, err)
	assert.Equal(t, b, back)
}
