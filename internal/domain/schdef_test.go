package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekScheduleJSON(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		w := Uniform(0.25)
		w[Sunday][23] = 1
		data, err := json.Marshal(w)
		require.NoError(t, err)

		var back WeekSchedule
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, w, back)
	})

	t.Run("23 columns", func(t *testing.T) {
		rows := Uniform(0).Rows()
		rows[0] = rows[0][:23]
		data, err := json.Marshal(rows)
		require.NoError(t, err)

		var w WeekSchedule
		err = json.Unmarshal(data, &w)
		requireViolation(t, err, ErrScheduleShape, "[0]")
	})

	t.Run("two rows", func(t *testing.T) {
		data, err := json.Marshal(Uniform(0).Rows()[:2])
		require.NoError(t, err)

		var w WeekSchedule
		requireViolation(t, json.Unmarshal(data, &w), ErrScheduleShape, "")
	})
}

func TestParseSchDef(t *testing.T) {
	base := referenceSch(t, "largeoffice", EraNew)

	t.Run("optional schedules default to zero", func(t *testing.T) {
		data := mutateJSON(t, base, func(doc map[string]any) {
			delete(doc, "gas")
			delete(doc, "hot_water")
			delete(doc, "peak_gas_density")
		})
		s, err := ParseSchDef(data)
		require.NoError(t, err)
		assert.Equal(t, WeekSchedule{}, s.Gas())
		assert.Equal(t, WeekSchedule{}, s.HotWater())
		assert.Equal(t, 0.0, s.PeakGasDensity())
	})

	t.Run("era canonicalized", func(t *testing.T) {
		data := mutateJSON(t, base, func(doc map[string]any) {
			doc["built_era"] = "NEW"
			doc["building_type"] = "LargeOffice"
		})
		s, err := ParseSchDef(data)
		require.NoError(t, err)
		assert.Equal(t, EraNew, s.BuiltEra())
		assert.Equal(t, "LargeOffice", s.BuildingType())
		assert.Equal(t, KeyOf("largeoffice", EraNew), s.Key())
	})

	t.Run("unknown era", func(t *testing.T) {
		data := mutateJSON(t, base, func(doc map[string]any) { doc["built_era"] = "1990s" })
		_, err := ParseSchDef(data)
		requireViolation(t, err, ErrUnrecognizedEnumValue, "built_era")
	})

	t.Run("short schedule row", func(t *testing.T) {
		data := mutateJSON(t, base, func(doc map[string]any) {
			rows := doc["occupancy"].([]any)
			rows[2] = rows[2].([]any)[:23]
		})
		_, err := ParseSchDef(data)
		requireViolation(t, err, ErrScheduleShape, "occupancy[2]")
	})

	t.Run("missing schedule", func(t *testing.T) {
		data := mutateJSON(t, base, func(doc map[string]any) { delete(doc, "light") })
		_, err := ParseSchDef(data)
		requireViolation(t, err, ErrMissingField, "light")
	})
}

func TestNewSchDefRejectsNonFiniteCells(t *testing.T) {
	p := referenceSch(t, "largeoffice", EraNew)
	p.Light[Saturday][5] = math.NaN()
	_, err := NewSchDef(p)
	requireViolation(t, err, ErrScheduleShape, "light[1][5]")
}
