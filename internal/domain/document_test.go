package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	docs := map[string]any{
		"Material": testMaterialParams(),
		"Element":  testElementParams(),
		"Building": testBuildingParams(),
		"SchDef":   referenceSch(t, "warehouse", EraPre80),
		"BEMDef":   referenceBEM(t, "warehouse", EraPre80),
		"UWG":      testUWGParams(),
	}
	for _, name := range EntityNames() {
		t.Run(name, func(t *testing.T) {
			data, err := json.Marshal(docs[name])
			require.NoError(t, err)

			e, err := Decode(data)
			require.NoError(t, err)
			assert.Equal(t, name, e.EntityName())

			out, err := json.Marshal(e)
			require.NoError(t, err)
			assert.JSONEq(t, string(data), string(out))
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	t.Run("malformed JSON", func(t *testing.T) {
		_, err := Decode([]byte(`{"type":`))
		var syntaxErr *json.SyntaxError
		assert.True(t, errors.As(err, &syntaxErr))
	})

	t.Run("not an object", func(t *testing.T) {
		_, err := Decode([]byte(`[1,2]`))
		requireViolation(t, err, ErrTypeMismatch, "")
	})

	t.Run("missing type", func(t *testing.T) {
		_, err := Decode([]byte(`{"name":"x"}`))
		requireViolation(t, err, ErrMissingField, "type")
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := Decode([]byte(`{"type":"Window"}`))
		ve := requireViolation(t, err, ErrUnrecognizedEnumValue, "type")
		assert.Equal(t, "Window", ve.Value)
	})

	t.Run("validation error passes through", func(t *testing.T) {
		_, err := Decode([]byte(`{"type":"Material","thermal_conductivity":0,"volumetric_heat_capacity":1,"name":"x"}`))
		requireViolation(t, err, ErrRangeViolation, "thermal_conductivity")
	})
}
