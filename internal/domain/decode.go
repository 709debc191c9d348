package domain

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"
)

// object is a JSON object accepted by a closed schema. Accessors fill their
// destination from the named field, apply the declared default when the
// field is absent, and record the first failure in err.
type object struct {
	schema *EntitySchema
	fields map[string]json.RawMessage
	err    error
}

func decodeObject(data []byte, schema *EntitySchema) *object {
	o := &object{schema: schema}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		o.err = newError(ErrTypeMismatch, "", nil, "%s must be a JSON object", schema.Name)
		return o
	}
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		if key == "type" {
			continue
		}
		if _, ok := schema.lookup(key); !ok {
			o.err = newError(ErrClosedSchemaViolation, key, nil, "%s does not declare this field", schema.Name)
			return o
		}
	}
	if raw, ok := fields["type"]; ok {
		var name string
		if err := json.Unmarshal(raw, &name); err != nil || name != schema.Name {
			o.err = newError(ErrUnrecognizedEnumValue, "type", string(raw), "must be %q", schema.Name)
			return o
		}
	}
	o.fields = fields
	return o
}

func (o *object) fail(err error) {
	if o.err == nil {
		o.err = err
	}
}

// lookup returns the declared field and its raw value. Explicit null counts
// as absent.
func (o *object) lookup(name string) (Field, json.RawMessage, bool) {
	f := o.schema.Field(name)
	if o.err != nil {
		return f, nil, false
	}
	raw, ok := o.fields[name]
	if !ok || isNull(raw) {
		if f.Required {
			o.fail(newError(ErrMissingField, name, nil, "is required"))
		}
		return f, nil, false
	}
	return f, raw, true
}

func (o *object) number(name string, dst *float64) {
	f, raw, ok := o.lookup(name)
	if !ok {
		if def, isSet := f.Default.(float64); isSet {
			*dst = def
		}
		return
	}
	v, isNum := decodeNumber(raw)
	if !isNum {
		o.fail(newError(ErrTypeMismatch, name, string(raw), "must be a number"))
		return
	}
	*dst = v
}

func (o *object) optionalNumber(name string, dst **float64) {
	_, raw, ok := o.lookup(name)
	if !ok {
		return
	}
	v, isNum := decodeNumber(raw)
	if !isNum {
		o.fail(newError(ErrTypeMismatch, name, string(raw), "must be a number"))
		return
	}
	*dst = &v
}

func (o *object) integer(name string, dst *int) {
	f, raw, ok := o.lookup(name)
	if !ok {
		if def, isSet := f.Default.(int); isSet {
			*dst = def
		}
		return
	}
	v, isNum := decodeNumber(raw)
	if !isNum {
		o.fail(newError(ErrTypeMismatch, name, string(raw), "must be an integer"))
		return
	}
	if err := (NumberRule{Integer: true}).Check(name, v); err != nil {
		o.fail(err)
		return
	}
	if err := checkInt32(name, v); err != nil {
		o.fail(err)
		return
	}
	*dst = int(v)
}

func (o *object) boolean(name string, dst *bool) {
	f, raw, ok := o.lookup(name)
	if !ok {
		if def, isSet := f.Default.(bool); isSet {
			*dst = def
		}
		return
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		o.fail(newError(ErrTypeMismatch, name, string(raw), "must be a boolean"))
	}
}

// text decodes a JSON string into any string-based type, including enums.
func text[T ~string](o *object, name string, dst *T) {
	f, raw, ok := o.lookup(name)
	if !ok {
		if def, isSet := f.Default.(T); isSet {
			*dst = def
		}
		return
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		o.fail(newError(ErrTypeMismatch, name, string(raw), "must be a string"))
		return
	}
	*dst = T(s)
}

func (o *object) schedule(name string, dst *WeekSchedule) {
	f, raw, ok := o.lookup(name)
	if !ok {
		if def, isSet := f.Default.(WeekSchedule); isSet {
			*dst = def
		}
		return
	}
	m, err := f.Matrix.Decode(name, raw)
	if err != nil {
		o.fail(err)
		return
	}
	*dst = weekFromRows(m)
}

func (o *object) numberList(name string, dst *[]float64) {
	items := o.list(name)
	if items == nil {
		return
	}
	out := make([]float64, len(items))
	for i, raw := range items {
		v, isNum := decodeNumber(raw)
		if !isNum {
			o.fail(newError(ErrTypeMismatch, index(name, i), string(raw), "must be a number"))
			return
		}
		out[i] = v
	}
	*dst = out
}

// list returns the raw items of an array field, or nil when the field is
// absent or malformed.
func (o *object) list(name string) []json.RawMessage {
	_, raw, ok := o.lookup(name)
	if !ok {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		o.fail(newError(ErrTypeMismatch, name, nil, "must be an array"))
		return nil
	}
	return items
}

// nested decodes an object-valued field with decode, re-rooting its errors
// under the field name.
func (o *object) nested(name string, decode func([]byte) error) {
	_, raw, ok := o.lookup(name)
	if !ok {
		return
	}
	o.fail(nest(decode(raw), name))
}

// nestedList decodes every item of an array field with decode.
func (o *object) nestedList(name string, decode func([]byte) error) {
	for i, raw := range o.list(name) {
		if o.err != nil {
			return
		}
		o.fail(nest(decode(raw), index(name, i)))
	}
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
