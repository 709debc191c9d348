package domain

import (
	"encoding/json"
	"errors"
	"strings"
)

// Entity is a validated value of one of the schema entities.
type Entity interface {
	EntityName() string
	json.Marshaler
}

var (
	_ Entity = Material{}
	_ Entity = Element{}
	_ Entity = Building{}
	_ Entity = SchDef{}
	_ Entity = BEMDef{}
	_ Entity = UWG{}
)

var parsers = map[string]func([]byte) (Entity, error){
	"Material": parser(ParseMaterial),
	"Element":  parser(ParseElement),
	"Building": parser(ParseBuilding),
	"SchDef":   parser(ParseSchDef),
	"BEMDef":   parser(ParseBEMDef),
	"UWG":      parser(ParseUWG),
}

func parser[T Entity](parse func([]byte) (T, error)) func([]byte) (Entity, error) {
	return func(data []byte) (Entity, error) {
		v, err := parse(data)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

// EntityNames lists the names accepted as the "type" discriminator, leaves
// first.
func EntityNames() []string {
	return []string{"Material", "Element", "Building", "SchDef", "BEMDef", "UWG"}
}

// Decode parses a JSON document whose "type" discriminator names the entity,
// then validates it. Malformed JSON is returned as the decoder's own error so
// callers can tell it apart from a *ValidationError.
func Decode(data []byte) (Entity, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, err
		}
		return nil, newError(ErrTypeMismatch, "", nil, "document must be a JSON object")
	}
	raw, ok := fields["type"]
	if !ok || isNull(raw) {
		return nil, newError(ErrMissingField, "type", nil, "is required to identify the document")
	}
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return nil, newError(ErrTypeMismatch, "type", string(raw), "must be a string")
	}
	parse, ok := parsers[name]
	if !ok {
		return nil, newError(ErrUnrecognizedEnumValue, "type", name, "must be one of %s", strings.Join(EntityNames(), ", "))
	}
	return parse(data)
}
