package definition

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

const (
	discriminatorKey = "subType"
	typeKey          = "type"
)

var validate = validator.New()

// FromMap decodes a definition from a generic map, such as one
// read from JSON or YAML. The 'subType' key selects the variant
// and all other keys must belong to that variant.
func FromMap(m map[string]any) (Definition, error) {
	raw, ok := m[discriminatorKey]
	if !ok {
		return nil, errors.Wrap(ErrUnsupportedNodeType, "definition has no subType")
	}
	tag, ok := raw.(string)
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedNodeType, "subType must be a string (got %T)", raw)
	}

	st, err := ParseSubType(tag)
	if err != nil {
		return nil, err
	}

	def, err := New(st)
	if err != nil {
		return nil, err
	}

	payload := make(map[string]any, len(m))
	for k, v := range m {
		payload[k] = v
	}
	delete(payload, discriminatorKey)

	// the category is optional, but if provided it must agree with the subtype.
	if t, ok := payload[typeKey]; ok {
		if t != st.Type().String() {
			return nil, invalid(st, fmt.Errorf("type %v does not match subType (expected %s)", t, st.Type()))
		}
		delete(payload, typeKey)
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      def,
	})
	if err != nil {
		return nil, err
	}

	err = dec.Decode(payload)
	if err != nil {
		return nil, invalid(st, err)
	}

	err = Validate(def)
	if err != nil {
		return nil, err
	}
	return def, nil
}

// DecodeJSON decodes a definition from a JSON object.
func DecodeJSON(b []byte) (Definition, error) {
	var m map[string]any
	err := json.Unmarshal(b, &m)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidNodeDefinition, err.Error())
	}
	return FromMap(m)
}

// DecodeYAML decodes a definition from a YAML mapping.
func DecodeYAML(b []byte) (Definition, error) {
	var m map[string]any
	err := yaml.Unmarshal(b, &m)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidNodeDefinition, err.Error())
	}
	return FromMap(m)
}

// Validate checks the struct-level constraints of a definition.
func Validate(def Definition) error {
	err := validate.Struct(def)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		var msgs []string
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("field %s failed '%s' validation", fe.Namespace(), fe.Tag()))
		}
		return invalid(def.SubType(), errors.New(strings.Join(msgs, ", ")))
	}
	return invalid(def.SubType(), err)
}

func invalid(st SubType, err error) error {
	return errors.Wrapf(ErrInvalidNodeDefinition, "%s: %s", st, err)
}
