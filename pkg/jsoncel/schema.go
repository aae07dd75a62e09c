package jsoncel

import (
	"bytes"

	json "github.com/goccy/go-json"
)

// JSON schema simple types.
const (
	Null    = "null"
	Boolean = "boolean"
	Object  = "object"
	Array   = "array"
	Number  = "number"
	String  = "string"
	Integer = "integer"
)

var (
	// TrueSchema defines a schema with a true value
	TrueSchema = &Schema{boolean: &[]bool{true}[0]}
	// FalseSchema defines a schema with a false value
	FalseSchema = &Schema{boolean: &[]bool{false}[0]}
)

// Schema represents a JSON Schema object type.
// Only the keywords used for CEL type-checking are modelled.
type Schema struct {
	Type        string             `json:"type,omitempty"`
	Title       string             `json:"title,omitempty"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Enum        []any              `json:"enum,omitempty"`

	// AdditionalProperties is TrueSchema if any
	// additional property is allowed.
	AdditionalProperties *Schema `json:"-"`

	// boolean is set for the special 'true' and 'false' schemas.
	boolean *bool
}

func (s *Schema) UnmarshalJSON(b []byte) error {
	switch string(bytes.TrimSpace(b)) {
	case "true":
		*s = *TrueSchema
		return nil
	case "false":
		*s = *FalseSchema
		return nil
	}

	type plain Schema
	var tmp struct {
		plain
		AdditionalProperties json.RawMessage `json:"additionalProperties,omitempty"`
	}
	err := json.Unmarshal(b, &tmp)
	if err != nil {
		return err
	}
	*s = Schema(tmp.plain)

	// the 'true' and 'false' schemas are compared by pointer
	// by the type provider, so map them to the shared values.
	switch string(bytes.TrimSpace(tmp.AdditionalProperties)) {
	case "":
	case "true":
		s.AdditionalProperties = TrueSchema
	case "false":
		s.AdditionalProperties = FalseSchema
	default:
		var child Schema
		err = json.Unmarshal(tmp.AdditionalProperties, &child)
		if err != nil {
			return err
		}
		s.AdditionalProperties = &child
	}
	return nil
}
