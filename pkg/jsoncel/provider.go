package jsoncel

import (
	"github.com/google/cel-go/checker/decls"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	exprpb "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// Provider is a CEL type provider backed by a JSON schema.
// Lookups which the schema doesn't cover fall through to
// an empty proto registry.
type Provider struct {
	protos ref.TypeProvider

	// fields maps dot separated paths to schema nodes, e.g.
	//
	//	entity                      -> {"type": "object", ...}
	//	entity.extension            -> {"type": "object", ...}
	//	entity.extension.retention  -> {"type": "string"}
	fields map[string]*Schema
}

var _ ref.TypeProvider = &Provider{}

// NewProvider registers the schema under the root name,
// such as 'entity'. A nil schema declares an object without fields.
func NewProvider(root string, schema *Schema) *Provider {
	if schema == nil {
		schema = &Schema{Type: Object}
	}
	p := &Provider{
		protos: types.NewEmptyRegistry(),
		fields: map[string]*Schema{},
	}
	p.register(root, schema)
	return p
}

func (p *Provider) register(path string, s *Schema) {
	p.fields[path] = s
	for name, child := range s.Properties {
		if child != nil {
			p.register(path+"."+name, child)
		}
	}
}

func (p *Provider) EnumValue(enumName string) ref.Val {
	return p.protos.EnumValue(enumName)
}

func (p *Provider) FindIdent(identName string) (ref.Val, bool) {
	return p.protos.FindIdent(identName)
}

// FindType is used during type-checking to resolve both object types
// and fully qualified references such as 'entity.extension.retention'.
func (p *Provider) FindType(typeName string) (*exprpb.Type, bool) {
	s, ok := p.fields[typeName]
	if !ok {
		return p.protos.FindType(typeName)
	}
	return declType(typeName, s), true
}

// FindFieldType resolves 'field' on the object type 'messageType'.
func (p *Provider) FindFieldType(messageType string, fieldName string) (*ref.FieldType, bool) {
	path := messageType + "." + fieldName
	s, ok := p.fields[path]
	if !ok {
		// objects with additionalProperties are declared as dyn,
		// so the field is unknown until evaluation.
		return p.protos.FindFieldType(messageType, fieldName)
	}
	return &ref.FieldType{Type: declType(path, s)}, true
}

func (p *Provider) NewValue(typeName string, fields map[string]ref.Val) ref.Val {
	return p.protos.NewValue(typeName, fields)
}

// declType maps a schema node to its CEL type.
// Schema nodes with an unknown or missing type are dyn.
func declType(path string, s *Schema) *exprpb.Type {
	switch s.Type {
	case Null:
		return decls.Null
	case Boolean:
		return decls.Bool
	case Number:
		return decls.Double
	case Integer:
		return decls.Int
	case String:
		return decls.String
	case Array:
		if s.Items == nil {
			return decls.NewListType(decls.Dyn)
		}
		return decls.NewListType(declType(path+"[]", s.Items))
	case "":
		if len(s.Properties) > 0 {
			return decls.NewObjectType(path)
		}
	case Object:
		// fields can't be checked at compile time if the
		// object allows properties the schema doesn't name.
		if s.AdditionalProperties == TrueSchema {
			return decls.Dyn
		}
		return decls.NewObjectType(path)
	}
	return decls.Dyn
}
