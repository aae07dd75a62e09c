package node

import (
	"fmt"
	"time"

	"github.com/common-fate/govern/pkg/definition"
	"github.com/common-fate/govern/pkg/jsoncel"
	"github.com/pkg/errors"
)

// Factory builds executable nodes from their definitions.
//
// A Factory holds no mutable state and is safe to use concurrently.
// Every call to Create returns a new node.
type Factory struct {
	// EntitySchema is an optional JSON schema describing entities.
	// If provided, attribute predicates may reference 'entity.<field>'
	// and are type-checked against the schema.
	EntitySchema *jsoncel.Schema

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

type constructor func(f Factory, def definition.Definition) (Node, error)

// constructors maps every subtype to the constructor for its node kind.
var constructors = map[definition.SubType]constructor{
	definition.StartEventType:                   newStartEvent,
	definition.EndEventType:                     newEndEvent,
	definition.CheckEntityAttributesTaskType:    newCheckEntityAttributesTask,
	definition.SetEntityCertificationTaskType:   newSetEntityCertificationTask,
	definition.SetGlossaryTermStatusTaskType:    newSetGlossaryTermStatusTask,
	definition.UserApprovalTaskType:             newUserApprovalTask,
	definition.PythonWorkflowAutomationTaskType: newNoOpTask,
	definition.JsonLogicTaskType:                newJsonLogicFilterTask,
}

func init() {
	// adding a subtype without a node kind must fail
	// as soon as the program starts.
	err := checkConstructors(definition.SubTypes)
	if err != nil {
		panic(err)
	}
}

func checkConstructors(subTypes []definition.SubType) error {
	for _, st := range subTypes {
		if constructors[st] == nil {
			return fmt.Errorf("node kind for subtype %s is not registered", st)
		}
	}
	return nil
}

// Create a node from its definition, using a Factory with default settings.
func Create(def definition.Definition) (Node, error) {
	return Factory{}.Create(def)
}

// Create a node from its definition.
//
// ErrUnsupportedNodeType is returned if the definition's subtype has no node kind.
// ErrInvalidNodeDefinition is returned if the definition does not have the
// shape the node kind expects.
func (f Factory) Create(def definition.Definition) (Node, error) {
	if def == nil {
		return nil, errors.Wrap(ErrUnsupportedNodeType, "definition is nil")
	}

	st := def.SubType()
	c, ok := constructors[st]
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedNodeType, "subType %s", st)
	}
	return c(f, def)
}

func (f Factory) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}

// cast asserts that a definition is the concrete payload a node kind requires.
func cast[T any, PT interface {
	*T
	definition.Definition
}](def definition.Definition) (PT, error) {
	d, ok := def.(PT)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidNodeDefinition, "%s node requires a %T definition (got %T)", def.SubType(), d, def)
	}
	if d == nil {
		return nil, errors.Wrapf(ErrInvalidNodeDefinition, "%s definition is nil", def.SubType())
	}
	err := definition.Validate(d)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// base contains the fields shared by all node kinds.
type base struct {
	name    string
	subType definition.SubType
}

func newBase(def definition.Definition) base {
	return base{name: def.NodeName(), subType: def.SubType()}
}

func (b base) Name() string {
	return b.name
}

func (b base) SubType() definition.SubType {
	return b.subType
}
