package node

import (
	"context"
	"fmt"

	"github.com/common-fate/govern/pkg/definition"
	"github.com/common-fate/govern/pkg/entity"
	"github.com/common-fate/govern/pkg/jsoncel"
	"github.com/google/cel-go/cel"
	"github.com/pkg/errors"
)

// CheckEntityAttributesTask evaluates a CEL predicate over
// the attributes of the entity.
//
// Each attribute in entity.AttributeNames is declared as a variable,
// so predicates look like:
//
//	owner != null && "PII.Sensitive" in tags
type CheckEntityAttributesTask struct {
	base
	predicate string
	program   cel.Program
	// typed is true if 'entity' is declared using the entity schema.
	typed bool
}

func newCheckEntityAttributesTask(f Factory, def definition.Definition) (Node, error) {
	d, err := cast[definition.CheckEntityAttributesTask](def)
	if err != nil {
		return nil, err
	}

	env, err := f.celEnv()
	if err != nil {
		return nil, err
	}

	ast, issues := env.Compile(d.Predicate)
	if issues != nil && issues.Err() != nil {
		return nil, errors.Wrapf(ErrInvalidNodeDefinition, "CEL type-check error: %s", issues.Err())
	}
	if ast.OutputType() != cel.BoolType {
		return nil, errors.Wrapf(ErrInvalidNodeDefinition, "CEL expression must return a boolean (returned %s instead)", ast.OutputType())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidNodeDefinition, "CEL program construction error: %s", err)
	}

	return &CheckEntityAttributesTask{
		base:      newBase(d),
		predicate: d.Predicate,
		program:   prg,
		typed:     f.EntitySchema != nil,
	}, nil
}

// celEnv builds the CEL environment attribute predicates are compiled in.
func (f Factory) celEnv() (*cel.Env, error) {
	var opts []cel.EnvOption
	for _, name := range entity.AttributeNames {
		opts = append(opts, cel.Variable(name, cel.DynType))
	}
	opts = append(opts, cel.Variable("variables", cel.MapType(cel.StringType, cel.DynType)))

	if f.EntitySchema != nil {
		// set up the type for the 'entity' object,
		// based on the provided JSON schema.
		p := jsoncel.NewProvider("entity", f.EntitySchema)
		opts = append(opts,
			cel.CustomTypeProvider(p),
			cel.Variable("entity", cel.ObjectType("entity")),
		)
	}

	return cel.NewEnv(opts...)
}

func (n *CheckEntityAttributesTask) Execute(ctx context.Context, exec *Execution) (Outcome, error) {
	if exec == nil || exec.Entity == nil {
		return Outcome{}, failed(n, ErrNoEntity)
	}

	attrs := exec.Entity.Attributes()

	input := map[string]any{}
	for k, v := range attrs {
		input[k] = v
	}
	input["variables"] = variables(exec)

	if n.typed {
		// CEL resolves 'entity.owner' using the
		// dot separated keys of the input map.
		for k, v := range jsoncel.Flatten("entity", attrs) {
			input[k] = v
		}
	}

	val, _, err := n.program.Eval(input)
	if err != nil {
		return Outcome{}, failed(n, errors.Wrapf(err, "evaluating %q", n.predicate))
	}

	valbool, ok := val.Value().(bool)
	if !ok {
		return Outcome{}, failed(n, fmt.Errorf("could not convert CEL to bool: %s", val))
	}

	return Outcome{Status: Succeeded, Result: ResultOf(valbool)}, nil
}

func variables(exec *Execution) map[string]any {
	if exec.Variables == nil {
		return map[string]any{}
	}
	return exec.Variables
}
