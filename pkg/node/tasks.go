package node

import (
	"context"
	"time"

	"github.com/common-fate/govern/pkg/definition"
	"github.com/common-fate/govern/pkg/entity"
	"github.com/pkg/errors"
)

// SetEntityCertificationTask applies a certification to the entity.
type SetEntityCertificationTask struct {
	base
	certification string
	now           func() time.Time
}

func newSetEntityCertificationTask(f Factory, def definition.Definition) (Node, error) {
	d, err := cast[definition.SetEntityCertificationTask](def)
	if err != nil {
		return nil, err
	}
	return &SetEntityCertificationTask{
		base:          newBase(d),
		certification: d.Certification,
		now:           f.now,
	}, nil
}

func (n *SetEntityCertificationTask) Execute(ctx context.Context, exec *Execution) (Outcome, error) {
	if exec == nil || exec.Entity == nil {
		return Outcome{}, failed(n, ErrNoEntity)
	}

	change, err := exec.Entity.SetCertification(n.certification, n.now())
	if err != nil {
		return Outcome{}, failed(n, err)
	}
	return Outcome{Status: Succeeded, Changes: []entity.FieldChange{change}}, nil
}

// SetGlossaryTermStatusTask moves a glossary term to a new status.
type SetGlossaryTermStatusTask struct {
	base
	target entity.Status
}

func newSetGlossaryTermStatusTask(_ Factory, def definition.Definition) (Node, error) {
	d, err := cast[definition.SetGlossaryTermStatusTask](def)
	if err != nil {
		return nil, err
	}
	target, err := entity.ParseStatus(d.TargetStatus)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidNodeDefinition, err.Error())
	}
	return &SetGlossaryTermStatusTask{base: newBase(d), target: target}, nil
}

func (n *SetGlossaryTermStatusTask) Execute(ctx context.Context, exec *Execution) (Outcome, error) {
	if exec == nil || exec.Entity == nil {
		return Outcome{}, failed(n, ErrNoEntity)
	}

	change, err := exec.Entity.SetStatus(n.target)
	if err != nil {
		return Outcome{}, failed(n, err)
	}
	return Outcome{Status: Succeeded, Changes: []entity.FieldChange{change}}, nil
}

// NoOpTask stands in for PYTHON_WORKFLOW_AUTOMATION_TASK nodes.
// The automation itself is run by an external runner, so the
// node has no local side effects.
type NoOpTask struct {
	base
	automation string
	parameters map[string]any
}

func newNoOpTask(_ Factory, def definition.Definition) (Node, error) {
	d, err := cast[definition.PythonWorkflowAutomationTask](def)
	if err != nil {
		return nil, err
	}

	params := make(map[string]any, len(d.Parameters))
	for k, v := range d.Parameters {
		params[k] = v
	}
	return &NoOpTask{base: newBase(d), automation: d.Automation, parameters: params}, nil
}

func (n *NoOpTask) Execute(ctx context.Context, exec *Execution) (Outcome, error) {
	return Outcome{Status: Succeeded, Delegated: n.automation}, nil
}

// Parameters passed to the external automation runner.
func (n *NoOpTask) Parameters() map[string]any {
	out := make(map[string]any, len(n.parameters))
	for k, v := range n.parameters {
		out[k] = v
	}
	return out
}
