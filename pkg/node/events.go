package node

import (
	"context"

	"github.com/common-fate/govern/pkg/definition"
)

// StartEvent marks the entry of a workflow graph.
type StartEvent struct {
	base
}

func newStartEvent(_ Factory, def definition.Definition) (Node, error) {
	d, err := cast[definition.StartEvent](def)
	if err != nil {
		return nil, err
	}
	return &StartEvent{base: newBase(d)}, nil
}

func (n *StartEvent) Execute(ctx context.Context, exec *Execution) (Outcome, error) {
	return succeeded(), nil
}

// EndEvent marks the termination of a workflow graph.
type EndEvent struct {
	base
}

func newEndEvent(_ Factory, def definition.Definition) (Node, error) {
	d, err := cast[definition.EndEvent](def)
	if err != nil {
		return nil, err
	}
	return &EndEvent{base: newBase(d)}, nil
}

func (n *EndEvent) Execute(ctx context.Context, exec *Execution) (Outcome, error) {
	return succeeded(), nil
}
