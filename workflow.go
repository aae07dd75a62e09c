package govern

import (
	"github.com/common-fate/govern/pkg/definition"
	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/pkg/errors"
)

// Workflow is a governance workflow definition.
//
// A workflow is a graph of nodes connected by edges. Execution
// begins at the workflow's start events and follows edges
// until end events are reached.
type Workflow struct {
	Name        string
	DisplayName string
	Description string
	Trigger     Trigger
	Nodes       []definition.Definition
	Edges       []Edge

	// sources maps node names to the YAML nodes they were
	// decoded from. Used to pretty-print errors.
	sources map[string]ast.Node
}

// Trigger configures which entities the workflow runs for.
type Trigger struct {
	// EntityTypes the workflow runs for.
	// If empty, the workflow runs for any entity type.
	EntityTypes []string `yaml:"entityTypes" json:"entityTypes,omitempty"`
}

// Edge connects two nodes in a workflow.
type Edge struct {
	From string `yaml:"from" json:"from"`
	To   string `yaml:"to" json:"to"`
	// Condition is "true" or "false" if the edge should only be
	// followed for a particular result of the 'From' node.
	Condition Condition `yaml:"condition,omitempty" json:"condition,omitempty"`
}

// Condition is the node result an edge is followed for.
// The empty condition matches any result.
type Condition string

func (c *Condition) UnmarshalYAML(b []byte) error {
	var v any
	err := yaml.Unmarshal(b, &v)
	if err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*c = ""
	case bool:
		if t {
			*c = "true"
		} else {
			*c = "false"
		}
	case string:
		*c = Condition(t)
	default:
		return errors.Errorf("edge condition must be 'true' or 'false' (got %v)", v)
	}
	return nil
}

// NewWorkflow creates a workflow without any edges.
func NewWorkflow(name string, nodes ...definition.Definition) *Workflow {
	return &Workflow{Name: name, Nodes: nodes}
}

// Sequence creates a workflow where each node leads to the next.
// Used to build test workflows.
func Sequence(name string, nodes ...definition.Definition) *Workflow {
	w := NewWorkflow(name, nodes...)
	for i := 1; i < len(nodes); i++ {
		w.Edge(nodes[i-1].NodeName(), nodes[i].NodeName())
	}
	return w
}

// Edge adds an unconditional edge to the workflow.
func (w *Workflow) Edge(from, to string) *Workflow {
	w.Edges = append(w.Edges, Edge{From: from, To: to})
	return w
}

// When adds an edge which is followed only if the 'from'
// node has the given result.
func (w *Workflow) When(from string, result bool, to string) *Workflow {
	c := Condition("false")
	if result {
		c = "true"
	}
	w.Edges = append(w.Edges, Edge{From: from, To: to, Condition: c})
	return w
}

// source returns the YAML node a workflow node was decoded from, if any.
func (w *Workflow) source(name string) (ast.Node, bool) {
	n, ok := w.sources[name]
	return n, ok && n != nil
}
