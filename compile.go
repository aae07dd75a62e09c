package govern

import (
	"fmt"

	"github.com/common-fate/govern/pkg/definition"
	"github.com/common-fate/govern/pkg/node"
	"github.com/common-fate/govern/pkg/noderr"
	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
)

type Compiler struct {
	Workflow *Workflow
	// Factory builds the executable node for each definition.
	Factory node.Factory
}

// Compile a workflow into an execution graph.
//
// Every node is built through the Factory, so a workflow
// containing an unsupported or invalid node definition fails to compile.
func (c *Compiler) Compile() (*Graph, error) {
	w := c.Workflow
	if w == nil {
		return nil, errors.New("workflow is nil")
	}
	if w.Name == "" {
		return nil, errors.New("workflow must have a name")
	}

	g := NewGraph(w)
	if c.Factory.Now != nil {
		g.now = c.Factory.Now
	}

	var ends int
	for _, def := range w.Nodes {
		err := c.addNode(g, def)
		if err != nil {
			return nil, c.wrap(err, def)
		}
		switch def.SubType() {
		case definition.StartEventType:
			g.starts = append(g.starts, def.NodeName())
		case definition.EndEventType:
			ends++
			g.priority[def.NodeName()] = ends
		}
	}

	if len(g.starts) == 0 {
		return nil, errors.New("workflow must contain at least one start event")
	}
	if ends == 0 {
		return nil, errors.New("workflow must contain at least one end event")
	}

	for _, e := range w.Edges {
		err := c.addEdge(g, e)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid edge %s -> %s", e.From, e.To)
		}
		g.out[e.From] = append(g.out[e.From], e)
	}

	err := c.checkReachable(g)
	if err != nil {
		return nil, err
	}

	for _, def := range w.Nodes {
		name := def.NodeName()
		if def.SubType() != definition.EndEventType && len(g.out[name]) == 0 {
			return nil, c.wrap(fmt.Errorf("node %s has no outgoing edges: only end events may terminate a workflow", name), def)
		}
	}

	return g, nil
}

func (c *Compiler) addNode(g *Graph, def definition.Definition) error {
	if def == nil {
		return errors.Wrap(node.ErrUnsupportedNodeType, "node definition is nil")
	}
	name := def.NodeName()
	if name == "" {
		return errors.Wrapf(node.ErrInvalidNodeDefinition, "%s node must have a name", def.SubType())
	}

	n, err := c.Factory.Create(def)
	if err != nil {
		return err
	}

	label := name
	if l, ok := def.(interface{ Label() string }); ok {
		label = l.Label()
	}
	label = fmt.Sprintf("%s: %s", def.SubType(), label)
	err = g.G.AddVertex(Vertex{Name: name, SubType: def.SubType(), Label: label}, graph.VertexAttribute("label", label))
	if err == graph.ErrVertexAlreadyExists {
		return fmt.Errorf("node %s is defined more than once", name)
	}
	if err != nil {
		return err
	}

	g.nodes[name] = n
	return nil
}

func (c *Compiler) addEdge(g *Graph, e Edge) error {
	from, ok := g.nodes[e.From]
	if !ok {
		return fmt.Errorf("node %s does not exist", e.From)
	}
	to, ok := g.nodes[e.To]
	if !ok {
		return fmt.Errorf("node %s does not exist", e.To)
	}
	if from.SubType() == definition.EndEventType {
		return fmt.Errorf("end event %s cannot have outgoing edges", e.From)
	}
	if to.SubType() == definition.StartEventType {
		return fmt.Errorf("start event %s cannot have incoming edges", e.To)
	}

	switch e.Condition {
	case "":
	case "true", "false":
		if !from.SubType().Boolean() {
			return fmt.Errorf("condition %q requires %s to produce a boolean result, but %s nodes do not", e.Condition, e.From, from.SubType())
		}
	default:
		return fmt.Errorf("condition must be 'true' or 'false' (got %q)", e.Condition)
	}

	var opts []func(*graph.EdgeProperties)
	if e.Condition != "" {
		opts = append(opts, graph.EdgeAttribute("label", string(e.Condition)))
	}

	// PreventCycles causes AddEdge to fail for edges which would create a cycle.
	return g.G.AddEdge(e.From, e.To, opts...)
}

// checkReachable ensures every node can be reached from a start event.
func (c *Compiler) checkReachable(g *Graph) error {
	reached := map[string]bool{}
	for _, s := range g.starts {
		err := graph.BFS(g.G, s, func(k string) bool {
			reached[k] = true
			return false
		})
		if err != nil {
			return err
		}
	}

	for _, def := range c.Workflow.Nodes {
		if !reached[def.NodeName()] {
			return c.wrap(fmt.Errorf("node %s is not reachable from any start event", def.NodeName()), def)
		}
	}
	return nil
}

// wrap associates an error with the YAML node the definition was
// decoded from, if the workflow was unmarshalled from YAML.
func (c *Compiler) wrap(err error, def definition.Definition) error {
	if def == nil {
		return err
	}
	n, ok := c.Workflow.source(def.NodeName())
	if !ok {
		return err
	}
	return noderr.Wrap(err, n)
}
