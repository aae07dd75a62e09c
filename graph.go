package govern

import (
	"time"

	"github.com/common-fate/govern/pkg/definition"
	"github.com/common-fate/govern/pkg/node"
	"github.com/dominikbraun/graph"
)

// Vertex is a node in the workflow graph.
type Vertex struct {
	Name    string
	SubType definition.SubType
	// Label is a human-readable description of the node.
	Label string
}

// Hash returns the name of the vertex,
// which uniquely identifies it in the workflow.
func Hash(v Vertex) string {
	return v.Name
}

// Graph is a compiled workflow which can be executed.
// A Graph holds no per-instance state and may be used to
// run many instances concurrently.
type Graph struct {
	// G is the underlying graph data structure.
	G graph.Graph[string, Vertex]

	// Workflow the graph was compiled from.
	Workflow *Workflow

	// nodes is a map of vertex hashes to executable nodes.
	nodes map[string]node.Node

	// out is the outgoing edges of each node, in declaration order.
	out map[string][]Edge

	// starts is the start events, in declaration order.
	starts []string

	// priority of each end event. End events declared later
	// in the workflow have a higher priority.
	priority map[string]int

	now func() time.Time
}

func NewGraph(w *Workflow) *Graph {
	return &Graph{
		G:        graph.New(Hash, graph.Directed(), graph.PreventCycles()),
		Workflow: w,
		nodes:    map[string]node.Node{},
		out:      map[string][]Edge{},
		priority: map[string]int{},
		now:      time.Now,
	}
}

// Node returns the executable node with the given name.
func (g *Graph) Node(name string) (node.Node, bool) {
	n, ok := g.nodes[name]
	return n, ok
}
