package govern

import (
	"fmt"
	"sort"
	"testing"

	"github.com/common-fate/govern/pkg/definition"
	"github.com/common-fate/govern/pkg/definition/d"
	"github.com/common-fate/govern/pkg/jsoncel"
	"github.com/common-fate/govern/pkg/node"
	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

// The output of the test follows the pattern:
//
//	<from_node> -> <to_node> [condition]
//
// This helps us verify that the DAG is being built as we expect
// for particular workflows.
func Test_Compile(t *testing.T) {
	tests := []struct {
		name    string
		give    Compiler
		want    []string
		wantErr string
	}{
		{
			name: "ok",
			give: Compiler{
				Workflow: Sequence("wf",
					d.Start("A"),
					d.End("B"),
				),
			},
			want: []string{
				"START_EVENT: A -> END_EVENT: B",
			},
		},
		{
			name: "display names are used as labels",
			give: Compiler{
				Workflow: Sequence("wf",
					d.Start("A"),
					func() definition.Definition {
						c := d.Certify("B", "Certification.Gold")
						c.DisplayName = "Certify Gold"
						return c
					}(),
					d.End("C"),
				),
			},
			want: []string{
				"SET_ENTITY_CERTIFICATION_TASK: Certify Gold -> END_EVENT: C",
				"START_EVENT: A -> SET_ENTITY_CERTIFICATION_TASK: Certify Gold",
			},
		},
		{
			name: "three nodes",
			give: Compiler{
				Workflow: Sequence("wf",
					d.Start("A"),
					d.Certify("B", "Certification.Gold"),
					d.End("C"),
				),
			},
			want: []string{
				"SET_ENTITY_CERTIFICATION_TASK: B -> END_EVENT: C",
				"START_EVENT: A -> SET_ENTITY_CERTIFICATION_TASK: B",
			},
		},
		{
			name: "conditional branches",
			give: Compiler{
				Workflow: NewWorkflow("wf",
					d.Start("A"),
					d.Check("B", "owner != null"),
					d.End("C"),
					d.End("D"),
				).Edge("A", "B").When("B", true, "C").When("B", false, "D"),
			},
			want: []string{
				"CHECK_ENTITY_ATTRIBUTES_TASK: B -> END_EVENT: C [true]",
				"CHECK_ENTITY_ATTRIBUTES_TASK: B -> END_EVENT: D [false]",
				"START_EVENT: A -> CHECK_ENTITY_ATTRIBUTES_TASK: B",
			},
		},
		{
			name: "two start events joining",
			give: Compiler{
				Workflow: NewWorkflow("wf",
					d.Start("A"),
					d.Start("B"),
					d.End("C"),
				).Edge("A", "C").Edge("B", "C"),
			},
			want: []string{
				"START_EVENT: A -> END_EVENT: C",
				"START_EVENT: B -> END_EVENT: C",
			},
		},
		{
			name:    "nil workflow",
			give:    Compiler{},
			wantErr: "workflow is nil",
		},
		{
			name: "no name",
			give: Compiler{
				Workflow: Sequence("", d.Start("A"), d.End("B")),
			},
			wantErr: "workflow must have a name",
		},
		{
			name: "no start event",
			give: Compiler{
				Workflow: Sequence("wf", d.Certify("A", "Certification.Gold"), d.End("B")),
			},
			wantErr: "workflow must contain at least one start event",
		},
		{
			name: "no end event",
			give: Compiler{
				Workflow: Sequence("wf", d.Start("A"), d.Certify("B", "Certification.Gold")),
			},
			wantErr: "workflow must contain at least one end event",
		},
		{
			name: "duplicate node",
			give: Compiler{
				Workflow: Sequence("wf", d.Start("A"), d.End("A")),
			},
			wantErr: "node A is defined more than once",
		},
		{
			name: "unnamed node",
			give: Compiler{
				Workflow: Sequence("wf", d.Start("A"), d.End("")),
			},
			wantErr: "END_EVENT node must have a name: invalid node definition",
		},
		{
			name: "unknown edge target",
			give: Compiler{
				Workflow: NewWorkflow("wf", d.Start("A"), d.End("B")).Edge("A", "B").Edge("A", "C"),
			},
			wantErr: "invalid edge A -> C: node C does not exist",
		},
		{
			name: "edge out of end event",
			give: Compiler{
				Workflow: NewWorkflow("wf", d.Start("A"), d.End("B"), d.End("C")).Edge("A", "B").Edge("B", "C"),
			},
			wantErr: "invalid edge B -> C: end event B cannot have outgoing edges",
		},
		{
			name: "edge into start event",
			give: Compiler{
				Workflow: NewWorkflow("wf", d.Start("A"), d.Start("B"), d.End("C")).Edge("A", "B").Edge("B", "C"),
			},
			wantErr: "invalid edge A -> B: start event B cannot have incoming edges",
		},
		{
			name: "condition on a node without a result",
			give: Compiler{
				Workflow: NewWorkflow("wf", d.Start("A"), d.End("B")).When("A", true, "B"),
			},
			wantErr: `invalid edge A -> B: condition "true" requires A to produce a boolean result, but START_EVENT nodes do not`,
		},
		{
			name: "unknown condition",
			give: Compiler{
				Workflow: &Workflow{
					Name:  "wf",
					Nodes: []definition.Definition{d.Start("A"), d.Check("B", "owner != null"), d.End("C")},
					Edges: []Edge{{From: "A", To: "B"}, {From: "B", To: "C", Condition: "maybe"}},
				},
			},
			wantErr: `invalid edge B -> C: condition must be 'true' or 'false' (got "maybe")`,
		},
		{
			name: "unknown edge source",
			give: Compiler{
				Workflow: Sequence("wf", d.Start("A"), d.End("B")).Edge("C", "B"),
			},
			wantErr: "invalid edge C -> B: node C does not exist",
		},
		{
			name: "orphaned node",
			give: Compiler{
				Workflow: NewWorkflow("wf", d.Start("A"), d.Check("B", "owner != null"), d.End("C")).Edge("A", "C").Edge("B", "C"),
			},
			wantErr: "node B is not reachable from any start event",
		},
		{
			name: "dead end",
			give: Compiler{
				Workflow: NewWorkflow("wf", d.Start("A"), d.Certify("B", "Certification.Gold"), d.End("C")).Edge("A", "B").Edge("A", "C"),
			},
			wantErr: "node B has no outgoing edges: only end events may terminate a workflow",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.give.Compile()
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			if err != nil {
				t.Fatal(err)
			}

			assert.Equal(t, tt.want, printAdjacencyMap(t, got.G))
		})
	}
}

func TestCompile_Cycle(t *testing.T) {
	w := NewWorkflow("wf",
		d.Start("A"),
		d.Check("B", "owner != null"),
		d.Certify("C", "Certification.Gold"),
		d.End("D"),
	).Edge("A", "B").When("B", true, "C").Edge("C", "B").When("B", false, "D")

	c := Compiler{Workflow: w}
	_, err := c.Compile()
	assert.Error(t, err)
}

func TestCompile_InvalidNodes(t *testing.T) {
	tests := []struct {
		name    string
		give    definition.Definition
		wantErr error
	}{
		{
			name:    "invalid predicate",
			give:    d.Check("B", "owner !="),
			wantErr: node.ErrInvalidNodeDefinition,
		},
		{
			name:    "unknown certification",
			give:    d.Certify("B", "Certification.Platinum"),
			wantErr: node.ErrInvalidNodeDefinition,
		},
		{
			name:    "nil definition",
			give:    nil,
			wantErr: node.ErrUnsupportedNodeType,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Compiler{Workflow: &Workflow{
				Name:  "wf",
				Nodes: []definition.Definition{d.Start("A"), tt.give, d.End("C")},
				Edges: []Edge{{From: "A", To: "B"}, {From: "B", To: "C"}},
			}}
			_, err := c.Compile()
			assert.True(t, errors.Is(err, tt.wantErr), "got error %v", err)
		})
	}
}

func TestCompile_EntitySchema(t *testing.T) {
	c := Compiler{
		Workflow: NewWorkflow("wf",
			d.Start("A"),
			d.Check("B", `entity.extension.retention == "30d"`),
			d.End("C"),
		).Edge("A", "B").When("B", true, "C"),
		Factory: node.Factory{EntitySchema: &jsoncel.Schema{
			Type: jsoncel.Object,
			Properties: map[string]*jsoncel.Schema{
				"extension": {
					Type: jsoncel.Object,
					Properties: map[string]*jsoncel.Schema{
						"retention": {Type: jsoncel.String},
					},
				},
			},
		}},
	}
	_, err := c.Compile()
	assert.NoError(t, err)

	// without a schema the 'entity' variable is not declared.
	c.Factory = node.Factory{}
	_, err = c.Compile()
	assert.True(t, errors.Is(err, node.ErrInvalidNodeDefinition))
}

// printAdjacencyMap prints a string representation of the adjancency map.
func printAdjacencyMap(t *testing.T, g graph.Graph[string, Vertex]) []string {
	adj, err := g.AdjacencyMap()
	if err != nil {
		t.Fatal(err)
	}

	var result []string

	for _, v := range adj {
		for _, e := range v {
			source, err := g.Vertex(e.Source)
			if err != nil {
				t.Fatal(err)
			}
			target, err := g.Vertex(e.Target)
			if err != nil {
				t.Fatal(err)
			}

			line := fmt.Sprintf("%s -> %s", source.Label, target.Label)
			if c := e.Properties.Attributes["label"]; c != "" {
				line += fmt.Sprintf(" [%s]", c)
			}
			result = append(result, line)
		}
	}

	sort.Strings(result)
	return result
}
