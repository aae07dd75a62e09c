package govern

import (
	"testing"

	"github.com/common-fate/govern/pkg/definition"
	"github.com/common-fate/govern/pkg/definition/d"
	"github.com/stretchr/testify/assert"
)

func TestUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		give string
		// only is a small helper flag allowing one test to be isolated
		// without needing to comment out tests (which breaks YAML indent)
		only    bool
		want    *Workflow
		wantErr bool
	}{
		{
			name: "ok",
			give: `
name: wf
nodes:
  - name: A
    subType: START_EVENT
  - name: B
    subType: END_EVENT
edges:
  - from: A
    to: B
`,
			want: Sequence("wf", d.Start("A"), d.End("B")),
		},
		{
			name: "with trigger and metadata",
			give: `
name: glossaryTermApproval
displayName: Glossary Term Approval
description: Approves new glossary terms.
trigger:
  entityTypes: [glossaryTerm]
nodes:
  - name: A
    subType: START_EVENT
  - name: B
    subType: END_EVENT
edges:
  - from: A
    to: B
`,
			want: &Workflow{
				Name:        "glossaryTermApproval",
				DisplayName: "Glossary Term Approval",
				Description: "Approves new glossary terms.",
				Trigger:     Trigger{EntityTypes: []string{"glossaryTerm"}},
				Nodes:       []definition.Definition{d.Start("A"), d.End("B")},
				Edges:       []Edge{{From: "A", To: "B"}},
			},
		},
		{
			name: "conditions",
			give: `
name: wf
nodes:
  - name: A
    subType: START_EVENT
  - name: B
    subType: CHECK_ENTITY_ATTRIBUTES_TASK
    type: automatedTask
    predicate: owner != null
  - name: C
    subType: END_EVENT
  - name: D
    subType: END_EVENT
edges:
  - from: A
    to: B
  - from: B
    to: C
    condition: true
  - from: B
    to: D
    condition: "false"
`,
			want: NewWorkflow("wf",
				d.Start("A"),
				d.Check("B", "owner != null"),
				d.End("C"),
				d.End("D"),
			).Edge("A", "B").When("B", true, "C").When("B", false, "D"),
		},
		{
			name: "approval",
			give: `
name: wf
nodes:
  - name: A
    subType: START_EVENT
  - name: B
    subType: USER_APPROVAL_TASK
    approvers: [alice, bob]
    approvalThreshold: 2
  - name: C
    subType: END_EVENT
edges:
  - from: A
    to: B
  - from: B
    to: C
`,
			want: Sequence("wf",
				d.Start("A"),
				&definition.UserApprovalTask{
					Base:              definition.Base{Name: "B"},
					Approvers:         []string{"alice", "bob"},
					ApprovalThreshold: 2,
				},
				d.End("C"),
			),
		},
		{
			name: "invalid yaml",
			give: `
name: [wf
`,
			wantErr: true,
		},
		{
			name: "unknown field",
			give: `
name: wf
nodes:
  - name: A
    subType: START_EVENT
    predicate: owner != null
`,
			wantErr: true,
		},
	}

	var only bool
	for _, tt := range tests {
		if tt.only {
			only = true
		}
	}

	for _, tt := range tests {
		if only && !tt.only {
			continue
		}
		t.Run(tt.name, func(t *testing.T) {
			got, err := Unmarshal([]byte(tt.give))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			// sources are an implementation detail used for error reporting.
			assert.Len(t, got.sources, len(got.Nodes))
			got.sources = nil

			assert.Equal(t, tt.want, got)
		})
	}
}
