package node

import (
	"testing"

	"github.com/common-fate/govern/pkg/definition"
	"github.com/common-fate/govern/pkg/definition/d"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

// fakeDefinition reports any subtype, but is not the
// payload any node kind expects.
type fakeDefinition struct {
	subType definition.SubType
}

func (f fakeDefinition) SubType() definition.SubType { return f.subType }
func (f fakeDefinition) NodeName() string            { return "fake" }

func TestCreate_AllSubTypes(t *testing.T) {
	wantKinds := map[definition.SubType]Node{
		definition.StartEventType:                   &StartEvent{},
		definition.EndEventType:                     &EndEvent{},
		definition.CheckEntityAttributesTaskType:    &CheckEntityAttributesTask{},
		definition.SetEntityCertificationTaskType:   &SetEntityCertificationTask{},
		definition.SetGlossaryTermStatusTaskType:    &SetGlossaryTermStatusTask{},
		definition.UserApprovalTaskType:             &UserApprovalTask{},
		definition.PythonWorkflowAutomationTaskType: &NoOpTask{},
		definition.JsonLogicTaskType:                &JsonLogicFilterTask{},
	}

	for _, st := range definition.SubTypes {
		t.Run(st.String(), func(t *testing.T) {
			def := d.Valid(st)
			n, err := Create(def)
			if err != nil {
				t.Fatal(err)
			}
			assert.Equal(t, st, n.SubType())
			assert.Equal(t, def.NodeName(), n.Name())
			assert.IsType(t, wantKinds[st], n)
		})
	}
}

func TestCreate_FreshNodes(t *testing.T) {
	def := d.Check("check", "owner != null")

	a, err := Create(def)
	assert.NoError(t, err)
	b, err := Create(def)
	assert.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.Equal(t, "owner != null", def.Predicate)
}

func TestCheckConstructors(t *testing.T) {
	assert.NoError(t, checkConstructors(definition.SubTypes))

	// a subtype added without a node kind
	added := append(append([]definition.SubType{}, definition.SubTypes...), definition.SubType(99))
	assert.Error(t, checkConstructors(added))
}

func TestCreate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		give    definition.Definition
		wantErr error
	}{
		{
			name:    "nil definition",
			give:    nil,
			wantErr: ErrUnsupportedNodeType,
		},
		{
			name:    "unknown subtype",
			give:    fakeDefinition{subType: definition.SubType(99)},
			wantErr: ErrUnsupportedNodeType,
		},
		{
			name:    "zero subtype",
			give:    fakeDefinition{subType: definition.Unknown},
			wantErr: ErrUnsupportedNodeType,
		},
		{
			name:    "payload does not match subtype",
			give:    fakeDefinition{subType: definition.JsonLogicTaskType},
			wantErr: ErrInvalidNodeDefinition,
		},
		{
			name:    "nil payload",
			give:    (*definition.StartEvent)(nil),
			wantErr: ErrInvalidNodeDefinition,
		},
		{
			name:    "predicate does not compile",
			give:    d.Check("check", "owner !="),
			wantErr: ErrInvalidNodeDefinition,
		},
		{
			name:    "predicate is not a boolean",
			give:    d.Check("check", "owner"),
			wantErr: ErrInvalidNodeDefinition,
		},
		{
			name:    "predicate references unknown attribute",
			give:    d.Check("check", "colour == 'blue'"),
			wantErr: ErrInvalidNodeDefinition,
		},
		{
			name:    "empty predicate",
			give:    d.Check("check", ""),
			wantErr: ErrInvalidNodeDefinition,
		},
		{
			name:    "unknown certification",
			give:    d.Certify("certify", "Certification.Platinum"),
			wantErr: ErrInvalidNodeDefinition,
		},
		{
			name:    "unknown glossary status",
			give:    d.GlossaryStatus("status", "Published"),
			wantErr: ErrInvalidNodeDefinition,
		},
		{
			name:    "approval without approvers",
			give:    d.Approval("approve"),
			wantErr: ErrInvalidNodeDefinition,
		},
		{
			name:    "automation without an identifier",
			give:    d.Automation("automation", ""),
			wantErr: ErrInvalidNodeDefinition,
		},
		{
			name:    "rules are not JSON",
			give:    d.JsonLogic("filter", `{"==": [`),
			wantErr: ErrInvalidNodeDefinition,
		},
		{
			name:    "rules are not an object",
			give:    d.JsonLogic("filter", `[1, 2]`),
			wantErr: ErrInvalidNodeDefinition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Create(tt.give)
			assert.True(t, errors.Is(err, tt.wantErr), "got error %v", err)
			assert.Nil(t, n)
		})
	}
}

func TestCreate_TeamThreshold(t *testing.T) {
	// one team can cast more votes than there are approvers
	def := d.Approval("approve", "data-platform")
	def.ApprovalThreshold = 2

	n, err := Create(def)
	assert.NoError(t, err)
	assert.Equal(t, 2, n.(*UserApprovalTask).policy.ApprovalThreshold)
}
