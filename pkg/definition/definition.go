// Package definition contains the authored, serializable descriptions
// of governance workflow nodes.
//
// A Definition is a tagged union: each node subtype has its own
// struct carrying the configuration specific to that node, and the
// subtype is derived from the struct rather than stored alongside it.
package definition

import (
	"github.com/pkg/errors"
)

var (
	// ErrUnsupportedNodeType is returned when a definition's
	// subtype does not match any known node kind.
	ErrUnsupportedNodeType = errors.New("unsupported node type")

	// ErrInvalidNodeDefinition is returned when a definition's
	// payload does not satisfy the shape its subtype requires.
	ErrInvalidNodeDefinition = errors.New("invalid node definition")
)

// Definition describes a single workflow node.
// Definitions are immutable once decoded.
type Definition interface {
	SubType() SubType
	NodeName() string
}

// Base contains the fields shared by every node definition.
type Base struct {
	// Name is a unique identifier for the node within a workflow.
	// e.g. "checkOwner"
	Name string `mapstructure:"name" json:"name,omitempty" yaml:"name,omitempty"`

	// DisplayName is a friendly display name for the node.
	DisplayName string `mapstructure:"displayName" json:"displayName,omitempty" yaml:"displayName,omitempty"`

	Description string `mapstructure:"description" json:"description,omitempty" yaml:"description,omitempty"`
}

func (b Base) NodeName() string {
	return b.Name
}

// Label prints a human-friendly label for the node.
func (b Base) Label() string {
	if b.DisplayName != "" {
		return b.DisplayName
	}
	return b.Name
}

// StartEvent marks the entry of a workflow graph.
type StartEvent struct {
	Base `mapstructure:",squash" yaml:",inline"`
}

func (*StartEvent) SubType() SubType { return StartEventType }

// EndEvent marks the termination of a workflow graph.
type EndEvent struct {
	Base `mapstructure:",squash" yaml:",inline"`
}

func (*EndEvent) SubType() SubType { return EndEventType }

// CheckEntityAttributesTask evaluates a predicate over
// the attributes of the entity being processed.
type CheckEntityAttributesTask struct {
	Base `mapstructure:",squash" yaml:",inline"`

	// Predicate is a CEL expression returning a boolean,
	// e.g. 'owner != null'.
	Predicate string `mapstructure:"predicate" json:"predicate" yaml:"predicate" validate:"required"`
}

func (*CheckEntityAttributesTask) SubType() SubType { return CheckEntityAttributesTaskType }

// SetEntityCertificationTask applies a certification to the entity.
// An empty certification removes any existing certification.
type SetEntityCertificationTask struct {
	Base `mapstructure:",squash" yaml:",inline"`

	Certification string `mapstructure:"certification" json:"certification" yaml:"certification" validate:"omitempty,oneof=Certification.Bronze Certification.Silver Certification.Gold"`
}

func (*SetEntityCertificationTask) SubType() SubType { return SetEntityCertificationTaskType }

// SetGlossaryTermStatusTask moves a glossary term to a new status.
type SetGlossaryTermStatusTask struct {
	Base `mapstructure:",squash" yaml:",inline"`

	TargetStatus string `mapstructure:"targetStatus" json:"targetStatus" yaml:"targetStatus" validate:"required"`
}

func (*SetGlossaryTermStatusTask) SubType() SubType { return SetGlossaryTermStatusTaskType }

// UserApprovalTask suspends the workflow until a human
// approves or rejects the entity.
type UserApprovalTask struct {
	Base `mapstructure:",squash" yaml:",inline"`

	// Approvers are the users or teams allowed to decide.
	Approvers []string `mapstructure:"approvers" json:"approvers,omitempty" yaml:"approvers,omitempty" validate:"dive,required"`

	// AddReviewers adds the reviewers of the entity as approvers.
	AddReviewers bool `mapstructure:"addReviewers" json:"addReviewers,omitempty" yaml:"addReviewers,omitempty"`

	// ApprovalThreshold is the number of approvals needed.
	// Defaults to 1. Each member of an approving team votes separately,
	// so the threshold may exceed the number of Approvers. A threshold
	// no set of assignees can reach leaves the node waiting.
	ApprovalThreshold int `mapstructure:"approvalThreshold" json:"approvalThreshold,omitempty" yaml:"approvalThreshold,omitempty" validate:"gte=0"`

	// RejectionThreshold is the number of rejections needed.
	// Defaults to 1. Counted per user like ApprovalThreshold.
	RejectionThreshold int `mapstructure:"rejectionThreshold" json:"rejectionThreshold,omitempty" yaml:"rejectionThreshold,omitempty" validate:"gte=0"`
}

func (*UserApprovalTask) SubType() SubType { return UserApprovalTaskType }

// PythonWorkflowAutomationTask delegates execution to an
// external automation runner.
type PythonWorkflowAutomationTask struct {
	Base `mapstructure:",squash" yaml:",inline"`

	// Automation identifies the automation the external runner executes.
	Automation string         `mapstructure:"automation" json:"automation" yaml:"automation" validate:"required"`
	Parameters map[string]any `mapstructure:"parameters" json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

func (*PythonWorkflowAutomationTask) SubType() SubType { return PythonWorkflowAutomationTaskType }

// JsonLogicTask evaluates a JSON-Logic rule against the entity.
type JsonLogicTask struct {
	Base `mapstructure:",squash" yaml:",inline"`

	// Rules is the JSON-Logic expression as JSON text,
	// e.g. '{"==": [{"var": "entityType"}, "table"]}'.
	Rules string `mapstructure:"rules" json:"rules" yaml:"rules" validate:"required"`
}

func (*JsonLogicTask) SubType() SubType { return JsonLogicTaskType }

// New returns an empty definition for the subtype.
func New(s SubType) (Definition, error) {
	switch s {
	case StartEventType:
		return &StartEvent{}, nil
	case EndEventType:
		return &EndEvent{}, nil
	case CheckEntityAttributesTaskType:
		return &CheckEntityAttributesTask{}, nil
	case SetEntityCertificationTaskType:
		return &SetEntityCertificationTask{}, nil
	case SetGlossaryTermStatusTaskType:
		return &SetGlossaryTermStatusTask{}, nil
	case UserApprovalTaskType:
		return &UserApprovalTask{}, nil
	case PythonWorkflowAutomationTaskType:
		return &PythonWorkflowAutomationTask{}, nil
	case JsonLogicTaskType:
		return &JsonLogicTask{}, nil
	}
	return nil, errors.Wrapf(ErrUnsupportedNodeType, "subType %s", s)
}
