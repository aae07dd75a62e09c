// package 'd' contains helper methods for building node definitions.
// It is used as a convenience method when writing tests for
// workflows and node kinds.
package d

import (
	"github.com/common-fate/govern/pkg/definition"
)

func Start(name string) *definition.StartEvent {
	return &definition.StartEvent{Base: definition.Base{Name: name}}
}

func End(name string) *definition.EndEvent {
	return &definition.EndEvent{Base: definition.Base{Name: name}}
}

// Check creates a CHECK_ENTITY_ATTRIBUTES_TASK with a CEL predicate.
func Check(name, predicate string) *definition.CheckEntityAttributesTask {
	return &definition.CheckEntityAttributesTask{Base: definition.Base{Name: name}, Predicate: predicate}
}

func Certify(name, certification string) *definition.SetEntityCertificationTask {
	return &definition.SetEntityCertificationTask{Base: definition.Base{Name: name}, Certification: certification}
}

func GlossaryStatus(name, status string) *definition.SetGlossaryTermStatusTask {
	return &definition.SetGlossaryTermStatusTask{Base: definition.Base{Name: name}, TargetStatus: status}
}

// Approval creates a USER_APPROVAL_TASK which needs a single
// approval from any of the approvers.
func Approval(name string, approvers ...string) *definition.UserApprovalTask {
	return &definition.UserApprovalTask{Base: definition.Base{Name: name}, Approvers: approvers}
}

func Automation(name, automation string) *definition.PythonWorkflowAutomationTask {
	return &definition.PythonWorkflowAutomationTask{Base: definition.Base{Name: name}, Automation: automation}
}

func JsonLogic(name, rules string) *definition.JsonLogicTask {
	return &definition.JsonLogicTask{Base: definition.Base{Name: name}, Rules: rules}
}

// Valid returns a well-formed definition for each subtype.
func Valid(s definition.SubType) definition.Definition {
	switch s {
	case definition.StartEventType:
		return Start("start")
	case definition.EndEventType:
		return End("end")
	case definition.CheckEntityAttributesTaskType:
		return Check("check", "owner != null")
	case definition.SetEntityCertificationTaskType:
		return Certify("certify", "Certification.Gold")
	case definition.SetGlossaryTermStatusTaskType:
		return GlossaryStatus("status", "Approved")
	case definition.UserApprovalTaskType:
		return Approval("approve", "alice")
	case definition.PythonWorkflowAutomationTaskType:
		return Automation("automation", "lineage-propagation")
	case definition.JsonLogicTaskType:
		return JsonLogic("filter", `{"==": [{"var": "entityType"}, "table"]}`)
	}
	return nil
}
