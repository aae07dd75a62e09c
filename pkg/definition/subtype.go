package definition

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
)

// SubType is the discriminator selecting which node variant
// a definition represents.
type SubType int

const (
	// Unknown is never produced by decoding. It exists so that the
	// zero value of SubType is not a valid node.
	Unknown SubType = iota
	StartEventType
	EndEventType
	CheckEntityAttributesTaskType
	SetEntityCertificationTaskType
	SetGlossaryTermStatusTaskType
	UserApprovalTaskType
	PythonWorkflowAutomationTaskType
	JsonLogicTaskType
)

// SubTypes contains every supported subtype, in declaration order.
// It is derived from the subtype names, and node constructors
// are checked against it.
var SubTypes = subTypesOf(subTypeNames)

var subTypeNames = map[SubType]string{
	StartEventType:                   "START_EVENT",
	EndEventType:                     "END_EVENT",
	CheckEntityAttributesTaskType:    "CHECK_ENTITY_ATTRIBUTES_TASK",
	SetEntityCertificationTaskType:   "SET_ENTITY_CERTIFICATION_TASK",
	SetGlossaryTermStatusTaskType:    "SET_GLOSSARY_TERM_STATUS_TASK",
	UserApprovalTaskType:             "USER_APPROVAL_TASK",
	PythonWorkflowAutomationTaskType: "PYTHON_WORKFLOW_AUTOMATION_TASK",
	JsonLogicTaskType:                "JSON_LOGIC_TASK",
}

func subTypesOf(names map[SubType]string) []SubType {
	var out []SubType
	for st := range names {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func init() {
	// a subtype which can be parsed must also have a category
	// and a definition, or the program fails to start.
	err := checkSubTypes(SubTypes)
	if err != nil {
		panic(err)
	}
}

func checkSubTypes(subTypes []SubType) error {
	for _, st := range subTypes {
		if st.Type() == 0 {
			return fmt.Errorf("subtype %s has no category", st)
		}
		if _, err := New(st); err != nil {
			return fmt.Errorf("subtype %s has no definition: %w", st, err)
		}
	}
	return nil
}

func (s SubType) String() string {
	if name, ok := subTypeNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseSubType parses the discriminator value of a node definition,
// e.g. "CHECK_ENTITY_ATTRIBUTES_TASK".
func ParseSubType(s string) (SubType, error) {
	for st, name := range subTypeNames {
		if name == s {
			return st, nil
		}
	}
	return Unknown, errors.Wrapf(ErrUnsupportedNodeType, "subType %q", s)
}

func (s SubType) MarshalText() ([]byte, error) {
	if _, ok := subTypeNames[s]; !ok {
		return nil, errors.Wrapf(ErrUnsupportedNodeType, "subType %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *SubType) UnmarshalText(b []byte) error {
	st, err := ParseSubType(string(b))
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// Type is the broad category of a node.
type Type int

const (
	StartEventCategory Type = iota + 1
	EndEventCategory
	AutomatedTaskCategory
	UserTaskCategory
)

func (t Type) String() string {
	switch t {
	case StartEventCategory:
		return "startEvent"
	case EndEventCategory:
		return "endEvent"
	case AutomatedTaskCategory:
		return "automatedTask"
	case UserTaskCategory:
		return "userTask"
	}
	return "unknown"
}

// Type returns the category the subtype belongs to,
// or 0 if the subtype is not supported.
func (s SubType) Type() Type {
	switch s {
	case StartEventType:
		return StartEventCategory
	case EndEventType:
		return EndEventCategory
	case CheckEntityAttributesTaskType,
		SetEntityCertificationTaskType,
		SetGlossaryTermStatusTaskType,
		PythonWorkflowAutomationTaskType,
		JsonLogicTaskType:
		return AutomatedTaskCategory
	case UserApprovalTaskType:
		return UserTaskCategory
	}
	return 0
}

// Boolean returns true if nodes of this subtype produce a
// true/false result which workflow edges can branch on.
func (s SubType) Boolean() bool {
	switch s {
	case CheckEntityAttributesTaskType, JsonLogicTaskType, UserApprovalTaskType:
		return true
	}
	return false
}
