// Package node contains the executable governance workflow nodes
// and the factory which builds them from their definitions.
package node

import (
	"context"

	"github.com/common-fate/govern/pkg/approval"
	"github.com/common-fate/govern/pkg/definition"
	"github.com/common-fate/govern/pkg/entity"
)

// Node is the runtime counterpart of a node definition.
type Node interface {
	Name() string
	SubType() definition.SubType
	// Execute the node. Each node is executed at most once
	// per workflow traversal.
	Execute(ctx context.Context, exec *Execution) (Outcome, error)
}

// Resumer is implemented by nodes which can suspend,
// such as USER_APPROVAL_TASK.
type Resumer interface {
	Node
	// Resume a suspended node once its approval request has
	// been decided on.
	Resume(ctx context.Context, exec *Execution, req *approval.Request) (Outcome, error)
}

// Execution carries the state a node executes against.
type Execution struct {
	// InstanceID is the ID of the workflow instance.
	InstanceID string

	// Entity is the entity being processed.
	// Nodes may update it.
	Entity *entity.Entity

	// Variables are workflow-scoped values, such as the
	// results of previously executed nodes.
	Variables map[string]any
}

type Status int

const (
	Succeeded Status = iota
	// Pending means the node has suspended and is waiting
	// for an external signal.
	Pending
)

func (s Status) String() string {
	switch s {
	case Succeeded:
		return "succeeded"
	case Pending:
		return "pending"
	}
	return "unknown"
}

// Result is the boolean result of a node,
// used to choose which workflow edges to follow.
type Result int

const (
	NoResult Result = iota
	True
	False
)

func ResultOf(b bool) Result {
	if b {
		return True
	}
	return False
}

// String returns the edge condition matching the result.
func (r Result) String() string {
	switch r {
	case True:
		return "true"
	case False:
		return "false"
	}
	return ""
}

// Outcome of executing a node.
type Outcome struct {
	Status Status
	Result Result

	// Changes made to the entity.
	Changes []entity.FieldChange

	// Approval is set if the node is pending a human decision.
	Approval *approval.Request

	// Delegated is set to the automation identifier if
	// execution was handed off to an external runner.
	Delegated string
}

func succeeded() Outcome {
	return Outcome{Status: Succeeded}
}
