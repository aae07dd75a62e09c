package node

import (
	"fmt"

	"github.com/common-fate/govern/pkg/definition"
	"github.com/pkg/errors"
)

var (
	ErrUnsupportedNodeType   = definition.ErrUnsupportedNodeType
	ErrInvalidNodeDefinition = definition.ErrInvalidNodeDefinition

	ErrNoEntity = errors.New("execution has no entity")
)

// ExecutionError is returned when a node fails to execute.
// It is propagated to the workflow engine, which decides
// whether to abort the workflow instance.
type ExecutionError struct {
	Node    string
	SubType definition.SubType
	Err     error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("executing %s node %s: %s", e.SubType, e.Node, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

func failed(n Node, err error) error {
	return &ExecutionError{Node: n.Name(), SubType: n.SubType(), Err: err}
}
