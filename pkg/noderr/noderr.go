// Package noderr contains an error definition
// for workflow YAML errors.
package noderr

import (
	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/pkg/errors"
)

// NodeError is an error associated with a node
// in a workflow YAML file.
type NodeError struct {
	Node ast.Node
	Err  error
}

// PrettyPrint the error along with the YAML node.
func (ne NodeError) PrettyPrint(yml []byte) (string, error) {
	path, err := yaml.PathString(ne.Node.GetPath())
	if err != nil {
		return "", err
	}
	source, err := path.AnnotateSource(yml, true)
	if err != nil {
		return "", err
	}
	return string(source), nil
}

func (ne NodeError) Error() string {
	return ne.Err.Error()
}

func (ne NodeError) Unwrap() error {
	return ne.Err
}

// Wrap an error with the YAML node it occurred at.
// Errors which are already associated with a node are returned as-is,
// so that the innermost node is reported.
func Wrap(err error, node ast.Node) error {
	if err == nil {
		return nil
	}
	var ne NodeError
	if errors.As(err, &ne) {
		return err
	}
	return NodeError{Err: err, Node: node}
}
