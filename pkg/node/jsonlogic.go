package node

import (
	"bytes"
	"context"

	"github.com/common-fate/govern/pkg/definition"
	"github.com/diegoholiveira/jsonlogic/v3"
	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// JsonLogicFilterTask evaluates a JSON-Logic rule against the
// entity's attributes. The rule's result is converted to a boolean
// using JSON-Logic truthiness.
type JsonLogicFilterTask struct {
	base
	// rules is kept as JSON and decoded on each execution,
	// so that executions never share the decoded rule.
	rules []byte
}

func newJsonLogicFilterTask(_ Factory, def definition.Definition) (Node, error) {
	d, err := cast[definition.JsonLogicTask](def)
	if err != nil {
		return nil, err
	}

	var rule any
	err = json.Unmarshal([]byte(d.Rules), &rule)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidNodeDefinition, "rules are not valid JSON: %s", err)
	}
	if _, ok := rule.(map[string]any); !ok {
		return nil, errors.Wrapf(ErrInvalidNodeDefinition, "rules must be a JSON-Logic object (got %T)", rule)
	}

	return &JsonLogicFilterTask{base: newBase(d), rules: bytes.TrimSpace([]byte(d.Rules))}, nil
}

func (n *JsonLogicFilterTask) Execute(ctx context.Context, exec *Execution) (Outcome, error) {
	if exec == nil || exec.Entity == nil {
		return Outcome{}, failed(n, ErrNoEntity)
	}

	var rule any
	err := json.Unmarshal(n.rules, &rule)
	if err != nil {
		return Outcome{}, failed(n, err)
	}

	input := exec.Entity.Attributes()
	input["variables"] = variables(exec)

	// JSON-Logic operates on plain JSON values,
	// so normalise the input by round-tripping it.
	b, err := json.Marshal(input)
	if err != nil {
		return Outcome{}, failed(n, err)
	}
	var data any
	err = json.Unmarshal(b, &data)
	if err != nil {
		return Outcome{}, failed(n, err)
	}

	res, err := jsonlogic.ApplyInterface(rule, data)
	if err != nil {
		return Outcome{}, failed(n, errors.Wrap(err, "evaluating JSON-Logic rule"))
	}

	return Outcome{Status: Succeeded, Result: ResultOf(truthy(res))}, nil
}

// truthy follows the JSON-Logic definition of truthiness.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	}
	return true
}
