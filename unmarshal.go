package govern

import (
	"github.com/common-fate/govern/pkg/definition"
	"github.com/common-fate/govern/pkg/noderr"
	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
)

// Unmarshal a governance workflow YAML file into a workflow which can be compiled.
//
// The YAML structure looks like this:
//
//	name: glossaryTermApproval
//	trigger:
//	  entityTypes: [glossaryTerm]
//	nodes:
//	  - name: start			<- node definition
//	    subType: START_EVENT
//	  - name: end
//	    subType: END_EVENT
//	edges:
//	  - from: start			<- edge
//	    to: end
//
// Errors in node definitions are returned as noderr.NodeError,
// so that the offending YAML can be highlighted.
func Unmarshal(data []byte) (*Workflow, error) {
	var tmp struct {
		Name        string     `yaml:"name"`
		DisplayName string     `yaml:"displayName"`
		Description string     `yaml:"description"`
		Trigger     Trigger    `yaml:"trigger"`
		Nodes       []ast.Node `yaml:"nodes"`
		Edges       []Edge     `yaml:"edges"`
	}

	err := yaml.Unmarshal(data, &tmp)
	if err != nil {
		return nil, err
	}

	w := Workflow{
		Name:        tmp.Name,
		DisplayName: tmp.DisplayName,
		Description: tmp.Description,
		Trigger:     tmp.Trigger,
		Edges:       tmp.Edges,
		sources:     map[string]ast.Node{},
	}

	for _, n := range tmp.Nodes {
		if n == nil {
			continue
		}

		var fields map[string]any
		err = yaml.NodeToValue(n, &fields)
		if err != nil {
			return nil, noderr.Wrap(err, n)
		}

		def, err := definition.FromMap(fields)
		if err != nil {
			return nil, noderr.Wrap(err, n)
		}

		w.Nodes = append(w.Nodes, def)
		w.sources[def.NodeName()] = n
	}

	return &w, nil
}
