package command

import (
	"fmt"
	"os"

	"github.com/common-fate/clio"
	"github.com/common-fate/govern"
	"github.com/common-fate/govern/pkg/entity"
	"github.com/common-fate/govern/pkg/jsoncel"
	"github.com/common-fate/govern/pkg/node"
	"github.com/common-fate/govern/pkg/noderr"
	"github.com/common-fate/govern/pkg/store"
	"github.com/dominikbraun/graph/draw"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var (
	fileFlag   = &cli.PathFlag{Name: "file", Aliases: []string{"f"}, Usage: "the workflow YAML file", Required: true}
	schemaFlag = &cli.PathFlag{Name: "schema", Aliases: []string{"s"}, Usage: "an optional entity schema, in JSON schema format"}
	dataFlag   = &cli.PathFlag{Name: "data-dir", Usage: "the directory workflow instances are stored in", EnvVars: []string{"GOVERN_DATA_DIR"}}
)

// compile reads, unmarshals and compiles the workflow file.
// Errors in the YAML are printed along with the offending source.
func compile(c *cli.Context) (*govern.Graph, error) {
	data, err := os.ReadFile(c.Path(fileFlag.Name))
	if err != nil {
		return nil, err
	}

	w, err := govern.Unmarshal(data)
	if err != nil {
		printNodeError(err, data)
		return nil, err
	}

	f := node.Factory{}
	if schemaFile := c.Path(schemaFlag.Name); schemaFile != "" {
		var schema jsoncel.Schema
		err = readJSON(schemaFile, &schema)
		if err != nil {
			return nil, errors.Wrap(err, "reading entity schema")
		}
		f.EntitySchema = &schema
	}

	compiler := govern.Compiler{
		Workflow: w,
		Factory:  f,
	}

	g, err := compiler.Compile()
	if err != nil {
		printNodeError(err, data)
		return nil, err
	}
	return g, nil
}

func printNodeError(err error, data []byte) {
	var ne noderr.NodeError
	if !errors.As(err, &ne) {
		return
	}
	clio.Infof("node error at: %s", ne.Node.GetPath())
	source, printErr := ne.PrettyPrint(data)
	if printErr != nil {
		clio.Errorf("error pretty printing YAML path: %s", printErr)
		return
	}
	fmt.Fprintf(os.Stderr, "%s\n", source)
}

func readJSON(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

func readEntity(path string) (*entity.Entity, error) {
	var e entity.Entity
	err := readJSON(path, &e)
	if err != nil {
		return nil, errors.Wrap(err, "reading entity")
	}
	return &e, nil
}

// openStore opens the instance store in the data directory.
// If no data directory is configured, instances are kept in memory.
func openStore(c *cli.Context) (store.KV, func(), error) {
	dir := c.Path(dataFlag.Name)
	if dir == "" {
		return store.NewMemory(), func() {}, nil
	}

	db, err := store.OpenBadger(dir)
	if err != nil {
		return nil, nil, err
	}
	return db, func() {
		if err := db.Close(); err != nil {
			clio.Errorf("closing instance store: %s", err)
		}
	}, nil
}

// Shade the nodes of the graph by their state in an instance.
func Shade(g *govern.Graph, inst *govern.Instance) error {
	for id, state := range inst.State {
		_, props, err := g.G.VertexWithProperties(id)
		if err != nil {
			return err
		}
		props.Attributes["style"] = "filled"

		switch state {
		case govern.Complete:
			props.Attributes["fillcolor"] = "#00FF00"
		case govern.Active:
			props.Attributes["fillcolor"] = "#89CFF0"
		case govern.Errored:
			props.Attributes["fillcolor"] = "#FF6961"
		}
	}
	return nil
}

func printInstance(c *cli.Context, g *govern.Graph, inst *govern.Instance) error {
	if c.Bool("dot") {
		err := Shade(g, inst)
		if err != nil {
			return err
		}
		return draw.DOT(g.G, os.Stdout)
	}

	b, err := json.MarshalIndent(inst, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}
