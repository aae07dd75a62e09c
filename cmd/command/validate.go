package command

import (
	"os"

	"github.com/common-fate/clio"
	"github.com/dominikbraun/graph/draw"
	"github.com/urfave/cli/v2"
)

var Validate = cli.Command{
	Name:  "validate",
	Usage: "check that a workflow compiles",
	Flags: []cli.Flag{fileFlag, schemaFlag},
	Action: func(c *cli.Context) error {
		g, err := compile(c)
		if err != nil {
			return err
		}
		clio.Successf("workflow %s is valid", g.Workflow.Name)
		return nil
	},
}

var Graph = cli.Command{
	Name:  "graph",
	Usage: "print the compiled workflow graph in DOT format",
	Flags: []cli.Flag{fileFlag, schemaFlag},
	Action: func(c *cli.Context) error {
		g, err := compile(c)
		if err != nil {
			return err
		}
		return draw.DOT(g.G, os.Stdout)
	},
}
