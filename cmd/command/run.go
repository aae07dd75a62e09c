package command

import (
	"github.com/common-fate/clio"
	"github.com/common-fate/govern"
	"github.com/urfave/cli/v2"
)

var Run = cli.Command{
	Name:  "run",
	Usage: "start a workflow instance for an entity",
	Flags: []cli.Flag{
		fileFlag,
		schemaFlag,
		dataFlag,
		&cli.PathFlag{Name: "entity", Aliases: []string{"e"}, Usage: "the entity to run the workflow for, in JSON format", Required: true},
		&cli.BoolFlag{Name: "dot", Usage: "print the graph shaded by node state instead of the instance"},
	},
	Action: func(c *cli.Context) error {
		ctx := c.Context

		g, err := compile(c)
		if err != nil {
			return err
		}

		e, err := readEntity(c.Path("entity"))
		if err != nil {
			return err
		}

		kv, closer, err := openStore(c)
		if err != nil {
			return err
		}
		defer closer()

		r := govern.Runner{Graph: g, Instances: govern.Instances{KV: kv}}
		inst, err := r.Start(ctx, e)
		if err != nil {
			if inst != nil {
				_ = printInstance(c, g, inst)
			}
			return err
		}

		outcome := inst.Outcome
		if outcome == "" {
			outcome = "<" + string(inst.Status) + ">"
		}
		clio.Infof("instance %s outcome: %s", inst.ID, outcome)

		return printInstance(c, g, inst)
	},
}
