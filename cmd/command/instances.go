package command

import (
	"github.com/common-fate/clio"
	"github.com/common-fate/govern"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var Instances = cli.Command{
	Name:  "instances",
	Usage: "list saved workflow instances",
	Flags: []cli.Flag{
		dataFlag,
		&cli.StringSliceFlag{Name: "status", Usage: "only list instances with this status (running, waiting, finished, failed)"},
	},
	Action: func(c *cli.Context) error {
		if c.Path(dataFlag.Name) == "" {
			return errors.New("--data-dir or GOVERN_DATA_DIR must be set to list instances")
		}

		kv, closer, err := openStore(c)
		if err != nil {
			return err
		}
		defer closer()

		var statuses []govern.Status
		for _, s := range c.StringSlice("status") {
			statuses = append(statuses, govern.Status(s))
		}

		list, err := govern.Instances{KV: kv}.List(c.Context, statuses...)
		if err != nil {
			return err
		}

		for _, inst := range list {
			clio.Infof("%s\t%s\t%s\t%s\twaiting on %v", inst.ID, inst.Workflow, inst.Status, inst.Entity.FullyQualifiedName, inst.Waiting())
		}
		return nil
	},
}
