package command

import (
	"github.com/common-fate/clio"
	"github.com/common-fate/govern"
	"github.com/common-fate/govern/pkg/approval"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var Signal = cli.Command{
	Name:  "signal",
	Usage: "approve or reject a workflow instance which is waiting on a user approval",
	Flags: []cli.Flag{
		fileFlag,
		schemaFlag,
		dataFlag,
		&cli.StringFlag{Name: "instance", Aliases: []string{"i"}, Usage: "the workflow instance ID", Required: true},
		&cli.StringFlag{Name: "node", Aliases: []string{"n"}, Usage: "the USER_APPROVAL_TASK node", Required: true},
		&cli.StringFlag{Name: "user", Aliases: []string{"u"}, Usage: "the user deciding"},
		&cli.StringSliceFlag{Name: "group", Aliases: []string{"g"}, Usage: "teams the user belongs to"},
		&cli.BoolFlag{Name: "reject", Usage: "reject instead of approve"},
		&cli.StringFlag{Name: "comment"},
		&cli.PathFlag{Name: "decision", Usage: "a JSON file holding the decision, used instead of --user"},
		&cli.BoolFlag{Name: "dot", Usage: "print the graph shaded by node state instead of the instance"},
	},
	Action: func(c *cli.Context) error {
		ctx := c.Context

		if c.Path(dataFlag.Name) == "" {
			return errors.New("--data-dir or GOVERN_DATA_DIR must be set to signal a saved instance")
		}

		g, err := compile(c)
		if err != nil {
			return err
		}

		kv, closer, err := openStore(c)
		if err != nil {
			return err
		}
		defer closer()

		d, err := decision(c)
		if err != nil {
			return err
		}

		r := govern.Runner{Graph: g, Instances: govern.Instances{KV: kv}}
		inst, err := r.Signal(ctx, c.String("instance"), c.String("node"), d)
		if err != nil {
			return err
		}

		clio.Infof("instance %s is %s", inst.ID, inst.Status)
		return printInstance(c, g, inst)
	},
}

// decision reads the decision from --decision if set, or from the user flags.
func decision(c *cli.Context) (approval.Decision, error) {
	if path := c.Path("decision"); path != "" {
		var input map[string]any
		err := readJSON(path, &input)
		if err != nil {
			return approval.Decision{}, err
		}
		d, err := approval.DecodeDecision(input)
		if err != nil {
			return approval.Decision{}, errors.Wrapf(err, "decoding %s", path)
		}
		return d, nil
	}

	if c.String("user") == "" {
		return approval.Decision{}, errors.New("one of --user or --decision must be set")
	}
	return approval.Decision{
		User:     c.String("user"),
		Groups:   c.StringSlice("group"),
		Approved: !c.Bool("reject"),
		Comment:  c.String("comment"),
	}, nil
}
