package main

import (
	"log"
	"os"

	"github.com/common-fate/govern/cmd/command"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "govern",
		Usage: "run data governance workflows against catalog entities",
		Commands: []*cli.Command{
			&command.Validate,
			&command.Graph,
			&command.Run,
			&command.Signal,
			&command.Instances,
		},
	}
	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}
