package main

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"

	"github.com/common-fate/clio"
	"github.com/common-fate/govern"
	"github.com/common-fate/govern/cmd/command"
	"github.com/common-fate/govern/pkg/entity"
	"github.com/common-fate/govern/pkg/jsoncel"
	"github.com/common-fate/govern/pkg/node"
	"github.com/dominikbraun/graph/draw"
	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-json"
)

func main() {
	err := run()
	if err != nil {
		log.Fatal(err)
	}
}

func run() error {
	exampleFolder := "docs/examples"
	outputFolder := "docs/img"

	folders, err := os.ReadDir(exampleFolder)
	if err != nil {
		return err
	}

	for _, folder := range folders {
		if !folder.IsDir() {
			clio.Infof("skipping %s: not a folder", folder.Name())
			continue
		}

		workflowfile := filepath.Join(exampleFolder, folder.Name(), "workflow.yml")

		data, err := os.ReadFile(workflowfile)
		if err != nil {
			return err
		}

		w, err := govern.Unmarshal(data)
		if err != nil {
			return err
		}

		var f node.Factory

		// the entity schema is optional.
		schemaBytes, err := readOptional(filepath.Join(exampleFolder, folder.Name(), "schema.json"))
		if err != nil {
			return err
		}
		if schemaBytes != nil {
			var schema jsoncel.Schema
			err = json.Unmarshal(schemaBytes, &schema)
			if err != nil {
				return err
			}
			f.EntitySchema = &schema
		}

		compiler := govern.Compiler{
			Workflow: w,
			Factory:  f,
		}

		g, err := compiler.Compile()
		if err != nil {
			return err
		}

		// if we have entity.json, run the actual workflow too
		entityBytes, err := readOptional(filepath.Join(exampleFolder, folder.Name(), "entity.json"))
		if err != nil {
			return err
		}
		if entityBytes != nil {
			var e entity.Entity
			err = json.Unmarshal(entityBytes, &e)
			if err != nil {
				return err
			}

			inst, err := g.Start(context.Background(), &e)
			if err != nil {
				return err
			}

			err = command.Shade(g, inst)
			if err != nil {
				return err
			}
		}

		var buf bytes.Buffer

		err = draw.DOT(g.G, &buf)
		if err != nil {
			return err
		}

		graph, err := graphviz.ParseBytes(buf.Bytes())
		if err != nil {
			return err
		}
		gv := graphviz.New()

		outfile := filepath.Join(outputFolder, folder.Name()+".svg")
		err = gv.RenderFilename(graph, graphviz.SVG, outfile)
		if err != nil {
			return err
		}
		clio.Successf("rendered %s", outfile)
	}
	return nil
}

// readOptional returns nil if the file does not exist.
func readOptional(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return b, err
}
