package cli

import (
	"context"
	"io"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/usageboard/pkg/catalog"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// queryDoc is the YAML form of one catalog entry
type queryDoc struct {
	Name   string `yaml:"name"`
	Title  string `yaml:"title"`
	Ranged bool   `yaml:"ranged"`
	Kind   string `yaml:"kind"`
	SQL    string `yaml:"sql"`
}

func cmdQueries() *cli.Command {
	return &cli.Command{
		Name:  "queries",
		Usage: "Print the dashboard query catalog as YAML",
		Action: func(ctx context.Context, c *cli.Command) error {
			return writeQueries(os.Stdout, catalog.Default())
		},
	}
}

func writeQueries(w io.Writer, cat *catalog.Catalog) error {
	docs := make([]queryDoc, 0, cat.Len())
	for _, e := range cat.Entries() {
		doc := queryDoc{
			Name:   string(e.Query.Name),
			Title:  e.Query.Title,
			Ranged: e.Query.Ranged,
			SQL:    e.Query.SQL,
		}
		if e.Metric != nil {
			doc.Kind = "metric"
		} else {
			doc.Kind = string(e.Chart.Kind)
		}
		docs = append(docs, doc)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(docs); err != nil {
		return goerr.Wrap(err, "failed to write query catalog")
	}
	if err := enc.Close(); err != nil {
		return goerr.Wrap(err, "failed to flush query catalog")
	}
	return nil
}
