package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tasnimul-arabi-anik/fetchm/pkg/dataset"
	"github.com/tasnimul-arabi-anik/fetchm/pkg/taxtree"
)

// treeOpts holds the command-line flags for the tree command.
type treeOpts struct {
	output    string // output path (.svg or .dot)
	detailed  bool   // include strain and level in leaf labels
	maxLeaves int    // leaves per species before collapsing
}

// treeCommand creates the tree command.
func (c *CLI) treeCommand() *cobra.Command {
	opts := treeOpts{maxLeaves: 20}

	cmd := &cobra.Command{
		Use:   "tree <dataset>",
		Short: "Render a dataset's species grouping as a tree",
		Long: `Render the species grouping of a dataset as a Graphviz tree,
one branch per species with the assemblies as leaves.

The output format follows the extension: .svg renders via Graphviz,
.dot writes the raw DOT source.

Examples:
  fetchm tree dataset.tsv -o taxonomy.svg
  fetchm tree dataset.tsv -o taxonomy.dot --detailed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTree(cmd.Context(), opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "taxonomy.svg", "output file (.svg or .dot)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include strain and assembly level in leaf labels")
	cmd.Flags().IntVar(&opts.maxLeaves, "max-leaves", opts.maxLeaves, "leaves per species before collapsing (0 = all)")

	return cmd
}

func (c *CLI) runTree(ctx context.Context, opts treeOpts, path string) error {
	ds, err := dataset.ReadFile(path)
	if err != nil {
		return err
	}
	if len(ds.Records) == 0 {
		return fmt.Errorf("%s holds no records", path)
	}

	dot := taxtree.ToDOT(ds, taxtree.Options{
		Detailed:  opts.detailed,
		MaxLeaves: opts.maxLeaves,
	})

	var data []byte
	switch strings.ToLower(filepath.Ext(opts.output)) {
	case ".dot":
		data = []byte(dot)
	case ".svg", "":
		data, err = taxtree.RenderSVG(ctx, dot)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported tree format %q (use .svg or .dot)", filepath.Ext(opts.output))
	}

	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", opts.output, err)
	}
	printSuccess("Rendered %d records", len(ds.Records))
	printFile(opts.output)
	return nil
}
