package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tasnimul-arabi-anik/fetchm/pkg/dataset"
	"github.com/tasnimul-arabi-anik/fetchm/pkg/stats"
)

// statsOpts holds the command-line flags for the stats command.
type statsOpts struct {
	numeric     []string // numeric columns to summarize
	categorical []string // categorical columns to count
	top         int      // categorical buckets shown
	jsonOut     bool     // emit JSON instead of tables
}

// statsCommand creates the stats command.
func (c *CLI) statsCommand() *cobra.Command {
	opts := statsOpts{top: 10}

	cmd := &cobra.Command{
		Use:   "stats <dataset>",
		Short: "Summarize a fetched dataset",
		Long: `Summarize a dataset file produced by fetch: distribution statistics
for numeric columns and frequency counts for categorical ones.

Examples:
  fetchm stats dataset.tsv
  fetchm stats dataset.tsv --numeric genome_size --numeric contig_n50
  fetchm stats dataset.tsv --categorical species_name --top 5 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStats(opts, args[0])
		},
	}

	cmd.Flags().StringArrayVar(&opts.numeric, "numeric", nil, "numeric column to summarize (repeatable, default all)")
	cmd.Flags().StringArrayVar(&opts.categorical, "categorical", nil, "categorical column to count (repeatable, default common set)")
	cmd.Flags().IntVar(&opts.top, "top", opts.top, "categorical buckets shown (0 = all)")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "emit the report as JSON")

	return cmd
}

func (c *CLI) runStats(opts statsOpts, path string) error {
	ds, err := dataset.ReadFile(path)
	if err != nil {
		return err
	}
	if len(ds.Records) == 0 {
		return fmt.Errorf("%s holds no records", path)
	}

	rep, err := stats.BuildReport(ds, opts.numeric, opts.categorical, opts.top)
	if err != nil {
		return err
	}

	if opts.jsonOut {
		return rep.WriteJSON(os.Stdout)
	}
	rep.Render(os.Stdout)
	return nil
}
