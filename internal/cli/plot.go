package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tasnimul-arabi-anik/fetchm/pkg/dataset"
	"github.com/tasnimul-arabi-anik/fetchm/pkg/plot"
	"github.com/tasnimul-arabi-anik/fetchm/pkg/stats"
)

// plotOpts holds the command-line flags for the plot command.
type plotOpts struct {
	column string // column to plot
	output string // PNG output path
	bins   int    // histogram bins (0 = automatic)
	top    int    // bar chart categories
	width  int
	height int
}

// plotCommand creates the plot command.
func (c *CLI) plotCommand() *cobra.Command {
	opts := plotOpts{top: 10}

	cmd := &cobra.Command{
		Use:   "plot <dataset>",
		Short: "Plot a dataset column as a PNG chart",
		Long: `Plot one column of a dataset: numeric columns become histograms,
categorical columns become horizontal bar charts.

Examples:
  fetchm plot dataset.tsv --column genome_size -o genome_size.png
  fetchm plot dataset.tsv --column species_name --top 15 -o species.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlot(opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.column, "column", "genome_size", "column to plot")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "PNG output path (default <column>.png)")
	cmd.Flags().IntVar(&opts.bins, "bins", 0, "histogram bins (0 = automatic)")
	cmd.Flags().IntVar(&opts.top, "top", opts.top, "bar chart categories shown")
	cmd.Flags().IntVar(&opts.width, "width", plot.DefaultWidth, "canvas width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", plot.DefaultHeight, "canvas height in pixels")

	return cmd
}

func (c *CLI) runPlot(opts plotOpts, path string) error {
	ds, err := dataset.ReadFile(path)
	if err != nil {
		return err
	}
	if !dataset.IsColumn(opts.column) {
		return fmt.Errorf("unknown column %q (known: %s)", opts.column, strings.Join(dataset.Columns(), ", "))
	}

	output := opts.output
	if output == "" {
		output = opts.column + ".png"
	}
	plotOptions := plot.Options{
		Width:  opts.width,
		Height: opts.height,
		Bins:   opts.bins,
		Title:  opts.column,
	}

	if dataset.IsNumericColumn(opts.column) {
		values, err := stats.Values(ds, opts.column)
		if err != nil {
			return err
		}
		if err := plot.HistogramFile(output, values, plotOptions); err != nil {
			return err
		}
		printSuccess("Plotted %d values", len(values))
	} else {
		sum, err := stats.Categorical(ds, opts.column, opts.top)
		if err != nil {
			return err
		}
		if err := plot.BarFile(output, sum.Counts, plotOptions); err != nil {
			return err
		}
		printSuccess("Plotted %d categories", len(sum.Counts))
	}

	printFile(output)
	return nil
}
