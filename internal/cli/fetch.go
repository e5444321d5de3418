package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tasnimul-arabi-anik/fetchm/pkg/dataset"
	"github.com/tasnimul-arabi-anik/fetchm/pkg/genome"
	"github.com/tasnimul-arabi-anik/fetchm/pkg/store"
)

// fetchOpts holds the command-line flags for the fetch command.
type fetchOpts struct {
	input         string // accession list file ("-" for stdin)
	output        string // output file path (table to stdout if empty)
	format        string // tsv, csv or json (inferred from output extension if empty)
	workers       int    // fetch concurrency
	refresh       bool   // bypass HTTP cache
	noCache       bool   // disable the HTTP cache entirely
	skipBioSample bool   // skip BioSample lookups
	archive       bool   // save the run to the configured MongoDB archive
	limit         int    // rows shown in the terminal table
}

// fetchCommand creates the fetch command.
func (c *CLI) fetchCommand() *cobra.Command {
	opts := fetchOpts{workers: genome.DefaultWorkers, limit: 20}

	cmd := &cobra.Command{
		Use:   "fetch [accession...]",
		Short: "Fetch assembly and BioSample metadata for accessions",
		Long: `Fetch assembly and BioSample metadata for GCF_/GCA_ accessions.

Accessions are given as arguments, in a file via --input (one per line,
'#' comments allowed), or on stdin with --input -.

Examples:
  fetchm fetch GCF_000005845.2
  fetchm fetch --input accessions.txt -o dataset.tsv
  fetchm search '"Klebsiella pneumoniae"[Organism]' -o acc.txt && fetchm fetch -i acc.txt`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFetch(cmd.Context(), opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "accession list file (- for stdin)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (terminal table if empty)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: tsv, csv or json (default from extension)")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", opts.workers, "concurrent fetches")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable response caching")
	cmd.Flags().BoolVar(&opts.skipBioSample, "skip-biosample", false, "skip BioSample attribute lookups")
	cmd.Flags().BoolVar(&opts.archive, "store", false, "archive the run to the configured MongoDB")
	cmd.Flags().IntVar(&opts.limit, "limit", opts.limit, "rows shown in the terminal table (0 = all)")

	return cmd
}

func (c *CLI) runFetch(ctx context.Context, opts fetchOpts, args []string) error {
	accessions, err := collectAccessions(opts.input, args)
	if err != nil {
		return err
	}
	if len(accessions) == 0 {
		return fmt.Errorf("no accessions given (arguments or --input)")
	}

	client, err := c.newEntrezClient(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer client.Close()

	logger := loggerFromContext(ctx)
	logger.Infof("Fetching metadata for %d accessions", len(accessions))
	spin := newSpinner(ctx, fmt.Sprintf("fetching 0/%d", len(accessions)))
	spin.Start()

	prog := newProgress(logger)
	ds, err := genome.NewFetcher(client).Fetch(ctx, accessions, genome.Options{
		Workers:       opts.workers,
		Refresh:       opts.refresh,
		SkipBioSample: opts.skipBioSample,
		Logger:        func(msg string, args ...any) { logger.Warnf(msg, args...) },
		Progress: func(done, total int) {
			spin.SetMessage("fetching %d/%d", done, total)
		},
	})
	spin.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Fetched %d of %d assemblies", len(ds.Records), len(accessions)))

	for _, w := range ds.Warnings {
		printWarning("%s", w)
	}

	if opts.archive {
		if err := c.archiveRun(ctx, ds); err != nil {
			return err
		}
	}

	return c.writeDataset(ds, opts.output, opts.format, opts.limit)
}

// writeDataset writes ds to a file, or renders it as a terminal table when
// no output path is given.
func (c *CLI) writeDataset(ds *genome.Dataset, output, format string, limit int) error {
	if output == "" {
		dataset.RenderTable(os.Stdout, ds, limit)
		return nil
	}
	if err := dataset.WriteFile(output, ds, format); err != nil {
		return err
	}
	printSuccess("Wrote %d records", len(ds.Records))
	printFile(output)
	printNextStep("Summarize", fmt.Sprintf("fetchm stats %s", output))
	return nil
}

// archiveRun saves ds to the MongoDB named in the config file.
func (c *CLI) archiveRun(ctx context.Context, ds *genome.Dataset) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if cfg.MongoURI == "" {
		return fmt.Errorf("--store requires mongo_uri in the config file")
	}

	st, err := store.NewMongoStore(ctx, cfg.MongoURI)
	if err != nil {
		return err
	}
	defer st.Close(ctx)

	if err := st.SaveRun(ctx, ds); err != nil {
		return err
	}
	printSuccess("Archived run %s", ds.RunID)
	return nil
}

// collectAccessions merges accessions from arguments and the input file.
func collectAccessions(input string, args []string) ([]string, error) {
	var out []string
	for _, a := range args {
		out = append(out, genome.NormalizeAccession(a))
	}

	if input != "" {
		r := os.Stdin
		if input != "-" {
			f, err := os.Open(input)
			if err != nil {
				return nil, fmt.Errorf("opening %s: %w", input, err)
			}
			defer f.Close()
			r = f
		}
		fromFile, err := genome.ReadAccessions(r)
		if err != nil {
			return nil, err
		}
		out = append(out, fromFile...)
	}
	return genome.Dedupe(out), nil
}
