package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/tasnimul-arabi-anik/fetchm/pkg/entrez"
)

// searchDB is the Entrez database search queries run against. The hits are
// always resolved through assembly docsums, so other databases would
// produce garbage summaries.
const searchDB = "assembly"

// searchOpts holds the command-line flags for the search command.
type searchOpts struct {
	retmax  int    // maximum results
	output  string // accession list output file (stdout table if empty)
	refresh bool   // bypass HTTP cache
	noCache bool   // disable the HTTP cache entirely
	pick    bool   // interactively select assemblies
}

// searchCommand creates the search command.
func (c *CLI) searchCommand() *cobra.Command {
	opts := searchOpts{retmax: 100}

	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search NCBI for assemblies matching an Entrez query",
		Long: `Search the NCBI assembly database with an Entrez query and list the
matching accessions.

Examples:
  fetchm search '"Escherichia coli"[Organism] AND complete genome[filter]'
  fetchm search '"Klebsiella pneumoniae"[Organism]' --retmax 500 -o accessions.txt
  fetchm search '"Vibrio cholerae"[Organism]' --pick -o selected.txt`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSearch(cmd.Context(), opts, strings.Join(args, " "))
		},
	}

	cmd.Flags().IntVar(&opts.retmax, "retmax", opts.retmax, "maximum results")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write accessions to file (one per line)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable response caching")
	cmd.Flags().BoolVar(&opts.pick, "pick", false, "interactively select assemblies")

	return cmd
}

func (c *CLI) runSearch(ctx context.Context, opts searchOpts, term string) error {
	client, err := c.newEntrezClient(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer client.Close()

	logger := loggerFromContext(ctx)
	logger.Infof("Searching %s for %s", searchDB, term)
	prog := newProgress(logger)

	result, err := client.Search(ctx, searchDB, term, opts.retmax, opts.refresh)
	if err != nil {
		return err
	}
	if len(result.IDs) == 0 {
		printInfo("No assemblies match")
		return nil
	}
	if result.QueryTranslation != "" {
		logger.Debugf("Query translation: %s", result.QueryTranslation)
	}

	summaries, err := client.AssemblySummaries(ctx, result.IDs, opts.refresh)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Found %d assemblies (%d total matches)", len(summaries), result.Count))

	if opts.pick {
		summaries, err = pickAssemblies(ctx, summaries)
		if err != nil {
			return err
		}
		if len(summaries) == 0 {
			printInfo("Nothing selected")
			return nil
		}
	}

	if opts.output != "" {
		return writeAccessionList(opts.output, term, summaries)
	}
	renderSummaries(summaries)
	printNextStep("Fetch metadata", fmt.Sprintf("fetchm search %q -o acc.txt && fetchm fetch -i acc.txt", term))
	return nil
}

// renderSummaries prints search hits as a terminal table.
func renderSummaries(summaries []entrez.AssemblySummary) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"accession", "organism", "level", "release"})
	for _, s := range summaries {
		t.AppendRow(table.Row{s.Accession, s.Organism, s.Status, s.ReleaseDate})
	}
	t.Render()
}

// writeAccessionList writes accessions one per line, with the query as a
// header comment so the provenance travels with the file.
func writeAccessionList(path, term string, summaries []entrez.AssemblySummary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	fmt.Fprintf(f, "# query: %s\n", term)
	for _, s := range summaries {
		fmt.Fprintln(f, s.Accession)
	}

	printSuccess("Wrote %d accessions", len(summaries))
	printFile(path)
	printNextStep("Fetch metadata", fmt.Sprintf("fetchm fetch -i %s", path))
	return nil
}
