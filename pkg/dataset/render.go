package dataset

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/tasnimul-arabi-anik/fetchm/pkg/genome"
)

// displayColumns is the compact subset shown in terminal tables. Full
// detail goes to files; the terminal view stays readable.
var displayColumns = []string{
	"accession",
	"organism",
	"assembly_level",
	"genome_size",
	"contig_n50",
	"coverage",
	"strain",
}

// RenderTable writes a terminal table of ds to w, showing at most limit
// records (0 means all).
func RenderTable(w io.Writer, ds *genome.Dataset, limit int) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(displayColumns))
	for i, col := range displayColumns {
		header[i] = col
	}
	t.AppendHeader(header)

	configs := make([]table.ColumnConfig, 0, len(displayColumns))
	for i, col := range displayColumns {
		if IsNumericColumn(col) {
			configs = append(configs, table.ColumnConfig{
				Number: i + 1,
				Align:  text.AlignRight,
			})
		}
	}
	t.SetColumnConfigs(configs)

	n := len(ds.Records)
	if limit > 0 && limit < n {
		n = limit
	}
	for i := range n {
		row := make(table.Row, len(displayColumns))
		for j, col := range displayColumns {
			row[j] = Value(&ds.Records[i], col)
		}
		t.AppendRow(row)
	}
	if n < len(ds.Records) {
		t.AppendFooter(table.Row{fmt.Sprintf("… %d more", len(ds.Records)-n)})
	}
	t.Render()
}
