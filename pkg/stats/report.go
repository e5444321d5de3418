package stats

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/tasnimul-arabi-anik/fetchm/pkg/genome"
)

// Report bundles the summaries for a dataset.
type Report struct {
	Records     int                  `json:"records"`
	Numeric     []NumericSummary     `json:"numeric"`
	Categorical []CategoricalSummary `json:"categorical"`
}

// BuildReport summarizes ds. Empty column lists select the defaults; top
// limits categorical buckets (0 means all).
func BuildReport(ds *genome.Dataset, numeric, categorical []string, top int) (*Report, error) {
	if len(numeric) == 0 {
		numeric = DefaultNumericColumns()
	}
	if len(categorical) == 0 {
		categorical = DefaultCategoricalColumns()
	}

	rep := &Report{Records: len(ds.Records)}
	for _, col := range numeric {
		sum, err := Numeric(ds, col)
		if err != nil {
			return nil, err
		}
		rep.Numeric = append(rep.Numeric, sum)
	}
	for _, col := range categorical {
		sum, err := Categorical(ds, col, top)
		if err != nil {
			return nil, err
		}
		rep.Categorical = append(rep.Categorical, sum)
	}
	return rep, nil
}

// Render writes the report as terminal tables.
func (r *Report) Render(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("numeric columns (%d records)", r.Records)
	t.AppendHeader(table.Row{"column", "count", "mean", "median", "stddev", "min", "max", "q1", "q3"})
	configs := make([]table.ColumnConfig, 0, 8)
	for i := 2; i <= 9; i++ {
		configs = append(configs, table.ColumnConfig{Number: i, Align: text.AlignRight})
	}
	t.SetColumnConfigs(configs)
	for _, s := range r.Numeric {
		t.AppendRow(table.Row{
			s.Column, s.Count,
			formatStat(s.Mean), formatStat(s.Median), formatStat(s.StdDev),
			formatStat(s.Min), formatStat(s.Max), formatStat(s.Q1), formatStat(s.Q3),
		})
	}
	t.Render()

	for _, c := range r.Categorical {
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.SetTitle(c.Column)
		t.AppendHeader(table.Row{"value", "count", "share"})
		t.SetColumnConfigs([]table.ColumnConfig{
			{Number: 2, Align: text.AlignRight},
			{Number: 3, Align: text.AlignRight},
		})
		for _, cc := range c.Counts {
			share := 0.0
			if c.Total > 0 {
				share = float64(cc.Count) / float64(c.Total) * 100
			}
			t.AppendRow(table.Row{cc.Value, cc.Count, fmt.Sprintf("%.1f%%", share)})
		}
		t.Render()
	}
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func formatStat(v float64) string {
	if v == float64(int64(v)) && v < 1e15 && v > -1e15 {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
