// Package stats computes summary statistics over genome datasets:
// distribution summaries for numeric columns and frequency counts for
// categorical ones.
package stats

import (
	"sort"

	mfstats "github.com/montanaflynn/stats"

	"github.com/tasnimul-arabi-anik/fetchm/pkg/dataset"
	apperrors "github.com/tasnimul-arabi-anik/fetchm/pkg/errors"
	"github.com/tasnimul-arabi-anik/fetchm/pkg/genome"
)

// NumericSummary describes the distribution of one numeric column.
// Count excludes records with no value for the column.
type NumericSummary struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"stddev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Q1     float64 `json:"q1"`
	Q3     float64 `json:"q3"`
}

// CategoryCount is one value of a categorical column with its frequency.
type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// CategoricalSummary holds frequency counts for one categorical column,
// most frequent first. Empty values are counted under "(missing)".
type CategoricalSummary struct {
	Column string          `json:"column"`
	Total  int             `json:"total"`
	Counts []CategoryCount `json:"counts"`
}

// Missing is the bucket label for empty categorical values.
const Missing = "(missing)"

// defaultCategorical are the columns summarized by frequency when no
// explicit column list is given.
var defaultCategorical = []string{
	"species_name",
	"assembly_level",
	"refseq_category",
	"geo_loc_name",
	"host",
	"isolation_source",
}

// DefaultCategoricalColumns returns the categorical columns summarized
// by default.
func DefaultCategoricalColumns() []string {
	out := make([]string, len(defaultCategorical))
	copy(out, defaultCategorical)
	return out
}

// DefaultNumericColumns returns the numeric columns summarized by default.
func DefaultNumericColumns() []string {
	var out []string
	for _, c := range dataset.Columns() {
		if dataset.IsNumericColumn(c) {
			out = append(out, c)
		}
	}
	return out
}

// Numeric computes the distribution summary for one numeric column.
// Records with no value are excluded from the sample.
func Numeric(ds *genome.Dataset, column string) (NumericSummary, error) {
	if !dataset.IsNumericColumn(column) {
		return NumericSummary{}, apperrors.New(apperrors.ErrCodeInvalidColumn, "not a numeric column: %q", column)
	}

	var values mfstats.Float64Data
	for i := range ds.Records {
		if v, ok := dataset.NumericValue(&ds.Records[i], column); ok {
			values = append(values, v)
		}
	}
	sum := NumericSummary{Column: column, Count: len(values)}
	if len(values) == 0 {
		return sum, nil
	}

	var err error
	if sum.Mean, err = values.Mean(); err != nil {
		return sum, err
	}
	if sum.Median, err = values.Median(); err != nil {
		return sum, err
	}
	if sum.Min, err = values.Min(); err != nil {
		return sum, err
	}
	if sum.Max, err = values.Max(); err != nil {
		return sum, err
	}
	if len(values) > 1 {
		if sum.StdDev, err = values.StandardDeviationSample(); err != nil {
			return sum, err
		}
		q, err := mfstats.Quartile(values)
		if err != nil {
			return sum, err
		}
		sum.Q1, sum.Q3 = q.Q1, q.Q3
	} else {
		sum.Q1, sum.Q3 = values[0], values[0]
	}
	return sum, nil
}

// Categorical counts value frequencies for one column. top limits the
// number of buckets returned (0 means all); the remainder is collapsed
// into an "(other)" bucket.
func Categorical(ds *genome.Dataset, column string, top int) (CategoricalSummary, error) {
	if !dataset.IsColumn(column) {
		return CategoricalSummary{}, apperrors.New(apperrors.ErrCodeInvalidColumn, "unknown column: %q", column)
	}
	if dataset.IsNumericColumn(column) {
		return CategoricalSummary{}, apperrors.New(apperrors.ErrCodeInvalidColumn, "numeric column %q has no frequency summary", column)
	}

	counts := make(map[string]int)
	for i := range ds.Records {
		v := dataset.Value(&ds.Records[i], column)
		if v == "" {
			v = Missing
		}
		counts[v]++
	}

	sum := CategoricalSummary{Column: column, Total: len(ds.Records)}
	for v, n := range counts {
		sum.Counts = append(sum.Counts, CategoryCount{Value: v, Count: n})
	}
	sort.Slice(sum.Counts, func(i, j int) bool {
		if sum.Counts[i].Count != sum.Counts[j].Count {
			return sum.Counts[i].Count > sum.Counts[j].Count
		}
		return sum.Counts[i].Value < sum.Counts[j].Value
	})

	if top > 0 && top < len(sum.Counts) {
		other := 0
		for _, c := range sum.Counts[top:] {
			other += c.Count
		}
		sum.Counts = append(sum.Counts[:top], CategoryCount{Value: "(other)", Count: other})
	}
	return sum, nil
}

// Values extracts the non-missing numeric values of a column, in record
// order. Plotting uses this directly.
func Values(ds *genome.Dataset, column string) ([]float64, error) {
	if !dataset.IsNumericColumn(column) {
		return nil, apperrors.New(apperrors.ErrCodeInvalidColumn, "not a numeric column: %q", column)
	}
	var out []float64
	for i := range ds.Records {
		if v, ok := dataset.NumericValue(&ds.Records[i], column); ok {
			out = append(out, v)
		}
	}
	return out, nil
}
