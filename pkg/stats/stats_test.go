package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/tasnimul-arabi-anik/fetchm/pkg/genome"
)

func testDataset() *genome.Dataset {
	return &genome.Dataset{Records: []genome.Record{
		{Accession: "GCF_000000001.1", SpeciesName: "Escherichia coli", GenomeSize: 4000000, Coverage: 100},
		{Accession: "GCF_000000002.1", SpeciesName: "Escherichia coli", GenomeSize: 5000000, Coverage: 200},
		{Accession: "GCF_000000003.1", SpeciesName: "Salmonella enterica", GenomeSize: 4500000},
		{Accession: "GCF_000000004.1", GenomeSize: 6000000},
	}}
}

func TestNumeric(t *testing.T) {
	sum, err := Numeric(testDataset(), "genome_size")
	if err != nil {
		t.Fatalf("Numeric error: %v", err)
	}
	if sum.Count != 4 {
		t.Errorf("Count = %d, want 4", sum.Count)
	}
	if sum.Mean != 4875000 {
		t.Errorf("Mean = %v", sum.Mean)
	}
	if sum.Median != 4750000 {
		t.Errorf("Median = %v", sum.Median)
	}
	if sum.Min != 4000000 || sum.Max != 6000000 {
		t.Errorf("Min/Max = %v/%v", sum.Min, sum.Max)
	}
	if sum.StdDev <= 0 {
		t.Errorf("StdDev = %v, want > 0", sum.StdDev)
	}
	if sum.Q1 >= sum.Q3 {
		t.Errorf("Q1 = %v should be below Q3 = %v", sum.Q1, sum.Q3)
	}
}

func TestNumericSkipsMissing(t *testing.T) {
	// Two records carry no coverage; they must not drag the mean to zero.
	sum, err := Numeric(testDataset(), "coverage")
	if err != nil {
		t.Fatalf("Numeric error: %v", err)
	}
	if sum.Count != 2 {
		t.Errorf("Count = %d, want 2", sum.Count)
	}
	if sum.Mean != 150 {
		t.Errorf("Mean = %v, want 150", sum.Mean)
	}
}

func TestNumericEmpty(t *testing.T) {
	sum, err := Numeric(&genome.Dataset{}, "genome_size")
	if err != nil {
		t.Fatalf("Numeric error: %v", err)
	}
	if sum.Count != 0 || sum.Mean != 0 {
		t.Errorf("empty summary = %+v", sum)
	}
}

func TestNumericSingleValue(t *testing.T) {
	ds := &genome.Dataset{Records: []genome.Record{{GenomeSize: 1000}}}
	sum, err := Numeric(ds, "genome_size")
	if err != nil {
		t.Fatalf("Numeric error: %v", err)
	}
	if sum.StdDev != 0 || sum.Q1 != 1000 || sum.Q3 != 1000 {
		t.Errorf("single-value summary = %+v", sum)
	}
	if math.IsNaN(sum.Mean) {
		t.Error("Mean is NaN")
	}
}

func TestNumericRejectsCategorical(t *testing.T) {
	if _, err := Numeric(testDataset(), "species_name"); err == nil {
		t.Fatal("categorical column should be rejected")
	}
}

func TestCategorical(t *testing.T) {
	sum, err := Categorical(testDataset(), "species_name", 0)
	if err != nil {
		t.Fatalf("Categorical error: %v", err)
	}
	if sum.Total != 4 {
		t.Errorf("Total = %d", sum.Total)
	}
	if len(sum.Counts) != 3 {
		t.Fatalf("Counts = %+v", sum.Counts)
	}
	if sum.Counts[0].Value != "Escherichia coli" || sum.Counts[0].Count != 2 {
		t.Errorf("Counts[0] = %+v", sum.Counts[0])
	}
	// Missing values get their own bucket.
	found := false
	for _, c := range sum.Counts {
		if c.Value == Missing && c.Count == 1 {
			found = true
		}
	}
	if !found {
		t.Errorf("no missing bucket in %+v", sum.Counts)
	}
}

func TestCategoricalTop(t *testing.T) {
	sum, err := Categorical(testDataset(), "species_name", 1)
	if err != nil {
		t.Fatalf("Categorical error: %v", err)
	}
	if len(sum.Counts) != 2 {
		t.Fatalf("Counts = %+v", sum.Counts)
	}
	if sum.Counts[1].Value != "(other)" || sum.Counts[1].Count != 2 {
		t.Errorf("other bucket = %+v", sum.Counts[1])
	}
}

func TestCategoricalRejectsNumeric(t *testing.T) {
	if _, err := Categorical(testDataset(), "genome_size", 0); err == nil {
		t.Fatal("numeric column should be rejected")
	}
	if _, err := Categorical(testDataset(), "bogus", 0); err == nil {
		t.Fatal("unknown column should be rejected")
	}
}

func TestValues(t *testing.T) {
	vals, err := Values(testDataset(), "coverage")
	if err != nil {
		t.Fatalf("Values error: %v", err)
	}
	if len(vals) != 2 || vals[0] != 100 || vals[1] != 200 {
		t.Errorf("Values = %v", vals)
	}
}

func TestBuildReport(t *testing.T) {
	rep, err := BuildReport(testDataset(), nil, nil, 5)
	if err != nil {
		t.Fatalf("BuildReport error: %v", err)
	}
	if rep.Records != 4 {
		t.Errorf("Records = %d", rep.Records)
	}
	if len(rep.Numeric) != len(DefaultNumericColumns()) {
		t.Errorf("Numeric summaries = %d", len(rep.Numeric))
	}
	if len(rep.Categorical) != len(DefaultCategoricalColumns()) {
		t.Errorf("Categorical summaries = %d", len(rep.Categorical))
	}

	var buf bytes.Buffer
	rep.Render(&buf)
	out := buf.String()
	if !strings.Contains(out, "genome_size") || !strings.Contains(out, "species_name") {
		t.Errorf("render missing expected sections:\n%s", out)
	}

	buf.Reset()
	if err := rep.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON error: %v", err)
	}
	if !strings.Contains(buf.String(), `"numeric"`) {
		t.Errorf("JSON output missing numeric key:\n%s", buf.String())
	}
}
