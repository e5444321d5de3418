package genome

import (
	"strings"
	"testing"
)

func TestValidAccession(t *testing.T) {
	tests := []struct {
		acc  string
		want bool
	}{
		{"GCF_000005845.2", true},
		{"GCA_000005845.2", true},
		{"GCF_000005845", true},
		{"GCF_000005845.12", true},
		{"GCX_000005845.2", false},
		{"GCF_0005845.2", false}, // too few digits
		{"SAMN02604091", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidAccession(tt.acc); got != tt.want {
			t.Errorf("ValidAccession(%q) = %v, want %v", tt.acc, got, tt.want)
		}
	}
}

func TestReadAccessions(t *testing.T) {
	input := `
# accession list from esearch
GCF_000005845.2
gcf_000006945.2

GCA_000008865.2,GCF_000005845.2
`
	got, err := ReadAccessions(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadAccessions error: %v", err)
	}
	// Normalized, deduped, order preserved.
	want := []string{"GCF_000005845.2", "GCF_000006945.2", "GCA_000008865.2"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestReadAccessionsInvalid(t *testing.T) {
	_, err := ReadAccessions(strings.NewReader("GCF_000005845.2\nnot-an-accession\n"))
	if err == nil {
		t.Fatal("invalid accession should return an error")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error should name the line: %v", err)
	}
}

func TestDedupe(t *testing.T) {
	got := Dedupe([]string{"a", "b", "a", "c", "b"})
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDatasetFind(t *testing.T) {
	ds := &Dataset{Records: []Record{
		{Accession: "GCF_000005845.2", SpeciesName: "Escherichia coli"},
		{Accession: "GCF_000006945.2", SpeciesName: "Salmonella enterica"},
	}}

	if rec := ds.Find("GCF_000006945.2"); rec == nil || rec.SpeciesName != "Salmonella enterica" {
		t.Errorf("Find returned %+v", rec)
	}
	if rec := ds.Find("GCF_404"); rec != nil {
		t.Errorf("Find for unknown accession = %+v, want nil", rec)
	}

	accs := ds.Accessions()
	if len(accs) != 2 || accs[0] != "GCF_000005845.2" {
		t.Errorf("Accessions() = %v", accs)
	}
}
