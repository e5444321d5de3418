package taxtree

import (
	"strings"
	"testing"

	"github.com/tasnimul-arabi-anik/fetchm/pkg/genome"
)

func testDataset() *genome.Dataset {
	return &genome.Dataset{
		Query: `"Escherichia coli"[Organism]`,
		Records: []genome.Record{
			{Accession: "GCF_000000002.1", SpeciesName: "Escherichia coli", Strain: "B"},
			{Accession: "GCF_000000001.1", SpeciesName: "Escherichia coli", Strain: "K-12", AssemblyLevel: "Complete Genome"},
			{Accession: "GCF_000000003.1", SpeciesName: "Salmonella enterica"},
			{Accession: "GCF_000000004.1"},
		},
	}
}

func TestBuild(t *testing.T) {
	root := Build(testDataset())

	if root.Label != `"Escherichia coli"[Organism]` {
		t.Errorf("root label = %q", root.Label)
	}
	if root.Count != 4 {
		t.Errorf("root count = %d", root.Count)
	}
	if len(root.Children) != 3 {
		t.Fatalf("species = %d, want 3", len(root.Children))
	}

	// Largest species first.
	if root.Children[0].Label != "Escherichia coli" || root.Children[0].Count != 2 {
		t.Errorf("Children[0] = %+v", root.Children[0])
	}
	// Leaves sorted by accession inside a species.
	if root.Children[0].Children[0].Label != "GCF_000000001.1" {
		t.Errorf("leaf order: %+v", root.Children[0].Children)
	}

	// Nameless record lands in the unclassified bucket.
	found := false
	for _, c := range root.Children {
		if c.Label == Unclassified && c.Count == 1 {
			found = true
		}
	}
	if !found {
		t.Errorf("no unclassified bucket in %+v", root.Children)
	}
}

func TestBuildNoQuery(t *testing.T) {
	root := Build(&genome.Dataset{Records: []genome.Record{{Accession: "GCF_000000001.1"}}})
	if root.Label != "1 assemblies" {
		t.Errorf("root label = %q", root.Label)
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testDataset(), Options{})

	if !strings.HasPrefix(dot, "digraph taxonomy {") || !strings.HasSuffix(dot, "}\n") {
		t.Errorf("malformed DOT:\n%s", dot)
	}
	for _, want := range []string{
		`"Escherichia coli (2)"`,
		`"GCF_000000001.1"`,
		"rankdir=LR;",
		" -> ",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	// Plain labels carry no strain detail.
	if strings.Contains(dot, "K-12") {
		t.Errorf("plain DOT should omit strain:\n%s", dot)
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(testDataset(), Options{Detailed: true})
	if !strings.Contains(dot, "K-12") || !strings.Contains(dot, "Complete Genome") {
		t.Errorf("detailed DOT should carry strain and level:\n%s", dot)
	}
}

func TestToDOTMaxLeaves(t *testing.T) {
	dot := ToDOT(testDataset(), Options{MaxLeaves: 1})
	if !strings.Contains(dot, `"+1 more"`) {
		t.Errorf("overflow leaf missing:\n%s", dot)
	}
	if strings.Contains(dot, `"GCF_000000002.1"`) {
		t.Errorf("second leaf should be collapsed:\n%s", dot)
	}
}
