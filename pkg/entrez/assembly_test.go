package entrez

import (
	"context"
	"fmt"
	"net/http"
	"testing"
)

const testDocSum = `{
  "result": {
    "uids": ["1755381"],
    "1755381": {
      "uid": "1755381",
      "assemblyaccession": "GCF_000005845.2",
      "assemblyname": "ASM584v2",
      "organism": "Escherichia coli str. K-12 substr. MG1655 (E. coli)",
      "speciesname": "Escherichia coli",
      "taxid": "511145",
      "speciestaxid": "562",
      "assemblystatus": "Complete Genome",
      "seqreleasedate": "2013/09/26 00:00",
      "submitterorganization": "Univ. Wisconsin",
      "biosampleaccn": "SAMN02604091",
      "refseq_category": "reference genome",
      "coverage": "200",
      "contign50": 4641652,
      "scaffoldn50": 4641652,
      "rs_bioprojects": [{"bioprojectaccn": "PRJNA57779"}],
      "gb_bioprojects": [{"bioprojectaccn": "PRJNA225"}],
      "meta": " <Stats> <Stat category=\"total_length\" sequence_tag=\"all\">4641652</Stat> <Stat category=\"contig_count\" sequence_tag=\"all\">1</Stat> <Stat category=\"replicon_count\" sequence_tag=\"all\">1</Stat> <Stat category=\"contig_n50\" sequence_tag=\"all\">4641652</Stat> </Stats> "
    }
  }
}`

func TestAssemblySummaries(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/esummary.fcgi" {
			t.Errorf("path = %s, want /esummary.fcgi", r.URL.Path)
		}
		if got := r.URL.Query().Get("id"); got != "1755381" {
			t.Errorf("id = %q", got)
		}
		fmt.Fprint(w, testDocSum)
	}))

	sums, err := client.AssemblySummaries(context.Background(), []string{"1755381"}, false)
	if err != nil {
		t.Fatalf("AssemblySummaries error: %v", err)
	}
	if len(sums) != 1 {
		t.Fatalf("got %d summaries, want 1", len(sums))
	}

	s := sums[0]
	if s.Accession != "GCF_000005845.2" {
		t.Errorf("Accession = %q", s.Accession)
	}
	if s.Name != "ASM584v2" {
		t.Errorf("Name = %q", s.Name)
	}
	if s.SpeciesName != "Escherichia coli" {
		t.Errorf("SpeciesName = %q", s.SpeciesName)
	}
	if s.TaxID != "511145" || s.SpeciesTaxID != "562" {
		t.Errorf("TaxID = %q, SpeciesTaxID = %q", s.TaxID, s.SpeciesTaxID)
	}
	if s.Status != "Complete Genome" {
		t.Errorf("Status = %q", s.Status)
	}
	if s.BioSample != "SAMN02604091" {
		t.Errorf("BioSample = %q", s.BioSample)
	}
	if s.BioProject != "PRJNA57779" {
		t.Errorf("BioProject = %q, want RefSeq project preferred", s.BioProject)
	}
	if s.Coverage != 200 {
		t.Errorf("Coverage = %v", s.Coverage)
	}
	if s.ContigN50 != 4641652 || s.ScaffoldN50 != 4641652 {
		t.Errorf("N50 = %d/%d", s.ContigN50, s.ScaffoldN50)
	}
	if s.TotalLength != 4641652 {
		t.Errorf("TotalLength = %d (from meta)", s.TotalLength)
	}
	if s.ContigCount != 1 || s.RepliconCount != 1 {
		t.Errorf("ContigCount = %d, RepliconCount = %d", s.ContigCount, s.RepliconCount)
	}
}

func TestAssemblySummariesChunking(t *testing.T) {
	var requests int
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, `{"result":{"uids":[]}}`)
	}))

	// 450 UIDs should produce 3 chunked requests (200+200+50).
	uids := make([]string, 450)
	for i := range uids {
		uids[i] = fmt.Sprintf("%d", i+1)
	}
	if _, err := client.AssemblySummaries(context.Background(), uids, false); err != nil {
		t.Fatalf("AssemblySummaries error: %v", err)
	}
	if requests != 3 {
		t.Errorf("requests = %d, want 3", requests)
	}
}

func TestFetchAssemblyByAccession(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/esearch.fcgi":
			if got := r.URL.Query().Get("term"); got != "GCF_000005845.2[Assembly Accession]" {
				t.Errorf("term = %q", got)
			}
			fmt.Fprint(w, `{"esearchresult":{"count":"1","idlist":["1755381"]}}`)
		case "/esummary.fcgi":
			fmt.Fprint(w, testDocSum)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	s, err := client.FetchAssemblyByAccession(context.Background(), "GCF_000005845.2", false)
	if err != nil {
		t.Fatalf("FetchAssemblyByAccession error: %v", err)
	}
	if s.Accession != "GCF_000005845.2" {
		t.Errorf("Accession = %q", s.Accession)
	}
}

func TestParseMetaStats(t *testing.T) {
	tests := []struct {
		name string
		meta string
		want map[string]int64
	}{
		{
			name: "empty",
			meta: "",
			want: map[string]int64{},
		},
		{
			name: "malformed",
			meta: "<Stats><Stat",
			want: map[string]int64{},
		},
		{
			name: "skips non-all sequence tags",
			meta: `<Stats><Stat category="total_length" sequence_tag="unplaced">10</Stat><Stat category="total_length" sequence_tag="all">100</Stat></Stats>`,
			want: map[string]int64{"total_length": 100},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseMetaStats(tt.meta)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("%s = %d, want %d", k, got[k], v)
				}
			}
		})
	}
}
