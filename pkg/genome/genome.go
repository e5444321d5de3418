// Package genome defines the metadata model for bacterial genome
// assemblies and the concurrent fetcher that populates it from Entrez.
package genome

import (
	"bufio"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/tasnimul-arabi-anik/fetchm/pkg/entrez"
	apperrors "github.com/tasnimul-arabi-anik/fetchm/pkg/errors"
)

// accessionRE matches RefSeq (GCF_) and GenBank (GCA_) assembly accessions,
// with or without a version suffix.
var accessionRE = regexp.MustCompile(`^GC[AF]_\d{9}(\.\d+)?$`)

// Record holds the flattened metadata for one genome assembly: the
// assembly document summary joined with its BioSample attributes.
type Record struct {
	Accession      string  `json:"accession" bson:"accession"`
	AssemblyName   string  `json:"assembly_name,omitempty" bson:"assembly_name,omitempty"`
	Organism       string  `json:"organism,omitempty" bson:"organism,omitempty"`
	SpeciesName    string  `json:"species_name,omitempty" bson:"species_name,omitempty"`
	TaxID          string  `json:"taxid,omitempty" bson:"taxid,omitempty"`
	SpeciesTaxID   string  `json:"species_taxid,omitempty" bson:"species_taxid,omitempty"`
	AssemblyLevel  string  `json:"assembly_level,omitempty" bson:"assembly_level,omitempty"`
	ReleaseDate    string  `json:"release_date,omitempty" bson:"release_date,omitempty"`
	Submitter      string  `json:"submitter,omitempty" bson:"submitter,omitempty"`
	BioSample      string  `json:"biosample,omitempty" bson:"biosample,omitempty"`
	BioProject     string  `json:"bioproject,omitempty" bson:"bioproject,omitempty"`
	RefSeqCategory string  `json:"refseq_category,omitempty" bson:"refseq_category,omitempty"`
	GenomeSize     int64   `json:"genome_size,omitempty" bson:"genome_size,omitempty"`
	ContigCount    int64   `json:"contig_count,omitempty" bson:"contig_count,omitempty"`
	ContigN50      int64   `json:"contig_n50,omitempty" bson:"contig_n50,omitempty"`
	ScaffoldN50    int64   `json:"scaffold_n50,omitempty" bson:"scaffold_n50,omitempty"`
	RepliconCount  int64   `json:"replicon_count,omitempty" bson:"replicon_count,omitempty"`
	Coverage       float64 `json:"coverage,omitempty" bson:"coverage,omitempty"`

	// BioSample attributes
	Strain          string `json:"strain,omitempty" bson:"strain,omitempty"`
	Host            string `json:"host,omitempty" bson:"host,omitempty"`
	IsolationSource string `json:"isolation_source,omitempty" bson:"isolation_source,omitempty"`
	GeoLocName      string `json:"geo_loc_name,omitempty" bson:"geo_loc_name,omitempty"`
	CollectionDate  string `json:"collection_date,omitempty" bson:"collection_date,omitempty"`
}

// Dataset is an ordered collection of Records from one fetch run.
// Records are unique by accession and preserve input order.
type Dataset struct {
	RunID     string    `json:"run_id" bson:"run_id"`
	Query     string    `json:"query,omitempty" bson:"query,omitempty"`
	FetchedAt time.Time `json:"fetched_at" bson:"fetched_at"`
	Records   []Record  `json:"records" bson:"records"`
	Warnings  []string  `json:"warnings,omitempty" bson:"warnings,omitempty"`
}

// Accessions returns the accession of every record, in order.
func (d *Dataset) Accessions() []string {
	out := make([]string, len(d.Records))
	for i, r := range d.Records {
		out[i] = r.Accession
	}
	return out
}

// Find returns the record with the given accession, or nil.
func (d *Dataset) Find(accession string) *Record {
	for i := range d.Records {
		if d.Records[i].Accession == accession {
			return &d.Records[i]
		}
	}
	return nil
}

// ValidAccession reports whether s looks like an assembly accession.
func ValidAccession(s string) bool {
	return accessionRE.MatchString(s)
}

// NormalizeAccession uppercases and trims an accession string.
func NormalizeAccession(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ReadAccessions reads accessions from r, one per line. Blank lines and
// lines starting with '#' are skipped; inline comma separation is accepted
// so simple CSV exports work unchanged. Invalid accessions are rejected.
func ReadAccessions(r io.Reader) ([]string, error) {
	var out []string
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		for _, field := range strings.Split(text, ",") {
			acc := NormalizeAccession(field)
			if acc == "" {
				continue
			}
			if !ValidAccession(acc) {
				return nil, apperrors.New(apperrors.ErrCodeInvalidAccession, "line %d: invalid accession %q", line, acc)
			}
			out = append(out, acc)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return Dedupe(out), nil
}

// Dedupe removes duplicate accessions, preserving first-seen order.
func Dedupe(accessions []string) []string {
	seen := make(map[string]bool, len(accessions))
	out := accessions[:0]
	for _, a := range accessions {
		if !seen[a] {
			seen[a] = true
			out = append(out, a)
		}
	}
	return out
}

// merge builds a Record from an assembly summary and its optional BioSample.
func merge(sum *entrez.AssemblySummary, bs *entrez.BioSample) Record {
	rec := Record{
		Accession:      sum.Accession,
		AssemblyName:   sum.Name,
		Organism:       sum.Organism,
		SpeciesName:    sum.SpeciesName,
		TaxID:          sum.TaxID,
		SpeciesTaxID:   sum.SpeciesTaxID,
		AssemblyLevel:  sum.Status,
		ReleaseDate:    sum.ReleaseDate,
		Submitter:      sum.Submitter,
		BioSample:      sum.BioSample,
		BioProject:     sum.BioProject,
		RefSeqCategory: sum.RefSeqCategory,
		GenomeSize:     sum.TotalLength,
		ContigCount:    sum.ContigCount,
		ContigN50:      sum.ContigN50,
		ScaffoldN50:    sum.ScaffoldN50,
		RepliconCount:  sum.RepliconCount,
		Coverage:       sum.Coverage,
	}
	if bs != nil {
		rec.Strain = bs.Strain()
		rec.Host = bs.Host()
		rec.IsolationSource = bs.IsolationSource()
		rec.GeoLocName = bs.GeoLocName()
		rec.CollectionDate = bs.CollectionDate()
	}
	return rec
}
