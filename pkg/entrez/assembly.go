package entrez

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/tasnimul-arabi-anik/fetchm/pkg/cache"
	apperrors "github.com/tasnimul-arabi-anik/fetchm/pkg/errors"
)

// esummary accepts up to 500 IDs per request; stay under that.
const summaryChunkSize = 200

// AssemblySummary holds the document summary for one genome assembly.
//
// Numeric statistics (total length, contig count, N50) come partly from
// top-level docsum fields and partly from the embedded Meta XML fragment.
// Zero values indicate the field was absent from the summary.
type AssemblySummary struct {
	UID            string  // Entrez UID
	Accession      string  // e.g. "GCF_000005845.2"
	Name           string  // Assembly name, e.g. "ASM584v2"
	Organism       string  // Full organism string with strain
	SpeciesName    string  // Binomial species name
	TaxID          string  // Organism taxonomy ID
	SpeciesTaxID   string  // Species-level taxonomy ID
	Status         string  // Assembly level, e.g. "Complete Genome"
	ReleaseDate    string  // Sequence release date, "YYYY/MM/DD HH:MM"
	Submitter      string  // Submitting organization
	BioSample      string  // BioSample accession (SAMN...)
	BioProject     string  // BioProject accession (PRJNA...)
	RefSeqCategory string  // "reference genome", "representative genome" or ""
	Coverage       float64 // Sequencing coverage
	ContigN50      int64
	ScaffoldN50    int64
	TotalLength    int64 // Genome size in bases (from Meta stats)
	ContigCount    int64 // From Meta stats
	RepliconCount  int64 // From Meta stats
}

// AssemblyUID resolves a GCF_/GCA_ accession to its assembly UID.
func (c *Client) AssemblyUID(ctx context.Context, accession string, refresh bool) (string, error) {
	return c.UID(ctx, "assembly", accession, "Assembly Accession", refresh)
}

// AssemblySummaries fetches document summaries for the given assembly UIDs.
// IDs are chunked into batches; results preserve request order within the
// limits of what Entrez returns. Unknown UIDs are silently absent from the
// result, mirroring esummary behavior.
func (c *Client) AssemblySummaries(ctx context.Context, uids []string, refresh bool) ([]AssemblySummary, error) {
	var out []AssemblySummary
	for start := 0; start < len(uids); start += summaryChunkSize {
		end := min(start+summaryChunkSize, len(uids))
		chunk, err := c.assemblySummaryChunk(ctx, uids[start:end], refresh)
		if err != nil {
			return nil, err
		}
		out = append(out, chunk...)
	}
	return out, nil
}

func (c *Client) assemblySummaryChunk(ctx context.Context, uids []string, refresh bool) ([]AssemblySummary, error) {
	q := url.Values{}
	q.Set("db", "assembly")
	q.Set("id", strings.Join(uids, ","))
	q.Set("retmode", "json")

	body, err := c.get(ctx, "esummary.fcgi", q, c.ttl, refresh)
	if err != nil {
		return nil, err
	}

	var resp esummaryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode esummary response: %w", err)
	}

	out := make([]AssemblySummary, 0, len(resp.Result.UIDs))
	for _, uid := range resp.Result.UIDs {
		raw, ok := resp.Result.Docs[uid]
		if !ok {
			continue
		}
		var doc assemblyDocSum
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode docsum %s: %w", uid, err)
		}
		out = append(out, doc.summary(uid))
	}
	return out, nil
}

// esummaryResponse models the awkward esummary JSON shape: "result" maps
// each UID to its docsum, with the UID list under "uids".
type esummaryResponse struct {
	Result esummaryResult `json:"result"`
}

type esummaryResult struct {
	UIDs []string                   `json:"uids"`
	Docs map[string]json.RawMessage `json:"-"`
}

func (r *esummaryResult) UnmarshalJSON(data []byte) error {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	if raw, ok := all["uids"]; ok {
		if err := json.Unmarshal(raw, &r.UIDs); err != nil {
			return err
		}
		delete(all, "uids")
	}
	r.Docs = all
	return nil
}

type assemblyDocSum struct {
	AssemblyAccession     string         `json:"assemblyaccession"`
	AssemblyName          string         `json:"assemblyname"`
	Organism              string         `json:"organism"`
	SpeciesName           string         `json:"speciesname"`
	TaxID                 json.Number    `json:"taxid"`
	SpeciesTaxID          json.Number    `json:"speciestaxid"`
	AssemblyStatus        string         `json:"assemblystatus"`
	SeqReleaseDate        string         `json:"seqreleasedate"`
	SubmitterOrganization string         `json:"submitterorganization"`
	BioSampleAccn         string         `json:"biosampleaccn"`
	RefSeqCategory        string         `json:"refseq_category"`
	Coverage              string         `json:"coverage"`
	ContigN50             json.Number    `json:"contign50"`
	ScaffoldN50           json.Number    `json:"scaffoldn50"`
	GBBioProjects         []bioProjectID `json:"gb_bioprojects"`
	RSBioProjects         []bioProjectID `json:"rs_bioprojects"`
	Meta                  string         `json:"meta"`
}

type bioProjectID struct {
	Accession string `json:"bioprojectaccn"`
}

func (d *assemblyDocSum) summary(uid string) AssemblySummary {
	s := AssemblySummary{
		UID:            uid,
		Accession:      d.AssemblyAccession,
		Name:           d.AssemblyName,
		Organism:       d.Organism,
		SpeciesName:    d.SpeciesName,
		TaxID:          d.TaxID.String(),
		SpeciesTaxID:   d.SpeciesTaxID.String(),
		Status:         d.AssemblyStatus,
		ReleaseDate:    d.SeqReleaseDate,
		Submitter:      d.SubmitterOrganization,
		BioSample:      d.BioSampleAccn,
		RefSeqCategory: d.RefSeqCategory,
	}
	s.Coverage, _ = strconv.ParseFloat(strings.TrimSpace(d.Coverage), 64)
	s.ContigN50, _ = d.ContigN50.Int64()
	s.ScaffoldN50, _ = d.ScaffoldN50.Int64()
	if len(d.RSBioProjects) > 0 {
		s.BioProject = d.RSBioProjects[0].Accession
	} else if len(d.GBBioProjects) > 0 {
		s.BioProject = d.GBBioProjects[0].Accession
	}

	stats := parseMetaStats(d.Meta)
	s.TotalLength = stats["total_length"]
	s.ContigCount = stats["contig_count"]
	s.RepliconCount = stats["replicon_count"]
	return s
}

// metaDoc models the Stats fragment embedded as an XML string inside the
// JSON docsum. The fragment has no single root, so it is wrapped before
// unmarshaling.
type metaDoc struct {
	Stats []metaStat `xml:"Stats>Stat"`
}

type metaStat struct {
	Category    string `xml:"category,attr"`
	SequenceTag string `xml:"sequence_tag,attr"`
	Value       string `xml:",chardata"`
}

// parseMetaStats extracts the "all"-scoped statistics from the Meta XML
// fragment. Malformed fragments yield an empty map rather than an error;
// the fields are supplementary.
func parseMetaStats(meta string) map[string]int64 {
	out := map[string]int64{}
	if strings.TrimSpace(meta) == "" {
		return out
	}

	var doc metaDoc
	if err := xml.Unmarshal([]byte("<meta>"+meta+"</meta>"), &doc); err != nil {
		return out
	}
	for _, st := range doc.Stats {
		if st.SequenceTag != "" && st.SequenceTag != "all" {
			continue
		}
		if v, err := strconv.ParseInt(strings.TrimSpace(st.Value), 10, 64); err == nil {
			out[st.Category] = v
		}
	}
	return out
}

// FetchAssemblyByAccession resolves an accession and fetches its summary in
// one call. Returns cache.ErrNotFound for unknown accessions.
func (c *Client) FetchAssemblyByAccession(ctx context.Context, accession string, refresh bool) (*AssemblySummary, error) {
	uid, err := c.AssemblyUID(ctx, accession, refresh)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, apperrors.Wrap(apperrors.ErrCodeAssemblyNotFound, err, "assembly %s not found", accession)
		}
		return nil, err
	}
	sums, err := c.AssemblySummaries(ctx, []string{uid}, refresh)
	if err != nil {
		return nil, err
	}
	if len(sums) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrCodeAssemblyNotFound, cache.ErrNotFound, "assembly %s not found", accession)
	}
	return &sums[0], nil
}
