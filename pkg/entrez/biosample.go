package entrez

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/tasnimul-arabi-anik/fetchm/pkg/cache"
	apperrors "github.com/tasnimul-arabi-anik/fetchm/pkg/errors"
)

// BioSample holds the parsed BioSample record for one assembly.
//
// Attributes are keyed by harmonized name when present (e.g. "geo_loc_name",
// "isolation_source", "collection_date"), falling back to the submitted
// attribute name. Attribute values of "missing", "not collected" and
// similar placeholders are preserved as submitted; interpretation is left
// to the caller.
type BioSample struct {
	Accession  string            // SAMN.../SAMEA... accession
	Title      string            // Sample title
	Organism   string            // Taxonomy name
	TaxonomyID string            // Taxonomy ID
	Attributes map[string]string // Harmonized attribute name -> value
}

// Attr returns the first non-empty attribute among the given keys.
func (b *BioSample) Attr(keys ...string) string {
	for _, k := range keys {
		if v := b.Attributes[k]; v != "" {
			return v
		}
	}
	return ""
}

// Convenience accessors for the attributes fetchm tabulates. Each checks
// the harmonized name first, then common submitted spellings.

func (b *BioSample) Strain() string { return b.Attr("strain", "isolate") }

func (b *BioSample) Host() string { return b.Attr("host", "specific_host") }

func (b *BioSample) IsolationSource() string {
	return b.Attr("isolation_source", "isolation source")
}

func (b *BioSample) GeoLocName() string {
	return b.Attr("geo_loc_name", "geographic location", "geo loc name")
}

func (b *BioSample) CollectionDate() string {
	return b.Attr("collection_date", "collection date")
}

// FetchBioSample fetches and parses the BioSample record for the given
// accession (SAMN...). The accession is first resolved to a UID, then the
// record is fetched as XML via efetch.
func (c *Client) FetchBioSample(ctx context.Context, accession string, refresh bool) (*BioSample, error) {
	uid, err := c.UID(ctx, "biosample", accession, "Accession", refresh)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, apperrors.Wrap(apperrors.ErrCodeBioSampleNotFound, err, "biosample %s not found", accession)
		}
		return nil, err
	}

	q := url.Values{}
	q.Set("db", "biosample")
	q.Set("id", uid)
	q.Set("retmode", "xml")

	body, err := c.get(ctx, "efetch.fcgi", q, c.ttl, refresh)
	if err != nil {
		return nil, err
	}

	samples, err := parseBioSampleSet(body)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrCodeBioSampleNotFound, cache.ErrNotFound, "biosample %s not found", accession)
	}
	return &samples[0], nil
}

// parseBioSampleSet decodes an efetch BioSampleSet XML document.
func parseBioSampleSet(data []byte) ([]BioSample, error) {
	var doc bioSampleSet
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode biosample XML: %w", err)
	}

	out := make([]BioSample, 0, len(doc.Samples))
	for _, s := range doc.Samples {
		bs := BioSample{
			Accession:  s.Accession,
			Title:      strings.TrimSpace(s.Description.Title),
			Organism:   s.Description.Organism.Name,
			TaxonomyID: s.Description.Organism.TaxonomyID,
			Attributes: make(map[string]string, len(s.Attributes)),
		}
		for _, a := range s.Attributes {
			key := a.HarmonizedName
			if key == "" {
				key = a.AttributeName
			}
			if key == "" {
				continue
			}
			if v := strings.TrimSpace(a.Value); v != "" {
				bs.Attributes[key] = v
			}
		}
		out = append(out, bs)
	}
	return out, nil
}

type bioSampleSet struct {
	XMLName xml.Name       `xml:"BioSampleSet"`
	Samples []bioSampleDoc `xml:"BioSample"`
}

type bioSampleDoc struct {
	Accession   string         `xml:"accession,attr"`
	Description bioSampleDesc  `xml:"Description"`
	Attributes  []bioSampleAtt `xml:"Attributes>Attribute"`
}

type bioSampleDesc struct {
	Title    string       `xml:"Title"`
	Organism bioSampleOrg `xml:"Organism"`
}

type bioSampleOrg struct {
	TaxonomyID string `xml:"taxonomy_id,attr"`
	Name       string `xml:"taxonomy_name,attr"`
}

type bioSampleAtt struct {
	AttributeName  string `xml:"attribute_name,attr"`
	HarmonizedName string `xml:"harmonized_name,attr"`
	Value          string `xml:",chardata"`
}
