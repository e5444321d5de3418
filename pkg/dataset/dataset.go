// Package dataset serializes genome datasets to and from tabular formats.
//
// The canonical on-disk formats are TSV (default), CSV and JSON. TSV/CSV
// carry one row per record with a fixed header; JSON carries the full
// Dataset including run metadata. Terminal display uses go-pretty tables.
package dataset

import (
	"strconv"
	"strings"

	apperrors "github.com/tasnimul-arabi-anik/fetchm/pkg/errors"
	"github.com/tasnimul-arabi-anik/fetchm/pkg/genome"
)

// Output formats.
const (
	FormatTSV  = "tsv"
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// ValidateFormat checks that format names a supported output format.
func ValidateFormat(format string) error {
	switch format {
	case FormatTSV, FormatCSV, FormatJSON:
		return nil
	default:
		return apperrors.New(apperrors.ErrCodeInvalidFormat, "unknown format %q (supported: tsv, csv, json)", format)
	}
}

// columns is the canonical column order for tabular output.
var columns = []string{
	"accession",
	"assembly_name",
	"organism",
	"species_name",
	"taxid",
	"species_taxid",
	"assembly_level",
	"release_date",
	"submitter",
	"biosample",
	"bioproject",
	"refseq_category",
	"genome_size",
	"contig_count",
	"contig_n50",
	"scaffold_n50",
	"replicon_count",
	"coverage",
	"strain",
	"host",
	"isolation_source",
	"geo_loc_name",
	"collection_date",
}

// numericColumns are the columns stats and plot treat as numeric.
var numericColumns = map[string]bool{
	"genome_size":    true,
	"contig_count":   true,
	"contig_n50":     true,
	"scaffold_n50":   true,
	"replicon_count": true,
	"coverage":       true,
}

// Columns returns the canonical column order.
func Columns() []string {
	out := make([]string, len(columns))
	copy(out, columns)
	return out
}

// IsColumn reports whether name is a known column.
func IsColumn(name string) bool {
	for _, c := range columns {
		if c == name {
			return true
		}
	}
	return false
}

// IsNumericColumn reports whether name is a numeric column.
func IsNumericColumn(name string) bool {
	return numericColumns[name]
}

// Value returns the string form of a record's column.
func Value(r *genome.Record, column string) string {
	switch column {
	case "accession":
		return r.Accession
	case "assembly_name":
		return r.AssemblyName
	case "organism":
		return r.Organism
	case "species_name":
		return r.SpeciesName
	case "taxid":
		return r.TaxID
	case "species_taxid":
		return r.SpeciesTaxID
	case "assembly_level":
		return r.AssemblyLevel
	case "release_date":
		return r.ReleaseDate
	case "submitter":
		return r.Submitter
	case "biosample":
		return r.BioSample
	case "bioproject":
		return r.BioProject
	case "refseq_category":
		return r.RefSeqCategory
	case "genome_size":
		return formatInt(r.GenomeSize)
	case "contig_count":
		return formatInt(r.ContigCount)
	case "contig_n50":
		return formatInt(r.ContigN50)
	case "scaffold_n50":
		return formatInt(r.ScaffoldN50)
	case "replicon_count":
		return formatInt(r.RepliconCount)
	case "coverage":
		return formatFloat(r.Coverage)
	case "strain":
		return r.Strain
	case "host":
		return r.Host
	case "isolation_source":
		return r.IsolationSource
	case "geo_loc_name":
		return r.GeoLocName
	case "collection_date":
		return r.CollectionDate
	default:
		return ""
	}
}

// NumericValue returns a record's column as a float64. ok is false when the
// column is not numeric or the value is absent (zero).
func NumericValue(r *genome.Record, column string) (float64, bool) {
	switch column {
	case "genome_size":
		return float64(r.GenomeSize), r.GenomeSize != 0
	case "contig_count":
		return float64(r.ContigCount), r.ContigCount != 0
	case "contig_n50":
		return float64(r.ContigN50), r.ContigN50 != 0
	case "scaffold_n50":
		return float64(r.ScaffoldN50), r.ScaffoldN50 != 0
	case "replicon_count":
		return float64(r.RepliconCount), r.RepliconCount != 0
	case "coverage":
		return r.Coverage, r.Coverage != 0
	default:
		return 0, false
	}
}

// setValue assigns a parsed string to a record's column.
func setValue(r *genome.Record, column, value string) error {
	value = strings.TrimSpace(value)
	switch column {
	case "accession":
		r.Accession = value
	case "assembly_name":
		r.AssemblyName = value
	case "organism":
		r.Organism = value
	case "species_name":
		r.SpeciesName = value
	case "taxid":
		r.TaxID = value
	case "species_taxid":
		r.SpeciesTaxID = value
	case "assembly_level":
		r.AssemblyLevel = value
	case "release_date":
		r.ReleaseDate = value
	case "submitter":
		r.Submitter = value
	case "biosample":
		r.BioSample = value
	case "bioproject":
		r.BioProject = value
	case "refseq_category":
		r.RefSeqCategory = value
	case "genome_size":
		return setInt(&r.GenomeSize, value)
	case "contig_count":
		return setInt(&r.ContigCount, value)
	case "contig_n50":
		return setInt(&r.ContigN50, value)
	case "scaffold_n50":
		return setInt(&r.ScaffoldN50, value)
	case "replicon_count":
		return setInt(&r.RepliconCount, value)
	case "coverage":
		return setFloat(&r.Coverage, value)
	case "strain":
		r.Strain = value
	case "host":
		r.Host = value
	case "isolation_source":
		r.IsolationSource = value
	case "geo_loc_name":
		r.GeoLocName = value
	case "collection_date":
		r.CollectionDate = value
	default:
		// Unknown columns are ignored so files with extra columns load.
	}
	return nil
}

func formatInt(v int64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatInt(v, 10)
}

func formatFloat(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func setInt(dst *int64, value string) error {
	if value == "" {
		*dst = 0
		return nil
	}
	v, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func setFloat(dst *float64, value string) error {
	if value == "" {
		*dst = 0
		return nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}
