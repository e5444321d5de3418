package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tasnimul-arabi-anik/fetchm/pkg/genome"
)

// Write serializes ds to w in the given format.
func Write(w io.Writer, ds *genome.Dataset, format string) error {
	switch format {
	case FormatTSV:
		return writeDelimited(w, ds, '\t')
	case FormatCSV:
		return writeDelimited(w, ds, ',')
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ds)
	default:
		return ValidateFormat(format)
	}
}

// WriteFile writes ds to path, inferring the format from the extension
// unless format is non-empty.
func WriteFile(path string, ds *genome.Dataset, format string) error {
	if format == "" {
		format = FormatForPath(path)
	}
	if err := ValidateFormat(format); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := Write(f, ds, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Read parses a dataset from r in the given format.
func Read(r io.Reader, format string) (*genome.Dataset, error) {
	switch format {
	case FormatTSV:
		return readDelimited(r, '\t')
	case FormatCSV:
		return readDelimited(r, ',')
	case FormatJSON:
		var ds genome.Dataset
		if err := json.NewDecoder(r).Decode(&ds); err != nil {
			return nil, fmt.Errorf("decoding dataset: %w", err)
		}
		return &ds, nil
	default:
		return nil, ValidateFormat(format)
	}
}

// ReadFile loads a dataset from path, inferring the format from the
// extension.
func ReadFile(path string) (*genome.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, FormatForPath(path))
}

// FormatForPath maps a file extension to an output format. Unknown
// extensions default to TSV.
func FormatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".json":
		return FormatJSON
	default:
		return FormatTSV
	}
}

func writeDelimited(w io.Writer, ds *genome.Dataset, comma rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = comma

	if err := cw.Write(columns); err != nil {
		return err
	}
	row := make([]string, len(columns))
	for i := range ds.Records {
		for j, col := range columns {
			row[j] = Value(&ds.Records[i], col)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func readDelimited(r io.Reader, comma rune) (*genome.Dataset, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty dataset file")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	hasAccession := false
	for _, h := range header {
		if strings.TrimSpace(h) == "accession" {
			hasAccession = true
		}
	}
	if !hasAccession {
		return nil, fmt.Errorf("not a dataset file: header has no accession column")
	}

	ds := &genome.Dataset{}
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		line++
		var rec genome.Record
		for j, h := range header {
			if j >= len(row) {
				break
			}
			if err := setValue(&rec, strings.TrimSpace(h), row[j]); err != nil {
				return nil, fmt.Errorf("line %d, column %s: %w", line, h, err)
			}
		}
		if rec.Accession == "" {
			continue
		}
		ds.Records = append(ds.Records, rec)
	}
	return ds, nil
}
