package plot

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/tasnimul-arabi-anik/fetchm/pkg/stats"
)

func TestHistogram(t *testing.T) {
	values := []float64{4.0e6, 4.2e6, 4.5e6, 4.6e6, 4.6e6, 5.0e6, 5.5e6, 6.0e6}

	var buf bytes.Buffer
	if err := Histogram(&buf, values, Options{Title: "genome_size", Bins: 4}); err != nil {
		t.Fatalf("Histogram error: %v", err)
	}

	cfg, err := png.DecodeConfig(&buf)
	if err != nil {
		t.Fatalf("output is not valid PNG: %v", err)
	}
	if cfg.Width != DefaultWidth || cfg.Height != DefaultHeight {
		t.Errorf("canvas = %dx%d, want %dx%d", cfg.Width, cfg.Height, DefaultWidth, DefaultHeight)
	}
}

func TestHistogramSingleValue(t *testing.T) {
	var buf bytes.Buffer
	if err := Histogram(&buf, []float64{42}, Options{}); err != nil {
		t.Fatalf("single-value histogram should render: %v", err)
	}
	if _, err := png.DecodeConfig(&buf); err != nil {
		t.Fatalf("output is not valid PNG: %v", err)
	}
}

func TestHistogramEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Histogram(&buf, nil, Options{}); err == nil {
		t.Fatal("empty sample should be rejected")
	}
}

func TestBar(t *testing.T) {
	counts := []stats.CategoryCount{
		{Value: "Escherichia coli", Count: 12},
		{Value: "Salmonella enterica subsp. enterica serovar Typhimurium", Count: 7},
		{Value: "(missing)", Count: 2},
	}

	var buf bytes.Buffer
	if err := Bar(&buf, counts, Options{Title: "species_name", Width: 640, Height: 480}); err != nil {
		t.Fatalf("Bar error: %v", err)
	}
	cfg, err := png.DecodeConfig(&buf)
	if err != nil {
		t.Fatalf("output is not valid PNG: %v", err)
	}
	if cfg.Width != 640 || cfg.Height != 480 {
		t.Errorf("canvas = %dx%d", cfg.Width, cfg.Height)
	}
}

func TestBarEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Bar(&buf, nil, Options{}); err == nil {
		t.Fatal("empty counts should be rejected")
	}
}

func TestFileWriters(t *testing.T) {
	dir := t.TempDir()

	histPath := filepath.Join(dir, "hist.png")
	if err := HistogramFile(histPath, []float64{1, 2, 2, 3}, Options{}); err != nil {
		t.Fatalf("HistogramFile error: %v", err)
	}
	barPath := filepath.Join(dir, "bar.png")
	if err := BarFile(barPath, []stats.CategoryCount{{Value: "x", Count: 1}}, Options{}); err != nil {
		t.Fatalf("BarFile error: %v", err)
	}

	for _, p := range []string{histPath, barPath} {
		f, err := os.Open(p)
		if err != nil {
			t.Fatalf("open %s: %v", p, err)
		}
		if _, err := png.DecodeConfig(f); err != nil {
			t.Errorf("%s is not valid PNG: %v", p, err)
		}
		f.Close()
	}
}

func TestSturges(t *testing.T) {
	tests := []struct{ n, want int }{
		{1, 1},
		{2, 2},
		{8, 4},
		{100, 8},
	}
	for _, tt := range tests {
		if got := sturges(tt.n); got != tt.want {
			t.Errorf("sturges(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestFormatTick(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{4641652, "4.6M"},
		{2500000000, "2.5G"},
		{45000, "45k"},
		{42, "42"},
		{3.14159, "3.14"},
	}
	for _, tt := range tests {
		if got := formatTick(tt.v); got != tt.want {
			t.Errorf("formatTick(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}
