// Package plot renders dataset charts to PNG: histograms for numeric
// columns and horizontal bar charts for categorical frequency counts.
package plot

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/fogleman/gg"
)

// Default canvas size in pixels.
const (
	DefaultWidth  = 900
	DefaultHeight = 600
)

// Options controls chart rendering.
type Options struct {
	// Width and Height of the canvas in pixels.
	Width  int
	Height int

	// Bins for histograms. Zero selects Sturges' rule.
	Bins int

	// Title drawn at the top of the chart.
	Title string
}

// WithDefaults fills in zero values.
func (o Options) WithDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	return o
}

// chart geometry and palette shared by both chart kinds.
const (
	marginLeft   = 70.0
	marginRight  = 30.0
	marginTop    = 50.0
	marginBottom = 60.0
)

var (
	colorBG   = [3]float64{1, 1, 1}
	colorBar  = [3]float64{0.27, 0.51, 0.71} // steel blue
	colorAxis = [3]float64{0.2, 0.2, 0.2}
	colorGrid = [3]float64{0.88, 0.88, 0.88}
)

func newCanvas(opts Options) *gg.Context {
	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetRGB(colorBG[0], colorBG[1], colorBG[2])
	dc.Clear()
	if opts.Title != "" {
		dc.SetRGB(colorAxis[0], colorAxis[1], colorAxis[2])
		dc.DrawStringAnchored(opts.Title, float64(opts.Width)/2, marginTop/2, 0.5, 0.5)
	}
	return dc
}

// sturges picks a histogram bin count from the sample size.
func sturges(n int) int {
	if n <= 1 {
		return 1
	}
	return int(math.Ceil(math.Log2(float64(n)))) + 1
}

// formatTick renders an axis value compactly (4.6M instead of 4641652).
func formatTick(v float64) string {
	av := math.Abs(v)
	switch {
	case av >= 1e9:
		return fmt.Sprintf("%.1fG", v/1e9)
	case av >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case av >= 1e4:
		return fmt.Sprintf("%.0fk", v/1e3)
	case av == math.Trunc(av):
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

func savePNG(w io.Writer, dc *gg.Context) error {
	return dc.EncodePNG(w)
}

// WriteFile renders with the given draw func into path.
func writeFile(path string, draw func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := draw(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
