package plot

import (
	"fmt"
	"io"
	"math"
)

// Histogram renders a PNG histogram of values to w.
func Histogram(w io.Writer, values []float64, opts Options) error {
	if len(values) == 0 {
		return fmt.Errorf("no values to plot")
	}
	opts = opts.WithDefaults()

	bins := opts.Bins
	if bins <= 0 {
		bins = sturges(len(values))
	}

	min, max := values[0], values[0]
	for _, v := range values {
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	if min == max {
		// Degenerate sample: widen the range so the single bar has width.
		min, max = min-0.5, max+0.5
	}

	counts := make([]int, bins)
	width := (max - min) / float64(bins)
	for _, v := range values {
		i := int((v - min) / width)
		if i >= bins {
			i = bins - 1
		}
		counts[i]++
	}
	peak := 0
	for _, c := range counts {
		if c > peak {
			peak = c
		}
	}

	dc := newCanvas(opts)
	plotW := float64(opts.Width) - marginLeft - marginRight
	plotH := float64(opts.Height) - marginTop - marginBottom
	baseY := marginTop + plotH

	// Horizontal gridlines and count ticks.
	ticks := 5
	dc.SetLineWidth(1)
	for i := 0; i <= ticks; i++ {
		frac := float64(i) / float64(ticks)
		y := baseY - frac*plotH
		dc.SetRGB(colorGrid[0], colorGrid[1], colorGrid[2])
		dc.DrawLine(marginLeft, y, marginLeft+plotW, y)
		dc.Stroke()
		dc.SetRGB(colorAxis[0], colorAxis[1], colorAxis[2])
		dc.DrawStringAnchored(formatTick(frac*float64(peak)), marginLeft-8, y, 1, 0.5)
	}

	// Bars.
	barW := plotW / float64(bins)
	dc.SetRGB(colorBar[0], colorBar[1], colorBar[2])
	for i, c := range counts {
		if c == 0 {
			continue
		}
		h := float64(c) / float64(peak) * plotH
		dc.DrawRectangle(marginLeft+float64(i)*barW+1, baseY-h, barW-2, h)
		dc.Fill()
	}

	// X axis with bin edge labels.
	dc.SetRGB(colorAxis[0], colorAxis[1], colorAxis[2])
	dc.DrawLine(marginLeft, baseY, marginLeft+plotW, baseY)
	dc.Stroke()
	labelEvery := 1
	if bins > 10 {
		labelEvery = bins / 10
	}
	for i := 0; i <= bins; i += labelEvery {
		x := marginLeft + float64(i)*barW
		dc.DrawLine(x, baseY, x, baseY+4)
		dc.Stroke()
		dc.DrawStringAnchored(formatTick(min+float64(i)*width), x, baseY+16, 0.5, 0.5)
	}

	return savePNG(w, dc)
}

// HistogramFile renders a histogram into a PNG file at path.
func HistogramFile(path string, values []float64, opts Options) error {
	return writeFile(path, func(w io.Writer) error {
		return Histogram(w, values, opts)
	})
}
