package plot

import (
	"fmt"
	"io"

	"github.com/tasnimul-arabi-anik/fetchm/pkg/stats"
)

// barLabelWidth reserves canvas space for category labels on the left.
const barLabelWidth = 180.0

// Bar renders a horizontal bar chart of categorical frequency counts to w.
// Bars keep the order of counts (most frequent first when they come from
// stats.Categorical).
func Bar(w io.Writer, counts []stats.CategoryCount, opts Options) error {
	if len(counts) == 0 {
		return fmt.Errorf("no categories to plot")
	}
	opts = opts.WithDefaults()

	peak := 0
	for _, c := range counts {
		if c.Count > peak {
			peak = c.Count
		}
	}
	if peak == 0 {
		return fmt.Errorf("all category counts are zero")
	}

	dc := newCanvas(opts)
	left := marginLeft + barLabelWidth
	plotW := float64(opts.Width) - left - marginRight
	plotH := float64(opts.Height) - marginTop - marginBottom

	rowH := plotH / float64(len(counts))
	barH := rowH * 0.7

	// Vertical gridlines with count ticks.
	ticks := 5
	dc.SetLineWidth(1)
	for i := 0; i <= ticks; i++ {
		frac := float64(i) / float64(ticks)
		x := left + frac*plotW
		dc.SetRGB(colorGrid[0], colorGrid[1], colorGrid[2])
		dc.DrawLine(x, marginTop, x, marginTop+plotH)
		dc.Stroke()
		dc.SetRGB(colorAxis[0], colorAxis[1], colorAxis[2])
		dc.DrawStringAnchored(formatTick(frac*float64(peak)), x, marginTop+plotH+16, 0.5, 0.5)
	}

	for i, c := range counts {
		y := marginTop + float64(i)*rowH + (rowH-barH)/2

		dc.SetRGB(colorBar[0], colorBar[1], colorBar[2])
		bw := float64(c.Count) / float64(peak) * plotW
		dc.DrawRectangle(left, y, bw, barH)
		dc.Fill()

		dc.SetRGB(colorAxis[0], colorAxis[1], colorAxis[2])
		label := truncateLabel(c.Value, 28)
		dc.DrawStringAnchored(label, left-8, y+barH/2, 1, 0.5)
		dc.DrawStringAnchored(fmt.Sprintf("%d", c.Count), left+bw+6, y+barH/2, 0, 0.5)
	}

	// Y axis.
	dc.SetRGB(colorAxis[0], colorAxis[1], colorAxis[2])
	dc.DrawLine(left, marginTop, left, marginTop+plotH)
	dc.Stroke()

	return savePNG(w, dc)
}

// BarFile renders a bar chart into a PNG file at path.
func BarFile(path string, counts []stats.CategoryCount, opts Options) error {
	return writeFile(path, func(w io.Writer) error {
		return Bar(w, counts, opts)
	})
}

func truncateLabel(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
