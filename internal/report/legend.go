package report

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
)

// DefaultLegendSteps is the number of discrete color bands in the bar.
const DefaultLegendSteps = 200

// Legend configures the gradient bar drawn on every page.
type Legend struct {
	// Steps is the number of discrete bands; fewer than 2 means DefaultLegendSteps.
	Steps int

	// Min and Max label the bottom and top ends.
	Min, Max float64

	// Title is drawn rotated along the bar when set.
	Title string
}

// DefaultLegend returns the white to green NDVI legend labelled 0.00 to 1.00.
func DefaultLegend() Legend {
	return Legend{Steps: DefaultLegendSteps, Min: 0, Max: 1}
}

func (g Legend) steps() int {
	if g.Steps < 2 {
		return DefaultLegendSteps
	}
	return g.Steps
}

// StepFraction maps step i of n onto [0, 1].
func StepFraction(i, n int) float64 {
	if n < 2 {
		return 0
	}
	return float64(i) / float64(n-1)
}

// GradientColor returns the legend color at fraction f as RGB in [0, 1]:
// white to yellow over the lower half, yellow to green over the upper half.
func GradientColor(f float64) (r, g, b float64) {
	f = math.Max(0, math.Min(1, f))
	if f < 0.5 {
		return 1, 1, 1 - 2*f
	}
	return 2 * (1 - f), 1, 0
}

func to255(v float64) int {
	return int(math.Round(v * 255))
}

// Labels returns the bottom and top label text.
func (g Legend) Labels() (bottom, top string) {
	return fmt.Sprintf("%.2f", g.Min), fmt.Sprintf("%.2f", g.Max)
}

// draw paints the bar bottom-up (f = 0 at the bottom) and its labels.
func (g Legend) draw(pdf *fpdf.Fpdf, bar Rect, l Layout, tr func(string) string) {
	n := g.steps()
	h := bar.H / float64(n)
	for i := range n {
		r, gr, b := GradientColor(StepFraction(i, n))
		pdf.SetFillColor(to255(r), to255(gr), to255(b))
		pdf.Rect(bar.X, bar.Bottom()-float64(i+1)*h, bar.W, h, "F")
	}

	pdf.SetFont(l.CaptionFont, "", l.LabelFontSize)
	pdf.SetTextColor(0, 0, 0)
	bottom, top := g.Labels()
	labelX := bar.Right() + 0.15
	pdf.Text(labelX, bar.Bottom(), bottom)
	pdf.Text(labelX, bar.Y+0.25, top)

	if g.Title != "" {
		x, y := bar.X-0.2, bar.Bottom()
		pdf.TransformBegin()
		pdf.TransformRotate(90, x, y)
		pdf.Text(x, y, tr(g.Title))
		pdf.TransformEnd()
	}
}
