package report

import "math"

// Rect is an axis-aligned rectangle in page units (centimeters).
// Y grows downward, matching the PDF drawing API.
type Rect struct {
	X, Y, W, H float64
}

// Right returns the X coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the Y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Contains reports whether o lies inside r, allowing eps for rounding.
func (r Rect) Contains(o Rect, eps float64) bool {
	return o.X >= r.X-eps && o.Y >= r.Y-eps && o.Right() <= r.Right()+eps && o.Bottom() <= r.Bottom()+eps
}

// Point is a position in page units.
type Point struct {
	X, Y float64
}

// Layout fixes the page geometry shared by every page of a report.
type Layout struct {
	PageW, PageH float64

	// Margin is inset uniformly from every page edge.
	Margin float64

	// TopClearance is reserved below the top margin for the caption line.
	TopClearance float64

	// LegendGutter is reserved at the right of the content rectangle so
	// the legend never overlaps the image.
	LegendGutter float64

	// LegendOffset is the distance from the right margin to the bar's left edge.
	LegendOffset float64

	// LegendWidth is the bar thickness.
	LegendWidth float64

	// CaptionBaseline is the caption baseline measured down from the top margin.
	CaptionBaseline float64

	CaptionFont     string
	CaptionFontSize float64
	LabelFontSize   float64
}

// DefaultLayout returns portrait A4 with a 1.5 cm margin.
func DefaultLayout() Layout {
	return Layout{
		PageW:           21.0,
		PageH:           29.7,
		Margin:          1.5,
		TopClearance:    2.0,
		LegendGutter:    2.0,
		LegendOffset:    1.2,
		LegendWidth:     0.5,
		CaptionBaseline: 1.2,
		CaptionFont:     "Helvetica",
		CaptionFontSize: 14,
		LabelFontSize:   8,
	}
}

// Content returns the usable content rectangle: the page minus the
// margin on every side and the caption clearance at the top.
func (l Layout) Content() Rect {
	top := l.Margin + l.TopClearance
	return Rect{
		X: l.Margin,
		Y: top,
		W: l.PageW - 2*l.Margin,
		H: l.PageH - top - l.Margin,
	}
}

// ImageArea is the part of the content rectangle images are fitted into.
func (l Layout) ImageArea() Rect {
	c := l.Content()
	c.W -= l.LegendGutter
	return c
}

// Legend returns the legend bar rectangle: half the content height,
// vertically centered, anchored LegendOffset left of the right margin.
func (l Layout) Legend() Rect {
	c := l.Content()
	h := c.H / 2
	return Rect{
		X: l.PageW - l.Margin - l.LegendOffset,
		Y: c.Y + (c.H-h)/2,
		W: l.LegendWidth,
		H: h,
	}
}

// Caption returns the caption baseline origin.
func (l Layout) Caption() Point {
	return Point{X: l.Margin, Y: l.Margin + l.CaptionBaseline}
}

// Fit scales an imgW x imgH image uniformly to the largest size that fits
// inside area and centers it. Images are never stretched.
func Fit(imgW, imgH float64, area Rect) Rect {
	if imgW <= 0 || imgH <= 0 || area.W <= 0 || area.H <= 0 {
		return Rect{X: area.X + area.W/2, Y: area.Y + area.H/2}
	}
	s := math.Min(area.W/imgW, area.H/imgH)
	w, h := imgW*s, imgH*s
	return Rect{
		X: area.X + (area.W-w)/2,
		Y: area.Y + (area.H-h)/2,
		W: w,
		H: h,
	}
}

// PagePlan holds the resolved placement of everything on one page.
type PagePlan struct {
	Image   Rect
	Legend  Rect
	Caption Point
}

// Plan places an imgW x imgH pixel image on a page.
func (l Layout) Plan(imgW, imgH int) PagePlan {
	return PagePlan{
		Image:   Fit(float64(imgW), float64(imgH), l.ImageArea()),
		Legend:  l.Legend(),
		Caption: l.Caption(),
	}
}
