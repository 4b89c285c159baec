package model

import (
	"fmt"
	"strings"
)

// Thumbnail formats accepted by VisParams.
const (
	FormatPNG = "png"
	FormatJPG = "jpg"
)

// VisParams describes how a single-band raster is rendered into a thumbnail.
// Min and Max are mapped onto the first and last palette entries.
type VisParams struct {
	Min     float64  `yaml:"min" json:"min"`
	Max     float64  `yaml:"max" json:"max"`
	Palette []string `yaml:"palette" json:"palette"`

	// Scale is the nominal pixel size in meters. Zero lets Width/Height decide.
	Scale float64 `yaml:"scale,omitempty" json:"scale,omitempty"`

	// CRS is the output projection code, e.g. "EPSG:3035".
	CRS string `yaml:"crs,omitempty" json:"crs,omitempty"`

	// Width is the thumbnail width in pixels. Height is derived from the region
	// aspect ratio when left at zero.
	Width  int `yaml:"width,omitempty" json:"width,omitempty"`
	Height int `yaml:"height,omitempty" json:"height,omitempty"`

	Format      string `yaml:"format,omitempty" json:"format,omitempty"`
	Transparent bool   `yaml:"transparent,omitempty" json:"transparent,omitempty"`
}

// DefaultThumbnailWidth is the width used when VisParams.Width is zero.
const DefaultThumbnailWidth = 800

// Preset visualizations used by the bundled analyses.
var (
	NDVIVis = VisParams{
		Min: 0, Max: 1,
		Palette: []string{"white", "yellow", "green"},
		Scale:   290, CRS: "EPSG:3035", Width: DefaultThumbnailWidth,
		Format: FormatPNG, Transparent: true,
	}

	NDVIChangeVis = VisParams{
		Min: -0.3, Max: 0.3,
		Palette: []string{"red", "white", "green"},
		CRS:     "EPSG:3035", Width: DefaultThumbnailWidth,
		Format: FormatPNG,
	}

	LSTVis = VisParams{
		Min: 0, Max: 40,
		Palette: []string{"#040274", "#0909F9", "#27E2E2", "#7FE641", "#FFE100", "#FF6A00", "#9B0000"},
		Scale:   290, CRS: "EPSG:3035", Width: DefaultThumbnailWidth,
		Format: FormatPNG,
	}
)

// PresetVis returns the bundled visualization for a product.
func PresetVis(p Product) VisParams {
	var v VisParams
	switch p {
	case ProductNDVIChange:
		v = NDVIChangeVis
	case ProductLST:
		v = LSTVis
	default:
		v = NDVIVis
	}
	v.Palette = append([]string(nil), v.Palette...)
	return v
}

// WithDefaults fills zero fields from base and returns the result.
// Transparent is never inherited.
func (v VisParams) WithDefaults(base VisParams) VisParams {
	if v.Min == 0 && v.Max == 0 {
		v.Min, v.Max = base.Min, base.Max
	}
	if len(v.Palette) == 0 {
		v.Palette = append([]string(nil), base.Palette...)
	}
	if v.Scale == 0 {
		v.Scale = base.Scale
	}
	if v.CRS == "" {
		v.CRS = base.CRS
	}
	if v.Width == 0 {
		v.Width = base.Width
	}
	if v.Format == "" {
		v.Format = base.Format
	}
	return v
}

// Validate checks the visualization parameters.
func (v VisParams) Validate() error {
	if v.Min >= v.Max {
		return ErrInvalidRange
	}
	if len(v.Palette) < 2 {
		return ErrPaletteTooShort
	}
	if _, err := v.PaletteHex(); err != nil {
		return err
	}
	if v.Scale < 0 {
		return ErrInvalidScale
	}
	if v.Width < 0 || v.Height < 0 {
		return ErrInvalidDimensions
	}
	switch strings.ToLower(v.Format) {
	case "", FormatPNG, FormatJPG:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, v.Format)
	}
	return nil
}

// cssColors maps the CSS color names used in palettes to RRGGBB.
var cssColors = map[string]string{
	"black":  "000000",
	"white":  "ffffff",
	"red":    "ff0000",
	"green":  "008000",
	"lime":   "00ff00",
	"blue":   "0000ff",
	"yellow": "ffff00",
	"orange": "ffa500",
	"purple": "800080",
	"brown":  "a52a2a",
	"gray":   "808080",
	"grey":   "808080",
	"cyan":   "00ffff",
	"navy":   "000080",
	"maroon": "800000",
}

// PaletteHex returns the palette as lower-case RRGGBB strings.
func (v VisParams) PaletteHex() ([]string, error) {
	out := make([]string, len(v.Palette))
	for i, c := range v.Palette {
		hex, err := colorHex(c)
		if err != nil {
			return nil, err
		}
		out[i] = hex
	}
	return out, nil
}

func colorHex(c string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(c))
	if hex, ok := cssColors[s]; ok {
		return hex, nil
	}
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return "", fmt.Errorf("%w: %q", ErrUnknownColor, c)
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return "", fmt.Errorf("%w: %q", ErrUnknownColor, c)
		}
	}
	return s, nil
}
