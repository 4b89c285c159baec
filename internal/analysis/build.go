package analysis

import (
	"fmt"

	ee "github.com/nao1215/terrareport/internal/earthengine"
	"github.com/nao1215/terrareport/internal/model"
)

// Params selects one output raster.
type Params struct {
	Region    model.Region
	Product   model.Product
	Source    model.Source
	Mask      model.MaskClass
	LandCover model.LandCover

	// Years holds a single year for ndvi and lst, or the span for
	// ndvi-change of which the first and last entries are compared.
	Years []int

	Window model.DateWindow

	// Calibration applies to lst. The zero value means DefaultLSTCalibration.
	Calibration LSTCalibration

	// CloudMax drops optical scenes above this cloud percentage. Zero means DefaultCloudMax.
	CloudMax float64
}

func (p Params) cloudMax() float64 {
	if p.CloudMax <= 0 {
		return DefaultCloudMax
	}
	return p.CloudMax
}

func (p Params) calibration() LSTCalibration {
	if p.Calibration.isZero() {
		return DefaultLSTCalibration()
	}
	return p.Calibration
}

func (p Params) validate() error {
	switch p.Product {
	case model.ProductNDVI, model.ProductLST:
		if len(p.Years) != 1 {
			return fmt.Errorf("%w: %s needs 1, got %d", ErrYearCount, p.Product, len(p.Years))
		}
	case model.ProductNDVIChange:
		if len(p.Years) < 2 {
			return fmt.Errorf("%w: %s needs at least 2, got %d", ErrYearCount, p.Product, len(p.Years))
		}
	default:
		return fmt.Errorf("%w: %q", model.ErrUnknownProduct, p.Product)
	}
	return p.Window.Validate()
}

// BandName returns the name of the single band Build produces.
func BandName(p Params) string {
	switch p.Product {
	case model.ProductNDVIChange:
		return "NDVI_Change"
	case model.ProductLST:
		return "LST_Celsius"
	default:
		if len(p.Years) == 0 {
			return "NDVI"
		}
		return fmt.Sprintf("NDVI_%d", p.Years[0])
	}
}

// Build returns the masked, clipped single-band raster described by p.
// Nothing is evaluated; the result is an expression for the client.
func Build(p Params) (ee.Image, error) {
	if err := p.validate(); err != nil {
		return ee.Image{}, err
	}
	geom, err := Boundary(p.Region)
	if err != nil {
		return ee.Image{}, err
	}
	mask, masked, err := LandCoverMask(p.LandCover, p.Mask)
	if err != nil {
		return ee.Image{}, err
	}

	finish := func(img ee.Image) ee.Image {
		img = img.Clip(geom)
		if masked {
			img = img.UpdateMask(mask)
		}
		return img
	}

	switch p.Product {
	case model.ProductNDVI:
		raw, err := ndvi(p, p.Years[0], geom)
		if err != nil {
			return ee.Image{}, err
		}
		return finish(raw).Rename(BandName(p)), nil

	case model.ProductNDVIChange:
		first, last := p.Years[0], p.Years[len(p.Years)-1]
		before, err := ndvi(p, first, geom)
		if err != nil {
			return ee.Image{}, err
		}
		after, err := ndvi(p, last, geom)
		if err != nil {
			return ee.Image{}, err
		}
		before = finish(before).Rename(fmt.Sprintf("NDVI_%d", first))
		after = finish(after).Rename(fmt.Sprintf("NDVI_%d", last))
		return after.Subtract(before).Rename(BandName(p)), nil

	default:
		if p.Source != model.SourceLandsat && p.Source != "" {
			return ee.Image{}, fmt.Errorf("%w: %s for %s", ErrUnsupportedSource, p.Source, p.Product)
		}
		return finish(lst(p, p.Years[0], geom)).Rename(BandName(p)), nil
	}
}

// ndvi returns the unclipped, unmasked NDVI median for one year.
func ndvi(p Params, year int, geom ee.Geometry) (ee.Image, error) {
	start, end := p.Window.Range(year).Format()
	switch p.Source {
	case model.SourceMODIS, "":
		return ee.LoadImageCollection(modisNDVICollection).
			FilterDate(start, end).
			FilterBounds(geom).
			Select(modisNDVIBand).
			Map(func(img ee.Image) ee.Image { return img.Multiply(modisNDVIScale) }).
			Median(), nil
	case model.SourceSentinel2:
		return ee.LoadImageCollection(sentinel2Collection).
			FilterDate(start, end).
			FilterBounds(geom).
			Filter(ee.LessThan(sentinel2CloudField, p.cloudMax())).
			Map(func(img ee.Image) ee.Image { return img.NormalizedDifference(sentinel2NIR, sentinel2Red) }).
			Median(), nil
	default:
		return ee.Image{}, fmt.Errorf("%w: %s cannot produce %s", ErrUnsupportedSource, p.Source, p.Product)
	}
}
