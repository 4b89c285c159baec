package model

import (
	"fmt"
	"strings"
)

// Product identifies which derived raster an analysis produces.
type Product string

const (
	// ProductNDVI is a per-year NDVI composite.
	ProductNDVI Product = "ndvi"

	// ProductNDVIChange is the difference between the last and first year NDVI composites.
	ProductNDVIChange Product = "ndvi-change"

	// ProductLST is a land-surface-temperature composite in degrees Celsius.
	ProductLST Product = "lst"
)

// Products lists every supported product in display order.
var Products = []Product{ProductNDVI, ProductNDVIChange, ProductLST}

// Label returns the short upper-case label used in captions and legends.
func (p Product) Label() string {
	switch p {
	case ProductNDVI:
		return "NDVI"
	case ProductNDVIChange:
		return "NDVI Change"
	case ProductLST:
		return "LST"
	default:
		return strings.ToUpper(string(p))
	}
}

// Source identifies the satellite collection a product is computed from.
type Source string

const (
	// SourceMODIS selects MODIS Terra products (MOD13Q1 for NDVI, MOD11A1 for LST).
	SourceMODIS Source = "modis"

	// SourceSentinel2 selects the harmonized Sentinel-2 surface reflectance collection.
	SourceSentinel2 Source = "sentinel2"

	// SourceLandsat selects Landsat 9 collection 2 level 2.
	SourceLandsat Source = "landsat"
)

// MaskClass selects which land-cover classes remain visible after masking.
type MaskClass string

const (
	// MaskNone keeps every pixel.
	MaskNone MaskClass = "none"

	// MaskForest keeps forest pixels only.
	MaskForest MaskClass = "forest"

	// MaskCropland keeps agricultural pixels only.
	MaskCropland MaskClass = "cropland"

	// MaskForestCropland keeps forest or agricultural pixels.
	MaskForestCropland MaskClass = "forest+cropland"
)

// LandCover identifies the classification dataset masks are derived from.
type LandCover string

const (
	// LandCoverCORINE is CORINE Land Cover 2018 at 100 m (Europe only).
	LandCoverCORINE LandCover = "corine"

	// LandCoverCGLS is the Copernicus Global Land Service land cover at 100 m.
	LandCoverCGLS LandCover = "cgls"
)

// BoundarySource identifies the country boundary table used to resolve a region.
type BoundarySource string

const (
	// BoundaryGeoBoundaries is the geoBoundaries ADM0 table keyed by shapeName.
	BoundaryGeoBoundaries BoundarySource = "geoboundaries"

	// BoundaryLSIB is the simplified US Department of State LSIB 2017 table keyed by country_na.
	BoundaryLSIB BoundarySource = "lsib"

	// BoundaryGAUL is the FAO GAUL 2015 level 0 table keyed by ADM0_NAME.
	BoundaryGAUL BoundarySource = "gaul"
)

// ParseProduct converts a configuration string into a Product.
func ParseProduct(s string) (Product, error) {
	switch p := Product(strings.ToLower(strings.TrimSpace(s))); p {
	case ProductNDVI, ProductNDVIChange, ProductLST:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProduct, s)
}

// ParseSource converts a configuration string into a Source.
func ParseSource(s string) (Source, error) {
	switch v := Source(strings.ToLower(strings.TrimSpace(s))); v {
	case SourceMODIS, SourceSentinel2, SourceLandsat:
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSource, s)
}

// ParseMaskClass converts a configuration string into a MaskClass.
// An empty string selects MaskNone.
func ParseMaskClass(s string) (MaskClass, error) {
	v := MaskClass(strings.ToLower(strings.TrimSpace(s)))
	switch v {
	case "":
		return MaskNone, nil
	case MaskNone, MaskForest, MaskCropland, MaskForestCropland:
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMaskClass, s)
}

// ParseLandCover converts a configuration string into a LandCover.
// An empty string selects CORINE.
func ParseLandCover(s string) (LandCover, error) {
	v := LandCover(strings.ToLower(strings.TrimSpace(s)))
	switch v {
	case "":
		return LandCoverCORINE, nil
	case LandCoverCORINE, LandCoverCGLS:
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLandCover, s)
}

// ParseBoundarySource converts a configuration string into a BoundarySource.
// An empty string selects LSIB.
func ParseBoundarySource(s string) (BoundarySource, error) {
	v := BoundarySource(strings.ToLower(strings.TrimSpace(s)))
	switch v {
	case "":
		return BoundaryLSIB, nil
	case BoundaryGeoBoundaries, BoundaryLSIB, BoundaryGAUL:
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBoundarySource, s)
}
