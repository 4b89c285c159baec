package analysis

import (
	"fmt"

	ee "github.com/nao1215/terrareport/internal/earthengine"
	"github.com/nao1215/terrareport/internal/model"
)

// Region statistics run coarser than the data to stay inside quotas.
const (
	StatsScale     = 200
	StatsMaxPixels = 1e9
)

// MinMax returns a reduction of img's per-band minimum and maximum over geom.
func MinMax(img ee.Image, geom ee.Geometry) ee.Dictionary {
	return img.ReduceRegion(ee.MinMax(), geom, StatsScale, StatsMaxPixels)
}

// ParseMinMax reads "<band>_min" and "<band>_max" from a reduction result.
// A null entry means the region had no unmasked pixels.
func ParseMinMax(band string, result map[string]*float64) (lo, hi float64, err error) {
	minV, okMin := result[band+"_min"]
	maxV, okMax := result[band+"_max"]
	if !okMin || !okMax || minV == nil || maxV == nil {
		return 0, 0, fmt.Errorf("%w: %s", ErrMissingBand, band)
	}
	return *minV, *maxV, nil
}

// NewRegionStats assembles a stats row.
func NewRegionStats(analysis string, year int, band string, lo, hi float64) model.RegionStats {
	return model.RegionStats{Analysis: analysis, Year: year, Band: band, Min: lo, Max: hi}
}
