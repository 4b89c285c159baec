package analysis

import (
	"fmt"

	ee "github.com/nao1215/terrareport/internal/earthengine"
	"github.com/nao1215/terrareport/internal/model"
)

// LandCoverMask returns a 0/1 image selecting class in the given
// land-cover product. ok is false for model.MaskNone.
func LandCoverMask(lc model.LandCover, class model.MaskClass) (mask ee.Image, ok bool, err error) {
	if class == model.MaskNone || class == "" {
		return ee.Image{}, false, nil
	}

	var forest, cropland ee.Image
	switch lc {
	case model.LandCoverCORINE, "":
		img := ee.LoadImage(corineImage).Select(corineBand)
		forest = img.Eq(corineBroadLeaved).Or(img.Eq(corineConiferous)).Or(img.Eq(corineMixedForest))
		cropland = img.Gte(corineAgricultureMin).And(img.Lt(corineAgricultureMax))
	case model.LandCoverCGLS:
		img := ee.LoadImageCollection(cglsCollection).First().Select(cglsBand)
		forest = img.Eq(cglsBroadLeaved).Or(img.Eq(cglsConiferous))
		cropland = img.Eq(cglsCropland)
	default:
		return ee.Image{}, false, fmt.Errorf("%w: %q", model.ErrUnknownLandCover, lc)
	}

	switch class {
	case model.MaskForest:
		return forest, true, nil
	case model.MaskCropland:
		return cropland, true, nil
	case model.MaskForestCropland:
		return forest.Or(cropland), true, nil
	default:
		return ee.Image{}, false, fmt.Errorf("%w: %q", model.ErrUnknownMaskClass, class)
	}
}
