package analysis

import (
	ee "github.com/nao1215/terrareport/internal/earthengine"
)

// lst returns the gap-filled land surface temperature in Celsius.
//
// Landsat 9 scenes are masked to the calibration window and to pixels
// without the QA cloud bit, then composited as median with mean filling
// the median's holes. Remaining holes take MODIS daily LST resampled onto
// the Landsat grid.
func lst(p Params, year int, geom ee.Geometry) ee.Image {
	start, end := p.Window.Range(year).Format()
	cal := p.calibration()
	lo, hi := cal.DNBounds()

	celsius := ee.LoadImageCollection(landsatCollection).
		FilterDate(start, end).
		FilterBounds(geom).
		Filter(ee.LessThan(landsatCloudField, p.cloudMax())).
		Map(func(img ee.Image) ee.Image {
			dn := img.Select(landsatThermal)
			inWindow := dn.Gte(lo).And(dn.Lte(hi))
			cloudFree := img.Select(landsatQA).BitwiseAnd(1 << 3).Eq(0)
			return dn.Multiply(cal.Scale).
				Add(cal.Offset).
				Subtract(zeroCelsius).
				UpdateMask(inWindow.And(cloudFree)).
				Rename("LST_Celsius")
		})
	composite := celsius.Median().Unmask(celsius.Mean())

	fallback := ee.LoadImageCollection(modisLSTCollection).
		FilterDate(start, end).
		FilterBounds(geom).
		Map(func(img ee.Image) ee.Image {
			good := img.Select(modisLSTQC).BitwiseAnd(3).Lte(1)
			return img.Select(modisLSTBand).
				Multiply(modisLSTScale).
				Subtract(zeroCelsius).
				UpdateMask(good).
				Rename("LST_Celsius_MODIS")
		}).
		Median().
		Resample("bilinear").
		Reproject(gapFillCRS, gapFillScale)

	return composite.Unmask(fallback)
}
