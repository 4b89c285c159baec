package earthengine

// Image is a handle on a single remote raster.
type Image struct{ n *node }

func (i Image) node() *node { return i.n }

// LoadImage references a stored image asset by id.
func LoadImage(id string) Image {
	return Image{invoke("Image.load", args{"id": id})}
}

// ConstantImage returns an image with the given value in every pixel.
func ConstantImage(v float64) Image {
	return Image{invoke("Image.constant", args{"value": v})}
}

// asImage promotes numbers to constant images so arithmetic accepts both.
func asImage(v any) Image {
	switch t := v.(type) {
	case Image:
		return t
	case float64:
		return ConstantImage(t)
	case int:
		return ConstantImage(float64(t))
	default:
		return Image{toNode(v)}
	}
}

func (i Image) binary(function string, other any) Image {
	return Image{invoke(function, args{"image1": i, "image2": asImage(other)})}
}

// Select keeps the named bands.
func (i Image) Select(bands ...string) Image {
	return Image{invoke("Image.select", args{"input": i, "bandSelectors": bands})}
}

// Rename renames the bands in order.
func (i Image) Rename(names ...string) Image {
	return Image{invoke("Image.rename", args{"input": i, "names": names})}
}

// Eq is a per-pixel equality test.
func (i Image) Eq(other any) Image { return i.binary("Image.eq", other) }

// Gte is a per-pixel greater-or-equal test.
func (i Image) Gte(other any) Image { return i.binary("Image.gte", other) }

// Lte is a per-pixel less-or-equal test.
func (i Image) Lte(other any) Image { return i.binary("Image.lte", other) }

// Lt is a per-pixel less-than test.
func (i Image) Lt(other any) Image { return i.binary("Image.lt", other) }

// Or is a per-pixel logical or.
func (i Image) Or(other any) Image { return i.binary("Image.or", other) }

// And is a per-pixel logical and.
func (i Image) And(other any) Image { return i.binary("Image.and", other) }

// BitwiseAnd is a per-pixel bitwise and.
func (i Image) BitwiseAnd(other any) Image { return i.binary("Image.bitwiseAnd", other) }

// Multiply multiplies by an image or a number.
func (i Image) Multiply(other any) Image { return i.binary("Image.multiply", other) }

// Add adds an image or a number.
func (i Image) Add(other any) Image { return i.binary("Image.add", other) }

// Subtract subtracts an image or a number.
func (i Image) Subtract(other any) Image { return i.binary("Image.subtract", other) }

// UpdateMask masks out pixels where mask is zero.
func (i Image) UpdateMask(mask Image) Image {
	return Image{invoke("Image.updateMask", args{"image": i, "mask": mask})}
}

// Unmask fills masked pixels from other.
func (i Image) Unmask(other Image) Image {
	return Image{invoke("Image.unmask", args{"input": i, "value": other})}
}

// Clip restricts the image to g.
func (i Image) Clip(g Geometry) Image {
	return Image{invoke("Image.clip", args{"input": i, "geometry": g})}
}

// NormalizedDifference computes (a-b)/(a+b).
func (i Image) NormalizedDifference(a, b string) Image {
	return Image{invoke("Image.normalizedDifference", args{"input": i, "bandNames": []string{a, b}})}
}

// AddBands appends the bands of src.
func (i Image) AddBands(src Image) Image {
	return Image{invoke("Image.addBands", args{"dstImg": i, "srcImg": src})}
}

// Resample sets the resampling mode, e.g. "bilinear".
func (i Image) Resample(mode string) Image {
	return Image{invoke("Image.resample", args{"image": i, "mode": mode})}
}

// Reproject forces the image into crs at the given nominal scale in meters.
func (i Image) Reproject(crs string, scale float64) Image {
	proj := invoke("Projection", args{"crs": crs})
	return Image{invoke("Image.reproject", args{"image": i, "crs": proj, "scale": scale})}
}

// ReduceRegion applies reducer over g.
func (i Image) ReduceRegion(reducer Reducer, g Geometry, scale, maxPixels float64) Dictionary {
	return Dictionary{invoke("Image.reduceRegion", args{
		"image":      i,
		"reducer":    reducer,
		"geometry":   g,
		"scale":      scale,
		"maxPixels":  maxPixels,
		"bestEffort": true,
	})}
}

// Visualize renders the first band to RGB using a color ramp.
func (i Image) Visualize(min, max float64, palette []string) Image {
	a := args{"image": i, "min": []float64{min}, "max": []float64{max}}
	if len(palette) > 0 {
		a["palette"] = palette
	}
	return Image{invoke("Image.visualize", a)}
}

// ClipToBoundsAndScale clips to g and sizes the output. Zero values are omitted.
func (i Image) ClipToBoundsAndScale(g Geometry, width, height int, scale float64) Image {
	a := args{"input": i, "geometry": g}
	if width > 0 {
		a["width"] = width
	}
	if height > 0 {
		a["height"] = height
	}
	if scale > 0 {
		a["scale"] = scale
	}
	return Image{invoke("Image.clipToBoundsAndScale", a)}
}

// ImageCollection is a handle on a remote stack of images.
type ImageCollection struct{ n *node }

func (c ImageCollection) node() *node { return c.n }

// LoadImageCollection references a stored collection by id.
func LoadImageCollection(id string) ImageCollection {
	return ImageCollection{invoke("ImageCollection.load", args{"id": id})}
}

// Filter keeps images matching f.
func (c ImageCollection) Filter(f Filter) ImageCollection {
	return ImageCollection{invoke("Collection.filter", args{"collection": c, "filter": f})}
}

// FilterDate keeps images whose start time falls in [start, end).
func (c ImageCollection) FilterDate(start, end string) ImageCollection {
	return c.Filter(DateFilter(start, end))
}

// FilterBounds keeps images intersecting g.
func (c ImageCollection) FilterBounds(g Geometry) ImageCollection {
	return c.Filter(BoundsFilter(g))
}

// mapVar is the lambda argument name used by Map.
const mapVar = "_MAPPING_VAR_0_0"

// Map applies fn to every image. Nested Map calls are not supported.
func (c ImageCollection) Map(fn func(Image) Image) ImageCollection {
	body := fn(Image{&node{kind: kindArgument, argRef: mapVar}})
	def := &node{kind: kindFunction, params: []string{mapVar}, body: body.n}
	return ImageCollection{invoke("Collection.map", args{"collection": c, "baseAlgorithm": def})}
}

// Select keeps the named bands of every image.
func (c ImageCollection) Select(bands ...string) ImageCollection {
	return c.Map(func(i Image) Image { return i.Select(bands...) })
}

// Median reduces the collection per pixel.
func (c ImageCollection) Median() Image {
	return Image{invoke("reduce.median", args{"collection": c})}
}

// Mean reduces the collection per pixel.
func (c ImageCollection) Mean() Image {
	return Image{invoke("reduce.mean", args{"collection": c})}
}

// First returns the first image of the collection.
func (c ImageCollection) First() Image {
	return Image{invoke("Collection.first", args{"collection": c})}
}
