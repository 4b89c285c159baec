package earthengine

import "github.com/paulmach/orb"

// Geometry is a handle on a remote geometry.
type Geometry struct{ n *node }

func (g Geometry) node() *node { return g.n }

// Polygon builds a remote polygon from an orb polygon. Rings are
// passed through unchanged in lon/lat order.
func Polygon(p orb.Polygon) Geometry {
	rings := make([][][]float64, len(p))
	for i, ring := range p {
		rings[i] = make([][]float64, len(ring))
		for j, pt := range ring {
			rings[i][j] = []float64{pt.Lon(), pt.Lat()}
		}
	}
	return Geometry{invoke("GeometryConstructors.Polygon", args{"coordinates": rings, "evenOdd": true})}
}

// Rectangle builds a remote rectangle from a bound.
func Rectangle(b orb.Bound) Geometry {
	return Geometry{invoke("GeometryConstructors.Rectangle", args{
		"coordinates": []float64{b.Min.Lon(), b.Min.Lat(), b.Max.Lon(), b.Max.Lat()},
	})}
}

// Bounds returns the bounding box of g.
func (g Geometry) Bounds() Geometry {
	return Geometry{invoke("Geometry.bounds", args{"geometry": g})}
}

// Filter is a handle on a remote collection filter.
type Filter struct{ n *node }

func (f Filter) node() *node { return f.n }

// DateFilter matches items whose system:time_start falls in [start, end).
// Dates use the YYYY-MM-DD layout.
func DateFilter(start, end string) Filter {
	r := invoke("DateRange", args{
		"start": invoke("Date", args{"value": start}),
		"end":   invoke("Date", args{"value": end}),
	})
	return Filter{invoke("Filter.dateRangeContains", args{"leftValue": r, "rightField": "system:time_start"})}
}

// BoundsFilter matches items whose footprint intersects g.
func BoundsFilter(g Geometry) Filter {
	return Filter{invoke("Filter.intersects", args{"leftField": ".all", "rightValue": g})}
}

// LessThan matches items whose property is below v.
func LessThan(property string, v any) Filter {
	return Filter{invoke("Filter.lessThan", args{"leftField": property, "rightValue": v})}
}

// Equals matches items whose property equals v.
func Equals(property string, v any) Filter {
	return Filter{invoke("Filter.equals", args{"leftField": property, "rightValue": v})}
}

// FeatureCollection is a handle on a remote vector table.
type FeatureCollection struct{ n *node }

func (c FeatureCollection) node() *node { return c.n }

// LoadTable references a stored table by id.
func LoadTable(id string) FeatureCollection {
	return FeatureCollection{invoke("Collection.loadTable", args{"tableId": id})}
}

// Filter keeps features matching f.
func (c FeatureCollection) Filter(f Filter) FeatureCollection {
	return FeatureCollection{invoke("Collection.filter", args{"collection": c, "filter": f})}
}

// Geometry unions the geometries of every feature.
func (c FeatureCollection) Geometry() Geometry {
	return Geometry{invoke("Collection.geometry", args{"collection": c})}
}

// First returns the geometry of the first feature.
func (c FeatureCollection) First() Geometry {
	f := invoke("Collection.first", args{"collection": c})
	return Geometry{invoke("Feature.geometry", args{"feature": f})}
}

// Reducer is a handle on a remote aggregation.
type Reducer struct{ n *node }

func (r Reducer) node() *node { return r.n }

// MinMax reduces to the minimum and maximum of each band.
func MinMax() Reducer {
	return Reducer{invoke("Reducer.minMax", nil)}
}

// Dictionary is a handle on a remote key/value result.
type Dictionary struct{ n *node }

func (d Dictionary) node() *node { return d.n }
