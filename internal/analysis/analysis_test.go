package analysis

import (
	"errors"
	"math"
	"slices"
	"testing"

	ee "github.com/nao1215/terrareport/internal/earthengine"
	"github.com/nao1215/terrareport/internal/model"
)

func functions(t *testing.T, v ee.Valuer) []string {
	t.Helper()
	expr, err := ee.Encode(v)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	return expr.Functions()
}

func containsAll(t *testing.T, got []string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !slices.Contains(got, w) {
			t.Errorf("expression lacks %s; has %v", w, got)
		}
	}
}

func germany(product model.Product, years ...int) Params {
	return Params{
		Region:    model.Region{Name: "Germany", Boundaries: model.BoundaryLSIB},
		Product:   product,
		Source:    model.SourceMODIS,
		Mask:      model.MaskForestCropland,
		LandCover: model.LandCoverCORINE,
		Years:     years,
		Window:    model.SeptemberWindow,
	}
}

func TestLSTCalibration(t *testing.T) {
	t.Parallel()

	lo, hi := DefaultLSTCalibration().DNBounds()
	if math.Abs(lo-35400.6) > 0.5 || math.Abs(hi-52954.6) > 0.5 {
		t.Errorf("DNBounds() = %v, %v", lo, hi)
	}
}

func TestLandCoverMask(t *testing.T) {
	t.Parallel()

	t.Run("none yields no mask", func(t *testing.T) {
		t.Parallel()
		_, ok, err := LandCoverMask(model.LandCoverCORINE, model.MaskNone)
		if err != nil || ok {
			t.Errorf("ok = %v, err = %v", ok, err)
		}
	})

	t.Run("corine forest and cropland", func(t *testing.T) {
		t.Parallel()
		mask, ok, err := LandCoverMask(model.LandCoverCORINE, model.MaskForestCropland)
		if err != nil || !ok {
			t.Fatalf("ok = %v, err = %v", ok, err)
		}
		got := functions(t, mask)
		containsAll(t, got, "Image.load", "Image.eq", "Image.gte", "Image.lt", "Image.and", "Image.or")
	})

	t.Run("cgls uses the first image", func(t *testing.T) {
		t.Parallel()
		mask, ok, err := LandCoverMask(model.LandCoverCGLS, model.MaskForest)
		if err != nil || !ok {
			t.Fatalf("ok = %v, err = %v", ok, err)
		}
		got := functions(t, mask)
		containsAll(t, got, "ImageCollection.load", "Collection.first", "Image.eq", "Image.or")
		if slices.Contains(got, "Image.gte") {
			t.Error("cgls forest mask must not use a range test")
		}
	})

	t.Run("unknown land cover", func(t *testing.T) {
		t.Parallel()
		if _, _, err := LandCoverMask("glc", model.MaskForest); !errors.Is(err, model.ErrUnknownLandCover) {
			t.Errorf("err = %v", err)
		}
	})
}

func TestBoundary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		source model.BoundarySource
		want   []string
	}{
		{model.BoundaryGeoBoundaries, []string{"Collection.loadTable", "Filter.equals", "Collection.filter", "Collection.first", "Feature.geometry"}},
		{model.BoundaryLSIB, []string{"Collection.loadTable", "Filter.equals", "Collection.filter", "Collection.geometry"}},
		{model.BoundaryGAUL, []string{"Collection.loadTable", "Filter.equals", "Collection.filter", "Collection.geometry"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.source), func(t *testing.T) {
			t.Parallel()
			g, err := Boundary(model.Region{Name: "Germany", Boundaries: tt.source})
			if err != nil {
				t.Fatal(err)
			}
			if got := functions(t, g); !slices.Equal(got, tt.want) {
				t.Errorf("functions = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := Boundary(model.Region{Name: " "}); !errors.Is(err, ErrNoRegion) {
		t.Errorf("empty region err = %v", err)
	}
	if _, err := Boundary(model.Region{Name: "X", Boundaries: "osm"}); !errors.Is(err, model.ErrUnknownBoundarySource) {
		t.Errorf("unknown source err = %v", err)
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	t.Run("modis ndvi", func(t *testing.T) {
		t.Parallel()
		img, err := Build(germany(model.ProductNDVI, 2018))
		if err != nil {
			t.Fatal(err)
		}
		got := functions(t, img)
		containsAll(t, got, "ImageCollection.load", "Filter.dateRangeContains", "Filter.intersects",
			"Collection.map", "Image.multiply", "reduce.median", "Image.clip", "Image.updateMask", "Image.rename")
		if got[len(got)-1] != "Image.rename" {
			t.Errorf("root = %s, want Image.rename", got[len(got)-1])
		}
	})

	t.Run("sentinel2 ndvi filters clouds", func(t *testing.T) {
		t.Parallel()
		p := germany(model.ProductNDVI, 2020)
		p.Source = model.SourceSentinel2
		p.LandCover = model.LandCoverCGLS
		img, err := Build(p)
		if err != nil {
			t.Fatal(err)
		}
		containsAll(t, functions(t, img), "Filter.lessThan", "Image.normalizedDifference", "reduce.median")
	})

	t.Run("unmasked ndvi skips updateMask", func(t *testing.T) {
		t.Parallel()
		p := germany(model.ProductNDVI, 2018)
		p.Mask = model.MaskNone
		img, err := Build(p)
		if err != nil {
			t.Fatal(err)
		}
		if slices.Contains(functions(t, img), "Image.updateMask") {
			t.Error("unexpected Image.updateMask")
		}
	})

	t.Run("ndvi change subtracts first from last", func(t *testing.T) {
		t.Parallel()
		img, err := Build(germany(model.ProductNDVIChange, 2018, 2020, 2024))
		if err != nil {
			t.Fatal(err)
		}
		got := functions(t, img)
		containsAll(t, got, "Image.subtract")
		if n := countOf(got, "reduce.median"); n != 2 {
			t.Errorf("reduce.median count = %d, want 2", n)
		}
	})

	t.Run("lst gap fills from modis", func(t *testing.T) {
		t.Parallel()
		p := germany(model.ProductLST, 2023)
		p.Source = model.SourceLandsat
		p.Mask = model.MaskNone
		img, err := Build(p)
		if err != nil {
			t.Fatal(err)
		}
		got := functions(t, img)
		containsAll(t, got, "Image.bitwiseAnd", "reduce.median", "reduce.mean", "Image.unmask",
			"Image.resample", "Projection", "Image.reproject", "Image.clip")
		if n := countOf(got, "Image.unmask"); n != 2 {
			t.Errorf("Image.unmask count = %d, want 2", n)
		}
	})

	errTests := []struct {
		name    string
		params  func() Params
		wantErr error
	}{
		{"ndvi with two years", func() Params { return germany(model.ProductNDVI, 2018, 2019) }, ErrYearCount},
		{"change with one year", func() Params { return germany(model.ProductNDVIChange, 2018) }, ErrYearCount},
		{"unknown product", func() Params { return germany("evi", 2018) }, model.ErrUnknownProduct},
		{"landsat ndvi", func() Params {
			p := germany(model.ProductNDVI, 2018)
			p.Source = model.SourceLandsat
			return p
		}, ErrUnsupportedSource},
		{"modis lst", func() Params { return germany(model.ProductLST, 2018) }, ErrUnsupportedSource},
		{"inverted window", func() Params {
			p := germany(model.ProductNDVI, 2018)
			p.Window = model.DateWindow{Start: model.SeptemberWindow.End, End: model.SeptemberWindow.Start}
			return p
		}, model.ErrInvalidWindow},
	}
	for _, tt := range errTests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := Build(tt.params()); !errors.Is(err, tt.wantErr) {
				t.Errorf("Build() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func countOf(names []string, name string) int {
	n := 0
	for _, v := range names {
		if v == name {
			n++
		}
	}
	return n
}

func TestBandName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		params Params
		want   string
	}{
		{germany(model.ProductNDVI, 2019), "NDVI_2019"},
		{germany(model.ProductNDVIChange, 2018, 2024), "NDVI_Change"},
		{germany(model.ProductLST, 2023), "LST_Celsius"},
	}
	for _, tt := range tests {
		if got := BandName(tt.params); got != tt.want {
			t.Errorf("BandName(%s) = %q, want %q", tt.params.Product, got, tt.want)
		}
	}
}

func TestCaption(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		tmpl string
		p    Params
		key  string
		want string
	}{
		{"default template", "{region} {month} {year} {product}", germany(model.ProductNDVI, 2018), "2018", "Germany September 2018 NDVI"},
		{"change span", "{region} {year} {product}", germany(model.ProductNDVIChange, 2018, 2024), "2018_2024", "Germany 2018-2024 NDVI Change"},
		{"lower case region is title cased", "{region}", Params{Region: model.Region{Name: "ukraine"}, Window: model.SeptemberWindow}, "", "Ukraine"},
		{"mixed case region is kept", "{region}", Params{Region: model.Region{Name: "Bosnia and Herzegovina"}, Window: model.SeptemberWindow}, "", "Bosnia and Herzegovina"},
		{"blank placeholders collapse", "{region}  {month}", Params{Region: model.Region{Name: "Germany"}}, "", "Germany"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Caption(tt.tmpl, tt.p, tt.key); got != tt.want {
				t.Errorf("Caption() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseMinMax(t *testing.T) {
	t.Parallel()

	lo, hi := -0.25, 0.31
	got1, got2, err := ParseMinMax("NDVI_Change", map[string]*float64{"NDVI_Change_min": &lo, "NDVI_Change_max": &hi})
	if err != nil || got1 != lo || got2 != hi {
		t.Errorf("ParseMinMax() = %v, %v, %v", got1, got2, err)
	}

	if _, _, err := ParseMinMax("NDVI_2018", map[string]*float64{"NDVI_2018_min": nil, "NDVI_2018_max": &hi}); !errors.Is(err, ErrMissingBand) {
		t.Errorf("null min err = %v", err)
	}
	if _, _, err := ParseMinMax("LST_Celsius", map[string]*float64{}); !errors.Is(err, ErrMissingBand) {
		t.Errorf("missing band err = %v", err)
	}
}
