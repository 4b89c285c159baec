package model

import (
	"errors"
	"testing"
	"time"
)

func TestParseProduct(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    string
		expected Product
		wantErr  bool
	}{
		{"ndvi", ProductNDVI, false},
		{" NDVI ", ProductNDVI, false},
		{"ndvi-change", ProductNDVIChange, false},
		{"lst", ProductLST, false},
		{"evi", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParseProduct(tc.input)
			if tc.wantErr {
				if !errors.Is(err, ErrUnknownProduct) {
					t.Fatalf("expected ErrUnknownProduct, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("got %q, expected %q", got, tc.expected)
			}
		})
	}
}

func TestProductLabel(t *testing.T) {
	t.Parallel()

	if ProductNDVI.Label() != "NDVI" {
		t.Errorf("got %q", ProductNDVI.Label())
	}
	if ProductLST.Label() != "LST" {
		t.Errorf("got %q", ProductLST.Label())
	}
	if Product("evi").Label() != "EVI" {
		t.Errorf("got %q", Product("evi").Label())
	}
}

func TestParseDefaults(t *testing.T) {
	t.Parallel()

	t.Run("empty mask is none", func(t *testing.T) {
		t.Parallel()
		m, err := ParseMaskClass("")
		if err != nil || m != MaskNone {
			t.Errorf("got %q, %v", m, err)
		}
	})

	t.Run("empty land cover is corine", func(t *testing.T) {
		t.Parallel()
		lc, err := ParseLandCover("")
		if err != nil || lc != LandCoverCORINE {
			t.Errorf("got %q, %v", lc, err)
		}
	})

	t.Run("empty boundary source is lsib", func(t *testing.T) {
		t.Parallel()
		b, err := ParseBoundarySource("")
		if err != nil || b != BoundaryLSIB {
			t.Errorf("got %q, %v", b, err)
		}
	})

	t.Run("unknown values are rejected", func(t *testing.T) {
		t.Parallel()
		if _, err := ParseMaskClass("urban"); !errors.Is(err, ErrUnknownMaskClass) {
			t.Errorf("expected ErrUnknownMaskClass, got %v", err)
		}
		if _, err := ParseLandCover("esa"); !errors.Is(err, ErrUnknownLandCover) {
			t.Errorf("expected ErrUnknownLandCover, got %v", err)
		}
		if _, err := ParseSource("viirs"); !errors.Is(err, ErrUnknownSource) {
			t.Errorf("expected ErrUnknownSource, got %v", err)
		}
		if _, err := ParseBoundarySource("osm"); !errors.Is(err, ErrUnknownBoundarySource) {
			t.Errorf("expected ErrUnknownBoundarySource, got %v", err)
		}
	})
}

func TestDateWindow(t *testing.T) {
	t.Parallel()

	t.Run("september window expands per year", func(t *testing.T) {
		t.Parallel()
		start, end := SeptemberWindow.Range(2018).Format()
		if start != "2018-09-01" || end != "2018-09-30" {
			t.Errorf("got %s..%s", start, end)
		}
		if SeptemberWindow.MonthName() != "September" {
			t.Errorf("got %q", SeptemberWindow.MonthName())
		}
	})

	t.Run("parse month day", func(t *testing.T) {
		t.Parallel()
		md, err := ParseMonthDay("06-01")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if md.Month != time.June || md.Day != 1 {
			t.Errorf("got %v", md)
		}
		if md.String() != "06-01" {
			t.Errorf("got %q", md.String())
		}
	})

	t.Run("invalid month day", func(t *testing.T) {
		t.Parallel()
		if _, err := ParseMonthDay("13-40"); !errors.Is(err, ErrInvalidMonthDay) {
			t.Errorf("expected ErrInvalidMonthDay, got %v", err)
		}
	})

	t.Run("reversed window is invalid", func(t *testing.T) {
		t.Parallel()
		w := DateWindow{Start: MonthDay{time.October, 1}, End: MonthDay{time.May, 1}}
		if !errors.Is(w.Validate(), ErrInvalidWindow) {
			t.Error("expected ErrInvalidWindow")
		}
		if err := SeptemberWindow.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestVisParamsValidate(t *testing.T) {
	t.Parallel()

	valid := func() VisParams { return PresetVis(ProductNDVI) }

	t.Run("presets are valid", func(t *testing.T) {
		t.Parallel()
		for _, p := range Products {
			if err := PresetVis(p).Validate(); err != nil {
				t.Errorf("%s: unexpected error: %v", p, err)
			}
		}
	})

	testCases := []struct {
		name    string
		mutate  func(*VisParams)
		wantErr error
	}{
		{"min equals max", func(v *VisParams) { v.Max = v.Min }, ErrInvalidRange},
		{"single color palette", func(v *VisParams) { v.Palette = []string{"white"} }, ErrPaletteTooShort},
		{"unknown color", func(v *VisParams) { v.Palette = []string{"white", "chartreuse"} }, ErrUnknownColor},
		{"negative scale", func(v *VisParams) { v.Scale = -1 }, ErrInvalidScale},
		{"negative width", func(v *VisParams) { v.Width = -1 }, ErrInvalidDimensions},
		{"tiff format", func(v *VisParams) { v.Format = "tif" }, ErrUnknownFormat},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			v := valid()
			tc.mutate(&v)
			if err := v.Validate(); !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestPaletteHex(t *testing.T) {
	t.Parallel()

	v := VisParams{Palette: []string{"white", "Yellow", "green", "#9B0000", "27e2e2"}}
	got, err := v.PaletteHex()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []string{"ffffff", "ffff00", "008000", "9b0000", "27e2e2"}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("index %d: got %q, expected %q", i, got[i], expected[i])
		}
	}
}

func TestVisParamsWithDefaults(t *testing.T) {
	t.Parallel()

	v := VisParams{Width: 400}.WithDefaults(NDVIVis)
	if v.Width != 400 {
		t.Errorf("expected width override to survive, got %d", v.Width)
	}
	if v.Max != 1 || v.CRS != "EPSG:3035" || len(v.Palette) != 3 {
		t.Errorf("expected defaults to be filled, got %+v", v)
	}
	if v.Transparent {
		t.Error("transparent must not be inherited")
	}
}

func TestExportParamsValidate(t *testing.T) {
	t.Parallel()

	valid := ExportParams{AssetID: "projects/p/assets/a", Scale: 250, MaxPixels: DefaultMaxPixels}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	noAsset := valid
	noAsset.AssetID = " "
	if !errors.Is(noAsset.Validate(), ErrNoAssetID) {
		t.Error("expected ErrNoAssetID")
	}

	noScale := valid
	noScale.Scale = 0
	if !errors.Is(noScale.Validate(), ErrInvalidScale) {
		t.Error("expected ErrInvalidScale")
	}

	noPixels := valid
	noPixels.MaxPixels = 0
	if !errors.Is(noPixels.Validate(), ErrInvalidMaxPixels) {
		t.Error("expected ErrInvalidMaxPixels")
	}
}

func TestTaskState(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    string
		expected TaskState
		done     bool
	}{
		{"PENDING", TaskPending, false},
		{"running", TaskRunning, false},
		{"CANCELLING", TaskRunning, false},
		{"SUCCEEDED", TaskSucceeded, true},
		{"FAILED", TaskFailed, true},
		{"CANCELLED", TaskCancelled, true},
		{"", TaskUnknown, false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			got := ParseTaskState(tc.input)
			if got != tc.expected {
				t.Errorf("got %q, expected %q", got, tc.expected)
			}
			if got.Done() != tc.done {
				t.Errorf("Done() = %v, expected %v", got.Done(), tc.done)
			}
		})
	}
}

func TestCaptionsLookup(t *testing.T) {
	t.Parallel()

	var none Captions
	if _, ok := none.Lookup("x"); ok {
		t.Error("nil captions must not match")
	}

	c := Captions{"German_NDVI_2018": "Year 2018"}
	if text, ok := c.Lookup("German_NDVI_2018"); !ok || text != "Year 2018" {
		t.Errorf("got %q, %v", text, ok)
	}
	if _, ok := c.Lookup("German_NDVI_2020"); ok {
		t.Error("missing key must not match")
	}
}
