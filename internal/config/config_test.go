package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/nao1215/terrareport/internal/model"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default Timeout is 2 minutes", func(t *testing.T) {
		t.Parallel()
		if cfg.Timeout != 2*time.Minute {
			t.Errorf("expected Timeout to be 2m, got %v", cfg.Timeout)
		}
	})

	t.Run("default BatchSize is 4", func(t *testing.T) {
		t.Parallel()
		if cfg.BatchSize != 4 {
			t.Errorf("expected BatchSize to be 4, got %d", cfg.BatchSize)
		}
	})

	t.Run("default ImageDir is current directory", func(t *testing.T) {
		t.Parallel()
		if cfg.ImageDir != "." {
			t.Errorf("expected ImageDir to be '.', got %q", cfg.ImageDir)
		}
	})

	t.Run("default DBDir is XDG data dir", func(t *testing.T) {
		t.Parallel()
		if cfg.DBDir != XDGDataDir() {
			t.Errorf("expected DBDir %q, got %q", XDGDataDir(), cfg.DBDir)
		}
	})

	t.Run("File is never nil", func(t *testing.T) {
		t.Parallel()
		if cfg.File == nil {
			t.Error("expected non-nil File")
		}
	})
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{name: "defaults are valid", modify: func(*Config) {}},
		{name: "zero timeout", modify: func(c *Config) { c.Timeout = 0 }, wantErr: ErrInvalidTimeout},
		{name: "negative batch size", modify: func(c *Config) { c.BatchSize = -1 }, wantErr: ErrInvalidBatchSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := NewConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("RequireProject", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		if err := cfg.RequireProject(); !errors.Is(err, ErrNoProject) {
			t.Errorf("RequireProject() = %v, want ErrNoProject", err)
		}
		cfg.Project = "demo"
		if err := cfg.RequireProject(); err != nil {
			t.Errorf("RequireProject() = %v, want nil", err)
		}
	})
}

func TestFileGetAnalysis(t *testing.T) {
	t.Parallel()

	file := &File{
		Defaults: AnalysisConfig{
			Region:    "Germany",
			Mask:      "forest",
			Years:     []int{2018, 2019},
			LandCover: "corine",
		},
		Analyses: map[string]AnalysisConfig{
			"ndvi":   {Product: "ndvi"},
			"forest": {Product: "ndvi", Mask: "cropland", Years: []int{2020}},
		},
	}

	t.Run("unknown analysis", func(t *testing.T) {
		t.Parallel()
		if _, err := file.GetAnalysis("missing"); !errors.Is(err, ErrUnknownAnalysis) {
			t.Errorf("GetAnalysis() error = %v, want ErrUnknownAnalysis", err)
		}
	})

	t.Run("inherits defaults", func(t *testing.T) {
		t.Parallel()
		a, err := file.GetAnalysis("ndvi")
		if err != nil {
			t.Fatal(err)
		}
		if a.Region != "Germany" || a.Mask != "forest" || !reflect.DeepEqual(a.Years, []int{2018, 2019}) {
			t.Errorf("merged = %+v", a)
		}
	})

	t.Run("overrides defaults", func(t *testing.T) {
		t.Parallel()
		a, err := file.GetAnalysis("forest")
		if err != nil {
			t.Fatal(err)
		}
		if a.Mask != "cropland" || !reflect.DeepEqual(a.Years, []int{2020}) {
			t.Errorf("merged = %+v", a)
		}
	})

	t.Run("names are sorted", func(t *testing.T) {
		t.Parallel()
		if got := file.AnalysisNames(); !reflect.DeepEqual(got, []string{"forest", "ndvi"}) {
			t.Errorf("AnalysisNames() = %v", got)
		}
	})
}

func TestAnalysisConfigResolve(t *testing.T) {
	t.Parallel()

	t.Run("ndvi defaults", func(t *testing.T) {
		t.Parallel()
		a, err := AnalysisConfig{Product: "ndvi", Region: "Germany", Years: []int{2020, 2018, 2019, 2018}}.
			Resolve("ndvi", "projects/demo/assets/terra")
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if a.Source != model.SourceMODIS {
			t.Errorf("Source = %v", a.Source)
		}
		if a.Region.Boundaries != model.BoundaryLSIB {
			t.Errorf("Boundaries = %v", a.Region.Boundaries)
		}
		if !reflect.DeepEqual(a.Years, []int{2018, 2019, 2020}) {
			t.Errorf("Years = %v", a.Years)
		}
		if a.Window != model.SeptemberWindow {
			t.Errorf("Window = %+v", a.Window)
		}
		if a.Prefix != "Germany_NDVI_" {
			t.Errorf("Prefix = %q", a.Prefix)
		}
		if a.Caption != DefaultCaptionTemplate {
			t.Errorf("Caption = %q", a.Caption)
		}
		if a.Export.Scale != 250 || a.Export.CRS != "EPSG:4326" || a.Export.MaxPixels != model.DefaultMaxPixels {
			t.Errorf("Export = %+v", a.Export)
		}
		if !a.Vis.Transparent || a.Vis.CRS != "EPSG:3035" {
			t.Errorf("Vis = %+v", a.Vis)
		}
		if got := a.Keys(); !reflect.DeepEqual(got, []string{"2018", "2019", "2020"}) {
			t.Errorf("Keys() = %v", got)
		}
		p := a.AssetFor("2018")
		if p.AssetID != "projects/demo/assets/terra/Germany_NDVI_2018" || p.Description != "Germany_NDVI_2018" {
			t.Errorf("AssetFor() = %+v", p)
		}
	})

	t.Run("lst defaults to landsat", func(t *testing.T) {
		t.Parallel()
		a, err := AnalysisConfig{Product: "lst", Region: "Germany", Years: []int{2022}}.Resolve("lst", "")
		if err != nil {
			t.Fatal(err)
		}
		if a.Source != model.SourceLandsat || a.Export.Scale != 30 {
			t.Errorf("Source = %v, Scale = %v", a.Source, a.Export.Scale)
		}
		if a.Vis.Transparent {
			t.Error("lst preset is not transparent")
		}
		if p := a.AssetFor("2022"); p.AssetID != "Germany_LST_2022" {
			t.Errorf("AssetID = %q", p.AssetID)
		}
	})

	t.Run("ndvi change key spans first and last year", func(t *testing.T) {
		t.Parallel()
		a, err := AnalysisConfig{Product: "ndvi-change", Region: "Czech Republic", Years: []int{2018, 2019, 2020}}.Resolve("chg", "")
		if err != nil {
			t.Fatal(err)
		}
		if got := a.Keys(); !reflect.DeepEqual(got, []string{"2018_2020"}) {
			t.Errorf("Keys() = %v", got)
		}
		if a.Prefix != "Czech_Republic_NDVI_Change_" {
			t.Errorf("Prefix = %q", a.Prefix)
		}
	})

	t.Run("user vis overrides preset", func(t *testing.T) {
		t.Parallel()
		a, err := AnalysisConfig{
			Product: "ndvi", Region: "Germany", Years: []int{2018},
			Vis: model.VisParams{Min: 0.2, Max: 0.9},
		}.Resolve("ndvi", "")
		if err != nil {
			t.Fatal(err)
		}
		if a.Vis.Min != 0.2 || a.Vis.Max != 0.9 || len(a.Vis.Palette) != 3 {
			t.Errorf("Vis = %+v", a.Vis)
		}
		if a.Vis.Transparent {
			t.Error("Transparent must not be inherited once vis is customized")
		}
	})

	errTests := []struct {
		name    string
		cfg     AnalysisConfig
		wantErr error
	}{
		{"unknown product", AnalysisConfig{Product: "evi", Region: "X", Years: []int{2018}}, model.ErrUnknownProduct},
		{"unknown source", AnalysisConfig{Product: "ndvi", Source: "spot", Region: "X", Years: []int{2018}}, model.ErrUnknownSource},
		{"landsat ndvi", AnalysisConfig{Product: "ndvi", Source: "landsat", Region: "X", Years: []int{2018}}, ErrSourceMismatch},
		{"modis lst", AnalysisConfig{Product: "lst", Source: "modis", Region: "X", Years: []int{2018}}, ErrSourceMismatch},
		{"no region", AnalysisConfig{Product: "ndvi", Years: []int{2018}}, ErrNoRegion},
		{"no years", AnalysisConfig{Product: "ndvi", Region: "X"}, ErrNoYears},
		{"change with one year", AnalysisConfig{Product: "ndvi-change", Region: "X", Years: []int{2018, 2018}}, ErrChangeNeedsTwoYears},
		{"bad window", AnalysisConfig{Product: "ndvi", Region: "X", Years: []int{2018}, Window: WindowConfig{Start: "09-30", End: "09-01"}}, model.ErrInvalidWindow},
		{"bad month day", AnalysisConfig{Product: "ndvi", Region: "X", Years: []int{2018}, Window: WindowConfig{Start: "13-01", End: "09-01"}}, model.ErrInvalidMonthDay},
		{"bad mask", AnalysisConfig{Product: "ndvi", Region: "X", Years: []int{2018}, Mask: "urban"}, model.ErrUnknownMaskClass},
	}
	for _, tt := range errTests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := tt.cfg.Resolve(tt.name, ""); !errors.Is(err, tt.wantErr) {
				t.Errorf("Resolve() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()
		cfg, err := LoadConfigFile(filepath.Join(t.TempDir(), ".terrareport.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), ".terrareport.yaml")
		content := `project: demo
assetRoot: projects/demo/assets/terra
defaults:
  region: Germany
  years: [2018, 2019, 2020]
analyses:
  ndvi:
    product: ndvi
    mask: forest+cropland
    vis:
      min: 0
      max: 1
      palette: [white, yellow, green]
  lst:
    product: lst
    window:
      start: "06-01"
      end: "08-31"
report:
  legendTitle: NDVI
  legendMin: -1
publish:
  container: reports
`
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		f, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.Project != "demo" || f.Publish.Container != "reports" {
			t.Errorf("file = %+v", f)
		}
		if f.Report.LegendMin == nil || *f.Report.LegendMin != -1 || f.Report.LegendMax != nil {
			t.Errorf("report = %+v", f.Report)
		}
		a, err := f.Resolve("lst")
		if err != nil {
			t.Fatalf("Resolve(lst) error = %v", err)
		}
		if a.Window.Start.Month != time.June || a.Window.End.Day != 31 {
			t.Errorf("window = %+v", a.Window)
		}
		if a.Region.Name != "Germany" || len(a.Years) != 3 {
			t.Errorf("analysis = %+v", a)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), ".terrareport.yaml")
		if err := os.WriteFile(path, []byte(`invalid: yaml: content: [}`), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("initializes nil Analyses map", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), ".terrareport.yaml")
		if err := os.WriteFile(path, []byte("project: demo\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		f, err := LoadConfigFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if f.Analyses == nil {
			t.Error("expected Analyses map to be initialized")
		}
	})
}

func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns explicit path if exists", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("project: x\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		t.Parallel()
		if got := FindConfigFile(filepath.Join(t.TempDir(), "missing.yaml")); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})
}

func TestApplyEnv(t *testing.T) {
	t.Parallel()

	env := func(m map[string]string) func(string) string {
		return func(k string) string { return m[k] }
	}

	t.Run("terrareport variables win", func(t *testing.T) {
		t.Parallel()
		f := &File{Project: "file", Credentials: "file.json"}
		ApplyEnv(f, env(map[string]string{
			EnvProject:          "env",
			EnvCredentials:      "env.json",
			EnvGoogleCredential: "adc.json",
			EnvEndpoint:         "http://localhost:8080/v1",
			EnvAzureConnection:  "AccountName=a;AccountKey=b",
		}))
		if f.Project != "env" || f.Credentials != "env.json" || f.Endpoint != "http://localhost:8080/v1" || f.Publish.ConnectionString == "" {
			t.Errorf("file = %+v", f)
		}
	})

	t.Run("google credentials only fill a gap", func(t *testing.T) {
		t.Parallel()
		f := &File{Credentials: "file.json"}
		ApplyEnv(f, env(map[string]string{EnvGoogleCredential: "adc.json"}))
		if f.Credentials != "file.json" {
			t.Errorf("Credentials = %q", f.Credentials)
		}
		g := &File{}
		ApplyEnv(g, env(map[string]string{EnvGoogleCredential: "adc.json"}))
		if g.Credentials != "adc.json" {
			t.Errorf("Credentials = %q", g.Credentials)
		}
	})
}

func TestConfigLoad(t *testing.T) {
	t.Parallel()

	t.Run("explicit missing file is an error", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.ConfigFilePath = filepath.Join(t.TempDir(), "missing.yaml")
		if err := cfg.Load(func(string) string { return "" }); !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Load() = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("flags win over file", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := filepath.Join(dir, "cfg.yaml")
		content := "project: file-project\nimageDir: " + filepath.Join(dir, "img") + "\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
		cfg := NewConfig()
		cfg.ConfigFilePath = path
		cfg.Project = "flag-project"
		if err := cfg.Load(func(string) string { return "" }); err != nil {
			t.Fatal(err)
		}
		if cfg.Project != "flag-project" {
			t.Errorf("Project = %q", cfg.Project)
		}
		if cfg.ImageDir != filepath.Join(dir, "img") {
			t.Errorf("ImageDir = %q", cfg.ImageDir)
		}
	})

	t.Run("endpoint from file and environment", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "cfg.yaml")
		if err := os.WriteFile(path, []byte("endpoint: http://file/v1\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		cfg := NewConfig()
		cfg.ConfigFilePath = path
		if err := cfg.Load(func(string) string { return "" }); err != nil {
			t.Fatal(err)
		}
		if cfg.Endpoint != "http://file/v1" {
			t.Errorf("Endpoint = %q, want http://file/v1", cfg.Endpoint)
		}
		cfg = NewConfig()
		cfg.ConfigFilePath = path
		err := cfg.Load(func(k string) string {
			if k == EnvEndpoint {
				return "http://env/v1"
			}
			return ""
		})
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Endpoint != "http://env/v1" {
			t.Errorf("Endpoint = %q, want http://env/v1", cfg.Endpoint)
		}
	})
}

func TestXDGDirs(t *testing.T) {
	t.Parallel()

	for name, dir := range map[string]string{
		"data":   XDGDataDir(),
		"config": XDGConfigDir(),
		"cache":  XDGCacheDir(),
	} {
		if filepath.Base(dir) != AppName {
			t.Errorf("%s dir %q does not end in %q", name, dir, AppName)
		}
	}
}
