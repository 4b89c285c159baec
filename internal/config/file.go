package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/nao1215/terrareport/internal/model"
)

// DefaultCaptionTemplate is used when an analysis sets no caption.
const DefaultCaptionTemplate = "{region} {month} {year} {product}"

// File is the structure of .terrareport.yaml.
type File struct {
	Project     string `yaml:"project,omitempty"`
	Credentials string `yaml:"credentials,omitempty"`

	// Endpoint overrides the Earth Engine REST base URL, e.g. for a proxy.
	Endpoint string `yaml:"endpoint,omitempty"`

	// AssetRoot is prepended to export asset ids, e.g. "projects/p/assets/terrareport".
	AssetRoot string `yaml:"assetRoot,omitempty"`

	ImageDir string `yaml:"imageDir,omitempty"`

	// Defaults apply to every analysis unless overridden.
	Defaults AnalysisConfig `yaml:"defaults,omitempty"`

	// Analyses maps analysis names to their settings.
	Analyses map[string]AnalysisConfig `yaml:"analyses,omitempty"`

	Report  ReportConfig  `yaml:"report,omitempty"`
	Publish PublishConfig `yaml:"publish,omitempty"`
}

// AnalysisConfig is the raw, string-typed form of one analysis.
type AnalysisConfig struct {
	Product    string `yaml:"product,omitempty"`
	Source     string `yaml:"source,omitempty"`
	Region     string `yaml:"region,omitempty"`
	Boundaries string `yaml:"boundaries,omitempty"`
	Mask       string `yaml:"mask,omitempty"`
	LandCover  string `yaml:"landCover,omitempty"`
	Years      []int  `yaml:"years,omitempty"`

	// Window is the seasonal window as MM-DD bounds.
	Window WindowConfig `yaml:"window,omitempty"`

	// Prefix starts every thumbnail file name. Defaults to "<Region>_<PRODUCT>_".
	Prefix string `yaml:"prefix,omitempty"`

	// Caption is a template using {region}, {month}, {year} and {product}.
	Caption string `yaml:"caption,omitempty"`

	Vis    model.VisParams `yaml:"vis,omitempty"`
	Export ExportConfig    `yaml:"export,omitempty"`
}

// WindowConfig is a seasonal window in MM-DD form.
type WindowConfig struct {
	Start string `yaml:"start,omitempty"`
	End   string `yaml:"end,omitempty"`
}

// ExportConfig holds export defaults for an analysis.
type ExportConfig struct {
	Folder    string  `yaml:"folder,omitempty"`
	Scale     float64 `yaml:"scale,omitempty"`
	CRS       string  `yaml:"crs,omitempty"`
	MaxPixels float64 `yaml:"maxPixels,omitempty"`
}

// ReportConfig overrides report layout settings.
type ReportConfig struct {
	Title       string   `yaml:"title,omitempty"`
	LegendTitle string   `yaml:"legendTitle,omitempty"`
	LegendMin   *float64 `yaml:"legendMin,omitempty"`
	LegendMax   *float64 `yaml:"legendMax,omitempty"`

	// Captions is a YAML or JSON file mapping image stems to captions.
	Captions string `yaml:"captions,omitempty"`
}

// PublishConfig names the blob container reports are uploaded to.
type PublishConfig struct {
	Container string `yaml:"container,omitempty"`
	Prefix    string `yaml:"prefix,omitempty"`

	// AccountURL is used with ambient credentials when no connection string is set.
	AccountURL string `yaml:"accountUrl,omitempty"`

	// ConnectionString is normally supplied through AZURE_STORAGE_CONNECTION_STRING.
	ConnectionString string `yaml:"connectionString,omitempty"`
}

// Validate checks that a publish target is usable.
func (p PublishConfig) Validate() error {
	if p.Container == "" {
		return ErrNoContainer
	}
	if p.ConnectionString == "" && p.AccountURL == "" {
		return ErrNoStorageAccount
	}
	return nil
}

// AnalysisNames returns the defined analysis names in sorted order.
func (f *File) AnalysisNames() []string {
	return slices.Sorted(maps.Keys(f.Analyses))
}

// GetAnalysis merges the named analysis over Defaults.
func (f *File) GetAnalysis(name string) (AnalysisConfig, error) {
	a, ok := f.Analyses[name]
	if !ok {
		return AnalysisConfig{}, fmt.Errorf("%w: %q", ErrUnknownAnalysis, name)
	}
	return a.merge(f.Defaults), nil
}

func (a AnalysisConfig) merge(d AnalysisConfig) AnalysisConfig {
	pick := func(v, def string) string {
		if v != "" {
			return v
		}
		return def
	}
	out := a
	out.Product = pick(a.Product, d.Product)
	out.Source = pick(a.Source, d.Source)
	out.Region = pick(a.Region, d.Region)
	out.Boundaries = pick(a.Boundaries, d.Boundaries)
	out.Mask = pick(a.Mask, d.Mask)
	out.LandCover = pick(a.LandCover, d.LandCover)
	out.Window.Start = pick(a.Window.Start, d.Window.Start)
	out.Window.End = pick(a.Window.End, d.Window.End)
	out.Prefix = pick(a.Prefix, d.Prefix)
	out.Caption = pick(a.Caption, d.Caption)
	if len(a.Years) == 0 {
		out.Years = slices.Clone(d.Years)
	}
	out.Vis = a.Vis.WithDefaults(d.Vis)
	out.Export.Folder = pick(a.Export.Folder, d.Export.Folder)
	out.Export.CRS = pick(a.Export.CRS, d.Export.CRS)
	if a.Export.Scale == 0 {
		out.Export.Scale = d.Export.Scale
	}
	if a.Export.MaxPixels == 0 {
		out.Export.MaxPixels = d.Export.MaxPixels
	}
	return out
}

// Analysis is a fully resolved, typed analysis definition.
type Analysis struct {
	Name      string
	Product   model.Product
	Source    model.Source
	Region    model.Region
	Mask      model.MaskClass
	LandCover model.LandCover
	Years     []int
	Window    model.DateWindow
	Prefix    string
	Caption   string
	Vis       model.VisParams

	// Export carries scale, CRS and pixel budget. AssetID and Description
	// are filled per output by AssetFor.
	Export model.ExportParams

	// AssetFolder is AssetRoot joined with the analysis export folder.
	AssetFolder string
}

// defaultSource returns the source used when none is configured.
func defaultSource(p model.Product) model.Source {
	if p == model.ProductLST {
		return model.SourceLandsat
	}
	return model.SourceMODIS
}

// defaultExportScale mirrors the native resolution of each source.
func defaultExportScale(s model.Source) float64 {
	switch s {
	case model.SourceLandsat:
		return 30
	case model.SourceSentinel2:
		return 10
	default:
		return 250
	}
}

// Resolve parses and validates the analysis and fills defaults.
func (f *File) Resolve(name string) (*Analysis, error) {
	raw, err := f.GetAnalysis(name)
	if err != nil {
		return nil, err
	}
	return raw.Resolve(name, f.AssetRoot)
}

// Resolve converts the raw analysis into its typed form.
func (a AnalysisConfig) Resolve(name, assetRoot string) (*Analysis, error) {
	product, err := model.ParseProduct(a.Product)
	if err != nil {
		return nil, fmt.Errorf("analysis %s: %w", name, err)
	}

	source := defaultSource(product)
	if a.Source != "" {
		if source, err = model.ParseSource(a.Source); err != nil {
			return nil, fmt.Errorf("analysis %s: %w", name, err)
		}
	}
	if (product == model.ProductLST) != (source == model.SourceLandsat) {
		return nil, fmt.Errorf("analysis %s: %w: %s cannot produce %s", name, ErrSourceMismatch, source, product)
	}

	boundaries, err := model.ParseBoundarySource(a.Boundaries)
	if err != nil {
		return nil, fmt.Errorf("analysis %s: %w", name, err)
	}
	mask, err := model.ParseMaskClass(a.Mask)
	if err != nil {
		return nil, fmt.Errorf("analysis %s: %w", name, err)
	}
	landCover, err := model.ParseLandCover(a.LandCover)
	if err != nil {
		return nil, fmt.Errorf("analysis %s: %w", name, err)
	}

	region := strings.TrimSpace(a.Region)
	if region == "" {
		return nil, fmt.Errorf("analysis %s: %w", name, ErrNoRegion)
	}
	if len(a.Years) == 0 {
		return nil, fmt.Errorf("analysis %s: %w", name, ErrNoYears)
	}
	years := slices.Clone(a.Years)
	slices.Sort(years)
	years = slices.Compact(years)
	if product == model.ProductNDVIChange && len(years) < 2 {
		return nil, fmt.Errorf("analysis %s: %w", name, ErrChangeNeedsTwoYears)
	}

	window, err := a.Window.resolve()
	if err != nil {
		return nil, fmt.Errorf("analysis %s: %w", name, err)
	}

	vis := a.Vis.WithDefaults(model.PresetVis(product))
	if a.Vis.Min == 0 && a.Vis.Max == 0 && len(a.Vis.Palette) == 0 {
		vis.Transparent = model.PresetVis(product).Transparent
	}
	if err := vis.Validate(); err != nil {
		return nil, fmt.Errorf("analysis %s: %w", name, err)
	}

	export := model.ExportParams{
		Scale:     a.Export.Scale,
		CRS:       a.Export.CRS,
		MaxPixels: a.Export.MaxPixels,
	}
	if export.Scale == 0 {
		export.Scale = defaultExportScale(source)
	}
	if export.CRS == "" {
		export.CRS = "EPSG:4326"
	}
	if export.MaxPixels == 0 {
		export.MaxPixels = model.DefaultMaxPixels
	}

	prefix := a.Prefix
	if prefix == "" {
		prefix = DefaultPrefix(region, product)
	}
	caption := a.Caption
	if caption == "" {
		caption = DefaultCaptionTemplate
	}

	folder := strings.Trim(assetRoot, "/")
	if a.Export.Folder != "" {
		folder = strings.Trim(folder+"/"+strings.Trim(a.Export.Folder, "/"), "/")
	}

	return &Analysis{
		Name:        name,
		Product:     product,
		Source:      source,
		Region:      model.Region{Name: region, Boundaries: boundaries},
		Mask:        mask,
		LandCover:   landCover,
		Years:       years,
		Window:      window,
		Prefix:      prefix,
		Caption:     caption,
		Vis:         vis,
		Export:      export,
		AssetFolder: folder,
	}, nil
}

func (w WindowConfig) resolve() (model.DateWindow, error) {
	if w.Start == "" && w.End == "" {
		return model.SeptemberWindow, nil
	}
	start, err := model.ParseMonthDay(w.Start)
	if err != nil {
		return model.DateWindow{}, err
	}
	end, err := model.ParseMonthDay(w.End)
	if err != nil {
		return model.DateWindow{}, err
	}
	window := model.DateWindow{Start: start, End: end}
	if err := window.Validate(); err != nil {
		return model.DateWindow{}, err
	}
	return window, nil
}

// DefaultPrefix builds "<Region>_<PRODUCT>_" with spaces replaced by underscores.
func DefaultPrefix(region string, product model.Product) string {
	r := strings.NewReplacer(" ", "_", "-", "_")
	return r.Replace(region) + "_" + r.Replace(product.Label()) + "_"
}

// Keys returns the output keys of the analysis: one per year, or a single
// "<first>_<last>" key for ndvi-change.
func (a *Analysis) Keys() []string {
	if a.Product == model.ProductNDVIChange {
		return []string{fmt.Sprintf("%d_%d", a.Years[0], a.Years[len(a.Years)-1])}
	}
	keys := make([]string, len(a.Years))
	for i, y := range a.Years {
		keys[i] = fmt.Sprint(y)
	}
	return keys
}

// Stem returns the file stem for key, which doubles as caption key and
// export description.
func (a *Analysis) Stem(key string) string {
	return a.Prefix + key
}

// AssetFor returns export parameters for one output.
func (a *Analysis) AssetFor(key string) model.ExportParams {
	p := a.Export
	p.Description = a.Stem(key)
	p.AssetID = p.Description
	if a.AssetFolder != "" {
		p.AssetID = a.AssetFolder + "/" + p.Description
	}
	return p
}
