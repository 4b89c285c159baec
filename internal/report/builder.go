package report

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fogleman/gg"
	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/text/encoding/charmap"

	"github.com/nao1215/terrareport/internal/model"
)

// DefaultCreator is written into the document metadata.
const DefaultCreator = "terrareport"

// Result describes a finished report.
type Result struct {
	// Output is the path the document was renamed onto.
	Output string

	// Pages is the number of pages written, one per image.
	Pages int

	// Images are the input files in page order.
	Images []string

	// MissingCaptions lists the stems rendered without a caption.
	MissingCaptions []string

	// LossyCaptions lists the stems whose caption has characters outside
	// the core font encoding (cp1252). Those characters are drawn as '.'.
	LossyCaptions []string
}

// Builder renders a directory of PNG thumbnails into a PDF, one image per
// page with a caption line and a gradient legend. A Builder is not safe
// for concurrent use; each Build call runs to completion synchronously.
type Builder struct {
	layout  Layout
	legend  Legend
	logger  *slog.Logger
	title   string
	creator string

	// created is stamped into the document so equal inputs yield equal bytes.
	created time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithLayout overrides the page geometry.
func WithLayout(l Layout) Option {
	return func(b *Builder) {
		b.layout = l
	}
}

// WithLegend overrides the legend labels, step count or title.
func WithLegend(g Legend) Option {
	return func(b *Builder) {
		b.legend = g
	}
}

// WithLogger sets the logger. Missing captions are logged at Warn.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithTitle sets the document title metadata.
func WithTitle(title string) Option {
	return func(b *Builder) {
		b.title = title
	}
}

// WithCreationDate sets the creation and modification date metadata.
func WithCreationDate(t time.Time) Option {
	return func(b *Builder) {
		b.created = t
	}
}

// NewBuilder returns a Builder with DefaultLayout and DefaultLegend.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		layout:  DefaultLayout(),
		legend:  DefaultLegend(),
		logger:  slog.Default(),
		creator: DefaultCreator,
		created: time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build renders every <prefix>*.png in dir, in lexicographic order, into
// a PDF at out. Captions are looked up by file stem, then by zero-based
// page index; a miss renders the page without a caption.
//
// Nothing is written unless every image decodes: the document is built in
// memory, its page count verified, written to a temporary file next to out
// and renamed over out.
func (b *Builder) Build(dir, prefix string, captions model.Captions, out string) (*Result, error) {
	paths, err := Discover(dir, prefix)
	if err != nil {
		return nil, err
	}

	pdf := b.newDocument()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	res := &Result{Output: out, Images: paths}

	for i, path := range paths {
		stem := Stem(path)
		w, h, err := registerImage(pdf, stem, path)
		if err != nil {
			return nil, err
		}

		caption, ok := lookupCaption(captions, stem, i)
		if !ok {
			res.MissingCaptions = append(res.MissingCaptions, stem)
			b.logger.Warn("missing caption", "image", stem)
		}
		if ok && !coreFontEncodable(caption) {
			res.LossyCaptions = append(res.LossyCaptions, stem)
			b.logger.Warn("caption has characters the core font cannot render", "image", stem, "caption", caption)
		}

		b.drawPage(pdf, b.layout.Plan(w, h), stem, caption, tr)
		if err := pdf.Error(); err != nil {
			return nil, &ImageReadError{Path: path, Err: err}
		}
	}
	res.Pages = len(paths)

	if err := b.finalize(pdf, out, res.Pages); err != nil {
		return nil, err
	}
	b.logger.Info("report written", "output", out, "pages", res.Pages)
	return res, nil
}

// coreFontEncodable reports whether s maps onto cp1252, the encoding of
// the built-in PDF fonts.
func coreFontEncodable(s string) bool {
	_, err := charmap.Windows1252.NewEncoder().String(s)
	return err == nil
}

func (b *Builder) newDocument() *fpdf.Fpdf {
	pdf := fpdf.New("P", "cm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(b.layout.Margin, b.layout.Margin, b.layout.Margin)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(b.created)
	pdf.SetModificationDate(b.created)
	pdf.SetCreator(b.creator, true)
	if b.title != "" {
		pdf.SetTitle(b.title, true)
	}
	return pdf
}

// registerImage decodes path, flattens it onto white and registers it
// under name. It returns the pixel dimensions.
func registerImage(pdf *fpdf.Fpdf, name, path string) (int, int, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from Discover
	if err != nil {
		return 0, 0, &ImageReadError{Path: path, Err: err}
	}
	src, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return 0, 0, &ImageReadError{Path: path, Err: err}
	}
	bounds := src.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return 0, 0, &ImageReadError{Path: path, Err: image.ErrFormat}
	}

	flat, err := flatten(src)
	if err != nil {
		return 0, 0, &ImageReadError{Path: path, Err: err}
	}
	pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, flat)
	if err := pdf.Error(); err != nil {
		return 0, 0, &ImageReadError{Path: path, Err: err}
	}
	return bounds.Dx(), bounds.Dy(), nil
}

// flatten composites src over an opaque white canvas and re-encodes it.
func flatten(src image.Image) (*bytes.Buffer, error) {
	b := src.Bounds()
	dc := gg.NewContext(b.Dx(), b.Dy())
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.DrawImage(src, -b.Min.X, -b.Min.Y)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return &buf, nil
}

func (b *Builder) drawPage(pdf *fpdf.Fpdf, plan PagePlan, name, caption string, tr func(string) string) {
	l := b.layout
	pdf.AddPage()

	pdf.SetFillColor(255, 255, 255)
	pdf.Rect(0, 0, l.PageW, l.PageH, "F")

	if caption != "" {
		pdf.SetFont(l.CaptionFont, "", l.CaptionFontSize)
		pdf.SetTextColor(0, 0, 0)
		pdf.Text(plan.Caption.X, plan.Caption.Y, tr(caption))
	}

	img := plan.Image
	pdf.ImageOptions(name, img.X, img.Y, img.W, img.H, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	b.legend.draw(pdf, plan.Legend, l, tr)
}

// finalize serializes pdf once, checks it holds want pages and moves it
// onto out.
func (b *Builder) finalize(pdf *fpdf.Fpdf, out string, want int) error {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}

	got, err := api.PageCount(bytes.NewReader(buf.Bytes()), nil)
	if err != nil {
		return fmt.Errorf("verify pdf: %w", err)
	}
	if got != want {
		return fmt.Errorf("%w: got %d, want %d", ErrPageCount, got, want)
	}

	dir := filepath.Dir(out)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".terrareport-*.pdf")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil { //nolint:gosec // reports are meant to be shared
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, out); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename onto %s: %w", out, err)
	}
	return nil
}

// Layout returns the builder's page geometry.
func (b *Builder) Layout() Layout {
	return b.layout
}
