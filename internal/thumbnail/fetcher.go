package thumbnail

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb"

	ee "github.com/nao1215/terrareport/internal/earthengine"
	"github.com/nao1215/terrareport/internal/model"
)

// DefaultMaxBytes caps a single download.
const DefaultMaxBytes = 64 << 20

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

// Request describes one thumbnail.
type Request struct {
	// Name is the file stem, e.g. "Germany_NDVI_2018".
	Name   string
	Image  ee.Image
	Region ee.Geometry

	// Bounds of Region, used to derive the height when Vis.Height is zero.
	Bounds orb.Bound
	Vis    model.VisParams
}

// Dimensions returns a width x height preserving the aspect ratio of b.
// A degenerate bound yields a square.
func Dimensions(b orb.Bound, width int) (int, int) {
	if width <= 0 {
		width = model.DefaultThumbnailWidth
	}
	dx := b.Max.Lon() - b.Min.Lon()
	dy := b.Max.Lat() - b.Min.Lat()
	if dx <= 0 || dy <= 0 {
		return width, width
	}
	h := int(math.Round(float64(width) * dy / dx))
	return width, max(h, 1)
}

// Fetcher downloads thumbnails into a directory.
type Fetcher struct {
	client *ee.Client
	http   *http.Client
	dir    string
	limit  int64
	logger *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets the client used for pixel downloads. The default is
// the Earth Engine client's own authorized client.
func WithHTTPClient(hc *http.Client) Option {
	return func(f *Fetcher) {
		f.http = hc
	}
}

// WithMaxBytes caps the size of one download. Non-positive values keep
// DefaultMaxBytes.
func WithMaxBytes(n int64) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.limit = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// NewFetcher returns a Fetcher writing into dir.
func NewFetcher(client *ee.Client, dir string, opts ...Option) *Fetcher {
	f := &Fetcher{
		client: client,
		http:   client.HTTPClient(),
		dir:    dir,
		limit:  DefaultMaxBytes,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Path returns where the thumbnail called name is written.
func (f *Fetcher) Path(name string, vis model.VisParams) string {
	return filepath.Join(f.dir, name+"."+extension(vis))
}

func extension(vis model.VisParams) string {
	switch strings.ToLower(vis.Format) {
	case model.FormatJPG, "jpeg":
		return model.FormatJPG
	default:
		return model.FormatPNG
	}
}

// Fetch renders req and writes it to disk. It returns the written path.
// An existing file is replaced only once the download completed.
func (f *Fetcher) Fetch(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.Name) == "" {
		return "", ErrNoName
	}
	vis := req.Vis
	if vis.Height == 0 {
		vis.Width, vis.Height = Dimensions(req.Bounds, vis.Width)
	}

	url, err := f.client.CreateThumbnail(ctx, ee.ThumbnailRequest{
		Image:  req.Image,
		Region: req.Region,
		Vis:    vis,
	})
	if err != nil {
		return "", fmt.Errorf("create thumbnail %s: %w", req.Name, err)
	}
	f.logger.Debug("thumbnail registered", "name", req.Name, "width", vis.Width, "height", vis.Height)

	data, err := f.download(ctx, url)
	if err != nil {
		return "", fmt.Errorf("%s: %w", req.Name, err)
	}
	if extension(vis) == model.FormatPNG && !bytes.HasPrefix(data, pngMagic) {
		return "", fmt.Errorf("%s: %w", req.Name, ErrNotPNG)
	}

	path := f.Path(req.Name, vis)
	if err := writeAtomic(path, data); err != nil {
		return "", err
	}
	f.logger.Info("thumbnail written", "path", path, "bytes", len(data))
	return path, nil
}

func (f *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download thumbnail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &DownloadError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, f.limit+1))
	if err != nil {
		return nil, fmt.Errorf("read thumbnail: %w", err)
	}
	if int64(len(data)) > f.limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, f.limit)
	}
	return data, nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create image directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".thumb-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(name, path); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("rename onto %s: %w", path, err)
	}
	return nil
}
