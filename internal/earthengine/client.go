package earthengine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/terrareport/internal/model"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// DefaultBaseURL is the REST endpoint root.
const DefaultBaseURL = "https://earthengine.googleapis.com/v1"

// defaultTimeout bounds a single REST call when the caller supplies no client.
const defaultTimeout = 2 * time.Minute

// Client talks to the Earth Engine REST API. It only builds and submits
// requests; all raster work happens server side.
type Client struct {
	// httpClient carries OAuth credentials.
	httpClient *http.Client

	// baseURL is the API root without a trailing slash.
	baseURL string

	// project is the cloud project requests are billed to.
	project string

	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client, typically one from NewHTTPClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL overrides the API root. Tests point this at httptest servers.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client bound to project.
func NewClient(project string, opts ...Option) (*Client, error) {
	if project == "" {
		return nil, ErrNoProject
	}
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    DefaultBaseURL,
		project:    project,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Project returns the configured project id.
func (c *Client) Project() string {
	return c.project
}

// HTTPClient returns the underlying authenticated client.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// ComputeValue evaluates v and decodes the result into out.
func (c *Client) ComputeValue(ctx context.Context, v Valuer, out any) error {
	expr, err := Encode(v)
	if err != nil {
		return err
	}
	var resp struct {
		Result json.RawMessage `json:"result"`
	}
	if err := c.do(ctx, http.MethodPost, c.projectPath("value:compute"), map[string]any{"expression": expr}, &resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Result, out); err != nil {
		return fmt.Errorf("decode compute result: %w", err)
	}
	return nil
}

// ComputeBounds evaluates the bounding box of g.
func (c *Client) ComputeBounds(ctx context.Context, g Geometry) (orb.Bound, error) {
	var raw json.RawMessage
	if err := c.ComputeValue(ctx, g.Bounds(), &raw); err != nil {
		return orb.Bound{}, err
	}
	geom, err := geojson.UnmarshalGeometry(raw)
	if err != nil {
		return orb.Bound{}, fmt.Errorf("decode bounds: %w", err)
	}
	switch geom.Geometry().(type) {
	case orb.Polygon, orb.MultiPolygon:
	default:
		return orb.Bound{}, ErrInvalidBounds
	}
	return geom.Geometry().Bound(), nil
}

// ThumbnailRequest describes one rendered PNG.
type ThumbnailRequest struct {
	Image  Image
	Region Geometry
	Vis    model.VisParams
}

// CreateThumbnail registers a thumbnail and returns the URL its pixels
// can be fetched from. The URL is anonymous and short-lived.
func (c *Client) CreateThumbnail(ctx context.Context, req ThumbnailRequest) (string, error) {
	vis := req.Vis
	if err := vis.Validate(); err != nil {
		return "", err
	}
	palette, err := vis.PaletteHex()
	if err != nil {
		return "", err
	}
	img := req.Image.Visualize(vis.Min, vis.Max, palette).
		ClipToBoundsAndScale(req.Region, vis.Width, vis.Height, 0)
	expr, err := Encode(img)
	if err != nil {
		return "", err
	}

	format := strings.ToUpper(vis.Format)
	if format == "" {
		format = "PNG"
	}
	if format == "JPG" {
		format = "JPEG"
	}
	body := map[string]any{
		"expression": expr,
		"fileFormat": format,
	}
	if vis.CRS != "" {
		body["grid"] = map[string]any{"crsCode": vis.CRS}
	}

	var resp struct {
		Name string `json:"name"`
	}
	if err := c.do(ctx, http.MethodPost, c.projectPath("thumbnails"), body, &resp); err != nil {
		return "", err
	}
	if resp.Name == "" {
		return "", fmt.Errorf("%w: thumbnail response has no name", ErrEmptyExpression)
	}
	return c.baseURL + "/" + resp.Name + ":getPixels", nil
}

// ExportRequest describes one export-to-asset job.
type ExportRequest struct {
	Image     Image
	Region    Geometry
	Params    model.ExportParams
	RequestID string
}

// Operation is a long-running server job.
type Operation struct {
	Name     string            `json:"name"`
	Done     bool              `json:"done"`
	Metadata OperationMetadata `json:"metadata"`
	Error    *OperationError   `json:"error,omitempty"`
}

// OperationMetadata carries the job's progress fields.
type OperationMetadata struct {
	State       string  `json:"state"`
	Description string  `json:"description"`
	CreateTime  string  `json:"createTime"`
	UpdateTime  string  `json:"updateTime"`
	Progress    float64 `json:"progress"`
}

// OperationError is the failure status of a finished job.
type OperationError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ID returns the trailing operation id from the resource name.
func (o *Operation) ID() string {
	if i := strings.LastIndex(o.Name, "/"); i >= 0 {
		return o.Name[i+1:]
	}
	return o.Name
}

// State maps the operation to a task state.
func (o *Operation) State() model.TaskState {
	if o.Error != nil {
		return model.TaskFailed
	}
	state := model.ParseTaskState(o.Metadata.State)
	if state == model.TaskUnknown && o.Done {
		return model.TaskSucceeded
	}
	return state
}

// ExportImage starts an export job and returns as soon as the server accepts it.
func (c *Client) ExportImage(ctx context.Context, req ExportRequest) (*Operation, error) {
	p := req.Params
	if err := p.Validate(); err != nil {
		return nil, err
	}
	img := req.Image.Clip(req.Region)
	if p.Scale > 0 {
		img = img.ClipToBoundsAndScale(req.Region, 0, 0, p.Scale)
	}
	expr, err := Encode(img)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"expression":  expr,
		"description": p.Description,
		"assetExportOptions": map[string]any{
			"earthEngineDestination": map[string]any{"name": c.assetName(p.AssetID)},
		},
		"maxPixels": strconv.FormatFloat(p.MaxPixels, 'f', 0, 64),
	}
	if p.CRS != "" {
		body["grid"] = map[string]any{"crsCode": p.CRS}
	}
	if req.RequestID != "" {
		body["requestId"] = req.RequestID
	}

	var op Operation
	if err := c.do(ctx, http.MethodPost, c.projectPath("image:export"), body, &op); err != nil {
		return nil, err
	}
	c.logger.Debug("export submitted", "operation", op.Name, "asset", p.AssetID)
	return &op, nil
}

// GetOperation fetches the current state of an operation by name or id.
func (c *Client) GetOperation(ctx context.Context, name string) (*Operation, error) {
	path := name
	if !strings.HasPrefix(name, "projects/") {
		path = c.projectPath("operations/" + name)
	}
	var op Operation
	if err := c.do(ctx, http.MethodGet, path, nil, &op); err != nil {
		return nil, err
	}
	return &op, nil
}

func (c *Client) projectPath(suffix string) string {
	return "projects/" + c.project + "/" + suffix
}

// assetName expands a bare asset id into a full resource name.
func (c *Client) assetName(id string) string {
	if strings.HasPrefix(id, "projects/") {
		return id
	}
	return c.projectPath("assets/" + strings.TrimPrefix(id, "/"))
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("earthengine request", "method", method, "path", path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Message: http.StatusText(status)}
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error.Message != "" {
		apiErr.Message = env.Error.Message
		apiErr.Status = env.Error.Status
	}
	return apiErr
}
