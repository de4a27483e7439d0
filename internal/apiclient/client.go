// Package apiclient is a thin HTTP client for the complaints backend.
// It performs no retries and sets no timeout; callers cancel through ctx.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jengzang/smartcity-backend-go/internal/logger"
	"github.com/jengzang/smartcity-backend-go/internal/models"
)

// APIError is returned for non-2xx responses
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	text := e.Body
	if text == "" {
		text = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("API %d: %s", e.StatusCode, text)
}

// Response is a successful response body. JSON is true when the server
// declared application/json; otherwise Body holds plain text.
type Response struct {
	StatusCode int
	JSON       bool
	Body       []byte
}

// Decode unmarshals a JSON body into v
func (r *Response) Decode(v interface{}) error {
	if !r.JSON {
		return fmt.Errorf("response is not JSON: %q", truncate(string(r.Body), 120))
	}
	if len(r.Body) == 0 {
		return nil
	}
	return json.Unmarshal(r.Body, v)
}

// Text returns the body as a string
func (r *Response) Text() string {
	return string(r.Body)
}

// Client talks to the complaints API
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sends a bearer token with every request
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a client for the API at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateRequest is a citizen submission
type CreateRequest struct {
	Photo      io.Reader
	Filename   string
	Text       string
	UICategory string
	Lat        *float64 // nil is sent as an empty field
	Lng        *float64
	Lang       string // defaults to "ru"
}

// CreateComplaint posts a multipart submission
func (c *Client) CreateComplaint(ctx context.Context, in CreateRequest) (*models.Complaint, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	filename := in.Filename
	if filename == "" {
		filename = "photo.jpg"
	}
	if in.Photo != nil {
		part, err := mw.CreateFormFile("photo", filename)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(part, in.Photo); err != nil {
			return nil, fmt.Errorf("failed to read photo: %w", err)
		}
	}

	lang := in.Lang
	if lang == "" {
		lang = "ru"
	}
	fields := [][2]string{
		{"text", in.Text},
		{"ui_category", in.UICategory},
		{"lat", formatCoord(in.Lat)},
		{"lng", formatCoord(in.Lng)},
		{"lang", lang},
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var out models.Complaint
	if err := c.doJSON(ctx, http.MethodPost, "/complaints", &buf, mw.FormDataContentType(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListComplaints returns all complaints, newest first
func (c *Client) ListComplaints(ctx context.Context) ([]models.Complaint, error) {
	var out []models.Complaint
	if err := c.doJSON(ctx, http.MethodGet, "/complaints", nil, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PatchComplaint changes a complaint's status
func (c *Client) PatchComplaint(ctx context.Context, id, status string) (*models.Complaint, error) {
	body, err := json.Marshal(models.StatusPatch{Status: status})
	if err != nil {
		return nil, err
	}

	var out models.Complaint
	if err := c.doJSON(ctx, http.MethodPatch, "/complaints/"+url.PathEscape(id), bytes.NewReader(body), "application/json", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StatsSummary fetches the counters summary
func (c *Client) StatsSummary(ctx context.Context) (*models.StatsSummary, error) {
	var out models.StatsSummary
	if err := c.doJSON(ctx, http.MethodGet, "/stats/summary", nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StatsTrends fetches daily counts for the last days days (7 when days <= 0)
func (c *Client) StatsTrends(ctx context.Context, days int) (*models.StatsTrends, error) {
	if days <= 0 {
		days = 7
	}
	var out models.StatsTrends
	if err := c.doJSON(ctx, http.MethodGet, "/stats/trends?days="+strconv.Itoa(days), nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StatsHeatmap fetches server-side grid cells (0.01 when gridSize <= 0)
func (c *Client) StatsHeatmap(ctx context.Context, gridSize float64) (*models.HeatmapResponse, error) {
	if gridSize <= 0 {
		gridSize = 0.01
	}
	path := "/stats/heatmap?grid_size=" + strconv.FormatFloat(gridSize, 'f', -1, 64)

	var out models.HeatmapResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Do sends a request and returns the raw successful response
func (c *Client) Do(ctx context.Context, method, path string, body io.Reader, contentType string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	t0 := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.L().Debug("api_http_error", "method", method, "path", path, "err", err)
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	logger.L().Debug("api_resp", "method", method, "path", path, "status", resp.StatusCode, "duration_ms", time.Since(t0).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		JSON:       strings.Contains(resp.Header.Get("Content-Type"), "application/json"),
		Body:       data,
	}, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	resp, err := c.Do(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	return resp.Decode(out)
}

func formatCoord(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
