// Package client is the consuming side of the SVG Holder API: a typed
// HTTP client plus the gallery view-model that mirrors the record list
// for display. The server remains the source of truth; everything held
// here is disposable and rebuilt from the API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/svgholder/svgholder/common/models"
	"github.com/svgholder/svgholder/common/validation"
)

// DefaultTimeout bounds every API call unless the caller's context is
// stricter.
const DefaultTimeout = 10 * time.Second

// APIError carries the status code and user-facing message of a failed
// API call.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

// Client is a typed API client for the SVG Holder service
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New creates a client for the API at baseURL (e.g.
// "http://localhost:3001/api").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope is the wire shape of every API response. Data stays raw
// until the caller's expected type is known.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

// ListSvgs fetches all records, newest first
func (c *Client) ListSvgs(ctx context.Context) ([]*models.Svg, error) {
	var svgs []*models.Svg
	if err := c.do(ctx, http.MethodGet, "/svgs", "", nil, &svgs); err != nil {
		return nil, err
	}
	return validateSvgs(svgs)
}

// SearchSvgs fetches records matching the query
func (c *Client) SearchSvgs(ctx context.Context, query string) ([]*models.Svg, error) {
	path := "/svgs/search?q=" + url.QueryEscape(query)
	var svgs []*models.Svg
	if err := c.do(ctx, http.MethodGet, path, "", nil, &svgs); err != nil {
		return nil, err
	}
	return validateSvgs(svgs)
}

// GetSvg fetches a single record by id
func (c *Client) GetSvg(ctx context.Context, id string) (*models.Svg, error) {
	svg := &models.Svg{}
	if err := c.do(ctx, http.MethodGet, "/svgs/"+url.PathEscape(id), "", nil, svg); err != nil {
		return nil, err
	}
	if err := validateSvg(svg); err != nil {
		return nil, err
	}
	return svg, nil
}

// CreateSvg uploads a new SVG file with its metadata
func (c *Client) CreateSvg(ctx context.Context, name, description, filename string, content []byte) (*models.Svg, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	if err := w.WriteField("name", name); err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}
	if err := w.WriteField("description", description); err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}

	part, err := w.CreateFormFile("svgFile", filename)
	if err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}

	svg := &models.Svg{}
	if err := c.do(ctx, http.MethodPost, "/svgs", w.FormDataContentType(), body, svg); err != nil {
		return nil, err
	}
	if err := validateSvg(svg); err != nil {
		return nil, err
	}
	return svg, nil
}

// UpdateSvg changes name and description of a record
func (c *Client) UpdateSvg(ctx context.Context, id, name, description string) (*models.Svg, error) {
	payload, err := json.Marshal(map[string]string{
		"name":        name,
		"description": description,
	})
	if err != nil {
		return nil, fmt.Errorf("encode update request: %w", err)
	}

	svg := &models.Svg{}
	if err := c.do(ctx, http.MethodPut, "/svgs/"+url.PathEscape(id), "application/json", bytes.NewReader(payload), svg); err != nil {
		return nil, err
	}
	if err := validateSvg(svg); err != nil {
		return nil, err
	}
	return svg, nil
}

// DeleteSvg removes a record
func (c *Client) DeleteSvg(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/svgs/"+url.PathEscape(id), "", nil, nil)
}

// Health reports whether the API answers its liveness check
func (c *Client) Health(ctx context.Context) bool {
	return c.do(ctx, http.MethodGet, "/health", "", nil, nil) == nil
}

// ValidateFile runs the client-side pre-upload checks so an obviously
// bad file never leaves the machine. The server revalidates anyway.
func ValidateFile(filename string, contentType string, content []byte) error {
	if !validation.IsSvgFile(contentType, filename) {
		return fmt.Errorf("please select a valid SVG file")
	}
	if int64(len(content)) > models.MaxFileSize {
		return fmt.Errorf("file size must be less than 5MB")
	}
	if !strings.Contains(string(content), "<svg") {
		return fmt.Errorf("invalid SVG content")
	}
	return nil
}

// do executes one API call and decodes the envelope. Any payload that
// doesn't parse into the expected typed shape is rejected rather than
// trusted.
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("malformed response envelope: %w", err)
	}

	if resp.StatusCode >= 400 || !env.Success {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(env.Data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("malformed response payload: %w", err)
	}

	return nil
}

func validateSvg(svg *models.Svg) error {
	if svg.ID == uuid.Nil || svg.Name == "" || svg.Description == "" || svg.CreatedAt.IsZero() {
		return fmt.Errorf("malformed record in response: missing required fields")
	}
	return nil
}

func validateSvgs(svgs []*models.Svg) ([]*models.Svg, error) {
	for _, svg := range svgs {
		if err := validateSvg(svg); err != nil {
			return nil, err
		}
	}
	if svgs == nil {
		svgs = []*models.Svg{}
	}
	return svgs, nil
}
