// internal/api/client.go
//
// The gateway client is the single path to the backend. It injects the
// bearer token, stamps a request ID on every call, decodes error payloads,
// and signals authorization failures so the session can be torn down.

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TokenSource supplies the current bearer token, or "" when logged out.
type TokenSource func() string

// Logger receives one entry per request. Satisfied by *logbook.Logbook.
type Logger interface {
	Info(msg string, keyvals ...interface{})
	Error(msg string, keyvals ...interface{})
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Client wraps outbound calls to the veteran-aid backend.
type Client struct {
	baseURL        string
	http           *http.Client
	token          TokenSource
	onUnauthorized func()
	logger         Logger
}

// Option customizes client construction.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithTokenSource wires the session store's current token into requests.
func WithTokenSource(src TokenSource) Option {
	return func(c *Client) {
		if src != nil {
			c.token = src
		}
	}
}

// WithUnauthorizedHook registers the callback fired on any 401 response.
func WithUnauthorizedHook(fn func()) Option {
	return func(c *Client) {
		if fn != nil {
			c.onUnauthorized = fn
		}
	}
}

// WithLogger overrides the default no-op logger.
func WithLogger(l Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient prepares a gateway client for the given base URL.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		http:           &http.Client{Timeout: timeout},
		token:          func() string { return "" },
		onUnauthorized: func() {},
		logger:         nopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// doJSON performs a request with an optional JSON body and decodes a JSON
// response into out (when out is non-nil).
func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(encoded)
	}
	resp, requestID, err := c.roundTrip(ctx, method, path, reader, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("api: read %s %s: %w", method, path, err)
	}
	if resp.StatusCode >= 400 {
		return c.failure(resp.StatusCode, requestID, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("api: decode %s %s: %w", method, path, err)
	}
	return nil
}

// Download carries a binary response body and its server-suggested filename.
type Download struct {
	Filename string
	Data     []byte
}

// SaveTo writes the payload into dir and returns the full path.
func (d Download) SaveTo(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("api: ensure downloads dir: %w", err)
	}
	name := filepath.Base(strings.TrimSpace(d.Filename))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "download"
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, d.Data, 0o644); err != nil {
		return "", fmt.Errorf("api: write %s: %w", path, err)
	}
	return path, nil
}

// doDownload performs a request expecting a binary response. fallbackName is
// used when the content-disposition header is absent or unparseable.
func (c *Client) doDownload(ctx context.Context, method, path, fallbackName string) (Download, error) {
	resp, requestID, err := c.roundTrip(ctx, method, path, nil, "")
	if err != nil {
		return Download{}, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Download{}, fmt.Errorf("api: read %s %s: %w", method, path, err)
	}
	if resp.StatusCode >= 400 {
		return Download{}, c.failure(resp.StatusCode, requestID, data)
	}
	return Download{
		Filename: dispositionFilename(resp.Header.Get("Content-Disposition"), fallbackName),
		Data:     data,
	}, nil
}

// doMultipart uploads a single file under the "file" form field.
func (c *Client) doMultipart(ctx context.Context, path, filename string, file io.Reader, out interface{}) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return fmt.Errorf("api: build upload form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("api: read upload payload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("api: finish upload form: %w", err)
	}
	resp, requestID, err := c.roundTrip(ctx, http.MethodPost, path, &buf, writer.FormDataContentType())
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("api: read upload response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return c.failure(resp.StatusCode, requestID, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("api: decode upload response: %w", err)
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, string, error) {
	requestID := uuid.NewString()
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, requestID, fmt.Errorf("api: build %s %s: %w", method, path, err)
	}
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("request failed",
			"request_id", requestID, "method", method, "path", path, "err", err)
		return nil, requestID, fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	c.logger.Info("request",
		"request_id", requestID, "method", method, "path", path,
		"status", resp.StatusCode, "duration", time.Since(started).Round(time.Millisecond).String())
	return resp, requestID, nil
}

// failure decodes an error body and fires the unauthorized hook on 401 so
// the session is cleared before the caller sees the error.
func (c *Client) failure(status int, requestID string, body []byte) error {
	apiErr := decodeError(status, requestID, body)
	if status == http.StatusUnauthorized {
		c.onUnauthorized()
	}
	return apiErr
}

func dispositionFilename(header, fallback string) string {
	if header != "" {
		if _, params, err := mime.ParseMediaType(header); err == nil {
			if name := strings.TrimSpace(params["filename"]); name != "" {
				return name
			}
		}
	}
	return fallback
}
