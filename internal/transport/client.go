package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/goliatone/go-cms-admin/internal/identity"
	"github.com/goliatone/go-cms-admin/internal/logging"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
	"github.com/goliatone/go-slug"
	"github.com/google/uuid"
)

const (
	// DefaultTimeout bounds a request when no timeout or client is supplied.
	DefaultTimeout = 30 * time.Second
	// MaxResponseBytes is the default cap on a response body.
	MaxResponseBytes = 16 << 20

	headerRequestID   = "X-Request-ID"
	headerIdempotency = "Idempotency-Key"
	defaultFileField  = "file"
)

var (
	// ErrBaseURLRequired indicates a client built without a base URL.
	ErrBaseURLRequired = errors.New("transport: base url is required")
	// ErrUploadRequired indicates a multipart call without file content.
	ErrUploadRequired = errors.New("transport: upload content is required")
	// ErrResponseTooLarge indicates a response body over the configured cap.
	ErrResponseTooLarge = errors.New("transport: response body too large")
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithTimeout sets the request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithToken sends token as a bearer credential.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// WithIdempotencySecret enables Idempotency-Key headers on POST requests.
func WithIdempotencySecret(secret string) Option {
	return func(c *Client) {
		c.idempotency = strings.TrimSpace(secret)
	}
}

// WithMaxResponseBytes overrides the response body cap.
func WithMaxResponseBytes(limit int64) Option {
	return func(c *Client) {
		if limit > 0 {
			c.maxBytes = limit
		}
	}
}

// WithHeader adds a static header to every request.
func WithHeader(name, value string) Option {
	return func(c *Client) {
		c.headers.Set(name, value)
	}
}

// WithLogger sets the transport logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Client) {
		c.logger = logging.EnsureLogger(logger)
	}
}

// WithRequestIDs overrides the request id generator.
func WithRequestIDs(next func() string) Option {
	return func(c *Client) {
		if next != nil {
			c.requestID = next
		}
	}
}

// Client is the REST implementation of interfaces.Transport. Every response
// is decoded into the {status, data} envelope.
type Client struct {
	base        *url.URL
	http        *http.Client
	timeout     time.Duration
	token       string
	idempotency string
	headers     http.Header
	logger      interfaces.Logger
	requestID   func() string
	maxBytes    int64
}

var _ interfaces.Transport = (*Client)(nil)

// NewClient builds a client resolving relative URLs against baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, ErrBaseURLRequired
	}
	base, err := url.Parse(trimmed)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("transport: invalid base url %q", trimmed)
	}
	c := &Client{
		base:      base,
		timeout:   DefaultTimeout,
		headers:   http.Header{},
		logger:    logging.NoOp(),
		requestID: uuid.NewString,
		maxBytes:  MaxResponseBytes,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	return c, nil
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.base.String()
}

func (c *Client) Get(ctx context.Context, target string) (*interfaces.Envelope, error) {
	return c.do(ctx, http.MethodGet, target, nil, "", nil)
}

func (c *Client) Post(ctx context.Context, target string, body any) (*interfaces.Envelope, error) {
	return c.sendJSON(ctx, http.MethodPost, target, body)
}

func (c *Client) Put(ctx context.Context, target string, body any) (*interfaces.Envelope, error) {
	return c.sendJSON(ctx, http.MethodPut, target, body)
}

func (c *Client) Patch(ctx context.Context, target string, body any) (*interfaces.Envelope, error) {
	return c.sendJSON(ctx, http.MethodPatch, target, body)
}

func (c *Client) Delete(ctx context.Context, target string) (*interfaces.Envelope, error) {
	return c.do(ctx, http.MethodDelete, target, nil, "", nil)
}

// PostMultipart sends fields as separate form parts plus the file part. The
// file name is slug-normalized, keeping its extension.
func (c *Client) PostMultipart(ctx context.Context, target string, fields map[string]string, upload *interfaces.Upload) (*interfaces.Envelope, error) {
	if upload == nil || upload.Reader == nil {
		return nil, ErrUploadRequired
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	material := &strings.Builder{}
	for _, key := range keys {
		if err := writer.WriteField(key, fields[key]); err != nil {
			return nil, err
		}
		fmt.Fprintf(material, "%s=%s\n", key, fields[key])
	}

	fieldName := upload.Field
	if strings.TrimSpace(fieldName) == "" {
		fieldName = defaultFileField
	}
	fileName := NormalizeFileName(upload.FileName)
	contentType := upload.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(path.Ext(fileName))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(fieldName), escapeQuotes(fileName)))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, err
	}
	written, err := io.Copy(part, upload.Reader)
	if err != nil {
		return nil, fmt.Errorf("transport: read upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	fmt.Fprintf(material, "%s=%s:%d", fieldName, fileName, written)

	return c.do(ctx, http.MethodPost, target, &buf, writer.FormDataContentType(), []byte(material.String()))
}

// NormalizeFileName slugs the base name of name and lower-cases its
// extension. Names that normalize to nothing become "upload".
func NormalizeFileName(name string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if base == "." || base == "/" {
		base = ""
	}
	ext := strings.ToLower(path.Ext(base))
	stem := strings.TrimSuffix(base, path.Ext(base))
	normalized, err := slug.Normalize(stem)
	if err != nil || normalized == "" {
		normalized = "upload"
	}
	return normalized + ext
}

func (c *Client) sendJSON(ctx context.Context, method, target string, body any) (*interfaces.Envelope, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("transport: encode body: %w", err)
	}
	var material []byte
	if method == http.MethodPost {
		material = payload
	}
	return c.do(ctx, method, target, bytes.NewReader(payload), "application/json", material)
}

func (c *Client) do(ctx context.Context, method, target string, body io.Reader, contentType string, idempotencyMaterial []byte) (*interfaces.Envelope, error) {
	resolved, err := c.resolve(target)
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	req, err := http.NewRequestWithContext(ctx, method, resolved, body)
	if err != nil {
		return nil, err
	}
	for name, values := range c.headers {
		for _, value := range values {
			req.Header.Add(name, value)
		}
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	requestID := c.requestID()
	req.Header.Set(headerRequestID, requestID)
	if c.idempotency != "" && idempotencyMaterial != nil {
		req.Header.Set(headerIdempotency, identity.IdempotencyKey(c.idempotency, method, resolved, idempotencyMaterial).String())
	}

	logger := logging.WithFields(logging.FromContext(ctx, c.logger), map[string]any{
		"method":     method,
		"url":        resolved,
		"request_id": requestID,
	})
	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Warn("transport.request.failed", "error", err)
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		logger.Warn("transport.response.read_failed", "error", err)
		return nil, fmt.Errorf("transport: read response: %w", err)
	}
	if int64(len(raw)) > c.maxBytes {
		logger.Warn("transport.response.too_large", "limit", c.maxBytes, "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: over %d bytes", ErrResponseTooLarge, c.maxBytes)
	}
	env := decodeEnvelope(resp.StatusCode, raw)
	logger.Debug("transport.request.completed",
		"http_status", resp.StatusCode,
		"status", env.Status.Code,
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return env, nil
}

func (c *Client) resolve(target string) (string, error) {
	trimmed := strings.TrimSpace(target)
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("transport: invalid url %q: %w", trimmed, err)
	}
	if parsed.IsAbs() {
		return parsed.String(), nil
	}
	joined := *c.base
	joined.Path = strings.TrimSuffix(c.base.Path, "/") + "/" + strings.TrimPrefix(parsed.Path, "/")
	joined.RawQuery = parsed.RawQuery
	return joined.String(), nil
}

// decodeEnvelope reads the API envelope from raw. Bodies without one get a
// synthesized status: 2xx maps to the success sentinel with the body as
// data, anything else to the HTTP status and its text.
func decodeEnvelope(httpStatus int, raw []byte) *interfaces.Envelope {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var probe struct {
			Status *interfaces.Status `json:"status"`
			Data   json.RawMessage    `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &probe); err == nil && probe.Status != nil && probe.Status.Code != 0 {
			return &interfaces.Envelope{Status: *probe.Status, Data: probe.Data}
		}
	}

	env := &interfaces.Envelope{}
	if httpStatus >= 200 && httpStatus < 300 {
		env.Status = interfaces.Status{Code: interfaces.StatusOK}
		if json.Valid(trimmed) {
			env.Data = json.RawMessage(trimmed)
		}
		return env
	}
	env.Status = interfaces.Status{Code: httpStatus, Message: http.StatusText(httpStatus)}
	return env
}

func escapeQuotes(value string) string {
	return strings.NewReplacer("\\", "\\\\", `"`, "\\\"").Replace(value)
}
