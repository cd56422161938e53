package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"sort"
	"strings"
	"time"
)

var (
	// ErrUnavailable marks transport failures: the server could not be reached
	// or the answer could not be read.
	ErrUnavailable = errors.New("service unavailable")
	// ErrUnauthorized matches any APIError with status 401.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound matches any APIError with status 404.
	ErrNotFound = errors.New("not found")
)

// APIError is a failure reported by the server with a status and message.
type APIError struct {
	Status  int
	Message string
}

// Error returns the backend message.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// Is maps the status onto ErrUnauthorized, ErrNotFound and ErrUnavailable.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrUnavailable:
		return e.Status == http.StatusBadGateway || e.Status == http.StatusServiceUnavailable
	}
	return false
}

// TokenSource supplies the bearer credential for each call.
type TokenSource interface {
	Token() string
}

// Upload is a file attached to a multipart request.
type Upload struct {
	Field       string
	Filename    string
	ContentType string
	Content     []byte
}

// Client talks to the ordering API, either the backend itself or the
// forwarding server in front of it; both use the same routes and envelopes.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// New creates a Client rooted at baseURL (e.g. "http://localhost:8080/api").
// tokens may be nil for unauthenticated use.
func New(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

// Do performs a request and decodes the raw JSON answer into out (if non-nil).
func (c *Client) Do(ctx context.Context, method, path, contentType string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading %s %s: %v", ErrUnavailable, method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Message: messageOf(raw, resp.StatusCode)}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

// GetData fetches path and decodes its "data" envelope into out.
func (c *Client) GetData(ctx context.Context, path string, out interface{}) error {
	return c.dataCall(ctx, http.MethodGet, path, nil, out)
}

// SendJSON sends in as JSON and decodes the "data" envelope into out.
func (c *Client) SendJSON(ctx context.Context, method, path string, in, out interface{}) error {
	return c.dataCall(ctx, method, path, in, out)
}

// SendMultipart sends fields and files as multipart/form-data and decodes
// the raw answer into out.
func (c *Client) SendMultipart(ctx context.Context, method, path string, fields map[string]string, files []Upload, out interface{}) error {
	body, contentType, err := encodeMultipart(fields, files)
	if err != nil {
		return err
	}
	return c.Do(ctx, method, path, contentType, bytes.NewReader(body), out)
}

// SendJSONRaw sends in as JSON and decodes the whole answer into out, for
// routes that do not use the "data" envelope.
func (c *Client) SendJSONRaw(ctx context.Context, method, path string, in, out interface{}) error {
	b, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode %s %s body: %w", method, path, err)
	}
	return c.Do(ctx, method, path, "application/json", bytes.NewReader(b), out)
}

func (c *Client) dataCall(ctx context.Context, method, path string, in, out interface{}) error {
	var (
		body        io.Reader
		contentType string
	)
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode %s %s body: %w", method, path, err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}

	if out == nil {
		return c.Do(ctx, method, path, contentType, body, nil)
	}
	env := struct {
		Data interface{} `json:"data"`
	}{Data: out}
	return c.Do(ctx, method, path, contentType, body, &env)
}

func messageOf(raw []byte, status int) string {
	var env struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && env.Message != "" {
		return env.Message
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return "Request failed"
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func encodeMultipart(fields map[string]string, files []Upload) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, fields[k]); err != nil {
			return nil, "", fmt.Errorf("failed to write form field %s: %w", k, err)
		}
	}

	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(f.Field), quoteEscaper.Replace(f.Filename)))
		contentType := f.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create form file %s: %w", f.Field, err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, "", fmt.Errorf("failed to write form file %s: %w", f.Field, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart body: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
