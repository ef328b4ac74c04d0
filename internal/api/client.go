// Package api talks to the todo/users REST backend.
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/idilsaglam/tada/internal/model"
)

const (
	DefaultBaseURL = "http://localhost:8000"
	userAgent      = "tada/1"

	// maxErrorBody caps how much of a failed response is kept in StatusError.
	maxErrorBody = 4 << 10
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Code, http.StatusText(e.Code))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// IsStatus reports whether err carries the given HTTP status code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

// Client is safe for concurrent use.
type Client struct {
	base *url.URL
	http *http.Client
	log  *slog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets a per-request timeout. Zero means none.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New builds a client for baseURL. An empty baseURL means DefaultBaseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	c := &Client{
		base: u,
		http: &http.Client{},
		log:  slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// BaseURL returns the backend root the client was built with.
func (c *Client) BaseURL() string { return c.base.String() }

// ListTodos reads the whole collection in server order.
func (c *Client) ListTodos(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	if err := c.do(ctx, http.MethodGet, "/todos/", nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

// CreateTodo sends only the title; the server assigns everything else.
func (c *Client) CreateTodo(ctx context.Context, title string) error {
	body := struct {
		Title string `json:"title"`
	}{title}
	return c.do(ctx, http.MethodPost, "/todos/", body, nil)
}

// SetCompleted overwrites the completed flag of one item.
func (c *Client) SetCompleted(ctx context.Context, id model.ID, completed bool) error {
	body := struct {
		Completed bool `json:"completed"`
	}{completed}
	return c.do(ctx, http.MethodPut, todoPath(id), body, nil)
}

// DeleteTodo removes one item.
func (c *Client) DeleteTodo(ctx context.Context, id model.ID) error {
	return c.do(ctx, http.MethodDelete, todoPath(id), nil, nil)
}

// CreateUser posts a new account and decodes the echoed record. A body that
// is not valid JSON is an error even when the status is 2xx. Any valid JSON
// counts as success; fields that do not fit User are left zero.
func (c *Client) CreateUser(ctx context.Context, u model.NewUser) (*model.User, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/users/", u, &raw); err != nil {
		return nil, err
	}
	var out model.User
	if err := json.Unmarshal(raw, &out); err != nil {
		c.log.Debug("user record has an unexpected shape", "error", err, "body", string(raw))
	}
	return &out, nil
}

// SetTitle renames one item.
func (c *Client) SetTitle(ctx context.Context, id model.ID, title string) error {
	body := struct {
		Title string `json:"title"`
	}{title}
	return c.do(ctx, http.MethodPut, todoPath(id), body, nil)
}

func todoPath(id model.ID) string {
	return "/todos/" + url.PathEscape(id.String())
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", reqID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed", "method", method, "path", path, "request_id", reqID, "error", err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	c.log.Debug("request done", "method", method, "path", path, "request_id", reqID,
		"status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
