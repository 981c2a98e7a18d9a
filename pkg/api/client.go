package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/sirupsen/logrus"
)

// DefaultTimeout bounds a single backend call.
const DefaultTimeout = 15 * time.Second

// maxBody caps how much of a response is read.
const maxBody = 4 << 20

// Option configures a Client.
type Option func(*Client) error

// WithHTTPClient replaces the pooled cleanhttp client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) error {
		if client != nil {
			c.http = client
		}
		return nil
	}
}

// WithBaseURL resolves relative endpoints against base.
func WithBaseURL(base string) Option {
	return func(c *Client) error {
		base = strings.TrimSpace(base)
		if base == "" {
			return nil
		}
		parsed, err := url.Parse(base)
		if err != nil {
			return fmt.Errorf("api: parse base url: %w", err)
		}
		if parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("api: base url %q must be absolute", base)
		}
		c.base = parsed
		return nil
	}
}

// WithTimeout bounds each call. Zero disables the per-call deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		c.timeout = d
		return nil
	}
}

// WithHeader adds a header to every request, e.g. an Authorization token.
func WithHeader(key, value string) Option {
	return func(c *Client) error {
		c.headers.Set(key, value)
		return nil
	}
}

// WithLogger sets the entry used for request logging.
func WithLogger(entry *logrus.Entry) Option {
	return func(c *Client) error {
		if entry != nil {
			c.log = entry
		}
		return nil
	}
}

// Client performs the five calls a form page needs.
type Client struct {
	http    *http.Client
	base    *url.URL
	timeout time.Duration
	headers http.Header
	log     *logrus.Entry
}

// New builds a client on a pooled cleanhttp transport.
func New(options ...Option) (*Client, error) {
	c := &Client{
		http:    cleanhttp.DefaultPooledClient(),
		timeout: DefaultTimeout,
		headers: make(http.Header),
		log:     logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// GetByID fetches one record from {base}/{id}.
func (c *Client) GetByID(ctx context.Context, base, id string) (map[string]any, error) {
	return c.fetch(ctx, JoinID(base, id))
}

// GetAll fetches the record served at endpoint. Settings endpoints return a
// single object; a list yields its first record.
func (c *Client) GetAll(ctx context.Context, endpoint string) (map[string]any, error) {
	return c.fetch(ctx, endpoint)
}

// Create posts body to endpoint.
func (c *Client) Create(ctx context.Context, endpoint string, body any) (map[string]any, error) {
	return c.write(ctx, http.MethodPost, endpoint, body)
}

// UpdateByID puts body to {base}/{id}.
func (c *Client) UpdateByID(ctx context.Context, base, id string, body any) (map[string]any, error) {
	return c.write(ctx, http.MethodPut, JoinID(base, id), body)
}

// Restore asks the backend to reset the settings served at endpoint.
func (c *Client) Restore(ctx context.Context, endpoint string) (map[string]any, error) {
	return c.write(ctx, http.MethodPut, endpoint, nil)
}

// JoinID appends an escaped id segment to base.
func JoinID(base, id string) string {
	return strings.TrimRight(base, "/") + "/" + url.PathEscape(strings.TrimSpace(id))
}

func (c *Client) fetch(ctx context.Context, endpoint string) (map[string]any, error) {
	env, err := c.do(ctx, KindFetch, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	data, err := env.Result.Record()
	if err != nil {
		return nil, &Error{Kind: KindFetch, Method: http.MethodGet, URL: endpoint, Status: env.Status, Err: err}
	}
	return data, nil
}

func (c *Client) write(ctx context.Context, method, endpoint string, body any) (map[string]any, error) {
	env, err := c.do(ctx, KindWrite, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	// the status decides a write; a scalar result (an id, true) is no record
	data, err := env.Result.Record()
	if err != nil {
		c.log.WithError(err).WithField("url", endpoint).Debug("write result carries no record")
		return nil, nil
	}
	return data, nil
}

// do sends one request and checks the envelope. Fetches demand a SUCCESS
// status; writes accept any 2xx reply whose status is SUCCESS or absent.
func (c *Client) do(ctx context.Context, kind Kind, method, endpoint string, body any) (Envelope, error) {
	target, err := c.resolve(endpoint)
	if err != nil {
		return Envelope{}, &Error{Kind: kind, Method: method, URL: endpoint, Err: err}
	}
	fail := func(code int, status string, fields map[string][]string, err error) (Envelope, error) {
		return Envelope{}, &Error{Kind: kind, Method: method, URL: target, StatusCode: code, Status: status, FieldErrors: fields, Err: err}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fail(0, "", nil, fmt.Errorf("encode body: %w", err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fail(0, "", nil, err)
	}
	req.Header.Set("Accept", "application/json")
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range c.headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fail(0, "", nil, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fail(resp.StatusCode, "", nil, fmt.Errorf("read body: %w", err))
	}
	c.log.WithFields(logrus.Fields{
		"method":   method,
		"url":      target,
		"status":   resp.StatusCode,
		"duration": time.Since(started).String(),
	}).Debug("api call")

	var env Envelope
	var decodeErr error
	if len(bytes.TrimSpace(raw)) > 0 {
		decodeErr = json.Unmarshal(raw, &env)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(resp.StatusCode, env.Status, env.Result.FieldErrors(), errors.New(http.StatusText(resp.StatusCode)))
	}
	if decodeErr != nil {
		return fail(resp.StatusCode, "", nil, fmt.Errorf("decode envelope: %w", decodeErr))
	}
	switch {
	case env.Status == StatusSuccess:
	case env.Status == "" && kind == KindWrite:
	default:
		return fail(resp.StatusCode, env.Status, env.Result.FieldErrors(), errors.New("unsuccessful status"))
	}
	return env, nil
}

func (c *Client) resolve(endpoint string) (string, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return "", errors.New("endpoint is empty")
	}
	ref, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}
	if c.base == nil {
		return "", fmt.Errorf("relative endpoint %q needs a base url", endpoint)
	}
	base := *c.base
	base.Path = strings.TrimRight(base.Path, "/") + "/" + strings.TrimLeft(ref.Path, "/")
	base.RawPath = ""
	base.RawQuery = ref.RawQuery
	return base.String(), nil
}
