// Package client is a Go client for the media catalog HTTP API.
package client

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

	"github.com/stevemurr/media-library/media"
)

// DefaultBaseURL is where a locally started server listens.
const DefaultBaseURL = "http://127.0.0.1:5000"

// ErrNotFound is returned by Get and Delete when the server answers 404.
var ErrNotFound = errors.New("media item not found")

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("media api: status %d", e.Status)
	}
	return fmt.Sprintf("media api: status %d: %s", e.Status, e.Message)
}

// Client talks to one media API server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default client, which has a 10s timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List returns all records, or only those of category when it is not empty.
func (c *Client) List(ctx context.Context, category string) ([]media.Record, error) {
	q := url.Values{}
	if category != "" {
		q.Set("category", category)
	}
	var out []media.Record
	err := c.do(ctx, http.MethodGet, "/media", q, nil, &out)
	return out, err
}

// Search returns records whose name equals name exactly.
func (c *Client) Search(ctx context.Context, name string) ([]media.Record, error) {
	var out []media.Record
	err := c.do(ctx, http.MethodGet, "/media/search", url.Values{"name": {name}}, nil, &out)
	return out, err
}

func (c *Client) Get(ctx context.Context, id string) (media.Record, error) {
	var out media.Record
	err := c.do(ctx, http.MethodGet, "/media/"+url.PathEscape(id), nil, nil, &out)
	return out, notFound(err)
}

// Create posts n and returns the stored record with its assigned id.
func (c *Client) Create(ctx context.Context, n media.NewRecord) (media.Record, error) {
	var out media.Record
	err := c.do(ctx, http.MethodPost, "/media", nil, n, &out)
	return out, err
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return notFound(c.do(ctx, http.MethodDelete, "/media/"+url.PathEscape(id), nil, nil, nil))
}

// notFound maps a 404 from an item route to ErrNotFound.
func notFound(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, apiErr.Message)
	}
	return err
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, in, out any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	body := io.Reader(http.NoBody)
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var body struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		msg = body.Error
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}
