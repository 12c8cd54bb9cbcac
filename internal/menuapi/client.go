// Package menuapi is a client for the café's read-only menu API.
package menuapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cafesang/storefront/internal/menu"
)

const maxBodySize = 4 << 20

// Client fetches categories and products. Safe for concurrent use.
type Client struct {
	baseURL     string
	imageBase   *url.URL
	placeholder string
	http        *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the default client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithImages sets the base URL relative image paths resolve against and the
// image used for products without one.
func WithImages(base, placeholder string) Option {
	return func(c *Client) {
		if u, err := url.Parse(strings.TrimRight(base, "/") + "/"); err == nil && u.Host != "" {
			c.imageBase = u
		}
		c.placeholder = placeholder
	}
}

// New creates a Client for the API rooted at baseURL, e.g.
// "https://api.cafesang.com/api".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid menu api url %q", baseURL)
	}
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		imageBase: &url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"},
		http:      &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Categories lists every category.
func (c *Client) Categories(ctx context.Context) ([]menu.Category, error) {
	var out []menu.Category
	if err := c.get(ctx, "/categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Products lists the products of one category, or of every category when
// categoryID is nil. Inactive products are included; filtering is the
// caller's concern.
func (c *Client) Products(ctx context.Context, categoryID *int) ([]menu.Product, error) {
	var q url.Values
	if categoryID != nil {
		q = url.Values{"categoryId": {strconv.Itoa(*categoryID)}}
	}
	var out []menu.Product
	if err := c.get(ctx, "/products", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// BuildImageURL turns a product image reference into an absolute URL.
func (c *Client) BuildImageURL(image string) string {
	image = strings.TrimSpace(image)
	if image == "" {
		return c.placeholder
	}
	lower := strings.ToLower(image)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return image
	}
	ref, err := url.Parse(strings.TrimLeft(image, "/"))
	if err != nil {
		return c.placeholder
	}
	return c.imageBase.ResolveReference(ref).String()
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Message: "network error", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &Error{StatusCode: resp.StatusCode, Message: "read response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{StatusCode: resp.StatusCode, Message: errorMessage(resp.StatusCode, body)}
	}

	if err := decodeList(body, out); err != nil {
		return &Error{StatusCode: resp.StatusCode, Message: "invalid response", Err: err}
	}
	return nil
}

// decodeList accepts a bare JSON array or a {"data": [...]} envelope.
func decodeList(body []byte, out any) error {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '{' {
		var env struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(body, &env); err != nil {
			return err
		}
		if len(env.Data) == 0 {
			return fmt.Errorf("missing data field")
		}
		body = env.Data
	}
	return json.Unmarshal(body, out)
}

func errorMessage(status int, body []byte) string {
	var e struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil {
		if e.Message != "" {
			return e.Message
		}
		if e.Error != "" {
			return e.Error
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return "unexpected status"
}
