// Package content is a client for the hosted blog content API.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DemoAPIKey is the public key for the demo content workspace.
const DemoAPIKey = "a8c58738-7b98-4597-b20a-0bb1c2fe5772"

// DefaultBaseURL is the production content API endpoint.
const DefaultBaseURL = "https://api.lightweight.so/v1"

var (
	// ErrNotFound is returned when the requested post does not exist.
	ErrNotFound = errors.New("content: not found")
	// ErrMissingAPIKey is returned when no API key has been configured.
	ErrMissingAPIKey = errors.New("content: LIGHTWEIGHT_API_KEY environment variable must be set. " +
		"You can use the DEMO key " + DemoAPIKey + " for testing")
)

// APIError reports a non-success response from the content API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("content: api status %d", e.Status)
	}
	return fmt.Sprintf("content: api status %d: %s", e.Status, e.Body)
}

// Provider is the read API the site renders from.
type Provider interface {
	ListPosts(ctx context.Context, page, pageSize int) (Page, error)
	ListCategoryPosts(ctx context.Context, slug string, page, pageSize int) (Page, error)
	ListTagPosts(ctx context.Context, slug string, page, pageSize int) (Page, error)
	GetPost(ctx context.Context, slug string) (Post, error)
	ListCategories(ctx context.Context) ([]Category, error)
	SitemapXML(ctx context.Context, baseURL string) (string, error)
}

// Client talks to the content API over HTTP.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL points the client at a different API root.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		if u = strings.TrimSpace(u); u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// NewClient returns a client authenticated with apiKey.
func NewClient(apiKey string, opts ...ClientOption) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListPosts returns the given 0-indexed page of published posts.
func (c *Client) ListPosts(ctx context.Context, page, pageSize int) (Page, error) {
	var out Page
	err := c.getJSON(ctx, pageQuery(page, pageSize), &out, "posts")
	return out, err
}

// ListCategoryPosts returns a page of posts in the category.
func (c *Client) ListCategoryPosts(ctx context.Context, slug string, page, pageSize int) (Page, error) {
	var out Page
	err := c.getJSON(ctx, pageQuery(page, pageSize), &out, "categories", slug, "posts")
	return out, err
}

// ListTagPosts returns a page of posts carrying the tag.
func (c *Client) ListTagPosts(ctx context.Context, slug string, page, pageSize int) (Page, error) {
	var out Page
	err := c.getJSON(ctx, pageQuery(page, pageSize), &out, "tags", slug, "posts")
	return out, err
}

// GetPost returns a single post or ErrNotFound.
func (c *Client) GetPost(ctx context.Context, slug string) (Post, error) {
	if strings.TrimSpace(slug) == "" {
		return Post{}, ErrNotFound
	}
	var out Post
	if err := c.getJSON(ctx, nil, &out, "posts", slug); err != nil {
		return Post{}, err
	}
	if out.Slug == "" {
		return Post{}, ErrNotFound
	}
	return out, nil
}

// ListCategories returns every category.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var out []Category
	err := c.getJSON(ctx, nil, &out, "categories")
	return out, err
}

// SitemapXML returns the complete sitemap document with post URLs rooted at
// baseURL.
func (c *Client) SitemapXML(ctx context.Context, baseURL string) (string, error) {
	q := url.Values{}
	q.Set("baseUrl", baseURL)
	resp, err := c.do(ctx, "application/xml", q, "sitemap")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("content: read sitemap: %w", err)
	}
	return string(b), nil
}

func (c *Client) getJSON(ctx context.Context, q url.Values, dst any, segments ...string) error {
	resp, err := c.do(ctx, "application/json", q, segments...)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("content: decode %s: %w", strings.Join(segments, "/"), err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, accept string, q url.Values, segments ...string) (*http.Response, error) {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	endpoint := c.baseURL + "/" + strings.Join(escaped, "/")
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("content: %s: %w", strings.Join(segments, "/"), err)
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, ErrNotFound
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return resp, nil
}

func pageQuery(page, pageSize int) url.Values {
	if page < 0 {
		page = 0
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(pageSize))
	return q
}
