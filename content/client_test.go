package content

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient("test-key", WithBaseURL(srv.URL+"/"))
	require.NoError(t, err)
	return c
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient("  ")
	require.ErrorIs(t, err, ErrMissingAPIKey)
	assert.Contains(t, err.Error(), DemoAPIKey)
}

func TestListPosts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/posts", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "9", r.URL.Query().Get("limit"))
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"total":11,"articles":[
			{"id":"1","slug":"hello","headline":"Hello","author":{"name":"Ada"},
			 "category":{"slug":"tiktok","title":"TikTok"},
			 "tags":[{"slug":"growth","title":"Growth"}],
			 "createdAt":"2024-03-01T10:00:00Z","publishedAt":"2024-03-02T10:00:00Z"}]}`))
	})

	page, err := c.ListPosts(context.Background(), 2, 9)
	require.NoError(t, err)
	assert.Equal(t, 11, page.Total)
	require.Len(t, page.Articles, 1)
	p := page.Articles[0]
	assert.Equal(t, "hello", p.Slug)
	assert.Equal(t, "TikTok", p.Category.Title)
	assert.Equal(t, 2, p.Date().Day())
}

func TestPostDateFallsBackToCreatedAt(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"slug":"x","headline":"X","createdAt":"2024-05-07T00:00:00Z"}`))
	})
	p, err := c.GetPost(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, 7, p.Date().Day())
	assert.Nil(t, p.Category)
}

func TestCategoryAndTagPaths(t *testing.T) {
	var paths []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.EscapedPath())
		w.Write([]byte(`{"total":0,"articles":[]}`))
	})
	ctx := context.Background()
	_, err := c.ListCategoryPosts(ctx, "twitter/x", 0, 9)
	require.NoError(t, err)
	_, err = c.ListTagPosts(ctx, "short-form", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"/categories/twitter%2Fx/posts", "/tags/short-form/posts"}, paths)
}

func TestGetPostNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	_, err := c.GetPost(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.GetPost(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid key", http.StatusUnauthorized)
	})
	_, err := c.ListCategories(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "invalid key", apiErr.Body)
}

func TestSitemapXML(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sitemap", r.URL.Path)
		assert.Equal(t, "https://example.com/blog", r.URL.Query().Get("baseUrl"))
		w.Write([]byte(`<urlset></urlset>`))
	})
	xml, err := c.SitemapXML(context.Background(), "https://example.com/blog")
	require.NoError(t, err)
	assert.Equal(t, "<urlset></urlset>", xml)
}
