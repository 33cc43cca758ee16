package blogfront

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/eringen/blogfront/content"
)

// fakeProvider serves posts from memory and records every call.
type fakeProvider struct {
	mu         sync.Mutex
	posts      []content.Post
	categories []content.Category
	sitemap    string
	err        error
	calls      []string
}

var _ content.Provider = (*fakeProvider)(nil)

func (f *fakeProvider) record(format string, args ...any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
	return f.err
}

func (f *fakeProvider) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func paginate(posts []content.Post, page, size int) content.Page {
	start := min(page*size, len(posts))
	end := min(start+size, len(posts))
	return content.Page{Articles: posts[start:end], Total: len(posts)}
}

func (f *fakeProvider) ListPosts(_ context.Context, page, size int) (content.Page, error) {
	if err := f.record("posts %d %d", page, size); err != nil {
		return content.Page{}, err
	}
	return paginate(f.posts, page, size), nil
}

func (f *fakeProvider) filter(match func(content.Post) bool) []content.Post {
	var out []content.Post
	for _, p := range f.posts {
		if match(p) {
			out = append(out, p)
		}
	}
	return out
}

func (f *fakeProvider) ListCategoryPosts(_ context.Context, slug string, page, size int) (content.Page, error) {
	if err := f.record("category %s %d %d", slug, page, size); err != nil {
		return content.Page{}, err
	}
	return paginate(f.filter(func(p content.Post) bool {
		return p.Category != nil && p.Category.Slug == slug
	}), page, size), nil
}

func (f *fakeProvider) ListTagPosts(_ context.Context, slug string, page, size int) (content.Page, error) {
	if err := f.record("tag %s %d %d", slug, page, size); err != nil {
		return content.Page{}, err
	}
	return paginate(f.filter(func(p content.Post) bool {
		for _, t := range p.Tags {
			if t.Slug == slug {
				return true
			}
		}
		return false
	}), page, size), nil
}

func (f *fakeProvider) GetPost(_ context.Context, slug string) (content.Post, error) {
	if err := f.record("post %s", slug); err != nil {
		return content.Post{}, err
	}
	for _, p := range f.posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return content.Post{}, content.ErrNotFound
}

func (f *fakeProvider) ListCategories(context.Context) ([]content.Category, error) {
	if err := f.record("categories"); err != nil {
		return nil, err
	}
	return f.categories, nil
}

func (f *fakeProvider) SitemapXML(_ context.Context, baseURL string) (string, error) {
	if err := f.record("sitemap %s", baseURL); err != nil {
		return "", err
	}
	return f.sitemap, nil
}

// makePosts returns n posts, newest first, cycling through categories.
func makePosts(n int, categories ...string) []content.Post {
	base := time.Date(2024, 6, 30, 9, 0, 0, 0, time.UTC)
	posts := make([]content.Post, n)
	for i := range posts {
		p := content.Post{
			ID:              fmt.Sprint(i + 1),
			Slug:            fmt.Sprintf("post-%d", i+1),
			Headline:        fmt.Sprintf("Post %d", i+1),
			MetaDescription: fmt.Sprintf("About post %d", i+1),
			HTML:            "<h2>Intro</h2><p>Body</p>",
			Author:          content.Author{Name: "Ada Lovelace"},
			CreatedAt:       base.AddDate(0, 0, -i),
		}
		if len(categories) > 0 {
			slug := categories[i%len(categories)]
			p.Category = &content.Category{Slug: slug, Title: slug}
		}
		posts[i] = p
	}
	return posts
}
