package blogfront

import (
	"encoding/json"
	"html/template"
	"net/url"
	"path"
	"strings"
	"unicode"

	"github.com/dustin/go-humanize"

	"github.com/eringen/blogfront/content"
	"github.com/eringen/blogfront/markdown"
	"github.com/eringen/blogfront/views"
)

const (
	cardDateLayout    = "Jan 2"
	articleDateLayout = "Jan 2, 2006"
	cardImageWidth    = 800
	authorImageWidth  = 400
)

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
// Segments are escaped, so a slug like "twitter/x" stays one segment.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	escaped := make([]string, len(pathSegments))
	for i, s := range pathSegments {
		escaped[i] = url.PathEscape(s)
	}
	raw := path.Join(append([]string{u.EscapedPath()}, escaped...)...)
	if len(pathSegments) > 0 && !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	if p, err := url.PathUnescape(raw); err == nil {
		u.Path = p
		u.RawPath = raw
	}
	return u.String()
}

// BlogPath returns a site-relative blog URL such as /blog/tag/growth/.
func BlogPath(segments ...string) string {
	if len(segments) == 0 {
		return "/blog/"
	}
	return BuildURL("/blog", segments...)
}

// Deslugify turns "short-form-video" into "Short Form Video".
func Deslugify(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "-", " "))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// FilterRelatedPosts finds posts that share at least one tag with current.
func FilterRelatedPosts(current content.Post, posts []content.Post) []content.Post {
	tagSet := make(map[string]struct{})
	for _, t := range current.Tags {
		tagSet[t.Slug] = struct{}{}
	}
	var related []content.Post
	for _, p := range posts {
		if p.Slug == current.Slug {
			continue
		}
		for _, t := range p.Tags {
			if _, ok := tagSet[t.Slug]; ok {
				related = append(related, p)
				break
			}
		}
	}
	return related
}

// PostCount formats a category's post count, e.g. "1,204 posts".
func PostCount(n int) string {
	if n == 1 {
		return "1 post"
	}
	return humanize.Comma(int64(n)) + " posts"
}

// WebsiteJSONLD returns a JSON-LD document for a Blog schema.
func WebsiteJSONLD(cfg SiteConfig) template.JS {
	data := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "Blog",
		"name":        cfg.Name,
		"url":         cfg.BlogURL() + "/",
		"description": cfg.Description,
	}
	if cfg.Author != "" {
		data["publisher"] = map[string]string{
			"@type": "Organization",
			"name":  cfg.Author,
		}
	}
	return marshalJSONLD(data)
}

// BlogPostingJSONLD returns a JSON-LD document for a BlogPosting schema.
func BlogPostingJSONLD(post content.Post, cfg SiteConfig) template.JS {
	postURL := BuildURL(cfg.BlogURL(), post.Slug)
	data := map[string]any{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Headline,
		"description":   post.MetaDescription,
		"datePublished": post.Date().Format("2006-01-02"),
		"url":           postURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if post.Image != "" {
		data["image"] = post.Image
	}
	if post.Author.Name != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  post.Author.Name,
		}
	}
	if publisher := cmpOr(cfg.Author, cfg.Name); publisher != "" {
		data["publisher"] = map[string]string{
			"@type": "Organization",
			"name":  publisher,
		}
	}
	if len(post.Tags) > 0 {
		titles := make([]string, len(post.Tags))
		for i, t := range post.Tags {
			titles[i] = t.Title
		}
		data["keywords"] = strings.Join(titles, ", ")
	}
	return marshalJSONLD(data)
}

func marshalJSONLD(data map[string]any) template.JS {
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return template.JS(b)
}

func cmpOr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func (a *App) card(p content.Post) views.Card {
	c := views.Card{
		Href:        BlogPath(p.Slug),
		Headline:    p.Headline,
		Description: p.MetaDescription,
		Image:       a.imageURL(p.Image, cardImageWidth),
		AuthorName:  p.Author.Name,
		AuthorImage: a.imageURL(p.Author.Image, authorImageWidth),
		Date:        p.Date().Format(cardDateLayout),
	}
	if p.Category != nil {
		c.CategoryTitle = p.Category.Title
	}
	return c
}

func (a *App) cards(posts []content.Post) []views.Card {
	out := make([]views.Card, len(posts))
	for i, p := range posts {
		out[i] = a.card(p)
	}
	return out
}

// browse builds the category pill row with "All" first. active is the
// current category slug, or "" on the index.
func (a *App) browse(active string) []views.CategoryLink {
	links := []views.CategoryLink{{Href: BlogPath(), Title: "All", Active: active == ""}}
	for _, cat := range a.Config.Categories {
		links = append(links, views.CategoryLink{
			Href:   BlogPath("category", cat.Slug),
			Title:  cat.Title,
			Active: cat.Slug == active,
		})
	}
	return links
}

func tagLinks(tags []content.Tag) []views.TagLink {
	out := make([]views.TagLink, len(tags))
	for i, t := range tags {
		out[i] = views.TagLink{Href: BlogPath("tag", t.Slug), Title: t.Title}
	}
	return out
}

func shareLinks(postURL, headline string) views.Share {
	tw := url.Values{}
	tw.Set("url", postURL)
	tw.Set("text", headline)
	li := url.Values{}
	li.Set("url", postURL)
	return views.Share{
		URL:      postURL,
		Twitter:  "https://twitter.com/intent/tweet?" + tw.Encode(),
		LinkedIn: "https://www.linkedin.com/sharing/share-offsite/?" + li.Encode(),
	}
}

func markdownHTML(s string) template.HTML {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return template.HTML(markdown.HTML(s))
}
