package blogfront

import (
	"context"
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/blogfront/content"
)

const (
	sitemapNS           = "http://www.sitemaps.org/schemas/sitemap/0.9"
	sitemapCacheControl = "public, s-maxage=86400, stale-while-revalidate"
	sitemapScanLimit    = 100
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// SitemapXML returns the document served at /blog/sitemap.xml: the content
// API's sitemap, or one built from the latest posts when that fails. Without
// an API key it is an empty urlset.
func (a *App) SitemapXML(ctx context.Context) ([]byte, error) {
	if !a.live {
		return a.renderSitemap(nil)
	}
	doc, err := a.Content.SitemapXML(ctx, a.Config.BlogURL())
	if err == nil {
		return []byte(doc), nil
	}
	a.Echo.Logger.Errorf("fetch sitemap: %v", err)

	posts, err := a.Content.ListPosts(ctx, 0, sitemapScanLimit)
	if err != nil {
		a.Echo.Logger.Errorf("fetch sitemap posts: %v", err)
	}
	return a.renderSitemap(posts.Articles)
}

func (a *App) handleSitemap(c echo.Context) error {
	doc, err := a.SitemapXML(c.Request().Context())
	if err != nil {
		return err
	}
	c.Response().Header().Set("Cache-Control", sitemapCacheControl)
	return c.Blob(http.StatusOK, "application/xml", doc)
}

// localSitemap lists the blog index, the configured categories and posts.
// With no posts it is an empty urlset.
func (a *App) localSitemap(posts []content.Post) sitemapURLSet {
	set := sitemapURLSet{XMLNS: sitemapNS}
	if len(posts) == 0 {
		return set
	}
	base := a.Config.BlogURL()
	set.URLs = append(set.URLs, sitemapURL{Loc: base + "/"})
	for _, cat := range a.Config.Categories {
		set.URLs = append(set.URLs, sitemapURL{Loc: BuildURL(base, "category", cat.Slug)})
	}
	for _, p := range posts {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:     BuildURL(base, p.Slug),
			LastMod: p.Date().Format("2006-01-02"),
		})
	}
	return set
}

func (a *App) renderSitemap(posts []content.Post) ([]byte, error) {
	out, err := xml.Marshal(a.localSitemap(posts))
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
