// Package views renders the blog pages. Each page is an html/template set
// (layout, shared partials, page body) exposed as a templ.Component so it
// plugs into the application's ViewFuncs.
package views

import (
	"embed"
	"html/template"

	"github.com/a-h/templ"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = map[string]*template.Template{
	"index":      parsePage("index.html"),
	"listing":    parsePage("listing.html"),
	"categories": parsePage("categories.html"),
	"tags":       parsePage("tags.html"),
	"article":    parsePage("article.html"),
	"notfound":   parsePage("notfound.html"),
	"error":      parsePage("error.html"),
}

func parsePage(name string) *template.Template {
	return template.Must(template.New(name).Funcs(funcs).ParseFS(templateFS,
		"templates/layout.html",
		"templates/partials.html",
		"templates/"+name,
	))
}

func page(name string, data any) templ.Component {
	return templ.FromGoHTML(pages[name].Lookup("layout"), data)
}

// Index renders the blog landing page.
func Index(p IndexPage) templ.Component {
	return page("index", p)
}

// PostGrid renders only the grid and pager of a listing, for HTMX swaps.
func PostGrid(g Grid) templ.Component {
	return templ.FromGoHTML(pages["listing"].Lookup("post-grid"), g)
}

// Listing renders a category or tag listing.
func Listing(p ListingPage) templ.Component {
	return page("listing", p)
}

// Categories renders the category index.
func Categories(p CategoriesPage) templ.Component {
	return page("categories", p)
}

// Tags renders the tag index.
func Tags(p TagsPage) templ.Component {
	return page("tags", p)
}

// Article renders a single post.
func Article(p ArticlePage) templ.Component {
	return page("article", p)
}

// NotFound renders the missing-entity page with a link back to the blog.
func NotFound(site SiteConfig) templ.Component {
	return page("notfound", struct {
		Site SiteConfig
		Meta PageMeta
	}{site, PageMeta{Title: "Page not found - " + site.Name}})
}

// ServerError renders a failure page. message is shown to the reader.
func ServerError(site SiteConfig, message string) templ.Component {
	return page("error", struct {
		Site    SiteConfig
		Meta    PageMeta
		Message string
	}{site, PageMeta{Title: "Something went wrong - " + site.Name}, message})
}
