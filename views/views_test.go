package views

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, c templ.Component) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return doc
}

func href(page int) string {
	return "/blog/?page=" + strconv.Itoa(page)
}

func TestPaginate(t *testing.T) {
	assert.False(t, Paginate(0, 1, href).Show)
	assert.False(t, Paginate(0, 0, href).Show)

	p := Paginate(0, 3, href)
	assert.True(t, p.Show)
	assert.Empty(t, p.PrevHref)
	assert.Equal(t, href(1), p.NextHref)
	require.Len(t, p.Pages, 3)
	assert.True(t, p.Pages[0].Active)
	assert.Equal(t, "1", p.Pages[0].Label)
	assert.False(t, p.Ellipsis)
	assert.Nil(t, p.Last)

	p = Paginate(7, 8, href)
	assert.Equal(t, href(6), p.PrevHref)
	assert.Empty(t, p.NextHref)
	assert.Len(t, p.Pages, MaxPageLinks)
	assert.True(t, p.Ellipsis)
	require.NotNil(t, p.Last)
	assert.Equal(t, "8", p.Last.Label)
	assert.True(t, p.Last.Active)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 9))
	assert.Equal(t, 1, TotalPages(9, 9))
	assert.Equal(t, 2, TotalPages(10, 9))
	assert.Equal(t, 0, TotalPages(10, 0))
}

func TestIndexRendersNavBar(t *testing.T) {
	doc := render(t, Index(IndexPage{
		Site: SiteConfig{Name: "Blog", BlogTitle: "The blog"},
		Meta: PageMeta{Title: "Blog"},
		Nav: NavBar{
			Links: []NavLink{
				{Href: "#featured-posts", Section: "featured-posts", Title: "Latest", Active: true},
				{Href: "#all-posts", Section: "all-posts", Title: "All Posts"},
			},
			Pinned:            true,
			PlaceholderHeight: 58,
			MarkerID:          "blog-nav-marker",
			NavID:             "blog-nav",
			ActivationLine:    100,
			DefaultHeight:     58,
			SettleDelayMS:     100,
		},
		Featured: []Card{{Href: "/blog/a/", Headline: "A"}},
	}))

	nav := doc.Find("#blog-nav")
	require.Equal(t, 1, nav.Length())
	assert.Contains(t, nav.AttrOr("class", ""), "fixed top-0")
	assert.Equal(t, 2, nav.Find("a").Length())
	assert.Contains(t, nav.Find("a").First().AttrOr("class", ""), "bg-white/10")
	assert.NotContains(t, nav.Find("a").Last().AttrOr("class", ""), "bg-white/10")

	placeholder := doc.Find("[data-nav-placeholder]")
	_, hidden := placeholder.Attr("hidden")
	assert.False(t, hidden)
	assert.Contains(t, placeholder.AttrOr("style", ""), "58px")

	assert.Equal(t, "The blog", doc.Find("h1").Text())
	assert.Equal(t, 1, doc.Find("#featured-posts a[href='/blog/a/']").Length())
	assert.Equal(t, 1, doc.Find(`script[src="/public/blognav.js"]`).Length())
}

func TestPostGridFragment(t *testing.T) {
	var buf bytes.Buffer
	err := PostGrid(Grid{
		Cards:      []Card{{Href: "/blog/a/", Headline: "A", Date: "Jun 30"}},
		Pagination: Paginate(1, 2, href),
	}).Render(context.Background(), &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, `<div id="post-grid">`))
	assert.NotContains(t, out, "<html")
	assert.Contains(t, out, `hx-target="#post-grid"`)
	assert.Contains(t, out, "Jun 30")
}

func TestCardWithoutImage(t *testing.T) {
	doc := render(t, PostGrid(Grid{Cards: []Card{{Href: "/blog/a/", Headline: "A", CategoryTitle: "TikTok"}}}))
	assert.Equal(t, "No image", doc.Find("article .text-xs").First().Text())
	assert.Equal(t, "TikTok", doc.Find("article span.rounded-full").Text())
}

func TestListingEmptyState(t *testing.T) {
	doc := render(t, Listing(ListingPage{
		Meta:      PageMeta{Title: "Growth"},
		Title:     "Growth",
		Crumbs:    []Crumb{{Href: "/blog/", Label: "Blog"}, {Label: "Growth"}},
		Empty:     "No posts in this category yet.",
		EmptyHref: "/blog/",
	}))
	assert.Contains(t, doc.Find("#post-grid").Text(), "No posts in this category yet.")
	assert.Equal(t, "Blog", doc.Find(`nav[aria-label="Breadcrumb"] a`).Text())
	assert.Equal(t, "Growth", doc.Find(`nav[aria-label="Breadcrumb"] span.font-medium`).Text())
}

func TestArticleAuthorInitial(t *testing.T) {
	doc := render(t, Article(ArticlePage{
		Meta:     PageMeta{Title: "Post", OGType: "article"},
		Headline: "Post",
		Author:   &Author{Name: "ada", Initial: "A"},
		Body:     "<p>Body</p>",
	}))
	assert.Equal(t, "A", doc.Find("header .rounded-full span").Text())
	assert.Equal(t, "article", doc.Find(`meta[property="og:type"]`).AttrOr("content", ""))
	assert.Equal(t, "Body", doc.Find(".article p").Text())
	assert.Equal(t, 0, doc.Find("aside nav").Length())
}

func TestErrorPages(t *testing.T) {
	site := SiteConfig{Name: "Blog"}

	doc := render(t, NotFound(site))
	assert.Equal(t, "Page not found - Blog", doc.Find("title").Text())
	assert.Equal(t, "/blog/", doc.Find("main a").AttrOr("href", ""))

	doc = render(t, ServerError(site, "key missing"))
	assert.Equal(t, "Something went wrong - Blog", doc.Find("title").Text())
	assert.Contains(t, doc.Find("main").Text(), "key missing")
}

func TestCategoriesAndTagsEmpty(t *testing.T) {
	doc := render(t, Categories(CategoriesPage{}))
	assert.Contains(t, doc.Text(), "No categories available yet.")

	doc = render(t, Tags(TagsPage{}))
	assert.Contains(t, doc.Text(), "No tags available yet.")
}
