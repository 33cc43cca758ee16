package blogfront

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/blogfront/article"
	"github.com/eringen/blogfront/content"
	"github.com/eringen/blogfront/navigator"
	"github.com/eringen/blogfront/views"
)

const (
	latestLimit      = 20
	featuredCount    = 2
	sectionLimit     = 3
	indexPageSize    = 9
	categoryPageSize = 9
	tagPageSize      = 10
	tagScanLimit     = 100
	headerTagLimit   = 3
)

func handleRootRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, BlogPath())
}

// pageParam returns the non-negative integer ?page= value, or 0.
func pageParam(c echo.Context) int {
	n, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func slugParam(c echo.Context) string {
	raw := c.Param("slug")
	if s, err := url.PathUnescape(raw); err == nil {
		return s
	}
	return raw
}

// degrade logs a fetch failure and lets the page render with empty data.
// A missing API key is returned so the error page can explain it.
func degrade(c echo.Context, what string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, content.ErrMissingAPIKey) {
		return err
	}
	c.Logger().Errorf("fetch %s: %v", what, err)
	return nil
}

func pageHref(base string, page int) string {
	if page == 0 {
		return base
	}
	return base + "?page=" + strconv.Itoa(page)
}

func (a *App) handleIndex(c echo.Context) error {
	ctx := c.Request().Context()
	page := pageParam(c)

	latest, err := a.Content.ListPosts(ctx, 0, latestLimit)
	if err := degrade(c, "latest posts", err); err != nil {
		return err
	}

	all := latest
	if page > 0 {
		all, err = a.Content.ListPosts(ctx, page, indexPageSize)
		if err := degrade(c, "posts page", err); err != nil {
			return err
		}
	}
	grid := views.Grid{
		Cards: a.cards(all.Articles[:min(indexPageSize, len(all.Articles))]),
		Pagination: views.Paginate(page, views.TotalPages(all.Total, indexPageSize), func(p int) string {
			return pageHref(BlogPath(), p)
		}),
	}
	if isPartial(c, "posts") {
		return Render(c, a.Views.PostGrid(grid))
	}

	cats := a.Config.NavCategories()
	initial := navigator.Initial(cats)
	nav := views.NavBar{
		Pinned:            initial.Pinned,
		PlaceholderHeight: initial.PlaceholderHeight(),
		MarkerID:          navigator.MarkerID,
		NavID:             navigator.NavID,
		ActivationLine:    navigator.ActivationLine,
		DefaultHeight:     navigator.DefaultNavHeight,
		SettleDelayMS:     navigator.SettleDelay.Milliseconds(),
	}
	for _, l := range navigator.Links(cats) {
		nav.Links = append(nav.Links, views.NavLink{
			Href:    l.Href(),
			Section: string(l.Section),
			Title:   l.Title,
			Active:  l.Section == initial.ActiveSection,
		})
	}

	var sections []views.Section
	for _, cat := range a.Config.Categories {
		var posts []content.Post
		for _, p := range latest.Articles {
			if p.Category != nil && p.Category.Slug == cat.Slug && len(posts) < sectionLimit {
				posts = append(posts, p)
			}
		}
		if len(posts) == 0 {
			continue
		}
		sections = append(sections, views.Section{
			ID:    string(navigator.CategorySection(cat.Slug)),
			Title: cat.Title,
			Href:  BlogPath("category", cat.Slug),
			Cards: a.cards(posts),
		})
	}

	return Render(c, a.Views.Index(views.IndexPage{
		Site: a.siteView(),
		Meta: views.PageMeta{
			Title:       a.Config.Name,
			Description: a.Config.Description,
			URL:         a.Config.BlogURL() + "/",
			OGType:      "website",
			TwitterCard: "summary",
			JSONLD:      WebsiteJSONLD(a.Config),
		},
		Hero:     markdownHTML(a.Config.Hero),
		Browse:   a.browse(""),
		Nav:      nav,
		Featured: a.cards(latest.Articles[:min(featuredCount, len(latest.Articles))]),
		Sections: sections,
		AllPosts: grid,
	}))
}

func (a *App) handleCategories(c echo.Context) error {
	cats, err := a.Content.ListCategories(c.Request().Context())
	if err := degrade(c, "categories", err); err != nil {
		return err
	}
	cards := make([]views.CategoryCard, 0, len(cats))
	for _, cat := range cats {
		card := views.CategoryCard{
			Href:        BlogPath("category", cat.Slug),
			Title:       cat.Title,
			Description: markdownHTML(cat.Description),
		}
		if cat.PostCount != nil {
			card.Count = PostCount(*cat.PostCount)
		}
		cards = append(cards, card)
	}
	title := "Categories - " + a.Config.Name
	return Render(c, a.Views.Categories(views.CategoriesPage{
		Site: a.siteView(),
		Meta: views.PageMeta{
			Title:       title,
			Description: "Browse all blog categories. Find articles organized by topics and interests.",
			URL:         BuildURL(a.Config.BlogURL(), "category"),
			TwitterCard: "summary",
		},
		Crumbs:     []views.Crumb{{Href: BlogPath(), Label: "Blog"}, {Label: "Categories"}},
		Categories: cards,
	}))
}

func (a *App) handleCategory(c echo.Context) error {
	slug := slugParam(c)
	page := pageParam(c)
	posts, err := a.Content.ListCategoryPosts(c.Request().Context(), slug, page, categoryPageSize)
	if err := degrade(c, "category "+slug, err); err != nil {
		return err
	}
	base := BlogPath("category", slug)
	grid := views.Grid{
		Cards: a.cards(posts.Articles),
		Pagination: views.Paginate(page, views.TotalPages(posts.Total, categoryPageSize), func(p int) string {
			return pageHref(base, p)
		}),
	}
	if isPartial(c, "posts") {
		return Render(c, a.Views.PostGrid(grid))
	}

	title := a.Config.CategoryTitle(slug)
	return Render(c, a.Views.Listing(views.ListingPage{
		Site: a.siteView(),
		Meta: views.PageMeta{
			Title:       title + " - " + a.Config.Name,
			Description: "Explore articles in " + title,
			URL:         BuildURL(a.Config.BlogURL(), "category", slug),
			TwitterCard: "summary",
		},
		Title:    title,
		Subtitle: "Explore articles in " + title,
		Crumbs: []views.Crumb{
			{Href: BlogPath(), Label: "Blog"},
			{Href: BlogPath("category"), Label: "Categories"},
			{Label: title},
		},
		Browse:    a.browse(slug),
		Grid:      grid,
		Empty:     "No posts in this category yet.",
		EmptyHref: BlogPath(),
	}))
}

func (a *App) handleTags(c echo.Context) error {
	posts, err := a.Content.ListPosts(c.Request().Context(), 0, tagScanLimit)
	if err := degrade(c, "tags", err); err != nil {
		return err
	}
	seen := make(map[string]content.Tag)
	for _, p := range posts.Articles {
		for _, t := range p.Tags {
			if _, ok := seen[t.Slug]; !ok && t.Slug != "" {
				seen[t.Slug] = t
			}
		}
	}
	tags := make([]content.Tag, 0, len(seen))
	for _, t := range seen {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Title != tags[j].Title {
			return tags[i].Title < tags[j].Title
		}
		return tags[i].Slug < tags[j].Slug
	})

	return Render(c, a.Views.Tags(views.TagsPage{
		Site: a.siteView(),
		Meta: views.PageMeta{
			Title:       "Tags - " + a.Config.Name,
			Description: "Browse all blog tags. Find articles organized by topics and keywords.",
			URL:         BuildURL(a.Config.BlogURL(), "tag"),
			TwitterCard: "summary",
		},
		Crumbs: []views.Crumb{{Href: BlogPath(), Label: "Blog"}, {Label: "Tags"}},
		Tags:   tagLinks(tags),
	}))
}

func (a *App) handleTag(c echo.Context) error {
	slug := slugParam(c)
	// Tag listings are 1-indexed in their URLs.
	page := max(pageParam(c), 1)
	posts, err := a.Content.ListTagPosts(c.Request().Context(), slug, page-1, tagPageSize)
	if err := degrade(c, "tag "+slug, err); err != nil {
		return err
	}
	base := BlogPath("tag", slug)
	grid := views.Grid{
		Cards: a.cards(posts.Articles),
		Pagination: views.Paginate(page-1, views.TotalPages(posts.Total, tagPageSize), func(p int) string {
			return base + "?page=" + strconv.Itoa(p+1)
		}),
	}
	if isPartial(c, "posts") {
		return Render(c, a.Views.PostGrid(grid))
	}

	title := Deslugify(slug)
	return Render(c, a.Views.Listing(views.ListingPage{
		Site: a.siteView(),
		Meta: views.PageMeta{
			Title:       title + " - " + a.Config.Name,
			URL:         BuildURL(a.Config.BlogURL(), "tag", slug),
			TwitterCard: "summary",
		},
		Title:    "Tag: " + title,
		Subtitle: "Explore articles tagged with " + title + ". Discover insights, tips, and strategies to help you succeed.",
		Crumbs: []views.Crumb{
			{Href: BlogPath(), Label: "Blog"},
			{Href: BlogPath("tag"), Label: "Tags"},
			{Label: title},
		},
		Grid:      grid,
		Empty:     "No posts with this tag yet.",
		EmptyHref: BlogPath(),
	}))
}

func (a *App) handleArticle(c echo.Context) error {
	ctx := c.Request().Context()
	slug := slugParam(c)
	post, err := a.Content.GetPost(ctx, slug)
	switch {
	case errors.Is(err, content.ErrMissingAPIKey):
		return err
	case err != nil:
		if !errors.Is(err, content.ErrNotFound) {
			c.Logger().Errorf("fetch post %s: %v", slug, err)
		}
		noStore(c)
		return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.siteView()))
	}

	headings, body, err := article.Outline(post)
	if err != nil {
		c.Logger().Warnf("outline %s: %v", slug, err)
	}
	outline := make([]views.OutlineItem, len(headings))
	for i, h := range headings {
		outline[i] = views.OutlineItem{Href: "#" + h.ID, Text: h.Text, Level: h.Level}
	}

	related := make([]views.Related, 0, len(post.RelatedPosts))
	for _, r := range post.RelatedPosts {
		related = append(related, views.Related{Href: BlogPath(r.Slug), Headline: r.Headline, Description: r.Description})
	}
	if len(related) == 0 && len(post.Tags) > 0 {
		latest, err := a.Content.ListPosts(ctx, 0, latestLimit)
		if err := degrade(c, "related posts", err); err != nil {
			return err
		}
		for _, p := range FilterRelatedPosts(post, latest.Articles) {
			if len(related) == sectionLimit {
				break
			}
			related = append(related, views.Related{Href: BlogPath(p.Slug), Headline: p.Headline, Description: p.MetaDescription})
		}
	}

	tags := tagLinks(post.Tags)
	var allTags []views.TagLink
	if len(tags) > headerTagLimit {
		allTags = tags
	}

	var author *views.Author
	if name := strings.TrimSpace(post.Author.Name); name != "" {
		author = &views.Author{
			Name:    name,
			Image:   a.imageURL(post.Author.Image, authorImageWidth),
			Title:   post.Author.Title,
			Initial: strings.ToUpper(string([]rune(name)[0])),
		}
	}

	postURL := BuildURL(a.Config.BlogURL(), post.Slug)
	return Render(c, a.Views.Article(views.ArticlePage{
		Site: a.siteView(),
		Meta: views.PageMeta{
			Title:       post.Headline,
			Description: post.MetaDescription,
			URL:         postURL,
			OGType:      "article",
			Image:       post.Image,
			TwitterCard: "summary_large_image",
			JSONLD:      BlogPostingJSONLD(post, a.Config),
		},
		Headline:    post.Headline,
		Date:        post.Date().Format(articleDateLayout),
		ReadingTime: article.ReadingTime(post),
		Author:      author,
		Image:       post.Image,
		Body:        template.HTML(article.Sanitize(body)),
		HeaderTags:  tags[:min(headerTagLimit, len(tags))],
		AllTags:     allTags,
		Outline:     outline,
		Related:     related,
		Share:       shareLinks(postURL, post.Headline),
	}))
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Content.ListPosts(c.Request().Context(), 0, latestLimit)
	if err := degrade(c, "feed", err); err != nil {
		return err
	}
	return a.renderRSS(c, posts.Articles)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	noStore(c)
	if errors.Is(err, content.ErrMissingAPIKey) {
		c.Logger().Error(err)
		msg := strings.TrimPrefix(err.Error(), "content: ")
		_ = RenderStatus(c, http.StatusInternalServerError, a.Views.ServerError(a.siteView(), msg))
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.siteView()))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError(a.siteView(), "Something went wrong. Please try again later."))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
