package views

import "html/template"

// SiteConfig holds site-wide settings every page template reads.
type SiteConfig struct {
	Name        string // site name used in titles
	URL         string // canonical site root, e.g. https://lightweight.so
	BlogTitle   string // hero heading on the index page
	Description string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string
	TwitterCard string
	JSONLD      template.JS
}

// Card is a post summary in a listing grid.
type Card struct {
	Href          string
	Headline      string
	Description   string
	Image         string
	CategoryTitle string
	AuthorName    string
	AuthorImage   string
	Date          string
}

// CategoryLink is a pill in the "browse by category" row.
type CategoryLink struct {
	Href   string
	Title  string
	Active bool
}

// NavLink is one entry of the index page's section navigation.
type NavLink struct {
	Href    string
	Section string
	Title   string
	Active  bool
}

// NavBar is the server-rendered state of the section navigation plus the
// parameters the client script uses to keep it in sync while scrolling.
type NavBar struct {
	Links             []NavLink
	Pinned            bool
	PlaceholderHeight float64
	MarkerID          string
	NavID             string
	ActivationLine    float64
	DefaultHeight     float64
	SettleDelayMS     int64
}

// Section is a titled group of cards on the index page.
type Section struct {
	ID    string
	Title string
	Href  string
	Cards []Card
}

// IndexPage is the blog landing page.
type IndexPage struct {
	Site     SiteConfig
	Meta     PageMeta
	Hero     template.HTML
	Browse   []CategoryLink
	Nav      NavBar
	Featured []Card
	Sections []Section
	AllPosts Grid
}

// Grid is a page of cards with its pager.
type Grid struct {
	Cards      []Card
	Pagination Pagination
}

// Crumb is a breadcrumb entry; the last one is rendered as plain text.
type Crumb struct {
	Href  string
	Label string
}

// ListingPage is a paginated list of posts for a category or tag.
type ListingPage struct {
	Site      SiteConfig
	Meta      PageMeta
	Title     string
	Subtitle  string
	Crumbs    []Crumb
	Browse    []CategoryLink
	Grid      Grid
	Empty     string
	EmptyHref string
}

// CategoryCard is an entry of the category index.
type CategoryCard struct {
	Href        string
	Title       string
	Description template.HTML
	Count       string
}

// CategoriesPage lists every category.
type CategoriesPage struct {
	Site       SiteConfig
	Meta       PageMeta
	Crumbs     []Crumb
	Categories []CategoryCard
}

// TagLink links to a tag listing.
type TagLink struct {
	Href  string
	Title string
}

// TagsPage lists known tags.
type TagsPage struct {
	Site   SiteConfig
	Meta   PageMeta
	Crumbs []Crumb
	Tags   []TagLink
}

// Author is an article byline.
type Author struct {
	Name    string
	Image   string
	Title   string
	Initial string
}

// OutlineItem is an "on this page" link.
type OutlineItem struct {
	Href  string
	Text  string
	Level int
}

// Related links to another article.
type Related struct {
	Href        string
	Headline    string
	Description string
}

// Share holds prebuilt share URLs for an article.
type Share struct {
	URL      string
	Twitter  string
	LinkedIn string
}

// ArticlePage is a single post.
type ArticlePage struct {
	Site        SiteConfig
	Meta        PageMeta
	Headline    string
	Date        string
	ReadingTime int
	Author      *Author
	Image       string
	Body        template.HTML
	HeaderTags  []TagLink
	AllTags     []TagLink
	Outline     []OutlineItem
	Related     []Related
	Share       Share
}
