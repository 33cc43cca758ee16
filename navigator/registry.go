package navigator

// SectionID identifies a scrollable content section on the index page.
type SectionID string

const (
	FeaturedSection SectionID = "featured-posts"
	AllPostsSection SectionID = "all-posts"
)

// Category seeds one section of the registry.
type Category struct {
	Slug  string
	Title string
}

// CategorySection returns the section id for a category slug.
func CategorySection(slug string) SectionID {
	return SectionID("category-" + slug)
}

// NewRegistry returns the featured section, one section per category in
// input order, then the all-posts section.
func NewRegistry(categories []Category) []SectionID {
	ids := make([]SectionID, 0, len(categories)+2)
	ids = append(ids, FeaturedSection)
	for _, c := range categories {
		ids = append(ids, CategorySection(c.Slug))
	}
	return append(ids, AllPostsSection)
}

// Link is one entry of the rendered navigation bar.
type Link struct {
	Section SectionID
	Title   string
}

// Href is the in-page anchor for the link.
func (l Link) Href() string {
	return "#" + string(l.Section)
}

// Links returns the navigation entries in registry order.
func Links(categories []Category) []Link {
	links := make([]Link, 0, len(categories)+2)
	links = append(links, Link{Section: FeaturedSection, Title: "Latest"})
	for _, c := range categories {
		links = append(links, Link{Section: CategorySection(c.Slug), Title: c.Title})
	}
	return append(links, Link{Section: AllPostsSection, Title: "All Posts"})
}
