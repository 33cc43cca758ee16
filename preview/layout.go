// Package preview renders the blog index in a terminal and drives the
// section navigator from keyboard and mouse scrolling.
package preview

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/eringen/blogfront/content"
	"github.com/eringen/blogfront/navigator"
)

// RowHeight is the pixel height assigned to one terminal row when the
// navigator measures the screen.
const RowHeight = 20.0

const (
	featuredCount = 2
	sectionLimit  = 3
	allPostsLimit = 9
)

// Section is a titled block of post lines.
type Section struct {
	ID    navigator.SectionID
	Title string
	Lines []string
}

// Page is the index content to preview.
type Page struct {
	Title      string
	Categories []navigator.Category
	Sections   []Section
}

// FromPosts arranges the latest posts the way the index page does:
// featured posts, one section per category that has posts, then all posts.
func FromPosts(title string, categories []navigator.Category, posts []content.Post) Page {
	p := Page{Title: title, Categories: categories}
	if n := min(featuredCount, len(posts)); n > 0 {
		p.Sections = append(p.Sections, Section{
			ID:    navigator.FeaturedSection,
			Title: "Latest",
			Lines: postLines(posts[:n]),
		})
	}
	for _, cat := range categories {
		var matched []content.Post
		for _, post := range posts {
			if post.Category != nil && post.Category.Slug == cat.Slug && len(matched) < sectionLimit {
				matched = append(matched, post)
			}
		}
		if len(matched) == 0 {
			continue
		}
		p.Sections = append(p.Sections, Section{
			ID:    navigator.CategorySection(cat.Slug),
			Title: cat.Title,
			Lines: postLines(matched),
		})
	}
	p.Sections = append(p.Sections, Section{
		ID:    navigator.AllPostsSection,
		Title: "All Posts",
		Lines: postLines(posts[:min(allPostsLimit, len(posts))]),
	})
	return p
}

func postLines(posts []content.Post) []string {
	lines := make([]string, 0, len(posts))
	for _, p := range posts {
		meta := humanize.Time(p.Date())
		if p.Author.Name != "" {
			meta = p.Author.Name + ", " + meta
		}
		lines = append(lines, fmt.Sprintf("  • %s (%s)", p.Headline, meta))
	}
	return lines
}

// Span is a half-open range of document rows.
type Span struct {
	Start, End int
}

// Layout is the document as terminal rows. Row Marker holds the navigation
// bar while it is in normal flow and its placeholder while pinned.
type Layout struct {
	Rows   []string
	Marker int
	Spans  map[navigator.SectionID]Span
}

// NewLayout lays out p one row per line.
func NewLayout(p Page) Layout {
	l := Layout{Spans: make(map[navigator.SectionID]Span)}
	l.Rows = append(l.Rows, p.Title, "")
	if len(p.Categories) > 0 {
		titles := make([]string, len(p.Categories))
		for i, c := range p.Categories {
			titles[i] = c.Title
		}
		l.Rows = append(l.Rows, "Browse: "+strings.Join(titles, " · "), "")
	}
	l.Marker = len(l.Rows)
	l.Rows = append(l.Rows, "", "")
	for _, s := range p.Sections {
		start := len(l.Rows)
		l.Rows = append(l.Rows, "## "+s.Title)
		l.Rows = append(l.Rows, s.Lines...)
		if len(s.Lines) == 0 {
			l.Rows = append(l.Rows, "  No posts yet.")
		}
		l.Rows = append(l.Rows, "")
		l.Spans[s.ID] = Span{Start: start, End: len(l.Rows)}
	}
	return l
}

// Screen answers the navigator's layout queries for a terminal showing a
// header row followed by the document scrolled to Offset.
type Screen struct {
	Layout Layout
	Offset int
	Pinned bool
}

var _ navigator.Viewport = (*Screen)(nil)

// top converts a document row to pixels below the top of the terminal.
func (s *Screen) top(row int) float64 {
	return float64(row-s.Offset+1) * RowHeight
}

// Rect implements navigator.Viewport.
func (s *Screen) Rect(id string) (navigator.Rect, bool) {
	switch id {
	case navigator.MarkerID:
		t := s.top(s.Layout.Marker)
		return navigator.Rect{Top: t, Bottom: t}, true
	case navigator.NavID:
		if s.Pinned {
			return navigator.Rect{Top: 0, Bottom: RowHeight}, true
		}
		t := s.top(s.Layout.Marker)
		return navigator.Rect{Top: t, Bottom: t + RowHeight}, true
	}
	span, ok := s.Layout.Spans[navigator.SectionID(id)]
	if !ok {
		return navigator.Rect{}, false
	}
	return navigator.Rect{Top: s.top(span.Start), Bottom: s.top(span.End)}, true
}
