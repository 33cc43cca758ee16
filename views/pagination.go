package views

import "strconv"

// MaxPageLinks is how many leading page links a pager shows before
// collapsing to an ellipsis and the last page.
const MaxPageLinks = 5

// PageLink is a numbered pager entry.
type PageLink struct {
	Label  string
	Href   string
	Active bool
}

// Pagination is the pager under a post grid. An empty PrevHref or NextHref
// renders the control disabled.
type Pagination struct {
	Show     bool
	PrevHref string
	NextHref string
	Pages    []PageLink
	Ellipsis bool
	Last     *PageLink
}

// Paginate builds a pager for a 0-indexed current page. href maps a
// 0-indexed page to its URL.
func Paginate(current, totalPages int, href func(page int) string) Pagination {
	if totalPages <= 1 {
		return Pagination{}
	}
	p := Pagination{Show: true}
	if current > 0 {
		p.PrevHref = href(current - 1)
	}
	if current < totalPages-1 {
		p.NextHref = href(current + 1)
	}
	for i := 0; i < min(MaxPageLinks, totalPages); i++ {
		p.Pages = append(p.Pages, PageLink{
			Label:  strconv.Itoa(i + 1),
			Href:   href(i),
			Active: i == current,
		})
	}
	if totalPages > MaxPageLinks {
		p.Ellipsis = true
		p.Last = &PageLink{
			Label:  strconv.Itoa(totalPages),
			Href:   href(totalPages - 1),
			Active: current == totalPages-1,
		}
	}
	return p
}

// TotalPages returns ceil(total/pageSize).
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
