package content

import "time"

// Post is an article as returned by the content API.
type Post struct {
	ID              string     `json:"id"`
	Slug            string     `json:"slug"`
	Headline        string     `json:"headline"`
	MetaDescription string     `json:"metaDescription"`
	HTML            string     `json:"html"`
	Image           string     `json:"image"`
	Author          Author     `json:"author"`
	Category        *Category  `json:"category,omitempty"`
	Tags            []Tag      `json:"tags"`
	PublishedAt     *time.Time `json:"publishedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	ReadingTime     int        `json:"readingTime,omitempty"`
	RelatedPosts    []Related  `json:"relatedPosts,omitempty"`
	NavigationMenu  []Heading  `json:"navigationMenu,omitempty"`
}

// Date is the publication time, falling back to the creation time.
func (p Post) Date() time.Time {
	if p.PublishedAt != nil && !p.PublishedAt.IsZero() {
		return *p.PublishedAt
	}
	return p.CreatedAt
}

// Author is the byline of a post.
type Author struct {
	Name  string `json:"name"`
	Image string `json:"image"`
	Title string `json:"title"`
}

// Category groups posts. Description and PostCount are only populated by the
// category listing endpoint.
type Category struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	PostCount   *int   `json:"postCount,omitempty"`
}

// Tag labels a post.
type Tag struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// Related is a short reference to another post.
type Related struct {
	Slug        string `json:"slug"`
	Headline    string `json:"headline"`
	Description string `json:"description"`
}

// Heading is one entry of an article outline.
type Heading struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// Page is one page of a post listing.
type Page struct {
	Articles []Post `json:"articles"`
	Total    int    `json:"total"`
}
