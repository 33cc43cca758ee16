// Package article prepares post bodies from the content API for rendering.
package article

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"

	"github.com/eringen/blogfront/content"
)

// DefaultReadingTime is used when a post has neither a reading time nor a body.
const DefaultReadingTime = 5

var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("id").Globally()
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^[\w\- ]+$`)).Globally()
	p.AllowAttrs("loading", "width", "height").OnElements("img")
	p.AllowAttrs("target").Matching(regexp.MustCompile(`^_blank$`)).OnElements("a")
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// Sanitize strips scripts, handlers and unsafe URLs from body HTML.
func Sanitize(html string) string {
	return policy.Sanitize(html)
}

// ReadingTime returns the post's reading time in minutes, estimating one
// minute per thousand bytes of body when the API does not supply one.
func ReadingTime(p content.Post) int {
	if p.ReadingTime > 0 {
		return p.ReadingTime
	}
	if n := len(p.HTML); n > 0 {
		return int(math.Ceil(float64(n) / 1000))
	}
	return DefaultReadingTime
}

// Outline returns the post's navigation menu, deriving one from h1-h3
// headings in the body when the API sent none. Headings without an id get
// one from their text; the rewritten body is returned alongside.
func Outline(p content.Post) ([]content.Heading, string, error) {
	if len(p.NavigationMenu) > 0 {
		return p.NavigationMenu, p.HTML, nil
	}
	if strings.TrimSpace(p.HTML) == "" {
		return nil, p.HTML, nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(p.HTML))
	if err != nil {
		return nil, p.HTML, err
	}

	var headings []content.Heading
	seen := make(map[string]int)
	doc.Find("h1, h2, h3").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		id, ok := s.Attr("id")
		if !ok || id == "" {
			base := anchor(text)
			if base == "" {
				base = "section-" + strconv.Itoa(len(headings)+1)
			}
			id = base
			if n := seen[base]; n > 0 {
				id += "-" + strconv.Itoa(n+1)
			}
			seen[base]++
			s.SetAttr("id", id)
		}
		headings = append(headings, content.Heading{
			ID:    id,
			Text:  text,
			Level: int(goquery.NodeName(s)[1] - '0'),
		})
	})
	if len(headings) == 0 {
		return nil, p.HTML, nil
	}
	body, err := doc.Find("body").Html()
	if err != nil {
		return nil, p.HTML, err
	}
	return headings, body, nil
}

// anchor lower-cases s and joins its runs of letters and digits with dashes.
func anchor(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	dash := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
