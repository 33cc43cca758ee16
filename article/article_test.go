package article

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/blogfront/content"
)

func TestReadingTime(t *testing.T) {
	tests := []struct {
		name string
		post content.Post
		want int
	}{
		{"api value", content.Post{ReadingTime: 7, HTML: "x"}, 7},
		{"estimated", content.Post{HTML: strings.Repeat("a", 2500)}, 3},
		{"short body", content.Post{HTML: "<p>hi</p>"}, 1},
		{"empty", content.Post{}, DefaultReadingTime},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReadingTime(tt.post))
		})
	}
}

func TestSanitize(t *testing.T) {
	got := Sanitize(`<h2 id="intro">Intro</h2><script>alert(1)</script><p onclick="x()">Body</p>`)
	assert.Contains(t, got, `<h2 id="intro">Intro</h2>`)
	assert.NotContains(t, got, "script")
	assert.NotContains(t, got, "onclick")
}

func TestOutlineUsesNavigationMenu(t *testing.T) {
	menu := []content.Heading{{ID: "a", Text: "A", Level: 1}}
	got, body, err := Outline(content.Post{HTML: "<h2>B</h2>", NavigationMenu: menu})
	require.NoError(t, err)
	assert.Equal(t, menu, got)
	assert.Equal(t, "<h2>B</h2>", body)
}

func TestOutlineFromHeadings(t *testing.T) {
	html := `<h1>Getting Started</h1><p>x</p><h2 id="setup">Setup</h2><h3>Next steps</h3><h3>Next steps</h3><h4>Ignored</h4>`
	got, body, err := Outline(content.Post{HTML: html})
	require.NoError(t, err)
	assert.Equal(t, []content.Heading{
		{ID: "getting-started", Text: "Getting Started", Level: 1},
		{ID: "setup", Text: "Setup", Level: 2},
		{ID: "next-steps", Text: "Next steps", Level: 3},
		{ID: "next-steps-2", Text: "Next steps", Level: 3},
	}, got)
	assert.Contains(t, body, `<h1 id="getting-started">`)
	assert.Contains(t, body, `<h3 id="next-steps-2">`)
}

func TestOutlineNonASCIIHeadings(t *testing.T) {
	html := `<h2>日本語の見出し</h2><p>x</p><h2>Ünïcödé Über</h2><h2>Привет</h2><h2>!!!</h2><h2>Привет</h2>`
	got, body, err := Outline(content.Post{HTML: html})
	require.NoError(t, err)

	ids := make([]string, len(got))
	for i, h := range got {
		ids[i] = h.ID
	}
	assert.Equal(t, []string{"日本語の見出し", "ünïcödé-über", "привет", "section-4", "привет-2"}, ids)
	assert.Contains(t, body, `<h2 id="日本語の見出し">`)
	assert.Contains(t, body, `<h2 id="section-4">`)
	assert.NotContains(t, body, `id=""`)
}

func TestOutlineEmpty(t *testing.T) {
	got, body, err := Outline(content.Post{HTML: "<p>no headings</p>"})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, "<p>no headings</p>", body)
}
