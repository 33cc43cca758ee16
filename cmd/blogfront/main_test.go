package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/blogfront"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "blogfront dev\n", out)
}

func TestNewWritesLoadableConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "growth-blog")

	out, err := execute(t, "new", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "created "+filepath.Join(dir, "blogfront.yaml"))

	for _, name := range []string{"blogfront.yaml", ".env.example", filepath.Join("public", "robots.txt")} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	cfg, err := blogfront.LoadConfig(filepath.Join(dir, "blogfront.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "Growth Blog", cfg.Name)
	assert.Equal(t, "The Growth Blog blog", cfg.BlogTitle)
	assert.Len(t, cfg.Categories, 7)
	assert.Equal(t, "twitter/x", cfg.Categories[5].Slug)
	assert.Empty(t, cfg.ImageHosts)

	_, err = execute(t, "new", dir)
	assert.ErrorContains(t, err, "already exists")
}

func TestSitemapWithoutAPIKey(t *testing.T) {
	t.Setenv("LIGHTWEIGHT_API_KEY", "")
	t.Setenv("NEXT_PUBLIC_LIGHTWEIGHT_API_KEY", "")
	t.Setenv("BLOGFRONT_API_KEY", "")

	out, err := execute(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "sitemap")
	require.NoError(t, err)
	assert.Contains(t, out, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"></urlset>`)
}
