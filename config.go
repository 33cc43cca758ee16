package blogfront

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/eringen/blogfront/content"
	"github.com/eringen/blogfront/navigator"
)

// EnvPrefix prefixes environment overrides, e.g. BLOGFRONT_ADDR.
const EnvPrefix = "BLOGFRONT_"

// CategoryConfig is a category shown in the browse row and the index
// section navigation.
type CategoryConfig struct {
	Slug  string `koanf:"slug"`
	Title string `koanf:"title"`
}

// SiteConfig holds all configuration for a blogfront site.
type SiteConfig struct {
	Name        string `koanf:"name"`        // Site name used in titles (default "Lightweight Blog")
	URL         string `koanf:"url"`         // Canonical URL (default "http://localhost:3000")
	BlogTitle   string `koanf:"blog_title"`  // Index heading
	Description string `koanf:"description"` // Meta description and feed description
	Hero        string `koanf:"hero"`        // Markdown under the index heading
	Author      string `koanf:"author"`      // Publisher name for JSON-LD

	Addr     string `koanf:"addr"`      // Listen address (default ":3000")
	LogLevel string `koanf:"log_level"` // debug, info, warn, error (default "info")

	APIKey     string        `koanf:"api_key"`      // Content API key
	APIBaseURL string        `koanf:"api_base_url"` // Content API root
	CacheTTL   time.Duration `koanf:"cache_ttl"`    // Response cache TTL (default 5min)

	Categories []CategoryConfig `koanf:"categories"` // Featured categories, in display order

	ImageHosts        []string `koanf:"image_hosts"`         // Hosts the image optimiser may fetch from; empty disables it
	ImageWidths       []int    `koanf:"image_widths"`        // Allowed thumbnail widths (default 400, 800, 1200)
	ImageDatabasePath string   `koanf:"image_database_path"` // SQLite path (default "data/images.db")
	ImageRateLimit    int      `koanf:"image_rate_limit"`    // Uncached image requests per IP per minute (default 60)
}

// DefaultCategories are the categories the blog ships with.
var DefaultCategories = []CategoryConfig{
	{Slug: "facebook", Title: "Facebook"},
	{Slug: "instagram", Title: "Instagram"},
	{Slug: "linkedin", Title: "Linkedin"},
	{Slug: "misc.", Title: "Misc."},
	{Slug: "tiktok", Title: "TikTok"},
	{Slug: "twitter/x", Title: "Twitter/X"},
	{Slug: "youtube", Title: "Youtube"},
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Lightweight Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.URL = strings.TrimRight(c.URL, "/")
	if c.BlogTitle == "" {
		c.BlogTitle = "The post bridge blog"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = content.DefaultBaseURL
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 5 * time.Minute
	}
	if c.Categories == nil {
		c.Categories = DefaultCategories
	}
	for i, h := range c.ImageHosts {
		c.ImageHosts[i] = strings.ToLower(strings.TrimSpace(h))
	}
	if len(c.ImageWidths) == 0 {
		c.ImageWidths = []int{400, 800, 1200}
	}
	if c.ImageDatabasePath == "" {
		c.ImageDatabasePath = "data/images.db"
	}
	if c.ImageRateLimit == 0 {
		c.ImageRateLimit = 60
	}
}

// BlogURL is the root of the blog section, without a trailing slash.
func (c SiteConfig) BlogURL() string {
	return c.URL + "/blog"
}

// NavCategories converts the featured categories for the section navigator.
func (c SiteConfig) NavCategories() []navigator.Category {
	out := make([]navigator.Category, len(c.Categories))
	for i, cat := range c.Categories {
		out[i] = navigator.Category{Slug: cat.Slug, Title: cat.Title}
	}
	return out
}

// CategoryTitle returns the configured title for slug, or the slug itself.
func (c SiteConfig) CategoryTitle(slug string) string {
	for _, cat := range c.Categories {
		if cat.Slug == slug {
			return cat.Title
		}
	}
	return slug
}

// LoadConfig reads configuration from the YAML file at path when it exists,
// then overlays BLOGFRONT_* environment variables. The API key also falls
// back to LIGHTWEIGHT_API_KEY and NEXT_PUBLIC_LIGHTWEIGHT_API_KEY.
func LoadConfig(path string) (SiteConfig, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return SiteConfig{}, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return SiteConfig{}, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return SiteConfig{}, fmt.Errorf("loading env overrides: %w", err)
	}

	var cfg SiteConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if cfg.APIKey == "" {
		cfg.APIKey = EnvOr("LIGHTWEIGHT_API_KEY", os.Getenv("NEXT_PUBLIC_LIGHTWEIGHT_API_KEY"))
	}
	cfg.setDefaults()
	return cfg, cfg.Validate()
}

// Validate checks values that defaults cannot repair.
func (c SiteConfig) Validate() error {
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl must be non-negative")
	}
	for _, w := range c.ImageWidths {
		if w <= 0 || w > 4096 {
			return fmt.Errorf("invalid image width %d", w)
		}
	}
	for _, cat := range c.Categories {
		if strings.TrimSpace(cat.Slug) == "" {
			return fmt.Errorf("category %q has no slug", cat.Title)
		}
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithProvider replaces the HTTP content client, e.g. with a fixture.
func WithProvider(p content.Provider) Option {
	return func(a *App) {
		a.provider = p
	}
}

// WithViews replaces the default page renderers.
func WithViews(v ViewFuncs) Option {
	return func(a *App) {
		a.Views = v
	}
}
