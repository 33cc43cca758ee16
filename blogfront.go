// Package blogfront serves a marketing blog whose posts live in a hosted
// content API. It renders the index, category and tag listings, articles,
// a sitemap and an RSS feed, and ships the client script that keeps the
// index page's section navigation in sync with scrolling.
//
// Pages are rendered through the ViewFuncs struct so sites can replace any
// template while blogfront keeps the handler logic, caching and middleware.
package blogfront

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/eringen/blogfront/content"
	"github.com/eringen/blogfront/views"
)

// ViewFuncs holds the components the framework calls when rendering pages.
type ViewFuncs struct {
	Index       func(p views.IndexPage) templ.Component
	PostGrid    func(g views.Grid) templ.Component
	Listing     func(p views.ListingPage) templ.Component
	Categories  func(p views.CategoriesPage) templ.Component
	Tags        func(p views.TagsPage) templ.Component
	Article     func(p views.ArticlePage) templ.Component
	NotFound    func(site views.SiteConfig) templ.Component
	ServerError func(site views.SiteConfig, message string) templ.Component
}

// DefaultViews returns the built-in page renderers.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Index:       views.Index,
		PostGrid:    views.PostGrid,
		Listing:     views.Listing,
		Categories:  views.Categories,
		Tags:        views.Tags,
		Article:     views.Article,
		NotFound:    views.NotFound,
		ServerError: views.ServerError,
	}
}

// App is the central blogfront application. It wires together the content
// client, caches, handlers and middleware.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Content *ContentCache
	Images  *ImageStore
	Views   ViewFuncs

	provider     content.Provider
	live         bool
	imageLimiter *RateLimiter
	stopSweep    func()
	imageClient  *http.Client
	metrics      *prometheus.Registry
	customRoutes []func(*App)
	staticDir    string
}

// New creates a blogfront App. Without an API key or WithProvider option the
// app still starts: content routes fail with content.ErrMissingAPIKey and
// the sitemap is empty.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:      cfg,
		Echo:        echo.New(),
		Views:       DefaultViews(),
		staticDir:   "public",
		imageClient: &http.Client{Timeout: 10 * time.Second},
		metrics:     newMetricsRegistry(),
	}
	a.Echo.HideBanner = true
	a.Echo.Logger.SetLevel(parseLogLevel(cfg.LogLevel))

	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Init builds the content client, opens the image store and registers
// middleware and routes. Start calls it; tests may call it directly and
// drive a.Echo with httptest.
func (a *App) Init() error {
	if a.provider == nil {
		client, err := content.NewClient(a.Config.APIKey, content.WithBaseURL(a.Config.APIBaseURL))
		switch {
		case errors.Is(err, content.ErrMissingAPIKey):
			a.Echo.Logger.Warn(err)
			a.provider = missingKey{}
		case err != nil:
			return fmt.Errorf("blogfront: content client: %w", err)
		default:
			a.provider = client
			a.live = true
		}
	} else {
		_, missing := a.provider.(missingKey)
		a.live = !missing
	}
	a.Content = NewContentCache(a.provider, a.Config.CacheTTL)
	a.stopSweep = a.Content.StartSweeper(a.Config.CacheTTL)

	if a.imagesEnabled() {
		store, err := NewImageStore(a.Config.ImageDatabasePath)
		if err != nil {
			return fmt.Errorf("blogfront: init image store: %w", err)
		}
		a.Images = store
		a.imageLimiter = NewRateLimiter(a.Config.ImageRateLimit, time.Minute)
	}

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start initializes the app and serves until the server stops.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	if a.Images != nil {
		stop := a.Images.StartPruneScheduler(30*24*time.Hour, 24*time.Hour, a.Echo.Logger.Errorf)
		defer stop()
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Framework assets are served under /public/ ahead of the user's static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/blognav.js", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))
	e.Static("/public", a.staticDir)

	e.GET("/", handleRootRedirect)
	e.GET("/blog/", a.handleIndex)
	e.GET("/blog/sitemap.xml", a.handleSitemap)
	e.GET("/blog/feed.xml", a.handleFeed)
	e.GET("/blog/category/", a.handleCategories)
	e.GET("/blog/category/:slug/", a.handleCategory)
	e.GET("/blog/tag/", a.handleTags)
	e.GET("/blog/tag/:slug/", a.handleTag)
	e.GET("/blog/:slug/", a.handleArticle)

	if a.Images != nil {
		e.GET("/img/", a.handleImage)
	}
	e.GET("/metrics", a.metricsHandler())
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.stopSweep != nil {
		a.stopSweep()
	}
	if a.imageLimiter != nil {
		a.imageLimiter.Stop()
	}
	if a.Images != nil {
		return a.Images.Close()
	}
	return nil
}

func (a *App) siteView() views.SiteConfig {
	return views.SiteConfig{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		BlogTitle:   a.Config.BlogTitle,
		Description: a.Config.Description,
	}
}

func parseLogLevel(s string) log.Lvl {
	switch s {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}
