package blogfront

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func imageServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	body := pngBytes(t, 1600, 800)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/broken.png":
			w.Write([]byte("not an image"))
		case "/missing.png":
			http.NotFound(w, r)
		default:
			w.Header().Set("Content-Type", "image/png")
			w.Write(body)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func imageConfig(t *testing.T, srv *httptest.Server) SiteConfig {
	t.Helper()
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	cfg := testConfig()
	cfg.ImageHosts = []string{u.Hostname()}
	cfg.ImageDatabasePath = filepath.Join(t.TempDir(), "images.db")
	return cfg
}

func imagePath(src string, w string) string {
	q := url.Values{}
	q.Set("src", src)
	q.Set("w", w)
	return "/img/?" + q.Encode()
}

func TestClampWidth(t *testing.T) {
	app := New(SiteConfig{ImageWidths: []int{1200, 400, 800}})
	tests := []struct {
		in, want int
	}{
		{1, 400},
		{400, 400},
		{401, 800},
		{800, 800},
		{1000, 1200},
		{5000, 1200},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, app.clampWidth(tt.in), "width %d", tt.in)
	}
}

func TestAllowedSource(t *testing.T) {
	app := New(SiteConfig{ImageHosts: []string{" CDN.example.com "}})
	assert.NoError(t, app.allowedSource("https://cdn.example.com/a.png"))
	assert.NoError(t, app.allowedSource("http://CDN.example.com/a.png"))
	assert.Error(t, app.allowedSource("https://evil.example.com/a.png"))
	assert.Error(t, app.allowedSource("ftp://cdn.example.com/a.png"))
	assert.Error(t, app.allowedSource("/local.png"))
}

func TestImageURL(t *testing.T) {
	app := New(SiteConfig{ImageHosts: []string{"cdn.example.com"}})
	assert.Equal(t, "/img/?src=https%3A%2F%2Fcdn.example.com%2Fa.png&w=800",
		app.imageURL("https://cdn.example.com/a.png", 700))
	assert.Equal(t, "https://other.example.com/a.png", app.imageURL("https://other.example.com/a.png", 700))
	assert.Equal(t, "", app.imageURL("", 700))

	disabled := New(SiteConfig{})
	assert.Equal(t, "https://cdn.example.com/a.png", disabled.imageURL("https://cdn.example.com/a.png", 700))
}

func TestResizeImage(t *testing.T) {
	data, height, err := resizeImage(bytes.NewReader(pngBytes(t, 1600, 800)), 400)
	require.NoError(t, err)
	assert.Equal(t, 200, height)
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 400, cfg.Width)
	assert.Equal(t, 200, cfg.Height)

	_, height, err = resizeImage(bytes.NewReader(pngBytes(t, 300, 150)), 400)
	require.NoError(t, err)
	assert.Equal(t, 150, height, "narrow images are not upscaled")

	data, height, err = resizeImage(bytes.NewReader(pngBytes(t, 4000, 5)), 400)
	require.NoError(t, err)
	assert.Equal(t, 1, height, "very wide images keep at least one row")
	cfg, err = jpeg.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 400, cfg.Width)
	assert.Equal(t, 1, cfg.Height)

	_, _, err = resizeImage(bytes.NewReader([]byte("nope")), 400)
	assert.Error(t, err)
}

func TestImageHandlerCachesThumbnails(t *testing.T) {
	srv, hits := imageServer(t)
	app := newTestApp(t, imageConfig(t, srv), WithProvider(&fakeProvider{}))
	src := srv.URL + "/cover.png"

	rec := do(t, app, imagePath(src, "500"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=31536000, immutable", rec.Header().Get("Cache-Control"))
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 400, cfg.Height)

	rec = do(t, app, imagePath(src, "800"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int32(1), hits.Load())

	thumb, err := app.Images.Get(context.Background(), src, 800)
	require.NoError(t, err)
	assert.Equal(t, 400, thumb.Height)
}

func TestImageHandlerErrors(t *testing.T) {
	srv, _ := imageServer(t)
	app := newTestApp(t, imageConfig(t, srv), WithProvider(&fakeProvider{}))

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"host not allowed", imagePath("https://evil.example.com/a.png", "400"), http.StatusBadRequest},
		{"bad width", imagePath(srv.URL+"/a.png", "wide"), http.StatusBadRequest},
		{"zero width", imagePath(srv.URL+"/a.png", "0"), http.StatusBadRequest},
		{"upstream 404", imagePath(srv.URL+"/missing.png", "400"), http.StatusBadGateway},
		{"not an image", imagePath(srv.URL+"/broken.png", "400"), http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, app, tt.target)
			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
		})
	}
}

func TestImageHandlerRateLimit(t *testing.T) {
	srv, hits := imageServer(t)
	cfg := imageConfig(t, srv)
	cfg.ImageRateLimit = 1
	app := newTestApp(t, cfg, WithProvider(&fakeProvider{}))

	require.Equal(t, http.StatusOK, do(t, app, imagePath(srv.URL+"/a.png", "400")).Code)
	// Cached thumbnails bypass the limiter.
	require.Equal(t, http.StatusOK, do(t, app, imagePath(srv.URL+"/a.png", "400")).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(t, app, imagePath(srv.URL+"/b.png", "400")).Code)
	assert.Equal(t, int32(1), hits.Load())
}

func TestImagesDisabledWithoutHosts(t *testing.T) {
	app := newTestApp(t, testConfig(), WithProvider(&fakeProvider{}))
	assert.Nil(t, app.Images)
	assert.Equal(t, http.StatusNotFound, do(t, app, "/img/?src=x&w=400").Code)
}

func TestCardsUseOptimisedImages(t *testing.T) {
	srv, _ := imageServer(t)
	posts := makePosts(1)
	posts[0].Image = srv.URL + "/cover.png"
	posts[0].Author.Image = "https://elsewhere.example.com/ada.png"
	app := newTestApp(t, imageConfig(t, srv), WithProvider(&fakeProvider{posts: posts}))

	doc := parse(t, do(t, app, "/blog/"))
	card := doc.Find("#featured-posts article")
	assert.Equal(t, imagePath(srv.URL+"/cover.png", "800"), card.Find("img").First().AttrOr("src", ""))
	assert.Equal(t, "https://elsewhere.example.com/ada.png", card.Find("img").Last().AttrOr("src", ""))
}
