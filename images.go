package blogfront

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
)

const (
	jpegQuality     = 80
	maxSourceSize   = 10 << 20 // 10MB
	thumbnailMaxAge = "public, max-age=31536000, immutable"
)

func (a *App) imagesEnabled() bool {
	return len(a.Config.ImageHosts) > 0
}

// imageURL returns the optimiser URL for src at width, or src unchanged when
// the optimiser is disabled or the host is not allowed.
func (a *App) imageURL(src string, width int) string {
	if src == "" || !a.imagesEnabled() || a.allowedSource(src) != nil {
		return src
	}
	q := url.Values{}
	q.Set("src", src)
	q.Set("w", strconv.Itoa(a.clampWidth(width)))
	return "/img/?" + q.Encode()
}

func (a *App) allowedSource(src string) error {
	u, err := url.Parse(src)
	if err != nil {
		return err
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if !slices.Contains(a.Config.ImageHosts, strings.ToLower(u.Hostname())) {
		return fmt.Errorf("host %q not allowed", u.Hostname())
	}
	return nil
}

// clampWidth returns the smallest allowed width >= w, or the largest allowed.
func (a *App) clampWidth(w int) int {
	widths := slices.Clone(a.Config.ImageWidths)
	slices.Sort(widths)
	for _, allowed := range widths {
		if w <= allowed {
			return allowed
		}
	}
	return widths[len(widths)-1]
}

// resizeImage decodes src, scales it down to width when wider and encodes
// it as JPEG.
func resizeImage(src io.Reader, width int) ([]byte, int, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, 0, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > width {
		newH := max(h*width/w, 1)
		dst := image.NewRGBA(image.Rect(0, 0, width, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		h = newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, 0, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), h, nil
}

func (a *App) handleImage(c echo.Context) error {
	src := c.QueryParam("src")
	if err := a.allowedSource(src); err != nil {
		return imageError(c, http.StatusBadRequest, "Invalid image source")
	}
	w, err := strconv.Atoi(c.QueryParam("w"))
	if err != nil || w <= 0 {
		return imageError(c, http.StatusBadRequest, "Invalid width")
	}
	width := a.clampWidth(w)
	ctx := c.Request().Context()

	thumb, err := a.Images.Get(ctx, src, width)
	switch {
	case err == nil:
		return serveThumbnail(c, thumb)
	case !errors.Is(err, ErrNoThumbnail):
		return err
	}

	if !a.imageLimiter.Allow(c.RealIP()) {
		return imageError(c, http.StatusTooManyRequests, "Too many image requests. Try again later.")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return imageError(c, http.StatusBadRequest, "Invalid image source")
	}
	resp, err := a.imageClient.Do(req)
	if err != nil {
		c.Logger().Errorf("fetch image %s: %v", src, err)
		return imageError(c, http.StatusBadGateway, "Image unavailable")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.Logger().Warnf("fetch image %s: status %d", src, resp.StatusCode)
		return imageError(c, http.StatusBadGateway, "Image unavailable")
	}

	data, height, err := resizeImage(io.LimitReader(resp.Body, maxSourceSize), width)
	if err != nil {
		c.Logger().Warnf("resize image %s: %v", src, err)
		return imageError(c, http.StatusUnprocessableEntity, "Invalid image")
	}
	thumb = Thumbnail{Source: src, Width: width, Height: height, Data: data}
	if err := a.Images.Save(ctx, thumb); err != nil {
		c.Logger().Errorf("save thumbnail %s: %v", src, err)
	}
	return serveThumbnail(c, thumb)
}

func imageError(c echo.Context, code int, msg string) error {
	noStore(c)
	return c.String(code, msg)
}

func serveThumbnail(c echo.Context, t Thumbnail) error {
	c.Response().Header().Set("Cache-Control", thumbnailMaxAge)
	return c.Blob(http.StatusOK, "image/jpeg", t.Data)
}
