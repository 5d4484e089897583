package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"io"
	"math"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fogleman/gg"

	"routereel/internal/geom"
	"routereel/internal/logger"
)

const (
	tileSize = 256
	maxZoom  = 19
)

// Tile addresses one XYZ tile.
type Tile struct {
	X, Y, Z int
}

// TileProvider fetches XYZ raster tiles and caches them on disk. Tiles are
// downloaded one at a time; any failed download aborts the basemap.
type TileProvider struct {
	URL       string // template with {z} {x} {y}
	CacheDir  string // empty disables the cache
	UserAgent string
	Client    *http.Client
	Log       *logger.Logger
}

// NewTileProvider creates a provider with a default HTTP client.
func NewTileProvider(template, cacheDir, userAgent string, log *logger.Logger) *TileProvider {
	if log == nil {
		log = logger.Discard()
	}
	return &TileProvider{
		URL:       template,
		CacheDir:  cacheDir,
		UserAgent: userAgent,
		Client:    http.DefaultClient,
		Log:       log.WithComponent("tiles"),
	}
}

// ZoomFor returns the lowest zoom whose tiles are at least as detailed as
// the viewport.
func ZoomFor(vp Viewport) int {
	z := int(math.Ceil(math.Log2(2*geom.MercatorHalfWorld*vp.Scale/tileSize) - 1e-9))
	return max(0, min(maxZoom, z))
}

// TilesFor lists the tiles covering bbox at zoom z, row by row.
func TilesFor(bbox geom.BBox, z int) []Tile {
	n := 1 << z
	span := 2 * geom.MercatorHalfWorld / float64(n)
	clamp := func(v float64) int { return max(0, min(n-1, int(math.Floor(v)))) }
	x0 := clamp((bbox.MinX + geom.MercatorHalfWorld) / span)
	x1 := clamp((bbox.MaxX + geom.MercatorHalfWorld) / span)
	y0 := clamp((geom.MercatorHalfWorld - bbox.MaxY) / span)
	y1 := clamp((geom.MercatorHalfWorld - bbox.MinY) / span)
	var out []Tile
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			out = append(out, Tile{X: x, Y: y, Z: z})
		}
	}
	return out
}

// Bounds returns the tile's projected bounds.
func (t Tile) Bounds() geom.BBox {
	span := 2 * geom.MercatorHalfWorld / float64(int(1)<<t.Z)
	minX := float64(t.X)*span - geom.MercatorHalfWorld
	maxY := geom.MercatorHalfWorld - float64(t.Y)*span
	return geom.BBox{MinX: minX, MinY: maxY - span, MaxX: minX + span, MaxY: maxY}
}

func (p *TileProvider) Basemap(ctx context.Context, vp Viewport) (image.Image, error) {
	z := ZoomFor(vp)
	tiles := TilesFor(vp.Visible(), z)
	p.Log.Info("fetching basemap", logger.F("zoom", z), logger.Count(len(tiles)))

	dc := gg.NewContext(vp.Width, vp.Height)
	for _, t := range tiles {
		img, err := p.Fetch(ctx, t)
		if err != nil {
			return nil, err
		}
		b := t.Bounds()
		px, py := vp.ToPixel(b.MinX, b.MaxY)
		k := b.Width() * vp.Scale / float64(img.Bounds().Dx())
		dc.Push()
		dc.Translate(px, py)
		dc.Scale(k, k)
		dc.DrawImage(img, 0, 0)
		dc.Pop()
	}
	return dc.Image(), nil
}

// Fetch returns one tile, from the cache when present.
func (p *TileProvider) Fetch(ctx context.Context, t Tile) (image.Image, error) {
	path := p.cachePath(t)
	if path != "" {
		if img, err := gg.LoadImage(path); err == nil {
			return img, nil
		}
	}

	u := p.tileURL(t)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("tile request: %w", err)
	}
	if p.UserAgent != "" {
		req.Header.Set("User-Agent", p.UserAgent)
	}
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download tile %s: %w", u, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download tile %s: %s", u, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to download tile %s: %w", u, err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode tile %s: %w", u, err)
	}
	p.Log.Debug("downloaded tile", logger.F("z", t.Z), logger.F("x", t.X), logger.F("y", t.Y))

	if path != "" {
		if err := writeTile(path, img); err != nil {
			p.Log.Warn("could not cache tile", logger.F("path", path), logger.Error(err))
		}
	}
	return img, nil
}

func (p *TileProvider) tileURL(t Tile) string {
	r := strings.NewReplacer(
		"{z}", strconv.Itoa(t.Z),
		"{x}", strconv.Itoa(t.X),
		"{y}", strconv.Itoa(t.Y),
	)
	return r.Replace(p.URL)
}

// cachePath keys tiles by the template's host so providers do not collide.
func (p *TileProvider) cachePath(t Tile) string {
	if p.CacheDir == "" {
		return ""
	}
	name := "default"
	if u, err := url.Parse(p.URL); err == nil && u.Host != "" {
		name = strings.ReplaceAll(u.Host+u.Path, "/", "_")
		if i := strings.Index(name, "{"); i > 0 {
			name = strings.TrimRight(name[:i], "_")
		}
	}
	return filepath.Join(p.CacheDir, name, strconv.Itoa(t.Z), strconv.Itoa(t.X), strconv.Itoa(t.Y)+".png")
}

func writeTile(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
