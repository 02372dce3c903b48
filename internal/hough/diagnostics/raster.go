package diagnostics

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/banshee-data/houghroads/internal/hough/accumulator"
)

var gradient = mustGradient(viridis)

func mustGradient(stops []string) []colorful.Color {
	out := make([]colorful.Color, len(stops))
	for i, s := range stops {
		c, err := colorful.Hex(s)
		if err != nil {
			panic(err)
		}
		out[i] = c
	}
	return out
}

// shade maps t in [0, 1] onto the gradient, blending in Lab space.
func shade(t float64) color.NRGBA {
	t = min(max(t, 0), 1)
	pos := t * float64(len(gradient)-1)
	i := min(int(pos), len(gradient)-2)
	c := gradient[i].BlendLab(gradient[i+1], pos-float64(i)).Clamped()
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// Raster draws one pixel per cell, scaled up by scale with nearest
// neighbour sampling. Empty cells are black and row 0 is at the bottom.
func Raster(im *accumulator.Image, scale int) (*image.NRGBA, error) {
	if im == nil || im.NX() == 0 || im.NY() == 0 {
		return nil, fmt.Errorf("no image to rasterize")
	}
	if scale < 1 {
		return nil, fmt.Errorf("raster scale must be at least 1, got %d", scale)
	}
	peak := float64(max(im.MaxCount(), 1))
	img := image.NewNRGBA(image.Rect(0, 0, im.NX(), im.NY()))
	for y, row := range im.Counts() {
		for x, c := range row {
			px := color.NRGBA{A: 255}
			if c > 0 {
				px = shade(float64(c) / peak)
			}
			img.SetNRGBA(x, y, px)
		}
	}
	out := imaging.FlipV(img)
	if scale > 1 {
		out = imaging.Resize(out, im.NX()*scale, im.NY()*scale, imaging.NearestNeighbor)
	}
	return out, nil
}

// SaveRaster writes the raster of im to path as PNG.
func SaveRaster(path string, im *accumulator.Image, scale int) error {
	img, err := Raster(im, scale)
	if err != nil {
		return err
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("save raster: %w", err)
	}
	return nil
}
