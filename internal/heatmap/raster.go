package heatmap

import (
	"fmt"
	"image"

	"github.com/banshee-data/countmap/internal/counts"
	xdraw "golang.org/x/image/draw"
	"gonum.org/v1/plot/palette"
)

// Colorize paints g one pixel per cell. Row 0 of the grid lands on the
// bottom pixel row so the image reads with its origin at the lower left.
// Cells missing from a ragged last row stay fully transparent.
func Colorize(g *counts.Grid, cm palette.ColorMap) (*image.RGBA, error) {
	h := g.Height()
	img := image.NewRGBA(image.Rect(0, 0, g.Width, h))
	for r, row := range g.Rows {
		y := h - 1 - r
		for x, v := range row {
			c, err := cm.At(float64(v))
			if err != nil {
				return nil, fmt.Errorf("color cell (%d,%d)=%d: %w", x, r, v, err)
			}
			img.Set(x, y, c)
		}
	}
	return img, nil
}

// Resample scales src to w×h pixels. smooth selects bilinear filtering;
// otherwise nearest-neighbour keeps every cell a solid block.
func Resample(src image.Image, w, h int, smooth bool) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	var s xdraw.Scaler = xdraw.NearestNeighbor
	if smooth {
		s = xdraw.BiLinear
	}
	s.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}
