// Package heatmap renders count grids as false-color images with a colorbar
// legend.
package heatmap

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"math"

	"github.com/banshee-data/countmap/internal/counts"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// dpi is fixed at 72 so one vg point is one output pixel.
const dpi = 72

// legendPad keeps the colorbar's end labels inside the canvas.
const legendPad = 6

const (
	// MinLegendWidth is the narrowest colorbar strip that fits the bar and
	// its tick labels.
	MinLegendWidth = 40
	// MinLegendHeight is the smallest canvas height drawn when a colorbar
	// is shown. Shorter data areas sit at the bottom of the canvas.
	MinLegendHeight = 64

	// MaxPixels bounds both the cell raster and the output canvas.
	MaxPixels = 1 << 26

	// FitWidth and FitHeight bound the data area when Scale is zero.
	FitWidth  = 960
	FitHeight = 720
)

// ErrTooLarge is returned when a grid or its output would exceed MaxPixels.
var ErrTooLarge = errors.New("image too large")

// Options controls how a grid is drawn.
type Options struct {
	// ColorMap names the color scale; see ColorMapNames.
	ColorMap string
	// Smooth interpolates between cells when the data area is resampled.
	// Without it every cell is drawn as a hard-edged block.
	Smooth bool
	// Scale is the number of output pixels per grid cell along each axis.
	// Zero fits the grid into FitWidth x FitHeight, keeping cells square.
	Scale float64
	// LegendWidth is the width in pixels of the colorbar strip. Zero
	// omits the colorbar; otherwise it must be at least MinLegendWidth.
	LegendWidth int
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		ColorMap:    DefaultColorMap,
		Smooth:      true,
		Scale:       0,
		LegendWidth: 100,
	}
}

// Size is an output size in pixels.
type Size struct {
	Width  int
	Height int
}

// scaleFor returns the pixels per cell used for g.
func (o Options) scaleFor(g *counts.Grid) float64 {
	if o.Scale > 0 {
		return o.Scale
	}
	return math.Min(
		float64(FitWidth)/float64(max(1, g.Width)),
		float64(FitHeight)/float64(max(1, g.Height())),
	)
}

// DataSize returns the pixel size of the area holding the cells.
func (o Options) DataSize(g *counts.Grid) Size {
	s := o.scaleFor(g)
	return Size{
		Width:  max(1, int(math.Round(float64(g.Width)*s))),
		Height: max(1, int(math.Round(float64(g.Height())*s))),
	}
}

// CanvasSize returns the full output size: data area plus colorbar.
func (o Options) CanvasSize(g *counts.Grid) Size {
	s := o.DataSize(g)
	if o.LegendWidth > 0 {
		s.Width += o.LegendWidth
		s.Height = max(s.Height, MinLegendHeight)
	}
	return s
}

// validate checks o against g before anything is allocated.
func (o Options) validate(g *counts.Grid) error {
	if g == nil || g.Len() == 0 {
		return errors.New("heatmap: empty grid")
	}
	if o.Scale < 0 || math.IsNaN(o.Scale) || math.IsInf(o.Scale, 0) {
		return fmt.Errorf("heatmap: invalid scale %v", o.Scale)
	}
	if o.LegendWidth < 0 || (o.LegendWidth > 0 && o.LegendWidth < MinLegendWidth) {
		return fmt.Errorf("heatmap: legend width %d must be 0 or at least %d", o.LegendWidth, MinLegendWidth)
	}
	if cells := float64(g.Width) * float64(g.Height()); cells > MaxPixels {
		return fmt.Errorf("%w: %dx%d grid exceeds %d cells", ErrTooLarge, g.Width, g.Height(), MaxPixels)
	}
	s := o.scaleFor(g)
	w := math.Max(1, math.Round(float64(g.Width)*s)) + float64(o.LegendWidth)
	h := math.Max(1, math.Round(float64(g.Height())*s))
	if o.LegendWidth > 0 {
		h = math.Max(h, MinLegendHeight)
	}
	if w*h > MaxPixels {
		return fmt.Errorf("%w: %.0fx%.0f output exceeds %d pixels", ErrTooLarge, w, h, MaxPixels)
	}
	return nil
}

// Encode renders g and writes it to w in format f. It returns the size of
// the drawn canvas, which is zero for HTML.
func Encode(w io.Writer, g *counts.Grid, f Format, o Options) (Size, error) {
	if err := o.validate(g); err != nil {
		return Size{}, err
	}

	lo, hi := g.Range()
	cm, err := NewColorMap(o.ColorMap, lo, hi)
	if err != nil {
		return Size{}, err
	}

	if f == HTML {
		return Size{}, writeHTML(w, g, cm)
	}

	size := o.CanvasSize(g)
	data := o.DataSize(g)
	cells, err := Colorize(g, cm)
	if err != nil {
		return Size{}, err
	}
	raster := Resample(cells, data.Width, data.Height, o.Smooth)

	if f.Raster() {
		c := vgimg.NewWith(
			vgimg.UseImage(image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))),
			vgimg.UseDPI(dpi),
		)
		drawFigure(draw.New(c), g, raster, cm, o)
		return size, encodeRaster(w, c.Image(), f)
	}

	switch f {
	case SVG, PDF:
		c, err := draw.NewFormattedCanvas(px(size.Width), px(size.Height), string(f))
		if err != nil {
			return Size{}, fmt.Errorf("heatmap: %s canvas: %w", f, err)
		}
		drawFigure(draw.New(c), g, raster, cm, o)
		if _, err := c.WriteTo(w); err != nil {
			return Size{}, fmt.Errorf("heatmap: write %s: %w", f, err)
		}
		return size, nil
	}
	return Size{}, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

// Bytes is Encode into memory.
func Bytes(g *counts.Grid, f Format, o Options) ([]byte, Size, error) {
	var buf bytes.Buffer
	size, err := Encode(&buf, g, f, o)
	if err != nil {
		return nil, Size{}, err
	}
	return buf.Bytes(), size, nil
}

// drawFigure lays the data area out at the bottom left of dc and the
// colorbar in the strip on the right.
func drawFigure(dc draw.Canvas, g *counts.Grid, raster image.Image, cm palette.ColorMap, o Options) {
	data := o.DataSize(g)
	dataW, dataH := px(data.Width), px(data.Height)

	p := plot.New()
	p.HideAxes()
	p.X.Padding, p.Y.Padding = 0, 0
	p.Add(plotter.NewImage(raster, 0, 0, float64(g.Width), float64(g.Height())))
	p.Draw(draw.Canvas{
		Canvas: dc.Canvas,
		Rectangle: vg.Rectangle{
			Min: dc.Min,
			Max: vg.Point{X: dc.Min.X + dataW, Y: dc.Min.Y + dataH},
		},
	})

	if o.LegendWidth == 0 {
		return
	}

	bar := plot.New()
	bar.HideX()
	bar.Y.Padding = 0
	bar.Add(&plotter.ColorBar{ColorMap: cm, Vertical: true})
	bar.Draw(draw.Canvas{
		Canvas: dc.Canvas,
		Rectangle: vg.Rectangle{
			Min: vg.Point{X: dc.Min.X + dataW, Y: dc.Min.Y + px(legendPad)},
			Max: vg.Point{X: dc.Max.X - px(legendPad), Y: dc.Max.Y - px(legendPad)},
		},
	})
}

func encodeRaster(w io.Writer, img image.Image, f Format) error {
	var err error
	switch f {
	case PNG:
		err = png.Encode(w, img)
	case JPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case TIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case BMP:
		err = bmp.Encode(w, img)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
	if err != nil {
		return fmt.Errorf("heatmap: encode %s: %w", f, err)
	}
	return nil
}

// px converts output pixels to vg lengths at the fixed dpi.
func px(n int) vg.Length {
	return vg.Length(n) * vg.Inch / dpi
}
