package heatmap

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/banshee-data/countmap/internal/counts"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot/palette"
)

// maxHTMLCells bounds the number of cells written into an HTML page. Larger
// grids are sampled with the same stride on both axes.
const maxHTMLCells = 250000

// htmlStride returns the sampling step that keeps g under maxHTMLCells.
// The full Width x Height area counts, since both axes are written out.
func htmlStride(g *counts.Grid) int {
	n := g.Width * g.Height()
	if n <= maxHTMLCells {
		return 1
	}
	return int(math.Ceil(math.Sqrt(float64(n) / float64(maxHTMLCells))))
}

// writeHTML renders g as an echarts heatmap page. Category axes keep row 0
// at the bottom; the visual map plays the role of the colorbar.
func writeHTML(w io.Writer, g *counts.Grid, cm palette.ColorMap) error {
	stride := htmlStride(g)

	xs := make([]string, 0, g.Width/stride+1)
	for c := 0; c < g.Width; c += stride {
		xs = append(xs, strconv.Itoa(c))
	}
	ys := make([]string, 0, g.Height()/stride+1)
	for r := 0; r < g.Height(); r += stride {
		ys = append(ys, strconv.Itoa(r))
	}

	data := make([]opts.HeatMapData, 0, len(xs)*len(ys))
	for r := 0; r < g.Height(); r += stride {
		for c := 0; c < g.Width; c += stride {
			v, ok := g.At(c, r)
			if !ok {
				continue
			}
			data = append(data, opts.HeatMapData{Value: []interface{}{c / stride, r / stride, v}})
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "countmap", Width: "1200px", Height: "800px"}),
		charts.WithTitleOpts(opts.Title{Title: "Counts", Subtitle: fmt.Sprintf("%dx%d cells, stride=%d", g.Width, g.Height(), stride)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: xs, Show: opts.Bool(false)}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: ys, Show: opts.Bool(false)}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(cm.Min()),
			Max:        float32(cm.Max()),
			InRange:    &opts.VisualMapInRange{Color: hexStops(cm, len(viridisStops))},
		}),
	)
	hm.SetXAxis(xs).AddSeries("counts", data)

	if err := hm.Render(w); err != nil {
		return fmt.Errorf("heatmap: render html: %w", err)
	}
	return nil
}
