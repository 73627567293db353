package heatmap

import (
	"errors"
	"fmt"
	"image/color"
	"sort"
	"strconv"

	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
)

// DefaultColorMap matches the default of the plotting scripts this tool
// replaces.
const DefaultColorMap = "viridis"

// ErrUnknownColorMap is returned for a color map name not in ColorMapNames.
var ErrUnknownColorMap = errors.New("unknown color map")

// viridisStops are the control points used for the viridis map, dark to
// light. They are also the echarts visual map colors.
var viridisStops = []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}

var colorMaps = map[string]func() (palette.ColorMap, error){
	"viridis":             viridis,
	"kindlmann":           func() (palette.ColorMap, error) { return moreland.Kindlmann(), nil },
	"extended-kindlmann":  func() (palette.ColorMap, error) { return moreland.ExtendedKindlmann(), nil },
	"blackbody":           func() (palette.ColorMap, error) { return moreland.BlackBody(), nil },
	"extended-blackbody":  func() (palette.ColorMap, error) { return moreland.ExtendedBlackBody(), nil },
	"smooth-blue-red":     func() (palette.ColorMap, error) { return moreland.SmoothBlueRed(), nil },
	"smooth-green-purple": func() (palette.ColorMap, error) { return moreland.SmoothGreenPurple(), nil },
}

// ColorMapNames lists the accepted color map names, sorted.
func ColorMapNames() []string {
	names := make([]string, 0, len(colorMaps))
	for name := range colorMaps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// KnownColorMap reports whether name is a valid color map.
func KnownColorMap(name string) bool {
	_, ok := colorMaps[name]
	return ok
}

// NewColorMap returns a fresh color map spanning [min, max]. An empty name
// selects DefaultColorMap. A degenerate range is widened to [min, min+1] so
// a constant grid still maps to the low end of the scale.
func NewColorMap(name string, min, max float64) (palette.ColorMap, error) {
	if name == "" {
		name = DefaultColorMap
	}
	ctor, ok := colorMaps[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColorMap, name)
	}
	cm, err := ctor()
	if err != nil {
		return nil, fmt.Errorf("build color map %s: %w", name, err)
	}
	if max <= min {
		max = min + 1
	}
	cm.SetMax(max)
	cm.SetMin(min)
	return cm, nil
}

func viridis() (palette.ColorMap, error) {
	stops := make([]color.Color, len(viridisStops))
	for i, hex := range viridisStops {
		c, err := parseHex(hex)
		if err != nil {
			return nil, err
		}
		stops[i] = c
	}
	cm, err := moreland.NewLuminance(stops)
	if err != nil {
		return nil, err
	}
	return cm, nil
}

func parseHex(s string) (color.NRGBA, error) {
	if len(s) != 7 || s[0] != '#' {
		return color.NRGBA{}, fmt.Errorf("bad color %q", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("bad color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// hexStops samples n evenly spaced colors from cm, low to high, as #rrggbb
// strings. n must be at least 2.
func hexStops(cm palette.ColorMap, n int) []string {
	lo, hi := cm.Min(), cm.Max()
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		v := min(lo+(hi-lo)*float64(i)/float64(n-1), hi)
		c, err := cm.At(v)
		if err != nil {
			continue
		}
		nc := color.NRGBAModel.Convert(c).(color.NRGBA)
		out = append(out, fmt.Sprintf("#%02x%02x%02x", nc.R, nc.G, nc.B))
	}
	return out
}
