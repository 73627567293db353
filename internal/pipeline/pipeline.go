// Package pipeline runs one count dump through parse, reshape, render and
// write.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/banshee-data/countmap/internal/config"
	"github.com/banshee-data/countmap/internal/counts"
	"github.com/banshee-data/countmap/internal/fsutil"
	"github.com/banshee-data/countmap/internal/heatmap"
	"github.com/banshee-data/countmap/internal/monitoring"
)

// Options controls a full render run.
type Options struct {
	InputPath   string
	OutputPath  string
	RowWidth    int
	StrictWidth bool // reject a ragged last row
	Heatmap     heatmap.Options
}

// OptionsFromConfig resolves cfg, defaults included, into run options.
func OptionsFromConfig(cfg *config.RenderConfig) Options {
	return Options{
		InputPath:   cfg.GetInputPath(),
		OutputPath:  cfg.GetOutputPath(),
		RowWidth:    cfg.GetRowWidth(),
		StrictWidth: cfg.GetStrictWidth(),
		Heatmap:     cfg.HeatmapOptions(),
	}
}

// Result describes a completed run.
type Result struct {
	Grid   *counts.Grid
	Format heatmap.Format
	Size   heatmap.Size // output pixels; zero for HTML
	Bytes  int          // bytes written to OutputPath
}

// Run reads opts.InputPath, renders it and writes opts.OutputPath. The
// image is encoded in memory before the output file is touched, so any
// failure leaves an existing output as it was.
func Run(fsys fsutil.FileSystem, opts Options) (*Result, error) {
	if opts.InputPath == "" {
		return nil, errors.New("input path is required")
	}
	if opts.OutputPath == "" {
		return nil, errors.New("output path is required")
	}
	format, err := heatmap.FormatFromPath(opts.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("output %s: %w", opts.OutputPath, err)
	}

	// 1. Read & parse
	values, err := counts.ReadFile(fsys, opts.InputPath)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	// 2. Reshape
	grid, err := Reshape(values, opts.RowWidth, opts.StrictWidth)
	if err != nil {
		return nil, fmt.Errorf("reshape: %w", err)
	}
	if grid.Ragged() {
		monitoring.Logf("last row has %d of %d cells", len(grid.Rows[grid.Height()-1]), grid.Width)
	}
	s := counts.Summarize(grid)
	monitoring.Debugf("grid %dx%d: min=%g max=%g mean=%.2f", s.Width, s.Rows, s.Min, s.Max, s.Mean)

	// 3. Render
	data, size, err := heatmap.Bytes(grid, format, opts.Heatmap)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	// 4. Persist
	if err := writeOutput(fsys, opts.OutputPath, data); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}

	monitoring.Logf("wrote %s heatmap of %dx%d grid to %s (%d bytes)", format, grid.Width, grid.Height(), opts.OutputPath, len(data))
	return &Result{Grid: grid, Format: format, Size: size, Bytes: len(data)}, nil
}

// Reshape applies the ragged-row policy.
func Reshape(values []int, width int, strict bool) (*counts.Grid, error) {
	if strict {
		return counts.ReshapeStrict(values, width)
	}
	return counts.Reshape(values, width)
}

func writeOutput(fsys fsutil.FileSystem, path string, data []byte) error {
	w, err := fsys.Create(path)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
