package main

import (
	"fmt"

	"github.com/banshee-data/countmap/internal/config"
	"github.com/banshee-data/countmap/internal/fsutil"
	"github.com/banshee-data/countmap/internal/heatmap"
	"github.com/banshee-data/countmap/internal/monitoring"
	"github.com/banshee-data/countmap/internal/pipeline"
	"github.com/spf13/cobra"
)

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a count dump to an image",
		Long: `Render reads comma-separated integers, lays them out row by row at the
given width and writes a heatmap with a colorbar. The output format follows
the output extension: png, jpg, tiff, bmp, svg, pdf or html.`,
		Args: cobra.NoArgs,
		RunE: runRender,
	}
	cmd.Flags().StringP("input", "i", "", "Input count dump")
	cmd.Flags().StringP("output", "o", "", "Output image")
	cmd.Flags().Int("width", config.DefaultRowWidth, "Cells per row")
	cmd.Flags().Bool("smooth", true, "Interpolate between cells")
	cmd.Flags().String("colormap", heatmap.DefaultColorMap, "Color map name (see 'countmap colormaps')")
	cmd.Flags().Float64("scale", config.DefaultScale, "Output pixels per cell, 0 to fit the figure")
	cmd.Flags().Int("legend-width", config.DefaultLegendWidth, "Colorbar strip width in pixels (0 to omit, otherwise at least 40)")
	cmd.Flags().Bool("strict", false, "Reject input that does not fill the last row")
	cmd.Flags().String("config", "", "JSON render configuration; flags override it")
	return cmd
}

func runRender(cmd *cobra.Command, args []string) error {
	fsys := fsutil.OSFileSystem{}

	cfg := config.EmptyRenderConfig()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.LoadRenderConfig(fsys, path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
		if !cmd.Flags().Changed("log-level") && cfg.LogLevel != nil {
			if err := monitoring.Setup(cfg.GetLogLevel(), cmd.ErrOrStderr()); err != nil {
				return err
			}
		}
	}

	cfg.Merge(renderFlags(cmd))
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	result, err := pipeline.Run(fsys, pipeline.OptionsFromConfig(cfg))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Grid:   %d x %d cells\n", result.Grid.Width, result.Grid.Height())
	if result.Format != heatmap.HTML {
		fmt.Fprintf(out, "Image:  %d x %d px (%s)\n", result.Size.Width, result.Size.Height, result.Format)
	} else {
		fmt.Fprintf(out, "Page:   %s\n", result.Format)
	}
	fmt.Fprintf(out, "Output: %s (%d bytes)\n", cfg.GetOutputPath(), result.Bytes)
	return nil
}

// renderFlags returns a config holding only the flags set on the command
// line.
func renderFlags(cmd *cobra.Command) *config.RenderConfig {
	f := cmd.Flags()
	c := config.EmptyRenderConfig()

	if f.Changed("input") {
		v, _ := f.GetString("input")
		c.InputPath = &v
	}
	if f.Changed("output") {
		v, _ := f.GetString("output")
		c.OutputPath = &v
	}
	if f.Changed("width") {
		v, _ := f.GetInt("width")
		c.RowWidth = &v
	}
	if f.Changed("smooth") {
		v, _ := f.GetBool("smooth")
		c.SmoothInterpolation = &v
	}
	if f.Changed("colormap") {
		v, _ := f.GetString("colormap")
		c.ColorMap = &v
	}
	if f.Changed("scale") {
		v, _ := f.GetFloat64("scale")
		c.Scale = &v
	}
	if f.Changed("legend-width") {
		v, _ := f.GetInt("legend-width")
		c.LegendWidth = &v
	}
	if f.Changed("strict") {
		v, _ := f.GetBool("strict")
		c.StrictWidth = &v
	}
	return c
}
