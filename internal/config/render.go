package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/banshee-data/countmap/internal/fsutil"
	"github.com/banshee-data/countmap/internal/heatmap"
	"github.com/banshee-data/countmap/internal/monitoring"
)

// ExampleConfigPath is the checked-in example render configuration.
const ExampleConfigPath = "config/render.example.json"

const (
	DefaultRowWidth    = 1920
	DefaultScale       = 0.0 // fit the figure
	DefaultLegendWidth = 100
	DefaultLogLevel    = "info"

	maxScale       = 64
	maxLegendWidth = 1000
	maxFileSize    = 1 * 1024 * 1024
)

// RenderConfig holds everything one render run needs. Every field is
// optional so a file can set only what differs from the defaults; the Get*
// methods fill in the rest.
type RenderConfig struct {
	InputPath           *string  `json:"input_path,omitempty"`
	OutputPath          *string  `json:"output_path,omitempty"`
	RowWidth            *int     `json:"row_width,omitempty"`
	SmoothInterpolation *bool    `json:"smooth_interpolation,omitempty"`
	ColorMap            *string  `json:"color_map,omitempty"`
	Scale               *float64 `json:"scale,omitempty"`
	LegendWidth         *int     `json:"legend_width,omitempty"`
	StrictWidth         *bool    `json:"strict_width,omitempty"`
	LogLevel            *string  `json:"log_level,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyRenderConfig returns a RenderConfig with all fields set to nil.
func EmptyRenderConfig() *RenderConfig {
	return &RenderConfig{}
}

// DefaultRenderConfig returns a RenderConfig with every default filled in
// except the input and output paths, which have none.
func DefaultRenderConfig() *RenderConfig {
	return &RenderConfig{
		RowWidth:            ptrInt(DefaultRowWidth),
		SmoothInterpolation: ptrBool(true),
		ColorMap:            ptrString(heatmap.DefaultColorMap),
		Scale:               ptrFloat64(DefaultScale),
		LegendWidth:         ptrInt(DefaultLegendWidth),
		StrictWidth:         ptrBool(false),
		LogLevel:            ptrString(DefaultLogLevel),
	}
}

// LoadRenderConfig loads a RenderConfig from a JSON file on fsys.
// The file must have a .json extension and be at most 1MB.
func LoadRenderConfig(fsys fsutil.FileSystem, path string) (*RenderConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := fsys.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := fsys.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyRenderConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the fields that are set.
func (c *RenderConfig) Validate() error {
	if c.RowWidth != nil && *c.RowWidth <= 0 {
		return fmt.Errorf("row_width must be positive, got %d", *c.RowWidth)
	}
	if c.Scale != nil && (*c.Scale < 0 || *c.Scale > maxScale) {
		return fmt.Errorf("scale must be in [0, %d], got %g", maxScale, *c.Scale)
	}
	if c.LegendWidth != nil && *c.LegendWidth != 0 &&
		(*c.LegendWidth < heatmap.MinLegendWidth || *c.LegendWidth > maxLegendWidth) {
		return fmt.Errorf("legend_width must be 0 or between %d and %d, got %d", heatmap.MinLegendWidth, maxLegendWidth, *c.LegendWidth)
	}
	if c.ColorMap != nil && !heatmap.KnownColorMap(*c.ColorMap) {
		return fmt.Errorf("color_map %q is not one of %v", *c.ColorMap, heatmap.ColorMapNames())
	}
	if c.LogLevel != nil {
		if _, err := monitoring.ParseLevel(*c.LogLevel); err != nil {
			return fmt.Errorf("log_level: %w", err)
		}
	}
	if c.OutputPath != nil && *c.OutputPath != "" {
		if _, err := heatmap.FormatFromPath(*c.OutputPath); err != nil {
			return fmt.Errorf("output_path: %w", err)
		}
	}
	return nil
}

// Merge copies every field set in other over c.
func (c *RenderConfig) Merge(other *RenderConfig) {
	if other == nil {
		return
	}
	if other.InputPath != nil {
		c.InputPath = other.InputPath
	}
	if other.OutputPath != nil {
		c.OutputPath = other.OutputPath
	}
	if other.RowWidth != nil {
		c.RowWidth = other.RowWidth
	}
	if other.SmoothInterpolation != nil {
		c.SmoothInterpolation = other.SmoothInterpolation
	}
	if other.ColorMap != nil {
		c.ColorMap = other.ColorMap
	}
	if other.Scale != nil {
		c.Scale = other.Scale
	}
	if other.LegendWidth != nil {
		c.LegendWidth = other.LegendWidth
	}
	if other.StrictWidth != nil {
		c.StrictWidth = other.StrictWidth
	}
	if other.LogLevel != nil {
		c.LogLevel = other.LogLevel
	}
}

// GetInputPath returns the input_path value, or "" when unset.
func (c *RenderConfig) GetInputPath() string {
	if c.InputPath == nil {
		return ""
	}
	return *c.InputPath
}

// GetOutputPath returns the output_path value, or "" when unset.
func (c *RenderConfig) GetOutputPath() string {
	if c.OutputPath == nil {
		return ""
	}
	return *c.OutputPath
}

// GetRowWidth returns the row_width value or the default.
func (c *RenderConfig) GetRowWidth() int {
	if c.RowWidth == nil {
		return DefaultRowWidth
	}
	return *c.RowWidth
}

// GetSmoothInterpolation returns the smooth_interpolation value or the default.
func (c *RenderConfig) GetSmoothInterpolation() bool {
	if c.SmoothInterpolation == nil {
		return true
	}
	return *c.SmoothInterpolation
}

// GetColorMap returns the color_map value or the default.
func (c *RenderConfig) GetColorMap() string {
	if c.ColorMap == nil || *c.ColorMap == "" {
		return heatmap.DefaultColorMap
	}
	return *c.ColorMap
}

// GetScale returns the scale value or the default.
func (c *RenderConfig) GetScale() float64 {
	if c.Scale == nil {
		return DefaultScale
	}
	return *c.Scale
}

// GetLegendWidth returns the legend_width value or the default.
func (c *RenderConfig) GetLegendWidth() int {
	if c.LegendWidth == nil {
		return DefaultLegendWidth
	}
	return *c.LegendWidth
}

// GetStrictWidth returns the strict_width value or the default.
func (c *RenderConfig) GetStrictWidth() bool {
	if c.StrictWidth == nil {
		return false // ragged last row accepted
	}
	return *c.StrictWidth
}

// GetLogLevel returns the log_level value or the default.
func (c *RenderConfig) GetLogLevel() string {
	if c.LogLevel == nil || *c.LogLevel == "" {
		return DefaultLogLevel
	}
	return *c.LogLevel
}

// HeatmapOptions returns the rendering options for this configuration.
func (c *RenderConfig) HeatmapOptions() heatmap.Options {
	return heatmap.Options{
		ColorMap:    c.GetColorMap(),
		Smooth:      c.GetSmoothInterpolation(),
		Scale:       c.GetScale(),
		LegendWidth: c.GetLegendWidth(),
	}
}
