package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/banshee-data/countmap/internal/fsutil"
	"github.com/banshee-data/countmap/internal/testutil"
)

func TestDefaultRenderConfig(t *testing.T) {
	cfg := DefaultRenderConfig()

	if cfg.RowWidth == nil || *cfg.RowWidth != 1920 {
		t.Errorf("Expected RowWidth 1920, got %v", cfg.RowWidth)
	}
	if cfg.SmoothInterpolation == nil || *cfg.SmoothInterpolation != true {
		t.Errorf("Expected SmoothInterpolation true, got %v", cfg.SmoothInterpolation)
	}
	if cfg.ColorMap == nil || *cfg.ColorMap != "viridis" {
		t.Errorf("Expected ColorMap viridis, got %v", cfg.ColorMap)
	}
	if cfg.InputPath != nil || cfg.OutputPath != nil {
		t.Error("Expected no default paths")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestEmptyRenderConfigGetters(t *testing.T) {
	cfg := EmptyRenderConfig()

	if cfg.GetRowWidth() != 1920 {
		t.Errorf("GetRowWidth() = %d, want 1920", cfg.GetRowWidth())
	}
	if !cfg.GetSmoothInterpolation() {
		t.Error("GetSmoothInterpolation() = false, want true")
	}
	if cfg.GetColorMap() != "viridis" {
		t.Errorf("GetColorMap() = %q, want viridis", cfg.GetColorMap())
	}
	if cfg.GetScale() != 0 {
		t.Errorf("GetScale() = %g, want 0 (fit)", cfg.GetScale())
	}
	if cfg.GetLegendWidth() != 100 {
		t.Errorf("GetLegendWidth() = %d, want 100", cfg.GetLegendWidth())
	}
	if cfg.GetStrictWidth() {
		t.Error("GetStrictWidth() = true, want false")
	}
	if cfg.GetLogLevel() != "info" {
		t.Errorf("GetLogLevel() = %q, want info", cfg.GetLogLevel())
	}
	if cfg.GetInputPath() != "" || cfg.GetOutputPath() != "" {
		t.Error("expected empty paths")
	}
}

func TestLoadRenderConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "render.json")

	testJSON := `{
  "input_path": "output.txt",
  "output_path": "test.png",
  "row_width": 640,
  "smooth_interpolation": false
}`
	testutil.AssertNoError(t, os.WriteFile(configPath, []byte(testJSON), 0644))

	cfg, err := LoadRenderConfig(fsutil.OSFileSystem{}, configPath)
	testutil.AssertNoError(t, err)

	if cfg.GetInputPath() != "output.txt" {
		t.Errorf("Expected input_path output.txt, got %q", cfg.GetInputPath())
	}
	if cfg.GetOutputPath() != "test.png" {
		t.Errorf("Expected output_path test.png, got %q", cfg.GetOutputPath())
	}
	if cfg.GetRowWidth() != 640 {
		t.Errorf("Expected row_width 640, got %d", cfg.GetRowWidth())
	}
	if cfg.GetSmoothInterpolation() {
		t.Error("Expected smooth_interpolation false")
	}
	// Omitted fields fall back to defaults.
	if cfg.ColorMap != nil {
		t.Errorf("Expected color_map unset, got %v", *cfg.ColorMap)
	}
	if cfg.GetColorMap() != "viridis" {
		t.Errorf("Expected default color map, got %q", cfg.GetColorMap())
	}
}

func TestLoadRenderConfig_Example(t *testing.T) {
	cfg, err := LoadRenderConfig(fsutil.OSFileSystem{}, filepath.Join("..", "..", ExampleConfigPath))
	if err != nil {
		t.Fatalf("example config should load: %v", err)
	}
	if cfg.GetRowWidth() != 1920 {
		t.Errorf("Expected row_width 1920, got %d", cfg.GetRowWidth())
	}
	if cfg.GetScale() != 0 {
		t.Errorf("Expected example to fit the figure, got scale %g", cfg.GetScale())
	}
}

func TestLoadRenderConfig_Errors(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	_ = mfs.WriteFile("/cfg/bad.json", []byte("{not json"), 0644)
	_ = mfs.WriteFile("/cfg/width.json", []byte(`{"row_width": 0}`), 0644)
	_ = mfs.WriteFile("/cfg/big.json", make([]byte, 2*1024*1024), 0644)
	_ = mfs.WriteFile("/cfg/render.yaml", []byte("row_width: 3"), 0644)

	cases := map[string]string{
		"/cfg/render.yaml":  ".json extension",
		"/cfg/missing.json": "failed to stat",
		"/cfg/big.json":     "too large",
		"/cfg/bad.json":     "failed to parse",
		"/cfg/width.json":   "row_width must be positive",
	}
	for path, want := range cases {
		_, err := LoadRenderConfig(mfs, path)
		if err == nil {
			t.Errorf("%s: expected error", path)
			continue
		}
		if !strings.Contains(err.Error(), want) {
			t.Errorf("%s: error %q does not mention %q", path, err, want)
		}
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  *RenderConfig
		ok   bool
	}{
		{"empty", EmptyRenderConfig(), true},
		{"negative width", &RenderConfig{RowWidth: ptrInt(-4)}, false},
		{"fit scale", &RenderConfig{Scale: ptrFloat64(0)}, true},
		{"negative scale", &RenderConfig{Scale: ptrFloat64(-1)}, false},
		{"huge scale", &RenderConfig{Scale: ptrFloat64(100)}, false},
		{"fractional scale", &RenderConfig{Scale: ptrFloat64(0.5)}, true},
		{"negative legend", &RenderConfig{LegendWidth: ptrInt(-1)}, false},
		{"no legend", &RenderConfig{LegendWidth: ptrInt(0)}, true},
		{"legend too narrow", &RenderConfig{LegendWidth: ptrInt(12)}, false},
		{"narrowest legend", &RenderConfig{LegendWidth: ptrInt(40)}, true},
		{"unknown color map", &RenderConfig{ColorMap: ptrString("jet")}, false},
		{"known color map", &RenderConfig{ColorMap: ptrString("blackbody")}, true},
		{"bad log level", &RenderConfig{LogLevel: ptrString("chatty")}, false},
		{"unknown output format", &RenderConfig{OutputPath: ptrString("out.gif")}, false},
		{"html output", &RenderConfig{OutputPath: ptrString("out.html")}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.ok {
				testutil.AssertNoError(t, err)
			} else {
				testutil.AssertError(t, err)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := DefaultRenderConfig()
	base.InputPath = ptrString("a.txt")

	base.Merge(&RenderConfig{
		OutputPath:          ptrString("b.png"),
		SmoothInterpolation: ptrBool(false),
		RowWidth:            ptrInt(8),
	})

	if base.GetInputPath() != "a.txt" {
		t.Errorf("unset field overwritten: %q", base.GetInputPath())
	}
	if base.GetOutputPath() != "b.png" {
		t.Errorf("OutputPath = %q, want b.png", base.GetOutputPath())
	}
	if base.GetSmoothInterpolation() {
		t.Error("SmoothInterpolation should be false after merge")
	}
	if base.GetRowWidth() != 8 {
		t.Errorf("RowWidth = %d, want 8", base.GetRowWidth())
	}

	base.Merge(nil)
	if base.GetRowWidth() != 8 {
		t.Error("Merge(nil) changed the config")
	}
}

func TestHeatmapOptions(t *testing.T) {
	cfg := EmptyRenderConfig()
	cfg.SmoothInterpolation = ptrBool(false)
	cfg.Scale = ptrFloat64(4)

	o := cfg.HeatmapOptions()
	if o.Smooth {
		t.Error("Smooth should follow smooth_interpolation")
	}
	if o.Scale != 4 {
		t.Errorf("Scale = %g, want 4", o.Scale)
	}
	if o.ColorMap != "viridis" || o.LegendWidth != 100 {
		t.Errorf("unexpected defaults: %+v", o)
	}
}
