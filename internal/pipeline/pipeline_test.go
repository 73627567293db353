package pipeline

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/banshee-data/countmap/internal/config"
	"github.com/banshee-data/countmap/internal/counts"
	"github.com/banshee-data/countmap/internal/fsutil"
	"github.com/banshee-data/countmap/internal/heatmap"
	"github.com/banshee-data/countmap/internal/testutil"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func options(in, out string, width int) Options {
	o := heatmap.DefaultOptions()
	o.Smooth = false
	o.Scale = 4
	o.LegendWidth = 0
	return Options{InputPath: in, OutputPath: out, RowWidth: width, Heatmap: o}
}

func TestRun_Scenarios(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		text  string
		width int
		want  [][]int
	}{
		{"exact", "1,2,3,4", 2, [][]int{{1, 2}, {3, 4}}},
		{"ragged", "1,2,3", 2, [][]int{{1, 2}, {3}}},
		{"trailing newline", "5,6\n", 2, [][]int{{5, 6}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mfs := testutil.NewMemoryCounts(t, "/in/output.txt", tc.text)

			res, err := Run(mfs, options("/in/output.txt", "/out/test.png", tc.width))
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, res.Grid.Rows); diff != "" {
				t.Errorf("grid mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, heatmap.PNG, res.Format)

			data, err := mfs.ReadFile("/out/test.png")
			require.NoError(t, err)
			assert.Equal(t, res.Bytes, len(data))

			img, format := testutil.DecodeImage(t, data)
			assert.Equal(t, "png", format)
			assert.Equal(t, tc.width*4, img.Bounds().Dx())
			assert.Equal(t, len(tc.want)*4, img.Bounds().Dy())
			assert.Equal(t, heatmap.Size{Width: tc.width * 4, Height: len(tc.want) * 4}, res.Size)
		})
	}
}

func TestRun_MalformedTokenWritesNothing(t *testing.T) {
	t.Parallel()

	mfs := testutil.NewMemoryCounts(t, "/in.txt", "1,2,x,4")
	_, err := Run(mfs, options("/in.txt", "/out.png", 2))

	var pe *counts.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 2, pe.Index)
	assert.Equal(t, "x", pe.Token)
	assert.Contains(t, err.Error(), "/in.txt")
	assert.False(t, mfs.Exists("/out.png"), "no output on parse failure")
}

func TestRun_EmptyInput(t *testing.T) {
	t.Parallel()

	mfs := testutil.NewMemoryCounts(t, "/in.txt", "")
	_, err := Run(mfs, options("/in.txt", "/out.png", 2))
	assert.ErrorIs(t, err, counts.ErrEmptyInput)
	assert.False(t, mfs.Exists("/out.png"))
}

func TestRun_MissingInput(t *testing.T) {
	t.Parallel()

	mfs := testutil.NewMemoryCounts(t, "/other.txt", "1")
	_, err := Run(mfs, options("/in.txt", "/out.png", 2))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "/in.txt")
}

func TestRun_UnwritableOutput(t *testing.T) {
	t.Parallel()

	mfs := testutil.NewMemoryCounts(t, "/in.txt", "1,2,3,4")
	mfs.CreateErr = fs.ErrPermission

	_, err := Run(mfs, options("/in.txt", "/out.png", 2))
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.Contains(t, err.Error(), "/out.png")
}

func TestRun_Idempotent(t *testing.T) {
	t.Parallel()

	mfs := testutil.NewMemoryCounts(t, "/in.txt", testutil.CountsText(testutil.Ramp(30)...))
	opts := options("/in.txt", "/out.png", 6)
	opts.Heatmap.Smooth = true
	opts.Heatmap.LegendWidth = 40

	_, err := Run(mfs, opts)
	require.NoError(t, err)
	first, err := mfs.ReadFile("/out.png")
	require.NoError(t, err)

	_, err = Run(mfs, opts)
	require.NoError(t, err)
	second, err := mfs.ReadFile("/out.png")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRun_Strict(t *testing.T) {
	t.Parallel()

	mfs := testutil.NewMemoryCounts(t, "/in.txt", "1,2,3")
	opts := options("/in.txt", "/out.png", 2)
	opts.StrictWidth = true

	_, err := Run(mfs, opts)
	assert.ErrorIs(t, err, counts.ErrRaggedGrid)
	assert.False(t, mfs.Exists("/out.png"))
}

func TestRun_InvalidWidth(t *testing.T) {
	t.Parallel()

	mfs := testutil.NewMemoryCounts(t, "/in.txt", "1,2,3")
	_, err := Run(mfs, options("/in.txt", "/out.png", 0))
	assert.ErrorIs(t, err, counts.ErrInvalidWidth)
}

func TestRun_TooLarge(t *testing.T) {
	t.Parallel()

	mfs := testutil.NewMemoryCounts(t, "/in.txt", "1,2")
	_, err := Run(mfs, options("/in.txt", "/out.png", 1<<31))
	testutil.AssertError(t, err)
	assert.ErrorIs(t, err, heatmap.ErrTooLarge)
	assert.False(t, mfs.Exists("/out.png"))
}

func TestRun_UnknownFormat(t *testing.T) {
	t.Parallel()

	mfs := testutil.NewMemoryCounts(t, "/in.txt", "1,2,3")
	_, err := Run(mfs, options("/in.txt", "/out.gif", 2))
	assert.ErrorIs(t, err, heatmap.ErrUnknownFormat)
}

func TestRun_MissingPaths(t *testing.T) {
	t.Parallel()

	mfs := testutil.NewMemoryCounts(t, "/in.txt", "1")
	_, err := Run(mfs, options("", "/out.png", 2))
	assert.Error(t, err)
	_, err = Run(mfs, options("/in.txt", "", 2))
	assert.Error(t, err)
}

func TestRun_HTML(t *testing.T) {
	t.Parallel()

	mfs := testutil.NewMemoryCounts(t, "/in.txt", "1,2,3,4")
	res, err := Run(mfs, options("/in.txt", "/out.html", 2))
	require.NoError(t, err)
	assert.Equal(t, heatmap.HTML, res.Format)
	assert.Zero(t, res.Size)

	data, err := mfs.ReadFile("/out.html")
	require.NoError(t, err)
	assert.Contains(t, string(data), "counts")
}

func TestRun_OSFileSystem(t *testing.T) {
	t.Parallel()

	in := testutil.WriteCountsFile(t, "output.txt", testutil.CountsText(testutil.Ramp(48)...))
	out := filepath.Join(t.TempDir(), "test.png")

	cfg := config.EmptyRenderConfig()
	cfg.InputPath = &in
	cfg.OutputPath = &out
	width := 4
	cfg.RowWidth = &width

	opts := OptionsFromConfig(cfg)
	assert.Equal(t, 100, opts.Heatmap.LegendWidth)
	assert.True(t, opts.Heatmap.Smooth)

	res, err := Run(fsutil.OSFileSystem{}, opts)
	require.NoError(t, err)
	// 4x12 cells fitted into the figure at 60 px per cell, plus the legend.
	assert.Equal(t, heatmap.Size{Width: 340, Height: 720}, res.Size)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	img, _ := testutil.DecodeImage(t, data)
	assert.Equal(t, 340, img.Bounds().Dx())
	assert.Equal(t, 720, img.Bounds().Dy())
}

func TestReshape_Policy(t *testing.T) {
	t.Parallel()

	g, err := Reshape([]int{1, 2, 3}, 2, false)
	require.NoError(t, err)
	assert.True(t, g.Ragged())

	_, err = Reshape([]int{1, 2, 3}, 2, true)
	assert.True(t, errors.Is(err, counts.ErrRaggedGrid))
}
