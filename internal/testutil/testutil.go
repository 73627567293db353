// Package testutil provides shared test fixtures for count dumps and the
// images rendered from them.
package testutil

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/banshee-data/countmap/internal/fsutil"

	// Registered so DecodeImage handles every raster output.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// CountsText formats values the way the tracer dumps them.
func CountsText(values ...int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// Ramp returns 0..n-1.
func Ramp(n int) []int {
	values := make([]int, n)
	for i := range values {
		values[i] = i
	}
	return values
}

// WriteCountsFile writes text to name under a fresh temp dir and returns
// its path.
func WriteCountsFile(t *testing.T, name, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// NewMemoryCounts returns an in-memory filesystem holding text at path.
func NewMemoryCounts(t *testing.T, path, text string) *fsutil.MemoryFileSystem {
	t.Helper()
	mfs := fsutil.NewMemoryFileSystem()
	if err := mfs.WriteFile(path, []byte(text), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return mfs
}

// DecodeImage decodes a raster image and returns it with its format name.
func DecodeImage(t *testing.T, data []byte) (image.Image, string) {
	t.Helper()
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode image: %v", err)
	}
	return img, format
}

// ColorNear reports whether every channel of a and b differs by at most tol.
func ColorNear(a, b color.Color, tol uint8) bool {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	near := func(x, y uint32) bool {
		x, y = x>>8, y>>8
		if x > y {
			return x-y <= uint32(tol)
		}
		return y-x <= uint32(tol)
	}
	return near(ar, br) && near(ag, bg) && near(ab, bb) && near(aa, ba)
}
