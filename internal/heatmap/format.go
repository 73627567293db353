package heatmap

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format is an output encoding, named by its usual file extension.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpg"
	TIFF Format = "tiff"
	BMP  Format = "bmp"
	SVG  Format = "svg"
	PDF  Format = "pdf"
	HTML Format = "html"
)

// ErrUnknownFormat is returned for an output extension with no encoder.
var ErrUnknownFormat = errors.New("unknown output format")

var extFormats = map[string]Format{
	"":      PNG,
	".png":  PNG,
	".jpg":  JPEG,
	".jpeg": JPEG,
	".tif":  TIFF,
	".tiff": TIFF,
	".bmp":  BMP,
	".svg":  SVG,
	".pdf":  PDF,
	".html": HTML,
	".htm":  HTML,
}

// FormatFromPath picks the format from the extension of path, case
// insensitively. A path without an extension is written as PNG.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	f, ok := extFormats[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	return f, nil
}

// Raster reports whether f is encoded from a pixel buffer.
func (f Format) Raster() bool {
	switch f {
	case PNG, JPEG, TIFF, BMP:
		return true
	}
	return false
}
