package counts

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrInvalidWidth is returned for a row width below one.
	ErrInvalidWidth = errors.New("row width must be positive")
	// ErrRaggedGrid is returned by ReshapeStrict when the stream does not
	// fill the last row.
	ErrRaggedGrid = errors.New("count stream does not fill the last row")
)

// Grid is a count stream cut into rows of Width values. Row 0 holds the
// first Width values of the stream. The last row may be shorter.
type Grid struct {
	Rows  [][]int
	Width int
}

// Reshape partitions values into consecutive rows of width values, keeping
// stream order. A short final row is kept as is. The rows share storage
// with values.
func Reshape(values []int, width int) (*Grid, error) {
	if width <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWidth, width)
	}

	n := len(values) / width
	if len(values)%width != 0 {
		n++
	}
	rows := make([][]int, 0, n)
	for i := 0; i < len(values); i += width {
		end := len(values)
		if width < end-i {
			end = i + width
		}
		rows = append(rows, values[i:end:end])
	}
	return &Grid{Rows: rows, Width: width}, nil
}

// ReshapeStrict is Reshape but refuses a ragged last row.
func ReshapeStrict(values []int, width int) (*Grid, error) {
	g, err := Reshape(values, width)
	if err != nil {
		return nil, err
	}
	if rem := len(values) % width; rem != 0 {
		return nil, fmt.Errorf("%w: %d values, width %d, last row has %d", ErrRaggedGrid, len(values), width, rem)
	}
	return g, nil
}

// Height returns the number of rows.
func (g *Grid) Height() int { return len(g.Rows) }

// Len returns the number of cells holding a value.
func (g *Grid) Len() int {
	n := 0
	for _, row := range g.Rows {
		n += len(row)
	}
	return n
}

// Ragged reports whether the last row is shorter than Width.
func (g *Grid) Ragged() bool {
	if len(g.Rows) == 0 {
		return false
	}
	return len(g.Rows[len(g.Rows)-1]) < g.Width
}

// At returns the value at column col of row row. ok is false for cells
// outside the grid, including the missing tail of a ragged last row.
func (g *Grid) At(col, row int) (v int, ok bool) {
	if row < 0 || row >= len(g.Rows) || col < 0 {
		return 0, false
	}
	r := g.Rows[row]
	if col >= len(r) {
		return 0, false
	}
	return r[col], true
}

// Values returns the cells in stream order as float64.
func (g *Grid) Values() []float64 {
	out := make([]float64, 0, g.Len())
	for _, row := range g.Rows {
		for _, v := range row {
			out = append(out, float64(v))
		}
	}
	return out
}

// Range returns the smallest and largest cell. Both are zero for an empty
// grid.
func (g *Grid) Range() (min, max float64) {
	vals := g.Values()
	if len(vals) == 0 {
		return 0, 0
	}
	return floats.Min(vals), floats.Max(vals)
}
