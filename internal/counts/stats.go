package counts

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the distribution of counts in a grid.
type Summary struct {
	Rows    int     `json:"rows"`
	Width   int     `json:"width"`
	LastRow int     `json:"last_row"`
	Count   int     `json:"count"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Sum     float64 `json:"sum"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"std_dev"`
	Median  float64 `json:"median"`
	P95     float64 `json:"p95"`
}

// Summarize computes a Summary for g.
func Summarize(g *Grid) Summary {
	s := Summary{Rows: g.Height(), Width: g.Width}
	if n := g.Height(); n > 0 {
		s.LastRow = len(g.Rows[n-1])
	}

	vals := g.Values()
	s.Count = len(vals)
	if len(vals) == 0 {
		return s
	}

	sort.Float64s(vals)
	s.Min = vals[0]
	s.Max = vals[len(vals)-1]
	s.Sum = floats.Sum(vals)
	s.Mean, s.StdDev = stat.MeanStdDev(vals, nil)
	if len(vals) == 1 {
		s.StdDev = 0
	}
	s.Median = stat.Quantile(0.5, stat.Empirical, vals, nil)
	s.P95 = stat.Quantile(0.95, stat.Empirical, vals, nil)
	return s
}
