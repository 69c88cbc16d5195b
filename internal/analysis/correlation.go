package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/sells-group/qbstats/internal/model"
)

// Matrix is a symmetric Pearson correlation matrix over Labels for one season.
type Matrix struct {
	Year   int
	Labels []string
	Values [][]float64
}

// At returns the correlation between two labelled columns, or NaN if either
// label is unknown.
func (m Matrix) At(a, b string) float64 {
	i, j := m.index(a), m.index(b)
	if i < 0 || j < 0 {
		return math.NaN()
	}
	return m.Values[i][j]
}

func (m Matrix) index(label string) int {
	for i, l := range m.Labels {
		if l == label {
			return i
		}
	}
	return -1
}

// Correlate builds one correlation matrix per season over CorrelationMetrics.
// Each pair uses the records where both values are present. Pairs with fewer
// than two such records, or with a constant side, are NaN.
func Correlate(records []model.QuarterbackSeasonRecord) map[int]Matrix {
	labels := make([]string, len(CorrelationMetrics))
	for i, m := range CorrelationMetrics {
		labels[i] = m.Name
	}

	years, groups := ByYear(records)
	out := make(map[int]Matrix, len(years))
	for _, year := range years {
		group := groups[year]
		n := len(CorrelationMetrics)
		values := make([][]float64, n)
		for i := range values {
			values[i] = make([]float64, n)
		}
		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				r := pairwise(group, CorrelationMetrics[i], CorrelationMetrics[j])
				if i == j && !math.IsNaN(r) {
					r = 1
				}
				values[i][j] = r
				values[j][i] = r
			}
		}
		out[year] = Matrix{Year: year, Labels: labels, Values: values}
	}
	return out
}

func pairwise(records []model.QuarterbackSeasonRecord, a, b Metric) float64 {
	var xs, ys []float64
	for i := range records {
		x, okX := a.Value(records[i])
		y, okY := b.Value(records[i])
		if okX && okY {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	if stat.Variance(xs, nil) == 0 || stat.Variance(ys, nil) == 0 {
		return math.NaN()
	}
	return stat.Correlation(xs, ys, nil)
}
