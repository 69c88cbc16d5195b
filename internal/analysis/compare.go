package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sells-group/qbstats/internal/model"
)

// TTestResult is a two-sample Student t-test of one metric between playoff
// and eliminated quarterbacks.
type TTestResult struct {
	Metric      string
	Statistic   float64
	PValue      float64
	PlayoffN    int
	EliminatedN int
}

// ComparePlayoff runs a pooled-variance t-test for each of the
// ComparisonMetrics. Missing values are left out of each sample. A metric is
// omitted when either group has no values.
func ComparePlayoff(records []model.QuarterbackSeasonRecord) []TTestResult {
	var playoff, eliminated []model.QuarterbackSeasonRecord
	for _, r := range records {
		switch r.PlayoffStatus {
		case model.PlayoffStatusPlayoff:
			playoff = append(playoff, r)
		case model.PlayoffStatusEliminated:
			eliminated = append(eliminated, r)
		}
	}

	var out []TTestResult
	for _, m := range ComparisonMetrics {
		a, b := m.Values(playoff), m.Values(eliminated)
		if len(a) == 0 || len(b) == 0 {
			continue
		}
		t, p := StudentT(a, b)
		out = append(out, TTestResult{
			Metric:      m.Name,
			Statistic:   t,
			PValue:      p,
			PlayoffN:    len(a),
			EliminatedN: len(b),
		})
	}
	return out
}

// StudentT returns the t statistic and two-sided p-value of an independent
// two-sample t-test assuming equal variances. Both are NaN when the test is
// undefined (fewer than three values in total, or zero pooled variance).
func StudentT(a, b []float64) (float64, float64) {
	n1, n2 := float64(len(a)), float64(len(b))
	df := n1 + n2 - 2
	if len(a) == 0 || len(b) == 0 || df <= 0 {
		return math.NaN(), math.NaN()
	}

	m1, m2 := stat.Mean(a, nil), stat.Mean(b, nil)
	var ss float64
	if len(a) > 1 {
		ss += (n1 - 1) * stat.Variance(a, nil)
	}
	if len(b) > 1 {
		ss += (n2 - 1) * stat.Variance(b, nil)
	}
	pooled := ss / df
	if pooled == 0 {
		return math.NaN(), math.NaN()
	}

	t := (m1 - m2) / math.Sqrt(pooled*(1/n1+1/n2))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return t, 2 * dist.Survival(math.Abs(t))
}
