// Package analysis computes descriptive statistics, per-season correlation
// matrices, and playoff versus eliminated comparisons over the combined
// quarterback dataset.
package analysis

import (
	"math"
	"slices"

	"github.com/sells-group/qbstats/internal/model"
)

// Metric names one numeric column of the combined dataset and how to read it
// from a record. Value reports false when the cell is missing.
type Metric struct {
	Name  string
	Value func(r model.QuarterbackSeasonRecord) (float64, bool)
}

func intMetric(name string, get func(r model.QuarterbackSeasonRecord) *int) Metric {
	return Metric{Name: name, Value: func(r model.QuarterbackSeasonRecord) (float64, bool) {
		v := get(r)
		if v == nil {
			return 0, false
		}
		return float64(*v), true
	}}
}

func countMetric(name string, get func(r model.QuarterbackSeasonRecord) int) Metric {
	return Metric{Name: name, Value: func(r model.QuarterbackSeasonRecord) (float64, bool) {
		return float64(get(r)), true
	}}
}

var (
	GamesPlayed       = intMetric("Games Played", func(r model.QuarterbackSeasonRecord) *int { return r.GamesPlayed })
	PassingYards      = intMetric("Passing Yards", func(r model.QuarterbackSeasonRecord) *int { return r.PassingYards })
	PassingTDs        = intMetric("Passing TDs", func(r model.QuarterbackSeasonRecord) *int { return r.PassingTDs })
	Interceptions     = intMetric("Interceptions", func(r model.QuarterbackSeasonRecord) *int { return r.Interceptions })
	Comebacks         = intMetric("4QC", func(r model.QuarterbackSeasonRecord) *int { return r.Comebacks })
	GameWinningDrives = intMetric("GWD", func(r model.QuarterbackSeasonRecord) *int { return r.GameWinningDrives })
	TotalYards        = intMetric("Total Yards", func(r model.QuarterbackSeasonRecord) *int { return r.TotalYards })
	TotalTDs          = intMetric("Total TDs", func(r model.QuarterbackSeasonRecord) *int { return r.TotalTDs })
	RushingYards      = countMetric("Rushing Yards", func(r model.QuarterbackSeasonRecord) int { return r.RushingYards })
	RushingTDs        = countMetric("Rushing TDs", func(r model.QuarterbackSeasonRecord) int { return r.RushingTDs })
	Rating            = Metric{Name: "Rating", Value: rating}
	TDToINTRatio      = Metric{Name: "Passing TD to INT Ratio", Value: tdToINTRatio}
)

func rating(r model.QuarterbackSeasonRecord) (float64, bool) {
	if r.Rating == nil {
		return 0, false
	}
	return *r.Rating, true
}

func tdToINTRatio(r model.QuarterbackSeasonRecord) (float64, bool) {
	if math.IsNaN(r.TDToINTRatio) {
		return 0, false
	}
	return r.TDToINTRatio, true
}

// DescriptiveMetrics are summarized per season by Describe.
var DescriptiveMetrics = []Metric{
	PassingYards, PassingTDs, Interceptions, Rating,
	RushingYards, RushingTDs, TotalYards, TotalTDs, TDToINTRatio,
}

// CorrelationMetrics are the numeric columns correlated by Correlate. Year is
// constant within a season and is left out.
var CorrelationMetrics = []Metric{
	GamesPlayed, PassingYards, PassingTDs, Interceptions, Rating, Comebacks,
	GameWinningDrives, RushingYards, RushingTDs, TotalYards, TotalTDs, TDToINTRatio,
}

// ComparisonMetrics are tested by ComparePlayoff.
var ComparisonMetrics = []Metric{
	PassingYards, PassingTDs, Interceptions, Rating, RushingYards, RushingTDs,
	TotalYards, TotalTDs, TDToINTRatio, Comebacks, GameWinningDrives,
}

// BoxplotMetrics are drawn as playoff versus eliminated box plots.
var BoxplotMetrics = []Metric{
	PassingYards, PassingTDs, TotalYards, TotalTDs,
	Comebacks, GameWinningDrives, TDToINTRatio, Rating,
}

// Values collects the non-missing values of m across records.
func (m Metric) Values(records []model.QuarterbackSeasonRecord) []float64 {
	out := make([]float64, 0, len(records))
	for i := range records {
		if v, ok := m.Value(records[i]); ok {
			out = append(out, v)
		}
	}
	return out
}

// Prepare returns a copy of records with NaN or infinite TD/INT ratios
// replaced by 0.
func Prepare(records []model.QuarterbackSeasonRecord) []model.QuarterbackSeasonRecord {
	out := make([]model.QuarterbackSeasonRecord, len(records))
	copy(out, records)
	for i := range out {
		if math.IsNaN(out[i].TDToINTRatio) || math.IsInf(out[i].TDToINTRatio, 0) {
			out[i].TDToINTRatio = 0
		}
	}
	return out
}

// ByYear groups records by season, returning the seasons in ascending order.
func ByYear(records []model.QuarterbackSeasonRecord) ([]int, map[int][]model.QuarterbackSeasonRecord) {
	groups := make(map[int][]model.QuarterbackSeasonRecord)
	var years []int
	for _, r := range records {
		if _, ok := groups[r.Year]; !ok {
			years = append(years, r.Year)
		}
		groups[r.Year] = append(groups[r.Year], r)
	}
	slices.Sort(years)
	return years, groups
}
