package analysis

import (
	"math"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/sells-group/qbstats/internal/model"
)

// Summary statistics computed for each descriptive metric, in column order.
var Summaries = []string{"mean", "std", "min", "max"}

// DescriptiveRow holds one season's statistics. Values follow the order of
// DescriptiveTable.Columns.
type DescriptiveRow struct {
	Year   int
	Values []float64
}

// DescriptiveTable is the per-season summary of DescriptiveMetrics. Columns
// are named "<Metric>_<stat>", for example "Passing Yards_mean".
type DescriptiveTable struct {
	Columns []string
	Rows    []DescriptiveRow
}

// Describe groups records by season and computes mean, sample standard
// deviation, min, and max for every descriptive metric, rounded to two
// decimals. Missing cells are skipped. A statistic that is undefined for the
// available values (std of fewer than two, anything of none) is NaN.
func Describe(records []model.QuarterbackSeasonRecord) DescriptiveTable {
	table := DescriptiveTable{Columns: descriptiveColumns()}

	years, groups := ByYear(records)
	for _, year := range years {
		row := DescriptiveRow{Year: year, Values: make([]float64, 0, len(table.Columns))}
		for _, m := range DescriptiveMetrics {
			row.Values = append(row.Values, summarize(m.Values(groups[year]))...)
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func descriptiveColumns() []string {
	cols := make([]string, 0, len(DescriptiveMetrics)*len(Summaries))
	for _, m := range DescriptiveMetrics {
		for _, s := range Summaries {
			cols = append(cols, m.Name+"_"+s)
		}
	}
	return cols
}

func summarize(x []float64) []float64 {
	nan := math.NaN()
	if len(x) == 0 {
		return []float64{nan, nan, nan, nan}
	}
	std := nan
	if len(x) > 1 {
		std = stat.StdDev(x, nil)
	}
	return []float64{
		model.Round2(stat.Mean(x, nil)),
		model.Round2(std),
		model.Round2(floats.Min(x)),
		model.Round2(floats.Max(x)),
	}
}

// Column returns the values of the named column in row order, or nil if the
// table has no such column.
func (t DescriptiveTable) Column(name string) []float64 {
	idx := -1
	for i, c := range t.Columns {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	out := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Values[idx]
	}
	return out
}

// Header returns the CSV header: Year followed by the statistic columns.
func (t DescriptiveTable) Header() []string {
	return append([]string{"Year"}, t.Columns...)
}

// Records formats the table as string rows matching Header. NaN cells are
// written empty.
func (t DescriptiveTable) Records() [][]string {
	out := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		rec := make([]string, 0, len(r.Values)+1)
		rec = append(rec, strconv.Itoa(r.Year))
		for _, v := range r.Values {
			rec = append(rec, FormatStat(v))
		}
		out = append(out, rec)
	}
	return out
}

// FormatStat renders a rounded statistic with two decimals, or an empty
// string for NaN.
func FormatStat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
