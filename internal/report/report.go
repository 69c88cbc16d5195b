// Package report presents analysis results as console tables and as an xlsx
// workbook.
package report

import (
	"fmt"
	"io"
	"math"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/qbstats/internal/analysis"
)

// Workbook sheet names.
const (
	SheetDescriptive = "Descriptive"
	SheetComparison  = "Playoff Comparison"
)

var comparisonHeader = []string{"Metric", "t_stat", "p_value", "Playoff N", "Eliminated N"}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

// RenderDescriptive prints the mean of every descriptive metric per season.
// The full table, including std/min/max, goes to the CSV and workbook.
func RenderDescriptive(w io.Writer, d analysis.DescriptiveTable) {
	t := newTable(w)
	t.SetTitle("Descriptive Statistics (mean by year)")

	header := table.Row{"Year"}
	var cols []string
	for _, m := range analysis.DescriptiveMetrics {
		header = append(header, m.Name)
		cols = append(cols, m.Name+"_mean")
	}
	t.AppendHeader(header)

	means := make([][]float64, len(cols))
	for i, c := range cols {
		means[i] = d.Column(c)
	}
	for r, row := range d.Rows {
		out := table.Row{row.Year}
		for i := range cols {
			out = append(out, analysis.FormatStat(means[i][r]))
		}
		t.AppendRow(out)
	}
	t.Render()
}

// RenderComparison prints the playoff versus eliminated t-test results.
func RenderComparison(w io.Writer, results []analysis.TTestResult) {
	t := newTable(w)
	t.SetTitle("Playoff vs Non-Playoff")

	header := make(table.Row, len(comparisonHeader))
	for i, h := range comparisonHeader {
		header[i] = h
	}
	t.AppendHeader(header)
	for _, r := range results {
		t.AppendRow(table.Row{r.Metric, format3(r.Statistic), format3(r.PValue), r.PlayoffN, r.EliminatedN})
	}
	t.Render()
}

func format3(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return fmt.Sprintf("%.3f", v)
}

// WriteWorkbook saves the descriptive table and the t-test results as two
// sheets of an xlsx file. Undefined values are left as empty cells.
func WriteWorkbook(path string, d analysis.DescriptiveTable, results []analysis.TTestResult) error {
	f := xlsx.NewFile()

	desc, err := f.AddSheet(SheetDescriptive)
	if err != nil {
		return eris.Wrap(err, "report: add descriptive sheet")
	}
	addStringRow(desc, d.Header())
	for _, r := range d.Rows {
		row := desc.AddRow()
		row.AddCell().SetInt(r.Year)
		for _, v := range r.Values {
			addFloatCell(row, v)
		}
	}

	cmp, err := f.AddSheet(SheetComparison)
	if err != nil {
		return eris.Wrap(err, "report: add comparison sheet")
	}
	addStringRow(cmp, comparisonHeader)
	for _, r := range results {
		row := cmp.AddRow()
		row.AddCell().SetString(r.Metric)
		addFloatCell(row, r.Statistic)
		addFloatCell(row, r.PValue)
		row.AddCell().SetInt(r.PlayoffN)
		row.AddCell().SetInt(r.EliminatedN)
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "report: save %s", path)
	}
	return nil
}

func addStringRow(sheet *xlsx.Sheet, values []string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

func addFloatCell(row *xlsx.Row, v float64) {
	cell := row.AddCell()
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	cell.SetFloat(v)
}
