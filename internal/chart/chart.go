// Package chart renders correlation heatmaps and playoff comparison box plots
// as PNG files.
package chart

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"github.com/sells-group/qbstats/internal/analysis"
	"github.com/sells-group/qbstats/internal/model"
)

// MetricFileName converts a metric name into a file stem: lower case with
// spaces replaced by underscores.
func MetricFileName(metric string) string {
	return strings.ReplaceAll(strings.ToLower(metric), " ", "_")
}

// HeatmapPath returns the heatmap file for a season under dir.
func HeatmapPath(dir string, year int) string {
	return filepath.Join(dir, fmt.Sprintf("correlation_matrix_%d.png", year))
}

// BoxplotPath returns the comparison plot file for a metric under dir.
func BoxplotPath(dir, metric string) string {
	return filepath.Join(dir, MetricFileName(metric)+"_comparison.png")
}

// Heatmaps writes one annotated correlation heatmap per season, in ascending
// year order, and returns the written paths.
func Heatmaps(dir string, matrices map[int]analysis.Matrix) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "chart: create dir %s", dir)
	}

	years := make([]int, 0, len(matrices))
	for y := range matrices {
		years = append(years, y)
	}
	slices.Sort(years)

	paths := make([]string, 0, len(years))
	for _, year := range years {
		m := matrices[year]
		if len(m.Labels) == 0 {
			continue
		}
		path := HeatmapPath(dir, year)
		if err := heatmap(m).Save(10*vg.Inch, 8*vg.Inch, path); err != nil {
			return paths, eris.Wrapf(err, "chart: save %s", path)
		}
		zap.L().Debug("chart: wrote heatmap", zap.Int("year", year), zap.String("path", path))
		paths = append(paths, path)
	}
	return paths, nil
}

// matrixGrid adapts a correlation matrix to plotter.GridXYZ with the first
// label in the top row.
type matrixGrid struct {
	m analysis.Matrix
}

func (g matrixGrid) Dims() (c, r int) { n := len(g.m.Labels); return n, n }
func (g matrixGrid) Z(c, r int) float64 { return g.m.Values[len(g.m.Labels)-1-r][c] }
func (g matrixGrid) X(c int) float64 { return float64(c) }
func (g matrixGrid) Y(r int) float64 { return float64(r) }
func (g matrixGrid) Min() float64 { return -1 }
func (g matrixGrid) Max() float64 { return 1 }

func heatmap(m analysis.Matrix) *plot.Plot {
	grid := matrixGrid{m: m}
	n := len(m.Labels)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Correlation Matrix for %d", m.Year)

	hm := plotter.NewHeatMap(grid, moreland.SmoothBlueRed().Palette(255))
	hm.NaN = color.Gray{Y: 0xe0}
	p.Add(hm)

	var cells plotter.XYLabels
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			v := grid.Z(c, r)
			label := ""
			if !math.IsNaN(v) {
				label = fmt.Sprintf("%.2f", v)
			}
			cells.XYs = append(cells.XYs, plotter.XY{X: float64(c), Y: float64(r)})
			cells.Labels = append(cells.Labels, label)
		}
	}
	if annotations, err := plotter.NewLabels(cells); err == nil {
		for i := range annotations.TextStyle {
			annotations.TextStyle[i].XAlign = text.XCenter
			annotations.TextStyle[i].YAlign = text.YCenter
			annotations.TextStyle[i].Font.Size = vg.Points(7)
		}
		p.Add(annotations)
	}

	rows := slices.Clone(m.Labels)
	slices.Reverse(rows)
	p.NominalX(m.Labels...)
	p.NominalY(rows...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = text.XRight
	return p
}

// Boxplots writes a Playoff versus Eliminated box plot for each of
// analysis.BoxplotMetrics and returns the written paths. A metric with no
// values in either group is skipped.
func Boxplots(dir string, records []model.QuarterbackSeasonRecord) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "chart: create dir %s", dir)
	}
	log := zap.L().With(zap.String("component", "chart"))

	groups := map[model.PlayoffStatus][]model.QuarterbackSeasonRecord{}
	for _, r := range records {
		groups[r.PlayoffStatus] = append(groups[r.PlayoffStatus], r)
	}
	order := []model.PlayoffStatus{model.PlayoffStatusPlayoff, model.PlayoffStatusEliminated}

	var paths []string
	for _, m := range analysis.BoxplotMetrics {
		p := plot.New()
		p.Title.Text = m.Name + " Comparison: Playoff vs Non-Playoff"
		p.X.Label.Text = "Playoff Status"
		p.Y.Label.Text = m.Name

		var names []string
		for _, status := range order {
			values := m.Values(groups[status])
			if len(values) == 0 {
				continue
			}
			box, err := plotter.NewBoxPlot(vg.Points(40), float64(len(names)), plotter.Values(values))
			if err != nil {
				return paths, eris.Wrapf(err, "chart: box plot %s %s", m.Name, status)
			}
			p.Add(box)
			names = append(names, string(status))
		}
		if len(names) == 0 {
			log.Warn("chart: no values to plot", zap.String("metric", m.Name))
			continue
		}
		p.NominalX(names...)

		path := BoxplotPath(dir, m.Name)
		if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
			return paths, eris.Wrapf(err, "chart: save %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
