package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/qbstats/internal/analysis"
	"github.com/sells-group/qbstats/internal/chart"
	"github.com/sells-group/qbstats/internal/dataset"
	"github.com/sells-group/qbstats/internal/report"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the combined dataset",
	Long:  "Loads the combined dataset, writes descriptive statistics, correlation heatmaps, playoff comparison box plots, and an analysis workbook.",
	RunE: func(_ *cobra.Command, _ []string) error {
		return runAnalyze(os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(out io.Writer) error {
	log := zap.L().With(zap.String("command", "analyze"))

	combined := filepath.Join(cfg.Output.Dir, cfg.Output.CombinedFile)
	records, err := dataset.LoadRecords(combined)
	if err != nil {
		return eris.Wrap(err, "analyze")
	}
	records = analysis.Prepare(records)
	log.Info("analyze: loaded dataset", zap.String("path", combined), zap.Int("records", len(records)))

	table := analysis.Describe(records)
	descPath := filepath.Join(cfg.Output.Dir, cfg.Output.DescriptiveFile)
	if err := dataset.WriteTable(descPath, table.Header(), table.Records()); err != nil {
		return eris.Wrap(err, "analyze")
	}
	report.RenderDescriptive(out, table)
	fmt.Fprintf(out, "Descriptive statistics saved to %s\n", descPath) //nolint:errcheck

	heatmaps, err := chart.Heatmaps(cfg.Output.ChartsDir, analysis.Correlate(records))
	if err != nil {
		return eris.Wrap(err, "analyze")
	}

	results := analysis.ComparePlayoff(records)
	report.RenderComparison(out, results)

	boxplots, err := chart.Boxplots(cfg.Output.ChartsDir, records)
	if err != nil {
		return eris.Wrap(err, "analyze")
	}

	workbook := filepath.Join(cfg.Output.Dir, cfg.Output.WorkbookFile)
	if err := report.WriteWorkbook(workbook, table, results); err != nil {
		return eris.Wrap(err, "analyze")
	}

	log.Info("analyze: complete",
		zap.Int("heatmaps", len(heatmaps)),
		zap.Int("boxplots", len(boxplots)),
		zap.String("workbook", workbook),
	)
	return nil
}
