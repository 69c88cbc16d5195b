package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/qbstats/internal/pfr"
	"github.com/sells-group/qbstats/internal/pipeline"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape and combine quarterback seasons",
	Long: `Fetches passing, rushing, and standings pages for each configured season, writes the per-season stage CSVs, and writes the combined dataset with playoff status.

Seasons come from scrape.years (default 2013, 2021, 2022). Pass --years to scrape a different list for one run, e.g. --years 2019,2020.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if years, _ := cmd.Flags().GetIntSlice("years"); len(years) > 0 {
			cfg.Scrape.Years = years
		}
		return runScrape(cmd.Context(), os.Stdout)
	},
}

func init() {
	scrapeCmd.Flags().IntSlice("years", nil, "seasons to scrape (overrides scrape.years)")
	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(ctx context.Context, out io.Writer) error {
	log := zap.L().With(zap.String("command", "scrape"))

	norm, err := initNormalizer()
	if err != nil {
		return err
	}

	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close() //nolint:errcheck
	}

	client := pfr.NewClient(initFetcher(st), cfg.Scrape.BaseURL, norm)
	combiner := pipeline.NewCombiner(
		pipeline.NewAggregator(client, norm, cfg.Output.Dir),
		st,
		filepath.Join(cfg.Output.Dir, cfg.Output.CombinedFile),
	)

	log.Info("scrape: starting", zap.Ints("years", cfg.Scrape.Years))
	res, err := combiner.Combine(ctx, cfg.Scrape.Years)
	if err != nil {
		return eris.Wrap(err, "scrape")
	}

	if unmapped := norm.Unmapped(); len(unmapped) > 0 {
		log.Warn("scrape: unmapped team names", zap.Strings("teams", unmapped))
	}

	fmt.Fprintf(out, "Combined %d records from seasons %v into %s\n", len(res.Records), res.Seasons, res.CombinedFile) //nolint:errcheck
	if len(res.SkippedYears) > 0 {
		fmt.Fprintf(out, "Skipped seasons: %v\n", res.SkippedYears) //nolint:errcheck
	}
	if res.RunID != "" {
		fmt.Fprintf(out, "Run: %s\n", res.RunID) //nolint:errcheck
	}
	return nil
}
