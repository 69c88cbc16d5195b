package pipeline

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/qbstats/internal/dataset"
	"github.com/sells-group/qbstats/internal/model"
	"github.com/sells-group/qbstats/internal/store"
)

// ErrNoData is returned by Combine when every requested season was skipped.
var ErrNoData = errors.New("pipeline: no season produced data")

// CombineResult summarizes a Combine call.
type CombineResult struct {
	RunID        string
	Records      []model.QuarterbackSeasonRecord
	Seasons      []int
	SkippedYears []int
	CombinedFile string
}

// Combiner runs the Aggregator over a list of seasons and produces the
// combined dataset.
type Combiner struct {
	agg          *Aggregator
	store        store.Store
	combinedFile string
}

// NewCombiner creates a Combiner. st may be nil to disable run archival.
// An empty combinedFile disables the CSV export.
func NewCombiner(agg *Aggregator, st store.Store, combinedFile string) *Combiner {
	return &Combiner{agg: agg, store: st, combinedFile: combinedFile}
}

// Combine aggregates each year in order and concatenates the surviving
// seasons. Records still Unknown are resolved to Eliminated. It fails with
// ErrNoData if no season survived.
func (c *Combiner) Combine(ctx context.Context, years []int) (*CombineResult, error) {
	log := zap.L().With(zap.String("component", "pipeline"))
	result := &CombineResult{}

	var run *model.Run
	if c.store != nil {
		var err error
		run, err = c.store.CreateRun(ctx, years)
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: create run")
		}
		result.RunID = run.ID
	}
	fail := func(err error) error {
		if run != nil {
			if ferr := c.store.FailRun(context.WithoutCancel(ctx), run.ID, err.Error()); ferr != nil {
				log.Warn("pipeline: failed to mark run failed", zap.String("run_id", run.ID), zap.Error(ferr))
			}
		}
		return err
	}

	for _, year := range years {
		season, err := c.agg.Season(ctx, year)
		if err != nil {
			if IsSkip(err) {
				log.Warn("pipeline: season skipped", zap.Int("year", year), zap.Error(err))
				result.SkippedYears = append(result.SkippedYears, year)
				continue
			}
			return nil, fail(err)
		}
		result.Seasons = append(result.Seasons, year)
		result.Records = append(result.Records, season.Records...)
	}

	if len(result.Records) == 0 {
		return nil, fail(eris.Wrapf(ErrNoData, "pipeline: combine %v", years))
	}

	resolved := 0
	for i := range result.Records {
		if result.Records[i].PlayoffStatus == model.PlayoffStatusUnknown {
			result.Records[i].PlayoffStatus = model.PlayoffStatusEliminated
			resolved++
		}
	}
	if resolved > 0 {
		log.Debug("pipeline: unresolved teams defaulted to eliminated", zap.Int("records", resolved))
	}

	if c.combinedFile != "" {
		if err := dataset.WriteCSV(c.combinedFile, result.Records); err != nil {
			return nil, fail(err)
		}
		result.CombinedFile = c.combinedFile
	}

	if run != nil {
		n, err := c.store.SaveRecords(ctx, run.ID, result.Records)
		if err != nil {
			return nil, fail(eris.Wrap(err, "pipeline: archive records"))
		}
		if err := c.store.CompleteRun(ctx, run.ID, &model.RunResult{
			Records:      int(n),
			Seasons:      result.Seasons,
			SkippedYears: result.SkippedYears,
			CombinedFile: result.CombinedFile,
		}); err != nil {
			return nil, eris.Wrap(err, "pipeline: complete run")
		}
	}

	log.Info("pipeline: combine complete",
		zap.Int("records", len(result.Records)),
		zap.Ints("seasons", result.Seasons),
		zap.Ints("skipped", result.SkippedYears),
	)
	return result, nil
}
