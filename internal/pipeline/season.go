// Package pipeline scrapes seasons of quarterback data and combines them into
// a single dataset.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/qbstats/internal/dataset"
	"github.com/sells-group/qbstats/internal/model"
	"github.com/sells-group/qbstats/internal/pfr"
	"github.com/sells-group/qbstats/internal/teams"
)

// Source supplies the three per-season tables. *pfr.Client implements it.
type Source interface {
	Passing(ctx context.Context, year int) ([]model.PassingRow, error)
	Rushing(ctx context.Context, year int, passing []model.PassingRow) ([]model.RushingRow, error)
	Standings(ctx context.Context, year int) (model.TeamPlayoffMap, error)
}

var _ Source = (*pfr.Client)(nil)

// ErrNoPassers marks a passing table with no qualifying quarterback.
var ErrNoPassers = errors.New("pipeline: no qualifying passers")

// SkipError reports a season left out of the combined dataset.
type SkipError struct {
	Year  int
	Stage string
	Err   error
}

func (e *SkipError) Error() string {
	return fmt.Sprintf("pipeline: skip season %d (%s): %v", e.Year, e.Stage, e.Err)
}

func (e *SkipError) Unwrap() error { return e.Err }

// IsSkip reports whether err is a skipped season.
func IsSkip(err error) bool {
	var s *SkipError
	return errors.As(err, &s)
}

// SeasonResult is one aggregated season.
type SeasonResult struct {
	Year      int
	Records   []model.QuarterbackSeasonRecord
	Playoffs  model.TeamPlayoffMap
	Unmatched []string
}

// Aggregator builds the joined record set for a single season.
type Aggregator struct {
	source Source
	teams  *teams.Normalizer
	outDir string
}

// NewAggregator creates an Aggregator. When outDir is non-empty the passing
// and rushing stage tables are written there as CSV.
func NewAggregator(src Source, norm *teams.Normalizer, outDir string) *Aggregator {
	return &Aggregator{source: src, teams: norm, outDir: outDir}
}

// PassingStagePath returns the passing stage file for a season.
func PassingStagePath(dir string, year int) string {
	return filepath.Join(dir, fmt.Sprintf("qb_pass_stats_%d.csv", year))
}

// RushingStagePath returns the rushing stage file for a season.
func RushingStagePath(dir string, year int) string {
	return filepath.Join(dir, fmt.Sprintf("qb_rush_stats_%d.csv", year))
}

// Season fetches and joins one season. Passing or rushing failures, and a
// passing table without qualifying rows, return a *SkipError. A rushing
// table that matches no passer keeps the season with zero rushing and writes
// no rushing stage file. A
// standings failure leaves every team unresolved. Other errors (stage file
// writes, cancellation) are returned as-is.
func (a *Aggregator) Season(ctx context.Context, year int) (SeasonResult, error) {
	log := zap.L().With(zap.String("component", "pipeline"), zap.Int("year", year))
	res := SeasonResult{Year: year}

	passing, err := a.source.Passing(ctx, year)
	if err != nil {
		if ctx.Err() != nil {
			return res, eris.Wrapf(ctx.Err(), "pipeline: season %d", year)
		}
		return res, &SkipError{Year: year, Stage: "passing", Err: err}
	}
	if len(passing) == 0 {
		return res, &SkipError{Year: year, Stage: "passing", Err: ErrNoPassers}
	}
	log.Info("pipeline: passing extracted", zap.Int("rows", len(passing)))
	if a.outDir != "" {
		if err := dataset.WriteCSV(PassingStagePath(a.outDir, year), passing); err != nil {
			return res, err
		}
	}

	rushing, err := a.source.Rushing(ctx, year, passing)
	switch {
	case errors.Is(err, pfr.ErrNoRows):
		log.Info("pipeline: no rushing rows matched, rushing defaults to zero")
		rushing = nil
	case err != nil:
		if ctx.Err() != nil {
			return res, eris.Wrapf(ctx.Err(), "pipeline: season %d", year)
		}
		return res, &SkipError{Year: year, Stage: "rushing", Err: err}
	default:
		log.Info("pipeline: rushing extracted", zap.Int("rows", len(rushing)))
		if a.outDir != "" {
			if err := dataset.WriteCSV(RushingStagePath(a.outDir, year), rushing); err != nil {
				return res, err
			}
		}
	}

	playoffs, err := a.source.Standings(ctx, year)
	if err != nil {
		if ctx.Err() != nil {
			return res, eris.Wrapf(ctx.Err(), "pipeline: season %d", year)
		}
		log.Warn("pipeline: standings unavailable, teams default to eliminated", zap.Error(err))
		playoffs = model.TeamPlayoffMap{}
	}
	log.Debug("pipeline: playoff map", zap.Any("teams", playoffs))

	res.Playoffs = playoffs
	res.Records = Join(passing, rushing, playoffs, a.teams)
	res.Unmatched = unmatchedTeams(res.Records)
	if len(res.Unmatched) > 0 {
		log.Debug("pipeline: teams without playoff status", zap.Strings("teams", res.Unmatched))
	}
	return res, nil
}

// Join left-joins rushing totals onto passing rows by player name, derives
// the totals and the TD/INT ratio, and labels each record with its team's
// playoff status. Passers without a rushing row get zero rushing. When a
// name repeats in rushing the first row wins. Teams missing from playoffs
// are left Unknown.
func Join(passing []model.PassingRow, rushing []model.RushingRow, playoffs model.TeamPlayoffMap, norm *teams.Normalizer) []model.QuarterbackSeasonRecord {
	byName := make(map[string]model.RushingRow, len(rushing))
	for _, r := range rushing {
		if _, ok := byName[r.Name]; !ok {
			byName[r.Name] = r
		}
	}

	out := make([]model.QuarterbackSeasonRecord, 0, len(passing))
	for _, p := range passing {
		r := byName[p.Name]
		rec := model.NewRecord(p, r.RushingYards, r.RushingTDs)
		rec.StandardizedTeam = norm.Standardize(p.Team)
		rec.PlayoffStatus = playoffs.Status(rec.StandardizedTeam)
		out = append(out, rec)
	}
	return out
}

func unmatchedTeams(records []model.QuarterbackSeasonRecord) []string {
	var out []string
	for _, r := range records {
		if r.PlayoffStatus == model.PlayoffStatusUnknown && !slices.Contains(out, r.StandardizedTeam) {
			out = append(out, r.StandardizedTeam)
		}
	}
	return out
}
