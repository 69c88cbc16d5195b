package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/qbstats/internal/dataset"
	"github.com/sells-group/qbstats/internal/fetcher"
	"github.com/sells-group/qbstats/internal/model"
	"github.com/sells-group/qbstats/internal/pfr"
	"github.com/sells-group/qbstats/internal/pfr/pfrtest"
	"github.com/sells-group/qbstats/internal/store"
	"github.com/sells-group/qbstats/internal/teams"
)

func passer(name, team string, yards, tds, ints int) model.PassingRow {
	return model.PassingRow{
		Name:              name,
		Team:              team,
		GamesPlayed:       model.Int(17),
		PassingYards:      model.Int(yards),
		PassingTDs:        model.Int(tds),
		Interceptions:     model.Int(ints),
		Rating:            model.Float(95),
		Comebacks:         model.Int(2),
		GameWinningDrives: model.Int(3),
		Year:              2021,
	}
}

// fakeSource serves canned tables per year.
type fakeSource struct {
	passing   map[int][]model.PassingRow
	rushing   map[int][]model.RushingRow
	standings map[int]model.TeamPlayoffMap

	passingErr   map[int]error
	rushingErr   map[int]error
	standingsErr map[int]error
}

func (f *fakeSource) Passing(_ context.Context, year int) ([]model.PassingRow, error) {
	if err := f.passingErr[year]; err != nil {
		return nil, err
	}
	return f.passing[year], nil
}

func (f *fakeSource) Rushing(_ context.Context, year int, _ []model.PassingRow) ([]model.RushingRow, error) {
	if err := f.rushingErr[year]; err != nil {
		return nil, err
	}
	return f.rushing[year], nil
}

func (f *fakeSource) Standings(_ context.Context, year int) (model.TeamPlayoffMap, error) {
	if err := f.standingsErr[year]; err != nil {
		return nil, err
	}
	return f.standings[year], nil
}

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestJoin(t *testing.T) {
	passing := []model.PassingRow{
		passer("Patrick Mahomes", "KAN", 4839, 37, 13),
		passer("Josh Allen", "BUF", 4407, 36, 15),
		passer("Ryan Fitzpatrick", "2TM", 3000, 20, 0),
	}
	rushing := []model.RushingRow{
		{Name: "Josh Allen", RushingYards: 763, RushingTDs: 6, Year: 2021},
		{Name: "Josh Allen", RushingYards: 1, RushingTDs: 0, Year: 2021},
	}
	playoffs := model.TeamPlayoffMap{
		"Buffalo Bills":      model.PlayoffStatusPlayoff,
		"Kansas City Chiefs": model.PlayoffStatusEliminated,
	}

	records := Join(passing, rushing, playoffs, teams.Default())
	require.Len(t, records, 3)

	mahomes := records[0]
	assert.Equal(t, "Kansas City Chiefs", mahomes.StandardizedTeam)
	assert.Equal(t, 0, mahomes.RushingYards)
	assert.Equal(t, 0, mahomes.RushingTDs)
	assert.Equal(t, 4839, *mahomes.TotalYards)
	assert.Equal(t, 2.85, mahomes.TDToINTRatio)
	assert.Equal(t, model.PlayoffStatusEliminated, mahomes.PlayoffStatus)

	allen := records[1]
	assert.Equal(t, 763, allen.RushingYards, "first rushing row wins")
	assert.Equal(t, 4407+763, *allen.TotalYards)
	assert.Equal(t, 36+6, *allen.TotalTDs)
	assert.Equal(t, model.PlayoffStatusPlayoff, allen.PlayoffStatus)

	fitz := records[2]
	assert.Equal(t, teams.MultiTeam, fitz.StandardizedTeam)
	assert.Equal(t, model.PlayoffStatusUnknown, fitz.PlayoffStatus)
	assert.Equal(t, 0.0, fitz.TDToINTRatio)
}

func TestSeasonWritesStageFiles(t *testing.T) {
	dir := t.TempDir()
	src := &fakeSource{
		passing: map[int][]model.PassingRow{2021: {passer("Josh Allen", "BUF", 4407, 36, 15)}},
		rushing: map[int][]model.RushingRow{2021: {{Name: "Josh Allen", RushingYards: 763, RushingTDs: 6, Year: 2021}}},
		standings: map[int]model.TeamPlayoffMap{2021: {
			"Buffalo Bills": model.PlayoffStatusPlayoff,
		}},
	}

	res, err := NewAggregator(src, teams.Default(), dir).Season(context.Background(), 2021)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Empty(t, res.Unmatched)
	assert.Equal(t, model.PlayoffStatusPlayoff, res.Playoffs["Buffalo Bills"])

	pass, err := os.ReadFile(PassingStagePath(dir, 2021))
	require.NoError(t, err)
	assert.Contains(t, string(pass), "Josh Allen,BUF,17,4407,36,15,95,2,3,2021")

	rush, err := os.ReadFile(RushingStagePath(dir, 2021))
	require.NoError(t, err)
	assert.Equal(t, "Name,Rushing Yards,Rushing TDs,Year\nJosh Allen,763,6,2021\n", string(rush))
}

func TestSeasonSkips(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name  string
		src   *fakeSource
		stage string
	}{
		{
			name:  "passing error",
			src:   &fakeSource{passingErr: map[int]error{2021: boom}},
			stage: "passing",
		},
		{
			name:  "no passers",
			src:   &fakeSource{passing: map[int][]model.PassingRow{2021: {}}},
			stage: "passing",
		},
		{
			name: "rushing error",
			src: &fakeSource{
				passing:    map[int][]model.PassingRow{2021: {passer("A", "BUF", 1, 1, 1)}},
				rushingErr: map[int]error{2021: boom},
			},
			stage: "rushing",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAggregator(tt.src, teams.Default(), "").Season(context.Background(), 2021)
			require.Error(t, err)
			assert.True(t, IsSkip(err))

			var skip *SkipError
			require.True(t, errors.As(err, &skip))
			assert.Equal(t, 2021, skip.Year)
			assert.Equal(t, tt.stage, skip.Stage)
		})
	}
}

func TestSeasonRushingNoRowsKeepsSeason(t *testing.T) {
	src := &fakeSource{
		passing:    map[int][]model.PassingRow{2021: {passer("A", "BUF", 4000, 30, 10)}},
		rushingErr: map[int]error{2021: pfr.ErrNoRows},
		standings:  map[int]model.TeamPlayoffMap{2021: {}},
	}

	dir := t.TempDir()
	res, err := NewAggregator(src, teams.Default(), dir).Season(context.Background(), 2021)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, 0, res.Records[0].RushingYards)
	assert.Equal(t, 4000, *res.Records[0].TotalYards)

	assert.FileExists(t, PassingStagePath(dir, 2021))
	assert.NoFileExists(t, RushingStagePath(dir, 2021))
}

func TestSeasonStandingsFailureLeavesTeamsUnresolved(t *testing.T) {
	src := &fakeSource{
		passing:      map[int][]model.PassingRow{2021: {passer("A", "BUF", 4000, 30, 10)}},
		standingsErr: map[int]error{2021: errors.New("table missing")},
	}

	res, err := NewAggregator(src, teams.Default(), "").Season(context.Background(), 2021)
	require.NoError(t, err)
	assert.Empty(t, res.Playoffs)
	assert.Equal(t, model.PlayoffStatusUnknown, res.Records[0].PlayoffStatus)
	assert.Equal(t, []string{"Buffalo Bills"}, res.Unmatched)
}

func TestSeasonStageWriteError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	src := &fakeSource{passing: map[int][]model.PassingRow{2021: {passer("A", "BUF", 1, 1, 1)}}}
	_, err := NewAggregator(src, teams.Default(), blocker).Season(context.Background(), 2021)
	require.Error(t, err)
	assert.False(t, IsSkip(err))
}

func TestCombine(t *testing.T) {
	dir := t.TempDir()
	st := newTestStore(t)
	src := &fakeSource{
		passing: map[int][]model.PassingRow{
			2013: {passer("Peyton Manning", "DEN", 5477, 55, 10)},
			2021: {passer("Tom Brady", "TAM", 5316, 43, 12), passer("Josh Allen", "BUF", 4407, 36, 15)},
			2022: {},
		},
		rushing: map[int][]model.RushingRow{
			2013: {{Name: "Peyton Manning", RushingYards: -31, RushingTDs: 1, Year: 2013}},
		},
		rushingErr: map[int]error{2021: pfr.ErrNoRows},
		standings: map[int]model.TeamPlayoffMap{
			2013: {"Denver Broncos": model.PlayoffStatusPlayoff},
			2021: {"Tampa Bay Buccaneers": model.PlayoffStatusPlayoff},
		},
	}
	combined := filepath.Join(dir, "out", "combined.csv")
	c := NewCombiner(NewAggregator(src, teams.Default(), ""), st, combined)

	res, err := c.Combine(context.Background(), []int{2021, 2013, 2022})
	require.NoError(t, err)
	assert.Equal(t, []int{2021, 2013}, res.Seasons)
	assert.Equal(t, []int{2022}, res.SkippedYears)
	assert.Equal(t, combined, res.CombinedFile)

	require.Len(t, res.Records, 3)
	assert.Equal(t, "Tom Brady", res.Records[0].Name)
	assert.Equal(t, "Josh Allen", res.Records[1].Name)
	assert.Equal(t, "Peyton Manning", res.Records[2].Name)
	for _, r := range res.Records {
		assert.NotEqual(t, model.PlayoffStatusUnknown, r.PlayoffStatus)
	}
	assert.Equal(t, model.PlayoffStatusEliminated, res.Records[1].PlayoffStatus)
	assert.Equal(t, 5477-31, *res.Records[2].TotalYards)

	loaded, err := dataset.LoadRecords(combined)
	require.NoError(t, err)
	assert.Equal(t, res.Records, loaded)

	run, err := st.GetRun(context.Background(), res.RunID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, run.Status)
	require.NotNil(t, run.Result)
	assert.Equal(t, 3, run.Result.Records)
	assert.Equal(t, []int{2022}, run.Result.SkippedYears)

	archived, err := st.ListRecords(context.Background(), res.RunID)
	require.NoError(t, err)
	assert.Len(t, archived, 3)
}

func TestCombineNoData(t *testing.T) {
	st := newTestStore(t)
	src := &fakeSource{passingErr: map[int]error{2021: errors.New("down"), 2022: errors.New("down")}}
	combined := filepath.Join(t.TempDir(), "combined.csv")

	_, err := NewCombiner(NewAggregator(src, teams.Default(), ""), st, combined).
		Combine(context.Background(), []int{2021, 2022})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoData))
	assert.NoFileExists(t, combined)

	runs, err := st.ListRuns(context.Background(), store.RunFilter{})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, model.RunStatusFailed, runs[0].Status)
	assert.Contains(t, runs[0].Error, "no season produced data")
}

func TestCombineWithoutStore(t *testing.T) {
	src := &fakeSource{passing: map[int][]model.PassingRow{2021: {passer("A", "BUF", 1, 1, 1)}}}

	res, err := NewCombiner(NewAggregator(src, teams.Default(), ""), nil, "").
		Combine(context.Background(), []int{2021})
	require.NoError(t, err)
	assert.Empty(t, res.RunID)
	assert.Empty(t, res.CombinedFile)
	require.Len(t, res.Records, 1)
	assert.Equal(t, model.PlayoffStatusEliminated, res.Records[0].PlayoffStatus)
}

func TestCombineCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := &fakeSource{passingErr: map[int]error{2021: context.Canceled}}

	_, err := NewCombiner(NewAggregator(src, teams.Default(), ""), nil, "").Combine(ctx, []int{2021})
	require.Error(t, err)
	assert.False(t, IsSkip(err))
	assert.False(t, errors.Is(err, ErrNoData))
}

// siteServer serves synthetic season pages. Paths missing from pages
// answer with status.
func siteServer(t *testing.T, pages map[string][]byte, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Path]
		if !ok {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(body) //nolint:errcheck
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newSiteCombiner(t *testing.T, baseURL, dir string, st store.Store) *Combiner {
	t.Helper()
	f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		Sleep: func(context.Context, time.Duration) error { return nil },
	})
	norm := teams.Default()
	client := pfr.NewClient(f, baseURL, norm)
	return NewCombiner(NewAggregator(client, norm, dir), st, filepath.Join(dir, "qb_combined_stats_with_playoff_status.csv"))
}

func TestEndToEnd(t *testing.T) {
	srv := siteServer(t, map[string][]byte{
		"/years/2021/passing.htm": pfrtest.PassingPage(
			pfrtest.Passer{
				Name: "Patrick Mahomes*", Team: "KAN", Pos: "QB", Games: "12",
				Yards: "4,839", TDs: "37", Ints: "13", Rating: "95.0",
				Comebacks: "2", GameWinningDrives: "3",
			},
			pfrtest.Passer{Name: "Backup Guy", Team: "KAN", Pos: "QB", Games: "4", Yards: "300", Rating: "80.0"},
		),
		"/years/2021/rushing.htm": pfrtest.RushingPage(true,
			pfrtest.Rusher{Name: "Patrick Mahomes*", Team: "KAN", Games: "8", Yards: "50", TDs: "1"},
		),
		"/years/2021/": pfrtest.StandingsPage(
			[]string{"Kansas City Chiefs*", "Denver Broncos"},
			[]string{"Green Bay Packers+"},
		),
	}, http.StatusNotFound)

	dir := t.TempDir()
	st := newTestStore(t)
	res, err := newSiteCombiner(t, srv.URL, dir, st).Combine(context.Background(), []int{2021})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)

	r := res.Records[0]
	assert.Equal(t, "Patrick Mahomes*", r.Name)
	assert.Equal(t, "Kansas City Chiefs", r.StandardizedTeam)
	assert.Equal(t, 4839+50, *r.TotalYards)
	assert.Equal(t, 37+1, *r.TotalTDs)
	assert.Equal(t, 95.0, *r.Rating)
	assert.Equal(t, model.PlayoffStatusPlayoff, r.PlayoffStatus)

	assert.FileExists(t, PassingStagePath(dir, 2021))
	assert.FileExists(t, RushingStagePath(dir, 2021))
	assert.FileExists(t, res.CombinedFile)
}

func TestEndToEndRushingFailureSkipsSeason(t *testing.T) {
	srv := siteServer(t, map[string][]byte{
		"/years/2021/passing.htm": pfrtest.PassingPage(pfrtest.Passer{
			Name: "Patrick Mahomes", Team: "KAN", Pos: "QB", Games: "12",
			Yards: "4,839", TDs: "37", Ints: "13", Rating: "95.0",
		}),
		"/years/2021/": pfrtest.StandingsPage([]string{"Kansas City Chiefs*"}, []string{}),
	}, http.StatusInternalServerError)

	dir := t.TempDir()
	_, err := newSiteCombiner(t, srv.URL, dir, nil).Combine(context.Background(), []int{2021})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoData))
	assert.NoFileExists(t, filepath.Join(dir, "qb_combined_stats_with_playoff_status.csv"))
}
