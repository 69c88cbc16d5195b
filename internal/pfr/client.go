package pfr

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/qbstats/internal/fetcher"
	"github.com/sells-group/qbstats/internal/model"
	"github.com/sells-group/qbstats/internal/teams"
)

// Client fetches and parses season pages.
type Client struct {
	fetcher fetcher.Fetcher
	baseURL string
	teams   *teams.Normalizer
}

// NewClient creates a Client reading pages under baseURL.
func NewClient(f fetcher.Fetcher, baseURL string, norm *teams.Normalizer) *Client {
	return &Client{fetcher: f, baseURL: baseURL, teams: norm}
}

// Passing fetches and parses the season's passing table.
func (c *Client) Passing(ctx context.Context, year int) ([]model.PassingRow, error) {
	page, err := c.fetcher.Fetch(ctx, PassingURL(c.baseURL, year))
	if err != nil {
		return nil, eris.Wrapf(err, "pfr: fetch passing %d", year)
	}
	rows, err := ParsePassing(page, year)
	if err != nil {
		return nil, eris.Wrapf(err, "pfr: parse passing %d", year)
	}
	return rows, nil
}

// Rushing fetches the season's rushing table and keeps rows for the passers
// in passing.
func (c *Client) Rushing(ctx context.Context, year int, passing []model.PassingRow) ([]model.RushingRow, error) {
	page, err := c.fetcher.Fetch(ctx, RushingURL(c.baseURL, year))
	if err != nil {
		return nil, eris.Wrapf(err, "pfr: fetch rushing %d", year)
	}
	rows, err := ParseRushing(page, year, NameSet(passing))
	if err != nil {
		return nil, eris.Wrapf(err, "pfr: parse rushing %d", year)
	}
	return rows, nil
}

// Standings fetches the season's standings and resolves each team's playoff
// status.
func (c *Client) Standings(ctx context.Context, year int) (model.TeamPlayoffMap, error) {
	page, err := c.fetcher.Fetch(ctx, StandingsURL(c.baseURL, year))
	if err != nil {
		return nil, eris.Wrapf(err, "pfr: fetch standings %d", year)
	}
	m, err := ParseStandings(page, c.teams)
	if err != nil {
		return nil, eris.Wrapf(err, "pfr: parse standings %d", year)
	}
	return m, nil
}
