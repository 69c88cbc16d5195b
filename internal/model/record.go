// Package model defines the quarterback season records that flow through the
// scrape, combine, and analysis stages.
package model

import "math"

// PlayoffStatus labels whether a team reached the postseason in a season.
type PlayoffStatus string

const (
	PlayoffStatusPlayoff    PlayoffStatus = "Playoff"
	PlayoffStatusEliminated PlayoffStatus = "Eliminated"
	// PlayoffStatusUnknown is provisional; the combiner rewrites it to Eliminated.
	PlayoffStatusUnknown    PlayoffStatus = "Unknown"
)

// PassingRow is one qualifying quarterback row from a season's passing table.
// Nil pointers mark cells that could not be parsed.
type PassingRow struct {
	Name              string   `csv:"Name" json:"name"`
	Team              string   `csv:"Team" json:"team"`
	GamesPlayed       *int     `csv:"Games Played" json:"games_played"`
	PassingYards      *int     `csv:"Passing Yards" json:"passing_yards"`
	PassingTDs        *int     `csv:"Passing TDs" json:"passing_tds"`
	Interceptions     *int     `csv:"Interceptions" json:"interceptions"`
	Rating            *float64 `csv:"Rating" json:"rating"`
	Comebacks         *int     `csv:"4QC" json:"comebacks"`
	GameWinningDrives *int     `csv:"GWD" json:"game_winning_drives"`
	Year              int      `csv:"Year" json:"year"`
}

// RushingRow is one quarterback row from a season's rushing table.
type RushingRow struct {
	Name         string `csv:"Name" json:"name"`
	RushingYards int    `csv:"Rushing Yards" json:"rushing_yards"`
	RushingTDs   int    `csv:"Rushing TDs" json:"rushing_tds"`
	Year         int    `csv:"Year" json:"year"`
}

// QuarterbackSeasonRecord joins one player's passing, rushing, and playoff
// data for a single season. Name and Year identify the record.
type QuarterbackSeasonRecord struct {
	Name              string        `csv:"Name" json:"name"`
	Team              string        `csv:"Team" json:"team"`
	GamesPlayed       *int          `csv:"Games Played" json:"games_played"`
	PassingYards      *int          `csv:"Passing Yards" json:"passing_yards"`
	PassingTDs        *int          `csv:"Passing TDs" json:"passing_tds"`
	Interceptions     *int          `csv:"Interceptions" json:"interceptions"`
	Rating            *float64      `csv:"Rating" json:"rating"`
	Comebacks         *int          `csv:"4QC" json:"comebacks"`
	GameWinningDrives *int          `csv:"GWD" json:"game_winning_drives"`
	Year              int           `csv:"Year" json:"year"`
	RushingYards      int           `csv:"Rushing Yards" json:"rushing_yards"`
	RushingTDs        int           `csv:"Rushing TDs" json:"rushing_tds"`
	TotalYards        *int          `csv:"Total Yards" json:"total_yards"`
	TotalTDs          *int          `csv:"Total TDs" json:"total_tds"`
	TDToINTRatio      float64       `csv:"Passing TD to INT Ratio" json:"td_to_int_ratio"`
	StandardizedTeam  string        `csv:"Standardized Team" json:"standardized_team"`
	PlayoffStatus     PlayoffStatus `csv:"Playoff Status" json:"playoff_status"`
}

// NewRecord builds a record from a passing row and its (possibly zero)
// rushing totals, computing the derived totals and the TD/INT ratio.
func NewRecord(p PassingRow, rushYards, rushTDs int) QuarterbackSeasonRecord {
	return QuarterbackSeasonRecord{
		Name:              p.Name,
		Team:              p.Team,
		GamesPlayed:       p.GamesPlayed,
		PassingYards:      p.PassingYards,
		PassingTDs:        p.PassingTDs,
		Interceptions:     p.Interceptions,
		Rating:            p.Rating,
		Comebacks:         p.Comebacks,
		GameWinningDrives: p.GameWinningDrives,
		Year:              p.Year,
		RushingYards:      rushYards,
		RushingTDs:        rushTDs,
		TotalYards:        addOpt(p.PassingYards, rushYards),
		TotalTDs:          addOpt(p.PassingTDs, rushTDs),
		TDToINTRatio:      TDToINTRatio(p.PassingTDs, p.Interceptions),
		PlayoffStatus:     PlayoffStatusUnknown,
	}
}

// TDToINTRatio returns passing TDs divided by interceptions rounded to two
// decimals, or 0 when either side is missing or interceptions is zero.
func TDToINTRatio(tds, ints *int) float64 {
	if tds == nil || ints == nil || *ints == 0 {
		return 0
	}
	return Round2(float64(*tds) / float64(*ints))
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return math.Round(v*100) / 100
}

func addOpt(a *int, b int) *int {
	if a == nil {
		return nil
	}
	sum := *a + b
	return &sum
}

// TeamPlayoffMap maps standardized team names to their playoff status for a
// single season.
type TeamPlayoffMap map[string]PlayoffStatus

// Status returns the team's label, or PlayoffStatusUnknown if the team is
// not in the map.
func (m TeamPlayoffMap) Status(team string) PlayoffStatus {
	if s, ok := m[team]; ok {
		return s
	}
	return PlayoffStatusUnknown
}

// Int returns a pointer to v. Convenient for building optional fields.
func Int(v int) *int { return &v }

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }
