package pfr

import (
	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/sells-group/qbstats/internal/clean"
	"github.com/sells-group/qbstats/internal/model"
)

// Rushing table td offsets.
const (
	rushName  = 0
	rushGames = 4
	rushYards = 6
	rushTDs   = 7
)

// MinRushingGames is the games-played floor for a rushing row to qualify.
const MinRushingGames = 5

// ParseRushing extracts rushing totals for players named in known, which holds
// the season's qualifying passers. Blank yard or TD cells count as zero. It
// returns ErrTableNotFound when the page has no stats table and ErrNoRows when
// nothing matched.
func ParseRushing(page []byte, year int, known map[string]struct{}) ([]model.RushingRow, error) {
	doc, err := ParseDocument(page)
	if err != nil {
		return nil, err
	}
	table, err := statsTable(doc)
	if err != nil {
		return nil, err
	}

	log := zap.L().With(zap.String("component", "pfr.rushing"), zap.Int("year", year))

	var rows []model.RushingRow
	dataRows(table).Each(func(i int, tr *goquery.Selection) {
		cells := cellTexts(tr)
		if len(cells) <= rushGames {
			return
		}
		name, ok := clean.Text(cells[rushName])
		if !ok {
			return
		}
		if _, ok := known[name]; !ok {
			return
		}
		games, ok := clean.NonNegativeInt(cells[rushGames])
		if !ok || games < MinRushingGames {
			return
		}
		if len(cells) <= rushTDs {
			log.Warn("rushing row shorter than expected, skipping",
				zap.Int("row", i+1),
				zap.String("name", name),
			)
			return
		}

		yards, okYards := clean.IntOrZero(cells[rushYards])
		tds, okTDs := clean.IntOrZero(cells[rushTDs])
		if !okYards || !okTDs {
			log.Warn("rushing row has malformed numbers, skipping",
				zap.Int("row", i+1),
				zap.String("name", name),
			)
			return
		}

		rows = append(rows, model.RushingRow{
			Name:         name,
			RushingYards: yards,
			RushingTDs:   tds,
			Year:         year,
		})
	})

	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	return rows, nil
}

// NameSet collects the player names of passing rows.
func NameSet(passing []model.PassingRow) map[string]struct{} {
	set := make(map[string]struct{}, len(passing))
	for _, p := range passing {
		set[p.Name] = struct{}{}
	}
	return set
}
