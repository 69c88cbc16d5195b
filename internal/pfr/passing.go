package pfr

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/sells-group/qbstats/internal/clean"
	"github.com/sells-group/qbstats/internal/model"
)

// Passing table td offsets. The rank column is a th and is not counted.
const (
	passName     = 0
	passTeam     = 2
	passPos      = 3
	passGames    = 4
	passYards    = 10
	passTDs      = 11
	passInts     = 13
	passRating   = 23
	passComeback = 29
	passGWD      = 30
)

// MinPassingGames is the games-played floor for a passing row to qualify.
const MinPassingGames = 10

// ParsePassing extracts qualifying quarterback rows from a season passing
// page: position QB, at least MinPassingGames games, and a parsable rating.
// Rows too short for the column layout are logged and skipped.
func ParsePassing(page []byte, year int) ([]model.PassingRow, error) {
	doc, err := ParseDocument(page)
	if err != nil {
		return nil, err
	}
	table, err := statsTable(doc)
	if err != nil {
		return nil, err
	}

	log := zap.L().With(zap.String("component", "pfr.passing"), zap.Int("year", year))

	var rows []model.PassingRow
	var skipped int
	dataRows(table).Each(func(i int, tr *goquery.Selection) {
		cells := cellTexts(tr)
		if len(cells) <= passGames {
			return
		}
		if strings.TrimSpace(cells[passPos]) != "QB" {
			return
		}
		games, ok := clean.NonNegativeInt(cells[passGames])
		if !ok || games < MinPassingGames {
			return
		}
		if len(cells) <= passGWD {
			skipped++
			log.Warn("passing row shorter than expected, skipping",
				zap.Int("row", i+1),
				zap.Int("cells", len(cells)),
			)
			return
		}

		rating := clean.FloatPtr(cells[passRating])
		if rating == nil {
			return
		}

		name, _ := clean.Text(cells[passName])
		team, _ := clean.Text(cells[passTeam])
		rows = append(rows, model.PassingRow{
			Name:              name,
			Team:              team,
			GamesPlayed:       clean.IntPtr(cells[passGames]),
			PassingYards:      clean.IntPtr(cells[passYards]),
			PassingTDs:        clean.IntPtr(cells[passTDs]),
			Interceptions:     clean.IntPtr(cells[passInts]),
			Rating:            rating,
			Comebacks:         clean.IntPtr(cells[passComeback]),
			GameWinningDrives: clean.IntPtr(cells[passGWD]),
			Year:              year,
		})
	})

	log.Debug("parsed passing table",
		zap.Int("qualifying", len(rows)),
		zap.Int("skipped", skipped),
	)
	return rows, nil
}
