package pfr

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/qbstats/internal/model"
	"github.com/sells-group/qbstats/internal/teams"
)

// Conferences lists the standings table ids that must be present.
var Conferences = []string{"AFC", "NFC"}

// ParseStandings builds a fresh per-season playoff map from the AFC and NFC
// standings tables. A team whose name carries a trailing '*' or '+' made the
// playoffs; every other listed team was eliminated. Names that do not
// standardize are left out of the map.
func ParseStandings(page []byte, norm *teams.Normalizer) (model.TeamPlayoffMap, error) {
	doc, err := ParseDocument(page)
	if err != nil {
		return nil, err
	}

	log := zap.L().With(zap.String("component", "pfr.standings"))

	out := make(model.TeamPlayoffMap)
	for _, conf := range Conferences {
		table := doc.Find("table#" + conf)
		if table.Length() == 0 {
			return nil, eris.Wrapf(ErrTableNotFound, "standings table %s", conf)
		}

		dataRows(table).Each(func(_ int, tr *goquery.Selection) {
			th := tr.Find("th").First()
			if th.Length() == 0 {
				return
			}
			raw := th.Text()
			name, marked := teams.StripPlayoffMarkers(raw)
			if name == "" {
				return
			}
			team := norm.Standardize(name)
			if team == teams.Unknown {
				return
			}

			status := model.PlayoffStatusEliminated
			if marked {
				status = model.PlayoffStatusPlayoff
			}
			out[team] = status
			log.Debug("resolved standings row",
				zap.String("raw", raw),
				zap.String("team", team),
				zap.String("status", string(status)),
			)
		})
	}
	return out, nil
}
