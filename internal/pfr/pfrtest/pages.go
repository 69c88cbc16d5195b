// Package pfrtest builds synthetic stats pages shaped like the live site.
package pfrtest

import (
	"fmt"
	"strings"
)

// Passer is one passing-table row. Empty fields render as blank cells.
type Passer struct {
	Name, Team, Pos, Games       string
	Yards, TDs, Ints, Rating     string
	Comebacks, GameWinningDrives string
	// Cells truncates the row to this many td cells when > 0.
	Cells int
}

// Rusher is one rushing-table row.
type Rusher struct {
	Name, Team, Games, Yards, TDs string
}

// PassingPage renders a passing stats page.
func PassingPage(rows ...Passer) []byte {
	var b strings.Builder
	b.WriteString(`<html><body><table class="stats_table" id="passing"><thead><tr><th>Rk</th><th>Player</th></tr></thead><tbody>`)
	for i, r := range rows {
		cells := make([]string, 31)
		cells[0] = r.Name
		cells[1] = "27"
		cells[2] = r.Team
		cells[3] = r.Pos
		cells[4] = r.Games
		cells[10] = r.Yards
		cells[11] = r.TDs
		cells[13] = r.Ints
		cells[23] = r.Rating
		cells[29] = r.Comebacks
		cells[30] = r.GameWinningDrives
		if r.Cells > 0 && r.Cells < len(cells) {
			cells = cells[:r.Cells]
		}
		writeRow(&b, i+1, cells)
	}
	b.WriteString(`</tbody></table></body></html>`)
	return []byte(b.String())
}

// RushingPage renders a rushing stats page. When commented is true the table
// is wrapped in an HTML comment the way the site hides secondary tables.
func RushingPage(commented bool, rows ...Rusher) []byte {
	var b strings.Builder
	b.WriteString(`<html><body><div id="all_rushing">`)
	if commented {
		b.WriteString("<!--\n")
	}
	b.WriteString(`<table class="stats_table" id="rushing"><thead><tr><th>Rk</th><th>Player</th></tr></thead><tbody>`)
	for i, r := range rows {
		cells := []string{r.Name, "27", r.Team, "QB", r.Games, r.Games, r.Yards, r.TDs}
		writeRow(&b, i+1, cells)
	}
	b.WriteString(`</tbody></table>`)
	if commented {
		b.WriteString("\n-->")
	}
	b.WriteString(`</div></body></html>`)
	return []byte(b.String())
}

// StandingsPage renders a season page with AFC and NFC standings tables.
// A nil conference slice omits that table.
func StandingsPage(afc, nfc []string) []byte {
	var b strings.Builder
	b.WriteString(`<html><body>`)
	for _, conf := range []struct {
		id    string
		teams []string
	}{{"AFC", afc}, {"NFC", nfc}} {
		if conf.teams == nil {
			continue
		}
		fmt.Fprintf(&b, `<table class="stats_table" id="%s"><thead><tr><th>Tm</th><th>W</th><th>L</th></tr></thead><tbody>`, conf.id)
		fmt.Fprintf(&b, `<tr class="thead onecell"><td colspan="3">%s East</td></tr>`, conf.id)
		for _, team := range conf.teams {
			fmt.Fprintf(&b, `<tr><th scope="row"><a href="/teams/x/">%s</a></th><td>10</td><td>7</td></tr>`, team)
		}
		b.WriteString(`</tbody></table>`)
	}
	b.WriteString(`</body></html>`)
	return []byte(b.String())
}

func writeRow(b *strings.Builder, rank int, cells []string) {
	fmt.Fprintf(b, `<tr><th scope="row">%d</th>`, rank)
	for _, c := range cells {
		fmt.Fprintf(b, `<td>%s</td>`, c)
	}
	b.WriteString(`</tr>`)
}
