// Package pfr extracts quarterback season tables from pro-football-reference
// pages.
package pfr

import (
	"fmt"
	"strings"
)

// PassingURL returns the season passing-stats page.
func PassingURL(base string, year int) string {
	return fmt.Sprintf("%s/years/%d/passing.htm", strings.TrimRight(base, "/"), year)
}

// RushingURL returns the season rushing-stats page.
func RushingURL(base string, year int) string {
	return fmt.Sprintf("%s/years/%d/rushing.htm", strings.TrimRight(base, "/"), year)
}

// StandingsURL returns the season landing page carrying the AFC/NFC standings.
func StandingsURL(base string, year int) string {
	return fmt.Sprintf("%s/years/%d/", strings.TrimRight(base, "/"), year)
}
