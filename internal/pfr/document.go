package pfr

import (
	"bytes"
	"errors"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
)

var (
	// ErrTableNotFound means the page lacks the expected stats table.
	ErrTableNotFound = errors.New("pfr: stats table not found")
	// ErrNoRows means the table parsed but no row qualified.
	ErrNoRows = errors.New("pfr: no qualifying rows")
)

// ParseDocument parses a page after removing comment markers, since the site
// ships secondary tables inside HTML comments.
func ParseDocument(page []byte) (*goquery.Document, error) {
	page = bytes.ReplaceAll(page, []byte("<!--"), nil)
	page = bytes.ReplaceAll(page, []byte("-->"), nil)
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, eris.Wrap(err, "pfr: parse html")
	}
	return doc, nil
}

// statsTable returns the first stats table in doc.
func statsTable(doc *goquery.Document) (*goquery.Selection, error) {
	table := doc.Find("table.stats_table").First()
	if table.Length() == 0 {
		return nil, ErrTableNotFound
	}
	return table, nil
}

// dataRows returns every row after the first, matching the header skip of
// the site's single-header layout.
func dataRows(table *goquery.Selection) *goquery.Selection {
	return table.Find("tr").Slice(1, goquery.ToEnd)
}

// cellTexts returns the raw text of each td in row.
func cellTexts(row *goquery.Selection) []string {
	cells := row.Find("td")
	out := make([]string, cells.Length())
	cells.Each(func(i int, cell *goquery.Selection) {
		out[i] = cell.Text()
	})
	return out
}
