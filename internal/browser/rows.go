package browser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseRows extracts the cells of every element matched by rowSelector in html.
// Runs of whitespace in a cell collapse to one space. Rows without td cells are skipped.
func ParseRows(html, rowSelector string) ([][]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page HTML: %w", err)
	}

	rows := make([][]string, 0)

	doc.Find(rowSelector).Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td").Map(func(_ int, cell *goquery.Selection) string {
			return strings.Join(strings.Fields(cell.Text()), " ")
		})

		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	})

	return rows, nil
}
