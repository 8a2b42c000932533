package scraper

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// rowPattern matches each <tr>...</tr> block wherever it sits in the page,
// including rows that are not wrapped in a <table>.
var rowPattern = regexp.MustCompile(`(?is)<tr\b[^>]*>.*?</tr>`)

// extractRows returns the text of every table row in document order.
// Each row holds the text of its direct td cells in column order; rows
// without any td cell are left out.
func extractRows(page []byte) ([][]string, error) {
	rows := make([][]string, 0)

	for _, block := range rowPattern.FindAll(page, -1) {
		// parsed as tbody content so a stray row keeps its cells
		nodes, err := html.ParseFragment(bytes.NewReader(block), &html.Node{
			Type:     html.ElementNode,
			Data:     "tbody",
			DataAtom: atom.Tbody,
		})
		if err != nil {
			return nil, fmt.Errorf("parsing HTML row: %w", err)
		}

		for _, n := range nodes {
			if n.Type != html.ElementNode || n.DataAtom != atom.Tr {
				continue
			}

			cells := make([]string, 0)
			goquery.NewDocumentFromNode(n).ChildrenFiltered("td").Each(func(j int, td *goquery.Selection) {
				cells = append(cells, cellText(td))
			})

			if len(cells) == 0 {
				continue
			}
			rows = append(rows, cells)
		}
	}

	return rows, nil
}

// cellText returns the cell's leading text node, trimmed. Text nested inside
// child elements is ignored: "<td><b>August</b></td>" yields "".
func cellText(td *goquery.Selection) string {
	first := td.Contents().First()
	if first.Length() == 0 || goquery.NodeName(first) != "#text" {
		return ""
	}

	return strings.TrimSpace(first.Get(0).Data)
}
