package storage

import (
	"fmt"
	"strings"

	"paramibot/internal/content"
)

// mapRecords turns a header row plus data rows into items, the way a
// spreadsheet "all records" view does. Blank rows are skipped; short rows
// read missing cells as empty.
func mapRecords(rows [][]string, titleCol, bodyCol string) ([]content.Item, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	ti, bi := -1, -1
	for i, h := range rows[0] {
		switch {
		case strings.EqualFold(strings.TrimSpace(h), titleCol):
			ti = i
		case strings.EqualFold(strings.TrimSpace(h), bodyCol):
			bi = i
		}
	}
	if ti < 0 || bi < 0 {
		return nil, fmt.Errorf("%w: header must contain %q and %q, got %q", ErrBadLayout, titleCol, bodyCol, rows[0])
	}
	items := make([]content.Item, 0, len(rows)-1)
	for _, row := range rows[1:] {
		it := content.Item{Title: cell(row, ti), Body: cell(row, bi)}
		if it.IsBlank() {
			continue
		}
		items = append(items, it)
	}
	return items, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
