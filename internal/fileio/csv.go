package fileio

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

// parseCSV parses already-decoded text. maxRows > 0 stops after that many
// records following the header.
func parseCSV(text string, headerRow, maxRows int) (*Table, error) {
	cr := csv.NewReader(strings.NewReader(text))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	limit := -1
	if maxRows > 0 {
		limit = headerRow + maxRows
	}

	var rows [][]string
	for limit < 0 || len(rows) < limit {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	return buildTable(rows, headerRow)
}
