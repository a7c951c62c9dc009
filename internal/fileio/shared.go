package fileio

import (
	"fmt"
	"strconv"
	"strings"
)

const bom = "\ufeff"

// pickHeader takes the header row (1-based), strips a BOM, fills blank
// labels with "Column N" and suffixes duplicates with ".1", ".2", ...
func pickHeader(rows [][]string, headerRow int) []string {
	idx := headerRow - 1
	if idx < 0 || idx >= len(rows) {
		idx = 0
	}
	h := rows[idx]
	out := make([]string, len(h))
	seen := make(map[string]int, len(h))
	for i, v := range h {
		if i == 0 {
			v = strings.TrimPrefix(v, bom)
		}
		v = trimASCII(v)
		if v == "" {
			v = fmt.Sprintf("Column %d", i+1)
		}
		if n, dup := seen[v]; dup {
			seen[v] = n + 1
			v = v + "." + strconv.Itoa(n+1)
		} else {
			seen[v] = 0
		}
		out[i] = v
	}
	return out
}

// buildTable turns a grid of raw fields into a Table. Empty lines (no
// fields, or one blank field) are skipped; a row of blank fields such as ","
// is kept as a row of Missing cells. Short rows are padded with Missing; a
// row with more non-blank fields than the header is ErrMalformedRow.
func buildTable(rows [][]string, headerRow int) (*Table, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	if headerRow < 1 {
		headerRow = 1
	}
	if headerRow > len(rows) {
		return nil, fmt.Errorf("%w: header row %d of %d", ErrEmptyFile, headerRow, len(rows))
	}
	headers := pickHeader(rows, headerRow)
	t := &Table{Columns: make([]Column, len(headers))}
	for i, h := range headers {
		t.Columns[i].Label = h
	}

	for r := headerRow; r < len(rows); r++ {
		if emptyLine(rows[r]) {
			continue
		}
		rec := trimTrailingBlank(rows[r])
		if len(rec) > len(headers) {
			return nil, fmt.Errorf("%w: expected %d fields in line %d, saw %d",
				ErrMalformedRow, len(headers), r+1, len(rec))
		}
		for c := range t.Columns {
			cell := Missing()
			if c < len(rec) {
				cell = ParseCell(rec[c])
			}
			t.Columns[c].Cells = append(t.Columns[c].Cells, cell)
		}
	}
	return t, nil
}

func emptyLine(rec []string) bool {
	return len(rec) == 0 || (len(rec) == 1 && trimASCII(rec[0]) == "")
}

func trimTrailingBlank(rec []string) []string {
	n := len(rec)
	for n > 0 && trimASCII(rec[n-1]) == "" {
		n--
	}
	return rec[:n]
}

// trimASCII only strips ASCII whitespace. strings.TrimSpace would also eat
// U+0085 and U+00A0, which latin1 produces from UTF-8 continuation bytes
// that RepairTable still needs.
func trimASCII(s string) string {
	return strings.Trim(s, " \t\r\n")
}
