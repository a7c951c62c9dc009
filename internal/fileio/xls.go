// Legacy .xls workbooks: the charset only matters for BIFF5 strings, so the
// same candidate chain as for CSV is passed to the reader in order.
package fileio

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	xls "github.com/extrame/xls"
)

// xlsProbeCols caps how far right we look for non-empty cells; Row.LastCol()
// is unreliable on workbooks exported by accounting tools.
const xlsProbeCols = 512

func normalizeCell(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))
}

func xlsWidth(sheet *xls.WorkSheet) int {
	width := 0
	for i := 0; i <= int(sheet.MaxRow); i++ {
		r := sheet.Row(i)
		if r == nil {
			continue
		}
		for j := width; j < xlsProbeCols; j++ {
			if normalizeCell(r.Col(j)) != "" {
				width = j + 1
			}
		}
	}
	return max(width, 1)
}

// readXLS opens the workbook with the given charset and returns the first
// sheet as a grid. The xls reader panics on some corrupt files; that is
// reported as an error for this charset.
func readXLS(b []byte, charset string) (rows [][]string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			rows, err = nil, fmt.Errorf("xls %s: %v", charset, rec)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(b), charset)
	if err != nil {
		return nil, err
	}
	if wb == nil {
		return nil, errors.New("xls: failed to open workbook")
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, ErrEmptyFile
	}

	width := xlsWidth(sheet)
	rows = make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			// строки нет в файле: пустая строка, как у xlsx
			rows = append(rows, nil)
			continue
		}
		cols := make([]string, width)
		for j := 0; j < width; j++ {
			cols[j] = normalizeCell(row.Col(j))
		}
		rows = append(rows, cols)
	}
	for len(rows) > 0 && len(trimTrailingBlank(rows[len(rows)-1])) == 0 {
		rows = rows[:len(rows)-1]
	}
	return rows, nil
}
