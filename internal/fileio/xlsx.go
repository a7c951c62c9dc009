package fileio

import (
	"bytes"

	excelize "github.com/xuri/excelize/v2"
)

// readXLSX returns the first sheet as a grid. OOXML is UTF-8 by definition,
// so there is no encoding chain here.
func readXLSX(b []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return f.GetRows(f.GetSheetName(0))
}
