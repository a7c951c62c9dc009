package service

import (
	"math"
	"strings"

	"scenic-score/internal/fileio"
)

// вычистим спец-пробелы: NBSP, thin space, narrow NBSP
var spaceJunk = strings.NewReplacer("\u00a0", "", "\u2009", "", "\u202f", "")

// ToNumber reads a cell as a score. Text that is not a plain number is
// missing, never zero.
func ToNumber(c fileio.Cell) (float64, bool) {
	switch c.Kind {
	case fileio.KindNumeric:
		if math.IsNaN(c.Num) || math.IsInf(c.Num, 0) {
			return 0, false
		}
		return c.Num, true
	case fileio.KindText:
		p := fileio.ParseCell(spaceJunk.Replace(c.Text))
		if p.Kind != fileio.KindNumeric {
			return 0, false
		}
		return p.Num, true
	case fileio.KindMissing:
		return 0, false
	default:
		return 0, false
	}
}

// CoerceNumeric rewrites the column in place so every cell is Numeric or
// Missing. ok is false when the table has no such column.
func CoerceNumeric(t *fileio.Table, label string) (*fileio.Column, bool) {
	col, ok := t.Column(label)
	if !ok {
		return nil, false
	}
	for i, c := range col.Cells {
		if v, ok := ToNumber(c); ok {
			col.Cells[i] = fileio.Numeric(v)
		} else {
			col.Cells[i] = fileio.Missing()
		}
	}
	return col, true
}

// columnMax ignores missing cells; ok is false if nothing was numeric.
func columnMax(col *fileio.Column) (m float64, ok bool) {
	for _, c := range col.Cells {
		v, valid := ToNumber(c)
		if !valid {
			continue
		}
		if !ok || v > m {
			m, ok = v, true
		}
	}
	return m, ok
}

// matchesMax compares exactly unless a tolerance is configured.
func matchesMax(v, max, tolerance float64) bool {
	if tolerance <= 0 {
		return v == max
	}
	return math.Abs(v-max) <= tolerance
}

func countAtMax(col *fileio.Column, max, tolerance float64) int {
	n := 0
	for _, c := range col.Cells {
		if v, ok := ToNumber(c); ok && matchesMax(v, max, tolerance) {
			n++
		}
	}
	return n
}

// ScoreValues returns the defined values of col in row order.
func ScoreValues(col *fileio.Column) []float64 {
	out := make([]float64, 0, len(col.Cells))
	for _, c := range col.Cells {
		if v, ok := ToNumber(c); ok {
			out = append(out, v)
		}
	}
	return out
}
