package fileio

import (
	"regexp"
	"strconv"
)

// CellKind tags the value stored in a Cell.
type CellKind uint8

const (
	KindMissing CellKind = iota
	KindNumeric
	KindText
)

func (k CellKind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindNumeric:
		return "numeric"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Cell is one table value. Only the field matching Kind is meaningful.
type Cell struct {
	Kind CellKind
	Num  float64
	Text string
}

func Missing() Cell            { return Cell{Kind: KindMissing} }
func Numeric(v float64) Cell   { return Cell{Kind: KindNumeric, Num: v} }
func TextCell(s string) Cell   { return Cell{Kind: KindText, Text: s} }
func (c Cell) IsMissing() bool { return c.Kind == KindMissing }
func (c Cell) IsNumeric() bool { return c.Kind == KindNumeric }

// String renders the cell the way it would appear in the source file.
func (c Cell) String() string {
	switch c.Kind {
	case KindMissing:
		return ""
	case KindNumeric:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case KindText:
		return c.Text
	default:
		return ""
	}
}

// numericPattern accepts integers, decimals and scientific notation.
var numericPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// ParseCell types a raw field: blank -> Missing, strict number -> Numeric,
// anything else -> Text (kept verbatim, it may still need repair).
func ParseCell(raw string) Cell {
	s := trimASCII(raw)
	if s == "" {
		return Missing()
	}
	if numericPattern.MatchString(s) {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return Numeric(v)
		}
	}
	return TextCell(raw)
}

type Column struct {
	Label string
	Cells []Cell
}

// Table is a column-oriented view of one file. Every column holds Rows() cells.
type Table struct {
	Columns []Column
}

func (t *Table) Rows() int {
	if t == nil || len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Cells)
}

func (t *Table) Labels() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Label
	}
	return out
}

// Column returns the first column with exactly the given label.
func (t *Table) Column(label string) (*Column, bool) {
	if t == nil {
		return nil, false
	}
	for i := range t.Columns {
		if t.Columns[i].Label == label {
			return &t.Columns[i], true
		}
	}
	return nil, false
}

// Row returns row i as strings, in column order.
func (t *Table) Row(i int) []string {
	out := make([]string, len(t.Columns))
	for j, c := range t.Columns {
		out[j] = c.Cells[i].String()
	}
	return out
}
