package service

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"scenic-score/internal/fileio"
)

func TestToNumber(t *testing.T) {
	Convey("ToNumber", t, func() {
		v, ok := ToNumber(fileio.Numeric(4.5))
		So(ok, ShouldBeTrue)
		So(v, ShouldEqual, 4.5)

		_, ok = ToNumber(fileio.Missing())
		So(ok, ShouldBeFalse)

		_, ok = ToNumber(fileio.Numeric(math.NaN()))
		So(ok, ShouldBeFalse)

		Convey("reads text with NBSP padding", func() {
			v, ok := ToNumber(fileio.TextCell("\u00a04.7\u2009"))
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 4.7)
		})

		Convey("rejects anything that is not a plain number", func() {
			for _, s := range []string{"暂无", "4.5分", "N/A", "NaN", "inf", "1,5"} {
				_, ok := ToNumber(fileio.TextCell(s))
				So(ok, ShouldBeFalse)
			}
		})
	})
}

func TestCoerceNumeric(t *testing.T) {
	Convey("Given a mixed column", t, func() {
		tbl := &fileio.Table{Columns: []fileio.Column{
			{Label: "评分", Cells: []fileio.Cell{
				fileio.Numeric(3), fileio.TextCell("暂无"), fileio.Missing(), fileio.TextCell("4\u00a0"),
			}},
		}}

		col, ok := CoerceNumeric(tbl, "评分")

		Convey("Every cell becomes numeric or missing", func() {
			So(ok, ShouldBeTrue)
			So(col.Cells, ShouldResemble, []fileio.Cell{
				fileio.Numeric(3), fileio.Missing(), fileio.Missing(), fileio.Numeric(4),
			})
			So(ScoreValues(col), ShouldResemble, []float64{3, 4})
		})

		Convey("max and count skip missing cells", func() {
			m, ok := columnMax(col)
			So(ok, ShouldBeTrue)
			So(m, ShouldEqual, 4)
			So(countAtMax(col, 4, 0), ShouldEqual, 1)
			So(countAtMax(col, 3.5, 0.6), ShouldEqual, 2)
		})

		Convey("An absent label is reported", func() {
			_, ok := CoerceNumeric(tbl, "score")
			So(ok, ShouldBeFalse)
		})
	})

	Convey("A column with no numbers has no max", t, func() {
		_, ok := columnMax(&fileio.Column{Cells: []fileio.Cell{fileio.Missing()}})
		So(ok, ShouldBeFalse)
	})
}
