package fileio

import (
	"strings"
	"testing"
	"unicode/utf8"

	. "github.com/smartystreets/goconvey/convey"
)

// mojibake returns s as it looks after its UTF-8 bytes were read as latin1.
func mojibake(s string) string {
	c, _ := LookupCodec("latin1")
	out, _ := c.Decode([]byte(s))
	return out
}

func TestRepair(t *testing.T) {
	Convey("Given text mis-decoded as latin1", t, func() {
		garbled := mojibake("评分")
		So(garbled, ShouldNotEqual, "评分")

		Convey("RepairDefault restores the original", func() {
			So(RepairDefault(garbled), ShouldEqual, "评分")
			So(Repair(garbled, "latin1", "utf-8"), ShouldEqual, "评分")
		})

		Convey("Invalid target sequences become the placeholder", func() {
			got := RepairDefault(mojibake("景点") + "\u00ff")
			So(got, ShouldEqual, "景点\ufffd")
		})
	})

	Convey("Given a GBK source mis-decoded as latin1", t, func() {
		garbled, _ := LookupCodec("latin1")
		s, _ := garbled.Decode(gbkBytes("黄山"))
		So(Repair(s, "latin1", "gbk"), ShouldEqual, "黄山")
	})

	Convey("Repair leaves clean text alone", t, func() {
		for _, s := range []string{"", "score", "Rating 9.5", "a,b;c"} {
			So(RepairDefault(s), ShouldEqual, s)
			So(RepairDefault(RepairDefault(s)), ShouldEqual, s)
		}
		Convey("including text latin1 cannot represent", func() {
			So(RepairDefault("评分"), ShouldEqual, "评分")
			So(RepairDefault("😀 emoji"), ShouldEqual, "😀 emoji")
		})
	})

	Convey("Repair never panics", t, func() {
		inputs := []string{
			"",
			"\x00",
			"\xff\xfe\xfd",
			"\xed\xa0\x80", // encoded surrogate half
			"\ufffd",
			strings.Repeat("é", 1000),
			"mixed é 评 \xc3",
		}
		for _, in := range inputs {
			So(func() { RepairDefault(in) }, ShouldNotPanic)
			So(func() { Repair(in, "latin1", "gbk") }, ShouldNotPanic)
			So(func() { Repair(in, "nope", "utf-8") }, ShouldNotPanic)
			So(utf8.ValidString(RepairDefault(in)) || RepairDefault(in) == in, ShouldBeTrue)
		}
		So(Repair("abc", "nope", "utf-8"), ShouldEqual, "abc")
	})
}

func TestRepairTable(t *testing.T) {
	Convey("Given a table read through latin1", t, func() {
		tbl := &Table{Columns: []Column{
			{Label: mojibake("名称"), Cells: []Cell{TextCell(mojibake("西湖")), Missing()}},
			{Label: mojibake("评分"), Cells: []Cell{Numeric(9.5), Numeric(4)}},
		}}

		n := RepairTable(tbl)

		Convey("Labels and text cells are fixed in place", func() {
			So(tbl.Labels(), ShouldResemble, []string{"名称", "评分"})
			So(tbl.Columns[0].Cells[0].Text, ShouldEqual, "西湖")
			So(n, ShouldEqual, 3)
		})

		Convey("Numeric and missing cells are untouched", func() {
			So(tbl.Columns[0].Cells[1].IsMissing(), ShouldBeTrue)
			So(tbl.Columns[1].Cells[0], ShouldResemble, Numeric(9.5))
		})
	})

	Convey("A nil table is a no-op", t, func() {
		So(RepairTable(nil), ShouldEqual, 0)
	})
}
