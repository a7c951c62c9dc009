package fileio

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"golang.org/x/text/encoding/simplifiedchinese"
)

func gbkBytes(s string) []byte {
	b, err := simplifiedchinese.GBK.NewEncoder().Bytes([]byte(s))
	if err != nil {
		panic(err)
	}
	return b
}

func TestLookupCodec(t *testing.T) {
	Convey("Given the codec registry", t, func() {
		Convey("Aliases resolve to the canonical codec", func() {
			for alias, want := range map[string]string{
				"UTF8":       "utf-8",
				"utf_8":      "utf-8",
				"utf8-sig":   "utf-8-sig",
				"CP936":      "cp936",
				"euc-cn":     "gb2312",
				"Latin-1":    "latin1",
				"ISO_8859-1": "iso-8859-1",
				"cp1252":     "windows-1252",
			} {
				c, err := LookupCodec(alias)
				So(err, ShouldBeNil)
				So(c.Name, ShouldEqual, want)
			}
		})

		Convey("Unknown names are rejected", func() {
			_, err := LookupCodec("ebcdic")
			So(errors.Is(err, ErrUnknownEncoding), ShouldBeTrue)
			So(CheckEncodings([]string{"utf-8", "ebcdic"}), ShouldNotBeNil)
			So(CheckEncodings(DefaultEncodings), ShouldBeNil)
			So(CheckEncodings(ProbeEncodings), ShouldBeNil)
		})
	})
}

func TestCodecDecode(t *testing.T) {
	Convey("Given strict decoders", t, func() {
		utf8c, _ := LookupCodec("utf-8")
		gbk, _ := LookupCodec("gbk")
		gb2312, _ := LookupCodec("gb2312")
		latin1, _ := LookupCodec("latin1")

		Convey("UTF-8 accepts valid input and rejects stray bytes", func() {
			s, err := utf8c.Decode([]byte("北京,评分"))
			So(err, ShouldBeNil)
			So(s, ShouldEqual, "北京,评分")

			_, err = utf8c.Decode([]byte{'a', 'b', 0xff})
			So(errors.Is(err, ErrInvalidBytes), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "offset 2")
		})

		Convey("GBK decodes its own bytes and rejects bytes it cannot map", func() {
			s, err := gbk.Decode(gbkBytes("城市,评分"))
			So(err, ShouldBeNil)
			So(s, ShouldEqual, "城市,评分")

			_, err = gbk.Decode([]byte{0xc6, 0xc0, 0xff})
			So(errors.Is(err, ErrInvalidBytes), ShouldBeTrue)

			_, err = gbk.Decode([]byte{'a', 0x81})
			So(err, ShouldNotBeNil)
		})

		Convey("GB2312 rejects GBK extension characters", func() {
			ext := gbkBytes("丂") // 0x81 0x40, outside EUC-CN
			_, err := gbk.Decode(ext)
			So(err, ShouldBeNil)
			_, err = gb2312.Decode(ext)
			So(errors.Is(err, ErrInvalidBytes), ShouldBeTrue)

			s, err := gb2312.Decode(gbkBytes("评分"))
			So(err, ShouldBeNil)
			So(s, ShouldEqual, "评分")
		})

		Convey("latin1 never fails", func() {
			all := make([]byte, 256)
			for i := range all {
				all[i] = byte(i)
			}
			s, err := latin1.Decode(all)
			So(err, ShouldBeNil)
			So([]rune(s), ShouldHaveLength, 256)
		})

		Convey("utf-8-sig drops the byte order mark", func() {
			sig, _ := LookupCodec("utf-8-sig")
			s, err := sig.Decode([]byte("\xef\xbb\xbfa,b"))
			So(err, ShouldBeNil)
			So(s, ShouldEqual, "a,b")
		})
	})
}
