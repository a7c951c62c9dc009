package fileio

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

// DefaultEncodings is the candidate chain Loader tries before falling back.
var DefaultEncodings = []string{"utf-8", "gbk", "gb18030", "gb2312"}

// ProbeEncodings is the wider list used when diagnosing unreadable files.
var ProbeEncodings = []string{
	"gbk", "gb18030", "utf-8", "utf-8-sig", "gb2312",
	"big5", "cp936", "latin1", "iso-8859-1",
}

// FallbackEncoding maps every byte 0-255 to a rune, so decoding never fails.
const FallbackEncoding = "latin1"

// Codec is a named text encoding with a strict decoder.
//
// x/text decoders substitute U+FFFD for invalid input instead of failing,
// so strictness is enforced here: UTF-8 input is validated up front and the
// multi-byte CJK encodings must survive a decode/encode round trip.
type Codec struct {
	Name string

	enc       encoding.Encoding
	check     func([]byte) int // offset of the first bad byte, -1 if none
	roundTrip bool
}

var registry = map[string]Codec{}

func register(c Codec, aliases ...string) {
	registry[c.Name] = c
	for _, a := range aliases {
		registry[a] = c
	}
}

func init() {
	register(Codec{Name: "utf-8", enc: unicode.UTF8, check: invalidUTF8}, "utf8")
	register(Codec{Name: "utf-8-sig", enc: unicode.UTF8BOM, check: invalidUTF8}, "utf8-sig")
	register(Codec{Name: "gbk", enc: simplifiedchinese.GBK, roundTrip: true})
	register(Codec{Name: "cp936", enc: simplifiedchinese.GBK, roundTrip: true}, "windows-936")
	register(Codec{Name: "gb18030", enc: simplifiedchinese.GB18030, roundTrip: true})
	register(Codec{Name: "gb2312", enc: simplifiedchinese.GBK, check: invalidEUCCN, roundTrip: true}, "euc-cn")
	register(Codec{Name: "big5", enc: traditionalchinese.Big5, roundTrip: true}, "cp950")
	register(Codec{Name: "latin1", enc: charmap.ISO8859_1}, "latin-1", "l1")
	register(Codec{Name: "iso-8859-1", enc: charmap.ISO8859_1}, "iso8859-1")
	register(Codec{Name: "windows-1252", enc: charmap.Windows1252}, "cp1252")
	register(Codec{Name: "windows-1251", enc: charmap.Windows1251}, "cp1251")
}

func normEncodingName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(name, "_", "-")
}

// LookupCodec resolves an encoding name or alias.
func LookupCodec(name string) (Codec, error) {
	c, ok := registry[normEncodingName(name)]
	if !ok {
		return Codec{}, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	return c, nil
}

// CheckEncodings reports the first unknown name in names.
func CheckEncodings(names []string) error {
	for _, n := range names {
		if _, err := LookupCodec(n); err != nil {
			return err
		}
	}
	return nil
}

// Decode converts b to a string, failing on any byte sequence that is not
// valid in this encoding.
func (c Codec) Decode(b []byte) (string, error) {
	if c.check != nil {
		if off := c.check(b); off >= 0 {
			return "", fmt.Errorf("%s: %w at offset %d", c.Name, ErrInvalidBytes, off)
		}
	}
	out, err := c.enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("%s: %w", c.Name, err)
	}
	if c.roundTrip {
		back, err := c.enc.NewEncoder().Bytes(out)
		if err != nil {
			return "", fmt.Errorf("%s: %w", c.Name, ErrInvalidBytes)
		}
		if off := mismatch(b, back); off >= 0 {
			return "", fmt.Errorf("%s: %w at offset %d", c.Name, ErrInvalidBytes, off)
		}
	}
	return string(out), nil
}

// DecodeReplacing never fails: invalid sequences become U+FFFD.
func (c Codec) DecodeReplacing(b []byte) string {
	out, err := c.enc.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), string(utf8.RuneError))
	}
	return string(out)
}

// Encode converts s to bytes in this encoding. Runes the encoding cannot
// represent are an error.
func (c Codec) Encode(s string) ([]byte, error) {
	b, err := c.enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.Name, err)
	}
	return b, nil
}

func invalidUTF8(b []byte) int {
	for i := 0; i < len(b); {
		if b[i] < utf8.RuneSelf {
			i++
			continue
		}
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}

// invalidEUCCN checks the GB2312 (EUC-CN) layout: ASCII, or two bytes
// both in 0xA1..0xFE.
func invalidEUCCN(b []byte) int {
	in := func(x byte) bool { return x >= 0xA1 && x <= 0xFE }
	for i := 0; i < len(b); {
		if b[i] < 0x80 {
			i++
			continue
		}
		if i+1 >= len(b) || !in(b[i]) || !in(b[i+1]) {
			return i
		}
		i += 2
	}
	return -1
}

func mismatch(a, b []byte) int {
	if bytes.Equal(a, b) {
		return -1
	}
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
