package fileio

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/saintfish/chardet"
)

// Detection is chardet's best guess for the probed header bytes.
type Detection struct {
	Charset    string `json:"charset"`
	Language   string `json:"language,omitempty"`
	Confidence int    `json:"confidence"`
}

// ProbeAttempt records what one encoding did with the start of the file.
type ProbeAttempt struct {
	Encoding   string   `json:"encoding"`
	Lines      []string `json:"lines,omitempty"`
	LinesError string   `json:"linesError,omitempty"`
	Columns    []string `json:"columns,omitempty"`
	TableError string   `json:"tableError,omitempty"`
}

// ProbeResult is the diagnostic dump for one file. Encoding is empty when no
// candidate could parse the file as a table.
type ProbeResult struct {
	File      string         `json:"file"`
	HeaderHex string         `json:"headerHex"`
	HeaderLen int            `json:"headerLen"`
	Detected  *Detection     `json:"detected,omitempty"`
	Attempts  []ProbeAttempt `json:"attempts"`
	Encoding  string         `json:"encoding,omitempty"`
}

// Prober helps a human find the real encoding of files Loader gave up on.
// It never feeds anything back into the analysis.
type Prober struct {
	encodings   []string
	headerBytes int
	lines       int
	headerRow   int
	log         zerolog.Logger
}

type ProbeOption func(*Prober)

func WithProbeEncodings(names ...string) ProbeOption {
	return func(p *Prober) {
		if len(names) > 0 {
			p.encodings = append([]string(nil), names...)
		}
	}
}

func WithProbeBytes(n int) ProbeOption {
	return func(p *Prober) {
		if n > 0 {
			p.headerBytes = n
		}
	}
}

// WithProbeHeaderRow sets the 1-based header row, as WithHeaderRow does for Loader.
func WithProbeHeaderRow(n int) ProbeOption {
	return func(p *Prober) {
		if n > 0 {
			p.headerRow = n
		}
	}
}

func WithProbeLogger(log zerolog.Logger) ProbeOption {
	return func(p *Prober) { p.log = log }
}

func NewProber(opts ...ProbeOption) *Prober {
	p := &Prober{
		encodings:   ProbeEncodings,
		headerBytes: 200,
		lines:       3,
		headerRow:   1,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe inspects one file. Only a failure to read the file is an error.
func (p *Prober) Probe(path string) (*ProbeResult, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	head := raw[:min(len(raw), p.headerBytes)]
	res := &ProbeResult{
		File:      filepath.Base(path),
		HeaderHex: hexDump(head),
		HeaderLen: len(head),
	}
	if len(head) > 0 {
		if det, err := chardet.NewTextDetector().DetectBest(head); err == nil && det != nil {
			res.Detected = &Detection{Charset: det.Charset, Language: det.Language, Confidence: det.Confidence}
		}
	}

	firstLines := splitLines(raw, p.lines)
	for _, name := range p.encodings {
		a := ProbeAttempt{Encoding: name}
		codec, err := LookupCodec(name)
		if err != nil {
			a.LinesError, a.TableError = err.Error(), err.Error()
			res.Attempts = append(res.Attempts, a)
			continue
		}

		if lines, err := decodeLines(codec, firstLines); err != nil {
			a.LinesError = err.Error()
		} else {
			a.Lines = lines
		}

		if text, err := codec.Decode(raw); err != nil {
			a.TableError = err.Error()
		} else if t, err := parseCSV(text, p.headerRow, p.lines); err != nil {
			a.TableError = err.Error()
		} else {
			a.Columns = t.Labels()
		}
		res.Attempts = append(res.Attempts, a)

		p.log.Debug().
			Str("file", res.File).
			Str("encoding", name).
			Bool("lines_ok", a.LinesError == "").
			Bool("table_ok", a.TableError == "").
			Msg("probe attempt")
		if a.TableError == "" {
			res.Encoding = name
			break
		}
	}
	return res, nil
}

func hexDump(b []byte) string {
	parts := make([]string, len(b))
	for i := range b {
		parts[i] = hex.EncodeToString(b[i : i+1])
	}
	return strings.Join(parts, " ")
}

// splitLines returns at most n raw lines without their line terminators.
func splitLines(raw []byte, n int) [][]byte {
	var out [][]byte
	for len(raw) > 0 && len(out) < n {
		i := bytes.IndexByte(raw, '\n')
		if i < 0 {
			out = append(out, raw)
			break
		}
		out = append(out, bytes.TrimSuffix(raw[:i], []byte{'\r'}))
		raw = raw[i+1:]
	}
	return out
}

func decodeLines(c Codec, lines [][]byte) ([]string, error) {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		s, err := c.Decode(l)
		if err != nil {
			return nil, err
		}
		out = append(out, strings.TrimSpace(s))
	}
	return out, nil
}
