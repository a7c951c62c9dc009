package fileio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Recorder receives loader events. The metrics package implements it.
type Recorder interface {
	EncodingAttempt(encoding string, ok bool)
	FileLoaded(encoding string, repaired bool)
	FileUnreadable()
}

type nopRecorder struct{}

func (nopRecorder) EncodingAttempt(string, bool) {}
func (nopRecorder) FileLoaded(string, bool)      {}
func (nopRecorder) FileUnreadable()              {}

// Attempt is the outcome of reading a file under one encoding.
type Attempt struct {
	Encoding string `json:"encoding"`
	Err      error  `json:"-"`
}

// LoadResult is a successfully loaded table plus how it was obtained.
type LoadResult struct {
	Path           string
	Table          *Table
	Encoding       string
	Repaired       bool
	RepairedFields int
	Attempts       []Attempt
}

// Loader reads one table file, trying candidate encodings in order.
type Loader struct {
	encodings []string
	fallback  string
	headerRow int
	log       zerolog.Logger
	rec       Recorder
}

type Option func(*Loader)

// WithEncodings replaces the candidate chain. Empty input keeps the default.
func WithEncodings(names ...string) Option {
	return func(l *Loader) {
		if len(names) > 0 {
			l.encodings = append([]string(nil), names...)
		}
	}
}

func WithHeaderRow(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.headerRow = n
		}
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(l *Loader) { l.log = log }
}

func WithRecorder(r Recorder) Option {
	return func(l *Loader) {
		if r != nil {
			l.rec = r
		}
	}
}

func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		encodings: DefaultEncodings,
		fallback:  FallbackEncoding,
		headerRow: 1,
		log:       zerolog.Nop(),
		rec:       nopRecorder{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Loader) Encodings() []string { return append([]string(nil), l.encodings...) }

// Load reads path and picks a parser by extension (.csv, .xls, .xlsx).
// The returned error wraps ErrUnreadableFile when nothing worked.
func (l *Loader) Load(path string) (*LoadResult, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		l.rec.FileUnreadable()
		return nil, fmt.Errorf("%w: %s: %w", ErrUnreadableFile, filepath.Base(path), err)
	}

	var res *LoadResult
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".txt":
		res, err = l.loadText(raw)
	case ".xls":
		res, err = l.loadXLS(raw)
	case ".xlsx":
		res, err = l.loadXLSX(raw)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedFile, ext)
	}
	if err != nil {
		l.rec.FileUnreadable()
		return nil, fmt.Errorf("%w: %s: %w", ErrUnreadableFile, filepath.Base(path), err)
	}

	res.Path = path
	l.rec.FileLoaded(res.Encoding, res.Repaired)
	l.log.Debug().
		Str("file", filepath.Base(path)).
		Str("encoding", res.Encoding).
		Bool("repaired", res.Repaired).
		Int("rows", res.Table.Rows()).
		Int("cols", len(res.Table.Columns)).
		Msg("table loaded")
	return res, nil
}

// attempt is one step of the encoding chain: either a table or the reason
// this encoding did not work.
type attempt struct {
	encoding string
	table    *Table
	err      error
}

func (a attempt) ok() bool { return a.err == nil }

func (l *Loader) tryText(raw []byte, name string) attempt {
	a := attempt{encoding: name}
	codec, err := LookupCodec(name)
	if err != nil {
		a.err = err
		return a
	}
	text, err := codec.Decode(raw)
	if err != nil {
		a.err = err
		return a
	}
	a.table, a.err = parseCSV(text, l.headerRow, 0)
	return a
}

func (l *Loader) loadText(raw []byte) (*LoadResult, error) {
	res := &LoadResult{}
	var errs []error
	for _, name := range l.encodings {
		a := l.tryText(raw, name)
		res.Attempts = append(res.Attempts, Attempt{Encoding: name, Err: a.err})
		l.rec.EncodingAttempt(name, a.ok())
		if a.ok() {
			res.Table, res.Encoding = a.table, a.encoding
			return res, nil
		}
		l.log.Debug().Str("encoding", name).Err(a.err).Msg("encoding attempt failed")
		errs = append(errs, a.err)
	}

	// latin1 accepts any byte, so only parsing can fail from here on.
	a := l.tryText(raw, l.fallback)
	res.Attempts = append(res.Attempts, Attempt{Encoding: l.fallback, Err: a.err})
	l.rec.EncodingAttempt(l.fallback, a.ok())
	if !a.ok() {
		return nil, errors.Join(append(errs, a.err)...)
	}
	res.Table, res.Encoding, res.Repaired = a.table, a.encoding, true
	res.RepairedFields = RepairTable(res.Table)
	stripLabelBOM(res.Table)
	return res, nil
}

func (l *Loader) loadXLS(raw []byte) (*LoadResult, error) {
	res := &LoadResult{}
	var errs []error
	for _, name := range append(l.Encodings(), l.fallback) {
		rows, err := readXLS(raw, name)
		var t *Table
		if err == nil {
			t, err = buildTable(rows, l.headerRow)
		}
		res.Attempts = append(res.Attempts, Attempt{Encoding: name, Err: err})
		l.rec.EncodingAttempt(name, err == nil)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		res.Table, res.Encoding = t, name
		if name == l.fallback {
			res.Repaired = true
			res.RepairedFields = RepairTable(t)
		}
		return res, nil
	}
	return nil, errors.Join(errs...)
}

func (l *Loader) loadXLSX(raw []byte) (*LoadResult, error) {
	rows, err := readXLSX(raw)
	if err == nil {
		var t *Table
		if t, err = buildTable(rows, l.headerRow); err == nil {
			l.rec.EncodingAttempt("utf-8", true)
			return &LoadResult{Table: t, Encoding: "utf-8", Attempts: []Attempt{{Encoding: "utf-8"}}}, nil
		}
	}
	l.rec.EncodingAttempt("utf-8", false)
	return nil, err
}

// A UTF-8 BOM read as latin1 survives pickHeader as "ï»¿" and only becomes
// U+FEFF after repair.
func stripLabelBOM(t *Table) {
	if t != nil && len(t.Columns) > 0 {
		t.Columns[0].Label = strings.TrimPrefix(t.Columns[0].Label, bom)
	}
}
