package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"scenic-score/internal/fileio"
	"scenic-score/internal/scores/model"
)

var ErrNoDataDir = errors.New("data directory unavailable")

// TableLoader is satisfied by *fileio.Loader.
type TableLoader interface {
	Load(path string) (*fileio.LoadResult, error)
}

// RunRecorder is satisfied by *metrics.Recorder.
type RunRecorder interface {
	RunFinished(globalMax float64, totalCount, problemFiles int, took time.Duration)
}

type nopRunRecorder struct{}

func (nopRunRecorder) RunFinished(float64, int, int, time.Duration) {}

// Aggregator finds the nationwide top score and ranks cities by how many
// attractions reach it.
type Aggregator struct {
	loader        TableLoader
	extensions    []string
	defaultColumn string
	topN          int
	tolerance     float64
	log           zerolog.Logger
	rec           RunRecorder
}

type Option func(*Aggregator)

func WithExtensions(exts ...string) Option {
	return func(a *Aggregator) {
		if len(exts) > 0 {
			a.extensions = append([]string(nil), exts...)
		}
	}
}

func WithDefaultScoreColumn(label string) Option {
	return func(a *Aggregator) {
		if label != "" {
			a.defaultColumn = label
		}
	}
}

func WithTopN(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.topN = n
		}
	}
}

// WithTolerance makes pass two count |v-max| <= tol instead of v == max.
func WithTolerance(tol float64) Option {
	return func(a *Aggregator) {
		if tol >= 0 {
			a.tolerance = tol
		}
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(a *Aggregator) { a.log = log }
}

func WithRunRecorder(r RunRecorder) Option {
	return func(a *Aggregator) {
		if r != nil {
			a.rec = r
		}
	}
}

func NewAggregator(loader TableLoader, opts ...Option) *Aggregator {
	a := &Aggregator{
		loader:        loader,
		extensions:    []string{".csv"},
		defaultColumn: ScoreKeyword,
		topN:          10,
		log:           zerolog.Nop(),
		rec:           nopRunRecorder{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// run holds everything one Analyze call accumulates.
type run struct {
	dir         string
	files       []string
	scoreColumn string
	resolved    bool
	globalMax   float64
	records     []model.ScoreRecord
	counts      []model.CityCount
	totalCount  int
	problems    map[string]bool
	problemList []string
	warnings    []string
}

func (r *run) warn(format string, args ...any) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

func (r *run) markProblem(file string) {
	if !r.problems[file] {
		r.problems[file] = true
		r.problemList = append(r.problemList, file)
	}
}

// Analyze scans dir in two passes. Unreadable files are reported in
// ProblemFiles and skipped; only a missing directory or a cancelled ctx
// fails the run.
func (a *Aggregator) Analyze(ctx context.Context, dir string) (*model.Report, error) {
	start := time.Now()

	files, err := a.listFiles(dir)
	if err != nil {
		return nil, err
	}
	st := &run{dir: dir, files: files, problems: map[string]bool{}}

	a.resolveColumn(st)
	if err := a.passMax(ctx, st); err != nil {
		return nil, err
	}
	if err := a.passCount(ctx, st); err != nil {
		return nil, err
	}

	rep := st.report(a.topN)
	took := time.Since(start)
	a.rec.RunFinished(rep.GlobalMax, rep.TotalCount, len(rep.ProblemFiles), took)
	a.log.Info().
		Str("dir", dir).
		Int("files", rep.Files).
		Str("score_column", rep.ScoreColumn).
		Float64("global_max", rep.GlobalMax).
		Int("total", rep.TotalCount).
		Int("problem_files", len(rep.ProblemFiles)).
		Dur("took", took).
		Msg("analysis finished")
	return rep, nil
}

// listFiles keeps os.ReadDir order (sorted by name).
func (a *Aggregator) listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoDataDir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !a.isTableFile(e.Name()) {
			continue
		}
		files = append(files, e.Name())
	}
	return files, nil
}

func (a *Aggregator) isTableFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range a.extensions {
		if ext == strings.ToLower(want) {
			return true
		}
	}
	return false
}

// resolveColumn picks the score column from the first table file.
func (a *Aggregator) resolveColumn(st *run) {
	st.scoreColumn = a.defaultColumn
	if len(st.files) == 0 {
		st.warn("no table files in %s", st.dir)
		return
	}
	sample := st.files[0]
	res, err := a.loader.Load(filepath.Join(st.dir, sample))
	if err != nil {
		st.warn("sample file %s unreadable, using default column %q", sample, a.defaultColumn)
		a.log.Warn().Str("file", sample).Err(err).Msg("sample file unreadable")
		return
	}
	labels := res.Table.Labels()
	st.scoreColumn, st.resolved = ResolveScoreColumn(labels, a.defaultColumn)
	if st.resolved {
		a.log.Info().Str("file", sample).Str("score_column", st.scoreColumn).Msg("score column resolved")
		return
	}
	st.warn("no score column in %s, using default %q", sample, a.defaultColumn)
	a.log.Warn().
		Str("file", sample).
		Strs("columns", labels).
		Strs("candidates", SuggestScoreColumns(labels, a.defaultColumn)).
		Msg("score column not found")
}

// passMax: первый проход, ищем общий максимум.
func (a *Aggregator) passMax(ctx context.Context, st *run) error {
	for _, name := range st.files {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := a.loader.Load(filepath.Join(st.dir, name))
		if err != nil {
			st.markProblem(name)
			st.warn("%s: %v", name, err)
			a.log.Warn().Str("file", name).Err(err).Msg("file skipped")
			continue
		}
		col, ok := CoerceNumeric(res.Table, st.scoreColumn)
		if !ok {
			st.warn("%s: column %q missing", name, st.scoreColumn)
			a.log.Warn().
				Str("file", name).
				Strs("candidates", SuggestScoreColumns(res.Table.Labels(), st.scoreColumn)).
				Msg("score column missing")
			continue
		}
		m, ok := columnMax(col)
		if !ok {
			continue
		}
		st.records = append(st.records, model.ScoreRecord{File: name, Max: m})
		if m > st.globalMax {
			st.globalMax = m
		}
		a.log.Debug().Str("file", name).Float64("max", m).Msg("file max")
	}
	return nil
}

// passCount: второй проход, считаем объекты с максимальной оценкой.
func (a *Aggregator) passCount(ctx context.Context, st *run) error {
	for _, name := range st.files {
		if st.problems[name] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := a.loader.Load(filepath.Join(st.dir, name))
		if err != nil {
			st.warn("%s: %v", name, err)
			a.log.Warn().Str("file", name).Err(err).Msg("file skipped on second pass")
			continue
		}
		col, ok := CoerceNumeric(res.Table, st.scoreColumn)
		if !ok {
			continue
		}
		if n := countAtMax(col, st.globalMax, a.tolerance); n > 0 {
			st.counts = append(st.counts, model.CityCount{City: CityName(name), Count: n})
			st.totalCount += n
		}
	}
	return nil
}

func (st *run) report(topN int) *model.Report {
	ranking := Rank(st.counts, topN)
	rep := &model.Report{
		DataDir:      st.dir,
		ScoreColumn:  st.scoreColumn,
		Resolved:     st.resolved,
		Files:        len(st.files),
		GlobalMax:    st.globalMax,
		TotalCount:   st.totalCount,
		Records:      st.records,
		Counts:       st.counts,
		Ranking:      ranking,
		ProblemFiles: st.problemList,
		Warnings:     st.warnings,
	}
	if rep.Records == nil {
		rep.Records = []model.ScoreRecord{}
	}
	if rep.Counts == nil {
		rep.Counts = []model.CityCount{}
	}
	if rep.ProblemFiles == nil {
		rep.ProblemFiles = []string{}
	}
	return rep
}

// Rank sorts a copy of counts by count desc, keeping encounter order on
// ties, and keeps the first n.
func Rank(counts []model.CityCount, n int) []model.CityCount {
	ranking := make([]model.CityCount, len(counts))
	copy(ranking, counts)
	sort.SliceStable(ranking, func(i, j int) bool { return ranking[i].Count > ranking[j].Count })
	if n >= 0 && len(ranking) > n {
		ranking = ranking[:n]
	}
	return ranking
}

// CityName is the file name without its extension.
func CityName(file string) string {
	return strings.TrimSuffix(file, filepath.Ext(file))
}
