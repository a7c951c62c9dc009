package service

import (
	"path/filepath"
	"sort"

	"scenic-score/internal/fileio"
	"scenic-score/internal/scores/model"
)

const previewRows = 3

// Summarize describes a loaded file. An empty scoreColumn is resolved from
// the file's own labels. The score column is coerced in place.
func Summarize(res *fileio.LoadResult, scoreColumn string) model.FileSummary {
	t := res.Table
	s := model.FileSummary{
		File:           filepath.Base(res.Path),
		Encoding:       res.Encoding,
		Tried:          make([]string, len(res.Attempts)),
		Repaired:       res.Repaired,
		RepairedFields: res.RepairedFields,
		Rows:           t.Rows(),
		Columns:        t.Labels(),
		Preview:        [][]string{},
	}
	for i, a := range res.Attempts {
		s.Tried[i] = a.Encoding
	}
	for i := 0; i < t.Rows() && i < previewRows; i++ {
		s.Preview = append(s.Preview, t.Row(i))
	}

	if scoreColumn == "" {
		scoreColumn, _ = FindScoreColumn(s.Columns)
	}
	if col, ok := CoerceNumeric(t, scoreColumn); ok {
		s.ScoreColumn = scoreColumn
		fillScoreStats(&s, ScoreValues(col))
	}

	for _, col := range t.Columns {
		for _, c := range col.Cells {
			if c.IsMissing() {
				s.MissingCells++
			}
		}
	}
	return s
}

func fillScoreStats(s *model.FileSummary, vals []float64) {
	if len(vals) == 0 {
		return
	}
	lo, hi, sum := vals[0], vals[0], 0.0
	dist := map[float64]int{}
	for _, v := range vals {
		lo, hi = min(lo, v), max(hi, v)
		sum += v
		dist[v]++
	}
	mean := sum / float64(len(vals))
	s.ScoreMin, s.ScoreMax, s.ScoreMean = &lo, &hi, &mean

	s.Distribution = make([]model.ValueCount, 0, len(dist))
	for v, n := range dist {
		s.Distribution = append(s.Distribution, model.ValueCount{Value: v, Count: n})
	}
	sort.Slice(s.Distribution, func(i, j int) bool { return s.Distribution[i].Value < s.Distribution[j].Value })
}
