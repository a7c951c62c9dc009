package service

import (
	"regexp"
	"sort"
	"strings"
)

// ScoreKeyword is the native label for "rating/score".
const ScoreKeyword = "评分"

// FindScoreColumn returns the first label containing ScoreKeyword or, in any
// case, "score". Labels are expected to be repaired already.
func FindScoreColumn(labels []string) (string, bool) {
	for _, l := range labels {
		if strings.Contains(l, ScoreKeyword) || strings.Contains(strings.ToLower(l), "score") {
			return l, true
		}
	}
	return "", false
}

// ResolveScoreColumn is FindScoreColumn with a fallback label. resolved is
// false when the fallback was used; it may not exist in the table.
func ResolveScoreColumn(labels []string, fallback string) (label string, resolved bool) {
	if l, ok := FindScoreColumn(labels); ok {
		return l, true
	}
	return fallback, false
}

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// нормализуем имя колонки для сравнения
func normHeaderKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("\u00a0", " ", "\u3000", " ").Replace(s)
	s = nonWord.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// SuggestScoreColumns lists labels that look score-like ("评", "分" or
// "score"), most similar to want first. Used to explain a missing column.
func SuggestScoreColumns(labels []string, want string) []string {
	type cand struct {
		label string
		sim   float64
	}
	nWant := normHeaderKey(want)
	var cands []cand
	for _, l := range labels {
		nl := normHeaderKey(l)
		if strings.Contains(nl, "评") || strings.Contains(nl, "分") || strings.Contains(nl, "score") {
			cands = append(cands, cand{label: l, sim: bestSimilarity(nl, nWant)})
		}
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].sim > cands[j].sim })
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.label
	}
	return out
}
