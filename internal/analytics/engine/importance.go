package engine

import (
	"sort"
	"strings"

	"churn-dashboard/backend/internal/analytics/domain"
)

// maxImportanceRows caps the table at the first entries of the upstream
// ranking. The engine trusts the upstream order; it truncates, it does not
// select "top" entries itself.
const maxImportanceRows = 8

// ImportanceRow is one rendered feature-importance entry.
type ImportanceRow struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// ImportanceTable is the feature-importance projection. Rows are sorted
// ascending by importance so the largest value lands at the extreme of the
// rendered axis. An empty Rows slice signals "no data yet".
type ImportanceTable struct {
	Rows []ImportanceRow `json:"rows"`
}

// dummyRewrites maps raw categorical-dummy encodings, after underscores have
// become spaces, to human labels.
var dummyRewrites = [][2]string{
	{"Contract Month-to-month", "Month-to-Month Contract"},
	{"InternetService Fiber optic", "Fiber Optic Internet"},
	{"PaymentMethod Electronic check", "Electronic Check"},
}

// BuildImportanceTable takes the first eight entries of the externally ranked
// list, re-sorts them ascending by importance, and prettifies feature names.
// A nil or empty input yields a header-only (empty-rows) table, not an error.
func BuildImportanceTable(ranked []domain.FeatureImportance) ImportanceTable {
	if len(ranked) == 0 {
		return ImportanceTable{Rows: []ImportanceRow{}}
	}
	n := len(ranked)
	if n > maxImportanceRows {
		n = maxImportanceRows
	}
	rows := make([]ImportanceRow, 0, n)
	for _, fi := range ranked[:n] {
		rows = append(rows, ImportanceRow{Feature: PrettifyFeatureName(fi.Feature), Importance: fi.Importance})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Importance < rows[j].Importance })
	return ImportanceTable{Rows: rows}
}

// PrettifyFeatureName turns a raw model feature name into a display label:
// underscores become spaces, known dummy encodings get their fixed labels,
// then the first letter of every word is upper-cased.
func PrettifyFeatureName(name string) string {
	s := strings.ReplaceAll(name, "_", " ")
	for _, rw := range dummyRewrites {
		s = strings.Replace(s, rw[0], rw[1], 1)
	}
	return titleWords(s)
}

// titleWords upper-cases the first letter of each word, leaving the rest of
// the word untouched.
func titleWords(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	atWordStart := true
	for _, r := range s {
		if atWordStart && r >= 'a' && r <= 'z' {
			b.WriteRune(r - 'a' + 'A')
		} else {
			b.WriteRune(r)
		}
		atWordStart = !isWordRune(r)
	}
	return b.String()
}

func isWordRune(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_'
}
