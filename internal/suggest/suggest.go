// Package suggest ranks candidate identifiers against a misspelled
// name for "did you mean X?" diagnostics, grounded on ardnew-aenv's use
// of github.com/sahilm/fuzzy for interactive completion ranking — the
// same fuzzy-match primitive, applied here to resolver error messages
// instead of a REPL's tab completion.
package suggest

import "github.com/sahilm/fuzzy"

// Best returns the single best-matching candidate for name, or "" if
// candidates is empty or nothing scores above the zero threshold
// fuzzy.Find already enforces.
func Best(name string, candidates []string) string {
	matches := fuzzy.Find(name, candidates)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}

// Top returns up to n best-matching candidates, most relevant first.
func Top(name string, candidates []string, n int) []string {
	matches := fuzzy.Find(name, candidates)
	if len(matches) > n {
		matches = matches[:n]
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Str
	}
	return out
}
