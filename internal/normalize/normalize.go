// Package normalize provides utilities for normalizing ingredient names.
package normalize

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Name lower-cases an ingredient name. Whitespace is preserved so that
// names from the dataset and names typed by a user compare the same way.
//
// A cases.Caser is stateful, so a fresh one is created per call.
func Name(raw string) string {
	if raw == "" {
		return ""
	}
	return cases.Lower(language.Und).String(raw)
}

// Names lower-cases and deduplicates a list of names, keeping first-seen order.
// Empty entries are dropped.
func Names(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))

	for _, r := range raw {
		n := Name(r)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}

	return out
}
