// Package symbol provides gene symbol input and alias normalization.
package symbol

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// AliasTable maps an upper-case alias to its canonical gene symbol.
type AliasTable map[string]string

// HumanMitochondrial returns the built-in table of common human
// mitochondrial aliases. Each call returns a new map.
func HumanMitochondrial() AliasTable {
	return AliasTable{
		"ND1":  "MT-ND1",
		"ATP6": "MT-ATP6",
	}
}

// Lookup returns the canonical symbol for s, matching case-insensitively.
func (t AliasTable) Lookup(s string) (string, bool) {
	canonical, ok := t[Key(s)]
	return canonical, ok
}

// Merge returns a new table holding t overlaid with other.
func (t AliasTable) Merge(other AliasTable) AliasTable {
	merged := make(AliasTable, len(t)+len(other))
	for k, v := range t {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}

// Normalize maps each symbol through table. Symbols without an entry are
// returned unchanged, case preserved. The input slice is not modified.
func Normalize(symbols []string, table AliasTable) []string {
	out := make([]string, len(symbols))
	for i, s := range symbols {
		if canonical, ok := table.Lookup(s); ok {
			out[i] = canonical
			continue
		}
		out[i] = s
	}
	return out
}

// Key returns the table key for s, its Unicode upper-case form.
func Key(s string) string {
	return cases.Upper(language.Und).String(s)
}
