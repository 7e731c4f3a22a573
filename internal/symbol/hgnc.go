package symbol

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// HGNC complete set download location.
const (
	HGNCFileURL  = "https://storage.googleapis.com/public-download-files/hgnc/tsv/tsv/hgnc_complete_set.txt"
	HGNCFileName = "hgnc_complete_set.txt"
)

// LoadHGNCAliases builds an alias table from an HGNC complete set file.
func LoadHGNCAliases(path string) (AliasTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open HGNC file: %w", err)
	}
	defer f.Close()

	return ParseHGNCAliases(f)
}

// ParseHGNCAliases reads HGNC complete set TSV content and maps every
// alias and previous symbol of an approved gene to its approved symbol.
// The header must name the "symbol", "alias_symbol" and "prev_symbol"
// columns. Aliases shared by more than one gene, and aliases that are
// themselves approved symbols, are left out.
func ParseHGNCAliases(r io.Reader) (AliasTable, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	if !scanner.Scan() {
		return nil, fmt.Errorf("HGNC file: empty file")
	}
	header := strings.Split(scanner.Text(), "\t")

	symbolIdx, aliasIdx, prevIdx, statusIdx := -1, -1, -1, -1
	for i, col := range header {
		switch strings.Trim(col, `"`) {
		case "symbol":
			symbolIdx = i
		case "alias_symbol":
			aliasIdx = i
		case "prev_symbol":
			prevIdx = i
		case "status":
			statusIdx = i
		}
	}
	if symbolIdx < 0 {
		return nil, fmt.Errorf("HGNC file: missing 'symbol' column")
	}
	if aliasIdx < 0 && prevIdx < 0 {
		return nil, fmt.Errorf("HGNC file: missing 'alias_symbol' and 'prev_symbol' columns")
	}

	approved := make(map[string]bool)
	candidates := make(map[string]string)
	ambiguous := make(map[string]bool)

	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), "\t")
		if len(fields) <= symbolIdx {
			continue
		}
		if statusIdx >= 0 && statusIdx < len(fields) && strings.Trim(fields[statusIdx], `"`) != "Approved" {
			continue
		}
		symbol := strings.Trim(strings.TrimSpace(fields[symbolIdx]), `"`)
		if symbol == "" {
			continue
		}
		approved[Key(symbol)] = true

		for _, idx := range []int{aliasIdx, prevIdx} {
			if idx < 0 || idx >= len(fields) {
				continue
			}
			for _, alias := range splitHGNCList(fields[idx]) {
				key := Key(alias)
				if prev, ok := candidates[key]; ok && prev != symbol {
					ambiguous[key] = true
					continue
				}
				candidates[key] = symbol
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading HGNC file: %w", err)
	}

	table := make(AliasTable, len(candidates))
	for key, symbol := range candidates {
		if ambiguous[key] || approved[key] {
			continue
		}
		table[key] = symbol
	}
	return table, nil
}

// splitHGNCList splits a quoted, pipe-separated HGNC list value.
func splitHGNCList(v string) []string {
	v = strings.Trim(strings.TrimSpace(v), `"`)
	if v == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(v, "|") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
