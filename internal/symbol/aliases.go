package symbol

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadAliasTable loads an alias table from a two-column TSV file
// (alias, canonical symbol). Lines starting with '#' are comments.
func LoadAliasTable(path string) (AliasTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open alias table: %w", err)
	}
	defer f.Close()

	return ParseAliasTable(f)
}

// ParseAliasTable parses alias TSV content. Aliases are stored upper-cased.
func ParseAliasTable(r io.Reader) (AliasTable, error) {
	table := make(AliasTable)
	scanner := bufio.NewScanner(r)

	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			return nil, fmt.Errorf("alias table line %d: expected 2 tab-separated columns, got %d", lineNumber, len(fields))
		}

		alias := strings.TrimSpace(fields[0])
		canonical := strings.TrimSpace(fields[1])
		if alias == "" || canonical == "" {
			return nil, fmt.Errorf("alias table line %d: empty alias or symbol", lineNumber)
		}
		table[Key(alias)] = canonical
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan alias table: %w", err)
	}

	return table, nil
}
