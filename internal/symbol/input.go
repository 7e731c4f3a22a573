package symbol

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
)

// DefaultGenes is the symbol list used when no input is given.
var DefaultGenes = []string{"COX4I2", "ND1", "ATP6"}

// LoadSymbols reads one gene symbol per line from path ("-" for stdin).
// Trailing whitespace is stripped and blank lines are skipped.
func LoadSymbols(path string) ([]string, error) {
	if path == "-" {
		return ReadSymbols(os.Stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gene list: %w", err)
	}
	defer f.Close()

	return ReadSymbols(f)
}

// ReadSymbols reads one gene symbol per line from r.
func ReadSymbols(r io.Reader) ([]string, error) {
	var symbols []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		s := strings.TrimRightFunc(scanner.Text(), unicode.IsSpace)
		if s == "" {
			continue
		}
		symbols = append(symbols, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading gene list: %w", err)
	}
	return symbols, nil
}
