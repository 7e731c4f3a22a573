// Package output provides annotation record formatters.
package output

import (
	"bufio"
	"io"
	"strings"

	"github.com/inodb/gene-annot/internal/annotate"
	"github.com/inodb/gene-annot/internal/flatten"
)

// Placeholder is written for absent values.
const Placeholder = "-"

// TabWriter writes records in tab-delimited format.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w:       bufio.NewWriter(w),
		columns: annotate.ColumnNames(),
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes a single record.
func (tw *TabWriter) Write(r *annotate.Record) error {
	values := make([]string, len(tw.columns))
	for i, col := range tw.columns {
		values[i] = cell(r.Value(col))
	}
	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}

// cellReplacer keeps a value on one line and inside one column.
var cellReplacer = strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ", "\r", " ")

// cell renders a value for a single table cell.
func cell(v flatten.Value) string {
	if v.IsAbsent() {
		return Placeholder
	}
	s := cellReplacer.Replace(v.String())
	if s == "" {
		return Placeholder
	}
	return s
}
