package output

import (
	"bufio"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/inodb/gene-annot/internal/annotate"
)

// DefaultMaxWidth is the default display width limit for a table cell.
const DefaultMaxWidth = 40

// TableWriter writes records as an aligned plain-text table. Rows are
// buffered until Flush, since column widths depend on every row.
type TableWriter struct {
	w        *bufio.Writer
	columns  []string
	rows     [][]string
	maxWidth int
}

// NewTableWriter creates a new aligned table writer.
func NewTableWriter(w io.Writer) *TableWriter {
	return &TableWriter{
		w:        bufio.NewWriter(w),
		columns:  annotate.ColumnNames(),
		maxWidth: DefaultMaxWidth,
	}
}

// SetMaxWidth sets the display width at which cells are truncated.
// Zero or less disables truncation.
func (tw *TableWriter) SetMaxWidth(n int) {
	tw.maxWidth = n
}

// WriteHeader records the header row.
func (tw *TableWriter) WriteHeader() error {
	tw.rows = append(tw.rows, append([]string(nil), tw.columns...))
	return nil
}

// Write records a single record.
func (tw *TableWriter) Write(r *annotate.Record) error {
	row := make([]string, len(tw.columns))
	for i, col := range tw.columns {
		row[i] = tw.truncate(cell(r.Value(col)))
	}
	tw.rows = append(tw.rows, row)
	return nil
}

// Flush writes the buffered rows with aligned columns.
func (tw *TableWriter) Flush() error {
	widths := make([]int, len(tw.columns))
	for _, row := range tw.rows {
		for i, c := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(c))
		}
	}

	for _, row := range tw.rows {
		var sb strings.Builder
		for i, c := range row {
			if i > 0 {
				sb.WriteString("  ")
			}
			if i == len(row)-1 {
				sb.WriteString(c)
				continue
			}
			sb.WriteString(runewidth.FillRight(c, widths[i]))
		}
		sb.WriteByte('\n')
		if _, err := tw.w.WriteString(sb.String()); err != nil {
			return err
		}
	}
	tw.rows = nil

	return tw.w.Flush()
}

func (tw *TableWriter) truncate(s string) string {
	if tw.maxWidth <= 0 || runewidth.StringWidth(s) <= tw.maxWidth {
		return s
	}
	return runewidth.Truncate(s, tw.maxWidth, "...")
}
