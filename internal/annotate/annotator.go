package annotate

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/inodb/gene-annot/internal/mygene"
	"github.com/inodb/gene-annot/internal/symbol"
)

// Lookup defines the interface for querying gene records by symbol.
// Implementations return one hit per term, in term order.
type Lookup interface {
	QueryMany(ctx context.Context, terms []string, opts mygene.Options) ([]mygene.Hit, error)
}

// Annotator normalizes symbols, looks them up and shapes the results.
type Annotator struct {
	lookup  Lookup
	aliases symbol.AliasTable
	opts    mygene.Options
	raw     bool
	logger  *zap.Logger
}

// NewAnnotator creates an annotator that resolves aliases with the given
// table before querying l.
func NewAnnotator(l Lookup, aliases symbol.AliasTable) *Annotator {
	return &Annotator{
		lookup:  l,
		aliases: aliases,
		opts:    mygene.DefaultOptions(),
		logger:  zap.NewNop(),
	}
}

// SetOptions sets the query options (species, scopes, fields).
func (a *Annotator) SetOptions(opts mygene.Options) {
	a.opts = opts
}

// SetRaw configures whether records are returned as the service shaped
// them, in query order, instead of flattened and sorted by symbol.
func (a *Annotator) SetRaw(raw bool) {
	a.raw = raw
}

// SetLogger sets the logger for warning and info messages.
func (a *Annotator) SetLogger(l *zap.Logger) {
	a.logger = l
}

// Annotate returns one record per input symbol.
func (a *Annotator) Annotate(ctx context.Context, symbols []string) ([]*Record, error) {
	normalized := symbol.Normalize(symbols, a.aliases)
	for i := range symbols {
		if normalized[i] != symbols[i] {
			a.logger.Debug("normalized symbol",
				zap.String("input", symbols[i]),
				zap.String("symbol", normalized[i]))
		}
	}

	hits, err := a.lookup.QueryMany(ctx, normalized, a.opts)
	if err != nil {
		return nil, fmt.Errorf("query genes: %w", err)
	}
	if len(hits) != len(normalized) {
		return nil, fmt.Errorf("query genes: got %d hits for %d symbols", len(hits), len(normalized))
	}

	records := make([]*Record, len(hits))
	for i, h := range hits {
		records[i] = NewRecord(h)
		if !records[i].Found {
			a.logger.Warn("no annotation found", zap.String("symbol", h.Query))
		}
	}

	if a.raw {
		return records, nil
	}

	records = FlattenAll(records)
	SortBySymbol(records)
	return records, nil
}

// AnnotateAll annotates symbols and writes every record to writer.
func (a *Annotator) AnnotateAll(ctx context.Context, symbols []string, writer RecordWriter) error {
	records, err := a.Annotate(ctx, symbols)
	if err != nil {
		return err
	}

	if err := writer.WriteHeader(); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		if err := writer.Write(r); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	if len(records) == 0 {
		a.logger.Info("0 genes processed")
	}

	return writer.Flush()
}

// FlattenAll returns a new slice holding the flattened form of each record.
func FlattenAll(records []*Record) []*Record {
	out := make([]*Record, len(records))
	for i, r := range records {
		out[i] = r.Flattened()
	}
	return out
}

// SortBySymbol sorts records by symbol text. Records without a symbol
// sort last and otherwise keep their order.
func SortBySymbol(records []*Record) {
	sort.SliceStable(records, func(i, j int) bool {
		si, sj := records[i].Symbol, records[j].Symbol
		if si.IsAbsent() || sj.IsAbsent() {
			return !si.IsAbsent() && sj.IsAbsent()
		}
		return si.String() < sj.String()
	})
}

// OfficialSymbols returns the distinct symbols present in records, in
// record order.
func OfficialSymbols(records []*Record) []string {
	seen := make(map[string]struct{}, len(records))
	var out []string
	for _, r := range records {
		if r.Symbol.IsAbsent() {
			continue
		}
		s := r.Symbol.String()
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// RecordWriter defines the interface for writing annotation records.
type RecordWriter interface {
	WriteHeader() error
	Write(r *Record) error
	Flush() error
}
