// Package annotate builds gene annotation records from symbol queries.
package annotate

import (
	"github.com/inodb/gene-annot/internal/flatten"
	"github.com/inodb/gene-annot/internal/mygene"
)

// Record holds the annotation fields for one queried symbol.
// Any field may be absent; before flattening, fields hold the
// service's values as returned (lists, mappings or scalars).
type Record struct {
	Query string // symbol sent to the service (after normalization)
	Found bool   // whether the service returned a hit

	Symbol    flatten.Value // canonical symbol
	GeneName  flatten.Value // display name
	EntrezID  flatten.Value // NCBI Gene ID
	EnsemblID flatten.Value // Ensembl gene ID
	Summary   flatten.Value // free-text summary
	Aliases   flatten.Value // alias symbols
	TaxID     flatten.Value // NCBI taxonomy ID
}

// NewRecord builds a Record from a query hit.
func NewRecord(h mygene.Hit) *Record {
	r := &Record{Query: h.Query}
	if !h.Found() {
		return r
	}
	r.Found = true
	for _, col := range CoreColumns {
		*r.field(col.Name) = flatten.FromJSON(h.Field(col.Path))
	}
	return r
}

// Value returns the value of the named column ("query" included).
func (r *Record) Value(column string) flatten.Value {
	if column == ColumnQuery {
		return flatten.Str(r.Query)
	}
	if f := r.field(column); f != nil {
		return *f
	}
	return flatten.None()
}

// Flattened returns a copy of r with every field flattened.
func (r *Record) Flattened() *Record {
	out := &Record{Query: r.Query, Found: r.Found}
	for _, col := range CoreColumns {
		*out.field(col.Name) = flatten.Flatten(*r.field(col.Name))
	}
	return out
}

func (r *Record) field(column string) *flatten.Value {
	switch column {
	case ColumnSymbol:
		return &r.Symbol
	case ColumnGeneName:
		return &r.GeneName
	case ColumnEntrezID:
		return &r.EntrezID
	case ColumnEnsemblID:
		return &r.EnsemblID
	case ColumnSummary:
		return &r.Summary
	case ColumnAliases:
		return &r.Aliases
	case ColumnTaxID:
		return &r.TaxID
	}
	return nil
}
