package annotate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inodb/gene-annot/internal/flatten"
	"github.com/inodb/gene-annot/internal/mygene"
)

func TestNewRecord(t *testing.T) {
	r := NewRecord(mygene.Hit{Query: "MT-ND1", Raw: testHits["MT-ND1"]})

	assert.True(t, r.Found)
	assert.Equal(t, flatten.Str("MT-ND1"), r.Symbol)
	assert.Equal(t, flatten.Str("mitochondrially encoded NADH dehydrogenase 1"), r.GeneName)
	assert.Equal(t, flatten.Mapping, r.EnsemblID.Kind)
	assert.True(t, r.Summary.IsAbsent())
}

func TestNewRecord_NotFound(t *testing.T) {
	r := NewRecord(mygene.Hit{Query: "MT-ATP6", NotFound: true, Raw: `{"query":"MT-ATP6","notfound":true}`})

	assert.False(t, r.Found)
	assert.Equal(t, "MT-ATP6", r.Query)
	assert.True(t, r.Symbol.IsAbsent())
}

func TestRecord_Value(t *testing.T) {
	r := &Record{Query: "X", TaxID: flatten.Str("9606")}

	assert.Equal(t, flatten.Str("X"), r.Value(ColumnQuery))
	assert.Equal(t, flatten.Str("9606"), r.Value(ColumnTaxID))
	assert.True(t, r.Value("unknown").IsAbsent())
}

func TestColumnNames(t *testing.T) {
	assert.Equal(t, []string{
		"query", "symbol", "gene_name", "entrez_id", "ensembl_id", "summary", "aliases", "taxid",
	}, ColumnNames())
}
