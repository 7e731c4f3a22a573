package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/gene-annot/internal/annotate"
	"github.com/inodb/gene-annot/internal/flatten"
)

func coxRecord() *annotate.Record {
	return &annotate.Record{
		Query:     "COX4I2",
		Found:     true,
		Symbol:    flatten.Str("COX4I2"),
		GeneName:  flatten.Str("cytochrome c oxidase subunit 4I2"),
		EntrezID:  flatten.Str("84701"),
		EnsemblID: flatten.Str("ENSG00000131055"),
		Summary:   flatten.Str("This gene encodes a component\tof the\ncytochrome c oxidase."),
		Aliases:   flatten.Str("COX4;COX4-2;COX4B"),
		TaxID:     flatten.Str("9606"),
	}
}

func TestTabWriter_WriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Flush())

	assert.Equal(t, "query\tsymbol\tgene_name\tentrez_id\tensembl_id\tsummary\taliases\ttaxid\n", buf.String())
}

func TestTabWriter_Write_COX4I2(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Write(coxRecord()))
	require.NoError(t, w.Flush())

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)

	fields := strings.Split(lines[1], "\t")
	require.Len(t, fields, 8)

	checks := []struct {
		name  string
		idx   int
		value string
	}{
		{"query", 0, "COX4I2"},
		{"symbol", 1, "COX4I2"},
		{"entrez", 3, "84701"},
		{"ensembl", 4, "ENSG00000131055"},
		{"summary on one line", 5, "This gene encodes a component of the cytochrome c oxidase."},
		{"aliases", 6, "COX4;COX4-2;COX4B"},
		{"taxid", 7, "9606"},
	}
	for _, check := range checks {
		assert.Equal(t, check.value, fields[check.idx], check.name)
	}
}

func TestTabWriter_Write_NotFound(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf)

	require.NoError(t, w.Write(&annotate.Record{Query: "NOPE"}))
	require.NoError(t, w.Flush())

	assert.Equal(t, "NOPE\t-\t-\t-\t-\t-\t-\t-\n", buf.String())
}

func TestTabWriter_Write_RawMapping(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf)

	r := &annotate.Record{
		Query:     "COX4I2",
		EnsemblID: flatten.MappingOf(map[string]flatten.Value{"gene": flatten.Str("ENSG00000131055")}),
	}
	require.NoError(t, w.Write(r))
	require.NoError(t, w.Flush())

	assert.Contains(t, buf.String(), `{"gene":"ENSG00000131055"}`)
}
