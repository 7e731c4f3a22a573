package flatten

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestFlatten(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		want Value
	}{
		{"list sorted and deduplicated", ListOf(Str("B"), Str("A"), Str("A")), Str("A;B")},
		{"single element list", ListOf(Str("COX4B")), Str("COX4B")},
		{"empty list", ListOf(), Str("")},
		{"list drops absent elements", ListOf(Str("b"), None(), Str("a")), Str("a;b")},
		{"list of gene mappings", ListOf(
			MappingOf(map[string]Value{"gene": Str("ENSG2")}),
			MappingOf(map[string]Value{"gene": Str("ENSG1")}),
			MappingOf(map[string]Value{"gene": Str("ENSG2")}),
		), Str("ENSG1;ENSG2")},
		{"gene mapping", MappingOf(map[string]Value{"gene": Str("X123")}), Str("X123")},
		{"scalar unchanged", Str("MT-ND1"), Str("MT-ND1")},
		{"empty scalar unchanged", Str(""), Str("")},
		{"absent unchanged", None(), None()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Flatten(tt.in))
		})
	}
}

func TestFlatten_MappingWithoutGene(t *testing.T) {
	in := MappingOf(map[string]Value{"protein": Str("ENSP1")})
	assert.Equal(t, in, Flatten(in))
}

func TestFlatten_OrderIndependent(t *testing.T) {
	a := Flatten(ListOf(Str("ND1"), Str("MTND1"), Str("NAD1")))
	b := Flatten(ListOf(Str("NAD1"), Str("ND1"), Str("MTND1"), Str("ND1")))
	assert.Equal(t, a, b)
	assert.Equal(t, "MTND1;NAD1;ND1", a.String())
}

func TestMap(t *testing.T) {
	in := []Value{ListOf(Str("B"), Str("A")), Str("x"), None()}
	out := Map(in)

	assert.Equal(t, []Value{Str("A;B"), Str("x"), None()}, out)
	assert.Equal(t, List, in[0].Kind, "source values must not be modified")
}

func TestFromJSON(t *testing.T) {
	doc := `{
		"symbol": "COX4I2",
		"entrezgene": 84701,
		"alias": ["COX4", "COX4B", "COX4-2"],
		"ensembl": {"gene": "ENSG00000131055"},
		"summary": null
	}`
	parsed := gjson.Parse(doc)

	assert.Equal(t, Str("COX4I2"), FromJSON(parsed.Get("symbol")))
	assert.Equal(t, Str("84701"), FromJSON(parsed.Get("entrezgene")))
	assert.Equal(t, None(), FromJSON(parsed.Get("summary")))
	assert.Equal(t, None(), FromJSON(parsed.Get("taxid")))

	aliases := FromJSON(parsed.Get("alias"))
	require.Equal(t, List, aliases.Kind)
	assert.Len(t, aliases.Items, 3)
	assert.Equal(t, "COX4;COX4-2;COX4B", Flatten(aliases).String())

	ensembl := FromJSON(parsed.Get("ensembl"))
	require.Equal(t, Mapping, ensembl.Kind)
	assert.Equal(t, `{"gene": "ENSG00000131055"}`, ensembl.String())
	assert.Equal(t, "ENSG00000131055", Flatten(ensembl).String())
}

func TestFromJSON_EnsemblList(t *testing.T) {
	r := gjson.Parse(`[{"gene":"ENSG00000198888"},{"gene":"ENSG00000111111"}]`)
	assert.Equal(t, "ENSG00000111111;ENSG00000198888", Flatten(FromJSON(r)).String())
}

func TestValue_String(t *testing.T) {
	v := MappingOf(map[string]Value{
		"b": ListOf(Str("x"), None()),
		"a": Str(`q"`),
	})
	assert.Equal(t, `{"a":"q\"","b":["x",null]}`, v.String())
	assert.Equal(t, "", None().String())
	assert.Equal(t, "mapping", v.Kind.String())
}
