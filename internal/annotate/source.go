package annotate

// Column names.
const (
	ColumnQuery     = "query"
	ColumnSymbol    = "symbol"
	ColumnGeneName  = "gene_name"
	ColumnEntrezID  = "entrez_id"
	ColumnEnsemblID = "ensembl_id"
	ColumnSummary   = "summary"
	ColumnAliases   = "aliases"
	ColumnTaxID     = "taxid"
)

// ColumnDef describes an annotation column.
type ColumnDef struct {
	Name        string // output column name, e.g. "entrez_id"
	Path        string // field path in the service response, e.g. "entrezgene"
	Description string // human-readable description
}

// CoreColumns lists the annotation columns in output order.
// Path is the response field each column is read from.
var CoreColumns = []ColumnDef{
	{Name: ColumnSymbol, Path: "symbol", Description: "Official gene symbol"},
	{Name: ColumnGeneName, Path: "name", Description: "Gene name"},
	{Name: ColumnEntrezID, Path: "entrezgene", Description: "NCBI Gene ID"},
	{Name: ColumnEnsemblID, Path: "ensembl", Description: "Ensembl gene ID"},
	{Name: ColumnSummary, Path: "summary", Description: "Gene summary"},
	{Name: ColumnAliases, Path: "alias", Description: "Alias symbols"},
	{Name: ColumnTaxID, Path: "taxid", Description: "NCBI taxonomy ID"},
}

// ColumnNames returns the output column names, "query" first.
func ColumnNames() []string {
	names := make([]string, 0, len(CoreColumns)+1)
	names = append(names, ColumnQuery)
	for _, c := range CoreColumns {
		names = append(names, c.Name)
	}
	return names
}
