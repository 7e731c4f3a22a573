package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/gene-annot/internal/annotate"
	"github.com/inodb/gene-annot/internal/duckdb"
	"github.com/inodb/gene-annot/internal/mygene"
	"github.com/inodb/gene-annot/internal/output"
	"github.com/inodb/gene-annot/internal/symbol"
)

func newAnnotateCmd() *cobra.Command {
	var (
		genesFile   string
		outputFile  string
		raw         bool
		noNormalize bool
		symbolsOnly bool
	)

	cmd := &cobra.Command{
		Use:   "annotate [symbol ...]",
		Short: "Look up gene symbols and print their annotations",
		Long: `Look up gene symbols in MyGene.info and print one row per gene with
its official symbol, name, Entrez and Ensembl IDs, summary, aliases and
taxonomy ID. Without arguments the default genes (COX4I2, ND1, ATP6) are used.

List and mapping values are flattened (aliases sorted, de-duplicated and
joined with ';') and rows are sorted by symbol, unless --raw is given.`,
		Example: `  gene-annot annotate
  gene-annot annotate TP53 KRAS BRAF
  gene-annot annotate -i genes.txt
  cat genes.txt | gene-annot annotate -i - -f tab
  gene-annot annotate --cache ~/.gene-annot/hits.duckdb COX4I2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnnotate(cmd, args, genesFile, outputFile, raw, noNormalize, symbolsOnly)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&genesFile, "genes-file", "i", "", "File with one gene symbol per line ('-' for stdin)")
	f.StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	f.BoolVar(&raw, "raw", false, "Keep nested values and query order")
	f.BoolVar(&noNormalize, "no-normalize", false, "Query symbols as given, without alias normalization")
	f.BoolVar(&symbolsOnly, "symbols-only", false, "Print only the distinct official symbols found")
	f.StringP("format", "f", "table", "Output format: table, tab")
	f.Int("max-width", output.DefaultMaxWidth, "Truncate table cells wider than this (0: no limit)")
	f.Int("batch-size", mygene.MaxBatchSize, "Symbols per request")
	f.Int("concurrency", 1, "Concurrent requests")

	viper.BindPFlag("format", f.Lookup("format"))
	viper.BindPFlag("max_width", f.Lookup("max-width"))
	viper.BindPFlag("batch_size", f.Lookup("batch-size"))
	viper.BindPFlag("concurrency", f.Lookup("concurrency"))

	return cmd
}

func runAnnotate(cmd *cobra.Command, args []string, genesFile, outputFile string, raw, noNormalize, symbolsOnly bool) error {
	symbols, err := resolveSymbols(args, genesFile)
	if err != nil {
		return err
	}

	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	aliases := symbol.AliasTable{}
	if !noNormalize {
		aliases, err = loadAliases(logger)
		if err != nil {
			return err
		}
	}

	client := mygene.NewClient(viper.GetString("base_url"))
	client.SetTimeout(viper.GetDuration("timeout"))
	client.SetBatchSize(viper.GetInt("batch_size"))
	client.SetConcurrency(viper.GetInt("concurrency"))
	client.SetUserAgent("gene-annot/" + version)
	client.SetLogger(logger)

	var lookup annotate.Lookup = client
	if cachePath := viper.GetString("cache.path"); cachePath != "" {
		store, err := duckdb.Open(cachePath)
		if err != nil {
			logger.Warn("could not open hit cache, continuing without it",
				zap.String("path", cachePath), zap.Error(err))
		} else {
			defer store.Close()
			cached := duckdb.NewCachedLookup(store, client)
			cached.SetMaxAge(viper.GetDuration("cache.max_age"))
			cached.SetLogger(logger)
			lookup = cached
			logger.Info("using hit cache", zap.String("path", cachePath))
		}
	}

	ann := annotate.NewAnnotator(lookup, aliases)
	ann.SetOptions(mygene.Options{Species: viper.GetString("species")})
	ann.SetRaw(raw)
	ann.SetLogger(logger)

	out := cmd.OutOrStdout()
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	logger.Info("annotating genes",
		zap.Int("symbols", len(symbols)),
		zap.String("species", viper.GetString("species")))

	if symbolsOnly {
		records, err := ann.Annotate(cmd.Context(), symbols)
		if err != nil {
			return err
		}
		for _, s := range annotate.OfficialSymbols(records) {
			fmt.Fprintln(out, s)
		}
		return nil
	}

	writer, err := newRecordWriter(viper.GetString("format"), out, viper.GetInt("max_width"))
	if err != nil {
		return err
	}
	return ann.AnnotateAll(cmd.Context(), symbols, writer)
}

// resolveSymbols returns the symbols named on the command line, read from
// genesFile, or the default genes when neither is given.
func resolveSymbols(args []string, genesFile string) ([]string, error) {
	switch {
	case genesFile != "" && len(args) > 0:
		return nil, &usageError{err: fmt.Errorf("give gene symbols as arguments or with --genes-file, not both")}
	case genesFile != "":
		return symbol.LoadSymbols(genesFile)
	case len(args) > 0:
		return args, nil
	}
	return append([]string(nil), symbol.DefaultGenes...), nil
}

// loadAliases assembles the alias table: HGNC aliases when enabled, the
// built-in mitochondrial aliases, then the user's alias file, each
// layered over the previous.
func loadAliases(logger *zap.Logger) (symbol.AliasTable, error) {
	table := symbol.AliasTable{}

	if viper.GetBool("aliases.hgnc") {
		path := filepath.Join(DefaultDataDir(), symbol.HGNCFileName)
		hgnc, err := symbol.LoadHGNCAliases(path)
		if err != nil {
			return nil, fmt.Errorf("%w (download it with: gene-annot download)", err)
		}
		logger.Info("loaded HGNC aliases", zap.Int("aliases", len(hgnc)))
		table = hgnc
	}

	table = table.Merge(symbol.HumanMitochondrial())

	if path := viper.GetString("aliases_file"); path != "" {
		extra, err := symbol.LoadAliasTable(path)
		if err != nil {
			return nil, err
		}
		logger.Info("loaded alias table", zap.String("path", path), zap.Int("aliases", len(extra)))
		table = table.Merge(extra)
	}

	return table, nil
}

func newRecordWriter(format string, w io.Writer, maxWidth int) (annotate.RecordWriter, error) {
	switch format {
	case "table", "":
		tw := output.NewTableWriter(w)
		tw.SetMaxWidth(maxWidth)
		return tw, nil
	case "tab", "tsv":
		return output.NewTabWriter(w), nil
	}
	return nil, &usageError{err: fmt.Errorf("unknown output format %q (use table or tab)", format)}
}
