// Package main provides the gene-annot command-line tool.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/gene-annot/internal/mygene"
	"github.com/inodb/gene-annot/internal/output"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// usageError marks errors caused by bad command-line input.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run executes the command line and maps its error to an exit code.
func run(args []string, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		var ue *usageError
		if errors.As(err, &ue) {
			return ExitUsage
		}
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(stderr, "Hint: Check that the file path is correct\n")
		}
		return ExitError
	}
	return ExitSuccess
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   "gene-annot",
		Short: "Gene symbol annotation from MyGene.info",
		Long: `gene-annot looks up gene symbols in MyGene.info and prints their
identifiers and descriptions as a table. Common mitochondrial aliases
(ND1, ATP6) are normalized to their official symbols before the query.`,
		Example: `  gene-annot annotate                      # COX4I2, ND1, ATP6
  gene-annot annotate TP53 KRAS
  gene-annot annotate -i genes.txt -f tab -o genes.tsv
  gene-annot normalize nd1 atp6`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cfgFile)
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default: ~/.gene-annot.yaml)")
	pf.Bool("verbose", false, "Log progress information")
	pf.Bool("debug", false, "Log debug information")
	pf.String("species", mygene.DefaultSpecies, "Species name or taxonomy ID")
	pf.String("base-url", mygene.DefaultBaseURL, "MyGene.info API base URL")
	pf.Duration("timeout", 30*time.Second, "Request timeout")
	pf.String("aliases", "", "Extra alias table (TSV: alias, symbol)")
	pf.String("cache", "", "DuckDB hit cache path (empty disables caching)")

	for key, flag := range map[string]string{
		"verbose":      "verbose",
		"debug":        "debug",
		"species":      "species",
		"base_url":     "base-url",
		"timeout":      "timeout",
		"aliases_file": "aliases",
		"cache.path":   "cache",
	} {
		viper.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(newAnnotateCmd())
	root.AddCommand(newNormalizeCmd())
	root.AddCommand(newCacheCmd())
	root.AddCommand(newDownloadCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// initConfig reads the config file and environment.
func initConfig(cfgFile string) error {
	viper.SetDefault("species", mygene.DefaultSpecies)
	viper.SetDefault("base_url", mygene.DefaultBaseURL)
	viper.SetDefault("timeout", "30s")
	viper.SetDefault("batch_size", mygene.MaxBatchSize)
	viper.SetDefault("concurrency", 1)
	viper.SetDefault("format", "table")
	viper.SetDefault("max_width", output.DefaultMaxWidth)
	viper.SetDefault("aliases.hgnc", false)
	viper.SetDefault("cache.max_age", "0s")

	viper.SetEnvPrefix("GENE_ANNOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".gene-annot")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// A missing file is fine; config set creates it.
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// DefaultDataDir returns the default directory for downloaded and cached data.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".gene-annot")
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gene-annot version %s (%s) built %s\n", version, commit, date)
		},
	}
}
