package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/gene-annot/internal/duckdb"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the local hit cache",
		Long: `Inspect or clear the DuckDB cache of MyGene.info hits. The cache is
used by annotate when --cache or cache.path is set.`,
		Example: `  gene-annot config set cache.path ~/.gene-annot/hits.duckdb
  gene-annot cache info
  gene-annot cache search MT-ND1
  gene-annot cache clear`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "info",
		Short: "Show the cache location and size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(s *duckdb.Store) error {
				n, err := s.HitCount()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cache: %s\nHits:  %d\n", s.Path(), n)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "search <symbol>",
		Short: "List cached queries that resolved to an official symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(s *duckdb.Store) error {
				hits, err := s.SearchBySymbol(args[0])
				if err != nil {
					return err
				}
				for _, h := range hits {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n",
						h.Hit.Query, h.Hit.ID(), h.FetchedAt.Local().Format(time.RFC3339))
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove all cached hits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(s *duckdb.Store) error {
				if err := s.ClearHits(); err != nil {
					return fmt.Errorf("clear cache: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", s.Path())
				return nil
			})
		},
	})

	return cmd
}

// withStore opens the configured cache for the duration of fn.
func withStore(fn func(*duckdb.Store) error) error {
	path := viper.GetString("cache.path")
	if path == "" {
		return &usageError{err: fmt.Errorf("no cache configured; use --cache or set cache.path")}
	}
	s, err := duckdb.Open(path)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}
