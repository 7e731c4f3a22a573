package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/gene-annot/internal/symbol"
)

func newNormalizeCmd() *cobra.Command {
	var genesFile string

	cmd := &cobra.Command{
		Use:   "normalize [symbol ...]",
		Short: "Print gene symbols with aliases resolved",
		Long: `Resolve known aliases to official symbols without querying any service.
Prints one symbol per line, in input order. Symbols without an alias
entry are printed unchanged.`,
		Example: `  gene-annot normalize nd1 ATP6 COX4I2
  gene-annot normalize -i genes.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			symbols, err := resolveSymbols(args, genesFile)
			if err != nil {
				return err
			}

			logger, err := newLogger()
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer logger.Sync()

			aliases, err := loadAliases(logger)
			if err != nil {
				return err
			}

			normalized := symbol.Normalize(symbols, aliases)
			for i, s := range normalized {
				if s != symbols[i] {
					logger.Info("normalized symbol", zap.String("input", symbols[i]), zap.String("symbol", s))
				}
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&genesFile, "genes-file", "i", "", "File with one gene symbol per line ('-' for stdin)")
	return cmd
}
