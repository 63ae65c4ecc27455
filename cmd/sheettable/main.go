// Package main provides the sheettable command line.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sheettable",
		Short: "Write tables to paginated xlsx workbooks",
		Long: `sheettable lays out tabular data on spreadsheet sheets: a heading, a
styled header, typed cells, autofilter and zebra rows, spilling onto new
sheets when a sheet is full.`,
		SilenceUsage: true,
	}
	rootCmd.AddCommand(newRenderCmd(), newExportCmd(), newServeCmd(), newStylesCmd())
	return rootCmd
}
