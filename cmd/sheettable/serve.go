package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/locvowork/sheettable/internal/bootstrap"
	"github.com/locvowork/sheettable/internal/logger"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve catalog reports over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := context.Background()
			app := bootstrap.NewApp()
			if err := app.Initialize(ctx); err != nil {
				logger.ErrorLog(ctx, "Failed to initialize application: %v", err)
				return err
			}
			return app.Run()
		},
	}
}

func newExportCmd() *cobra.Command {
	var (
		outputPath string
		params     map[string]string
	)
	cmd := &cobra.Command{
		Use:   "export NAME",
		Short: "Export one catalog report to an xlsx file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			app := bootstrap.NewApp()
			if err := app.Initialize(ctx); err != nil {
				return err
			}
			defer app.Close()

			name := args[0]
			if outputPath == "" {
				r, err := app.Reports.Catalog().Get(name)
				if err != nil {
					return err
				}
				outputPath = r.Attachment()
			}
			f, err := os.Create(outputPath)
			if err != nil {
				return err
			}
			res, err := app.Reports.Export(ctx, name, params, f)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				os.Remove(outputPath)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rows on %s\n", outputPath, res.Rows, strings.Join(res.Sheets, ", "))
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default: the report file name)")
	cmd.Flags().StringToStringVarP(&params, "param", "p", nil, "Report parameter, name=value (repeatable)")
	return cmd
}
