package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/locvowork/sheettable/internal/logger"
	"github.com/locvowork/sheettable/pkg/rowsource"
	"github.com/locvowork/sheettable/pkg/sheettable"
	"github.com/spf13/cobra"
)

type renderOptions struct {
	templatePath string
	outputPath   string
	sheet        string
	heading      string
	rowsPerSheet int
	emptyMessage string
	row          int
	column       int
}

func newRenderCmd() *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render [data.jsonl]",
		Short: "Render JSON lines as a table (stdin when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return runRender(cmd.Context(), opts, in, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.templatePath, "template", "t", "", "YAML table template")
	cmd.Flags().StringVarP(&opts.outputPath, "output", "o", "", "Output xlsx file (default: stdout)")
	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "Name of the first sheet")
	cmd.Flags().StringVar(&opts.heading, "heading", "", "Table heading (overrides the template)")
	cmd.Flags().IntVar(&opts.rowsPerSheet, "rows-per-sheet", sheettable.DefaultRowsPerSheet, "Last row a sheet may be written to")
	cmd.Flags().StringVar(&opts.emptyMessage, "empty-message", "", "Text written when there are no rows")
	cmd.Flags().IntVar(&opts.row, "row", sheettable.SheetOriginRow, "First row of the table")
	cmd.Flags().IntVar(&opts.column, "column", 1, "First column of the table")
	return cmd
}

func runRender(ctx context.Context, opts *renderOptions, in io.Reader, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.row < 1 || opts.column < 1 {
		return fmt.Errorf("row and column start at 1")
	}

	tmpl := &sheettable.Template{}
	if opts.templatePath != "" {
		data, err := os.ReadFile(opts.templatePath)
		if err != nil {
			return fmt.Errorf("read template: %w", err)
		}
		if tmpl, err = sheettable.ParseTemplate(data); err != nil {
			return fmt.Errorf("template %s: %w", opts.templatePath, err)
		}
	}
	if opts.heading != "" {
		tmpl.Heading = opts.heading
	}

	doc := sheettable.NewDocument()
	defer doc.Close()
	sheet := doc.ActiveSheet()
	if opts.sheet != "" {
		if err := sheet.SetTitle(opts.sheet); err != nil {
			return fmt.Errorf("name sheet: %w", err)
		}
	}

	src := rowsource.JSONLines(in)
	table, err := tmpl.NewTable(sheet, opts.row, opts.column, src)
	if err != nil {
		return err
	}

	writerOpts := []sheettable.WriterOption{
		sheettable.WithRowsPerSheet(opts.rowsPerSheet),
		sheettable.WithLogger(logger.Logger(ctx)),
	}
	if opts.emptyMessage != "" {
		writerOpts = append(writerOpts, sheettable.WithEmptyTableMessage(opts.emptyMessage))
	}
	tables, err := sheettable.NewTableWriter(writerOpts...).WriteTable(table)
	if err != nil {
		return err
	}

	rows := 0
	for _, t := range tables {
		n, _ := t.Count()
		rows += n
	}
	logger.InfoLog(ctx, "rendered %d rows on %d sheets", rows, len(tables))

	if opts.outputPath == "" {
		_, err = doc.WriteTo(stdout)
		return err
	}
	return doc.SaveAs(opts.outputPath)
}

func newStylesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "styles",
		Short: "List the column styles templates may use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range sheettable.StyleNames() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
