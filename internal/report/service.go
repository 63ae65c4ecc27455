package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/locvowork/sheettable/internal/logger"
	"github.com/locvowork/sheettable/pkg/rowsource"
	"github.com/locvowork/sheettable/pkg/sheettable"
)

const defaultRetryBackoff = 200 * time.Millisecond

// Result describes a finished export.
type Result struct {
	Report string
	Sheets []string
	Rows   int
}

// Options tune every export of a Service.
type Options struct {
	RowsPerSheet      int
	EmptyTableMessage string
}

// Service writes catalog reports as xlsx workbooks.
type Service struct {
	catalog *Catalog
	sources map[string]SourceFactory
	opts    Options
}

func NewService(catalog *Catalog, opts Options) *Service {
	return &Service{
		catalog: catalog,
		sources: map[string]SourceFactory{SourceJSONLines: JSONLinesSource()},
		opts:    opts,
	}
}

// RegisterSource sets the factory used for reports of the given source kind.
func (s *Service) RegisterSource(kind string, f SourceFactory) *Service {
	s.sources[kind] = f
	return s
}

// Catalog returns the report catalog.
func (s *Service) Catalog() *Catalog { return s.catalog }

// Export writes report name to w.
func (s *Service) Export(ctx context.Context, name string, params map[string]string, w io.Writer) (result *Result, err error) {
	start := time.Now()
	r, err := s.catalog.Get(name)
	if err != nil {
		return nil, err
	}
	open, ok := s.sources[r.Source]
	if !ok {
		return nil, fmt.Errorf("report %s: source %s: %w", name, r.Source, errNoBackend)
	}

	src, err := open(ctx, r, params)
	if err != nil {
		return nil, fmt.Errorf("report %s: open source: %w", name, err)
	}
	if r.Prefetch > 0 {
		src = &prefetchedSource{PrefetchSource: rowsource.Prefetch(ctx, src, rowsource.WithBufferSize(r.Prefetch)), inner: src}
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			err = multierror.Append(err, fmt.Errorf("report %s: close source: %w", name, cerr))
			result = nil
		}
	}()

	doc := sheettable.NewDocument()
	defer doc.Close()

	tables, err := s.write(ctx, doc, r, src)
	if err != nil {
		return nil, fmt.Errorf("report %s: %w", name, err)
	}
	if _, err := doc.WriteTo(w); err != nil {
		return nil, fmt.Errorf("report %s: write workbook: %w", name, err)
	}

	result = &Result{Report: name}
	for _, t := range tables {
		n, _ := t.Count()
		result.Rows += n
		result.Sheets = append(result.Sheets, t.Sheet().Title())
	}
	logger.InfoLog(ctx, "exported report %s: %d rows on %d sheets in %s", name, result.Rows, len(result.Sheets), time.Since(start))
	return result, nil
}

func (s *Service) write(ctx context.Context, doc *sheettable.Document, r *Report, src sheettable.RowIterator) ([]*sheettable.Table, error) {
	sheet := doc.ActiveSheet()
	if err := sheet.SetTitle(r.SheetName()); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	row, col := r.origin()
	table, err := r.Table.NewTable(sheet, row, col, src)
	if err != nil {
		return nil, err
	}

	opts := []sheettable.WriterOption{sheettable.WithLogger(logger.Logger(ctx))}
	if s.opts.RowsPerSheet > 0 {
		opts = append(opts, sheettable.WithRowsPerSheet(s.opts.RowsPerSheet))
	}
	if s.opts.EmptyTableMessage != "" {
		opts = append(opts, sheettable.WithEmptyTableMessage(s.opts.EmptyTableMessage))
	}
	return sheettable.NewTableWriter(opts...).WriteTable(table)
}

// prefetchedSource closes both the prefetch worker and the source it reads.
type prefetchedSource struct {
	*rowsource.PrefetchSource
	inner rowsource.Source
}

func (p *prefetchedSource) Close() error {
	var result *multierror.Error
	if err := p.PrefetchSource.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := p.inner.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}
