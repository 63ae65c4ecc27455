package rowsource

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/locvowork/sheettable/pkg/sheettable"
)

// Rows is the part of *sql.Rows a SQLSource reads.
type Rows interface {
	Columns() ([]string, error)
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
	Close() error
}

// SQLSource turns a result set into rows keyed by column name, in select
// order.
type SQLSource struct {
	rows    Rows
	columns []string
	done    bool
}

// SQL returns a source over rows. Close releases the result set.
func SQL(rows Rows) *SQLSource {
	return &SQLSource{rows: rows}
}

// Query runs query on db and returns a source over the result.
func Query(ctx context.Context, db *sql.DB, query string, args ...interface{}) (*SQLSource, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return SQL(rows), nil
}

func (s *SQLSource) Next() (sheettable.Row, bool, error) {
	if s.done {
		return nil, false, nil
	}
	if s.columns == nil {
		cols, err := s.rows.Columns()
		if err != nil {
			s.done = true
			return nil, false, fmt.Errorf("read columns: %w", err)
		}
		s.columns = cols
	}
	if !s.rows.Next() {
		s.done = true
		if err := s.rows.Err(); err != nil {
			return nil, false, fmt.Errorf("iterate rows: %w", err)
		}
		return nil, false, nil
	}

	values := make([]interface{}, len(s.columns))
	dest := make([]interface{}, len(s.columns))
	for i := range values {
		dest[i] = &values[i]
	}
	if err := s.rows.Scan(dest...); err != nil {
		s.done = true
		return nil, false, fmt.Errorf("scan row: %w", err)
	}

	row := make(sheettable.Row, 0, len(s.columns))
	for i, col := range s.columns {
		row = row.Set(col, sheettable.ValueOf(values[i]))
	}
	return row, true, nil
}

// Columns returns the result columns once the first row has been read.
func (s *SQLSource) Columns() []string { return s.columns }

// Close closes the result set, reporting both a pending iteration error and
// the close error.
func (s *SQLSource) Close() error {
	var result *multierror.Error
	if err := s.rows.Err(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := s.rows.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}
