package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"cloud.google.com/go/datastore"
	"github.com/locvowork/sheettable/pkg/rowsource"
	"github.com/olivere/elastic/v7"
)

// SourceFactory opens the rows of a report.
type SourceFactory func(ctx context.Context, r *Report, params map[string]string) (rowsource.Source, error)

var errNoBackend = errors.New("backend not configured")

// SQLSource reads reports from a database/sql pool.
func SQLSource(db *sql.DB) SourceFactory {
	return func(ctx context.Context, r *Report, params map[string]string) (rowsource.Source, error) {
		args, err := r.Args(params)
		if err != nil {
			return nil, err
		}
		if db == nil {
			return nil, fmt.Errorf("%s: %w", SourceSQL, errNoBackend)
		}
		return rowsource.Query(ctx, db, r.Query, args...)
	}
}

// ElasticSource scrolls an index, optionally narrowed by a query string.
func ElasticSource(client *elastic.Client) SourceFactory {
	return func(ctx context.Context, r *Report, _ map[string]string) (rowsource.Source, error) {
		if client == nil {
			return nil, fmt.Errorf("%s: %w", SourceElastic, errNoBackend)
		}
		scroll := client.Scroll(r.Index)
		if r.QueryString != "" {
			scroll = scroll.Query(elastic.NewQueryStringQuery(r.QueryString))
		}
		if r.PageSize > 0 {
			scroll = scroll.Size(r.PageSize)
		}
		return rowsource.ElasticScroll(ctx, scroll,
			rowsource.WithIDField(r.IDField),
			rowsource.WithRetry(3, rowsource.ExponentialBackoff(defaultRetryBackoff)),
		), nil
	}
}

// DatastoreSource runs a kind query.
func DatastoreSource(client *datastore.Client) SourceFactory {
	return func(ctx context.Context, r *Report, _ map[string]string) (rowsource.Source, error) {
		if client == nil {
			return nil, fmt.Errorf("%s: %w", SourceDatastore, errNoBackend)
		}
		return rowsource.Datastore(client.Run(ctx, r.DatastoreQuery()), rowsource.WithIDField(r.IDField)), nil
	}
}

// DatastoreQuery builds the query for r.
func (r *Report) DatastoreQuery() *datastore.Query {
	q := datastore.NewQuery(r.Kind)
	for _, f := range r.Filters {
		q = q.Filter(f.Field, f.Value)
	}
	for _, o := range r.Order {
		q = q.Order(o)
	}
	if r.Limit > 0 {
		q = q.Limit(r.Limit)
	}
	return q
}

// JSONLinesSource reads a JSON lines file.
func JSONLinesSource() SourceFactory {
	return func(_ context.Context, r *Report, _ map[string]string) (rowsource.Source, error) {
		f, err := os.Open(r.Path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", r.Path, err)
		}
		return rowsource.JSONLines(f), nil
	}
}
