package rowsource

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/locvowork/sheettable/pkg/sheettable"
	"github.com/olivere/elastic/v7"
)

// Scroller is the part of *elastic.ScrollService an ElasticSource uses.
type Scroller interface {
	Do(ctx context.Context) (*elastic.SearchResult, error)
	Clear(ctx context.Context) error
}

// ElasticSource pages through a scroll, yielding one row per hit built from
// its _source document.
type ElasticSource struct {
	ctx    context.Context
	scroll Scroller
	cfg    *config
	page   []*elastic.SearchHit
	pos    int
	pages  int
	done   bool
}

// ElasticScroll returns a source over scroll. WithRetry retries failed page
// fetches; WithIDField adds the hit id to every row.
func ElasticScroll(ctx context.Context, scroll Scroller, opts ...Option) *ElasticSource {
	return &ElasticSource{ctx: ctx, scroll: scroll, cfg: applyOptions(opts)}
}

func (s *ElasticSource) Next() (sheettable.Row, bool, error) {
	for s.pos >= len(s.page) {
		if s.done {
			return nil, false, nil
		}
		res, err := s.fetch()
		if errors.Is(err, io.EOF) {
			s.done = true
			return nil, false, nil
		}
		if err != nil {
			s.done = true
			return nil, false, fmt.Errorf("scroll page %d: %w", s.pages+1, err)
		}
		s.pages++
		s.page, s.pos = nil, 0
		if res != nil && res.Hits != nil {
			s.page = res.Hits.Hits
		}
		if len(s.page) == 0 {
			s.done = true
		}
	}

	hit := s.page[s.pos]
	s.pos++
	row, err := HitRow(hit, s.cfg.idField)
	if err != nil {
		s.done = true
		return nil, false, err
	}
	return row, true, nil
}

func (s *ElasticSource) fetch() (*elastic.SearchResult, error) {
	for attempt := 0; ; attempt++ {
		res, err := s.scroll.Do(s.ctx)
		if err == nil || errors.Is(err, io.EOF) || attempt >= s.cfg.maxRetries {
			return res, err
		}
		if s.ctx.Err() != nil {
			return nil, s.ctx.Err()
		}
		if !s.cfg.wait(attempt+1, s.ctx.Done()) {
			return nil, s.ctx.Err()
		}
	}
}

// Pages returns how many pages have been fetched.
func (s *ElasticSource) Pages() int { return s.pages }

// Close releases the scroll context on the cluster.
func (s *ElasticSource) Close() error {
	return s.scroll.Clear(context.Background())
}

// HitRow decodes the _source of hit. When idField is set the hit id comes
// first under that key.
func HitRow(hit *elastic.SearchHit, idField string) (sheettable.Row, error) {
	var row sheettable.Row
	if idField != "" {
		row = row.Set(idField, sheettable.String(hit.Id))
	}
	if len(hit.Source) == 0 {
		return row, nil
	}
	doc, err := ObjectRow(string(hit.Source))
	if err != nil {
		return nil, fmt.Errorf("hit %s: %w", hit.Id, err)
	}
	for _, f := range doc {
		row = row.Set(f.Key, f.Value)
	}
	return row, nil
}
