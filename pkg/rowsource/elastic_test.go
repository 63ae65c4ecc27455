package rowsource

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/olivere/elastic/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScroll struct {
	pages   [][]*elastic.SearchHit
	failing int
	calls   int
	cleared bool
}

func (s *fakeScroll) Do(_ context.Context) (*elastic.SearchResult, error) {
	s.calls++
	if s.failing > 0 {
		s.failing--
		return nil, errors.New("503 service unavailable")
	}
	if len(s.pages) == 0 {
		return nil, io.EOF
	}
	page := s.pages[0]
	s.pages = s.pages[1:]
	return &elastic.SearchResult{Hits: &elastic.SearchHits{Hits: page}}, nil
}

func (s *fakeScroll) Clear(_ context.Context) error {
	s.cleared = true
	return nil
}

func hit(id, source string) *elastic.SearchHit {
	return &elastic.SearchHit{Id: id, Source: json.RawMessage(source)}
}

func TestElasticScroll(t *testing.T) {
	scroll := &fakeScroll{pages: [][]*elastic.SearchHit{
		{hit("1", `{"name": "a", "total": 10}`), hit("2", `{"name": "b", "total": 20}`)},
		{hit("3", `{"name": "c"}`)},
	}}

	src := ElasticScroll(context.Background(), scroll, WithIDField("_id"))
	rows := drain(t, src)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"_id", "name", "total"}, rows[0].Keys())
	id, _ := rows[2].Get("_id")
	assert.Equal(t, "3", id.Text())
	assert.Equal(t, 2, src.Pages())
	assert.Equal(t, 3, scroll.calls)

	require.NoError(t, src.Close())
	assert.True(t, scroll.cleared)
}

func TestElasticScrollRetries(t *testing.T) {
	scroll := &fakeScroll{
		failing: 2,
		pages:   [][]*elastic.SearchHit{{hit("1", `{"a": 1}`)}},
	}

	src := ElasticScroll(context.Background(), scroll, WithRetry(2, ConstantBackoff(time.Millisecond)))
	rows := drain(t, src)
	assert.Len(t, rows, 1)
	assert.Equal(t, 4, scroll.calls)
}

func TestElasticScrollGivesUp(t *testing.T) {
	scroll := &fakeScroll{failing: 5}

	src := ElasticScroll(context.Background(), scroll, WithRetry(1, nil))
	_, ok, err := src.Next()
	assert.False(t, ok)
	assert.ErrorContains(t, err, "scroll page 1")
	assert.Equal(t, 2, scroll.calls)
}

func TestElasticScrollBadSource(t *testing.T) {
	scroll := &fakeScroll{pages: [][]*elastic.SearchHit{{hit("x", `"just a string"`)}}}

	_, _, err := ElasticScroll(context.Background(), scroll).Next()
	assert.ErrorContains(t, err, "hit x")
}

func TestExponentialBackoff(t *testing.T) {
	b := ExponentialBackoff(10 * time.Millisecond)
	assert.Equal(t, 10*time.Millisecond, b(1))
	assert.Equal(t, 20*time.Millisecond, b(2))
	assert.Equal(t, 80*time.Millisecond, b(4))
}
