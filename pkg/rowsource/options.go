// Package rowsource adapts external data into one-pass sheettable row
// sequences: channels, JSON lines, SQL result sets, Elasticsearch scrolls and
// Cloud Datastore queries.
package rowsource

import (
	"io"
	"time"

	"github.com/locvowork/sheettable/pkg/sheettable"
)

// Source is a row sequence holding resources until it is closed.
type Source interface {
	sheettable.RowIterator
	io.Closer
}

// Option configures a source.
type Option func(*config)

type config struct {
	bufferSize int
	maxRetries int
	backoff    func(attempt int) time.Duration
	idField    string
}

func defaultConfig() *config {
	return &config{
		bufferSize: 64,
	}
}

func applyOptions(opts []Option) *config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithBufferSize sets how many rows Prefetch reads ahead.
func WithBufferSize(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.bufferSize = n
		}
	}
}

// WithRetry retries failed page fetches up to maxRetries times, sleeping
// backoff(attempt) before each retry. Attempts are numbered from 1.
func WithRetry(maxRetries int, backoff func(attempt int) time.Duration) Option {
	return func(c *config) {
		if maxRetries >= 0 {
			c.maxRetries = maxRetries
		}
		c.backoff = backoff
	}
}

// WithIDField prepends the document or entity identifier to every row under
// key.
func WithIDField(key string) Option {
	return func(c *config) {
		c.idField = key
	}
}

// ConstantBackoff returns a backoff function that always returns d.
func ConstantBackoff(d time.Duration) func(int) time.Duration {
	return func(_ int) time.Duration {
		return d
	}
}

// ExponentialBackoff returns a backoff function doubling from initial:
// initial * 2^(attempt-1).
func ExponentialBackoff(initial time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		if attempt <= 1 {
			return initial
		}
		return initial * time.Duration(1<<(attempt-1))
	}
}

func (c *config) wait(attempt int, done <-chan struct{}) bool {
	if c.backoff == nil {
		return true
	}
	timer := time.NewTimer(c.backoff(attempt))
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-done:
		return false
	}
}
