package rowsource

import (
	"context"

	"github.com/locvowork/sheettable/pkg/sheettable"
)

type prefetched struct {
	row sheettable.Row
	err error
}

// PrefetchSource reads another sequence ahead on a worker goroutine so that
// fetching and sheet writing overlap.
type PrefetchSource struct {
	ctx      context.Context
	cancel   context.CancelFunc
	items    chan prefetched
	done     chan struct{}
	finished bool
}

// Prefetch starts reading src in the background. The buffer size defaults
// to 64 rows and is set with WithBufferSize. Close must be called to stop
// the worker; it waits for an in-flight src.Next to return.
func Prefetch(ctx context.Context, src sheettable.RowIterator, opts ...Option) *PrefetchSource {
	cfg := applyOptions(opts)
	ctx, cancel := context.WithCancel(ctx)
	p := &PrefetchSource{
		ctx:    ctx,
		cancel: cancel,
		items:  make(chan prefetched, cfg.bufferSize),
		done:   make(chan struct{}),
	}
	go p.run(src)
	return p
}

func (p *PrefetchSource) run(src sheettable.RowIterator) {
	defer close(p.done)
	defer close(p.items)
	for {
		row, ok, err := src.Next()
		if err != nil {
			p.send(prefetched{err: err})
			return
		}
		if !ok {
			return
		}
		if !p.send(prefetched{row: row}) {
			return
		}
	}
}

func (p *PrefetchSource) send(item prefetched) bool {
	select {
	case p.items <- item:
		return true
	case <-p.ctx.Done():
		return false
	}
}

func (p *PrefetchSource) Next() (sheettable.Row, bool, error) {
	if p.finished {
		return nil, false, nil
	}
	item, ok := <-p.items
	if !ok {
		p.finished = true
		return nil, false, p.ctx.Err()
	}
	if item.err != nil {
		p.finished = true
		return nil, false, item.err
	}
	return item.row, true, nil
}

// Close stops the worker and drops unread rows.
func (p *PrefetchSource) Close() error {
	p.finished = true
	p.cancel()
	for range p.items {
	}
	<-p.done
	return nil
}
