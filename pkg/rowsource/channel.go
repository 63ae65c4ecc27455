package rowsource

import (
	"context"

	"github.com/locvowork/sheettable/pkg/sheettable"
)

// ChannelSource reads rows from a channel until it is closed.
type ChannelSource struct {
	ctx context.Context
	ch  <-chan sheettable.Row
}

// Channel returns a source over ch. Next fails with the context error once
// ctx is done.
func Channel(ctx context.Context, ch <-chan sheettable.Row) *ChannelSource {
	return &ChannelSource{ctx: ctx, ch: ch}
}

func (s *ChannelSource) Next() (sheettable.Row, bool, error) {
	select {
	case <-s.ctx.Done():
		return nil, false, s.ctx.Err()
	case row, ok := <-s.ch:
		if !ok {
			return nil, false, nil
		}
		return row, true, nil
	}
}

// Close is a no-op; the producer owns the channel.
func (s *ChannelSource) Close() error { return nil }
