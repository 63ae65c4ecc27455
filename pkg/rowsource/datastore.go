package rowsource

import (
	"errors"
	"fmt"
	"strconv"

	"cloud.google.com/go/datastore"
	"github.com/locvowork/sheettable/pkg/sheettable"
	"google.golang.org/api/iterator"
)

// EntityIterator is the part of *datastore.Iterator a DatastoreSource uses.
type EntityIterator interface {
	Next(dst interface{}) (*datastore.Key, error)
}

// DatastoreSource yields one row per entity, keyed by property name in the
// order the properties were loaded.
type DatastoreSource struct {
	it   EntityIterator
	cfg  *config
	done bool
}

// Datastore returns a source over it, typically client.Run(ctx, query).
// WithIDField adds the entity key name (or numeric id) to every row.
func Datastore(it EntityIterator, opts ...Option) *DatastoreSource {
	return &DatastoreSource{it: it, cfg: applyOptions(opts)}
}

func (s *DatastoreSource) Next() (sheettable.Row, bool, error) {
	if s.done {
		return nil, false, nil
	}
	var props datastore.PropertyList
	key, err := s.it.Next(&props)
	if errors.Is(err, iterator.Done) {
		s.done = true
		return nil, false, nil
	}
	if err != nil {
		s.done = true
		return nil, false, fmt.Errorf("next entity: %w", err)
	}

	row := make(sheettable.Row, 0, len(props)+1)
	if s.cfg.idField != "" && key != nil {
		row = row.Set(s.cfg.idField, sheettable.String(keyID(key)))
	}
	for _, p := range props {
		row = row.Set(p.Name, sheettable.ValueOf(p.Value))
	}
	return row, true, nil
}

func (s *DatastoreSource) Close() error { return nil }

func keyID(k *datastore.Key) string {
	if k.Name != "" {
		return k.Name
	}
	return strconv.FormatInt(k.ID, 10)
}
