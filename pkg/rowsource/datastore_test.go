package rowsource

import (
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/datastore"
	"github.com/locvowork/sheettable/pkg/sheettable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/iterator"
)

type entity struct {
	key   *datastore.Key
	props datastore.PropertyList
}

type fakeEntities struct {
	entities []entity
	err      error
}

func (f *fakeEntities) Next(dst interface{}) (*datastore.Key, error) {
	if len(f.entities) == 0 {
		if f.err != nil {
			return nil, f.err
		}
		return nil, iterator.Done
	}
	e := f.entities[0]
	f.entities = f.entities[1:]
	*(dst.(*datastore.PropertyList)) = e.props
	return e.key, nil
}

func TestDatastore(t *testing.T) {
	created := time.Date(2021, 5, 4, 0, 0, 0, 0, time.UTC)
	it := &fakeEntities{entities: []entity{
		{
			key: datastore.NameKey("Task", "write-report", nil),
			props: datastore.PropertyList{
				{Name: "Title", Value: "Write report"},
				{Name: "Priority", Value: int64(3)},
				{Name: "Done", Value: false},
				{Name: "CreatedAt", Value: created},
			},
		},
		{
			key:   datastore.IDKey("Task", 42, nil),
			props: datastore.PropertyList{{Name: "Title", Value: "Review"}},
		},
	}}

	rows := drain(t, Datastore(it, WithIDField("id")))
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"id", "Title", "Priority", "Done", "CreatedAt"}, rows[0].Keys())

	id, _ := rows[0].Get("id")
	assert.Equal(t, "write-report", id.Text())
	prio, _ := rows[0].Get("Priority")
	assert.Equal(t, sheettable.Int(3), prio)
	done, _ := rows[0].Get("Done")
	assert.Equal(t, sheettable.Int(0), done)
	at, _ := rows[0].Get("CreatedAt")
	assert.Equal(t, "2021-05-04", at.Text())

	id, _ = rows[1].Get("id")
	assert.Equal(t, "42", id.Text())
}

func TestDatastoreError(t *testing.T) {
	boom := errors.New("deadline exceeded")
	src := Datastore(&fakeEntities{err: boom})

	_, ok, err := src.Next()
	assert.False(t, ok)
	assert.ErrorIs(t, err, boom)

	_, ok, err = src.Next()
	assert.False(t, ok)
	assert.NoError(t, err)
	assert.NoError(t, src.Close())
}
