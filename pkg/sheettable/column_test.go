package sheettable

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnCollectionBaseFunctionalities(t *testing.T) {
	column := NewColumn("foo", "Foo", 10, Text{})
	collection, err := NewColumnCollection(column)
	require.NoError(t, err)

	assert.True(t, collection.Has("foo"))
	got, ok := collection.Get("foo")
	require.True(t, ok)
	assert.Equal(t, column, got)

	_, ok = collection.Get("bar")
	assert.False(t, ok)
	assert.Equal(t, 1, collection.Len())
}

func TestColumnCollectionKeepsDeclarationOrder(t *testing.T) {
	collection, err := NewColumns().
		Add("zeta", "Z", 5, Text{}).
		Add("alpha", "A", 6, Amount{}).
		Add("mid", "M", 7, Integer{}).
		Build()
	require.NoError(t, err)

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, collection.Keys())

	cols := collection.Columns()
	require.Len(t, cols, 3)
	assert.Equal(t, "A", cols[1].Heading)

	// Returned slices are copies.
	cols[0].Heading = "changed"
	keys := collection.Keys()
	keys[0] = "changed"
	got, _ := collection.Get("zeta")
	assert.Equal(t, "Z", got.Heading)
	assert.Equal(t, "zeta", collection.Keys()[0])
}

func TestColumnCollectionRejectsDuplicateKeys(t *testing.T) {
	_, err := NewColumnCollection(
		NewColumn("foo", "Foo", 10, Text{}),
		NewColumn("foo", "Foo again", 12, Amount{}),
	)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateColumn))

	var dup *DuplicateColumnError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "foo", dup.Key)
}

func TestNilColumnCollectionIsEmpty(t *testing.T) {
	var collection *ColumnCollection

	assert.Zero(t, collection.Len())
	assert.False(t, collection.Has("foo"))
	assert.Nil(t, collection.Keys())
	assert.Nil(t, collection.Columns())
}

func TestColumnEffectiveWidth(t *testing.T) {
	assert.Equal(t, 15.0, NewColumn("a", "A", 15, nil).effectiveWidth())
	assert.Equal(t, float64(DefaultColumnWidth), NewColumn("a", "A", 0, nil).effectiveWidth())
	assert.Equal(t, float64(DefaultColumnWidth), NewColumn("a", "A", -3, nil).effectiveWidth())
}
