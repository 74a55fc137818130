package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryAddCollection(t *testing.T) {
	r := NewRegistry()

	index, err := r.AddCollection(0, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), index)

	_, err = r.AddCollection(9, 20)
	assert.ErrorIs(t, err, ErrRangeOverlap)
	_, err = r.AddCollection(5, 8)
	assert.ErrorIs(t, err, ErrRangeOverlap)
	_, err = r.AddCollection(20, 20)
	assert.ErrorIs(t, err, ErrRangeInvalid)
	_, err = r.AddCollection(30, 20)
	assert.ErrorIs(t, err, ErrRangeInvalid)
	assert.Equal(t, []Collection{{Start: 0, End: 10}}, r.Collections())

	index, err = r.AddCollection(10, 20)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), index)

	index, err = r.AddCollection(1000, 10002)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), index)

	// ranges below the top collection are rejected even in a gap
	_, err = r.AddCollection(500, 600)
	assert.ErrorIs(t, err, ErrRangeOverlap)

	collections := r.Collections()
	require.Len(t, collections, 3)
	for i := 1; i < len(collections); i++ {
		assert.LessOrEqual(t, collections[i-1].End, collections[i].Start)
	}
}

func TestRegistryAllocateSlot(t *testing.T) {
	r := NewRegistry()
	_, err := r.AllocateSlot(0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = r.AddCollection(0, 5)
	require.NoError(t, err)
	_, err = r.AddCollection(1000, 10002)
	require.NoError(t, err)

	for i := uint64(0); i < 5; i++ {
		id, err := r.AllocateSlot(0)
		require.NoError(t, err)
		assert.Equal(t, i, id)
	}
	_, err = r.AllocateSlot(0)
	assert.ErrorIs(t, err, ErrSoldOut)

	id, err := r.AllocateSlot(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), id)
	assert.Equal(t, uint64(6), r.TotalSupply())

	_, err = r.AllocateSlot(2)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestRegistryAmendTopCollection(t *testing.T) {
	r := NewRegistry()
	_, err := r.AmendTopCollection(10)
	assert.ErrorIs(t, err, ErrNoCollection)

	_, err = r.AddCollection(0, 10)
	require.NoError(t, err)
	_, err = r.AddCollection(100, 1337)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err = r.AllocateSlot(1)
		require.NoError(t, err)
	}

	_, err = r.AmendTopCollection(104)
	assert.ErrorIs(t, err, ErrSupplyViolation)

	index, err := r.AmendTopCollection(105)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), index)
	c, err := r.Collection(1)
	require.NoError(t, err)
	assert.Equal(t, Collection{Start: 100, End: 105, Minted: 5}, c)
	_, err = r.AllocateSlot(1)
	assert.ErrorIs(t, err, ErrSoldOut)

	_, err = r.AmendTopCollection(2000)
	require.NoError(t, err)
	id, err := r.AllocateSlot(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(105), id)

	first, err := r.Collection(0)
	require.NoError(t, err)
	assert.Equal(t, Collection{Start: 0, End: 10}, first)
}

func TestRegistryAmendToEmpty(t *testing.T) {
	r := NewRegistry()
	_, err := r.AddCollection(5, 10)
	require.NoError(t, err)

	_, err = r.AmendTopCollection(5)
	assert.ErrorIs(t, err, ErrRangeInvalid)
	_, err = r.AmendTopCollection(4)
	assert.ErrorIs(t, err, ErrRangeInvalid)
	_, err = r.AddCollection(5, 8)
	assert.ErrorIs(t, err, ErrRangeOverlap)

	_, err = r.AmendTopCollection(6)
	require.NoError(t, err)
	_, err = r.AllocateSlot(0)
	require.NoError(t, err)
	_, err = r.AllocateSlot(0)
	assert.ErrorIs(t, err, ErrSoldOut)

	index, err := r.AddCollection(6, 8)
	require.NoError(t, err)
	assert.Equal(t, []Collection{{Start: 5, End: 6, Minted: 1}, {Start: 6, End: 8}}, r.Collections())
	idx, c, ok := r.CollectionOf(6)
	require.True(t, ok)
	assert.Equal(t, index, idx)
	assert.Equal(t, uint64(8), c.End)
}

func TestRegistryCollectionOf(t *testing.T) {
	r := NewRegistry()
	_, _, ok := r.CollectionOf(0)
	assert.False(t, ok)

	_, err := r.AddCollection(10, 20)
	require.NoError(t, err)
	_, err = r.AddCollection(20, 25)
	require.NoError(t, err)
	_, err = r.AddCollection(100, 200)
	require.NoError(t, err)

	cases := []struct {
		id    uint64
		index uint64
		ok    bool
	}{
		{9, 0, false},
		{10, 0, true},
		{19, 0, true},
		{20, 1, true},
		{24, 1, true},
		{25, 0, false},
		{99, 0, false},
		{100, 2, true},
		{199, 2, true},
		{200, 0, false},
	}
	for _, tc := range cases {
		index, _, ok := r.CollectionOf(tc.id)
		assert.Equal(t, tc.ok, ok, "token %d", tc.id)
		if tc.ok {
			assert.Equal(t, tc.index, index, "token %d", tc.id)
		}
	}
}

func TestRegistryCloneIsolation(t *testing.T) {
	r := NewRegistry()
	_, err := r.AddCollection(0, 10)
	require.NoError(t, err)

	staged := r.Clone()
	_, err = staged.AllocateSlot(0)
	require.NoError(t, err)
	_, err = staged.AddCollection(10, 20)
	require.NoError(t, err)

	assert.Equal(t, uint64(0), r.TotalSupply())
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, uint64(1), staged.TotalSupply())
}

func TestLoadRegistry(t *testing.T) {
	r, err := LoadRegistry([]*Collection{{Start: 0, End: 10, Minted: 3}, {Start: 10, End: 20}})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), r.TotalSupply())

	_, err = LoadRegistry([]*Collection{{Start: 0, End: 10}, {Start: 9, End: 20}})
	assert.Error(t, err)
	_, err = LoadRegistry([]*Collection{{Start: 0, End: 10, Minted: 11}})
	assert.Error(t, err)
	_, err = LoadRegistry([]*Collection{{Start: 0, End: 0}, {Start: 0, End: 5}})
	assert.Error(t, err)
}
