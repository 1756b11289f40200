package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreEvictsLeastRecentlyUsed(t *testing.T) {
	var evicted []string
	s, err := NewStore[int](2, func(key string, _ int) { evicted = append(evicted, key) })
	require.NoError(t, err)

	s.Put("a", 1)
	s.Put("b", 2)
	_, ok := s.Get("a")
	require.True(t, ok)

	assert.True(t, s.Put("c", 3))
	assert.Equal(t, []string{"b"}, evicted)
	assert.Equal(t, []string{"a", "c"}, s.Keys())
}

func TestStoreRemoveFiresCallback(t *testing.T) {
	var evicted []string
	s, err := NewStore[int](4, func(key string, _ int) { evicted = append(evicted, key) })
	require.NoError(t, err)

	s.Put("a", 1)
	assert.True(t, s.Remove("a"))
	assert.False(t, s.Remove("a"))
	assert.Equal(t, []string{"a"}, evicted)
	assert.Zero(t, s.Len())
}

func TestStoreStats(t *testing.T) {
	s, err := NewStore[string](4, nil)
	require.NoError(t, err)

	s.Put("a", "x")
	s.Get("a")
	s.Get("missing")
	v, ok := s.Peek("a")
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	assert.Equal(t, Stats{Size: 1, Hits: 1, Misses: 1}, s.Stats())
}

func TestNewStoreRejectsBadSize(t *testing.T) {
	_, err := NewStore[int](0, nil)
	assert.Error(t, err)
}
