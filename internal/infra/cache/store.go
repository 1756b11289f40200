// Package cache provides the in-process LRU that holds live game sessions.
// It is not the source of truth: evicted sessions survive as run summaries in
// storage.
package cache

import (
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// EvictFunc is called when an entry leaves the store, whether by capacity
// pressure or by Remove.
type EvictFunc[V any] func(key string, value V)

// Store is a fixed-size, concurrency-safe LRU keyed by session id.
type Store[V any] struct {
	lru    *lru.Cache[string, V]
	hits   atomic.Int64
	misses atomic.Int64
}

// Stats reports cache effectiveness.
type Stats struct {
	Size   int   `json:"size"`
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// NewStore creates a store holding at most size entries. onEvict may be nil.
func NewStore[V any](size int, onEvict EvictFunc[V]) (*Store[V], error) {
	var cb func(string, V)
	if onEvict != nil {
		cb = func(k string, v V) { onEvict(k, v) }
	}
	c, err := lru.NewWithEvict[string, V](size, cb)
	if err != nil {
		return nil, fmt.Errorf("failed to create session cache: %w", err)
	}
	return &Store[V]{lru: c}, nil
}

// Get returns the entry for key and marks it recently used.
func (s *Store[V]) Get(key string) (V, bool) {
	v, ok := s.lru.Get(key)
	if ok {
		s.hits.Add(1)
	} else {
		s.misses.Add(1)
	}
	return v, ok
}

// Peek returns the entry without touching recency or counters.
func (s *Store[V]) Peek(key string) (V, bool) {
	return s.lru.Peek(key)
}

// Put stores value under key. evicted reports whether an older entry had to
// make room.
func (s *Store[V]) Put(key string, value V) (evicted bool) {
	return s.lru.Add(key, value)
}

// Remove drops key, firing the eviction callback if it was present.
func (s *Store[V]) Remove(key string) bool {
	return s.lru.Remove(key)
}

// Keys lists the keys from oldest to newest.
func (s *Store[V]) Keys() []string {
	return s.lru.Keys()
}

// Len is the number of entries.
func (s *Store[V]) Len() int {
	return s.lru.Len()
}

// Stats returns the current size and hit counters.
func (s *Store[V]) Stats() Stats {
	return Stats{Size: s.lru.Len(), Hits: s.hits.Load(), Misses: s.misses.Load()}
}
