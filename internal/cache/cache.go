// Package cache provides the TTL caches that sit in front of upstream API
// calls. A byte-oriented Store is what components take at construction time;
// the in-memory and Redis implementations are interchangeable.
package cache

import (
	"context"
	"sync"
	"time"
)

// Store is a key→value cache with per-entry expiry. A read past expiry
// behaves as absent. Concurrent misses on the same key are not coalesced;
// callers must tolerate duplicate upstream fetches (last write wins).
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLMap is a generic in-process TTL cache. Safe for concurrent use.
type TTLMap[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	puts    int

	now func() time.Time // overridable in tests
}

func NewTTLMap[V any]() *TTLMap[V] {
	return &TTLMap[V]{entries: make(map[string]entry[V]), now: time.Now}
}

// Get returns the live value for key, or absent when missing or expired.
func (m *TTLMap[V]) Get(key string) (V, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	// expiry is inclusive: a read at exactly ttl is already absent
	if !ok || !m.now().Before(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Put overwrites key unconditionally and resets its expiry.
func (m *TTLMap[V]) Put(key string, value V, ttl time.Duration) {
	m.mu.Lock()
	m.entries[key] = entry[V]{value: value, expiresAt: m.now().Add(ttl)}
	m.puts++
	if m.puts%256 == 0 {
		m.sweepLocked()
	}
	m.mu.Unlock()
}

// sweepLocked drops expired entries. Eviction timing is not observable to
// callers; this only bounds memory.
func (m *TTLMap[V]) sweepLocked() {
	cutoff := m.now()
	for k, e := range m.entries {
		if !cutoff.Before(e.expiresAt) {
			delete(m.entries, k)
		}
	}
}

// Len reports live and expired entries still held.
func (m *TTLMap[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Memory is the default in-process Store.
type Memory struct {
	m *TTLMap[[]byte]
}

func NewMemory() *Memory { return &Memory{m: NewTTLMap[[]byte]()} }

func (s *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.m.Get(key)
	return v, ok, nil
}

func (s *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.m.Put(key, value, ttl)
	return nil
}
