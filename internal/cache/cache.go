package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/VictoriaMetrics/metrics"
)

var (
	hitsTotal    = metrics.NewCounter("response_cache_hits_total")
	missesTotal  = metrics.NewCounter("response_cache_misses_total")
	expiredTotal = metrics.NewCounter("response_cache_expired_total")
	writesTotal  = metrics.NewCounter("response_cache_writes_total")
)

// ResponseCache is the narrow interface the data-fetch paths depend on.
type ResponseCache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
}

// Store is a process-lifetime key/value store with per-entry expiry. Expired
// entries are removed lazily when a read observes them; there is no sweep and
// no size bound. Writes to the same key are last-write-wins.
type Store struct {
	entries sync.Map
	now     func() time.Time

	hits    atomic.Uint64
	misses  atomic.Uint64
	expired atomic.Uint64
	writes  atomic.Uint64
}

var _ ResponseCache = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore returns an empty Store.
func NewStore(opts ...Option) *Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the value stored for key. An entry whose expiry is at or
// before the current time is deleted and reported as absent.
func (s *Store) Get(key string) (any, bool) {
	v, ok := s.entries.Load(key)
	if !ok {
		s.misses.Add(1)
		missesTotal.Inc()
		return nil, false
	}

	entry := v.(*Entry)
	if !s.now().Before(entry.ExpiresAt) {
		// Only drop the entry we looked at; a concurrent Set may have replaced it.
		s.entries.CompareAndDelete(key, v)
		s.expired.Add(1)
		s.misses.Add(1)
		expiredTotal.Inc()
		missesTotal.Inc()
		return nil, false
	}

	s.hits.Add(1)
	hitsTotal.Inc()
	return entry.Value, true
}

// Set stores value under key until now+ttl, replacing any previous entry.
func (s *Store) Set(key string, value any, ttl time.Duration) {
	s.entries.Store(key, &Entry{
		Value:     value,
		ExpiresAt: s.now().Add(ttl),
	})
	s.writes.Add(1)
	writesTotal.Inc()
}

// SetSeconds is Set with a TTL expressed in whole seconds.
func (s *Store) SetSeconds(key string, value any, ttlSeconds int) {
	s.Set(key, value, time.Duration(ttlSeconds)*time.Second)
}

// Delete removes key.
func (s *Store) Delete(key string) {
	s.entries.Delete(key)
}

// Len counts stored entries, including expired ones not yet read.
func (s *Store) Len() int {
	n := 0
	s.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Stats returns counters for this store.
func (s *Store) Stats() Stats {
	return Stats{
		EntryCount: s.Len(),
		Hits:       s.hits.Load(),
		Misses:     s.misses.Load(),
		Expired:    s.expired.Load(),
		Writes:     s.writes.Load(),
	}
}

// GetAs returns the value for key when it is present and of type T.
func GetAs[T any](c ResponseCache, key string) (T, bool) {
	var zero T
	v, ok := c.Get(key)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}
