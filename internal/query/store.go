// Package query is a cache of server truth keyed by (resource, params). It
// gives screens request coalescing, stale-while-revalidate reads and
// mutation-driven invalidation without each screen re-implementing fetch
// lifecycles. A Store is always injected; there is no package-level instance.
package query

import (
	"fmt"
	"strings"
	"sync"
)

// State is the lifecycle of one cached query.
type State int

const (
	StateIdle State = iota
	StateFetching
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Key identifies one cached query. Params must be built deterministically from
// the request parameters so equal requests share an entry.
type Key struct {
	Resource string
	Params   string
}

// NewKey builds a key from a resource name and the parameters that vary the
// request. Callers pass parameters in a fixed order.
func NewKey(resource string, params ...any) Key {
	if len(params) == 0 {
		return Key{Resource: resource}
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprint(p)
	}
	return Key{Resource: resource, Params: strings.Join(parts, "|")}
}

type entry struct {
	data  any
	state State
	err   error
	stale bool
}

type call struct {
	wg   sync.WaitGroup
	data any
	err  error
}

// Store holds cached entries and in-flight calls. Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	entries  map[Key]*entry
	inflight map[Key]*call
	subs     map[int]func(Key)
	nextSub  int
}

func NewStore() *Store {
	return &Store{
		entries:  make(map[Key]*entry),
		inflight: make(map[Key]*call),
		subs:     make(map[int]func(Key)),
	}
}

// Subscribe registers an observer called whenever an entry changes state or is
// invalidated. The returned function unsubscribes.
func (s *Store) Subscribe(fn func(Key)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify(key Key) {
	s.mu.RLock()
	fns := make([]func(Key), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()
	for _, fn := range fns {
		fn(key)
	}
}

// Lookup reports the cached data and state for a key. Stale entries still
// return their previous data so views can render it while a refetch runs.
func (s *Store) Lookup(key Key) (any, State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, StateIdle, nil
	}
	return e.data, e.state, e.err
}

// Invalidate marks every entry of a resource family stale. Data is retained
// for stale-while-revalidate; the next Fetch refetches.
func (s *Store) Invalidate(resource string) {
	s.mu.Lock()
	var touched []Key
	for key, e := range s.entries {
		if key.Resource == resource {
			e.stale = true
			touched = append(touched, key)
		}
	}
	s.mu.Unlock()
	for _, key := range touched {
		s.notify(key)
	}
}

// InvalidateKey marks one entry stale, for specific-item keys.
func (s *Store) InvalidateKey(key Key) {
	s.mu.Lock()
	e, ok := s.entries[key]
	if ok {
		e.stale = true
	}
	s.mu.Unlock()
	if ok {
		s.notify(key)
	}
}

// Stale reports whether a key has no fresh entry.
func (s *Store) Stale(key Key) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	return !ok || e.stale || e.state == StateFailed
}

// Clear drops every entry. Used when the logical session ends; the cache never
// outlives the process.
func (s *Store) Clear() {
	s.mu.Lock()
	s.entries = make(map[Key]*entry)
	s.mu.Unlock()
}
