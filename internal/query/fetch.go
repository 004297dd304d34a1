package query

import (
	"context"
	"errors"
)

// ErrDisabled is returned by FetchIf when the query's required parameter is
// missing. No request is issued.
var ErrDisabled = errors.New("query disabled: required parameter missing")

// Fetch returns the cached value for key, or runs fn to produce it. Concurrent
// fetches for an identical key are coalesced into one call. A stale entry is
// refetched, but its previous data stays readable through Store.Lookup until
// the refetch settles.
func Fetch[T any](ctx context.Context, s *Store, key Key, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	s.mu.Lock()
	if e, ok := s.entries[key]; ok && !e.stale && e.state == StateReady {
		data := e.data
		s.mu.Unlock()
		v, ok := data.(T)
		if !ok {
			return zero, errors.New("query: cached value has wrong type")
		}
		return v, nil
	}

	// Join an in-flight call for the same key.
	if c, ok := s.inflight[key]; ok {
		s.mu.Unlock()
		c.wg.Wait()
		if c.err != nil {
			return zero, c.err
		}
		return c.data.(T), nil
	}

	c := &call{}
	c.wg.Add(1)
	s.inflight[key] = c

	e, ok := s.entries[key]
	if !ok {
		e = &entry{}
		s.entries[key] = e
	}
	// Keep previous data while refetching.
	e.state = StateFetching
	s.mu.Unlock()
	s.notify(key)

	v, err := fn(ctx)

	s.mu.Lock()
	if err != nil {
		e.state = StateFailed
		e.err = err
		e.stale = true
	} else {
		e.state = StateReady
		e.err = nil
		e.stale = false
		e.data = v
	}
	c.data, c.err = v, err
	delete(s.inflight, key)
	s.mu.Unlock()

	c.wg.Done()
	s.notify(key)

	if err != nil {
		return zero, err
	}
	return v, nil
}

// FetchIf is Fetch gated on a required parameter being present, so screens
// never issue malformed requests during initial render.
func FetchIf[T any](ctx context.Context, s *Store, enabled bool, key Key, fn func(context.Context) (T, error)) (T, error) {
	if !enabled {
		var zero T
		return zero, ErrDisabled
	}
	return Fetch(ctx, s, key, fn)
}
