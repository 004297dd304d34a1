package query

import (
	"context"
	"fmt"
)

// MutationState is the lifecycle of one write operation. Mutations are never
// retried automatically.
type MutationState int

const (
	MutationIdle MutationState = iota
	MutationPending
	MutationSucceeded
	MutationFailed
)

func (s MutationState) String() string {
	switch s {
	case MutationIdle:
		return "idle"
	case MutationPending:
		return "pending"
	case MutationSucceeded:
		return "succeeded"
	case MutationFailed:
		return "failed"
	}
	return fmt.Sprintf("mutation(%d)", int(s))
}

// Mutation tracks the state of the most recent run so screens can render
// pending/error affordances.
type Mutation struct {
	State MutationState
	Err   error
}

// Run executes fn and, only on success, marks the listed resource families
// stale. Invalidation is sequenced strictly after the success response.
func (m *Mutation) Run(ctx context.Context, s *Store, fn func(context.Context) error, invalidates ...string) error {
	m.State = MutationPending
	m.Err = nil

	if err := fn(ctx); err != nil {
		m.State = MutationFailed
		m.Err = err
		return err
	}

	m.State = MutationSucceeded
	for _, resource := range invalidates {
		s.Invalidate(resource)
	}
	return nil
}

// Mutate is the one-shot form of Mutation.Run for callers that do not track
// mutation state across renders.
func Mutate[T any](ctx context.Context, s *Store, fn func(context.Context) (T, error), invalidates ...string) (T, error) {
	v, err := fn(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	for _, resource := range invalidates {
		s.Invalidate(resource)
	}
	return v, nil
}

// MutateKey additionally invalidates a specific-item key, for updates where
// both the list view and the item view are cached.
func MutateKey[T any](ctx context.Context, s *Store, fn func(context.Context) (T, error), itemKey Key, invalidates ...string) (T, error) {
	v, err := fn(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	s.InvalidateKey(itemKey)
	for _, resource := range invalidates {
		s.Invalidate(resource)
	}
	return v, nil
}
