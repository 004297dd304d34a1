package query

import (
	"context"
	"errors"
	"testing"
)

func TestMutateInvalidatesOnSuccess(t *testing.T) {
	s := NewStore()
	listKey := NewKey("tasks")
	s.entries[listKey] = &entry{data: "list", state: StateReady}

	v, err := Mutate(context.Background(), s, func(ctx context.Context) (int, error) {
		return 7, nil
	}, "tasks")
	if err != nil || v != 7 {
		t.Fatalf("Mutate = (%d, %v)", v, err)
	}
	if !s.Stale(listKey) {
		t.Error("tasks family should be stale after successful mutation")
	}
}

func TestMutateSkipsInvalidationOnFailure(t *testing.T) {
	s := NewStore()
	listKey := NewKey("tasks")
	s.entries[listKey] = &entry{data: "list", state: StateReady}

	boom := errors.New("boom")
	_, err := Mutate(context.Background(), s, func(ctx context.Context) (int, error) {
		return 0, boom
	}, "tasks")
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if s.Stale(listKey) {
		t.Error("failed mutation must not invalidate")
	}
}

func TestMutateKeyInvalidatesItemAndFamily(t *testing.T) {
	s := NewStore()
	listKey := NewKey("users")
	itemKey := NewKey("user", int64(3))
	s.entries[listKey] = &entry{data: "list", state: StateReady}
	s.entries[itemKey] = &entry{data: "item", state: StateReady}

	_, err := MutateKey(context.Background(), s, func(ctx context.Context) (string, error) {
		return "updated", nil
	}, itemKey, "users")
	if err != nil {
		t.Fatalf("MutateKey: %v", err)
	}
	if !s.Stale(itemKey) {
		t.Error("item key should be stale")
	}
	if !s.Stale(listKey) {
		t.Error("list family should be stale")
	}
}

func TestMutationRunTracksState(t *testing.T) {
	s := NewStore()
	var m Mutation

	if m.State != MutationIdle {
		t.Fatalf("initial state = %v, want idle", m.State)
	}

	if err := m.Run(context.Background(), s, func(ctx context.Context) error {
		if m.State != MutationPending {
			t.Errorf("state during run = %v, want pending", m.State)
		}
		return nil
	}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if m.State != MutationSucceeded {
		t.Errorf("state = %v, want succeeded", m.State)
	}

	boom := errors.New("boom")
	m.Run(context.Background(), s, func(ctx context.Context) error { return boom })
	if m.State != MutationFailed || !errors.Is(m.Err, boom) {
		t.Errorf("state = %v err = %v, want failed/boom", m.State, m.Err)
	}
}

func TestMutationInvalidationSequencedAfterSuccess(t *testing.T) {
	s := NewStore()
	listKey := NewKey("notes")
	s.entries[listKey] = &entry{data: "list", state: StateReady}

	var m Mutation
	m.Run(context.Background(), s, func(ctx context.Context) error {
		if s.Stale(listKey) {
			t.Error("invalidation ran before the mutation settled")
		}
		return nil
	}, "notes")

	if !s.Stale(listKey) {
		t.Error("invalidation missing after success")
	}
}
