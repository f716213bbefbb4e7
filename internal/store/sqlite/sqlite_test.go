package sqlite

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/vovakirdan/chatwire/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestInsertAndAuthenticate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Insert(ctx, "alice", "secret1"); err != nil {
		t.Fatalf("insert: %v", err)
	}

	ok, err := s.Authenticate(ctx, "alice", "secret1")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if !ok {
		t.Fatal("expected correct password to authenticate")
	}

	ok, err = s.Authenticate(ctx, "alice", "wrong")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if ok {
		t.Fatal("expected wrong password to be rejected")
	}

	ok, err = s.Authenticate(ctx, "nobody", "secret1")
	if err != nil {
		t.Fatalf("authenticate missing user: %v", err)
	}
	if ok {
		t.Fatal("expected unknown user to be rejected")
	}
}

func TestExists(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ok, err := s.Exists(ctx, "alice")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if ok {
		t.Fatal("user should not exist yet")
	}

	if err := s.Insert(ctx, "alice", "secret1"); err != nil {
		t.Fatalf("insert: %v", err)
	}

	ok, err = s.Exists(ctx, "alice")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !ok {
		t.Fatal("user should exist after insert")
	}
}

func TestInsertDuplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Insert(ctx, "alice", "secret1"); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if err := s.Insert(ctx, "alice", "other99"); !errors.Is(err, store.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestConcurrentInsertOneSucceeds(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.Insert(ctx, "contested", "secret1")
		}(i)
	}
	wg.Wait()

	created := 0
	for i, err := range errs {
		switch {
		case err == nil:
			created++
		case errors.Is(err, store.ErrUserExists):
		default:
			t.Fatalf("worker %d: unexpected error %v", i, err)
		}
	}
	if created != 1 {
		t.Fatalf("expected exactly one insert to win, got %d", created)
	}
}
