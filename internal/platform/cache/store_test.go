package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_SharesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewStore[[]string](time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) ([]string, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return []string{"idn-persija", "idn-persib"}, nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for range workers {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "teams:idn", loader)
			if err != nil {
				errCh <- err
				return
			}
			if len(v) != 2 {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_ExpiresEntries(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	store := NewStore[int](time.Minute)
	store.now = func() time.Time { return now }

	store.Set(context.Background(), "session:user-1", 7)
	if v, ok := store.Get(context.Background(), "session:user-1"); !ok || v != 7 {
		t.Fatalf("expected cached value 7, got %d ok=%v", v, ok)
	}

	now = now.Add(2 * time.Minute)
	if _, ok := store.Get(context.Background(), "session:user-1"); ok {
		t.Fatalf("expected entry to expire")
	}

	store.Set(context.Background(), "a", 1)
	store.Set(context.Background(), "b", 2)
	now = now.Add(2 * time.Minute)
	if removed := store.Sweep(); removed != 2 {
		t.Fatalf("expected sweep to remove 2 entries, got %d", removed)
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore[string](0)
	ctx := context.Background()
	store.Set(ctx, "players:league-a:all", "x")
	store.Set(ctx, "players:league-a:team-1", "y")
	store.Set(ctx, "players:league-b:all", "z")

	store.DeletePrefix(ctx, "players:league-a:")

	if _, ok := store.Get(ctx, "players:league-a:all"); ok {
		t.Fatalf("expected league-a entries removed")
	}
	if _, ok := store.Get(ctx, "players:league-b:all"); !ok {
		t.Fatalf("expected league-b entry kept")
	}
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	var calls atomic.Int32
	loader := func(context.Context) (string, error) {
		if calls.Add(1) == 1 {
			return "", errUnexpectedValue
		}
		return "ok", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); !errors.Is(err, errUnexpectedValue) {
		t.Fatalf("expected loader error, got %v", err)
	}
	v, err := store.GetOrLoad(context.Background(), "k", loader)
	if err != nil || v != "ok" {
		t.Fatalf("expected reload to succeed, got %q err=%v", v, err)
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
