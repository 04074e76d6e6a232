package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_LoadsOnceUnderContention(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(10 * time.Millisecond)
		return "standings", nil
	}

	const workers = 24
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "leaderboard:2021", loader)
			if err != nil {
				t.Errorf("GetOrLoad error: %v", err)
				return
			}
			if got, _ := v.(string); got != "standings" {
				t.Errorf("GetOrLoad = %v, want standings", v)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_Flush_DropsEntries(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()

	store.Set(ctx, "k", 1)
	if _, ok := store.Get(ctx, "k"); !ok {
		t.Fatal("entry missing before flush")
	}

	store.Flush(ctx)
	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatal("entry survived flush")
	}
}

func TestStore_Get_ExpiresEntries(t *testing.T) {
	t.Parallel()

	store := NewStore(5 * time.Millisecond)
	ctx := context.Background()

	store.Set(ctx, "k", 1)
	time.Sleep(15 * time.Millisecond)

	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatal("expired entry still readable")
	}
}
