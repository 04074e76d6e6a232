package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_CollapsesConcurrentCalls(t *testing.T) {
	t.Parallel()

	var g SingleFlight
	var calls atomic.Int32

	const workers = 16
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err, _ := g.Do("key", func() (any, error) {
				calls.Add(1)
				time.Sleep(10 * time.Millisecond)
				return 42, nil
			})
			if err != nil {
				t.Errorf("Do returned error: %v", err)
				return
			}
			if got, _ := v.(int); got != 42 {
				t.Errorf("Do returned %v, want 42", v)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("fn executed %d times, want 1", got)
	}
}

func TestSingleFlight_DistinctKeysRunIndependently(t *testing.T) {
	t.Parallel()

	var g SingleFlight
	var calls atomic.Int32

	fn := func() (any, error) {
		calls.Add(1)
		return nil, nil
	}

	if _, err, _ := g.Do("a", fn); err != nil {
		t.Fatalf("Do(a): %v", err)
	}
	if _, err, _ := g.Do("b", fn); err != nil {
		t.Fatalf("Do(b): %v", err)
	}

	if got := calls.Load(); got != 2 {
		t.Fatalf("fn executed %d times, want 2", got)
	}
}
