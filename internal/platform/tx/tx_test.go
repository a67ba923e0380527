package tx_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"typetrack/internal/platform/tx"
)

func TestSerialManagerRunsOneAtATime(t *testing.T) {
	t.Parallel()
	m := tx.NewSerialManager()
	var inside, peak int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := m.Within(context.Background(), func(context.Context) error {
				n := atomic.AddInt32(&inside, 1)
				for {
					p := atomic.LoadInt32(&peak)
					if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&inside, -1)
				return nil
			})
			if err != nil {
				t.Errorf("within: %v", err)
			}
		}()
	}
	wg.Wait()
	if peak != 1 {
		t.Fatalf("expected at most one concurrent fn, saw %d", peak)
	}
}

func TestSerialManagerHonorsCancelledWaiter(t *testing.T) {
	t.Parallel()
	m := tx.NewSerialManager()
	release := make(chan struct{})
	entered := make(chan struct{})
	go func() {
		_ = m.Within(context.Background(), func(context.Context) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := m.Within(ctx, func(context.Context) error {
		t.Fatalf("fn must not run while slot is held")
		return nil
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	close(release)
}

func TestSerialManagerPropagatesError(t *testing.T) {
	t.Parallel()
	want := errors.New("boom")
	if err := tx.NewSerialManager().Within(context.Background(), func(context.Context) error { return want }); !errors.Is(err, want) {
		t.Fatalf("expected fn error, got %v", err)
	}
}
