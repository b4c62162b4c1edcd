package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkerPool_RunsAllTasks(t *testing.T) {
	pool := NewWorkerPool(3, 10)

	var ran int32
	for i := 0; i < 10; i++ {
		pool.Submit(func(context.Context) error {
			atomic.AddInt32(&ran, 1)
			return nil
		})
	}
	pool.Close()

	var results int
	for range pool.Run(context.Background()) {
		results++
	}

	if atomic.LoadInt32(&ran) != 10 {
		t.Fatalf("expected 10 tasks run, got %d", ran)
	}
	if results != 10 {
		t.Fatalf("expected 10 results, got %d", results)
	}
}

func TestWorkerPool_ReportsTaskErrors(t *testing.T) {
	pool := NewWorkerPool(2, 4)
	boom := errors.New("boom")

	pool.Submit(func(context.Context) error { return nil })
	pool.Submit(func(context.Context) error { return boom })
	pool.Close()

	var failed int
	for res := range pool.Run(context.Background()) {
		if res.Err != nil {
			failed++
		}
	}
	if failed != 1 {
		t.Fatalf("expected 1 failed result, got %d", failed)
	}
}

func TestWorkerPool_CancelStopsDispatch(t *testing.T) {
	pool := NewWorkerPool(1, 100)

	var ran int32
	for i := 0; i < 100; i++ {
		pool.Submit(func(context.Context) error {
			atomic.AddInt32(&ran, 1)
			time.Sleep(5 * time.Millisecond)
			return nil
		})
	}
	pool.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch := pool.Run(ctx)

	<-ch
	cancel()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				if n := atomic.LoadInt32(&ran); n >= 100 {
					t.Fatalf("cancellation did not stop dispatch, %d tasks ran", n)
				}
				return
			}
		case <-deadline:
			t.Fatalf("pool did not drain after cancel")
		}
	}
}
