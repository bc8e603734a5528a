package generator

import (
	"context"
	"testing"
	"time"
)

func TestNextRange(t *testing.T) {
	const RUNS = 1000
	gen := New(time.Second)
	distinct := make(map[int64]struct{})
	for i := 0; i < RUNS; i++ {
		v := gen.Next()
		if v < 0 || v >= MaxPayload {
			t.Fatalf("payload %d outside [0, %d)", v, MaxPayload)
		}
		distinct[v] = struct{}{}
	}
	if len(distinct) < RUNS/2 {
		t.Fatalf("expected mostly distinct payloads, got %d distinct out of %d", len(distinct), RUNS)
	}
}

func TestRunEmitsAndCloses(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan int64, 1)
	done := make(chan struct{})
	go func() {
		New(5 * time.Millisecond).Run(ctx, out)
		close(done)
	}()

	for i := 0; i < 3; i++ {
		select {
		case <-out:
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for event %d", i)
		}
	}
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("generator did not stop after cancel")
	}
	for range out {
	}
}

func TestRunStopsWhileBlocked(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	// unbuffered and never read: the generator blocks on its first send
	out := make(chan int64)
	done := make(chan struct{})
	go func() {
		New(time.Millisecond).Run(ctx, out)
		close(done)
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("generator did not stop while blocked on send")
	}
	if _, ok := <-out; ok {
		t.Fatal("expected out to be closed")
	}
}
