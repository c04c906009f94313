package push

import (
	"sync"
	"testing"
)

func TestPendingEmptyTake(t *testing.T) {
	pending := NewPending()
	if _, ok := pending.TakeIfPresent(); ok {
		t.Error("take on empty buffer should return nothing")
	}
}

func TestPendingNewestWins(t *testing.T) {
	pending := NewPending()

	pending.Set(Payload{MessageID: "A"})
	pending.Set(Payload{MessageID: "B"})

	payload, ok := pending.TakeIfPresent()
	if !ok {
		t.Fatal("expected a pending payload")
	}
	if payload.MessageID != "B" {
		t.Errorf("took %q, want newest payload B", payload.MessageID)
	}

	if _, ok := pending.TakeIfPresent(); ok {
		t.Error("second take should return nothing")
	}
}

func TestPendingSetAfterTake(t *testing.T) {
	pending := NewPending()

	pending.Set(Payload{MessageID: "A"})
	pending.TakeIfPresent()

	pending.Set(Payload{MessageID: "B"})
	payload, ok := pending.TakeIfPresent()
	if !ok || payload.MessageID != "B" {
		t.Errorf("got (%+v, %v), want payload B present", payload, ok)
	}
}

func TestPendingConcurrentSetTake(t *testing.T) {
	pending := NewPending()

	var wg sync.WaitGroup
	taken := make(chan Payload, 100)

	// Writers simulate cold-start extraction racing the surface's drain.
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				pending.Set(Payload{MessageID: "m"})
			}
		}()
	}
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if p, ok := pending.TakeIfPresent(); ok {
					select {
					case taken <- p:
					default:
					}
				}
			}
		}()
	}

	wg.Wait()
	close(taken)

	for p := range taken {
		if p.MessageID != "m" {
			t.Fatalf("took partially written payload: %+v", p)
		}
	}
}
