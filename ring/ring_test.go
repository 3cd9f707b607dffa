package ring

import (
	"sync"
	"testing"
	"time"

	"github.com/momentics/gshmem/completion"
	"github.com/momentics/gshmem/record"
)

func TestSendReceiveAdvance(t *testing.T) {
	comps := completion.NewArray(4)
	r := New(4, comps)

	var req record.Request
	req.Op = record.OpPut
	req.Type = record.TypeUint64
	req.Value.SetUint64(99)

	seq := r.Send(req)
	got, comp, idx, ok := r.Receive()
	if !ok {
		t.Fatalf("receive failed")
	}
	if got.Value.AsUint64() != 99 {
		t.Fatalf("payload mismatch")
	}
	if got.Sequence != seq {
		t.Fatalf("sequence mismatch: got %d want %d", got.Sequence, seq)
	}
	if comp != comps.Builtin(idx) {
		t.Fatalf("completion pointer mismatch")
	}
	record.PublishCompletion(comp, uint32(seq))
	r.Advance()

	if r.NextReceive() != 1 {
		t.Fatalf("next_receive = %d, want 1", r.NextReceive())
	}
}

func TestSendWaitsForPriorGenerationAck(t *testing.T) {
	comps := completion.NewArray(2)
	r := New(2, comps)

	var req record.Request
	for i := 0; i < 2; i++ {
		r.Send(req)
	}

	done := make(chan uint16, 1)
	go func() {
		done <- r.Send(req)
	}()

	// Drain and ack slot 0's first generation so the third Send can proceed.
	_, comp, idx, ok := r.Receive()
	if !ok {
		t.Fatalf("receive failed")
	}
	record.PublishCompletion(comp, uint32(0))
	r.Advance()
	_ = idx

	select {
	case seq := <-done:
		if seq != 2 {
			t.Fatalf("sequence = %d, want 2", seq)
		}
	case <-time.After(time.Second):
		t.Fatalf("send did not unblock after prior generation was acked")
	}
}

func TestConcurrentProducersNoLostTickets(t *testing.T) {
	comps := completion.NewArray(64)
	r := New(64, comps)

	const producers = 8
	const perProducer = 8
	seen := make(chan uint16, producers*perProducer)

	var wg sync.WaitGroup
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		go func() {
			defer wg.Done()
			var req record.Request
			for i := 0; i < perProducer; i++ {
				seq := r.Send(req)
				seen <- seq
				// Immediately drain+ack so the ring never saturates in this test.
				for {
					_, comp, _, ok := r.Receive()
					if ok {
						record.PublishCompletion(comp, uint32(0))
						r.Advance()
						break
					}
				}
			}
		}()
	}
	wg.Wait()
	close(seen)

	count := 0
	for range seen {
		count++
	}
	if count != producers*perProducer {
		t.Fatalf("count = %d, want %d", count, producers*perProducer)
	}
}

func TestTryLockConsumerExclusion(t *testing.T) {
	comps := completion.NewArray(4)
	r := New(4, comps)
	if !r.TryLockConsumer() {
		t.Fatalf("first lock should succeed")
	}
	if r.TryLockConsumer() {
		t.Fatalf("second lock should fail while held")
	}
	r.UnlockConsumer()
	if !r.TryLockConsumer() {
		t.Fatalf("lock should succeed after unlock")
	}
}
