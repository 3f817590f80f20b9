package overview

import (
	"context"
	"testing"
)

func TestQueueSequential(t *testing.T) {
	q := NewQueue(1, 0)
	q.Push("A", "B", "C")

	if got := q.Next(); len(got) != 1 || got[0] != "A" {
		t.Fatalf("Next() = %v, want [A]", got)
	}
	if got := q.Next(); len(got) != 0 {
		t.Errorf("Next() with a running key = %v, want none", got)
	}
	if !q.Done("A") {
		t.Error("Done(A) = false, want true")
	}
	if q.Done("A") {
		t.Error("second Done(A) = true, want false")
	}
	if got := q.Next(); len(got) != 1 || got[0] != "B" {
		t.Errorf("Next() = %v, want [B]", got)
	}
	if q.Pending() != 1 || q.Running() != 1 {
		t.Errorf("pending=%d running=%d, want 1 1", q.Pending(), q.Running())
	}
}

func TestQueueConcurrencyFloor(t *testing.T) {
	q := NewQueue(0, 0)
	if q.Concurrency() != 1 {
		t.Errorf("Concurrency() = %d, want 1", q.Concurrency())
	}
}

func TestQueueReset(t *testing.T) {
	q := NewQueue(2, 0)
	q.Push("A", "B", "C")
	q.Next()
	q.Reset()
	if !q.Idle() {
		t.Errorf("Idle() = false after Reset, pending=%d running=%d", q.Pending(), q.Running())
	}
}

func TestQueueSkipsRunningDuplicate(t *testing.T) {
	q := NewQueue(2, 0)
	q.Push("A", "A", "B")
	got := q.Next()
	if len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Errorf("Next() = %v, want [A B]", got)
	}
}

func TestQueueWaitUnpaced(t *testing.T) {
	q := NewQueue(1, 0)
	for i := 0; i < 100; i++ {
		if err := q.Wait(context.Background()); err != nil {
			t.Fatalf("Wait() error: %v", err)
		}
	}
}
