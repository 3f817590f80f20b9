package overview

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Queue hands out keys to at most Concurrency workers at a time, in push
// order. With a concurrency of one, key N is not handed out until key N-1
// has been marked done. Interval optionally spaces out job starts.
//
// Push, Next, Done and Reset belong to the update loop; Wait may be called
// from a running job.
type Queue struct {
	concurrency int
	limiter     *rate.Limiter

	pending []string
	running map[string]bool
}

// NewQueue creates a queue. Concurrency below one is treated as one; a zero
// interval disables pacing.
func NewQueue(concurrency int, interval time.Duration) *Queue {
	if concurrency < 1 {
		concurrency = 1
	}
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Queue{
		concurrency: concurrency,
		limiter:     rate.NewLimiter(limit, 1),
		running:     make(map[string]bool),
	}
}

// Concurrency returns the maximum number of keys handed out at once.
func (q *Queue) Concurrency() int { return q.concurrency }

// Push appends keys to the back of the queue.
func (q *Queue) Push(keys ...string) {
	q.pending = append(q.pending, keys...)
}

// Next pops as many keys as there are free slots and marks them running.
func (q *Queue) Next() []string {
	var out []string
	for len(q.pending) > 0 && len(q.running) < q.concurrency {
		key := q.pending[0]
		q.pending = q.pending[1:]
		if q.running[key] {
			continue
		}
		q.running[key] = true
		out = append(out, key)
	}
	return out
}

// Done frees the slot held by key. It reports false if key was not running.
func (q *Queue) Done(key string) bool {
	if !q.running[key] {
		return false
	}
	delete(q.running, key)
	return true
}

// Reset drops all pending and running keys.
func (q *Queue) Reset() {
	q.pending = nil
	q.running = make(map[string]bool)
}

// Wait blocks until the pacing interval allows another job to start.
func (q *Queue) Wait(ctx context.Context) error {
	return q.limiter.Wait(ctx)
}

// Pending returns the number of keys not yet handed out.
func (q *Queue) Pending() int { return len(q.pending) }

// Running returns the number of keys handed out and not yet done.
func (q *Queue) Running() int { return len(q.running) }

// Idle reports whether nothing is pending or running.
func (q *Queue) Idle() bool { return len(q.pending) == 0 && len(q.running) == 0 }
