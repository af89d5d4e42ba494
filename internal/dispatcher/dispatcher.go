// Package dispatcher schedules grading pipeline invocations off the
// request-handling path.
package dispatcher

import (
	"context"
	"log/slog"
	"sync"
)

// Task identifies one pipeline invocation.
type Task struct {
	Plan     string
	RecordID string
}

// ProcessFunc runs one pipeline invocation. It must not return before the
// record has reached a terminal state or the failure has been logged.
type ProcessFunc func(ctx context.Context, plan, recordID string)

// Dispatcher is a fire-and-forget task queue consumed by a fixed worker
// pool. There is no ordering guarantee across producers, no deduplication
// and no retry: enqueuing the same record twice schedules two invocations.
type Dispatcher struct {
	tasks   chan Task
	workers int
	log     *slog.Logger
	done    chan struct{}
}

// New creates a dispatcher with the given worker count and queue capacity.
func New(workers, queueSize int, log *slog.Logger) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Dispatcher{
		tasks:   make(chan Task, queueSize),
		workers: workers,
		log:     log,
		done:    make(chan struct{}),
	}
}

// Enqueue schedules a pipeline invocation. It never blocks the caller: when
// the queue is full the task is dropped with a warning, honoring the
// run-once best-effort contract.
func (d *Dispatcher) Enqueue(plan, recordID string) {
	select {
	case d.tasks <- Task{Plan: plan, RecordID: recordID}:
	default:
		d.log.Warn("dispatcher queue full, dropping task",
			"plan", plan, "record_id", recordID)
	}
}

// Run starts the worker pool and blocks until the context is cancelled.
// In-flight invocations run to completion before Run returns; queued but
// unstarted tasks are abandoned.
func (d *Dispatcher) Run(ctx context.Context, fn ProcessFunc) {
	var wg sync.WaitGroup
	for i := 0; i < d.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case t := <-d.tasks:
					// An invocation is detached from the server lifecycle:
					// once started it cannot be cancelled.
					fn(context.WithoutCancel(ctx), t.Plan, t.RecordID)
				}
			}
		}()
	}

	<-ctx.Done()
	wg.Wait()
	close(d.done)
}

// Done returns a channel that is closed once all workers have stopped.
func (d *Dispatcher) Done() <-chan struct{} {
	return d.done
}

// Depth reports the number of queued, unstarted tasks.
func (d *Dispatcher) Depth() int {
	return len(d.tasks)
}
