// Package schedule provides cancelable repeating tasks.
package schedule

import (
	"context"
	"time"
)

// Task is a running periodic job. The zero value is not usable; see Every.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Every calls fn once per interval on its own goroutine until fn returns
// false, ctx is done, or Cancel is called. The first call happens one
// interval after Every returns.
func Every(ctx context.Context, interval time.Duration, fn func() bool) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(t.done)
		defer cancel()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				// Cancel may race with the tick; a cancelled task must not fire again.
				if ctx.Err() != nil {
					return
				}
				if !fn() {
					return
				}
			}
		}
	}()

	return t
}

// Cancel stops the task. It does not wait for an in-progress call to fn;
// use Wait for that. Safe to call more than once and on a nil Task.
func (t *Task) Cancel() {
	if t == nil {
		return
	}
	t.cancel()
}

// Done is closed once the task goroutine has exited.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task goroutine has exited.
// It must not be called from inside fn.
func (t *Task) Wait() {
	if t == nil {
		return
	}
	<-t.done
}
