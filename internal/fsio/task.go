package fsio

import (
	"context"
	"time"
)

// Result is what a finished Task produced.
type Result struct {
	Listing Listing
	Err     error
	Elapsed time.Duration
}

// Task is a directory read running on its own goroutine. The owner polls it
// once per frame; Poll never blocks.
type Task struct {
	path   string
	cancel context.CancelFunc
	done   chan struct{}
	result Result
}

// StartRead begins reading path in the background.
func StartRead(ctx context.Context, path string) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{
		path:   path,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(t.done)
		defer cancel()

		start := time.Now()
		listing, err := ReadDir(ctx, path)
		t.result = Result{Listing: listing, Err: err, Elapsed: time.Since(start)}
	}()

	return t
}

// Path is the directory being read.
func (t *Task) Path() string { return t.path }

// Poll returns the result and true once the read has finished.
func (t *Task) Poll() (Result, bool) {
	select {
	case <-t.done:
		return t.result, true
	default:
		return Result{}, false
	}
}

// Wait blocks until the read finishes or ctx is done.
func (t *Task) Wait(ctx context.Context) (Result, error) {
	select {
	case <-t.done:
		return t.result, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Cancel abandons the read. A cancelled task still finishes; its result
// carries the context error.
func (t *Task) Cancel() { t.cancel() }
