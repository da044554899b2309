// ABOUTME: Scheduler runs fire-and-forget deferred actions on their own goroutines
// ABOUTME: Pending actions can be cancelled individually or all at once
package roadblock

import (
	"context"
	"sync"
	"time"
)

// Task is one deferred action
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Cancel stops the task if it has not run yet
func (t *Task) Cancel() {
	t.cancel()
}

// Done is closed once the task has run or was cancelled
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Scheduler owns a set of deferred tasks
type Scheduler struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	pending int
}

// NewScheduler creates an empty scheduler
func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{ctx: ctx, cancel: cancel}
}

// After runs fn once delay has elapsed unless the task or the scheduler is
// cancelled first. fn must be idempotent.
func (s *Scheduler) After(delay time.Duration, fn func()) *Task {
	ctx, cancel := context.WithCancel(s.ctx)
	task := &Task{cancel: cancel, done: make(chan struct{})}

	s.mu.Lock()
	s.pending++
	s.mu.Unlock()
	s.wg.Add(1)

	go func() {
		defer func() {
			cancel()
			s.mu.Lock()
			s.pending--
			s.mu.Unlock()
			close(task.done)
			s.wg.Done()
		}()

		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		if ctx.Err() == nil {
			fn()
		}
	}()

	return task
}

// CancelAll cancels every pending task. It does not wait for them.
func (s *Scheduler) CancelAll() {
	s.cancel()
}

// Pending returns the number of tasks that have not finished
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Wait blocks until every task has run or been cancelled
func (s *Scheduler) Wait() {
	s.wg.Wait()
}
