// ABOUTME: Tests for deferred task scheduling and cancellation
// ABOUTME: Uses short real delays and Wait to stay deterministic
package roadblock

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_RunsAfterDelay(t *testing.T) {
	s := NewScheduler()
	var ran atomic.Int32
	start := time.Now()
	task := s.After(10*time.Millisecond, func() { ran.Add(1) })

	<-task.Done()
	assert.Equal(t, int32(1), ran.Load())
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
	assert.Equal(t, 0, s.Pending())
}

func TestScheduler_CancelTask(t *testing.T) {
	s := NewScheduler()
	var ran atomic.Bool
	task := s.After(time.Hour, func() { ran.Store(true) })
	assert.Equal(t, 1, s.Pending())

	task.Cancel()
	s.Wait()
	assert.False(t, ran.Load())
	assert.Equal(t, 0, s.Pending())
}

func TestScheduler_CancelAll(t *testing.T) {
	s := NewScheduler()
	var ran atomic.Int32
	for i := 0; i < 3; i++ {
		s.After(time.Hour, func() { ran.Add(1) })
	}
	s.CancelAll()
	s.Wait()
	assert.Zero(t, ran.Load())

	// tasks scheduled after CancelAll never run
	task := s.After(0, func() { ran.Add(1) })
	<-task.Done()
	assert.Zero(t, ran.Load())
}
