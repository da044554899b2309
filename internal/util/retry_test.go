// ABOUTME: Tests for step backoff used by bounded search loops
// ABOUTME: Validates growth, attempt cap and edge cases
package util

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStepBackoff_ZeroFailures(t *testing.T) {
	b := DefaultStepBackoff()
	assert.Equal(t, 5.0, b.Step(0))
	assert.Equal(t, 5.0, b.Step(-3), "negative failures behave like zero")
}

func TestStepBackoff_GeometricGrowth(t *testing.T) {
	b := DefaultStepBackoff()

	want := 5.0
	for failures := 1; failures <= 5; failures++ {
		want *= 1.5
		assert.InDelta(t, want, b.Step(failures), 1e-9, "failures=%d", failures)
	}
}

func TestStepBackoff_Exhausted(t *testing.T) {
	b := DefaultStepBackoff()

	for failures := 0; failures < 5; failures++ {
		assert.False(t, b.Exhausted(failures), "failures=%d", failures)
	}
	assert.True(t, b.Exhausted(5))
	assert.True(t, b.Exhausted(6))
}

func TestStepBackoff_HugeFailureCountStaysFinite(t *testing.T) {
	b := StepBackoff{Base: 5, Factor: 1.5, MaxAttempts: 5}
	step := b.Step(1_000_000)
	assert.False(t, math.IsInf(step, 0))
	assert.Greater(t, step, 0.0)
}
