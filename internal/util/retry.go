// ABOUTME: Retry utilities for bounded search loops with geometric backoff
// ABOUTME: Shared by the road traverser for its probe step growth and attempt cap
package util

import "math"

// StepBackoff grows a probe distance geometrically after each failed attempt
// and caps the number of consecutive failures a loop may take.
type StepBackoff struct {
	Base        float64 // step used when no failure has happened
	Factor      float64 // multiplier applied per consecutive failure
	MaxAttempts int     // consecutive failures allowed before giving up
}

// DefaultStepBackoff is a 5 unit step growing by half per failure, 5 tries.
func DefaultStepBackoff() StepBackoff {
	return StepBackoff{Base: 5, Factor: 1.5, MaxAttempts: 5}
}

// Step returns the probe distance after the given number of consecutive
// failures. Attempt 0 is the base step.
func (b StepBackoff) Step(failures int) float64 {
	if failures <= 0 {
		return b.Base
	}
	// Cap the exponent so pathological inputs cannot overflow to +Inf
	if failures > 64 {
		failures = 64
	}
	return b.Base * math.Pow(b.Factor, float64(failures))
}

// Exhausted reports whether the loop should stop after this many
// consecutive failures.
func (b StepBackoff) Exhausted(failures int) bool {
	return failures >= b.MaxAttempts
}
