// ABOUTME: Tests for the lifecycle transition table
// ABOUTME: Also covers state name parsing
package roadblock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to State
		want     bool
	}{
		{StatePreparing, StateActive, true},
		{StatePreparing, StateError, true},
		{StatePreparing, StateBypassed, false},
		{StateActive, StateBypassed, true},
		{StateActive, StateHit, true},
		{StateActive, StatePreparing, false},
		{StateBypassed, StateHit, false},
		{StateHit, StateDisposing, true},
		{StateError, StateActive, false},
		{StateDisposing, StateDisposed, true},
		{StateDisposed, StateDisposing, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestDisposingReachableFromEveryLiveState(t *testing.T) {
	for _, s := range []State{StatePreparing, StateActive, StateBypassed, StateHit, StateError} {
		assert.True(t, CanTransition(s, StateDisposing), s)
		assert.False(t, s.IsTerminal(), s)
	}
	assert.True(t, StateDisposed.IsTerminal())
}

func TestParseState(t *testing.T) {
	s, err := ParseState("hit")
	assert.NoError(t, err)
	assert.Equal(t, StateHit, s)

	_, err = ParseState("exploded")
	assert.Error(t, err)
}
