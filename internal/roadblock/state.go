// ABOUTME: Roadblock lifecycle states and the transitions allowed between them
// ABOUTME: Also defines the notifications published to subscribers
package roadblock

import (
	"fmt"
	"time"
)

// State is a roadblock lifecycle state
type State string

const (
	StatePreparing State = "preparing"
	StateActive    State = "active"
	StateBypassed  State = "bypassed"
	StateHit       State = "hit"
	StateError     State = "error"
	StateDisposing State = "disposing"
	StateDisposed  State = "disposed"
)

var transitions = map[State][]State{
	StatePreparing: {StateActive, StateError, StateDisposing},
	StateActive:    {StateBypassed, StateHit, StateError, StateDisposing},
	StateBypassed:  {StateDisposing},
	StateHit:       {StateDisposing},
	StateError:     {StateDisposing},
	StateDisposing: {StateDisposed},
}

// CanTransition reports whether from may move to to
func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal is true once disposal has started
func (s State) IsTerminal() bool {
	return s == StateDisposing || s == StateDisposed
}

// ParseState resolves a state name
func ParseState(name string) (State, error) {
	switch s := State(name); s {
	case StatePreparing, StateActive, StateBypassed, StateHit, StateError, StateDisposing, StateDisposed:
		return s, nil
	}
	return "", fmt.Errorf("unknown roadblock state %q", name)
}

// StateChange is published on every transition
type StateChange struct {
	RoadblockID string    `json:"roadblock_id"`
	From        State     `json:"from"`
	To          State     `json:"to"`
	At          time.Time `json:"at"`
}

// CopKilled is published when one of the roadblock's occupants dies
type CopKilled struct {
	RoadblockID string       `json:"roadblock_id"`
	Handle      EntityHandle `json:"handle"`
	At          time.Time    `json:"at"`
}
