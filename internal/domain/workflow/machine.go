package workflow

import "context"

// Transition records one accepted state change
type Transition struct {
	From    State
	To      State
	Trigger Trigger
}

// TransitionFunc observes accepted transitions
type TransitionFunc func(t Transition)

// StateMachine tracks the current state and validates transitions.
// It is not safe for concurrent use; owners serialize access.
type StateMachine interface {
	// State returns the current state
	State() State

	// CanFire returns true if the trigger is permitted in the current state
	CanFire(trigger Trigger) bool

	// Fire attempts to execute the trigger, transitioning to the new state if allowed
	Fire(ctx context.Context, trigger Trigger) error

	// PermittedTriggers returns all triggers that can be fired in the current state
	PermittedTriggers() []Trigger

	// OnTransition registers an observer called after every accepted transition
	OnTransition(fn TransitionFunc)
}
