package workflow

// State represents a submission workflow state
type State string

const (
	StateIdle       State = "IDLE"
	StateValidating State = "VALIDATING"
	StateSubmitting State = "SUBMITTING"
	StateResolved   State = "RESOLVED"
	StateFailed     State = "FAILED"
)

var validStates = map[State]bool{
	StateIdle:       true,
	StateValidating: true,
	StateSubmitting: true,
	StateResolved:   true,
	StateFailed:     true,
}

var terminalStates = map[State]bool{
	StateResolved: true,
	StateFailed:   true,
}

// IsTerminal returns true if the state ends a submission cycle
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// IsValid returns true if the state is a valid workflow state
func (s State) IsValid() bool {
	return validStates[s]
}
