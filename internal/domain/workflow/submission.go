package workflow

// NewSubmissionMachine returns a machine in StateIdle wired with the
// submission cycle: IDLE -> VALIDATING -> SUBMITTING -> RESOLVED | FAILED.
// Terminal states go back to IDLE on RESET, and ABANDON returns any state to IDLE.
func NewSubmissionMachine() StateMachine {
	return submissionBuilder().Build(StateIdle)
}

func submissionBuilder() StateMachineBuilder {
	b := NewBuilder()

	b.Configure(StateIdle).
		Permit(TriggerSubmit, StateValidating).
		Permit(TriggerAbandon, StateIdle)

	b.Configure(StateValidating).
		Permit(TriggerInvalid, StateFailed).
		Permit(TriggerSend, StateSubmitting).
		Permit(TriggerAbandon, StateIdle)

	b.Configure(StateSubmitting).
		Permit(TriggerResolve, StateResolved).
		Permit(TriggerFail, StateFailed).
		Permit(TriggerAbandon, StateIdle)

	b.Configure(StateResolved).
		Permit(TriggerReset, StateIdle).
		Permit(TriggerAbandon, StateIdle)

	b.Configure(StateFailed).
		Permit(TriggerReset, StateIdle).
		Permit(TriggerAbandon, StateIdle)

	return b
}
