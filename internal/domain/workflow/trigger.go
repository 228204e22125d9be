package workflow

// Trigger represents an event that can cause a state transition
type Trigger string

const (
	TriggerSubmit  Trigger = "SUBMIT"
	TriggerInvalid Trigger = "INVALID"
	TriggerSend    Trigger = "SEND"
	TriggerResolve Trigger = "RESOLVE"
	TriggerFail    Trigger = "FAIL"
	TriggerReset   Trigger = "RESET"
	TriggerAbandon Trigger = "ABANDON"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}
