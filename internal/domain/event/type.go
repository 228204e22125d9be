package event

// Type identifies the type of domain event
type Type string

const (
	TypeSubmissionResolved  Type = "submission.resolved"
	TypeSubmissionFailed    Type = "submission.failed"
	TypeSubmissionDiscarded Type = "submission.discarded"
	TypeSessionExpired      Type = "session.expired"
)

// Payload keys shared by publishers and handlers
const (
	KeyCycle        = "cycle"
	KeyEmployeeID   = "employee_id"
	KeyEmployeeName = "employee_name"
	KeyFileName     = "file_name"
	KeyOutcome      = "outcome"
	KeyError        = "error"
	KeyReason       = "reason"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeSubmissionResolved,
		TypeSubmissionFailed,
		TypeSubmissionDiscarded,
		TypeSessionExpired:
		return true
	default:
		return false
	}
}
