package entity

// OutcomeStatus is the decision engine's classification of a submitted invoice.
type OutcomeStatus string

// Outcome statuses returned by the decision engine
const (
	StatusProcessing    OutcomeStatus = "processing"
	StatusApproved      OutcomeStatus = "approved"
	StatusRejected      OutcomeStatus = "rejected"
	StatusPendingReview OutcomeStatus = "pending_review"
)

// String returns the wire value of the status
func (s OutcomeStatus) String() string {
	return string(s)
}

// IsKnown reports whether s is one of the four defined statuses
func (s OutcomeStatus) IsKnown() bool {
	switch s {
	case StatusProcessing, StatusApproved, StatusRejected, StatusPendingReview:
		return true
	default:
		return false
	}
}

// DefaultCurrency applies whenever the engine omits a currency code.
const DefaultCurrency = "USD"
