package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Outcome is the resolved result of one submission. Concrete values are
// Processing, Approved, Rejected, PendingReview and Unrecognized; which fields
// exist depends on the variant.
type Outcome interface {
	Status() OutcomeStatus
	Details() OutcomeDetails
	isOutcome()
}

// OutcomeDetails holds the fields every outcome variant carries.
type OutcomeDetails struct {
	RequestID    string
	EmployeeName string
	EmployeeCode string
	Amount       *decimal.Decimal
	// Currency is never empty; DefaultCurrency is substituted on decode.
	Currency         string
	RemainingBalance OptionalDecimal
	SubmittedAt      time.Time
	Invoice          *InvoiceDetails
	ArtifactURL      string
}

// Details returns the shared outcome fields.
func (d OutcomeDetails) Details() OutcomeDetails {
	return d
}

// InvoiceDetails is the data the engine extracted from the artifact.
type InvoiceDetails struct {
	VendorName    string
	PurchaseDate  *time.Time
	InvoiceNumber string
	// Currency is empty when the engine did not report one for the invoice.
	Currency string
	Items    []LineItem
}

// LineItem is one invoice line, in document order.
type LineItem struct {
	Description string
	Amount      *decimal.Decimal
}

// Processing means the engine accepted the invoice but has not decided yet.
type Processing struct {
	OutcomeDetails
	Category *string
}

// Approved means the invoice fits the category limits. Category is nil when
// the engine no longer reports one, e.g. after the category was deleted.
type Approved struct {
	OutcomeDetails
	Category *string
}

// Rejected means the invoice violates a limit. Category is nil when the
// engine did not report one.
type Rejected struct {
	OutcomeDetails
	Category *string
	Reason   string
}

// PendingReview means a human must decide. Category is nil when the engine
// could not determine one.
type PendingReview struct {
	OutcomeDetails
	Category *string
}

// Unrecognized carries a status this client does not know about.
type Unrecognized struct {
	OutcomeDetails
	RawStatus string
	Category  *string
}

func (Processing) Status() OutcomeStatus    { return StatusProcessing }
func (Approved) Status() OutcomeStatus      { return StatusApproved }
func (Rejected) Status() OutcomeStatus      { return StatusRejected }
func (PendingReview) Status() OutcomeStatus { return StatusPendingReview }
func (u Unrecognized) Status() OutcomeStatus {
	return OutcomeStatus(u.RawStatus)
}

func (Processing) isOutcome()    {}
func (Approved) isOutcome()      {}
func (Rejected) isOutcome()      {}
func (PendingReview) isOutcome() {}
func (Unrecognized) isOutcome()  {}

// CategoryOf returns the category name of o, if it has one.
func CategoryOf(o Outcome) (string, bool) {
	switch v := o.(type) {
	case Approved:
		return deref(v.Category)
	case Rejected:
		return deref(v.Category)
	case PendingReview:
		return deref(v.Category)
	case Processing:
		return deref(v.Category)
	case Unrecognized:
		return deref(v.Category)
	default:
		return "", false
	}
}

func deref(s *string) (string, bool) {
	if s == nil || *s == "" {
		return "", false
	}
	return *s, true
}
