package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrMalformedOutcome is returned when a payload breaks the outcome contract.
var ErrMalformedOutcome = errors.New("malformed reimbursement outcome")

// Timestamp layouts the engine is known to emit. Values without a zone are UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

const dateLayout = "2006-01-02"

type outcomeWire struct {
	ID               string           `json:"id"`
	EmployeeName     string           `json:"employee_name"`
	EmployeeCode     string           `json:"employee_employee_id"`
	CategoryName     *string          `json:"category_name"`
	Status           string           `json:"status"`
	Amount           *decimal.Decimal `json:"amount"`
	Currency         string           `json:"currency"`
	ArtifactURL      string           `json:"cloudinary_url"`
	SubmittedAt      string           `json:"submission_timestamp"`
	RejectionReason  *string          `json:"rejection_reason"`
	Invoice          *invoiceWire     `json:"invoice"`
	RemainingBalance OptionalDecimal  `json:"remaining_balance"`
}

type invoiceWire struct {
	VendorName    *string        `json:"vendor_name"`
	PurchaseDate  *string        `json:"purchase_date"`
	InvoiceNumber *string        `json:"invoice_number"`
	Currency      *string        `json:"currency"`
	Items         []lineItemWire `json:"items"`
}

type lineItemWire struct {
	Description string           `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
}

// DecodeOutcome parses a decision engine response into its outcome variant.
func DecodeOutcome(data []byte) (Outcome, error) {
	var w outcomeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutcome, err)
	}
	return w.toOutcome()
}

func (w outcomeWire) toOutcome() (Outcome, error) {
	details := OutcomeDetails{
		RequestID:        w.ID,
		EmployeeName:     w.EmployeeName,
		EmployeeCode:     w.EmployeeCode,
		Amount:           w.Amount,
		Currency:         strings.ToUpper(strings.TrimSpace(w.Currency)),
		RemainingBalance: w.RemainingBalance,
		ArtifactURL:      strings.TrimSpace(w.ArtifactURL),
	}
	if details.Currency == "" {
		details.Currency = DefaultCurrency
	}

	if w.SubmittedAt != "" {
		ts, err := parseTimestamp(w.SubmittedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: submission_timestamp: %v", ErrMalformedOutcome, err)
		}
		details.SubmittedAt = ts
	}

	if w.Invoice != nil {
		details.Invoice = w.Invoice.toDetails()
	}

	category := w.CategoryName
	if category != nil && strings.TrimSpace(*category) == "" {
		category = nil
	}

	status := OutcomeStatus(strings.ToLower(strings.TrimSpace(w.Status)))
	switch status {
	case StatusApproved:
		return Approved{OutcomeDetails: details, Category: category}, nil
	case StatusRejected:
		reason := ""
		if w.RejectionReason != nil {
			reason = strings.TrimSpace(*w.RejectionReason)
		}
		return Rejected{OutcomeDetails: details, Category: category, Reason: reason}, nil
	case StatusPendingReview:
		return PendingReview{OutcomeDetails: details, Category: category}, nil
	case StatusProcessing:
		return Processing{OutcomeDetails: details, Category: category}, nil
	case "":
		return nil, fmt.Errorf("%w: missing status", ErrMalformedOutcome)
	default:
		return Unrecognized{OutcomeDetails: details, RawStatus: w.Status, Category: category}, nil
	}
}

func (w invoiceWire) toDetails() *InvoiceDetails {
	inv := &InvoiceDetails{
		VendorName:    trimmed(w.VendorName),
		InvoiceNumber: trimmed(w.InvoiceNumber),
		Currency:      strings.ToUpper(trimmed(w.Currency)),
	}

	// An unparseable purchase date is dropped rather than failing the outcome.
	if d := trimmed(w.PurchaseDate); d != "" {
		if len(d) > len(dateLayout) {
			d = d[:len(dateLayout)]
		}
		if t, err := time.Parse(dateLayout, d); err == nil {
			inv.PurchaseDate = &t
		}
	}

	for _, item := range w.Items {
		inv.Items = append(inv.Items, LineItem{
			Description: item.Description,
			Amount:      item.Amount,
		})
	}

	return inv
}

func parseTimestamp(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
