// Package presenter turns a resolved outcome into display-ready text.
package presenter

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/garyjia/benefit-reimbursement/internal/domain/entity"
)

const (
	// NotAvailable stands in for values that are missing or null
	NotAvailable = "N/A"
	// CategoryPlaceholder is shown when no category was determined
	CategoryPlaceholder = "Not determined (pending review)"
	// ArtifactLinkText labels the link to the stored invoice
	ArtifactLinkText = "View Invoice Image"

	timestampLayout = "1/2/2006, 3:04:05 PM"
	dateLayout      = "1/2/2006"
)

// Status classes used for styling
const (
	ClassApproved   = "status-approved"
	ClassRejected   = "status-rejected"
	ClassPending    = "status-pending"
	ClassProcessing = "status-processing"
)

// View is the presentation of one outcome
type View struct {
	RequestID   string `json:"request_id,omitempty"`
	StatusLabel string `json:"status_label"`
	StatusClass string `json:"status_class"`
	Employee    string `json:"employee"`
	Category    string `json:"category"`
	// CategoryDetermined is false when Category holds the placeholder.
	CategoryDetermined bool   `json:"category_determined"`
	Amount             string `json:"amount"`
	// RemainingBalance is nil when the row must not be shown.
	RemainingBalance *string      `json:"remaining_balance,omitempty"`
	SubmittedAt      string       `json:"submitted_at"`
	RejectionReason  string       `json:"rejection_reason,omitempty"`
	Invoice          *InvoiceView `json:"invoice,omitempty"`
	ArtifactURL      string       `json:"artifact_url,omitempty"`
	ArtifactLinkText string       `json:"artifact_link_text,omitempty"`
}

// InvoiceView lists the extracted invoice fields that are present
type InvoiceView struct {
	Vendor        string     `json:"vendor,omitempty"`
	PurchaseDate  string     `json:"purchase_date,omitempty"`
	InvoiceNumber string     `json:"invoice_number,omitempty"`
	Items         []ItemView `json:"items,omitempty"`
}

// ItemView is one invoice line; Amount is empty when the line had none
type ItemView struct {
	Description string `json:"description"`
	Amount      string `json:"amount,omitempty"`
}

// Option configures a Presenter
type Option func(*Presenter)

// WithLocation sets the zone submission timestamps are shown in
func WithLocation(loc *time.Location) Option {
	return func(p *Presenter) {
		if loc != nil {
			p.location = loc
		}
	}
}

// WithLanguage sets the locale used for number formatting
func WithLanguage(tag language.Tag) Option {
	return func(p *Presenter) {
		p.tag = tag
	}
}

// Presenter renders outcomes. It holds no per-outcome state.
type Presenter struct {
	location *time.Location
	tag      language.Tag
	printer  *message.Printer
}

// New creates a presenter for en-US in the local time zone
func New(opts ...Option) *Presenter {
	p := &Presenter{
		location: time.Local,
		tag:      language.AmericanEnglish,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.printer = message.NewPrinter(p.tag)
	return p
}

// Present builds the view of o. It is pure: the same outcome always yields
// an identical view.
func (p *Presenter) Present(o entity.Outcome) View {
	d := o.Details()
	status := o.Status()

	v := View{
		RequestID:   d.RequestID,
		StatusLabel: strings.ToUpper(status.String()),
		StatusClass: statusClass(status),
		Employee:    employeeLabel(d.EmployeeName, d.EmployeeCode),
		Amount:      p.optionalMoney(d.Amount, d.Currency),
		SubmittedAt: p.timestamp(d.SubmittedAt),
	}

	if category, ok := entity.CategoryOf(o); ok {
		v.Category = category
		v.CategoryDetermined = true
	} else {
		v.Category = CategoryPlaceholder
	}

	if d.RemainingBalance.Present {
		balance := NotAvailable
		if d.RemainingBalance.Value != nil {
			balance = p.Money(*d.RemainingBalance.Value, d.Currency)
		}
		v.RemainingBalance = &balance
	}

	if rejected, ok := o.(entity.Rejected); ok && rejected.Reason != "" {
		v.RejectionReason = rejected.Reason
	}

	if d.Invoice != nil {
		v.Invoice = p.invoice(d.Invoice, d.Currency)
	}

	if d.ArtifactURL != "" {
		v.ArtifactURL = d.ArtifactURL
		v.ArtifactLinkText = ArtifactLinkText
	}

	return v
}

func (p *Presenter) invoice(inv *entity.InvoiceDetails, fallbackCurrency string) *InvoiceView {
	iv := &InvoiceView{
		Vendor:        inv.VendorName,
		InvoiceNumber: inv.InvoiceNumber,
	}
	if inv.PurchaseDate != nil {
		iv.PurchaseDate = inv.PurchaseDate.Format(dateLayout)
	}

	currencyCode := inv.Currency
	if currencyCode == "" {
		currencyCode = fallbackCurrency
	}

	for _, item := range inv.Items {
		line := ItemView{Description: item.Description}
		if item.Amount != nil {
			line.Amount = p.Money(*item.Amount, currencyCode)
		}
		iv.Items = append(iv.Items, line)
	}

	return iv
}

func (p *Presenter) timestamp(t time.Time) string {
	if t.IsZero() {
		return NotAvailable
	}
	return t.In(p.location).Format(timestampLayout)
}

func statusClass(status entity.OutcomeStatus) string {
	switch status {
	case entity.StatusApproved:
		return ClassApproved
	case entity.StatusRejected:
		return ClassRejected
	case entity.StatusPendingReview:
		return ClassPending
	case entity.StatusProcessing:
		return ClassProcessing
	default:
		return ""
	}
}

func employeeLabel(name, code string) string {
	return entity.EmployeeRef{DisplayName: name, ExternalCode: code}.Label()
}
