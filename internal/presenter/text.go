package presenter

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// Row is one labelled line of a view
type Row struct {
	Label string
	Value string
}

// Rows lists the view in display order, omitting absent rows
func (v View) Rows() []Row {
	rows := []Row{
		{"Status", v.StatusLabel},
		{"Employee", v.Employee},
		{"Category", v.Category},
		{"Amount", v.Amount},
	}
	if v.RemainingBalance != nil {
		rows = append(rows, Row{"Remaining Balance", *v.RemainingBalance})
	}
	rows = append(rows, Row{"Submission Date", v.SubmittedAt})
	if v.RejectionReason != "" {
		rows = append(rows, Row{"Rejection Reason", v.RejectionReason})
	}
	if v.RequestID != "" {
		rows = append(rows, Row{"Request ID", v.RequestID})
	}
	return rows
}

// WriteText renders v as aligned plain text
func WriteText(w io.Writer, v View) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	for _, r := range v.Rows() {
		fmt.Fprintf(tw, "%s:\t%s\n", r.Label, r.Value)
	}

	if inv := v.Invoice; inv != nil {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "Invoice Details")
		if inv.Vendor != "" {
			fmt.Fprintf(tw, "Vendor:\t%s\n", inv.Vendor)
		}
		if inv.PurchaseDate != "" {
			fmt.Fprintf(tw, "Purchase Date:\t%s\n", inv.PurchaseDate)
		}
		if inv.InvoiceNumber != "" {
			fmt.Fprintf(tw, "Invoice Number:\t%s\n", inv.InvoiceNumber)
		}
		if len(inv.Items) > 0 {
			fmt.Fprintln(tw, "Items:")
			for _, item := range inv.Items {
				if item.Amount != "" {
					fmt.Fprintf(tw, "  - %s (%s)\n", item.Description, item.Amount)
				} else {
					fmt.Fprintf(tw, "  - %s\n", item.Description)
				}
			}
		}
	}

	if v.ArtifactURL != "" {
		fmt.Fprintln(tw)
		fmt.Fprintf(tw, "%s:\t%s\n", v.ArtifactLinkText, v.ArtifactURL)
	}

	return tw.Flush()
}
