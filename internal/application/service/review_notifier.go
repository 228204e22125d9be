package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/garyjia/benefit-reimbursement/internal/application/port"
	"github.com/garyjia/benefit-reimbursement/internal/domain/entity"
	"github.com/garyjia/benefit-reimbursement/internal/domain/event"
	"github.com/garyjia/benefit-reimbursement/internal/presenter"
)

// ReviewNotifier tells reviewers about submissions the engine left pending
type ReviewNotifier struct {
	sender    port.MessageSender
	chatID    string
	presenter *presenter.Presenter
	logger    Logger
}

// NewReviewNotifier creates a notifier posting to chatID
func NewReviewNotifier(sender port.MessageSender, chatID string, p *presenter.Presenter, logger Logger) *ReviewNotifier {
	if p == nil {
		p = presenter.New()
	}
	return &ReviewNotifier{
		sender:    sender,
		chatID:    chatID,
		presenter: p,
		logger:    orNop(logger),
	}
}

// HandleResolved sends a message for pending_review outcomes. Send failures
// are logged and swallowed.
func (n *ReviewNotifier) HandleResolved(ctx context.Context, evt *event.Event) error {
	v, ok := evt.Get(event.KeyOutcome)
	if !ok {
		return nil
	}
	outcome, ok := v.(entity.Outcome)
	if !ok || outcome == nil || outcome.Status() != entity.StatusPendingReview {
		return nil
	}

	text := ReviewMessage(n.presenter.Present(outcome))
	messageID, err := n.sender.SendText(ctx, n.chatID, text)
	if err != nil {
		n.logger.Error("Failed to notify reviewers", "error", err,
			"session_id", evt.SessionID,
			"request_id", outcome.Details().RequestID)
		return nil
	}

	n.logger.Info("Reviewers notified",
		"message_id", messageID,
		"request_id", outcome.Details().RequestID)
	return nil
}

// ReviewMessage renders the chat text for a pending submission
func ReviewMessage(v presenter.View) string {
	var b strings.Builder
	b.WriteString("Reimbursement pending review\n")
	fmt.Fprintf(&b, "Employee: %s\n", v.Employee)
	fmt.Fprintf(&b, "Amount: %s\n", v.Amount)
	fmt.Fprintf(&b, "Category: %s\n", v.Category)
	fmt.Fprintf(&b, "Submitted: %s\n", v.SubmittedAt)
	if v.RequestID != "" {
		fmt.Fprintf(&b, "Request: %s\n", v.RequestID)
	}
	if v.ArtifactURL != "" {
		fmt.Fprintf(&b, "Invoice: %s\n", v.ArtifactURL)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
