package service

import (
	"context"
	"fmt"

	"github.com/garyjia/benefit-reimbursement/internal/application/port"
	"github.com/garyjia/benefit-reimbursement/internal/domain/entity"
	"github.com/garyjia/benefit-reimbursement/internal/domain/event"
)

// JournalRecorder writes submission lifecycle events to the local journal
type JournalRecorder struct {
	repo   port.JournalRepository
	logger Logger
}

// NewJournalRecorder creates a new JournalRecorder
func NewJournalRecorder(repo port.JournalRepository, logger Logger) *JournalRecorder {
	return &JournalRecorder{
		repo:   repo,
		logger: orNop(logger),
	}
}

// HandleResolved records the request id and status of a resolved submission
func (r *JournalRecorder) HandleResolved(ctx context.Context, evt *event.Event) error {
	entry := r.baseEntry(evt)

	if v, ok := evt.Get(event.KeyOutcome); ok {
		if outcome, ok := v.(entity.Outcome); ok && outcome != nil {
			entry.RequestID = outcome.Details().RequestID
			entry.Status = outcome.Status().String()
		}
	}
	if entry.Status == "" {
		return fmt.Errorf("event %s carries no outcome", evt.ID)
	}

	return r.record(ctx, entry)
}

// HandleFailed records engine failures. Validation failures never reached the
// engine and are skipped.
func (r *JournalRecorder) HandleFailed(ctx context.Context, evt *event.Event) error {
	if evt.GetPayloadString(event.KeyReason) == "validation" {
		return nil
	}

	entry := r.baseEntry(evt)
	entry.Status = entity.JournalStatusFailed
	entry.ErrorMessage = evt.GetPayloadString(event.KeyError)

	return r.record(ctx, entry)
}

func (r *JournalRecorder) baseEntry(evt *event.Event) *entity.JournalEntry {
	return &entity.JournalEntry{
		SessionID:    evt.SessionID,
		EmployeeID:   evt.GetPayloadString(event.KeyEmployeeID),
		EmployeeName: evt.GetPayloadString(event.KeyEmployeeName),
		FileName:     evt.GetPayloadString(event.KeyFileName),
		CreatedAt:    evt.Timestamp.UTC(),
	}
}

func (r *JournalRecorder) record(ctx context.Context, entry *entity.JournalEntry) error {
	if err := r.repo.Record(ctx, entry); err != nil {
		r.logger.Error("Failed to record submission", "error", err,
			"session_id", entry.SessionID, "status", entry.Status)
		return fmt.Errorf("record submission: %w", err)
	}

	r.logger.Info("Submission recorded",
		"journal_id", entry.ID,
		"session_id", entry.SessionID,
		"request_id", entry.RequestID,
		"status", entry.Status)
	return nil
}
