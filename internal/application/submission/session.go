// Package submission drives one reimbursement submission cycle per session:
// input selection, validation, the engine call and outcome resolution.
package submission

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/benefit-reimbursement/internal/application/dispatcher"
	"github.com/garyjia/benefit-reimbursement/internal/domain/entity"
	"github.com/garyjia/benefit-reimbursement/internal/domain/event"
	"github.com/garyjia/benefit-reimbursement/internal/domain/workflow"
	"github.com/garyjia/benefit-reimbursement/internal/upload"
)

// Submitter sends a submission request to the decision engine
type Submitter interface {
	Submit(ctx context.Context, req entity.SubmissionRequest) (entity.Outcome, error)
}

// Option configures a Session
type Option func(*Session)

// WithPublisher publishes terminal transitions as domain events
func WithPublisher(p dispatcher.Publisher) Option {
	return func(s *Session) {
		s.publisher = p
	}
}

// WithLogger sets the session logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithClock overrides time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// Session is one workflow instance. It is safe for concurrent use; the lock
// is never held across the engine call.
type Session struct {
	id        string
	engine    Submitter
	publisher dispatcher.Publisher
	logger    *zap.Logger
	now       func() time.Time

	mu          sync.Mutex
	machine     workflow.StateMachine
	cycle       uint64
	employee    *entity.EmployeeRef
	slot        upload.Slot
	outcome     entity.Outcome
	fieldErrors map[string]string
	cancel      context.CancelFunc
	closed      bool
	lastActive  time.Time
}

// NewSession creates an idle session
func NewSession(id string, engine Submitter, opts ...Option) *Session {
	s := &Session{
		id:          id,
		engine:      engine,
		logger:      zap.NewNop(),
		now:         time.Now,
		machine:     workflow.NewSubmissionMachine(),
		fieldErrors: make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	s.logger = s.logger.With(zap.String("session_id", id))
	s.lastActive = s.now()

	s.machine.OnTransition(func(t workflow.Transition) {
		s.logger.Debug("Submission state changed",
			zap.String("from", t.From.String()),
			zap.String("to", t.To.String()),
			zap.String("trigger", t.Trigger.String()))
	})

	return s
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// SelectEmployee sets the employee for the next submit. nil means none chosen.
func (s *Session) SelectEmployee(ref *entity.EmployeeRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}

	s.touch()
	if ref == nil || ref.IsZero() {
		s.employee = nil
		return nil
	}

	selected := *ref
	s.employee = &selected
	delete(s.fieldErrors, FieldEmployee)
	return nil
}

// SelectInvoice validates c and, when accepted, replaces the current artifact.
// A rejection is recorded as the invoice field message and returned; the
// workflow state is not touched either way.
func (s *Session) SelectInvoice(c upload.Candidate) (entity.InvoiceArtifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return entity.InvoiceArtifact{}, ErrSessionClosed
	}

	s.touch()
	artifact, err := s.slot.Offer(c)
	if err != nil {
		var rejected *upload.RejectedError
		if errors.As(err, &rejected) {
			s.fieldErrors[FieldInvoice] = rejected.Message()
		}
		s.logger.Info("Invoice rejected", zap.Error(err))
		return entity.InvoiceArtifact{}, err
	}

	delete(s.fieldErrors, FieldInvoice)
	return artifact, nil
}

// Artifact returns the current invoice artifact, if any
func (s *Session) Artifact() (entity.InvoiceArtifact, bool) {
	return s.slot.Current()
}

// Submit runs one submission cycle. It returns the snapshot after the cycle
// together with ErrInFlight, *ValidationError, *SubmitError or ErrSuperseded
// when the cycle did not resolve.
func (s *Session) Submit(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Snapshot{}, ErrSessionClosed
	}
	s.touch()

	if s.machine.State() == workflow.StateSubmitting {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, ErrInFlight
	}

	if s.machine.State().IsTerminal() {
		s.fire(workflow.TriggerReset)
		s.outcome = nil
	}
	delete(s.fieldErrors, FieldSubmit)
	delete(s.fieldErrors, FieldEmployee)
	delete(s.fieldErrors, FieldInvoice)

	s.fire(workflow.TriggerSubmit)

	if verr := s.validateLocked(); verr != nil {
		s.fire(workflow.TriggerInvalid)
		for _, f := range verr.Failures {
			s.fieldErrors[f.Field] = f.Message
		}
		snap := s.snapshotLocked()
		s.mu.Unlock()

		s.publish(ctx, event.TypeSubmissionFailed, snap, map[string]interface{}{
			event.KeyError:  verr.Error(),
			event.KeyReason: "validation",
		})
		return snap, verr
	}

	s.fire(workflow.TriggerSend)
	s.cycle++
	cycle := s.cycle

	artifact, _ := s.slot.Current()
	req := entity.SubmissionRequest{EmployeeID: s.employee.ID, Artifact: artifact}

	callCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	outcome, err := s.engine.Submit(callCtx, req)
	cancel()

	s.mu.Lock()
	if s.cycle != cycle || s.machine.State() != workflow.StateSubmitting {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.logger.Debug("Discarding superseded response",
			zap.Uint64("cycle", cycle),
			zap.Uint64("current_cycle", snap.Cycle))
		return snap, ErrSuperseded
	}
	s.cancel = nil
	s.touch()

	if err != nil {
		serr := newSubmitError(err)
		s.fire(workflow.TriggerFail)
		s.fieldErrors[FieldSubmit] = serr.Message
		snap := s.snapshotLocked()
		s.mu.Unlock()

		s.logger.Error("Submission failed", zap.Uint64("cycle", cycle), zap.Error(err))
		s.publish(ctx, event.TypeSubmissionFailed, snap, map[string]interface{}{
			event.KeyError:  serr.Message,
			event.KeyReason: "engine",
		})
		return snap, serr
	}

	s.fire(workflow.TriggerResolve)
	s.outcome = outcome
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Info("Submission resolved",
		zap.Uint64("cycle", cycle),
		zap.String("request_id", outcome.Details().RequestID),
		zap.String("status", outcome.Status().String()))
	s.publish(ctx, event.TypeSubmissionResolved, snap, map[string]interface{}{
		event.KeyOutcome: outcome,
	})
	return snap, nil
}

// StartNew discards everything: any in-flight call is cancelled and its
// response will be ignored, inputs and results are cleared and the session
// returns to IDLE.
func (s *Session) StartNew() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	discarded := s.resetLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if discarded {
		s.publish(context.Background(), event.TypeSubmissionDiscarded, snap, nil)
	}
	return nil
}

// Abandon is StartNew for a session that is going away. Later calls fail with
// ErrSessionClosed.
func (s *Session) Abandon() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	discarded := s.resetLocked()
	s.closed = true
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if discarded {
		s.publish(context.Background(), event.TypeSubmissionDiscarded, snap, nil)
	}
}

// Snapshot returns a copy of the observable state
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// IdleSince reports how long the session has been untouched, and whether a
// request is outstanding.
func (s *Session) IdleSince(now time.Time) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastActive), s.machine.State() == workflow.StateSubmitting
}

func (s *Session) validateLocked() *ValidationError {
	var failures []FieldError

	if s.employee == nil {
		failures = append(failures, FieldError{
			Field:   FieldEmployee,
			Code:    CodeEmployeeRequired,
			Message: "Employee is required",
		})
	}

	if _, ok := s.slot.Current(); !ok {
		failures = append(failures, FieldError{
			Field:   FieldInvoice,
			Code:    CodeInvoiceRequired,
			Message: "Invoice file is required",
		})
	}

	if len(failures) == 0 {
		return nil
	}
	return &ValidationError{Failures: failures}
}

// resetLocked reports whether an in-flight request was discarded
func (s *Session) resetLocked() bool {
	inFlight := s.machine.State() == workflow.StateSubmitting
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	s.cycle++
	s.fire(workflow.TriggerAbandon)
	s.employee = nil
	s.slot.Clear()
	s.outcome = nil
	s.fieldErrors = make(map[string]string)
	s.touch()

	if inFlight {
		s.logger.Info("In-flight submission discarded", zap.Uint64("cycle", s.cycle-1))
	}
	return inFlight
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		SessionID: s.id,
		State:     s.machine.State(),
		Cycle:     s.cycle,
		Outcome:   s.outcome,
		UpdatedAt: s.lastActive,
	}

	if s.employee != nil {
		employee := *s.employee
		snap.Employee = &employee
	}

	if artifact, ok := s.slot.Current(); ok {
		info := artifact.Info()
		snap.Artifact = &info
	}

	if len(s.fieldErrors) > 0 {
		snap.Errors = make(map[string]string, len(s.fieldErrors))
		for k, v := range s.fieldErrors {
			snap.Errors[k] = v
		}
	}

	return snap
}

// fire applies a trigger that the submission table always permits from the
// current state; a refusal means the session logic is broken.
func (s *Session) fire(trigger workflow.Trigger) {
	if err := s.machine.Fire(context.Background(), trigger); err != nil {
		s.logger.Error("Unexpected workflow transition", zap.Error(err))
		panic(err)
	}
}

func (s *Session) touch() {
	s.lastActive = s.now()
}

func (s *Session) publish(ctx context.Context, eventType event.Type, snap Snapshot, extra map[string]interface{}) {
	if s.publisher == nil {
		return
	}

	payload := map[string]interface{}{
		event.KeyCycle: snap.Cycle,
	}
	if snap.Employee != nil {
		payload[event.KeyEmployeeID] = snap.Employee.ID.String()
		payload[event.KeyEmployeeName] = snap.Employee.DisplayName
	}
	if snap.Artifact != nil {
		payload[event.KeyFileName] = snap.Artifact.FileName
	}
	for k, v := range extra {
		payload[k] = v
	}

	s.publisher.DispatchAsync(ctx, event.NewEvent(eventType, s.id, payload))
}
