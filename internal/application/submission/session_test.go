package submission

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/benefit-reimbursement/internal/domain/entity"
	"github.com/garyjia/benefit-reimbursement/internal/domain/event"
	"github.com/garyjia/benefit-reimbursement/internal/domain/workflow"
	"github.com/garyjia/benefit-reimbursement/internal/infrastructure/engine"
	"github.com/garyjia/benefit-reimbursement/internal/upload"
)

// mockEngine implements Submitter for testing
type mockEngine struct {
	mu       sync.Mutex
	calls    int
	requests []entity.SubmissionRequest
	submitFn func(ctx context.Context, req entity.SubmissionRequest) (entity.Outcome, error)
}

func (m *mockEngine) Submit(ctx context.Context, req entity.SubmissionRequest) (entity.Outcome, error) {
	m.mu.Lock()
	m.calls++
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.submitFn != nil {
		return m.submitFn(ctx, req)
	}
	return approvedOutcome("req-1"), nil
}

func (m *mockEngine) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// blockingEngine holds each call until released
func blockingEngine() (*mockEngine, chan struct{}, chan struct{}) {
	started := make(chan struct{}, 4)
	release := make(chan struct{})
	m := &mockEngine{}
	m.submitFn = func(ctx context.Context, req entity.SubmissionRequest) (entity.Outcome, error) {
		started <- struct{}{}
		select {
		case <-release:
			return approvedOutcome("req-late"), nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return m, started, release
}

// recordingPublisher implements dispatcher.Publisher for testing
type recordingPublisher struct {
	mu     sync.Mutex
	events []*event.Event
}

func (p *recordingPublisher) DispatchAsync(ctx context.Context, evt *event.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
}

func (p *recordingPublisher) Types() []event.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]event.Type, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.Type)
	}
	return types
}

func approvedOutcome(id string) entity.Outcome {
	category := "Wellness"
	return entity.Approved{
		OutcomeDetails: entity.OutcomeDetails{RequestID: id, EmployeeName: "Alice Smith", EmployeeCode: "EMP001", Currency: "USD"},
		Category:       &category,
	}
}

var testEmployee = entity.EmployeeRef{ID: uuid.MustParse("7c9e6679-7425-40de-944b-e07fc1f90ae7"), DisplayName: "Alice Smith", ExternalCode: "EMP001"}

func pdfCandidate(name string) upload.Candidate {
	return upload.Candidate{FileName: name, MediaType: "application/pdf", Content: []byte("%PDF-1.4")}
}

func readySession(t *testing.T, eng Submitter, opts ...Option) *Session {
	t.Helper()
	s := NewSession("session-1", eng, opts...)
	require.NoError(t, s.SelectEmployee(&testEmployee))
	_, err := s.SelectInvoice(pdfCandidate("receipt.pdf"))
	require.NoError(t, err)
	return s
}

func TestSubmit_BothInputsMissing(t *testing.T) {
	eng := &mockEngine{}
	pub := &recordingPublisher{}
	s := NewSession("session-1", eng, WithPublisher(pub))

	snap, err := s.Submit(context.Background())

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Has(CodeEmployeeRequired))
	assert.True(t, verr.Has(CodeInvoiceRequired))
	assert.Equal(t, workflow.StateFailed, snap.State)
	assert.Equal(t, "Employee is required", snap.Error(FieldEmployee))
	assert.Equal(t, "Invoice file is required", snap.Error(FieldInvoice))
	assert.Equal(t, 0, eng.Calls())
	assert.Equal(t, []event.Type{event.TypeSubmissionFailed}, pub.Types())
}

func TestSubmit_OnlyEmployeeMissing(t *testing.T) {
	eng := &mockEngine{}
	s := NewSession("session-1", eng)
	_, err := s.SelectInvoice(pdfCandidate("receipt.pdf"))
	require.NoError(t, err)

	snap, err := s.Submit(context.Background())

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Failures, 1)
	assert.Equal(t, CodeEmployeeRequired, verr.Failures[0].Code)
	assert.Empty(t, snap.Error(FieldInvoice))
	assert.NotNil(t, snap.Artifact, "artifact is kept for the next attempt")
	assert.Equal(t, 0, eng.Calls())
}

func TestSubmit_Resolves(t *testing.T) {
	eng := &mockEngine{}
	pub := &recordingPublisher{}
	s := readySession(t, eng, WithPublisher(pub))

	snap, err := s.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, workflow.StateResolved, snap.State)
	assert.Equal(t, uint64(1), snap.Cycle)
	require.NotNil(t, snap.Outcome)
	assert.Equal(t, entity.StatusApproved, snap.Outcome.Status())
	assert.Empty(t, snap.Errors)

	require.Len(t, eng.requests, 1)
	assert.Equal(t, testEmployee.ID, eng.requests[0].EmployeeID)
	assert.Equal(t, "receipt.pdf", eng.requests[0].Artifact.FileName())

	require.Equal(t, []event.Type{event.TypeSubmissionResolved}, pub.Types())
	evt := pub.events[0]
	assert.Equal(t, "session-1", evt.SessionID)
	assert.Equal(t, "Alice Smith", evt.GetPayloadString(event.KeyEmployeeName))
	outcome, ok := evt.Get(event.KeyOutcome)
	require.True(t, ok)
	assert.Equal(t, "req-1", outcome.(entity.Outcome).Details().RequestID)
}

func TestSubmit_RejectedWithoutCategoryResolves(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"id": "req-7",
			"status": "rejected",
			"amount": "500",
			"category_name": null,
			"rejection_reason": "Exceeds monthly limit"
		}`)
	}))
	defer srv.Close()

	client := engine.NewClient(engine.Config{BaseURL: srv.URL, Timeout: 5 * time.Second}, zap.NewNop())
	s := readySession(t, client)

	snap, err := s.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, workflow.StateResolved, snap.State)
	assert.Empty(t, snap.Errors)
	rejected, ok := snap.Outcome.(entity.Rejected)
	require.True(t, ok, "expected Rejected, got %T", snap.Outcome)
	assert.Nil(t, rejected.Category)
	assert.Equal(t, "Exceeds monthly limit", rejected.Reason)
	assert.Equal(t, "req-7", rejected.RequestID)
}

func TestSelectInvoice_RejectionKeepsStateAndArtifact(t *testing.T) {
	s := readySession(t, &mockEngine{})

	_, err := s.SelectInvoice(upload.Candidate{FileName: "notes.txt", MediaType: "text/plain", Content: []byte("x")})
	var rejected *upload.RejectedError
	require.True(t, errors.As(err, &rejected))

	snap := s.Snapshot()
	assert.Equal(t, workflow.StateIdle, snap.State)
	assert.Equal(t, "Invalid file type. Please upload JPG, PNG, or PDF.", snap.Error(FieldInvoice))
	require.NotNil(t, snap.Artifact)
	assert.Equal(t, "receipt.pdf", snap.Artifact.FileName)

	_, err = s.SelectInvoice(pdfCandidate("second.pdf"))
	require.NoError(t, err)
	snap = s.Snapshot()
	assert.Empty(t, snap.Error(FieldInvoice))
	assert.Equal(t, "second.pdf", snap.Artifact.FileName)
}

func TestSubmit_RefusedWhileInFlight(t *testing.T) {
	eng, started, release := blockingEngine()
	s := readySession(t, eng)

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background())
		done <- err
	}()
	<-started

	snap, err := s.Submit(context.Background())
	assert.ErrorIs(t, err, ErrInFlight)
	assert.True(t, snap.InFlight())
	assert.Equal(t, 1, eng.Calls())

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, workflow.StateResolved, s.Snapshot().State)
	assert.Equal(t, 1, eng.Calls())
}

func TestSubmit_StaleResponseIsDiscarded(t *testing.T) {
	eng, started, release := blockingEngine()
	pub := &recordingPublisher{}
	s := readySession(t, eng, WithPublisher(pub))

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background())
		done <- err
	}()
	<-started

	require.NoError(t, s.StartNew())
	close(release)

	assert.ErrorIs(t, <-done, ErrSuperseded)

	snap := s.Snapshot()
	assert.Equal(t, workflow.StateIdle, snap.State)
	assert.Nil(t, snap.Outcome)
	assert.Nil(t, snap.Employee)
	assert.Nil(t, snap.Artifact)
	assert.Empty(t, snap.Errors)
	assert.Equal(t, uint64(2), snap.Cycle)
	assert.Equal(t, []event.Type{event.TypeSubmissionDiscarded}, pub.Types())
}

func TestSubmit_LateResponseDoesNotTouchNewCycle(t *testing.T) {
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	eng := &mockEngine{}
	eng.submitFn = func(ctx context.Context, req entity.SubmissionRequest) (entity.Outcome, error) {
		if req.Artifact.FileName() == "old.pdf" {
			close(firstStarted)
			<-releaseFirst
			return approvedOutcome("req-old"), nil
		}
		return approvedOutcome("req-new"), nil
	}

	s := NewSession("session-1", eng)
	require.NoError(t, s.SelectEmployee(&testEmployee))
	_, err := s.SelectInvoice(pdfCandidate("old.pdf"))
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background())
		done <- err
	}()
	<-firstStarted

	require.NoError(t, s.StartNew())
	require.NoError(t, s.SelectEmployee(&testEmployee))
	_, err = s.SelectInvoice(pdfCandidate("new.pdf"))
	require.NoError(t, err)

	snap, err := s.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "req-new", snap.Outcome.Details().RequestID)

	close(releaseFirst)
	assert.ErrorIs(t, <-done, ErrSuperseded)
	assert.Equal(t, "req-new", s.Snapshot().Outcome.Details().RequestID)
}

func TestSubmit_EngineFailureMessages(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{"engine detail", &engine.APIError{StatusCode: 400, Detail: "Employee not found"}, "Employee not found"},
		{"wrapped detail", errors.Join(errors.New("context"), &engine.APIError{StatusCode: 400, Detail: "Could not extract amount"}), "Could not extract amount"},
		{"no detail", &engine.APIError{StatusCode: 500}, GenericSubmitMessage},
		{"transport", errors.New("dial tcp: connection refused"), GenericSubmitMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := &mockEngine{submitFn: func(ctx context.Context, req entity.SubmissionRequest) (entity.Outcome, error) {
				return nil, tt.err
			}}
			s := readySession(t, eng)

			snap, err := s.Submit(context.Background())

			var serr *SubmitError
			require.True(t, errors.As(err, &serr))
			assert.Equal(t, tt.message, serr.Message)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, workflow.StateFailed, snap.State)
			assert.Equal(t, tt.message, snap.Error(FieldSubmit))
		})
	}
}

func TestSubmit_RetryAfterFailureReusesInputs(t *testing.T) {
	fail := true
	eng := &mockEngine{}
	eng.submitFn = func(ctx context.Context, req entity.SubmissionRequest) (entity.Outcome, error) {
		if fail {
			return nil, errors.New("timeout")
		}
		return approvedOutcome("req-2"), nil
	}
	s := readySession(t, eng)

	_, err := s.Submit(context.Background())
	require.Error(t, err)

	fail = false
	snap, err := s.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, workflow.StateResolved, snap.State)
	assert.Empty(t, snap.Error(FieldSubmit))
	assert.Equal(t, 2, eng.Calls())
	assert.Equal(t, uint64(2), snap.Cycle)
}

func TestAbandon_ClosesSession(t *testing.T) {
	s := readySession(t, &mockEngine{})
	s.Abandon()

	_, err := s.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.ErrorIs(t, s.SelectEmployee(&testEmployee), ErrSessionClosed)
	assert.ErrorIs(t, s.StartNew(), ErrSessionClosed)

	snap := s.Snapshot()
	assert.Nil(t, snap.Employee)
	assert.Nil(t, snap.Artifact)
}

func TestSelectEmployee_NilClearsSelection(t *testing.T) {
	s := readySession(t, &mockEngine{})
	require.NoError(t, s.SelectEmployee(nil))
	assert.Nil(t, s.Snapshot().Employee)

	require.NoError(t, s.SelectEmployee(&entity.EmployeeRef{}))
	assert.Nil(t, s.Snapshot().Employee)
}

func TestIdleSince(t *testing.T) {
	now := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	s := NewSession("session-1", &mockEngine{}, WithClock(func() time.Time { return now }))

	idle, inFlight := s.IdleSince(now.Add(5 * time.Minute))
	assert.Equal(t, 5*time.Minute, idle)
	assert.False(t, inFlight)
}
