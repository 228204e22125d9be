package submission

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/benefit-reimbursement/internal/domain/event"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestRegistry_CreateGetRemove(t *testing.T) {
	r := NewRegistry(&mockEngine{}, nil, zap.NewNop(), RegistryConfig{})

	s := r.Create()
	got, err := r.Get(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.Equal(t, 1, r.Len())

	_, err = r.Get("not-a-uuid")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, r.Remove(s.ID()))
	assert.ErrorIs(t, r.Remove(s.ID()), ErrSessionNotFound)
	_, err = r.Get(s.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = s.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestRegistry_SweepExpiresIdleSessions(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)}
	pub := &recordingPublisher{}
	r := NewRegistry(&mockEngine{}, pub, nil, RegistryConfig{TTL: 10 * time.Minute})
	r.now = clock.Now

	stale := r.Create()
	clock.Advance(8 * time.Minute)
	fresh := r.Create()
	clock.Advance(3 * time.Minute)

	assert.Equal(t, 1, r.Sweep())

	_, err := r.Get(stale.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = r.Get(fresh.ID())
	assert.NoError(t, err)
	assert.Equal(t, []event.Type{event.TypeSessionExpired}, pub.Types())
}

func TestRegistry_SweepKeepsInFlightSessions(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)}
	eng, started, release := blockingEngine()
	r := NewRegistry(eng, nil, nil, RegistryConfig{TTL: time.Minute})
	r.now = clock.Now

	s := r.Create()
	require.NoError(t, s.SelectEmployee(&testEmployee))
	_, err := s.SelectInvoice(pdfCandidate("receipt.pdf"))
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background())
		done <- err
	}()
	<-started

	clock.Advance(time.Hour)
	assert.Equal(t, 0, r.Sweep())

	close(release)
	require.NoError(t, <-done)
}

func TestRegistry_RunStopsOnCancel(t *testing.T) {
	r := NewRegistry(&mockEngine{}, nil, nil, RegistryConfig{SweepInterval: 5 * time.Millisecond})
	s := r.Create()

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(stopped)
	}()

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}

	assert.Equal(t, 0, r.Len())
	assert.ErrorIs(t, s.StartNew(), ErrSessionClosed)
}
