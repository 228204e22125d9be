package submission

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/garyjia/benefit-reimbursement/internal/application/dispatcher"
	"github.com/garyjia/benefit-reimbursement/internal/domain/event"
)

// ErrSessionNotFound is returned for unknown or expired session ids
var ErrSessionNotFound = errors.New("submission session not found")

// RegistryConfig controls session expiry
type RegistryConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

// Registry owns the live sessions of a process, one per user session
type Registry struct {
	engine    Submitter
	publisher dispatcher.Publisher
	logger    *zap.Logger
	config    RegistryConfig
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewRegistry creates an empty registry
func NewRegistry(engine Submitter, publisher dispatcher.Publisher, logger *zap.Logger, config RegistryConfig) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.TTL <= 0 {
		config.TTL = 30 * time.Minute
	}
	if config.SweepInterval <= 0 {
		config.SweepInterval = time.Minute
	}

	return &Registry{
		engine:    engine,
		publisher: publisher,
		logger:    logger,
		config:    config,
		now:       time.Now,
		sessions:  make(map[uuid.UUID]*Session),
	}
}

// Create starts a new idle session
func (r *Registry) Create() *Session {
	id := uuid.New()
	opts := []Option{WithLogger(r.logger), WithClock(r.now)}
	if r.publisher != nil {
		opts = append(opts, WithPublisher(r.publisher))
	}
	s := NewSession(id.String(), r.engine, opts...)

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()

	r.logger.Info("Session created", zap.String("session_id", s.ID()))
	return s
}

// Get looks up a session by id
func (r *Registry) Get(id string) (*Session, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	r.mu.RLock()
	s, ok := r.sessions[parsed]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Remove abandons and forgets a session
func (r *Registry) Remove(id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return ErrSessionNotFound
	}

	r.mu.Lock()
	s, ok := r.sessions[parsed]
	delete(r.sessions, parsed)
	r.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	s.Abandon()
	r.logger.Info("Session removed", zap.String("session_id", id))
	return nil
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep abandons sessions idle for longer than the TTL. Sessions waiting on
// the engine are kept. It returns the number of sessions removed.
func (r *Registry) Sweep() int {
	now := r.now()

	r.mu.Lock()
	var expired []*Session
	for id, s := range r.sessions {
		idle, inFlight := s.IdleSince(now)
		if inFlight || idle <= r.config.TTL {
			continue
		}
		expired = append(expired, s)
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	for _, s := range expired {
		s.Abandon()
		if r.publisher != nil {
			r.publisher.DispatchAsync(context.Background(), event.NewEvent(event.TypeSessionExpired, s.ID(), nil))
		}
	}

	if len(expired) > 0 {
		r.logger.Info("Expired idle sessions", zap.Int("count", len(expired)))
	}
	return len(expired)
}

// Run sweeps on every interval until ctx is done, then abandons all sessions
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.closeAll()
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

func (r *Registry) closeAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[uuid.UUID]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Abandon()
	}
	r.logger.Info("Session registry stopped", zap.Int("abandoned", len(sessions)))
}
