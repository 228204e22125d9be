package upload

import (
	"sync"

	"github.com/garyjia/benefit-reimbursement/internal/domain/entity"
)

// Slot holds at most one current invoice artifact. A new valid selection
// replaces the previous one wholesale.
type Slot struct {
	mu      sync.RWMutex
	current entity.InvoiceArtifact
	set     bool
}

// Offer validates c and, when accepted, makes it the current artifact.
// A rejected candidate leaves the slot untouched.
func (s *Slot) Offer(c Candidate) (entity.InvoiceArtifact, error) {
	artifact, err := Validate(c)
	if err != nil {
		return entity.InvoiceArtifact{}, err
	}

	s.Put(artifact)
	return artifact, nil
}

// Put replaces the current artifact
func (s *Slot) Put(a entity.InvoiceArtifact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = a
	s.set = true
}

// Current returns the current artifact and whether one is set
func (s *Slot) Current() (entity.InvoiceArtifact, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.set
}

// Clear discards the current artifact
func (s *Slot) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = entity.InvoiceArtifact{}
	s.set = false
}
