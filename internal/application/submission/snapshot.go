package submission

import (
	"time"

	"github.com/garyjia/benefit-reimbursement/internal/domain/entity"
	"github.com/garyjia/benefit-reimbursement/internal/domain/workflow"
)

// Snapshot is an immutable copy of a session's observable state
type Snapshot struct {
	SessionID string               `json:"session_id"`
	State     workflow.State       `json:"state"`
	Cycle     uint64               `json:"cycle"`
	Employee  *entity.EmployeeRef  `json:"employee,omitempty"`
	Artifact  *entity.ArtifactInfo `json:"artifact,omitempty"`
	Outcome   entity.Outcome       `json:"-"`
	Errors    map[string]string    `json:"errors,omitempty"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// InFlight reports whether a request is outstanding
func (s Snapshot) InFlight() bool {
	return s.State == workflow.StateSubmitting
}

// Error returns the message recorded for field, if any
func (s Snapshot) Error(field string) string {
	return s.Errors[field]
}
