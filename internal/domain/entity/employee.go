package entity

import (
	"fmt"

	"github.com/google/uuid"
)

// EmployeeRef identifies the employee a reimbursement is filed for.
// Values are immutable once handed out by the directory.
type EmployeeRef struct {
	ID           uuid.UUID `json:"id"`
	DisplayName  string    `json:"name"`
	ExternalCode string    `json:"employee_id"`
}

// Label returns the "Name (CODE)" form used by selectors and result views.
func (e EmployeeRef) Label() string {
	return fmt.Sprintf("%s (%s)", e.DisplayName, e.ExternalCode)
}

// IsZero reports whether no employee is referenced.
func (e EmployeeRef) IsZero() bool {
	return e.ID == uuid.Nil
}
