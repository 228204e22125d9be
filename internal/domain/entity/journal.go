package entity

import "time"

// JournalStatusFailed marks a journal entry for a cycle that never resolved
const JournalStatusFailed = "failed"

// JournalEntry is the local record of one submission attempt
type JournalEntry struct {
	ID           int64     `json:"id"`
	SessionID    string    `json:"session_id"`
	RequestID    string    `json:"request_id,omitempty"`
	EmployeeID   string    `json:"employee_id,omitempty"`
	EmployeeName string    `json:"employee_name,omitempty"`
	FileName     string    `json:"file_name,omitempty"`
	Status       string    `json:"status"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
