package port

import (
	"context"
	"errors"

	"github.com/garyjia/benefit-reimbursement/internal/domain/entity"
)

// ErrNotFound is returned by repositories when no row matches
var ErrNotFound = errors.New("record not found")

// JournalRepository defines persistence operations for the submission journal
type JournalRepository interface {
	Record(ctx context.Context, entry *entity.JournalEntry) error
	// List returns the newest entries first
	List(ctx context.Context, limit, offset int) ([]*entity.JournalEntry, error)
	GetByRequestID(ctx context.Context, requestID string) (*entity.JournalEntry, error)
}
