package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/benefit-reimbursement/internal/application/port"
	"github.com/garyjia/benefit-reimbursement/internal/domain/entity"
)

// JournalRepository implements port.JournalRepository on SQLite
type JournalRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewJournalRepository creates a new journal repository
func NewJournalRepository(db *sql.DB, logger *zap.Logger) *JournalRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JournalRepository{
		db:     db,
		logger: logger,
	}
}

// Record inserts a journal entry and fills in its ID and CreatedAt
func (r *JournalRepository) Record(ctx context.Context, entry *entity.JournalEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO submissions (
			session_id, request_id, employee_id, employee_name,
			file_name, status, error_message, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		entry.SessionID,
		nullString(entry.RequestID),
		nullString(entry.EmployeeID),
		nullString(entry.EmployeeName),
		nullString(entry.FileName),
		entry.Status,
		nullString(entry.ErrorMessage),
		entry.CreatedAt.UTC(),
	)
	if err != nil {
		r.logger.Error("Failed to record submission", zap.String("session_id", entry.SessionID), zap.Error(err))
		return fmt.Errorf("failed to record submission: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	entry.ID = id
	return nil
}

// List returns entries newest first
func (r *JournalRepository) List(ctx context.Context, limit, offset int) ([]*entity.JournalEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT id, session_id, request_id, employee_id, employee_name,
			file_name, status, error_message, created_at
		FROM submissions
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list submissions", zap.Error(err))
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	var entries []*entity.JournalEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// GetByRequestID returns the latest entry for an engine request id
func (r *JournalRepository) GetByRequestID(ctx context.Context, requestID string) (*entity.JournalEntry, error) {
	query := `
		SELECT id, session_id, request_id, employee_id, employee_name,
			file_name, status, error_message, created_at
		FROM submissions
		WHERE request_id = ?
		ORDER BY id DESC
		LIMIT 1
	`

	entry, err := scanEntry(r.db.QueryRowContext(ctx, query, requestID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: request %s", port.ErrNotFound, requestID)
	}
	if err != nil {
		r.logger.Error("Failed to get submission", zap.String("request_id", requestID), zap.Error(err))
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return entry, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (*entity.JournalEntry, error) {
	var entry entity.JournalEntry
	var requestID, employeeID, employeeName, fileName, errorMessage sql.NullString

	if err := row.Scan(
		&entry.ID,
		&entry.SessionID,
		&requestID,
		&employeeID,
		&employeeName,
		&fileName,
		&entry.Status,
		&errorMessage,
		&entry.CreatedAt,
	); err != nil {
		return nil, err
	}

	entry.RequestID = requestID.String
	entry.EmployeeID = employeeID.String
	entry.EmployeeName = employeeName.String
	entry.FileName = fileName.String
	entry.ErrorMessage = errorMessage.String
	return &entry, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Verify interface compliance
var _ port.JournalRepository = (*JournalRepository)(nil)
