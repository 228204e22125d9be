// Package directory caches the employee listing the engine exposes and
// resolves selections against it.
package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/garyjia/benefit-reimbursement/internal/domain/entity"
)

var (
	// ErrNoSelection means no employee was chosen. It is a valid state.
	ErrNoSelection = errors.New("no employee selected")
	// ErrNotFound means the identifier is not in the loaded listing.
	ErrNotFound = errors.New("employee not found")
	// ErrNotLoaded is returned by lookups before the first successful Load.
	ErrNotLoaded = errors.New("employee directory not loaded")
)

// Source supplies the employee listing
type Source interface {
	ListEmployees(ctx context.Context) ([]entity.EmployeeRef, error)
}

// Option is one entry of the selector
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Directory is the read-only employee listing shared by all sessions
type Directory struct {
	source Source
	logger *zap.Logger

	mu        sync.RWMutex
	loaded    bool
	employees []entity.EmployeeRef
	byID      map[uuid.UUID]int
	byCode    map[string]int
}

// New creates a directory backed by source
func New(source Source, logger *zap.Logger) *Directory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Directory{
		source: source,
		logger: logger,
	}
}

// Load fetches the listing once. Later calls are no-ops until Refresh.
// A failed fetch leaves the directory unloaded so the next Load retries.
func (d *Directory) Load(ctx context.Context) error {
	d.mu.RLock()
	loaded := d.loaded
	d.mu.RUnlock()
	if loaded {
		return nil
	}
	return d.fetch(ctx, false)
}

// Refresh refetches the listing unconditionally
func (d *Directory) Refresh(ctx context.Context) error {
	return d.fetch(ctx, true)
}

func (d *Directory) fetch(ctx context.Context, force bool) error {
	employees, err := d.source.ListEmployees(ctx)
	if err != nil {
		return fmt.Errorf("failed to load employees: %w", err)
	}

	byID := make(map[uuid.UUID]int, len(employees))
	byCode := make(map[string]int, len(employees))
	for i, e := range employees {
		byID[e.ID] = i
		if e.ExternalCode != "" {
			byCode[strings.ToUpper(e.ExternalCode)] = i
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.loaded && !force {
		return nil
	}
	d.employees = employees
	d.byID = byID
	d.byCode = byCode
	d.loaded = true

	d.logger.Info("Employee directory loaded", zap.Int("count", len(employees)))
	return nil
}

// Loaded reports whether a listing is available
func (d *Directory) Loaded() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loaded
}

// Resolve picks the employee with the given identifier. An empty identifier
// yields ErrNoSelection.
func (d *Directory) Resolve(id string) (entity.EmployeeRef, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entity.EmployeeRef{}, ErrNoSelection
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return entity.EmployeeRef{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if !d.loaded {
		return entity.EmployeeRef{}, ErrNotLoaded
	}

	i, ok := d.byID[parsed]
	if !ok {
		return entity.EmployeeRef{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return d.employees[i], nil
}

// ResolveCode picks the employee by external code, case-insensitively
func (d *Directory) ResolveCode(code string) (entity.EmployeeRef, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return entity.EmployeeRef{}, ErrNoSelection
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if !d.loaded {
		return entity.EmployeeRef{}, ErrNotLoaded
	}

	i, ok := d.byCode[strings.ToUpper(code)]
	if !ok {
		return entity.EmployeeRef{}, fmt.Errorf("%w: %s", ErrNotFound, code)
	}
	return d.employees[i], nil
}

// Lookup accepts either a UUID or an external code
func (d *Directory) Lookup(key string) (entity.EmployeeRef, error) {
	if _, err := uuid.Parse(strings.TrimSpace(key)); err == nil {
		return d.Resolve(key)
	}
	return d.ResolveCode(key)
}

// List returns a copy of the listing in directory order
func (d *Directory) List() []entity.EmployeeRef {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]entity.EmployeeRef, len(d.employees))
	copy(out, d.employees)
	return out
}

// Options returns selector entries labelled "Name (CODE)"
func (d *Directory) Options() []Option {
	employees := d.List()
	options := make([]Option, 0, len(employees))
	for _, e := range employees {
		options = append(options, Option{Value: e.ID.String(), Label: e.Label()})
	}
	return options
}
