package schema

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Registry holds the live schema of one module. Every mutation goes to the
// config store first; in-memory state only changes after the remote call
// succeeds, so a failed call leaves the registry untouched.
type Registry struct {
	module   string
	cfg      ConfigRepository
	cascader ColumnCascader
	logger   *slog.Logger

	mu       sync.RWMutex
	columns  []Column
	statuses []Status
}

// NewRegistry creates a registry for one module.
func NewRegistry(module string, cfg ConfigRepository, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		module: module,
		cfg:    cfg,
		logger: logger.With("module", module),
	}
}

// SetCascader wires the collection store that column deletions cascade into.
// Set after construction because the store itself depends on the registry.
func (r *Registry) SetCascader(c ColumnCascader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cascader = c
}

// Module returns the owning module name.
func (r *Registry) Module() string {
	return r.module
}

// Load replaces in-memory state with the remote config rows.
func (r *Registry) Load(ctx context.Context) error {
	columns, err := r.cfg.ListColumns(ctx, r.module)
	if err != nil {
		return fmt.Errorf("loading columns: %w", err)
	}
	statuses, err := r.cfg.ListStatuses(ctx, r.module)
	if err != nil {
		return fmt.Errorf("loading statuses: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.columns = columns
	r.statuses = statuses
	return nil
}

// AddColumn defines a new column.
func (r *Registry) AddColumn(ctx context.Context, name string, typ ColumnType) (Column, error) {
	name = strings.TrimSpace(name)
	if name == "" || !typ.Valid() {
		return Column{}, ErrInvalidInput
	}

	col := Column{
		ID:   uuid.NewString(),
		Name: name,
		Type: typ,
	}
	if err := r.cfg.InsertColumn(ctx, r.module, col); err != nil {
		return Column{}, fmt.Errorf("inserting column: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.columns = append(r.columns, col)
	return col, nil
}

// UpdateColumn applies a partial update to a column.
func (r *Registry) UpdateColumn(ctx context.Context, id string, patch ColumnPatch) (Column, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.columnIndex(id)
	if idx < 0 {
		return Column{}, ErrColumnNotFound
	}

	updated := r.columns[idx]
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return Column{}, ErrInvalidInput
		}
		updated.Name = name
	}
	if patch.Type != nil {
		if !patch.Type.Valid() {
			return Column{}, ErrInvalidInput
		}
		updated.Type = *patch.Type
	}

	if err := r.cfg.UpdateColumn(ctx, r.module, updated); err != nil {
		return Column{}, fmt.Errorf("updating column: %w", err)
	}
	r.columns[idx] = updated
	return updated, nil
}

// DeleteColumn removes a column definition, then strips the column's field
// from every stored item of the module.
func (r *Registry) DeleteColumn(ctx context.Context, id string) error {
	r.mu.Lock()
	idx := r.columnIndex(id)
	if idx < 0 {
		r.mu.Unlock()
		return ErrColumnNotFound
	}

	if err := r.cfg.DeleteColumn(ctx, r.module, id); err != nil {
		r.mu.Unlock()
		return fmt.Errorf("deleting column: %w", err)
	}
	r.columns = append(r.columns[:idx], r.columns[idx+1:]...)
	cascader := r.cascader
	r.mu.Unlock()

	if cascader != nil {
		if err := cascader.StripField(ctx, id); err != nil {
			return fmt.Errorf("stripping column field: %w", err)
		}
	}
	return nil
}

// AddStatus defines a new status value.
func (r *Registry) AddStatus(ctx context.Context, name, color string) (Status, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Status{}, ErrInvalidInput
	}

	st := Status{
		ID:    uuid.NewString(),
		Name:  name,
		Color: color,
	}
	if err := r.cfg.InsertStatus(ctx, r.module, st); err != nil {
		return Status{}, fmt.Errorf("inserting status: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, st)
	return st, nil
}

// UpdateStatus applies a partial update to a status.
func (r *Registry) UpdateStatus(ctx context.Context, id string, patch StatusPatch) (Status, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.statusIndex(id)
	if idx < 0 {
		return Status{}, ErrStatusNotFound
	}

	updated := r.statuses[idx]
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return Status{}, ErrInvalidInput
		}
		updated.Name = name
	}
	if patch.Color != nil {
		updated.Color = *patch.Color
	}

	if err := r.cfg.UpdateStatus(ctx, r.module, updated); err != nil {
		return Status{}, fmt.Errorf("updating status: %w", err)
	}
	r.statuses[idx] = updated
	return updated, nil
}

// DeleteStatus removes a status value. Items referencing it are left alone;
// the stale reference resolves to Unselected at read time.
func (r *Registry) DeleteStatus(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.statusIndex(id)
	if idx < 0 {
		return ErrStatusNotFound
	}

	if err := r.cfg.DeleteStatus(ctx, r.module, id); err != nil {
		return fmt.Errorf("deleting status: %w", err)
	}
	r.statuses = append(r.statuses[:idx], r.statuses[idx+1:]...)
	return nil
}

// Columns returns a copy of the current column definitions.
func (r *Registry) Columns() []Column {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Column, len(r.columns))
	copy(out, r.columns)
	return out
}

// Statuses returns a copy of the current status definitions.
func (r *Registry) Statuses() []Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Status, len(r.statuses))
	copy(out, r.statuses)
	return out
}

// Column looks up a column by id.
func (r *Registry) Column(id string) (Column, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if idx := r.columnIndex(id); idx >= 0 {
		return r.columns[idx], true
	}
	return Column{}, false
}

// HasStatus reports whether a status id currently exists.
func (r *Registry) HasStatus(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.statusIndex(id) >= 0
}

// ResolveStatus maps a stored status reference to its definition. Empty or
// stale references come back as Unselected.
func (r *Registry) ResolveStatus(id string) Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if idx := r.statusIndex(id); idx >= 0 {
		return r.statuses[idx]
	}
	return Unselected
}

func (r *Registry) columnIndex(id string) int {
	for i, col := range r.columns {
		if col.ID == id {
			return i
		}
	}
	return -1
}

func (r *Registry) statusIndex(id string) int {
	for i, st := range r.statuses {
		if st.ID == id {
			return i
		}
	}
	return -1
}
