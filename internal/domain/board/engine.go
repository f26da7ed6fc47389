package board

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/agencyops/backoffice/internal/repository"
	"github.com/google/uuid"
)

// Engine holds the in-memory board of one module and keeps the remote row
// set matching it. Like the collection store, every mutation runs under one
// writer lock and ends with a full-snapshot save.
type Engine struct {
	module string
	rows   repository.BoardRowRepository
	logger *slog.Logger

	mu      sync.Mutex
	columns []Column
}

// NewEngine creates a board engine for one module.
func NewEngine(module string, rows repository.BoardRowRepository, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		module: module,
		rows:   rows,
		logger: logger.With("module", module),
	}
}

// Module returns the owning module name.
func (e *Engine) Module() string {
	return e.module
}

// Columns returns a deep copy of the current board.
func (e *Engine) Columns() []Column {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Column, len(e.columns))
	for i, c := range e.columns {
		out[i] = c.clone()
	}
	return out
}

// EnsureDefaults seeds the standard columns when the board is empty.
func (e *Engine) EnsureDefaults(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.columns) > 0 {
		return nil
	}
	for i, def := range DefaultColumns {
		e.columns = append(e.columns, Column{
			ID:    uuid.NewString(),
			Title: def.Title,
			Color: def.Color,
			Order: i,
			Tasks: []Task{},
		})
	}
	return e.save(ctx)
}

// AddColumn appends a new empty column.
func (e *Engine) AddColumn(ctx context.Context, title, color string) (Column, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Column{}, ErrInvalidInput
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	col := Column{
		ID:    uuid.NewString(),
		Title: title,
		Color: color,
		Order: len(e.columns),
		Tasks: []Task{},
	}
	e.columns = append(e.columns, col)
	if err := e.save(ctx); err != nil {
		return Column{}, err
	}
	return col.clone(), nil
}

// UpdateColumn applies a partial update to a column.
func (e *Engine) UpdateColumn(ctx context.Context, id string, patch ColumnPatch) (Column, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.columnIndex(id)
	if idx < 0 {
		return Column{}, ErrColumnNotFound
	}

	col := &e.columns[idx]
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return Column{}, ErrInvalidInput
		}
		col.Title = title
	}
	if patch.Color != nil {
		col.Color = *patch.Color
	}

	if err := e.save(ctx); err != nil {
		return Column{}, err
	}
	return col.clone(), nil
}

// DeleteColumn removes a column and every task inside it.
func (e *Engine) DeleteColumn(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.columnIndex(id)
	if idx < 0 {
		return ErrColumnNotFound
	}
	e.columns = append(e.columns[:idx], e.columns[idx+1:]...)
	e.renumber()
	return e.save(ctx)
}

// ReorderColumn swaps a column with its neighbor. Moving past either end is
// a no-op. Order values are reassigned densely after any swap; stored order
// is never trusted without that reassignment.
func (e *Engine) ReorderColumn(ctx context.Context, id string, dir Direction) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.columnIndex(id)
	if idx < 0 {
		return ErrColumnNotFound
	}

	target, ok := neighborIndex(idx, len(e.columns), dir)
	if !ok {
		return nil
	}
	e.columns[idx], e.columns[target] = e.columns[target], e.columns[idx]
	e.renumber()
	return e.save(ctx)
}

// AddTask appends a task to a column.
func (e *Engine) AddTask(ctx context.Context, columnID string, draft Task) (Task, error) {
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return Task{}, ErrInvalidInput
	}
	if draft.Priority == "" {
		draft.Priority = PriorityMedium
	}
	if !draft.Priority.Valid() {
		return Task{}, ErrInvalidInput
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.columnIndex(columnID)
	if idx < 0 {
		return Task{}, ErrColumnNotFound
	}

	task := draft.clone()
	task.ID = uuid.NewString()
	task.Title = title
	e.columns[idx].Tasks = append(e.columns[idx].Tasks, task)

	if err := e.save(ctx); err != nil {
		return Task{}, err
	}
	return task.clone(), nil
}

// UpdateTask applies a partial update to a task wherever it lives.
func (e *Engine) UpdateTask(ctx context.Context, taskID string, patch TaskPatch) (Task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ci, ti := e.taskIndex(taskID)
	if ci < 0 {
		return Task{}, ErrTaskNotFound
	}
	task := &e.columns[ci].Tasks[ti]

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return Task{}, ErrInvalidInput
		}
		task.Title = title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Priority != nil {
		if !patch.Priority.Valid() {
			return Task{}, ErrInvalidInput
		}
		task.Priority = *patch.Priority
	}
	if patch.Assignee != nil {
		task.Assignee = *patch.Assignee
	}
	if patch.DueDate != nil {
		task.DueDate = *patch.DueDate
	}
	if patch.Tags != nil {
		task.Tags = append([]string(nil), *patch.Tags...)
	}
	if patch.Attachments != nil {
		task.Attachments = append(task.Attachments[:0:0], *patch.Attachments...)
	}

	if err := e.save(ctx); err != nil {
		return Task{}, err
	}
	return task.clone(), nil
}

// DeleteTask removes a task from its owning column.
func (e *Engine) DeleteTask(ctx context.Context, taskID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ci, ti := e.taskIndex(taskID)
	if ci < 0 {
		return ErrTaskNotFound
	}
	tasks := e.columns[ci].Tasks
	e.columns[ci].Tasks = append(tasks[:ti], tasks[ti+1:]...)
	return e.save(ctx)
}

// ReorderTask swaps a task with its neighbor inside the given column. Moving
// past either end is a no-op.
func (e *Engine) ReorderTask(ctx context.Context, taskID, columnID string, dir Direction) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ci := e.columnIndex(columnID)
	if ci < 0 {
		return ErrColumnNotFound
	}
	tasks := e.columns[ci].Tasks
	ti := -1
	for i, t := range tasks {
		if t.ID == taskID {
			ti = i
			break
		}
	}
	if ti < 0 {
		return ErrTaskNotFound
	}

	target, ok := neighborIndex(ti, len(tasks), dir)
	if !ok {
		return nil
	}
	tasks[ti], tasks[target] = tasks[target], tasks[ti]
	return e.save(ctx)
}

// MoveTask splices a task out of one column and into another at destIndex,
// clamped to the destination length. The task keeps its identity.
func (e *Engine) MoveTask(ctx context.Context, taskID, fromColumnID, toColumnID string, destIndex int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	from := e.columnIndex(fromColumnID)
	to := e.columnIndex(toColumnID)
	if from < 0 || to < 0 {
		return ErrColumnNotFound
	}

	ti := -1
	for i, t := range e.columns[from].Tasks {
		if t.ID == taskID {
			ti = i
			break
		}
	}
	if ti < 0 {
		return ErrTaskNotFound
	}

	task := e.columns[from].Tasks[ti]
	e.columns[from].Tasks = append(e.columns[from].Tasks[:ti], e.columns[from].Tasks[ti+1:]...)

	dest := e.columns[to].Tasks
	if destIndex < 0 {
		destIndex = 0
	}
	if destIndex > len(dest) {
		destIndex = len(dest)
	}
	dest = append(dest, Task{})
	copy(dest[destIndex+1:], dest[destIndex:])
	dest[destIndex] = task
	e.columns[to].Tasks = dest

	return e.save(ctx)
}

// renumber reassigns dense 0-based order values from list position.
func (e *Engine) renumber() {
	for i := range e.columns {
		e.columns[i].Order = i
	}
}

func neighborIndex(idx, length int, dir Direction) (int, bool) {
	switch dir {
	case DirectionUp:
		if idx == 0 {
			return 0, false
		}
		return idx - 1, true
	case DirectionDown:
		if idx >= length-1 {
			return 0, false
		}
		return idx + 1, true
	}
	return 0, false
}

func (e *Engine) columnIndex(id string) int {
	for i, c := range e.columns {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (e *Engine) taskIndex(taskID string) (int, int) {
	for ci, c := range e.columns {
		for ti, t := range c.Tasks {
			if t.ID == taskID {
				return ci, ti
			}
		}
	}
	return -1, -1
}
