package repository

import (
	"context"
	"time"

	"github.com/agencyops/backoffice/internal/domain/schema"
)

// Row is one flattened snapshot row of a grouped module. The in-memory tree is
// rebuilt from these on load; the store assigns Row.ID on insert.
type Row struct {
	ID         string
	Module     string
	GroupID    string
	GroupName  string
	GroupColor string
	Expanded   bool
	ItemData   string
	OwnerScope string
	CreatedAt  time.Time
}

// BoardRow mirrors Row for the task board, keyed by column instead of group.
type BoardRow struct {
	ID          string
	Module      string
	ColumnID    string
	ColumnTitle string
	ColumnColor string
	ColumnOrder int
	TaskData    string
	OwnerScope  string
	CreatedAt   time.Time
}

// RowRepository persists module snapshot rows.
//
// InsertRows returns the identifiers the store assigned, in input order.
// DeleteRowsExcept removes every row of the module whose id is not listed;
// together they implement the insert-before-delete snapshot replacement.
type RowRepository interface {
	InsertRows(ctx context.Context, module string, rows []Row) ([]string, error)
	DeleteRowsExcept(ctx context.Context, module string, keepIDs []string) error
	ListRows(ctx context.Context, module string) ([]Row, error)
}

// BoardRowRepository persists task board snapshot rows.
type BoardRowRepository interface {
	InsertRows(ctx context.Context, module string, rows []BoardRow) ([]string, error)
	DeleteRowsExcept(ctx context.Context, module string, keepIDs []string) error
	ListRows(ctx context.Context, module string) ([]BoardRow, error)
}

// ConfigRepository persists user-defined columns and statuses, keyed by module.
type ConfigRepository interface {
	InsertColumn(ctx context.Context, module string, col schema.Column) error
	UpdateColumn(ctx context.Context, module string, col schema.Column) error
	DeleteColumn(ctx context.Context, module, id string) error
	ListColumns(ctx context.Context, module string) ([]schema.Column, error)

	InsertStatus(ctx context.Context, module string, st schema.Status) error
	UpdateStatus(ctx context.Context, module string, st schema.Status) error
	DeleteStatus(ctx context.Context, module, id string) error
	ListStatuses(ctx context.Context, module string) ([]schema.Status, error)
}
