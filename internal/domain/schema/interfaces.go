package schema

import "context"

// ConfigRepository provides persistence for column and status definitions.
type ConfigRepository interface {
	InsertColumn(ctx context.Context, module string, col Column) error
	UpdateColumn(ctx context.Context, module string, col Column) error
	DeleteColumn(ctx context.Context, module, id string) error
	ListColumns(ctx context.Context, module string) ([]Column, error)

	InsertStatus(ctx context.Context, module string, st Status) error
	UpdateStatus(ctx context.Context, module string, st Status) error
	DeleteStatus(ctx context.Context, module, id string) error
	ListStatuses(ctx context.Context, module string) ([]Status, error)
}

// ColumnCascader strips a deleted column's field from every stored item and
// re-saves the module. Implemented by the collection store.
type ColumnCascader interface {
	StripField(ctx context.Context, columnID string) error
}
