package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/agencyops/backoffice/internal/domain/schema"
	"github.com/agencyops/backoffice/internal/repository"
)

// ConfigRepository implements repository.ConfigRepository for SQLite
type ConfigRepository struct {
	db *DB
}

// NewConfigRepository creates a new ConfigRepository
func NewConfigRepository(db *DB) *ConfigRepository {
	return &ConfigRepository{db: db}
}

// InsertColumn inserts a column definition
func (r *ConfigRepository) InsertColumn(ctx context.Context, module string, col schema.Column) error {
	query := `
		INSERT INTO column_config (column_id, column_name, column_type, module, is_default, owner_scope)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		col.ID, col.Name, col.Type, module, col.IsDefault, nullableScope(col.OwnerScope))
	if err != nil {
		return fmt.Errorf("failed to insert column: %w", err)
	}
	return nil
}

// UpdateColumn updates a column definition
func (r *ConfigRepository) UpdateColumn(ctx context.Context, module string, col schema.Column) error {
	query := `
		UPDATE column_config
		SET column_name = ?, column_type = ?
		WHERE column_id = ? AND module = ?
	`
	result, err := r.db.ExecContext(ctx, query, col.Name, col.Type, col.ID, module)
	if err != nil {
		return fmt.Errorf("failed to update column: %w", err)
	}
	return requireAffected(result)
}

// DeleteColumn deletes a column definition
func (r *ConfigRepository) DeleteColumn(ctx context.Context, module, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM column_config WHERE column_id = ? AND module = ?`, id, module)
	if err != nil {
		return fmt.Errorf("failed to delete column: %w", err)
	}
	return requireAffected(result)
}

// ListColumns returns the module's column definitions in creation order
func (r *ConfigRepository) ListColumns(ctx context.Context, module string) ([]schema.Column, error) {
	query := `
		SELECT column_id, column_name, column_type, is_default, owner_scope
		FROM column_config
		WHERE module = ?
		ORDER BY created_at ASC, rowid ASC
	`
	rows, err := r.db.QueryContext(ctx, query, module)
	if err != nil {
		return nil, fmt.Errorf("failed to list columns: %w", err)
	}
	defer rows.Close()

	var columns []schema.Column
	for rows.Next() {
		var col schema.Column
		var scope sql.NullString
		if err := rows.Scan(&col.ID, &col.Name, &col.Type, &col.IsDefault, &scope); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		col.OwnerScope = scope.String
		columns = append(columns, col)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating columns: %w", err)
	}
	return columns, nil
}

// InsertStatus inserts a status definition
func (r *ConfigRepository) InsertStatus(ctx context.Context, module string, st schema.Status) error {
	query := `
		INSERT INTO status_config (status_id, status_name, status_color, module, owner_scope)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		st.ID, st.Name, st.Color, module, nullableScope(st.OwnerScope))
	if err != nil {
		return fmt.Errorf("failed to insert status: %w", err)
	}
	return nil
}

// UpdateStatus updates a status definition
func (r *ConfigRepository) UpdateStatus(ctx context.Context, module string, st schema.Status) error {
	query := `
		UPDATE status_config
		SET status_name = ?, status_color = ?
		WHERE status_id = ? AND module = ?
	`
	result, err := r.db.ExecContext(ctx, query, st.Name, st.Color, st.ID, module)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	return requireAffected(result)
}

// DeleteStatus deletes a status definition
func (r *ConfigRepository) DeleteStatus(ctx context.Context, module, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM status_config WHERE status_id = ? AND module = ?`, id, module)
	if err != nil {
		return fmt.Errorf("failed to delete status: %w", err)
	}
	return requireAffected(result)
}

// ListStatuses returns the module's status definitions in creation order
func (r *ConfigRepository) ListStatuses(ctx context.Context, module string) ([]schema.Status, error) {
	query := `
		SELECT status_id, status_name, status_color, owner_scope
		FROM status_config
		WHERE module = ?
		ORDER BY created_at ASC, rowid ASC
	`
	rows, err := r.db.QueryContext(ctx, query, module)
	if err != nil {
		return nil, fmt.Errorf("failed to list statuses: %w", err)
	}
	defer rows.Close()

	var statuses []schema.Status
	for rows.Next() {
		var st schema.Status
		var scope sql.NullString
		if err := rows.Scan(&st.ID, &st.Name, &st.Color, &scope); err != nil {
			return nil, fmt.Errorf("failed to scan status: %w", err)
		}
		st.OwnerScope = scope.String
		statuses = append(statuses, st)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating statuses: %w", err)
	}
	return statuses, nil
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
