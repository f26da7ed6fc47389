package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/agencyops/backoffice/internal/repository"
	"github.com/google/uuid"
)

// RowRepository implements repository.RowRepository for SQLite
type RowRepository struct {
	db *DB
}

// NewRowRepository creates a new RowRepository
func NewRowRepository(db *DB) *RowRepository {
	return &RowRepository{db: db}
}

// InsertRows inserts a full snapshot's rows in one transaction and returns
// the identifiers the store assigned, in input order.
func (r *RowRepository) InsertRows(ctx context.Context, module string, rows []repository.Row) ([]string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO module_rows (
			id, module, group_id, group_name, group_color,
			is_expanded, item_data, owner_scope, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	ids := make([]string, 0, len(rows))
	now := time.Now().UTC()
	for _, row := range rows {
		id := uuid.NewString()
		_, err := tx.ExecContext(ctx, query,
			id,
			module,
			row.GroupID,
			row.GroupName,
			row.GroupColor,
			row.Expanded,
			row.ItemData,
			nullableScope(row.OwnerScope),
			now,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert row: %w", err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit rows: %w", err)
	}
	return ids, nil
}

// DeleteRowsExcept removes every row of the module not listed in keepIDs.
func (r *RowRepository) DeleteRowsExcept(ctx context.Context, module string, keepIDs []string) error {
	query := `DELETE FROM module_rows WHERE module = ?`
	args := []any{module}

	if len(keepIDs) > 0 {
		placeholders := make([]string, len(keepIDs))
		for i, id := range keepIDs {
			placeholders[i] = "?"
			args = append(args, id)
		}
		query += fmt.Sprintf(" AND id NOT IN (%s)", strings.Join(placeholders, ","))
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete stale rows: %w", err)
	}
	return nil
}

// ListRows returns the module's rows ordered by creation time ascending,
// insertion order breaking ties, so replays are deterministic.
func (r *RowRepository) ListRows(ctx context.Context, module string) ([]repository.Row, error) {
	query := `
		SELECT id, module, group_id, group_name, group_color,
		       is_expanded, item_data, owner_scope, created_at
		FROM module_rows
		WHERE module = ?
		ORDER BY created_at ASC, rowid ASC
	`

	dbRows, err := r.db.QueryContext(ctx, query, module)
	if err != nil {
		return nil, fmt.Errorf("failed to list rows: %w", err)
	}
	defer dbRows.Close()

	var rows []repository.Row
	for dbRows.Next() {
		var row repository.Row
		var scope sql.NullString
		err := dbRows.Scan(
			&row.ID,
			&row.Module,
			&row.GroupID,
			&row.GroupName,
			&row.GroupColor,
			&row.Expanded,
			&row.ItemData,
			&scope,
			&row.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		row.OwnerScope = scope.String
		rows = append(rows, row)
	}

	if err = dbRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return rows, nil
}

// nullableScope maps the empty scope to NULL: a null owner means the row is
// part of the shared workspace every user sees.
func nullableScope(scope string) sql.NullString {
	return sql.NullString{String: scope, Valid: scope != ""}
}
