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

// BoardRowRepository implements repository.BoardRowRepository for SQLite
type BoardRowRepository struct {
	db *DB
}

// NewBoardRowRepository creates a new BoardRowRepository
func NewBoardRowRepository(db *DB) *BoardRowRepository {
	return &BoardRowRepository{db: db}
}

// InsertRows inserts a full board snapshot in one transaction and returns
// the identifiers the store assigned, in input order.
func (r *BoardRowRepository) InsertRows(ctx context.Context, module string, rows []repository.BoardRow) ([]string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO board_rows (
			id, module, column_id, column_title, column_color,
			column_order, task_data, owner_scope, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	ids := make([]string, 0, len(rows))
	now := time.Now().UTC()
	for _, row := range rows {
		id := uuid.NewString()
		_, err := tx.ExecContext(ctx, query,
			id,
			module,
			row.ColumnID,
			row.ColumnTitle,
			row.ColumnColor,
			row.ColumnOrder,
			row.TaskData,
			nullableScope(row.OwnerScope),
			now,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert board row: %w", err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit board rows: %w", err)
	}
	return ids, nil
}

// DeleteRowsExcept removes every board row of the module not listed in keepIDs.
func (r *BoardRowRepository) DeleteRowsExcept(ctx context.Context, module string, keepIDs []string) error {
	query := `DELETE FROM board_rows WHERE module = ?`
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
		return fmt.Errorf("failed to delete stale board rows: %w", err)
	}
	return nil
}

// ListRows returns the module's board rows ordered by creation time ascending.
func (r *BoardRowRepository) ListRows(ctx context.Context, module string) ([]repository.BoardRow, error) {
	query := `
		SELECT id, module, column_id, column_title, column_color,
		       column_order, task_data, owner_scope, created_at
		FROM board_rows
		WHERE module = ?
		ORDER BY created_at ASC, rowid ASC
	`

	dbRows, err := r.db.QueryContext(ctx, query, module)
	if err != nil {
		return nil, fmt.Errorf("failed to list board rows: %w", err)
	}
	defer dbRows.Close()

	var rows []repository.BoardRow
	for dbRows.Next() {
		var row repository.BoardRow
		var scope sql.NullString
		err := dbRows.Scan(
			&row.ID,
			&row.Module,
			&row.ColumnID,
			&row.ColumnTitle,
			&row.ColumnColor,
			&row.ColumnOrder,
			&row.TaskData,
			&scope,
			&row.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan board row: %w", err)
		}
		row.OwnerScope = scope.String
		rows = append(rows, row)
	}

	if err = dbRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating board rows: %w", err)
	}
	return rows, nil
}
