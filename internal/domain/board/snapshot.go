package board

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/agencyops/backoffice/internal/repository"
)

// save replaces the board's remote row set with the current columns, using
// the same insert-before-delete ordering as the collection store: a failed
// insert aborts with the old snapshot intact, a failed delete only logs.
//
// Callers must hold e.mu.
func (e *Engine) save(ctx context.Context) error {
	rows, err := flatten(e.module, e.columns)
	if err != nil {
		return fmt.Errorf("flattening board snapshot: %w", err)
	}

	inserted, err := e.rows.InsertRows(ctx, e.module, rows)
	if err != nil {
		return fmt.Errorf("inserting board rows: %w", err)
	}

	if err := e.rows.DeleteRowsExcept(ctx, e.module, inserted); err != nil {
		e.logger.Warn("stale board rows left behind",
			"error", err,
			"inserted", len(inserted))
	}
	return nil
}

// flatten turns the board into one remote row per task, with a placeholder
// row standing in for each empty column.
func flatten(module string, columns []Column) ([]repository.BoardRow, error) {
	var rows []repository.BoardRow
	for _, col := range columns {
		tasks := col.Tasks
		if len(tasks) == 0 {
			tasks = []Task{{}}
		}
		for _, task := range tasks {
			payload, err := json.Marshal(task)
			if err != nil {
				return nil, fmt.Errorf("encoding task %q: %w", task.ID, err)
			}
			rows = append(rows, repository.BoardRow{
				Module:      module,
				ColumnID:    col.ID,
				ColumnTitle: col.Title,
				ColumnColor: col.Color,
				ColumnOrder: col.Order,
				TaskData:    string(payload),
			})
		}
	}
	return rows, nil
}
