package board

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/agencyops/backoffice/internal/repository"
)

// Reload rebuilds the board from the remote rows, collapsing duplicates and
// restoring a dense column order.
func (e *Engine) Reload(ctx context.Context) error {
	rows, err := e.rows.ListRows(ctx, e.module)
	if err != nil {
		return fmt.Errorf("listing board rows: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.columns = buildBoard(rows, e.logger)
	return nil
}

// buildBoard folds creation-ordered rows into clean columns. The rules match
// the collection reconciler, keyed by column id, with one addition: task ids
// are unique across the whole board, so a later row carrying a known task id
// relocates the task instead of duplicating it.
func buildBoard(rows []repository.BoardRow, logger *slog.Logger) []Column {
	seen := make(map[string]struct{}, len(rows))
	columns := []Column{}
	columnIdx := make(map[string]int)

	for _, row := range rows {
		key := row.ColumnID + "\x00" + row.ID
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		var task Task
		if err := json.Unmarshal([]byte(row.TaskData), &task); err != nil {
			logger.Warn("skipping unreadable board row",
				"row_id", row.ID,
				"column_id", row.ColumnID,
				"error", err)
			continue
		}

		ci, ok := columnIdx[row.ColumnID]
		if !ok {
			ci = len(columns)
			columnIdx[row.ColumnID] = ci
			columns = append(columns, Column{Tasks: []Task{}})
		}
		columns[ci].ID = row.ColumnID
		columns[ci].Title = row.ColumnTitle
		columns[ci].Color = row.ColumnColor
		columns[ci].Order = row.ColumnOrder

		if task.isPlaceholder() {
			continue
		}

		removeTask(columns, task.ID)
		columns[ci].Tasks = append(columns[ci].Tasks, task)
	}

	// Stored order is advisory only: sort by it, keeping first-appearance
	// order for ties, then reassign densely.
	sort.SliceStable(columns, func(a, b int) bool {
		return columns[a].Order < columns[b].Order
	})
	for i := range columns {
		columns[i].Order = i
	}
	return columns
}

func removeTask(columns []Column, taskID string) {
	for ci := range columns {
		for ti, t := range columns[ci].Tasks {
			if t.ID == taskID {
				columns[ci].Tasks = append(columns[ci].Tasks[:ti], columns[ci].Tasks[ti+1:]...)
				return
			}
		}
	}
}
