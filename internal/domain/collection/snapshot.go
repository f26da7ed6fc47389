package collection

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/agencyops/backoffice/internal/repository"
)

// save replaces the module's remote row set with the current tree.
//
// New rows are inserted first and the old ones deleted afterwards, excluding
// the identifiers the store just assigned, so a live reader never sees an
// empty module between the two steps. A failed insert aborts with the old
// snapshot intact; a failed delete leaves stale rows behind, which the next
// reconciliation collapses.
//
// Callers must hold s.mu.
func (s *Store) save(ctx context.Context) error {
	rows, err := flatten(s.cfg.Module, s.groups)
	if err != nil {
		return fmt.Errorf("flattening snapshot: %w", err)
	}

	inserted, err := s.rows.InsertRows(ctx, s.cfg.Module, rows)
	if err != nil {
		return fmt.Errorf("inserting snapshot rows: %w", err)
	}

	if err := s.rows.DeleteRowsExcept(ctx, s.cfg.Module, inserted); err != nil {
		s.logger.Warn("stale snapshot rows left behind",
			"error", err,
			"inserted", len(inserted))
	}
	return nil
}

// flatten turns the tree into one remote row per item. A group with no items
// yields a single placeholder row so the group survives a reload.
func flatten(module string, groups []Group) ([]repository.Row, error) {
	var rows []repository.Row
	for _, g := range groups {
		items := g.Items
		if len(items) == 0 {
			items = []Item{{}}
		}
		for _, it := range items {
			payload, err := json.Marshal(it)
			if err != nil {
				return nil, fmt.Errorf("encoding item %q: %w", it.ID, err)
			}
			rows = append(rows, repository.Row{
				Module:     module,
				GroupID:    g.ID,
				GroupName:  g.Name,
				GroupColor: g.Color,
				Expanded:   g.Expanded,
				ItemData:   string(payload),
			})
		}
	}
	return rows, nil
}
