package collection

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/agencyops/backoffice/internal/repository"
)

// Reload rebuilds the in-memory tree from the remote rows, collapsing the
// duplicates an interrupted save can leave behind.
func (s *Store) Reload(ctx context.Context) error {
	rows, err := s.rows.ListRows(ctx, s.cfg.Module)
	if err != nil {
		return fmt.Errorf("listing rows: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups = buildTree(rows, s.logger)
	return nil
}

// dedupKey is the canonical composite key both reconcilers use to drop
// double-inserted rows.
func dedupKey(bucketID, rowID string) string {
	return bucketID + "\x00" + rowID
}

// buildTree folds creation-ordered rows into a clean group tree.
//
// Rules, in order: a row whose exact remote identifier was already processed
// is dropped; a row whose payload doesn't parse is logged and skipped without
// aborting the load; a placeholder payload materializes its group but never
// surfaces as an item; two rows carrying the same logical item id within a
// group collapse to the later one.
func buildTree(rows []repository.Row, logger *slog.Logger) []Group {
	seen := make(map[string]struct{}, len(rows))
	groups := []Group{}
	groupIdx := make(map[string]int)
	itemIdx := make(map[string]map[string]int)

	for _, row := range rows {
		key := dedupKey(row.GroupID, row.ID)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		var item Item
		if err := json.Unmarshal([]byte(row.ItemData), &item); err != nil {
			logger.Warn("skipping unreadable snapshot row",
				"row_id", row.ID,
				"group_id", row.GroupID,
				"error", err)
			continue
		}

		gi, ok := groupIdx[row.GroupID]
		if !ok {
			gi = len(groups)
			groupIdx[row.GroupID] = gi
			groups = append(groups, Group{Items: []Item{}})
			itemIdx[row.GroupID] = make(map[string]int)
		}
		// Later rows win for group metadata as well, so a snapshot written
		// after a rename supersedes orphans from the one before it.
		groups[gi].ID = row.GroupID
		groups[gi].Name = row.GroupName
		groups[gi].Color = row.GroupColor
		groups[gi].Expanded = row.Expanded

		if item.isPlaceholder() {
			continue
		}

		if ii, exists := itemIdx[row.GroupID][item.ID]; exists {
			groups[gi].Items[ii] = item
		} else {
			itemIdx[row.GroupID][item.ID] = len(groups[gi].Items)
			groups[gi].Items = append(groups[gi].Items, item)
		}
	}

	return groups
}
