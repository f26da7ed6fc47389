package collection_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/agencyops/backoffice/internal/domain/collection"
	"github.com/agencyops/backoffice/internal/repository"
	"github.com/stretchr/testify/require"
)

// memRows is an in-memory row store honoring the insert-before-delete
// contract, with an optional failing delete step to simulate the interrupted
// saves the reconciler must clean up after.
type memRows struct {
	mu          sync.Mutex
	rows        []repository.Row
	seq         int
	failDeletes bool
}

func (m *memRows) InsertRows(ctx context.Context, module string, rows []repository.Row) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		m.seq++
		row.ID = fmt.Sprintf("row-%d", m.seq)
		row.Module = module
		row.CreatedAt = time.Unix(int64(m.seq), 0)
		m.rows = append(m.rows, row)
		ids = append(ids, row.ID)
	}
	return ids, nil
}

func (m *memRows) DeleteRowsExcept(ctx context.Context, module string, keepIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failDeletes {
		return fmt.Errorf("delete failed")
	}
	keep := make(map[string]bool, len(keepIDs))
	for _, id := range keepIDs {
		keep[id] = true
	}
	var kept []repository.Row
	for _, row := range m.rows {
		if row.Module != module || keep[row.ID] {
			kept = append(kept, row)
		}
	}
	m.rows = kept
	return nil
}

func (m *memRows) ListRows(ctx context.Context, module string) ([]repository.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []repository.Row
	for _, row := range m.rows {
		if row.Module == module {
			out = append(out, row)
		}
	}
	return out, nil
}

func (m *memRows) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func TestRoundTrip_SingleGroupSingleItem(t *testing.T) {
	ctx := context.Background()
	rows := &memRows{}
	store := newTestStore(rows, nil)

	group, err := store.CreateGroup(ctx, "Janeiro")
	require.NoError(t, err)
	_, err = store.AddItem(ctx, group.ID, collection.Item{Label: "Padaria X"})
	require.NoError(t, err)

	require.NoError(t, store.Reload(ctx))

	groups := store.Groups()
	require.Len(t, groups, 1)
	require.Equal(t, "Janeiro", groups[0].Name)
	require.Equal(t, group.ID, groups[0].ID)
	require.True(t, groups[0].Expanded)
	require.Len(t, groups[0].Items, 1)
	require.Equal(t, "Padaria X", groups[0].Items[0].Label)
}

func TestRoundTrip_EmptyGroupPlaceholderConsumed(t *testing.T) {
	ctx := context.Background()
	rows := &memRows{}
	store := newTestStore(rows, nil)

	group, err := store.CreateGroup(ctx, "Janeiro")
	require.NoError(t, err)

	// The group persists as exactly one placeholder row.
	require.Equal(t, 1, rows.count())

	require.NoError(t, store.Reload(ctx))
	groups := store.Groups()
	require.Len(t, groups, 1)
	require.Equal(t, group.ID, groups[0].ID)
	require.Empty(t, groups[0].Items, "placeholder must not surface as a phantom item")
}

func TestRoundTrip_PreservesGroupAndItemOrder(t *testing.T) {
	ctx := context.Background()
	rows := &memRows{}
	store := newTestStore(rows, nil)

	for _, name := range []string{"Janeiro", "Fevereiro", "Março"} {
		g, err := store.CreateGroup(ctx, name)
		require.NoError(t, err)
		for i := 0; i < 2; i++ {
			_, err = store.AddItem(ctx, g.ID, collection.Item{Label: fmt.Sprintf("%s %d", name, i)})
			require.NoError(t, err)
		}
	}

	require.NoError(t, store.Reload(ctx))

	groups := store.Groups()
	require.Len(t, groups, 3)
	require.Equal(t, "Janeiro", groups[0].Name)
	require.Equal(t, "Fevereiro", groups[1].Name)
	require.Equal(t, "Março", groups[2].Name)
	require.Equal(t, "Fevereiro 0", groups[1].Items[0].Label)
	require.Equal(t, "Fevereiro 1", groups[1].Items[1].Label)
}

func TestReconcile_IdempotentAfterDoubleSave(t *testing.T) {
	ctx := context.Background()
	rows := &memRows{}
	store := newTestStore(rows, nil)

	group, err := store.CreateGroup(ctx, "Janeiro")
	require.NoError(t, err)
	_, err = store.AddItem(ctx, group.ID, collection.Item{Label: "Padaria X"})
	require.NoError(t, err)

	// Saving the same tree again must not grow the reconciled result.
	expanded := true
	_, err = store.UpdateGroup(ctx, group.ID, collection.GroupPatch{Expanded: &expanded})
	require.NoError(t, err)

	require.NoError(t, store.Reload(ctx))
	groups := store.Groups()
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Items, 1)
}

func TestReconcile_CollapsesOrphansFromFailedDelete(t *testing.T) {
	ctx := context.Background()
	rows := &memRows{}
	store := newTestStore(rows, nil)

	group, err := store.CreateGroup(ctx, "Janeiro")
	require.NoError(t, err)
	item, err := store.AddItem(ctx, group.ID, collection.Item{Label: "Padaria X"})
	require.NoError(t, err)

	// Every following save leaves its predecessors' rows behind.
	rows.failDeletes = true
	notes := "novo contrato"
	_, err = store.UpdateItem(ctx, item.ID, collection.ItemPatch{Notes: &notes})
	require.NoError(t, err)
	notes = "contrato assinado"
	_, err = store.UpdateItem(ctx, item.ID, collection.ItemPatch{Notes: &notes})
	require.NoError(t, err)
	require.Greater(t, rows.count(), 1)

	require.NoError(t, store.Reload(ctx))
	groups := store.Groups()
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Items, 1, "orphaned rows must collapse to one item")
	// Creation order is ascending, so the later write wins.
	require.Equal(t, "contrato assinado", groups[0].Items[0].Notes)
}

func TestReconcile_SkipsCorruptRow(t *testing.T) {
	ctx := context.Background()
	rows := &memRows{}
	store := newTestStore(rows, nil)

	group, err := store.CreateGroup(ctx, "Janeiro")
	require.NoError(t, err)
	_, err = store.AddItem(ctx, group.ID, collection.Item{Label: "Padaria X"})
	require.NoError(t, err)

	rows.mu.Lock()
	rows.seq++
	rows.rows = append(rows.rows, repository.Row{
		ID:       fmt.Sprintf("row-%d", rows.seq),
		Module:   "sites",
		GroupID:  group.ID,
		ItemData: "{not json",
	})
	rows.mu.Unlock()

	require.NoError(t, store.Reload(ctx), "one corrupt row must not abort the load")
	groups := store.Groups()
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Items, 1)
}

func TestReconcile_DuplicateRemoteRowDropped(t *testing.T) {
	ctx := context.Background()
	rows := &memRows{}
	store := newTestStore(rows, nil)

	group, err := store.CreateGroup(ctx, "Janeiro")
	require.NoError(t, err)
	_, err = store.AddItem(ctx, group.ID, collection.Item{Label: "Padaria X"})
	require.NoError(t, err)

	// A double-processed insert surfaces the same remote id twice.
	rows.mu.Lock()
	rows.rows = append(rows.rows, rows.rows[len(rows.rows)-1])
	rows.mu.Unlock()

	require.NoError(t, store.Reload(ctx))
	require.Len(t, store.Groups()[0].Items, 1)
}

func TestReconcile_PlaceholderIgnoredWhenGroupHasItems(t *testing.T) {
	ctx := context.Background()
	rows := &memRows{}
	store := newTestStore(rows, nil)

	// Simulate an interrupted save: a stale placeholder row followed by a
	// real item row for the same group.
	groupID := "g-1"
	rows.mu.Lock()
	rows.rows = append(rows.rows,
		repository.Row{ID: "row-a", Module: "sites", GroupID: groupID, GroupName: "Janeiro", ItemData: `{"id":"","label":""}`},
		repository.Row{ID: "row-b", Module: "sites", GroupID: groupID, GroupName: "Janeiro", ItemData: `{"id":"i-1","label":"Padaria X"}`},
	)
	rows.mu.Unlock()

	require.NoError(t, store.Reload(ctx))
	groups := store.Groups()
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Items, 1)
	require.Equal(t, "Padaria X", groups[0].Items[0].Label)
}

func TestReconcile_SameLogicalItemLaterWins(t *testing.T) {
	ctx := context.Background()
	rows := &memRows{}
	store := newTestStore(rows, nil)

	groupID := "g-1"
	rows.mu.Lock()
	rows.rows = append(rows.rows,
		repository.Row{ID: "row-a", Module: "sites", GroupID: groupID, GroupName: "Janeiro", ItemData: `{"id":"i-1","label":"Padaria X","notes":"antigo"}`},
		repository.Row{ID: "row-b", Module: "sites", GroupID: groupID, GroupName: "Janeiro", ItemData: `{"id":"i-1","label":"Padaria X","notes":"novo"}`},
	)
	rows.mu.Unlock()

	require.NoError(t, store.Reload(ctx))
	groups := store.Groups()
	require.Len(t, groups[0].Items, 1)
	require.Equal(t, "novo", groups[0].Items[0].Notes)
}
