package sqlite

import (
	"context"
	"testing"

	"github.com/agencyops/backoffice/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestRowRepository_InsertAndList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewRowRepository(db)

	rows := []repository.Row{
		{GroupID: "g1", GroupName: "Janeiro", GroupColor: "#e2445c", Expanded: true, ItemData: `{"id":"i1","label":"Padaria X"}`},
		{GroupID: "g1", GroupName: "Janeiro", GroupColor: "#e2445c", Expanded: true, ItemData: `{"id":"i2","label":"Mercado Y"}`},
	}
	ids, err := repo.InsertRows(ctx, "sites", rows)
	require.NoError(t, err)
	require.Len(t, ids, 2)
	require.NotEqual(t, ids[0], ids[1])

	got, err := repo.ListRows(ctx, "sites")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, ids[0], got[0].ID)
	require.Equal(t, ids[1], got[1].ID)
	require.Equal(t, "sites", got[0].Module)
	require.Equal(t, "Janeiro", got[0].GroupName)
	require.Equal(t, `{"id":"i1","label":"Padaria X"}`, got[0].ItemData)
	require.False(t, got[0].CreatedAt.IsZero())
}

func TestRowRepository_ListOrderedByInsertion(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewRowRepository(db)

	// Three separate snapshots; replay order must follow insertion order even
	// when timestamps collide.
	for _, label := range []string{"first", "second", "third"} {
		_, err := repo.InsertRows(ctx, "content", []repository.Row{
			{GroupID: "g1", GroupName: "Pauta", ItemData: `{"label":"` + label + `"}`},
		})
		require.NoError(t, err)
	}

	got, err := repo.ListRows(ctx, "content")
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Contains(t, got[0].ItemData, "first")
	require.Contains(t, got[1].ItemData, "second")
	require.Contains(t, got[2].ItemData, "third")
}

func TestRowRepository_DeleteRowsExcept(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewRowRepository(db)

	oldIDs, err := repo.InsertRows(ctx, "sites", []repository.Row{
		{GroupID: "g1", GroupName: "Janeiro", ItemData: `{}`},
		{GroupID: "g1", GroupName: "Janeiro", ItemData: `{}`},
	})
	require.NoError(t, err)

	// New snapshot lands first, then the old rows are swept. The table is
	// never empty in between.
	newIDs, err := repo.InsertRows(ctx, "sites", []repository.Row{
		{GroupID: "g1", GroupName: "Janeiro", ItemData: `{}`},
	})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteRowsExcept(ctx, "sites", newIDs))

	got, err := repo.ListRows(ctx, "sites")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, newIDs[0], got[0].ID)
	require.NotContains(t, []string{got[0].ID}, oldIDs[0])
}

func TestRowRepository_DeleteRowsExceptScopedToModule(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewRowRepository(db)

	_, err := repo.InsertRows(ctx, "sites", []repository.Row{{GroupID: "g1", GroupName: "A", ItemData: `{}`}})
	require.NoError(t, err)
	_, err = repo.InsertRows(ctx, "videos", []repository.Row{{GroupID: "g2", GroupName: "B", ItemData: `{}`}})
	require.NoError(t, err)

	// Empty keep list wipes the module, and only the module.
	require.NoError(t, repo.DeleteRowsExcept(ctx, "sites", nil))

	sites, err := repo.ListRows(ctx, "sites")
	require.NoError(t, err)
	require.Empty(t, sites)

	videos, err := repo.ListRows(ctx, "videos")
	require.NoError(t, err)
	require.Len(t, videos, 1)
}

func TestRowRepository_OwnerScopeRoundTrip(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewRowRepository(db)

	_, err := repo.InsertRows(ctx, "sites", []repository.Row{
		{GroupID: "g1", GroupName: "Shared", ItemData: `{}`},
		{GroupID: "g2", GroupName: "Private", ItemData: `{}`, OwnerScope: "user-7"},
	})
	require.NoError(t, err)

	got, err := repo.ListRows(ctx, "sites")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Empty(t, got[0].OwnerScope)
	require.Equal(t, "user-7", got[1].OwnerScope)

	// The shared row is stored with a NULL scope, not an empty string.
	var nullCount int
	err = db.QueryRow("SELECT COUNT(*) FROM module_rows WHERE owner_scope IS NULL").Scan(&nullCount)
	require.NoError(t, err)
	require.Equal(t, 1, nullCount)
}
