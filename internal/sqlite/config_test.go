package sqlite

import (
	"context"
	"testing"

	"github.com/agencyops/backoffice/internal/domain/schema"
	"github.com/agencyops/backoffice/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestConfigRepository_ColumnLifecycle(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewConfigRepository(db)

	col := schema.Column{ID: "c1", Name: "Status do contrato", Type: schema.ColumnStatus}
	require.NoError(t, repo.InsertColumn(ctx, "sites", col))

	cols, err := repo.ListColumns(ctx, "sites")
	require.NoError(t, err)
	require.Len(t, cols, 1)
	require.Equal(t, col, cols[0])

	col.Name = "Contrato"
	require.NoError(t, repo.UpdateColumn(ctx, "sites", col))
	cols, err = repo.ListColumns(ctx, "sites")
	require.NoError(t, err)
	require.Equal(t, "Contrato", cols[0].Name)

	require.NoError(t, repo.DeleteColumn(ctx, "sites", "c1"))
	cols, err = repo.ListColumns(ctx, "sites")
	require.NoError(t, err)
	require.Empty(t, cols)
}

func TestConfigRepository_UpdateMissingColumn(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewConfigRepository(db)

	err := repo.UpdateColumn(ctx, "sites", schema.Column{ID: "ghost", Name: "X", Type: schema.ColumnText})
	require.ErrorIs(t, err, repository.ErrNotFound)

	err = repo.DeleteColumn(ctx, "sites", "ghost")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestConfigRepository_ColumnsScopedByModule(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewConfigRepository(db)

	require.NoError(t, repo.InsertColumn(ctx, "sites", schema.Column{ID: "c1", Name: "Elemento", Type: schema.ColumnText}))
	require.NoError(t, repo.InsertColumn(ctx, "videos", schema.Column{ID: "c2", Name: "Roteiro", Type: schema.ColumnText}))

	// A delete keyed to the wrong module must not touch the other module's row.
	err := repo.DeleteColumn(ctx, "sites", "c2")
	require.ErrorIs(t, err, repository.ErrNotFound)

	cols, err := repo.ListColumns(ctx, "videos")
	require.NoError(t, err)
	require.Len(t, cols, 1)
}

func TestConfigRepository_RejectsUnknownColumnType(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewConfigRepository(db)

	err := repo.InsertColumn(ctx, "sites", schema.Column{ID: "c1", Name: "Data", Type: schema.ColumnType("date")})
	require.Error(t, err, "the schema CHECK constraint only allows text and status")
}

func TestConfigRepository_StatusLifecycle(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewConfigRepository(db)

	st := schema.Status{ID: "s1", Name: "Em produção", Color: "yellow"}
	require.NoError(t, repo.InsertStatus(ctx, "content", st))

	sts, err := repo.ListStatuses(ctx, "content")
	require.NoError(t, err)
	require.Len(t, sts, 1)
	require.Equal(t, st, sts[0])

	st.Color = "green"
	require.NoError(t, repo.UpdateStatus(ctx, "content", st))
	sts, err = repo.ListStatuses(ctx, "content")
	require.NoError(t, err)
	require.Equal(t, "green", sts[0].Color)

	require.NoError(t, repo.DeleteStatus(ctx, "content", "s1"))
	require.ErrorIs(t, repo.DeleteStatus(ctx, "content", "s1"), repository.ErrNotFound)
}
