package schema_test

import (
	"context"
	"errors"
	"testing"

	"github.com/agencyops/backoffice/internal/domain/schema"
	"github.com/agencyops/backoffice/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeCascader struct {
	stripped []string
	err      error
}

func (f *fakeCascader) StripField(ctx context.Context, columnID string) error {
	f.stripped = append(f.stripped, columnID)
	return f.err
}

func newTestRegistry(t *testing.T) (*schema.Registry, *mocks.ConfigRepository) {
	t.Helper()
	cfg := &mocks.ConfigRepository{}
	return schema.NewRegistry("sites", cfg, nil), cfg
}

func TestAddColumn_PersistsBeforeMemory(t *testing.T) {
	ctx := context.Background()
	reg, cfg := newTestRegistry(t)

	cfg.On("InsertColumn", mock.Anything, "sites", mock.AnythingOfType("schema.Column")).Return(nil)

	col, err := reg.AddColumn(ctx, "  Status do contrato  ", schema.ColumnStatus)
	require.NoError(t, err)
	require.NotEmpty(t, col.ID)
	require.Equal(t, "Status do contrato", col.Name)
	require.Equal(t, schema.ColumnStatus, col.Type)

	got, ok := reg.Column(col.ID)
	require.True(t, ok)
	require.Equal(t, col, got)
	cfg.AssertExpectations(t)
}

func TestAddColumn_RemoteFailureLeavesRegistryUntouched(t *testing.T) {
	ctx := context.Background()
	reg, cfg := newTestRegistry(t)

	cfg.On("InsertColumn", mock.Anything, "sites", mock.AnythingOfType("schema.Column")).
		Return(errors.New("disk full"))

	_, err := reg.AddColumn(ctx, "Observações", schema.ColumnText)
	require.Error(t, err)
	require.Empty(t, reg.Columns())
}

func TestAddColumn_RejectsBadInput(t *testing.T) {
	ctx := context.Background()
	reg, _ := newTestRegistry(t)

	_, err := reg.AddColumn(ctx, "   ", schema.ColumnText)
	require.ErrorIs(t, err, schema.ErrInvalidInput)

	_, err = reg.AddColumn(ctx, "Tipo", schema.ColumnType("date"))
	require.ErrorIs(t, err, schema.ErrInvalidInput)
}

func TestUpdateColumn_PatchSemantics(t *testing.T) {
	ctx := context.Background()
	reg, cfg := newTestRegistry(t)

	cfg.On("InsertColumn", mock.Anything, "sites", mock.AnythingOfType("schema.Column")).Return(nil)
	cfg.On("UpdateColumn", mock.Anything, "sites", mock.AnythingOfType("schema.Column")).Return(nil)

	col, err := reg.AddColumn(ctx, "Dominio", schema.ColumnText)
	require.NoError(t, err)

	name := "Domínio"
	updated, err := reg.UpdateColumn(ctx, col.ID, schema.ColumnPatch{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Domínio", updated.Name)
	require.Equal(t, schema.ColumnText, updated.Type, "unpatched fields are kept")

	_, err = reg.UpdateColumn(ctx, "missing", schema.ColumnPatch{Name: &name})
	require.ErrorIs(t, err, schema.ErrColumnNotFound)
}

func TestDeleteColumn_CascadesIntoStore(t *testing.T) {
	ctx := context.Background()
	reg, cfg := newTestRegistry(t)
	cascader := &fakeCascader{}
	reg.SetCascader(cascader)

	cfg.On("InsertColumn", mock.Anything, "sites", mock.AnythingOfType("schema.Column")).Return(nil)
	cfg.On("DeleteColumn", mock.Anything, "sites", mock.AnythingOfType("string")).Return(nil)

	col, err := reg.AddColumn(ctx, "Status", schema.ColumnStatus)
	require.NoError(t, err)

	require.NoError(t, reg.DeleteColumn(ctx, col.ID))
	require.Equal(t, []string{col.ID}, cascader.stripped)
	_, ok := reg.Column(col.ID)
	require.False(t, ok)
}

func TestDeleteColumn_RemoteFailureSkipsCascade(t *testing.T) {
	ctx := context.Background()
	reg, cfg := newTestRegistry(t)
	cascader := &fakeCascader{}
	reg.SetCascader(cascader)

	cfg.On("InsertColumn", mock.Anything, "sites", mock.AnythingOfType("schema.Column")).Return(nil)
	cfg.On("DeleteColumn", mock.Anything, "sites", mock.AnythingOfType("string")).
		Return(errors.New("locked"))

	col, err := reg.AddColumn(ctx, "Status", schema.ColumnStatus)
	require.NoError(t, err)

	require.Error(t, reg.DeleteColumn(ctx, col.ID))
	require.Empty(t, cascader.stripped)
	_, ok := reg.Column(col.ID)
	require.True(t, ok, "failed delete must not drop the column from memory")
}

func TestStatusLifecycle(t *testing.T) {
	ctx := context.Background()
	reg, cfg := newTestRegistry(t)

	cfg.On("InsertStatus", mock.Anything, "sites", mock.AnythingOfType("schema.Status")).Return(nil)
	cfg.On("UpdateStatus", mock.Anything, "sites", mock.AnythingOfType("schema.Status")).Return(nil)
	cfg.On("DeleteStatus", mock.Anything, "sites", mock.AnythingOfType("string")).Return(nil)

	st, err := reg.AddStatus(ctx, "Em produção", "yellow")
	require.NoError(t, err)
	require.True(t, reg.HasStatus(st.ID))

	color := "green"
	updated, err := reg.UpdateStatus(ctx, st.ID, schema.StatusPatch{Color: &color})
	require.NoError(t, err)
	require.Equal(t, "Em produção", updated.Name)
	require.Equal(t, "green", updated.Color)

	require.NoError(t, reg.DeleteStatus(ctx, st.ID))
	require.False(t, reg.HasStatus(st.ID))

	require.ErrorIs(t, reg.DeleteStatus(ctx, st.ID), schema.ErrStatusNotFound)
}

func TestResolveStatus_StaleReferenceFallsBack(t *testing.T) {
	ctx := context.Background()
	reg, cfg := newTestRegistry(t)

	cfg.On("InsertStatus", mock.Anything, "sites", mock.AnythingOfType("schema.Status")).Return(nil)

	st, err := reg.AddStatus(ctx, "Concluído", "green")
	require.NoError(t, err)

	require.Equal(t, st, reg.ResolveStatus(st.ID))
	require.Equal(t, schema.Unselected, reg.ResolveStatus("deleted-long-ago"))
	require.Equal(t, schema.Unselected, reg.ResolveStatus(""))
}

func TestLoad_ReplacesState(t *testing.T) {
	ctx := context.Background()
	reg, cfg := newTestRegistry(t)

	cols := []schema.Column{{ID: "c1", Name: "Elemento", Type: schema.ColumnText}}
	sts := []schema.Status{{ID: "s1", Name: "Ativo", Color: "green"}}
	cfg.On("ListColumns", mock.Anything, "sites").Return(cols, nil)
	cfg.On("ListStatuses", mock.Anything, "sites").Return(sts, nil)

	require.NoError(t, reg.Load(ctx))
	require.Equal(t, cols, reg.Columns())
	require.Equal(t, sts, reg.Statuses())
}
