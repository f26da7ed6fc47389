package mocks

import (
	"context"

	"github.com/agencyops/backoffice/internal/domain/schema"
	"github.com/agencyops/backoffice/internal/repository"
	"github.com/stretchr/testify/mock"
)

// RowRepository is a mock for repository.RowRepository.
type RowRepository struct {
	mock.Mock
}

func (m *RowRepository) InsertRows(ctx context.Context, module string, rows []repository.Row) ([]string, error) {
	args := m.Called(ctx, module, rows)
	if ids, ok := args.Get(0).([]string); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RowRepository) DeleteRowsExcept(ctx context.Context, module string, keepIDs []string) error {
	args := m.Called(ctx, module, keepIDs)
	return args.Error(0)
}

func (m *RowRepository) ListRows(ctx context.Context, module string) ([]repository.Row, error) {
	args := m.Called(ctx, module)
	if rows, ok := args.Get(0).([]repository.Row); ok {
		return rows, args.Error(1)
	}
	return nil, args.Error(1)
}

// BoardRowRepository is a mock for repository.BoardRowRepository.
type BoardRowRepository struct {
	mock.Mock
}

func (m *BoardRowRepository) InsertRows(ctx context.Context, module string, rows []repository.BoardRow) ([]string, error) {
	args := m.Called(ctx, module, rows)
	if ids, ok := args.Get(0).([]string); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *BoardRowRepository) DeleteRowsExcept(ctx context.Context, module string, keepIDs []string) error {
	args := m.Called(ctx, module, keepIDs)
	return args.Error(0)
}

func (m *BoardRowRepository) ListRows(ctx context.Context, module string) ([]repository.BoardRow, error) {
	args := m.Called(ctx, module)
	if rows, ok := args.Get(0).([]repository.BoardRow); ok {
		return rows, args.Error(1)
	}
	return nil, args.Error(1)
}

// ConfigRepository is a mock for repository.ConfigRepository.
type ConfigRepository struct {
	mock.Mock
}

func (m *ConfigRepository) InsertColumn(ctx context.Context, module string, col schema.Column) error {
	args := m.Called(ctx, module, col)
	return args.Error(0)
}

func (m *ConfigRepository) UpdateColumn(ctx context.Context, module string, col schema.Column) error {
	args := m.Called(ctx, module, col)
	return args.Error(0)
}

func (m *ConfigRepository) DeleteColumn(ctx context.Context, module, id string) error {
	args := m.Called(ctx, module, id)
	return args.Error(0)
}

func (m *ConfigRepository) ListColumns(ctx context.Context, module string) ([]schema.Column, error) {
	args := m.Called(ctx, module)
	if cols, ok := args.Get(0).([]schema.Column); ok {
		return cols, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ConfigRepository) InsertStatus(ctx context.Context, module string, st schema.Status) error {
	args := m.Called(ctx, module, st)
	return args.Error(0)
}

func (m *ConfigRepository) UpdateStatus(ctx context.Context, module string, st schema.Status) error {
	args := m.Called(ctx, module, st)
	return args.Error(0)
}

func (m *ConfigRepository) DeleteStatus(ctx context.Context, module, id string) error {
	args := m.Called(ctx, module, id)
	return args.Error(0)
}

func (m *ConfigRepository) ListStatuses(ctx context.Context, module string) ([]schema.Status, error) {
	args := m.Called(ctx, module)
	if sts, ok := args.Get(0).([]schema.Status); ok {
		return sts, args.Error(1)
	}
	return nil, args.Error(1)
}
