package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"opsboard/internal/domain"
)

// MockColumnPreferenceRepo is a mock implementation of port.ColumnPreferenceRepository.
type MockColumnPreferenceRepo struct {
	mock.Mock
}

func (m *MockColumnPreferenceRepo) ListByScreen(ctx context.Context, screenKey string, userID uuid.UUID) ([]domain.ColumnDefinition, error) {
	args := m.Called(ctx, screenKey, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ColumnDefinition), args.Error(1)
}

func (m *MockColumnPreferenceRepo) Save(ctx context.Context, screenKey string, userID uuid.UUID, defs []domain.ColumnDefinition) error {
	args := m.Called(ctx, screenKey, userID, defs)
	return args.Error(0)
}
