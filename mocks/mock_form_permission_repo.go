package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"opsboard/internal/domain"
)

// MockFormPermissionRepo is a mock implementation of port.FormPermissionRepository.
type MockFormPermissionRepo struct {
	mock.Mock
}

func (m *MockFormPermissionRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.PermissionRow, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PermissionRow), args.Error(1)
}

func (m *MockFormPermissionRepo) Upsert(ctx context.Context, userID uuid.UUID, formID int, actions string) error {
	args := m.Called(ctx, userID, formID, actions)
	return args.Error(0)
}
