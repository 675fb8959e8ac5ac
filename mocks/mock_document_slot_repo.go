package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"opsboard/internal/domain"
)

// MockDocumentSlotRepo is a mock implementation of port.DocumentSlotRepository.
type MockDocumentSlotRepo struct {
	mock.Mock
}

func (m *MockDocumentSlotRepo) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]domain.DocumentSlot, error) {
	args := m.Called(ctx, vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DocumentSlot), args.Error(1)
}

func (m *MockDocumentSlotRepo) Upsert(ctx context.Context, slot *domain.DocumentSlot) error {
	args := m.Called(ctx, slot)
	return args.Error(0)
}
