package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"opsboard/internal/domain"
)

// MockProcInvoker is a mock implementation of port.ProcInvoker.
type MockProcInvoker struct {
	mock.Mock
}

func (m *MockProcInvoker) Invoke(ctx context.Context, procName string, para any) ([]domain.Record, error) {
	args := m.Called(ctx, procName, para)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Record), args.Error(1)
}
