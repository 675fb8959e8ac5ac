package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockNotifier is a mock implementation of port.Notifier.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyUploadFailure(ctx context.Context, toEmail, fileName, reason string) error {
	args := m.Called(ctx, toEmail, fileName, reason)
	return args.Error(0)
}
