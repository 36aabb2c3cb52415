package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tillsync/internal/domain"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendNewOrderEmail(ctx context.Context, toEmail string, order *domain.CanonicalOrder) error {
	args := m.Called(ctx, toEmail, order)
	return args.Error(0)
}
