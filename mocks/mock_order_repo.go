package mocks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stretchr/testify/mock"

	"tillsync/internal/domain"
	"tillsync/internal/port"
)

// MockOrderRepo is a mock implementation of port.OrderRepository.
type MockOrderRepo struct {
	mock.Mock
}

func (m *MockOrderRepo) Upsert(ctx context.Context, order *domain.CanonicalOrder, rawPayload json.RawMessage) error {
	args := m.Called(ctx, order, rawPayload)
	return args.Error(0)
}

func (m *MockOrderRepo) GetByOrderID(ctx context.Context, orderID int64) (*domain.CanonicalOrder, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CanonicalOrder), args.Error(1)
}

func (m *MockOrderRepo) GetRawPayload(ctx context.Context, orderID int64) (json.RawMessage, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockOrderRepo) List(ctx context.Context, filter port.OrderFilter) ([]domain.CanonicalOrder, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.CanonicalOrder), args.Int(1), args.Error(2)
}

func (m *MockOrderRepo) SetPrinted(ctx context.Context, orderID int64, printed bool) error {
	args := m.Called(ctx, orderID, printed)
	return args.Error(0)
}

func (m *MockOrderRepo) SetRead(ctx context.Context, orderID int64, read bool) error {
	args := m.Called(ctx, orderID, read)
	return args.Error(0)
}

func (m *MockOrderRepo) SetNotified(ctx context.Context, orderID int64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *MockOrderRepo) LatestOrderTime(ctx context.Context) (time.Time, error) {
	args := m.Called(ctx)
	return args.Get(0).(time.Time), args.Error(1)
}
