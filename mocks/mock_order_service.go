package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"tillsync/internal/domain"
	"tillsync/internal/port"
	"tillsync/internal/storefront"
)

// MockOrderService is a mock implementation of service.OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) SyncCursor(ctx context.Context) (time.Time, error) {
	args := m.Called(ctx)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *MockOrderService) IngestOrder(ctx context.Context, raw *storefront.Order) (*domain.CanonicalOrder, bool, error) {
	args := m.Called(ctx, raw)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.CanonicalOrder), args.Bool(1), args.Error(2)
}

func (m *MockOrderService) SyncNow(ctx context.Context) (int, int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockOrderService) Renormalize(ctx context.Context, orderID int64) (*domain.CanonicalOrder, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CanonicalOrder), args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, orderID int64) (*domain.CanonicalOrder, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CanonicalOrder), args.Error(1)
}

func (m *MockOrderService) ListOrders(ctx context.Context, filter port.OrderFilter) ([]domain.CanonicalOrder, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.CanonicalOrder), args.Int(1), args.Error(2)
}

func (m *MockOrderService) MarkPrinted(ctx context.Context, orderID int64, printed bool) error {
	args := m.Called(ctx, orderID, printed)
	return args.Error(0)
}

func (m *MockOrderService) MarkRead(ctx context.Context, orderID int64, read bool) error {
	args := m.Called(ctx, orderID, read)
	return args.Error(0)
}

func (m *MockOrderService) RefreshOrder(ctx context.Context, orderID int64) (*domain.CanonicalOrder, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CanonicalOrder), args.Error(1)
}
