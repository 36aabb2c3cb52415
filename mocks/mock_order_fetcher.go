package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"tillsync/internal/storefront"
)

// MockOrderFetcher is a mock implementation of port.OrderFetcher.
type MockOrderFetcher struct {
	mock.Mock
}

func (m *MockOrderFetcher) FetchOrders(ctx context.Context, after time.Time) ([]storefront.Order, error) {
	args := m.Called(ctx, after)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storefront.Order), args.Error(1)
}

func (m *MockOrderFetcher) FetchOrder(ctx context.Context, orderID int64) (*storefront.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storefront.Order), args.Error(1)
}
