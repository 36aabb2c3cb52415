package port

import (
	"context"
	"time"

	"tillsync/internal/storefront"
)

// OrderFetcher abstracts the remote storefront order feed.
type OrderFetcher interface {
	FetchOrders(ctx context.Context, after time.Time) ([]storefront.Order, error)
	FetchOrder(ctx context.Context, orderID int64) (*storefront.Order, error)
}
