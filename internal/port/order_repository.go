package port

import (
	"context"
	"encoding/json"
	"time"

	"tillsync/internal/domain"
)

// OrderFilter narrows order listings.
type OrderFilter struct {
	Status     string
	Method     domain.OrderMethod
	UnreadOnly bool
	From       time.Time
	To         time.Time
	Offset     int
	Limit      int
}

// OrderRepository defines the contract for canonical order persistence.
//
// Upsert replaces the normalized fields wholesale but preserves the stored
// printed/read/notified flags for an existing order.
type OrderRepository interface {
	Upsert(ctx context.Context, order *domain.CanonicalOrder, rawPayload json.RawMessage) error
	GetByOrderID(ctx context.Context, orderID int64) (*domain.CanonicalOrder, error)
	GetRawPayload(ctx context.Context, orderID int64) (json.RawMessage, error)
	List(ctx context.Context, filter OrderFilter) ([]domain.CanonicalOrder, int, error)
	SetPrinted(ctx context.Context, orderID int64, printed bool) error
	SetRead(ctx context.Context, orderID int64, read bool) error
	SetNotified(ctx context.Context, orderID int64) error
	LatestOrderTime(ctx context.Context) (time.Time, error)
}
