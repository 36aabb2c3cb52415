package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"tillsync/internal/domain"
	"tillsync/internal/normalize"
	"tillsync/internal/port"
	"tillsync/internal/storefront"
)

// OrderService defines the order ingestion and retrieval contract.
type OrderService interface {
	// SyncCursor returns the point in time from which the next poll should
	// fetch storefront orders.
	SyncCursor(ctx context.Context) (time.Time, error)
	// IngestOrder normalizes a raw storefront order and stores the result.
	// The bool result reports whether the order was seen for the first time.
	IngestOrder(ctx context.Context, raw *storefront.Order) (*domain.CanonicalOrder, bool, error)
	// Renormalize reruns the pipeline over the stored raw payload of an
	// order, threading the previous canonical form through as prior state.
	Renormalize(ctx context.Context, orderID int64) (*domain.CanonicalOrder, error)
	// SyncNow runs one synchronous fetch-and-ingest pass from the current
	// cursor, returning how many orders were fetched and how many were new.
	SyncNow(ctx context.Context) (fetched, newCount int, err error)
	GetOrder(ctx context.Context, orderID int64) (*domain.CanonicalOrder, error)
	ListOrders(ctx context.Context, filter port.OrderFilter) ([]domain.CanonicalOrder, int, error)
	MarkPrinted(ctx context.Context, orderID int64, printed bool) error
	MarkRead(ctx context.Context, orderID int64, read bool) error
	RefreshOrder(ctx context.Context, orderID int64) (*domain.CanonicalOrder, error)
}

type orderService struct {
	orderRepo  port.OrderRepository
	fetcher    port.OrderFetcher
	emailer    port.EmailSender
	normalizer *normalize.Normalizer
	notifyTo   string
	lookback   time.Duration
}

// NewOrderService creates a new OrderService implementation.
func NewOrderService(
	orderRepo port.OrderRepository,
	fetcher port.OrderFetcher,
	emailer port.EmailSender,
	normalizer *normalize.Normalizer,
	notifyTo string,
	lookback time.Duration,
) OrderService {
	return &orderService{
		orderRepo:  orderRepo,
		fetcher:    fetcher,
		emailer:    emailer,
		normalizer: normalizer,
		notifyTo:   notifyTo,
		lookback:   lookback,
	}
}

func (s *orderService) SyncCursor(ctx context.Context) (time.Time, error) {
	latest, err := s.orderRepo.LatestOrderTime(ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("order.SyncCursor: %w", err)
	}
	if latest.IsZero() {
		return time.Now().UTC().Add(-s.lookback), nil
	}
	return latest, nil
}

func (s *orderService) IngestOrder(ctx context.Context, raw *storefront.Order) (*domain.CanonicalOrder, bool, error) {
	prior, err := s.orderRepo.GetByOrderID(ctx, raw.ID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, false, fmt.Errorf("order.IngestOrder: %w", err)
	}
	isNew := prior == nil

	order, err := s.normalizer.NormalizeWithPrior(raw, prior)
	if err != nil {
		return nil, false, fmt.Errorf("order.IngestOrder: %w", err)
	}

	payload, err := json.Marshal(raw)
	if err != nil {
		return nil, false, fmt.Errorf("order.IngestOrder marshal payload: %w", err)
	}
	if err := s.orderRepo.Upsert(ctx, order, payload); err != nil {
		return nil, false, fmt.Errorf("order.IngestOrder: %w", err)
	}

	if isNew {
		s.notify(ctx, order)
	}
	return order, isNew, nil
}

// notify sends the new-order email when a recipient is configured. Only
// delivery orders notify: pickup orders wait at the counter and need no
// dispatch. Send failures are logged, never propagated: a missed email must
// not block the order from reaching the terminal.
func (s *orderService) notify(ctx context.Context, order *domain.CanonicalOrder) {
	if s.notifyTo == "" || s.emailer == nil {
		return
	}
	if order.Method != domain.MethodDelivery {
		return
	}
	if err := s.emailer.SendNewOrderEmail(ctx, s.notifyTo, order); err != nil {
		log.Printf("orderService: notify order %d: %v", order.OrderID, err)
		return
	}
	if err := s.orderRepo.SetNotified(ctx, order.OrderID); err != nil {
		log.Printf("orderService: mark order %d notified: %v", order.OrderID, err)
	}
}

func (s *orderService) SyncNow(ctx context.Context) (int, int, error) {
	after, err := s.SyncCursor(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("order.SyncNow: %w", err)
	}
	orders, err := s.fetcher.FetchOrders(ctx, after)
	if err != nil {
		return 0, 0, fmt.Errorf("order.SyncNow: %w", err)
	}

	newCount := 0
	for i := range orders {
		_, isNew, err := s.IngestOrder(ctx, &orders[i])
		if err != nil {
			log.Printf("orderService: sync ingest order %d: %v", orders[i].ID, err)
			continue
		}
		if isNew {
			newCount++
		}
	}
	return len(orders), newCount, nil
}

func (s *orderService) Renormalize(ctx context.Context, orderID int64) (*domain.CanonicalOrder, error) {
	prior, err := s.orderRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("order.Renormalize: %w", err)
	}
	payload, err := s.orderRepo.GetRawPayload(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("order.Renormalize: %w", err)
	}

	var raw storefront.Order
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("order.Renormalize unmarshal payload: %w", err)
	}

	order, err := s.normalizer.NormalizeWithPrior(&raw, prior)
	if err != nil {
		return nil, fmt.Errorf("order.Renormalize: %w", err)
	}
	if err := s.orderRepo.Upsert(ctx, order, payload); err != nil {
		return nil, fmt.Errorf("order.Renormalize: %w", err)
	}
	return order, nil
}

// RefreshOrder refetches a single order from the storefront and reruns
// normalization, preserving prior resolved values.
func (s *orderService) RefreshOrder(ctx context.Context, orderID int64) (*domain.CanonicalOrder, error) {
	raw, err := s.fetcher.FetchOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("order.RefreshOrder: %w", err)
	}
	order, _, err := s.IngestOrder(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("order.RefreshOrder: %w", err)
	}
	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, orderID int64) (*domain.CanonicalOrder, error) {
	order, err := s.orderRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("order.GetOrder: %w", err)
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, filter port.OrderFilter) ([]domain.CanonicalOrder, int, error) {
	orders, total, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("order.ListOrders: %w", err)
	}
	return orders, total, nil
}

func (s *orderService) MarkPrinted(ctx context.Context, orderID int64, printed bool) error {
	if err := s.orderRepo.SetPrinted(ctx, orderID, printed); err != nil {
		return fmt.Errorf("order.MarkPrinted: %w", err)
	}
	return nil
}

func (s *orderService) MarkRead(ctx context.Context, orderID int64, read bool) error {
	if err := s.orderRepo.SetRead(ctx, orderID, read); err != nil {
		return fmt.Errorf("order.MarkRead: %w", err)
	}
	return nil
}
