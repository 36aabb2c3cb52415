package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"tillsync/internal/domain"
	"tillsync/internal/port"
)

type orderRepo struct {
	db *sqlx.DB
}

// NewOrderRepo creates a new PostgreSQL-backed OrderRepository.
func NewOrderRepo(db *sqlx.DB) port.OrderRepository {
	return &orderRepo{db: db}
}

// Upsert inserts or replaces the canonical form of an order, keyed by the
// storefront order ID. Normalized columns are replaced wholesale; the
// printed/read/notified flags keep their stored values for an existing row.
func (r *orderRepo) Upsert(ctx context.Context, order *domain.CanonicalOrder, rawPayload json.RawMessage) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now

	feeEntries, err := json.Marshal(order.FeeEntries)
	if err != nil {
		return fmt.Errorf("orderRepo.Upsert marshal fee entries: %w", err)
	}
	lineItems, err := json.Marshal(order.LineItems)
	if err != nil {
		return fmt.Errorf("orderRepo.Upsert marshal line items: %w", err)
	}
	if rawPayload == nil {
		rawPayload = json.RawMessage("{}")
	}

	query := `INSERT INTO orders (
		id, order_id, number, status, currency,
		customer_name, customer_phone, method, method_source, time_window,
		delivery_address, delivery_fee, tip, subtotal, tax_total, total,
		fee_entries, line_items, payment_method, customer_note, raw_payload,
		placed_at, printed, read, notified, synced_at, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5,
		$6, $7, $8, $9, $10,
		$11, $12, $13, $14, $15, $16,
		$17, $18, $19, $20, $21,
		$22, FALSE, FALSE, FALSE, $23, $24, $25
	)
	ON CONFLICT (order_id) DO UPDATE SET
		number = EXCLUDED.number,
		status = EXCLUDED.status,
		currency = EXCLUDED.currency,
		customer_name = EXCLUDED.customer_name,
		customer_phone = EXCLUDED.customer_phone,
		method = EXCLUDED.method,
		method_source = EXCLUDED.method_source,
		time_window = EXCLUDED.time_window,
		delivery_address = EXCLUDED.delivery_address,
		delivery_fee = EXCLUDED.delivery_fee,
		tip = EXCLUDED.tip,
		subtotal = EXCLUDED.subtotal,
		tax_total = EXCLUDED.tax_total,
		total = EXCLUDED.total,
		fee_entries = EXCLUDED.fee_entries,
		line_items = EXCLUDED.line_items,
		payment_method = EXCLUDED.payment_method,
		customer_note = EXCLUDED.customer_note,
		raw_payload = EXCLUDED.raw_payload,
		placed_at = EXCLUDED.placed_at,
		synced_at = EXCLUDED.synced_at,
		updated_at = EXCLUDED.updated_at`

	_, err = r.db.ExecContext(ctx, query,
		order.ID, order.OrderID, order.Number, order.Status, order.Currency,
		order.CustomerName, order.CustomerPhone, order.Method, order.MethodSource, order.TimeWindow,
		order.Address, order.DeliveryFee, order.Tip, order.Subtotal, order.TaxTotal, order.Total,
		feeEntries, lineItems, order.PaymentMethod, order.CustomerNote, rawPayload,
		order.PlacedAt, order.SyncedAt, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("orderRepo.Upsert: %w", err)
	}
	return nil
}

func (r *orderRepo) GetByOrderID(ctx context.Context, orderID int64) (*domain.CanonicalOrder, error) {
	var row domain.OrderRow
	err := r.db.GetContext(ctx, &row,
		"SELECT * FROM orders WHERE order_id = $1", orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("orderRepo.GetByOrderID: %w", err)
	}
	return hydrate(&row)
}

func (r *orderRepo) GetRawPayload(ctx context.Context, orderID int64) (json.RawMessage, error) {
	var raw json.RawMessage
	err := r.db.GetContext(ctx, &raw,
		"SELECT raw_payload FROM orders WHERE order_id = $1", orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("orderRepo.GetRawPayload: %w", err)
	}
	return raw, nil
}

func (r *orderRepo) List(ctx context.Context, filter port.OrderFilter) ([]domain.CanonicalOrder, int, error) {
	where := "WHERE 1=1"
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filter.Status != "" {
		where += " AND status = " + arg(filter.Status)
	}
	if filter.Method != "" {
		where += " AND method = " + arg(filter.Method)
	}
	if filter.UnreadOnly {
		where += " AND read = FALSE"
	}
	if !filter.From.IsZero() {
		where += " AND placed_at >= " + arg(filter.From)
	}
	if !filter.To.IsZero() {
		where += " AND placed_at < " + arg(filter.To)
	}

	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM orders "+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("orderRepo.List count: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf("SELECT * FROM orders %s ORDER BY placed_at DESC LIMIT %s OFFSET %s",
		where, arg(limit), arg(filter.Offset))

	var rows []domain.OrderRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("orderRepo.List: %w", err)
	}

	orders := make([]domain.CanonicalOrder, 0, len(rows))
	for i := range rows {
		o, err := hydrate(&rows[i])
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *o)
	}
	return orders, total, nil
}

func (r *orderRepo) SetPrinted(ctx context.Context, orderID int64, printed bool) error {
	return r.setFlag(ctx, "printed", orderID, printed)
}

func (r *orderRepo) SetRead(ctx context.Context, orderID int64, read bool) error {
	return r.setFlag(ctx, "read", orderID, read)
}

func (r *orderRepo) SetNotified(ctx context.Context, orderID int64) error {
	return r.setFlag(ctx, "notified", orderID, true)
}

func (r *orderRepo) setFlag(ctx context.Context, column string, orderID int64, value bool) error {
	query := fmt.Sprintf(`UPDATE orders SET "%s" = $1, updated_at = $2 WHERE order_id = $3`, column)
	result, err := r.db.ExecContext(ctx, query, value, time.Now().UTC(), orderID)
	if err != nil {
		return fmt.Errorf("orderRepo.setFlag %s: %w", column, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// LatestOrderTime returns the placement time of the newest stored order,
// used as the sync cursor. A zero time means the store is empty.
func (r *orderRepo) LatestOrderTime(ctx context.Context) (time.Time, error) {
	var latest sql.NullTime
	err := r.db.GetContext(ctx, &latest, "SELECT MAX(placed_at) FROM orders")
	if err != nil {
		return time.Time{}, fmt.Errorf("orderRepo.LatestOrderTime: %w", err)
	}
	if !latest.Valid {
		return time.Time{}, nil
	}
	return latest.Time.UTC(), nil
}

// hydrate unmarshals the JSONB columns into the nested slices.
func hydrate(row *domain.OrderRow) (*domain.CanonicalOrder, error) {
	o := row.CanonicalOrder
	if len(row.FeeEntriesJSON) > 0 {
		if err := json.Unmarshal(row.FeeEntriesJSON, &o.FeeEntries); err != nil {
			return nil, fmt.Errorf("orderRepo: unmarshal fee entries for order %d: %w", o.OrderID, err)
		}
	}
	if len(row.LineItemsJSON) > 0 {
		if err := json.Unmarshal(row.LineItemsJSON, &o.LineItems); err != nil {
			return nil, fmt.Errorf("orderRepo: unmarshal line items for order %d: %w", o.OrderID, err)
		}
	}
	return &o, nil
}
