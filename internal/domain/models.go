package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FeeEntry is a single auxiliary charge surfaced to the UI and the print
// template. The entry list on a canonical order holds at most one entry of
// kind delivery_fee and at most one of kind tip.
type FeeEntry struct {
	Kind   FeeKind         `json:"kind"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Tax    decimal.Decimal `json:"tax"`
}

// OrderItem is a merchandise line item, passed through from the raw order.
type OrderItem struct {
	Name      string          `json:"name"`
	ProductID int64           `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// CanonicalOrder is the fully resolved order model consumed by the POS UI
// and the receipt template. It is produced fresh on every normalization run
// and replaced wholesale; nothing mutates it in place.
//
// The printed/read/notified flags are owned by the surrounding application:
// the normalization pipeline emits them zero-valued and the repository
// preserves the stored values on upsert.
type CanonicalOrder struct {
	ID            uuid.UUID        `db:"id" json:"id"`
	OrderID       int64            `db:"order_id" json:"order_id"`
	Number        string           `db:"number" json:"number"`
	Status        string           `db:"status" json:"status"`
	Currency      string           `db:"currency" json:"currency"`
	CustomerName  string           `db:"customer_name" json:"customer_name"`
	CustomerPhone string           `db:"customer_phone" json:"customer_phone"`
	Method        OrderMethod      `db:"method" json:"method"`
	MethodSource  SignalSource     `db:"method_source" json:"method_source"`
	TimeWindow    string           `db:"time_window" json:"time_window,omitempty"`
	Address       *string          `db:"delivery_address" json:"delivery_address"`
	DeliveryFee   *decimal.Decimal `db:"delivery_fee" json:"delivery_fee"`
	Tip           *decimal.Decimal `db:"tip" json:"tip"`
	Subtotal      decimal.Decimal  `db:"subtotal" json:"subtotal"`
	TaxTotal      decimal.Decimal  `db:"tax_total" json:"tax_total"`
	Total         decimal.Decimal  `db:"total" json:"total"`
	FeeEntries    []FeeEntry       `db:"-" json:"fee_entries"`
	LineItems     []OrderItem      `db:"-" json:"line_items"`
	PaymentMethod string           `db:"payment_method" json:"payment_method"`
	CustomerNote  string           `db:"customer_note" json:"customer_note"`
	PlacedAt      time.Time        `db:"placed_at" json:"placed_at"`
	Printed       bool             `db:"printed" json:"printed"`
	Read          bool             `db:"read" json:"read"`
	Notified      bool             `db:"notified" json:"notified"`
	SyncedAt      time.Time        `db:"synced_at" json:"synced_at"`
	CreatedAt     time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time        `db:"updated_at" json:"updated_at"`
}

// OrderRow is the persistence shape of a canonical order: the nested fee
// entry and line item slices are stored as JSONB alongside the raw payload.
type OrderRow struct {
	CanonicalOrder
	FeeEntriesJSON json.RawMessage `db:"fee_entries"`
	LineItemsJSON  json.RawMessage `db:"line_items"`
	RawPayload     json.RawMessage `db:"raw_payload"`
}

// Device represents a paired POS terminal.
type Device struct {
	ID         uuid.UUID    `db:"id" json:"id"`
	Name       string       `db:"name" json:"name"`
	Status     DeviceStatus `db:"status" json:"status"`
	LastSeenAt *time.Time   `db:"last_seen_at" json:"last_seen_at"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
}
