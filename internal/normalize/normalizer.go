package normalize

import (
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"tillsync/internal/domain"
	"tillsync/internal/storefront"
)

// Normalizer runs the full normalization pipeline. It is stateless apart
// from the keyword table and the regexes compiled from it, so a single
// instance may normalize orders from any number of goroutines.
type Normalizer struct {
	kw  *Keywords
	pat notePatterns
}

// New creates a Normalizer. A nil keyword table means the built-in
// English + Chinese defaults.
func New(kw *Keywords) *Normalizer {
	if kw == nil {
		kw = DefaultKeywords()
	}
	return &Normalizer{kw: kw, pat: newNotePatterns(kw)}
}

// Normalize produces a fresh canonical order from a raw storefront order.
// The only error condition is a nil raw order, which is a caller contract
// violation; every data-quality problem inside the order degrades to an
// absent signal instead.
func (n *Normalizer) Normalize(raw *storefront.Order) (*domain.CanonicalOrder, error) {
	return n.NormalizeWithPrior(raw, nil)
}

// NormalizeWithPrior re-normalizes an order whose previous canonical form
// is known. The prior run's resolved values are threaded through the
// extraction context in memory and take annotation-pass precedence, which
// keeps repeated application idempotent without ever writing extracted
// values back into the customer note.
func (n *Normalizer) NormalizeWithPrior(raw *storefront.Order, prior *domain.CanonicalOrder) (*domain.CanonicalOrder, error) {
	if raw == nil {
		return nil, domain.ErrNilOrder
	}

	// The three leaf scanners run independently and read-only.
	ctx := &ExtractionContext{
		Metadata: ScanMetadata(raw.MetaData),
		Fees:     n.ClassifyFeeLines(raw.FeeLines),
		Note:     n.ExtractNote(raw.CustomerNote),
	}
	if prior != nil {
		ctx.Prior = AnnotatedValues{
			Method:      prior.Method,
			TimeWindow:  prior.TimeWindow,
			DeliveryFee: prior.DeliveryFee,
			Tip:         prior.Tip,
		}
	}

	decision := ResolveMethod(ctx, &raw.Billing, &raw.Shipping)
	fees := ReconcileFees(ctx, decision.Method)
	address := ResolveAddress(decision.Method, &raw.Billing, &raw.Shipping)

	total := parseAmount(raw.Total)
	tax := taxTotal(raw)
	subtotal := ReconcileSubtotal(raw.LineItems, total, tax, fees)

	order := &domain.CanonicalOrder{
		OrderID:       raw.ID,
		Number:        raw.Number,
		Status:        raw.Status,
		Currency:      raw.Currency,
		CustomerName:  customerName(raw),
		CustomerPhone: strings.TrimSpace(raw.Billing.Phone),
		Method:        decision.Method,
		MethodSource:  decision.Source,
		TimeWindow:    ResolveTimeWindow(ctx),
		Address:       address,
		DeliveryFee:   fees.DeliveryFee,
		Tip:           fees.Tip,
		Subtotal:      subtotal,
		TaxTotal:      tax,
		Total:         total,
		FeeEntries:    n.SynthesizeFeeEntries(ctx, decision.Method, fees),
		LineItems:     lineItems(raw.LineItems),
		PaymentMethod: paymentMethod(raw),
		CustomerNote:  raw.CustomerNote,
		PlacedAt:      placedAt(raw),
		SyncedAt:      time.Now().UTC(),
	}

	if drift := totalsDrift(order); !drift.IsZero() {
		log.Printf("normalize: order %d totals drift by %s (subtotal=%s tax=%s fee=%v tip=%v total=%s)",
			order.OrderID, drift, order.Subtotal, order.TaxTotal, order.DeliveryFee, order.Tip, order.Total)
	}
	return order, nil
}

// taxTotal sums the tax lines, falling back to the order-level total_tax
// when no tax line parses.
func taxTotal(raw *storefront.Order) decimal.Decimal {
	sum := decimal.Zero
	parsed := false
	for _, tl := range raw.TaxLines {
		if d, ok := parseAmountOK(tl.TaxTotal); ok {
			sum = sum.Add(d)
			parsed = true
		}
	}
	if parsed {
		return sum
	}
	return parseAmount(raw.TotalTax)
}

func customerName(raw *storefront.Order) string {
	first := strings.TrimSpace(raw.Billing.FirstName)
	last := strings.TrimSpace(raw.Billing.LastName)
	return strings.TrimSpace(first + " " + last)
}

// placedAt parses the storefront's creation timestamp, falling back to
// the current time when it is absent or malformed.
func placedAt(raw *storefront.Order) time.Time {
	for _, layout := range []string{"2006-01-02T15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, raw.DateCreated); err == nil {
			return t.UTC()
		}
	}
	return time.Now().UTC()
}

func paymentMethod(raw *storefront.Order) string {
	if raw.PaymentMethodTitle != "" {
		return raw.PaymentMethodTitle
	}
	return raw.PaymentMethod
}

func lineItems(items []storefront.LineItem) []domain.OrderItem {
	out := make([]domain.OrderItem, 0, len(items))
	for _, it := range items {
		out = append(out, domain.OrderItem{
			Name:      it.Name,
			ProductID: it.ProductID,
			Quantity:  parseAmount(it.Quantity),
			UnitPrice: parseAmount(it.Price),
			Total:     parseAmount(it.Total),
		})
	}
	return out
}

// totalsDrift returns how far subtotal + tax + fee + tip lies from the
// order total, zero when within one currency minor unit. Drift is logged,
// never surfaced as an error: conflicting heuristic sources are resolved
// by precedence, not rejected.
func totalsDrift(o *domain.CanonicalOrder) decimal.Decimal {
	sum := o.Subtotal.Add(o.TaxTotal)
	if o.DeliveryFee != nil {
		sum = sum.Add(*o.DeliveryFee)
	}
	if o.Tip != nil {
		sum = sum.Add(*o.Tip)
	}
	if withinMinorUnit(sum, o.Total) {
		return decimal.Zero
	}
	return sum.Sub(o.Total)
}
