package normalize

import (
	"github.com/shopspring/decimal"

	"tillsync/internal/storefront"
)

// ReconcileSubtotal derives the merchandise subtotal. Three tiers, each
// tolerating its own parse failures, so the reconciliation itself can
// never fail:
//
//  1. sum of quantity x unit price over all line items, rounded to the
//     currency minor unit
//  2. total - tax - delivery fee - tip, clamped to a minimum of zero
//
// Tier 2 runs only when tier 1 yields a non-positive sum (empty items or
// parse failure on every line). Its clamped result is always valid: an
// exact zero remainder is an order fully consumed by charges, not a
// failure. The raw-total last resort of the original three-tier contract
// coincides with tier 2 here, because an unparseable order total already
// degrades to zero upstream.
func ReconcileSubtotal(items []storefront.LineItem, total, tax decimal.Decimal, fees ResolvedFees) decimal.Decimal {
	if sum := lineItemSum(items); sum.IsPositive() {
		return sum
	}

	remainder := total.Sub(tax)
	if fees.DeliveryFee != nil {
		remainder = remainder.Sub(*fees.DeliveryFee)
	}
	if fees.Tip != nil {
		remainder = remainder.Sub(*fees.Tip)
	}
	if remainder.IsNegative() {
		return decimal.Zero
	}
	return remainder
}

func lineItemSum(items []storefront.LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		qty, qtyOK := parseAmountOK(item.Quantity)
		price, priceOK := parseAmountOK(item.Price)
		if qtyOK && priceOK {
			sum = sum.Add(qty.Mul(price))
			continue
		}
		// Unparseable unit price: the line total, when present, still
		// carries the merchandise value.
		if lineTotal, ok := parseAmountOK(item.Total); ok {
			sum = sum.Add(lineTotal)
		}
	}
	return sum.Round(minorUnitExp)
}
