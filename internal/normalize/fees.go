package normalize

import (
	"github.com/shopspring/decimal"

	"tillsync/internal/domain"
)

// ReconcileFees produces the final delivery-fee and tip values from the
// three extraction sources, applying the precedence
//
//	annotation pass -> classified fee line -> natural-language note
//
// for both amounts. An annotation or note candidate must be non-zero to
// win; a classified fee line wins even at zero, because an explicit fee
// line is the only source allowed to assert a genuine zero fee.
//
// The tip is resolved regardless of method (pickup orders carry tips).
// The delivery fee is resolved only for delivery orders and forced absent
// for pickup, even when a stale source asserted a value. When every source
// is absent on a delivery order the fee stays nil: no guessed default.
func ReconcileFees(ctx *ExtractionContext, method domain.OrderMethod) ResolvedFees {
	annotated := ctx.annotated()

	var fees ResolvedFees
	fees.Tip = pickFee(annotated.Tip, ctx.Fees.Tip, ctx.Note.Tip)
	if method == domain.MethodDelivery {
		fees.DeliveryFee = pickFee(annotated.DeliveryFee, ctx.Fees.DeliveryFee, ctx.Note.DeliveryFee)
	}
	return fees
}

func pickFee(annotated, feeLine, note *decimal.Decimal) *decimal.Decimal {
	if v := nonZero(annotated); v != nil {
		return v
	}
	if feeLine != nil {
		if !feeLine.IsZero() {
			return feeLine
		}
		// Confirmed zero, unless a lower-precedence source knows better.
		if v := nonZero(note); v != nil {
			return v
		}
		return feeLine
	}
	return nonZero(note)
}

// ResolveTimeWindow picks the delivery time window with the same source
// precedence as the fee chain: annotation, then metadata, then note.
func ResolveTimeWindow(ctx *ExtractionContext) string {
	if tw := ctx.annotated().TimeWindow; tw != "" {
		return tw
	}
	if ctx.Metadata.TimeRaw != "" {
		return ctx.Metadata.TimeRaw
	}
	return ctx.Note.TimeWindow
}
