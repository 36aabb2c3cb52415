package normalize

import (
	"tillsync/internal/domain"
)

// SynthesizeFeeEntries assembles the auxiliary charge list exposed to the
// UI and the print template: one delivery-fee entry (delivery orders with
// a resolved fee only), one tip entry (non-nil, non-zero tips only), then
// the pass-through "other" lines. The list is deduplicated by kind: at
// most one delivery-fee and one tip entry are ever emitted, whatever the
// raw fee-line list looked like.
func (n *Normalizer) SynthesizeFeeEntries(ctx *ExtractionContext, method domain.OrderMethod, fees ResolvedFees) []domain.FeeEntry {
	var entries []domain.FeeEntry
	seen := map[domain.FeeKind]bool{}

	if method == domain.MethodDelivery && fees.DeliveryFee != nil {
		entries = append(entries, domain.FeeEntry{
			Kind:   domain.FeeKindDelivery,
			Name:   n.kw.Label(KindDeliveryFee),
			Amount: *fees.DeliveryFee,
			Tax:    ctx.Fees.DeliveryFeeTax,
		})
		seen[domain.FeeKindDelivery] = true
	}
	if fees.Tip != nil && !fees.Tip.IsZero() {
		entries = append(entries, domain.FeeEntry{
			Kind:   domain.FeeKindTip,
			Name:   n.kw.Label(KindTip),
			Amount: *fees.Tip,
			Tax:    ctx.Fees.TipTax,
		})
		seen[domain.FeeKindTip] = true
	}

	for _, other := range ctx.Fees.Other {
		if other.Kind != domain.FeeKindOther && seen[other.Kind] {
			continue
		}
		if other.Kind != domain.FeeKindOther {
			seen[other.Kind] = true
		}
		entries = append(entries, other)
	}
	return entries
}
