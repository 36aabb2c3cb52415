package normalize

import (
	"strings"

	"tillsync/internal/domain"
	"tillsync/internal/storefront"
)

// ClassifyFeeLines classifies each raw fee line as tip, delivery fee or
// other by multilingual keyword match. Evaluation order per line:
//
//  1. exact match against the canonical tip label, or tip keyword
//     substring -> tip
//  2. delivery-fee keyword substring -> delivery fee
//  3. everything else -> other
//
// The first line of each kind is authoritative. A second tip line or a
// second delivery-fee line is folded into the other bucket so one semantic
// charge is never counted twice.
func (n *Normalizer) ClassifyFeeLines(lines []storefront.FeeLine) FeeClassification {
	var fc FeeClassification

	for _, line := range lines {
		name := strings.TrimSpace(line.Name)
		lower := strings.ToLower(name)
		amount := parseAmount(line.Total)
		tax := parseAmount(line.TotalTax)

		switch {
		case n.isTipLine(lower):
			if fc.Tip == nil {
				fc.Tip = ptr(amount)
				fc.TipTax = tax
				continue
			}
		case n.kw.containsAny(lower, KindDeliveryFee):
			if fc.DeliveryFee == nil {
				fc.DeliveryFee = ptr(amount)
				fc.DeliveryFeeTax = tax
				continue
			}
		}

		fc.Other = append(fc.Other, domain.FeeEntry{
			Kind:   domain.FeeKindOther,
			Name:   name,
			Amount: amount,
			Tax:    tax,
		})
	}
	return fc
}

func (n *Normalizer) isTipLine(lower string) bool {
	if lower == strings.ToLower(n.kw.TipLabel) {
		return true
	}
	return n.kw.containsAny(lower, KindTip)
}
