package normalize

import (
	"strings"

	"tillsync/internal/domain"
	"tillsync/internal/storefront"
)

// Metadata method values asserting pickup. Anything equal to "delivery"
// asserts delivery; other values are ignored as noise.
var pickupMethodValues = map[string]bool{
	"pickup":     true,
	"takeaway":   true,
	"take away":  true,
	"collection": true,
}

// ResolveMethod decides delivery vs pickup. The first applicable rule wins:
//
//  1. the note/annotation pass yields an unambiguous pickup signal
//  2. structured metadata asserts an explicit method
//  3. the shipping address is non-empty and differs from billing
//  4. the note contains a delivery keyword
//  5. default pickup
//
// Rule 1 deliberately outranks rule 2: operator-entered notes are fresher
// than plugin metadata in real feeds, so an explicit pickup note overrides
// a stale "delivery" tag. Address divergence is a heuristic and therefore
// sits below both explicit sources.
func ResolveMethod(ctx *ExtractionContext, billing, shipping *storefront.Address) MethodDecision {
	annotated := ctx.annotated()

	// 1. Unambiguous pickup from the note or a prior run.
	if annotated.Method == domain.MethodPickup {
		return MethodDecision{Method: domain.MethodPickup, Source: domain.SourceAnnotation}
	}
	if ctx.Note.PickupHint && !ctx.Note.DeliveryHint {
		return MethodDecision{Method: domain.MethodPickup, Source: domain.SourceNoteKeyword}
	}

	// 2. Explicit structured metadata.
	switch methodValue := strings.ToLower(strings.TrimSpace(ctx.Metadata.MethodRaw)); {
	case pickupMethodValues[methodValue]:
		return MethodDecision{Method: domain.MethodPickup, Source: domain.SourceMetadata}
	case methodValue == "delivery":
		return MethodDecision{Method: domain.MethodDelivery, Source: domain.SourceMetadata}
	}
	if annotated.Method == domain.MethodDelivery {
		return MethodDecision{Method: domain.MethodDelivery, Source: domain.SourceAnnotation}
	}

	// 3. Address divergence.
	if addressesDiverge(billing, shipping) {
		return MethodDecision{Method: domain.MethodDelivery, Source: domain.SourceAddressDivergence}
	}

	// 4. Delivery keyword in the note.
	if ctx.Note.DeliveryHint {
		return MethodDecision{Method: domain.MethodDelivery, Source: domain.SourceNoteKeyword}
	}

	// 5. No positive delivery signal means pickup, not "unknown".
	return MethodDecision{Method: domain.MethodPickup, Source: domain.SourceDefault}
}

// addressesDiverge reports whether a non-empty shipping address differs
// from the billing address, compared case-insensitively on the rendered
// display form.
func addressesDiverge(billing, shipping *storefront.Address) bool {
	if shipping.IsEmpty() {
		return false
	}
	return !strings.EqualFold(shipping.Display(), billing.Display())
}
