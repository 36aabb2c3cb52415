package normalize

import (
	"tillsync/internal/domain"
	"tillsync/internal/storefront"
)

// ResolveAddress picks the delivery address to surface. Pickup orders get
// none. Delivery orders prefer a shipping address that actually diverges
// from billing; otherwise the billing address is used, because storefront
// plugins frequently store the delivery address in the billing slot. The
// result is nil only when both address blocks are fully empty.
func ResolveAddress(method domain.OrderMethod, billing, shipping *storefront.Address) *string {
	if method != domain.MethodDelivery {
		return nil
	}
	if addressesDiverge(billing, shipping) {
		s := shipping.Display()
		return &s
	}
	if !billing.IsEmpty() {
		s := billing.Display()
		return &s
	}
	if !shipping.IsEmpty() {
		s := shipping.Display()
		return &s
	}
	return nil
}
