package normalize_test

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tillsync/internal/domain"
	"tillsync/internal/normalize"
	"tillsync/internal/storefront"
)

func baseOrder() *storefront.Order {
	return &storefront.Order{
		ID:       1001,
		Number:   "1001",
		Status:   "processing",
		Currency: "USD",
		Total:    "42.00",
		TotalTax: "0.00",
		Billing: storefront.Address{
			FirstName: "Ada", LastName: "Lau",
			Address1: "1 Main St", City: "Springfield", Postcode: "1010",
			Phone: "555-0101",
		},
		LineItems: []storefront.LineItem{
			{Name: "Pad Thai", ProductID: 7, Quantity: "2", Price: "12.50", Total: "25.00"},
			{Name: "Spring Rolls", ProductID: 9, Quantity: "1", Price: "17.00", Total: "17.00"},
		},
	}
}

func TestNormalize_NilOrder(t *testing.T) {
	n := normalize.New(nil)
	_, err := n.Normalize(nil)
	assert.ErrorIs(t, err, domain.ErrNilOrder)
}

// Scenario A: an untagged appreciation fee line resolves to exactly one
// tip entry.
func TestNormalize_ScenarioA_TipFeeLine(t *testing.T) {
	n := normalize.New(nil)
	raw := baseOrder()
	raw.Total = "47.00"
	raw.FeeLines = []storefront.FeeLine{{Name: "Show Your Appreciation", Total: "5.00"}}

	order, err := n.Normalize(raw)
	require.NoError(t, err)

	requireAmount(t, "5.00", order.Tip)

	var tipEntries []domain.FeeEntry
	for _, e := range order.FeeEntries {
		if e.Kind == domain.FeeKindTip {
			tipEntries = append(tipEntries, e)
		}
	}
	require.Len(t, tipEntries, 1)
	assert.True(t, tipEntries[0].Amount.Equal(d("5.00")))
}

// Scenario B: explicit pickup metadata, empty shipping, ASAP note.
func TestNormalize_ScenarioB_PickupMetadata(t *testing.T) {
	n := normalize.New(nil)
	raw := baseOrder()
	raw.CustomerNote = "ASAP"
	raw.MetaData = []storefront.MetaEntry{{Key: "exwfood_order_method", Value: "pickup"}}

	order, err := n.Normalize(raw)
	require.NoError(t, err)

	assert.Equal(t, domain.MethodPickup, order.Method)
	assert.Nil(t, order.DeliveryFee)
	assert.Nil(t, order.Address)
}

// Scenario C: address divergence implies delivery; absent fee signals stay
// absent rather than defaulting.
func TestNormalize_ScenarioC_DivergentAddressNoFeeSignal(t *testing.T) {
	n := normalize.New(nil)
	raw := baseOrder()
	raw.Shipping = storefront.Address{
		FirstName: "Ada", LastName: "Lau",
		Address1: "99 Elm Rd", City: "Shelbyville", Postcode: "2020",
	}

	order, err := n.Normalize(raw)
	require.NoError(t, err)

	assert.Equal(t, domain.MethodDelivery, order.Method)
	assert.Equal(t, domain.SourceAddressDivergence, order.MethodSource)
	assert.Nil(t, order.DeliveryFee)
	require.NotNil(t, order.Address)
	assert.Contains(t, *order.Address, "99 Elm Rd")
}

// Scenario D: a time range in the note comes through verbatim.
func TestNormalize_ScenarioD_TimeRange(t *testing.T) {
	n := normalize.New(nil)
	raw := baseOrder()
	raw.CustomerNote = "19:20 - 19:40"

	order, err := n.Normalize(raw)
	require.NoError(t, err)
	assert.Equal(t, "19:20 - 19:40", order.TimeWindow)
}

// Scenario E: line items sum cleanly, so the primary subtotal method is
// used and no fallback triggers.
func TestNormalize_ScenarioE_PrimarySubtotal(t *testing.T) {
	n := normalize.New(nil)
	raw := baseOrder()
	raw.Total = "50.00"
	raw.TotalTax = "3.00"
	raw.CustomerNote = "please deliver"
	raw.FeeLines = []storefront.FeeLine{{Name: "Delivery fee", Total: "5.00"}}

	order, err := n.Normalize(raw)
	require.NoError(t, err)

	assert.True(t, order.Subtotal.Equal(d("42.00")), "got %s", order.Subtotal)
	requireAmount(t, "5.00", order.DeliveryFee)
}

func TestNormalize_DeliveryAddressFallsBackToBilling(t *testing.T) {
	// Storefront plugins frequently store the delivery address in the
	// billing slot only.
	n := normalize.New(nil)
	raw := baseOrder()
	raw.CustomerNote = "please deliver to my place"

	order, err := n.Normalize(raw)
	require.NoError(t, err)

	assert.Equal(t, domain.MethodDelivery, order.Method)
	require.NotNil(t, order.Address)
	assert.Contains(t, *order.Address, "1 Main St")
}

func TestNormalize_PickupGuard(t *testing.T) {
	// For every pickup order: no delivery fee and no delivery address,
	// whatever the sources asserted.
	n := normalize.New(nil)
	raw := baseOrder()
	raw.CustomerNote = "pickup please"
	raw.FeeLines = []storefront.FeeLine{{Name: "Delivery fee", Total: "5.00"}}
	raw.MetaData = []storefront.MetaEntry{{Key: "exwfood_order_method", Value: "delivery"}}

	order, err := n.Normalize(raw)
	require.NoError(t, err)

	assert.Equal(t, domain.MethodPickup, order.Method)
	assert.Nil(t, order.DeliveryFee)
	assert.Nil(t, order.Address)
	for _, e := range order.FeeEntries {
		assert.NotEqual(t, domain.FeeKindDelivery, e.Kind)
	}
}

func TestNormalize_AddressNumberDoesNotBecomeFee(t *testing.T) {
	// An all-merchandise order whose note mentions a street number after
	// "delivery" keeps a null fee and an intact totals balance.
	n := normalize.New(nil)
	raw := baseOrder()
	raw.CustomerNote = "delivery to 12 Elm Road please"

	order, err := n.Normalize(raw)
	require.NoError(t, err)

	assert.Equal(t, domain.MethodDelivery, order.Method)
	assert.Nil(t, order.DeliveryFee)
	assert.True(t, order.Subtotal.Equal(d("42.00")))

	raw = baseOrder()
	raw.CustomerNote = "delivery 19:20 - 19:40"

	order, err = n.Normalize(raw)
	require.NoError(t, err)

	assert.Nil(t, order.DeliveryFee)
	assert.Equal(t, "19:20 - 19:40", order.TimeWindow)
}

func TestNormalize_TotalsInvariant(t *testing.T) {
	n := normalize.New(nil)
	cases := []*storefront.Order{
		func() *storefront.Order {
			raw := baseOrder()
			raw.Total = "50.00"
			raw.TotalTax = "3.00"
			raw.CustomerNote = "deliver please"
			raw.FeeLines = []storefront.FeeLine{{Name: "Delivery", Total: "5.00"}}
			return raw
		}(),
		func() *storefront.Order {
			raw := baseOrder()
			raw.Total = "44.50"
			raw.FeeLines = []storefront.FeeLine{{Name: "Tip", Total: "2.50"}}
			return raw
		}(),
		baseOrder(),
	}

	for i, raw := range cases {
		order, err := n.Normalize(raw)
		require.NoError(t, err, "case %d", i)

		sum := order.Subtotal.Add(order.TaxTotal)
		if order.DeliveryFee != nil {
			sum = sum.Add(*order.DeliveryFee)
		}
		if order.Tip != nil {
			sum = sum.Add(*order.Tip)
		}
		diff := sum.Sub(order.Total).Abs()
		assert.True(t, diff.LessThanOrEqual(d("0.01")),
			"case %d: subtotal %s + tax %s + fees drifts from total %s by %s",
			i, order.Subtotal, order.TaxTotal, order.Total, diff)
	}
}

// rawFromCanonical re-serializes a canonical order into the raw shape, the
// way the cache layer would when re-normalizing a stored order.
func rawFromCanonical(raw *storefront.Order, o *domain.CanonicalOrder) *storefront.Order {
	out := *raw
	out.FeeLines = nil
	for _, e := range o.FeeEntries {
		out.FeeLines = append(out.FeeLines, storefront.FeeLine{
			Name:     e.Name,
			Total:    e.Amount.StringFixed(2),
			TotalTax: e.Tax.StringFixed(2),
		})
	}
	return &out
}

func TestNormalize_Idempotence(t *testing.T) {
	n := normalize.New(nil)
	cases := map[string]*storefront.Order{
		"tip_fee_line": func() *storefront.Order {
			raw := baseOrder()
			raw.Total = "47.00"
			raw.FeeLines = []storefront.FeeLine{{Name: "Show Your Appreciation", Total: "5.00"}}
			return raw
		}(),
		"delivery_with_fee": func() *storefront.Order {
			raw := baseOrder()
			raw.Total = "50.00"
			raw.TotalTax = "3.00"
			raw.CustomerNote = "deliver 19:20 - 19:40"
			raw.FeeLines = []storefront.FeeLine{{Name: "Delivery fee", Total: "5.00"}}
			return raw
		}(),
		"plain_pickup": baseOrder(),
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			first, err := n.Normalize(raw)
			require.NoError(t, err)

			second, err := n.NormalizeWithPrior(rawFromCanonical(raw, first), first)
			require.NoError(t, err)

			assert.Equal(t, first.Method, second.Method)
			assert.Equal(t, first.TimeWindow, second.TimeWindow)
			assert.Equal(t, feeString(first.DeliveryFee), feeString(second.DeliveryFee))
			assert.Equal(t, feeString(first.Tip), feeString(second.Tip))
			assert.True(t, first.Subtotal.Equal(second.Subtotal))
			require.Equal(t, len(first.FeeEntries), len(second.FeeEntries))
			for i := range first.FeeEntries {
				assert.Equal(t, first.FeeEntries[i].Kind, second.FeeEntries[i].Kind)
				assert.True(t, first.FeeEntries[i].Amount.Equal(second.FeeEntries[i].Amount))
			}
		})
	}
}

func feeString(v *decimal.Decimal) string {
	if v == nil {
		return "<nil>"
	}
	return v.StringFixed(2)
}

func TestNormalize_PassthroughFields(t *testing.T) {
	n := normalize.New(nil)
	raw := baseOrder()
	raw.PaymentMethodTitle = "Cash on delivery"

	order, err := n.Normalize(raw)
	require.NoError(t, err)

	assert.Equal(t, int64(1001), order.OrderID)
	assert.Equal(t, "1001", order.Number)
	assert.Equal(t, "processing", order.Status)
	assert.Equal(t, "USD", order.Currency)
	assert.Equal(t, "Ada Lau", order.CustomerName)
	assert.Equal(t, "555-0101", order.CustomerPhone)
	assert.Equal(t, "Cash on delivery", order.PaymentMethod)
	require.Len(t, order.LineItems, 2)
	assert.Equal(t, "Pad Thai", order.LineItems[0].Name)
	// Flags are owned by the caller and always come out zero-valued.
	assert.False(t, order.Printed)
	assert.False(t, order.Read)
	assert.False(t, order.Notified)
}

func TestNormalize_ConcurrentCalls(t *testing.T) {
	n := normalize.New(nil)
	done := make(chan error, 16)
	for i := 0; i < 16; i++ {
		go func(i int) {
			raw := baseOrder()
			raw.ID = int64(i)
			raw.CustomerNote = fmt.Sprintf("deliver at 18:%02d", i)
			_, err := n.Normalize(raw)
			done <- err
		}(i)
	}
	for i := 0; i < 16; i++ {
		assert.NoError(t, <-done)
	}
}
