package normalize

import (
	"strings"

	"github.com/shopspring/decimal"
)

// minorUnitExp is the currency minor-unit exponent used for rounding and
// for the totals tolerance. Two decimal places covers every currency the
// storefront feeds emit.
const minorUnitExp = 2

var minorUnit = decimal.New(1, -minorUnitExp) // 0.01

var amountReplacer = strings.NewReplacer(",", "", "$", "", "¥", "", "￥", "", "€", "", "£", "", " ", "")

// parseAmount parses a currency-agnostic decimal string. Malformed amounts
// resolve to zero, never to an error: a bad amount is a data-quality issue,
// not a reason to abort normalization.
func parseAmount(s string) decimal.Decimal {
	d, _ := parseAmountOK(s)
	return d
}

// parseAmountOK parses a decimal string and reports whether it was valid.
func parseAmountOK(s string) (decimal.Decimal, bool) {
	cleaned := amountReplacer.Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// withinMinorUnit reports whether two amounts agree up to one currency
// minor unit.
func withinMinorUnit(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(minorUnit)
}

// nonZero returns d only when it is non-nil and non-zero. Heuristically
// extracted zeros mean "nothing found", not a confirmed zero amount.
func nonZero(d *decimal.Decimal) *decimal.Decimal {
	if d == nil || d.IsZero() {
		return nil
	}
	return d
}

func ptr(d decimal.Decimal) *decimal.Decimal { return &d }
