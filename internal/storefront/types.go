// Package storefront holds the wire types and REST client for the remote
// WooCommerce-style storefront that orders are mirrored from.
package storefront

import "strings"

// MetaEntry is a single key/value metadata entry on an order. Values are
// JSON scalars of any type, so Value stays untyped until scanned.
type MetaEntry struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// FeeLine is a named auxiliary charge attached to an order. The storefront
// does not tag what a fee line means; classification is heuristic.
type FeeLine struct {
	Name     string `json:"name"`
	Total    string `json:"total"`
	TotalTax string `json:"total_tax"`
}

// TaxLine is a single tax rate applied to an order.
type TaxLine struct {
	Label       string `json:"label"`
	RatePercent string `json:"rate_percent"`
	TaxTotal    string `json:"tax_total"`
}

// LineItem is a merchandise line on an order. Amounts arrive as decimal
// strings and are never parsed as binary floats.
type LineItem struct {
	Name      string `json:"name"`
	ProductID int64  `json:"product_id"`
	Quantity  string `json:"quantity"`
	Price     string `json:"price"`
	Total     string `json:"total"`
}

// Address is a billing or shipping address block.
type Address struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company"`
	Address1  string `json:"address_1"`
	Address2  string `json:"address_2"`
	City      string `json:"city"`
	State     string `json:"state"`
	Postcode  string `json:"postcode"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// IsEmpty reports whether no street, city or postcode information exists.
// Name-only blocks count as empty: storefronts copy the customer name into
// the shipping slot even for pickup orders.
func (a *Address) IsEmpty() bool {
	return strings.TrimSpace(a.Address1) == "" &&
		strings.TrimSpace(a.Address2) == "" &&
		strings.TrimSpace(a.City) == "" &&
		strings.TrimSpace(a.Postcode) == ""
}

// Display renders the address as a single comparable line. Empty segments
// are skipped so two addresses that differ only in blank fields compare
// equal.
func (a *Address) Display() string {
	parts := make([]string, 0, 8)
	name := strings.TrimSpace(strings.TrimSpace(a.FirstName) + " " + strings.TrimSpace(a.LastName))
	if name != "" {
		parts = append(parts, name)
	}
	for _, s := range []string{a.Company, a.Address1, a.Address2, a.City, a.State, a.Postcode} {
		if t := strings.TrimSpace(s); t != "" {
			parts = append(parts, t)
		}
	}
	if p := strings.TrimSpace(a.Phone); p != "" {
		parts = append(parts, p)
	}
	return strings.Join(parts, ", ")
}

// Order is the as-received, loosely-structured order representation. It is
// immutable input: normalization never writes back into it.
type Order struct {
	ID                 int64       `json:"id"`
	Number             string      `json:"number"`
	Status             string      `json:"status"`
	Currency           string      `json:"currency"`
	DateCreated        string      `json:"date_created"`
	Total              string      `json:"total"`
	TotalTax           string      `json:"total_tax"`
	CustomerNote       string      `json:"customer_note"`
	PaymentMethod      string      `json:"payment_method"`
	PaymentMethodTitle string      `json:"payment_method_title"`
	Billing            Address     `json:"billing"`
	Shipping           Address     `json:"shipping"`
	MetaData           []MetaEntry `json:"meta_data"`
	FeeLines           []FeeLine   `json:"fee_lines"`
	TaxLines           []TaxLine   `json:"tax_lines"`
	LineItems          []LineItem  `json:"line_items"`
}
