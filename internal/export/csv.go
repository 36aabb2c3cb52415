package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"tillsync/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row.
var columns = []string{
	"Order ID",
	"Number",
	"Status",
	"Placed At",
	"Customer Name",
	"Customer Phone",
	"Method",
	"Method Source",
	"Time Window",
	"Delivery Address",
	"Subtotal",
	"Tax",
	"Delivery Fee",
	"Tip",
	"Total",
	"Currency",
	"Payment Method",
	"Item Count",
	"Customer Note",
	"Printed",
	"Synced At",
}

// Writer wraps csv.Writer for exporting canonical orders as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteOrders converts a batch of orders to CSV rows and writes them.
func (w *Writer) WriteOrders(orders []domain.CanonicalOrder) error {
	for i := range orders {
		if err := w.csv.Write(orderToRow(&orders[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// orderToRow flattens a canonical order into export cells, in column order.
func orderToRow(o *domain.CanonicalOrder) []string {
	return []string{
		fmt.Sprintf("%d", o.OrderID),
		o.Number,
		o.Status,
		o.PlacedAt.Format(time.RFC3339),
		o.CustomerName,
		o.CustomerPhone,
		string(o.Method),
		string(o.MethodSource),
		o.TimeWindow,
		derefStr(o.Address),
		o.Subtotal.StringFixed(2),
		o.TaxTotal.StringFixed(2),
		formatOptional(o.DeliveryFee),
		formatOptional(o.Tip),
		o.Total.StringFixed(2),
		o.Currency,
		o.PaymentMethod,
		fmt.Sprintf("%d", len(o.LineItems)),
		o.CustomerNote,
		formatBool(o.Printed),
		o.SyncedAt.Format(time.RFC3339),
	}
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatOptional(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.StringFixed(2)
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a label for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for the Content-Disposition
// header. Format: {sanitized_label}_{YYYY-MM-DD}.{ext}
func BuildFilename(label, ext string) string {
	sanitized := SanitizeFilename(label)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.%s", sanitized, date, ext)
}
