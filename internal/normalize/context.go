package normalize

import (
	"github.com/shopspring/decimal"

	"tillsync/internal/domain"
)

// AnnotatedValues carries values a previous normalization run already
// resolved for the same order. They are threaded through the pipeline in
// memory and take top precedence in reconciliation; the pipeline never
// serializes them back into the customer note.
type AnnotatedValues struct {
	Method      domain.OrderMethod // "" when unannotated
	TimeWindow  string
	DeliveryFee *decimal.Decimal
	Tip         *decimal.Decimal
}

// MetadataSignals is the partial signal set produced by scanning the raw
// metadata list. Missing keys yield zero values, never errors.
type MetadataSignals struct {
	MethodRaw string // raw value of the order-method/order-type key
	TimeRaw   string // normalized delivery time or timeslot display form
	// Diagnostics holds "key=value" strings for unrecognized keys whose
	// names look domain-related. They inform note extraction debugging
	// only and are never treated as structured signals.
	Diagnostics []string
}

// FeeClassification is the result of classifying the raw fee-line list.
// The first line of each kind is authoritative; later lines of the same
// kind are folded into Other to guard against double counting.
type FeeClassification struct {
	DeliveryFee    *decimal.Decimal
	DeliveryFeeTax decimal.Decimal
	Tip            *decimal.Decimal
	TipTax         decimal.Decimal
	Other          []domain.FeeEntry
}

// NoteSignals is the result of the natural-language pass over the customer
// note plus any legacy annotation tokens found in it.
type NoteSignals struct {
	PickupHint   bool
	DeliveryHint bool
	TimeWindow   string
	DeliveryFee  *decimal.Decimal // nil when absent or extracted as zero
	Tip          *decimal.Decimal
	Annotated    AnnotatedValues // legacy "label: value" tokens from an older client
}

// MethodDecision is the resolved fulfilment method with its deciding source.
type MethodDecision struct {
	Method domain.OrderMethod
	Source domain.SignalSource
}

// ResolvedFees is the outcome of fee reconciliation.
type ResolvedFees struct {
	DeliveryFee *decimal.Decimal
	Tip         *decimal.Decimal
}

// ExtractionContext is the in-memory intermediate record threaded through
// one pipeline run. It replaces the legacy design of round-tripping
// extracted values through the note field as labeled text.
type ExtractionContext struct {
	Prior    AnnotatedValues
	Metadata MetadataSignals
	Fees     FeeClassification
	Note     NoteSignals
}

// annotated returns the effective annotation-pass values: in-memory prior
// values win over legacy tokens parsed out of the note text.
func (c *ExtractionContext) annotated() AnnotatedValues {
	out := c.Note.Annotated
	if c.Prior.Method != "" {
		out.Method = c.Prior.Method
	}
	if c.Prior.TimeWindow != "" {
		out.TimeWindow = c.Prior.TimeWindow
	}
	if v := nonZero(c.Prior.DeliveryFee); v != nil {
		out.DeliveryFee = v
	}
	if v := nonZero(c.Prior.Tip); v != nil {
		out.Tip = v
	}
	return out
}
