package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"tillsync/internal/storefront"
)

// Known WooFood-style metadata keys, compared case-insensitively. The two
// method keys fill the same semantic slot; within one scan the first match
// wins and is not overwritten.
var (
	methodKeys   = []string{"exwfood_order_method", "woofood_order_type"}
	timeKeys     = []string{"exwfood_time_deli", "exwfood_date_deli"}
	timeslotKeys = []string{"exwfood_timeslot_deli"}
)

// Substrings that mark an unrecognized key as domain-suggestive. Matching
// entries are retained verbatim as diagnostics, not as structured signals.
var diagnosticHints = []string{"delivery", "shipping", "tip", "pickup", "time"}

// timeslot values arrive as "start|end" or "start~end"; both are shown as
// "start - end".
var timeslotSeparators = []string{"|", "~"}

// ScanMetadata scans the ordered metadata list for known delivery-method
// and delivery-time keys. Missing keys simply yield empty signals.
func ScanMetadata(entries []storefront.MetaEntry) MetadataSignals {
	var sig MetadataSignals
	var timeslot string

	for _, e := range entries {
		key := strings.ToLower(strings.TrimSpace(e.Key))
		val := strings.TrimSpace(metaValueString(e.Value))
		if val == "" {
			continue
		}

		switch {
		case matchesKey(key, methodKeys):
			if sig.MethodRaw == "" {
				sig.MethodRaw = val
			}
		case matchesKey(key, timeslotKeys):
			if timeslot == "" {
				timeslot = normalizeTimeslot(val)
			}
		case matchesKey(key, timeKeys):
			if sig.TimeRaw == "" {
				sig.TimeRaw = val
			}
		default:
			for _, hint := range diagnosticHints {
				if strings.Contains(key, hint) {
					sig.Diagnostics = append(sig.Diagnostics, e.Key+"="+val)
					break
				}
			}
		}
	}

	// A timeslot is more specific than a plain delivery time.
	if timeslot != "" {
		sig.TimeRaw = timeslot
	}
	return sig
}

// metaValueString renders a JSON-scalar metadata value as a string.
// Non-scalar values (arrays, objects) are ignored.
func metaValueString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case fmt.Stringer:
		return t.String()
	default:
		return ""
	}
}

func matchesKey(key string, known []string) bool {
	for _, k := range known {
		if key == k {
			return true
		}
	}
	return false
}

// normalizeTimeslot converts a separator-delimited timeslot value to the
// canonical "start - end" display form.
func normalizeTimeslot(v string) string {
	for _, sep := range timeslotSeparators {
		if strings.Contains(v, sep) {
			parts := strings.SplitN(v, sep, 2)
			start := strings.TrimSpace(parts[0])
			end := strings.TrimSpace(parts[1])
			if start != "" && end != "" {
				return start + " - " + end
			}
		}
	}
	return v
}
