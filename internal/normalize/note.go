package normalize

import (
	"fmt"
	"regexp"
	"strings"

	"tillsync/internal/domain"
)

// Static note patterns. Keyword-derived patterns are compiled per
// Normalizer in newNotePatterns, because the keyword table is data.
var (
	// Legacy annotation tokens an older client appended to the note.
	// Current runs never write these; they are only read.
	legacyFeeRe    = regexp.MustCompile(`(?im)^\s*delivery\s*fee\s*[:：]\s*([0-9][0-9.,]*)\s*$`)
	legacyTipRe    = regexp.MustCompile(`(?im)^\s*tip\s*[:：]\s*([0-9][0-9.,]*)\s*$`)
	legacyMethodRe = regexp.MustCompile(`(?im)^\s*method\s*[:：]\s*(delivery|pickup)\s*$`)
	legacyTimeRe   = regexp.MustCompile(`(?im)^\s*(?:delivery\s*)?time\s*[:：]\s*(.+?)\s*$`)

	// Time-of-day patterns. The range pattern takes precedence over the
	// single-time pattern, which takes precedence over the localized one.
	timeRangeRe  = regexp.MustCompile(`([01]?\d|2[0-3]):([0-5]\d)\s*(?:-|–|~|到|至)\s*([01]?\d|2[0-3]):([0-5]\d)`)
	timeSingleRe = regexp.MustCompile(`\b([01]?\d|2[0-3]):([0-5]\d)(?:\s*([AaPp][Mm]))?`)
	timeZhRe     = regexp.MustCompile(`(早上|上午|中午|下午|晚上)\s*([01]?\d|2[0-3])\s*[点點](半)?`)

	asapRe = regexp.MustCompile(`(?i)\basap\b`)
)

// notePatterns holds the keyword-derived regexes of one Normalizer.
type notePatterns struct {
	tipAmountRe *regexp.Regexp
	feeAmountRe *regexp.Regexp
}

// newNotePatterns compiles currency-amount patterns of the form
// "<phrase> ... <amount>" from the keyword table, in both languages. The
// fee pattern uses the fee phrases, not the bare delivery keywords, so
// "delivery to 12 Elm Road" never reads 12 as a fee.
func newNotePatterns(kw *Keywords) notePatterns {
	return notePatterns{
		tipAmountRe: amountAfterKeywords(kw.All(KindTip)),
		feeAmountRe: amountAfterKeywords(kw.All(KindFeePhrase)),
	}
}

func amountAfterKeywords(words []string) *regexp.Regexp {
	quoted := make([]string, 0, len(words))
	for _, w := range words {
		quoted = append(quoted, regexp.QuoteMeta(w))
	}
	// Up to a few filler characters between the phrase and the amount
	// covers "tip: $5", "tip of 5.00", "小费5元".
	pattern := fmt.Sprintf(`(?i)(?:%s)[^0-9\n]{0,8}([0-9]+(?:[.,][0-9]{1,2})?)`, strings.Join(quoted, "|"))
	return regexp.MustCompile(pattern)
}

// amountIn returns the first amount captured by re that is not the hour of
// a clock time: "at 19:20" contains no currency amount.
func amountIn(re *regexp.Regexp, note string) string {
	for _, m := range re.FindAllStringSubmatchIndex(note, -1) {
		start, end := m[2], m[3]
		if end+1 < len(note) && note[end] == ':' && note[end+1] >= '0' && note[end+1] <= '9' {
			continue
		}
		return note[start:end]
	}
	return ""
}

// ExtractNote runs both extraction passes over the free-text customer note:
// the annotation pass for legacy machine-written tokens, then the
// natural-language pass for keywords, time-of-day patterns and currency
// amounts. Every failed match degrades to an absent signal.
func (n *Normalizer) ExtractNote(note string) NoteSignals {
	var sig NoteSignals
	if strings.TrimSpace(note) == "" {
		return sig
	}
	lower := strings.ToLower(note)

	// Annotation pass.
	sig.Annotated = extractLegacyAnnotations(note)

	// Keyword pass. ASAP counts as a pickup indicator only when no
	// delivery keyword co-occurs: "deliver asap" is a delivery note.
	sig.DeliveryHint = n.kw.containsAny(lower, KindDelivery)
	sig.PickupHint = n.kw.containsAny(lower, KindPickup) ||
		(asapRe.MatchString(note) && !sig.DeliveryHint)

	sig.TimeWindow = extractTimeWindow(note)

	// Currency amounts following tip / delivery-fee phrases. A zero here
	// means "nothing found", never a confirmed zero; only a classified
	// fee line may assert a genuine zero fee.
	if a := amountIn(n.pat.tipAmountRe, note); a != "" {
		sig.Tip = nonZero(ptr(parseAmount(a)))
	}
	if a := amountIn(n.pat.feeAmountRe, note); a != "" {
		sig.DeliveryFee = nonZero(ptr(parseAmount(a)))
	}
	return sig
}

func extractLegacyAnnotations(note string) AnnotatedValues {
	var av AnnotatedValues
	if m := legacyMethodRe.FindStringSubmatch(note); m != nil {
		av.Method = domain.OrderMethod(strings.ToLower(m[1]))
	}
	if m := legacyTimeRe.FindStringSubmatch(note); m != nil {
		av.TimeWindow = m[1]
	}
	if m := legacyFeeRe.FindStringSubmatch(note); m != nil {
		av.DeliveryFee = nonZero(ptr(parseAmount(m[1])))
	}
	if m := legacyTipRe.FindStringSubmatch(note); m != nil {
		av.Tip = nonZero(ptr(parseAmount(m[1])))
	}
	return av
}

// extractTimeWindow resolves the time-of-day slot: range first, then a
// single 24-hour time with optional AM/PM, then the localized pattern.
func extractTimeWindow(note string) string {
	if m := timeRangeRe.FindStringSubmatch(note); m != nil {
		return fmt.Sprintf("%s:%s - %s:%s", m[1], m[2], m[3], m[4])
	}
	if m := timeSingleRe.FindStringSubmatch(note); m != nil {
		t := m[1] + ":" + m[2]
		if m[3] != "" {
			t += " " + strings.ToUpper(m[3])
		}
		return t
	}
	if m := timeZhRe.FindStringSubmatch(note); m != nil {
		t := m[1] + m[2] + "点"
		if m[3] != "" {
			t += "半"
		}
		return t
	}
	return ""
}
