// Package normalize turns a loosely-structured storefront order into a
// single internally-consistent canonical order: fulfilment method, delivery
// time window, delivery fee, tip, merchandise subtotal, delivery address and
// the auxiliary charge list. The whole pipeline is a pure function of its
// input; it holds no state across calls and is safe for concurrent use.
package normalize

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// KeywordKind names a semantic slot in the keyword table.
type KeywordKind string

const (
	KindPickup      KeywordKind = "pickup"
	KindDelivery    KeywordKind = "delivery"
	KindTip         KeywordKind = "tip"
	KindDeliveryFee KeywordKind = "delivery_fee"
	// KindFeePhrase holds the phrases the note pass accepts a fee amount
	// after. Kept separate from KindDeliveryFee: a fee-line named
	// "Delivery" classifies fine on the bare keyword, but in free text a
	// bare "delivery" would read the next street number as a fee.
	KindFeePhrase KeywordKind = "delivery_fee_phrase"
)

// Keywords is the multilingual keyword table driving fee classification and
// note extraction. It is data, not logic: adding a locale or a synonym is a
// config change. Matching is case-insensitive substring matching.
type Keywords struct {
	// Sets maps kind -> locale -> keyword list.
	Sets map[KeywordKind]map[string][]string `yaml:"sets"`
	// TipLabel is the canonical fee-line name that is always a tip,
	// matched exactly (case-insensitive).
	TipLabel string `yaml:"tip_label"`
	// Labels are the display names used for synthesized fee entries.
	Labels map[KeywordKind]string `yaml:"labels"`
}

// DefaultKeywords returns the built-in English + Chinese keyword table.
func DefaultKeywords() *Keywords {
	return &Keywords{
		Sets: map[KeywordKind]map[string][]string{
			KindPickup: {
				"en": {"pickup", "pick up", "pick-up", "collection", "collect", "takeaway", "take away", "take-out", "takeout"},
				"zh": {"自取", "自提", "到店取", "外带"},
			},
			KindDelivery: {
				"en": {"delivery", "deliver", "ship to", "send to"},
				"zh": {"外卖", "外送", "配送", "送餐", "送到"},
			},
			KindTip: {
				"en": {"tip", "gratuity", "appreciation"},
				"zh": {"小费", "小費"},
			},
			KindDeliveryFee: {
				"en": {"delivery", "shipping"},
				"zh": {"配送费", "运费", "外送费"},
			},
			KindFeePhrase: {
				"en": {"delivery fee", "delivery charge", "shipping fee", "shipping charge"},
				"zh": {"配送费", "运费", "外送费"},
			},
		},
		TipLabel: "Show Your Appreciation",
		Labels: map[KeywordKind]string{
			KindDeliveryFee: "Delivery Fee",
			KindTip:         "Tip",
		},
	}
}

// LoadKeywords reads a keyword table from a YAML file. Kinds or locales
// missing from the file keep their defaults, so a deployment can override a
// single locale without restating the whole table.
func LoadKeywords(path string) (*Keywords, error) {
	kw := DefaultKeywords()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading keyword table: %w", err)
	}
	var override Keywords
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("parsing keyword table: %w", err)
	}
	for kind, locales := range override.Sets {
		if kw.Sets[kind] == nil {
			kw.Sets[kind] = map[string][]string{}
		}
		for locale, words := range locales {
			kw.Sets[kind][locale] = words
		}
	}
	if override.TipLabel != "" {
		kw.TipLabel = override.TipLabel
	}
	for kind, label := range override.Labels {
		kw.Labels[kind] = label
	}
	return kw, nil
}

// All returns every keyword of a kind across locales, lowercased.
func (k *Keywords) All(kind KeywordKind) []string {
	var out []string
	for _, words := range k.Sets[kind] {
		for _, w := range words {
			out = append(out, strings.ToLower(w))
		}
	}
	return out
}

// Label returns the display name for a synthesized entry of the given kind.
func (k *Keywords) Label(kind KeywordKind) string {
	if l, ok := k.Labels[kind]; ok {
		return l
	}
	return string(kind)
}

// containsAny reports whether the lowercased haystack contains any keyword
// of the given kind.
func (k *Keywords) containsAny(lower string, kind KeywordKind) bool {
	for _, w := range k.All(kind) {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
