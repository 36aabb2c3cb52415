package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tillsync/internal/domain"
	"tillsync/internal/normalize"
)

func TestExtractNote_Empty(t *testing.T) {
	n := normalize.New(nil)
	sig := n.ExtractNote("   ")
	assert.False(t, sig.PickupHint)
	assert.False(t, sig.DeliveryHint)
	assert.Empty(t, sig.TimeWindow)
	assert.Nil(t, sig.Tip)
	assert.Nil(t, sig.DeliveryFee)
}

func TestExtractNote_PickupKeywords(t *testing.T) {
	n := normalize.New(nil)
	for _, note := range []string{
		"I will pick up at 6",
		"customer pickup",
		"Collection please",
		"自取，谢谢",
	} {
		sig := n.ExtractNote(note)
		assert.True(t, sig.PickupHint, "note %q", note)
	}
}

func TestExtractNote_ASAP(t *testing.T) {
	n := normalize.New(nil)

	t.Run("asap_alone_is_pickup", func(t *testing.T) {
		sig := n.ExtractNote("ASAP please")
		assert.True(t, sig.PickupHint)
		assert.False(t, sig.DeliveryHint)
	})

	t.Run("asap_with_delivery_keyword_is_not_pickup", func(t *testing.T) {
		sig := n.ExtractNote("please deliver ASAP")
		assert.False(t, sig.PickupHint)
		assert.True(t, sig.DeliveryHint)
	})
}

func TestExtractNote_DeliveryKeywords(t *testing.T) {
	n := normalize.New(nil)
	for _, note := range []string{"please deliver to the back door", "外卖", "送到公司"} {
		sig := n.ExtractNote(note)
		assert.True(t, sig.DeliveryHint, "note %q", note)
	}
}

func TestExtractNote_TimeWindow(t *testing.T) {
	n := normalize.New(nil)
	tests := []struct {
		name string
		note string
		want string
	}{
		{"range", "19:20 - 19:40", "19:20 - 19:40"},
		{"range_no_spaces", "deliver 19:20-19:40 please", "19:20 - 19:40"},
		{"range_tilde", "11:00~11:30", "11:00 - 11:30"},
		{"range_chinese_sep", "19:20到19:40", "19:20 - 19:40"},
		{"single_24h", "please come at 18:45", "18:45"},
		{"single_am_pm", "at 7:30 pm", "7:30 PM"},
		{"chinese_afternoon", "下午6点送到", "下午6点"},
		{"chinese_half_hour", "晚上8点半", "晚上8点半"},
		{"range_beats_single", "between 12:00 - 12:30, not 13:00", "12:00 - 12:30"},
		{"none", "no time mentioned", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := n.ExtractNote(tt.note)
			assert.Equal(t, tt.want, sig.TimeWindow)
		})
	}
}

func TestExtractNote_TipAmount(t *testing.T) {
	n := normalize.New(nil)
	tests := []struct {
		note string
		want string
	}{
		{"tip: $5", "5"},
		{"tip 5.50 for the driver", "5.50"},
		{"gratuity of 3", "3"},
		{"小费5元", "5"},
	}
	for _, tt := range tests {
		sig := n.ExtractNote(tt.note)
		requireAmount(t, tt.want, sig.Tip)
	}
}

func TestExtractNote_DeliveryFeeAmount(t *testing.T) {
	n := normalize.New(nil)
	sig := n.ExtractNote("delivery fee 4.50 agreed on the phone")
	requireAmount(t, "4.50", sig.DeliveryFee)

	sig = n.ExtractNote("delivery charge: $6.50")
	requireAmount(t, "6.50", sig.DeliveryFee)

	sig = n.ExtractNote("配送费8元")
	requireAmount(t, "8", sig.DeliveryFee)
}

func TestExtractNote_FeeAmountRequiresFeePhrase(t *testing.T) {
	n := normalize.New(nil)

	// A street number after a bare delivery keyword is an address, not a
	// fee.
	sig := n.ExtractNote("delivery to 12 Elm Road please")
	assert.True(t, sig.DeliveryHint)
	assert.Nil(t, sig.DeliveryFee)

	sig = n.ExtractNote("delivery 19:20 - 19:40")
	assert.True(t, sig.DeliveryHint)
	assert.Nil(t, sig.DeliveryFee)
	assert.Equal(t, "19:20 - 19:40", sig.TimeWindow)
}

func TestExtractNote_ClockTimeIsNotAnAmount(t *testing.T) {
	n := normalize.New(nil)

	sig := n.ExtractNote("delivery fee at 19:20")
	assert.Nil(t, sig.DeliveryFee)

	sig = n.ExtractNote("tip at 19:20")
	assert.Nil(t, sig.Tip)
}

func TestExtractNote_ZeroAmountIsAbsent(t *testing.T) {
	n := normalize.New(nil)
	sig := n.ExtractNote("tip 0.00 this time")
	assert.Nil(t, sig.Tip)
}

func TestExtractNote_LegacyAnnotations(t *testing.T) {
	n := normalize.New(nil)
	note := "leave at the door\nMethod: delivery\nDelivery fee: 5.00\nTip: 2.00\nTime: 19:20 - 19:40"
	sig := n.ExtractNote(note)

	assert.Equal(t, domain.MethodDelivery, sig.Annotated.Method)
	assert.Equal(t, "19:20 - 19:40", sig.Annotated.TimeWindow)
	requireAmount(t, "5.00", sig.Annotated.DeliveryFee)
	requireAmount(t, "2.00", sig.Annotated.Tip)
}

func TestExtractNote_LegacyAnnotationZeroIsAbsent(t *testing.T) {
	n := normalize.New(nil)
	sig := n.ExtractNote("Tip: 0.00")
	assert.Nil(t, sig.Annotated.Tip)
}

func TestExtractNote_AnnotationRequiresOwnLine(t *testing.T) {
	// Free text mentioning "tip: 5" mid-sentence is the natural-language
	// pass's business, not an annotation.
	n := normalize.New(nil)
	sig := n.ExtractNote("they said the tip: 5 dollars is fine")
	assert.Nil(t, sig.Annotated.Tip)
	require.NotNil(t, sig.Tip)
}
