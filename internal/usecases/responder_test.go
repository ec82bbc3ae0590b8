package usecases

import (
	"context"
	"testing"

	"craftsmen_marketplace/internal/config"

	"github.com/stretchr/testify/assert"
)

func testSettings() *config.Settings {
	return &config.Settings{
		BusinessName:          "Clay & Cane",
		BusinessLocation:      "Jaipur",
		BusinessPhone:         "+91-555-0100",
		BusinessEmail:         "orders@clayandcane.test",
		BusinessHoursStart:    "09:00",
		BusinessHoursEnd:      "18:00",
		AutoRespondToComments: true,
		AutoRespondToMessages: true,
	}
}

func TestClassifyIntent(t *testing.T) {
	assert := assert.New(t)

	cases := []struct {
		text string
		want Intent
	}{
		{"How much does this cost?", IntentPricing},
		{"what's the PRICE", IntentPricing},
		{"I want to order one", IntentOrder},
		{"can i buy this", IntentOrder},
		{"do you ship to Delhi?", IntentShipping},
		{"delivery time?", IntentShipping},
		{"can you customize the glaze", IntentCustomization},
		{"so beautiful!", IntentGeneric},
		{"", IntentGeneric},
	}
	for _, tc := range cases {
		assert.Equal(tc.want, ClassifyIntent(tc.text), "text: %q", tc.text)
	}
}

// Pricing outranks every later category when keywords co-occur.
func TestClassifyIntentPriority(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(IntentPricing, ClassifyIntent("I want to buy, how much including delivery?"))
	assert.Equal(IntentOrder, ClassifyIntent("want it shipped with a custom engraving"))
	assert.Equal(IntentShipping, ClassifyIntent("does delivery include custom packaging"))
}

func TestRespond(t *testing.T) {
	assert := assert.New(t)
	cfg := testSettings()

	t.Run("OrderIsCanned", func(t *testing.T) {
		ai := &fakeAI{response: "should not be used"}
		r := NewResponder(NewCaptionService(ai), cfg)
		got := r.Respond(context.Background(), "I want to buy this")
		assert.Contains(got, "+91-555-0100")
		assert.Contains(got, "place your order")
		assert.Equal(0, ai.calls)
	})

	t.Run("ShippingIsCanned", func(t *testing.T) {
		r := NewResponder(NewCaptionService(nil), cfg)
		got := r.Respond(context.Background(), "do you ship nationwide?")
		assert.Contains(got, "Jaipur")
		assert.Contains(got, "+91-555-0100")
	})

	t.Run("CustomizationIsCanned", func(t *testing.T) {
		r := NewResponder(NewCaptionService(nil), cfg)
		got := r.Respond(context.Background(), "can you personalize it?")
		assert.Contains(got, "custom pieces")
	})

	t.Run("PricingUsesAI", func(t *testing.T) {
		ai := &fakeAI{response: "Starts at 300 rupees! DM us 💖"}
		r := NewResponder(NewCaptionService(ai), cfg)
		got := r.Respond(context.Background(), "how much is the bowl?")
		assert.Equal("Starts at 300 rupees! DM us 💖", got)
		assert.Equal(1, ai.calls)
		assert.Contains(ai.prompts[0], "Customer is asking about pricing.")
		assert.Contains(ai.prompts[0], "Clay & Cane")
	})

	t.Run("GenericUsesAI", func(t *testing.T) {
		ai := &fakeAI{response: "Thank you so much! ✨"}
		r := NewResponder(NewCaptionService(ai), cfg)
		got := r.Respond(context.Background(), "gorgeous work")
		assert.Equal("Thank you so much! ✨", got)
	})

	t.Run("GenericWithoutAIFallsBack", func(t *testing.T) {
		r := NewResponder(NewCaptionService(nil), cfg)
		got := r.Respond(context.Background(), "gorgeous work")
		assert.Equal("Thank you for your interest! Please DM us for more details.", got)
	})
}
