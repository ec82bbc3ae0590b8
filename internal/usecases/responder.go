package usecases

import (
	"context"
	"fmt"
	"strings"

	"craftsmen_marketplace/internal/config"
)

// Intent is the classified purpose of an inbound comment or DM.
type Intent int

const (
	IntentGeneric Intent = iota
	IntentPricing
	IntentOrder
	IntentShipping
	IntentCustomization
)

func (i Intent) String() string {
	switch i {
	case IntentPricing:
		return "pricing"
	case IntentOrder:
		return "order"
	case IntentShipping:
		return "shipping"
	case IntentCustomization:
		return "customization"
	default:
		return "generic"
	}
}

// intentTable is checked in order; the first category with a matching
// keyword wins even when later categories' keywords co-occur. The order is
// load-bearing for reproducible replies — do not reorder.
var intentTable = []struct {
	intent   Intent
	keywords []string
}{
	{IntentPricing, []string{"price", "cost", "how much"}},
	{IntentOrder, []string{"order", "buy", "purchase", "want"}},
	{IntentShipping, []string{"ship", "delivery", "location"}},
	{IntentCustomization, []string{"custom", "personalize", "modify"}},
}

// ClassifyIntent maps free text to an intent by keyword membership.
func ClassifyIntent(text string) Intent {
	lower := strings.ToLower(text)
	for _, entry := range intentTable {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.intent
			}
		}
	}
	return IntentGeneric
}

// Responder produces a reply for an inbound comment or DM: canned,
// parameterized replies for the order/shipping/customization intents, and
// AI-assisted replies (with template fallback) for pricing and generic.
type Responder struct {
	captions *CaptionService
	cfg      *config.Settings
}

func NewResponder(captions *CaptionService, cfg *config.Settings) *Responder {
	return &Responder{captions: captions, cfg: cfg}
}

// Respond classifies the text and renders the reply for its intent.
func (r *Responder) Respond(ctx context.Context, text string) string {
	switch ClassifyIntent(text) {
	case IntentPricing:
		return r.captions.GenerateReply(ctx, text,
			r.cfg.BusinessContext()+"\nCustomer is asking about pricing.")

	case IntentOrder:
		return fmt.Sprintf("Thank you for your interest! 😊 Please send us a DM or call %s to place your order. We'd love to create something special for you! 🎨",
			r.cfg.BusinessPhone)

	case IntentShipping:
		return fmt.Sprintf("We ship nationwide! 📦 For shipping details, please DM us or contact %s. Based in %s. 🚚",
			r.cfg.BusinessPhone, r.cfg.BusinessLocation)

	case IntentCustomization:
		return "We love creating custom pieces! ✨ Please DM us with your ideas and we'll work together to create something unique just for you! 🎨"

	default:
		return r.captions.GenerateReply(ctx, text, r.cfg.BusinessContext())
	}
}
