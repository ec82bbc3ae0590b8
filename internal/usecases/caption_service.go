package usecases

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"craftsmen_marketplace/internal/entities"
	"craftsmen_marketplace/internal/interfaces"
)

// AIState is the explicit configuration state of the generation backend.
// Carried as a typed capability instead of inferring it from a nil client.
type AIState int

const (
	AIStateUnconfigured AIState = iota
	AIStateReady
)

const (
	captionMaxTokens   = 200
	captionTemperature = 0.9
)

// Default hashtag sets. The first is the fallback-template set, the second
// fills in when generated text carried no hashtags at all.
var (
	fallbackHashtags  = []string{"#handmade", "#craftsmanship", "#beautiful", "#affordable", "#quality"}
	extractedDefaults = []string{"#handmade", "#craftsmanship", "#artisan", "#unique"}
)

// CaptionService turns product attributes into a ready-to-post marketing
// caption. Generation failures never surface: any error, empty response or
// unconfigured backend falls back to a deterministic template.
//
// Hashtag policy: hashtags stay inline in the caption text; the extracted
// slice is returned alongside for platform-specific appension.
type CaptionService struct {
	ai    interfaces.AIClient
	state AIState
}

func NewCaptionService(ai interfaces.AIClient) *CaptionService {
	state := AIStateReady
	if ai == nil {
		state = AIStateUnconfigured
	}
	return &CaptionService{ai: ai, state: state}
}

func (s *CaptionService) State() AIState {
	return s.state
}

// Generate produces one caption + hashtag set for the product.
func (s *CaptionService) Generate(ctx context.Context, content entities.ProductContent) entities.GeneratedCaption {
	if s.state != AIStateReady {
		return s.fallback(content)
	}

	prompt := buildCaptionPrompt(content)
	text, err := s.ai.GenerateText(ctx, prompt, captionMaxTokens, captionTemperature)
	if err != nil || strings.TrimSpace(text) == "" {
		fmt.Printf("[CAPTION] generation failed for %q, using fallback: %v\n", content.Name, err)
		return s.fallback(content)
	}

	caption := strings.TrimSpace(text)
	hashtags := ExtractHashtags(caption)
	if len(hashtags) == 0 {
		hashtags = append([]string(nil), extractedDefaults...)
	}

	return entities.GeneratedCaption{Caption: caption, Hashtags: hashtags}
}

// GenerateReply produces a short customer-facing reply for a comment or
// DM, grounded in the business context. Falls back to a canned line.
func (s *CaptionService) GenerateReply(ctx context.Context, commentText, businessContext string) string {
	const fallbackReply = "Thank you for your interest! Please DM us for more details."

	if s.state != AIStateReady {
		return fallbackReply
	}

	prompt := fmt.Sprintf(`Generate a friendly and professional response to this customer comment about a handcrafted product:

Customer Comment: "%s"
Context: %s

Requirements:
1. Be friendly and professional
2. Answer any questions if possible
3. Encourage engagement
4. Keep it concise (under 100 characters)
5. Include a call-to-action if appropriate`, commentText, businessContext)

	text, err := s.ai.GenerateText(ctx, prompt, 100, 0.7)
	if err != nil || strings.TrimSpace(text) == "" {
		return "Thank you for your comment! Feel free to message us for more information. 😊"
	}
	return strings.TrimSpace(text)
}

func (s *CaptionService) fallback(content entities.ProductContent) entities.GeneratedCaption {
	caption := fmt.Sprintf("Take this beautiful %s ✨ only for %s! DM for more info 📩",
		content.Name, priceText(content.Price))
	return entities.GeneratedCaption{
		Caption:  AppendHashtags(caption, fallbackHashtags),
		Hashtags: append([]string(nil), fallbackHashtags...),
	}
}

func priceText(price float64) string {
	if price <= 0 {
		return "best price"
	}
	return strconv.FormatFloat(price, 'f', -1, 64) + " rupees"
}

func buildCaptionPrompt(content entities.ProductContent) string {
	var sb strings.Builder
	sb.WriteString("Create a UNIQUE and catchy social media caption for a handcrafted product:\n\n")
	sb.WriteString("Product Name: " + content.Name + "\n")
	if content.Description != "" {
		sb.WriteString("Description: " + content.Description + "\n")
	}
	if content.Price > 0 {
		sb.WriteString("Price: " + priceText(content.Price) + "\n")
	}
	if content.Category != "" {
		sb.WriteString("Category: " + content.Category + "\n")
	}
	sb.WriteString(`
Requirements:
1. One ready-to-post caption, nothing else: no preamble, no "here is a caption", no meta commentary
2. Include the price when given, e.g. "only for ` + priceText(content.Price) + `"
3. Add emojis: ✨🛍️💎🌟💖🎉🔥💯⭐
4. Add urgency words: "limited", "hurry", "don't miss", "grab now"
5. End with 5-12 trending hashtags
6. Maximum 250 characters before hashtags
7. Vary sentence structure; be creative and different each time`)
	return sb.String()
}

// ExtractHashtags pulls #-prefixed tokens from generated text, preserving
// their order of appearance.
func ExtractHashtags(text string) []string {
	var hashtags []string
	for _, word := range strings.Fields(text) {
		if strings.HasPrefix(word, "#") && len(word) > 1 {
			hashtags = append(hashtags, word)
		}
	}
	return hashtags
}

// AppendHashtags appends the hashtag block to a caption unless it is
// already the caption's suffix, so re-running a publish never stacks
// duplicate hashtag blocks.
func AppendHashtags(caption string, hashtags []string) string {
	if len(hashtags) == 0 {
		return caption
	}
	block := " " + strings.Join(hashtags, " ")
	if strings.HasSuffix(caption, block) {
		return caption
	}
	return caption + block
}
