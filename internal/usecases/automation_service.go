package usecases

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"craftsmen_marketplace/internal/config"
	"craftsmen_marketplace/internal/entities"
	"craftsmen_marketplace/internal/infrastructure"
	"craftsmen_marketplace/internal/interfaces"
	"craftsmen_marketplace/internal/repository"
)

// Precondition failures. These are the only errors public operations
// return before doing work; everything downstream is reported inside the
// result structures instead of escalating.
var (
	ErrImageNotFound   = errors.New("image file not found")
	ErrNoPlatforms     = errors.New("no platforms requested")
	ErrNoPostIDs       = errors.New("no post ids to monitor")
	ErrPublishInFlight = errors.New("a publish for this product is already in flight")
)

// PostRecorder persists publish results against the owning product.
type PostRecorder interface {
	SavePostIDs(ctx context.Context, productID int, facebookPostID, instagramPostID string) error
	SaveCaption(ctx context.Context, productID int, caption string) error
}

// MonitorRegistry tracks published posts for comment monitoring and logs
// automated replies.
type MonitorRegistry interface {
	RegisterPost(ctx context.Context, platform, postID string, productID int, caption string) error
	ListMonitored(ctx context.Context) ([]repository.SocialPost, error)
	LogReply(ctx context.Context, reply repository.AutoReply) error
	HasReplied(ctx context.Context, commentID string) (bool, error)
}

// HoursStore overrides the configured business-hour bounds at runtime.
type HoursStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// PublishRequest describes one product publish.
type PublishRequest struct {
	ProductID        int
	ImagePath        string
	Content          entities.ProductContent
	Platforms        []string
	Caption          string            // used verbatim when set, hashtags assumed embedded
	PlatformCaptions map[string]string // optional per-platform variants
	Hashtags         []string          // appended idempotently when set
}

// PublishOutcome aggregates the fan-out results. Partial success is a
// valid terminal state, never collapsed into one pass/fail flag.
type PublishOutcome struct {
	AICaption         string                                 `json:"ai_caption"`
	PlatformCaptions  map[string]string                      `json:"platform_captions"`
	PostResults       map[string]entities.PlatformPostResult `json:"post_results"`
	AutomationEnabled bool                                   `json:"automation_enabled"`
}

// DMOutcome is the result of one direct-message exchange.
type DMOutcome struct {
	Reply         string `json:"ai_response"`
	BusinessHours bool   `json:"business_hours"`
	Deferred      bool   `json:"deferred"`
	Throttled     bool   `json:"throttled"`
}

// AutomationService ties caption generation, platform fan-out and comment
// automation together. Repositories and the notifier may be nil (tests,
// partial deployments); persistence steps are skipped in that case.
type AutomationService struct {
	captions   *CaptionService
	responder  *Responder
	publishers map[string]interfaces.Publisher

	Products    PostRecorder
	SocialPosts MonitorRegistry
	Hours       HoursStore
	Notifier    interfaces.Notifier

	guard        *infrastructure.PublishGuard
	replyLimiter *infrastructure.ReplyRateLimiter
	cfg          *config.Settings

	// Now is the clock used by the business-hours gate, swappable in tests.
	Now func() time.Time
}

func NewAutomationService(captions *CaptionService, responder *Responder, publishers []interfaces.Publisher, cfg *config.Settings) *AutomationService {
	byName := make(map[string]interfaces.Publisher, len(publishers))
	for _, p := range publishers {
		byName[p.Name()] = p
	}
	return &AutomationService{
		captions:     captions,
		responder:    responder,
		publishers:   byName,
		guard:        infrastructure.NewPublishGuard(),
		replyLimiter: infrastructure.NewReplyRateLimiter(0.2, 3),
		cfg:          cfg,
		Now:          time.Now,
	}
}

// PublishProduct runs the full publish cycle: caption (supplied or
// generated), idempotent hashtag appension, concurrent per-platform
// fan-out, post-id persistence and monitoring registration.
func (s *AutomationService) PublishProduct(ctx context.Context, req PublishRequest) (*PublishOutcome, error) {
	if len(req.Platforms) == 0 {
		return nil, ErrNoPlatforms
	}
	if _, err := os.Stat(req.ImagePath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrImageNotFound, req.ImagePath)
	}

	if req.ProductID != 0 {
		if !s.guard.TryAcquire(req.ProductID) {
			return nil, ErrPublishInFlight
		}
		defer s.guard.Release(req.ProductID)
	}

	caption := req.Caption
	hashtags := req.Hashtags
	if caption == "" {
		generated := s.captions.Generate(ctx, req.Content)
		caption = generated.Caption
		if len(hashtags) == 0 {
			hashtags = generated.Hashtags
		}
	}

	outcome := &PublishOutcome{
		AICaption:        caption,
		PlatformCaptions: make(map[string]string, len(req.Platforms)),
		PostResults:      make(map[string]entities.PlatformPostResult, len(req.Platforms)),
	}

	for _, platform := range req.Platforms {
		text := caption
		if v, ok := req.PlatformCaptions[platform]; ok && v != "" {
			text = v
		}
		outcome.PlatformCaptions[platform] = AppendHashtags(text, hashtags)
	}

	// Fan-out. Platforms are independent: one goroutine each, failures
	// stay inside the per-platform result.
	var wg sync.WaitGroup
	var mu sync.Mutex
	for _, platform := range req.Platforms {
		pub, ok := s.publishers[platform]
		if !ok {
			outcome.PostResults[platform] = entities.PlatformPostResult{
				Platform: platform,
				Message:  fmt.Sprintf("Unknown platform: %s", platform),
			}
			continue
		}

		wg.Add(1)
		go func(platform string, pub interfaces.Publisher) {
			defer wg.Done()
			result := pub.PublishPhoto(ctx, req.ImagePath, outcome.PlatformCaptions[platform])
			mu.Lock()
			outcome.PostResults[platform] = result
			mu.Unlock()
		}(platform, pub)
	}
	wg.Wait()

	s.recordResults(ctx, req.ProductID, caption, outcome)
	s.notifyPublish(req.Content.Name, outcome)

	return outcome, nil
}

// recordResults persists post ids and registers successful posts for
// comment monitoring. Persistence errors are logged, not escalated: the
// posts exist on the platforms regardless.
func (s *AutomationService) recordResults(ctx context.Context, productID int, caption string, outcome *PublishOutcome) {
	var fbID, igID string
	for platform, result := range outcome.PostResults {
		if !result.Success || result.PostID == "" {
			continue
		}

		switch platform {
		case entities.PlatformFacebook:
			fbID = result.PostID
		case entities.PlatformInstagram:
			igID = result.PostID
		}

		if s.SocialPosts != nil {
			if err := s.SocialPosts.RegisterPost(ctx, platform, result.PostID, productID, outcome.PlatformCaptions[platform]); err != nil {
				fmt.Printf("[AUTOMATION] failed to register %s post %s for monitoring: %v\n", platform, result.PostID, err)
				continue
			}
		}
		outcome.AutomationEnabled = true
	}

	if s.Products != nil && productID != 0 {
		if fbID != "" || igID != "" {
			if err := s.Products.SavePostIDs(ctx, productID, fbID, igID); err != nil {
				fmt.Printf("[AUTOMATION] failed to save post ids for product %d: %v\n", productID, err)
			}
		}
		if err := s.Products.SaveCaption(ctx, productID, caption); err != nil {
			fmt.Printf("[AUTOMATION] failed to save caption for product %d: %v\n", productID, err)
		}
	}
}

func (s *AutomationService) notifyPublish(productName string, outcome *PublishOutcome) {
	if s.Notifier == nil {
		return
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "📣 Publish finished for *%s*\n", productName)
	for platform, result := range outcome.PostResults {
		if result.Success {
			fmt.Fprintf(&sb, "✅ %s: %s\n", platform, result.PostID)
		} else {
			fmt.Fprintf(&sb, "❌ %s: %s\n", platform, result.Message)
		}
	}
	if err := s.Notifier.NotifyOwner(sb.String()); err != nil {
		fmt.Printf("[AUTOMATION] owner notification failed: %v\n", err)
	}
}

// MonitorProduct polls each platform's comment list for the given post ids
// and replies to every unanswered comment. A single comment's failure is
// recorded and the loop continues.
func (s *AutomationService) MonitorProduct(ctx context.Context, postIDs map[string]string) (map[string][]entities.CommentReply, error) {
	if len(postIDs) == 0 {
		return nil, ErrNoPostIDs
	}

	responses := make(map[string][]entities.CommentReply, len(postIDs))
	for platform, postID := range postIDs {
		responses[platform] = s.monitorPost(ctx, platform, postID)
	}
	return responses, nil
}

func (s *AutomationService) monitorPost(ctx context.Context, platform, postID string) []entities.CommentReply {
	pub, ok := s.publishers[platform]
	if !ok {
		fmt.Printf("[AUTOMATION] no publisher for platform %s\n", platform)
		return nil
	}

	comments, err := pub.ListComments(ctx, postID)
	if err != nil {
		fmt.Printf("[AUTOMATION] error fetching %s comments for %s: %v\n", platform, postID, err)
		return nil
	}

	var replies []entities.CommentReply
	for _, comment := range comments {
		if s.SocialPosts != nil {
			if done, err := s.SocialPosts.HasReplied(ctx, comment.ID); err == nil && done {
				continue
			}
		}

		response := s.responder.Respond(ctx, comment.Text)
		text := response
		if platform == entities.PlatformInstagram && comment.Author != "" {
			text = "@" + comment.Author + " " + response
		}

		reply := entities.CommentReply{
			CommentID:       comment.ID,
			OriginalComment: comment.Text,
		}
		if err := pub.ReplyToComment(ctx, postID, comment.ID, text); err != nil {
			reply.Error = err.Error()
		} else {
			reply.AIResponse = response
			reply.Success = true
		}
		replies = append(replies, reply)

		if s.SocialPosts != nil {
			if err := s.SocialPosts.LogReply(ctx, repository.AutoReply{
				Platform:     platform,
				PostID:       postID,
				CommentID:    comment.ID,
				OriginalText: comment.Text,
				ReplyText:    response,
				Success:      reply.Success,
			}); err != nil {
				fmt.Printf("[AUTOMATION] failed to log reply for comment %s: %v\n", comment.ID, err)
			}
		}
	}
	return replies
}

// HandleDirectMessage answers a customer DM. Outside business hours the
// customer gets the deferred template and the owner is notified instead.
func (s *AutomationService) HandleDirectMessage(ctx context.Context, msg entities.Message) DMOutcome {
	open := s.IsOpen(ctx)
	outcome := DMOutcome{BusinessHours: open}

	if !s.cfg.AutoRespondToMessages {
		return outcome
	}
	if !s.replyLimiter.Allow(msg.Platform + ":" + msg.From) {
		outcome.Throttled = true
		return outcome
	}

	if !open {
		start, end := s.hours(ctx)
		outcome.Deferred = true
		outcome.Reply = fmt.Sprintf(
			"Thank you for your message! 🌙 We're currently outside business hours (%s - %s). We'll get back to you as soon as possible. For urgent inquiries, please call %s. ✨",
			start, end, s.cfg.BusinessPhone)

		if s.Notifier != nil {
			s.Notifier.NotifyOwner(fmt.Sprintf("🌙 Off-hours inquiry on %s from %s:\n%s", msg.Platform, msg.From, msg.Content))
		}
		return outcome
	}

	outcome.Reply = s.responder.Respond(ctx, msg.Content)
	return outcome
}

// hours resolves the active business-hour bounds: environment defaults,
// overridden by stored settings when present.
func (s *AutomationService) hours(ctx context.Context) (start, end string) {
	start, end = s.cfg.BusinessHoursStart, s.cfg.BusinessHoursEnd
	if s.Hours == nil {
		return start, end
	}
	if v, err := s.Hours.Get(ctx, repository.SettingBusinessHoursStart); err == nil && v != "" {
		start = v
	}
	if v, err := s.Hours.Get(ctx, repository.SettingBusinessHoursEnd); err == nil && v != "" {
		end = v
	}
	return start, end
}

// IsOpen reports whether the business is currently inside its hours.
func (s *AutomationService) IsOpen(ctx context.Context) bool {
	start, end := s.hours(ctx)
	return WithinBusinessHours(s.Now(), start, end)
}

// BusinessHours returns the active bounds for the status endpoint.
func (s *AutomationService) BusinessHours(ctx context.Context) (start, end string) {
	return s.hours(ctx)
}

// UpdateBusinessHours validates and stores new bounds.
func (s *AutomationService) UpdateBusinessHours(ctx context.Context, start, end string) error {
	if !ValidClock(start) || !ValidClock(end) {
		return fmt.Errorf("invalid business hours %q - %q (want HH:MM)", start, end)
	}
	if s.Hours == nil {
		return fmt.Errorf("settings store not configured")
	}
	if err := s.Hours.Set(ctx, repository.SettingBusinessHoursStart, start); err != nil {
		return err
	}
	return s.Hours.Set(ctx, repository.SettingBusinessHoursEnd, end)
}

// RespondToComment generates (without posting) a reply for one comment,
// for manual review flows.
func (s *AutomationService) RespondToComment(ctx context.Context, commentText string) string {
	return s.responder.Respond(ctx, commentText)
}

// AutoRespondEnabled reports the comment-automation flag.
func (s *AutomationService) AutoRespondEnabled() bool {
	return s.cfg.AutoRespondToComments
}
