package interfaces

import (
	"context"

	"craftsmen_marketplace/internal/entities"
)

// AIClient is the generative-text boundary. Implementations must treat
// auth failure, quota and transient network errors uniformly as an error
// return; callers recover with templated fallbacks.
type AIClient interface {
	GenerateText(ctx context.Context, prompt string, maxTokens int, temperature float32) (string, error)
}

// Publisher is one social platform adapter. PublishPhoto never returns a
// Go error: transport and auth failures are converted into the result
// value so that one platform's failure cannot abort another's publish.
type Publisher interface {
	Name() string
	PublishPhoto(ctx context.Context, imagePath, caption string) entities.PlatformPostResult
	ListComments(ctx context.Context, postID string) ([]entities.Comment, error)
	ReplyToComment(ctx context.Context, postID, commentID, text string) error
}

// Notifier pushes operational notices to the business owner.
type Notifier interface {
	NotifyOwner(text string) error
}
