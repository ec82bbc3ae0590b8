package entities

// Platform names used across publishers, repositories and handlers.
const (
	PlatformFacebook  = "facebook"
	PlatformInstagram = "instagram"
)

// GeneratedCaption is the output of one caption generation call.
// Caption keeps hashtags inline; Hashtags carries them separately for
// platform-specific appension. Immutable once produced.
type GeneratedCaption struct {
	Caption  string   `json:"caption"`
	Hashtags []string `json:"hashtags"`
}

// PlatformPostResult is the normalized outcome of one publish attempt on
// one platform. Success with an empty PostID means the platform accepted
// the upload but did not expose an id; that is not a failure.
type PlatformPostResult struct {
	Platform string `json:"platform"`
	Success  bool   `json:"success"`
	PostID   string `json:"post_id,omitempty"`
	Message  string `json:"message"`
}

// Comment is one inbound comment fetched from a platform post.
type Comment struct {
	ID       string
	Text     string
	Author   string
	AuthorID string
}

// CommentReply records the outcome of one automated comment response.
type CommentReply struct {
	CommentID       string `json:"comment_id"`
	OriginalComment string `json:"original_comment"`
	AIResponse      string `json:"ai_response,omitempty"`
	Error           string `json:"error,omitempty"`
	Success         bool   `json:"success"`
}
