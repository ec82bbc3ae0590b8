package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SocialPost is one published item registered for comment monitoring.
type SocialPost struct {
	ID        int       `json:"id"`
	Platform  string    `json:"platform"`
	PostID    string    `json:"post_id"`
	ProductID int       `json:"product_id"`
	Caption   string    `json:"caption"`
	Monitored bool      `json:"monitored"`
	CreatedAt time.Time `json:"created_at"`
}

// AutoReply is one logged automated comment response.
type AutoReply struct {
	ID           int       `json:"id"`
	Platform     string    `json:"platform"`
	PostID       string    `json:"post_id"`
	CommentID    string    `json:"comment_id"`
	OriginalText string    `json:"original_text"`
	ReplyText    string    `json:"reply_text"`
	Success      bool      `json:"success"`
	CreatedAt    time.Time `json:"created_at"`
}

type SocialPostRepository struct {
	db *pgxpool.Pool
}

func NewSocialPostRepository(db *pgxpool.Pool) *SocialPostRepository {
	return &SocialPostRepository{db: db}
}

// RegisterPost records a published post for monitoring. Re-publishing the
// same post id refreshes the caption and re-enables monitoring.
func (r *SocialPostRepository) RegisterPost(ctx context.Context, platform, postID string, productID int, caption string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO social_media_posts (platform, post_id, product_id, caption)
		VALUES ($1, $2, NULLIF($3, 0), $4)
		ON CONFLICT (platform, post_id) DO UPDATE
		SET caption = EXCLUDED.caption, monitored = TRUE
	`, platform, postID, productID, caption)
	return err
}

// ListMonitored returns all posts the background worker should poll.
func (r *SocialPostRepository) ListMonitored(ctx context.Context) ([]SocialPost, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, platform, post_id, COALESCE(product_id, 0), COALESCE(caption,''), monitored, created_at
		FROM social_media_posts WHERE monitored ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []SocialPost
	for rows.Next() {
		var p SocialPost
		if err := rows.Scan(&p.ID, &p.Platform, &p.PostID, &p.ProductID, &p.Caption, &p.Monitored, &p.CreatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// LogReply stores one automated response. The comment_id unique constraint
// makes re-polling the same comment list a no-op instead of a double reply.
func (r *SocialPostRepository) LogReply(ctx context.Context, reply AutoReply) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO auto_replies (platform, post_id, comment_id, original_text, reply_text, success)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (comment_id) DO NOTHING
	`, reply.Platform, reply.PostID, reply.CommentID, reply.OriginalText, reply.ReplyText, reply.Success)
	return err
}

// HasReplied reports whether a comment was already answered.
func (r *SocialPostRepository) HasReplied(ctx context.Context, commentID string) (bool, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM auto_replies WHERE comment_id = $1", commentID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// RepliesForPost returns the reply log for one platform post.
func (r *SocialPostRepository) RepliesForPost(ctx context.Context, platform, postID string) ([]AutoReply, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, platform, COALESCE(post_id,''), COALESCE(comment_id,''), COALESCE(original_text,''), COALESCE(reply_text,''), success, created_at
		FROM auto_replies WHERE platform = $1 AND post_id = $2 ORDER BY id
	`, platform, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var replies []AutoReply
	for rows.Next() {
		var a AutoReply
		if err := rows.Scan(&a.ID, &a.Platform, &a.PostID, &a.CommentID, &a.OriginalText, &a.ReplyText, &a.Success, &a.CreatedAt); err != nil {
			return nil, err
		}
		replies = append(replies, a)
	}
	return replies, rows.Err()
}
