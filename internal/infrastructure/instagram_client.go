package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"craftsmen_marketplace/internal/entities"
)

const instagramAPIBase = "https://i.instagram.com/api/v1"

// InstagramClient is a session-based adapter: it logs in lazily with
// username/password on first use and keeps the session in-process. All
// calls re-check login state, so a call cancelled mid-flight leaves the
// client in a state the next call can recover from.
type InstagramClient struct {
	username string
	password string
	baseURL  string

	mu        sync.Mutex
	loggedIn  bool
	sessionID string

	httpClient *http.Client
}

func NewInstagramClient(username, password string) *InstagramClient {
	return &InstagramClient{
		username:   username,
		password:   password,
		baseURL:    instagramAPIBase,
		httpClient: http.DefaultClient,
	}
}

func (c *InstagramClient) Name() string {
	return entities.PlatformInstagram
}

func (c *InstagramClient) configured() bool {
	return c.username != "" && c.password != ""
}

// IsLoggedIn reports whether an authenticated session is held.
func (c *InstagramClient) IsLoggedIn() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loggedIn
}

// ensureLoggedIn authenticates if no session is held yet. The mutex also
// serializes all session-bearing requests: at most one in-flight request
// per credential pair.
func (c *InstagramClient) ensureLoggedIn(ctx context.Context) error {
	if c.loggedIn {
		return nil
	}

	form := url.Values{}
	form.Set("username", c.username)
	form.Set("password", c.password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/accounts/login/", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("instagram login: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("instagram login: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var payload struct {
		Status    string `json:"status"`
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("instagram login decode: %w", err)
	}
	if payload.Status != "ok" {
		return fmt.Errorf("instagram login rejected: %s", payload.Status)
	}

	c.sessionID = payload.SessionID
	c.loggedIn = true
	return nil
}

// PublishPhoto uploads a local file with the caption, returning the media
// identifier issued by the platform.
func (c *InstagramClient) PublishPhoto(ctx context.Context, imagePath, caption string) entities.PlatformPostResult {
	result := entities.PlatformPostResult{Platform: entities.PlatformInstagram}

	if !c.configured() {
		result.Message = "Instagram API not configured"
		return result
	}

	// Checked before login so a bad path never triggers authentication.
	if _, err := os.Stat(imagePath); err != nil {
		result.Message = fmt.Sprintf("Image file not found: %s", imagePath)
		return result
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLoggedIn(ctx); err != nil {
		result.Message = fmt.Sprintf("Failed to login to Instagram: %v", err)
		return result
	}

	file, err := os.Open(imagePath)
	if err != nil {
		result.Message = fmt.Sprintf("Failed to open image: %v", err)
		return result
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("photo", filepath.Base(imagePath))
	if err != nil {
		result.Message = fmt.Sprintf("Failed to build upload: %v", err)
		return result
	}
	if _, err := io.Copy(part, file); err != nil {
		result.Message = fmt.Sprintf("Failed to read image: %v", err)
		return result
	}
	writer.WriteField("caption", caption)
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/media/upload/", &body)
	if err != nil {
		result.Message = fmt.Sprintf("Instagram request error: %v", err)
		return result
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.attachSession(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		result.Message = fmt.Sprintf("Instagram posting error: %v", err)
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		// Session expired server-side; next call re-authenticates.
		c.loggedIn = false
		result.Message = fmt.Sprintf("Instagram session rejected: status %d", resp.StatusCode)
		return result
	}

	var payload struct {
		Status string `json:"status"`
		Media  struct {
			PK string `json:"pk"`
		} `json:"media"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		result.Message = fmt.Sprintf("Instagram response decode error: %v", err)
		return result
	}
	if payload.Status != "ok" {
		result.Message = fmt.Sprintf("Instagram upload rejected: %s", payload.Status)
		return result
	}

	result.Success = true
	result.PostID = payload.Media.PK
	if result.PostID == "" {
		// Known edge case: upload accepted but the API exposed no media id.
		result.Message = "Posted to Instagram (no media id returned)"
	} else {
		result.Message = "Posted successfully to Instagram"
	}
	return result
}

// ListComments fetches comments on a media item.
func (c *InstagramClient) ListComments(ctx context.Context, postID string) ([]entities.Comment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLoggedIn(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/media/%s/comments/", c.baseURL, postID), nil)
	if err != nil {
		return nil, err
	}
	c.attachSession(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("instagram comments fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusUnauthorized {
			c.loggedIn = false
		}
		return nil, fmt.Errorf("instagram comments fetch: status %d", resp.StatusCode)
	}

	var payload struct {
		Comments []struct {
			PK   string `json:"pk"`
			Text string `json:"text"`
			User struct {
				PK       string `json:"pk"`
				Username string `json:"username"`
			} `json:"user"`
		} `json:"comments"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("instagram comments decode: %w", err)
	}

	comments := make([]entities.Comment, 0, len(payload.Comments))
	for _, cm := range payload.Comments {
		comments = append(comments, entities.Comment{
			ID:       cm.PK,
			Text:     cm.Text,
			Author:   cm.User.Username,
			AuthorID: cm.User.PK,
		})
	}
	return comments, nil
}

// ReplyToComment posts a reply on the media, mentioning the commenter.
// Instagram replies land on the media itself, so postID addresses the call.
func (c *InstagramClient) ReplyToComment(ctx context.Context, postID, commentID, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLoggedIn(ctx); err != nil {
		return err
	}

	form := url.Values{}
	form.Set("comment_text", text)
	form.Set("replied_to_comment_id", commentID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/media/%s/comments/", c.baseURL, postID), strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.attachSession(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("instagram comment reply: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusUnauthorized {
			c.loggedIn = false
		}
		return fmt.Errorf("instagram comment reply: status %d", resp.StatusCode)
	}
	return nil
}

func (c *InstagramClient) attachSession(req *http.Request) {
	if c.sessionID != "" {
		req.AddCookie(&http.Cookie{Name: "sessionid", Value: c.sessionID})
	}
}
