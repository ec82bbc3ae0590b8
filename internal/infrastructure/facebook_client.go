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

	"craftsmen_marketplace/internal/entities"
)

const graphAPIBase = "https://graph.facebook.com/v18.0"

// FacebookClient publishes photos to a Facebook Page via the Graph API.
// A single authenticated call per operation; no session state to keep.
type FacebookClient struct {
	accessToken string
	pageID      string
	baseURL     string
	httpClient  *http.Client
}

func NewFacebookClient(accessToken, pageID string) *FacebookClient {
	if pageID == "" {
		pageID = "me"
	}
	return &FacebookClient{
		accessToken: accessToken,
		pageID:      pageID,
		baseURL:     graphAPIBase,
		httpClient:  http.DefaultClient,
	}
}

func (f *FacebookClient) Name() string {
	return entities.PlatformFacebook
}

// PublishPhoto uploads image bytes with the caption as the accompanying
// message. Success is keyed off the presence of an id in the response.
func (f *FacebookClient) PublishPhoto(ctx context.Context, imagePath, caption string) entities.PlatformPostResult {
	result := entities.PlatformPostResult{Platform: entities.PlatformFacebook}

	if f.accessToken == "" {
		result.Message = "Facebook API not configured"
		return result
	}

	// Local precondition, checked before anything touches the network.
	if _, err := os.Stat(imagePath); err != nil {
		result.Message = fmt.Sprintf("Image file not found: %s", imagePath)
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

	part, err := writer.CreateFormFile("source", filepath.Base(imagePath))
	if err != nil {
		result.Message = fmt.Sprintf("Failed to build upload: %v", err)
		return result
	}
	if _, err := io.Copy(part, file); err != nil {
		result.Message = fmt.Sprintf("Failed to read image: %v", err)
		return result
	}
	writer.WriteField("message", caption)
	writer.Close()

	endpoint := fmt.Sprintf("%s/%s/photos", f.baseURL, f.pageID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		result.Message = fmt.Sprintf("Facebook request error: %v", err)
		return result
	}
	req.Header.Set("Authorization", "Bearer "+f.accessToken)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := f.httpClient.Do(req)
	if err != nil {
		result.Message = fmt.Sprintf("Facebook posting error: %v", err)
		return result
	}
	defer resp.Body.Close()

	var envelope struct {
		ID     string `json:"id"`
		PostID string `json:"post_id"`
		Error  *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		result.Message = fmt.Sprintf("Facebook response decode error: %v", err)
		return result
	}
	if envelope.Error != nil {
		result.Message = fmt.Sprintf("Facebook API error: %s", envelope.Error.Message)
		return result
	}

	postID := envelope.PostID
	if postID == "" {
		postID = envelope.ID
	}
	if postID == "" {
		result.Message = "Facebook returned no post id"
		return result
	}

	result.Success = true
	result.PostID = postID
	result.Message = "Posted successfully to Facebook"
	return result
}

// ListComments fetches the current comment list for a post.
func (f *FacebookClient) ListComments(ctx context.Context, postID string) ([]entities.Comment, error) {
	endpoint := fmt.Sprintf("%s/%s/comments?fields=%s", f.baseURL, postID, url.QueryEscape("id,message,from"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+f.accessToken)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("facebook comments fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("facebook comments fetch: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var payload struct {
		Data []struct {
			ID      string `json:"id"`
			Message string `json:"message"`
			From    struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"from"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("facebook comments decode: %w", err)
	}

	comments := make([]entities.Comment, 0, len(payload.Data))
	for _, c := range payload.Data {
		comments = append(comments, entities.Comment{
			ID:       c.ID,
			Text:     c.Message,
			Author:   c.From.Name,
			AuthorID: c.From.ID,
		})
	}
	return comments, nil
}

// ReplyToComment posts a reply under an existing comment.
func (f *FacebookClient) ReplyToComment(ctx context.Context, postID, commentID, text string) error {
	form := url.Values{}
	form.Set("message", text)

	endpoint := fmt.Sprintf("%s/%s/comments", f.baseURL, commentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+f.accessToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("facebook comment reply: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("facebook comment reply: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return nil
}
