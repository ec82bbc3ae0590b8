package infrastructure

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pot.jpg")
	require.NoError(t, os.WriteFile(path, []byte("jpeg"), 0644))
	return path
}

func TestFacebookPublishPhoto(t *testing.T) {
	assert := assert.New(t)

	t.Run("Success", func(t *testing.T) {
		var gotCaption, gotAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseMultipartForm(1<<20))
			gotCaption = r.FormValue("message")
			gotAuth = r.Header.Get("Authorization")
			w.Write([]byte(`{"id":"111","post_id":"111_222"}`))
		}))
		defer server.Close()

		client := NewFacebookClient("tok", "page9")
		client.baseURL = server.URL

		result := client.PublishPhoto(context.Background(), testImage(t), "New pot! #handmade")
		assert.True(result.Success)
		assert.Equal("111_222", result.PostID)
		assert.Equal("New pot! #handmade", gotCaption)
		assert.Equal("Bearer tok", gotAuth)
	})

	t.Run("FallsBackToID", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"id":"111"}`))
		}))
		defer server.Close()

		client := NewFacebookClient("tok", "page9")
		client.baseURL = server.URL

		result := client.PublishPhoto(context.Background(), testImage(t), "x")
		assert.True(result.Success)
		assert.Equal("111", result.PostID)
	})

	t.Run("APIError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"message":"token expired"}}`))
		}))
		defer server.Close()

		client := NewFacebookClient("tok", "page9")
		client.baseURL = server.URL

		result := client.PublishPhoto(context.Background(), testImage(t), "x")
		assert.False(result.Success)
		assert.Contains(result.Message, "token expired")
	})

	t.Run("NotConfigured", func(t *testing.T) {
		client := NewFacebookClient("", "page9")
		result := client.PublishPhoto(context.Background(), testImage(t), "x")
		assert.False(result.Success)
		assert.Contains(result.Message, "not configured")
	})

	t.Run("MissingImageNeverHitsNetwork", func(t *testing.T) {
		hits := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
		}))
		defer server.Close()

		client := NewFacebookClient("tok", "page9")
		client.baseURL = server.URL

		result := client.PublishPhoto(context.Background(), "/nope/pot.jpg", "x")
		assert.False(result.Success)
		assert.Contains(result.Message, "Image file not found")
		assert.Equal(0, hits)
	})
}

func TestFacebookComments(t *testing.T) {
	assert := assert.New(t)

	t.Run("List", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal("/111_222/comments", r.URL.Path)
			w.Write([]byte(`{"data":[{"id":"c1","message":"how much?","from":{"id":"u1","name":"Asha"}}]}`))
		}))
		defer server.Close()

		client := NewFacebookClient("tok", "page9")
		client.baseURL = server.URL

		comments, err := client.ListComments(context.Background(), "111_222")
		require.NoError(t, err)
		require.Len(t, comments, 1)
		assert.Equal("c1", comments[0].ID)
		assert.Equal("how much?", comments[0].Text)
		assert.Equal("Asha", comments[0].Author)
	})

	t.Run("Reply", func(t *testing.T) {
		var gotPath, gotMessage string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			require.NoError(t, r.ParseForm())
			gotMessage = r.FormValue("message")
			w.Write([]byte(`{"id":"r1"}`))
		}))
		defer server.Close()

		client := NewFacebookClient("tok", "page9")
		client.baseURL = server.URL

		err := client.ReplyToComment(context.Background(), "111_222", "c1", "Thanks!")
		require.NoError(t, err)
		assert.Equal("/c1/comments", gotPath)
		assert.Equal("Thanks!", gotMessage)
	})

	t.Run("ListErrorStatus", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		client := NewFacebookClient("tok", "page9")
		client.baseURL = server.URL

		_, err := client.ListComments(context.Background(), "111_222")
		assert.Error(err)
	})
}
