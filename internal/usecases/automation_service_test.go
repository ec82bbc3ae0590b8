package usecases

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"craftsmen_marketplace/internal/entities"
	"craftsmen_marketplace/internal/interfaces"
	"craftsmen_marketplace/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePublisher is a scriptable platform adapter.
type fakePublisher struct {
	name     string
	succeed  bool
	postID   string
	failMsg  string
	comments []entities.Comment
	replyErr error

	mu       sync.Mutex
	captions []string
	replies  []string
	calls    int
}

func (p *fakePublisher) Name() string { return p.name }

func (p *fakePublisher) PublishPhoto(ctx context.Context, imagePath, caption string) entities.PlatformPostResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.captions = append(p.captions, caption)
	if !p.succeed {
		return entities.PlatformPostResult{Platform: p.name, Message: p.failMsg}
	}
	return entities.PlatformPostResult{Platform: p.name, Success: true, PostID: p.postID, Message: "posted"}
}

func (p *fakePublisher) ListComments(ctx context.Context, postID string) ([]entities.Comment, error) {
	return p.comments, nil
}

func (p *fakePublisher) ReplyToComment(ctx context.Context, postID, commentID, text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.replies = append(p.replies, text)
	return p.replyErr
}

// memoryRegistry is an in-memory MonitorRegistry.
type memoryRegistry struct {
	registered []repository.SocialPost
	replied    map[string]bool
	logged     []repository.AutoReply
}

func newMemoryRegistry() *memoryRegistry {
	return &memoryRegistry{replied: make(map[string]bool)}
}

func (m *memoryRegistry) RegisterPost(ctx context.Context, platform, postID string, productID int, caption string) error {
	m.registered = append(m.registered, repository.SocialPost{
		Platform: platform, PostID: postID, ProductID: productID, Caption: caption, Monitored: true,
	})
	return nil
}

func (m *memoryRegistry) ListMonitored(ctx context.Context) ([]repository.SocialPost, error) {
	return m.registered, nil
}

func (m *memoryRegistry) LogReply(ctx context.Context, reply repository.AutoReply) error {
	m.logged = append(m.logged, reply)
	m.replied[reply.CommentID] = true
	return nil
}

func (m *memoryRegistry) HasReplied(ctx context.Context, commentID string) (bool, error) {
	return m.replied[commentID], nil
}

// memoryRecorder is an in-memory PostRecorder.
type memoryRecorder struct {
	fbID, igID string
	caption    string
	saves      int
}

func (m *memoryRecorder) SavePostIDs(ctx context.Context, productID int, fbID, igID string) error {
	m.fbID, m.igID = fbID, igID
	m.saves++
	return nil
}

func (m *memoryRecorder) SaveCaption(ctx context.Context, productID int, caption string) error {
	m.caption = caption
	return nil
}

type memoryNotifier struct {
	mu    sync.Mutex
	notes []string
}

func (m *memoryNotifier) NotifyOwner(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notes = append(m.notes, text)
	return nil
}

func writeTestImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bowl.jpg")
	require.NoError(t, os.WriteFile(path, []byte("jpeg-bytes"), 0644))
	return path
}

func newTestAutomation(publishers ...interfaces.Publisher) *AutomationService {
	return NewAutomationService(NewCaptionService(nil), NewResponder(NewCaptionService(nil), testSettings()), publishers, testSettings())
}

func TestPublishProduct(t *testing.T) {
	assert := assert.New(t)

	t.Run("PartialFailureKeepsBothResults", func(t *testing.T) {
		fb := &fakePublisher{name: entities.PlatformFacebook, succeed: false, failMsg: "token expired"}
		ig := &fakePublisher{name: entities.PlatformInstagram, succeed: true, postID: "ig456"}
		svc := newTestAutomation(fb, ig)
		recorder := &memoryRecorder{}
		registry := newMemoryRegistry()
		svc.Products = recorder
		svc.SocialPosts = registry

		outcome, err := svc.PublishProduct(context.Background(), PublishRequest{
			ProductID: 7,
			ImagePath: writeTestImage(t),
			Content:   entities.ProductContent{Name: "Ceramic Bowl", Price: 750},
			Platforms: []string{entities.PlatformFacebook, entities.PlatformInstagram},
		})
		require.NoError(t, err)

		assert.False(outcome.PostResults[entities.PlatformFacebook].Success)
		assert.Equal("token expired", outcome.PostResults[entities.PlatformFacebook].Message)
		assert.True(outcome.PostResults[entities.PlatformInstagram].Success)
		assert.Equal("ig456", outcome.PostResults[entities.PlatformInstagram].PostID)

		// only the surviving post id is stored
		assert.Equal("", recorder.fbID)
		assert.Equal("ig456", recorder.igID)
		assert.True(outcome.AutomationEnabled)
		require.Len(t, registry.registered, 1)
		assert.Equal(entities.PlatformInstagram, registry.registered[0].Platform)
	})

	t.Run("MissingImageShortCircuits", func(t *testing.T) {
		fb := &fakePublisher{name: entities.PlatformFacebook, succeed: true, postID: "fb123"}
		svc := newTestAutomation(fb)

		_, err := svc.PublishProduct(context.Background(), PublishRequest{
			ImagePath: "/nonexistent/bowl.jpg",
			Platforms: []string{entities.PlatformFacebook},
		})
		assert.ErrorIs(err, ErrImageNotFound)
		assert.Equal(0, fb.calls)
	})

	t.Run("NoPlatforms", func(t *testing.T) {
		svc := newTestAutomation()
		_, err := svc.PublishProduct(context.Background(), PublishRequest{ImagePath: writeTestImage(t)})
		assert.ErrorIs(err, ErrNoPlatforms)
	})

	t.Run("UnknownPlatformReported", func(t *testing.T) {
		svc := newTestAutomation()
		outcome, err := svc.PublishProduct(context.Background(), PublishRequest{
			ImagePath: writeTestImage(t),
			Platforms: []string{"myspace"},
		})
		require.NoError(t, err)
		assert.False(outcome.PostResults["myspace"].Success)
		assert.Contains(outcome.PostResults["myspace"].Message, "Unknown platform")
	})

	t.Run("FallbackCaptionEndToEnd", func(t *testing.T) {
		fb := &fakePublisher{name: entities.PlatformFacebook, succeed: true, postID: "fb123"}
		ig := &fakePublisher{name: entities.PlatformInstagram, succeed: true, postID: "ig456"}
		svc := newTestAutomation(fb, ig)
		recorder := &memoryRecorder{}
		svc.Products = recorder

		outcome, err := svc.PublishProduct(context.Background(), PublishRequest{
			ProductID: 1,
			ImagePath: writeTestImage(t),
			Content:   entities.ProductContent{Name: "Ceramic Bowl", Price: 750},
			Platforms: []string{entities.PlatformFacebook, entities.PlatformInstagram},
		})
		require.NoError(t, err)

		want := "Take this beautiful Ceramic Bowl ✨ only for 750 rupees! DM for more info 📩 #handmade #craftsmanship #beautiful #affordable #quality"
		assert.Equal(want, outcome.AICaption)
		// hashtags are already the caption suffix, so appension must not stack
		assert.Equal(want, outcome.PlatformCaptions[entities.PlatformFacebook])
		assert.Equal(want, outcome.PlatformCaptions[entities.PlatformInstagram])
		assert.Equal(want, fb.captions[0])
		assert.Equal("fb123", recorder.fbID)
		assert.Equal("ig456", recorder.igID)
		assert.Equal(want, recorder.caption)
	})

	t.Run("SuppliedCaptionUsedVerbatim", func(t *testing.T) {
		fb := &fakePublisher{name: entities.PlatformFacebook, succeed: true, postID: "fb1"}
		svc := newTestAutomation(fb)

		outcome, err := svc.PublishProduct(context.Background(), PublishRequest{
			ImagePath: writeTestImage(t),
			Caption:   "My own words",
			Hashtags:  []string{"#mine"},
			Platforms: []string{entities.PlatformFacebook},
		})
		require.NoError(t, err)
		assert.Equal("My own words", outcome.AICaption)
		assert.Equal("My own words #mine", outcome.PlatformCaptions[entities.PlatformFacebook])
	})

	t.Run("PerPlatformCaptionOverride", func(t *testing.T) {
		fb := &fakePublisher{name: entities.PlatformFacebook, succeed: true, postID: "fb1"}
		ig := &fakePublisher{name: entities.PlatformInstagram, succeed: true, postID: "ig1"}
		svc := newTestAutomation(fb, ig)

		outcome, err := svc.PublishProduct(context.Background(), PublishRequest{
			ImagePath:        writeTestImage(t),
			Caption:          "Default",
			PlatformCaptions: map[string]string{entities.PlatformInstagram: "Insta flavor"},
			Hashtags:         []string{"#x"},
			Platforms:        []string{entities.PlatformFacebook, entities.PlatformInstagram},
		})
		require.NoError(t, err)
		assert.Equal("Default #x", outcome.PlatformCaptions[entities.PlatformFacebook])
		assert.Equal("Insta flavor #x", outcome.PlatformCaptions[entities.PlatformInstagram])
	})

	t.Run("OwnerNotified", func(t *testing.T) {
		fb := &fakePublisher{name: entities.PlatformFacebook, succeed: true, postID: "fb1"}
		svc := newTestAutomation(fb)
		notifier := &memoryNotifier{}
		svc.Notifier = notifier

		_, err := svc.PublishProduct(context.Background(), PublishRequest{
			ImagePath: writeTestImage(t),
			Content:   entities.ProductContent{Name: "Ceramic Bowl"},
			Platforms: []string{entities.PlatformFacebook},
		})
		require.NoError(t, err)
		require.Len(t, notifier.notes, 1)
		assert.Contains(notifier.notes[0], "Ceramic Bowl")
		assert.Contains(notifier.notes[0], "fb1")
	})
}

// blockingPublisher parks inside PublishPhoto until released.
type blockingPublisher struct {
	name    string
	started chan struct{}
	release chan struct{}
}

func (p *blockingPublisher) Name() string { return p.name }

func (p *blockingPublisher) PublishPhoto(ctx context.Context, imagePath, caption string) entities.PlatformPostResult {
	close(p.started)
	<-p.release
	return entities.PlatformPostResult{Platform: p.name, Success: true, PostID: "x"}
}

func (p *blockingPublisher) ListComments(ctx context.Context, postID string) ([]entities.Comment, error) {
	return nil, nil
}

func (p *blockingPublisher) ReplyToComment(ctx context.Context, postID, commentID, text string) error {
	return nil
}

func TestPublishGuardRejectsConcurrentPublish(t *testing.T) {
	assert := assert.New(t)
	blocker := &blockingPublisher{
		name:    entities.PlatformFacebook,
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc := newTestAutomation(blocker)
	image := writeTestImage(t)

	done := make(chan error, 1)
	go func() {
		_, err := svc.PublishProduct(context.Background(), PublishRequest{
			ProductID: 42,
			ImagePath: image,
			Platforms: []string{entities.PlatformFacebook},
		})
		done <- err
	}()

	select {
	case <-blocker.started:
	case <-time.After(2 * time.Second):
		t.Fatal("first publish never reached the platform")
	}

	_, err := svc.PublishProduct(context.Background(), PublishRequest{
		ProductID: 42,
		ImagePath: image,
		Platforms: []string{entities.PlatformFacebook},
	})
	assert.ErrorIs(err, ErrPublishInFlight)

	close(blocker.release)
	assert.NoError(<-done)
}

func TestMonitorProduct(t *testing.T) {
	assert := assert.New(t)

	t.Run("NoPostIDs", func(t *testing.T) {
		svc := newTestAutomation()
		_, err := svc.MonitorProduct(context.Background(), nil)
		assert.ErrorIs(err, ErrNoPostIDs)
	})

	t.Run("RepliesAndDedupes", func(t *testing.T) {
		fb := &fakePublisher{
			name:    entities.PlatformFacebook,
			succeed: true,
			comments: []entities.Comment{
				{ID: "c1", Text: "how much?", Author: "Asha"},
				{ID: "c2", Text: "beautiful!", Author: "Ravi"},
			},
		}
		svc := newTestAutomation(fb)
		registry := newMemoryRegistry()
		registry.replied["c2"] = true // already answered earlier
		svc.SocialPosts = registry

		responses, err := svc.MonitorProduct(context.Background(), map[string]string{entities.PlatformFacebook: "fb123"})
		require.NoError(t, err)

		replies := responses[entities.PlatformFacebook]
		require.Len(t, replies, 1)
		assert.Equal("c1", replies[0].CommentID)
		assert.True(replies[0].Success)
		require.Len(t, registry.logged, 1)
		assert.Equal("fb123", registry.logged[0].PostID)
	})

	t.Run("InstagramMentionsAuthor", func(t *testing.T) {
		ig := &fakePublisher{
			name:     entities.PlatformInstagram,
			succeed:  true,
			comments: []entities.Comment{{ID: "c9", Text: "do you ship?", Author: "asha_k"}},
		}
		svc := newTestAutomation(ig)

		_, err := svc.MonitorProduct(context.Background(), map[string]string{entities.PlatformInstagram: "ig456"})
		require.NoError(t, err)
		require.Len(t, ig.replies, 1)
		assert.True(strings.HasPrefix(ig.replies[0], "@asha_k "))
	})

	t.Run("ReplyFailureRecorded", func(t *testing.T) {
		fb := &fakePublisher{
			name:     entities.PlatformFacebook,
			succeed:  true,
			comments: []entities.Comment{{ID: "c1", Text: "nice"}},
			replyErr: errors.New("comment gone"),
		}
		svc := newTestAutomation(fb)

		responses, err := svc.MonitorProduct(context.Background(), map[string]string{entities.PlatformFacebook: "fb123"})
		require.NoError(t, err)
		replies := responses[entities.PlatformFacebook]
		require.Len(t, replies, 1)
		assert.False(replies[0].Success)
		assert.Equal("comment gone", replies[0].Error)
	})
}

func TestHandleDirectMessage(t *testing.T) {
	assert := assert.New(t)

	openClock := func() time.Time { return clock(12, 0) }
	closedClock := func() time.Time { return clock(22, 0) }

	msg := entities.Message{From: "555", Content: "do you ship to Pune?", Platform: "whatsapp"}

	t.Run("OpenHoursAnswers", func(t *testing.T) {
		svc := newTestAutomation()
		svc.Now = openClock

		outcome := svc.HandleDirectMessage(context.Background(), msg)
		assert.True(outcome.BusinessHours)
		assert.False(outcome.Deferred)
		assert.Contains(outcome.Reply, "ship nationwide")
	})

	t.Run("ClosedHoursDefersAndNotifies", func(t *testing.T) {
		svc := newTestAutomation()
		svc.Now = closedClock
		notifier := &memoryNotifier{}
		svc.Notifier = notifier

		outcome := svc.HandleDirectMessage(context.Background(), msg)
		assert.False(outcome.BusinessHours)
		assert.True(outcome.Deferred)
		assert.Contains(outcome.Reply, "09:00 - 18:00")
		require.Len(t, notifier.notes, 1)
		assert.Contains(notifier.notes[0], "do you ship to Pune?")
	})

	t.Run("AutomationDisabled", func(t *testing.T) {
		svc := newTestAutomation()
		svc.Now = openClock
		svc.cfg.AutoRespondToMessages = false

		outcome := svc.HandleDirectMessage(context.Background(), msg)
		assert.Empty(outcome.Reply)
		assert.False(outcome.Throttled)
	})

	t.Run("ThrottledAfterBurst", func(t *testing.T) {
		svc := newTestAutomation()
		svc.Now = openClock

		for i := 0; i < 3; i++ {
			outcome := svc.HandleDirectMessage(context.Background(), msg)
			assert.False(outcome.Throttled, "call %d should pass", i)
		}
		outcome := svc.HandleDirectMessage(context.Background(), msg)
		assert.True(outcome.Throttled)
		assert.Empty(outcome.Reply)
	})
}

func TestBusinessHoursOverrides(t *testing.T) {
	assert := assert.New(t)

	store := &memoryHours{values: map[string]string{}}
	svc := newTestAutomation()
	svc.Hours = store
	svc.Now = func() time.Time { return clock(8, 0) }

	// env default 09:00-18:00: closed at 08:00
	assert.False(svc.IsOpen(context.Background()))

	require.NoError(t, svc.UpdateBusinessHours(context.Background(), "07:30", "20:00"))
	assert.True(svc.IsOpen(context.Background()))

	start, end := svc.BusinessHours(context.Background())
	assert.Equal("07:30", start)
	assert.Equal("20:00", end)

	assert.Error(svc.UpdateBusinessHours(context.Background(), "7am", "20:00"))
}

type memoryHours struct {
	values map[string]string
}

func (m *memoryHours) Get(ctx context.Context, key string) (string, error) { return m.values[key], nil }
func (m *memoryHours) Set(ctx context.Context, key, value string) error {
	m.values[key] = value
	return nil
}
