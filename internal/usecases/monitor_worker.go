package usecases

import (
	"context"
	"fmt"
	"time"

	"craftsmen_marketplace/internal/config"
)

// MonitorWorker polls registered posts for new comments on a fixed
// interval and lets the automation service answer them.
type MonitorWorker struct {
	automation *AutomationService
	registry   MonitorRegistry
	interval   time.Duration
	stopChan   chan struct{}
}

func NewMonitorWorker(automation *AutomationService, registry MonitorRegistry, cfg *config.Settings) *MonitorWorker {
	interval := time.Duration(cfg.MonitorInterval) * time.Second
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &MonitorWorker{
		automation: automation,
		registry:   registry,
		interval:   interval,
		stopChan:   make(chan struct{}),
	}
}

// Start runs the polling loop until Stop is called. Call in a goroutine.
func (w *MonitorWorker) Start(ctx context.Context) {
	fmt.Printf("[MONITOR] comment monitor started (interval %s)\n", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			fmt.Println("[MONITOR] comment monitor stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *MonitorWorker) Stop() {
	close(w.stopChan)
}

// sweep runs one pass over every monitored post. Skipped entirely when
// comment automation is off or the business is closed.
func (w *MonitorWorker) sweep(ctx context.Context) {
	if !w.automation.AutoRespondEnabled() {
		return
	}
	if !w.automation.IsOpen(ctx) {
		return
	}

	posts, err := w.registry.ListMonitored(ctx)
	if err != nil {
		fmt.Printf("[MONITOR] failed to list monitored posts: %v\n", err)
		return
	}

	for _, post := range posts {
		replies := w.automation.monitorPost(ctx, post.Platform, post.PostID)
		if len(replies) > 0 {
			fmt.Printf("[MONITOR] replied to %d comment(s) on %s post %s\n", len(replies), post.Platform, post.PostID)
		}
	}
}
