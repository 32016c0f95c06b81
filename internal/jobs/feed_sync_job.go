package jobs

import (
	"context"
	"time"

	"codeclub/clubhouse/internal/logging"
	"codeclub/clubhouse/internal/metrics"
	"codeclub/clubhouse/internal/services"
)

// DefaultPollInterval matches the chat view's refresh cadence.
const DefaultPollInterval = 3 * time.Second

// FeedSyncJob polls the chat feed on a fixed interval while running. It
// is the only component-owned timer in the client. The initial load
// surfaces its error to the caller's log; tick failures are suppressed
// (counted and logged at debug) with no backoff, and the interval never
// changes. Cancelling the context stops the loop deterministically.
type FeedSyncJob struct {
	chat     *services.ChatService
	metrics  *metrics.Registry
	interval time.Duration
}

// NewFeedSyncJob creates a feed sync job. A non-positive interval falls
// back to the default.
func NewFeedSyncJob(chat *services.ChatService, reg *metrics.Registry, interval time.Duration) *FeedSyncJob {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &FeedSyncJob{
		chat:     chat,
		metrics:  reg,
		interval: interval,
	}
}

// Interval returns the fixed polling period.
func (j *FeedSyncJob) Interval() time.Duration { return j.interval }

// RunScheduled runs the poll loop until ctx is cancelled.
func (j *FeedSyncJob) RunScheduled(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	// Initial load; this one is user-visible, so it logs loudly.
	if err := j.chat.Refresh(ctx); err != nil {
		j.metrics.CountPollTick(true)
		logging.Warn("Initial chat feed load failed", "error", err.Error())
	} else {
		j.metrics.CountPollTick(false)
	}

	for {
		select {
		case <-ticker.C:
			if err := j.chat.Refresh(ctx); err != nil {
				// Transient by policy; the next tick retries the fetch.
				j.metrics.CountPollTick(true)
				logging.Debug("Chat feed poll failed", "error", err.Error())
				continue
			}
			j.metrics.CountPollTick(false)
		case <-ctx.Done():
			logging.Info("Feed sync shutting down")
			return
		}
	}
}
