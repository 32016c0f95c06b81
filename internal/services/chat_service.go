package services

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"codeclub/clubhouse/internal/constants"
	"codeclub/clubhouse/internal/logging"
	"codeclub/clubhouse/internal/metrics"
	"codeclub/clubhouse/internal/models/dtos"
	"codeclub/clubhouse/internal/providers"
)

// ChatService holds the message feed view. Each refresh replaces the view
// wholesale with the backend's full list, so repeated refreshes with no
// new messages are no-ops and the view converges to the authoritative
// ascending-timestamp order after at most one polling interval.
type ChatService struct {
	provider *providers.ClubAPIProvider
	metrics  *metrics.Registry

	// Collapses refreshes racing in from the poller and from sends.
	flight singleflight.Group
	// Throttles send-triggered out-of-band refreshes between poll ticks.
	sendRefresh *rate.Limiter

	mu       sync.Mutex
	messages []dtos.ChatMessage
}

func NewChatService(provider *providers.ClubAPIProvider, reg *metrics.Registry) *ChatService {
	return &ChatService{
		provider:    provider,
		metrics:     reg,
		sendRefresh: rate.NewLimiter(rate.Limit(2), 2),
	}
}

// Refresh fetches the full feed and replaces the local view. Concurrent
// callers share one fetch.
func (s *ChatService) Refresh(ctx context.Context) error {
	_, err, _ := s.flight.Do("refresh", func() (interface{}, error) {
		messages, err := s.provider.GetMessages(ctx)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.messages = messages
		s.mu.Unlock()
		return nil, nil
	})
	return err
}

// Messages returns a snapshot of the feed in backend order.
func (s *ChatService) Messages() []dtos.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]dtos.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// Send posts a message and triggers an immediate refresh so the sender's
// own message shows up without waiting for the next poll tick. Under a
// burst of sends the limiter drops the extra refreshes, so a message can
// take until the next poll tick to appear in the local view.
func (s *ChatService) Send(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return providers.NewValidationError(constants.MsgEmptyMessage)
	}

	if _, err := s.provider.SendMessage(ctx, text); err != nil {
		return err
	}
	s.metrics.CountMessageSent()

	if !s.sendRefresh.Allow() {
		// A refresh just ran or is imminent; the next tick covers it.
		logging.Debug("Out-of-band feed refresh throttled")
		return nil
	}
	return s.Refresh(ctx)
}
