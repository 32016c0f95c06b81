package services

import (
	"context"
	"strings"
	"sync"

	"codeclub/clubhouse/internal/constants"
	"codeclub/clubhouse/internal/logging"
	"codeclub/clubhouse/internal/metrics"
	"codeclub/clubhouse/internal/models/dtos"
	"codeclub/clubhouse/internal/providers"
)

// EventsService handles the event list and RSVP admission flow. The
// client-side capacity check is advisory; the backend owns the atomic
// admission decision, so concurrent RSVPs racing past the local check are
// settled there.
type EventsService struct {
	provider *providers.ClubAPIProvider
	metrics  *metrics.Registry

	mu     sync.Mutex
	events []dtos.Event
}

func NewEventsService(provider *providers.ClubAPIProvider, reg *metrics.Registry) *EventsService {
	return &EventsService{
		provider: provider,
		metrics:  reg,
	}
}

// Load replaces the local event list with the backend's.
func (s *EventsService) Load(ctx context.Context) error {
	events, err := s.provider.GetEvents(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.events = events
	s.mu.Unlock()
	return nil
}

// Events returns a snapshot of the current event list.
func (s *EventsService) Events() []dtos.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]dtos.Event, len(s.events))
	copy(out, s.events)
	return out
}

// Event returns one event from the snapshot.
func (s *EventsService) Event(eventID string) (*dtos.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.events {
		if s.events[i].ID == eventID {
			ev := s.events[i]
			return &ev, true
		}
	}
	return nil, false
}

// RSVP claims a slot for memberID. Preconditions answered locally without
// a network call: already registered, or event full. Otherwise one RSVP
// request goes out; a rejection carries the server's reason verbatim and
// is not retried. On success the event list is reloaded.
func (s *EventsService) RSVP(ctx context.Context, eventID, memberID string) error {
	event, ok := s.Event(eventID)
	if !ok {
		return providers.NewValidationError("Unknown event")
	}

	if event.HasAttendee(memberID) {
		s.metrics.CountRSVP("already_registered")
		return providers.NewValidationError(constants.MsgAlreadyRegistered)
	}
	if event.IsFull() {
		s.metrics.CountRSVP("full")
		return providers.NewValidationError(constants.MsgEventFull)
	}

	if _, err := s.provider.RSVPEvent(ctx, eventID); err != nil {
		s.metrics.CountRSVP("rejected")
		return err
	}
	s.metrics.CountRSVP("accepted")

	return s.Load(ctx)
}

// CreateEvent creates an event, gated on the CreateEvent capability.
func (s *EventsService) CreateEvent(ctx context.Context, role constants.Role, req dtos.EventCreate) (*dtos.Event, error) {
	if !role.Can(constants.CapCreateEvent) {
		return nil, providers.NewAuthorizationError(constants.GetErrorMessage(constants.ErrCodeAuthorization))
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" {
		return nil, providers.NewValidationError(constants.MsgMissingFields)
	}

	event, err := s.provider.CreateEvent(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.Load(ctx); err != nil {
		// Creation succeeded; the stale view repairs on the next load.
		logging.Warn("Event reload after create failed", "event_id", event.ID, "error", err.Error())
	}
	return event, nil
}
