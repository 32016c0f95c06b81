package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"codeclub/clubhouse/internal/constants"
	"codeclub/clubhouse/internal/models/dtos"
)

// countingTokens hands out a distinct token per call so tests can assert
// fresh minting.
type countingTokens struct {
	calls int
}

func (c *countingTokens) Token(ctx context.Context) (string, error) {
	c.calls++
	return fmt.Sprintf("token-%d", c.calls), nil
}

func TestClubAPIProvider_GetEvents_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			t.Errorf("Expected GET request, got %s", r.Method)
		}
		if r.URL.Path != "/events" {
			t.Errorf("Expected path /events, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("Event list is unauthenticated; no bearer expected")
		}

		cap := 2
		json.NewEncoder(w).Encode([]dtos.Event{
			{ID: "ev-1", Title: "Hack Night", MaxAttendees: &cap},
		})
	}))
	defer server.Close()

	provider := NewClubAPIProvider(server.URL, &countingTokens{}, nil)

	events, err := provider.GetEvents(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(events) != 1 || events[0].ID != "ev-1" {
		t.Fatalf("Unexpected events: %+v", events)
	}
}

func TestClubAPIProvider_BearerIsMintedFreshPerCall(t *testing.T) {
	var seen []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(dtos.Member{ID: "m-1", UID: "uid-1"})
	}))
	defer server.Close()

	tokens := &countingTokens{}
	provider := NewClubAPIProvider(server.URL, tokens, nil)

	ctx := context.Background()
	if _, err := provider.GetMe(ctx); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := provider.GetMe(ctx); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(seen) != 2 {
		t.Fatalf("Expected 2 requests, got %d", len(seen))
	}
	if seen[0] == seen[1] {
		t.Errorf("Expected distinct bearer tokens per call, got %q twice", seen[0])
	}
	if seen[0] != "Bearer token-1" || seen[1] != "Bearer token-2" {
		t.Errorf("Unexpected bearer headers: %v", seen)
	}
}

// failingTokens refuses every mint, like the session gate outside Ready.
type failingTokens struct{}

func (failingTokens) Token(ctx context.Context) (string, error) {
	return "", errors.New("not authenticated")
}

func TestClubAPIProvider_GetMessagesNeedsNoSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/messages" {
			t.Errorf("Expected path /chat/messages, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("Feed reads are unauthenticated; no bearer expected")
		}
		json.NewEncoder(w).Encode([]dtos.ChatMessage{
			{ID: "msg-1", Message: "hello"},
		})
	}))
	defer server.Close()

	provider := NewClubAPIProvider(server.URL, failingTokens{}, nil)

	messages, err := provider.GetMessages(context.Background())
	if err != nil {
		t.Fatalf("Feed fetch must work without a session, got %v", err)
	}
	if len(messages) != 1 || messages[0].ID != "msg-1" {
		t.Fatalf("Unexpected messages: %+v", messages)
	}
}

func TestClubAPIProvider_ValidationDetailSurfacedVerbatim(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail": "Event is full"}`))
	}))
	defer server.Close()

	provider := NewClubAPIProvider(server.URL, &countingTokens{}, nil)

	_, err := provider.RSVPEvent(context.Background(), "ev-1")
	if err == nil {
		t.Fatal("Expected error for 400 response")
	}

	apiErr, ok := AsAPIError(err)
	if !ok {
		t.Fatalf("Expected APIError, got %T", err)
	}
	if apiErr.Code != constants.ErrCodeValidation {
		t.Errorf("Expected %s, got %s", constants.ErrCodeValidation, apiErr.Code)
	}
	if apiErr.Message != "Event is full" {
		t.Errorf("Expected server reason verbatim, got %q", apiErr.Message)
	}
}

func TestClubAPIProvider_UnauthorizedMapsToAuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "Invalid token"}`))
	}))
	defer server.Close()

	provider := NewClubAPIProvider(server.URL, &countingTokens{}, nil)

	_, err := provider.GetPendingRequests(context.Background())
	if !IsCode(err, constants.ErrCodeAuth) {
		t.Errorf("Expected AUTH_ERROR, got %v", err)
	}
}

func TestClubAPIProvider_UpdateTaskStatusPatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "PATCH" {
			t.Errorf("Expected PATCH request, got %s", r.Method)
		}
		if r.URL.Path != "/tasks/task-9" {
			t.Errorf("Expected path /tasks/task-9, got %s", r.URL.Path)
		}
		if r.Header.Get("X-Request-Id") == "" {
			t.Error("Expected a correlation ID on mutating calls")
		}

		var body dtos.TaskStatusUpdate
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("Failed to decode body: %v", err)
		}
		if body.Status != constants.TaskStatusDone {
			t.Errorf("Expected status done, got %s", body.Status)
		}

		json.NewEncoder(w).Encode(dtos.MessageResponse{Message: "Task updated"})
	}))
	defer server.Close()

	provider := NewClubAPIProvider(server.URL, &countingTokens{}, nil)

	resp, err := provider.UpdateTaskStatus(context.Background(), "task-9", constants.TaskStatusDone)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if resp.Message != "Task updated" {
		t.Errorf("Unexpected message: %q", resp.Message)
	}
}

func TestClubAPIProvider_NetworkErrorClassified(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // force a transport failure

	provider := NewClubAPIProvider(server.URL, &countingTokens{}, nil)

	_, err := provider.GetLeaderboard(context.Background())
	if !IsCode(err, constants.ErrCodeNetworkError) {
		t.Errorf("Expected NETWORK_ERROR, got %v", err)
	}
}
