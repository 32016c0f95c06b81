package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"codeclub/clubhouse/internal/constants"
	"codeclub/clubhouse/internal/metrics"
	"codeclub/clubhouse/internal/models/dtos"
)

// TokenSource supplies bearer tokens for authenticated calls. Token is
// invoked freshly per request; implementations must not hand back a
// cached token because tokens can expire mid-session.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// ClubAPIProvider implements the gateway to the club backend API
type ClubAPIProvider struct {
	BaseURL string
	Tokens  TokenSource
	Client  *http.Client
	Metrics *metrics.Registry
}

// NewClubAPIProvider creates a gateway rooted at baseURL. reg may be nil.
func NewClubAPIProvider(baseURL string, tokens TokenSource, reg *metrics.Registry) *ClubAPIProvider {
	return &ClubAPIProvider{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Tokens:  tokens,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
		Metrics: reg,
	}
}

// ============================================================================
// Registration & Admin Methods
// ============================================================================

// SubmitRegistration files an unauthenticated registration request.
func (p *ClubAPIProvider) SubmitRegistration(ctx context.Context, req dtos.RegistrationRequest) (*dtos.MessageResponse, error) {
	var result dtos.MessageResponse
	_, err := p.doSend(ctx, "register_request", http.MethodPost, "/auth/register-request", false, req, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetPendingRequests lists registrations awaiting approval.
func (p *ClubAPIProvider) GetPendingRequests(ctx context.Context) ([]dtos.PendingRequest, error) {
	var result []dtos.PendingRequest
	_, err := p.doGET(ctx, "pending_requests", "/admin/pending-requests", true, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ApproveUser submits credential suggestions for a pending registration.
// The backend creates the account; the issued credentials come back for
// the approver to deliver.
func (p *ClubAPIProvider) ApproveUser(ctx context.Context, req dtos.ApproveUserRequest) (*dtos.ApprovalResult, error) {
	var result dtos.ApprovalResult
	_, err := p.doSend(ctx, "approve_user", http.MethodPost, "/admin/approve-user", true, req, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ============================================================================
// Member Methods
// ============================================================================

// GetMe fetches the profile bound to the current token.
func (p *ClubAPIProvider) GetMe(ctx context.Context) (*dtos.Member, error) {
	var result dtos.Member
	_, err := p.doGET(ctx, "users_me", "/users/me", true, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetUsers lists the member directory.
func (p *ClubAPIProvider) GetUsers(ctx context.Context) ([]dtos.Member, error) {
	var result []dtos.Member
	_, err := p.doGET(ctx, "users", "/users", false, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetLeaderboard fetches members ranked by points, highest first.
func (p *ClubAPIProvider) GetLeaderboard(ctx context.Context) ([]dtos.Member, error) {
	var result []dtos.Member
	_, err := p.doGET(ctx, "leaderboard", "/leaderboard", false, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ============================================================================
// Event Methods
// ============================================================================

// GetEvents lists all events.
func (p *ClubAPIProvider) GetEvents(ctx context.Context) ([]dtos.Event, error) {
	var result []dtos.Event
	_, err := p.doGET(ctx, "events", "/events", false, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CreateEvent creates a new event.
func (p *ClubAPIProvider) CreateEvent(ctx context.Context, req dtos.EventCreate) (*dtos.Event, error) {
	var result dtos.Event
	_, err := p.doSend(ctx, "create_event", http.MethodPost, "/events", true, req, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// RSVPEvent claims an attendance slot. The backend is the authoritative
// admission decision-maker; rejections carry its reason verbatim.
func (p *ClubAPIProvider) RSVPEvent(ctx context.Context, eventID string) (*dtos.MessageResponse, error) {
	if eventID == "" {
		return nil, NewValidationError("Event ID cannot be empty")
	}
	var result dtos.MessageResponse
	endpoint := fmt.Sprintf("/events/%s/rsvp", eventID)
	_, err := p.doSend(ctx, "rsvp_event", http.MethodPost, endpoint, true, struct{}{}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ============================================================================
// Project & Task Methods
// ============================================================================

// GetProjects lists all projects.
func (p *ClubAPIProvider) GetProjects(ctx context.Context) ([]dtos.Project, error) {
	var result []dtos.Project
	_, err := p.doGET(ctx, "projects", "/projects", false, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetProject fetches one project by ID.
func (p *ClubAPIProvider) GetProject(ctx context.Context, projectID string) (*dtos.Project, error) {
	if projectID == "" {
		return nil, NewValidationError("Project ID cannot be empty")
	}
	var result dtos.Project
	_, err := p.doGET(ctx, "project", "/projects/"+projectID, false, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateProject creates a new project.
func (p *ClubAPIProvider) CreateProject(ctx context.Context, req dtos.ProjectCreate) (*dtos.Project, error) {
	var result dtos.Project
	_, err := p.doSend(ctx, "create_project", http.MethodPost, "/projects", true, req, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetTasks lists the tasks of a project.
func (p *ClubAPIProvider) GetTasks(ctx context.Context, projectID string) ([]dtos.Task, error) {
	if projectID == "" {
		return nil, NewValidationError("Project ID cannot be empty")
	}
	var result []dtos.Task
	_, err := p.doGET(ctx, "tasks", "/tasks/"+projectID, false, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CreateTask creates a new task in status todo.
func (p *ClubAPIProvider) CreateTask(ctx context.Context, req dtos.TaskCreate) (*dtos.Task, error) {
	var result dtos.Task
	_, err := p.doSend(ctx, "create_task", http.MethodPost, "/tasks", true, req, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateTaskStatus patches a task to a new status.
func (p *ClubAPIProvider) UpdateTaskStatus(ctx context.Context, taskID string, status constants.TaskStatus) (*dtos.MessageResponse, error) {
	if taskID == "" {
		return nil, NewValidationError("Task ID cannot be empty")
	}
	var result dtos.MessageResponse
	payload := dtos.TaskStatusUpdate{Status: status}
	_, err := p.doSend(ctx, "update_task", http.MethodPatch, "/tasks/"+taskID, true, payload, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ============================================================================
// Chat Methods
// ============================================================================

// GetMessages fetches the full feed in ascending timestamp order. The
// read side of the feed is open; only sending requires a bearer.
func (p *ClubAPIProvider) GetMessages(ctx context.Context) ([]dtos.ChatMessage, error) {
	var result []dtos.ChatMessage
	_, err := p.doGET(ctx, "chat_messages", "/chat/messages", false, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SendMessage posts a chat message.
func (p *ClubAPIProvider) SendMessage(ctx context.Context, text string) (*dtos.ChatMessage, error) {
	var result dtos.ChatMessage
	payload := dtos.ChatMessageCreate{Message: text}
	_, err := p.doSend(ctx, "send_message", http.MethodPost, "/chat/messages", true, payload, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ============================================================================
// HTTP Helper Methods
// ============================================================================

// doGET performs a GET request, attaching a fresh bearer token when authed
func (p *ClubAPIProvider) doGET(ctx context.Context, op, endpoint string, authed bool, result interface{}) (int, error) {
	// Build request
	url := p.BaseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, &APIError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to create request",
			Err:     err,
		}
	}

	if err := p.setHeaders(ctx, req, authed); err != nil {
		return 0, err
	}

	// Execute request
	start := time.Now()
	resp, err := p.Client.Do(req)
	if err != nil {
		p.Metrics.ObserveAPIRequest(op, http.MethodGet, "transport_error", time.Since(start))
		return 0, &APIError{
			Code:    constants.ErrCodeNetworkError,
			Message: constants.GetErrorMessage(constants.ErrCodeNetworkError),
			Err:     err,
		}
	}
	defer resp.Body.Close()
	p.Metrics.ObserveAPIRequest(op, http.MethodGet, strconv.Itoa(resp.StatusCode), time.Since(start))

	// Handle HTTP errors
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, p.buildHTTPError(resp.StatusCode, endpoint, bodyBytes)
	}

	// Parse response
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return resp.StatusCode, &APIError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to decode response",
			Status:  resp.StatusCode,
			Err:     err,
		}
	}

	return resp.StatusCode, nil
}

// doSend performs a POST or PATCH with a JSON body
func (p *ClubAPIProvider) doSend(ctx context.Context, op, method, endpoint string, authed bool, payload interface{}, result interface{}) (int, error) {
	// Serialize payload
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return 0, &APIError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to marshal request body",
			Err:     err,
		}
	}

	// Build request
	url := p.BaseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payloadBytes))
	if err != nil {
		return 0, &APIError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to create request",
			Err:     err,
		}
	}

	if err := p.setHeaders(ctx, req, authed); err != nil {
		return 0, err
	}
	// Correlation ID for mutating calls
	req.Header.Set("X-Request-Id", uuid.New().String())

	// Execute request
	start := time.Now()
	resp, err := p.Client.Do(req)
	if err != nil {
		p.Metrics.ObserveAPIRequest(op, method, "transport_error", time.Since(start))
		return 0, &APIError{
			Code:    constants.ErrCodeNetworkError,
			Message: constants.GetErrorMessage(constants.ErrCodeNetworkError),
			Err:     err,
		}
	}
	defer resp.Body.Close()
	p.Metrics.ObserveAPIRequest(op, method, strconv.Itoa(resp.StatusCode), time.Since(start))

	// Read body for potential error messages
	bodyBytes, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return resp.StatusCode, &APIError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to read response body",
			Status:  resp.StatusCode,
			Err:     readErr,
		}
	}

	// Handle HTTP errors
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, p.buildHTTPError(resp.StatusCode, endpoint, bodyBytes)
	}

	// Parse response
	if err := json.Unmarshal(bodyBytes, result); err != nil {
		return resp.StatusCode, &APIError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to decode response",
			Details: string(bodyBytes),
			Status:  resp.StatusCode,
			Err:     err,
		}
	}

	return resp.StatusCode, nil
}

// setHeaders sets content type and, when authed, a freshly minted bearer
// token obtained at call time.
func (p *ClubAPIProvider) setHeaders(ctx context.Context, req *http.Request, authed bool) error {
	req.Header.Set("Content-Type", "application/json")

	if !authed {
		return nil
	}

	token, err := p.Tokens.Token(ctx)
	if err != nil {
		return &APIError{
			Code:    constants.ErrCodeAuth,
			Message: constants.GetErrorMessage(constants.ErrCodeAuth),
			Err:     err,
		}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// detailFromBody extracts the backend's {"detail": "..."} reason, if any.
func detailFromBody(body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Detail
}

// buildHTTPError creates appropriate error based on status code
func (p *ClubAPIProvider) buildHTTPError(statusCode int, endpoint string, body []byte) error {
	detail := detailFromBody(body)

	switch statusCode {
	case http.StatusUnauthorized:
		msg := detail
		if msg == "" {
			msg = fmt.Sprintf("Authentication failed for endpoint %s", endpoint)
		}
		return &APIError{
			Code:    constants.ErrCodeAuth,
			Message: msg,
			Details: string(body),
			Status:  statusCode,
		}
	case http.StatusForbidden:
		msg := detail
		if msg == "" {
			msg = constants.GetErrorMessage(constants.ErrCodeAuthorization)
		}
		return &APIError{
			Code:    constants.ErrCodeAuthorization,
			Message: msg,
			Details: string(body),
			Status:  statusCode,
		}
	case http.StatusBadRequest:
		msg := detail
		if msg == "" {
			msg = fmt.Sprintf("Bad request to %s", endpoint)
		}
		return &APIError{
			Code:    constants.ErrCodeValidation,
			Message: msg,
			Details: string(body),
			Status:  statusCode,
		}
	case http.StatusNotFound:
		msg := detail
		if msg == "" {
			msg = fmt.Sprintf("Resource not found: %s", endpoint)
		}
		return &APIError{
			Code:    constants.ErrCodeNotFound,
			Message: msg,
			Details: string(body),
			Status:  statusCode,
		}
	default:
		return &APIError{
			Code:    constants.ErrCodeNetworkError,
			Message: fmt.Sprintf("HTTP %d from %s", statusCode, endpoint),
			Details: string(body),
			Status:  statusCode,
		}
	}
}
