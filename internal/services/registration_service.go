package services

import (
	"context"
	"math/rand"
	"strings"
	"sync"

	"codeclub/clubhouse/internal/constants"
	"codeclub/clubhouse/internal/logging"
	"codeclub/clubhouse/internal/models/dtos"
	"codeclub/clubhouse/internal/providers"
)

// RegistrationService covers both ends of the registration lifecycle:
// the unauthenticated intake and the capability-gated approval workflow
// that promotes a pending applicant into a credentialed member.
//
// There is no reject operation; the backend contract does not define one.
type RegistrationService struct {
	provider *providers.ClubAPIProvider

	mu      sync.Mutex
	pending []dtos.PendingRequest
}

func NewRegistrationService(provider *providers.ClubAPIProvider) *RegistrationService {
	return &RegistrationService{provider: provider}
}

// Submit files a registration request. No authentication required.
func (s *RegistrationService) Submit(ctx context.Context, req dtos.RegistrationRequest) (string, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		return "", providers.NewValidationError(constants.MsgMissingFields)
	}
	if !req.Role.IsValid() {
		return "", providers.NewValidationError("Unknown role: " + req.Role.String())
	}

	resp, err := s.provider.SubmitRegistration(ctx, req)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// ListPending loads the pending requests. Gated on the
// ApproveRegistration capability; the backend checks again regardless.
func (s *RegistrationService) ListPending(ctx context.Context, role constants.Role) ([]dtos.PendingRequest, error) {
	if !role.Can(constants.CapApproveRegistration) {
		return nil, providers.NewAuthorizationError(constants.GetErrorMessage(constants.ErrCodeAuthorization))
	}

	pending, err := s.provider.GetPendingRequests(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.pending = pending
	s.mu.Unlock()
	return pending, nil
}

// Pending returns the last loaded pending list.
func (s *RegistrationService) Pending() []dtos.PendingRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]dtos.PendingRequest, len(s.pending))
	copy(out, s.pending)
	return out
}

const passwordAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// SuggestCredentials proposes a username and password for an applicant:
// the lowercased, space-stripped name with a random 3-digit suffix, and
// a 10-character password. The approver may edit both before submitting.
func SuggestCredentials(name string) (username, password string) {
	base := strings.ToLower(strings.Join(strings.Fields(name), ""))
	if base == "" {
		base = "member"
	}
	username = base + string(rune('0'+rand.Intn(10))) + string(rune('0'+rand.Intn(10))) + string(rune('0'+rand.Intn(10)))

	b := make([]byte, 10)
	for i := range b {
		b[i] = passwordAlphabet[rand.Intn(len(passwordAlphabet))]
	}
	password = string(b)
	return username, password
}

// Approve submits the credential suggestions for a pending request. On
// success the request leaves the local pending view and the issued
// credentials are returned; surfacing them to the approver is the only
// delivery channel to the new member.
func (s *RegistrationService) Approve(ctx context.Context, role constants.Role, requestID, username, password string) (*dtos.IssuedCredentials, error) {
	if !role.Can(constants.CapApproveRegistration) {
		return nil, providers.NewAuthorizationError(constants.GetErrorMessage(constants.ErrCodeAuthorization))
	}
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return nil, providers.NewValidationError(constants.MsgMissingFields)
	}

	result, err := s.provider.ApproveUser(ctx, dtos.ApproveUserRequest{
		UserID:   requestID,
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	kept := s.pending[:0]
	for _, p := range s.pending {
		if p.ID != requestID {
			kept = append(kept, p)
		}
	}
	s.pending = kept
	s.mu.Unlock()

	logging.Info("Registration approved", "request_id", requestID, "username", result.Credentials.Username)
	creds := result.Credentials
	return &creds, nil
}
