package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"codeclub/clubhouse/internal/constants"
)

// IdentityProvider consumes the external identity service that issues
// bearer tokens. Issuance itself lives on the other side of this
// boundary; the client only signs in, refreshes, and signs out.
//
// Every Mint call performs the refresh grant, so callers always hold a
// freshly derived token.
type IdentityProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client

	mu      sync.Mutex
	refresh string
}

// NewIdentityProvider creates an identity client rooted at baseURL.
func NewIdentityProvider(baseURL, apiKey string) *IdentityProvider {
	return &IdentityProvider{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type tokenGrant struct {
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// SignIn exchanges a credential for an identity token and stores the
// refresh credential for later mints.
func (p *IdentityProvider) SignIn(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", &APIError{
			Code:    constants.ErrCodeAuth,
			Message: "Email and password are required",
		}
	}

	payload := map[string]string{"email": email, "password": password}
	grant, err := p.grant(ctx, "/token/password", payload)
	if err != nil {
		return "", err
	}

	p.mu.Lock()
	p.refresh = grant.RefreshToken
	p.mu.Unlock()

	return grant.IDToken, nil
}

// Mint derives a fresh bearer token via the refresh grant. Never cached.
func (p *IdentityProvider) Mint(ctx context.Context) (string, error) {
	p.mu.Lock()
	refresh := p.refresh
	p.mu.Unlock()

	if refresh == "" {
		return "", &APIError{
			Code:    constants.ErrCodeAuth,
			Message: "No active identity",
		}
	}

	grant, err := p.grant(ctx, "/token/refresh", map[string]string{"refresh_token": refresh})
	if err != nil {
		return "", err
	}

	// The service may rotate the refresh credential on each grant.
	if grant.RefreshToken != "" {
		p.mu.Lock()
		p.refresh = grant.RefreshToken
		p.mu.Unlock()
	}

	return grant.IDToken, nil
}

// SignOut drops the refresh credential.
func (p *IdentityProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	p.refresh = ""
	p.mu.Unlock()
	return nil
}

// ExportSession returns the opaque blob needed to resume this identity
// later, and whether one exists.
func (p *IdentityProvider) ExportSession() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.refresh, p.refresh != ""
}

// ResumeSession restores a previously exported identity and validates it
// with one mint.
func (p *IdentityProvider) ResumeSession(ctx context.Context, blob string) error {
	if blob == "" {
		return &APIError{
			Code:    constants.ErrCodeAuth,
			Message: "Empty session blob",
		}
	}

	p.mu.Lock()
	p.refresh = blob
	p.mu.Unlock()

	if _, err := p.Mint(ctx); err != nil {
		p.mu.Lock()
		p.refresh = ""
		p.mu.Unlock()
		return err
	}
	return nil
}

func (p *IdentityProvider) grant(ctx context.Context, endpoint string, payload interface{}) (*tokenGrant, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, &APIError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to marshal request body",
			Err:     err,
		}
	}

	url := p.BaseURL + endpoint
	if p.APIKey != "" {
		url += "?key=" + p.APIKey
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payloadBytes))
	if err != nil {
		return nil, &APIError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to create request",
			Err:     err,
		}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, &APIError{
			Code:    constants.ErrCodeNetworkError,
			Message: constants.GetErrorMessage(constants.ErrCodeNetworkError),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	bodyBytes, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return nil, &APIError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to read response body",
			Err:     readErr,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := detailFromBody(bodyBytes)
		if msg == "" {
			msg = fmt.Sprintf("Identity service returned HTTP %d", resp.StatusCode)
		}
		return nil, &APIError{
			Code:    constants.ErrCodeAuth,
			Message: msg,
			Details: string(bodyBytes),
			Status:  resp.StatusCode,
		}
	}

	var grant tokenGrant
	if err := json.Unmarshal(bodyBytes, &grant); err != nil {
		return nil, &APIError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to decode response",
			Details: string(bodyBytes),
			Err:     err,
		}
	}
	if grant.IDToken == "" {
		return nil, &APIError{
			Code:    constants.ErrCodeAuth,
			Message: "Identity service returned no token",
			Details: string(bodyBytes),
		}
	}

	return &grant, nil
}
