package dtos

import (
	"time"

	"codeclub/clubhouse/internal/constants"
)

// Member is an approved, credentialed club member.
type Member struct {
	ID             string         `json:"id"`
	UID            string         `json:"uid"`
	Name           string         `json:"name"`
	Email          string         `json:"email"`
	Username       string         `json:"username"`
	Role           constants.Role `json:"role"`
	Interests      []string       `json:"interests"`
	GithubUsername *string        `json:"github_username,omitempty"`
	Badges         []string       `json:"badges"`
	Points         int            `json:"points"`
	JoinedAt       time.Time      `json:"joined_at"`
}

// RegistrationRequest is the unauthenticated intake payload.
type RegistrationRequest struct {
	Name           string         `json:"name"`
	Email          string         `json:"email"`
	Role           constants.Role `json:"role"`
	Interests      []string       `json:"interests"`
	GithubUsername *string        `json:"github_username,omitempty"`
}

// PendingRequest is a submitted registration awaiting approval.
type PendingRequest struct {
	ID             string                 `json:"id"`
	Name           string                 `json:"name"`
	Email          string                 `json:"email"`
	Role           constants.Role         `json:"role"`
	Interests      []string               `json:"interests"`
	GithubUsername *string                `json:"github_username,omitempty"`
	Status         constants.MemberStatus `json:"status"`
	CreatedAt      time.Time              `json:"created_at"`
}

// ApproveUserRequest carries the approver-supplied credential suggestions.
type ApproveUserRequest struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// IssuedCredentials are returned by a successful approval. They are the
// only delivery channel to the new member, so the approver must see them.
type IssuedCredentials struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// ApprovalResult is the backend response to an approve call.
type ApprovalResult struct {
	Message     string            `json:"message"`
	Credentials IssuedCredentials `json:"credentials"`
}

// MessageResponse is the generic {"message": ...} acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}
