package providers

import (
	"errors"
	"fmt"

	"codeclub/clubhouse/internal/constants"
)

// APIError classifies a failed gateway call. Message carries the
// server-provided reason verbatim when one was returned.
type APIError struct {
	Code    string
	Message string
	Details string
	Status  int
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// AsAPIError unwraps err into an *APIError if one is in the chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsCode reports whether err carries the given error code.
func IsCode(err error, code string) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Code == code
}

// NewValidationError builds a client-side validation failure. The action
// was never attempted against the backend.
func NewValidationError(message string) *APIError {
	return &APIError{
		Code:    constants.ErrCodeValidation,
		Message: message,
	}
}

// NewAuthorizationError builds a client-side capability rejection.
func NewAuthorizationError(message string) *APIError {
	return &APIError{
		Code:    constants.ErrCodeAuthorization,
		Message: message,
	}
}
