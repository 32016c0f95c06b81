package constants

// Error Codes
// These constants classify failures surfaced by the API gateway and the
// services sitting on top of it.

const (
	ErrCodeAuth          = "AUTH_ERROR"
	ErrCodeAuthorization = "AUTHORIZATION_ERROR"
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeNetworkError  = "NETWORK_ERROR"
)

// Error Messages
// Human-readable fallbacks used when the backend does not supply a
// reason of its own.

var ErrorMessages = map[string]string{
	ErrCodeAuth:          "Authentication failed or session expired",
	ErrCodeAuthorization: "Your role does not permit this action",
	ErrCodeValidation:    "Request was rejected as invalid",
	ErrCodeNotFound:      "Resource not found",
	ErrCodeNetworkError:  "Network error while contacting the club API",
}

// GetErrorMessage returns the message for a code, or a generic fallback.
func GetErrorMessage(code string) string {
	if msg, ok := ErrorMessages[code]; ok {
		return msg
	}
	return "Unknown error"
}

const (
	MsgAlreadyRegistered = "Already registered"
	MsgEventFull         = "Event is full"
	MsgEmptyMessage      = "Message cannot be empty"
	MsgEmptyTaskFields   = "Task title and description are required"
	MsgInvalidTransition = "Task status can only move forward"
	MsgMissingFields     = "Required fields are missing"
)
