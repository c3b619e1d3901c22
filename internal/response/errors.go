package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionRequired    ErrCode = "SESSION_REQUIRED"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrRegistrationFailed ErrCode = "REGISTRATION_FAILED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden ErrCode = "FORBIDDEN"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation ErrCode = "VALIDATION_ERROR"

	// ─── Gateway / upstream ────────────────────────────────────────────
	ErrUpstreamUnavailable ErrCode = "UPSTREAM_UNAVAILABLE"
	ErrUpstreamRejected    ErrCode = "UPSTREAM_REJECTED"

	// ─── Startup ───────────────────────────────────────────────────────
	ErrStarting ErrCode = "GATEWAY_STARTING"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Resources / server ────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrInvalidCredentials:
		return "Invalid email or password."
	case ErrSessionRequired:
		return "Please sign in to continue."
	case ErrSessionInvalidated:
		return "Your session has expired. Please sign in again."
	case ErrRegistrationFailed:
		return "Registration failed. Please check your details and try again."
	case ErrForbidden:
		return "You do not have permission to access this page."
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrUpstreamUnavailable:
		return "The CodeLens service is temporarily unavailable. Please try again later."
	case ErrUpstreamRejected:
		return "The CodeLens service rejected the request."
	case ErrStarting:
		return "The gateway is starting up. Please retry shortly."
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."
	case ErrNotFound:
		return "Resource not found."
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
