package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// Authentication
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrAccountExists      ErrCode = "ACCOUNT_EXISTS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrResetTokenInvalid  ErrCode = "RESET_TOKEN_INVALID"

	// Validation
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// Resources
	ErrNotFound     ErrCode = "NOT_FOUND"
	ErrNotQuizOwner ErrCode = "NOT_QUIZ_OWNER"

	// Quiz-specific
	ErrQuizInvalid      ErrCode = "QUIZ_INVALID"
	ErrUnknownQuestion  ErrCode = "UNKNOWN_QUESTION"
	ErrNoAttempts       ErrCode = "NO_ATTEMPTS"
	ErrGenerationFailed ErrCode = "GENERATION_FAILED"
	ErrGenerationOff    ErrCode = "GENERATION_DISABLED"

	// Media
	ErrFileRequired    ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"

	// Rate limiting
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// Server
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrInvalidCredentials:
		return "Email or password is incorrect."
	case ErrAccountExists:
		return "An account with this username or email already exists."
	case ErrTokenRequired:
		return "Authentication token is required."
	case ErrTokenInvalid:
		return "Authentication token is invalid."
	case ErrSessionInvalidated:
		return "Your session has ended. Please log in again."
	case ErrResetTokenInvalid:
		return "This password reset link is invalid or has expired."
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrNotFound:
		return "Resource not found."
	case ErrNotQuizOwner:
		return "You are not the owner of this quiz."
	case ErrQuizInvalid:
		return "Quiz content is invalid."
	case ErrUnknownQuestion:
		return "An answer references a question that is not part of this quiz."
	case ErrNoAttempts:
		return "No attempts found for this quiz."
	case ErrGenerationFailed:
		return "Failed to generate quiz. Please try again."
	case ErrGenerationOff:
		return "Quiz generation is not available."
	case ErrFileRequired:
		return "A file upload is required."
	case ErrUnsupportedFile:
		return "Unsupported file type."
	case ErrFileTooLarge:
		return "File size exceeds the limit."
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
