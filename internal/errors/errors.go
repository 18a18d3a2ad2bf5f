package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Network errors (NET-001 to NET-099)
	ErrCodeNetworkUnreachable ErrorCode = "NET-001"
	ErrCodeNetworkTimeout     ErrorCode = "NET-002"

	// Backend API errors (API-001 to API-099)
	ErrCodeAPIClient            ErrorCode = "API-001"
	ErrCodeAPIServer            ErrorCode = "API-002"
	ErrCodeAPIDecode            ErrorCode = "API-003"
	ErrCodeAPIContractViolation ErrorCode = "API-004"

	// Session errors (AUTH-001 to AUTH-099)
	ErrCodeNotAuthenticated ErrorCode = "AUTH-001"
	ErrCodeSessionExpired   ErrorCode = "AUTH-002"
	ErrCodeForbidden        ErrorCode = "AUTH-003"

	// Local storage errors (STORE-001 to STORE-099)
	ErrCodeStorageRead        ErrorCode = "STORE-001"
	ErrCodeStorageWrite       ErrorCode = "STORE-002"
	ErrCodeStorageUnavailable ErrorCode = "STORE-003"

	// Configuration errors (CFG-001 to CFG-099)
	ErrCodeConfigInvalid ErrorCode = "CFG-001"
)

// Kind groups error codes into the categories callers branch on.
type Kind int

const (
	KindUnknown Kind = iota
	KindNetwork
	KindClient
	KindAuth
	KindServer
	KindDecode
	KindStorage
	KindConfig
)

// String returns the kind name used in logs and metrics labels.
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindClient:
		return "client"
	case KindAuth:
		return "auth"
	case KindServer:
		return "server"
	case KindDecode:
		return "decode"
	case KindStorage:
		return "storage"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// ShopError represents an enhanced error with code, suggestions, and request context.
//
// Message is always human-readable and safe to show to the user as-is; the
// state slices store it verbatim in their Error field.
type ShopError struct {
	Code        ErrorCode
	Message     string
	Status      int    // HTTP status, 0 when no response was received
	Endpoint    string // backend path the error came from, if any
	RequestID   string
	Suggestions []string
	Cause       error
}

// Error implements the error interface
func (e *ShopError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *ShopError) Unwrap() error {
	return e.Cause
}

// Kind derives the error category from the code prefix.
func (e *ShopError) Kind() Kind {
	code := string(e.Code)
	switch {
	case strings.HasPrefix(code, "NET-"):
		return KindNetwork
	case strings.HasPrefix(code, "AUTH-"):
		return KindAuth
	case e.Code == ErrCodeAPIServer:
		return KindServer
	case e.Code == ErrCodeAPIDecode || e.Code == ErrCodeAPIContractViolation:
		return KindDecode
	case strings.HasPrefix(code, "API-"):
		return KindClient
	case strings.HasPrefix(code, "STORE-"):
		return KindStorage
	case strings.HasPrefix(code, "CFG-"):
		return KindConfig
	default:
		return KindUnknown
	}
}

// New creates a new ShopError
func New(code ErrorCode, message string) *ShopError {
	return &ShopError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new ShopError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *ShopError {
	return &ShopError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *ShopError) WithSuggestion(suggestion string) *ShopError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *ShopError) WithSuggestions(suggestions ...string) *ShopError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithRequest records which backend call produced the error.
func (e *ShopError) WithRequest(endpoint string, status int, requestID string) *ShopError {
	e.Endpoint = endpoint
	e.Status = status
	e.RequestID = requestID
	return e
}

// CodeForStatus picks the error code for a non-2xx backend response.
func CodeForStatus(status int) ErrorCode {
	switch {
	case status == http.StatusUnauthorized:
		return ErrCodeSessionExpired
	case status == http.StatusForbidden:
		return ErrCodeForbidden
	case status >= 500:
		return ErrCodeAPIServer
	default:
		return ErrCodeAPIClient
	}
}

// As is a convenience wrapper around errors.As for *ShopError.
func As(err error) (*ShopError, bool) {
	var shopErr *ShopError
	if stderrors.As(err, &shopErr) {
		return shopErr, true
	}
	return nil, false
}

// IsUnauthorized reports whether err carries an HTTP 401 from the backend.
func IsUnauthorized(err error) bool {
	shopErr, ok := As(err)
	return ok && shopErr.Status == http.StatusUnauthorized
}

// IsCode reports whether err is a ShopError with the given code.
func IsCode(err error, code ErrorCode) bool {
	shopErr, ok := As(err)
	return ok && shopErr.Code == code
}

// Message returns the user-facing text of err: the ShopError message when
// available, the plain error string otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if shopErr, ok := As(err); ok && shopErr.Message != "" {
		return shopErr.Message
	}
	return err.Error()
}

// Common error constructors for frequently used errors

// NewNotAuthenticatedError is returned when an operation needs a session token
// and none is stored.
func NewNotAuthenticatedError() *ShopError {
	return New(ErrCodeNotAuthenticated, "not signed in").
		WithSuggestion("Run 'shopfront auth login' to sign in").
		WithSuggestion("Create an account with 'shopfront auth register'")
}

// NewStorageReadError wraps a failure reading persisted client state.
func NewStorageReadError(key string, cause error) *ShopError {
	return Wrap(ErrCodeStorageRead, fmt.Sprintf("failed to read %q from local storage", key), cause).
		WithSuggestion("Check permissions on the shopfront state file").
		WithSuggestion("Run 'shopfront doctor' to verify the storage backend")
}

// NewStorageWriteError wraps a failure writing persisted client state.
func NewStorageWriteError(key string, cause error) *ShopError {
	return Wrap(ErrCodeStorageWrite, fmt.Sprintf("failed to write %q to local storage", key), cause).
		WithSuggestion("Check that the state directory is writable")
}

// NewConfigInvalidError creates a configuration validation error
func NewConfigInvalidError(details string) *ShopError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", details)).
		WithSuggestion("Review ~/.config/shopfront/config.yaml or the SHOPFRONT_* environment variables")
}
