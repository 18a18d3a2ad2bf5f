package exitcode

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/felixgeelhaar/shopfront/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// BackendError indicates the backend rejected the request or answered
	// with something the client could not use
	BackendError = 3

	// StorageError indicates local state could not be read or written
	StorageError = 4

	// AuthError indicates a missing, expired or insufficient session
	AuthError = 5

	// NetworkError indicates a network connectivity issue
	NetworkError = 6

	// ConfigError indicates invalid configuration
	ConfigError = 7

	// Interrupted indicates the command was cancelled by SIGINT or SIGTERM
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}

	Exit(DetermineExitCode(err))
}

// DetermineExitCode maps an error to an exit code. Coded errors are
// classified by kind; anything else is checked for cobra usage messages.
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	if stderrors.Is(err, context.Canceled) {
		return Interrupted
	}

	if shopErr, ok := errors.As(err); ok {
		switch shopErr.Kind() {
		case errors.KindAuth:
			return AuthError
		case errors.KindNetwork:
			return NetworkError
		case errors.KindClient, errors.KindServer, errors.KindDecode:
			return BackendError
		case errors.KindStorage:
			return StorageError
		case errors.KindConfig:
			return ConfigError
		}
	}

	errMsg := strings.ToLower(err.Error())
	for _, usage := range []string{"invalid flag", "unknown flag", "unknown command", "required flag", "missing argument", "accepts ", "invalid argument"} {
		if strings.Contains(errMsg, usage) {
			return UsageError
		}
	}

	return GeneralError
}

// GetExitCodeDescription returns a human-readable description of an exit code
func GetExitCodeDescription(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags or arguments)"
	case BackendError:
		return "Backend error"
	case StorageError:
		return "Local storage error"
	case AuthError:
		return "Authentication error"
	case NetworkError:
		return "Network error"
	case ConfigError:
		return "Configuration error"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
