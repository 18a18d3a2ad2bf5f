package ux

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/shopfront/internal/errors"
)

// ErrorWithSuggestion wraps an error with helpful recovery suggestions
type ErrorWithSuggestion struct {
	Err        error
	Suggestion string
}

// Error implements the error interface
func (e *ErrorWithSuggestion) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%v\n\n💡 Suggestion: %s", e.Err, e.Suggestion)
	}
	return e.Err.Error()
}

// Unwrap provides access to the underlying error
func (e *ErrorWithSuggestion) Unwrap() error {
	return e.Err
}

// NewErrorWithSuggestion creates a new error with a suggestion
func NewErrorWithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	return &ErrorWithSuggestion{
		Err:        err,
		Suggestion: suggestion,
	}
}

// EnhanceError adds a suggestion to errors that do not carry their own.
// Coded errors already include suggestions and are returned unchanged.
func EnhanceError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.As(err); ok {
		return err
	}

	errMsg := err.Error()
	switch {
	case strings.Contains(errMsg, "permission denied"):
		return NewErrorWithSuggestion(err,
			"Check permissions on ~/.config/shopfront or set SHOPFRONT_STORAGE_PATH")
	case strings.Contains(errMsg, "unknown theme"):
		return NewErrorWithSuggestion(err, "Use 'shopfront theme set light' or 'shopfront theme set dark'")
	case strings.Contains(errMsg, "unknown format"):
		return NewErrorWithSuggestion(err, "Use --output text, json or yaml")
	case strings.Contains(errMsg, "ID cannot"):
		return NewErrorWithSuggestion(err, "Copy the ID from 'shopfront products list'")
	}
	return err
}

// RenderError formats err for the terminal: the user-facing message, the
// request reference when there is one, and any suggestions.
func RenderError(err error, styles Styles) string {
	if err == nil {
		return ""
	}

	var b strings.Builder
	shopErr, ok := errors.As(err)
	if !ok {
		b.WriteString(styles.Error.Render("✗ "))
		b.WriteString(EnhanceError(err).Error())
		return b.String()
	}

	b.WriteString(styles.Error.Render("✗ "))
	b.WriteString(shopErr.Message)
	b.WriteString(styles.Muted.Render(" [" + string(shopErr.Code) + "]"))
	if shopErr.RequestID != "" {
		b.WriteString("\n")
		b.WriteString(styles.Muted.Render("  request: " + shopErr.RequestID))
	}
	if len(shopErr.Suggestions) > 0 {
		b.WriteString("\n")
		for _, s := range shopErr.Suggestions {
			b.WriteString("\n  💡 " + s)
		}
	}
	return b.String()
}
