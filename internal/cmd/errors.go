package cmd

import (
	"fmt"
	"strings"
)

// ErrorWithSuggestion wraps an error with actionable recovery suggestions
type ErrorWithSuggestion struct {
	Message     string
	Suggestions []string
	err         error
}

func (e *ErrorWithSuggestion) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, s := range e.Suggestions {
			b.WriteString("\n  • ")
			b.WriteString(s)
		}
	}

	if e.err != nil {
		b.WriteString("\n\nDetails: ")
		b.WriteString(e.err.Error())
	}

	return b.String()
}

func (e *ErrorWithSuggestion) Unwrap() error {
	return e.err
}

// NewErrorWithSuggestions creates an error with recovery suggestions
func NewErrorWithSuggestions(msg string, err error, suggestions ...string) error {
	return &ErrorWithSuggestion{
		Message:     msg,
		Suggestions: suggestions,
		err:         err,
	}
}

// MissingCredentialsError is returned when a non-interactive session lacks
// the flags a sign-in or sign-up needs.
func MissingCredentialsError(command string, err error) error {
	return NewErrorWithSuggestions(
		"missing argument: credentials are incomplete",
		err,
		fmt.Sprintf("Pass them as flags: shopfront auth %s --email you@example.com --password ...", command),
		"Run the command in a terminal to be prompted",
	)
}

// AmbiguousCartLineError is returned when a product has several cart lines
// and the command did not say which one.
func AmbiguousCartLineError(productID string, variants []string) error {
	suggestions := make([]string, 0, len(variants))
	for _, v := range variants {
		suggestions = append(suggestions, fmt.Sprintf("shopfront cart ... %s --variant %q", productID, v))
	}
	return NewErrorWithSuggestions(
		fmt.Sprintf("invalid argument: product %s has %d cart lines; choose one with --variant", productID, len(variants)),
		nil,
		suggestions...,
	)
}

// CartLineNotFoundError is returned when no cart line matches.
func CartLineNotFoundError(productID string) error {
	return NewErrorWithSuggestions(
		fmt.Sprintf("invalid argument: product %s is not in the cart", productID),
		nil,
		"List the cart with: shopfront cart list",
	)
}
