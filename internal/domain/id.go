package domain

import (
	"fmt"
	"strings"
	"unicode"
)

// maxIDLength bounds identifiers accepted from the command line before they
// are spliced into a request path.
const maxIDLength = 128

// ValidateID checks that an identifier of the given kind ("product", "user")
// is usable as a single path segment.
func ValidateID(kind, value string) error {
	if value == "" {
		return fmt.Errorf("%s ID cannot be empty", kind)
	}

	if len(value) > maxIDLength {
		return fmt.Errorf("%s ID %q exceeds maximum length of %d characters", kind, value, maxIDLength)
	}

	if strings.ContainsAny(value, "/?#") {
		return fmt.Errorf("%s ID %q cannot contain '/', '?' or '#'", kind, value)
	}

	for _, r := range value {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return fmt.Errorf("%s ID %q cannot contain whitespace", kind, value)
		}
	}

	return nil
}
