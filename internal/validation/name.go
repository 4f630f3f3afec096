package validation

import (
	"strings"
)

// ValidateName validates an account holder's display name.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)

	if len(trimmed) < 2 {
		return Error("name must be at least 2 characters")
	}

	if len(trimmed) > 100 {
		return Error("name is too long (max 100 characters)")
	}

	return nil
}
