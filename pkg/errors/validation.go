package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateStoreKey validates a key-value storage key.
//
// Keys end up in file names (hashed), redis keys, mongo ids and sqlite rows,
// so the rules are conservative:
//   - No empty keys
//   - No control characters
//   - Maximum length of 256 characters
func ValidateStoreKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidConfig, "storage key cannot be empty")
	}

	if len(key) > 256 {
		return New(ErrCodeInvalidConfig, "storage key too long (max 256 characters)")
	}

	for _, r := range key {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidConfig, "storage key contains invalid control characters")
		}
	}

	return nil
}

// identifierRegex matches identifiers in the generated code's language.
var identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateIdentifier validates a code identifier such as the data packet
// reference emitted by the code generator.
func ValidateIdentifier(name string) error {
	if name == "" {
		return New(ErrCodeInvalidConfig, "identifier cannot be empty")
	}

	if !identifierRegex.MatchString(name) {
		return New(ErrCodeInvalidConfig, "invalid identifier: %q", name)
	}

	return nil
}

// ValidatePath validates a local file path from configuration.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidConfig, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidConfig, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidConfig, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateURL validates a backend connection URL.
// It only checks that the scheme is one of the allowed ones.
func ValidateURL(rawURL string, schemes ...string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidConfig, "URL cannot be empty")
	}

	for _, s := range schemes {
		if strings.HasPrefix(rawURL, s+"://") {
			return nil
		}
	}

	return New(ErrCodeInvalidConfig, "URL must use one of the schemes: %s", strings.Join(schemes, ", "))
}
