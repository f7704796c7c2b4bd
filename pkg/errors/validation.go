package errors

import (
	"regexp"
	"unicode"
)

// maxNameLength bounds tag type and attribute names.
const maxNameLength = 256

// nameRegex matches tag type and attribute names: an identifier optionally
// qualified with dots or slashes ("http.Route", "web/Get").
var nameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*([./][A-Za-z_][A-Za-z0-9_]*)*$`)

// attributeRegex matches attribute names, which are never qualified.
var attributeRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateName validates a tag type name.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters or whitespace
//   - Identifier segments separated by "." or "/"
//   - Maximum length of 256 characters
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "tag type name cannot be empty")
	}
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidInput, "tag type name too long (max %d characters)", maxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "tag type name contains invalid characters: %q", name)
		}
	}
	if !nameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid tag type name: %q", name)
	}
	return nil
}

// ValidateAttributeName validates an attribute name.
func ValidateAttributeName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "attribute name cannot be empty")
	}
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidInput, "attribute name too long (max %d characters)", maxNameLength)
	}
	if !attributeRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid attribute name: %q", name)
	}
	return nil
}
