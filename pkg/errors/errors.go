// Package errors provides structured error types for tagmagic.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library and the CLI
//   - Machine-readable error codes for programmatic handling
//   - Grouping of codes into the categories callers react to
//   - Error wrapping with context preservation
//
// # Categories
//
// Every code belongs to exactly one [Category]:
//   - [CategoryDefinition]: a descriptor is malformed (fatal at startup)
//   - [CategoryHierarchy]: the definitions do not form a valid hierarchy (fatal at startup)
//   - [CategoryAttribute]: a single resolution failed (recoverable per query)
//   - [CategoryQuery]: a lookup over observed tags failed (recoverable per query)
//   - [CategoryInput]: a collaborator received malformed input (manifests, tag strings)
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownAttribute, "no attribute %q on %s", name, typ)
//	if errors.IsAttributeError(err) {
//	    // fall back to a caller-supplied default
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidManifest, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes, grouped by category.
const (
	// Definition errors
	ErrCodeDuplicateAttribute Code = "DUPLICATE_ATTRIBUTE"
	ErrCodeUnknownParent      Code = "UNKNOWN_PARENT"
	ErrCodeTypeMismatch       Code = "TYPE_MISMATCH"
	ErrCodeUndeclaredOverride Code = "UNDECLARED_OVERRIDE"
	ErrCodeDuplicateTagType   Code = "DUPLICATE_TAG_TYPE"

	// Hierarchy errors
	ErrCodeCyclicHierarchy   Code = "CYCLIC_HIERARCHY"
	ErrCodeAmbiguousOverride Code = "AMBIGUOUS_OVERRIDE"
	ErrCodeCyclicAlias       Code = "CYCLIC_ALIAS"
	ErrCodeDanglingAlias     Code = "DANGLING_ALIAS"

	// Attribute errors
	ErrCodeUnknownAttribute         Code = "UNKNOWN_ATTRIBUTE"
	ErrCodeMissingRequiredAttribute Code = "MISSING_REQUIRED_ATTRIBUTE"
	ErrCodeInvalidValue             Code = "INVALID_VALUE"
	ErrCodeUnknownTagType           Code = "UNKNOWN_TAG_TYPE"

	// Query errors
	ErrCodeAmbiguousMatch Code = "AMBIGUOUS_MATCH"
	ErrCodeNotAnInstance  Code = "NOT_AN_INSTANCE"

	// Input errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidManifest  Code = "INVALID_MANIFEST"
	ErrCodeInvalidTagSyntax Code = "INVALID_TAG_SYNTAX"
	ErrCodeFileNotFound     Code = "FILE_NOT_FOUND"
)

// Category groups codes by how callers are expected to react to them.
type Category string

const (
	CategoryDefinition Category = "DefinitionError"
	CategoryHierarchy  Category = "HierarchyError"
	CategoryAttribute  Category = "AttributeError"
	CategoryQuery      Category = "QueryError"
	CategoryInput      Category = "InputError"
)

var categories = map[Code]Category{
	ErrCodeDuplicateAttribute: CategoryDefinition,
	ErrCodeUnknownParent:      CategoryDefinition,
	ErrCodeTypeMismatch:       CategoryDefinition,
	ErrCodeUndeclaredOverride: CategoryDefinition,
	ErrCodeDuplicateTagType:   CategoryDefinition,

	ErrCodeCyclicHierarchy:   CategoryHierarchy,
	ErrCodeAmbiguousOverride: CategoryHierarchy,
	ErrCodeCyclicAlias:       CategoryHierarchy,
	ErrCodeDanglingAlias:     CategoryHierarchy,

	ErrCodeUnknownAttribute:         CategoryAttribute,
	ErrCodeMissingRequiredAttribute: CategoryAttribute,
	ErrCodeInvalidValue:             CategoryAttribute,
	ErrCodeUnknownTagType:           CategoryAttribute,

	ErrCodeAmbiguousMatch: CategoryQuery,
	ErrCodeNotAnInstance:  CategoryQuery,

	ErrCodeInvalidInput:     CategoryInput,
	ErrCodeInvalidManifest:  CategoryInput,
	ErrCodeInvalidTagSyntax: CategoryInput,
	ErrCodeFileNotFound:     CategoryInput,
}

// Category returns the category of the code, or the empty string for unknown codes.
func (c Code) Category() Category {
	return categories[c]
}

// Error is a structured error with a code and optional cause.
//
// Type, Attribute and Cycle are optional detail fields filled in where they
// apply, so callers can report the offending tag type without parsing messages.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)

	Type      string   // Offending tag type (optional)
	Attribute string   // Offending attribute name (optional)
	Cycle     []string // Cycle path for CYCLIC_* codes, first element repeated at the end
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithType records the offending tag type and returns e.
func (e *Error) WithType(t string) *Error {
	e.Type = t
	return e
}

// WithAttribute records the offending attribute and returns e.
func (e *Error) WithAttribute(name string) *Error {
	e.Attribute = name
	return e
}

// WithCycle records a cycle path and returns e.
func (e *Error) WithCycle(path []string) *Error {
	e.Cycle = append([]string(nil), path...)
	return e
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// GetCategory extracts the category of an error's code.
func GetCategory(err error) Category {
	return GetCode(err).Category()
}

// IsDefinitionError reports whether err is a descriptor defect.
func IsDefinitionError(err error) bool { return GetCategory(err) == CategoryDefinition }

// IsHierarchyError reports whether err is a structural hierarchy defect.
func IsHierarchyError(err error) bool { return GetCategory(err) == CategoryHierarchy }

// IsAttributeError reports whether err is a recoverable resolution failure.
func IsAttributeError(err error) bool { return GetCategory(err) == CategoryAttribute }

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// FormatCycle renders a cycle path as "A -> B -> A".
func FormatCycle(path []string) string {
	return strings.Join(path, " -> ")
}
