// SPDX-License-Identifier: Apache-2.0

// Package errors provides coded errors returned at the service and CLI boundary.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCode identifies a class of failure.
type ErrorCode string

const (
	ErrCodeProjectNotFound ErrorCode = "PROJECT-001"

	ErrCodeItemNotFound  ErrorCode = "CATALOG-001"
	ErrCodeCatalogLoad   ErrorCode = "CATALOG-002"
	ErrCodeEntryNotFound ErrorCode = "BACKLOG-001"

	ErrCodeInvalidMode         ErrorCode = "INPUT-001"
	ErrCodeInvalidStatus       ErrorCode = "INPUT-002"
	ErrCodeInvalidAnswer       ErrorCode = "INPUT-003"
	ErrCodeInvalidArtifactType ErrorCode = "INPUT-004"
	ErrCodeInvalidProject      ErrorCode = "INPUT-005"

	ErrCodeNoMoreQuestions ErrorCode = "WIZARD-001"

	ErrCodeStorage ErrorCode = "STORE-001"

	ErrCodeRender           ErrorCode = "ARTIFACT-001"
	ErrCodeArtifactNotFound ErrorCode = "ARTIFACT-002"
)

// QuestError carries a code, a message and optional hints for the user.
type QuestError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	Cause       error
}

// Error implements the error interface
func (e *QuestError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, s := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  - %s", s))
		}
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *QuestError) Unwrap() error {
	return e.Cause
}

// Is matches another QuestError by code so callers can compare against sentinels.
func (e *QuestError) Is(target error) bool {
	t, ok := target.(*QuestError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// New creates a new QuestError
func New(code ErrorCode, message string) *QuestError {
	return &QuestError{Code: code, Message: message}
}

// Newf creates a new QuestError with a formatted message
func Newf(code ErrorCode, format string, args ...any) *QuestError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap creates a new QuestError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *QuestError {
	return &QuestError{Code: code, Message: message, Cause: cause}
}

// WithSuggestion adds a suggestion to the error
func (e *QuestError) WithSuggestion(suggestion string) *QuestError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// CodeOf returns the code of the first QuestError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var qe *QuestError
	if stderrors.As(err, &qe) {
		return qe.Code
	}
	return ""
}

// HasCode reports whether err carries code anywhere in its chain.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		if qe, ok := err.(*QuestError); ok && qe.Code == code {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// IsNotFound reports whether err is one of the not-found class codes.
func IsNotFound(err error) bool {
	return HasCode(err, ErrCodeProjectNotFound) ||
		HasCode(err, ErrCodeItemNotFound) ||
		HasCode(err, ErrCodeEntryNotFound) ||
		HasCode(err, ErrCodeArtifactNotFound)
}

// NewProjectNotFound is returned when a project id is unknown.
func NewProjectNotFound(id string) *QuestError {
	return Newf(ErrCodeProjectNotFound, "project not found: %s", id).
		WithSuggestion("Run 'imgquest project list' to see existing projects")
}

// NewItemNotFound is returned when a catalog item id is unknown.
func NewItemNotFound(id string) *QuestError {
	return Newf(ErrCodeItemNotFound, "config item not found: %s", id).
		WithSuggestion("Run 'imgquest catalog show' to list catalog items")
}

// NewEntryNotFound is returned when a project does not track the item.
func NewEntryNotFound(projectID, itemID string) *QuestError {
	return Newf(ErrCodeEntryNotFound, "backlog item %s not found in project %s", itemID, projectID)
}

// NewArtifactNotFound is returned when a report has not been generated yet.
func NewArtifactNotFound(projectID, artifactType string) *QuestError {
	return Newf(ErrCodeArtifactNotFound, "artifact %s not found in project %s", artifactType, projectID).
		WithSuggestion("Run 'imgquest artifact generate' first")
}

// NewNoMoreQuestions marks the terminal state of the wizard.
func NewNoMoreQuestions() *QuestError {
	return New(ErrCodeNoMoreQuestions, "no more questions").
		WithSuggestion("Run 'imgquest artifact generate' to produce the reports")
}
