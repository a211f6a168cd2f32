package model

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorCode represents API error codes
type ErrorCode string

const (
	// Authentication errors
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeLoginFailed  ErrorCode = "LOGIN_FAILED"

	// Authorization errors
	ErrCodeForbidden ErrorCode = "FORBIDDEN"

	// Resource errors
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeInvalidID     ErrorCode = "INVALID_ID"
	ErrCodeDuplicateSlug ErrorCode = "DUPLICATE_SLUG"
	ErrCodeHasChildren   ErrorCode = "HAS_CHILDREN"
	ErrCodeConflict      ErrorCode = "CONFLICT"

	// Validation errors
	ErrCodeValidation   ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeTooLarge     ErrorCode = "PAYLOAD_TOO_LARGE"

	// Internal errors
	ErrCodeInternal    ErrorCode = "INTERNAL_ERROR"
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
)

const problemTypeBase = "https://folio.forgo.software/errors/"

// ProblemDetails represents RFC 9457 Problem Details for HTTP APIs.
// Message mirrors Detail so that clients reading a plain {message} body keep working.
type ProblemDetails struct {
	Type     string       `json:"type"`
	Title    string       `json:"title"`
	Status   int          `json:"status"`
	Detail   string       `json:"detail,omitempty"`
	Message  string       `json:"message"`
	Instance string       `json:"instance,omitempty"`
	Errors   []FieldError `json:"errors,omitempty"`
	// Extension fields
	Code     ErrorCode     `json:"code,omitempty"`
	Children []CategoryRef `json:"children,omitempty"`
}

// FieldError represents a validation error on a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface
func (p *ProblemDetails) Error() string {
	return fmt.Sprintf("[%d] %s: %s", p.Status, p.Title, p.Detail)
}

// WriteJSON writes the problem details as JSON response
func (p *ProblemDetails) WriteJSON(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

func newProblem(slug, title string, status int, code ErrorCode, detail string) *ProblemDetails {
	return &ProblemDetails{
		Type:    problemTypeBase + slug,
		Title:   title,
		Status:  status,
		Detail:  detail,
		Message: detail,
		Code:    code,
	}
}

// Common error constructors

func NewUnauthorizedError(detail string) *ProblemDetails {
	if detail == "" {
		detail = "authentication required"
	}
	return newProblem("unauthorized", "Unauthorized", http.StatusUnauthorized, ErrCodeUnauthorized, detail)
}

func NewLoginFailedError(detail string) *ProblemDetails {
	return newProblem("login-failed", "Unauthorized", http.StatusUnauthorized, ErrCodeLoginFailed, detail)
}

func NewForbiddenError(detail string) *ProblemDetails {
	if detail == "" {
		detail = "not authorized"
	}
	return newProblem("forbidden", "Forbidden", http.StatusForbidden, ErrCodeForbidden, detail)
}

func NewNotFoundError(resource string) *ProblemDetails {
	return newProblem("not-found", "Not Found", http.StatusNotFound, ErrCodeNotFound, fmt.Sprintf("%s not found", resource))
}

func NewInvalidIDError(resource string) *ProblemDetails {
	return newProblem("invalid-id", "Bad Request", http.StatusBadRequest, ErrCodeInvalidID, fmt.Sprintf("invalid %s id", resource))
}

func NewDuplicateSlugError(slug string) *ProblemDetails {
	detail := "slug already exists"
	if slug != "" {
		detail = fmt.Sprintf("slug %q already exists", slug)
	}
	return newProblem("duplicate-slug", "Bad Request", http.StatusBadRequest, ErrCodeDuplicateSlug, detail)
}

func NewHasChildrenError(children []CategoryRef) *ProblemDetails {
	p := newProblem("has-children", "Bad Request", http.StatusBadRequest, ErrCodeHasChildren,
		fmt.Sprintf("category has %d child categories; reassign or delete them first", len(children)))
	p.Children = children
	return p
}

func NewValidationError(errors []FieldError) *ProblemDetails {
	// Build detailed message from field errors
	detail := "One or more fields failed validation"
	if len(errors) > 0 {
		detail = fmt.Sprintf("%s: %s", errors[0].Field, errors[0].Message)
		if len(errors) > 1 {
			detail = fmt.Sprintf("%s (and %d more errors)", detail, len(errors)-1)
		}
	}
	p := newProblem("validation", "Validation Error", http.StatusBadRequest, ErrCodeValidation, detail)
	p.Errors = errors
	return p
}

func NewConflictError(detail string) *ProblemDetails {
	return newProblem("conflict", "Conflict", http.StatusConflict, ErrCodeConflict, detail)
}

func NewInternalError(detail string) *ProblemDetails {
	if detail == "" {
		detail = "an unexpected error occurred"
	}
	return newProblem("internal", "Internal Server Error", http.StatusInternalServerError, ErrCodeInternal, detail)
}

func NewBadRequestError(detail string) *ProblemDetails {
	return newProblem("bad-request", "Bad Request", http.StatusBadRequest, ErrCodeInvalidInput, detail)
}

func NewPayloadTooLargeError(limit int64) *ProblemDetails {
	return newProblem("payload-too-large", "Payload Too Large", http.StatusRequestEntityTooLarge, ErrCodeTooLarge,
		fmt.Sprintf("upload exceeds the %d byte limit", limit))
}

func NewRateLimitError(retryAfter int) *ProblemDetails {
	return newProblem("rate-limited", "Too Many Requests", http.StatusTooManyRequests, ErrCodeRateLimited,
		fmt.Sprintf("Rate limit exceeded. Retry after %d seconds", retryAfter))
}
