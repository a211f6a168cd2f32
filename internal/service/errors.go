package service

import (
	"errors"
	"strings"

	"github.com/forgo/folio/internal/model"
)

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== Access Errors =====
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("not authorized to perform this action")
)

// ===== Resource Errors =====
var (
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidID         = errors.New("invalid resource id")
	ErrDuplicateSlug     = errors.New("slug already in use")
	ErrDuplicateLocation = errors.New("a menu is already assigned to this location")
	ErrParentNotFound    = errors.New("parent not found")
)

// ===== Authentication Errors =====
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrCannotDemoteSelf   = errors.New("admins cannot change their own role")
)

// ===== Media Errors =====
var (
	ErrEmptyUpload      = errors.New("uploaded file is empty")
	ErrUnsupportedMedia = errors.New("file type is not allowed")
)

// ValidationError carries per-field failures from request validation
type ValidationError struct {
	Fields []model.FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// invalid wraps field errors, returning nil when there are none
func invalid(fields []model.FieldError) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// invalidField is a single-field ValidationError
func invalidField(field, message string) error {
	return &ValidationError{Fields: []model.FieldError{{Field: field, Message: message}}}
}

// HasChildrenError is returned when deleting a category that other
// categories still name as their parent.
type HasChildrenError struct {
	Children []model.CategoryRef
}

func (e *HasChildrenError) Error() string {
	return "category has child categories"
}
