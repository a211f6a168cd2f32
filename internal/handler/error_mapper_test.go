package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/forgo/folio/internal/model"
	"github.com/forgo/folio/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapServiceError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
		code   model.ErrorCode
	}{
		{"unauthenticated", service.ErrUnauthenticated, http.StatusUnauthorized, model.ErrCodeUnauthorized},
		{"bad credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, model.ErrCodeLoginFailed},
		{"forbidden", service.ErrForbidden, http.StatusForbidden, model.ErrCodeForbidden},
		{"demote self", service.ErrCannotDemoteSelf, http.StatusForbidden, model.ErrCodeForbidden},
		{"wrapped not found", fmt.Errorf("load: %w", service.ErrNotFound), http.StatusNotFound, model.ErrCodeNotFound},
		{"invalid id", service.ErrInvalidID, http.StatusBadRequest, model.ErrCodeInvalidID},
		{"duplicate slug", service.ErrDuplicateSlug, http.StatusBadRequest, model.ErrCodeDuplicateSlug},
		{"duplicate location", service.ErrDuplicateLocation, http.StatusConflict, model.ErrCodeConflict},
		{"duplicate email", service.ErrEmailAlreadyExists, http.StatusConflict, model.ErrCodeConflict},
		{"empty upload", service.ErrEmptyUpload, http.StatusBadRequest, model.ErrCodeInvalidInput},
		{"unknown", errors.New("connection reset by peer"), http.StatusInternalServerError, model.ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := MapServiceError(context.Background(), "page", tt.err)
			require.NotNil(t, p)
			assert.Equal(t, tt.status, p.Status)
			assert.Equal(t, tt.code, p.Code)
		})
	}
}

func TestMapServiceError_HidesInternalDetail(t *testing.T) {
	t.Parallel()

	p := MapServiceError(context.Background(), "page", errors.New("SELECT * FROM secret_table failed"))
	assert.NotContains(t, p.Detail, "secret_table")
	assert.NotContains(t, p.Message, "secret_table")
}

func TestMapServiceError_Resource(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "post not found", MapServiceError(context.Background(), "post", service.ErrNotFound).Detail)
	assert.Equal(t, "invalid menu id", MapServiceError(context.Background(), "menu", service.ErrInvalidID).Detail)
}

func TestMapServiceError_Structured(t *testing.T) {
	t.Parallel()

	fields := []model.FieldError{{Field: "title", Message: "title is required"}}
	p := MapServiceError(context.Background(), "page", fmt.Errorf("create: %w", &service.ValidationError{Fields: fields}))
	assert.Equal(t, http.StatusBadRequest, p.Status)
	assert.Equal(t, fields, p.Errors)

	children := []model.CategoryRef{{ID: "category:2", Title: "Local", Slug: "local"}}
	p = MapServiceError(context.Background(), "category", &service.HasChildrenError{Children: children})
	assert.Equal(t, model.ErrCodeHasChildren, p.Code)
	assert.Equal(t, children, p.Children)

	assert.Nil(t, MapServiceError(context.Background(), "page", nil))
}
