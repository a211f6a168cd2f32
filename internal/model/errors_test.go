package model

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// ============================================================================
// Error() Interface Tests
// ============================================================================

func TestProblemDetails_Error_ReturnsFormattedMessage(t *testing.T) {
	t.Parallel()

	pd := &ProblemDetails{
		Status: http.StatusNotFound,
		Title:  "Not Found",
		Detail: "page not found",
	}

	errMsg := pd.Error()

	if !strings.Contains(errMsg, "404") {
		t.Errorf("error message should contain status code, got: %s", errMsg)
	}
	if !strings.Contains(errMsg, "Not Found") {
		t.Errorf("error message should contain title, got: %s", errMsg)
	}
	if !strings.Contains(errMsg, "page not found") {
		t.Errorf("error message should contain detail, got: %s", errMsg)
	}
}

// ============================================================================
// WriteJSON Tests
// ============================================================================

func TestProblemDetails_WriteJSON_SetsContentTypeAndStatus(t *testing.T) {
	t.Parallel()

	pd := NewForbiddenError("not authorized")
	rr := httptest.NewRecorder()

	pd.WriteJSON(rr)

	if ct := rr.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("expected Content-Type 'application/problem+json', got %q", ct)
	}
	if rr.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, rr.Code)
	}
}

func TestProblemDetails_WriteJSON_BodyCarriesMessage(t *testing.T) {
	t.Parallel()

	pd := NewBadRequestError("invalid input")
	rr := httptest.NewRecorder()

	pd.WriteJSON(rr)

	var body map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	if body["message"] != "invalid input" {
		t.Errorf("expected message 'invalid input', got %v", body["message"])
	}
	if body["detail"] != "invalid input" {
		t.Errorf("expected detail 'invalid input', got %v", body["detail"])
	}
}

// ============================================================================
// Constructor Tests
// ============================================================================

func TestConstructors_StatusAndCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		pd     *ProblemDetails
		status int
		code   ErrorCode
	}{
		{"unauthorized", NewUnauthorizedError(""), http.StatusUnauthorized, ErrCodeUnauthorized},
		{"login failed", NewLoginFailedError("invalid email or password"), http.StatusUnauthorized, ErrCodeLoginFailed},
		{"forbidden", NewForbiddenError(""), http.StatusForbidden, ErrCodeForbidden},
		{"not found", NewNotFoundError("post"), http.StatusNotFound, ErrCodeNotFound},
		{"invalid id", NewInvalidIDError("post"), http.StatusBadRequest, ErrCodeInvalidID},
		{"duplicate slug", NewDuplicateSlugError("hello-world"), http.StatusBadRequest, ErrCodeDuplicateSlug},
		{"has children", NewHasChildrenError(nil), http.StatusBadRequest, ErrCodeHasChildren},
		{"validation", NewValidationError(nil), http.StatusBadRequest, ErrCodeValidation},
		{"conflict", NewConflictError("taken"), http.StatusConflict, ErrCodeConflict},
		{"internal", NewInternalError(""), http.StatusInternalServerError, ErrCodeInternal},
		{"bad request", NewBadRequestError("bad"), http.StatusBadRequest, ErrCodeInvalidInput},
		{"too large", NewPayloadTooLargeError(1024), http.StatusRequestEntityTooLarge, ErrCodeTooLarge},
		{"rate limited", NewRateLimitError(60), http.StatusTooManyRequests, ErrCodeRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.pd.Status != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, tt.pd.Status)
			}
			if tt.pd.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, tt.pd.Code)
			}
			if tt.pd.Message == "" || tt.pd.Message != tt.pd.Detail {
				t.Errorf("expected message to mirror detail, got message=%q detail=%q", tt.pd.Message, tt.pd.Detail)
			}
		})
	}
}

func TestNewUnauthorizedError_DistinctFromForbidden(t *testing.T) {
	t.Parallel()

	unauth := NewUnauthorizedError("")
	forbidden := NewForbiddenError("")

	if unauth.Status == forbidden.Status || unauth.Code == forbidden.Code {
		t.Errorf("unauthenticated and forbidden must differ, got %d/%s and %d/%s",
			unauth.Status, unauth.Code, forbidden.Status, forbidden.Code)
	}
}

func TestNewDuplicateSlugError_NamesSlug(t *testing.T) {
	t.Parallel()

	pd := NewDuplicateSlugError("hello-world")

	if !strings.Contains(pd.Message, `"hello-world"`) {
		t.Errorf("expected message to quote slug, got %q", pd.Message)
	}
}

func TestNewHasChildrenError_CarriesChildren(t *testing.T) {
	t.Parallel()

	children := []CategoryRef{{ID: "category:d", Title: "D", Slug: "d"}}
	pd := NewHasChildrenError(children)

	if len(pd.Children) != 1 || pd.Children[0].ID != "category:d" {
		t.Errorf("expected children to be attached, got %v", pd.Children)
	}
	if !strings.Contains(pd.Message, "1 child") {
		t.Errorf("expected message to count children, got %q", pd.Message)
	}
}

func TestNewValidationError_SingleField(t *testing.T) {
	t.Parallel()

	pd := NewValidationError([]FieldError{{Field: "title", Message: "title is required"}})

	if len(pd.Errors) != 1 {
		t.Errorf("expected 1 error, got %d", len(pd.Errors))
	}
	if pd.Detail != "title: title is required" {
		t.Errorf("unexpected detail %q", pd.Detail)
	}
}

func TestNewValidationError_MultipleFields_SummarizesCount(t *testing.T) {
	t.Parallel()

	pd := NewValidationError([]FieldError{
		{Field: "title", Message: "required"},
		{Field: "status", Message: "invalid"},
		{Field: "tags", Message: "too many"},
	})

	if !strings.Contains(pd.Detail, "2 more errors") {
		t.Errorf("detail should mention count of additional errors, got %q", pd.Detail)
	}
}

func TestNewInternalError_EmptyDetail_UsesDefault(t *testing.T) {
	t.Parallel()

	pd := NewInternalError("")

	if pd.Message != "an unexpected error occurred" {
		t.Errorf("expected default message, got %q", pd.Message)
	}
}
