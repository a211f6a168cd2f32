package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/forgo/folio/internal/middleware"
	"github.com/forgo/folio/internal/model"
	"github.com/forgo/folio/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Stub resource service
// ============================================================================

type widget struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

type widgetRequest struct {
	Title string `json:"title"`
}

type stubWidgets struct {
	err        error
	lastID     string
	lastCaller *model.Identity
	lastParams model.ListParams
}

func (s *stubWidgets) Create(_ context.Context, identity *model.Identity, req *widgetRequest) (*widget, error) {
	s.lastCaller = identity
	if s.err != nil {
		return nil, s.err
	}
	return &widget{ID: "widget:1", Title: req.Title, Slug: "w"}, nil
}

func (s *stubWidgets) Update(_ context.Context, identity *model.Identity, id string, req *widgetRequest) (*widget, error) {
	s.lastCaller, s.lastID = identity, id
	if s.err != nil {
		return nil, s.err
	}
	return &widget{ID: id, Title: req.Title, Slug: "w"}, nil
}

func (s *stubWidgets) Delete(_ context.Context, identity *model.Identity, id string) error {
	s.lastCaller, s.lastID = identity, id
	return s.err
}

func (s *stubWidgets) GetByID(_ context.Context, id string) (*widget, error) {
	s.lastID = id
	if s.err != nil {
		return nil, s.err
	}
	return &widget{ID: id, Title: "Gear", Slug: "gear"}, nil
}

func (s *stubWidgets) GetBySlug(_ context.Context, slug string) (*widget, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &widget{ID: "widget:1", Title: "Gear", Slug: slug}, nil
}

func (s *stubWidgets) List(_ context.Context, params model.ListParams) (*model.ListResult[widget], error) {
	s.lastParams = params
	if s.err != nil {
		return nil, s.err
	}
	return model.NewListResult([]*widget{{ID: "widget:1"}}, 1, params), nil
}

func newWidgetMux(svc *stubWidgets) *http.ServeMux {
	h := &ResourceHandler[widget, widgetRequest, widgetRequest]{svc: svc, name: "widget", basePath: "/v1/widgets"}
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return mux
}

// ============================================================================
// Helpers
// ============================================================================

var (
	testAdmin = &model.Identity{ID: "user:admin", Role: model.UserRoleAdmin}
	testUser  = &model.Identity{ID: "user:u1", Role: model.UserRoleUser}
)

func serve(h http.Handler, method, path string, body interface{}, identity *model.Identity) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if identity != nil {
		req = req.WithContext(middleware.WithIdentity(req.Context(), identity))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) model.ProblemDetails {
	t.Helper()
	var p model.ProblemDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	return p
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var env struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.Data
}

// ============================================================================
// Tests
// ============================================================================

func TestResourceHandler_WritesRequireIdentity(t *testing.T) {
	t.Parallel()
	svc := &stubWidgets{}
	mux := newWidgetMux(svc)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/v1/widgets"},
		{http.MethodPatch, "/v1/widgets/widget:1"},
		{http.MethodDelete, "/v1/widgets/widget:1"},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			rec := serve(mux, tt.method, tt.path, widgetRequest{Title: "x"}, nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, model.ErrCodeUnauthorized, decodeProblem(t, rec).Code)
		})
	}
	assert.Nil(t, svc.lastCaller)
}

func TestResourceHandler_CRUD(t *testing.T) {
	t.Parallel()
	svc := &stubWidgets{}
	mux := newWidgetMux(svc)

	rec := serve(mux, http.MethodPost, "/v1/widgets", widgetRequest{Title: "Gear"}, testUser)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Gear", decodeData[widget](t, rec).Title)
	assert.Equal(t, testUser, svc.lastCaller)

	rec = serve(mux, http.MethodPatch, "/v1/widgets/widget:9", widgetRequest{Title: "Cog"}, testUser)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "widget:9", svc.lastID)

	rec = serve(mux, http.MethodDelete, "/v1/widgets/widget:9", nil, testAdmin)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = serve(mux, http.MethodGet, "/v1/widgets/widget:7", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "widget:7", svc.lastID)
}

func TestResourceHandler_RejectsUnknownFields(t *testing.T) {
	t.Parallel()
	mux := newWidgetMux(&stubWidgets{})

	rec := serve(mux, http.MethodPost, "/v1/widgets", `{"title":"x","bogus":1}`, testUser)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, model.ErrCodeInvalidInput, decodeProblem(t, rec).Code)
}

func TestResourceHandler_ListParams(t *testing.T) {
	t.Parallel()
	svc := &stubWidgets{}
	mux := newWidgetMux(svc)

	rec := serve(mux, http.MethodGet, "/v1/widgets?page=2&page_size=5&status=draft&tag=%20go%20&sort=-title", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, svc.lastParams.Page)
	assert.Equal(t, 5, svc.lastParams.PageSize)
	assert.Equal(t, model.Status("draft"), svc.lastParams.Filter.Status)
	assert.Equal(t, "go", svc.lastParams.Filter.Tag)
	assert.Equal(t, "-title", svc.lastParams.Sort)

	result := decodeData[model.ListResult[widget]](t, rec)
	assert.Equal(t, 1, result.Total)

	rec = serve(mux, http.MethodGet, "/v1/widgets?page=two", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	p := decodeProblem(t, rec)
	assert.Equal(t, model.ErrCodeValidation, p.Code)
	require.Len(t, p.Errors, 1)
	assert.Equal(t, "page", p.Errors[0].Field)
}

func TestResourceHandler_GetBySlugETag(t *testing.T) {
	t.Parallel()
	mux := newWidgetMux(&stubWidgets{})

	rec := serve(mux, http.MethodGet, "/v1/widgets/slug/gear", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)
	assert.Equal(t, "gear", decodeData[widget](t, rec).Slug)

	req := httptest.NewRequest(http.MethodGet, "/v1/widgets/slug/gear", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Empty(t, rec.Body.Bytes())

	// A different representation gets a different tag
	rec = serve(mux, http.MethodGet, "/v1/widgets/slug/cog", nil, nil)
	assert.NotEqual(t, etag, rec.Header().Get("ETag"))
}

func TestResourceHandler_ServiceErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
		code   model.ErrorCode
	}{
		{"not found", service.ErrNotFound, http.StatusNotFound, model.ErrCodeNotFound},
		{"invalid id", service.ErrInvalidID, http.StatusBadRequest, model.ErrCodeInvalidID},
		{"forbidden", service.ErrForbidden, http.StatusForbidden, model.ErrCodeForbidden},
		{"duplicate slug", service.ErrDuplicateSlug, http.StatusBadRequest, model.ErrCodeDuplicateSlug},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := newWidgetMux(&stubWidgets{err: tt.err})
			rec := serve(mux, http.MethodPatch, "/v1/widgets/widget:1", widgetRequest{Title: "x"}, testUser)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, decodeProblem(t, rec).Code)
			assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
		})
	}
}
