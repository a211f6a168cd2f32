package handler

import (
	"context"
	"net/http"

	"github.com/forgo/folio/internal/middleware"
	"github.com/forgo/folio/internal/model"
	"github.com/forgo/folio/internal/service"
)

// resourceService is the shape shared by the page, post, product, category
// and content services. T is the record, C and U its create and update requests.
type resourceService[T, C, U any] interface {
	Create(ctx context.Context, identity *model.Identity, req *C) (*T, error)
	Update(ctx context.Context, identity *model.Identity, id string, req *U) (*T, error)
	Delete(ctx context.Context, identity *model.Identity, id string) error
	GetByID(ctx context.Context, id string) (*T, error)
	GetBySlug(ctx context.Context, slug string) (*T, error)
	List(ctx context.Context, params model.ListParams) (*model.ListResult[T], error)
}

// ResourceHandler serves the CRUD routes of one slugged resource collection
type ResourceHandler[T, C, U any] struct {
	svc      resourceService[T, C, U]
	name     string // singular, used in error messages
	basePath string // e.g. "/v1/pages"
}

// PageHandler serves /v1/pages
type PageHandler = ResourceHandler[model.Page, model.CreatePageRequest, model.UpdatePageRequest]

// PostHandler serves /v1/posts
type PostHandler = ResourceHandler[model.Post, model.CreatePostRequest, model.UpdatePostRequest]

// ProductHandler serves /v1/products
type ProductHandler = ResourceHandler[model.Product, model.CreateProductRequest, model.UpdateProductRequest]

// CategoryHandler serves /v1/categories
type CategoryHandler = ResourceHandler[model.Category, model.CreateCategoryRequest, model.UpdateCategoryRequest]

// ContentHandler serves /v1/contents
type ContentHandler = ResourceHandler[model.Content, model.CreateContentRequest, model.UpdateContentRequest]

// NewPageHandler creates a new page handler
func NewPageHandler(svc *service.PageService) *PageHandler {
	return &PageHandler{svc: svc, name: "page", basePath: "/v1/pages"}
}

// NewPostHandler creates a new post handler
func NewPostHandler(svc *service.PostService) *PostHandler {
	return &PostHandler{svc: svc, name: "post", basePath: "/v1/posts"}
}

// NewProductHandler creates a new product handler
func NewProductHandler(svc *service.ProductService) *ProductHandler {
	return &ProductHandler{svc: svc, name: "product", basePath: "/v1/products"}
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(svc *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc, name: "category", basePath: "/v1/categories"}
}

// NewContentHandler creates a new content handler
func NewContentHandler(svc *service.ContentService) *ContentHandler {
	return &ContentHandler{svc: svc, name: "content", basePath: "/v1/contents"}
}

// RegisterRoutes registers the collection routes. Writes require an identity;
// the service decides whether that identity may write.
func (h *ResourceHandler[T, C, U]) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET "+h.basePath, h.List)
	mux.HandleFunc("GET "+h.basePath+"/{id}", h.Get)
	mux.HandleFunc("GET "+h.basePath+"/slug/{slug}", h.GetBySlug)
	mux.Handle("POST "+h.basePath, middleware.RequireIdentity(http.HandlerFunc(h.Create)))
	mux.Handle("PATCH "+h.basePath+"/{id}", middleware.RequireIdentity(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE "+h.basePath+"/{id}", middleware.RequireIdentity(http.HandlerFunc(h.Delete)))
}

// List handles GET /v1/{resource}
func (h *ResourceHandler[T, C, U]) List(w http.ResponseWriter, r *http.Request) {
	params, problem := parseListParams(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}

	result, err := h.svc.List(r.Context(), params)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	WriteData(w, http.StatusOK, result)
}

// Get handles GET /v1/{resource}/{id}
func (h *ResourceHandler[T, C, U]) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	WriteData(w, http.StatusOK, rec)
}

// GetBySlug handles GET /v1/{resource}/slug/{slug}
func (h *ResourceHandler[T, C, U]) GetBySlug(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	WriteCachedData(w, r, rec)
}

// Create handles POST /v1/{resource}
func (h *ResourceHandler[T, C, U]) Create(w http.ResponseWriter, r *http.Request) {
	var req C
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	rec, err := h.svc.Create(r.Context(), middleware.GetIdentity(r.Context()), &req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	WriteData(w, http.StatusCreated, rec)
}

// Update handles PATCH /v1/{resource}/{id}
func (h *ResourceHandler[T, C, U]) Update(w http.ResponseWriter, r *http.Request) {
	var req U
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	rec, err := h.svc.Update(r.Context(), middleware.GetIdentity(r.Context()), r.PathValue("id"), &req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	WriteData(w, http.StatusOK, rec)
}

// Delete handles DELETE /v1/{resource}/{id}
func (h *ResourceHandler[T, C, U]) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), middleware.GetIdentity(r.Context()), r.PathValue("id")); err != nil {
		h.handleError(w, r, err)
		return
	}

	WriteNoContent(w)
}

func (h *ResourceHandler[T, C, U]) handleError(w http.ResponseWriter, r *http.Request, err error) {
	WriteError(w, MapServiceError(r.Context(), h.name, err))
}
