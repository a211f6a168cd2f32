package handler

import (
	"net/http"

	"github.com/forgo/folio/internal/middleware"
	"github.com/forgo/folio/internal/model"
	"github.com/forgo/folio/internal/service"
)

// MenuHandler handles navigation menu endpoints
type MenuHandler struct {
	menuService *service.MenuService
}

// NewMenuHandler creates a new menu handler
func NewMenuHandler(menuService *service.MenuService) *MenuHandler {
	return &MenuHandler{menuService: menuService}
}

// List handles GET /v1/menus
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	params, problem := parseListParams(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}

	result, err := h.menuService.List(r.Context(), params)
	if err != nil {
		WriteError(w, MapServiceError(r.Context(), "menu", err))
		return
	}

	WriteData(w, http.StatusOK, result)
}

// Get handles GET /v1/menus/{id}
func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	menu, err := h.menuService.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteError(w, MapServiceError(r.Context(), "menu", err))
		return
	}

	WriteData(w, http.StatusOK, menu)
}

// GetByLocation handles GET /v1/menus/location/{location}
func (h *MenuHandler) GetByLocation(w http.ResponseWriter, r *http.Request) {
	menu, err := h.menuService.GetByLocation(r.Context(), r.PathValue("location"))
	if err != nil {
		WriteError(w, MapServiceError(r.Context(), "menu", err))
		return
	}

	WriteCachedData(w, r, menu)
}

// Create handles POST /v1/menus
func (h *MenuHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateMenuRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	menu, err := h.menuService.Create(r.Context(), middleware.GetIdentity(r.Context()), &req)
	if err != nil {
		WriteError(w, MapServiceError(r.Context(), "menu", err))
		return
	}

	WriteData(w, http.StatusCreated, menu)
}

// Update handles PATCH /v1/menus/{id}
func (h *MenuHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateMenuRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	menu, err := h.menuService.Update(r.Context(), middleware.GetIdentity(r.Context()), r.PathValue("id"), &req)
	if err != nil {
		WriteError(w, MapServiceError(r.Context(), "menu", err))
		return
	}

	WriteData(w, http.StatusOK, menu)
}

// Delete handles DELETE /v1/menus/{id}
func (h *MenuHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.menuService.Delete(r.Context(), middleware.GetIdentity(r.Context()), r.PathValue("id")); err != nil {
		WriteError(w, MapServiceError(r.Context(), "menu", err))
		return
	}

	WriteNoContent(w)
}
