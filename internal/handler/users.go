package handler

import (
	"net/http"

	"github.com/forgo/folio/internal/middleware"
	"github.com/forgo/folio/internal/model"
	"github.com/forgo/folio/internal/service"
)

// UserHandler handles user administration endpoints
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List handles GET /v1/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	params, problem := parseListParams(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}

	result, err := h.userService.List(r.Context(), middleware.GetIdentity(r.Context()), params)
	if err != nil {
		WriteError(w, MapServiceError(r.Context(), "user", err))
		return
	}

	WriteData(w, http.StatusOK, result)
}

// UpdateRole handles PATCH /v1/users/{id}/role
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateUserRoleRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	user, err := h.userService.UpdateRole(r.Context(), middleware.GetIdentity(r.Context()), r.PathValue("id"), &req)
	if err != nil {
		WriteError(w, MapServiceError(r.Context(), "user", err))
		return
	}

	WriteData(w, http.StatusOK, user)
}
