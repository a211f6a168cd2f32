package handler

import (
	"net/http"

	"github.com/forgo/folio/internal/middleware"
	"github.com/forgo/folio/internal/model"
	"github.com/forgo/folio/internal/service"
)

// SettingsHandler serves the site settings singleton
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// Get handles GET /v1/settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsService.Get(r.Context())
	if err != nil {
		WriteError(w, MapServiceError(r.Context(), "settings", err))
		return
	}

	WriteCachedData(w, r, settings)
}

// Update handles PUT /v1/settings
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateSiteSettingsRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	settings, err := h.settingsService.Update(r.Context(), middleware.GetIdentity(r.Context()), &req)
	if err != nil {
		WriteError(w, MapServiceError(r.Context(), "settings", err))
		return
	}

	WriteData(w, http.StatusOK, settings)
}
