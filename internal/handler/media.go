package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/forgo/folio/internal/middleware"
	"github.com/forgo/folio/internal/model"
	"github.com/forgo/folio/internal/service"
)

// DefaultMaxUploadBytes caps upload bodies when no limit is configured
const DefaultMaxUploadBytes = 10 << 20

// multipartMemory is how much of a form is buffered in memory before
// spilling to temp files
const multipartMemory = 1 << 20

// MediaHandler handles media library endpoints
type MediaHandler struct {
	mediaService *service.MediaService
	maxBytes     int64
}

// NewMediaHandler creates a new media handler. maxBytes <= 0 means
// DefaultMaxUploadBytes.
func NewMediaHandler(mediaService *service.MediaService, maxBytes int64) *MediaHandler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &MediaHandler{mediaService: mediaService, maxBytes: maxBytes}
}

// List handles GET /v1/media
func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	params, problem := parseListParams(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}

	result, err := h.mediaService.List(r.Context(), params)
	if err != nil {
		WriteError(w, MapServiceError(r.Context(), "media", err))
		return
	}

	WriteData(w, http.StatusOK, result)
}

// Get handles GET /v1/media/{id}
func (h *MediaHandler) Get(w http.ResponseWriter, r *http.Request) {
	media, err := h.mediaService.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteError(w, MapServiceError(r.Context(), "media", err))
		return
	}

	WriteData(w, http.StatusOK, media)
}

// Upload handles POST /v1/media as multipart/form-data with a "file" part
// and optional "alt_text" and "caption" fields.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	// Multipart framing adds a little on top of the file itself
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartMemory)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, model.NewPayloadTooLargeError(h.maxBytes))
			return
		}
		WriteError(w, model.NewBadRequestError("expected a multipart form with a file field"))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, model.NewBadRequestError("missing file field"))
		return
	}
	defer file.Close()

	if header.Size > h.maxBytes {
		WriteError(w, model.NewPayloadTooLargeError(h.maxBytes))
		return
	}
	data, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		WriteError(w, model.NewBadRequestError("failed to read uploaded file"))
		return
	}
	if int64(len(data)) > h.maxBytes {
		WriteError(w, model.NewPayloadTooLargeError(h.maxBytes))
		return
	}

	media, err := h.mediaService.Upload(r.Context(), middleware.GetIdentity(r.Context()), service.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
		AltText:     r.FormValue("alt_text"),
		Caption:     r.FormValue("caption"),
	})
	if err != nil {
		WriteError(w, MapServiceError(r.Context(), "media", err))
		return
	}

	WriteData(w, http.StatusCreated, media)
}

// Update handles PATCH /v1/media/{id}
func (h *MediaHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateMediaRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	media, err := h.mediaService.Update(r.Context(), middleware.GetIdentity(r.Context()), r.PathValue("id"), &req)
	if err != nil {
		WriteError(w, MapServiceError(r.Context(), "media", err))
		return
	}

	WriteData(w, http.StatusOK, media)
}

// Delete handles DELETE /v1/media/{id}
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.mediaService.Delete(r.Context(), middleware.GetIdentity(r.Context()), r.PathValue("id")); err != nil {
		WriteError(w, MapServiceError(r.Context(), "media", err))
		return
	}

	WriteNoContent(w)
}
