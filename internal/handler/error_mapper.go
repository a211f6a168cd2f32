package handler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/forgo/folio/internal/middleware"
	"github.com/forgo/folio/internal/model"
	"github.com/forgo/folio/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// resource names the record kind in not-found and invalid-id messages.
// Anything it does not recognize is logged and reported as a 500 without
// detail.
func MapServiceError(ctx context.Context, resource string, err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	var validation *service.ValidationError
	if errors.As(err, &validation) {
		return model.NewValidationError(validation.Fields)
	}
	var hasChildren *service.HasChildrenError
	if errors.As(err, &hasChildren) {
		return model.NewHasChildrenError(hasChildren.Children)
	}

	switch {
	// ===== Access → 401 / 403 =====
	case errors.Is(err, service.ErrUnauthenticated):
		return model.NewUnauthorizedError(err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return model.NewLoginFailedError(err.Error())
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrCannotDemoteSelf):
		return model.NewForbiddenError(err.Error())

	// ===== Resource → 400 / 404 / 409 =====
	case errors.Is(err, service.ErrNotFound):
		return model.NewNotFoundError(resource)
	case errors.Is(err, service.ErrInvalidID):
		return model.NewInvalidIDError(resource)
	case errors.Is(err, service.ErrDuplicateSlug):
		return model.NewDuplicateSlugError("")
	case errors.Is(err, service.ErrDuplicateLocation),
		errors.Is(err, service.ErrEmailAlreadyExists):
		return model.NewConflictError(err.Error())

	// ===== Media → 400 =====
	case errors.Is(err, service.ErrEmptyUpload),
		errors.Is(err, service.ErrUnsupportedMedia):
		return model.NewBadRequestError(err.Error())

	// ===== Default → 500 =====
	default:
		slog.Error("request failed",
			slog.String("request_id", middleware.GetRequestID(ctx)),
			slog.String("resource", resource),
			slog.String("error", err.Error()),
		)
		return model.NewInternalError("")
	}
}
