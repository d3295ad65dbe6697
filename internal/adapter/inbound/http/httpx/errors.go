package httpx

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/aiwonderland/imagecode/internal/domain/codegen"
	"github.com/aiwonderland/imagecode/internal/domain/export"
	"github.com/aiwonderland/imagecode/internal/domain/imagenorm"
	"github.com/aiwonderland/imagecode/internal/port/outbound"
	apperrors "github.com/aiwonderland/imagecode/internal/utils/errors"
)

// MapError converts a domain error into an AppError. Unknown errors
// become an opaque 500.
func MapError(err error) *apperrors.AppError {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var imgErr *imagenorm.Error
	if errors.As(err, &imgErr) {
		switch imgErr.Kind {
		case imagenorm.KindPayloadTooLarge:
			return apperrors.PayloadTooLarge(imgErr.Msg).WithError(err)
		case imagenorm.KindUnsupportedMediaType:
			return apperrors.UnsupportedMediaType(imgErr.Msg).WithError(err)
		case imagenorm.KindInvalidImageData:
			return apperrors.UnprocessableEntity(imgErr.Msg).WithError(err)
		}
	}

	if ext, ok := outbound.AsExternalServiceError(err); ok {
		if ext.Unavailable {
			return apperrors.ServiceUnavailable("AI service is unavailable").WithError(err)
		}
		return apperrors.BadGateway("AI service request failed").WithError(err)
	}

	switch {
	case errors.Is(err, codegen.ErrUnknownFramework),
		errors.Is(err, export.ErrUnsupportedFramework),
		errors.Is(err, export.ErrInvalidProjectName):
		return apperrors.BadRequest(err.Error()).WithError(err)
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.ServiceUnavailable("request timed out").WithError(err)
	}

	return apperrors.Internal(err)
}

// RespondError writes the error body and aborts the request. Server
// errors are attached to the context for the logging middleware.
func RespondError(c *gin.Context, err error) {
	appErr := MapError(err)
	if appErr.StatusCode >= 500 {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(appErr.StatusCode, appErr.ToResponse())
}
