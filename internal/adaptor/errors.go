package adaptor

import (
	"errors"
	"net/http"

	"content-share/internal/usecase"
	"content-share/pkg/utils"

	"go.uber.org/zap"
)

// handleServiceError maps service errors to HTTP responses. Storage and
// unknown errors never leak their details to the client.
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, usecase.ErrValidation),
		errors.Is(err, usecase.ErrInvalidRatingValue):
		log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrInvalidCredentials):
		log.Warn(operation+" failed - invalid credentials", zap.Error(err))
		utils.ResponseUnauthorized(w, "Invalid credentials")

	case errors.Is(err, usecase.ErrNotAuthorized):
		log.Warn(operation+" failed - not authorized", zap.Error(err))
		utils.ResponseForbidden(w, "Not authorized")

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrUsernameTaken):
		log.Warn(operation+" failed - username taken", zap.Error(err))
		utils.ResponseConflict(w, "Username already taken")

	case errors.Is(err, usecase.ErrStorageFailure):
		log.Error(operation+" failed - storage", zap.Error(err))
		utils.ResponseInternalError(w, "Storage failure")

	default:
		log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
