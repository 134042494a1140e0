package handlers

import (
	"errors"
	"net/http"

	"evac-backend/internal/services"
	"evac-backend/pkg/utils"

	"go.uber.org/zap"
)

// writeError maps a service error to its HTTP status and `{"message": ...}`
// body. Errors without a caller-facing status are logged and reported as a
// generic 500 so internal detail never leaks to the client.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var apiErr *services.APIError
	if errors.As(err, &apiErr) {
		utils.Message(w, apiErr.Status, apiErr.Message)
		return
	}
	logger.Error("request failed", zap.Error(err))
	utils.Message(w, http.StatusInternalServerError, "internal server error")
}
