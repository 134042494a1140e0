package handlers

import (
	"encoding/json"
	"net/http"

	"evac-backend/internal/models"
	"evac-backend/internal/services"
	"evac-backend/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	Auth   *services.AuthService
	Logger *zap.Logger
}

func NewAuthHandler(auth *services.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{Auth: auth, Logger: logger}
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.Auth.Login(r.Context(), &req)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}
