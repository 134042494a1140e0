package handlers

import (
	"net/http"

	"evac-backend/internal/models"
	"evac-backend/internal/services"
	"evac-backend/pkg/utils"

	"go.uber.org/zap"
)

type BarangayHandler struct {
	Lookup *services.LookupService
	Logger *zap.Logger
}

func NewBarangayHandler(lookup *services.LookupService, logger *zap.Logger) *BarangayHandler {
	return &BarangayHandler{Lookup: lookup, Logger: logger}
}

// List handles GET /api/v1/barangays.
func (h *BarangayHandler) List(w http.ResponseWriter, r *http.Request) {
	barangays, err := h.Lookup.ListBarangays(r.Context())
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	if barangays == nil {
		barangays = []models.Barangay{}
	}
	utils.JSON(w, http.StatusOK, barangays)
}
