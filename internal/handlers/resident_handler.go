package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"evac-backend/internal/services"
	"evac-backend/pkg/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type ResidentHandler struct {
	Residents *services.ResidentService
	Logger    *zap.Logger
}

func NewResidentHandler(residents *services.ResidentService, logger *zap.Logger) *ResidentHandler {
	return &ResidentHandler{Residents: residents, Logger: logger}
}

// Get handles GET /api/v1/residents/{id}.
func (h *ResidentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Message(w, http.StatusBadRequest, "invalid resident id")
		return
	}

	res, err := h.Residents.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, res)
}

// Update handles PUT /api/v1/residents/{id}: the global record correction.
func (h *ResidentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Message(w, http.StatusBadRequest, "invalid resident id")
		return
	}

	var req services.UpdateResidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.Residents.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, res)
}
