package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"evac-backend/internal/models"
	"evac-backend/internal/services"
	"evac-backend/pkg/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type EvacueeHandler struct {
	Registration *services.RegistrationService
	Search       *services.SearchService
	Logger       *zap.Logger
}

func NewEvacueeHandler(registration *services.RegistrationService, search *services.SearchService, logger *zap.Logger) *EvacueeHandler {
	return &EvacueeHandler{Registration: registration, Search: search, Logger: logger}
}

// Register handles POST /api/v1/evacuees.
func (h *EvacueeHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterEvacueeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.Registration.Register(r.Context(), &req)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusCreated, resp)
}

// Update handles PUT /api/v1/evacuees/{id}.
func (h *EvacueeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Message(w, http.StatusBadRequest, "invalid evacuee id")
		return
	}

	var req models.UpdateEvacueeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.Registration.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}

// EditView handles GET /api/v1/evacuees/{eventId}/{evacueeResidentId}/edit.
func (h *EvacueeHandler) EditView(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	eventID, err := strconv.Atoi(vars["eventId"])
	if err != nil {
		utils.Message(w, http.StatusBadRequest, "invalid event id")
		return
	}
	evacueeID, err := strconv.Atoi(vars["evacueeResidentId"])
	if err != nil {
		utils.Message(w, http.StatusBadRequest, "invalid evacuee id")
		return
	}

	view, err := h.Registration.EditView(r.Context(), eventID, evacueeID)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, view)
}

// SearchByName handles GET /api/v1/evacuees/search?name=.
func (h *EvacueeHandler) SearchByName(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Search.SearchByName(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	if rows == nil {
		rows = []models.EvacueeSearchRow{}
	}
	utils.JSON(w, http.StatusOK, rows)
}
