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

type FamilyHandler struct {
	Family *services.FamilyService
	Report *services.ReportService
	Logger *zap.Logger
}

func NewFamilyHandler(family *services.FamilyService, report *services.ReportService, logger *zap.Logger) *FamilyHandler {
	return &FamilyHandler{Family: family, Report: report, Logger: logger}
}

// Decamp handles POST /api/v1/evacuees/{eventId}/families/{familyHeadId}/decamp.
func (h *FamilyHandler) Decamp(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	eventID, err := strconv.Atoi(vars["eventId"])
	if err != nil {
		utils.Message(w, http.StatusBadRequest, "invalid event id")
		return
	}
	familyHeadID, err := strconv.Atoi(vars["familyHeadId"])
	if err != nil {
		utils.Message(w, http.StatusBadRequest, "invalid family head id")
		return
	}

	var req models.DecampFamilyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}

	affected, err := h.Family.Decamp(r.Context(), eventID, familyHeadID, &req)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"family_head_id":        familyHeadID,
		"registrations_updated": affected,
	})
}

// TransferHead handles POST /api/v1/evacuees/{eventId}/transfer-head.
func (h *FamilyHandler) TransferHead(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.Atoi(mux.Vars(r)["eventId"])
	if err != nil {
		utils.Message(w, http.StatusBadRequest, "invalid event id")
		return
	}

	var req models.TransferHeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}

	newHeadID, err := h.Family.TransferHead(r.Context(), eventID, &req)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]int{"new_family_head_id": newHeadID})
}

// SearchFamilyHeads handles GET /api/v1/evacuees/{eventId}/family-heads?q=.
func (h *FamilyHandler) SearchFamilyHeads(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.Atoi(mux.Vars(r)["eventId"])
	if err != nil {
		utils.Message(w, http.StatusBadRequest, "invalid event id")
		return
	}

	results, err := h.Report.SearchFamilyHeads(r.Context(), eventID, r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	if results == nil {
		results = []models.FamilyHeadSearchResult{}
	}
	utils.JSON(w, http.StatusOK, results)
}
