package handlers

import (
	"net/http"
	"strconv"

	"evac-backend/internal/models"
	"evac-backend/internal/services"
	"evac-backend/pkg/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type EventHandler struct {
	Report *services.ReportService
	Rooms  *services.RoomService
	Lookup *services.LookupService
	Logger *zap.Logger
}

func NewEventHandler(report *services.ReportService, rooms *services.RoomService, lookup *services.LookupService, logger *zap.Logger) *EventHandler {
	return &EventHandler{Report: report, Rooms: rooms, Lookup: lookup, Logger: logger}
}

func eventID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["eventId"])
	return id, err == nil
}

// Detail handles GET /api/v1/events/{eventId}.
func (h *EventHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(r)
	if !ok {
		utils.Message(w, http.StatusBadRequest, "invalid event id")
		return
	}

	event, err := h.Lookup.EventDetail(r.Context(), id)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, event)
}

// EvacueesInformation handles GET /api/v1/evacuees/{eventId}/evacuees-information.
func (h *EventHandler) EvacueesInformation(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(r)
	if !ok {
		utils.Message(w, http.StatusBadRequest, "invalid event id")
		return
	}

	groups, err := h.Report.EvacueesInformation(r.Context(), id)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	if groups == nil {
		groups = []models.FamilyGroup{}
	}
	utils.JSON(w, http.StatusOK, groups)
}

// Statistics handles GET /api/v1/evacuees/{eventId}/evacuee-statistics.
func (h *EventHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(r)
	if !ok {
		utils.Message(w, http.StatusBadRequest, "invalid event id")
		return
	}

	stats, err := h.Report.Statistics(r.Context(), id)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, stats)
}

// ListRooms handles GET /api/v1/events/{eventId}/rooms.
func (h *EventHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(r)
	if !ok {
		utils.Message(w, http.StatusBadRequest, "invalid event id")
		return
	}

	onlyAvailable := r.URL.Query().Get("only_available") == "1"
	rooms, err := h.Rooms.RoomsForEvent(r.Context(), id, onlyAvailable)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	if rooms == nil {
		rooms = []models.RoomAvailability{}
	}
	utils.JSON(w, http.StatusOK, rooms)
}
