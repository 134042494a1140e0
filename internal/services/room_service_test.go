package services

import (
	"context"
	"net/http"
	"testing"

	"evac-backend/internal/models"

	"go.uber.org/zap"
)

func setupRoomService() (*RoomService, *mockEventRepo, *mockRoomRepo) {
	events := newMockEventRepo()
	rooms := newMockRoomRepo()
	events.events[1] = &models.EventWithDisaster{
		DisasterEvacuationEvent: models.DisasterEvacuationEvent{ID: 1, EvacuationCenterID: 3},
	}
	return NewRoomService(events, rooms, zap.NewNop()), events, rooms
}

func TestRoomService_RoomsForEvent(t *testing.T) {
	svc, _, rooms := setupRoomService()
	rooms.rooms[1] = &models.ECRoom{ID: 1, EvacuationCenterID: 3, RoomName: "Room A", Capacity: 10}
	rooms.rooms[2] = &models.ECRoom{ID: 2, EvacuationCenterID: 3, RoomName: "Room B", Capacity: 5}
	rooms.rooms[3] = &models.ECRoom{ID: 3, EvacuationCenterID: 9, RoomName: "Other Center", Capacity: 50}
	rooms.counts = map[int]int{1: 4, 2: 8}

	out, err := svc.RoomsForEvent(context.Background(), 1, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected rooms of the event's center only, got %d", len(out))
	}
	byID := make(map[int]models.RoomAvailability)
	for _, r := range out {
		byID[r.ID] = r
	}
	if a := byID[1]; a.Occupied != 4 || a.Available != 6 {
		t.Errorf("room 1: expected 4 occupied / 6 available, got %d / %d", a.Occupied, a.Available)
	}
	// Over capacity clamps to zero instead of going negative.
	if b := byID[2]; b.Occupied != 8 || b.Available != 0 {
		t.Errorf("room 2: expected 8 occupied / 0 available, got %d / %d", b.Occupied, b.Available)
	}
}

func TestRoomService_RoomsForEvent_OnlyAvailable(t *testing.T) {
	svc, _, rooms := setupRoomService()
	rooms.rooms[1] = &models.ECRoom{ID: 1, EvacuationCenterID: 3, RoomName: "Room A", Capacity: 10}
	rooms.rooms[2] = &models.ECRoom{ID: 2, EvacuationCenterID: 3, RoomName: "Room B", Capacity: 5}
	rooms.counts = map[int]int{2: 5}

	out, err := svc.RoomsForEvent(context.Background(), 1, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].ID != 1 {
		t.Fatalf("expected only the room with free slots, got %+v", out)
	}
}

func TestRoomService_RoomsForEvent_EventNotFound(t *testing.T) {
	svc, _, _ := setupRoomService()

	_, err := svc.RoomsForEvent(context.Background(), 99, false)
	assertStatus(t, err, http.StatusNotFound)
}
