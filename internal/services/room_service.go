package services

import (
	"context"
	"errors"

	"evac-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// RoomService reports room capacity and live occupancy per event.
type RoomService struct {
	Events EventRepo
	Rooms  RoomRepo
	Logger *zap.Logger
}

func NewRoomService(events EventRepo, rooms RoomRepo, logger *zap.Logger) *RoomService {
	return &RoomService{Events: events, Rooms: rooms, Logger: logger}
}

// RoomsForEvent lists the rooms of the event's evacuation center with their
// active head counts. Occupancy counts active registrations only; decamped
// evacuees free their slot. With onlyAvailable, rooms at capacity are
// filtered out.
func (s *RoomService) RoomsForEvent(ctx context.Context, eventID int, onlyAvailable bool) ([]models.RoomAvailability, error) {
	event, err := s.Events.Get(ctx, eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound("disaster evacuation event not found")
		}
		return nil, err
	}

	rooms, err := s.Rooms.ListByCenter(ctx, event.EvacuationCenterID)
	if err != nil {
		return nil, err
	}
	occupied, err := s.Rooms.CountActiveByRoom(ctx, eventID)
	if err != nil {
		return nil, err
	}

	out := make([]models.RoomAvailability, 0, len(rooms))
	for _, room := range rooms {
		used := occupied[room.ID]
		available := room.Capacity - used
		if available < 0 {
			available = 0
		}
		if onlyAvailable && available == 0 {
			continue
		}
		out = append(out, models.RoomAvailability{
			ID:        room.ID,
			RoomName:  room.RoomName,
			Capacity:  room.Capacity,
			Occupied:  used,
			Available: available,
		})
	}
	return out, nil
}
