package repositories

import (
	"context"

	"evac-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type RoomRepository struct {
	DB *pgxpool.Pool
}

func NewRoomRepository(db *pgxpool.Pool) *RoomRepository {
	return &RoomRepository{DB: db}
}

// Get retrieves a room by ID
func (r *RoomRepository) Get(ctx context.Context, id int) (*models.ECRoom, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, evacuation_center_id, room_name, individual_room_capacity
		 FROM ec_rooms WHERE id = $1`, id)

	var room models.ECRoom
	err := row.Scan(&room.ID, &room.EvacuationCenterID, &room.RoomName, &room.Capacity)
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// ListByCenter returns all rooms of an evacuation center ordered by name
func (r *RoomRepository) ListByCenter(ctx context.Context, centerID int) ([]models.ECRoom, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, evacuation_center_id, room_name, individual_room_capacity
		 FROM ec_rooms WHERE evacuation_center_id = $1
		 ORDER BY room_name ASC`, centerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []models.ECRoom
	for rows.Next() {
		var room models.ECRoom
		if err := rows.Scan(&room.ID, &room.EvacuationCenterID, &room.RoomName, &room.Capacity); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

// CountActiveByRoom counts currently-present registrations per room for an
// event (decampment_timestamp IS NULL means present).
func (r *RoomRepository) CountActiveByRoom(ctx context.Context, eventID int) (map[int]int, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT ec_rooms_id, COUNT(*)
		 FROM evacuation_registrations
		 WHERE disaster_evacuation_event_id = $1
		   AND decampment_timestamp IS NULL
		   AND ec_rooms_id IS NOT NULL
		 GROUP BY ec_rooms_id`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var roomID, count int
		if err := rows.Scan(&roomID, &count); err != nil {
			return nil, err
		}
		counts[roomID] = count
	}
	return counts, rows.Err()
}
