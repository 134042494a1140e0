package repositories

import (
	"context"

	"evac-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository struct {
	DB *pgxpool.Pool
}

func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{DB: db}
}

// Get retrieves a disaster evacuation event by ID
func (r *EventRepository) Get(ctx context.Context, id int) (*models.DisasterEvacuationEvent, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, disaster_id, evacuation_center_id, assigned_user_id,
		        evacuation_start_date, evacuation_end_date
		 FROM disaster_evacuation_events WHERE id = $1`, id)

	var e models.DisasterEvacuationEvent
	err := row.Scan(&e.ID, &e.DisasterID, &e.EvacuationCenterID, &e.AssignedUserID,
		&e.EvacuationStartDate, &e.EvacuationEndDate)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetWithDisaster loads the event together with its disaster and center
// metadata, used for response payloads and decampment time validation.
func (r *EventRepository) GetWithDisaster(ctx context.Context, id int) (*models.EventWithDisaster, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT e.id, e.disaster_id, e.evacuation_center_id, e.assigned_user_id,
		        e.evacuation_start_date, e.evacuation_end_date,
		        d.id, d.disaster_name, d.disaster_type, d.start_date, d.end_date,
		        c.id, c.name, c.barangay_id
		 FROM disaster_evacuation_events e
		 JOIN disasters d ON d.id = e.disaster_id
		 JOIN evacuation_centers c ON c.id = e.evacuation_center_id
		 WHERE e.id = $1`, id)

	var e models.EventWithDisaster
	err := row.Scan(&e.ID, &e.DisasterID, &e.EvacuationCenterID, &e.AssignedUserID,
		&e.EvacuationStartDate, &e.EvacuationEndDate,
		&e.Disaster.ID, &e.Disaster.DisasterName, &e.Disaster.DisasterType,
		&e.Disaster.StartDate, &e.Disaster.EndDate,
		&e.Center.ID, &e.Center.Name, &e.Center.BarangayID)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
