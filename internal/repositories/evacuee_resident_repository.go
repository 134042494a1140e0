package repositories

import (
	"context"

	"evac-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type EvacueeResidentRepository struct {
	DB *pgxpool.Pool
}

func NewEvacueeResidentRepository(db *pgxpool.Pool) *EvacueeResidentRepository {
	return &EvacueeResidentRepository{DB: db}
}

// GetWithResident loads the global evacuee identity together with its
// resident row, the shape every engine operation starts from.
func (r *EvacueeResidentRepository) GetWithResident(ctx context.Context, id int) (*models.EvacueeWithResident, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT ev.id, ev.resident_id, COALESCE(ev.marital_status, ''),
		        COALESCE(ev.educational_attainment, ''), COALESCE(ev.school_of_origin, ''),
		        COALESCE(ev.occupation, ''), COALESCE(ev.purok, ''),
		        ev.family_head_id, ev.relationship_to_family_head, ev.date_registered,
		        r.id, r.first_name, COALESCE(r.middle_name, ''), r.last_name, r.suffix,
		        r.birthdate, r.sex, r.barangay_of_origin, r.created_at, r.updated_at
		 FROM evacuee_residents ev
		 JOIN residents r ON r.id = ev.resident_id
		 WHERE ev.id = $1`, id)

	var ev models.EvacueeWithResident
	err := row.Scan(&ev.ID, &ev.ResidentID, &ev.MaritalStatus,
		&ev.EducationalAttainment, &ev.SchoolOfOrigin,
		&ev.Occupation, &ev.Purok,
		&ev.FamilyHeadID, &ev.RelationshipToFamilyHead, &ev.DateRegistered,
		&ev.Resident.ID, &ev.Resident.FirstName, &ev.Resident.MiddleName, &ev.Resident.LastName,
		&ev.Resident.Suffix, &ev.Resident.Birthdate, &ev.Resident.Sex,
		&ev.Resident.BarangayOfOriginID, &ev.Resident.CreatedAt, &ev.Resident.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &ev, nil
}
