package repositories

import (
	"context"

	"evac-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ResidentRepository struct {
	DB *pgxpool.Pool
}

func NewResidentRepository(db *pgxpool.Pool) *ResidentRepository {
	return &ResidentRepository{DB: db}
}

// Get retrieves a resident by ID
func (r *ResidentRepository) Get(ctx context.Context, id int) (*models.Resident, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, first_name, COALESCE(middle_name, ''), last_name, suffix,
		 birthdate, sex, barangay_of_origin, created_at, updated_at
		 FROM residents WHERE id = $1`, id)

	var res models.Resident
	err := row.Scan(&res.ID, &res.FirstName, &res.MiddleName, &res.LastName, &res.Suffix,
		&res.Birthdate, &res.Sex, &res.BarangayOfOriginID, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Update rewrites the global identity fields. This is the resident-level
// edit operation; event-scoped corrections go through the registration
// snapshot instead.
func (r *ResidentRepository) Update(ctx context.Context, res *models.Resident) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE residents
		 SET first_name = $1, middle_name = $2, last_name = $3, suffix = $4,
		     birthdate = $5, sex = $6, barangay_of_origin = $7, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $8`,
		res.FirstName, res.MiddleName, res.LastName, models.NormalizeSuffix(res.Suffix),
		res.Birthdate, res.Sex, res.BarangayOfOriginID, res.ID)
	return err
}
