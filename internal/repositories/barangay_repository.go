package repositories

import (
	"context"

	"evac-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type BarangayRepository struct {
	DB *pgxpool.Pool
}

func NewBarangayRepository(db *pgxpool.Pool) *BarangayRepository {
	return &BarangayRepository{DB: db}
}

// List returns all barangays ordered by name, for registration form lookups
func (r *BarangayRepository) List(ctx context.Context) ([]models.Barangay, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name FROM barangays ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var barangays []models.Barangay
	for rows.Next() {
		var b models.Barangay
		if err := rows.Scan(&b.ID, &b.Name); err != nil {
			return nil, err
		}
		barangays = append(barangays, b)
	}
	return barangays, rows.Err()
}
