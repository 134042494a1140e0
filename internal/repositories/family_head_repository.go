package repositories

import (
	"context"
	"errors"

	"evac-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FamilyHeadRepository struct {
	DB *pgxpool.Pool
}

func NewFamilyHeadRepository(db *pgxpool.Pool) *FamilyHeadRepository {
	return &FamilyHeadRepository{DB: db}
}

// Get retrieves a family head row by ID
func (r *FamilyHeadRepository) Get(ctx context.Context, id int) (*models.FamilyHead, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, resident_id, created_at FROM family_heads WHERE id = $1`, id)

	var fh models.FamilyHead
	if err := row.Scan(&fh.ID, &fh.ResidentID, &fh.CreatedAt); err != nil {
		return nil, err
	}
	return &fh, nil
}

// GetByResident finds the family head row for a resident, if any
func (r *FamilyHeadRepository) GetByResident(ctx context.Context, residentID int) (*models.FamilyHead, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, resident_id, created_at FROM family_heads WHERE resident_id = $1`, residentID)

	var fh models.FamilyHead
	if err := row.Scan(&fh.ID, &fh.ResidentID, &fh.CreatedAt); err != nil {
		return nil, err
	}
	return &fh, nil
}

// GetOrCreateByResident finds the resident's family head row or lazily
// creates one. A resident gets at most one row here ever, even across
// disasters; transfers repoint members to a new row but never duplicate an
// existing one for the same resident.
func (r *FamilyHeadRepository) GetOrCreateByResident(ctx context.Context, residentID int) (*models.FamilyHead, error) {
	fh, err := r.GetByResident(ctx, residentID)
	if err == nil {
		return fh, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	fh = &models.FamilyHead{ResidentID: residentID}
	err = r.DB.QueryRow(ctx,
		`INSERT INTO family_heads (resident_id) VALUES ($1) RETURNING id, created_at`,
		residentID,
	).Scan(&fh.ID, &fh.CreatedAt)
	if err != nil {
		return nil, err
	}
	return fh, nil
}
