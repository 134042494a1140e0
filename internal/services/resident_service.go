package services

import (
	"context"
	"errors"

	"evac-backend/internal/cache"
	"evac-backend/internal/models"
	"evac-backend/internal/timeutil"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ResidentRepo is the slice of the resident repository the service needs.
type ResidentRepo interface {
	Get(ctx context.Context, id int) (*models.Resident, error)
	Update(ctx context.Context, res *models.Resident) error
}

// UpdateResidentRequest corrects the global identity record. Unlike the
// event-scoped update, this rewrites the source-of-truth row and affects
// every future registration.
type UpdateResidentRequest struct {
	FirstName          string  `json:"first_name"`
	MiddleName         string  `json:"middle_name"`
	LastName           string  `json:"last_name"`
	Suffix             *string `json:"suffix"`
	Birthdate          string  `json:"birthdate"`
	Sex                string  `json:"sex"`
	BarangayOfOriginID int     `json:"barangay_of_origin"`
}

// ResidentService handles global resident record corrections.
type ResidentService struct {
	Residents ResidentRepo
	Cache     cache.Store
	Logger    *zap.Logger
}

func NewResidentService(residents ResidentRepo, store cache.Store, logger *zap.Logger) *ResidentService {
	return &ResidentService{Residents: residents, Cache: store, Logger: logger}
}

func (s *ResidentService) Get(ctx context.Context, id int) (*models.Resident, error) {
	res, err := s.Residents.Get(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound("resident not found")
		}
		return nil, err
	}
	return res, nil
}

// Update rewrites the global identity fields. Past registration snapshots
// keep what was recorded at the time; only future registrations and
// unsnapshotted fields see the correction.
func (s *ResidentService) Update(ctx context.Context, id int, req *UpdateResidentRequest) (*models.Resident, error) {
	if req.FirstName == "" || req.LastName == "" {
		return nil, ErrBadRequest("first_name and last_name are required")
	}
	if req.Sex == "" {
		return nil, ErrBadRequest("sex is required")
	}
	birthdate, err := timeutil.ParseInPHT(timeutil.DateLayout, req.Birthdate)
	if err != nil {
		return nil, ErrBadRequest("birthdate must be a valid YYYY-MM-DD date")
	}

	res, err := s.Residents.Get(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound("resident not found")
		}
		return nil, err
	}

	res.FirstName = req.FirstName
	res.MiddleName = req.MiddleName
	res.LastName = req.LastName
	res.Suffix = models.NormalizeSuffix(req.Suffix)
	res.Birthdate = birthdate
	res.Sex = req.Sex
	res.BarangayOfOriginID = req.BarangayOfOriginID
	if err := s.Residents.Update(ctx, res); err != nil {
		return nil, err
	}

	s.Cache.Invalidate(ctx)
	s.Logger.Info("resident updated", zap.Int("resident_id", id))
	return res, nil
}
