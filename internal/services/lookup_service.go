package services

import (
	"context"
	"errors"

	"evac-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// BarangayRepo is the slice of the barangay repository the lookup service
// needs.
type BarangayRepo interface {
	List(ctx context.Context) ([]models.Barangay, error)
}

// LookupService serves the small reference reads the registration forms use.
type LookupService struct {
	Barangays BarangayRepo
	Events    EventRepo
	Logger    *zap.Logger
}

func NewLookupService(barangays BarangayRepo, events EventRepo, logger *zap.Logger) *LookupService {
	return &LookupService{Barangays: barangays, Events: events, Logger: logger}
}

func (s *LookupService) ListBarangays(ctx context.Context) ([]models.Barangay, error) {
	return s.Barangays.List(ctx)
}

// EventDetail returns the event joined with its disaster and center metadata.
func (s *LookupService) EventDetail(ctx context.Context, eventID int) (*models.EventWithDisaster, error) {
	event, err := s.Events.GetWithDisaster(ctx, eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound("disaster evacuation event not found")
		}
		return nil, err
	}
	return event, nil
}
