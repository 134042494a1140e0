package services

import (
	"context"
	"time"

	"evac-backend/internal/models"
	"evac-backend/internal/repositories"
)

// Repository interfaces consumed by the services. The pgx repositories in
// internal/repositories satisfy them; tests substitute in-memory fakes.
// Lookups signal a missing row with pgx.ErrNoRows.

type EvacueeRepo interface {
	GetWithResident(ctx context.Context, id int) (*models.EvacueeWithResident, error)
}

type FamilyHeadRepo interface {
	Get(ctx context.Context, id int) (*models.FamilyHead, error)
	GetOrCreateByResident(ctx context.Context, residentID int) (*models.FamilyHead, error)
}

type RegistrationRepo interface {
	ListActiveByEvacuee(ctx context.Context, evacueeResidentID int) ([]models.EvacuationRegistration, error)
	GetByEvacueeAndEvent(ctx context.Context, evacueeResidentID, eventID int) (*models.EvacuationRegistration, error)
	Insert(ctx context.Context, reg *models.EvacuationRegistration) error
	Patch(ctx context.Context, registrationID int, patch *models.RegistrationPatch) error
	CountActiveFamilyMembers(ctx context.Context, eventID, familyHeadID int) (int, error)
	FamilyArrivalBounds(ctx context.Context, eventID, familyHeadID int) (earliestActive, earliestAny *time.Time, total int, err error)
	DecampFamily(ctx context.Context, eventID, familyHeadID int, ts *time.Time) (int64, error)
	RegisterNew(ctx context.Context, p *repositories.RegisterNewParams) (*models.EvacueeWithResident, *models.EvacuationRegistration, error)
	TransferHead(ctx context.Context, p *repositories.TransferHeadParams) (int, error)
	ListForSearch(ctx context.Context) ([]models.EvacueeSearchRow, error)
	ListEventRows(ctx context.Context, eventID int) ([]models.EventRegistrationRow, error)
	SearchFamilyHeads(ctx context.Context, eventID int, query string) ([]models.FamilyHeadSearchResult, error)
}

type EventRepo interface {
	Get(ctx context.Context, id int) (*models.DisasterEvacuationEvent, error)
	GetWithDisaster(ctx context.Context, id int) (*models.EventWithDisaster, error)
}

type RoomRepo interface {
	Get(ctx context.Context, id int) (*models.ECRoom, error)
	ListByCenter(ctx context.Context, centerID int) ([]models.ECRoom, error)
	CountActiveByRoom(ctx context.Context, eventID int) (map[int]int, error)
}
