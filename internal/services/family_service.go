package services

import (
	"context"
	"errors"
	"time"

	"evac-backend/internal/cache"
	"evac-backend/internal/models"
	"evac-backend/internal/repositories"
	"evac-backend/internal/timeutil"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// FamilyService owns the family-level operations: decamping a whole family
// out of an event and transferring the head role inside one.
type FamilyService struct {
	Evacuees      EvacueeRepo
	FamilyHeads   FamilyHeadRepo
	Registrations RegistrationRepo
	Events        EventRepo
	Cache         cache.Store
	Logger        *zap.Logger
}

func NewFamilyService(
	evacuees EvacueeRepo,
	familyHeads FamilyHeadRepo,
	registrations RegistrationRepo,
	events EventRepo,
	store cache.Store,
	logger *zap.Logger,
) *FamilyService {
	return &FamilyService{
		Evacuees:      evacuees,
		FamilyHeads:   familyHeads,
		Registrations: registrations,
		Events:        events,
		Cache:         store,
		Logger:        logger,
	}
}

// Decamp sets (or clears) the decampment timestamp on every registration of
// the family in the event. A nil or blank timestamp clears decampment,
// re-activating the family, and skips the ordering checks.
func (s *FamilyService) Decamp(ctx context.Context, eventID, familyHeadID int, req *models.DecampFamilyRequest) (int64, error) {
	event, err := s.Events.GetWithDisaster(ctx, eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound("disaster evacuation event not found")
		}
		return 0, err
	}

	var ts *time.Time
	if req.DecampmentTimestamp != nil && *req.DecampmentTimestamp != "" {
		parsed, err := time.Parse(time.RFC3339, *req.DecampmentTimestamp)
		if err != nil {
			return 0, ErrBadRequest("decampment_timestamp must be an RFC 3339 timestamp")
		}
		parsed = timeutil.ToPHT(parsed)
		if !parsed.After(event.Disaster.StartDate) {
			return 0, ErrBadRequest("decampment_timestamp must be after the disaster start date")
		}

		earliestActive, earliestAny, total, err := s.Registrations.FamilyArrivalBounds(ctx, eventID, familyHeadID)
		if err != nil {
			return 0, err
		}
		if total == 0 {
			return 0, ErrNotFound("no registrations found for this family in this event")
		}
		earliest := earliestActive
		if earliest == nil {
			earliest = earliestAny
		}
		if earliest != nil && !parsed.After(*earliest) {
			return 0, ErrBadRequest("decampment_timestamp must be after the family's earliest arrival")
		}
		ts = &parsed
	}

	// Clearing decampment re-activates every family member, so the global
	// mutual-exclusion rule has to hold for each of them first. Without this
	// check the partial unique index rejects the update as a raw constraint
	// violation.
	if ts == nil {
		rows, err := s.Registrations.ListEventRows(ctx, eventID)
		if err != nil {
			return 0, err
		}
		for _, row := range rows {
			if row.FamilyHeadID != familyHeadID || row.DecampmentTimestamp == nil {
				continue
			}
			actives, err := s.Registrations.ListActiveByEvacuee(ctx, row.EvacueeResidentID)
			if err != nil {
				return 0, err
			}
			for _, a := range actives {
				if a.DisasterEvacuationEventID != eventID {
					return 0, ErrConflict("a family member is actively registered in another evacuation event; decamp there first")
				}
			}
		}
	}

	affected, err := s.Registrations.DecampFamily(ctx, eventID, familyHeadID, ts)
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, ErrNotFound("no registrations found for this family in this event")
	}

	s.Cache.Invalidate(ctx)
	s.Logger.Info("family decampment updated",
		zap.Int("event_id", eventID),
		zap.Int("family_head_id", familyHeadID),
		zap.Int64("registrations", affected),
		zap.Bool("cleared", ts == nil))
	return affected, nil
}

// TransferHead reassigns the family head role from the current head to
// another member of the same family within one event. Membership rows and
// every registration of the family (active or decamped, any event) are
// repointed to the new head; the event-scoped snapshots record the role
// swap.
func (s *FamilyService) TransferHead(ctx context.Context, eventID int, req *models.TransferHeadRequest) (int, error) {
	if req.FromFamilyHeadID == 0 || req.ToEvacueeResidentID == 0 {
		return 0, ErrBadRequest("from_family_head_id and to_evacuee_resident_id are required")
	}
	newRel := req.OldHeadNewRelationship
	if newRel == "" {
		return 0, ErrBadRequest("old_head_new_relationship is required")
	}
	if newRel == models.RelationshipHead {
		return 0, ErrBadRequest("old_head_new_relationship cannot be Head")
	}

	if _, err := s.Events.Get(ctx, eventID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound("disaster evacuation event not found")
		}
		return 0, err
	}

	oldHead, err := s.FamilyHeads.Get(ctx, req.FromFamilyHeadID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound("family head not found")
		}
		return 0, err
	}

	promotee, err := s.Evacuees.GetWithResident(ctx, req.ToEvacueeResidentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound("evacuee not found")
		}
		return 0, err
	}
	if promotee.ResidentID == oldHead.ResidentID {
		return 0, ErrBadRequest("evacuee is already the head of this family")
	}

	// The promotee must be registered under this head in this event.
	reg, err := s.Registrations.GetByEvacueeAndEvent(ctx, promotee.ID, eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrBadRequest("evacuee is not registered in this event")
		}
		return 0, err
	}
	if reg.FamilyHeadID != req.FromFamilyHeadID {
		return 0, ErrBadRequest("evacuee does not belong to this family in this event")
	}

	newHeadID, err := s.Registrations.TransferHead(ctx, &repositories.TransferHeadParams{
		EventID:                   eventID,
		FromFamilyHeadID:          req.FromFamilyHeadID,
		PromoteeEvacueeResidentID: promotee.ID,
		PromoteeResidentID:        promotee.ResidentID,
		OldHeadResidentID:         oldHead.ResidentID,
		OldHeadNewRelationship:    newRel,
	})
	if err != nil {
		return 0, err
	}

	s.Cache.Invalidate(ctx)
	s.Logger.Info("family head transferred",
		zap.Int("event_id", eventID),
		zap.Int("from_family_head_id", req.FromFamilyHeadID),
		zap.Int("to_family_head_id", newHeadID),
		zap.Int("promotee_evacuee_resident_id", promotee.ID))
	return newHeadID, nil
}
