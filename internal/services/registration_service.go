package services

import (
	"context"
	"errors"
	"time"

	"evac-backend/internal/cache"
	"evac-backend/internal/metrics"
	"evac-backend/internal/models"
	"evac-backend/internal/repositories"
	"evac-backend/internal/timeutil"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// RegistrationService is the registration consistency engine: it registers
// evacuees into disaster evacuation events, keeps the global identity rows
// and the event-scoped registration ledger consistent, and guards the
// cross-event invariants (one active registration per evacuee anywhere, a
// never-null family head on every registration, head demotion only after a
// transfer).
type RegistrationService struct {
	Evacuees      EvacueeRepo
	FamilyHeads   FamilyHeadRepo
	Registrations RegistrationRepo
	Events        EventRepo
	Rooms         RoomRepo
	Cache         cache.Store
	Logger        *zap.Logger

	now func() time.Time
}

func NewRegistrationService(
	evacuees EvacueeRepo,
	familyHeads FamilyHeadRepo,
	registrations RegistrationRepo,
	events EventRepo,
	rooms RoomRepo,
	store cache.Store,
	logger *zap.Logger,
) *RegistrationService {
	return &RegistrationService{
		Evacuees:      evacuees,
		FamilyHeads:   familyHeads,
		Registrations: registrations,
		Events:        events,
		Rooms:         rooms,
		Cache:         store,
		Logger:        logger,
		now:           timeutil.Now,
	}
}

// Register handles POST /api/v1/evacuees: the reuse branch when
// existing_evacuee_resident_id is set, the create-new branch otherwise.
func (s *RegistrationService) Register(ctx context.Context, req *models.RegisterEvacueeRequest) (*models.RegisterEvacueeResponse, error) {
	if req.DisasterEvacuationEventID == 0 {
		return nil, ErrBadRequest("disaster_evacuation_event_id is required")
	}
	if _, err := s.Events.Get(ctx, req.DisasterEvacuationEventID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound("disaster evacuation event not found")
		}
		return nil, err
	}
	if req.ECRoomID != nil {
		if _, err := s.Rooms.Get(ctx, *req.ECRoomID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrNotFound("room not found")
			}
			return nil, err
		}
	}

	if req.ExistingEvacueeResidentID != nil {
		return s.registerExisting(ctx, req)
	}
	return s.registerNew(ctx, req)
}

func (s *RegistrationService) registerExisting(ctx context.Context, req *models.RegisterEvacueeRequest) (*models.RegisterEvacueeResponse, error) {
	ev, err := s.Evacuees.GetWithResident(ctx, *req.ExistingEvacueeResidentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound("evacuee not found")
		}
		return nil, err
	}

	// Global mutual exclusion: an evacuee is present in at most one event.
	actives, err := s.Registrations.ListActiveByEvacuee(ctx, ev.ID)
	if err != nil {
		return nil, err
	}
	for _, a := range actives {
		if a.DisasterEvacuationEventID == req.DisasterEvacuationEventID {
			return nil, ErrConflict("evacuee is already actively registered in this event; use the edit flow instead")
		}
	}
	if len(actives) > 0 {
		return nil, ErrConflict("evacuee is still actively registered in another evacuation event; decamp there first")
	}

	desiredRel := req.RelationshipToFamilyHead
	if desiredRel == "" {
		desiredRel = ev.RelationshipToFamilyHead
	}
	familyHeadID, err := s.resolveFamilyHead(ctx, desiredRel, ev.FamilyHeadID, ev.ResidentID, req.FamilyHeadID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	snapshot := models.SnapshotFromGlobals(&ev.Resident, &ev.EvacueeResident)
	if err := applyRegisterOverrides(&snapshot, req, desiredRel); err != nil {
		return nil, err
	}

	reg := &models.EvacuationRegistration{
		EvacueeResidentID:         ev.ID,
		DisasterEvacuationEventID: req.DisasterEvacuationEventID,
		FamilyHeadID:              familyHeadID,
		ECRoomID:                  req.ECRoomID,
		ArrivalTimestamp:          now,
		ReportedAgeAtArrival:      models.AgeAt(effectiveBirthdate(&snapshot, ev.Resident.Birthdate), now),
		ProfileSnapshot:           snapshot,
		VulnerabilityTypeIDs:      req.Vulnerabilities.IDs(),
	}
	if err := s.Registrations.Insert(ctx, reg); err != nil {
		return nil, err
	}

	s.Cache.Invalidate(ctx)
	metrics.RegistrationsTotal.WithLabelValues("reused").Inc()
	s.Logger.Info("evacuee registered",
		zap.Int("evacuee_resident_id", ev.ID),
		zap.Int("event_id", req.DisasterEvacuationEventID),
		zap.Bool("reused_identity", true))
	return &models.RegisterEvacueeResponse{Evacuee: ev, Registration: reg}, nil
}

func (s *RegistrationService) registerNew(ctx context.Context, req *models.RegisterEvacueeRequest) (*models.RegisterEvacueeResponse, error) {
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

	rel := req.RelationshipToFamilyHead
	if rel == "" {
		rel = models.RelationshipHead
	}
	if rel != models.RelationshipHead && req.FamilyHeadID == nil {
		return nil, ErrBadRequest("family_head_id is required when the evacuee is not the family head")
	}

	now := s.now()
	suffix := models.NormalizeSuffix(req.Suffix)
	snapshot := models.ProfileSnapshot{
		FirstName:                &req.FirstName,
		MiddleName:               &req.MiddleName,
		LastName:                 &req.LastName,
		Suffix:                   suffix,
		Birthdate:                &req.Birthdate,
		Sex:                      &req.Sex,
		BarangayOfOriginID:       &req.BarangayOfOriginID,
		Purok:                    &req.Purok,
		MaritalStatus:            &req.MaritalStatus,
		EducationalAttainment:    &req.EducationalAttainment,
		SchoolOfOrigin:           &req.SchoolOfOrigin,
		Occupation:               &req.Occupation,
		RelationshipToFamilyHead: &rel,
	}

	params := &repositories.RegisterNewParams{
		FirstName:                req.FirstName,
		MiddleName:               req.MiddleName,
		LastName:                 req.LastName,
		Suffix:                   suffix,
		Birthdate:                birthdate,
		Sex:                      req.Sex,
		BarangayOfOriginID:       req.BarangayOfOriginID,
		MaritalStatus:            req.MaritalStatus,
		EducationalAttainment:    req.EducationalAttainment,
		SchoolOfOrigin:           req.SchoolOfOrigin,
		Occupation:               req.Occupation,
		Purok:                    req.Purok,
		RelationshipToFamilyHead: rel,
		IsHead:                   rel == models.RelationshipHead,
		EventID:                  req.DisasterEvacuationEventID,
		ECRoomID:                 req.ECRoomID,
		ArrivalTimestamp:         now,
		ReportedAgeAtArrival:     models.AgeAt(birthdate, now),
		Snapshot:                 snapshot,
		VulnerabilityTypeIDs:     req.Vulnerabilities.IDs(),
		DateRegistered:           now,
	}
	if !params.IsHead {
		params.FamilyHeadID = *req.FamilyHeadID
	}

	ev, reg, err := s.Registrations.RegisterNew(ctx, params)
	if err != nil {
		return nil, err
	}

	s.Cache.Invalidate(ctx)
	metrics.RegistrationsTotal.WithLabelValues("new").Inc()
	s.Logger.Info("evacuee registered",
		zap.Int("evacuee_resident_id", ev.ID),
		zap.Int("event_id", req.DisasterEvacuationEventID),
		zap.Bool("reused_identity", false))
	return &models.RegisterEvacueeResponse{Evacuee: ev, Registration: reg}, nil
}

// Update handles PUT /api/v1/evacuees/{id}: it mutates only the event-scoped
// registration row (snapshot, vulnerability ids, head, optionally room) for
// the given event; global resident and evacuee rows are never rewritten.
func (s *RegistrationService) Update(ctx context.Context, evacueeResidentID int, req *models.UpdateEvacueeRequest) (*models.UpdateEvacueeResponse, error) {
	if req.DisasterEvacuationEventID == 0 {
		return nil, ErrBadRequest("disaster_evacuation_event_id is required")
	}
	ev, err := s.Evacuees.GetWithResident(ctx, evacueeResidentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound("evacuee not found")
		}
		return nil, err
	}
	if _, err := s.Events.Get(ctx, req.DisasterEvacuationEventID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound("disaster evacuation event not found")
		}
		return nil, err
	}
	if roomID := req.ECRoomID.Ptr(); roomID != nil {
		if _, err := s.Rooms.Get(ctx, *roomID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrNotFound("room not found")
			}
			return nil, err
		}
	}
	if v := req.Birthdate.Ptr(); v != nil {
		if _, err := timeutil.ParseInPHT(timeutil.DateLayout, *v); err != nil {
			return nil, ErrBadRequest("birthdate must be a valid YYYY-MM-DD date")
		}
	}

	reg, err := s.Registrations.GetByEvacueeAndEvent(ctx, ev.ID, req.DisasterEvacuationEventID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	hasReg := err == nil

	currentRel := ev.RelationshipToFamilyHead
	if hasReg {
		currentRel = reg.ProfileSnapshot.Relationship(currentRel)
	}
	desiredRel := currentRel
	if v := req.RelationshipToFamilyHead.Ptr(); v != nil && *v != "" {
		desiredRel = *v
	}

	wasHead := currentRel == models.RelationshipHead
	isDemoting := wasHead && desiredRel != models.RelationshipHead
	if isDemoting {
		count, err := s.Registrations.CountActiveFamilyMembers(ctx, req.DisasterEvacuationEventID, ev.FamilyHeadID)
		if err != nil {
			return nil, err
		}
		if count > 1 {
			return nil, ErrConflict("family head still has other active members registered in this event; transfer the head role first")
		}
	}

	familyHeadID, err := s.resolveFamilyHeadForUpdate(ctx, desiredRel, ev, reg, req)
	if err != nil {
		return nil, err
	}

	if !hasReg {
		// No row for this event yet: this update becomes a fresh
		// registration, so the global mutual-exclusion check applies first.
		actives, err := s.Registrations.ListActiveByEvacuee(ctx, ev.ID)
		if err != nil {
			return nil, err
		}
		if len(actives) > 0 {
			return nil, ErrConflict("evacuee is still actively registered in another evacuation event; decamp there first")
		}

		now := s.now()
		snapshot := models.SnapshotFromGlobals(&ev.Resident, &ev.EvacueeResident)
		snapshot.ApplyUpdate(req)
		snapshot.RelationshipToFamilyHead = &desiredRel

		vulnIDs := []int{}
		if req.Vulnerabilities != nil {
			vulnIDs = req.Vulnerabilities.IDs()
		}
		newReg := &models.EvacuationRegistration{
			EvacueeResidentID:         ev.ID,
			DisasterEvacuationEventID: req.DisasterEvacuationEventID,
			FamilyHeadID:              familyHeadID,
			ECRoomID:                  req.ECRoomID.Ptr(),
			ArrivalTimestamp:          now,
			ReportedAgeAtArrival:      models.AgeAt(effectiveBirthdate(&snapshot, ev.Resident.Birthdate), now),
			ProfileSnapshot:           snapshot,
			VulnerabilityTypeIDs:      vulnIDs,
		}
		if err := s.Registrations.Insert(ctx, newReg); err != nil {
			return nil, err
		}
		s.Cache.Invalidate(ctx)
		return &models.UpdateEvacueeResponse{EvacueeID: ev.ID, FamilyHeadID: familyHeadID}, nil
	}

	snapshot := reg.ProfileSnapshot
	snapshot.ApplyUpdate(req)
	snapshot.RelationshipToFamilyHead = &desiredRel

	vulnIDs := reg.VulnerabilityTypeIDs
	if req.Vulnerabilities != nil {
		vulnIDs = req.Vulnerabilities.IDs()
	}
	patch := &models.RegistrationPatch{
		FamilyHeadID:         familyHeadID,
		ProfileSnapshot:      snapshot,
		VulnerabilityTypeIDs: vulnIDs,
		RoomSet:              req.ECRoomID.Set,
		ECRoomID:             req.ECRoomID.Ptr(),
	}
	if err := s.Registrations.Patch(ctx, reg.ID, patch); err != nil {
		return nil, err
	}

	s.Cache.Invalidate(ctx)
	return &models.UpdateEvacueeResponse{EvacueeID: ev.ID, FamilyHeadID: familyHeadID}, nil
}

// EditView handles the merged event-first, global-fallback edit read.
func (s *RegistrationService) EditView(ctx context.Context, eventID, evacueeResidentID int) (*models.EvacueeProfileView, error) {
	ev, err := s.Evacuees.GetWithResident(ctx, evacueeResidentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound("evacuee not found")
		}
		return nil, err
	}

	reg, err := s.Registrations.GetByEvacueeAndEvent(ctx, ev.ID, eventID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	hasReg := err == nil

	var snapshot models.ProfileSnapshot
	if hasReg {
		snapshot = reg.ProfileSnapshot
	}
	view := snapshot.View(&ev.Resident, &ev.EvacueeResident, hasReg)
	view.DisasterEvacuationEventID = eventID
	if hasReg {
		view.FamilyHeadID = reg.FamilyHeadID
		view.ECRoomID = reg.ECRoomID
		view.Vulnerabilities = models.FlagsFromIDs(reg.VulnerabilityTypeIDs)
	}
	return &view, nil
}

// resolveFamilyHead implements the shared head-resolution rule: a head
// reuses their existing family head id (or gets one lazily), a member must
// name their head.
func (s *RegistrationService) resolveFamilyHead(ctx context.Context, desiredRel string, currentHeadID, residentID int, callerHeadID *int) (int, error) {
	if desiredRel == models.RelationshipHead {
		if currentHeadID != 0 {
			return currentHeadID, nil
		}
		fh, err := s.FamilyHeads.GetOrCreateByResident(ctx, residentID)
		if err != nil {
			return 0, err
		}
		return fh.ID, nil
	}
	if callerHeadID == nil {
		return 0, ErrBadRequest("family_head_id is required when the evacuee is not the family head")
	}
	return *callerHeadID, nil
}

// resolveFamilyHeadForUpdate applies the same rule, but a member keeping
// their role without naming a head falls back to the registration's (then
// the evacuee's) current head so plain field edits don't have to resend it.
func (s *RegistrationService) resolveFamilyHeadForUpdate(ctx context.Context, desiredRel string, ev *models.EvacueeWithResident, reg *models.EvacuationRegistration, req *models.UpdateEvacueeRequest) (int, error) {
	if desiredRel == models.RelationshipHead {
		return s.resolveFamilyHead(ctx, desiredRel, ev.FamilyHeadID, ev.ResidentID, nil)
	}
	if v := req.FamilyHeadID.Ptr(); v != nil {
		return *v, nil
	}
	if reg != nil {
		return reg.FamilyHeadID, nil
	}
	if ev.FamilyHeadID != 0 {
		return ev.FamilyHeadID, nil
	}
	return 0, ErrBadRequest("family_head_id is required when the evacuee is not the family head")
}

// effectiveBirthdate resolves the birthdate the snapshot records for the
// event, falling back to the global one. Callers validate the snapshot
// value before it gets here, so a parse failure only happens on legacy rows
// and falls back rather than erroring.
func effectiveBirthdate(snapshot *models.ProfileSnapshot, global time.Time) time.Time {
	if snapshot.Birthdate != nil {
		if parsed, err := timeutil.ParseInPHT(timeutil.DateLayout, *snapshot.Birthdate); err == nil {
			return parsed
		}
	}
	return global
}

// applyRegisterOverrides layers the explicit fields of a reuse-branch
// register payload over the snapshot built from the globals.
func applyRegisterOverrides(snapshot *models.ProfileSnapshot, req *models.RegisterEvacueeRequest, desiredRel string) error {
	if req.FirstName != "" {
		snapshot.FirstName = &req.FirstName
	}
	if req.MiddleName != "" {
		snapshot.MiddleName = &req.MiddleName
	}
	if req.LastName != "" {
		snapshot.LastName = &req.LastName
	}
	if req.Suffix != nil {
		snapshot.Suffix = models.NormalizeSuffix(req.Suffix)
	}
	if req.Birthdate != "" {
		if _, err := timeutil.ParseInPHT(timeutil.DateLayout, req.Birthdate); err != nil {
			return ErrBadRequest("birthdate must be a valid YYYY-MM-DD date")
		}
		snapshot.Birthdate = &req.Birthdate
	}
	if req.Sex != "" {
		snapshot.Sex = &req.Sex
	}
	if req.BarangayOfOriginID != 0 {
		snapshot.BarangayOfOriginID = &req.BarangayOfOriginID
	}
	if req.Purok != "" {
		snapshot.Purok = &req.Purok
	}
	if req.MaritalStatus != "" {
		snapshot.MaritalStatus = &req.MaritalStatus
	}
	if req.EducationalAttainment != "" {
		snapshot.EducationalAttainment = &req.EducationalAttainment
	}
	if req.SchoolOfOrigin != "" {
		snapshot.SchoolOfOrigin = &req.SchoolOfOrigin
	}
	if req.Occupation != "" {
		snapshot.Occupation = &req.Occupation
	}
	snapshot.RelationshipToFamilyHead = &desiredRel
	return nil
}
