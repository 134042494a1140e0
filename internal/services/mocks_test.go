package services

import (
	"context"
	"time"

	"evac-backend/internal/models"
	"evac-backend/internal/repositories"

	"github.com/jackc/pgx/v5"
)

// ── Mock search cache ──

type mockCache struct {
	rows        []models.EvacueeSearchRow
	populated   bool
	sets        int
	invalidates int
}

func (m *mockCache) Get(_ context.Context) ([]models.EvacueeSearchRow, bool) {
	if !m.populated {
		return nil, false
	}
	return m.rows, true
}

func (m *mockCache) Set(_ context.Context, rows []models.EvacueeSearchRow) {
	m.rows = rows
	m.populated = true
	m.sets++
}

func (m *mockCache) Invalidate(_ context.Context) {
	m.rows = nil
	m.populated = false
	m.invalidates++
}

// ── Mock evacuee repository ──

type mockEvacueeRepo struct {
	evacuees map[int]*models.EvacueeWithResident
}

func newMockEvacueeRepo() *mockEvacueeRepo {
	return &mockEvacueeRepo{evacuees: make(map[int]*models.EvacueeWithResident)}
}

func (m *mockEvacueeRepo) GetWithResident(_ context.Context, id int) (*models.EvacueeWithResident, error) {
	if ev, ok := m.evacuees[id]; ok {
		copied := *ev
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

// ── Mock family head repository ──

type mockFamilyHeadRepo struct {
	heads  map[int]*models.FamilyHead
	nextID int
}

func newMockFamilyHeadRepo() *mockFamilyHeadRepo {
	return &mockFamilyHeadRepo{heads: make(map[int]*models.FamilyHead), nextID: 1}
}

func (m *mockFamilyHeadRepo) add(id, residentID int) {
	m.heads[id] = &models.FamilyHead{ID: id, ResidentID: residentID}
	if id >= m.nextID {
		m.nextID = id + 1
	}
}

func (m *mockFamilyHeadRepo) Get(_ context.Context, id int) (*models.FamilyHead, error) {
	if fh, ok := m.heads[id]; ok {
		return fh, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *mockFamilyHeadRepo) GetOrCreateByResident(_ context.Context, residentID int) (*models.FamilyHead, error) {
	for _, fh := range m.heads {
		if fh.ResidentID == residentID {
			return fh, nil
		}
	}
	fh := &models.FamilyHead{ID: m.nextID, ResidentID: residentID}
	m.heads[fh.ID] = fh
	m.nextID++
	return fh, nil
}

// ── Mock registration repository ──

type mockRegistrationRepo struct {
	regs   map[int]*models.EvacuationRegistration
	nextID int

	searchRows  []models.EvacueeSearchRow
	eventRows   []models.EventRegistrationRow
	headResults []models.FamilyHeadSearchResult

	evacuees *mockEvacueeRepo
	heads    *mockFamilyHeadRepo

	nextResidentID int
	nextEvacueeID  int
}

func newMockRegistrationRepo(evacuees *mockEvacueeRepo, heads *mockFamilyHeadRepo) *mockRegistrationRepo {
	return &mockRegistrationRepo{
		regs:           make(map[int]*models.EvacuationRegistration),
		nextID:         1,
		evacuees:       evacuees,
		heads:          heads,
		nextResidentID: 1000,
		nextEvacueeID:  1000,
	}
}

func (m *mockRegistrationRepo) add(reg models.EvacuationRegistration) *models.EvacuationRegistration {
	if reg.ID == 0 {
		reg.ID = m.nextID
	}
	if reg.ID >= m.nextID {
		m.nextID = reg.ID + 1
	}
	m.regs[reg.ID] = &reg
	return m.regs[reg.ID]
}

func (m *mockRegistrationRepo) ListActiveByEvacuee(_ context.Context, evacueeResidentID int) ([]models.EvacuationRegistration, error) {
	var result []models.EvacuationRegistration
	for _, reg := range m.regs {
		if reg.EvacueeResidentID == evacueeResidentID && reg.DecampmentTimestamp == nil {
			result = append(result, *reg)
		}
	}
	return result, nil
}

func (m *mockRegistrationRepo) GetByEvacueeAndEvent(_ context.Context, evacueeResidentID, eventID int) (*models.EvacuationRegistration, error) {
	for _, reg := range m.regs {
		if reg.EvacueeResidentID == evacueeResidentID && reg.DisasterEvacuationEventID == eventID {
			copied := *reg
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockRegistrationRepo) Insert(_ context.Context, reg *models.EvacuationRegistration) error {
	reg.ID = m.nextID
	m.nextID++
	copied := *reg
	m.regs[reg.ID] = &copied
	return nil
}

func (m *mockRegistrationRepo) Patch(_ context.Context, registrationID int, patch *models.RegistrationPatch) error {
	reg, ok := m.regs[registrationID]
	if !ok {
		return pgx.ErrNoRows
	}
	reg.FamilyHeadID = patch.FamilyHeadID
	reg.ProfileSnapshot = patch.ProfileSnapshot
	reg.VulnerabilityTypeIDs = patch.VulnerabilityTypeIDs
	if patch.RoomSet {
		reg.ECRoomID = patch.ECRoomID
	}
	return nil
}

func (m *mockRegistrationRepo) CountActiveFamilyMembers(_ context.Context, eventID, familyHeadID int) (int, error) {
	count := 0
	for _, reg := range m.regs {
		if reg.DisasterEvacuationEventID == eventID && reg.FamilyHeadID == familyHeadID &&
			reg.DecampmentTimestamp == nil {
			count++
		}
	}
	return count, nil
}

func (m *mockRegistrationRepo) FamilyArrivalBounds(_ context.Context, eventID, familyHeadID int) (*time.Time, *time.Time, int, error) {
	var earliestActive, earliestAny *time.Time
	total := 0
	for _, reg := range m.regs {
		if reg.DisasterEvacuationEventID != eventID || reg.FamilyHeadID != familyHeadID {
			continue
		}
		total++
		arrival := reg.ArrivalTimestamp
		if earliestAny == nil || arrival.Before(*earliestAny) {
			earliestAny = &arrival
		}
		if reg.DecampmentTimestamp == nil {
			if earliestActive == nil || arrival.Before(*earliestActive) {
				earliestActive = &arrival
			}
		}
	}
	return earliestActive, earliestAny, total, nil
}

func (m *mockRegistrationRepo) DecampFamily(_ context.Context, eventID, familyHeadID int, ts *time.Time) (int64, error) {
	var affected int64
	for _, reg := range m.regs {
		if reg.DisasterEvacuationEventID == eventID && reg.FamilyHeadID == familyHeadID {
			reg.DecampmentTimestamp = ts
			affected++
		}
	}
	return affected, nil
}

func (m *mockRegistrationRepo) RegisterNew(_ context.Context, p *repositories.RegisterNewParams) (*models.EvacueeWithResident, *models.EvacuationRegistration, error) {
	res := models.Resident{
		ID:                 m.nextResidentID,
		FirstName:          p.FirstName,
		MiddleName:         p.MiddleName,
		LastName:           p.LastName,
		Suffix:             p.Suffix,
		Birthdate:          p.Birthdate,
		Sex:                p.Sex,
		BarangayOfOriginID: p.BarangayOfOriginID,
	}
	m.nextResidentID++

	familyHeadID := p.FamilyHeadID
	if p.IsHead {
		fh, _ := m.heads.GetOrCreateByResident(nil, res.ID)
		familyHeadID = fh.ID
	}

	ev := &models.EvacueeWithResident{Resident: res}
	ev.ID = m.nextEvacueeID
	m.nextEvacueeID++
	ev.ResidentID = res.ID
	ev.MaritalStatus = p.MaritalStatus
	ev.EducationalAttainment = p.EducationalAttainment
	ev.SchoolOfOrigin = p.SchoolOfOrigin
	ev.Occupation = p.Occupation
	ev.Purok = p.Purok
	ev.FamilyHeadID = familyHeadID
	ev.RelationshipToFamilyHead = p.RelationshipToFamilyHead
	ev.DateRegistered = p.DateRegistered
	m.evacuees.evacuees[ev.ID] = ev

	reg := &models.EvacuationRegistration{
		EvacueeResidentID:         ev.ID,
		DisasterEvacuationEventID: p.EventID,
		FamilyHeadID:              familyHeadID,
		ECRoomID:                  p.ECRoomID,
		ArrivalTimestamp:          p.ArrivalTimestamp,
		ReportedAgeAtArrival:      p.ReportedAgeAtArrival,
		ProfileSnapshot:           p.Snapshot,
		VulnerabilityTypeIDs:      p.VulnerabilityTypeIDs,
	}
	m.Insert(nil, reg)
	return ev, reg, nil
}

func (m *mockRegistrationRepo) TransferHead(_ context.Context, p *repositories.TransferHeadParams) (int, error) {
	fh, _ := m.heads.GetOrCreateByResident(nil, p.PromoteeResidentID)

	for _, ev := range m.evacuees.evacuees {
		if ev.ID == p.PromoteeEvacueeResidentID {
			ev.RelationshipToFamilyHead = models.RelationshipHead
			ev.FamilyHeadID = fh.ID
		} else if ev.ResidentID == p.OldHeadResidentID {
			ev.RelationshipToFamilyHead = p.OldHeadNewRelationship
			ev.FamilyHeadID = fh.ID
		} else if ev.FamilyHeadID == p.FromFamilyHeadID {
			ev.FamilyHeadID = fh.ID
		}
	}
	for _, reg := range m.regs {
		if reg.FamilyHeadID == p.FromFamilyHeadID {
			reg.FamilyHeadID = fh.ID
		}
	}
	return fh.ID, nil
}

func (m *mockRegistrationRepo) ListForSearch(_ context.Context) ([]models.EvacueeSearchRow, error) {
	return m.searchRows, nil
}

func (m *mockRegistrationRepo) ListEventRows(_ context.Context, _ int) ([]models.EventRegistrationRow, error) {
	return m.eventRows, nil
}

func (m *mockRegistrationRepo) SearchFamilyHeads(_ context.Context, _ int, _ string) ([]models.FamilyHeadSearchResult, error) {
	return m.headResults, nil
}

// ── Mock event repository ──

type mockEventRepo struct {
	events map[int]*models.EventWithDisaster
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{events: make(map[int]*models.EventWithDisaster)}
}

func (m *mockEventRepo) Get(_ context.Context, id int) (*models.DisasterEvacuationEvent, error) {
	if e, ok := m.events[id]; ok {
		return &e.DisasterEvacuationEvent, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *mockEventRepo) GetWithDisaster(_ context.Context, id int) (*models.EventWithDisaster, error) {
	if e, ok := m.events[id]; ok {
		return e, nil
	}
	return nil, pgx.ErrNoRows
}

// ── Mock room repository ──

type mockRoomRepo struct {
	rooms  map[int]*models.ECRoom
	counts map[int]int
}

func newMockRoomRepo() *mockRoomRepo {
	return &mockRoomRepo{rooms: make(map[int]*models.ECRoom), counts: make(map[int]int)}
}

func (m *mockRoomRepo) Get(_ context.Context, id int) (*models.ECRoom, error) {
	if r, ok := m.rooms[id]; ok {
		return r, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *mockRoomRepo) ListByCenter(_ context.Context, centerID int) ([]models.ECRoom, error) {
	var result []models.ECRoom
	for _, r := range m.rooms {
		if r.EvacuationCenterID == centerID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockRoomRepo) CountActiveByRoom(_ context.Context, _ int) (map[int]int, error) {
	return m.counts, nil
}
