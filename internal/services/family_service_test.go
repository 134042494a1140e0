package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"evac-backend/internal/models"

	"go.uber.org/zap"
)

func setupFamilyService() (*FamilyService, *regFixtures) {
	f := &regFixtures{
		evacuees: newMockEvacueeRepo(),
		heads:    newMockFamilyHeadRepo(),
		events:   newMockEventRepo(),
		rooms:    newMockRoomRepo(),
		cache:    &mockCache{},
	}
	f.regs = newMockRegistrationRepo(f.evacuees, f.heads)
	svc := NewFamilyService(f.evacuees, f.heads, f.regs, f.events, f.cache, zap.NewNop())

	f.events.events[1] = &models.EventWithDisaster{
		DisasterEvacuationEvent: models.DisasterEvacuationEvent{ID: 1, DisasterID: 1, EvacuationCenterID: 1},
		Disaster: models.Disaster{
			ID:        1,
			StartDate: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	return svc, f
}

func decampReq(ts string) *models.DecampFamilyRequest {
	if ts == "" {
		return &models.DecampFamilyRequest{}
	}
	return &models.DecampFamilyRequest{DecampmentTimestamp: &ts}
}

func TestFamilyService_Decamp_SetsTimestamp(t *testing.T) {
	svc, f := setupFamilyService()
	f.regs.add(models.EvacuationRegistration{
		EvacueeResidentID: 10, DisasterEvacuationEventID: 1, FamilyHeadID: 5,
		ArrivalTimestamp: time.Date(2025, 7, 2, 8, 0, 0, 0, time.UTC),
	})
	f.regs.add(models.EvacuationRegistration{
		EvacueeResidentID: 11, DisasterEvacuationEventID: 1, FamilyHeadID: 5,
		ArrivalTimestamp: time.Date(2025, 7, 2, 9, 0, 0, 0, time.UTC),
	})

	affected, err := svc.Decamp(context.Background(), 1, 5, decampReq("2025-07-10T18:00:00+08:00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if affected != 2 {
		t.Errorf("expected 2 registrations updated, got %d", affected)
	}
	for _, reg := range f.regs.regs {
		if reg.DecampmentTimestamp == nil {
			t.Error("expected every family registration to be decamped")
		}
	}
	if f.cache.invalidates != 1 {
		t.Errorf("expected 1 cache invalidation, got %d", f.cache.invalidates)
	}
}

func TestFamilyService_Decamp_ClearReactivates(t *testing.T) {
	svc, f := setupFamilyService()
	decamped := time.Date(2025, 7, 10, 18, 0, 0, 0, time.UTC)
	f.regs.add(models.EvacuationRegistration{
		EvacueeResidentID: 10, DisasterEvacuationEventID: 1, FamilyHeadID: 5,
		ArrivalTimestamp:    time.Date(2025, 7, 2, 8, 0, 0, 0, time.UTC),
		DecampmentTimestamp: &decamped,
	})

	// A nil timestamp clears unconditionally, no ordering checks.
	affected, err := svc.Decamp(context.Background(), 1, 5, decampReq(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if affected != 1 {
		t.Errorf("expected 1 registration updated, got %d", affected)
	}
	for _, reg := range f.regs.regs {
		if reg.DecampmentTimestamp != nil {
			t.Error("expected decampment to be cleared")
		}
	}
}

func TestFamilyService_Decamp_ClearBlockedByOtherActive(t *testing.T) {
	svc, f := setupFamilyService()
	f.events.events[2] = &models.EventWithDisaster{
		DisasterEvacuationEvent: models.DisasterEvacuationEvent{ID: 2, DisasterID: 2, EvacuationCenterID: 2},
		Disaster: models.Disaster{
			ID:        2,
			StartDate: time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC),
		},
	}
	decamped := time.Date(2025, 7, 10, 18, 0, 0, 0, time.UTC)
	old := f.regs.add(models.EvacuationRegistration{
		EvacueeResidentID: 10, DisasterEvacuationEventID: 1, FamilyHeadID: 5,
		ArrivalTimestamp:    time.Date(2025, 7, 2, 8, 0, 0, 0, time.UTC),
		DecampmentTimestamp: &decamped,
	})
	// The member has since registered into another event and is active there,
	// so re-activating the family here would break mutual exclusion.
	f.regs.add(models.EvacuationRegistration{
		EvacueeResidentID: 10, DisasterEvacuationEventID: 2, FamilyHeadID: 5,
		ArrivalTimestamp: time.Date(2025, 7, 11, 8, 0, 0, 0, time.UTC),
	})
	f.regs.eventRows = []models.EventRegistrationRow{
		{RegistrationID: old.ID, EvacueeResidentID: 10, FamilyHeadID: 5, DecampmentTimestamp: &decamped},
	}

	_, err := svc.Decamp(context.Background(), 1, 5, decampReq(""))
	apiErr := assertStatus(t, err, http.StatusConflict)
	if apiErr.Message != "a family member is actively registered in another evacuation event; decamp there first" {
		t.Errorf("unexpected message: %q", apiErr.Message)
	}
	if f.regs.regs[old.ID].DecampmentTimestamp == nil {
		t.Error("rejected clear must leave the family decamped")
	}
}

func TestFamilyService_Decamp_BadTimestamp(t *testing.T) {
	svc, _ := setupFamilyService()

	_, err := svc.Decamp(context.Background(), 1, 5, decampReq("July 10, 2025"))
	assertStatus(t, err, http.StatusBadRequest)
}

func TestFamilyService_Decamp_BeforeDisasterStart(t *testing.T) {
	svc, f := setupFamilyService()
	f.regs.add(models.EvacuationRegistration{
		EvacueeResidentID: 10, DisasterEvacuationEventID: 1, FamilyHeadID: 5,
		ArrivalTimestamp: time.Date(2025, 7, 2, 8, 0, 0, 0, time.UTC),
	})

	_, err := svc.Decamp(context.Background(), 1, 5, decampReq("2025-06-30T10:00:00+08:00"))
	apiErr := assertStatus(t, err, http.StatusBadRequest)
	if apiErr.Message != "decampment_timestamp must be after the disaster start date" {
		t.Errorf("unexpected message: %q", apiErr.Message)
	}
}

func TestFamilyService_Decamp_BeforeEarliestArrival(t *testing.T) {
	svc, f := setupFamilyService()
	f.regs.add(models.EvacuationRegistration{
		EvacueeResidentID: 10, DisasterEvacuationEventID: 1, FamilyHeadID: 5,
		ArrivalTimestamp: time.Date(2025, 7, 8, 8, 0, 0, 0, time.UTC),
	})

	_, err := svc.Decamp(context.Background(), 1, 5, decampReq("2025-07-05T10:00:00+08:00"))
	apiErr := assertStatus(t, err, http.StatusBadRequest)
	if apiErr.Message != "decampment_timestamp must be after the family's earliest arrival" {
		t.Errorf("unexpected message: %q", apiErr.Message)
	}
}

func TestFamilyService_Decamp_UnknownFamily(t *testing.T) {
	svc, _ := setupFamilyService()

	_, err := svc.Decamp(context.Background(), 1, 99, decampReq("2025-07-10T18:00:00+08:00"))
	assertStatus(t, err, http.StatusNotFound)
}

func TestFamilyService_Decamp_EventNotFound(t *testing.T) {
	svc, _ := setupFamilyService()

	_, err := svc.Decamp(context.Background(), 404, 5, decampReq(""))
	assertStatus(t, err, http.StatusNotFound)
}

func seedTransferFamily(f *regFixtures) (head, member *models.EvacueeWithResident) {
	f.heads.add(5, 100)
	head = &models.EvacueeWithResident{
		EvacueeResident: models.EvacueeResident{
			ID: 10, ResidentID: 100, FamilyHeadID: 5,
			RelationshipToFamilyHead: models.RelationshipHead,
		},
		Resident: models.Resident{ID: 100, FirstName: "Juan", LastName: "Dela Cruz"},
	}
	member = &models.EvacueeWithResident{
		EvacueeResident: models.EvacueeResident{
			ID: 11, ResidentID: 101, FamilyHeadID: 5,
			RelationshipToFamilyHead: "Spouse",
		},
		Resident: models.Resident{ID: 101, FirstName: "Maria", LastName: "Dela Cruz"},
	}
	f.evacuees.evacuees[head.ID] = head
	f.evacuees.evacuees[member.ID] = member
	f.regs.add(models.EvacuationRegistration{
		EvacueeResidentID: head.ID, DisasterEvacuationEventID: 1, FamilyHeadID: 5,
		ArrivalTimestamp: time.Date(2025, 7, 2, 8, 0, 0, 0, time.UTC),
	})
	f.regs.add(models.EvacuationRegistration{
		EvacueeResidentID: member.ID, DisasterEvacuationEventID: 1, FamilyHeadID: 5,
		ArrivalTimestamp: time.Date(2025, 7, 2, 8, 0, 0, 0, time.UTC),
	})
	return head, member
}

func TestFamilyService_TransferHead_Success(t *testing.T) {
	svc, f := setupFamilyService()
	_, member := seedTransferFamily(f)

	newHeadID, err := svc.TransferHead(context.Background(), 1, &models.TransferHeadRequest{
		FromFamilyHeadID:       5,
		ToEvacueeResidentID:    member.ID,
		OldHeadNewRelationship: "Spouse",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if newHeadID == 5 {
		t.Error("expected a new family head id")
	}
	for _, reg := range f.regs.regs {
		if reg.FamilyHeadID != newHeadID {
			t.Errorf("expected registration repointed to %d, got %d", newHeadID, reg.FamilyHeadID)
		}
	}
	if member.RelationshipToFamilyHead != models.RelationshipHead {
		t.Error("expected the promotee to become Head")
	}
	if f.cache.invalidates != 1 {
		t.Errorf("expected 1 cache invalidation, got %d", f.cache.invalidates)
	}
}

func TestFamilyService_TransferHead_Validation(t *testing.T) {
	svc, f := setupFamilyService()
	head, member := seedTransferFamily(f)
	ctx := context.Background()

	cases := []struct {
		name   string
		req    models.TransferHeadRequest
		status int
	}{
		{"missing ids", models.TransferHeadRequest{OldHeadNewRelationship: "Spouse"}, http.StatusBadRequest},
		{"missing relationship", models.TransferHeadRequest{
			FromFamilyHeadID: 5, ToEvacueeResidentID: member.ID,
		}, http.StatusBadRequest},
		{"relationship Head", models.TransferHeadRequest{
			FromFamilyHeadID: 5, ToEvacueeResidentID: member.ID, OldHeadNewRelationship: models.RelationshipHead,
		}, http.StatusBadRequest},
		{"self transfer", models.TransferHeadRequest{
			FromFamilyHeadID: 5, ToEvacueeResidentID: head.ID, OldHeadNewRelationship: "Spouse",
		}, http.StatusBadRequest},
		{"unknown family head", models.TransferHeadRequest{
			FromFamilyHeadID: 99, ToEvacueeResidentID: member.ID, OldHeadNewRelationship: "Spouse",
		}, http.StatusNotFound},
		{"unknown promotee", models.TransferHeadRequest{
			FromFamilyHeadID: 5, ToEvacueeResidentID: 99, OldHeadNewRelationship: "Spouse",
		}, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.TransferHead(ctx, 1, &tc.req)
			assertStatus(t, err, tc.status)
		})
	}
}

func TestFamilyService_TransferHead_PromoteeNotInEvent(t *testing.T) {
	svc, f := setupFamilyService()
	f.heads.add(5, 100)
	outsider := &models.EvacueeWithResident{
		EvacueeResident: models.EvacueeResident{ID: 20, ResidentID: 200, FamilyHeadID: 9},
		Resident:        models.Resident{ID: 200},
	}
	f.evacuees.evacuees[outsider.ID] = outsider

	_, err := svc.TransferHead(context.Background(), 1, &models.TransferHeadRequest{
		FromFamilyHeadID:       5,
		ToEvacueeResidentID:    outsider.ID,
		OldHeadNewRelationship: "Spouse",
	})
	apiErr := assertStatus(t, err, http.StatusBadRequest)
	if apiErr.Message != "evacuee is not registered in this event" {
		t.Errorf("unexpected message: %q", apiErr.Message)
	}
}

func TestFamilyService_TransferHead_WrongFamily(t *testing.T) {
	svc, f := setupFamilyService()
	seedTransferFamily(f)
	f.heads.add(6, 300)
	stranger := &models.EvacueeWithResident{
		EvacueeResident: models.EvacueeResident{ID: 30, ResidentID: 300, FamilyHeadID: 6},
		Resident:        models.Resident{ID: 300},
	}
	f.evacuees.evacuees[stranger.ID] = stranger
	f.regs.add(models.EvacuationRegistration{
		EvacueeResidentID: stranger.ID, DisasterEvacuationEventID: 1, FamilyHeadID: 6,
		ArrivalTimestamp: time.Date(2025, 7, 2, 8, 0, 0, 0, time.UTC),
	})

	_, err := svc.TransferHead(context.Background(), 1, &models.TransferHeadRequest{
		FromFamilyHeadID:       5,
		ToEvacueeResidentID:    stranger.ID,
		OldHeadNewRelationship: "Spouse",
	})
	apiErr := assertStatus(t, err, http.StatusBadRequest)
	if apiErr.Message != "evacuee does not belong to this family in this event" {
		t.Errorf("unexpected message: %q", apiErr.Message)
	}
}
