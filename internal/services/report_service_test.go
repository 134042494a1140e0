package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"evac-backend/internal/models"

	"go.uber.org/zap"
)

func setupReportService() (*ReportService, *mockRegistrationRepo, *mockEventRepo) {
	evacuees := newMockEvacueeRepo()
	heads := newMockFamilyHeadRepo()
	regs := newMockRegistrationRepo(evacuees, heads)
	events := newMockEventRepo()
	events.events[1] = &models.EventWithDisaster{
		DisasterEvacuationEvent: models.DisasterEvacuationEvent{ID: 1, EvacuationCenterID: 1},
	}
	return NewReportService(regs, events, zap.NewNop()), regs, events
}

func eventRow(regID, headID int, relationship, sex string, birthdate time.Time, decamped *time.Time) models.EventRegistrationRow {
	return models.EventRegistrationRow{
		RegistrationID:           regID,
		FamilyHeadID:             headID,
		HeadFullName:             "Head Name",
		RelationshipToFamilyHead: relationship,
		Sex:                      sex,
		Birthdate:                birthdate,
		DecampmentTimestamp:      decamped,
	}
}

func TestReportService_EvacueesInformation_GroupsByFamily(t *testing.T) {
	svc, regs, _ := setupReportService()
	roomA := "Room A"
	decamped := time.Date(2025, 7, 10, 18, 0, 0, 0, time.UTC)
	adult := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)

	// Family 5: member listed before the head; the head must still come first.
	spouse := eventRow(1, 5, "Spouse", "Female", adult, nil)
	head := eventRow(2, 5, models.RelationshipHead, "Male", adult, nil)
	head.RoomName = &roomA
	// Family 6: both members decamped.
	lone := eventRow(3, 6, models.RelationshipHead, "Male", adult, &decamped)
	child := eventRow(4, 6, "Son", "Male", adult, &decamped)
	regs.eventRows = []models.EventRegistrationRow{spouse, head, lone, child}

	groups, err := svc.EvacueesInformation(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 families, got %d", len(groups))
	}

	first := groups[0]
	if first.FamilyHeadID != 5 || first.TotalMembers != 2 || first.ActiveMembers != 2 {
		t.Errorf("family 5: unexpected counts %+v", first)
	}
	if first.Decamped {
		t.Error("family 5 has active members and must not be decamped")
	}
	if first.Members[0].RelationshipToFamilyHead != models.RelationshipHead {
		t.Error("expected the head listed first")
	}
	if first.RoomName == nil || *first.RoomName != roomA {
		t.Error("expected the head's room on the family group")
	}

	second := groups[1]
	if !second.Decamped || second.ActiveMembers != 0 || second.TotalMembers != 2 {
		t.Errorf("family 6: expected fully decamped, got %+v", second)
	}
}

func TestReportService_EvacueesInformation_EventNotFound(t *testing.T) {
	svc, _, _ := setupReportService()

	_, err := svc.EvacueesInformation(context.Background(), 99)
	assertStatus(t, err, http.StatusNotFound)
}

func TestReportService_Statistics(t *testing.T) {
	svc, regs, _ := setupReportService()
	now := time.Now()
	decamped := now.Add(-time.Hour)

	infant := eventRow(1, 5, models.RelationshipHead, "Female", now.AddDate(0, -6, 0), nil)
	childRow := eventRow(2, 5, "Son", "Male", now.AddDate(-8, 0, -1), nil)
	senior := eventRow(3, 6, models.RelationshipHead, "Male", now.AddDate(-70, 0, -1), nil)
	senior.VulnerabilityTypeIDs = []int{int(models.VulnSenior), int(models.VulnPWD)}
	gone := eventRow(4, 6, "Spouse", "Female", now.AddDate(-40, 0, -1), &decamped)
	regs.eventRows = []models.EventRegistrationRow{infant, childRow, senior, gone}

	stats, err := svc.Statistics(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalEvacuees != 4 || stats.ActiveEvacuees != 3 || stats.DecampedEvacuees != 1 {
		t.Errorf("unexpected totals: %+v", stats)
	}
	if stats.TotalFamilies != 2 {
		t.Errorf("expected 2 families, got %d", stats.TotalFamilies)
	}
	// Decamped evacuees drop out of the sex split.
	if stats.Male != 2 || stats.Female != 1 {
		t.Errorf("expected 2 male / 1 female, got %d / %d", stats.Male, stats.Female)
	}
	if got := stats.Vulnerabilities[models.VulnInfant.String()]; got != 1 {
		t.Errorf("expected 1 infant, got %d", got)
	}
	if got := stats.Vulnerabilities[models.VulnChild.String()]; got != 1 {
		t.Errorf("expected 1 child, got %d", got)
	}
	if got := stats.Vulnerabilities[models.VulnSenior.String()]; got != 1 {
		t.Errorf("expected 1 senior, got %d", got)
	}
	if got := stats.Vulnerabilities[models.VulnPWD.String()]; got != 1 {
		t.Errorf("expected 1 PWD from the stored ids, got %d", got)
	}
}

func TestReportService_Statistics_EventNotFound(t *testing.T) {
	svc, _, _ := setupReportService()

	_, err := svc.Statistics(context.Background(), 99)
	assertStatus(t, err, http.StatusNotFound)
}

func TestReportService_SearchFamilyHeads(t *testing.T) {
	svc, regs, _ := setupReportService()
	regs.headResults = []models.FamilyHeadSearchResult{
		{FamilyHeadID: 5, FullName: "Juan Dela Cruz", ActiveMembers: 3},
	}

	results, err := svc.SearchFamilyHeads(context.Background(), 1, " juan ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].FamilyHeadID != 5 {
		t.Fatalf("unexpected results: %+v", results)
	}

	_, err = svc.SearchFamilyHeads(context.Background(), 99, "juan")
	assertStatus(t, err, http.StatusNotFound)
}
