package services

import (
	"context"
	"errors"
	"strings"

	"evac-backend/internal/models"
	"evac-backend/internal/timeutil"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ReportService builds the per-event read models: the family-grouped evacuee
// roster, the demographic statistics summary, and the in-event family head
// search.
type ReportService struct {
	Registrations RegistrationRepo
	Events        EventRepo
	Logger        *zap.Logger
}

func NewReportService(registrations RegistrationRepo, events EventRepo, logger *zap.Logger) *ReportService {
	return &ReportService{Registrations: registrations, Events: events, Logger: logger}
}

// EvacueesInformation returns the event roster grouped by family. Families
// are ordered by head name, members head-first. A family is marked decamped
// only when none of its members remain active.
func (s *ReportService) EvacueesInformation(ctx context.Context, eventID int) ([]models.FamilyGroup, error) {
	if _, err := s.Events.Get(ctx, eventID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound("disaster evacuation event not found")
		}
		return nil, err
	}

	rows, err := s.Registrations.ListEventRows(ctx, eventID)
	if err != nil {
		return nil, err
	}

	groups := make([]models.FamilyGroup, 0)
	index := make(map[int]int)
	for _, row := range rows {
		i, ok := index[row.FamilyHeadID]
		if !ok {
			i = len(groups)
			index[row.FamilyHeadID] = i
			groups = append(groups, models.FamilyGroup{
				FamilyHeadID:   row.FamilyHeadID,
				HeadResidentID: row.HeadResidentID,
				HeadFullName:   row.HeadFullName,
				Members:        make([]models.EventRegistrationRow, 0, 4),
			})
		}
		g := &groups[i]
		g.TotalMembers++
		if row.DecampmentTimestamp == nil {
			g.ActiveMembers++
		}
		if row.RelationshipToFamilyHead == models.RelationshipHead {
			g.RoomName = row.RoomName
			g.Members = append([]models.EventRegistrationRow{row}, g.Members...)
		} else {
			g.Members = append(g.Members, row)
		}
	}
	for i := range groups {
		groups[i].Decamped = groups[i].ActiveMembers == 0
		if groups[i].RoomName == nil && len(groups[i].Members) > 0 {
			groups[i].RoomName = groups[i].Members[0].RoomName
		}
	}
	return groups, nil
}

// Statistics aggregates demographic counts for the event: totals, sex split,
// and per-vulnerability counts over active registrations.
func (s *ReportService) Statistics(ctx context.Context, eventID int) (*models.EvacueeStatistics, error) {
	if _, err := s.Events.Get(ctx, eventID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound("disaster evacuation event not found")
		}
		return nil, err
	}

	rows, err := s.Registrations.ListEventRows(ctx, eventID)
	if err != nil {
		return nil, err
	}

	stats := &models.EvacueeStatistics{
		DisasterEvacuationEventID: eventID,
		Vulnerabilities:           make(map[string]int),
	}
	families := make(map[int]struct{})
	now := timeutil.Now()
	for _, row := range rows {
		families[row.FamilyHeadID] = struct{}{}
		stats.TotalEvacuees++
		if row.DecampmentTimestamp != nil {
			stats.DecampedEvacuees++
			continue
		}
		stats.ActiveEvacuees++
		switch strings.ToLower(row.Sex) {
		case "male":
			stats.Male++
		case "female":
			stats.Female++
		}
		for _, id := range row.VulnerabilityTypeIDs {
			switch t := models.VulnerabilityType(id); t {
			case models.VulnPWD, models.VulnPregnant, models.VulnLactating:
				stats.Vulnerabilities[t.String()]++
			}
		}
		// Age buckets are recomputed live rather than read from the stored
		// ids so an infant registered months ago does not stay an infant
		// forever.
		age := models.AgeAt(row.Birthdate, now)
		switch {
		case age < 1:
			stats.Vulnerabilities[models.VulnInfant.String()]++
		case age <= 12:
			stats.Vulnerabilities[models.VulnChild.String()]++
		case age <= 17:
			stats.Vulnerabilities[models.VulnYouth.String()]++
		case age >= 60:
			stats.Vulnerabilities[models.VulnSenior.String()]++
		default:
			stats.Vulnerabilities[models.VulnAdult.String()]++
		}
	}
	stats.TotalFamilies = len(families)
	return stats, nil
}

// SearchFamilyHeads finds family heads of an event by name for the member
// registration flow.
func (s *ReportService) SearchFamilyHeads(ctx context.Context, eventID int, query string) ([]models.FamilyHeadSearchResult, error) {
	if _, err := s.Events.Get(ctx, eventID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound("disaster evacuation event not found")
		}
		return nil, err
	}
	return s.Registrations.SearchFamilyHeads(ctx, eventID, strings.TrimSpace(query))
}
