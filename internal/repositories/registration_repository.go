package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"evac-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RegistrationRepository struct {
	DB *pgxpool.Pool
}

func NewRegistrationRepository(db *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{DB: db}
}

const registrationColumns = `id, evacuee_resident_id, disaster_evacuation_event_id, family_head_id,
	ec_rooms_id, arrival_timestamp, decampment_timestamp, reported_age_at_arrival,
	profile_snapshot, vulnerability_type_ids, created_at, updated_at`

func scanRegistration(row pgx.Row) (*models.EvacuationRegistration, error) {
	var reg models.EvacuationRegistration
	var snapshot []byte
	err := row.Scan(&reg.ID, &reg.EvacueeResidentID, &reg.DisasterEvacuationEventID,
		&reg.FamilyHeadID, &reg.ECRoomID, &reg.ArrivalTimestamp, &reg.DecampmentTimestamp,
		&reg.ReportedAgeAtArrival, &snapshot, &reg.VulnerabilityTypeIDs,
		&reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(snapshot) > 0 {
		if err := json.Unmarshal(snapshot, &reg.ProfileSnapshot); err != nil {
			return nil, fmt.Errorf("decode profile snapshot for registration %d: %w", reg.ID, err)
		}
	}
	return &reg, nil
}

// ListActiveByEvacuee returns every registration of the evacuee, across ALL
// events, whose decampment_timestamp is null. The engine uses this for the
// global "present in at most one place" check.
func (r *RegistrationRepository) ListActiveByEvacuee(ctx context.Context, evacueeResidentID int) ([]models.EvacuationRegistration, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+registrationColumns+`
		 FROM evacuation_registrations
		 WHERE evacuee_resident_id = $1 AND decampment_timestamp IS NULL`, evacueeResidentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regs []models.EvacuationRegistration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, *reg)
	}
	return regs, rows.Err()
}

// GetByEvacueeAndEvent finds the registration row for one (evacuee, event)
// pair. At most one exists by schema uniqueness.
func (r *RegistrationRepository) GetByEvacueeAndEvent(ctx context.Context, evacueeResidentID, eventID int) (*models.EvacuationRegistration, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+registrationColumns+`
		 FROM evacuation_registrations
		 WHERE evacuee_resident_id = $1 AND disaster_evacuation_event_id = $2`,
		evacueeResidentID, eventID)
	return scanRegistration(row)
}

// Insert writes one registration row with its snapshot and vulnerability ids.
func (r *RegistrationRepository) Insert(ctx context.Context, reg *models.EvacuationRegistration) error {
	snapshot, err := json.Marshal(reg.ProfileSnapshot)
	if err != nil {
		return fmt.Errorf("encode profile snapshot: %w", err)
	}
	return r.DB.QueryRow(ctx,
		`INSERT INTO evacuation_registrations
		   (evacuee_resident_id, disaster_evacuation_event_id, family_head_id, ec_rooms_id,
		    arrival_timestamp, reported_age_at_arrival, profile_snapshot, vulnerability_type_ids)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		reg.EvacueeResidentID, reg.DisasterEvacuationEventID, reg.FamilyHeadID, reg.ECRoomID,
		reg.ArrivalTimestamp, reg.ReportedAgeAtArrival, snapshot, reg.VulnerabilityTypeIDs,
	).Scan(&reg.ID, &reg.CreatedAt, &reg.UpdatedAt)
}

// Patch applies the event-scoped partial update: head,
// snapshot, vulnerability ids and optionally the room. Global rows are never
// touched here.
func (r *RegistrationRepository) Patch(ctx context.Context, registrationID int, patch *models.RegistrationPatch) error {
	snapshot, err := json.Marshal(patch.ProfileSnapshot)
	if err != nil {
		return fmt.Errorf("encode profile snapshot: %w", err)
	}
	if patch.RoomSet {
		_, err = r.DB.Exec(ctx,
			`UPDATE evacuation_registrations
			 SET family_head_id = $1, profile_snapshot = $2, vulnerability_type_ids = $3,
			     ec_rooms_id = $4, updated_at = CURRENT_TIMESTAMP
			 WHERE id = $5`,
			patch.FamilyHeadID, snapshot, patch.VulnerabilityTypeIDs, patch.ECRoomID, registrationID)
		return err
	}
	_, err = r.DB.Exec(ctx,
		`UPDATE evacuation_registrations
		 SET family_head_id = $1, profile_snapshot = $2, vulnerability_type_ids = $3,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = $4`,
		patch.FamilyHeadID, snapshot, patch.VulnerabilityTypeIDs, registrationID)
	return err
}

// CountActiveFamilyMembers counts currently-present members registered under
// a family head in an event, the head included. Used by the head-demotion
// guard.
func (r *RegistrationRepository) CountActiveFamilyMembers(ctx context.Context, eventID, familyHeadID int) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM evacuation_registrations
		 WHERE disaster_evacuation_event_id = $1 AND family_head_id = $2
		   AND decampment_timestamp IS NULL`, eventID, familyHeadID).Scan(&count)
	return count, err
}

// FamilyArrivalBounds returns the family's earliest arrival among active
// registrations, the earliest among all registrations, and the total row
// count for the (event, family) pair.
func (r *RegistrationRepository) FamilyArrivalBounds(ctx context.Context, eventID, familyHeadID int) (earliestActive, earliestAny *time.Time, total int, err error) {
	err = r.DB.QueryRow(ctx,
		`SELECT MIN(arrival_timestamp) FILTER (WHERE decampment_timestamp IS NULL),
		        MIN(arrival_timestamp),
		        COUNT(*)
		 FROM evacuation_registrations
		 WHERE disaster_evacuation_event_id = $1 AND family_head_id = $2`,
		eventID, familyHeadID).Scan(&earliestActive, &earliestAny, &total)
	return earliestActive, earliestAny, total, err
}

// DecampFamily stamps (or clears, when ts is nil) the decampment timestamp
// on every registration of the family in the event. One call moves the whole
// family out together.
func (r *RegistrationRepository) DecampFamily(ctx context.Context, eventID, familyHeadID int, ts *time.Time) (int64, error) {
	tag, err := r.DB.Exec(ctx,
		`UPDATE evacuation_registrations
		 SET decampment_timestamp = $1, updated_at = CURRENT_TIMESTAMP
		 WHERE disaster_evacuation_event_id = $2 AND family_head_id = $3`,
		ts, eventID, familyHeadID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// RegisterNewParams carries the create-new registration branch: a brand-new
// resident, its evacuee identity and the first registration row, written in
// one transaction.
type RegisterNewParams struct {
	FirstName          string
	MiddleName         string
	LastName           string
	Suffix             *string
	Birthdate          time.Time
	Sex                string
	BarangayOfOriginID int

	MaritalStatus            string
	EducationalAttainment    string
	SchoolOfOrigin           string
	Occupation               string
	Purok                    string
	RelationshipToFamilyHead string
	// FamilyHeadID is the caller-supplied head for non-head members; ignored
	// when IsHead, where the head row is created for the new resident inside
	// the same transaction.
	IsHead       bool
	FamilyHeadID int

	EventID              int
	ECRoomID             *int
	ArrivalTimestamp     time.Time
	ReportedAgeAtArrival int
	Snapshot             models.ProfileSnapshot
	VulnerabilityTypeIDs []int
	DateRegistered       time.Time
}

// RegisterNew inserts resident, family head (when the newcomer is the head),
// evacuee identity and the registration row atomically. A failure anywhere
// rolls the whole sequence back, so no dangling identity rows survive.
func (r *RegistrationRepository) RegisterNew(ctx context.Context, p *RegisterNewParams) (*models.EvacueeWithResident, *models.EvacuationRegistration, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	var res models.Resident
	res.FirstName = p.FirstName
	res.MiddleName = p.MiddleName
	res.LastName = p.LastName
	res.Suffix = models.NormalizeSuffix(p.Suffix)
	res.Birthdate = p.Birthdate
	res.Sex = p.Sex
	res.BarangayOfOriginID = p.BarangayOfOriginID
	err = tx.QueryRow(ctx,
		`INSERT INTO residents (first_name, middle_name, last_name, suffix, birthdate, sex, barangay_of_origin)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		res.FirstName, res.MiddleName, res.LastName, res.Suffix,
		res.Birthdate, res.Sex, res.BarangayOfOriginID,
	).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("insert resident: %w", err)
	}

	familyHeadID := p.FamilyHeadID
	if p.IsHead {
		err = tx.QueryRow(ctx,
			`INSERT INTO family_heads (resident_id) VALUES ($1) RETURNING id`,
			res.ID).Scan(&familyHeadID)
		if err != nil {
			return nil, nil, fmt.Errorf("insert family head: %w", err)
		}
	}

	ev := &models.EvacueeWithResident{Resident: res}
	ev.ResidentID = res.ID
	ev.MaritalStatus = p.MaritalStatus
	ev.EducationalAttainment = p.EducationalAttainment
	ev.SchoolOfOrigin = p.SchoolOfOrigin
	ev.Occupation = p.Occupation
	ev.Purok = p.Purok
	ev.FamilyHeadID = familyHeadID
	ev.RelationshipToFamilyHead = p.RelationshipToFamilyHead
	ev.DateRegistered = p.DateRegistered
	err = tx.QueryRow(ctx,
		`INSERT INTO evacuee_residents
		   (resident_id, marital_status, educational_attainment, school_of_origin,
		    occupation, purok, family_head_id, relationship_to_family_head, date_registered)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		ev.ResidentID, ev.MaritalStatus, ev.EducationalAttainment, ev.SchoolOfOrigin,
		ev.Occupation, ev.Purok, ev.FamilyHeadID, ev.RelationshipToFamilyHead, ev.DateRegistered,
	).Scan(&ev.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("insert evacuee resident: %w", err)
	}

	snapshot, err := json.Marshal(p.Snapshot)
	if err != nil {
		return nil, nil, fmt.Errorf("encode profile snapshot: %w", err)
	}
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
	err = tx.QueryRow(ctx,
		`INSERT INTO evacuation_registrations
		   (evacuee_resident_id, disaster_evacuation_event_id, family_head_id, ec_rooms_id,
		    arrival_timestamp, reported_age_at_arrival, profile_snapshot, vulnerability_type_ids)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		reg.EvacueeResidentID, reg.DisasterEvacuationEventID, reg.FamilyHeadID, reg.ECRoomID,
		reg.ArrivalTimestamp, reg.ReportedAgeAtArrival, snapshot, reg.VulnerabilityTypeIDs,
	).Scan(&reg.ID, &reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("insert registration: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return ev, reg, nil
}

// TransferHeadParams is the repoint job of the transfer-head operation.
type TransferHeadParams struct {
	EventID                   int
	FromFamilyHeadID          int
	PromoteeEvacueeResidentID int
	PromoteeResidentID        int
	OldHeadResidentID         int
	OldHeadNewRelationship    string
}

// TransferHead atomically promotes a member to family head: resolves or
// creates the promotee's family head row, repoints every evacuee identity
// and every registration (all events) from the old head to the new one, and
// patches the event-scoped snapshot roles for the promotee and the old head
// so the edit view of this event reflects the change immediately. The old
// family head row is left behind unreferenced.
func (r *RegistrationRepository) TransferHead(ctx context.Context, p *TransferHeadParams) (int, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var newHeadID int
	err = tx.QueryRow(ctx,
		`SELECT id FROM family_heads WHERE resident_id = $1`, p.PromoteeResidentID).Scan(&newHeadID)
	if errors.Is(err, pgx.ErrNoRows) {
		err = tx.QueryRow(ctx,
			`INSERT INTO family_heads (resident_id) VALUES ($1) RETURNING id`,
			p.PromoteeResidentID).Scan(&newHeadID)
	}
	if err != nil {
		return 0, fmt.Errorf("resolve new family head: %w", err)
	}

	// Global repoint: affects every event, not just this one.
	_, err = tx.Exec(ctx,
		`UPDATE evacuee_residents
		 SET relationship_to_family_head = $1, family_head_id = $2
		 WHERE id = $3`,
		models.RelationshipHead, newHeadID, p.PromoteeEvacueeResidentID)
	if err != nil {
		return 0, fmt.Errorf("promote member: %w", err)
	}
	_, err = tx.Exec(ctx,
		`UPDATE evacuee_residents
		 SET relationship_to_family_head = $1, family_head_id = $2
		 WHERE resident_id = $3`,
		p.OldHeadNewRelationship, newHeadID, p.OldHeadResidentID)
	if err != nil {
		return 0, fmt.Errorf("demote old head: %w", err)
	}
	_, err = tx.Exec(ctx,
		`UPDATE evacuee_residents SET family_head_id = $1 WHERE family_head_id = $2`,
		newHeadID, p.FromFamilyHeadID)
	if err != nil {
		return 0, fmt.Errorf("repoint evacuee identities: %w", err)
	}
	_, err = tx.Exec(ctx,
		`UPDATE evacuation_registrations
		 SET family_head_id = $1, updated_at = CURRENT_TIMESTAMP
		 WHERE family_head_id = $2`,
		newHeadID, p.FromFamilyHeadID)
	if err != nil {
		return 0, fmt.Errorf("repoint registrations: %w", err)
	}

	// Event-scoped role patch so this event's edit view is current without a
	// global re-read.
	_, err = tx.Exec(ctx,
		`UPDATE evacuation_registrations
		 SET profile_snapshot = jsonb_set(COALESCE(profile_snapshot, '{}'::jsonb),
		                                  '{relationship_to_family_head}', to_jsonb($1::text)),
		     updated_at = CURRENT_TIMESTAMP
		 WHERE evacuee_resident_id = $2 AND disaster_evacuation_event_id = $3`,
		models.RelationshipHead, p.PromoteeEvacueeResidentID, p.EventID)
	if err != nil {
		return 0, fmt.Errorf("patch promotee snapshot: %w", err)
	}
	_, err = tx.Exec(ctx,
		`UPDATE evacuation_registrations er
		 SET profile_snapshot = jsonb_set(COALESCE(er.profile_snapshot, '{}'::jsonb),
		                                  '{relationship_to_family_head}', to_jsonb($1::text)),
		     updated_at = CURRENT_TIMESTAMP
		 FROM evacuee_residents ev
		 WHERE ev.id = er.evacuee_resident_id
		   AND ev.resident_id = $2
		   AND er.disaster_evacuation_event_id = $3`,
		p.OldHeadNewRelationship, p.OldHeadResidentID, p.EventID)
	if err != nil {
		return 0, fmt.Errorf("patch old head snapshot: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return newHeadID, nil
}

// ListForSearch fetches the full registrations join for the name-search read
// model, event-scoped names first so snapshot corrections are searchable. A
// cleared suffix stays cleared instead of falling back to the global one.
func (r *RegistrationRepository) ListForSearch(ctx context.Context) ([]models.EvacueeSearchRow, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT er.id, er.evacuee_resident_id, rs.id, er.disaster_evacuation_event_id, er.family_head_id,
		        COALESCE(er.profile_snapshot->>'first_name', rs.first_name),
		        COALESCE(er.profile_snapshot->>'middle_name', rs.middle_name, ''),
		        COALESCE(er.profile_snapshot->>'last_name', rs.last_name),
		        CASE WHEN er.profile_snapshot ? 'suffix'
		             THEN er.profile_snapshot->>'suffix' ELSE rs.suffix END,
		        COALESCE(er.profile_snapshot->>'sex', rs.sex),
		        rs.birthdate, er.arrival_timestamp, er.decampment_timestamp
		 FROM evacuation_registrations er
		 JOIN evacuee_residents ev ON ev.id = er.evacuee_resident_id
		 JOIN residents rs ON rs.id = ev.resident_id
		 ORDER BY er.arrival_timestamp DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.EvacueeSearchRow
	for rows.Next() {
		var row models.EvacueeSearchRow
		err := rows.Scan(&row.RegistrationID, &row.EvacueeResidentID, &row.ResidentID,
			&row.DisasterEvacuationEventID, &row.FamilyHeadID,
			&row.FirstName, &row.MiddleName, &row.LastName, &row.Suffix, &row.Sex,
			&row.Birthdate, &row.ArrivalTimestamp, &row.DecampmentTimestamp)
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// ListEventRows fetches every registration of an event with snapshot-first
// fields, the head's name and the room, feeding the family-grouped read
// model and the demographic statistics.
func (r *RegistrationRepository) ListEventRows(ctx context.Context, eventID int) ([]models.EventRegistrationRow, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT er.id, er.evacuee_resident_id, er.family_head_id,
		        fh.resident_id,
		        TRIM(CONCAT(hr.first_name, ' ', hr.last_name)),
		        COALESCE(er.profile_snapshot->>'first_name', rs.first_name),
		        COALESCE(er.profile_snapshot->>'middle_name', rs.middle_name, ''),
		        COALESCE(er.profile_snapshot->>'last_name', rs.last_name),
		        CASE WHEN er.profile_snapshot ? 'suffix'
		             THEN er.profile_snapshot->>'suffix' ELSE rs.suffix END,
		        COALESCE(er.profile_snapshot->>'sex', rs.sex),
		        rs.birthdate,
		        COALESCE(er.profile_snapshot->>'relationship_to_family_head',
		                 ev.relationship_to_family_head),
		        er.reported_age_at_arrival,
		        er.ec_rooms_id, rm.room_name,
		        er.arrival_timestamp, er.decampment_timestamp,
		        er.vulnerability_type_ids
		 FROM evacuation_registrations er
		 JOIN evacuee_residents ev ON ev.id = er.evacuee_resident_id
		 JOIN residents rs ON rs.id = ev.resident_id
		 JOIN family_heads fh ON fh.id = er.family_head_id
		 JOIN residents hr ON hr.id = fh.resident_id
		 LEFT JOIN ec_rooms rm ON rm.id = er.ec_rooms_id
		 WHERE er.disaster_evacuation_event_id = $1
		 ORDER BY er.family_head_id, er.arrival_timestamp ASC`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.EventRegistrationRow
	for rows.Next() {
		var row models.EventRegistrationRow
		err := rows.Scan(&row.RegistrationID, &row.EvacueeResidentID, &row.FamilyHeadID,
			&row.HeadResidentID, &row.HeadFullName,
			&row.FirstName, &row.MiddleName, &row.LastName, &row.Suffix, &row.Sex,
			&row.Birthdate, &row.RelationshipToFamilyHead, &row.ReportedAgeAtArrival,
			&row.ECRoomID, &row.RoomName,
			&row.ArrivalTimestamp, &row.DecampmentTimestamp,
			&row.VulnerabilityTypeIDs)
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// SearchFamilyHeads finds family heads with registrations in the event whose
// head name matches the substring, for the "join an existing family" path.
func (r *RegistrationRepository) SearchFamilyHeads(ctx context.Context, eventID int, query string) ([]models.FamilyHeadSearchResult, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT fh.id, fh.resident_id,
		        TRIM(CONCAT(hr.first_name, ' ', COALESCE(hr.middle_name || ' ', ''), hr.last_name)),
		        MIN(rm.room_name),
		        COUNT(*) FILTER (WHERE er.decampment_timestamp IS NULL)
		 FROM evacuation_registrations er
		 JOIN family_heads fh ON fh.id = er.family_head_id
		 JOIN residents hr ON hr.id = fh.resident_id
		 LEFT JOIN ec_rooms rm ON rm.id = er.ec_rooms_id
		 WHERE er.disaster_evacuation_event_id = $1
		   AND (hr.first_name ILIKE '%' || $2 || '%'
		        OR hr.last_name ILIKE '%' || $2 || '%'
		        OR CONCAT(hr.first_name, ' ', hr.last_name) ILIKE '%' || $2 || '%')
		 GROUP BY fh.id, fh.resident_id, hr.first_name, hr.middle_name, hr.last_name
		 ORDER BY 3 ASC`, eventID, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.FamilyHeadSearchResult
	for rows.Next() {
		var hit models.FamilyHeadSearchResult
		err := rows.Scan(&hit.FamilyHeadID, &hit.ResidentID, &hit.FullName,
			&hit.RoomName, &hit.ActiveMembers)
		if err != nil {
			return nil, err
		}
		result = append(result, hit)
	}
	return result, rows.Err()
}
