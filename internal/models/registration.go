package models

import "time"

// EvacuationRegistration is the event-scoped fact row: one per
// (evacuee, disaster evacuation event) pair that is or was present. A null
// DecampmentTimestamp means the evacuee is currently inside the center. The
// global invariant: an evacuee has at most one registration with a null
// decampment across ALL events at any time.
type EvacuationRegistration struct {
	ID                        int             `json:"id"`
	EvacueeResidentID         int             `json:"evacuee_resident_id"`
	DisasterEvacuationEventID int             `json:"disaster_evacuation_event_id"`
	FamilyHeadID              int             `json:"family_head_id"`
	ECRoomID                  *int            `json:"ec_rooms_id"`
	ArrivalTimestamp          time.Time       `json:"arrival_timestamp"`
	DecampmentTimestamp       *time.Time      `json:"decampment_timestamp"`
	ReportedAgeAtArrival      int             `json:"reported_age_at_arrival"`
	ProfileSnapshot           ProfileSnapshot `json:"profile_snapshot"`
	VulnerabilityTypeIDs      []int           `json:"vulnerability_type_ids"`
	CreatedAt                 time.Time       `json:"created_at"`
	UpdatedAt                 time.Time       `json:"updated_at"`
}

// Active reports whether the evacuee is still present under this
// registration.
func (r *EvacuationRegistration) Active() bool {
	return r.DecampmentTimestamp == nil
}

// RegistrationPatch is the event-scoped partial update applied by the Update
// operation. Room is only changed when RoomSet is true.
type RegistrationPatch struct {
	FamilyHeadID         int
	ProfileSnapshot      ProfileSnapshot
	VulnerabilityTypeIDs []int
	RoomSet              bool
	ECRoomID             *int
}

// TransferHeadRequest is the body of POST
// /api/v1/evacuees/{eventId}/transfer-head.
type TransferHeadRequest struct {
	FromFamilyHeadID       int    `json:"from_family_head_id"`
	ToEvacueeResidentID    int    `json:"to_evacuee_resident_id"`
	OldHeadNewRelationship string `json:"old_head_new_relationship"`
}

// DecampFamilyRequest is the body of the decamp endpoint. A null or blank
// timestamp clears decampment for the whole family (re-activates them).
type DecampFamilyRequest struct {
	DecampmentTimestamp *string `json:"decampment_timestamp"`
}

// EvacueeSearchRow is one row of the cached name-search read model,
// snapshot-first so event-scoped name corrections are searchable.
type EvacueeSearchRow struct {
	RegistrationID            int        `json:"registration_id"`
	EvacueeResidentID         int        `json:"evacuee_resident_id"`
	ResidentID                int        `json:"resident_id"`
	DisasterEvacuationEventID int        `json:"disaster_evacuation_event_id"`
	FamilyHeadID              int        `json:"family_head_id"`
	FirstName                 string     `json:"first_name"`
	MiddleName                string     `json:"middle_name"`
	LastName                  string     `json:"last_name"`
	Suffix                    *string    `json:"suffix"`
	Sex                       string     `json:"sex"`
	Birthdate                 time.Time  `json:"birthdate"`
	ArrivalTimestamp          time.Time  `json:"arrival_timestamp"`
	DecampmentTimestamp       *time.Time `json:"decampment_timestamp"`
}

// FullName mirrors Resident.FullName for the search row.
func (r *EvacueeSearchRow) FullName() string {
	name := r.FirstName
	if r.MiddleName != "" {
		name += " " + r.MiddleName
	}
	name += " " + r.LastName
	if r.Suffix != nil && *r.Suffix != "" {
		name += " " + *r.Suffix
	}
	return name
}

// EventRegistrationRow is one member row of the per-event read models
// (family-grouped information and demographic statistics), already merged
// snapshot-first by the repository query.
type EventRegistrationRow struct {
	RegistrationID           int        `json:"registration_id"`
	EvacueeResidentID        int        `json:"evacuee_resident_id"`
	FamilyHeadID             int        `json:"family_head_id"`
	HeadResidentID           int        `json:"head_resident_id"`
	HeadFullName             string     `json:"head_full_name"`
	FirstName                string     `json:"first_name"`
	MiddleName               string     `json:"middle_name"`
	LastName                 string     `json:"last_name"`
	Suffix                   *string    `json:"suffix"`
	Sex                      string     `json:"sex"`
	Birthdate                time.Time  `json:"birthdate"`
	RelationshipToFamilyHead string     `json:"relationship_to_family_head"`
	ReportedAgeAtArrival     int        `json:"reported_age_at_arrival"`
	ECRoomID                 *int       `json:"ec_rooms_id"`
	RoomName                 *string    `json:"room_name"`
	ArrivalTimestamp         time.Time  `json:"arrival_timestamp"`
	DecampmentTimestamp      *time.Time `json:"decampment_timestamp"`
	VulnerabilityTypeIDs     []int      `json:"vulnerability_type_ids"`
}

// FamilyGroup is one family in the family-grouped event read model.
type FamilyGroup struct {
	FamilyHeadID   int                    `json:"family_head_id"`
	HeadResidentID int                    `json:"head_resident_id"`
	HeadFullName   string                 `json:"head_full_name"`
	RoomName       *string                `json:"room_name"`
	Decamped       bool                   `json:"decamped"`
	TotalMembers   int                    `json:"total_members"`
	ActiveMembers  int                    `json:"active_members"`
	Members        []EventRegistrationRow `json:"members"`
}

// EvacueeStatistics is the pre-aggregated demographic summary for an event.
type EvacueeStatistics struct {
	DisasterEvacuationEventID int            `json:"disaster_evacuation_event_id"`
	TotalFamilies             int            `json:"total_families"`
	TotalEvacuees             int            `json:"total_evacuees"`
	ActiveEvacuees            int            `json:"active_evacuees"`
	DecampedEvacuees          int            `json:"decamped_evacuees"`
	Male                      int            `json:"male"`
	Female                    int            `json:"female"`
	Vulnerabilities           map[string]int `json:"vulnerabilities"`
}

// FamilyHeadSearchResult is one hit of the in-event family head search.
type FamilyHeadSearchResult struct {
	FamilyHeadID  int     `json:"family_head_id"`
	ResidentID    int     `json:"resident_id"`
	FullName      string  `json:"full_name"`
	RoomName      *string `json:"room_name"`
	ActiveMembers int     `json:"active_members"`
}
