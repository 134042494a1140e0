package models

import "time"

// EvacueeResident is the global evacuee identity wrapping one resident. It
// carries the semi-stable attributes plus the evacuee's default (home) family
// head and relationship. Created once, the first time a resident is
// registered anywhere, and reused for every later event.
type EvacueeResident struct {
	ID                       int       `json:"id"`
	ResidentID               int       `json:"resident_id"`
	MaritalStatus            string    `json:"marital_status"`
	EducationalAttainment    string    `json:"educational_attainment"`
	SchoolOfOrigin           string    `json:"school_of_origin"`
	Occupation               string    `json:"occupation"`
	Purok                    string    `json:"purok"`
	FamilyHeadID             int       `json:"family_head_id"`
	RelationshipToFamilyHead string    `json:"relationship_to_family_head"`
	DateRegistered           time.Time `json:"date_registered"`
}

// EvacueeWithResident joins the evacuee identity with its resident row, the
// shape the registration engine works with.
type EvacueeWithResident struct {
	EvacueeResident
	Resident Resident `json:"resident"`
}

// RegisterEvacueeRequest is the body of POST /api/v1/evacuees. Either
// ExistingEvacueeResidentID is set (reuse branch) or the full person profile
// is (create-new branch).
type RegisterEvacueeRequest struct {
	ExistingEvacueeResidentID *int `json:"existing_evacuee_resident_id,omitempty"`
	DisasterEvacuationEventID int  `json:"disaster_evacuation_event_id"`
	ECRoomID                  *int `json:"ec_rooms_id,omitempty"`

	FirstName          string  `json:"first_name"`
	MiddleName         string  `json:"middle_name"`
	LastName           string  `json:"last_name"`
	Suffix             *string `json:"suffix"`
	Birthdate          string  `json:"birthdate"`
	Sex                string  `json:"sex"`
	BarangayOfOriginID int     `json:"barangay_of_origin"`

	MaritalStatus            string `json:"marital_status"`
	EducationalAttainment    string `json:"educational_attainment"`
	SchoolOfOrigin           string `json:"school_of_origin"`
	Occupation               string `json:"occupation"`
	Purok                    string `json:"purok"`
	RelationshipToFamilyHead string `json:"relationship_to_family_head"`
	FamilyHeadID             *int   `json:"family_head_id,omitempty"`

	Vulnerabilities VulnerabilityFlags `json:"vulnerabilities"`
}

// UpdateEvacueeRequest is the body of PUT /api/v1/evacuees/{id}. Every
// profile field is optional; presence is tracked so an explicit null clears
// the event-scoped value instead of falling back to the global one.
type UpdateEvacueeRequest struct {
	DisasterEvacuationEventID int    `json:"disaster_evacuation_event_id"`
	ECRoomID                  OptInt `json:"ec_rooms_id"`

	FirstName          OptString `json:"first_name"`
	MiddleName         OptString `json:"middle_name"`
	LastName           OptString `json:"last_name"`
	Suffix             OptString `json:"suffix"`
	Birthdate          OptString `json:"birthdate"`
	Sex                OptString `json:"sex"`
	BarangayOfOriginID OptInt    `json:"barangay_of_origin"`

	MaritalStatus            OptString `json:"marital_status"`
	EducationalAttainment    OptString `json:"educational_attainment"`
	SchoolOfOrigin           OptString `json:"school_of_origin"`
	Occupation               OptString `json:"occupation"`
	Purok                    OptString `json:"purok"`
	RelationshipToFamilyHead OptString `json:"relationship_to_family_head"`
	FamilyHeadID             OptInt    `json:"family_head_id"`

	Vulnerabilities *VulnerabilityFlags `json:"vulnerabilities,omitempty"`
}

// RegisterEvacueeResponse is the 201 payload for a successful registration.
type RegisterEvacueeResponse struct {
	Evacuee      *EvacueeWithResident    `json:"evacuee"`
	Registration *EvacuationRegistration `json:"registration"`
}

// UpdateEvacueeResponse is the payload for a successful event-scoped update.
type UpdateEvacueeResponse struct {
	EvacueeID    int `json:"evacuee_id"`
	FamilyHeadID int `json:"family_head_id"`
}
