package models

// ProfileSnapshot is the event-scoped override of an evacuee's profile,
// persisted as jsonb on the registration row. A snapshot is written complete
// at registration time (payload fields over global fields), so a name
// correction for one disaster never leaks into another event or into the
// global resident row. Suffix has no omitempty: a cleared suffix must persist
// as an explicit null rather than disappearing and falling back to the
// global value.
type ProfileSnapshot struct {
	FirstName                *string `json:"first_name,omitempty"`
	MiddleName               *string `json:"middle_name,omitempty"`
	LastName                 *string `json:"last_name,omitempty"`
	Suffix                   *string `json:"suffix"`
	Birthdate                *string `json:"birthdate,omitempty"`
	Sex                      *string `json:"sex,omitempty"`
	BarangayOfOriginID       *int    `json:"barangay_of_origin,omitempty"`
	Purok                    *string `json:"purok,omitempty"`
	MaritalStatus            *string `json:"marital_status,omitempty"`
	EducationalAttainment    *string `json:"educational_attainment,omitempty"`
	SchoolOfOrigin           *string `json:"school_of_origin,omitempty"`
	Occupation               *string `json:"occupation,omitempty"`
	RelationshipToFamilyHead *string `json:"relationship_to_family_head,omitempty"`
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

// SnapshotFromGlobals builds a complete snapshot from the global resident and
// evacuee rows. Register flows start from this and layer payload overrides on
// top.
func SnapshotFromGlobals(res *Resident, ev *EvacueeResident) ProfileSnapshot {
	return ProfileSnapshot{
		FirstName:                strPtr(res.FirstName),
		MiddleName:               strPtr(res.MiddleName),
		LastName:                 strPtr(res.LastName),
		Suffix:                   NormalizeSuffix(res.Suffix),
		Birthdate:                strPtr(res.Birthdate.Format("2006-01-02")),
		Sex:                      strPtr(res.Sex),
		BarangayOfOriginID:       intPtr(res.BarangayOfOriginID),
		Purok:                    strPtr(ev.Purok),
		MaritalStatus:            strPtr(ev.MaritalStatus),
		EducationalAttainment:    strPtr(ev.EducationalAttainment),
		SchoolOfOrigin:           strPtr(ev.SchoolOfOrigin),
		Occupation:               strPtr(ev.Occupation),
		RelationshipToFamilyHead: strPtr(ev.RelationshipToFamilyHead),
	}
}

// ApplyUpdate merges an update request into the snapshot. Only fields present
// in the request are touched; an explicit null clears the field (suffix is
// the practical case) instead of restoring the global fallback.
func (s *ProfileSnapshot) ApplyUpdate(req *UpdateEvacueeRequest) {
	applyStr(&s.FirstName, req.FirstName)
	applyStr(&s.MiddleName, req.MiddleName)
	applyStr(&s.LastName, req.LastName)
	applyStr(&s.Suffix, req.Suffix)
	applyStr(&s.Birthdate, req.Birthdate)
	applyStr(&s.Sex, req.Sex)
	applyInt(&s.BarangayOfOriginID, req.BarangayOfOriginID)
	applyStr(&s.Purok, req.Purok)
	applyStr(&s.MaritalStatus, req.MaritalStatus)
	applyStr(&s.EducationalAttainment, req.EducationalAttainment)
	applyStr(&s.SchoolOfOrigin, req.SchoolOfOrigin)
	applyStr(&s.Occupation, req.Occupation)
	applyStr(&s.RelationshipToFamilyHead, req.RelationshipToFamilyHead)
	s.Suffix = NormalizeSuffix(s.Suffix)
}

func applyStr(dst **string, v OptString) {
	if !v.Set {
		return
	}
	*dst = v.Ptr()
}

func applyInt(dst **int, v OptInt) {
	if !v.Set {
		return
	}
	*dst = v.Ptr()
}

// Relationship returns the event-scoped role, falling back to the global
// default when the snapshot has none.
func (s ProfileSnapshot) Relationship(fallback string) string {
	if s.RelationshipToFamilyHead != nil && *s.RelationshipToFamilyHead != "" {
		return *s.RelationshipToFamilyHead
	}
	return fallback
}

// EvacueeProfileView is the merged, event-first edit view of an evacuee.
type EvacueeProfileView struct {
	EvacueeResidentID         int                `json:"evacuee_resident_id"`
	ResidentID                int                `json:"resident_id"`
	DisasterEvacuationEventID int                `json:"disaster_evacuation_event_id"`
	FirstName                 string             `json:"first_name"`
	MiddleName                string             `json:"middle_name"`
	LastName                  string             `json:"last_name"`
	Suffix                    *string            `json:"suffix"`
	Birthdate                 string             `json:"birthdate"`
	Sex                       string             `json:"sex"`
	BarangayOfOriginID        int                `json:"barangay_of_origin"`
	Purok                     string             `json:"purok"`
	MaritalStatus             string             `json:"marital_status"`
	EducationalAttainment     string             `json:"educational_attainment"`
	SchoolOfOrigin            string             `json:"school_of_origin"`
	Occupation                string             `json:"occupation"`
	RelationshipToFamilyHead  string             `json:"relationship_to_family_head"`
	FamilyHeadID              int                `json:"family_head_id"`
	ECRoomID                  *int               `json:"ec_rooms_id"`
	Vulnerabilities           VulnerabilityFlags `json:"vulnerabilities"`
}

// View resolves the merged edit view: snapshot value when present, global
// value otherwise. hasSnapshot distinguishes "registered in this event" (the
// suffix in the snapshot is authoritative, null included) from "no
// registration yet" (everything global).
func (s ProfileSnapshot) View(res *Resident, ev *EvacueeResident, hasSnapshot bool) EvacueeProfileView {
	view := EvacueeProfileView{
		EvacueeResidentID:        ev.ID,
		ResidentID:               res.ID,
		FirstName:                res.FirstName,
		MiddleName:               res.MiddleName,
		LastName:                 res.LastName,
		Suffix:                   NormalizeSuffix(res.Suffix),
		Birthdate:                res.Birthdate.Format("2006-01-02"),
		Sex:                      res.Sex,
		BarangayOfOriginID:       res.BarangayOfOriginID,
		Purok:                    ev.Purok,
		MaritalStatus:            ev.MaritalStatus,
		EducationalAttainment:    ev.EducationalAttainment,
		SchoolOfOrigin:           ev.SchoolOfOrigin,
		Occupation:               ev.Occupation,
		RelationshipToFamilyHead: ev.RelationshipToFamilyHead,
		FamilyHeadID:             ev.FamilyHeadID,
	}
	if !hasSnapshot {
		return view
	}
	if s.FirstName != nil {
		view.FirstName = *s.FirstName
	}
	if s.MiddleName != nil {
		view.MiddleName = *s.MiddleName
	}
	if s.LastName != nil {
		view.LastName = *s.LastName
	}
	view.Suffix = s.Suffix
	if s.Birthdate != nil {
		view.Birthdate = *s.Birthdate
	}
	if s.Sex != nil {
		view.Sex = *s.Sex
	}
	if s.BarangayOfOriginID != nil {
		view.BarangayOfOriginID = *s.BarangayOfOriginID
	}
	if s.Purok != nil {
		view.Purok = *s.Purok
	}
	if s.MaritalStatus != nil {
		view.MaritalStatus = *s.MaritalStatus
	}
	if s.EducationalAttainment != nil {
		view.EducationalAttainment = *s.EducationalAttainment
	}
	if s.SchoolOfOrigin != nil {
		view.SchoolOfOrigin = *s.SchoolOfOrigin
	}
	if s.Occupation != nil {
		view.Occupation = *s.Occupation
	}
	if s.RelationshipToFamilyHead != nil {
		view.RelationshipToFamilyHead = *s.RelationshipToFamilyHead
	}
	return view
}
