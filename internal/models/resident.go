package models

import "time"

// Resident is the global, event-independent identity of a person. A resident
// is created once and reused for every disaster the person shows up in;
// event-scoped corrections live in the registration's profile snapshot, never
// here.
type Resident struct {
	ID                 int       `json:"id"`
	FirstName          string    `json:"first_name"`
	MiddleName         string    `json:"middle_name"`
	LastName           string    `json:"last_name"`
	Suffix             *string   `json:"suffix"`
	Birthdate          time.Time `json:"birthdate"`
	Sex                string    `json:"sex"`
	BarangayOfOriginID int       `json:"barangay_of_origin"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// FullName concatenates the name parts, skipping empty ones.
func (r *Resident) FullName() string {
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

// AgeAt computes full years between a birthdate and a reference time,
// month/day aware and clamped at zero.
func AgeAt(birthdate, at time.Time) int {
	age := at.Year() - birthdate.Year()
	if at.Month() < birthdate.Month() ||
		(at.Month() == birthdate.Month() && at.Day() < birthdate.Day()) {
		age--
	}
	if age < 0 {
		age = 0
	}
	return age
}

// NormalizeSuffix maps blank suffixes to nil so "" and null are stored the
// same way.
func NormalizeSuffix(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

type Barangay struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
