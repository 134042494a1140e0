package models

import "time"

// FamilyHead is a thin indirection row keyed by resident. Registrations point
// at a family head id rather than a resident id so the head role can be
// transferred without touching historical rows one by one. Rows are created
// lazily the first time a resident becomes a head and are never deleted; a
// transfer abandons the old row rather than removing it.
type FamilyHead struct {
	ID         int       `json:"id"`
	ResidentID int       `json:"resident_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// RelationshipHead is the relationship value marking the head of a family.
const RelationshipHead = "Head"
