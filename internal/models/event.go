package models

import "time"

// Disaster is descriptive metadata about a declared disaster.
type Disaster struct {
	ID           int        `json:"id"`
	DisasterName string     `json:"disaster_name"`
	DisasterType string     `json:"disaster_type"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
}

// EvacuationCenter is the physical site rooms belong to.
type EvacuationCenter struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	BarangayID int    `json:"barangay_id"`
}

// DisasterEvacuationEvent activates one evacuation center for one disaster;
// registrations are scoped to it.
type DisasterEvacuationEvent struct {
	ID                  int        `json:"id"`
	DisasterID          int        `json:"disaster_id"`
	EvacuationCenterID  int        `json:"evacuation_center_id"`
	AssignedUserID      *int       `json:"assigned_user_id"`
	EvacuationStartDate time.Time  `json:"evacuation_start_date"`
	EvacuationEndDate   *time.Time `json:"evacuation_end_date"`
}

// EventWithDisaster joins the event with its disaster and center metadata
// for response payloads and decampment validation.
type EventWithDisaster struct {
	DisasterEvacuationEvent
	Disaster Disaster         `json:"disaster"`
	Center   EvacuationCenter `json:"evacuation_center"`
}

// ECRoom is one room of an evacuation center.
type ECRoom struct {
	ID                 int    `json:"id"`
	EvacuationCenterID int    `json:"evacuation_center_id"`
	RoomName           string `json:"room_name"`
	Capacity           int    `json:"individual_room_capacity"`
}

// RoomAvailability is a room plus its live occupancy for an event.
type RoomAvailability struct {
	ID        int    `json:"id"`
	RoomName  string `json:"room_name"`
	Capacity  int    `json:"capacity"`
	Occupied  int    `json:"occupied"`
	Available int    `json:"available"`
}
