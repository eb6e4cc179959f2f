package domain

import "time"

// Represents a single patient-transport need at a specific time and place.
// Appointments are created by the scheduling CRUD flows and consumed
// read-only by the optimizer while RoadmapID is nil; the optimizer's caller
// sets RoadmapID when persisting a generated roadmap.
type Appointment struct {
	ID         int
	At         time.Time
	Location   Coordinate
	Duration   time.Duration
	HasPatient bool
	Companions int
	Sensitive  bool
	RoadmapID  *string
}

// PassengerCount returns the number of seats this appointment occupies:
// the patient plus companions, or zero when no patient is attached.
func (a *Appointment) PassengerCount() int {
	if !a.HasPatient {
		return 0
	}
	return 1 + a.Companions
}
