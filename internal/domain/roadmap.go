package domain

import (
	"time"

	"github.com/google/uuid"
)

// Represents a generated vehicle trip covering one or more appointments.
// A Roadmap is the output of the suggestion engine and describes which
// vehicle transports which appointments between concrete departure and
// arrival timestamps. DriverID stays nil until a driver is assigned; a
// persisted roadmap without a driver is flagged downstream for manual
// follow-up.
type Roadmap struct {
	ID           string
	DriverID     *int
	VehicleID    int
	Departure    time.Time
	Arrival      time.Time
	Appointments []*Appointment
}

func NewRoadmap(vehicleID int, driverID *int, departure, arrival time.Time, appointments []*Appointment) *Roadmap {
	return &Roadmap{
		ID:           uuid.NewString(),
		DriverID:     driverID,
		VehicleID:    vehicleID,
		Departure:    departure,
		Arrival:      arrival,
		Appointments: appointments,
	}
}

// PassengerCount sums the seats occupied by all transported appointments.
// Invariant: never exceeds the assigned vehicle's capacity.
func (r *Roadmap) PassengerCount() int {
	total := 0
	for _, a := range r.Appointments {
		total += a.PassengerCount()
	}
	return total
}

// Overlaps reports whether two roadmaps occupy intersecting [departure,
// arrival) intervals. Touching endpoints do not conflict.
func (r *Roadmap) Overlaps(other *Roadmap) bool {
	return r.Departure.Before(other.Arrival) && other.Departure.Before(r.Arrival)
}
