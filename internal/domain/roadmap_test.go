package domain

import (
	"testing"
	"time"
)

func TestAppointmentPassengerCount(t *testing.T) {
	withPatient := &Appointment{ID: 1, HasPatient: true, Companions: 2}
	if got := withPatient.PassengerCount(); got != 3 {
		t.Errorf("passenger count = %d, want 3", got)
	}

	noPatient := &Appointment{ID: 2, HasPatient: false, Companions: 2}
	if got := noPatient.PassengerCount(); got != 0 {
		t.Errorf("passenger count without patient = %d, want 0", got)
	}

	alone := &Appointment{ID: 3, HasPatient: true}
	if got := alone.PassengerCount(); got != 1 {
		t.Errorf("passenger count without companions = %d, want 1", got)
	}
}

func TestRoadmapPassengerCount(t *testing.T) {
	r := NewRoadmap(1, nil, time.Time{}, time.Time{}, []*Appointment{
		{ID: 1, HasPatient: true, Companions: 1},
		{ID: 2, HasPatient: true},
	})

	if got := r.PassengerCount(); got != 3 {
		t.Errorf("roadmap passenger count = %d, want 3", got)
	}
	if r.ID == "" {
		t.Error("roadmap ID must be generated")
	}
}

func TestRoadmapOverlaps(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	at := func(h, m int) time.Time { return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }

	a := &Roadmap{Departure: at(8, 0), Arrival: at(9, 0)}
	b := &Roadmap{Departure: at(8, 30), Arrival: at(9, 30)}
	c := &Roadmap{Departure: at(9, 0), Arrival: at(10, 0)}

	if !a.Overlaps(b) {
		t.Error("expected a and b to overlap")
	}
	if a.Overlaps(c) {
		t.Error("intervals touching at the boundary must not overlap")
	}
	if !b.Overlaps(c) {
		t.Error("expected b and c to overlap")
	}
}

func TestTravelTimeMatrixSymmetry(t *testing.T) {
	m := NewTravelTimeMatrix(3)
	m.Set(0, 1, 120)
	m.Set(1, 2, 300)

	if m.At(1, 0) != 120 || m.At(2, 1) != 300 {
		t.Errorf("matrix not mirrored: %v", m)
	}
	if m.At(0, 0) != 0 || m.At(1, 1) != 0 {
		t.Error("diagonal must stay zero")
	}
}
