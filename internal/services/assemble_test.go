package services

import (
	"errors"
	"testing"
	"time"

	"transport-roadmap-service/internal/domain"
)

func intPtr(v int) *int { return &v }

func TestSelectVehiclePrefersDefaultDriverThenCapacity(t *testing.T) {
	vehicles := []*domain.Vehicle{
		{ID: 1, Capacity: 8},
		{ID: 2, Capacity: 4, DefaultDriverID: intPtr(10)},
		{ID: 3, Capacity: 6, DefaultDriverID: intPtr(11)},
	}

	v, err := SelectVehicle(vehicles, map[int]bool{}, 2)
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	// vehicle 3: has a default driver and the larger capacity among those
	if v.ID != 3 {
		t.Errorf("selected vehicle %d, want 3", v.ID)
	}

	v, err = SelectVehicle(vehicles, map[int]bool{2: true, 3: true}, 2)
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if v.ID != 1 {
		t.Errorf("selected vehicle %d, want 1 (only unused one left)", v.ID)
	}
}

func TestSelectVehicleSkipsUndersizedAndReportsExhaustion(t *testing.T) {
	vehicles := []*domain.Vehicle{
		{ID: 1, Capacity: 2},
		{ID: 2, Capacity: 4},
	}

	v, err := SelectVehicle(vehicles, map[int]bool{}, 3)
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if v.ID != 2 {
		t.Errorf("selected vehicle %d, want 2", v.ID)
	}

	_, err = SelectVehicle(vehicles, map[int]bool{2: true}, 3)
	var inputErr *InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("got %v, want *InputError", err)
	}
}

func TestAssembleRoadmapSingleStop(t *testing.T) {
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	appt := appointmentAt(1, 0.1, 0, 10, 0, false)

	matrix := domain.NewTravelTimeMatrix(2)
	matrix.Set(0, 1, 600)

	vehicle := &domain.Vehicle{ID: 7, Capacity: 4}
	r := AssembleRoadmap(date, []*domain.Appointment{appt}, vehicle, matrix, map[int]int{1: 1})

	wantDeparture := time.Date(2026, 3, 14, 9, 35, 0, 0, time.UTC)
	wantArrival := time.Date(2026, 3, 14, 10, 40, 0, 0, time.UTC)

	if !r.Departure.Equal(wantDeparture) {
		t.Errorf("departure = %v, want %v", r.Departure, wantDeparture)
	}
	if !r.Arrival.Equal(wantArrival) {
		t.Errorf("arrival = %v, want %v", r.Arrival, wantArrival)
	}
	if r.VehicleID != 7 {
		t.Errorf("vehicle = %d, want 7", r.VehicleID)
	}
	if r.ID == "" {
		t.Error("roadmap id not assigned")
	}
}

func TestAssembleRoadmapAddsSlackPerExtraStop(t *testing.T) {
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	stops := []*domain.Appointment{
		appointmentAt(1, 0.1, 0, 10, 0, false),
		appointmentAt(2, 0.2, 0, 10, 20, false),
	}

	matrix := domain.NewTravelTimeMatrix(3)
	matrix.Set(0, 1, 600)
	matrix.Set(0, 2, 480)
	matrix.Set(1, 2, 300)

	vehicle := &domain.Vehicle{ID: 1, Capacity: 4, DefaultDriverID: intPtr(5)}
	r := AssembleRoadmap(date, stops, vehicle, matrix, map[int]int{1: 1, 2: 2})

	// 10:00 minus 15min margin, 600s depot leg, one 10min extra-stop slack
	wantDeparture := time.Date(2026, 3, 14, 9, 25, 0, 0, time.UTC)
	// 10:20 plus 30min duration plus 480s return leg
	wantArrival := time.Date(2026, 3, 14, 10, 58, 0, 0, time.UTC)

	if !r.Departure.Equal(wantDeparture) {
		t.Errorf("departure = %v, want %v", r.Departure, wantDeparture)
	}
	if !r.Arrival.Equal(wantArrival) {
		t.Errorf("arrival = %v, want %v", r.Arrival, wantArrival)
	}
	if r.DriverID == nil || *r.DriverID != 5 {
		t.Errorf("driver = %v, want default driver 5", r.DriverID)
	}
}

func TestAssembleRoadmapPinsTimesToTargetDate(t *testing.T) {
	// appointment record carries a different calendar day than the run date
	date := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	appt := appointmentAt(1, 0.1, 0, 10, 0, false)

	matrix := domain.NewTravelTimeMatrix(2)
	matrix.Set(0, 1, 600)

	r := AssembleRoadmap(date, []*domain.Appointment{appt}, &domain.Vehicle{ID: 1, Capacity: 4}, matrix, map[int]int{1: 1})

	if r.Departure.Day() != 20 || r.Arrival.Day() != 20 {
		t.Errorf("timestamps not pinned to target date: departure %v arrival %v", r.Departure, r.Arrival)
	}
}
