package services

import (
	"testing"
	"time"

	"transport-roadmap-service/internal/domain"
)

func roadmapBetween(vehicleID int, driverID *int, depHour, depMin, arrHour, arrMin int) *domain.Roadmap {
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	return domain.NewRoadmap(
		vehicleID,
		driverID,
		day.Add(time.Duration(depHour)*time.Hour+time.Duration(depMin)*time.Minute),
		day.Add(time.Duration(arrHour)*time.Hour+time.Duration(arrMin)*time.Minute),
		nil,
	)
}

func TestAssignDriversExhaustsRegularsBeforeOnCall(t *testing.T) {
	roadmaps := []*domain.Roadmap{
		roadmapBetween(1, nil, 9, 0, 11, 0),
		roadmapBetween(2, nil, 9, 30, 11, 30),
	}
	drivers := []*domain.Driver{
		{ID: 1, Name: "Ana"},
		{ID: 2, Name: "Bruno"},
	}

	AssignDrivers(roadmaps, drivers, map[int]bool{2: true})

	if roadmaps[0].DriverID == nil || *roadmaps[0].DriverID != 1 {
		t.Errorf("first roadmap driver = %v, want regular driver 1", roadmaps[0].DriverID)
	}
	// regular pool is busy, overlap forces the on-call driver
	if roadmaps[1].DriverID == nil || *roadmaps[1].DriverID != 2 {
		t.Errorf("second roadmap driver = %v, want on-call driver 2", roadmaps[1].DriverID)
	}
}

func TestAssignDriversPicksLeastLoaded(t *testing.T) {
	roadmaps := []*domain.Roadmap{
		roadmapBetween(1, nil, 8, 0, 9, 0),
		roadmapBetween(2, nil, 10, 0, 11, 0),
		roadmapBetween(3, nil, 12, 0, 13, 0),
	}
	drivers := []*domain.Driver{
		{ID: 1, Name: "Ana"},
		{ID: 2, Name: "Bruno"},
	}

	AssignDrivers(roadmaps, drivers, nil)

	counts := map[int]int{}
	for _, r := range roadmaps {
		if r.DriverID == nil {
			t.Fatalf("roadmap for vehicle %d left driverless", r.VehicleID)
		}
		counts[*r.DriverID]++
	}
	// three non-overlapping trips over two drivers: load spreads 2/1
	if counts[1]+counts[2] != 3 || counts[1] > 2 || counts[2] > 2 {
		t.Errorf("unbalanced assignment: %v", counts)
	}
}

func TestAssignDriversAllowsBackToBackTrips(t *testing.T) {
	roadmaps := []*domain.Roadmap{
		roadmapBetween(1, nil, 9, 0, 11, 0),
		roadmapBetween(2, nil, 11, 0, 13, 0), // starts exactly when the first ends
	}
	drivers := []*domain.Driver{{ID: 1, Name: "Ana"}}

	AssignDrivers(roadmaps, drivers, nil)

	for i, r := range roadmaps {
		if r.DriverID == nil || *r.DriverID != 1 {
			t.Errorf("roadmap %d driver = %v, want 1 (touching intervals do not conflict)", i, r.DriverID)
		}
	}
}

func TestAssignDriversRespectsDefaultDriverOccupancy(t *testing.T) {
	// driver 1 already committed via a vehicle default assignment
	roadmaps := []*domain.Roadmap{
		roadmapBetween(1, intPtr(1), 9, 0, 12, 0),
		roadmapBetween(2, nil, 10, 0, 11, 0),
	}
	drivers := []*domain.Driver{{ID: 1, Name: "Ana"}}

	AssignDrivers(roadmaps, drivers, nil)

	if roadmaps[1].DriverID != nil {
		t.Errorf("roadmap driver = %v, want nil (only driver is busy)", roadmaps[1].DriverID)
	}
}

func TestAssignDriversLeavesRoadmapDriverlessWhenNobodyFree(t *testing.T) {
	roadmaps := []*domain.Roadmap{
		roadmapBetween(1, nil, 9, 0, 11, 0),
		roadmapBetween(2, nil, 9, 30, 10, 30),
	}
	drivers := []*domain.Driver{{ID: 1, Name: "Ana"}}

	AssignDrivers(roadmaps, drivers, nil)

	if roadmaps[0].DriverID == nil {
		t.Fatal("first roadmap should get the only driver")
	}
	if roadmaps[1].DriverID != nil {
		t.Errorf("second roadmap driver = %v, want nil", roadmaps[1].DriverID)
	}
}
