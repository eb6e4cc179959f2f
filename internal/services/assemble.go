package services

import (
	"fmt"
	"time"

	"transport-roadmap-service/internal/domain"
)

// Fixed scheduling margins: a vehicle must reach an appointment 15 minutes
// early, and every stop beyond the first adds 10 minutes of unmodeled
// boarding overhead to the departure estimate.
const (
	arrivalMargin    = 15 * time.Minute
	extraStopSlack   = 10 * time.Minute
	earliestBeforeAt = 90 * time.Minute
)

// SelectVehicle picks the best still-unused vehicle able to carry the
// given passenger count: vehicles with a default driver win over vehicles
// without one, then higher capacity wins. Returns an InputError when the
// fleet has nothing left that fits.
func SelectVehicle(vehicles []*domain.Vehicle, used map[int]bool, passengers int) (*domain.Vehicle, error) {
	var best *domain.Vehicle
	for _, v := range vehicles {
		if used[v.ID] || v.Capacity < passengers {
			continue
		}
		if best == nil || vehiclePreferred(v, best) {
			best = v
		}
	}
	if best == nil {
		return nil, &InputError{Reason: fmt.Sprintf(
			"no vehicle available with capacity for %d passengers", passengers,
		)}
	}
	return best, nil
}

func vehiclePreferred(candidate, current *domain.Vehicle) bool {
	candidateHasDriver := candidate.DefaultDriverID != nil
	currentHasDriver := current.DefaultDriverID != nil
	if candidateHasDriver != currentHasDriver {
		return candidateHasDriver
	}
	return candidate.Capacity > current.Capacity
}

// AssembleRoadmap converts one solved route (appointments in visit order)
// plus its vehicle into a Roadmap with concrete timestamps.
//
// Departure backs off from the earliest appointment: the 15-minute arrival
// margin, the depot leg, and 10 minutes per extra stop. Arrival extends
// the latest appointment by its expected duration plus the return leg.
// Both are re-anchored onto the target date (the optimizer works within a
// single calendar day).
func AssembleRoadmap(
	date time.Time,
	stops []*domain.Appointment,
	vehicle *domain.Vehicle,
	matrix domain.TravelTimeMatrix,
	nodeIndex map[int]int,
) *domain.Roadmap {
	first := stops[0]
	last := stops[0]
	for _, a := range stops[1:] {
		if a.At.Before(first.At) {
			first = a
		}
		if a.At.After(last.At) {
			last = a
		}
	}

	depotLeg := time.Duration(matrix.At(0, nodeIndex[first.ID])) * time.Second
	departure := first.At.Add(-arrivalMargin).Add(-depotLeg)
	if len(stops) > 1 {
		departure = departure.Add(-time.Duration(len(stops)-1) * extraStopSlack)
	}

	returnLeg := time.Duration(matrix.At(nodeIndex[last.ID], 0)) * time.Second
	arrival := last.At.Add(last.Duration).Add(returnLeg)

	return domain.NewRoadmap(
		vehicle.ID,
		vehicle.DefaultDriverID,
		onDate(date, departure),
		onDate(date, arrival),
		stops,
	)
}

// onDate keeps the clock time of t but pins it to the target calendar day.
func onDate(date, t time.Time) time.Time {
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), t.Second(), 0,
		date.Location(),
	)
}
