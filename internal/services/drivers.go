package services

import (
	"sort"
	"time"

	"transport-roadmap-service/internal/domain"
)

type busyInterval struct {
	start time.Time
	end   time.Time
}

// AssignDrivers fills in a driver for every roadmap whose vehicle carried
// no default driver, without creating schedule conflicts. Regular drivers
// are exhausted before on-call drivers are touched; within a pool the
// least-loaded available driver wins. A roadmap for which neither pool has
// a free driver stays driverless; the caller persists it flagged for
// manual assignment, this is not an error.
func AssignDrivers(roadmaps []*domain.Roadmap, drivers []*domain.Driver, onCallIDs map[int]bool) {
	var regular, onCall []*domain.Driver
	for _, d := range drivers {
		if onCallIDs[d.ID] {
			onCall = append(onCall, d)
		} else {
			regular = append(regular, d)
		}
	}

	// seed occupancy with the roadmaps already holding a default driver
	schedules := make(map[int][]busyInterval, len(drivers))
	for _, d := range drivers {
		schedules[d.ID] = nil
	}
	for _, r := range roadmaps {
		if r.DriverID != nil {
			schedules[*r.DriverID] = append(schedules[*r.DriverID], busyInterval{r.Departure, r.Arrival})
		}
	}

	pending := make([]*domain.Roadmap, 0, len(roadmaps))
	for _, r := range roadmaps {
		if r.DriverID == nil {
			pending = append(pending, r)
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].Departure.Before(pending[j].Departure)
	})

	for _, r := range pending {
		driver := pickDriver(regular, schedules, r)
		if driver == nil {
			driver = pickDriver(onCall, schedules, r)
		}
		if driver == nil {
			continue
		}
		id := driver.ID
		r.DriverID = &id
		schedules[id] = append(schedules[id], busyInterval{r.Departure, r.Arrival})
	}
}

// pickDriver returns the least-loaded pool member free during the
// roadmap's [departure, arrival) window, or nil when everyone is busy.
func pickDriver(pool []*domain.Driver, schedules map[int][]busyInterval, r *domain.Roadmap) *domain.Driver {
	var best *domain.Driver
	for _, d := range pool {
		if !available(schedules[d.ID], r.Departure, r.Arrival) {
			continue
		}
		if best == nil || len(schedules[d.ID]) < len(schedules[best.ID]) {
			best = d
		}
	}
	return best
}

// available reports whether none of the busy intervals intersect [start,
// end). Intervals that merely touch do not conflict.
func available(busy []busyInterval, start, end time.Time) bool {
	for _, b := range busy {
		if start.Before(b.end) && b.start.Before(end) {
			return false
		}
	}
	return true
}
