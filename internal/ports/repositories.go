package ports

import (
	"context"
	"time"

	"transport-roadmap-service/internal/domain"
)

// Port: read access to the day's unscheduled transport appointments.
type AppointmentRepository interface {
	// Return appointments without a roadmap reference for the given
	// calendar date, with location and passenger data materialized.
	ListUnscheduled(ctx context.Context, date time.Time) ([]*domain.Appointment, error)
}

// Port: read access to the fleet registry (vehicles and drivers).
type FleetRepository interface {
	ListActiveVehicles(ctx context.Context) ([]*domain.Vehicle, error)
	ListActiveDrivers(ctx context.Context) ([]*domain.Driver, error)
}

// Port: persistence for generated roadmaps. SaveAll must be transactional:
// either every roadmap and its appointment back-references are written, or
// nothing is.
type RoadmapRepository interface {
	SaveAll(ctx context.Context, roadmaps []*domain.Roadmap) error
}
