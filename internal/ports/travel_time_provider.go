package ports

import (
	"context"

	"transport-roadmap-service/internal/domain"
)

// Contract for the travel-time oracle wrapping an external driving
// directions service. Implementations may fail on network or API errors;
// the optimizer treats any failure as unrecoverable for the current run.
type TravelTimeProvider interface {
	// Return the driving duration in seconds between two coordinates.
	TravelTime(ctx context.Context, origin, destination domain.Coordinate) (int, error)
}

// Optional cache consulted before the external oracle. A miss is not an
// error: ok=false tells the provider to fall through to the live lookup.
type TravelTimeCache interface {
	Get(ctx context.Context, origin, destination domain.Coordinate) (seconds int, ok bool, err error)
	Put(ctx context.Context, origin, destination domain.Coordinate, seconds int) error
}
