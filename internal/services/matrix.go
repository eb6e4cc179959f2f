package services

import (
	"context"
	"fmt"

	"transport-roadmap-service/internal/domain"
	"transport-roadmap-service/internal/ports"
)

// BuildTravelTimeMatrix queries the travel-time oracle for every unordered
// pair among the depot and the day's appointments and mirrors each result
// into both directions. Travel time is treated as symmetric, a declared
// approximation rather than a guarantee of the underlying API.
//
// This is the slowest step of a run (external network calls), so a
// percentage progress message is emitted after each pair. Any oracle
// failure aborts the whole build: a partial matrix is unusable.
func BuildTravelTimeMatrix(
	ctx context.Context,
	depot domain.Coordinate,
	appointments []*domain.Appointment,
	provider ports.TravelTimeProvider,
	sink ports.ProgressSink,
) (domain.TravelTimeMatrix, error) {
	n := len(appointments)
	matrix := domain.NewTravelTimeMatrix(n + 1)

	// node 0 is the depot, nodes 1..n follow the appointment list order
	coords := make([]domain.Coordinate, 0, n+1)
	coords = append(coords, depot)
	for _, a := range appointments {
		coords = append(coords, a.Location)
	}

	pairTotal := (n + 1) * n / 2
	pairDone := 0

	for i := 0; i <= n; i++ {
		for j := i + 1; j <= n; j++ {
			seconds, err := provider.TravelTime(ctx, coords[i], coords[j])
			if err != nil {
				return nil, &OracleError{Err: fmt.Errorf("pair %d->%d: %w", i, j, err)}
			}
			matrix.Set(i, j, seconds)

			pairDone++
			sink.Progress(fmt.Sprintf(
				"computing travel times: %d%% (%d/%d pairs)",
				pairDone*100/pairTotal, pairDone, pairTotal,
			))
		}
	}

	return matrix, nil
}
