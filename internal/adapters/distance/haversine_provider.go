package distance

import (
	"context"
	"math"

	"github.com/paulmach/orb/geo"

	"transport-roadmap-service/internal/domain"
)

// HaversineTravelTimeProvider estimates travel times from great-circle
// distance at an assumed average urban driving speed. It needs no network
// and no API key, which makes it the default oracle for local runs and a
// fallback when no routing service is configured. Estimates are symmetric
// by construction.
type HaversineTravelTimeProvider struct {
	speedKph float64
}

func NewHaversineTravelTimeProvider(speedKph float64) *HaversineTravelTimeProvider {
	if speedKph <= 0 {
		speedKph = 40
	}
	return &HaversineTravelTimeProvider{speedKph: speedKph}
}

func (p *HaversineTravelTimeProvider) TravelTime(_ context.Context, origin, destination domain.Coordinate) (int, error) {
	meters := geo.Distance(origin.Point(), destination.Point())
	seconds := meters / (p.speedKph / 3.6)
	return int(math.Round(seconds)), nil
}
