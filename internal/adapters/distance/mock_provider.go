package distance

import (
	"context"
	"fmt"

	"transport-roadmap-service/internal/domain"
)

type MockPair struct {
	From, To domain.Coordinate
	Seconds  int
}

// MockTravelTimeProvider serves canned travel times for tests. Pairs are
// mirrored on construction so either query direction resolves; every
// lookup is counted so tests can assert the oracle call budget.
type MockTravelTimeProvider struct {
	m     map[string]int
	calls int
}

func NewMockTravelTimeProvider(pairs []MockPair) *MockTravelTimeProvider {
	m := make(map[string]int, 2*len(pairs))
	for _, p := range pairs {
		m[pairKey(p.From, p.To)] = p.Seconds
		m[pairKey(p.To, p.From)] = p.Seconds
	}
	return &MockTravelTimeProvider{m: m}
}

func (p *MockTravelTimeProvider) TravelTime(_ context.Context, origin, destination domain.Coordinate) (int, error) {
	p.calls++
	seconds, ok := p.m[pairKey(origin, destination)]
	if !ok {
		return 0, fmt.Errorf("missing pair %v -> %v", origin, destination)
	}
	return seconds, nil
}

// Calls returns how many lookups were made so far.
func (p *MockTravelTimeProvider) Calls() int { return p.calls }

func pairKey(a, b domain.Coordinate) string {
	return fmt.Sprintf("%.6f,%.6f|%.6f,%.6f", a.Lat, a.Lon, b.Lat, b.Lon)
}
