package domain

import "github.com/paulmach/orb"

// Immutable geographic coordinates (latitude, longitude in degrees).
type Coordinate struct {
	Lat float64
	Lon float64
}

// Return the coordinate as an orb point ([lon, lat]) for geo math and
// external API compatibility.
func (c Coordinate) Point() orb.Point { return orb.Point{c.Lon, c.Lat} }
