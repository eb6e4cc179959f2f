package services

import (
	"math"

	"transport-roadmap-service/internal/domain"
)

// spacetime feature scaling: ~0.1 degree of latitude/longitude weighs the
// same as ~6 minutes of clock time. Fixed domain tuning, not configurable.
const (
	spatialScale = 10.0
	timeScale    = 30.0
)

// ClusterAppointments groups the day's appointments for independent
// routing. Each appointment becomes a 3-D feature (scaled latitude and
// longitude offsets from the depot, scaled time of day) and is clustered
// with DBSCAN; noise points survive as singleton clusters instead of being
// discarded. A post-pass isolates every sensitive-patient appointment into
// its own singleton so it is never co-routed with other appointments.
//
// Deterministic for a fixed input order.
func ClusterAppointments(
	appointments []*domain.Appointment,
	depot domain.Coordinate,
	epsilon float64,
	minSamples int,
) [][]*domain.Appointment {
	if len(appointments) <= 1 {
		if len(appointments) == 0 {
			return nil
		}
		return [][]*domain.Appointment{appointments}
	}

	features := normalize(appointments, depot)
	labels := dbscan(features, epsilon, minSamples)

	// group by label preserving first-seen order; noise points (label -1)
	// each get a fresh cluster
	var clusters [][]*domain.Appointment
	byLabel := map[int]int{}
	for i, label := range labels {
		if label < 0 {
			clusters = append(clusters, []*domain.Appointment{appointments[i]})
			continue
		}
		ci, ok := byLabel[label]
		if !ok {
			ci = len(clusters)
			byLabel[label] = ci
			clusters = append(clusters, nil)
		}
		clusters[ci] = append(clusters[ci], appointments[i])
	}

	return splitSensitive(clusters)
}

func normalize(appointments []*domain.Appointment, depot domain.Coordinate) [][3]float64 {
	features := make([][3]float64, len(appointments))
	for i, a := range appointments {
		minutes := float64(a.At.Hour()*60 + a.At.Minute())
		features[i] = [3]float64{
			(a.Location.Lat - depot.Lat) * spatialScale,
			(a.Location.Lon - depot.Lon) * spatialScale,
			minutes / timeScale,
		}
	}
	return features
}

// dbscan labels each point with a cluster id, or -1 for noise. Points are
// visited in input order and clusters grow breadth-first, which keeps the
// partition stable across runs.
func dbscan(points [][3]float64, epsilon float64, minSamples int) []int {
	const (
		unvisited = -2
		noise     = -1
	)

	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = unvisited
	}

	next := 0
	for i := range points {
		if labels[i] != unvisited {
			continue
		}

		neighbors := regionQuery(points, i, epsilon)
		if len(neighbors) < minSamples {
			labels[i] = noise
			continue
		}

		cluster := next
		next++
		labels[i] = cluster

		// breadth-first expansion over density-reachable points
		queue := append([]int(nil), neighbors...)
		for qi := 0; qi < len(queue); qi++ {
			j := queue[qi]
			if labels[j] == noise {
				labels[j] = cluster // border point
			}
			if labels[j] != unvisited {
				continue
			}
			labels[j] = cluster

			jNeighbors := regionQuery(points, j, epsilon)
			if len(jNeighbors) >= minSamples {
				queue = append(queue, jNeighbors...)
			}
		}
	}

	return labels
}

// regionQuery returns the indices within epsilon of point i, including i
// itself (DBSCAN counts the point toward its own density).
func regionQuery(points [][3]float64, i int, epsilon float64) []int {
	var neighbors []int
	for j := range points {
		dx := points[i][0] - points[j][0]
		dy := points[i][1] - points[j][1]
		dz := points[i][2] - points[j][2]
		if math.Sqrt(dx*dx+dy*dy+dz*dz) <= epsilon {
			neighbors = append(neighbors, j)
		}
	}
	return neighbors
}

// splitSensitive pulls every sensitive-patient appointment out of its
// cluster into a singleton; the remaining members stay grouped.
func splitSensitive(clusters [][]*domain.Appointment) [][]*domain.Appointment {
	var out [][]*domain.Appointment
	for _, cluster := range clusters {
		var regular []*domain.Appointment
		for _, a := range cluster {
			if a.Sensitive {
				out = append(out, []*domain.Appointment{a})
			} else {
				regular = append(regular, a)
			}
		}
		if len(regular) > 0 {
			out = append(out, regular)
		}
	}
	return out
}
