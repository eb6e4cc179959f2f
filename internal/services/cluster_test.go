package services

import (
	"reflect"
	"testing"
	"time"

	"transport-roadmap-service/internal/domain"
)

var clusterDepot = domain.Coordinate{Lat: -23.5505, Lon: -46.6333}

func appointmentAt(id int, lat, lon float64, hour, minute int, sensitive bool) *domain.Appointment {
	return &domain.Appointment{
		ID:         id,
		At:         time.Date(2026, 3, 14, hour, minute, 0, 0, time.UTC),
		Location:   domain.Coordinate{Lat: lat, Lon: lon},
		Duration:   30 * time.Minute,
		HasPatient: true,
		Sensitive:  sensitive,
	}
}

func clusterIDs(clusters [][]*domain.Appointment) [][]int {
	out := make([][]int, len(clusters))
	for i, c := range clusters {
		for _, a := range c {
			out[i] = append(out[i], a.ID)
		}
	}
	return out
}

func TestClusterAppointmentsDegenerateInputs(t *testing.T) {
	if got := ClusterAppointments(nil, clusterDepot, 0.5, 2); got != nil {
		t.Errorf("empty input: got %v, want nil", got)
	}

	single := []*domain.Appointment{appointmentAt(1, -23.55, -46.63, 10, 0, false)}
	got := ClusterAppointments(single, clusterDepot, 0.5, 2)
	if len(got) != 1 || len(got[0]) != 1 || got[0][0].ID != 1 {
		t.Errorf("single input: got %v", clusterIDs(got))
	}
}

func TestClusterAppointmentsGroupsNearbyAndIsolatesNoise(t *testing.T) {
	appointments := []*domain.Appointment{
		appointmentAt(1, -23.5510, -46.6330, 10, 0, false),
		appointmentAt(2, -23.5512, -46.6335, 10, 5, false),
		// far away and hours later: DBSCAN noise, must survive as a singleton
		appointmentAt(3, -23.9000, -46.3000, 16, 0, false),
	}

	clusters := ClusterAppointments(appointments, clusterDepot, 0.5, 2)
	got := clusterIDs(clusters)

	want := [][]int{{1, 2}, {3}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("clusters = %v, want %v", got, want)
	}
}

func TestClusterAppointmentsSplitsSensitivePatients(t *testing.T) {
	// identical location and time: raw DBSCAN would group all three
	appointments := []*domain.Appointment{
		appointmentAt(1, -23.5510, -46.6330, 10, 0, false),
		appointmentAt(2, -23.5510, -46.6330, 10, 0, true),
		appointmentAt(3, -23.5510, -46.6330, 10, 0, false),
	}

	clusters := ClusterAppointments(appointments, clusterDepot, 0.5, 2)

	for _, c := range clusters {
		if len(c) > 1 {
			for _, a := range c {
				if a.Sensitive {
					t.Fatalf("sensitive appointment %d shares cluster %v", a.ID, clusterIDs(clusters))
				}
			}
		}
	}

	var sensitiveSingletons, regularTotal int
	for _, c := range clusters {
		if len(c) == 1 && c[0].Sensitive {
			sensitiveSingletons++
		} else {
			regularTotal += len(c)
		}
	}
	if sensitiveSingletons != 1 || regularTotal != 2 {
		t.Errorf("got %d sensitive singletons and %d regular members, want 1 and 2 (clusters %v)",
			sensitiveSingletons, regularTotal, clusterIDs(clusters))
	}
}

func TestClusterAppointmentsDeterministic(t *testing.T) {
	appointments := []*domain.Appointment{
		appointmentAt(1, -23.5510, -46.6330, 9, 0, false),
		appointmentAt(2, -23.5512, -46.6335, 9, 10, false),
		appointmentAt(3, -23.5700, -46.6500, 11, 0, false),
		appointmentAt(4, -23.5702, -46.6498, 11, 5, true),
		appointmentAt(5, -23.9000, -46.3000, 15, 0, false),
	}

	first := clusterIDs(ClusterAppointments(appointments, clusterDepot, 0.5, 2))
	second := clusterIDs(ClusterAppointments(appointments, clusterDepot, 0.5, 2))

	if !reflect.DeepEqual(first, second) {
		t.Errorf("clustering is not stable: %v vs %v", first, second)
	}
}
