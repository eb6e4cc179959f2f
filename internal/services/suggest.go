package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"transport-roadmap-service/internal/domain"
	"transport-roadmap-service/internal/ports"
	"transport-roadmap-service/internal/solver"
)

const defaultSolverBudget = 30 * time.Second

// SuggestRequest carries everything a suggestion run needs besides the
// collaborator ports: fully-materialized fleet records and operator
// configuration. The engine never touches live persistence handles.
type SuggestRequest struct {
	Date            time.Time
	Depot           domain.Coordinate
	Vehicles        []*domain.Vehicle
	Drivers         []*domain.Driver
	OnCallDriverIDs map[int]bool
	Epsilon         float64
	MinSamples      int
	SolverBudget    time.Duration
}

// SuggestRoadmaps generates optimized vehicle roadmaps for one calendar
// day: load unscheduled appointments, build the all-pairs travel-time
// matrix, cluster by space and time, route each cluster under capacity and
// time-window constraints, assemble timestamped roadmaps, and greedily
// assign free drivers to the ones whose vehicle has no default driver.
//
// The returned roadmaps are ordered by departure and ready for the caller
// to persist in one transaction. Used-vehicle and driver-occupancy state
// lives entirely inside this call; runs are independent.
func SuggestRoadmaps(
	ctx context.Context,
	req SuggestRequest,
	appointments ports.AppointmentRepository,
	provider ports.TravelTimeProvider,
	sink ports.ProgressSink,
) ([]*domain.Roadmap, error) {
	if sink == nil {
		sink = ports.NopProgress
	}
	budget := req.SolverBudget
	if budget <= 0 {
		budget = defaultSolverBudget
	}

	day, err := appointments.ListUnscheduled(ctx, req.Date)
	if err != nil {
		return nil, fmt.Errorf("suggest roadmaps: list unscheduled appointments: %w", err)
	}
	if len(day) == 0 {
		return nil, &InputError{Reason: fmt.Sprintf(
			"no unscheduled appointments for %s", req.Date.Format("2006-01-02"),
		)}
	}

	vehicles := sortVehiclesByPriority(req.Vehicles, req.OnCallDriverIDs)
	if err := checkFleetCapacity(day, vehicles); err != nil {
		return nil, err
	}

	sink.Progress(fmt.Sprintf("planning %d appointments with %d vehicles", len(day), len(vehicles)))

	matrix, err := BuildTravelTimeMatrix(ctx, req.Depot, day, provider, sink)
	if err != nil {
		return nil, err
	}

	// appointment id -> global matrix node index (0 is the depot)
	nodeIndex := make(map[int]int, len(day))
	for i, a := range day {
		nodeIndex[a.ID] = i + 1
	}

	clusters := ClusterAppointments(day, req.Depot, req.Epsilon, req.MinSamples)
	sink.Progress(fmt.Sprintf("grouped %d appointments into %d trips", len(day), len(clusters)))

	used := make(map[int]bool)
	var roadmaps []*domain.Roadmap

	for ci, cluster := range clusters {
		built, err := routeCluster(req.Date, cluster, vehicles, used, matrix, nodeIndex, budget)
		if err != nil {
			return nil, err
		}
		roadmaps = append(roadmaps, built...)
		sink.Progress(fmt.Sprintf("routed trip %d/%d", ci+1, len(clusters)))
	}

	sort.SliceStable(roadmaps, func(i, j int) bool {
		return roadmaps[i].Departure.Before(roadmaps[j].Departure)
	})

	AssignDrivers(roadmaps, req.Drivers, req.OnCallDriverIDs)
	sink.Progress(fmt.Sprintf("generated %d roadmaps", len(roadmaps)))

	return roadmaps, nil
}

// routeCluster produces the roadmaps for one cluster, consuming vehicles
// from the shared used set. Singleton clusters skip the combinatorial
// solver and take the best-fit vehicle directly.
func routeCluster(
	date time.Time,
	cluster []*domain.Appointment,
	vehicles []*domain.Vehicle,
	used map[int]bool,
	matrix domain.TravelTimeMatrix,
	nodeIndex map[int]int,
	budget time.Duration,
) ([]*domain.Roadmap, error) {
	if len(cluster) == 1 {
		vehicle, err := SelectVehicle(vehicles, used, cluster[0].PassengerCount())
		if err != nil {
			return nil, err
		}
		used[vehicle.ID] = true
		return []*domain.Roadmap{AssembleRoadmap(date, cluster, vehicle, matrix, nodeIndex)}, nil
	}

	minDemand := cluster[0].PassengerCount()
	for _, a := range cluster[1:] {
		if d := a.PassengerCount(); d < minDemand {
			minDemand = d
		}
	}

	var eligible []*domain.Vehicle
	for _, v := range vehicles {
		if !used[v.ID] && v.Capacity >= minDemand {
			eligible = append(eligible, v)
		}
	}
	if len(eligible) == 0 {
		return nil, &InputError{Reason: fmt.Sprintf(
			"no vehicle available for a trip of %d appointments", len(cluster),
		)}
	}
	if len(eligible) > len(cluster) {
		eligible = eligible[:len(cluster)]
	}

	problem := buildProblem(cluster, eligible, matrix, nodeIndex)
	routes, err := solver.Solve(problem, budget)
	if err != nil {
		if errors.Is(err, solver.ErrInfeasible) {
			return nil, &SolverInfeasibleError{ClusterSize: len(cluster)}
		}
		return nil, fmt.Errorf("suggest roadmaps: solve cluster of %d: %w", len(cluster), err)
	}

	out := make([]*domain.Roadmap, 0, len(routes))
	for _, route := range routes {
		vehicle := eligible[route.Vehicle]
		used[vehicle.ID] = true

		stops := make([]*domain.Appointment, 0, len(route.Stops))
		for _, s := range route.Stops {
			stops = append(stops, cluster[s])
		}
		out = append(out, AssembleRoadmap(date, stops, vehicle, matrix, nodeIndex))
	}
	return out, nil
}

// buildProblem restricts the global travel-time matrix to the cluster's
// node set and derives per-appointment time windows: arrive at least 15
// minutes early, at most 90 minutes early, and never before the vehicle
// could physically have covered the depot leg.
func buildProblem(
	cluster []*domain.Appointment,
	eligible []*domain.Vehicle,
	matrix domain.TravelTimeMatrix,
	nodeIndex map[int]int,
) solver.Problem {
	globalIdx := make([]int, len(cluster)+1)
	for i, a := range cluster {
		globalIdx[i+1] = nodeIndex[a.ID]
	}

	travel := make([][]int, len(cluster)+1)
	for i := range travel {
		travel[i] = make([]int, len(cluster)+1)
		for j := range travel[i] {
			travel[i][j] = matrix.At(globalIdx[i], globalIdx[j])
		}
	}

	nodes := make([]solver.Node, len(cluster))
	for i, a := range cluster {
		at := secondsOfDay(a.At)
		latest := at - int(arrivalMargin.Seconds())
		earliest := at - int(earliestBeforeAt.Seconds())
		if earliest < 0 {
			earliest = 0
		}
		if depotLeg := matrix.At(0, nodeIndex[a.ID]); earliest < depotLeg {
			earliest = depotLeg
		}
		nodes[i] = solver.Node{
			Demand:   a.PassengerCount(),
			Earliest: earliest,
			Latest:   latest,
		}
	}

	caps := make([]int, len(eligible))
	for i, v := range eligible {
		caps[i] = v.Capacity
	}

	return solver.Problem{Travel: travel, Nodes: nodes, Capacities: caps}
}

// checkFleetCapacity fails fast when some appointment cannot fit any
// supplied vehicle at all, regardless of routing.
func checkFleetCapacity(appointments []*domain.Appointment, vehicles []*domain.Vehicle) error {
	maxCapacity := 0
	for _, v := range vehicles {
		if v.Capacity > maxCapacity {
			maxCapacity = v.Capacity
		}
	}
	for _, a := range appointments {
		if a.PassengerCount() > maxCapacity {
			return &InputError{Reason: fmt.Sprintf(
				"insufficient vehicle capacity: appointment %d needs %d seats, largest vehicle holds %d",
				a.ID, a.PassengerCount(), maxCapacity,
			)}
		}
	}
	return nil
}

// sortVehiclesByPriority orders the fleet for consumption: vehicles whose
// default driver is a regular driver first, then ones whose default driver
// is on call, then vehicles with no default driver. Stable, so the
// caller's ordering breaks ties.
func sortVehiclesByPriority(vehicles []*domain.Vehicle, onCallIDs map[int]bool) []*domain.Vehicle {
	sorted := append([]*domain.Vehicle(nil), vehicles...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return vehiclePriority(sorted[i], onCallIDs) < vehiclePriority(sorted[j], onCallIDs)
	})
	return sorted
}

func vehiclePriority(v *domain.Vehicle, onCallIDs map[int]bool) int {
	switch {
	case v.DefaultDriverID == nil:
		return 2
	case onCallIDs[*v.DefaultDriverID]:
		return 1
	default:
		return 0
	}
}

func secondsOfDay(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}
