package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"transport-roadmap-service/internal/api/dto"
	"transport-roadmap-service/internal/domain"
	"transport-roadmap-service/internal/metrics"
	"transport-roadmap-service/internal/ports"
	"transport-roadmap-service/internal/services"
)

// SuggestHandler runs the roadmap suggestion engine on demand.
// It coordinates repository access, the travel-time oracle, and optional
// persistence of the accepted result.
type SuggestHandler struct {
	Appointments ports.AppointmentRepository
	Fleet        ports.FleetRepository
	Roadmaps     ports.RoadmapRepository
	Provider     ports.TravelTimeProvider

	Depot        domain.Coordinate
	Epsilon      float64
	MinSamples   int
	SolverBudget time.Duration
}

// Suggest generates roadmaps for one calendar day and optionally persists
// them in a single transaction.
func (h *SuggestHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.SuggestRoadmapsRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	svcReq, err := h.buildRequest(r.Context(), req)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	roadmaps, err := services.SuggestRoadmaps(r.Context(), svcReq, h.Appointments, h.Provider, nil)
	metrics.SuggestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		status, msg := suggestErrorStatus(err)
		metrics.SuggestRuns.WithLabelValues("error").Inc()
		log.Printf("suggest roadmaps failed: %v", err)
		writeError(w, r, status, msg)
		return
	}
	metrics.SuggestRuns.WithLabelValues("ok").Inc()

	if req.Persist {
		if err := h.Roadmaps.SaveAll(r.Context(), roadmaps); err != nil {
			log.Printf("persist roadmaps failed: %v", err)
			writeError(w, r, http.StatusInternalServerError, "failed to persist roadmaps")
			return
		}
	}

	writeJSON(w, r, http.StatusOK, dto.SuggestRoadmapsResponse{
		Roadmaps:  roadmapsToDTO(roadmaps),
		Persisted: req.Persist,
	})
}

// buildRequest validates the body, loads the active fleet, and applies the
// handler's configured defaults.
func (h *SuggestHandler) buildRequest(ctx context.Context, req dto.SuggestRoadmapsRequest) (services.SuggestRequest, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return services.SuggestRequest{}, errors.New("date must be YYYY-MM-DD")
	}

	epsilon := h.Epsilon
	if req.Epsilon != nil {
		if *req.Epsilon <= 0 {
			return services.SuggestRequest{}, errors.New("epsilon must be positive")
		}
		epsilon = *req.Epsilon
	}

	minSamples := h.MinSamples
	if req.MinSamples != nil {
		if *req.MinSamples < 1 {
			return services.SuggestRequest{}, errors.New("min_samples must be at least 1")
		}
		minSamples = *req.MinSamples
	}

	budget := h.SolverBudget
	if req.SolverBudgetSeconds > 0 {
		budget = time.Duration(req.SolverBudgetSeconds) * time.Second
	}

	vehicles, err := h.Fleet.ListActiveVehicles(ctx)
	if err != nil {
		return services.SuggestRequest{}, fmt.Errorf("load vehicles: %w", err)
	}
	drivers, err := h.Fleet.ListActiveDrivers(ctx)
	if err != nil {
		return services.SuggestRequest{}, fmt.Errorf("load drivers: %w", err)
	}

	onCall := make(map[int]bool, len(req.OnCallDriverIDs))
	for _, id := range req.OnCallDriverIDs {
		onCall[id] = true
	}

	return services.SuggestRequest{
		Date:            date,
		Depot:           h.Depot,
		Vehicles:        vehicles,
		Drivers:         drivers,
		OnCallDriverIDs: onCall,
		Epsilon:         epsilon,
		MinSamples:      minSamples,
		SolverBudget:    budget,
	}, nil
}

// suggestErrorStatus maps engine errors onto HTTP semantics: bad input
// data and infeasible fleets are the client's problem, a failing
// travel-time oracle is an upstream outage.
func suggestErrorStatus(err error) (int, string) {
	var inputErr *services.InputError
	if errors.As(err, &inputErr) {
		return http.StatusUnprocessableEntity, inputErr.Reason
	}

	var infeasibleErr *services.SolverInfeasibleError
	if errors.As(err, &infeasibleErr) {
		return http.StatusUnprocessableEntity, infeasibleErr.Error()
	}

	var oracleErr *services.OracleError
	if errors.As(err, &oracleErr) {
		return http.StatusBadGateway, "travel-time provider unavailable"
	}

	return http.StatusInternalServerError, "internal server error"
}

func roadmapsToDTO(roadmaps []*domain.Roadmap) []dto.RoadmapResponse {
	out := make([]dto.RoadmapResponse, 0, len(roadmaps))
	for _, r := range roadmaps {
		stops := make([]dto.RoadmapStopResponse, 0, len(r.Appointments))
		for _, a := range r.Appointments {
			stops = append(stops, dto.RoadmapStopResponse{
				AppointmentID: a.ID,
				At:            a.At,
				Passengers:    a.PassengerCount(),
			})
		}
		out = append(out, dto.RoadmapResponse{
			RoadmapID:    r.ID,
			VehicleID:    r.VehicleID,
			DriverID:     r.DriverID,
			Departure:    r.Departure,
			Arrival:      r.Arrival,
			Appointments: stops,
		})
	}
	return out
}
