package dto

import "time"

type SuggestRoadmapsRequest struct {
	Date                string   `json:"date"`
	Epsilon             *float64 `json:"epsilon"`
	MinSamples          *int     `json:"min_samples"`
	OnCallDriverIDs     []int    `json:"on_call_driver_ids"`
	SolverBudgetSeconds int      `json:"solver_budget_seconds"`
	Persist             bool     `json:"persist"`
}

type RoadmapStopResponse struct {
	AppointmentID int       `json:"appointment_id"`
	At            time.Time `json:"at"`
	Passengers    int       `json:"passengers"`
}

type RoadmapResponse struct {
	RoadmapID    string                `json:"roadmap_id"`
	VehicleID    int                   `json:"vehicle_id"`
	DriverID     *int                  `json:"driver_id"`
	Departure    time.Time             `json:"departure"`
	Arrival      time.Time             `json:"arrival"`
	Appointments []RoadmapStopResponse `json:"appointments"`
}

type SuggestRoadmapsResponse struct {
	Roadmaps  []RoadmapResponse `json:"roadmaps"`
	Persisted bool              `json:"persisted"`
}
