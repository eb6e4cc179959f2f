package api

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"transport-roadmap-service/internal/api/handlers"
	"transport-roadmap-service/internal/domain"
	"transport-roadmap-service/internal/metrics"
	"transport-roadmap-service/internal/ports"
)

// Config carries the operator-tunable defaults the suggest endpoints fall
// back to when a request omits them.
type Config struct {
	Depot        domain.Coordinate
	Epsilon      float64
	MinSamples   int
	SolverBudget time.Duration
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	appointments ports.AppointmentRepository,
	fleet ports.FleetRepository,
	roadmaps ports.RoadmapRepository,
	provider ports.TravelTimeProvider,
	cfg Config,
) http.Handler {
	metrics.RegisterDefault()

	mux := http.NewServeMux()

	apptHandler := &handlers.AppointmentHandler{Repo: appointments}
	suggestHandler := &handlers.SuggestHandler{
		Appointments: appointments,
		Fleet:        fleet,
		Roadmaps:     roadmaps,
		Provider:     provider,
		Depot:        cfg.Depot,
		Epsilon:      cfg.Epsilon,
		MinSamples:   cfg.MinSamples,
		SolverBudget: cfg.SolverBudget,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/v1/appointments", apptHandler.List)
	mux.HandleFunc("/v1/roadmaps/suggest", suggestHandler.Suggest)
	mux.HandleFunc("/v1/roadmaps/suggest/stream", suggestHandler.SuggestStream)

	return loggingMiddleware(mux)
}
