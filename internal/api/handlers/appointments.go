package handlers

import (
	"log"
	"net/http"
	"time"

	"transport-roadmap-service/internal/api/dto"
	"transport-roadmap-service/internal/ports"
)

// AppointmentHandler exposes read-only appointment retrieval endpoints.
type AppointmentHandler struct {
	Repo ports.AppointmentRepository
}

// List returns the unscheduled appointments for a date (?date=YYYY-MM-DD,
// defaults to today).
func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	date := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	appointments, err := h.Repo.ListUnscheduled(r.Context(), date)
	if err != nil {
		log.Printf("list appointments failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListAppointmentsResponse{
		Appointments: make([]dto.AppointmentResponse, 0, len(appointments)),
	}
	for _, a := range appointments {
		res.Appointments = append(res.Appointments, dto.AppointmentResponse{
			AppointmentID:   a.ID,
			At:              a.At,
			Latitude:        a.Location.Lat,
			Longitude:       a.Location.Lon,
			DurationMinutes: int(a.Duration.Minutes()),
			HasPatient:      a.HasPatient,
			Companions:      a.Companions,
			Sensitive:       a.Sensitive,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
