package dto

import "time"

type AppointmentResponse struct {
	AppointmentID   int       `json:"appointment_id"`
	At              time.Time `json:"at"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	DurationMinutes int       `json:"duration_minutes"`
	HasPatient      bool      `json:"has_patient"`
	Companions      int       `json:"companions"`
	Sensitive       bool      `json:"sensitive"`
}

type ListAppointmentsResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}
