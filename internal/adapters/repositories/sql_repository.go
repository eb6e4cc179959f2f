package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"transport-roadmap-service/internal/domain"
	"transport-roadmap-service/internal/platform/db"
)

// SQL-backed implementation of the appointment, fleet and roadmap ports.
// Queries use `?` placeholders and are rebound per driver, so the same
// repository serves the embedded SQLite database and PostgreSQL.
type SQLRepository struct {
	DB     *sql.DB
	Driver string
}

func NewSQLRepository(database *sql.DB, driver string) *SQLRepository {
	return &SQLRepository{DB: database, Driver: driver}
}

// ListUnscheduled returns the appointments without a roadmap reference for
// the given calendar date, ordered by time, with coordinates materialized.
func (s *SQLRepository) ListUnscheduled(ctx context.Context, date time.Time) ([]*domain.Appointment, error) {
	if s.DB == nil {
		return nil, errors.New("sql repository: DB is nil")
	}

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	query := db.Rebind(s.Driver, `
	SELECT
		a.appointment_id,
		a.at,
		l.latitude,
		l.longitude,
		a.duration_minutes,
		a.has_patient,
		a.companions,
		a.sensitive
	FROM appointments a
	JOIN locations l ON l.location_id = a.location_id
	WHERE a.roadmap_id IS NULL
	  AND a.at >= ? AND a.at < ?
	ORDER BY a.at, a.appointment_id;
	`)

	rows, err := s.DB.QueryContext(ctx, query, dayStart.Format(time.RFC3339), dayEnd.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("list unscheduled: query appointments: %w", err)
	}
	defer rows.Close()

	appointments := make([]*domain.Appointment, 0, 32)
	for rows.Next() {
		var (
			id, durationMin, companions  int
			hasPatient, sensitive        int
			at                           string
			lat, lon                     float64
		)
		if err := rows.Scan(&id, &at, &lat, &lon, &durationMin, &hasPatient, &companions, &sensitive); err != nil {
			return nil, fmt.Errorf("list unscheduled: scan row: %w", err)
		}

		parsedAt, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return nil, fmt.Errorf("list unscheduled: appointment %d: parse time %q: %w", id, at, err)
		}

		appointments = append(appointments, &domain.Appointment{
			ID:         id,
			At:         parsedAt,
			Location:   domain.Coordinate{Lat: lat, Lon: lon},
			Duration:   time.Duration(durationMin) * time.Minute,
			HasPatient: hasPatient != 0,
			Companions: companions,
			Sensitive:  sensitive != 0,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list unscheduled: row iteration: %w", err)
	}

	return appointments, nil
}

// ListActiveVehicles returns the active fleet ordered by id.
func (s *SQLRepository) ListActiveVehicles(ctx context.Context) ([]*domain.Vehicle, error) {
	if s.DB == nil {
		return nil, errors.New("sql repository: DB is nil")
	}

	query := `
	SELECT vehicle_id, license_plate, description, capacity, default_driver_id
	FROM vehicles
	WHERE active = 1
	ORDER BY vehicle_id;
	`

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: query: %w", err)
	}
	defer rows.Close()

	vehicles := make([]*domain.Vehicle, 0, 16)
	for rows.Next() {
		var (
			v             domain.Vehicle
			defaultDriver sql.NullInt64
		)
		if err := rows.Scan(&v.ID, &v.LicensePlate, &v.Description, &v.Capacity, &defaultDriver); err != nil {
			return nil, fmt.Errorf("list vehicles: scan row: %w", err)
		}
		if defaultDriver.Valid {
			id := int(defaultDriver.Int64)
			v.DefaultDriverID = &id
		}
		v.Active = true
		vehicles = append(vehicles, &v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list vehicles: row iteration: %w", err)
	}

	return vehicles, nil
}

// ListActiveDrivers returns the active drivers ordered by id.
func (s *SQLRepository) ListActiveDrivers(ctx context.Context) ([]*domain.Driver, error) {
	if s.DB == nil {
		return nil, errors.New("sql repository: DB is nil")
	}

	query := `
	SELECT driver_id, name
	FROM drivers
	WHERE active = 1
	ORDER BY driver_id;
	`

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list drivers: query: %w", err)
	}
	defer rows.Close()

	drivers := make([]*domain.Driver, 0, 16)
	for rows.Next() {
		var d domain.Driver
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, fmt.Errorf("list drivers: scan row: %w", err)
		}
		d.Active = true
		drivers = append(drivers, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list drivers: row iteration: %w", err)
	}

	return drivers, nil
}

// SaveAll persists generated roadmaps and their appointment
// back-references in a single transaction: a failure rolls everything
// back so no partial suggestion ever lands.
func (s *SQLRepository) SaveAll(ctx context.Context, roadmaps []*domain.Roadmap) error {
	if s.DB == nil {
		return errors.New("sql repository: DB is nil")
	}
	if len(roadmaps) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save roadmaps: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	insertRoadmap := db.Rebind(s.Driver, `
	INSERT INTO roadmaps (roadmap_id, driver_id, vehicle_id, departure, arrival)
	VALUES (?, ?, ?, ?, ?);
	`)
	linkAppointment := db.Rebind(s.Driver, `
	UPDATE appointments SET roadmap_id = ? WHERE appointment_id = ?;
	`)

	for _, r := range roadmaps {
		var driverID any
		if r.DriverID != nil {
			driverID = *r.DriverID
		}

		if _, err := tx.ExecContext(ctx, insertRoadmap,
			r.ID, driverID, r.VehicleID,
			r.Departure.Format(time.RFC3339), r.Arrival.Format(time.RFC3339),
		); err != nil {
			return fmt.Errorf("save roadmaps: insert roadmap %s: %w", r.ID, err)
		}

		for _, a := range r.Appointments {
			if _, err := tx.ExecContext(ctx, linkAppointment, r.ID, a.ID); err != nil {
				return fmt.Errorf("save roadmaps: link appointment %d: %w", a.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save roadmaps: commit tx: %w", err)
	}

	return nil
}
