package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"transport-roadmap-service/internal/platform/db"
)

// InitSchema creates every table the service needs. Statements are written
// for SQLite first; the few PostgreSQL differences are confined to the
// type aliases below.
func InitSchema(ctx context.Context, database *sql.DB, driver string) error {
	serial := "INTEGER PRIMARY KEY"
	if driver == db.DriverPostgres {
		serial = "SERIAL PRIMARY KEY"
	}

	statements := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS locations (
			location_id %s,
			name TEXT NOT NULL DEFAULT '',
			latitude REAL NOT NULL,
			longitude REAL NOT NULL
		);`, serial),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS drivers (
			driver_id %s,
			name TEXT NOT NULL,
			active INTEGER NOT NULL DEFAULT 1
		);`, serial),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS vehicles (
			vehicle_id %s,
			license_plate TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			capacity INTEGER NOT NULL,
			default_driver_id INTEGER REFERENCES drivers(driver_id),
			active INTEGER NOT NULL DEFAULT 1
		);`, serial),
		`CREATE TABLE IF NOT EXISTS roadmaps (
			roadmap_id TEXT PRIMARY KEY,
			driver_id INTEGER REFERENCES drivers(driver_id),
			vehicle_id INTEGER NOT NULL REFERENCES vehicles(vehicle_id),
			departure TEXT NOT NULL,
			arrival TEXT NOT NULL
		);`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS appointments (
			appointment_id %s,
			at TEXT NOT NULL,
			location_id INTEGER NOT NULL REFERENCES locations(location_id),
			duration_minutes INTEGER NOT NULL DEFAULT 30,
			has_patient INTEGER NOT NULL DEFAULT 1,
			companions INTEGER NOT NULL DEFAULT 0,
			sensitive INTEGER NOT NULL DEFAULT 0,
			roadmap_id TEXT REFERENCES roadmaps(roadmap_id)
		);`, serial),
		`CREATE TABLE IF NOT EXISTS travel_time_cache (
			origin TEXT NOT NULL,
			destination TEXT NOT NULL,
			duration_seconds INTEGER NOT NULL,
			PRIMARY KEY (origin, destination)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_appointments_at ON appointments(at);`,
		`CREATE INDEX IF NOT EXISTS idx_appointments_roadmap ON appointments(roadmap_id);`,
	}

	for _, stmt := range statements {
		if _, err := database.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// Seed file shape, one document covering the whole demo dataset.
type seedFile struct {
	Locations []struct {
		ID   int     `json:"id"`
		Name string  `json:"name"`
		Lat  float64 `json:"lat"`
		Lon  float64 `json:"lon"`
	} `json:"locations"`
	Drivers []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"drivers"`
	Vehicles []struct {
		ID              int    `json:"id"`
		LicensePlate    string `json:"license_plate"`
		Description     string `json:"description"`
		Capacity        int    `json:"capacity"`
		DefaultDriverID *int   `json:"default_driver_id"`
	} `json:"vehicles"`
	Appointments []struct {
		ID         int    `json:"id"`
		At         string `json:"at"`
		LocationID int    `json:"location_id"`
		Duration   int    `json:"duration_minutes"`
		HasPatient bool   `json:"has_patient"`
		Companions int    `json:"companions"`
		Sensitive  bool   `json:"sensitive"`
	} `json:"appointments"`
}

// SeedFromJSON loads a demo dataset into an initialized database. Existing
// rows with the same ids are replaced, so reseeding is idempotent.
func SeedFromJSON(ctx context.Context, database *sql.DB, driver, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("seed: read %q: %w", path, err)
	}

	var seed seedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("seed: parse %q: %w", path, err)
	}

	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	upsertLocation := db.Rebind(driver, `
	INSERT INTO locations (location_id, name, latitude, longitude)
	VALUES (?, ?, ?, ?)
	ON CONFLICT (location_id) DO UPDATE SET
		name = excluded.name, latitude = excluded.latitude, longitude = excluded.longitude;
	`)
	for _, l := range seed.Locations {
		if _, err := tx.ExecContext(ctx, upsertLocation, l.ID, l.Name, l.Lat, l.Lon); err != nil {
			return fmt.Errorf("seed: location %d: %w", l.ID, err)
		}
	}

	upsertDriver := db.Rebind(driver, `
	INSERT INTO drivers (driver_id, name, active)
	VALUES (?, ?, 1)
	ON CONFLICT (driver_id) DO UPDATE SET name = excluded.name, active = 1;
	`)
	for _, d := range seed.Drivers {
		if _, err := tx.ExecContext(ctx, upsertDriver, d.ID, d.Name); err != nil {
			return fmt.Errorf("seed: driver %d: %w", d.ID, err)
		}
	}

	upsertVehicle := db.Rebind(driver, `
	INSERT INTO vehicles (vehicle_id, license_plate, description, capacity, default_driver_id, active)
	VALUES (?, ?, ?, ?, ?, 1)
	ON CONFLICT (vehicle_id) DO UPDATE SET
		license_plate = excluded.license_plate, description = excluded.description,
		capacity = excluded.capacity, default_driver_id = excluded.default_driver_id, active = 1;
	`)
	for _, v := range seed.Vehicles {
		var defaultDriver any
		if v.DefaultDriverID != nil {
			defaultDriver = *v.DefaultDriverID
		}
		if _, err := tx.ExecContext(ctx, upsertVehicle,
			v.ID, v.LicensePlate, v.Description, v.Capacity, defaultDriver); err != nil {
			return fmt.Errorf("seed: vehicle %d: %w", v.ID, err)
		}
	}

	upsertAppointment := db.Rebind(driver, `
	INSERT INTO appointments (appointment_id, at, location_id, duration_minutes, has_patient, companions, sensitive)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (appointment_id) DO UPDATE SET
		at = excluded.at, location_id = excluded.location_id,
		duration_minutes = excluded.duration_minutes, has_patient = excluded.has_patient,
		companions = excluded.companions, sensitive = excluded.sensitive;
	`)
	for _, a := range seed.Appointments {
		if _, err := time.Parse(time.RFC3339, a.At); err != nil {
			return fmt.Errorf("seed: appointment %d: bad timestamp %q: %w", a.ID, a.At, err)
		}
		if _, err := tx.ExecContext(ctx, upsertAppointment,
			a.ID, a.At, a.LocationID, a.Duration,
			boolToInt(a.HasPatient), a.Companions, boolToInt(a.Sensitive)); err != nil {
			return fmt.Errorf("seed: appointment %d: %w", a.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit tx: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
